package rsu

import (
	"gonum.org/v1/gonum/stat"
)

// Track 路侧单元对单个行人的跟踪记录
// 功能：保存各扫描点的最新读数、最强读数历史及其统计量、最近一次推断结果
type Track struct {
	ID          string         // 行人ID
	Readings    map[string]int // 各扫描点最新RSSI
	BestScanner string         // 最强读数所在扫描点
	SignalDbm   int            // 最强读数
	History     []float64      // 最强读数历史（最旧的在前）
	MeanDbm     float64        // 历史均值
	StdDevDb    float64        // 历史标准差（总体）
	// 行人静止以来（含静止前最后一个位置）读数的标准差，未静止时为0
	StationaryStdDevDb float64
	Verdict            Verdict // 最近一次推断结果
	Observed           int32   // 被观测的步数
}

func newTrack(id string) *Track {
	return &Track{
		ID:       id,
		Readings: make(map[string]int),
	}
}

// record 记录一次观测的读数
// 参数：o-本步观测，historySize-历史长度上限（0表示只保留当前值），stationaryFrames-行人连续静止步数
// 说明：统计量使用gonum总体均值与标准差；推断结果在推断完成后另行写入
func (t *Track) record(o Observation, historySize, stationaryFrames int) {
	for k, v := range o.Readings {
		t.Readings[k] = v
	}
	t.BestScanner = o.Scanner
	t.SignalDbm = o.SignalDbm
	t.Observed++

	t.History = append(t.History, float64(o.SignalDbm))
	limit := historySize
	if limit <= 0 {
		limit = 1
	}
	if over := len(t.History) - limit; over > 0 {
		t.History = append(t.History[:0], t.History[over:]...)
	}
	t.MeanDbm, t.StdDevDb = stat.PopMeanStdDev(t.History, nil)

	t.StationaryStdDevDb = 0
	// 连续静止k步时，最近k+1个读数来自同一位置
	if n := min(stationaryFrames+1, len(t.History)); stationaryFrames > 0 && n >= 2 {
		_, t.StationaryStdDevDb = stat.PopMeanStdDev(t.History[len(t.History)-n:], nil)
	}
}

// clone 深拷贝，供外部读取
func (t *Track) clone() Track {
	c := *t
	c.Readings = make(map[string]int, len(t.Readings))
	for k, v := range t.Readings {
		c.Readings[k] = v
	}
	c.History = append([]float64(nil), t.History...)
	return c
}

package rsu

import (
	"fmt"
	"sort"
	"sync"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/pedestrian"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
)

// Scanner 扫描点
type Scanner struct {
	ID  string
	Pos entity.Point
}

// Observation 单个行人在一步中的观测结果
type Observation struct {
	ID        string         // 行人ID
	Readings  map[string]int // 各扫描点RSSI
	Scanner   string         // 最强读数所在扫描点
	SignalDbm int            // 最强读数
	Verdict   Verdict        // 推断结果
	Button    bool           // 是否按下过街按钮
}

// Requests 该观测是否构成过街请求
// 说明：推断出意图，或非异常行人按下按钮
func (o Observation) Requests() bool {
	return o.Verdict.Intent || (o.Button && !o.Verdict.Anomalous)
}

// RSU 路侧单元
// 功能：对检测范围内的行人计算信号强度并推断异常与过街意图，汇总为单个过街请求
// 说明：读数与跟踪记录按输入顺序串行计算，各行人的推断互不共享可变状态，并行执行
type RSU struct {
	ctx entity.ITaskContext

	id          string
	scanners    []Scanner
	txPowerDbm  int
	historySize int

	model  SignalModel
	policy Policy

	tracks    map[string]*Track
	tracksMtx sync.RWMutex

	lastRequest bool
}

// New 创建路侧单元
// 功能：根据运行时配置创建扫描点、信号模型与推断策略
// 参数：ctx-任务上下文，id-路侧单元名称
// 返回：路侧单元与错误
// 说明：shadow_fading_sigma_db > 0时使用带阴影衰落的信号模型
func New(ctx entity.ITaskContext, id string) (*RSU, error) {
	cfg := ctx.RuntimeConfig().All.RSU
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rsu %s: %w", id, err)
	}
	policy, err := NewPolicy(cfg)
	if err != nil {
		return nil, fmt.Errorf("rsu %s: %w", id, err)
	}
	var model SignalModel = PathLossModel{}
	if cfg.ShadowFadingSigmaDb > 0 {
		model = NewShadowingModel(model, cfg.ShadowFadingSigmaDb, cfg.RssiValidRangeDbm, cfg.Seed)
	}
	return &RSU{
		ctx: ctx,
		id:  id,
		scanners: lo.Map(cfg.Scanners, func(s config.Scanner, _ int) Scanner {
			return Scanner{ID: s.ID, Pos: entity.Point{X: s.Pos.X, Y: s.Pos.Y}}
		}),
		txPowerDbm:  cfg.TxPowerDbm,
		historySize: cfg.HistorySize,
		model:       model,
		policy:      policy,
		tracks:      make(map[string]*Track),
	}, nil
}

func (r *RSU) ID() string {
	return r.id
}

func (r *RSU) Scanners() []Scanner {
	return r.scanners
}

// SetPolicy 替换推断策略
func (r *RSU) SetPolicy(p Policy) {
	r.policy = p
}

// Strongest 计算行人在所有扫描点的读数
// 参数：pos-行人位置
// 返回：各扫描点读数、最强读数所在扫描点、最强读数
// 说明：读数相同时取配置中靠前的扫描点
func (r *RSU) Strongest(pos entity.Point) (map[string]int, string, int) {
	readings := make(map[string]int, len(r.scanners))
	best, bestDbm := "", 0
	for i, s := range r.scanners {
		dbm := r.model.Strength(pos, s.Pos, r.txPowerDbm)
		readings[s.ID] = dbm
		if i == 0 || dbm > bestDbm {
			best, bestDbm = s.ID, dbm
		}
	}
	return readings, best, bestDbm
}

// evaluate 对单个行人执行推断，并把推断结果写回行人
// 参数：p-行人，o-本步读数，track-该行人的跟踪记录（只读）
// 返回：补全推断结果后的观测
func (r *RSU) evaluate(p *pedestrian.Pedestrian, o Observation, track *Track) Observation {
	v := r.policy.Evaluate(p, o.SignalDbm, track)
	if v.Anomalous != p.Anomalous || v.Intent != p.IntentToCross {
		log.Debugf("pedestrian %s: rssi=%d(%s) anomalous=%v intent=%v", p.ID, o.SignalDbm, o.Scanner, v.Anomalous, v.Intent)
	}
	p.Anomalous = v.Anomalous
	p.IntentToCross = v.Intent
	o.Verdict = v
	return o
}

// Scan 扫描一步
// 功能：计算所有行人的读数并更新跟踪记录，并行推断，汇总过街请求
// 参数：pedestrians-当前检测范围内的行人（ID互不相同）
// 返回：各行人观测结果（与输入同序）与汇总后的过街请求（逻辑或）
// 算法说明：
// 1. 按输入顺序串行计算读数并写入跟踪记录，带随机性的信号模型按固定顺序取数，相同种子结果可复现
// 2. 并行执行每个行人的推断，每个goroutine只写自己的行人，跟踪记录只读
// 3. 串行写入推断结果，删除已不在输入中的行人的记录
// 4. 任一观测构成请求即发出过街请求
func (r *RSU) Scan(pedestrians []*pedestrian.Pedestrian) ([]Observation, bool) {
	r.tracksMtx.Lock()
	defer r.tracksMtx.Unlock()

	type pending struct {
		p     *pedestrian.Pedestrian
		o     Observation
		track *Track
	}
	items := make([]pending, len(pedestrians))
	seen := make(map[string]struct{}, len(pedestrians))
	for i, p := range pedestrians {
		readings, scanner, dbm := r.Strongest(p.Pos)
		o := Observation{
			ID:        p.ID,
			Readings:  readings,
			Scanner:   scanner,
			SignalDbm: dbm,
			Button:    p.ButtonPressed,
		}
		t, ok := r.tracks[p.ID]
		if !ok {
			t = newTrack(p.ID)
			r.tracks[p.ID] = t
		}
		t.record(o, r.historySize, p.FramesStationary)
		seen[p.ID] = struct{}{}
		items[i] = pending{p: p, o: o, track: t}
	}

	observations := parallel.GoMap(items, func(it pending) Observation {
		return r.evaluate(it.p, it.o, it.track)
	})

	for i, o := range observations {
		items[i].track.Verdict = o.Verdict
	}
	for id := range r.tracks {
		if _, ok := seen[id]; !ok {
			delete(r.tracks, id)
		}
	}

	request := lo.SomeBy(observations, Observation.Requests)
	if request != r.lastRequest {
		log.Infof("rsu %s: crossing request %v", r.id, request)
		r.lastRequest = request
	}
	return observations, request
}

// Track 获取行人的跟踪记录副本
func (r *RSU) Track(id string) (Track, bool) {
	r.tracksMtx.RLock()
	defer r.tracksMtx.RUnlock()
	t, ok := r.tracks[id]
	if !ok {
		return Track{}, false
	}
	return t.clone(), true
}

// TrackIDs 所有跟踪中的行人ID（升序）
func (r *RSU) TrackIDs() []string {
	r.tracksMtx.RLock()
	ids := lo.Keys(r.tracks)
	r.tracksMtx.RUnlock()
	sort.Strings(ids)
	return ids
}

// InRange 位置是否在任一扫描点的检测距离内
// 说明：maxDistance <= 0表示不限制
func (r *RSU) InRange(pos entity.Point, maxDistance int) bool {
	if maxDistance <= 0 {
		return true
	}
	limit := maxDistance * maxDistance
	return lo.SomeBy(r.scanners, func(s Scanner) bool {
		return pos.Sub(s.Pos).SquaredNorm() <= limit
	})
}

package rsu

import (
	"math"

	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/randengine"
)

// 距离下限，小于该值的距离按该值计算，避免log10(0)
const minSignalDistance = 1.0

// SignalModel 接近度到接收信号强度的模型
type SignalModel interface {
	// Strength 估计扫描点处收到的信号强度（dBm）
	Strength(pos, scanner entity.Point, basePowerDbm int) int
}

// PathLossModel 自由空间路径损耗模型
// 功能：RSSI = basePower - trunc(20*log10(d))
// 说明：d < 1时按d = 1处理，即与扫描点重合的行人读数恰为basePower；RSSI随距离单调不增
type PathLossModel struct{}

func (PathLossModel) Strength(pos, scanner entity.Point, basePowerDbm int) int {
	d := pos.DistanceTo(scanner)
	if d < minSignalDistance || math.IsNaN(d) {
		d = minSignalDistance
	}
	return basePowerDbm - int(20*math.Log10(d))
}

// ShadowingModel 带阴影衰落的信号模型
// 功能：在基础模型上叠加零均值高斯噪声，并截断到有效范围
type ShadowingModel struct {
	Base      SignalModel        // 基础模型
	SigmaDb   float64            // 阴影衰落标准差
	MinDbm    int                // 有效范围下限
	MaxDbm    int                // 有效范围上限
	Generator *randengine.Engine // 随机数引擎
}

// NewShadowingModel 创建带阴影衰落的信号模型
// 参数：base-基础模型，sigma-标准差，validRange-有效范围，seed-随机种子
func NewShadowingModel(base SignalModel, sigma float64, validRange [2]int, seed uint64) *ShadowingModel {
	return &ShadowingModel{
		Base:      base,
		SigmaDb:   sigma,
		MinDbm:    validRange[0],
		MaxDbm:    validRange[1],
		Generator: randengine.New(seed),
	}
}

func (m *ShadowingModel) Strength(pos, scanner entity.Point, basePowerDbm int) int {
	v := float64(m.Base.Strength(pos, scanner, basePowerDbm)) + m.Generator.GaussianSafe(0, m.SigmaDb)
	v = math.Max(float64(m.MinDbm), math.Min(float64(m.MaxDbm), v))
	return int(v)
}

package rsu

import (
	"fmt"

	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/pedestrian"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
)

// Verdict 单个行人在一步中的推断结果
type Verdict struct {
	Anomalous bool // 是否异常
	Intent    bool // 是否有过街意图
}

// Policy 过街推断策略
// 功能：根据行人状态、信号强度与跟踪记录给出异常与意图两个相互独立的判断
// 说明：实现不得依赖信号控制器，可替换为基于模型的实现；track只读，可能为nil
type Policy interface {
	Evaluate(p *pedestrian.Pedestrian, signalDbm int, track *Track) Verdict
}

const (
	// 未开启阴影衰落时用于方差检查的参考标准差（dB）
	defaultExpectedSigmaDb = 4.0
	// 静止时读数标准差超过参考标准差的倍数即判定为异常
	varianceFactor = 2.5
)

// BaselinePolicy 基于规则的参考推断策略
// 功能：
//   - 异常：恶意标记，或信号强于等待阈值
//   - 意图：长时静止且信号强于等待阈值
//
// 说明：无内部状态，每步重新计算
type BaselinePolicy struct {
	ThresholdDbm int // 等待阈值（dBm）
}

func (b BaselinePolicy) Evaluate(p *pedestrian.Pedestrian, signalDbm int, _ *Track) Verdict {
	near := signalDbm > b.ThresholdDbm
	return Verdict{
		Anomalous: p.Malicious || near,
		Intent:    p.State == pedestrian.StationaryLong && near,
	}
}

// KinematicPolicy 在参考策略之上增加运动学一致性检查
// 功能：以下行人同样判定为异常
//   - 每步位移超过MaxSpeed
//   - 静止时读数标准差超过varianceFactor倍的ExpectedSigmaDb（位置不变而信号剧烈波动）
type KinematicPolicy struct {
	BaselinePolicy
	MaxSpeed        int     // 每步最大合理位移
	ExpectedSigmaDb float64 // 正常情况下读数的标准差（dB）
}

func (k KinematicPolicy) Evaluate(p *pedestrian.Pedestrian, signalDbm int, track *Track) Verdict {
	v := k.BaselinePolicy.Evaluate(p, signalDbm, track)
	if p.Vel.SquaredNorm() > k.MaxSpeed*k.MaxSpeed {
		v.Anomalous = true
	}
	if track != nil && p.State != pedestrian.Moving && track.StationaryStdDevDb > varianceFactor*k.ExpectedSigmaDb {
		v.Anomalous = true
	}
	return v
}

// NewPolicy 根据配置创建推断策略
// 参数：cfg-路侧单元配置
// 返回：推断策略与错误，策略名未知时返回错误
func NewPolicy(cfg config.RSU) (Policy, error) {
	base := BaselinePolicy{ThresholdDbm: cfg.RssiWaitingThresholdDbm}
	switch cfg.Policy {
	case "", config.PolicyBaseline:
		return base, nil
	case config.PolicyKinematic:
		if cfg.MaxSpeed <= 0 {
			return nil, fmt.Errorf("%w: kinematic policy needs positive max_speed", config.ErrInvalidConfig)
		}
		sigma := cfg.ShadowFadingSigmaDb
		if sigma <= 0 {
			sigma = defaultExpectedSigmaDb
		}
		return KinematicPolicy{BaselinePolicy: base, MaxSpeed: cfg.MaxSpeed, ExpectedSigmaDb: sigma}, nil
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", config.ErrInvalidConfig, cfg.Policy)
	}
}

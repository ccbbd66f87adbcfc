package pedestrian

import (
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
)

// MotionTracker 行人运动状态跟踪器
// 功能：推进行人位置，并根据连续静止步数判定运动状态
// 说明：不保存行人相关的状态，可被多个goroutine同时使用
type MotionTracker struct {
	shortFrames int // 短时静止阈值
	longFrames  int // 长时静止阈值
}

// NewMotionTracker 创建运动状态跟踪器
// 参数：cfg-行人配置
// 返回：跟踪器与错误，阈值非正或short >= long时返回错误
func NewMotionTracker(cfg config.Pedestrian) (*MotionTracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MotionTracker{
		shortFrames: cfg.StationaryShortFrames,
		longFrames:  cfg.StationaryLongFrames,
	}, nil
}

// Advance 推进一步
// 功能：位置加上速度，更新连续静止步数与运动状态
// 参数：p-行人，dt-本步包含的时间单位数（<=0时按1处理）
// 算法说明：
// 1. 位置 += 速度 * dt，整数运算不做边界检查
// 2. 任一速度分量非零则静止步数清零，否则加一
// 3. 根据静止步数重新分类运动状态
func (t *MotionTracker) Advance(p *Pedestrian, dt int) {
	if dt <= 0 {
		dt = 1
	}
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	if p.Vel.IsZero() {
		p.FramesStationary++
	} else {
		p.FramesStationary = 0
	}
	p.State = t.Classify(p.FramesStationary)
}

// Classify 根据连续静止步数判定运动状态
func (t *MotionTracker) Classify(frames int) MotionState {
	switch {
	case frames >= t.longFrames:
		return StationaryLong
	case frames >= t.shortFrames:
		return StationaryShort
	default:
		return Moving
	}
}

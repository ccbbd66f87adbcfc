package pedestrian

import (
	"fmt"

	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/container"
)

// MotionState 行人运动状态
type MotionState int

const (
	Moving          MotionState = iota // 移动中
	StationaryShort                    // 短时静止
	StationaryLong                     // 长时静止
)

func (s MotionState) String() string {
	switch s {
	case Moving:
		return "moving"
	case StationaryShort:
		return "stationary_short"
	case StationaryLong:
		return "stationary_long"
	default:
		return fmt.Sprintf("MotionState(%d)", int(s))
	}
}

// Pedestrian 被路侧单元跟踪的行人
// 功能：保存行人的位置、速度、运动状态与最近一次推断结果
// 说明：由MotionTracker与路侧单元在每步中修改，同一步内只由一个goroutine写入
type Pedestrian struct {
	container.IncrementalItemBase

	ID               string       // 标识
	Pos              entity.Point // 位置
	Vel              entity.Point // 每步速度
	Radius           int          // 检测半径
	State            MotionState  // 运动状态
	FramesStationary int          // 连续静止步数
	IntentToCross    bool         // 过街意图（最近一次推断）
	Anomalous        bool         // 是否异常（最近一次推断）
	TxPowerDbm       int          // 发射功率（仅作信息）
	Malicious        bool         // 恶意行为者真值，仅推断使用
	ButtonPressed    bool         // 是否按下过街按钮

	route *Route // 途经点，nil表示速度由外部设置
}

// New 创建行人
// 参数：id-标识，pos-初始位置，radius-检测半径，txPower-发射功率
// 返回：初始状态为Moving、尚未加入任何管理器的行人
func New(id string, pos entity.Point, radius int, txPower int) *Pedestrian {
	p := &Pedestrian{
		ID:         id,
		Pos:        pos,
		Radius:     radius,
		State:      Moving,
		TxPowerDbm: txPower,
	}
	p.SetIndex(-1)
	return p
}

// SetRoute 设置途经点
// 说明：速度将在每步开始时朝下一个途经点重新计算
func (p *Pedestrian) SetRoute(r *Route) {
	p.route = r
}

// Route 当前途经点
func (p *Pedestrian) Route() *Route {
	return p.route
}

// Speed 当前每步位移的模长
func (p *Pedestrian) Speed() float64 {
	return entity.Point{}.DistanceTo(p.Vel)
}

func (p *Pedestrian) String() string {
	return fmt.Sprintf(
		"Pedestrian{ID=%s, Pos=%v, Vel=%v, State=%v, Frames=%d, Intent=%v, Anomalous=%v}",
		p.ID, p.Pos, p.Vel, p.State, p.FramesStationary, p.IntentToCross, p.Anomalous,
	)
}

package trafficlight

import (
	"fmt"

	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
)

// Controller 行人过街信号灯状态机
// 功能：根据每步聚合得到的过街请求，驱动机动车与行人两组信号灯的相位切换
// 算法说明：
// 1. 机动车非红灯时递减机动车计时器，红灯时递减行人计时器
// 2. 机动车相位按优先级检查：绿转黄、绿灯计时器回拨、黄转红、红转绿，每步至多一次
// 3. 行人相位检查：通行转闪烁、闪烁转禁止通行
// 说明：行人处于通行或闪烁时机动车一定为红灯；状态机对任意输入序列都不会出错
type Controller struct {
	cfg config.Signal

	vehicle    VehiclePhase
	pedestrian PedestrianPhase

	vehicleTimer    int  // 机动车相位计时器，单位为步，可为负
	pedestrianTimer int  // 行人相位计时器，单位为步，可为负
	servicing       bool // 当前绿灯周期内的请求是否已被受理
}

// New 创建信号灯状态机
// 功能：校验配时并初始化为机动车绿灯、行人禁止通行
// 参数：cfg-信号灯配时
// 返回：状态机实例，配时非法时返回错误
func New(cfg config.Signal) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{cfg: cfg}
	c.Reset()
	return c, nil
}

// Reset 恢复到初始状态
func (c *Controller) Reset() {
	c.vehicle = VehicleGreen
	c.pedestrian = DontWalk
	c.vehicleTimer = c.cfg.MinVehicleGreenTime
	c.pedestrianTimer = 0
	c.servicing = false
}

// Update 推进一步
// 功能：消耗一步的时间并根据过街请求执行至多一次机动车相位切换与一次行人相位切换
// 参数：request-本步是否存在过街请求
// 返回：本步相位是否发生变化
func (c *Controller) Update(request bool) bool {
	before := c.Phases()
	if c.vehicle != VehicleRed {
		c.vehicleTimer--
	} else {
		c.pedestrianTimer--
	}

	switch {
	case c.vehicle == VehicleGreen && c.vehicleTimer <= 0 && request && !c.servicing:
		c.vehicle = VehicleYellow
		c.vehicleTimer = c.cfg.VehicleYellowTime
		c.servicing = true
	case c.vehicle == VehicleGreen && c.vehicleTimer < -2*c.cfg.MinVehicleGreenTime:
		// 长时间无请求，回拨计时器防止无界递减
		c.vehicleTimer = c.cfg.MinVehicleGreenTime
	case c.vehicle == VehicleYellow && c.vehicleTimer <= 0:
		c.vehicle = VehicleRed
		c.pedestrian = Walk
		c.pedestrianTimer = c.cfg.PedestrianWalkTime
	case c.vehicle == VehicleRed && c.pedestrian == DontWalk && c.pedestrianTimer <= 0 && !request:
		c.vehicle = VehicleGreen
		c.vehicleTimer = c.cfg.MinVehicleGreenTime
		c.servicing = false
	}

	switch {
	case c.pedestrian == Walk && c.pedestrianTimer <= 0:
		c.pedestrian = Flash
		c.pedestrianTimer = c.cfg.PedestrianFlashTime
	case c.pedestrian == Flash && c.pedestrianTimer <= 0:
		c.pedestrian = DontWalk
	}
	return c.Phases() != before
}

func (c *Controller) VehiclePhase() VehiclePhase {
	return c.vehicle
}

func (c *Controller) PedestrianPhase() PedestrianPhase {
	return c.pedestrian
}

func (c *Controller) Phases() Phases {
	return Phases{Vehicle: c.vehicle, Pedestrian: c.pedestrian}
}

// Servicing 当前请求是否已被受理（从绿转黄起，到恢复绿灯止）
func (c *Controller) Servicing() bool {
	return c.servicing
}

func (c *Controller) VehicleTimer() int {
	return c.vehicleTimer
}

func (c *Controller) PedestrianTimer() int {
	return c.pedestrianTimer
}

// Remaining 当前计时相位的剩余步数，不小于0
func (c *Controller) Remaining() int {
	t := c.pedestrianTimer
	if c.vehicle != VehicleRed {
		t = c.vehicleTimer
	}
	return max(t, 0)
}

// Duration 当前相位的配置时长（步）
// 说明：机动车红灯且行人禁止通行时等待请求撤销，时长为0
func (c *Controller) Duration() int {
	switch {
	case c.vehicle == VehicleGreen:
		return c.cfg.MinVehicleGreenTime
	case c.vehicle == VehicleYellow:
		return c.cfg.VehicleYellowTime
	case c.pedestrian == Walk:
		return c.cfg.PedestrianWalkTime
	case c.pedestrian == Flash:
		return c.cfg.PedestrianFlashTime
	default:
		return 0
	}
}

func (c *Controller) String() string {
	return fmt.Sprintf("Controller{%v, vehicleTimer=%d, pedestrianTimer=%d, servicing=%v}",
		c.Phases(), c.vehicleTimer, c.pedestrianTimer, c.servicing)
}

package trafficlight

import (
	"fmt"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
)

// VehiclePhase 机动车信号灯相位
type VehiclePhase int

const (
	VehicleGreen VehiclePhase = iota
	VehicleYellow
	VehicleRed
)

func (p VehiclePhase) String() string {
	switch p {
	case VehicleGreen:
		return "green"
	case VehicleYellow:
		return "yellow"
	case VehicleRed:
		return "red"
	default:
		return fmt.Sprintf("VehiclePhase(%d)", int(p))
	}
}

// LightState 转换为地图协议中的灯色
func (p VehiclePhase) LightState() mapv2.LightState {
	switch p {
	case VehicleGreen:
		return mapv2.LightState_LIGHT_STATE_GREEN
	case VehicleYellow:
		return mapv2.LightState_LIGHT_STATE_YELLOW
	case VehicleRed:
		return mapv2.LightState_LIGHT_STATE_RED
	default:
		return mapv2.LightState_LIGHT_STATE_UNSPECIFIED
	}
}

// PedestrianPhase 行人信号灯相位
type PedestrianPhase int

const (
	DontWalk PedestrianPhase = iota
	Walk
	Flash
)

func (p PedestrianPhase) String() string {
	switch p {
	case DontWalk:
		return "dont_walk"
	case Walk:
		return "walk"
	case Flash:
		return "flash"
	default:
		return fmt.Sprintf("PedestrianPhase(%d)", int(p))
	}
}

// LightState 转换为地图协议中的灯色
// 说明：通行为绿灯，闪烁为黄灯，禁止通行为红灯
func (p PedestrianPhase) LightState() mapv2.LightState {
	switch p {
	case Walk:
		return mapv2.LightState_LIGHT_STATE_GREEN
	case Flash:
		return mapv2.LightState_LIGHT_STATE_YELLOW
	case DontWalk:
		return mapv2.LightState_LIGHT_STATE_RED
	default:
		return mapv2.LightState_LIGHT_STATE_UNSPECIFIED
	}
}

// Phases 机动车与行人相位的组合
type Phases struct {
	Vehicle    VehiclePhase
	Pedestrian PedestrianPhase
}

func (p Phases) String() string {
	return fmt.Sprintf("%v/%v", p.Vehicle, p.Pedestrian)
}

// Safe 行人通行或闪烁时机动车必须为红灯
func (p Phases) Safe() bool {
	return p.Pedestrian == DontWalk || p.Vehicle == VehicleRed
}

// LightStates 按[机动车, 行人]顺序返回灯色
func (p Phases) LightStates() []mapv2.LightState {
	return []mapv2.LightState{p.Vehicle.LightState(), p.Pedestrian.LightState()}
}

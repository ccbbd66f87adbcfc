package junction

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"git.fiblab.net/sim/protos/v2/go/city/map/v2/mapv2connect"
	"git.fiblab.net/sim/syncer/v3"
)

// Register 将Junction注册到sidecar
// 功能：注册信号灯服务处理器，供显示/执行端查询与开关信号灯
// 参数：sidecar-同步器侧车实例
func (j *Junction) Register(sidecar *syncer.Sidecar) {
	sidecar.Register(
		mapv2connect.TrafficLightServiceName,
		func(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
			return mapv2connect.NewTrafficLightServiceHandler(j, opts...)
		},
	)
}

// GetTrafficLight RPC接口：获取信号灯状态
// 功能：以单相位信控程序的形式返回当前灯色，States按[机动车, 行人]排列
// 参数：ctx-上下文，in-包含Junction ID的请求
// 返回：信号灯状态响应，包含当前灯色、相位索引和剩余时间
// 说明：Junction ID不匹配时返回InvalidArgument
func (j *Junction) GetTrafficLight(
	ctx context.Context, in *connect.Request[mapv2.GetTrafficLightRequest],
) (*connect.Response[mapv2.GetTrafficLightResponse], error) {
	if in.Msg.JunctionId != j.id {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrWrongJunction)
	}
	dt := j.ctx.Clock().DT
	return connect.NewResponse(&mapv2.GetTrafficLightResponse{
		TrafficLight: &mapv2.TrafficLight{
			JunctionId: j.id,
			Phases: []*mapv2.Phase{{
				Duration: float64(j.signal.Duration()) * dt,
				States:   j.signal.LightStates(),
			}},
		},
		PhaseIndex:    0,
		TimeRemaining: j.RemainingTime(),
	}), nil
}

// SetTrafficLightStatus RPC接口：设置信号灯开关状态
// 说明：true表示正常工作，false表示失效（机动车常绿、行人禁止通行），下一步生效
func (j *Junction) SetTrafficLightStatus(
	ctx context.Context, in *connect.Request[mapv2.SetTrafficLightStatusRequest],
) (*connect.Response[mapv2.SetTrafficLightStatusResponse], error) {
	if in.Msg.JunctionId != j.id {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrWrongJunction)
	}
	j.signal.SetOk(in.Msg.Ok)
	return connect.NewResponse(&mapv2.SetTrafficLightStatusResponse{}), nil
}

package junction

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/junction/trafficlight"
)

// 依赖倒置，表达junction对信号灯实现的接口需求

// 给显示端与RPC提供的信控读取接口
type ISignalGetter interface {
	Phases() trafficlight.Phases     // 当前相位
	LightStates() []mapv2.LightState // 当前灯色，[机动车, 行人]
	Servicing() bool                 // 过街请求是否已被受理
	Remaining() int                  // 当前相位剩余步数
	Duration() int                   // 当前相位配置时长（步）
	Ok() bool                        // 当前信控开关情况
}

// 信号灯接口
type ISignal interface {
	ISignalGetter
	Prepare()            // 准备阶段，处理写入buffer并刷新快照
	Update(request bool) // 更新阶段，以本步的过街请求推进信控
	SetOk(ok bool)       // 设置信控开关情况（true信控工作|false信控失效-机动车常绿）
}

package junction

import (
	"errors"

	"git.fiblab.net/sim/protos/v2/go/city/map/v2/mapv2connect"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/junction/trafficlight"
)

var (
	ErrWrongJunction = errors.New("junction id does not exist")
)

// Junction 带行人过街信号灯的路口
// 功能：持有信号灯，并将其状态通过TrafficLightService暴露给显示/执行端
type Junction struct {
	mapv2connect.UnimplementedTrafficLightServiceHandler

	ctx entity.ITaskContext

	id     int32
	signal ISignal // 信号灯模块
}

// New 创建路口
// 功能：根据运行时配置中的信号灯配时创建路口及其信号灯
// 参数：ctx-任务上下文
// 返回：路口实例，配时非法时返回错误
func New(ctx entity.ITaskContext) (*Junction, error) {
	cfg := ctx.RuntimeConfig().All.Signal
	signal, err := trafficlight.NewLocalSignal(cfg)
	if err != nil {
		return nil, err
	}
	return &Junction{ctx: ctx, id: cfg.JunctionID, signal: signal}, nil
}

// Prepare 准备阶段，刷新信号灯快照
func (j *Junction) Prepare() {
	j.signal.Prepare()
}

// Update 更新阶段
// 参数：request-本步RSU聚合得到的过街请求
func (j *Junction) Update(request bool) {
	j.signal.Update(request)
}

// ID 获取Junction的唯一标识符
func (j *Junction) ID() int32 {
	if j == nil {
		return -1
	}
	return j.id
}

// Signal 获取信号灯的只读接口
func (j *Junction) Signal() ISignalGetter {
	return j.signal
}

// RemainingTime 当前相位剩余时间（秒）
func (j *Junction) RemainingTime() float64 {
	return float64(j.signal.Remaining()) * j.ctx.Clock().DT
}

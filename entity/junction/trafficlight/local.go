package trafficlight

import (
	"sync"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
)

// localSignalRuntime 信号灯对外输出的数据
type localSignalRuntime struct {
	phases    Phases
	servicing bool
	remaining int // 当前相位剩余步数
	duration  int // 当前相位配置时长
}

// localSignal 本地行人过街信号灯
// 功能：包装Controller，提供准备/更新两阶段接口与供外部读取的快照
// 说明：Update只修改运行时状态机，Prepare时写入snapshot；开关状态通过buffer延迟到Prepare时生效
type localSignal struct {
	runtime  *Controller        // 运行时状态机
	snapshot localSignalRuntime // snapshot，用于保存输出的数据
	mtx      sync.RWMutex       // 保护snapshot与开关状态，供RPC并发读取

	ok       bool // 信号灯状态，true为开启，false为关闭
	okBuffer bool // 信号灯状态buffer，用于交互式接口写入
}

// NewLocalSignal 创建本地行人过街信号灯
// 参数：cfg-信号灯配时
// 返回：信号灯实例，配时非法时返回错误
func NewLocalSignal(cfg config.Signal) (*localSignal, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	l := &localSignal{runtime: c, ok: true, okBuffer: true}
	l.snapshot = l.capture()
	return l, nil
}

func (l *localSignal) capture() localSignalRuntime {
	return localSignalRuntime{
		phases:    l.runtime.Phases(),
		servicing: l.runtime.Servicing(),
		remaining: l.runtime.Remaining(),
		duration:  l.runtime.Duration(),
	}
}

// Prepare 准备阶段
// 功能：应用开关状态的写入，并将运行时状态写入snapshot
// 说明：开启立即生效，从初始状态重新开始；
// 关闭需等到行人相位回到禁止通行，此前状态机照常推进，避免行人过街途中机动车变绿
func (l *localSignal) Prepare() {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.ok != l.okBuffer {
		if l.okBuffer || l.runtime.PedestrianPhase() == DontWalk {
			l.ok = l.okBuffer
			l.runtime.Reset()
			log.Infof("signal switched ok=%v", l.ok)
		} else {
			log.Debugf("switch-off deferred until pedestrian phase ends, now %v", l.runtime.Phases())
		}
	}
	l.snapshot = l.capture()
}

// Update 更新阶段
// 功能：以本步的过街请求推进状态机
// 参数：request-本步是否存在过街请求
// 说明：信号灯关闭时状态机不推进
func (l *localSignal) Update(request bool) {
	if !l.ok {
		return
	}
	before := l.runtime.Phases()
	if l.runtime.Update(request) {
		log.Infof("phase %v -> %v", before, l.runtime.Phases())
	}
	if !l.runtime.Phases().Safe() {
		log.Panicf("unsafe phase combination %v", l.runtime.Phases())
	}
}

// SetOk 设置信号灯开关状态
// 说明：开启在下一步生效；关闭在下一个行人禁止通行的步生效
func (l *localSignal) SetOk(ok bool) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.okBuffer = ok
}

// Ok 信号灯是否正常工作
func (l *localSignal) Ok() bool {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return l.ok
}

// Phases 获取当前相位
// 说明：信号灯关闭时机动车常绿、行人禁止通行
func (l *localSignal) Phases() Phases {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	if !l.ok {
		return Phases{Vehicle: VehicleGreen, Pedestrian: DontWalk}
	}
	return l.snapshot.phases
}

// LightStates 按[机动车, 行人]顺序返回当前灯色
func (l *localSignal) LightStates() []mapv2.LightState {
	return l.Phases().LightStates()
}

// Servicing 当前请求是否已被受理
func (l *localSignal) Servicing() bool {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return l.snapshot.servicing
}

// Remaining 当前相位剩余步数
func (l *localSignal) Remaining() int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return l.snapshot.remaining
}

// Duration 当前相位配置时长（步）
func (l *localSignal) Duration() int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return l.snapshot.duration
}

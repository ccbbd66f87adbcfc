package task

import (
	"fmt"
	"sync/atomic"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/clock"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/junction"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/pedestrian"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/rsu"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/input"
)

// Context 控制循环任务上下文
// 功能：包含一次运行的所有组件和状态，替代全局变量
// 说明：管理时钟、行人、路侧单元、信号灯与sidecar
type Context struct {

	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 辅助程序，处理与syncer、显示/执行端的交互；为nil时只能通过Step手动推进
	sidecar *syncer.Sidecar
	// sidecar close channel
	sidecarCloseCh chan struct{}

	// 行人管理器
	pedestrianManager *pedestrian.PedestrianManager
	// 路侧单元
	rsu *rsu.RSU
	// 带信号灯的路口
	junction *junction.Junction
	// 随机行人生成器
	spawner *input.Spawner

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 用于初始化的输入
	initRes *input.Input

	// 最近一步的观测结果与过街请求
	observations []rsu.Observation
	request      bool
}

// NewContext 创建新的任务上下文
// 功能：初始化控制循环的所有组件
// 参数：
//   - job: 任务名称
//   - c: 配置对象
//   - sidecar: sidecar实例，可为nil
//   - startSidecarServe: 是否启动sidecar服务
//
// 返回：初始化完成的Context实例与错误
// 算法说明：
// 1. 创建时钟与运行时配置
// 2. 根据场景配置构建初始行人与随机生成器
// 3. 创建行人管理器、路侧单元与路口
// 4. 注册RPC服务到sidecar，并按需启动sidecar服务
func NewContext(
	job string,
	c config.Config,
	sidecar *syncer.Sidecar,
	startSidecarServe bool,
) (*Context, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ctx := &Context{
		job:            job,
		sidecar:        sidecar,
		sidecarCloseCh: make(chan struct{}),
	}
	ctx.clock = clock.New(c.Control.Step)
	ctx.runtimeConfig = config.NewRuntimeConfig(c)

	ctx.initRes = input.Init(c)
	ctx.spawner = input.NewSpawner(c, c.Scenario.Seed)

	var err error
	if ctx.pedestrianManager, err = pedestrian.NewManager(ctx); err != nil {
		return nil, err
	}
	if ctx.rsu, err = rsu.New(ctx, job); err != nil {
		return nil, fmt.Errorf("rsu: %w", err)
	}
	if ctx.junction, err = junction.New(ctx); err != nil {
		return nil, fmt.Errorf("junction: %w", err)
	}

	if ctx.sidecar != nil {
		ctx.clock.Register(ctx.sidecar)
		ctx.junction.Register(ctx.sidecar)

		// sidecar协程，用于提供gRPC服务
		if startSidecarServe {
			go func() {
				err := ctx.sidecar.Serve()
				if err != nil {
					log.Panicf("failed to serve: %v", err)
				}
				ctx.sidecarCloseCh <- struct{}{}
			}()
		}
	}

	return ctx, nil
}

func (ctx *Context) Job() string {
	return ctx.job
}

func (ctx *Context) GetInput() *input.Input {
	return ctx.initRes
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) PedestrianManager() *pedestrian.PedestrianManager {
	return ctx.pedestrianManager
}

func (ctx *Context) RSU() *rsu.RSU {
	return ctx.rsu
}

func (ctx *Context) Junction() *junction.Junction {
	return ctx.junction
}

// Observations 最近一步的观测结果
func (ctx *Context) Observations() []rsu.Observation {
	return ctx.observations
}

// Request 最近一步聚合得到的过街请求
func (ctx *Context) Request() bool {
	return ctx.request
}

// Init 初始化
// 功能：重置时钟，放入场景中的初始行人
func (ctx *Context) Init() error {
	ctx.clock.Init()

	for _, p := range ctx.initRes.Pedestrians {
		if err := ctx.pedestrianManager.Add(p); err != nil {
			return err
		}
	}
	ctx.pedestrianManager.PrepareNode()
	ctx.junction.Prepare()
	log.Infof("Scanner: %v", len(ctx.rsu.Scanners()))
	log.Infof("Pedestrian: %v", ctx.pedestrianManager.Len())
	return nil
}

func (ctx *Context) Close() {
	if ctx.closed.Load() {
		return
	}
	ctx.closed.Store(true)
	if ctx.sidecar == nil {
		return
	}
	ctx.sidecar.Close()
	// wait for graceful stop
	<-ctx.sidecarCloseCh
}

package task

import (
	"flag"
	"fmt"
)

const (
	SelfName = "rsu" // 本程序在任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：在每个控制步开始时进行准备工作
// 算法说明：
// 1. 更新时钟：增加内部步数并计算当前时间
// 2. 心跳日志：定期输出系统状态信息
// 3. 行人进出：按间隔随机生成行人，移除离开所有扫描点检测距离的行人
// 4. 使行人增删生效，刷新信号灯快照
//
// 说明：确保所有组件在更新阶段前都处于正确状态
func (ctx *Context) prepare() {
	step := ctx.clock.Tick()

	if interval := int32(*heartBeatInterval); interval > 0 && step%interval == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) pedestrians=%d request=%v signal=%v",
			step,
			hour, minute, second,
			ctx.pedestrianManager.Len(), ctx.request, ctx.junction.Signal().Phases(),
		)
	}

	scenario := ctx.runtimeConfig.All.Scenario
	for _, p := range ctx.pedestrianManager.Data() {
		if !ctx.rsu.InRange(p.Pos, scenario.DetectionRange) {
			if err := ctx.pedestrianManager.Remove(p.ID); err != nil {
				log.Warnf("remove pedestrian: %v", err)
			}
		}
	}
	if p := ctx.spawner.Spawn(step, ctx.pedestrianManager.Len()); p != nil {
		if err := ctx.pedestrianManager.Add(p); err != nil {
			log.Warnf("spawn pedestrian: %v", err)
		}
	}

	ctx.pedestrianManager.PrepareNode()
	ctx.junction.Prepare()
}

// update 更新阶段，每步执行一次
// 功能：执行一步感知与控制流水线
// 算法说明：
// 1. 行人管理器：推进行人位置与运动状态
// 2. 路侧单元：计算信号强度、推断异常与过街意图并聚合为过街请求
// 3. 路口：以过街请求推进信号灯状态机
//
// 说明：三个阶段存在数据依赖，顺序执行；各阶段内部并行
func (ctx *Context) update() {
	ctx.pedestrianManager.Update(1)
	ctx.observations, ctx.request = ctx.rsu.Scan(ctx.pedestrianManager.Data())
	ctx.junction.Update(ctx.request)
}

// Step 不经过sidecar手动推进一步
func (ctx *Context) Step() {
	ctx.prepare()
	ctx.update()
}

// Run 运行
func (ctx *Context) Run() error {
	if ctx.sidecar == nil {
		return fmt.Errorf("task %s: run without sidecar", ctx.job)
	}
	// 初始化
	if err := ctx.Init(); err != nil {
		return err
	}
	// init syncer
	ctx.sidecar.Step(false)
	for {
		ctx.prepare()
		// 通知准备阶段完成
		log.Debugf("step %d: prepare complete and call NotifyStepReady", ctx.clock.InternalStep)
		ctx.sidecar.NotifyStepReady()
		log.Debugf("step %d: NotifyStepReady complete", ctx.clock.InternalStep)
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		close := ctx.sidecar.Step(ctx.clock.IsLastStep())
		if close || ctx.closed.Load() {
			break
		}
	}
	log.Infof("engine complete")
	ctx.Close()
	return nil
}

package input

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/pedestrian"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/randengine"
)

// Spawner 随机行人生成器
// 功能：每隔spawn_every步在生成区域内随机生成一个行人，行人沿水平方向走到等待线后静止
// 说明：等待线为scenario.wait_point所在的竖线，行人保持生成时的纵坐标；
// 生成的ID为R1、R2……，跳过场景文件中已使用的ID
type Spawner struct {
	scenario  config.Scenario
	radius    int
	txPower   int
	generator *randengine.Engine
	counter   int
	reserved  map[string]struct{} // 场景文件中行人的ID
}

// NewSpawner 创建随机行人生成器
// 参数：cfg-完整配置，seed-随机种子
func NewSpawner(cfg config.Config, seed uint64) *Spawner {
	return &Spawner{
		scenario:  cfg.Scenario,
		radius:    cfg.Pedestrian.Radius,
		txPower:   cfg.RSU.TxPowerDbm,
		generator: randengine.New(seed),
		reserved: lo.SliceToMap(cfg.Scenario.Pedestrians, func(p config.ScenarioPedestrian) (string, struct{}) {
			return p.ID, struct{}{}
		}),
	}
}

// Enabled 是否启用随机生成
func (s *Spawner) Enabled() bool {
	return s.scenario.SpawnEvery > 0
}

// Spawn 尝试在第step步生成行人
// 参数：step-当前步数，existing-当前场景中的行人数
// 返回：新生成的行人，未到生成时刻或已达到数量上限时返回nil
func (s *Spawner) Spawn(step int32, existing int) *pedestrian.Pedestrian {
	if !s.Enabled() || step%s.scenario.SpawnEvery != 0 {
		return nil
	}
	if s.scenario.MaxPedestrians > 0 && existing >= s.scenario.MaxPedestrians {
		return nil
	}
	a, b := s.scenario.SpawnArea[0], s.scenario.SpawnArea[1]
	pos := entity.Point{
		X: s.generator.IntRange(a.X, b.X),
		Y: s.generator.IntRange(a.Y, b.Y),
	}
	p := pedestrian.New(s.nextID(), pos, s.radius, s.txPower)
	p.Malicious = s.generator.PTrue(s.scenario.MaliciousRatio)
	p.SetRoute(pedestrian.NewRoute(s.scenario.WalkSpeed, entity.Point{X: s.scenario.WaitPoint.X, Y: pos.Y}))
	return p
}

func (s *Spawner) nextID() string {
	for {
		s.counter++
		id := fmt.Sprintf("R%d", s.counter)
		if _, ok := s.reserved[id]; !ok {
			return id
		}
	}
}

package input

import (
	"flag"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/pedestrian"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
)

var (
	log = logrus.WithField("module", "input")

	onlyPedestrians = flag.String("scenario.only", "", "只加载指定ID的场景行人，逗号分隔，为空则全部加载")
)

// Input 输入数据
// 功能：存储仿真开始时放入场景的行人
type Input struct {
	Pedestrians []*pedestrian.Pedestrian
}

// Init 根据场景配置构建初始行人
// 功能：将配置中的场景行人转换为行人实体，并按-scenario.only筛选
// 参数：cfg-完整配置
// 返回：输入数据
// 说明：筛选ID不存在时仅记录警告
func Init(cfg config.Config) *Input {
	peds := lo.Map(cfg.Scenario.Pedestrians, func(sp config.ScenarioPedestrian, _ int) *pedestrian.Pedestrian {
		return NewPedestrian(sp, cfg)
	})
	var ids []string
	if *onlyPedestrians != "" {
		ids = strings.Split(*onlyPedestrians, ",")
	}
	peds, failed := utils.Find(
		lo.SliceToMap(peds, func(p *pedestrian.Pedestrian) (string, *pedestrian.Pedestrian) { return p.ID, p }),
		peds, ids,
	)
	if len(failed) > 0 {
		log.Warnf("scenario pedestrians not found: %v", failed)
	}
	log.Infof("load %d scenario pedestrians", len(peds))
	return &Input{Pedestrians: peds}
}

// NewPedestrian 将场景行人配置转换为行人实体
// 说明：有途经点时由途经点驱动速度，否则使用配置中的固定速度
func NewPedestrian(sp config.ScenarioPedestrian, cfg config.Config) *pedestrian.Pedestrian {
	p := pedestrian.New(sp.ID, toPoint(sp.Pos), cfg.Pedestrian.Radius, cfg.RSU.TxPowerDbm)
	p.Vel = toPoint(sp.Velocity)
	p.Malicious = sp.Malicious
	p.ButtonPressed = sp.Button
	if len(sp.Waypoints) > 0 {
		p.SetRoute(pedestrian.NewRoute(sp.Speed, lo.Map(sp.Waypoints, func(w config.Point, _ int) entity.Point {
			return toPoint(w)
		})...))
	}
	return p
}

func toPoint(p config.Point) entity.Point {
	return entity.Point{X: p.X, Y: p.Y}
}

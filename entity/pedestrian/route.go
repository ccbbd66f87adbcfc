package pedestrian

import (
	"math"

	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity"
)

// Route 行人的途经点序列
// 功能：按固定步速依次走向每个途经点，走完后停下
type Route struct {
	waypoints []entity.Point
	speed     int
}

// NewRoute 创建途经点序列
// 参数：speed-每步位移（<=0时按1处理），waypoints-途经点
func NewRoute(speed int, waypoints ...entity.Point) *Route {
	if speed <= 0 {
		speed = 1
	}
	return &Route{
		waypoints: append([]entity.Point(nil), waypoints...),
		speed:     speed,
	}
}

// Done 是否已走完
func (r *Route) Done() bool {
	return len(r.waypoints) == 0
}

// Remaining 剩余途经点数
func (r *Route) Remaining() int {
	return len(r.waypoints)
}

// Append 追加途经点
func (r *Route) Append(waypoints ...entity.Point) {
	r.waypoints = append(r.waypoints, waypoints...)
}

// Steer 计算本步速度
// 功能：根据当前位置返回朝向下一个途经点的整数速度
// 参数：pos-当前位置
// 返回：本步速度
// 算法说明：
// 1. 跳过已经到达的途经点
// 2. 剩余距离不超过步速时，速度恰好等于剩余位移，并弹出该途经点
// 3. 否则沿方向按步速缩放并四舍五入
// 4. 没有途经点时返回零速度
func (r *Route) Steer(pos entity.Point) entity.Point {
	for len(r.waypoints) > 0 && r.waypoints[0] == pos {
		r.waypoints = r.waypoints[1:]
	}
	if len(r.waypoints) == 0 {
		return entity.Point{}
	}
	d := r.waypoints[0].Sub(pos)
	dist := pos.DistanceTo(r.waypoints[0])
	if dist <= float64(r.speed) {
		r.waypoints = r.waypoints[1:]
		return d
	}
	k := float64(r.speed) / dist
	return entity.Point{
		X: int(math.Round(float64(d.X) * k)),
		Y: int(math.Round(float64(d.Y) * k)),
	}
}

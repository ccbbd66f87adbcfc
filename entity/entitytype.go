package entity

import (
	"fmt"
	"math"
)

// Point 平面整数坐标，既用于位置也用于每步速度
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add 向量加法
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub 向量减法
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale 数乘
func (p Point) Scale(k int) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// IsZero 是否为零向量
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// SquaredNorm 模长平方（整数，无精度损失）
func (p Point) SquaredNorm() int {
	return p.X*p.X + p.Y*p.Y
}

// DistanceTo 欧氏距离
func (p Point) DistanceTo(q Point) float64 {
	d := p.Sub(q)
	return math.Hypot(float64(d.X), float64(d.Y))
}

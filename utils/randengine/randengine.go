// 随机数引擎，包装了golang.org/x/exp/rand，为阴影衰落与行人生成提供可复现的随机数
package randengine

import (
	"flag"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：提供可复现的随机数生成功能，带Safe后缀的方法线程安全
// 说明：基于golang.org/x/exp/rand库
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// PTrue 以指定概率返回true（非线程安全）
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// IntRange 在闭区间[lo, hi]内均匀生成整数（非线程安全）
// 说明：lo >= hi时直接返回lo
func (e *Engine) IntRange(lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return lo + e.Intn(hi-lo+1)
}

// GaussianSafe 生成正态分布随机数（线程安全）
// 功能：生成均值为mean、标准差为sigma的随机数，支持多线程并发访问
// 参数：mean-均值，sigma-标准差
// 返回：随机数
// 说明：同一引擎可能被多个RSU共享，采样需要加锁
func (e *Engine) GaussianSafe(mean, sigma float64) float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return mean + sigma*e.NormFloat64()
}

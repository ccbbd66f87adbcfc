package container

import (
	"sync"
)

// IIncrementalItem 支持增量更新的元素约束
// 功能：定义增量数组元素必须实现的方法
// 说明：元素需要能够记录自己在数组中的位置，不在数组中时索引为-1
type IIncrementalItem interface {
	comparable
	Index() int         // 获取元素的索引
	SetIndex(index int) // 设置元素的索引
}

// IncrementalItemBase 增量元素基类
// 说明：可以作为其他结构体的嵌入字段，快速实现索引管理
type IncrementalItemBase struct {
	index int
}

func (b *IncrementalItemBase) Index() int {
	return b.index
}

func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组，支持增量维护元素的数组
// 功能：Add/Remove可在更新阶段并发调用，在Prepare时统一生效
// 说明：删除采用与末尾元素交换的方式，不保证元素顺序
type IncrementalArray[T IIncrementalItem] struct {
	data        []T        // 主数据数组
	add         []T        // 待添加的元素列表
	remove      []T        // 待删除的元素列表
	addMutex    sync.Mutex // 添加操作的互斥锁
	removeMutex sync.Mutex // 删除操作的互斥锁
}

// NewIncrementalArray 创建增量数组
func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{
		data:   make([]T, 0),
		add:    make([]T, 0),
		remove: make([]T, 0),
	}
}

// Len 获取当前数组长度
func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Data 获取当前已生效的数据
// 说明：返回内部切片，调用方不应修改
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Add 增加元素（等到Prepare时才会真正增加）
func (a *IncrementalArray[T]) Add(value T) {
	a.addMutex.Lock()
	defer a.addMutex.Unlock()
	a.add = append(a.add, value)
}

// Remove 删除元素（等到Prepare时才会真正删除）
func (a *IncrementalArray[T]) Remove(value T) {
	a.removeMutex.Lock()
	defer a.removeMutex.Unlock()
	a.remove = append(a.remove, value)
}

// Prepare 执行增量操作
// 功能：统一执行所有待处理的删除和添加操作
// 算法说明：
// 1. 逐个删除：用末尾元素填充被删除的位置并更新其索引，被删除元素索引置为-1
// 2. 已不在数组中的元素（重复删除）直接忽略
// 3. 追加所有待添加元素并设置索引
func (a *IncrementalArray[T]) Prepare() {
	a.removeMutex.Lock()
	for _, x := range a.remove {
		ind := x.Index()
		if ind < 0 || ind >= len(a.data) || a.data[ind] != x {
			continue
		}
		last := len(a.data) - 1
		a.data[ind] = a.data[last]
		a.data[ind].SetIndex(ind)
		a.data = a.data[:last]
		x.SetIndex(-1)
	}
	a.remove = []T{}
	a.removeMutex.Unlock()

	a.addMutex.Lock()
	for _, x := range a.add {
		x.SetIndex(len(a.data))
		a.data = append(a.data, x)
	}
	a.add = []T{}
	a.addMutex.Unlock()
}

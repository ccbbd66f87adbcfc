package pedestrian

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/container"
)

var (
	ErrPedestrianNotFound   = errors.New("pedestrian not found")
	ErrDuplicatedPedestrian = errors.New("pedestrian id already exists")
)

// PedestrianManager 行人管理器
// 功能：管理检测范围内的所有行人，提供增删、查找与每步运动推进
// 说明：增删在任意时刻登记，在PrepareNode时统一生效；Update中每个行人只由一个goroutine处理
type PedestrianManager struct {
	ctx entity.ITaskContext

	tracker *MotionTracker

	data    map[string]*Pedestrian
	dataMtx sync.RWMutex

	pedestrians *container.IncrementalArray[*Pedestrian]
}

// NewManager 创建行人管理器
// 功能：根据运行时配置创建运动状态跟踪器与内部数据结构
// 参数：ctx-任务上下文
// 返回：行人管理器与错误，运动阈值配置非法时返回错误
func NewManager(ctx entity.ITaskContext) (*PedestrianManager, error) {
	tracker, err := NewMotionTracker(ctx.RuntimeConfig().All.Pedestrian)
	if err != nil {
		return nil, fmt.Errorf("pedestrian manager: %w", err)
	}
	return &PedestrianManager{
		ctx:         ctx,
		tracker:     tracker,
		data:        make(map[string]*Pedestrian),
		pedestrians: container.NewIncrementalArray[*Pedestrian](),
	}, nil
}

// Add 登记进入检测范围的行人
// 参数：p-行人
// 返回：ID重复时返回错误
// 说明：行人在下一次PrepareNode后参与计算
func (m *PedestrianManager) Add(p *Pedestrian) error {
	m.dataMtx.Lock()
	defer m.dataMtx.Unlock()
	if _, ok := m.data[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatedPedestrian, p.ID)
	}
	m.data[p.ID] = p
	m.pedestrians.Add(p)
	log.Debugf("pedestrian %s enters at %v", p.ID, p.Pos)
	return nil
}

// Remove 登记离开检测范围的行人
// 参数：id-行人ID
// 返回：行人不存在时返回ErrPedestrianNotFound
func (m *PedestrianManager) Remove(id string) error {
	m.dataMtx.Lock()
	defer m.dataMtx.Unlock()
	p, ok := m.data[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPedestrianNotFound, id)
	}
	delete(m.data, id)
	m.pedestrians.Remove(p)
	log.Debugf("pedestrian %s leaves at %v", id, p.Pos)
	return nil
}

// GetOrError 根据ID获取行人
func (m *PedestrianManager) GetOrError(id string) (*Pedestrian, error) {
	m.dataMtx.RLock()
	defer m.dataMtx.RUnlock()
	if p, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrPedestrianNotFound, id)
	} else {
		return p, nil
	}
}

// IDs 所有已登记行人的ID（升序）
func (m *PedestrianManager) IDs() []string {
	m.dataMtx.RLock()
	ids := lo.Keys(m.data)
	m.dataMtx.RUnlock()
	sort.Strings(ids)
	return ids
}

// Data 当前参与计算的行人
func (m *PedestrianManager) Data() []*Pedestrian {
	return m.pedestrians.Data()
}

// Len 当前参与计算的行人数量
func (m *PedestrianManager) Len() int {
	return m.pedestrians.Len()
}

// PrepareNode 准备阶段：使登记的增删生效
func (m *PedestrianManager) PrepareNode() {
	m.pedestrians.Prepare()
}

// Update 更新阶段：推进所有行人一步
// 功能：有途经点的行人先朝途经点调整速度，然后由MotionTracker推进位置与运动状态
// 参数：dt-本步时间单位数
// 说明：行人之间没有共享的可变状态，并行处理
func (m *PedestrianManager) Update(dt int) {
	parallel.GoFor(m.pedestrians.Data(), func(p *Pedestrian) {
		if p.route != nil {
			p.Vel = p.route.Steer(p.Pos)
		}
		prev := p.State
		m.tracker.Advance(p, dt)
		if prev != p.State {
			log.Debugf("pedestrian %s: %v -> %v", p.ID, prev, p.State)
		}
	})
}

package pedestrian_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/clock"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/pedestrian"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
)

type testContext struct {
	clock *clock.Clock
	rc    *config.RuntimeConfig
}

func (c *testContext) Clock() *clock.Clock                  { return c.clock }
func (c *testContext) RuntimeConfig() *config.RuntimeConfig { return c.rc }

func newTestContext(c config.Config) *testContext {
	return &testContext{clock: clock.New(c.Control.Step), rc: config.NewRuntimeConfig(c)}
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	c := config.Default()
	c.Pedestrian.StationaryLongFrames = 10
	_, err := pedestrian.NewManager(newTestContext(c))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestManagerAddRemove(t *testing.T) {
	m, err := pedestrian.NewManager(newTestContext(config.Default()))
	require.NoError(t, err)

	p1 := pedestrian.New("P1", entity.Point{X: 1}, 10, -10)
	p2 := pedestrian.New("P2", entity.Point{X: 2}, 10, -10)
	require.NoError(t, m.Add(p1))
	require.NoError(t, m.Add(p2))
	assert.ErrorIs(t, m.Add(pedestrian.New("P1", entity.Point{}, 10, -10)), pedestrian.ErrDuplicatedPedestrian)

	// registered but not yet active
	assert.Equal(t, []string{"P1", "P2"}, m.IDs())
	assert.Equal(t, 0, m.Len())
	m.PrepareNode()
	assert.Equal(t, 2, m.Len())

	got, err := m.GetOrError("P2")
	require.NoError(t, err)
	assert.Same(t, p2, got)

	require.NoError(t, m.Remove("P1"))
	assert.ErrorIs(t, m.Remove("P1"), pedestrian.ErrPedestrianNotFound)
	_, err = m.GetOrError("P1")
	assert.ErrorIs(t, err, pedestrian.ErrPedestrianNotFound)
	m.PrepareNode()
	assert.Equal(t, 1, m.Len())
	assert.Same(t, p2, m.Data()[0])

	// a removed id can enter again
	require.NoError(t, m.Add(pedestrian.New("P1", entity.Point{}, 10, -10)))
}

func TestManagerUpdate(t *testing.T) {
	m, err := pedestrian.NewManager(newTestContext(config.Default()))
	require.NoError(t, err)

	walker := pedestrian.New("W", entity.Point{}, 10, -10)
	walker.SetRoute(pedestrian.NewRoute(1, entity.Point{X: 3}))
	drifter := pedestrian.New("D", entity.Point{}, 10, -10)
	drifter.Vel = entity.Point{X: -1, Y: 2}
	for i := 0; i < 20; i++ {
		require.NoError(t, m.Add(pedestrian.New(fmt.Sprintf("S%d", i), entity.Point{X: i}, 10, -10)))
	}
	require.NoError(t, m.Add(walker))
	require.NoError(t, m.Add(drifter))
	m.PrepareNode()

	for i := 0; i < 63; i++ {
		m.Update(1)
	}
	assert.Equal(t, entity.Point{X: 3}, walker.Pos)
	// reached after 3 ticks, stationary since then
	assert.Equal(t, 60, walker.FramesStationary)
	assert.Equal(t, pedestrian.StationaryShort, walker.State)

	assert.Equal(t, entity.Point{X: -63, Y: 126}, drifter.Pos)
	assert.Equal(t, pedestrian.Moving, drifter.State)

	s, err := m.GetOrError("S5")
	require.NoError(t, err)
	assert.Equal(t, 63, s.FramesStationary)
	assert.Equal(t, pedestrian.StationaryShort, s.State)
}

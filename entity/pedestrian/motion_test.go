package pedestrian_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/pedestrian"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
)

func newTracker(t *testing.T) *pedestrian.MotionTracker {
	tr, err := pedestrian.NewMotionTracker(config.Default().Pedestrian)
	require.NoError(t, err)
	return tr
}

func TestNewMotionTrackerRejectsBadThresholds(t *testing.T) {
	_, err := pedestrian.NewMotionTracker(config.Pedestrian{StationaryShortFrames: 180, StationaryLongFrames: 60})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	_, err = pedestrian.NewMotionTracker(config.Pedestrian{StationaryShortFrames: 0, StationaryLongFrames: 60})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestAdvanceMovesByVelocity(t *testing.T) {
	tr := newTracker(t)
	p := pedestrian.New("P1", entity.Point{X: 100, Y: 100}, 10, -10)
	p.Vel = entity.Point{X: 0, Y: 1}
	tr.Advance(p, 1)
	assert.Equal(t, entity.Point{X: 100, Y: 101}, p.Pos)
	tr.Advance(p, 3)
	assert.Equal(t, entity.Point{X: 100, Y: 104}, p.Pos)
	// non-positive duration counts as one tick
	tr.Advance(p, 0)
	assert.Equal(t, entity.Point{X: 100, Y: 105}, p.Pos)
	assert.Equal(t, 0, p.FramesStationary)
	assert.Equal(t, pedestrian.Moving, p.State)
}

func TestAdvanceIsUnbounded(t *testing.T) {
	tr := newTracker(t)
	p := pedestrian.New("P1", entity.Point{X: -5, Y: 0}, 10, -10)
	p.Vel = entity.Point{X: -10, Y: -10}
	tr.Advance(p, 1)
	assert.Equal(t, entity.Point{X: -15, Y: -10}, p.Pos)
}

func TestStationaryTransitions(t *testing.T) {
	tr := newTracker(t)
	p := pedestrian.New("P1", entity.Point{X: 0, Y: 0}, 10, -10)
	for n := 1; n <= 200; n++ {
		tr.Advance(p, 1)
		assert.Equal(t, n, p.FramesStationary)
		switch {
		case n < 60:
			assert.Equal(t, pedestrian.Moving, p.State, "tick %d", n)
		case n < 180:
			assert.Equal(t, pedestrian.StationaryShort, p.State, "tick %d", n)
		default:
			assert.Equal(t, pedestrian.StationaryLong, p.State, "tick %d", n)
		}
	}
	assert.Equal(t, entity.Point{}, p.Pos)
}

func TestMovementResetsCounter(t *testing.T) {
	tr := newTracker(t)
	for _, v := range []entity.Point{{X: 1}, {Y: -1}, {X: 2, Y: 3}} {
		p := pedestrian.New("P1", entity.Point{}, 10, -10)
		for i := 0; i < 190; i++ {
			tr.Advance(p, 1)
		}
		assert.Equal(t, pedestrian.StationaryLong, p.State)
		p.Vel = v
		tr.Advance(p, 1)
		assert.Equal(t, 0, p.FramesStationary)
		assert.Equal(t, pedestrian.Moving, p.State)
	}
}

func TestClassify(t *testing.T) {
	tr := newTracker(t)
	assert.Equal(t, pedestrian.Moving, tr.Classify(0))
	assert.Equal(t, pedestrian.Moving, tr.Classify(59))
	assert.Equal(t, pedestrian.StationaryShort, tr.Classify(60))
	assert.Equal(t, pedestrian.StationaryShort, tr.Classify(179))
	assert.Equal(t, pedestrian.StationaryLong, tr.Classify(180))
}

func TestMotionStateString(t *testing.T) {
	assert.Equal(t, "moving", pedestrian.Moving.String())
	assert.Equal(t, "stationary_short", pedestrian.StationaryShort.String())
	assert.Equal(t, "stationary_long", pedestrian.StationaryLong.String())
	assert.Equal(t, "MotionState(7)", pedestrian.MotionState(7).String())
}

package rsu_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/clock"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/pedestrian"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/entity/rsu"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
)

type testContext struct {
	clock *clock.Clock
	rc    *config.RuntimeConfig
}

func (c *testContext) Clock() *clock.Clock                  { return c.clock }
func (c *testContext) RuntimeConfig() *config.RuntimeConfig { return c.rc }

func newRSU(t *testing.T, mutate func(c *config.Config)) *rsu.RSU {
	c := config.Default()
	c.RSU.Scanners = []config.Scanner{
		{ID: "A", Pos: config.Point{X: 0, Y: 0}},
		{ID: "B", Pos: config.Point{X: 100, Y: 0}},
	}
	c.RSU.HistorySize = 2
	if mutate != nil {
		mutate(&c)
	}
	r, err := rsu.New(&testContext{clock: clock.New(c.Control.Step), rc: config.NewRuntimeConfig(c)}, "rsu0")
	require.NoError(t, err)
	return r
}

func TestNewRejectsBadConfig(t *testing.T) {
	c := config.Default()
	c.RSU.Scanners = nil
	_, err := rsu.New(&testContext{rc: config.NewRuntimeConfig(c)}, "rsu0")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestStrongestScanner(t *testing.T) {
	r := newRSU(t, nil)
	readings, scanner, dbm := r.Strongest(entity.Point{X: 88, Y: 0})
	assert.Equal(t, map[string]int{"A": -48, "B": -31}, readings)
	assert.Equal(t, "B", scanner)
	assert.Equal(t, -31, dbm)

	// tie goes to the first configured scanner
	_, scanner, _ = r.Strongest(entity.Point{X: 50, Y: 0})
	assert.Equal(t, "A", scanner)
}

func TestScanAggregatesIntent(t *testing.T) {
	r := newRSU(t, nil)

	waiting := pedestrian.New("P1", entity.Point{X: 88, Y: 0}, 10, -10)
	walking := pedestrian.New("P2", entity.Point{X: 10, Y: 0}, 10, -10)
	walking.Vel = entity.Point{X: 1}
	far := pedestrian.New("P3", entity.Point{X: 5000, Y: 0}, 10, -10)

	obs, request := r.Scan([]*pedestrian.Pedestrian{waiting, walking, far})
	require.Len(t, obs, 3)
	assert.False(t, request)
	assert.Equal(t, "P1", obs[0].ID)
	assert.True(t, waiting.Anomalous)
	assert.False(t, waiting.IntentToCross)
	assert.False(t, far.Anomalous)

	waiting.State = pedestrian.StationaryLong
	obs, request = r.Scan([]*pedestrian.Pedestrian{waiting, walking, far})
	assert.True(t, request)
	assert.True(t, obs[0].Verdict.Intent)
	assert.True(t, waiting.IntentToCross)
	assert.False(t, obs[1].Requests())
	assert.False(t, obs[2].Requests())
}

func TestScanButtonPress(t *testing.T) {
	r := newRSU(t, nil)

	far := pedestrian.New("P1", entity.Point{X: 5000, Y: 0}, 10, -10)
	far.ButtonPressed = true
	_, request := r.Scan([]*pedestrian.Pedestrian{far})
	assert.True(t, request)

	// an anomalous pedestrian's button is ignored
	far.Malicious = true
	_, request = r.Scan([]*pedestrian.Pedestrian{far})
	assert.False(t, request)

	_, request = r.Scan(nil)
	assert.False(t, request)
}

func TestScanTracks(t *testing.T) {
	r := newRSU(t, nil)
	p1 := pedestrian.New("P1", entity.Point{X: 88, Y: 0}, 10, -10)
	p2 := pedestrian.New("P2", entity.Point{X: 5000, Y: 0}, 10, -10)

	r.Scan([]*pedestrian.Pedestrian{p1, p2})
	p1.Pos = entity.Point{X: 0, Y: 12}
	r.Scan([]*pedestrian.Pedestrian{p1, p2})
	p1.Pos = entity.Point{X: 0, Y: 5}
	r.Scan([]*pedestrian.Pedestrian{p1, p2})
	assert.Equal(t, []string{"P1", "P2"}, r.TrackIDs())

	got, ok := r.Track("P1")
	require.True(t, ok)
	want := rsu.Track{
		ID:          "P1",
		Readings:    map[string]int{"A": -23, "B": -50},
		BestScanner: "A",
		SignalDbm:   -23,
		History:     []float64{-31, -23},
		MeanDbm:     -27,
		StdDevDb:    4,
		Verdict:     rsu.Verdict{Anomalous: true, Intent: false},
		Observed:    3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Track mismatch (-want +got):\n%s", diff)
	}

	// P1 left the detection range
	r.Scan([]*pedestrian.Pedestrian{p2})
	assert.Equal(t, []string{"P2"}, r.TrackIDs())
	_, ok = r.Track("P1")
	assert.False(t, ok)
}

func TestSetPolicy(t *testing.T) {
	r := newRSU(t, nil)
	r.SetPolicy(alwaysPolicy{})
	p := pedestrian.New("P1", entity.Point{X: 5000}, 10, -10)
	_, request := r.Scan([]*pedestrian.Pedestrian{p})
	assert.True(t, request)
}

type alwaysPolicy struct{}

func (alwaysPolicy) Evaluate(*pedestrian.Pedestrian, int, *rsu.Track) rsu.Verdict {
	return rsu.Verdict{Intent: true}
}

func TestInRange(t *testing.T) {
	r := newRSU(t, nil)
	assert.True(t, r.InRange(entity.Point{X: 130, Y: 40}, 50))
	assert.False(t, r.InRange(entity.Point{X: 50, Y: 60}, 50))
	assert.True(t, r.InRange(entity.Point{X: 1e6}, 0))
}

func TestShadowingFromConfig(t *testing.T) {
	r := newRSU(t, func(c *config.Config) {
		c.RSU.ShadowFadingSigmaDb = 4
		c.RSU.Seed = 3
	})
	for i := 0; i < 100; i++ {
		_, _, dbm := r.Strongest(entity.Point{X: i * 37})
		assert.GreaterOrEqual(t, dbm, -90)
		assert.LessOrEqual(t, dbm, -20)
	}
}

func TestScanIsReproducibleWithShadowing(t *testing.T) {
	shadowed := func(c *config.Config) {
		c.RSU.ShadowFadingSigmaDb = 4
		c.RSU.Seed = 11
		c.RSU.HistorySize = 20
	}
	newPedestrians := func() []*pedestrian.Pedestrian {
		peds := make([]*pedestrian.Pedestrian, 64)
		for i := range peds {
			peds[i] = pedestrian.New(fmt.Sprintf("P%02d", i), entity.Point{X: 7 * i, Y: 3 * i}, 10, -10)
		}
		return peds
	}
	scanAll := func() [][]rsu.Observation {
		r := newRSU(t, shadowed)
		peds := newPedestrians()
		var all [][]rsu.Observation
		for i := 0; i < 20; i++ {
			obs, _ := r.Scan(peds)
			all = append(all, obs)
		}
		return all
	}

	a, b := scanAll(), scanAll()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed gave different observations (-first +second):\n%s", diff)
	}
}

func TestScanFlagsFluctuatingStationaryPedestrian(t *testing.T) {
	r := newRSU(t, func(c *config.Config) {
		c.RSU.Policy = config.PolicyKinematic
		c.RSU.RssiWaitingThresholdDbm = -10
		c.RSU.HistorySize = 10
	})
	// 上报静止，但位置在两处之间跳变
	spoofed := pedestrian.New("S", entity.Point{X: 0, Y: 5}, 10, -10)
	spoofed.State = pedestrian.StationaryLong
	spoofed.FramesStationary = 10
	steady := pedestrian.New("Q", entity.Point{X: 30, Y: 0}, 10, -10)
	steady.State = pedestrian.StationaryLong
	steady.FramesStationary = 10

	obs, _ := r.Scan([]*pedestrian.Pedestrian{spoofed, steady})
	assert.False(t, obs[0].Verdict.Anomalous)

	spoofed.Pos = entity.Point{X: 0, Y: 400}
	obs, _ = r.Scan([]*pedestrian.Pedestrian{spoofed, steady})
	assert.True(t, obs[0].Verdict.Anomalous)
	assert.True(t, spoofed.Anomalous)
	assert.False(t, obs[1].Verdict.Anomalous)

	track, ok := r.Track("S")
	require.True(t, ok)
	assert.Equal(t, []float64{-23, -62}, track.History)
	assert.InDelta(t, 19.5, track.StationaryStdDevDb, 1e-9)
	assert.True(t, track.Verdict.Anomalous)

	track, ok = r.Track("Q")
	require.True(t, ok)
	assert.Equal(t, 0.0, track.StationaryStdDevDb)
}

func TestStationaryStdDevWindow(t *testing.T) {
	r := newRSU(t, func(c *config.Config) { c.RSU.HistorySize = 10 })
	p := pedestrian.New("P", entity.Point{X: 0, Y: 400}, 10, -10)
	r.Scan([]*pedestrian.Pedestrian{p})
	r.Scan([]*pedestrian.Pedestrian{p})

	// 最近一次移动后只静止了1步，窗口只含最后两个读数
	p.Pos = entity.Point{X: 0, Y: 5}
	r.Scan([]*pedestrian.Pedestrian{p})
	p.FramesStationary = 1
	r.Scan([]*pedestrian.Pedestrian{p})

	track, ok := r.Track("P")
	require.True(t, ok)
	assert.Equal(t, []float64{-62, -62, -23, -23}, track.History)
	assert.Equal(t, 0.0, track.StationaryStdDevDb)
	assert.Greater(t, track.StdDevDb, 0.0)
}

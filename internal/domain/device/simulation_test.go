package device

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

func TestTick_NetworkStaysBounded(t *testing.T) {
	s, _ := newTestStore()
	defer s.Close()

	before := s.NetworkSpeed()
	s.Advance(2000 * time.Millisecond)
	after := s.NetworkSpeed()

	assert.GreaterOrEqual(t, after.Up, 0.1)
	assert.GreaterOrEqual(t, after.Down, 0.1)
	assert.LessOrEqual(t, math.Abs(after.Up-before.Up), 1.0)
	assert.LessOrEqual(t, math.Abs(after.Down-before.Down), 1.0)
}

func TestTick_NetworkFloor(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		s, rec := newTestStore(WithSeed(seed))
		s.Advance(200 * time.Second)
		for _, snap := range rec.ticks {
			require.GreaterOrEqual(t, snap.NetworkSpeed.Up, 0.1)
			require.GreaterOrEqual(t, snap.NetworkSpeed.Down, 0.1)
		}
		s.Close()
	}
}

func TestTick_DownlinkWalk(t *testing.T) {
	tests := []struct {
		name        string
		downloading bool
		lo, hi      float64
		minMean     float64
	}{
		{"idle", false, -1, 1, -1},
		{"downloading", true, -2, 8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(1); seed <= 10; seed++ {
				s, rec := newTestStore(WithSeed(seed))
				s.SetIsDownloading(tt.downloading)

				prev := s.NetworkSpeed().Down
				s.Advance(200 * time.Second)
				require.Len(t, rec.ticks, 100)

				var total float64
				for _, snap := range rec.ticks {
					down := snap.NetworkSpeed.Down
					step := down - prev
					require.GreaterOrEqual(t, down, 0.1)
					require.GreaterOrEqual(t, step, tt.lo-1e-9, "seed %d", seed)
					require.LessOrEqual(t, step, tt.hi+1e-9, "seed %d", seed)
					require.Equal(t, tt.downloading, snap.IsDownloading)
					total += step
					prev = down
				}
				assert.Greater(t, total/float64(len(rec.ticks)), tt.minMean, "seed %d", seed)
				s.Close()
			}
		})
	}
}

func TestTick_WifiOffZeroesNetwork(t *testing.T) {
	s, _ := newTestStore()
	defer s.Close()

	s.SetWifiEnabled(false)
	s.Advance(2000 * time.Millisecond)

	assert.Equal(t, types.NetworkSpeed{}, s.NetworkSpeed())
}

func TestTick_WifiOffStopsDownload(t *testing.T) {
	s, _ := newTestStore()
	defer s.Close()

	s.SetWifiEnabled(false)
	s.SetIsDownloading(true)
	s.Advance(2000 * time.Millisecond)

	assert.False(t, s.IsDownloading())
	n, ok := find(s.Notifications(), "Network", "Wi-Fi disconnected. Download paused.")
	require.True(t, ok)
	assert.Equal(t, types.KindWarning, n.Kind)
}

func TestTick_TemperatureApproachesBaseline(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*Store)
		baseline float64
	}{
		{"idle", func(*Store) {}, 35},
		{"foreground app", func(s *Store) { s.SetActiveApp("calculator") }, 40},
		{"downloading", func(s *Store) { s.SetIsDownloading(true) }, 45},
		{"downloading with app", func(s *Store) {
			s.SetIsDownloading(true)
			s.SetActiveApp("terminal")
		}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore()
			defer s.Close()

			tt.setup(s)
			s.Advance(400 * time.Second)

			assert.InDelta(t, tt.baseline, s.Temperature(), 2.0)
		})
	}
}

func TestTick_TrackersNonDecreasing(t *testing.T) {
	s, rec := newTestStore()
	defer s.Close()

	s.Advance(200 * time.Second)

	require.Len(t, rec.ticks, 100)
	prev := 128
	for _, snap := range rec.ticks {
		assert.GreaterOrEqual(t, snap.BlockedTrackers, prev)
		assert.LessOrEqual(t, snap.BlockedTrackers-prev, 2)
		prev = snap.BlockedTrackers
	}
	assert.Greater(t, prev, 128)
}

func TestTick_TrackersFrozenWithoutFirewall(t *testing.T) {
	s, _ := newTestStore()
	defer s.Close()

	s.SetFirewallEnabled(false)
	s.Advance(60 * time.Second)
	assert.Equal(t, 128, s.BlockedTrackers())
}

func TestTick_BatteryDrain(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Store)
		drain float64
	}{
		{"idle", func(*Store) {}, 0.05},
		{"foreground app", func(s *Store) { s.SetActiveApp("calculator") }, 0.15},
		{"downloading", func(s *Store) { s.SetIsDownloading(true) }, 0.2},
		{"downloading with app", func(s *Store) {
			s.SetIsDownloading(true)
			s.SetActiveApp("calculator")
		}, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore()
			defer s.Close()

			tt.setup(s)
			s.Advance(2000 * time.Millisecond)
			assert.InDelta(t, 84-tt.drain, s.Battery(), 1e-9)
		})
	}
}

func TestTick_BatteryBounds(t *testing.T) {
	full, _ := newTestStore(WithBattery(99.8))
	defer full.Close()
	full.SetIsCharging(true)
	full.Advance(2000 * time.Millisecond)
	assert.Equal(t, 100.0, full.Battery())

	empty, _ := newTestStore(WithBattery(0.03))
	defer empty.Close()
	empty.Advance(2000 * time.Millisecond)
	assert.Equal(t, 0.0, empty.Battery())
}

func TestTick_BatteryLowEdgeTriggered(t *testing.T) {
	s, rec := newTestStore(WithBattery(20.04))
	defer s.Close()

	s.Advance(2000 * time.Millisecond)
	require.LessOrEqual(t, s.Battery(), 20.0)
	assert.Equal(t, 1, rec.count("Battery Low", EventAdded))
	n, ok := find(s.Notifications(), "Battery Low", msgBatteryLow)
	require.True(t, ok)
	assert.Equal(t, types.KindWarning, n.Kind)

	// Staying below the mark does not fire again
	s.Advance(60 * time.Second)
	assert.Equal(t, 1, rec.count("Battery Low", EventAdded))

	s.SetIsCharging(true)
	s.Advance(20 * time.Second)
	require.Greater(t, s.Battery(), 20.0)
	s.SetIsCharging(false)
	s.Advance(200 * time.Second)

	require.LessOrEqual(t, s.Battery(), 20.0)
	assert.Equal(t, 2, rec.count("Battery Low", EventAdded))
}

func TestTick_AtomicSnapshot(t *testing.T) {
	s, rec := newTestStore()
	defer s.Close()

	v0 := s.Snapshot().Version
	s.Advance(2000 * time.Millisecond)

	require.Len(t, rec.ticks, 1)
	assert.Equal(t, v0+1, rec.ticks[0].Version)
	assert.Equal(t, int64(2000), rec.ticks[0].ElapsedMS)
}

func TestTick_Manual(t *testing.T) {
	s, _ := newTestStore()
	defer s.Close()

	v0 := s.Snapshot().Version
	s.Tick()
	assert.Equal(t, v0+1, s.Snapshot().Version)
	assert.InDelta(t, 83.95, s.Battery(), 1e-9)
}

func TestTick_DeterministicBySeed(t *testing.T) {
	a, _ := newTestStore(WithSeed(99))
	defer a.Close()
	b, _ := newTestStore(WithSeed(99))
	defer b.Close()
	c, _ := newTestStore(WithSeed(100))
	defer c.Close()

	for _, s := range []*Store{a, b, c} {
		s.SetIsDownloading(true)
		s.Advance(60 * time.Second)
	}

	sa, sb, sc := a.Snapshot(), b.Snapshot(), c.Snapshot()
	assert.Equal(t, sa.Temperature, sb.Temperature)
	assert.Equal(t, sa.NetworkSpeed, sb.NetworkSpeed)
	assert.Equal(t, sa.BlockedTrackers, sb.BlockedTrackers)
	assert.NotEqual(t, sa.NetworkSpeed, sc.NetworkSpeed)
}

func TestTick_Interval(t *testing.T) {
	s, rec := newTestStore(WithTickInterval(500 * time.Millisecond))
	defer s.Close()

	s.Advance(2000 * time.Millisecond)
	assert.Equal(t, 4, rec.tickCount())
}

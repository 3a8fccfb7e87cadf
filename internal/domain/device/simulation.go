package device

import (
	"math"
	"time"

	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

const (
	minLinkSpeed = 0.1 // MB/s floor while Wi-Fi is up

	idleTemperature     = 35.0
	downloadTemperature = 45.0
	appHeat             = 5.0
	thermalInertia      = 0.1

	chargeRate       = 0.5
	idleDrain        = 0.05
	downloadDrain    = 0.2
	foregroundDrain  = 0.1
	lowBatteryMark   = 20.0
	maxTrackerGrowth = 3
)

func (s *Store) scheduleTickLocked(delay time.Duration) {
	s.scheduleLocked(delay, func() {
		s.tickLocked()
		snap := s.commitLocked()
		for _, r := range s.recorders {
			r.RecordTick(snap)
		}
		s.scheduleTickLocked(s.tickInterval)
	})
}

// Tick runs one simulation step immediately, outside the periodic schedule
func (s *Store) Tick() {
	s.update(func(*deviceState) bool {
		s.tickLocked()
		return true
	})
}

// tickLocked performs one simulation step: network, temperature, trackers, battery
func (s *Store) tickLocked() {
	st := &s.state

	if st.wifi {
		st.network.Up = math.Max(minLinkSpeed, st.network.Up+s.rng.uniform(-1, 1))
		if st.downloading {
			st.network.Down = math.Max(minLinkSpeed, st.network.Down+s.rng.uniform(-2, 8))
		} else {
			st.network.Down = math.Max(minLinkSpeed, st.network.Down+s.rng.uniform(-1, 1))
		}
	} else {
		st.network = types.NetworkSpeed{}
		if st.downloading {
			s.stopDownloadLocked()
		}
	}

	baseline := idleTemperature
	if st.downloading {
		baseline = downloadTemperature
	}
	if st.activeApp != types.NoApp {
		baseline += appHeat
	}
	target := baseline + s.rng.uniform(-1, 1)
	st.temperature += thermalInertia*(target-st.temperature) + s.rng.uniform(-0.2, 0.2)

	if st.wifi && st.firewall {
		st.trackers += s.rng.intn(maxTrackerGrowth)
	}

	before := st.battery
	if st.charging {
		st.battery = math.Min(100, st.battery+chargeRate)
	} else {
		drain := idleDrain
		if st.downloading {
			drain = downloadDrain
		}
		if st.activeApp != types.NoApp {
			drain += foregroundDrain
		}
		st.battery = math.Max(0, st.battery-drain)
	}
	if before > lowBatteryMark && st.battery <= lowBatteryMark {
		s.addNotificationLocked(titleBatteryLow, msgBatteryLow, types.KindWarning)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

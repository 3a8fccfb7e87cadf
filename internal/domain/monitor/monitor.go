// Package monitor keeps a bounded telemetry history of the device store and
// derives the statistics shown by the System Monitor app.
package monitor

import (
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/GriffinCanCode/novashell/internal/domain/device"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

// DefaultCapacity keeps five minutes of 2000 ms ticks
const DefaultCapacity = 150

// minSlope is the smallest battery trend, in percent per minute, worth extrapolating
const minSlope = 1e-6

// Sample is one tick of telemetry
type Sample struct {
	ElapsedMS   int64   `json:"elapsed_ms"`
	Battery     float64 `json:"battery"`
	Temperature float64 `json:"temperature"`
	Up          float64 `json:"up"`
	Down        float64 `json:"down"`
	Trackers    int     `json:"trackers"`
	Charging    bool    `json:"charging"`
}

// Series summarises one telemetry channel
type Series struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Last   float64 `json:"last"`
}

// BatteryEstimate extrapolates the current charging phase
type BatteryEstimate struct {
	Valid          bool    `json:"valid"`
	Charging       bool    `json:"charging"`
	RatePerMinute  float64 `json:"rate_per_minute"`
	MinutesToLimit float64 `json:"minutes_to_limit"` // To empty while discharging, to full while charging
}

// Summary is the monitor's view of recent history
type Summary struct {
	Samples       int                                 `json:"samples"`
	Battery       Series                              `json:"battery"`
	Temperature   Series                              `json:"temperature"`
	Upload        Series                              `json:"upload"`
	Download      Series                              `json:"download"`
	Estimate      BatteryEstimate                     `json:"estimate"`
	Notifications map[device.NotificationEvent]uint64 `json:"notifications"`
}

// Monitor records store ticks into a ring buffer
type Monitor struct {
	mu      sync.RWMutex
	samples []Sample
	next    int
	full    bool
	events  map[device.NotificationEvent]uint64
}

// New creates a monitor holding at most capacity samples
func New(capacity int) *Monitor {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Monitor{
		samples: make([]Sample, capacity),
		events:  make(map[device.NotificationEvent]uint64),
	}
}

// RecordTick implements device.Recorder
func (m *Monitor) RecordTick(snap types.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.samples[m.next] = Sample{
		ElapsedMS:   snap.ElapsedMS,
		Battery:     snap.Battery,
		Temperature: snap.Temperature,
		Up:          snap.NetworkSpeed.Up,
		Down:        snap.NetworkSpeed.Down,
		Trackers:    snap.BlockedTrackers,
		Charging:    snap.IsCharging,
	}
	m.next = (m.next + 1) % len(m.samples)
	if m.next == 0 {
		m.full = true
	}
}

// RecordNotification implements device.Recorder
func (m *Monitor) RecordNotification(_ types.Notification, event device.NotificationEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event]++
}

// History returns the recorded samples, oldest first
func (m *Monitor) History() []Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.historyLocked()
}

func (m *Monitor) historyLocked() []Sample {
	if !m.full {
		out := make([]Sample, m.next)
		copy(out, m.samples[:m.next])
		return out
	}
	out := make([]Sample, 0, len(m.samples))
	out = append(out, m.samples[m.next:]...)
	return append(out, m.samples[:m.next]...)
}

// Summary computes statistics over the recorded history
func (m *Monitor) Summary() Summary {
	m.mu.RLock()
	history := m.historyLocked()
	events := make(map[device.NotificationEvent]uint64, len(m.events))
	for k, v := range m.events {
		events[k] = v
	}
	m.mu.RUnlock()

	n := len(history)
	battery := make([]float64, n)
	temperature := make([]float64, n)
	up := make([]float64, n)
	down := make([]float64, n)
	for i, s := range history {
		battery[i] = s.Battery
		temperature[i] = s.Temperature
		up[i] = s.Up
		down[i] = s.Down
	}

	return Summary{
		Samples:       n,
		Battery:       summarise(battery),
		Temperature:   summarise(temperature),
		Upload:        summarise(up),
		Download:      summarise(down),
		Estimate:      estimate(history),
		Notifications: events,
	}
}

func summarise(values []float64) Series {
	if len(values) == 0 {
		return Series{}
	}
	s := Series{
		Mean: stat.Mean(values, nil),
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		Last: values[len(values)-1],
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}

// estimate fits battery against time over the trailing samples that share
// the latest charging state
func estimate(history []Sample) BatteryEstimate {
	if len(history) == 0 {
		return BatteryEstimate{}
	}

	last := history[len(history)-1]
	start := len(history) - 1
	for start > 0 && history[start-1].Charging == last.Charging {
		start--
	}
	phase := history[start:]
	if len(phase) < 3 {
		return BatteryEstimate{Charging: last.Charging}
	}

	minutes := make([]float64, len(phase))
	levels := make([]float64, len(phase))
	for i, s := range phase {
		minutes[i] = float64(s.ElapsedMS) / 60000
		levels[i] = s.Battery
	}
	_, slope := stat.LinearRegression(minutes, levels, nil, false)

	est := BatteryEstimate{Charging: last.Charging, RatePerMinute: slope}
	switch {
	case last.Charging && slope > minSlope:
		est.Valid = true
		est.MinutesToLimit = (100 - last.Battery) / slope
	case !last.Charging && slope < -minSlope:
		est.Valid = true
		est.MinutesToLimit = last.Battery / -slope
	}
	return est
}

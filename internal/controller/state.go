package controller

import (
	"sync"
	"time"

	"github.com/estuary/kachaka-core/internal/connection"
	"github.com/estuary/kachaka-core/internal/kachakapb"
)

// RobotState is the live sampled state of one robot. Reads go through
// State(), which always returns an independent copy.
type RobotState struct {
	BatteryPercent   int32
	Pose             kachakapb.Pose
	IsCommandRunning bool
	LastUpdated      time.Time

	MovingShelfId string
	ShelfDropped  bool

	ConnectionState connection.State
	DisconnectedAt  *time.Time
	LastReconnectAt *time.Time
}

// ControllerMetrics accumulates command-poll round-trip observations. It is
// reset atomically by its owner, never by a reader.
type ControllerMetrics struct {
	mu sync.Mutex

	PollRTTs          []time.Duration
	PollCount         int
	PollSuccessCount  int
	PollFailureCount  int
}

func (m *ControllerMetrics) recordSuccess(rtt time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollCount++
	m.PollSuccessCount++
	m.PollRTTs = append(m.PollRTTs, rtt)
}

func (m *ControllerMetrics) recordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollCount++
	m.PollFailureCount++
}

// Snapshot returns an independent copy of the accumulated metrics.
func (m *ControllerMetrics) Snapshot() ControllerMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ControllerMetrics{
		PollRTTs:         append([]time.Duration(nil), m.PollRTTs...),
		PollCount:        m.PollCount,
		PollSuccessCount: m.PollSuccessCount,
		PollFailureCount: m.PollFailureCount,
	}
}

// Reset clears all accumulated metrics atomically.
func (m *ControllerMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollRTTs = nil
	m.PollCount = 0
	m.PollSuccessCount = 0
	m.PollFailureCount = 0
}

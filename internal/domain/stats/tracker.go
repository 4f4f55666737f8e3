// Package stats tracks process-wide request statistics and connected devices.
package stats

import "sync"

// DefaultTrackedActions are the action tags counted individually.
var DefaultTrackedActions = []string{"office", "web", "media"}

// Snapshot is a point-in-time copy of the tracker state.
type Snapshot struct {
	TotalRequests    int64            `json:"total_requests"`
	TotalActions     int64            `json:"total_actions"`
	ActionsByType    map[string]int64 `json:"actions_by_type"`
	ConnectedDevices []string         `json:"connected_devices"`
}

// Tracker holds counters for the life of the process. One mutex guards all of
// its state so a Snapshot never mixes two updates.
type Tracker struct {
	mu            sync.Mutex
	totalRequests int64
	totalActions  int64
	byType        map[string]int64
	devices       []string
	seen          map[string]struct{}
}

// NewTracker creates a tracker counting the given tags individually. With no
// tags, DefaultTrackedActions is used.
func NewTracker(tracked ...string) *Tracker {
	if len(tracked) == 0 {
		tracked = DefaultTrackedActions
	}
	byType := make(map[string]int64, len(tracked))
	for _, tag := range tracked {
		byType[tag] = 0
	}
	return &Tracker{
		byType: byType,
		seen:   make(map[string]struct{}),
	}
}

// RecordRequest counts one inbound call.
func (t *Tracker) RecordRequest() {
	t.mu.Lock()
	t.totalRequests++
	t.mu.Unlock()
}

// RecordAction counts one device action. Untracked tags only count toward the total.
func (t *Tracker) RecordAction(tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.totalActions++
	if _, ok := t.byType[tag]; ok {
		t.byType[tag]++
	}
}

// RegisterDevice adds id to the connected set and reports whether it was new.
func (t *Tracker) RegisterDevice(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		return false
	}
	t.seen[id] = struct{}{}
	t.devices = append(t.devices, id)
	return true
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	byType := make(map[string]int64, len(t.byType))
	for k, v := range t.byType {
		byType[k] = v
	}
	devices := make([]string, len(t.devices))
	copy(devices, t.devices)

	return Snapshot{
		TotalRequests:    t.totalRequests,
		TotalActions:     t.totalActions,
		ActionsByType:    byType,
		ConnectedDevices: devices,
	}
}

// DeviceCount returns the number of distinct devices seen.
func (t *Tracker) DeviceCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.devices)
}

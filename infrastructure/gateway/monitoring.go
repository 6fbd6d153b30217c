package gateway

import (
	"chat-channels/domain/event"
	"encoding/json"
	"net/http"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/process"
)

// Monitoring exposes the telemetry counters and the process footprint as JSON.
type Monitoring struct {
	counter       *event.Counter
	subscriptions func() int
	// self is nil when the process could not be inspected
	self *process.Process
}

func NewMonitoring(counter *event.Counter, subscriptions func() int) *Monitoring {
	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		self = nil
	}
	return &Monitoring{counter: counter, subscriptions: subscriptions, self: self}
}

type Snapshot struct {
	Events        map[event.Type]uint64 `json:"events"`
	Subscriptions int                   `json:"subscriptions"`
	Process       ProcessStats          `json:"process"`
}

type ProcessStats struct {
	Goroutines int     `json:"goroutines"`
	RSSBytes   uint64  `json:"rss_bytes,omitempty"`
	CPUPercent float64 `json:"cpu_percent,omitempty"`
}

func (m *Monitoring) Snapshot() Snapshot {
	return Snapshot{
		Events:        m.counter.Snapshot(),
		Subscriptions: m.subscriptions(),
		Process:       m.processStats(),
	}
}

// processStats leaves the OS figures empty when they cannot be read.
func (m *Monitoring) processStats() ProcessStats {
	stats := ProcessStats{Goroutines: runtime.NumGoroutine()}
	if m.self == nil {
		return stats
	}
	if memInfo, err := m.self.MemoryInfo(); err == nil {
		stats.RSSBytes = memInfo.RSS
	}
	if cpu, err := m.self.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	return stats
}

func (m *Monitoring) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.Snapshot())
}

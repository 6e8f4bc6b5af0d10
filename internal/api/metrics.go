package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/studio"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string          `json:"timestamp"`
	Version       string          `json:"version"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Runtime       RuntimeMetrics  `json:"runtime"`
	WebSocket     WSMetrics       `json:"websocket"`
	Studio        studio.Status   `json:"studio"`
	Presets       PresetMetrics   `json:"presets"`
	Checks        map[string]bool `json:"checks,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// WSMetrics contains WebSocket hub statistics.
type WSMetrics struct {
	ConnectedClients int `json:"connected_clients"`
}

// PresetMetrics counts the presets in each collection.
type PresetMetrics struct {
	Environments int `json:"environments"`
	Animations   int `json:"animations"`
	Sequences    int `json:"sequences"`
}

// handleMetrics returns runtime, hub and studio metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	ctx := r.Context()
	presets := s.studio.Presets()
	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		WebSocket: WSMetrics{
			ConnectedClients: s.hub.ClientCount(),
		},
		Studio: s.studio.Status(),
		Presets: PresetMetrics{
			Environments: len(presets.Environments(ctx)),
			Animations:   len(presets.Animations(ctx)),
			Sequences:    len(presets.Sequences(ctx)),
		},
	}

	if len(s.checks) > 0 {
		metrics.Checks = make(map[string]bool, len(s.checks))
		for name, c := range s.checks {
			metrics.Checks[name] = c.HealthCheck(ctx) == nil
		}
	}

	writeJSON(w, http.StatusOK, metrics)
}

package server

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/pushlab/push-analytics/internal/store"
)

// ProcessStats describes the running service process
type ProcessStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryMB      float64 `json:"memory_mb"`
	Goroutines    int     `json:"goroutines"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// DBStatusResponse reports store health alongside row counts
type DBStatusResponse struct {
	Status       string       `json:"status"`
	Clients      int64        `json:"clients_count"`
	Transactions int64        `json:"transactions_count"`
	Transfers    int64        `json:"transfers_count"`
	Process      ProcessStats `json:"process"`
}

// SystemStatusResponse is the bare process view without store access
type SystemStatusResponse struct {
	Service string       `json:"service"`
	Process ProcessStats `json:"process"`
}

// handleDBStatus checks connectivity and reports table sizes
func (s *Server) handleDBStatus(w http.ResponseWriter, r *http.Request) {
	resp := DBStatusResponse{
		Status:  "connected",
		Process: s.processStats(),
	}

	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.log.Error().Err(err).Msg("database ping failed")
			resp.Status = "disconnected"
			s.writeJSON(w, http.StatusInternalServerError, resp)
			return
		}
	}

	if counter, ok := s.store.(store.Counter); ok {
		counts, err := counter.Counts(r.Context())
		if err != nil {
			s.log.Error().Err(err).Msg("row counts failed")
			resp.Status = "disconnected"
			s.writeJSON(w, http.StatusInternalServerError, resp)
			return
		}
		resp.Clients = counts.Clients
		resp.Transactions = counts.Transactions
		resp.Transfers = counts.Transfers
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleSystemStatus returns process statistics only
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, SystemStatusResponse{
		Service: "push_analytics",
		Process: s.processStats(),
	})
}

// processStats samples the current process; failures degrade to zeros
// rather than failing the status endpoint.
func (s *Server) processStats() ProcessStats {
	stats := ProcessStats{
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: time.Since(s.started).Seconds(),
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		s.log.Debug().Err(err).Msg("process stats unavailable")
		return stats
	}
	if cpu, err := p.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	if mem, err := p.MemoryInfo(); err == nil && mem != nil {
		stats.MemoryMB = float64(mem.RSS) / 1024 / 1024
	}
	return stats
}

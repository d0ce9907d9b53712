package server

import (
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/advisor/internal/database"
	"github.com/aristath/advisor/internal/scheduler"
)

// SystemHandlers contains HTTP handlers for system monitoring
type SystemHandlers struct {
	log         zerolog.Logger
	cacheDB     *database.DB
	scheduler   *scheduler.Scheduler
	jobs        map[string]scheduler.Job
	startupTime time.Time
}

// NewSystemHandlers creates a new system handlers instance. cacheDB and
// sched may be nil.
func NewSystemHandlers(log zerolog.Logger, cacheDB *database.DB, sched *scheduler.Scheduler, jobs []scheduler.Job) *SystemHandlers {
	byName := make(map[string]scheduler.Job, len(jobs))
	for _, job := range jobs {
		byName[job.Name()] = job
	}

	return &SystemHandlers{
		log:         log.With().Str("service", "system").Logger(),
		cacheDB:     cacheDB,
		scheduler:   sched,
		jobs:        byName,
		startupTime: time.Now(),
	}
}

// SystemStatusResponse represents system status
type SystemStatusResponse struct {
	Status        string      `json:"status"` // "healthy" or "degraded"
	UptimeSeconds float64     `json:"uptime_seconds"`
	Goroutines    int         `json:"goroutines"`
	GoVersion     string      `json:"go_version"`
	CPUPercent    float64     `json:"cpu_percent"`
	RAMPercent    float64     `json:"ram_percent"`
	Cache         CacheStatus `json:"cache"`
}

// CacheStatus describes the market data cache database
type CacheStatus struct {
	Enabled bool            `json:"enabled"`
	Stats   *database.Stats `json:"stats,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// JobsStatusResponse lists jobs that can be triggered manually
type JobsStatusResponse struct {
	Jobs []string `json:"jobs"`
}

// HandleSystemStatus returns process and host statistics
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		GoVersion:     runtime.Version(),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
	}

	if h.cacheDB != nil {
		response.Cache.Enabled = true
		if err := h.cacheDB.QuickCheck(r.Context()); err != nil {
			response.Status = "degraded"
			response.Cache.Error = err.Error()
		} else if stats, err := h.cacheDB.GetStats(); err != nil {
			response.Cache.Error = err.Error()
		} else {
			response.Cache.Stats = stats
		}
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleJobsStatus lists the registered jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.jobs))
	for name := range h.jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	h.writeJSON(w, http.StatusOK, JobsStatusResponse{Jobs: names})
}

// HandleTriggerJob runs a registered job immediately
// POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	job, ok := h.jobs[name]
	if !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]string{
			"status":  "error",
			"message": "Unknown job: " + name,
		})
		return
	}

	h.log.Info().Str("job", name).Msg("Manual job triggered")

	var err error
	if h.scheduler != nil {
		err = h.scheduler.RunNow(job)
	} else {
		err = job.Run()
	}
	if err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": name + " completed",
	})
}

// getSystemStats calculates CPU and RAM usage percentages
// The CPU sample blocks for 100ms.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(cpuPercent) == 0 {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuPercent[0], 0
	}

	return cpuPercent[0], memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data, h.log)
}

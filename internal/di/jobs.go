package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/clientdata"
	"github.com/aristath/advisor/internal/scheduler"
)

// Cron schedules of the cache jobs
const (
	CleanupSchedule     = "@hourly"
	MaintenanceSchedule = "0 */30 * * * *"
)

// RegisterJobs creates the scheduler and registers background jobs.
// Returns JobInstances for manual triggering via API.
func RegisterJobs(container *Container, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	instances := &JobInstances{}
	container.Scheduler = scheduler.New(log)

	if container.ClientDataRepo != nil {
		cleanup := clientdata.NewCleanupJob(container.ClientDataRepo, log)
		if err := container.Scheduler.AddJob(CleanupSchedule, cleanup); err != nil {
			return nil, fmt.Errorf("failed to register %s job: %w", cleanup.Name(), err)
		}
		instances.ClientDataCleanup = cleanup

		maintenance := scheduler.NewCacheMaintenanceJob(container.CacheDB, log)
		if err := container.Scheduler.AddJob(MaintenanceSchedule, maintenance); err != nil {
			return nil, fmt.Errorf("failed to register %s job: %w", maintenance.Name(), err)
		}
		instances.CacheMaintenance = maintenance
	}

	return instances, nil
}

// Package di provides dependency injection type definitions.
//
// Container is the single source of truth for service instances and is
// passed to the server for access to services.
package di

import (
	"github.com/aristath/advisor/internal/clientdata"
	"github.com/aristath/advisor/internal/clients/fmp"
	"github.com/aristath/advisor/internal/database"
	"github.com/aristath/advisor/internal/modules/allocation"
	"github.com/aristath/advisor/internal/modules/correlation"
	"github.com/aristath/advisor/internal/modules/portfolio"
	"github.com/aristath/advisor/internal/modules/questionnaire"
	"github.com/aristath/advisor/internal/modules/report"
	"github.com/aristath/advisor/internal/scheduler"
)

// Container holds all dependencies for the application.
type Container struct {
	// Database - optional SQLite cache for market data responses (nil when disabled)
	CacheDB        *database.DB
	ClientDataRepo *clientdata.Repository

	// Clients - External API integrations
	FMPClient *fmp.Client

	// Services - Business logic layer
	Scorer            *questionnaire.Scorer
	ProfileTable      *allocation.Table
	CorrelationEngine *correlation.Engine
	PortfolioService  *portfolio.Service
	ReportService     *report.Service

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds registered jobs for manual triggering via API
type JobInstances struct {
	ClientDataCleanup scheduler.Job // nil when the cache is disabled
	CacheMaintenance  scheduler.Job // nil when the cache is disabled
}

// All returns the registered jobs, skipping unset ones.
func (j *JobInstances) All() []scheduler.Job {
	var jobs []scheduler.Job
	if j.ClientDataCleanup != nil {
		jobs = append(jobs, j.ClientDataCleanup)
	}
	if j.CacheMaintenance != nil {
		jobs = append(jobs, j.CacheMaintenance)
	}
	return jobs
}

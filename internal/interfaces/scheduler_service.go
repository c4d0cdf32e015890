package interfaces

import "time"

// JobStatus represents the current status of a scheduled job
type JobStatus struct {
	Name      string
	Schedule  string
	LastRun   *time.Time
	NextRun   *time.Time
	IsRunning bool
	LastError string
}

// SchedulerService manages cron-based scheduling
type SchedulerService interface {
	// RegisterJob registers a job under a 5-field cron expression
	RegisterJob(name string, schedule string, handler func() error) error

	// Start the scheduler
	Start() error

	// Stop the scheduler and wait for a running job to finish
	Stop() error

	// IsRunning returns true if scheduler is active
	IsRunning() bool

	// GetJobStatus returns the status of a specific job
	GetJobStatus(name string) (*JobStatus, error)
}

package cron

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice.GO/core/registry"
)

// Env is what a job gets to work with.
type Env struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// RunFunc executes one job run.
type RunFunc func(ctx context.Context, env Env, args ...string) error

// Job holds schedule and run function.
type Job struct {
	Schedule string
	Run      RunFunc
}

// Register adds a job under a unique name. Call from init() in job packages;
// panics once the scheduler has started.
func Register(name string, schedule string, run RunFunc) {
	registry.Put(registry.GlobalRegistry, registry.KeyRegistryCron, name, Job{Schedule: schedule, Run: run})
}

// Unregister removes a job and reopens the registry. Tests only.
func Unregister(name string) {
	registry.Remove[Job](registry.GlobalRegistry, registry.KeyRegistryCron, name)
}

// Jobs returns a snapshot of registered jobs and locks the registry.
func Jobs() map[string]Job {
	jobs := registry.Entries[Job](registry.GlobalRegistry, registry.KeyRegistryCron)
	registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	return jobs
}

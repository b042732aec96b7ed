package cron

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"backoffice.GO/config"
)

// scheduleOf prefers the configured schedule over the registered one.
func scheduleOf(name string, j Job) string {
	if s, ok := config.CronSchedule(name); ok && s != "" {
		return s
	}
	return j.Schedule
}

// StartCron schedules every registered job and starts the scheduler. The
// caller stops it with Stop.
func StartCron(env Env) (*cron.Cron, error) {
	if env.Log == nil {
		env.Log = zap.NewNop()
	}
	c := cron.New()
	for name, j := range Jobs() {
		name, j := name, j
		sched := scheduleOf(name, j)
		_, err := c.AddFunc(sched, func() {
			if err := runLogged(context.Background(), env, name, j); err != nil {
				env.Log.Error("cron job failed", zap.String("job", name), zap.Error(err))
			}
		})
		if err != nil {
			return nil, fmt.Errorf("register job %s (%q): %w", name, sched, err)
		}
		env.Log.Info("cron job scheduled", zap.String("job", name), zap.String("schedule", sched))
	}
	c.Start()
	return c, nil
}

// RunJob runs one registered job immediately.
func RunJob(ctx context.Context, env Env, name string, args ...string) error {
	if env.Log == nil {
		env.Log = zap.NewNop()
	}
	j, ok := Jobs()[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown job: %s", name)
	}
	return runLogged(ctx, env, name, j, args...)
}

func runLogged(ctx context.Context, env Env, name string, j Job, args ...string) error {
	start := time.Now()
	err := j.Run(ctx, env, args...)
	env.Log.Info("cron job run",
		zap.String("job", name),
		zap.Duration("took", time.Since(start)),
		zap.Bool("ok", err == nil),
	)
	return err
}

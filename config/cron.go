package config

// Job names known to the scheduler.
const JobAutoRestock = "autorestock"

// CronSchedule returns the configured schedule of a job and whether the job
// has one. Jobs fall back to the schedule they registered with otherwise.
func CronSchedule(name string) (string, bool) {
	switch name {
	case JobAutoRestock:
		return App().RestockSchedule, true
	}
	return "", false
}

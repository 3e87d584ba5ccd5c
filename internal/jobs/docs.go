// Package jobs provides scheduled background tasks of the order service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// 1. ReconcileEffectsJob - flags external side effects that stayed PENDING for
// longer than the configured age, once per configured country.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(reconcileHandler, jobs.ReconcileConfig{
//		Schedule:  "0 */5 * * * *",
//		Countries: []string{"co", "mx"},
//		OlderThan: 15 * time.Minute,
//	}, m, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failing country is logged and does not stop the others. A failed job start
// stops any already running jobs.
package jobs

// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// (six-field specs, seconds first) to handle periodic operations.
//
// # Available Jobs
//
// 1. DispatchPendingJob - offers pending deliveries to the best eligible drivers
// 2. StaleShiftJob - ends the shift of drivers that stopped sending location pings
//
// Overlapping runs of one job are skipped.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewDispatchPendingJob(dispatchPendingHandler, cfg.DispatchSchedule, 50, logger),
//		jobs.NewStaleShiftJob(endStaleShiftsHandler, cfg.PresenceSchedule, 10*time.Minute, logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs

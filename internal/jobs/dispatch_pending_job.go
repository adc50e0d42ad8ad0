package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultDispatchSchedule runs the dispatch sweep every five seconds.
const DefaultDispatchSchedule = "*/5 * * * * *"

type dispatchPendingHandler interface {
	Handle(ctx context.Context, command commands.DispatchPendingCommand) (commands.DispatchPendingResult, error)
}

// DispatchPendingJob periodically offers waiting deliveries to drivers.
// A sweep still running when the next tick fires is skipped, not queued.
type DispatchPendingJob struct {
	handler   dispatchPendingHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewDispatchPendingJob creates the sweep. An empty schedule means DefaultDispatchSchedule.
func NewDispatchPendingJob(
	handler dispatchPendingHandler,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *DispatchPendingJob {
	if schedule == "" {
		schedule = DefaultDispatchSchedule
	}
	return &DispatchPendingJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "dispatch_pending_job"),
	}
}

// Start schedules the sweep.
func (j *DispatchPendingJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch pending job started", "schedule", j.schedule)
	return nil
}

// Run performs one sweep.
func (j *DispatchPendingJob) Run(ctx context.Context) {
	cmd, err := commands.NewDispatchPendingCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Dispatch pending job misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Dispatch pending job failed", "error", err)
		return
	}

	if result.Examined > 0 {
		j.logger.InfoContext(ctx, "Dispatch sweep finished",
			"examined", result.Examined,
			"dispatched", result.Dispatched,
			"waiting", result.Waiting)
	}
}

// Stop stops scheduling and waits for a running sweep to finish.
func (j *DispatchPendingJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Dispatch pending job stopped")
}

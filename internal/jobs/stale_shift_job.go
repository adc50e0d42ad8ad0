package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultPresenceSchedule checks driver presence every minute.
const DefaultPresenceSchedule = "0 * * * * *"

type endStaleShiftsHandler interface {
	Handle(ctx context.Context, command commands.EndStaleShiftsCommand) (int, error)
}

// StaleShiftJob takes drivers off shift once they stop reporting their location.
type StaleShiftJob struct {
	handler   endStaleShiftsHandler
	schedule  string
	silentFor time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewStaleShiftJob creates the presence check. An empty schedule means DefaultPresenceSchedule.
func NewStaleShiftJob(
	handler endStaleShiftsHandler,
	schedule string,
	silentFor time.Duration,
	logger *slog.Logger,
) *StaleShiftJob {
	if schedule == "" {
		schedule = DefaultPresenceSchedule
	}
	return &StaleShiftJob{
		handler:   handler,
		schedule:  schedule,
		silentFor: silentFor,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "stale_shift_job"),
	}
}

func (j *StaleShiftJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale shift job started",
		"schedule", j.schedule, "silent_for", j.silentFor.String())
	return nil
}

// Run performs one presence check.
func (j *StaleShiftJob) Run(ctx context.Context) {
	cmd, err := commands.NewEndStaleShiftsCommand(j.silentFor)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale shift job misconfigured", "error", err)
		return
	}

	ended, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale shift job failed", "error", err)
		return
	}
	if ended > 0 {
		j.logger.InfoContext(ctx, "Ended shifts of silent drivers", "count", ended)
	}
}

func (j *StaleShiftJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Stale shift job stopped")
}

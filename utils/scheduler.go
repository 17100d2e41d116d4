package utils

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// RetrainScheduler re-runs the batch training job on a cron schedule.
// Each invocation is still the one-shot training sequence; runs never
// overlap, and a failed run only logs — the next scheduled run proceeds.
type RetrainScheduler struct {
	cron    *cron.Cron
	spec    string
	train   func() error
	running bool
}

// NewRetrainScheduler validates the cron expression and prepares the
// scheduler around the given training function.
func NewRetrainScheduler(spec string, train func() error) (*RetrainScheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	return &RetrainScheduler{
		cron:  cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:  spec,
		train: train,
	}, nil
}

// Start begins scheduling. It returns immediately; Run blocks instead.
func (rs *RetrainScheduler) Start() error {
	if rs.running {
		return fmt.Errorf("scheduler already running")
	}

	_, err := rs.cron.AddFunc(rs.spec, func() {
		logger := GetLogger()
		logger.Info("Scheduled training run starting", Component("scheduler"))

		start := time.Now()
		if err := rs.train(); err != nil {
			logger.Error("Scheduled training run failed", err, Component("scheduler"))
			return
		}

		logger.Info("Scheduled training run finished",
			Float("duration_s", time.Since(start).Seconds()),
			Component("scheduler"))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule training: %w", err)
	}

	rs.cron.Start()
	rs.running = true
	return nil
}

// Run starts the scheduler and blocks forever, for use as the main loop
// of a scheduled-trainer process.
func (rs *RetrainScheduler) Run() error {
	if err := rs.Start(); err != nil {
		return err
	}
	select {}
}

// Stop halts scheduling and waits for any in-flight run to finish.
func (rs *RetrainScheduler) Stop() {
	if !rs.running {
		return
	}
	ctx := rs.cron.Stop()
	<-ctx.Done()
	rs.running = false
}

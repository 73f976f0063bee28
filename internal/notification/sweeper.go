package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/oggyb/swipe-match/internal/metrics"
)

// SweepSummary reports one sweep run.
type SweepSummary struct {
	Candidates int
	Sent       int
	Skipped    int
	Failed     int
}

// Sweeper alerts about every user at or above the like threshold, one
// deduplicated alert per user per window.
type Sweeper struct {
	users      Users
	dispatcher *Dispatcher
	log        *slog.Logger
}

func NewSweeper(users Users, dispatcher *Dispatcher, log *slog.Logger) *Sweeper {
	return &Sweeper{users: users, dispatcher: dispatcher, log: log}
}

// Sweep walks all candidates. A failing user is logged and counted; the loop
// continues with the next one. Only a failing candidate query is an error.
func (s *Sweeper) Sweep(ctx context.Context) (SweepSummary, error) {
	start := time.Now()
	var summary SweepSummary

	threshold := s.dispatcher.Threshold()
	s.log.Info("checking for users at or above like threshold", "threshold", threshold)

	users, err := s.users.WithLikesAtLeast(ctx, threshold)
	if err != nil {
		metrics.RecordSweep(time.Since(start), false)
		return summary, fmt.Errorf("list candidates: %w", err)
	}
	summary.Candidates = len(users)

	for i := range users {
		if ctx.Err() != nil {
			break
		}
		u := users[i]
		sent, err := s.dispatcher.alert(ctx, &u.User, u.LikedByCount)
		switch {
		case err != nil:
			summary.Failed++
			s.log.Error("failed to send threshold alert", "user_id", u.ID, "like_count", u.LikedByCount, "err", err)
		case sent:
			summary.Sent++
		default:
			summary.Skipped++
			s.log.Debug("threshold alert already sent in window", "user_id", u.ID)
		}
	}

	metrics.RecordSweep(time.Since(start), summary.Failed == 0)
	s.log.Info("like threshold sweep completed",
		"candidates", summary.Candidates,
		"sent", summary.Sent,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", time.Since(start),
	)
	return summary, ctx.Err()
}

// Scheduler runs the sweep on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *Sweeper
	log     *slog.Logger
	timeout time.Duration
}

// NewScheduler validates spec (standard 5-field cron) and registers the sweep.
func NewScheduler(spec string, sweeper *Sweeper, log *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		sweeper: sweeper,
		log:     log,
		timeout: 30 * time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.sweeper.Sweep(ctx); err != nil {
		s.log.Error("scheduled sweep failed", "err", err)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("sweep scheduler started", "next_run", s.cron.Entries()[0].Next)
}

// Stop waits for a running sweep or for ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Package scheduler runs the periodic dispatch cycle: find users whose
// delivery window is open and enqueue a job for each.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"morning_bot/internal/model"
	"morning_bot/internal/queue"
	"morning_bot/internal/storage"
	"morning_bot/internal/window"
)

// Enqueuer hands a delivery job to the worker pool without blocking.
type Enqueuer interface {
	Enqueue(job queue.Job) bool
}

// Scheduler evaluates delivery windows and enqueues due deliveries.
// It never sends messages and never writes the sent ledger itself.
type Scheduler struct {
	store     storage.Storage
	enqueuer  Enqueuer
	log       *slog.Logger
	defaultTZ *time.Location
	debug     bool
	tick      time.Duration
}

// New creates a Scheduler. defaultTZ is used for users with a missing or
// invalid timezone.
func New(store storage.Storage, enqueuer Enqueuer, defaultTZ *time.Location, debug bool, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:     store,
		enqueuer:  enqueuer,
		log:       log,
		defaultTZ: defaultTZ,
		debug:     debug,
		tick:      window.WindowMinutes * time.Minute,
	}
}

// Run drives dispatch cycles on wall-clock-aligned 5-minute boundaries,
// blocking until ctx is cancelled. Alignment matters: the window check
// assumes cycles fire at :00, :05, :10 and so on.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		now := time.Now()
		next := now.Truncate(s.tick).Add(s.tick)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case fired := <-timer.C:
			s.RunCycle(ctx, fired)
		}
	}
}

// RunCycle evaluates every dispatch target against serverNow. A failure on
// one user never aborts the rest of the cycle. Cycles may overlap after a
// slow run; the sent ledger keeps that safe, so no mutual exclusion here.
func (s *Scheduler) RunCycle(ctx context.Context, serverNow time.Time) {
	targets, err := s.store.ListDispatchTargets(ctx)
	if err != nil {
		s.log.Error("list dispatch targets", "error", err)
		return
	}

	enqueued := 0
	for _, target := range targets {
		if ctx.Err() != nil {
			return
		}
		if s.processTarget(ctx, target, serverNow) {
			enqueued++
		}
	}

	if enqueued > 0 {
		s.log.Info("dispatch cycle complete", "targets", len(targets), "enqueued", enqueued)
	}
}

func (s *Scheduler) processTarget(ctx context.Context, target model.DispatchTarget, serverNow time.Time) bool {
	loc := window.ResolveLocation(target.Timezone, s.defaultTZ)

	if !window.InWindow(serverNow, loc, target.NotificationTime, s.debug) {
		return false
	}

	localDate := window.LocalDate(serverNow, loc)

	insp, err := s.store.GetInspirationByDate(ctx, target.BookID, localDate)
	if errors.Is(err, storage.ErrNotFound) {
		// Content gap: the book has no entry for this date.
		s.log.Debug("no inspiration for date",
			"book_id", target.BookID, "date", localDate.Format("2006-01-02"))
		return false
	}
	if err != nil {
		s.log.Error("lookup inspiration",
			"user_id", target.UserID, "book_id", target.BookID, "error", err)
		return false
	}

	// Cheap short-circuit; the worker re-checks at commit time.
	sent, err := s.store.WasSent(ctx, target.UserID, insp.ID, target.Language)
	if err != nil {
		s.log.Error("check sent",
			"user_id", target.UserID, "inspiration_id", insp.ID, "error", err)
		return false
	}
	if sent && !s.debug {
		return false
	}

	return s.enqueuer.Enqueue(queue.Job{
		UserID:        target.UserID,
		InspirationID: insp.ID,
		Language:      target.Language,
	})
}

package worker

import (
	"context"
	"time"

	"aptwatcher/helpers"
	"aptwatcher/internal/scraper"
	"aptwatcher/logger"
	"aptwatcher/services/notifier"
	"aptwatcher/services/store"
)

// Worker runs the check pipeline: fetch and extract listings, diff against
// the seen-set, persist the updated set, then notify. The seen-set is saved
// before notification so a delivery failure cannot re-flag the same listings
// as new on the next run.
type Worker struct {
	ctx       context.Context
	scraper   scraper.Scraper
	seenStore store.SeenStore
	notifiers []notifier.Notifier
	errLog    helpers.LoggerInterface
	log       *logger.Logger
	interval  time.Duration
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	s scraper.Scraper,
	seenStore store.SeenStore,
	notifiers []notifier.Notifier,
	errLog helpers.LoggerInterface,
	interval time.Duration,
) *Worker {
	return &Worker{
		ctx:       ctx,
		scraper:   s,
		seenStore: seenStore,
		notifiers: notifiers,
		errLog:    errLog,
		log:       logger.ForWorker(),
		interval:  interval,
	}
}

// Start runs checks until the context is cancelled. A non-positive interval
// means a single run-to-completion check; the external scheduler owns the
// cadence in that mode.
func (w *Worker) Start() error {
	if w.interval <= 0 {
		return w.RunOnce()
	}

	for {
		start := time.Now()
		if err := w.RunOnce(); err != nil {
			w.log.Error().Err(err).Msg("Check failed")
		}
		w.log.Debug().Dur("elapsed", time.Since(start)).Msg("Check completed")

		select {
		case <-w.ctx.Done():
			return nil
		case <-time.After(w.interval):
		}
	}
}

// RunOnce performs exactly one check. Fetch and persistence failures abort
// the run; notification failures are logged and the run still succeeds.
func (w *Worker) RunOnce() error {
	name := w.scraper.GetName()

	listings, err := w.scraper.FetchListings()
	if err != nil {
		w.errLog.LogError(name, err)
		return err
	}

	if len(listings) == 0 {
		// Distinguish markup drift from a quiet run: zero extracted
		// listings usually means the selectors no longer match
		w.log.Warn().
			Str("scraper", name).
			Msg("No listings extracted; the page markup may have changed")
		return nil
	}

	seen, err := w.seenStore.Load()
	if err != nil {
		w.log.Warn().Err(err).Msg("Failed to load seen-set, starting from empty set")
		seen = store.NewSeenSet()
	}

	fresh, updated := scraper.Diff(listings, seen)

	// Persist before notifying: prefer missing one notification over a
	// notification storm on transient delivery failures
	if err := w.seenStore.Save(updated); err != nil {
		w.errLog.LogError(name, err)
		return err
	}

	w.log.Info().
		Str("scraper", name).
		Int("extracted", len(listings)).
		Int("new", len(fresh)).
		Int("seen_total", updated.Len()).
		Msg("Check finished")

	if len(fresh) == 0 {
		return nil
	}

	for _, n := range w.notifiers {
		if err := n.Notify(fresh); err != nil {
			w.errLog.LogError(n.Name(), err)
			w.log.Error().
				Err(err).
				Str("notifier", n.Name()).
				Int("listings", len(fresh)).
				Msg("Notification delivery failed")
		}
	}

	return nil
}

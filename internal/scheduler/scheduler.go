package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mkiyohara/weatherboard/internal/store"
	"github.com/mkiyohara/weatherboard/internal/weather"
)

// Refresher periodically recomputes the current local day's summary and
// stores it in the cache, keeping the dashboard's latest panel warm.
type Refresher struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	cache     *store.SummaryCache
	loc       *time.Location
	interval  time.Duration
}

// New creates a Refresher.
func New(service *weather.Service, cache *store.SummaryCache, loc *time.Location, interval time.Duration) *Refresher {
	s := gocron.NewScheduler(time.UTC)
	return &Refresher{
		scheduler: s,
		service:   service,
		cache:     cache,
		loc:       loc,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (r *Refresher) Start() error {
	interval := r.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := r.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		today := time.Now().In(r.loc).Format(weather.DateKeyLayout)

		summaries, err := r.service.GetRange(ctx, today, today, weather.OrderAsc)
		if err != nil {
			log.Printf("refresher: summary refresh failed for %s: %v", today, err)
			return
		}
		if len(summaries) == 0 {
			log.Printf("refresher: no readings yet for %s", today)
			return
		}

		r.cache.Put(summaries[0])
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}

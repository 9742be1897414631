package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrInvalidRange is returned when a range request's from date is after its
// to date. Unlike a failed or empty day, this is a hard error.
var ErrInvalidRange = errors.New("from date is after to date")

// ReadingStore abstracts the document store holding raw sensor records. An
// implementation returns one local calendar day's records ordered by instant
// ascending.
type ReadingStore interface {
	FetchDay(ctx context.Context, dateKey string) ([]RawReading, error)
}

// Service orchestrates per-day fetching, materialization and aggregation.
// It holds no state beyond its injected collaborators; every query is an
// independent pure transformation over freshly fetched data.
type Service struct {
	store ReadingStore
	loc   *time.Location
}

// NewService creates a Service reading from store and bucketing readings
// into loc's calendar days.
func NewService(store ReadingStore, loc *time.Location) *Service {
	return &Service{
		store: store,
		loc:   loc,
	}
}

// GetDay fetches and materializes all readings for one local calendar day.
// Store failures surface to the caller; individual readings with unparsable
// timestamps are skipped so one bad record cannot take down the whole day.
func (s *Service) GetDay(ctx context.Context, dateKey string) ([]Reading, error) {
	raws, err := s.store.FetchDay(ctx, dateKey)
	if err != nil {
		return nil, fmt.Errorf("fetching readings for %s: %w", dateKey, err)
	}

	readings := make([]Reading, 0, len(raws))
	for _, raw := range raws {
		r, err := Materialize(raw, s.loc)
		if err != nil {
			log.Printf("skipping reading for %s: %v", dateKey, err)
			continue
		}
		readings = append(readings, r)
	}

	return readings, nil
}

// GetRange aggregates every local calendar day in [from, to] inclusive into
// daily summaries. Days are fetched concurrently since they are independent;
// each goroutine writes to its own slot so completion order cannot leak into
// result order.
//
// A day whose fetch fails or that has no readings is omitted from the
// result, keeping a multi-day trend usable despite one bad day. Only
// request-level problems (bad date keys, reversed range, cancellation) are
// hard errors, and cancellation discards any partially aggregated days.
func (s *Service) GetRange(ctx context.Context, from, to string, order Order) ([]DailySummary, error) {
	fromDay, err := time.ParseInLocation(DateKeyLayout, from, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	toDay, err := time.ParseInLocation(DateKeyLayout, to, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", to, err)
	}
	if fromDay.After(toDay) {
		return nil, ErrInvalidRange
	}

	var keys []string
	for d := fromDay; !d.After(toDay); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(DateKeyLayout))
	}

	type dayResult struct {
		summary DailySummary
		ok      bool
	}

	results := make([]dayResult, len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()

			readings, err := s.GetDay(ctx, key)
			if err != nil {
				// Omit the day; the rest of the range stays usable.
				if ctx.Err() == nil {
					log.Printf("omitting %s from range: %v", key, err)
				}
				return
			}

			if summary, ok := AggregateDay(key, readings); ok {
				results[i] = dayResult{summary: summary, ok: true}
			}
		}(i, key)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summaries := make([]DailySummary, 0, len(results))
	for _, res := range results {
		if res.ok {
			summaries = append(summaries, res.summary)
		}
	}

	if order == OrderDesc {
		for i, j := 0, len(summaries)-1; i < j; i, j = i+1, j-1 {
			summaries[i], summaries[j] = summaries[j], summaries[i]
		}
	}

	return summaries, nil
}

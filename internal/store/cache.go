package store

import (
	"errors"
	"sync"
	"time"

	"github.com/mkiyohara/weatherboard/internal/weather"
)

// ErrNotFound is returned when the cache holds no summary yet.
var ErrNotFound = errors.New("no cached summary")

type cachedSummary struct {
	summary  weather.DailySummary
	storedAt time.Time
}

// SummaryCache is a concurrency-safe in-memory cache of recent daily
// summaries, kept warm by the refresher so the dashboard's latest panel
// does not hit the reading store on every request. The aggregation core
// itself never caches; this lives strictly at the application layer.
type SummaryCache struct {
	mu sync.RWMutex

	// ordered by date ascending; date keys are "YYYY-MM-DD" so lexicographic
	// order is chronological
	entries []cachedSummary

	maxHistory int           // max number of cached days (<= 0 = unlimited)
	maxAge     time.Duration // max age since storage (0 = unlimited)
}

// NewSummaryCache creates a SummaryCache with optional retention limits.
func NewSummaryCache(maxHistory int, maxAge time.Duration) *SummaryCache {
	return &SummaryCache{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Put inserts or replaces the summary for its date and enforces retention.
func (c *SummaryCache) Put(summary weather.DailySummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := cachedSummary{summary: summary, storedAt: time.Now()}

	replaced := false
	for i := range c.entries {
		if c.entries[i].summary.Date == summary.Date {
			c.entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		// Insert keeping date order.
		pos := len(c.entries)
		for i := range c.entries {
			if c.entries[i].summary.Date > summary.Date {
				pos = i
				break
			}
		}
		c.entries = append(c.entries, cachedSummary{})
		copy(c.entries[pos+1:], c.entries[pos:])
		c.entries[pos] = entry
	}

	// Enforce retention by count, dropping the oldest dates.
	if c.maxHistory > 0 && len(c.entries) > c.maxHistory {
		over := len(c.entries) - c.maxHistory
		c.entries = c.entries[over:]
	}

	// Enforce retention by age.
	if c.maxAge > 0 {
		cutoff := time.Now().Add(-c.maxAge)
		kept := c.entries[:0]
		for _, e := range c.entries {
			if !e.storedAt.Before(cutoff) {
				kept = append(kept, e)
			}
		}
		c.entries = kept
	}
}

// Latest returns the summary for the most recent cached date.
func (c *SummaryCache) Latest() (weather.DailySummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		if c.maxAge > 0 && time.Since(e.storedAt) > c.maxAge {
			continue
		}
		return e.summary, nil
	}
	return weather.DailySummary{}, ErrNotFound
}

// Get returns the cached summary for one date key, if present.
func (c *SummaryCache) Get(dateKey string) (weather.DailySummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if e.summary.Date == dateKey {
			if c.maxAge > 0 && time.Since(e.storedAt) > c.maxAge {
				break
			}
			return e.summary, nil
		}
	}
	return weather.DailySummary{}, ErrNotFound
}

// Package resolver determines a lead's most recent activity timestamp across a
// registered set of activity sources.
package resolver

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Source exposes the latest activity timestamp one record family (notes,
// appointments, quotes, ...) holds for a lead. Implementations return nil when
// the lead has no records in that family. New activity-bearing entity types
// plug in by registering another Source.
type Source interface {
	Name() string
	LatestForLead(ctx context.Context, leadID string) (*time.Time, error)
}

// Resolver computes the maximum timestamp over all registered sources.
type Resolver struct {
	sources []Source
}

// New constructs a Resolver over the given sources.
func New(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// LastActivity returns the most recent activity timestamp for the lead, or nil
// when no source has any record. Sources are queried concurrently; the call is
// read-only and safe for repeated concurrent use.
func (r *Resolver) LastActivity(ctx context.Context, leadID string) (*time.Time, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		latest   *time.Time
		firstErr error
	)

	for _, source := range r.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()

			ts, err := src.LatestForLead(ctx, leadID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("source %s: %w", src.Name(), err)
				}
				return
			}
			if ts == nil {
				return
			}
			if latest == nil || ts.After(*latest) {
				latest = ts
			}
		}(source)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return latest, nil
}

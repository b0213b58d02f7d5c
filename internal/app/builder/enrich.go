package builder

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/graphbio/meshchem/internal/domain"
)

// StructureLookup answers structure identifiers for a chemical name. The
// boolean distinguishes "name not known" from a populated answer; an error
// means the lookup itself failed and may be retried.
type StructureLookup interface {
	Lookup(ctx context.Context, name string) (domain.Structure, bool, error)
}

// EnrichStats holds enrichment statistics for logging.
type EnrichStats struct {
	Attempted int64
	Enriched  int64
	Missing   int64
	Failed    int64 // lookups that kept failing after retries
}

// Enricher decorates entities with structure identifiers through a lookup.
// Enrichment is best-effort: a lookup that fails after retries leaves the
// entity without structure and is counted, only context cancellation aborts
// the whole pass.
type Enricher struct {
	lookup  StructureLookup
	workers int
	retries int
	backoff time.Duration
}

// NewEnricher builds an enricher over lookup. Non-positive workers means
// sequential; non-positive retries means a single attempt.
func NewEnricher(lookup StructureLookup, workers, retries int, backoff time.Duration) *Enricher {
	if workers < 1 {
		workers = 1
	}
	if retries < 0 {
		retries = 0
	}
	return &Enricher{lookup: lookup, workers: workers, retries: retries, backoff: backoff}
}

// EnrichDescriptors fills Structure on every descriptor, in place.
func (e *Enricher) EnrichDescriptors(ctx context.Context, descriptors []domain.Descriptor) (EnrichStats, error) {
	return e.run(ctx, len(descriptors),
		func(i int) string { return descriptors[i].Name },
		func(i int, s domain.Structure) { descriptors[i].Structure = s },
	)
}

// EnrichChemicals fills Structure on every chemical, in place.
func (e *Enricher) EnrichChemicals(ctx context.Context, chemicals []domain.Chemical) (EnrichStats, error) {
	return e.run(ctx, len(chemicals),
		func(i int) string { return chemicals[i].Name },
		func(i int, s domain.Structure) { chemicals[i].Structure = s },
	)
}

func (e *Enricher) run(ctx context.Context, n int, name func(int) string, set func(int, domain.Structure)) (EnrichStats, error) {
	var attempted, enriched, missing, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			attempted.Add(1)
			s, ok, err := e.lookupWithRetry(ctx, name(i))
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failed.Add(1)
			case !ok:
				missing.Add(1)
			default:
				set(i, s)
				enriched.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	stats := EnrichStats{
		Attempted: attempted.Load(),
		Enriched:  enriched.Load(),
		Missing:   missing.Load(),
		Failed:    failed.Load(),
	}
	return stats, err
}

// lookupWithRetry retries transient lookup failures with a fixed backoff.
func (e *Enricher) lookupWithRetry(ctx context.Context, name string) (domain.Structure, bool, error) {
	var (
		s   domain.Structure
		ok  bool
		err error
	)
	for attempt := 0; attempt <= e.retries; attempt++ {
		if attempt > 0 && e.backoff > 0 {
			select {
			case <-ctx.Done():
				return domain.Structure{}, false, ctx.Err()
			case <-time.After(e.backoff):
			}
		}
		s, ok, err = e.lookup.Lookup(ctx, name)
		if err == nil {
			return s, ok, nil
		}
		if ctx.Err() != nil {
			return domain.Structure{}, false, ctx.Err()
		}
	}
	return domain.Structure{}, false, err
}

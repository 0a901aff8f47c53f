package introspect

import (
	"context"

	"golang.org/x/sync/errgroup"

	"dbscribe/internal/core"
)

// DefaultConcurrency bounds ParseAll's in-flight catalog queries when the
// caller passes concurrency <= 0, so a caller that forgets the limit
// still gets a pool-sized ceiling rather than one goroutine per table.
const DefaultConcurrency = 8

// ParseAll lists every table the Parser can see (minus exclude) and
// parses them concurrently, restoring the catalog's listing order in the
// result regardless of completion order. One failing table aborts the
// whole batch and returns its error. concurrency bounds the number of
// tables parsed in flight at once, matching the connection pool's
// capacity; concurrency <= 0 falls back to DefaultConcurrency.
func ParseAll(ctx context.Context, p Parser, dialect core.Dialect, exclude map[string]bool, concurrency int) (*core.Database, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	names, err := p.ListTables(ctx, exclude)
	if err != nil {
		return nil, err
	}

	tables := make([]*core.Table, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			t, err := p.ParseTable(gctx, name)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &core.Database{Name: p.DatabaseName(), Dialect: dialect, Tables: tables}, nil
}

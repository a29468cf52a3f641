package converter

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/nconklindev/clientline/internal/client"
	"github.com/nconklindev/clientline/internal/logging"

	"golang.org/x/sync/errgroup"
)

// ErrEmptyBatch is returned when no row produced a client record worth
// keeping.
var ErrEmptyBatch = errors.New("no client records found")

// Options controls a pipeline run.
type Options struct {
	Rules   client.Rules
	Workers int
	// Progress receives the fraction of rows built. Sends never block.
	Progress chan<- float64
	Logger   *logging.Logger
}

// Stats counts what happened to the rows of one run.
type Stats struct {
	RowsRead    int
	Kept        int
	RowsDropped int
}

// Convert normalizes the keys of every row, builds a record from each and
// drops records without identity evidence. Output order matches input order
// for any worker count. ErrEmptyBatch is returned, together with the stats,
// when nothing survives.
func Convert(ctx context.Context, rows []client.Row, opts Options) ([]client.Record, Stats, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	builder := client.NewBuilder(opts.Rules)
	built := make([]client.Record, len(rows))
	total := len(rows)
	var done atomic.Int64

	buildOne := func(i int) {
		built[i] = builder.Build(client.NormalizeKeys(rows[i]))
		reportProgress(opts.Progress, int(done.Add(1)), total)
	}

	workers := opts.Workers
	if workers <= 1 {
		for i := range rows {
			if err := ctx.Err(); err != nil {
				return nil, Stats{}, err
			}
			buildOne(i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range rows {
			if gctx.Err() != nil {
				break
			}
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				buildOne(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, Stats{}, err
		}
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
	}

	kept := client.Filter(built)
	stats := Stats{
		RowsRead:    total,
		Kept:        len(kept),
		RowsDropped: total - len(kept),
	}
	log.Debug("records built", "rows", stats.RowsRead, "kept", stats.Kept, "dropped", stats.RowsDropped, "workers", workers)

	if len(kept) == 0 {
		return nil, stats, ErrEmptyBatch
	}
	return kept, stats, nil
}

func reportProgress(progressChan chan<- float64, current, total int) {
	if progressChan == nil || total == 0 {
		return
	}
	select {
	case progressChan <- float64(current) / float64(total):
	default:
	}
}

// Package driver implements the streaming loop of spec.md §4.4: build
// tree, analyze the entity mask, prepare external id lists, then
// evaluate the tree against a stream of objects and dispatch matches to
// a writer. It depends on internal/filter only through the tree it is
// handed, and on OSM I/O only through the narrow ObjectReader/
// ObjectWriter interfaces below — concrete implementations live in
// internal/osmio, per spec.md §1's explicit non-goal.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wegman-software/osmfilter-go/internal/filter"
	"github.com/wegman-software/osmfilter-go/internal/idset"
	"github.com/wegman-software/osmfilter-go/internal/metrics"
	"github.com/wegman-software/osmfilter-go/internal/script"
)

// ErrEmptyMask is returned by Run when the tree's entity mask is empty:
// spec.md §4.4 step 2's "filter can never match" condition.
var ErrEmptyMask = errors.New("driver: filter can never match any object kind")

// ObjectReader yields OSM objects one at a time in stream order. Next
// returns io.EOF when exhausted.
type ObjectReader interface {
	Next() (*filter.Object, error)
}

// ObjectWriter receives matched objects in stream order.
type ObjectWriter interface {
	Write(obj *filter.Object) error
	Close() error
}

// ReaderOpener produces a fresh ObjectReader positioned at the start of
// the input. Run calls it once normally, and a second time only when
// CompleteWays requires a second pass over the same input (spec.md
// §4.4 step 5).
type ReaderOpener func() (ObjectReader, error)

// Options configures a single Run.
type Options struct {
	Tree         filter.Node
	Mask         filter.Mask
	CompleteWays bool
	Script       *script.Hook // optional, ANDed in after eval_bool (SPEC_FULL.md §4)
	Logger       *zap.Logger
	Metrics      *metrics.Collector // optional
}

// Stats summarizes a completed run for the CLI's verbose/summary output.
type Stats struct {
	Scanned int64
	Matched int64
}

// Run executes the streaming loop. It is the sole entry point driver
// exposes; cmd wires a concrete reader/writer pair from internal/osmio
// into it.
func Run(ctx context.Context, open ReaderOpener, writer ObjectWriter, opts Options) (Stats, error) {
	var stats Stats

	if opts.Mask.Empty() {
		return stats, ErrEmptyMask
	}
	if err := filter.Prepare(opts.Tree); err != nil {
		return stats, fmt.Errorf("driver: preparation failed: %w", err)
	}

	metricsCtx, cancelMetrics := context.WithCancel(ctx)
	defer cancelMetrics()
	g, gctx := errgroup.WithContext(metricsCtx)
	if opts.Metrics != nil {
		g.Go(func() error {
			opts.Metrics.Start(gctx)
			return nil
		})
	}

	if opts.CompleteWays {
		err := runCompleteWays(ctx, open, writer, opts, &stats)
		cancelMetrics()
		if werr := writer.Close(); err == nil {
			err = werr
		}
		if gerr := g.Wait(); err == nil {
			err = gerr
		}
		return stats, err
	}

	reader, err := open()
	if err != nil {
		cancelMetrics()
		return stats, fmt.Errorf("driver: open input: %w", err)
	}

	err = streamOnce(ctx, reader, opts, func(obj *filter.Object) error {
		return writer.Write(obj)
	}, &stats)
	closeReader(opts, reader)
	cancelMetrics()
	if werr := writer.Close(); err == nil {
		err = werr
	}
	if gerr := g.Wait(); err == nil {
		err = gerr
	}
	return stats, err
}

// streamOnce runs pass 1 of spec.md §4.4: evaluate every in-mask object
// and invoke emit for the ones that match.
func streamOnce(ctx context.Context, reader ObjectReader, opts Options, emit func(*filter.Object) error, stats *Stats) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		obj, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("driver: read object: %w", err)
		}
		stats.Scanned++

		if !opts.Mask.Has(obj.Kind) {
			continue
		}
		if !evaluate(opts, obj) {
			continue
		}
		stats.Matched++
		if err := emit(obj); err != nil {
			return fmt.Errorf("driver: write object: %w", err)
		}
	}
}

// closeReader releases reader's underlying resources if it implements
// io.Closer, logging (rather than propagating) any close error since the
// read side has already finished successfully by the time this runs.
func closeReader(opts Options, reader ObjectReader) {
	c, ok := reader.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil && opts.Logger != nil {
		opts.Logger.Warn("driver: close input", zap.Error(err))
	}
}

func evaluate(opts Options, obj *filter.Object) bool {
	if !opts.Tree.EvalBool(filter.ObjectContext(obj)) {
		return false
	}
	if opts.Script != nil {
		return opts.Script.Accept(obj)
	}
	return true
}

// runCompleteWays implements spec.md §4.4 step 5: pass 1 records ids of
// matching objects (plus every node referenced by a matching way) per
// kind; pass 2 re-reads the input and writes every object whose id is in
// its kind's set.
func runCompleteWays(ctx context.Context, open ReaderOpener, writer ObjectWriter, opts Options, stats *Stats) error {
	nodeIDs := idset.NewMapSet(0)
	wayIDs := idset.NewMapSet(0)
	relIDs := idset.NewMapSet(0)

	if opts.Logger != nil {
		opts.Logger.Info("driver: complete-ways pass 1 starting")
	}
	reader, err := open()
	if err != nil {
		return fmt.Errorf("driver: open input (pass 1): %w", err)
	}
	err = streamOnce(ctx, reader, opts, func(obj *filter.Object) error {
		switch obj.Kind {
		case filter.KindNode:
			nodeIDs.Insert(uint64(obj.ID))
		case filter.KindWay:
			wayIDs.Insert(uint64(obj.ID))
			for _, nr := range obj.Nodes {
				nodeIDs.Insert(uint64(nr.Ref))
			}
		case filter.KindRelation:
			relIDs.Insert(uint64(obj.ID))
		}
		return nil
	}, stats)
	closeReader(opts, reader)
	if err != nil {
		return err
	}

	if opts.Logger != nil {
		opts.Logger.Info("driver: complete-ways pass 2 starting",
			zap.Int64("matched", stats.Matched))
	}
	reader2, err := open()
	if err != nil {
		return fmt.Errorf("driver: open input (pass 2): %w", err)
	}
	defer closeReader(opts, reader2)
	for {
		obj, err := reader2.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("driver: read object (pass 2): %w", err)
		}
		var set idset.Set
		switch obj.Kind {
		case filter.KindNode:
			set = nodeIDs
		case filter.KindWay:
			set = wayIDs
		case filter.KindRelation:
			set = relIDs
		}
		if set != nil && set.Has(uint64(obj.ID)) {
			if err := writer.Write(obj); err != nil {
				return fmt.Errorf("driver: write object (pass 2): %w", err)
			}
		}
	}
}

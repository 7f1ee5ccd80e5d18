package wineval

import (
	"context"
	"fmt"
	"time"

	"github.com/danthegoodman1/wineval/assembler"
	"github.com/danthegoodman1/wineval/gologger"
	"github.com/danthegoodman1/wineval/orderer"
	"github.com/danthegoodman1/wineval/partitioner"
	"github.com/danthegoodman1/wineval/rowstore"
	"github.com/danthegoodman1/wineval/utils"
	"github.com/danthegoodman1/wineval/windowfunc"
	"github.com/danthegoodman1/wineval/wspec"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var logger = gologger.NewLogger()

type (
	Evaluator struct {
		validate *validator.Validate

		// MaxParallel caps concurrent partition evaluation, 0 meaning one
		// goroutine per partition.
		MaxParallel int
		// QueryTimeout bounds a whole evaluation, 0 meaning none. Timeouts
		// apply at the query level only, partitions are never cancelled
		// individually.
		QueryTimeout time.Duration
	}
)

func NewEvaluator() *Evaluator {
	return &Evaluator{
		validate:     validator.New(),
		MaxParallel:  int(utils.MAX_PARALLEL),
		QueryTimeout: time.Millisecond * time.Duration(utils.QUERY_TIMEOUT_MS),
	}
}

// Evaluate runs one window function over the store and returns the rows in
// original order with the computed column appended under asColumn.
//
// Partitions are mutually independent, so they are ordered and evaluated
// concurrently; assembly is the join point. Any failure aborts the whole
// query with no partial result.
func (e *Evaluator) Evaluate(ctx context.Context, store *rowstore.Store, spec wspec.WindowSpec, asColumn string) ([]rowstore.Row, error) {
	queryID := uuid.NewString()
	ctx = context.WithValue(ctx, gologger.QueryIDKey, queryID)
	ctx = logger.With().Str("queryID", queryID).Logger().WithContext(ctx)

	if e.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.QueryTimeout)
		defer cancel()
	}

	start := time.Now()

	if err := e.validate.Struct(spec); err != nil {
		return nil, fmt.Errorf("error validating window spec: %w", err)
	}
	if err := windowfunc.ValidateSpec(store, spec); err != nil {
		return nil, err
	}

	parts, err := partitioner.PartitionRows(store, spec.PartitionBy)
	if err != nil {
		return nil, fmt.Errorf("error in partitioner.PartitionRows: %w", err)
	}

	computed := make([]windowfunc.ComputedColumn, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	if e.MaxParallel > 0 {
		g.SetLimit(e.MaxParallel)
	}
	for pi, part := range parts {
		pi := pi
		part := part
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ordered := orderer.Sort(store, part.Rows, spec.OrderBy)
			cc, err := windowfunc.Evaluate(store, ordered, spec)
			if err != nil {
				return fmt.Errorf("error evaluating partition %s: %w", part.Key, err)
			}
			computed[pi] = cc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows, err := assembler.Assemble(store, asColumn, computed)
	if err != nil {
		return nil, fmt.Errorf("error in assembler.Assemble: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("function", string(spec.Function)).
		Int("partitions", len(parts)).
		Int("rows", store.NumRows()).
		Int64("latency_ns", int64(time.Since(start))).
		Msg("evaluated window function")

	return rows, nil
}

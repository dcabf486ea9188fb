package engine

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"calcengine/internal/errors"
	"calcengine/internal/logging"
)

// Request is one calculator invocation in a batch
type Request struct {
	Calculator string                 `json:"calculator" yaml:"calculator"`
	Inputs     map[string]interface{} `json:"inputs" yaml:"inputs"`
}

// BatchResult pairs a request with its outcome. Err is set only when the
// calculator does not exist.
type BatchResult struct {
	Request Request
	Result  Result
	Err     error
}

// ComputeBatch runs requests concurrently with at most workers in flight
// and returns results in request order. A workers value below 1 uses
// GOMAXPROCS. Cancelling ctx stops requests that have not started.
func (o *Orchestrator) ComputeBatch(ctx context.Context, requests []Request, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(requests))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, req := range requests {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, ok := o.ComputeDetailed(req.Calculator, req.Inputs)
			results[i] = BatchResult{Request: req, Result: res}
			if !ok {
				results[i].Err = errors.NotFound("calculator", req.Calculator)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.Debug("batch computed", zap.Int("requests", len(requests)), zap.Int("workers", workers))
	return results, nil
}

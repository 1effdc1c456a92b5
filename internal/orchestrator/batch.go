package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchItem is the result of one input in a batch.
type BatchItem struct {
	Input  string  `json:"input"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// RunBatch runs each path as its own thread, at most cfg.Workers at a time.
// Items are returned in input order. A failing input is reported in its
// item and does not stop the others; only context cancellation does.
func (o *Orchestrator) RunBatch(ctx context.Context, paths []string) ([]BatchItem, error) {
	items := make([]BatchItem, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.workers())

	for i, path := range paths {
		items[i].Input = path

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := o.Run(gctx, path, true)
			if err != nil {
				o.logger.Error("batch input failed", "input", path, "error", err)
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, nil
}

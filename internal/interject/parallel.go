package interject

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MaxRecommendedParallel is the recommended upper limit for concurrent workers.
const MaxRecommendedParallel = 8

// RemoveAll removes interjections from multiple texts in parallel.
// Results are returned in the same order as the input texts. Each text is
// processed with the word lists and options of base.
// maxParallel limits the number of concurrent workers (1-MaxRecommendedParallel recommended).
func RemoveAll(ctx context.Context, texts []string, base Request, maxParallel int) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if maxParallel < 1 {
		maxParallel = 1
	}

	results := make([]string, len(texts))
	// Semaphore channel for concurrency control.
	// Not closed explicitly: it's local to this function and will be GC'd.
	sem := make(chan struct{}, maxParallel)

	g, ctx := errgroup.WithContext(ctx)

	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			req := base
			req.Text = text
			results[i] = Remove(req)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

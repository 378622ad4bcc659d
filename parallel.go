package relay

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// translateChunks runs every chunk through the engine with at most t.concurrency chunks in
// flight. Each worker writes only its own slot, so results stay in chunk order.
func (t *Translator) translateChunks(ctx context.Context, chunks []Chunk, req Request, candidates []string) ([]ChunkResult, error) {
	results := make([]ChunkResult, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = t.engine.TranslateChunk(gctx, chunk, req.SourceLang, req.TargetLang, req.ContextType, candidates)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Pass-throughs produced after cancellation must not be reported as a result.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

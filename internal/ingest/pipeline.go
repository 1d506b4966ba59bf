package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coverdrive-ai/coverdrive/internal/domain"
	"github.com/coverdrive-ai/coverdrive/internal/port"
)

// FailurePolicy decides what happens when one source or chunk fails.
type FailurePolicy string

const (
	// PolicySkip logs the failure and continues with the next item.
	PolicySkip FailurePolicy = "skip"
	// PolicyAbort stops the whole batch on the first failure.
	PolicyAbort FailurePolicy = "abort"
)

// ParsePolicy maps a configuration string to a FailurePolicy.
func ParsePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case PolicySkip, PolicyAbort:
		return FailurePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown failure policy %q", s)
	}
}

// Stats summarizes one batch run.
type Stats struct {
	Pages   int // pages fetched and chunked
	Chunks  int // chunks produced
	Written int // chunks written to the store
	Failed  int // pages or chunks skipped under PolicySkip
}

// Pipeline is the batch ingestion orchestrator: fetch each source page, split
// it into overlapping chunks, embed them, and append each chunk to the vector
// store. Sources are processed sequentially.
type Pipeline struct {
	fetcher  Fetcher
	splitter *Splitter
	ai       port.AIProvider
	store    port.VectorStore
	policy   FailurePolicy
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(fetcher Fetcher, splitter *Splitter, ai port.AIProvider, store port.VectorStore, policy FailurePolicy) *Pipeline {
	if policy == "" {
		policy = PolicySkip
	}
	return &Pipeline{fetcher: fetcher, splitter: splitter, ai: ai, store: store, policy: policy}
}

// Run ingests every URL in order. Under PolicySkip a failed page or chunk is
// logged and counted but never aborts the rest of the batch; under
// PolicyAbort the first failure stops the run and is returned.
func (p *Pipeline) Run(ctx context.Context, urls []string) (Stats, error) {
	var stats Stats
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		text, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			if failed := p.fail(&stats, "fetch page", url, err); failed != nil {
				return stats, failed
			}
			continue
		}

		chunks := p.splitter.Split(text)
		if len(chunks) == 0 {
			slog.Warn("page produced no chunks", "url", url)
			continue
		}
		stats.Pages++
		stats.Chunks += len(chunks)
		slog.Info("ingesting page", "url", url, "chunks", len(chunks))

		vectors, err := p.ai.EmbedBatch(ctx, chunks)
		if err != nil {
			if failed := p.fail(&stats, "embed chunks", url, err); failed != nil {
				return stats, failed
			}
			continue
		}
		if len(vectors) != len(chunks) {
			err := fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks))
			if failed := p.fail(&stats, "embed chunks", url, err); failed != nil {
				return stats, failed
			}
			continue
		}

		for i, chunk := range chunks {
			record := &domain.Chunk{
				SourceURL:  url,
				ChunkIndex: i,
				Content:    chunk,
				Vector:     vectors[i],
			}
			if err := p.store.Write(ctx, record); err != nil {
				if failed := p.fail(&stats, "write chunk", url, err); failed != nil {
					return stats, failed
				}
				continue
			}
			stats.Written++
		}
	}
	return stats, nil
}

// fail applies the failure policy to one item. It returns a non-nil error
// only when the batch should abort.
func (p *Pipeline) fail(stats *Stats, op, url string, err error) error {
	if p.policy == PolicyAbort {
		return fmt.Errorf("%s %s: %w", op, url, err)
	}
	stats.Failed++
	slog.Error("skipping item", "op", op, "url", url, "error", err)
	return nil
}

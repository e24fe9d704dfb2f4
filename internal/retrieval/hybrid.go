package retrieval

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"schema-link/internal/config"
	"schema-link/internal/models"
)

// ErrNoContext is returned when neither provider yields a usable schema chunk.
// The agent never calls the generator with empty context.
var ErrNoContext = errors.New("schema retrieval returned no context")

// Provider is one ranked search source over the schema corpus.
type Provider interface {
	// QueryTopK returns up to k table names ranked by relevance to the query.
	QueryTopK(ctx context.Context, query string, k int) ([]string, error)
	ContentLookup
}

// HybridRetriever fans out to a semantic and a lexical provider, fuses their
// rankings with RRF, and assembles a token-bounded context. Chunk content is
// fetched from the semantic provider's store.
type HybridRetriever struct {
	semantic Provider
	lexical  Provider
	kSearch  int
	rrfK     int
	budget   int
}

func NewHybridRetriever(semantic, lexical Provider, cfg *config.RetrievalConfig) *HybridRetriever {
	return &HybridRetriever{
		semantic: semantic,
		lexical:  lexical,
		kSearch:  cfg.KSearch,
		rrfK:     cfg.RRFK,
		budget:   cfg.TokenBudget,
	}
}

// Retrieve runs both searches concurrently and waits for both before fusing.
// A provider error degrades that provider to an empty ranking rather than
// aborting retrieval; only a fully empty context is an error.
func (r *HybridRetriever) Retrieve(ctx context.Context, query string) (models.RetrievedContext, error) {
	var semanticRanks, lexicalRanks []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ranks, err := r.semantic.QueryTopK(gctx, query, r.kSearch)
		if err != nil {
			log.Warn().Err(err).Msg("Semantic search failed, continuing with lexical ranks only")
			return nil
		}
		semanticRanks = ranks
		return nil
	})
	g.Go(func() error {
		ranks, err := r.lexical.QueryTopK(gctx, query, r.kSearch)
		if err != nil {
			log.Warn().Err(err).Msg("Keyword search failed, continuing with semantic ranks only")
			return nil
		}
		lexicalRanks = ranks
		return nil
	})
	// Closures swallow provider errors, so this wait cannot fail; it is the
	// synchronization point before fusion.
	_ = g.Wait()

	fused := FuseRanks([][]string{semanticRanks, lexicalRanks}, r.rrfK)
	log.Debug().Strs("fused_ranks", fused).Msg("RRF fused rankings")

	rc := AssembleContext(ctx, fused, r.semantic, r.budget)
	if len(rc.Chunks) == 0 {
		return rc, ErrNoContext
	}
	return rc, nil
}

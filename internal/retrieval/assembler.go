package retrieval

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"schema-link/internal/models"
)

// ContentLookup fetches the full schema text for a table. An empty string
// signals "not found".
type ContentLookup interface {
	GetContent(ctx context.Context, tableName string) (string, error)
}

// estimateTokens uses the coarse 4-chars-per-token heuristic. Intentionally
// not a real tokenizer; the budget is a guard, not an accounting system.
func estimateTokens(content string) int {
	return len(content) / 4
}

// AssembleContext walks the fused ranking in order and packs chunks under the
// token budget. Packing is greedy first-exceeds-then-stop: the first chunk
// that would overflow the budget ends assembly, remaining candidates are not
// considered even if smaller. Missing content becomes a placeholder error
// chunk and still counts against the budget.
func AssembleContext(ctx context.Context, fused []string, lookup ContentLookup, budget int) models.RetrievedContext {
	var rc models.RetrievedContext
	total := 0

	for i, tableName := range fused {
		content, err := lookup.GetContent(ctx, tableName)
		if err != nil || content == "" {
			if err != nil {
				log.Error().Err(err).Str("table", tableName).Msg("Failed to fetch schema content")
			} else {
				log.Error().Str("table", tableName).Msg("Schema content missing from index")
			}
			content = fmt.Sprintf("# Table: %s\nError: Schema content missing from index.", tableName)
		}

		cost := estimateTokens(content)
		if total+cost > budget {
			rc.Truncated = true
			log.Warn().
				Int("used_tokens", total).
				Int("budget", budget).
				Int("dropped", len(fused)-i).
				Msg("Schema context truncated, budget exceeded")
			break
		}

		rc.Chunks = append(rc.Chunks, models.SchemaChunk{TableName: tableName, Content: content})
		total += cost
	}

	return rc
}

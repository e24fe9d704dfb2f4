package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"schema-link/internal/index"
	"schema-link/internal/llmservice"
	"schema-link/internal/models"
)

const enrichPromptTemplate = `Here is the schema description of one database table:
%s
Write a short business summary of what this table holds and how it is typically
queried, for the purposes of improving search retrieval. Answer only with the
summary and nothing else.
`

// Indexer writes descriptive schema text into both retrieval sources so the
// semantic and lexical searches rank over the same corpus.
type Indexer struct {
	vector  *index.VectorIndex
	keyword *index.KeywordIndex
	// enricher, when set, appends an LLM-written business summary to each
	// table's text before indexing. Off by default (one call per table).
	enricher llmservice.Generator
}

func NewIndexer(vector *index.VectorIndex, keyword *index.KeywordIndex, enricher llmservice.Generator) *Indexer {
	return &Indexer{vector: vector, keyword: keyword, enricher: enricher}
}

// IngestSchema indexes every table's descriptive text into the vector store
// and the keyword table.
func (ix *Indexer) IngestSchema(ctx context.Context, schemas []models.TableSchema) error {
	log.Info().Int("tables", len(schemas)).Msg("Starting schema ingestion")

	if err := ix.keyword.Init(ctx); err != nil {
		return err
	}

	for _, schema := range schemas {
		text := schema.DescriptiveText
		if ix.enricher != nil {
			summary, err := ix.enricher.Generate(ctx, fmt.Sprintf(enrichPromptTemplate, text))
			if err != nil {
				log.Warn().Err(err).Str("table", schema.TableName).Msg("Enrichment failed, indexing plain description")
			} else {
				text += "\n## Business Summary:\n" + summary + "\n"
			}
		}

		if err := ix.vector.Add(ctx, schema.TableName, text); err != nil {
			return fmt.Errorf("failed to vector-index %s: %w", schema.TableName, err)
		}
		if err := ix.keyword.Add(ctx, schema.TableName, text); err != nil {
			return fmt.Errorf("failed to keyword-index %s: %w", schema.TableName, err)
		}
	}

	log.Info().Msg("Schema ingestion complete")
	return nil
}

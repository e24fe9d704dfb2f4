package index

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"schema-link/internal/config"
)

// VectorIndex is the semantic search provider: schema chunks embedded into a
// chromem-go collection, keyed by table name.
type VectorIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewVectorIndex opens (or creates) the chromem collection. The embedding
// func must match the one used at ingestion time.
func NewVectorIndex(cfg *config.VectorConfig, embed chromem.EmbeddingFunc) (*VectorIndex, error) {
	var (
		db  *chromem.DB
		err error
	)
	if cfg.InMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector database: %w", err)
		}
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}

	return &VectorIndex{db: db, collection: collection}, nil
}

// Add embeds and stores one table's descriptive text. Re-adding the same
// table name replaces the previous document.
func (v *VectorIndex) Add(ctx context.Context, tableName, content string) error {
	doc := chromem.Document{
		ID:       tableName,
		Content:  content,
		Metadata: map[string]string{"table_name": tableName},
	}
	if err := v.collection.AddDocuments(ctx, []chromem.Document{doc}, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add schema document: %w", err)
	}
	return nil
}

// QueryTopK returns up to k table names ranked by embedding similarity.
func (v *VectorIndex) QueryTopK(ctx context.Context, query string, k int) ([]string, error) {
	count := v.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := v.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector index: %w", err)
	}

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.ID)
	}
	log.Debug().Strs("semantic_ranks", names).Msg("Vector search complete")
	return names, nil
}

// GetContent returns the stored schema text for a table, or "" if the table
// was never indexed.
func (v *VectorIndex) GetContent(ctx context.Context, tableName string) (string, error) {
	doc, err := v.collection.GetByID(ctx, tableName)
	if err != nil {
		// chromem reports unknown IDs as an error; the retrieval layer
		// expects "" for not-found.
		return "", nil
	}
	return doc.Content, nil
}

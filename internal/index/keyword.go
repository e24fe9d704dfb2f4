package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

// SchemaDoc is one table's descriptive text in the lexical index table.
type SchemaDoc struct {
	bun.BaseModel `bun:"table:schema_docs,alias:sd"`
	TableName     string `bun:"table_name,pk"`
	Content       string `bun:"content,notnull"`
}

// KeywordIndex is the lexical search provider, backed by Postgres full-text
// search over the schema_docs table.
type KeywordIndex struct {
	db *bun.DB
}

func NewKeywordIndex(db *bun.DB) *KeywordIndex {
	return &KeywordIndex{db: db}
}

// Init creates the schema_docs table and its text-search index.
func (k *KeywordIndex) Init(ctx context.Context) error {
	if _, err := k.db.NewCreateTable().Model((*SchemaDoc)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create schema_docs table: %w", err)
	}
	_, err := k.db.ExecContext(ctx,
		"CREATE INDEX IF NOT EXISTS schema_docs_fts_idx ON schema_docs USING GIN (to_tsvector('english', content))")
	if err != nil {
		return fmt.Errorf("failed to create full-text index: %w", err)
	}
	return nil
}

// Add upserts one table's descriptive text into the index.
func (k *KeywordIndex) Add(ctx context.Context, tableName, content string) error {
	doc := &SchemaDoc{TableName: tableName, Content: content}
	_, err := k.db.NewInsert().
		Model(doc).
		On("CONFLICT (table_name) DO UPDATE").
		Set("content = EXCLUDED.content").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to index schema doc: %w", err)
	}
	return nil
}

// QueryTopK returns up to k table names ranked by ts_rank against the query.
func (k *KeywordIndex) QueryTopK(ctx context.Context, query string, topK int) ([]string, error) {
	var names []string
	err := k.db.NewSelect().
		Model((*SchemaDoc)(nil)).
		Column("table_name").
		Where("to_tsvector('english', content) @@ websearch_to_tsquery('english', ?)", query).
		OrderExpr("ts_rank(to_tsvector('english', content), websearch_to_tsquery('english', ?)) DESC", query).
		Limit(topK).
		Scan(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("failed to query keyword index: %w", err)
	}
	log.Debug().Strs("lexical_ranks", names).Msg("Keyword search complete")
	return names, nil
}

// GetContent returns the indexed text for a table, or "" if absent.
func (k *KeywordIndex) GetContent(ctx context.Context, tableName string) (string, error) {
	var doc SchemaDoc
	err := k.db.NewSelect().Model(&doc).Where("table_name = ?", tableName).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

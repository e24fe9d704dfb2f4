package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"schema-link/internal/models"
)

// Introspector reads table, column, and foreign-key metadata out of the
// target database's information_schema.
type Introspector struct {
	db *bun.DB
}

func NewIntrospector(db *bun.DB) *Introspector {
	return &Introspector{db: db}
}

// Tables introspects the public schema and returns RAG-ready table schemas,
// descriptive text included.
func (i *Introspector) Tables(ctx context.Context) ([]models.TableSchema, error) {
	var names []string
	err := i.db.NewRaw(
		"SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_type = 'BASE TABLE' ORDER BY table_name").
		Scan(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	log.Info().Int("tables", len(names)).Msg("Found tables for introspection")

	schemas := make([]models.TableSchema, 0, len(names))
	for _, name := range names {
		columns, err := i.columns(ctx, name)
		if err != nil {
			return nil, err
		}
		fks, err := i.foreignKeys(ctx, name)
		if err != nil {
			return nil, err
		}

		schema := models.TableSchema{
			TableName:   name,
			Columns:     columns,
			ForeignKeys: fks,
		}
		schema.DescriptiveText = DescriptiveText(schema)
		schemas = append(schemas, schema)
	}
	return schemas, nil
}

func (i *Introspector) columns(ctx context.Context, tableName string) ([]models.ColumnSchema, error) {
	var rows []struct {
		ColumnName string `bun:"column_name"`
		DataType   string `bun:"data_type"`
	}
	err := i.db.NewRaw(
		"SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = 'public' AND table_name = ? ORDER BY ordinal_position",
		tableName).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect columns of %s: %w", tableName, err)
	}

	columns := make([]models.ColumnSchema, 0, len(rows))
	for _, r := range rows {
		columns = append(columns, models.ColumnSchema{
			Name:            r.ColumnName,
			DataType:        r.DataType,
			BusinessContext: fmt.Sprintf("Column data type is %s.", r.DataType),
		})
	}
	return columns, nil
}

func (i *Introspector) foreignKeys(ctx context.Context, tableName string) ([]models.ForeignKey, error) {
	var rows []struct {
		SourceColumn string `bun:"source_column"`
		TargetTable  string `bun:"target_table"`
		TargetColumn string `bun:"target_column"`
	}
	err := i.db.NewRaw(`
		SELECT kcu.column_name AS source_column,
		       ccu.table_name  AS target_table,
		       ccu.column_name AS target_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = 'public' AND tc.table_name = ?`,
		tableName).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect foreign keys of %s: %w", tableName, err)
	}

	fks := make([]models.ForeignKey, 0, len(rows))
	for _, r := range rows {
		fk := models.ForeignKey{
			SourceTable:  tableName,
			SourceColumn: r.SourceColumn,
			TargetTable:  r.TargetTable,
			TargetColumn: r.TargetColumn,
		}
		fk.Description = ForeignKeyDescription(fk)
		fks = append(fks, fk)
	}
	return fks, nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"schema-link/internal/config"
	"schema-link/internal/db"
	"schema-link/internal/embedding"
	"schema-link/internal/helper"
	"schema-link/internal/index"
	"schema-link/internal/ingest"
	"schema-link/internal/llmservice"
)

var (
	dryRun bool
	enrich bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Introspect the database schema and index it for retrieval",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd.Context())
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the generated schema docs without indexing")
	ingestCmd.Flags().BoolVar(&enrich, "enrich", false, "Append an LLM-written business summary to each table doc")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(ctx context.Context) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sqldb, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	bunDB := db.NewDB(sqldb, cfg.Database.Debug)
	defer bunDB.Close()

	schemas, err := ingest.NewIntrospector(bunDB).Tables(ctx)
	if err != nil {
		return err
	}

	if dryRun {
		helper.PrettyPrint(schemas)
		return nil
	}

	if !cfg.Vector.InMemory {
		if err := helper.CreateFolder(cfg.Vector.Path); err != nil {
			return err
		}
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}
	vectorIndex, err := index.NewVectorIndex(&cfg.Vector, embedding.ChromemFunc(embedder))
	if err != nil {
		return fmt.Errorf("failed to open vector index: %w", err)
	}
	keywordIndex := index.NewKeywordIndex(bunDB)

	var enricher llmservice.Generator
	if enrich {
		client, err := llmservice.NewClient(&cfg.LLM)
		if err != nil {
			return fmt.Errorf("failed to initialize enrichment LLM: %w", err)
		}
		enricher = client
	}

	return ingest.NewIndexer(vectorIndex, keywordIndex, enricher).IngestSchema(ctx, schemas)
}

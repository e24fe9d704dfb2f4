package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"schema-link/internal/agent"
	"schema-link/internal/config"
	"schema-link/internal/db"
	"schema-link/internal/embedding"
	"schema-link/internal/index"
	"schema-link/internal/llmservice"
	"schema-link/internal/models"
	"schema-link/internal/pipeline"
	"schema-link/internal/retrieval"
	"schema-link/internal/synthesis"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one natural-language question against the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(ctx context.Context, question string) error {
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

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}
	vectorIndex, err := index.NewVectorIndex(&cfg.Vector, embedding.ChromemFunc(embedder))
	if err != nil {
		return fmt.Errorf("failed to open vector index: %w", err)
	}
	keywordIndex := index.NewKeywordIndex(bunDB)

	generator, err := llmservice.NewClient(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}

	retriever := retrieval.NewHybridRetriever(vectorIndex, keywordIndex, &cfg.Retrieval)
	loop := agent.NewLoop(retriever, generator, db.NewGuard(bunDB), &cfg.Agent)
	p := pipeline.New(loop, synthesis.NewSynthesizer(generator))

	out := p.Answer(ctx, question)
	if out.Status != models.StatusSuccess {
		log.Error().Str("request_id", out.RequestID).Msg("Query failed")
		fmt.Printf("SchemaLink Error: %s\n", out.Answer)
		return nil
	}

	fmt.Printf("Question: %s\n\n", question)
	fmt.Printf("SQL: %s\n\n", out.SQLQuery)
	fmt.Printf("Answer: %s\n\n", out.Answer)
	fmt.Printf("Attempts: %d, retrieval %s, generation %s, execution %s\n",
		out.Attempts, out.Latency.Retrieval, out.Latency.Generation, out.Latency.Execution)
	return nil
}

package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"schema-link/internal/config"
	"schema-link/internal/db"
	"schema-link/internal/llmservice"
	"schema-link/internal/models"
	"schema-link/internal/retrieval"
)

// Retriever produces the bounded schema context for a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (models.RetrievedContext, error)
}

// Executor runs one guarded statement. Failures carry a *db.QueryError kind.
type Executor interface {
	Execute(ctx context.Context, sqlQuery string) (*models.ResultSet, error)
}

// Loop drives retrieval, generation, parsing, and guarded execution for one
// question, self-correcting on recoverable execution failures up to the retry
// budget. Each attempt depends on the previous outcome, so the loop is
// strictly sequential within a request; it holds no cross-request state.
type Loop struct {
	retriever  Retriever
	generator  llmservice.Generator
	executor   Executor
	maxRetries int
}

func NewLoop(retriever Retriever, generator llmservice.Generator, executor Executor, cfg *config.AgentConfig) *Loop {
	return &Loop{
		retriever:  retriever,
		generator:  generator,
		executor:   executor,
		maxRetries: cfg.MaxRetries,
	}
}

// Run processes one question to a terminal outcome. It never lets an internal
// error escape: every failure is normalized into a failure outcome with a
// human-readable answer.
func (l *Loop) Run(ctx context.Context, question string) models.RunOutcome {
	out := models.RunOutcome{
		RequestID: uuid.NewString(),
		Status:    models.StatusFailure,
		Answer:    "Could not generate or execute a valid query.",
	}
	logger := log.With().Str("request_id", out.RequestID).Logger()

	retrievalStart := time.Now()
	rc, err := l.retriever.Retrieve(ctx, question)
	out.Latency.Retrieval = time.Since(retrievalStart)
	out.Truncated = rc.Truncated
	if err != nil {
		if errors.Is(err, retrieval.ErrNoContext) {
			out.Answer = "Schema retrieval failed. Context is empty."
		} else {
			out.Answer = fmt.Sprintf("Schema retrieval failed: %v", err)
		}
		logger.Error().Err(err).Msg("Retrieval failed, aborting run")
		return out
	}
	logger.Info().
		Dur("retrieval", out.Latency.Retrieval).
		Int("chunks", len(rc.Chunks)).
		Bool("truncated", rc.Truncated).
		Msg("Schema context retrieved")

	var detail *models.ErrorDetail
	for attempt := 0; attempt <= l.maxRetries; attempt++ {
		var prompt string
		if detail != nil {
			prompt = BuildCorrectionPrompt(question, rc, *detail)
		} else {
			prompt = BuildInitialPrompt(question, rc)
		}

		genStart := time.Now()
		raw, err := l.generator.Generate(ctx, prompt)
		out.Latency.Generation += time.Since(genStart)
		out.Attempts++
		if err != nil {
			logger.Error().Err(err).Int("attempt", attempt).Msg("Generator call failed")
			out.Answer = fmt.Sprintf("SQL generation failed: %v", err)
			return out
		}

		stmt, ok := ExtractSQL(raw)
		if !ok {
			// No delimited statement to execute and nothing to feed back;
			// the attempt is spent.
			logger.Error().Int("attempt", attempt).Msg("Failed to parse SQL from model response")
			detail = nil
			out.Answer = fmt.Sprintf("LLM failed to generate parseable SQL after %d attempt(s).", out.Attempts)
			continue
		}

		execStart := time.Now()
		rs, err := l.executor.Execute(ctx, stmt)
		out.Latency.Execution += time.Since(execStart)
		if err != nil {
			var qe *db.QueryError
			if !errors.As(err, &qe) {
				logger.Error().Err(err).Msg("Unclassified execution failure")
				out.Answer = fmt.Sprintf("Query execution failed unexpectedly: %v", err)
				return out
			}

			switch qe.Kind {
			case db.KindSecurityViolation:
				// Guardrail breach fails the whole request, bypassing any
				// remaining retry budget.
				logger.Error().Str("query", stmt).Msg("Security guardrail terminated the request")
				out.Answer = fmt.Sprintf("Query execution terminated by security guardrail: %s", qe.Message)
				return out
			case db.KindTimeout:
				logger.Error().Str("query", stmt).Msg("Statement timeout terminated the request")
				out.Answer = qe.Message
				return out
			case db.KindRecoverable:
				logger.Warn().Int("attempt", attempt).Str("error", qe.Message).Msg("Execution failed, eligible for self-correction")
				detail = &models.ErrorDetail{FailedQuery: stmt, ErrorMessage: qe.Message}
				out.Answer = fmt.Sprintf("SQL failed execution after max retries. Final error: %s", qe.Message)
				continue
			default:
				logger.Error().Err(qe).Msg("Internal execution failure")
				out.Answer = fmt.Sprintf("Query execution failed: %s", qe.Message)
				return out
			}
		}

		out.Status = models.StatusSuccess
		out.SQLQuery = stmt
		out.ResultSet = rs
		out.Answer = ""
		logger.Info().
			Int("attempts", out.Attempts).
			Int("rows", len(rs.Rows)).
			Dur("total", out.Latency.Total()).
			Msg("Query resolved")
		return out
	}

	logger.Error().Int("attempts", out.Attempts).Msg("Retry budget exhausted")
	return out
}

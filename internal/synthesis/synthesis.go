package synthesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"schema-link/internal/llmservice"
	"schema-link/internal/models"
	"schema-link/internal/sanitize"
)

// Synthesizer turns an executed result set into a grounded natural-language
// answer. Rows are scrubbed before the generator ever sees them; the
// groundedness constraint lives in the prompt.
type Synthesizer struct {
	generator llmservice.Generator
}

func NewSynthesizer(generator llmservice.Generator) *Synthesizer {
	return &Synthesizer{generator: generator}
}

// Synthesize scrubs the rows, picks the empty-result or grounded-answer
// branch, and makes one generator call.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, rs *models.ResultSet) (string, error) {
	scrubbed := sanitize.Scrub(rs)

	var prompt string
	if len(scrubbed.Rows) == 0 {
		log.Info().Msg("Handling empty result set")
		prompt = fmt.Sprintf(models.EmptyResultPromptTemplate, question)
	} else {
		resultJSON, err := json.MarshalIndent(scrubbed.Rows, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to serialize result set: %w", err)
		}
		log.Info().Int("rows", len(scrubbed.Rows)).Msg("Synthesizing answer from scrubbed results")
		prompt = fmt.Sprintf(models.SynthesisPromptTemplate, question, resultJSON)
	}

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize answer: %w", err)
	}
	return answer, nil
}

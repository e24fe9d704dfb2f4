package agent

import (
	"fmt"
	"strings"

	"schema-link/internal/models"
)

// joinChunks flattens the retrieved schema chunks into one context block.
func joinChunks(rc models.RetrievedContext) string {
	parts := make([]string, 0, len(rc.Chunks))
	for _, chunk := range rc.Chunks {
		parts = append(parts, chunk.Content)
	}
	return strings.Join(parts, "\n")
}

// BuildInitialPrompt assembles the first-attempt prompt: system template with
// the retrieved context, followed by the user question.
func BuildInitialPrompt(question string, rc models.RetrievedContext) string {
	prompt := fmt.Sprintf(models.SystemPromptTemplate, joinChunks(rc))
	prompt += fmt.Sprintf("\n--- USER QUESTION ---\n%s", question)
	return prompt
}

// BuildCorrectionPrompt assembles the retry prompt: correction template with
// the failed statement and its error, then the original context and question
// for re-evaluation. The same template serves every retry.
func BuildCorrectionPrompt(question string, rc models.RetrievedContext, detail models.ErrorDetail) string {
	prompt := fmt.Sprintf(models.CorrectionPromptTemplate, detail.FailedQuery, detail.ErrorMessage)
	prompt += fmt.Sprintf("\n--- SCHEMA CONTEXT (Original) ---\n%s", joinChunks(rc))
	prompt += fmt.Sprintf("\n--- USER QUESTION (Original) ---\n%s", question)
	return prompt
}

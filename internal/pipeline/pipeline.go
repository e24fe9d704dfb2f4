// Package pipeline wires retrieval, the correction loop, and synthesis into
// one question-to-answer call. Each call is an independent unit of work; the
// pipeline holds only read-only collaborators and is safe for concurrent use.
package pipeline

import (
	"context"

	"schema-link/internal/agent"
	"schema-link/internal/models"
	"schema-link/internal/synthesis"
)

type Pipeline struct {
	loop  *agent.Loop
	synth *synthesis.Synthesizer
}

func New(loop *agent.Loop, synth *synthesis.Synthesizer) *Pipeline {
	return &Pipeline{loop: loop, synth: synth}
}

// Answer resolves one natural-language question. Loop failures pass through
// as-is; on success the result set is synthesized (scrubbing included) into
// the outcome's answer.
func (p *Pipeline) Answer(ctx context.Context, question string) models.RunOutcome {
	out := p.loop.Run(ctx, question)
	if out.Status != models.StatusSuccess {
		return out
	}

	answer, err := p.synth.Synthesize(ctx, question, out.ResultSet)
	if err != nil {
		out.Status = models.StatusFailure
		out.Answer = "The query executed, but answer synthesis failed: " + err.Error()
		return out
	}
	out.Answer = answer
	return out
}

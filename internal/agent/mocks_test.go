package agent

import (
	"context"
	"errors"

	"schema-link/internal/models"
)

// fakeGenerator replays a queue of canned responses, one per call.
type fakeGenerator struct {
	responses []string
	errs      []error
	prompts   []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	call := len(f.prompts) - 1
	if call < len(f.errs) && f.errs[call] != nil {
		return "", f.errs[call]
	}
	if call >= len(f.responses) {
		return "", errors.New("fake generator: response queue exhausted")
	}
	return f.responses[call], nil
}

// execResult is one canned executor outcome.
type execResult struct {
	rs  *models.ResultSet
	err error
}

// fakeExecutor replays a queue of canned execution outcomes.
type fakeExecutor struct {
	results    []execResult
	statements []string
}

func (f *fakeExecutor) Execute(ctx context.Context, sqlQuery string) (*models.ResultSet, error) {
	f.statements = append(f.statements, sqlQuery)
	call := len(f.statements) - 1
	if call >= len(f.results) {
		return nil, errors.New("fake executor: result queue exhausted")
	}
	r := f.results[call]
	return r.rs, r.err
}

// fakeRetriever serves a fixed context or a fixed error.
type fakeRetriever struct {
	rc  models.RetrievedContext
	err error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) (models.RetrievedContext, error) {
	return f.rc, f.err
}

func contextWith(tables ...string) models.RetrievedContext {
	rc := models.RetrievedContext{}
	for _, name := range tables {
		rc.Chunks = append(rc.Chunks, models.SchemaChunk{
			TableName: name,
			Content:   "# Table: " + name,
		})
	}
	return rc
}

func wrapped(sql string) string {
	return models.SQLStartToken + sql + models.SQLEndToken
}

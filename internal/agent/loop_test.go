package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-link/internal/config"
	"schema-link/internal/db"
	"schema-link/internal/models"
	"schema-link/internal/retrieval"
)

func newTestLoop(r Retriever, g *fakeGenerator, e *fakeExecutor, maxRetries int) *Loop {
	return NewLoop(r, g, e, &config.AgentConfig{MaxRetries: maxRetries})
}

func TestLoopSuccessWithJoinQuery(t *testing.T) {
	joinSQL := "SELECT T1.total_amount, T2.customer_name FROM Orders T1 JOIN Customers T2 ON T1.customer_id = T2.customer_id WHERE T2.account_type = 'Key Account';"
	gen := &fakeGenerator{responses: []string{wrapped(joinSQL)}}
	exec := &fakeExecutor{results: []execResult{{rs: &models.ResultSet{
		Columns: []string{"total_amount", "customer_name"},
		Rows: []models.Row{
			{"total_amount": 1500.0, "customer_name": "Acme Corp"},
		},
	}}}}

	loop := newTestLoop(&fakeRetriever{rc: contextWith("Customers", "Orders")}, gen, exec, 1)
	out := loop.Run(context.Background(), "What was the total order amount for all key accounts?")

	require.Equal(t, models.StatusSuccess, out.Status)
	assert.Equal(t, joinSQL, out.SQLQuery)
	require.NotNil(t, out.ResultSet)
	assert.NotEmpty(t, out.ResultSet.Rows)
	assert.Equal(t, 1, out.Attempts)
	assert.NotEmpty(t, out.RequestID)
}

func TestLoopSelfCorrectsOnce(t *testing.T) {
	badSQL := "SELECT non_existent_column FROM Orders;"
	goodSQL := "SELECT SUM(total_amount) FROM Orders;"
	gen := &fakeGenerator{responses: []string{wrapped(badSQL), wrapped(goodSQL)}}
	exec := &fakeExecutor{results: []execResult{
		{err: &db.QueryError{Kind: db.KindRecoverable, Query: badSQL, Message: `column "non_existent_column" does not exist`}},
		{rs: &models.ResultSet{Columns: []string{"sum"}, Rows: []models.Row{{"sum": 42.0}}}},
	}}

	loop := newTestLoop(&fakeRetriever{rc: contextWith("Orders")}, gen, exec, 1)
	out := loop.Run(context.Background(), "What was the total amount of sales across all customers?")

	require.Equal(t, models.StatusSuccess, out.Status)
	assert.Equal(t, goodSQL, out.SQLQuery)
	assert.Equal(t, 2, out.Attempts)

	// The second prompt must carry the failed statement and its error.
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[1], badSQL)
	assert.Contains(t, gen.prompts[1], "does not exist")
	assert.Contains(t, gen.prompts[1], "USER QUESTION (Original)")
}

func TestLoopSecurityViolationTerminatesImmediately(t *testing.T) {
	gen := &fakeGenerator{responses: []string{wrapped("DELETE FROM Orders;"), wrapped("SELECT 1")}}
	exec := &fakeExecutor{results: []execResult{
		{err: &db.QueryError{Kind: db.KindSecurityViolation, Query: "DELETE FROM Orders;", Message: "only read (SELECT/WITH) statements are allowed"}},
	}}

	loop := newTestLoop(&fakeRetriever{rc: contextWith("Orders")}, gen, exec, 1)
	out := loop.Run(context.Background(), "Delete everything")

	require.Equal(t, models.StatusFailure, out.Status)
	assert.Contains(t, out.Answer, "security guardrail")
	// Zero retries attempted: one generation, one execution.
	assert.Equal(t, 1, out.Attempts)
	assert.Len(t, exec.statements, 1)
}

func TestLoopTimeoutTerminatesImmediately(t *testing.T) {
	gen := &fakeGenerator{responses: []string{wrapped("SELECT * FROM huge_table")}}
	exec := &fakeExecutor{results: []execResult{
		{err: &db.QueryError{Kind: db.KindTimeout, Message: "query execution exceeded the statement time limit, please simplify the request"}},
	}}

	loop := newTestLoop(&fakeRetriever{rc: contextWith("Orders")}, gen, exec, 1)
	out := loop.Run(context.Background(), "Everything please")

	require.Equal(t, models.StatusFailure, out.Status)
	assert.Contains(t, out.Answer, "time limit")
	assert.Equal(t, 1, out.Attempts)
}

func TestLoopEmptyContextFailsBeforeGeneration(t *testing.T) {
	gen := &fakeGenerator{}
	loop := newTestLoop(&fakeRetriever{err: retrieval.ErrNoContext}, gen, &fakeExecutor{}, 1)

	out := loop.Run(context.Background(), "anything")

	require.Equal(t, models.StatusFailure, out.Status)
	assert.Equal(t, "Schema retrieval failed. Context is empty.", out.Answer)
	assert.Empty(t, gen.prompts)
	assert.Zero(t, out.Attempts)
}

func TestLoopParseFailureConsumesAttempt(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"I am sorry, I cannot write SQL today.",
		wrapped("SELECT 1"),
	}}
	exec := &fakeExecutor{results: []execResult{
		{rs: &models.ResultSet{Columns: []string{"?column?"}, Rows: []models.Row{{"?column?": int64(1)}}}},
	}}

	loop := newTestLoop(&fakeRetriever{rc: contextWith("Orders")}, gen, exec, 1)
	out := loop.Run(context.Background(), "anything")

	require.Equal(t, models.StatusSuccess, out.Status)
	assert.Equal(t, 2, out.Attempts)
	// The retry after a parse failure has no error detail to feed back, so it
	// uses the initial template again.
	assert.Contains(t, gen.prompts[1], "--- USER QUESTION ---")
	assert.NotContains(t, gen.prompts[1], "FAILED QUERY")
}

func TestLoopParseFailureExhaustsBudget(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"no sql here", "still no sql"}}

	loop := newTestLoop(&fakeRetriever{rc: contextWith("Orders")}, gen, &fakeExecutor{}, 1)
	out := loop.Run(context.Background(), "anything")

	require.Equal(t, models.StatusFailure, out.Status)
	assert.Equal(t, 2, out.Attempts)
	assert.Contains(t, out.Answer, "parseable SQL")
}

func TestLoopExhaustsRetriesOnRecoverableFailures(t *testing.T) {
	gen := &fakeGenerator{responses: []string{wrapped("SELECT a FROM b"), wrapped("SELECT c FROM d")}}
	exec := &fakeExecutor{results: []execResult{
		{err: &db.QueryError{Kind: db.KindRecoverable, Message: "relation b does not exist"}},
		{err: &db.QueryError{Kind: db.KindRecoverable, Message: "relation d does not exist"}},
	}}

	loop := newTestLoop(&fakeRetriever{rc: contextWith("Orders")}, gen, exec, 1)
	out := loop.Run(context.Background(), "anything")

	require.Equal(t, models.StatusFailure, out.Status)
	assert.Equal(t, 2, out.Attempts)
	assert.Contains(t, out.Answer, "relation d does not exist")
}

func TestLoopAttemptsNeverExceedBudget(t *testing.T) {
	// However many recoverable failures are queued, attempts stay bounded by
	// maxRetries + 1 and the loop terminates.
	for _, maxRetries := range []int{0, 1, 3} {
		responses := make([]string, maxRetries+2)
		results := make([]execResult, maxRetries+2)
		for i := range responses {
			responses[i] = wrapped("SELECT broken")
			results[i] = execResult{err: &db.QueryError{Kind: db.KindRecoverable, Message: "still broken"}}
		}

		gen := &fakeGenerator{responses: responses}
		loop := newTestLoop(&fakeRetriever{rc: contextWith("Orders")}, gen, &fakeExecutor{results: results}, maxRetries)
		out := loop.Run(context.Background(), "anything")

		assert.Equal(t, models.StatusFailure, out.Status)
		assert.Equal(t, maxRetries+1, out.Attempts)
	}
}

func TestLoopInternalFailureIsTerminal(t *testing.T) {
	gen := &fakeGenerator{responses: []string{wrapped("SELECT 1"), wrapped("SELECT 2")}}
	exec := &fakeExecutor{results: []execResult{
		{err: &db.QueryError{Kind: db.KindInternal, Message: "connection reset"}},
	}}

	loop := newTestLoop(&fakeRetriever{rc: contextWith("Orders")}, gen, exec, 1)
	out := loop.Run(context.Background(), "anything")

	require.Equal(t, models.StatusFailure, out.Status)
	assert.Equal(t, 1, out.Attempts)
}

func TestBuildInitialPromptEmbedsContextAndQuestion(t *testing.T) {
	rc := contextWith("Customers", "Orders")
	prompt := BuildInitialPrompt("How many key accounts?", rc)

	assert.Contains(t, prompt, "# Table: Customers")
	assert.Contains(t, prompt, "# Table: Orders")
	assert.Contains(t, prompt, "How many key accounts?")
	assert.Contains(t, prompt, models.SQLStartToken)
	assert.Contains(t, prompt, models.SQLEndToken)
}

func TestBuildCorrectionPromptEmbedsFailureDetail(t *testing.T) {
	rc := contextWith("Orders")
	detail := models.ErrorDetail{FailedQuery: "SELECT nope FROM Orders", ErrorMessage: "column nope does not exist"}
	prompt := BuildCorrectionPrompt("total sales?", rc, detail)

	assert.Contains(t, prompt, "SELECT nope FROM Orders")
	assert.Contains(t, prompt, "column nope does not exist")
	assert.Contains(t, prompt, "# Table: Orders")
	assert.Contains(t, prompt, "total sales?")
}

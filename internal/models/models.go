package models

import "time"

// SchemaChunk is one table's descriptive schema text, as retrieved for prompting.
type SchemaChunk struct {
	TableName string `json:"table_name"`
	Content   string `json:"content"`
}

// RetrievedContext is the token-bounded set of schema chunks handed to the
// prompt builder. Truncated is set when at least one candidate was dropped
// to stay inside the budget.
type RetrievedContext struct {
	Chunks    []SchemaChunk
	Truncated bool
}

// ErrorDetail carries a failed statement and its database error text into the
// next generation attempt.
type ErrorDetail struct {
	FailedQuery  string
	ErrorMessage string
}

// Row is a single result row keyed by column name.
type Row map[string]interface{}

// ResultSet preserves the database's column order alongside the rows.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Latencies records per-phase wall-clock time for one run.
type Latencies struct {
	Retrieval  time.Duration `json:"retrieval"`
	Generation time.Duration `json:"generation"`
	Execution  time.Duration `json:"execution"`
}

// Total is the sum of the recorded phases.
func (l Latencies) Total() time.Duration {
	return l.Retrieval + l.Generation + l.Execution
}

// RunOutcome is the terminal value of one user query.
type RunOutcome struct {
	RequestID string     `json:"request_id"`
	Status    string     `json:"status"`
	SQLQuery  string     `json:"sql_query,omitempty"`
	ResultSet *ResultSet `json:"-"`
	Answer    string     `json:"answer"`
	Attempts  int        `json:"attempts"`
	Truncated bool       `json:"truncated"`
	Latency   Latencies  `json:"latency"`
}

// ColumnSchema describes one column of an introspected table.
type ColumnSchema struct {
	Name            string
	DataType        string
	BusinessContext string
}

// ForeignKey describes a join relationship between two tables.
type ForeignKey struct {
	SourceTable  string
	SourceColumn string
	TargetTable  string
	TargetColumn string
	Description  string
}

// TableSchema is the complete schema unit for one table and the source of its
// descriptive text chunk.
type TableSchema struct {
	TableName       string
	Columns         []ColumnSchema
	ForeignKeys     []ForeignKey
	DescriptiveText string
}

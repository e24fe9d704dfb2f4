package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"schema-link/internal/models"
)

// statement_timeout cancellations surface as SQLSTATE 57014 (query_canceled).
const sqlstateQueryCanceled = "57014"

// pgError is the slice of the driver error we classify on. pgdriver.Error
// satisfies it; tests substitute their own.
type pgError interface {
	Field(field byte) string
}

// Guard executes generated SQL under the read-only and timeout guardrails.
type Guard struct {
	db *bun.DB
}

func NewGuard(db *bun.DB) *Guard {
	return &Guard{db: db}
}

// ValidateStatement is the textual read-only check: after trimming and case
// normalization the statement must begin with SELECT or WITH. It runs before
// any connection is touched and short-circuits everything else.
func ValidateStatement(sqlQuery string) error {
	normalized := strings.ToUpper(strings.TrimSpace(sqlQuery))
	if strings.HasPrefix(normalized, "SELECT") || strings.HasPrefix(normalized, "WITH") {
		return nil
	}
	log.Error().Str("query", sqlQuery).Msg("SECURITY ALERT: non-SELECT/WITH query attempt")
	return &QueryError{
		Kind:    KindSecurityViolation,
		Query:   sqlQuery,
		Message: "query failed security validation: only read (SELECT/WITH) statements are allowed",
	}
}

// Execute validates and runs one statement, returning rows in database column
// and row order. Failures come back as *QueryError tagged with their kind.
func (g *Guard) Execute(ctx context.Context, sqlQuery string) (*models.ResultSet, error) {
	if err := ValidateStatement(sqlQuery); err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := g.db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, classifyExecError(sqlQuery, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, internalError(sqlQuery, err)
	}

	rs := &models.ResultSet{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, internalError(sqlQuery, err)
		}

		row := make(models.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyExecError(sqlQuery, err)
	}

	log.Debug().Int("rows", len(rs.Rows)).Dur("took", time.Since(start)).Msg("Guarded execution complete")
	return rs, nil
}

// classifyExecError maps a driver error onto the guardrail taxonomy. Server
// errors carry a SQLSTATE field: 57014 means the statement_timeout fired,
// anything else is a semantic error the agent may self-correct. Errors
// without a SQLSTATE (network, scan) are internal.
func classifyExecError(sqlQuery string, err error) error {
	var pgErr pgError
	if errors.As(err, &pgErr) {
		if pgErr.Field('C') == sqlstateQueryCanceled {
			return &QueryError{
				Kind:    KindTimeout,
				Query:   sqlQuery,
				Message: "query execution exceeded the statement time limit, please simplify the request",
				Err:     err,
			}
		}
		return &QueryError{
			Kind:    KindRecoverable,
			Query:   sqlQuery,
			Message: fmt.Sprintf("database execution error: %v", err),
			Err:     err,
		}
	}
	return internalError(sqlQuery, err)
}

func internalError(sqlQuery string, err error) error {
	return &QueryError{
		Kind:    KindInternal,
		Query:   sqlQuery,
		Message: fmt.Sprintf("unexpected error during database operation: %v", err),
		Err:     err,
	}
}

package agent

import (
	"regexp"
	"strings"

	"schema-link/internal/models"
)

// sqlPattern matches the region between the sentinel tokens, case-insensitive
// and spanning newlines.
var sqlPattern = regexp.MustCompile(
	`(?is)` + regexp.QuoteMeta(models.SQLStartToken) + `\s*(.*?)\s*` + regexp.QuoteMeta(models.SQLEndToken))

// ExtractSQL pulls the candidate statement out of raw model output. The text
// must contain a region wrapped in the sentinel tokens; the region is trimmed
// and stripped of backticks. Returns false when no delimited region exists.
func ExtractSQL(text string) (string, bool) {
	match := sqlPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	stmt := strings.TrimSpace(strings.ReplaceAll(match[1], "`", ""))
	if stmt == "" {
		return "", false
	}
	return stmt, true
}

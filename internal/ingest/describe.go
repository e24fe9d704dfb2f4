package ingest

import (
	"fmt"
	"strings"

	"schema-link/internal/models"
)

// ForeignKeyDescription narrates a join relationship for the prompt context.
// The generator relies on these sentences to construct correct JOINs.
func ForeignKeyDescription(fk models.ForeignKey) string {
	return fmt.Sprintf(
		"The '%s' table is linked to the '%s' table via the Foreign Key relationship between its column '%s' and the target column '%s'.",
		fk.SourceTable, fk.TargetTable, fk.SourceColumn, fk.TargetColumn)
}

// DescriptiveText renders one table's schema as the text chunk the retrieval
// layer indexes and the prompt builder embeds.
func DescriptiveText(t models.TableSchema) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Table: %s\n", t.TableName)
	b.WriteString("## Descriptive Schema for SQL Generation\n\n")

	b.WriteString("## Columns and Types:\n")
	for _, c := range t.Columns {
		fmt.Fprintf(&b, "- %s (%s): %s\n", c.Name, c.DataType, c.BusinessContext)
	}

	b.WriteString("\n## Foreign Key Relationships (JOINs):\n")
	if len(t.ForeignKeys) == 0 {
		b.WriteString("No explicit foreign key links defined in schema metadata.\n")
	} else {
		for _, fk := range t.ForeignKeys {
			fmt.Fprintf(&b, "- %s\n", fk.Description)
		}
	}

	return b.String()
}

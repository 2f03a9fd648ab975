package analysis

import (
	"strconv"

	"integration-service/internal/dataset"
)

// ColumnProfile describes one column of a dataset: its inferred value type,
// how many rows leave it empty, and how many distinct values it holds.
type ColumnProfile struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	EmptyCount  int    `json:"empty_count"`
	UniqueCount int    `json:"unique_count"`
}

// StructureProfile is the structural summary of one dataset, column by column
// in header order.
type StructureProfile struct {
	RowCount    int             `json:"row_count"`
	ColumnCount int             `json:"column_count"`
	Columns     []ColumnProfile `json:"columns"`
}

// ProfileStructure analyzes the shape of a dataset. Values are typed by
// content: a column is "numeric" when every non-empty value parses as a
// number, "text" otherwise. Empty values do not count toward the unique
// count, matching how null values are excluded from distinct counts.
func ProfileStructure(t dataset.Table) StructureProfile {
	profile := StructureProfile{
		RowCount:    len(t.Rows),
		ColumnCount: len(t.Columns),
		Columns:     make([]ColumnProfile, 0, len(t.Columns)),
	}

	for _, col := range t.Columns {
		cp := ColumnProfile{Name: col, Type: "text"}
		distinct := make(map[string]bool)
		numeric := true
		nonEmpty := 0
		for _, row := range t.Rows {
			value := row[col]
			if value == "" {
				cp.EmptyCount++
				continue
			}
			nonEmpty++
			distinct[value] = true
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				numeric = false
			}
		}
		cp.UniqueCount = len(distinct)
		if numeric && nonEmpty > 0 {
			cp.Type = "numeric"
		}
		profile.Columns = append(profile.Columns, cp)
	}
	return profile
}

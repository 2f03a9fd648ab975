package integrate

import (
	"fmt"
	"strconv"
	"strings"

	"integration-service/internal/dataset"
	"integration-service/internal/schema"
)

// IntegrationError reports an unrecoverable integration failure: no usable
// join key in the mapping table, or the chosen key column missing from the
// actual row data. Zero joined rows is not an IntegrationError; it is a valid
// report with a rate of 0.
type IntegrationError struct {
	Reason string
}

func (e *IntegrationError) Error() string {
	return "integration error: " + e.Reason
}

func integrationErrorf(format string, args ...interface{}) *IntegrationError {
	return &IntegrationError{Reason: fmt.Sprintf(format, args...)}
}

// Report summarizes a completed integration: row counts on both sides, how
// many rows joined, which column pair served as the key, and the overall
// integration rate = rows_unified / max(rows_a, rows_b).
type Report struct {
	RowsA           int     `json:"rows_a"`
	RowsB           int     `json:"rows_b"`
	RowsUnified     int     `json:"rows_unified"`
	UnmatchedA      int     `json:"unmatched_a_count"`
	UnmatchedB      int     `json:"unmatched_b_count"`
	JoinKeySource   string  `json:"join_key_source"`
	JoinKeyTarget   string  `json:"join_key_target"`
	JoinKeyScore    float64 `json:"join_key_score"`
	IntegrationRate float64 `json:"integration_rate"`
}

// wellKnownKeys are column names always treated as identifier-like, listed
// explicitly so the precedence rule stays documented in one place even for
// names an "id" substring check would already catch.
var wellKnownKeys = map[string]bool{
	"lot_id":    true,
	"batch_no":  true,
	"serial_no": true,
}

// isIdentifierLike reports whether a column name looks like an identifier
// column: it contains "id" in any casing, or is a well-known key name.
func isIdentifierLike(column string) bool {
	if wellKnownKeys[column] {
		return true
	}
	return strings.Contains(strings.ToLower(column), "id")
}

// SelectJoinKey picks the mapping entry to join on. Identifier-like pairs
// (both source and target names look like identifiers) take precedence over
// the raw ranking; among them the highest score wins, ties resolved by mapping
// order. Only when no identifier-like pair exists does the single
// highest-scoring accepted entry win outright. Without this precedence a
// spuriously similar non-key pair could be chosen and corrupt the merge.
//
// Returns an *IntegrationError when not a single entry is accepted.
func SelectJoinKey(mapping schema.MappingTable) (schema.MappingEntry, error) {
	accepted := mapping.Accepted()
	if len(accepted) == 0 {
		return schema.MappingEntry{}, integrationErrorf("no viable join key: no mapping entry met the confidence threshold")
	}

	best := schema.MappingEntry{}
	found := false
	for _, entry := range accepted {
		if !isIdentifierLike(entry.Source) || !isIdentifierLike(entry.Target) {
			continue
		}
		if !found || entry.Score > best.Score {
			best = entry
			found = true
		}
	}
	if found {
		return best, nil
	}

	best = accepted[0]
	for _, entry := range accepted[1:] {
		if entry.Score > best.Score {
			best = entry
		}
	}
	return best, nil
}

// joinKey is the canonical form of one join key value. Numeric and string
// values occupy separate spaces, so a numeric "1" can never collide with a
// string value whose text happens to equal the numeric canonical form.
type joinKey struct {
	numeric bool
	value   string
}

// normalizeKey canonicalizes a join key value: surrounding whitespace is
// trimmed, and values that parse as numbers are reduced to a canonical numeric
// form so "1", " 1" and "1.0" all join. Everything else compares as the exact
// trimmed string, and only against other strings.
func normalizeKey(value string) joinKey {
	trimmed := strings.TrimSpace(value)
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return joinKey{numeric: true, value: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return joinKey{value: trimmed}
}

// Integrate joins dataset a and dataset b on the key implied by the mapping
// table and reports the result. Inner-join semantics: rows without a partner
// on the other side are excluded from the unified table but counted in the
// report. Each b row is consumed by at most one a row (first available match),
// so rows_unified never exceeds min(rows_a, rows_b).
//
// The unified table carries every column of a followed by every column of b;
// both key columns are retained for traceability, and b columns whose names
// collide with a columns are suffixed "_b". Inputs are not mutated.
func Integrate(a, b dataset.Table, mapping schema.MappingTable) (dataset.Table, Report, error) {
	key, err := SelectJoinKey(mapping)
	if err != nil {
		return dataset.Table{}, Report{}, err
	}

	if !hasColumn(a, key.Source) {
		return dataset.Table{}, Report{}, integrationErrorf("key column missing: %q not present in source dataset", key.Source)
	}
	if !hasColumn(b, key.Target) {
		return dataset.Table{}, Report{}, integrationErrorf("key column missing: %q not present in target dataset", key.Target)
	}

	// Rename colliding b columns once, up front, so rows and header agree.
	renamed := make(map[string]string, len(b.Columns))
	aCols := make(map[string]bool, len(a.Columns))
	for _, col := range a.Columns {
		aCols[col] = true
	}
	unifiedCols := make([]string, 0, len(a.Columns)+len(b.Columns))
	unifiedCols = append(unifiedCols, a.Columns...)
	for _, col := range b.Columns {
		out := col
		if aCols[col] {
			out = col + "_b"
		}
		renamed[col] = out
		unifiedCols = append(unifiedCols, out)
	}

	// Index b rows by normalized key value, preserving row order per value.
	byKey := make(map[joinKey][]int)
	for i, row := range b.Rows {
		k := normalizeKey(row[key.Target])
		byKey[k] = append(byKey[k], i)
	}

	consumed := make([]bool, len(b.Rows))
	unified := dataset.Table{Columns: unifiedCols, Rows: make([]dataset.Row, 0)}
	for _, rowA := range a.Rows {
		candidates := byKey[normalizeKey(rowA[key.Source])]
		matched := -1
		for _, idx := range candidates {
			if !consumed[idx] {
				matched = idx
				break
			}
		}
		if matched < 0 {
			continue
		}
		consumed[matched] = true

		merged := make(dataset.Row, len(unifiedCols))
		for _, col := range a.Columns {
			merged[col] = rowA[col]
		}
		for _, col := range b.Columns {
			merged[renamed[col]] = b.Rows[matched][col]
		}
		unified.Rows = append(unified.Rows, merged)
	}

	report := Report{
		RowsA:         len(a.Rows),
		RowsB:         len(b.Rows),
		RowsUnified:   len(unified.Rows),
		UnmatchedA:    len(a.Rows) - len(unified.Rows),
		UnmatchedB:    len(b.Rows) - len(unified.Rows),
		JoinKeySource: key.Source,
		JoinKeyTarget: key.Target,
		JoinKeyScore:  key.Score,
	}
	if denom := max(report.RowsA, report.RowsB); denom > 0 {
		report.IntegrationRate = float64(report.RowsUnified) / float64(denom)
	}
	return unified, report, nil
}

func hasColumn(t dataset.Table, name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

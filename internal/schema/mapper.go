package schema

// ConfidenceThreshold is the minimum similarity score for a mapping entry to
// be accepted as a confident match.
const ConfidenceThreshold = 0.3

// MappingEntry records one attempted correspondence between a source column
// and the target column it resembles most. Entries below the confidence
// threshold are kept with Accepted=false so callers can report what was
// attempted rather than silently dropping it.
type MappingEntry struct {
	Source   string  `json:"source_column"`
	Target   string  `json:"target_column"`
	Score    float64 `json:"score"`
	Accepted bool    `json:"accepted"`
}

// MappingTable is the ordered result of mapping one schema onto another: one
// entry per source column, in source column order.
type MappingTable []MappingEntry

// Accepted returns the entries that met the confidence threshold, preserving
// order.
func (t MappingTable) Accepted() []MappingEntry {
	accepted := make([]MappingEntry, 0, len(t))
	for _, e := range t {
		if e.Accepted {
			accepted = append(accepted, e)
		}
	}
	return accepted
}

// Mapper discovers a best-guess correspondence between the columns of two
// tabular datasets using textual similarity of their semantic descriptions.
// It is a pure function of its inputs: no caching, no state across calls.
type Mapper struct {
	vocab     Vocabulary
	threshold float64
}

// NewMapper creates a Mapper using the given vocabulary for column
// descriptions and the standard confidence threshold.
func NewMapper(vocab Vocabulary) *Mapper {
	return &Mapper{vocab: vocab, threshold: ConfidenceThreshold}
}

// MapSchemas produces a MappingTable from the columns of a source dataset to
// the columns of a target dataset.
//
// Every column name is turned into a description (curated vocabulary with a
// tokenized-raw-name fallback), the combined descriptions of both schemas form
// the TF-IDF corpus for this call, and each source column is paired with the
// target column of highest cosine similarity. On a tied top score the target
// appearing first in targetColumns wins. No target-used-once constraint is
// enforced: two source columns may map to the same target.
//
// An empty column list on either side, or a duplicate column name within one
// side, is a *SchemaError. Zero entries above the threshold is a valid result,
// not an error.
func (m *Mapper) MapSchemas(sourceColumns, targetColumns []string) (MappingTable, error) {
	if len(sourceColumns) == 0 {
		return nil, schemaErrorf("empty schema: source dataset has no columns")
	}
	if len(targetColumns) == 0 {
		return nil, schemaErrorf("empty schema: target dataset has no columns")
	}
	if dup := firstDuplicate(sourceColumns); dup != "" {
		return nil, schemaErrorf("duplicate column %q in source dataset", dup)
	}
	if dup := firstDuplicate(targetColumns); dup != "" {
		return nil, schemaErrorf("duplicate column %q in target dataset", dup)
	}

	descriptions := make([]string, 0, len(sourceColumns)+len(targetColumns))
	for _, col := range sourceColumns {
		descriptions = append(descriptions, m.vocab.Describe(col))
	}
	for _, col := range targetColumns {
		descriptions = append(descriptions, m.vocab.Describe(col))
	}

	vectors := tfidfVectors(descriptions)
	sourceVecs := vectors[:len(sourceColumns)]
	targetVecs := vectors[len(sourceColumns):]

	table := make(MappingTable, 0, len(sourceColumns))
	for i, source := range sourceColumns {
		bestIdx := 0
		bestScore := cosine(sourceVecs[i], targetVecs[0])
		for j := 1; j < len(targetVecs); j++ {
			// Strict > keeps the earliest target on tied scores.
			if score := cosine(sourceVecs[i], targetVecs[j]); score > bestScore {
				bestIdx = j
				bestScore = score
			}
		}
		table = append(table, MappingEntry{
			Source:   source,
			Target:   targetColumns[bestIdx],
			Score:    bestScore,
			Accepted: bestScore >= m.threshold,
		})
	}
	return table, nil
}

func firstDuplicate(columns []string) string {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if seen[col] {
			return col
		}
		seen[col] = true
	}
	return ""
}

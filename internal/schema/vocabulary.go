package schema

import "strings"

// Vocabulary maps known column names to short free-text semantic descriptions
// ("synonym hints") used for similarity scoring. It is an explicit
// configuration value passed into a Mapper, so mappers with different
// vocabularies can coexist; it is never consulted as global state.
type Vocabulary map[string]string

// Describe returns the semantic description for a column name. Unrecognized
// names fall back to the raw name lightly tokenized (separator characters
// replaced with spaces), which is what lets arbitrary uploaded schemas still
// produce some description.
func (v Vocabulary) Describe(column string) string {
	if desc, ok := v[column]; ok {
		return desc
	}
	replacer := strings.NewReplacer("_", " ", "-", " ", ".", " ")
	return replacer.Replace(column)
}

// DefaultVocabulary returns the hand-curated descriptions for the
// manufacturing demo schemas: ERP/MES production columns and CMM quality
// measurement columns.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		// Production columns
		"production_order_id":  "production order identifier number",
		"part_id":              "part component identifier number",
		"lot_id":               "manufacturing lot batch identifier",
		"production_timestamp": "production manufacturing date time",
		"quantity":             "quantity amount number produced",
		"machine_id":           "machine equipment identifier",
		"operator_id":          "operator worker identifier",
		"shift":                "work shift time period",
		"plant_code":           "plant facility location code",
		"status":               "production status state",

		// CMM columns
		"measurement_id":        "measurement test identifier number",
		"component_id":          "component part identifier number",
		"feature_name":          "measured feature characteristic name",
		"nominal_value":         "target nominal specification value",
		"upper_tolerance":       "upper tolerance limit specification",
		"lower_tolerance":       "lower tolerance limit specification",
		"measured_value":        "actual measured test value",
		"measurement_timestamp": "measurement test date time",
		"cmm_machine_id":        "cmm measurement machine identifier",
		"inspector_id":          "quality inspector identifier",
		"result":                "test measurement result outcome",
	}
}

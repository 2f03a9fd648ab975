package analysis

import (
	"math"
	"sort"
	"strconv"

	"integration-service/internal/dataset"
)

// AnomalyConfig names the unified-dataset columns used for statistical
// anomaly detection on measurement deviations.
type AnomalyConfig struct {
	MeasuredColumn string
	NominalColumn  string
	FeatureColumn  string
	MachineColumn  string
}

// DefaultAnomalyConfig matches the demo manufacturing schema.
func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{
		MeasuredColumn: "measured_value",
		NominalColumn:  "nominal_value",
		FeatureColumn:  "feature_name",
		MachineColumn:  "machine_id",
	}
}

// DeviationStats are the descriptive statistics of the absolute deviations
// between measured and nominal values.
type DeviationStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Q1   float64 `json:"q1"`
	Q3   float64 `json:"q3"`
	IQR  float64 `json:"iqr"`
}

// AnomalousMeasurement is one outlier row together with its deviation.
type AnomalousMeasurement struct {
	Row       dataset.Row `json:"row"`
	Deviation float64     `json:"deviation"`
}

// AnomalyReport summarizes IQR-based outlier detection over the unified
// dataset's measurement deviations.
type AnomalyReport struct {
	TotalAnomalies int            `json:"total_anomalies"`
	AnomalyPercent float64        `json:"anomaly_percentage"`
	Stats          DeviationStats `json:"deviation_statistics"`
	LowerBound     float64        `json:"lower_bound"`
	UpperBound     float64        `json:"upper_bound"`

	ByMachine map[string]int `json:"anomalies_by_machine"`
	ByFeature map[string]int `json:"anomalies_by_feature"`

	TopAnomalies []AnomalousMeasurement `json:"top_anomalous_measurements"`
}

// DetectAnomalies flags rows whose absolute deviation |measured - nominal|
// falls outside the quartile fences Q1-1.5*IQR and Q3+1.5*IQR. Rows whose
// measured or nominal value does not parse as a number are skipped. An input
// with no parsable rows yields a zero-valued report, not an error.
func DetectAnomalies(unified dataset.Table, cfg AnomalyConfig) AnomalyReport {
	report := AnomalyReport{
		ByMachine:    make(map[string]int),
		ByFeature:    make(map[string]int),
		TopAnomalies: make([]AnomalousMeasurement, 0),
	}

	type measured struct {
		rowIdx    int
		deviation float64
	}
	all := make([]measured, 0, len(unified.Rows))
	deviations := make([]float64, 0, len(unified.Rows))
	for i, row := range unified.Rows {
		m, errM := strconv.ParseFloat(row[cfg.MeasuredColumn], 64)
		n, errN := strconv.ParseFloat(row[cfg.NominalColumn], 64)
		if errM != nil || errN != nil {
			continue
		}
		d := math.Abs(m - n)
		all = append(all, measured{rowIdx: i, deviation: d})
		deviations = append(deviations, d)
	}
	if len(deviations) == 0 {
		return report
	}

	q1 := quantile(deviations, 0.25)
	q3 := quantile(deviations, 0.75)
	iqr := q3 - q1
	report.Stats = DeviationStats{
		Mean: round4(mean(deviations)),
		Std:  round4(sampleStd(deviations)),
		Q1:   round4(q1),
		Q3:   round4(q3),
		IQR:  round4(iqr),
	}
	report.LowerBound = round4(q1 - 1.5*iqr)
	report.UpperBound = round4(q3 + 1.5*iqr)

	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr
	outliers := make([]measured, 0)
	for _, m := range all {
		if m.deviation < lower || m.deviation > upper {
			outliers = append(outliers, m)
			row := unified.Rows[m.rowIdx]
			if machine, ok := row[cfg.MachineColumn]; ok {
				report.ByMachine[machine]++
			}
			if feature, ok := row[cfg.FeatureColumn]; ok {
				report.ByFeature[feature]++
			}
		}
	}

	report.TotalAnomalies = len(outliers)
	report.AnomalyPercent = round2(float64(len(outliers)) / float64(len(all)) * 100)

	sort.SliceStable(outliers, func(i, j int) bool {
		return outliers[i].deviation > outliers[j].deviation
	})
	if len(outliers) > 10 {
		outliers = outliers[:10]
	}
	for _, m := range outliers {
		report.TopAnomalies = append(report.TopAnomalies, AnomalousMeasurement{
			Row:       unified.Rows[m.rowIdx],
			Deviation: round4(m.deviation),
		})
	}
	return report
}

// quantile computes the q-th quantile with linear interpolation between
// closest ranks, the same method pandas and numpy default to.
func quantile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the standard deviation with Bessel's correction (ddof=1),
// matching the pandas default. Fewer than two values gives 0.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

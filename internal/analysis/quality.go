package analysis

import (
	"math"
	"sort"

	"integration-service/internal/dataset"
)

// QualityConfig names the unified-dataset columns the quality metrics are
// computed from. Group-by columns that are absent from the dataset simply
// produce empty groupings.
type QualityConfig struct {
	ResultColumn  string
	PassValue     string
	FailValue     string
	LotColumn     string
	MachineColumn string
	ShiftColumn   string
	PlantColumn   string
}

// DefaultQualityConfig matches the demo manufacturing schema.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		ResultColumn:  "result",
		PassValue:     "pass",
		FailValue:     "fail",
		LotColumn:     "lot_id",
		MachineColumn: "machine_id",
		ShiftColumn:   "shift",
		PlantColumn:   "plant_code",
	}
}

// LotDefects counts failed measurements for one production lot.
type LotDefects struct {
	LotID   string `json:"lot_id"`
	Defects int    `json:"defects"`
}

// QualityMetrics are the descriptive pass/fail statistics over a unified
// dataset, overall and grouped by machine, shift and plant.
type QualityMetrics struct {
	TotalMeasurements int     `json:"total_measurements"`
	Passed            int     `json:"passed_measurements"`
	Failed            int     `json:"failed_measurements"`
	PassRatePercent   float64 `json:"pass_rate_percent"`
	FailRatePercent   float64 `json:"fail_rate_percent"`

	LotsWithDefects int          `json:"lots_with_defects"`
	TotalLots       int          `json:"total_lots"`
	WorstLots       []LotDefects `json:"worst_lots"`

	PassRateByMachine map[string]float64 `json:"pass_rate_by_machine"`
	PassRateByShift   map[string]float64 `json:"pass_rate_by_shift"`
	PassRateByPlant   map[string]float64 `json:"pass_rate_by_plant"`
}

// CalculateQualityMetrics computes pass/fail statistics for the unified
// dataset. It is a pure function: the input is not mutated and an empty table
// yields zero-valued metrics rather than an error.
func CalculateQualityMetrics(unified dataset.Table, cfg QualityConfig) QualityMetrics {
	metrics := QualityMetrics{
		PassRateByMachine: make(map[string]float64),
		PassRateByShift:   make(map[string]float64),
		PassRateByPlant:   make(map[string]float64),
		WorstLots:         make([]LotDefects, 0),
	}

	defectsByLot := make(map[string]int)
	lots := make(map[string]bool)
	for _, row := range unified.Rows {
		metrics.TotalMeasurements++
		result := row[cfg.ResultColumn]
		switch result {
		case cfg.PassValue:
			metrics.Passed++
		case cfg.FailValue:
			metrics.Failed++
		}
		if lot, ok := row[cfg.LotColumn]; ok {
			lots[lot] = true
			if result == cfg.FailValue {
				defectsByLot[lot]++
			}
		}
	}

	if metrics.TotalMeasurements > 0 {
		metrics.PassRatePercent = round2(float64(metrics.Passed) / float64(metrics.TotalMeasurements) * 100)
		metrics.FailRatePercent = round2(float64(metrics.Failed) / float64(metrics.TotalMeasurements) * 100)
	}

	metrics.TotalLots = len(lots)
	metrics.LotsWithDefects = len(defectsByLot)
	for lot, defects := range defectsByLot {
		metrics.WorstLots = append(metrics.WorstLots, LotDefects{LotID: lot, Defects: defects})
	}
	sort.Slice(metrics.WorstLots, func(i, j int) bool {
		if metrics.WorstLots[i].Defects != metrics.WorstLots[j].Defects {
			return metrics.WorstLots[i].Defects > metrics.WorstLots[j].Defects
		}
		return metrics.WorstLots[i].LotID < metrics.WorstLots[j].LotID
	})
	if len(metrics.WorstLots) > 10 {
		metrics.WorstLots = metrics.WorstLots[:10]
	}

	metrics.PassRateByMachine = passRateBy(unified.Rows, cfg.MachineColumn, cfg.ResultColumn, cfg.PassValue)
	metrics.PassRateByShift = passRateBy(unified.Rows, cfg.ShiftColumn, cfg.ResultColumn, cfg.PassValue)
	metrics.PassRateByPlant = passRateBy(unified.Rows, cfg.PlantColumn, cfg.ResultColumn, cfg.PassValue)
	return metrics
}

// passRateBy computes pass percentages grouped by the values of groupColumn.
// Rows missing the group column are skipped.
func passRateBy(rows []dataset.Row, groupColumn, resultColumn, passValue string) map[string]float64 {
	totals := make(map[string]int)
	passed := make(map[string]int)
	for _, row := range rows {
		group, ok := row[groupColumn]
		if !ok {
			continue
		}
		totals[group]++
		if row[resultColumn] == passValue {
			passed[group]++
		}
	}

	rates := make(map[string]float64, len(totals))
	for group, total := range totals {
		rates[group] = round2(float64(passed[group]) / float64(total) * 100)
	}
	return rates
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

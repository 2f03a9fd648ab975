package samplegen

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"integration-service/internal/dataset"
)

// Config controls sample dataset generation. The same Config always produces
// the same pair of tables: generation is seeded and fully deterministic.
type Config struct {
	Seed            int64
	ProductionRows  int
	MeasurementRows int
	Lots            int
}

// DefaultConfig produces a demo-scale dataset pair.
func DefaultConfig() Config {
	return Config{
		Seed:            42,
		ProductionRows:  200,
		MeasurementRows: 600,
		Lots:            40,
	}
}

var (
	machines = []string{"MC-101", "MC-102", "MC-103", "MC-104"}
	shifts   = []string{"morning", "afternoon", "night"}
	plants   = []string{"PLT-A", "PLT-B"}
	features = []string{"bore_diameter", "flange_thickness", "hole_position", "surface_flatness"}
	statuses = []string{"completed", "completed", "completed", "in_progress"}
)

// Generate builds a paired production table (ERP/MES style) and inspection
// table (CMM style) sharing lot IDs, so the pair joins on lot_id and exercises
// the part_id/component_id mapping. Measurements drift around their nominal
// value with occasional gross outliers so anomaly detection has something to
// find.
func Generate(cfg Config) (production, inspection dataset.Table) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	base := time.Date(2024, time.March, 4, 6, 0, 0, 0, time.UTC)

	lotIDs := make([]string, cfg.Lots)
	for i := range lotIDs {
		lotIDs[i] = fmt.Sprintf("LOT-%04d", i+1)
	}

	production = dataset.Table{
		Columns: []string{
			"production_order_id", "part_id", "lot_id", "production_timestamp",
			"quantity", "machine_id", "operator_id", "shift", "plant_code", "status",
		},
		Rows: make([]dataset.Row, 0, cfg.ProductionRows),
	}
	for i := 0; i < cfg.ProductionRows; i++ {
		ts := base.Add(time.Duration(i) * 17 * time.Minute)
		production.Rows = append(production.Rows, dataset.Row{
			"production_order_id":  fmt.Sprintf("PO-%05d", i+1),
			"part_id":              fmt.Sprintf("PART-%04d", rng.Intn(120)+1),
			"lot_id":               lotIDs[rng.Intn(len(lotIDs))],
			"production_timestamp": ts.Format(time.RFC3339),
			"quantity":             strconv.Itoa(rng.Intn(90) + 10),
			"machine_id":           machines[rng.Intn(len(machines))],
			"operator_id":          fmt.Sprintf("OP-%03d", rng.Intn(12)+1),
			"shift":                shifts[rng.Intn(len(shifts))],
			"plant_code":           plants[rng.Intn(len(plants))],
			"status":               statuses[rng.Intn(len(statuses))],
		})
	}

	inspection = dataset.Table{
		Columns: []string{
			"measurement_id", "component_id", "lot_id", "feature_name",
			"nominal_value", "upper_tolerance", "lower_tolerance",
			"measured_value", "measurement_timestamp", "cmm_machine_id",
			"inspector_id", "result",
		},
		Rows: make([]dataset.Row, 0, cfg.MeasurementRows),
	}
	for i := 0; i < cfg.MeasurementRows; i++ {
		nominal := 10 + rng.Float64()*40
		tolerance := 0.05 + rng.Float64()*0.15
		drift := rng.NormFloat64() * tolerance / 2
		if rng.Float64() < 0.04 {
			// occasional gross outlier
			drift = tolerance * (3 + rng.Float64()*4)
			if rng.Intn(2) == 0 {
				drift = -drift
			}
		}
		measured := nominal + drift

		result := "pass"
		if measured > nominal+tolerance || measured < nominal-tolerance {
			result = "fail"
		}

		ts := base.Add(time.Duration(i) * 6 * time.Minute)
		inspection.Rows = append(inspection.Rows, dataset.Row{
			"measurement_id":        fmt.Sprintf("MEAS-%06d", i+1),
			"component_id":          fmt.Sprintf("PART-%04d", rng.Intn(120)+1),
			"lot_id":                lotIDs[rng.Intn(len(lotIDs))],
			"feature_name":          features[rng.Intn(len(features))],
			"nominal_value":         strconv.FormatFloat(round3(nominal), 'f', -1, 64),
			"upper_tolerance":       strconv.FormatFloat(round3(nominal+tolerance), 'f', -1, 64),
			"lower_tolerance":       strconv.FormatFloat(round3(nominal-tolerance), 'f', -1, 64),
			"measured_value":        strconv.FormatFloat(round3(measured), 'f', -1, 64),
			"measurement_timestamp": ts.Format(time.RFC3339),
			"cmm_machine_id":        fmt.Sprintf("CMM-%d", rng.Intn(3)+1),
			"inspector_id":          fmt.Sprintf("INSP-%02d", rng.Intn(6)+1),
			"result":                result,
		})
	}
	return production, inspection
}

func round3(v float64) float64 {
	return float64(int64(v*1000+0.5)) / 1000
}

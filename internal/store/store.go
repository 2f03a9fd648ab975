package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"integration-service/internal/analysis"
	"integration-service/internal/dataset"
	"integration-service/internal/integrate"
	"integration-service/internal/schema"
)

// Run is one dataset pair and everything derived from it. Mapping, Unified,
// Report, Metrics and Anomalies are nil until the corresponding step has run.
type Run struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Production dataset.Table `json:"-"`
	Inspection dataset.Table `json:"-"`

	Mapping   schema.MappingTable      `json:"-"`
	Unified   *dataset.Table           `json:"-"`
	Report    *integrate.Report        `json:"-"`
	Metrics   *analysis.QualityMetrics `json:"-"`
	Anomalies *analysis.AnomalyReport  `json:"-"`
}

// Summary is the list-view projection of a run.
type Summary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	RowsA         int       `json:"rows_a"`
	RowsB         int       `json:"rows_b"`
	Mapped        bool      `json:"mapped"`
	Integrated    bool      `json:"integrated"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store keeps runs in memory. All methods are safe for concurrent use;
// individual runs are replaced wholesale on update, never mutated in place.
type Store struct {
	runs map[string]Run
	mu   sync.RWMutex
}

// NewStore creates and returns a new Store.
func NewStore() *Store {
	return &Store{runs: make(map[string]Run)}
}

// CreateRun registers a new dataset pair and returns the stored run.
func (s *Store) CreateRun(name string, production, inspection dataset.Table) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return Run{}, fmt.Errorf("run name cannot be empty")
	}

	now := time.Now().UTC()
	run := Run{
		ID:         uuid.New().String(),
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
		Production: production,
		Inspection: inspection,
	}
	s.runs[run.ID] = run
	return run, nil
}

// GetRun retrieves a run by its ID.
func (s *Store) GetRun(id string) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	return run, ok
}

// ListRuns returns summaries of all runs, newest first.
func (s *Store) ListRuns() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Summary, 0, len(s.runs))
	for _, run := range s.runs {
		list = append(list, Summary{
			ID:         run.ID,
			Name:       run.Name,
			RowsA:      len(run.Production.Rows),
			RowsB:      len(run.Inspection.Rows),
			Mapped:     run.Mapping != nil,
			Integrated: run.Report != nil,
			CreatedAt:  run.CreatedAt,
			UpdatedAt:  run.UpdatedAt,
		})
	}
	// Map iteration order is random; pin newest-first, ID as tiebreak.
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// DeleteRun removes a run from the store.
func (s *Store) DeleteRun(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return fmt.Errorf("run with ID %s not found", id)
	}
	delete(s.runs, id)
	return nil
}

// SetMapping stores the mapping table computed for a run.
func (s *Store) SetMapping(id string, mapping schema.MappingTable) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return Run{}, fmt.Errorf("run with ID %s not found", id)
	}
	run.Mapping = mapping
	run.UpdatedAt = time.Now().UTC()
	s.runs[id] = run
	return run, nil
}

// SetIntegration stores the unified table, report and derived analytics for a
// run in one step, so readers never observe a half-updated run.
func (s *Store) SetIntegration(id string, unified dataset.Table, report integrate.Report, metrics analysis.QualityMetrics, anomalies analysis.AnomalyReport) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return Run{}, fmt.Errorf("run with ID %s not found", id)
	}
	run.Unified = &unified
	run.Report = &report
	run.Metrics = &metrics
	run.Anomalies = &anomalies
	run.UpdatedAt = time.Now().UTC()
	s.runs[id] = run
	return run, nil
}

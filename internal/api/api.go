package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"integration-service/internal/analysis"
	"integration-service/internal/archive"
	"integration-service/internal/dataset"
	"integration-service/internal/integrate"
	"integration-service/internal/models"
	"integration-service/internal/samplegen"
	"integration-service/internal/schema"
	"integration-service/internal/store"
)

const defaultPreviewLimit = 50

// API provides the HTTP handlers for the integration service. The archive is
// optional; when nil, integration results are kept in memory only.
type API struct {
	store   *store.Store
	mapper  *schema.Mapper
	archive *archive.Archive
}

// NewAPI creates a new API handler.
func NewAPI(st *store.Store, mapper *schema.Mapper, arch *archive.Archive) *API {
	return &API{store: st, mapper: mapper, archive: arch}
}

// RegisterRoutes registers the integration API routes with the given router.
func (a *API) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	runRoutes := v1.Group("/runs")
	{
		runRoutes.POST("/upload", a.createRunFromUploadHandler)
		runRoutes.POST("/sample", a.createSampleRunHandler)
		runRoutes.GET("", a.listRunsHandler)
		runRoutes.GET("/:run_id", a.getRunHandler)
		runRoutes.DELETE("/:run_id", a.deleteRunHandler)

		runRoutes.POST("/:run_id/map", a.mapRunHandler)
		runRoutes.POST("/:run_id/integrate", a.integrateRunHandler)

		runRoutes.GET("/:run_id/structure", a.getStructureHandler)
		runRoutes.GET("/:run_id/mapping", a.getMappingHandler)
		runRoutes.GET("/:run_id/report", a.getReportHandler)
		runRoutes.GET("/:run_id/metrics", a.getMetricsHandler)
		runRoutes.GET("/:run_id/anomalies", a.getAnomaliesHandler)
		runRoutes.GET("/:run_id/unified", a.previewUnifiedHandler)
		runRoutes.GET("/:run_id/unified/export", a.exportUnifiedHandler)
	}

	if a.archive != nil {
		v1.GET("/archive/records", a.listArchiveHandler)
	}
}

// RunDetail is the single-run response: identity plus the schemas of both
// datasets and whichever derived artifacts exist so far.
type RunDetail struct {
	store.Summary
	ProductionColumns []string            `json:"production_columns"`
	InspectionColumns []string            `json:"inspection_columns"`
	Mapping           schema.MappingTable `json:"mapping,omitempty"`
	Report            *integrate.Report   `json:"report,omitempty"`
}

// CreateRunFromUpload godoc
// @Summary Create a run from two uploaded CSV files
// @Description Upload a production CSV and an inspection CSV to create a new integration run.
// @Tags runs
// @Accept  multipart/form-data
// @Produce json
// @Param   production  formData  file    true   "Production dataset (CSV, header row required)"
// @Param   inspection  formData  file    true   "Inspection dataset (CSV, header row required)"
// @Param   name        formData  string  false  "Run name (defaults to the production file name)"
// @Success 201 {object} RunDetail "Created run"
// @Failure 400 {object} models.APIError "Missing file or unparsable CSV"
// @Failure 500 {object} models.APIError "Internal error"
// @Router /runs/upload [post]
func (a *API) createRunFromUploadHandler(c *gin.Context) {
	production, prodName, err := readUploadedTable(c, "production")
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, err.Error(), nil)
		return
	}
	inspection, _, err := readUploadedTable(c, "inspection")
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, err.Error(), nil)
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = prodName
	}

	run, err := a.store.CreateRun(name, production, inspection)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to create run: "+err.Error(), nil)
		return
	}
	log.Printf("Created run %s (%q): %d production rows, %d inspection rows",
		run.ID, run.Name, len(production.Rows), len(inspection.Rows))
	c.JSON(http.StatusCreated, a.runDetail(run))
}

// CreateSampleRun godoc
// @Summary Create a run from generated sample data
// @Description Create a new integration run from deterministic sample manufacturing data.
// @Tags runs
// @Accept  json
// @Produce json
// @Param   options  body  SampleRunRequest  false  "Generation options (all optional)"
// @Success 201 {object} RunDetail "Created run"
// @Failure 400 {object} models.APIError "Invalid options payload"
// @Router /runs/sample [post]
func (a *API) createSampleRunHandler(c *gin.Context) {
	req := SampleRunRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid options payload: "+err.Error(), nil)
			return
		}
	}

	cfg := samplegen.DefaultConfig()
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	if req.ProductionRows != nil {
		cfg.ProductionRows = *req.ProductionRows
	}
	if req.MeasurementRows != nil {
		cfg.MeasurementRows = *req.MeasurementRows
	}
	if req.Lots != nil {
		cfg.Lots = *req.Lots
	}

	production, inspection := samplegen.Generate(cfg)
	name := req.Name
	if name == "" {
		name = "sample-data"
	}

	run, err := a.store.CreateRun(name, production, inspection)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to create run: "+err.Error(), nil)
		return
	}
	log.Printf("Created sample run %s (seed %d)", run.ID, cfg.Seed)
	c.JSON(http.StatusCreated, a.runDetail(run))
}

// SampleRunRequest are the optional knobs for sample data generation.
type SampleRunRequest struct {
	Name            string `json:"name"`
	Seed            *int64 `json:"seed"`
	ProductionRows  *int   `json:"production_rows"`
	MeasurementRows *int   `json:"measurement_rows"`
	Lots            *int   `json:"lots"`
}

// ListRuns godoc
// @Summary List all runs
// @Tags runs
// @Produce json
// @Success 200 {array} store.Summary
// @Router /runs [get]
func (a *API) listRunsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.store.ListRuns())
}

// GetRun godoc
// @Summary Get one run
// @Tags runs
// @Produce json
// @Param   run_id  path  string  true  "Run ID"
// @Success 200 {object} RunDetail
// @Failure 404 {object} models.APIError "Run not found"
// @Router /runs/{run_id} [get]
func (a *API) getRunHandler(c *gin.Context) {
	run, ok := a.store.GetRun(c.Param("run_id"))
	if !ok {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeRunNotFound, "Run not found", nil)
		return
	}
	c.JSON(http.StatusOK, a.runDetail(run))
}

// DeleteRun godoc
// @Summary Delete a run
// @Tags runs
// @Param   run_id  path  string  true  "Run ID"
// @Success 204 "Deleted"
// @Failure 404 {object} models.APIError "Run not found"
// @Router /runs/{run_id} [delete]
func (a *API) deleteRunHandler(c *gin.Context) {
	if err := a.store.DeleteRun(c.Param("run_id")); err != nil {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeRunNotFound, "Run not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// MapRun godoc
// @Summary Discover the column mapping for a run
// @Description Computes the schema mapping between the production and inspection columns using description similarity.
// @Tags mapping
// @Produce json
// @Param   run_id  path  string  true  "Run ID"
// @Success 200 {array} schema.MappingEntry
// @Failure 404 {object} models.APIError "Run not found"
// @Failure 422 {object} models.APIError "Schema error (empty or duplicate columns)"
// @Router /runs/{run_id}/map [post]
func (a *API) mapRunHandler(c *gin.Context) {
	run, ok := a.store.GetRun(c.Param("run_id"))
	if !ok {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeRunNotFound, "Run not found", nil)
		return
	}

	mapping, err := a.mapper.MapSchemas(run.Production.Columns, run.Inspection.Columns)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if _, err := a.store.SetMapping(run.ID, mapping); err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to store mapping: "+err.Error(), nil)
		return
	}
	log.Printf("Mapped run %s: %d entries, %d accepted", run.ID, len(mapping), len(mapping.Accepted()))
	c.JSON(http.StatusOK, mapping)
}

// IntegrateRun godoc
// @Summary Integrate the two datasets of a run
// @Description Joins the datasets on the discovered key, computes quality metrics and anomaly statistics, and archives a summary when an archive is configured. Runs the mapper first when no mapping exists yet.
// @Tags integration
// @Produce json
// @Param   run_id  path  string  true  "Run ID"
// @Success 200 {object} integrate.Report
// @Failure 404 {object} models.APIError "Run not found"
// @Failure 422 {object} models.APIError "Schema or integration error (no viable join key, key column missing)"
// @Router /runs/{run_id}/integrate [post]
func (a *API) integrateRunHandler(c *gin.Context) {
	run, ok := a.store.GetRun(c.Param("run_id"))
	if !ok {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeRunNotFound, "Run not found", nil)
		return
	}

	mapping := run.Mapping
	if mapping == nil {
		var err error
		mapping, err = a.mapper.MapSchemas(run.Production.Columns, run.Inspection.Columns)
		if err != nil {
			respondEngineError(c, err)
			return
		}
		if _, err := a.store.SetMapping(run.ID, mapping); err != nil {
			RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to store mapping: "+err.Error(), nil)
			return
		}
	}

	unified, report, err := integrate.Integrate(run.Production, run.Inspection, mapping)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	metrics := analysis.CalculateQualityMetrics(unified, analysis.DefaultQualityConfig())
	anomalies := analysis.DetectAnomalies(unified, analysis.DefaultAnomalyConfig())

	if _, err := a.store.SetIntegration(run.ID, unified, report, metrics, anomalies); err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to store integration result: "+err.Error(), nil)
		return
	}
	log.Printf("Integrated run %s: %d/%d/%d rows unified on %s<->%s (rate %.3f)",
		run.ID, report.RowsA, report.RowsB, report.RowsUnified,
		report.JoinKeySource, report.JoinKeyTarget, report.IntegrationRate)

	a.archiveRun(run, mapping, report, metrics, anomalies)
	c.JSON(http.StatusOK, report)
}

// archiveRun persists a run summary when an archive is configured. Archiving
// is best effort: failures are logged, the integrate call itself still
// succeeds.
func (a *API) archiveRun(run store.Run, mapping schema.MappingTable, report integrate.Report, metrics analysis.QualityMetrics, anomalies analysis.AnomalyReport) {
	if a.archive == nil {
		return
	}
	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		log.Printf("Failed to marshal mapping for archive (run %s): %v", run.ID, err)
		return
	}
	record := archive.IntegrationRecord{
		RunID:           run.ID,
		RunName:         run.Name,
		RowsA:           report.RowsA,
		RowsB:           report.RowsB,
		RowsUnified:     report.RowsUnified,
		UnmatchedA:      report.UnmatchedA,
		UnmatchedB:      report.UnmatchedB,
		JoinKeySource:   report.JoinKeySource,
		JoinKeyTarget:   report.JoinKeyTarget,
		JoinKeyScore:    report.JoinKeyScore,
		IntegrationRate: report.IntegrationRate,
		PassRatePercent: metrics.PassRatePercent,
		TotalAnomalies:  anomalies.TotalAnomalies,
		MappingJSON:     string(mappingJSON),
	}
	if err := a.archive.Save(record); err != nil {
		log.Printf("Failed to archive integration record for run %s: %v", run.ID, err)
	}
}

// RunStructure profiles the structure of every dataset a run holds. Unified
// is present only once the run has been integrated.
type RunStructure struct {
	Production analysis.StructureProfile  `json:"production"`
	Inspection analysis.StructureProfile  `json:"inspection"`
	Unified    *analysis.StructureProfile `json:"unified,omitempty"`
}

// GetStructure godoc
// @Summary Analyze the data structure of a run
// @Description Profiles both datasets column by column: inferred value type, empty-value count and distinct-value count. Includes the unified dataset once the run has been integrated.
// @Tags analytics
// @Produce json
// @Param   run_id  path  string  true  "Run ID"
// @Success 200 {object} RunStructure
// @Failure 404 {object} models.APIError "Run not found"
// @Router /runs/{run_id}/structure [get]
func (a *API) getStructureHandler(c *gin.Context) {
	run, ok := a.store.GetRun(c.Param("run_id"))
	if !ok {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeRunNotFound, "Run not found", nil)
		return
	}

	structure := RunStructure{
		Production: analysis.ProfileStructure(run.Production),
		Inspection: analysis.ProfileStructure(run.Inspection),
	}
	if run.Unified != nil {
		unified := analysis.ProfileStructure(*run.Unified)
		structure.Unified = &unified
	}
	c.JSON(http.StatusOK, structure)
}

// GetMapping godoc
// @Summary Get the stored mapping table of a run
// @Tags mapping
// @Produce json
// @Param   run_id  path  string  true  "Run ID"
// @Success 200 {array} schema.MappingEntry
// @Failure 404 {object} models.APIError "Run not found"
// @Failure 409 {object} models.APIError "Mapping not computed yet"
// @Router /runs/{run_id}/mapping [get]
func (a *API) getMappingHandler(c *gin.Context) {
	run, ok := a.store.GetRun(c.Param("run_id"))
	if !ok {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeRunNotFound, "Run not found", nil)
		return
	}
	if run.Mapping == nil {
		RespondWithError(c, http.StatusConflict, models.ErrorCodeNotReady, "Mapping not computed yet; POST to /map first", nil)
		return
	}
	c.JSON(http.StatusOK, run.Mapping)
}

// GetReport godoc
// @Summary Get the integration report of a run
// @Tags integration
// @Produce json
// @Param   run_id  path  string  true  "Run ID"
// @Success 200 {object} integrate.Report
// @Failure 404 {object} models.APIError "Run not found"
// @Failure 409 {object} models.APIError "Integration not run yet"
// @Router /runs/{run_id}/report [get]
func (a *API) getReportHandler(c *gin.Context) {
	run, ok := a.store.GetRun(c.Param("run_id"))
	if !ok {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeRunNotFound, "Run not found", nil)
		return
	}
	if run.Report == nil {
		RespondWithError(c, http.StatusConflict, models.ErrorCodeNotReady, "Integration not run yet; POST to /integrate first", nil)
		return
	}
	c.JSON(http.StatusOK, run.Report)
}

// GetMetrics godoc
// @Summary Get quality metrics of a run
// @Tags analytics
// @Produce json
// @Param   run_id  path  string  true  "Run ID"
// @Success 200 {object} analysis.QualityMetrics
// @Failure 404 {object} models.APIError "Run not found"
// @Failure 409 {object} models.APIError "Integration not run yet"
// @Router /runs/{run_id}/metrics [get]
func (a *API) getMetricsHandler(c *gin.Context) {
	run, ok := a.store.GetRun(c.Param("run_id"))
	if !ok {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeRunNotFound, "Run not found", nil)
		return
	}
	if run.Metrics == nil {
		RespondWithError(c, http.StatusConflict, models.ErrorCodeNotReady, "Integration not run yet; POST to /integrate first", nil)
		return
	}
	c.JSON(http.StatusOK, run.Metrics)
}

// GetAnomalies godoc
// @Summary Get anomaly detection results of a run
// @Tags analytics
// @Produce json
// @Param   run_id  path  string  true  "Run ID"
// @Success 200 {object} analysis.AnomalyReport
// @Failure 404 {object} models.APIError "Run not found"
// @Failure 409 {object} models.APIError "Integration not run yet"
// @Router /runs/{run_id}/anomalies [get]
func (a *API) getAnomaliesHandler(c *gin.Context) {
	run, ok := a.store.GetRun(c.Param("run_id"))
	if !ok {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeRunNotFound, "Run not found", nil)
		return
	}
	if run.Anomalies == nil {
		RespondWithError(c, http.StatusConflict, models.ErrorCodeNotReady, "Integration not run yet; POST to /integrate first", nil)
		return
	}
	c.JSON(http.StatusOK, run.Anomalies)
}

// PreviewUnified godoc
// @Summary Preview the unified dataset of a run
// @Tags integration
// @Produce json
// @Param   run_id  path   string  true   "Run ID"
// @Param   limit   query  int     false  "Maximum rows to return (default 50)"
// @Success 200 {object} dataset.Table
// @Failure 404 {object} models.APIError "Run not found"
// @Failure 409 {object} models.APIError "Integration not run yet"
// @Router /runs/{run_id}/unified [get]
func (a *API) previewUnifiedHandler(c *gin.Context) {
	run, ok := a.store.GetRun(c.Param("run_id"))
	if !ok {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeRunNotFound, "Run not found", nil)
		return
	}
	if run.Unified == nil {
		RespondWithError(c, http.StatusConflict, models.ErrorCodeNotReady, "Integration not run yet; POST to /integrate first", nil)
		return
	}

	limit := defaultPreviewLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "limit must be a non-negative integer", gin.H{"limit": raw})
			return
		}
		limit = parsed
	}
	c.JSON(http.StatusOK, run.Unified.Head(limit))
}

// ExportUnified godoc
// @Summary Download the unified dataset of a run as CSV
// @Tags integration
// @Produce text/csv
// @Param   run_id  path  string  true  "Run ID"
// @Success 200 {string} string "CSV content"
// @Failure 404 {object} models.APIError "Run not found"
// @Failure 409 {object} models.APIError "Integration not run yet"
// @Router /runs/{run_id}/unified/export [get]
func (a *API) exportUnifiedHandler(c *gin.Context) {
	run, ok := a.store.GetRun(c.Param("run_id"))
	if !ok {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeRunNotFound, "Run not found", nil)
		return
	}
	if run.Unified == nil {
		RespondWithError(c, http.StatusConflict, models.ErrorCodeNotReady, "Integration not run yet; POST to /integrate first", nil)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "unified_"+run.ID+".csv"))
	if err := run.Unified.WriteCSV(c.Writer); err != nil {
		log.Printf("Failed to stream unified CSV for run %s: %v", run.ID, err)
	}
}

// ListArchive godoc
// @Summary List archived integration records
// @Tags archive
// @Produce json
// @Param   limit  query  int  false  "Maximum records to return (default 50)"
// @Success 200 {array} archive.IntegrationRecord
// @Failure 400 {object} models.APIError "Invalid limit"
// @Failure 500 {object} models.APIError "Archive query failed"
// @Router /archive/records [get]
func (a *API) listArchiveHandler(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "limit must be a non-negative integer", gin.H{"limit": raw})
			return
		}
		limit = parsed
	}
	records, err := a.archive.List(limit)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to list archive records: "+err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (a *API) runDetail(run store.Run) RunDetail {
	detail := RunDetail{
		Summary: store.Summary{
			ID:         run.ID,
			Name:       run.Name,
			RowsA:      len(run.Production.Rows),
			RowsB:      len(run.Inspection.Rows),
			Mapped:     run.Mapping != nil,
			Integrated: run.Report != nil,
			CreatedAt:  run.CreatedAt,
			UpdatedAt:  run.UpdatedAt,
		},
		ProductionColumns: run.Production.Columns,
		InspectionColumns: run.Inspection.Columns,
		Mapping:           run.Mapping,
		Report:            run.Report,
	}
	return detail
}

// respondEngineError translates the engine's typed errors into API responses:
// schema and integration failures are the caller's data problem (422),
// anything else is a server fault.
func respondEngineError(c *gin.Context, err error) {
	var schemaErr *schema.SchemaError
	if errors.As(err, &schemaErr) {
		RespondWithError(c, http.StatusUnprocessableEntity, models.ErrorCodeSchemaError, schemaErr.Error(), nil)
		return
	}
	var integrationErr *integrate.IntegrationError
	if errors.As(err, &integrationErr) {
		RespondWithError(c, http.StatusUnprocessableEntity, models.ErrorCodeIntegrationError, integrationErr.Error(), nil)
		return
	}
	RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, err.Error(), nil)
}

// readUploadedTable pulls one CSV file out of the multipart form and parses
// it.
func readUploadedTable(c *gin.Context, field string) (dataset.Table, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return dataset.Table{}, "", fmt.Errorf("missing %q file: %w", field, err)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return dataset.Table{}, "", fmt.Errorf("failed to open %q file: %w", field, err)
	}
	defer file.Close()

	table, err := dataset.ReadCSV(file)
	if err != nil {
		return dataset.Table{}, "", fmt.Errorf("failed to parse %q file: %w", field, err)
	}
	return table, fileHeader.Filename, nil
}

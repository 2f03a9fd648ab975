package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"integration-service/internal/analysis"
	"integration-service/internal/archive"
	"integration-service/internal/integrate"
	"integration-service/internal/models"
	"integration-service/internal/schema"
	"integration-service/internal/store"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := NewAPI(store.NewStore(), schema.NewMapper(schema.DefaultVocabulary()), nil)
	api.RegisterRoutes(router)
	return router
}

func multipartUpload(t *testing.T, productionCSV, inspectionCSV, name string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("production", "production.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(productionCSV))
	require.NoError(t, err)

	part, err = writer.CreateFormFile("inspection", "inspection.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(inspectionCSV))
	require.NoError(t, err)

	if name != "" {
		require.NoError(t, writer.WriteField("name", name))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func createUploadRun(t *testing.T, router *gin.Engine, productionCSV, inspectionCSV string) RunDetail {
	t.Helper()
	body, contentType := multipartUpload(t, productionCSV, inspectionCSV, "test-run")
	req, _ := http.NewRequest("POST", "/api/v1/runs/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var detail RunDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	return detail
}

const (
	productionCSV = "part_id,qty\n1,10\n2,5\n"
	inspectionCSV = "component_id,result\n1,pass\n3,fail\n"
)

func TestCreateRunFromUpload(t *testing.T) {
	router := setupRouter()
	detail := createUploadRun(t, router, productionCSV, inspectionCSV)

	assert.NotEmpty(t, detail.ID)
	assert.Equal(t, "test-run", detail.Name)
	assert.Equal(t, 2, detail.RowsA)
	assert.Equal(t, 2, detail.RowsB)
	assert.Equal(t, []string{"part_id", "qty"}, detail.ProductionColumns)
	assert.Equal(t, []string{"component_id", "result"}, detail.InspectionColumns)
	assert.False(t, detail.Mapped)
	assert.False(t, detail.Integrated)
}

func TestCreateRunFromUploadMissingFile(t *testing.T) {
	router := setupRouter()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", "/api/v1/runs/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, models.ErrorCodeValidation, apiErr.Code)
}

func TestCreateSampleRun(t *testing.T) {
	router := setupRouter()

	payload := `{"name":"demo","seed":7,"production_rows":20,"measurement_rows":30,"lots":5}`
	req, _ := http.NewRequest("POST", "/api/v1/runs/sample", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var detail RunDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "demo", detail.Name)
	assert.Equal(t, 20, detail.RowsA)
	assert.Equal(t, 30, detail.RowsB)
	assert.Contains(t, detail.ProductionColumns, "lot_id")
}

func TestCreateSampleRunDefaults(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest("POST", "/api/v1/runs/sample", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var detail RunDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "sample-data", detail.Name)
	assert.Equal(t, 200, detail.RowsA)
	assert.Equal(t, 600, detail.RowsB)
}

func TestListRuns(t *testing.T) {
	router := setupRouter()
	createUploadRun(t, router, productionCSV, inspectionCSV)
	createUploadRun(t, router, productionCSV, inspectionCSV)

	req, _ := http.NewRequest("GET", "/api/v1/runs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var list []store.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestGetRunNotFound(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest("GET", "/api/v1/runs/no-such-run", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, models.ErrorCodeRunNotFound, apiErr.Code)
}

func TestDeleteRun(t *testing.T) {
	router := setupRouter()
	detail := createUploadRun(t, router, productionCSV, inspectionCSV)

	req, _ := http.NewRequest("DELETE", "/api/v1/runs/"+detail.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req, _ = http.NewRequest("DELETE", "/api/v1/runs/"+detail.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMapRun(t *testing.T) {
	router := setupRouter()
	detail := createUploadRun(t, router, productionCSV, inspectionCSV)

	req, _ := http.NewRequest("POST", "/api/v1/runs/"+detail.ID+"/map", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var mapping schema.MappingTable
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mapping))
	require.Len(t, mapping, 2)

	bySource := make(map[string]schema.MappingEntry)
	for _, entry := range mapping {
		bySource[entry.Source] = entry
	}
	partEntry := bySource["part_id"]
	assert.Equal(t, "component_id", partEntry.Target)
	assert.True(t, partEntry.Accepted)
	assert.InDelta(t, 1.0, partEntry.Score, 1e-9)
}

func TestMapRunDuplicateColumnsIsUnprocessable(t *testing.T) {
	router := setupRouter()
	detail := createUploadRun(t, router, "part_id,part_id\n1,2\n", inspectionCSV)

	req, _ := http.NewRequest("POST", "/api/v1/runs/"+detail.ID+"/map", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, models.ErrorCodeSchemaError, apiErr.Code)
	assert.Contains(t, apiErr.Message, "duplicate")
}

func TestIntegrateRunFullFlow(t *testing.T) {
	router := setupRouter()
	detail := createUploadRun(t, router, productionCSV, inspectionCSV)

	// Integrate without an explicit /map call: the mapping is computed on
	// demand.
	req, _ := http.NewRequest("POST", "/api/v1/runs/"+detail.ID+"/integrate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report integrate.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.RowsA)
	assert.Equal(t, 2, report.RowsB)
	assert.Equal(t, 1, report.RowsUnified)
	assert.Equal(t, 1, report.UnmatchedA)
	assert.Equal(t, 1, report.UnmatchedB)
	assert.Equal(t, "part_id", report.JoinKeySource)
	assert.Equal(t, "component_id", report.JoinKeyTarget)
	assert.InDelta(t, 0.5, report.IntegrationRate, 1e-9)

	t.Run("Report Endpoint", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/runs/"+detail.ID+"/report", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var stored integrate.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
		assert.Equal(t, report, stored)
	})

	t.Run("Metrics Endpoint", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/runs/"+detail.ID+"/metrics", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var metrics analysis.QualityMetrics
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metrics))
		assert.Equal(t, 1, metrics.TotalMeasurements)
		assert.Equal(t, 1, metrics.Passed)
		assert.Equal(t, 100.0, metrics.PassRatePercent)
	})

	t.Run("Anomalies Endpoint", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/runs/"+detail.ID+"/anomalies", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var anomalies analysis.AnomalyReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &anomalies))
		assert.Equal(t, 0, anomalies.TotalAnomalies)
	})

	t.Run("Unified Preview", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/runs/"+detail.ID+"/unified", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var unified struct {
			Columns []string            `json:"columns"`
			Rows    []map[string]string `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unified))
		require.Len(t, unified.Rows, 1)
		assert.Equal(t, "1", unified.Rows[0]["part_id"])
		assert.Equal(t, "pass", unified.Rows[0]["result"])
	})

	t.Run("Unified Export", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/runs/"+detail.ID+"/unified/export", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, w.Body.String(), "part_id")
		assert.Contains(t, w.Body.String(), "pass")
	})

	t.Run("Run Detail Shows Progress", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/runs/"+detail.ID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var updated RunDetail
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.True(t, updated.Mapped)
		assert.True(t, updated.Integrated)
		require.NotNil(t, updated.Report)
		assert.Equal(t, report.RowsUnified, updated.Report.RowsUnified)
	})
}

func TestIntegrateRunNoViableJoinKey(t *testing.T) {
	router := setupRouter()
	// Column pairs whose descriptions share no terms: every score stays below
	// the acceptance threshold, so no join key can be selected.
	detail := createUploadRun(t, router, "quantity\n10\n", "surface_flatness\n0.02\n")

	req, _ := http.NewRequest("POST", "/api/v1/runs/"+detail.ID+"/integrate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, models.ErrorCodeIntegrationError, apiErr.Code)
	assert.Contains(t, apiErr.Message, "no viable join key")
}

func TestArtifactEndpointsBeforeIntegration(t *testing.T) {
	router := setupRouter()
	detail := createUploadRun(t, router, productionCSV, inspectionCSV)

	for _, path := range []string{"/mapping", "/report", "/metrics", "/anomalies", "/unified", "/unified/export"} {
		req, _ := http.NewRequest("GET", "/api/v1/runs/"+detail.ID+path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code, "endpoint %s must report not-ready", path)
		var apiErr models.APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
		assert.Equal(t, models.ErrorCodeNotReady, apiErr.Code)
	}
}

func TestGetStructure(t *testing.T) {
	router := setupRouter()
	detail := createUploadRun(t, router, productionCSV, inspectionCSV)

	t.Run("Before Integration", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/runs/"+detail.ID+"/structure", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var structure RunStructure
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &structure))
		assert.Equal(t, 2, structure.Production.RowCount)
		assert.Equal(t, 2, structure.Production.ColumnCount)
		require.Len(t, structure.Production.Columns, 2)
		assert.Equal(t, "part_id", structure.Production.Columns[0].Name)
		assert.Equal(t, "numeric", structure.Production.Columns[0].Type)
		assert.Equal(t, 2, structure.Production.Columns[0].UniqueCount)
		assert.Equal(t, "result", structure.Inspection.Columns[1].Name)
		assert.Equal(t, "text", structure.Inspection.Columns[1].Type)
		assert.Nil(t, structure.Unified, "no unified profile before integration")
	})

	req, _ := http.NewRequest("POST", "/api/v1/runs/"+detail.ID+"/integrate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("After Integration", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/runs/"+detail.ID+"/structure", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var structure RunStructure
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &structure))
		require.NotNil(t, structure.Unified)
		assert.Equal(t, 1, structure.Unified.RowCount)
		assert.Equal(t, 4, structure.Unified.ColumnCount)
	})

	t.Run("Unknown Run", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/runs/no-such-run/structure", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPreviewUnifiedLimit(t *testing.T) {
	router := setupRouter()
	detail := createUploadRun(t, router,
		"part_id\n1\n2\n3\n",
		"component_id\n1\n2\n3\n",
	)

	req, _ := http.NewRequest("POST", "/api/v1/runs/"+detail.ID+"/integrate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("Applies Limit", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/runs/"+detail.ID+"/unified?limit=2", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var unified struct {
			Rows []map[string]string `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unified))
		assert.Len(t, unified.Rows, 2)
	})

	t.Run("Rejects Bad Limit", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/runs/"+detail.ID+"/unified?limit=nope", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListArchiveRecords(t *testing.T) {
	gin.SetMode(gin.TestMode)
	arch, err := archive.Open(archive.Config{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "archive.db"),
	})
	require.NoError(t, err)

	router := gin.New()
	api := NewAPI(store.NewStore(), schema.NewMapper(schema.DefaultVocabulary()), arch)
	api.RegisterRoutes(router)

	detail := createUploadRun(t, router, productionCSV, inspectionCSV)
	req, _ := http.NewRequest("POST", "/api/v1/runs/"+detail.ID+"/integrate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("Lists Records", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/archive/records", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var records []archive.IntegrationRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, detail.ID, records[0].RunID)
		assert.Equal(t, 1, records[0].RowsUnified)
	})

	t.Run("Rejects Bad Limit", func(t *testing.T) {
		for _, raw := range []string{"abc", "-1"} {
			req, _ := http.NewRequest("GET", "/api/v1/archive/records?limit="+raw, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, "limit %q must be rejected", raw)
			var apiErr models.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Equal(t, models.ErrorCodeValidation, apiErr.Code)
		}
	})

	t.Run("Applies Limit", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/archive/records?limit=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var records []archive.IntegrationRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		assert.Len(t, records, 1)
	})
}

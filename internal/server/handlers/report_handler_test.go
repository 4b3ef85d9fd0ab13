package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comtec/field-reports/internal/domain/models"
)

type fakeReportService struct {
	archived []models.ReportSubmission
	record   *models.ReportRecord
	err      error

	listLimit int64
	listErr   error
}

func (f *fakeReportService) Archive(_ context.Context, sub models.ReportSubmission) (*models.ReportRecord, error) {
	f.archived = append(f.archived, sub)
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakeReportService) List(_ context.Context, limit int64) ([]models.ReportRecord, error) {
	f.listLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return nil, nil
}

func newTestRouter(svc *fakeReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(svc, nil)
	r := gin.New()
	r.POST("/enviar-reporte", handler.Submit)
	r.GET("/reportes", handler.List)
	return r
}

func submissionBody(t *testing.T, fields map[string]string, photoNames []string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, name := range photoNames {
		part, err := writer.CreateFormFile("fotos", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"supervisor":   "A. Pérez",
		"actividad":    "Inspection",
		"fecha":        "2024-03-02T00:00:00Z",
		"proyecto":     "Site 4",
		"tareas":       "Checked panels",
		"dificultades": "None",
		"tecnicos":     `["J. Lopez","M. Ruiz"]`,
		"asistencia":   `["J. Lopez"]`,
	}
}

func TestReportHandlerSubmit(t *testing.T) {
	t.Run("success echoes photo and pdf locators", func(t *testing.T) {
		svc := &fakeReportService{record: &models.ReportRecord{
			PhotoURLs: []string{"url-1", "url-2"},
			PDFURL:    "pdf-url",
		}}
		router := newTestRouter(svc)

		body, contentType := submissionBody(t, validFields(), []string{"photo1.jpg", "photo2.jpg"})
		req := httptest.NewRequest(http.MethodPost, "/enviar-reporte", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			OK      bool     `json:"ok"`
			Mensaje string   `json:"mensaje"`
			Fotos   []string `json:"fotos"`
			PDF     string   `json:"pdf"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.NotEmpty(t, resp.Mensaje)
		assert.Equal(t, []string{"url-1", "url-2"}, resp.Fotos)
		assert.Equal(t, "pdf-url", resp.PDF)

		require.Len(t, svc.archived, 1)
		assert.Equal(t, "2024-03-02", svc.archived[0].Date)
		require.Len(t, svc.archived[0].Photos, 2)
	})

	t.Run("malformed tecnicos fails before the service is called", func(t *testing.T) {
		svc := &fakeReportService{}
		router := newTestRouter(svc)

		fields := validFields()
		fields["tecnicos"] = "not json"
		body, contentType := submissionBody(t, fields, nil)
		req := httptest.NewRequest(http.MethodPost, "/enviar-reporte", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, svc.archived)

		var resp struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.OK)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("service failure yields a single error payload", func(t *testing.T) {
		svc := &fakeReportService{err: errors.New("drive unavailable")}
		router := newTestRouter(svc)

		body, contentType := submissionBody(t, validFields(), []string{"photo1.jpg"})
		req := httptest.NewRequest(http.MethodPost, "/enviar-reporte", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "drive unavailable")
	})

	t.Run("non-multipart body fails", func(t *testing.T) {
		svc := &fakeReportService{}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/enviar-reporte", bytes.NewBufferString(`{"supervisor":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, svc.archived)
	})
}

func TestReportHandlerList(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		svc := &fakeReportService{}
		router := newTestRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reportes", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(defaultListLimit), svc.listLimit)
	})

	t.Run("limit is capped", func(t *testing.T) {
		svc := &fakeReportService{}
		router := newTestRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reportes?limit=9999", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(maxListLimit), svc.listLimit)
	})

	t.Run("invalid limit is rejected", func(t *testing.T) {
		svc := &fakeReportService{}
		router := newTestRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reportes?limit=zero", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list failure", func(t *testing.T) {
		svc := &fakeReportService{listErr: errors.New("mongo down")}
		router := newTestRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reportes", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

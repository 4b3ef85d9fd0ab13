package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comtec/field-reports/internal/domain/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ReportService describes the operations the HTTP layer can perform.
type ReportService interface {
	Archive(ctx context.Context, sub models.ReportSubmission) (*models.ReportRecord, error)
	List(ctx context.Context, limit int64) ([]models.ReportRecord, error)
}

// ReportHandler handles report submission and listing HTTP requests.
type ReportHandler struct {
	svc    ReportService
	logger *zap.Logger
	now    func() time.Time
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger, now: time.Now}
}

// Submit ingests one multipart daily report, archives it and replies with
// the issued asset locators. Every failure yields a single 500 payload; the
// caller never sees partial progress.
func (h *ReportHandler) Submit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.fail(c, err)
		return
	}

	sub, err := models.ParseSubmission(form, h.now())
	if err != nil {
		h.fail(c, err)
		return
	}

	record, err := h.svc.Archive(c.Request.Context(), sub)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"mensaje": "Reporte recibido y guardado correctamente",
		"fotos":   record.PhotoURLs,
		"pdf":     record.PDFURL,
	})
}

// List returns the most recent reports.
func (h *ReportHandler) List(c *gin.Context) {
	limit := int64(defaultListLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "limit must be a positive integer"})
			return
		}
		limit = min(parsed, maxListLimit)
	}

	records, err := h.svc.List(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	if records == nil {
		records = []models.ReportRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "reportes": records})
}

func (h *ReportHandler) fail(c *gin.Context, err error) {
	h.logger.Error("failed processing report", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/comtec/field-reports/internal/domain/models"
	"github.com/comtec/field-reports/internal/repository/drive"
	"github.com/comtec/field-reports/internal/repository/mongodb"
	"github.com/comtec/field-reports/pkg/clients/notify"
)

// Service orchestrates the archival of one daily report: folder resolution,
// sequential photo uploads, document rendering and upload, and record
// persistence. Any failure aborts the remaining steps; uploads that already
// happened are left in place and no record is written.
type Service struct {
	archive      drive.Repository
	records      mongodb.Repository
	renderer     Renderer
	notifier     notify.Client
	rootFolderID string
	logger       *zap.Logger
	now          func() time.Time
}

// NewService constructs the submission orchestrator. notifier may be nil.
func NewService(archive drive.Repository, records mongodb.Repository, renderer Renderer, notifier notify.Client, rootFolderID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		archive:      archive,
		records:      records,
		renderer:     renderer,
		notifier:     notifier,
		rootFolderID: rootFolderID,
		logger:       logger,
		now:          time.Now,
	}
}

// Archive runs the submission workflow and returns the persisted record.
func (s *Service) Archive(ctx context.Context, sub models.ReportSubmission) (*models.ReportRecord, error) {
	folderID, err := s.archive.EnsureFolder(ctx, s.rootFolderID, sub.Date)
	if err != nil {
		return nil, fmt.Errorf("resolve date folder %s: %w", sub.Date, err)
	}

	photoURLs := make([]string, 0, len(sub.Photos))
	for i, photo := range sub.Photos {
		name := fmt.Sprintf("%d_%s", s.now().UnixMilli(), photo.Name)
		asset, err := s.archive.UploadFile(ctx, folderID, name, photo.ContentType, drive.BytesContent(photo.Data))
		if err != nil {
			return nil, fmt.Errorf("upload photo %d of %d: %w", i+1, len(sub.Photos), err)
		}
		photoURLs = append(photoURLs, asset.Locator())
	}

	pdfAsset, err := s.renderAndUpload(ctx, sub, folderID)
	if err != nil {
		return nil, err
	}

	record := models.ReportRecord{
		Supervisor:   sub.Supervisor,
		Activity:     sub.Activity,
		Date:         sub.Date,
		Project:      sub.Project,
		Tasks:        sub.Tasks,
		Difficulties: sub.Difficulties,
		Technicians:  sub.Technicians,
		Attendance:   sub.Attendance,
		PhotoURLs:    photoURLs,
		PDFURL:       pdfAsset.Locator(),
		CreatedAt:    s.now().UTC(),
	}

	id, err := s.records.AppendReport(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("persist report record: %w", err)
	}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		record.ID = oid
	}

	s.logger.Info("report archived",
		zap.String("record_id", id),
		zap.String("fecha", sub.Date),
		zap.String("proyecto", sub.Project),
		zap.Int("fotos", len(photoURLs)))

	s.sendNotice(ctx, record)

	return &record, nil
}

// List returns the most recent persisted reports.
func (s *Service) List(ctx context.Context, limit int64) ([]models.ReportRecord, error) {
	return s.records.ListReports(ctx, limit)
}

// EnsureDateFolder resolves or creates the folder for the given day. Used by
// the scheduler to warm up today's folder ahead of traffic.
func (s *Service) EnsureDateFolder(ctx context.Context, date string) (string, error) {
	return s.archive.EnsureFolder(ctx, s.rootFolderID, date)
}

// renderAndUpload writes the PDF to a temp file, streams it to the archive
// and removes the file on every exit path.
func (s *Service) renderAndUpload(ctx context.Context, sub models.ReportSubmission, folderID string) (models.StoredAsset, error) {
	tmp, err := os.CreateTemp("", "reporte_*.pdf")
	if err != nil {
		return models.StoredAsset{}, fmt.Errorf("create temp pdf: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer func() {
		if err := os.Remove(path); err != nil {
			s.logger.Warn("failed to remove temp pdf", zap.String("path", path), zap.Error(err))
		}
	}()

	if err := s.renderer.RenderToFile(sub, path); err != nil {
		return models.StoredAsset{}, fmt.Errorf("render report pdf: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return models.StoredAsset{}, fmt.Errorf("open rendered pdf: %w", err)
	}
	defer file.Close()

	name := fmt.Sprintf("Reporte_%s.pdf", sub.Date)
	asset, err := s.archive.UploadFile(ctx, folderID, name, "application/pdf", drive.ReaderContent(file))
	if err != nil {
		return models.StoredAsset{}, fmt.Errorf("upload report pdf: %w", err)
	}
	return asset, nil
}

// sendNotice pushes the optional webhook notification. Failures never fail
// the request.
func (s *Service) sendNotice(ctx context.Context, record models.ReportRecord) {
	if s.notifier == nil {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.notifier.SendSubmissionNotice(ctxWithTimeout, notify.SubmissionNotice{
		Project:    record.Project,
		Supervisor: record.Supervisor,
		Date:       record.Date,
		PhotoURLs:  record.PhotoURLs,
		PDFURL:     record.PDFURL,
	})
	if err != nil {
		s.logger.Warn("submission notice failed", zap.Error(err))
	}
}

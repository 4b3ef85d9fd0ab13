package drive

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/comtec/field-reports/internal/config"
	"github.com/comtec/field-reports/internal/domain/models"
)

const (
	folderMimeType    = "application/vnd.google-apps.folder"
	publicURLTemplate = "https://drive.google.com/uc?id=%s"
)

// Repository defines the archive operations supported by the Google Drive adapter.
type Repository interface {
	EnsureFolder(ctx context.Context, parentID, name string) (string, error)
	UploadFile(ctx context.Context, folderID, name, contentType string, content Content) (models.StoredAsset, error)
}

// GoogleDriveRepository implements the Repository interface using the official Drive API.
type GoogleDriveRepository struct {
	service    *driveapi.Service
	shareFiles bool
	logger     *zap.Logger

	mu      sync.Mutex
	folders map[string]*sync.Mutex
}

// NewGoogleDriveRepository builds a Drive backed repository instance.
func NewGoogleDriveRepository(ctx context.Context, cfg config.DriveConfig, logger *zap.Logger) (*GoogleDriveRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := driveapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(driveapi.DriveScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize drive client: %w", err)
	}

	return &GoogleDriveRepository{
		service:    service,
		shareFiles: cfg.ShareFiles,
		logger:     logger,
		folders:    make(map[string]*sync.Mutex),
	}, nil
}

// EnsureFolder returns the id of the child folder with the given name under
// parentID, creating it when no match exists. Resolution for one
// (parent, name) pair is serialized in-process so two requests archiving the
// same day cannot both observe "not found" and create duplicate folders.
func (r *GoogleDriveRepository) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	lock := r.folderLock(parentID + "/" + name)
	lock.Lock()
	defer lock.Unlock()

	query := fmt.Sprintf("name='%s' and mimeType='%s' and '%s' in parents and trashed=false",
		escapeQueryTerm(name), folderMimeType, escapeQueryTerm(parentID))

	list, err := r.service.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list folder %s under %s: %w", name, parentID, err)
	}

	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder, err := r.service.Files.Create(&driveapi.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create folder %s under %s: %w", name, parentID, err)
	}

	r.logger.Info("drive folder created", zap.String("name", name), zap.String("id", folder.Id))
	return folder.Id, nil
}

// UploadFile creates a file with the given name and content under folderID.
// When sharing is enabled the file is granted public read access and the
// returned asset carries a derived public URL; otherwise only the id is set.
func (r *GoogleDriveRepository) UploadFile(ctx context.Context, folderID, name, contentType string, content Content) (models.StoredAsset, error) {
	meta := &driveapi.File{
		Name:    name,
		Parents: []string{folderID},
	}

	file, err := r.service.Files.Create(meta).
		Media(content.reader, googleapi.ContentType(contentType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return models.StoredAsset{}, fmt.Errorf("upload %s: %w", name, err)
	}

	asset := models.StoredAsset{ID: file.Id}

	if r.shareFiles {
		_, err := r.service.Permissions.Create(file.Id, &driveapi.Permission{
			Type: "anyone",
			Role: "reader",
		}).Context(ctx).Do()
		if err != nil {
			return models.StoredAsset{}, fmt.Errorf("share %s: %w", name, err)
		}
		asset.PublicURL = fmt.Sprintf(publicURLTemplate, file.Id)
	}

	r.logger.Debug("drive file uploaded", zap.String("name", name), zap.String("id", file.Id))
	return asset, nil
}

func (r *GoogleDriveRepository) folderLock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.folders[key]
	if !ok {
		lock = &sync.Mutex{}
		r.folders[key] = lock
	}
	return lock
}

func escapeQueryTerm(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	return strings.ReplaceAll(term, `'`, `\'`)
}

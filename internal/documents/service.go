package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentService stores document binaries behind the storage driver and
// keeps their metadata in the database.
type DocumentService struct {
	db     *gorm.DB
	driver StorageDriver
}

// NewDocumentService creates a new document service.
func NewDocumentService(db *gorm.DB, driver StorageDriver) *DocumentService {
	return &DocumentService{db: db, driver: driver}
}

// Upload saves the file via the driver and persists its metadata. If the
// metadata insert fails the stored binary is cleaned up.
func (s *DocumentService) Upload(ctx context.Context, organizationID string, docType DocumentType, reference, filename string, reader io.Reader, size int64, mime string) (*Document, error) {
	if docType != TypeGRN && docType != TypeQualityCertificate {
		return nil, fmt.Errorf("invalid document type %q", docType)
	}
	if mime == "" {
		mime = "application/octet-stream"
	}

	id := uuid.New()
	key := fmt.Sprintf("%s/%s%s", docType, id.String(), filepath.Ext(filename))

	if err := s.driver.Save(ctx, key, reader, mime); err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	doc := &Document{
		ID:             id,
		OrganizationID: organizationID,
		Type:           docType,
		Reference:      reference,
		Name:           filename,
		Key:            key,
		Size:           size,
		MimeType:       mime,
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		if delErr := s.driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned document", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to persist document metadata: %w", err)
	}

	url, err := s.driver.GenerateURL(ctx, key, 0)
	if err != nil {
		slog.WarnContext(ctx, "failed to generate document URL", "key", key, "error", err)
	} else {
		doc.URL = url
	}

	slog.InfoContext(ctx, "document stored", "id", id, "type", docType, "key", key)
	return doc, nil
}

// Get returns a document's metadata.
func (s *DocumentService) Get(ctx context.Context, organizationID string, id uuid.UUID) (*Document, error) {
	var doc Document
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	return &doc, nil
}

// List returns documents for the organization, optionally filtered by type
// and reference, newest first.
func (s *DocumentService) List(ctx context.Context, organizationID string, docType DocumentType, reference string) ([]Document, error) {
	query := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID)
	if docType != "" {
		query = query.Where("type = ?", docType)
	}
	if reference != "" {
		query = query.Where("reference = ?", reference)
	}

	var docs []Document
	if err := query.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Download streams a document's content along with its MIME type.
func (s *DocumentService) Download(ctx context.Context, organizationID string, id uuid.UUID) (io.ReadCloser, string, error) {
	doc, err := s.Get(ctx, organizationID, id)
	if err != nil {
		return nil, "", err
	}
	return s.driver.Get(ctx, doc.Key)
}

// Delete removes both the stored binary and the metadata row.
func (s *DocumentService) Delete(ctx context.Context, organizationID string, id uuid.UUID) error {
	doc, err := s.Get(ctx, organizationID, id)
	if err != nil {
		return err
	}
	if err := s.driver.Delete(ctx, doc.Key); err != nil {
		return fmt.Errorf("failed to delete document content: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(&Document{}, "id = ?", doc.ID).Error; err != nil {
		return fmt.Errorf("failed to delete document metadata: %w", err)
	}
	return nil
}

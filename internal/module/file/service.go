// Package file implements upload, download, and metadata CRUD for stored
// objects. Metadata lives in the record store; content lives behind the blob
// store, linked by a generated key.
package file

import (
	"context"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"github.com/simp-lee/restbase/internal/blob"
	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/listquery"
	"github.com/simp-lee/restbase/internal/store"
)

// Service defines the file resource operations.
type Service interface {
	List(ctx context.Context, q *listquery.Query) (*listquery.Result[domain.File], error)
	Upload(ctx context.Context, req *UploadFileRequest, name, contentType string, content io.Reader, byUserID *uint) (*domain.File, error)
	Get(ctx context.Context, id uint) (*domain.File, error)
	Update(ctx context.Context, id uint, req *UpdateFileRequest, byUserID *uint) (*domain.File, error)
	Remove(ctx context.Context, id uint, byUserID *uint) (*domain.File, error)
	Content(ctx context.Context, id uint) (*domain.File, io.ReadCloser, error)
	ReplaceContent(ctx context.Context, id uint, name, contentType string, content io.Reader, byUserID *uint) (*domain.File, error)
}

type fileService struct {
	files  *store.Store[domain.File]
	blobs  blob.Store
	logger *slog.Logger
}

// NewService creates a file Service over the given metadata and blob stores.
func NewService(files *store.Store[domain.File], blobs blob.Store, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &fileService{files: files, blobs: blobs, logger: logger}
}

func (s *fileService) List(ctx context.Context, q *listquery.Query) (*listquery.Result[domain.File], error) {
	return s.files.List(ctx, q)
}

// Upload stores the content first, then the metadata record. If the record
// insert fails the orphaned blob is deleted so storage never leaks.
func (s *fileService) Upload(ctx context.Context, req *UploadFileRequest, name, contentType string, content io.Reader, byUserID *uint) (*domain.File, error) {
	folder := req.Folder
	if folder == "" {
		folder = domain.FolderDocuments
	}

	key := newKey(folder, name)
	if err := s.blobs.Put(ctx, key, content); err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, err)
	}

	isPrivate := true
	if req.IsPrivate != nil {
		isPrivate = *req.IsPrivate
	}

	record := domain.File{
		Name:      name,
		Model:     req.Model,
		ModelID:   req.ModelID,
		Title:     req.Title,
		Type:      contentType,
		Folder:    folder,
		Key:       key,
		IsPrivate: isPrivate,
		Details:   req.Details,
	}
	record.CreatedByUserID = byUserID

	if err := s.files.Create(ctx, &record); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to delete orphaned blob",
				slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, err
	}
	return &record, nil
}

func (s *fileService) Get(ctx context.Context, id uint) (*domain.File, error) {
	return s.files.Read(ctx, map[string]any{"id": id})
}

func (s *fileService) Update(ctx context.Context, id uint, req *UpdateFileRequest, byUserID *uint) (*domain.File, error) {
	patch := req.patch()
	if len(patch) == 0 {
		return s.Get(ctx, id)
	}
	return s.files.Update(ctx, id, patch, byUserID)
}

// Remove soft-deletes the metadata and deletes the content best-effort. The
// record keeps the key, so a failed content delete can be retried offline.
func (s *fileService) Remove(ctx context.Context, id uint, byUserID *uint) (*domain.File, error) {
	record, err := s.files.Remove(ctx, id, byUserID)
	if err != nil {
		return nil, err
	}

	if err := s.blobs.Delete(ctx, record.Key); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete blob for removed file",
			slog.String("key", record.Key), slog.Any("error", err))
	}
	return record, nil
}

// Content opens the stored bytes for download along with the metadata.
func (s *fileService) Content(ctx context.Context, id uint) (*domain.File, io.ReadCloser, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Get(ctx, record.Key)
	if err != nil {
		return nil, nil, err
	}
	return record, rc, nil
}

// ReplaceContent is a two-phase swap: the new content is written under a
// fresh key, the record is repointed, and only then is the old blob deleted.
// If the record update fails the new blob is removed, leaving the old
// content untouched.
func (s *fileService) ReplaceContent(ctx context.Context, id uint, name, contentType string, content io.Reader, byUserID *uint) (*domain.File, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	newBlobKey := newKey(existing.Folder, name)
	if err := s.blobs.Put(ctx, newBlobKey, content); err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, err)
	}

	patch := map[string]any{
		"key":  newBlobKey,
		"name": name,
		"type": contentType,
	}
	record, err := s.files.UpdateTrusted(ctx, id, patch, byUserID)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, newBlobKey); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to delete blob after aborted swap",
				slog.String("key", newBlobKey), slog.Any("error", delErr))
		}
		return nil, err
	}

	if err := s.blobs.Delete(ctx, existing.Key); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete replaced blob",
			slog.String("key", existing.Key), slog.Any("error", err))
	}
	return record, nil
}

// newKey builds a collision-free storage key keeping the original extension.
func newKey(folder, name string) string {
	return folder + "/" + uuid.NewString() + path.Ext(name)
}

package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"

	"github.com/google/uuid"
)

type DocumentService struct {
	DocumentRepo *repository.DocumentRepository
	Storage      *StorageService
}

func NewDocumentService(documentRepo *repository.DocumentRepository, storage *StorageService) *DocumentService {
	return &DocumentService{
		DocumentRepo: documentRepo,
		Storage:      storage,
	}
}

func (s *DocumentService) List(page, limit int, keyword string) ([]model.Document, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.DocumentRepo.List(page, limit, keyword)
}

func (s *DocumentService) Get(id string) (*model.Document, error) {
	doc, err := s.DocumentRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrDocumentNotFound
	}
	return doc, nil
}

// Upload stores the file under a collision-free object name and records the
// document row.
func (s *DocumentService) Upload(ctx context.Context, uploaderID uint, title, description, filename, contentType string, reader io.Reader, size int64) (*model.Document, error) {
	objectName := fmt.Sprintf("documents/%s%s", uuid.New().String(), filepath.Ext(filename))
	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	doc := model.Document{
		Title:       title,
		Description: description,
		FileURL:     url,
		FileSize:    size,
		ContentType: contentType,
		UploaderID:  uploaderID,
	}
	if err := s.DocumentRepo.Create(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Download resolves the file URL and counts the download.
func (s *DocumentService) Download(id string) (*model.Document, error) {
	doc, err := s.DocumentRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrDocumentNotFound
	}
	_ = s.DocumentRepo.IncrementDownloads(id)
	return doc, nil
}

// Trash soft-deletes the document. The stored file stays put so a restore
// needs no re-upload.
func (s *DocumentService) Trash(id string, actor *util.Claims) error {
	doc, err := s.DocumentRepo.FindByID(id)
	if err != nil {
		return util.ErrDocumentNotFound
	}
	if doc.UploaderID != actor.MemberID && !actor.Role.AtLeast(model.RoleAdmin) {
		return util.ErrPermissionDenied
	}
	return s.DocumentRepo.Delete(doc)
}

func (s *DocumentService) ListTrash(page, limit int) ([]model.Document, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.DocumentRepo.ListTrash(page, limit)
}

func (s *DocumentService) Restore(id string) (*model.Document, error) {
	if _, err := s.DocumentRepo.FindTrashed(id); err != nil {
		return nil, util.ErrDocumentNotFound
	}
	if err := s.DocumentRepo.Restore(id); err != nil {
		return nil, err
	}
	return s.DocumentRepo.FindByID(id)
}

// Purge removes a trashed document and its stored file for good.
func (s *DocumentService) Purge(ctx context.Context, id string) error {
	doc, err := s.DocumentRepo.FindTrashed(id)
	if err != nil {
		return util.ErrDocumentNotFound
	}

	if err := s.DocumentRepo.Purge(id); err != nil {
		return err
	}
	// The row is gone; a leftover object is tolerable.
	_ = s.Storage.Delete(ctx, objectNameFromURL(doc.FileURL))
	return nil
}

func objectNameFromURL(url string) string {
	dir := filepath.Base(filepath.Dir(url))
	return dir + "/" + filepath.Base(url)
}

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"icehc_portal/internal/config"
	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"

	"gorm.io/gorm"
)

func newDocumentService(t *testing.T, db *gorm.DB) (*DocumentService, string) {
	t.Helper()
	dir := t.TempDir()
	storage := &StorageService{Provider: &LocalStorageProvider{
		Config: &config.StorageConfig{Type: "local", LocalPath: dir},
	}}
	return NewDocumentService(repository.NewDocumentRepository(db), storage), dir
}

func uploadDoc(t *testing.T, svc *DocumentService, uploaderID uint, title, body string) *model.Document {
	t.Helper()
	doc, err := svc.Upload(context.Background(), uploaderID, title, "", "notes.md", "text/markdown",
		strings.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("upload %s: %v", title, err)
	}
	return doc
}

func TestDocumentUpload(t *testing.T) {
	db := newTestDB(t)
	svc, dir := newDocumentService(t, db)
	uploader := createMember(t, db, "alice", 0, model.StatusApproved)

	doc := uploadDoc(t, svc, uploader.ID, "SQLi Cheatsheet", "' OR 1=1 --")
	if doc.UploaderID != uploader.ID || doc.FileSize != 11 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if !strings.HasPrefix(doc.FileURL, "/uploads/documents/") || !strings.HasSuffix(doc.FileURL, ".md") {
		t.Fatalf("file url = %s", doc.FileURL)
	}

	stored := filepath.Join(dir, strings.TrimPrefix(doc.FileURL, "/uploads/"))
	body, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(body) != "' OR 1=1 --" {
		t.Fatalf("stored body = %q", body)
	}
}

func TestDocumentDownloadCounts(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newDocumentService(t, db)
	uploader := createMember(t, db, "alice", 0, model.StatusApproved)

	doc := uploadDoc(t, svc, uploader.ID, "Ghidra Notes", "analysis tips")

	for i := 0; i < 3; i++ {
		if _, err := svc.Download(doc.ID); err != nil {
			t.Fatalf("download %d: %v", i, err)
		}
	}

	refreshed, err := svc.Get(doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if refreshed.DownloadCount != 3 {
		t.Fatalf("download count = %d, want 3", refreshed.DownloadCount)
	}
}

func TestDocumentTrashPermissions(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newDocumentService(t, db)

	uploader := createMember(t, db, "alice", 0, model.StatusApproved)
	other := createMember(t, db, "bob", 0, model.StatusApproved)
	doc := uploadDoc(t, svc, uploader.ID, "Club Bylaws", "rules")

	otherClaims := &util.Claims{MemberID: other.ID, Role: model.RoleMember}
	if err := svc.Trash(doc.ID, otherClaims); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("non-uploader trash: err = %v", err)
	}

	// An admin may trash anyone's document.
	adminClaims := &util.Claims{MemberID: other.ID, Role: model.RoleAdmin}
	if err := svc.Trash(doc.ID, adminClaims); err != nil {
		t.Fatalf("admin trash: %v", err)
	}

	if _, err := svc.Get(doc.ID); !errors.Is(err, util.ErrDocumentNotFound) {
		t.Fatalf("trashed document still listed: err = %v", err)
	}
}

func TestDocumentRestore(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newDocumentService(t, db)
	uploader := createMember(t, db, "alice", 0, model.StatusApproved)

	doc := uploadDoc(t, svc, uploader.ID, "Wireshark Filters", "tcp.port == 1337")
	ownerClaims := &util.Claims{MemberID: uploader.ID, Role: model.RoleMember}
	if err := svc.Trash(doc.ID, ownerClaims); err != nil {
		t.Fatalf("trash: %v", err)
	}

	trash, total, err := svc.ListTrash(1, 20)
	if err != nil {
		t.Fatalf("list trash: %v", err)
	}
	if total != 1 || len(trash) != 1 || trash[0].ID != doc.ID {
		t.Fatalf("trash listing = %+v, total %d", trash, total)
	}

	restored, err := svc.Restore(doc.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Title != "Wireshark Filters" {
		t.Fatalf("restored title = %s", restored.Title)
	}
	if _, err := svc.Get(doc.ID); err != nil {
		t.Fatalf("restored document not listed: %v", err)
	}
}

func TestDocumentPurge(t *testing.T) {
	db := newTestDB(t)
	svc, dir := newDocumentService(t, db)
	uploader := createMember(t, db, "alice", 0, model.StatusApproved)

	doc := uploadDoc(t, svc, uploader.ID, "Old Meeting Notes", "stale")
	stored := filepath.Join(dir, strings.TrimPrefix(doc.FileURL, "/uploads/"))

	// Purge only applies to trashed documents.
	if err := svc.Purge(context.Background(), doc.ID); !errors.Is(err, util.ErrDocumentNotFound) {
		t.Fatalf("purge live document: err = %v", err)
	}

	svc.Trash(doc.ID, &util.Claims{MemberID: uploader.ID, Role: model.RoleMember})
	if err := svc.Purge(context.Background(), doc.ID); err != nil {
		t.Fatalf("purge: %v", err)
	}

	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Fatalf("stored file survived purge: %v", err)
	}
	if _, _, err := svc.ListTrash(1, 20); err != nil {
		t.Fatalf("list trash: %v", err)
	}
	if _, err := svc.Restore(doc.ID); !errors.Is(err, util.ErrDocumentNotFound) {
		t.Fatalf("restore after purge: err = %v", err)
	}
}

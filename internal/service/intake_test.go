package service

import (
	"SendBay/internal/storage"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) (*storage.DiskStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir)
	if err != nil {
		t.Fatalf("new disk store failed: %v", err)
	}
	return store, dir
}

// buildMultipart assembles a multipart body out of interleaved parts.
// Each part is either {field, value} or {file, name, content}.
func buildMultipart(t *testing.T, parts [][3]string) *multipart.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		switch p[0] {
		case "field":
			if err := w.WriteField(p[1], p[2]); err != nil {
				t.Fatalf("write field failed: %v", err)
			}
		case "file":
			fw, err := w.CreateFormFile("files", p[1])
			if err != nil {
				t.Fatalf("create form file failed: %v", err)
			}
			if _, err := fw.Write([]byte(p[2])); err != nil {
				t.Fatalf("write file part failed: %v", err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	return multipart.NewReader(&buf, w.Boundary())
}

func countBlobs(t *testing.T, dir string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk dir failed: %v", err)
	}
	return count
}

// TestConsumeMultipartInterleaved tests fields and files in any order.
func TestConsumeMultipartInterleaved(t *testing.T) {
	store, dir := newTestStore(t)
	reader := buildMultipart(t, [][3]string{
		{"file", "report.pdf", "first file body"},
		{"field", "expiresIn", "3600"},
		{"file", "notes.txt", "second"},
		{"field", "password", "hunter2"},
	})

	result, err := ConsumeMultipart(context.Background(), reader, store, "", 0)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(result.Files))
	}
	if result.Field("expiresIn") != "3600" || result.Field("password") != "hunter2" {
		t.Fatalf("fields not collected: %v", result.Fields)
	}

	first := result.Files[0]
	if first.OriginalName != "report.pdf" {
		t.Fatalf("original name: got %q", first.OriginalName)
	}
	if first.Size != int64(len("first file body")) {
		t.Fatalf("size: got %d", first.Size)
	}
	if !strings.HasSuffix(first.Filename, ".pdf") {
		t.Fatalf("generated name should keep the extension, got %q", first.Filename)
	}
	if first.MimeType != "application/pdf" {
		t.Fatalf("mime type: got %q", first.MimeType)
	}

	if got := countBlobs(t, dir); got != 2 {
		t.Fatalf("expected 2 blobs on disk, got %d", got)
	}
}

// TestConsumeMultipartSubdir tests that blobs land under the given subtree.
func TestConsumeMultipartSubdir(t *testing.T) {
	store, dir := newTestStore(t)
	reader := buildMultipart(t, [][3]string{
		{"file", "drop.bin", "payload"},
	})

	result, err := ConsumeMultipart(context.Background(), reader, store, "received/7", 0)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if !strings.HasPrefix(result.Files[0].Path, "received/7/") {
		t.Fatalf("blob path should live under received/7/, got %q", result.Files[0].Path)
	}
	if _, err := os.Stat(filepath.Join(dir, "received", "7", result.Files[0].Filename)); err != nil {
		t.Fatalf("blob not found on disk: %v", err)
	}
}

// TestConsumeMultipartSizeCeiling tests that an oversized part fails the
// whole batch and leaves no blobs behind.
func TestConsumeMultipartSizeCeiling(t *testing.T) {
	store, dir := newTestStore(t)
	reader := buildMultipart(t, [][3]string{
		{"file", "small.txt", "ok"},
		{"file", "big.txt", strings.Repeat("x", 100)},
		{"file", "never-reached.txt", "zzz"},
	})

	_, err := ConsumeMultipart(context.Background(), reader, store, "", 10)
	if !errors.Is(err, ErrSizeExceeded) {
		t.Fatalf("expected ErrSizeExceeded, got %v", err)
	}
	if got := countBlobs(t, dir); got != 0 {
		t.Fatalf("rollback incomplete: %d blobs left on disk", got)
	}
}

// TestConsumeMultipartExactLimit tests that a part exactly at the ceiling
// passes.
func TestConsumeMultipartExactLimit(t *testing.T) {
	store, _ := newTestStore(t)
	body := strings.Repeat("a", 10)
	reader := buildMultipart(t, [][3]string{
		{"file", "exact.txt", body},
	})

	result, err := ConsumeMultipart(context.Background(), reader, store, "", 10)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if result.Files[0].Size != 10 {
		t.Fatalf("size: got %d", result.Files[0].Size)
	}
}

// TestConsumeMultipartNoFiles tests a fields-only body.
func TestConsumeMultipartNoFiles(t *testing.T) {
	store, _ := newTestStore(t)
	reader := buildMultipart(t, [][3]string{
		{"field", "uploaderName", "alice"},
		{"field", "message", "hello"},
	})

	result, err := ConsumeMultipart(context.Background(), reader, store, "", 0)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if len(result.Files) != 0 {
		t.Fatalf("expected no files, got %d", len(result.Files))
	}
	if result.Field("uploaderName") != "alice" {
		t.Fatalf("fields not collected: %v", result.Fields)
	}
}

// TestDetectMimeType tests extension-based mime resolution.
func TestDetectMimeType(t *testing.T) {
	if got := DetectMimeType("photo.PNG"); got != "image/png" {
		t.Fatalf("png: got %q", got)
	}
	if got := DetectMimeType("noextension"); got != "application/octet-stream" {
		t.Fatalf("fallback: got %q", got)
	}
}

// wrapSaveStore wraps its inner store's Save errors into a flat string,
// the way an object-store SDK can swallow the reader's error.
type wrapSaveStore struct {
	inner storage.Store
}

func (s *wrapSaveStore) Save(ctx context.Context, name string, data io.Reader) (int64, error) {
	n, err := s.inner.Save(ctx, name, data)
	if err != nil {
		return n, fmt.Errorf("put object: %v", err)
	}
	return n, nil
}

func (s *wrapSaveStore) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	return s.inner.Open(ctx, name)
}

func (s *wrapSaveStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

func (s *wrapSaveStore) DeleteDir(ctx context.Context, prefix string) error {
	return s.inner.DeleteDir(ctx, prefix)
}

// TestConsumeMultipartCeilingOpaqueStore tests that a ceiling hit still maps
// to ErrSizeExceeded when the store rewraps the error.
func TestConsumeMultipartCeilingOpaqueStore(t *testing.T) {
	inner, dir := newTestStore(t)
	store := &wrapSaveStore{inner: inner}
	reader := buildMultipart(t, [][3]string{
		{"file", "big.bin", strings.Repeat("x", 64)},
	})

	_, err := ConsumeMultipart(context.Background(), reader, store, "", 10)
	if !errors.Is(err, ErrSizeExceeded) {
		t.Fatalf("expected ErrSizeExceeded, got %v", err)
	}
	if n := countBlobs(t, dir); n != 0 {
		t.Fatalf("expected rollback, %d blobs remain", n)
	}
}

// brokenStore fails every Save with a backend error.
type brokenStore struct {
	storage.Store
}

func (s *brokenStore) Save(ctx context.Context, name string, data io.Reader) (int64, error) {
	return 0, fmt.Errorf("disk full")
}

// TestConsumeMultipartStoreFailure tests that backend write failures surface
// as ErrStorage.
func TestConsumeMultipartStoreFailure(t *testing.T) {
	inner, _ := newTestStore(t)
	reader := buildMultipart(t, [][3]string{
		{"file", "a.txt", "body"},
	})

	_, err := ConsumeMultipart(context.Background(), reader, &brokenStore{Store: inner}, "", 0)
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newStore(t *testing.T) (*DiskStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("new disk store failed: %v", err)
	}
	return store, dir
}

// TestDiskSaveOpen tests the save/open round trip.
func TestDiskSaveOpen(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	n, err := store.Save(ctx, "a/b/blob.txt", strings.NewReader("hello disk"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if n != int64(len("hello disk")) {
		t.Fatalf("byte count: got %d", n)
	}

	rc, size, err := store.Open(ctx, "a/b/blob.txt")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer rc.Close()
	if size != n {
		t.Fatalf("size mismatch: %d vs %d", size, n)
	}
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(body) != "hello disk" {
		t.Fatalf("content: got %q", body)
	}
}

// failingReader errors after yielding a prefix.
type failingReader struct {
	data []byte
	read bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.read {
		f.read = true
		return copy(p, f.data), nil
	}
	return 0, errors.New("stream broke")
}

// TestDiskSaveRollback tests that a failed write leaves no partial file.
func TestDiskSaveRollback(t *testing.T) {
	store, dir := newStore(t)

	_, err := store.Save(context.Background(), "partial.bin", &failingReader{data: []byte("half")})
	if err == nil {
		t.Fatal("expected save to fail")
	}
	if _, err := os.Stat(filepath.Join(dir, "partial.bin")); !os.IsNotExist(err) {
		t.Fatal("partial file left behind")
	}
}

// TestDiskDelete tests deletion including the missing-blob case.
func TestDiskDelete(t *testing.T) {
	store, dir := newStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, "gone.txt", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Delete(ctx, "gone.txt"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "gone.txt")); !os.IsNotExist(err) {
		t.Fatal("blob still present")
	}
	// deleting again is not an error
	if err := store.Delete(ctx, "gone.txt"); err != nil {
		t.Fatalf("missing blob should not error: %v", err)
	}
}

// TestDiskDeleteDir tests subtree removal.
func TestDiskDeleteDir(t *testing.T) {
	store, dir := newStore(t)
	ctx := context.Background()

	for _, name := range []string{"received/3/a.txt", "received/3/b.txt", "received/4/c.txt"} {
		if _, err := store.Save(ctx, name, strings.NewReader("x")); err != nil {
			t.Fatalf("save %s failed: %v", name, err)
		}
	}
	if err := store.DeleteDir(ctx, "received/3"); err != nil {
		t.Fatalf("delete dir failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "received", "3")); !os.IsNotExist(err) {
		t.Fatal("subtree still present")
	}
	if _, err := os.Stat(filepath.Join(dir, "received", "4", "c.txt")); err != nil {
		t.Fatalf("sibling subtree lost: %v", err)
	}
}

// TestDiskTraversalGuard tests that names cannot escape the base directory.
func TestDiskTraversalGuard(t *testing.T) {
	store, dir := newStore(t)
	ctx := context.Background()

	outside := filepath.Join(filepath.Dir(dir), "escape.txt")
	if _, err := store.Save(ctx, "../escape.txt", strings.NewReader("nope")); err == nil {
		if _, statErr := os.Stat(outside); statErr == nil {
			os.Remove(outside)
			t.Fatal("blob escaped the base directory")
		}
	}
	if _, _, err := store.Open(ctx, ".."); err == nil {
		t.Fatal("opening the parent directory should fail")
	}
	if _, _, err := store.Open(ctx, ""); err == nil {
		t.Fatal("empty name should fail")
	}
}

package docstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoredName(t *testing.T) {
	if got := StoredName(7, "scan.pdf"); got != "7_scan.pdf" {
		t.Errorf("expected 7_scan.pdf, got %q", got)
	}
	// Client-supplied paths must not escape the store directory.
	if got := StoredName(7, "../../etc/passwd"); got != "7_passwd" {
		t.Errorf("expected traversal to be stripped, got %q", got)
	}
}

func TestOriginalName(t *testing.T) {
	if got := OriginalName("uploaded_docs/42_lab results.pdf"); got != "lab results.pdf" {
		t.Errorf("expected original name, got %q", got)
	}
	if got := OriginalName("plainfile"); got != "plainfile" {
		t.Errorf("expected fallback to base name, got %q", got)
	}
}

func TestFSStore_SaveOpenRemove(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()

	path, err := store.Save(ctx, 3, "note.txt", strings.NewReader("clinical note"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "3_note.txt" {
		t.Errorf("expected stored name 3_note.txt, got %q", path)
	}

	rc, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "clinical note" {
		t.Errorf("unexpected content: %q", data)
	}

	if err := store.Remove(ctx, path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
}

func TestFSStore_SaveOverwrites(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := store.Save(ctx, 1, "doc.txt", strings.NewReader("first")); err != nil {
		t.Fatal(err)
	}
	path, err := store.Save(ctx, 1, "doc.txt", strings.NewReader("second"))
	if err != nil {
		t.Fatal(err)
	}

	rc, err := store.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "second" {
		t.Errorf("expected overwrite, got %q", data)
	}
}

func TestFSStore_OpenMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Open(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestFSStore_RemoveMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	err = store.Remove(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestFSStore_EmptyFilename(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Save(context.Background(), 1, "", strings.NewReader("x"))
	if !errors.Is(err, ErrMissingFileName) {
		t.Errorf("expected ErrMissingFileName, got %v", err)
	}
}

func TestMemStore_SaveOpenRemove(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	path, err := store.Save(ctx, 9, "img.png", strings.NewReader("pngbytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != "9_img.png" {
		t.Errorf("expected path 9_img.png, got %q", path)
	}

	rc, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "pngbytes" {
		t.Errorf("unexpected content: %q", data)
	}

	if err := store.Remove(ctx, path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, path); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound on second remove, got %v", err)
	}
}

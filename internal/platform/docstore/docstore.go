// Package docstore stores documents attached to health records. It defines
// the Store interface, a filesystem implementation used in production, and
// an in-memory implementation for tests and development. Files are named
// "{recordID}_{originalFilename}" inside a single flat directory; the
// returned path is what a record keeps in its document_path column.
package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrMissingFileName  = errors.New("file name is required")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
)

// MaxDocumentSize is the maximum allowed document size in bytes (100 MB).
const MaxDocumentSize = 100 * 1024 * 1024

// Store is the contract for document storage backends.
type Store interface {
	// Save writes content under "{recordID}_{filename}" and returns the
	// stored path. An existing file at that path is overwritten.
	Save(ctx context.Context, recordID int64, filename string, content io.Reader) (string, error)

	// Open returns a reader over the document at path.
	// Returns ErrDocumentNotFound if the path does not resolve.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Remove deletes the document at path.
	// Returns ErrDocumentNotFound if there is nothing to delete.
	Remove(ctx context.Context, path string) error
}

// StoredName builds the storage filename for a record's document. The
// original filename is reduced to its base name so client-supplied paths
// cannot escape the store directory.
func StoredName(recordID int64, filename string) string {
	return fmt.Sprintf("%d_%s", recordID, filepath.Base(filename))
}

// OriginalName recovers the client's filename from a stored path by
// stripping the "{recordID}_" prefix.
func OriginalName(path string) string {
	base := filepath.Base(path)
	if _, name, ok := strings.Cut(base, "_"); ok && name != "" {
		return name
	}
	return base
}

// ---------------------------------------------------------------------------
// Filesystem implementation
// ---------------------------------------------------------------------------

// FSStore keeps documents as plain files in one directory.
type FSStore struct {
	dir string
}

// NewFSStore creates the directory if needed and returns a store over it.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("docstore: directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) Save(_ context.Context, recordID int64, filename string, content io.Reader) (string, error) {
	if filename == "" {
		return "", ErrMissingFileName
	}

	path := filepath.Join(s.dir, StoredName(recordID, filename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create document file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(content, MaxDocumentSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write document file: %w", err)
	}
	if written > MaxDocumentSize {
		_ = os.Remove(path)
		return "", ErrFileTooLarge
	}

	return path, nil
}

func (s *FSStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("open document file: %w", err)
	}
	return f, nil
}

func (s *FSStore) Remove(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("remove document file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

// MemStore is a thread-safe, in-memory Store for tests and development.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string][]byte)}
}

func (s *MemStore) Save(_ context.Context, recordID int64, filename string, content io.Reader) (string, error) {
	if filename == "" {
		return "", ErrMissingFileName
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("read document content: %w", err)
	}
	if int64(len(data)) > MaxDocumentSize {
		return "", ErrFileTooLarge
	}

	path := StoredName(recordID, filename)
	s.mu.Lock()
	s.docs[path] = data
	s.mu.Unlock()
	return path, nil
}

func (s *MemStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.docs[path]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrDocumentNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemStore) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[path]; !ok {
		return ErrDocumentNotFound
	}
	delete(s.docs, path)
	return nil
}

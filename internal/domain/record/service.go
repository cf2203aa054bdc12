package record

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/clinrec/clinrec/internal/platform/docstore"
)

// TxRunner executes fn atomically. db.WithTx bound to the pool satisfies it
// in production; tests pass the function straight through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// AttachResult reports a document upload. Skipped is set when the request
// carried no usable file and nothing changed.
type AttachResult struct {
	Path    string
	Skipped string
}

type Service struct {
	repo Repository
	docs docstore.Store
	tx   TxRunner
}

func NewService(repo Repository, docs docstore.Store, tx TxRunner) *Service {
	if tx == nil {
		tx = func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	}
	return &Service{repo: repo, docs: docs, tx: tx}
}

func (s *Service) Create(ctx context.Context, patientID int64, f Fields) (*Record, error) {
	rec := &Record{PatientID: patientID}
	if err := f.apply(rec); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create record: %w", err)
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

// Update overwrites all clinical fields of an existing record.
func (s *Service) Update(ctx context.Context, id int64, f Fields) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.apply(rec); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	return rec, nil
}

// Delete removes the row first, then the stored document. The file removal
// is best effort: a document that is already gone must not fail the delete,
// and a row that is gone can never point at a file.
func (s *Service) Delete(ctx context.Context, id int64) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if rec.DocumentPath != "" {
		_ = s.docs.Remove(ctx, rec.DocumentPath)
	}
	return nil
}

// AttachDocument stores a file for a record and points the row at it. A
// request with no file is a no-op reported via Skipped. The previous file,
// if any, is removed after the row points at the new one.
func (s *Service) AttachDocument(ctx context.Context, recordID int64, filename string, content io.Reader) (AttachResult, error) {
	rec, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return AttachResult{}, err
	}
	if filename == "" {
		return AttachResult{Skipped: "no document uploaded"}, nil
	}

	path, err := s.docs.Save(ctx, recordID, filename, content)
	if err != nil {
		return AttachResult{}, fmt.Errorf("store document: %w", err)
	}
	if err := s.repo.SetDocumentPath(ctx, recordID, path); err != nil {
		_ = s.docs.Remove(ctx, path)
		return AttachResult{}, err
	}
	if rec.DocumentPath != "" && rec.DocumentPath != path {
		_ = s.docs.Remove(ctx, rec.DocumentPath)
	}
	return AttachResult{Path: path}, nil
}

// OpenDocument returns a stream over a record's document and the original
// filename to serve it under.
func (s *Service) OpenDocument(ctx context.Context, recordID int64) (io.ReadCloser, string, error) {
	rec, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, "", err
	}
	if rec.DocumentPath == "" {
		return nil, "", ErrDocumentNotFound
	}

	rc, err := s.docs.Open(ctx, rec.DocumentPath)
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return nil, "", ErrDocumentNotFound
		}
		return nil, "", fmt.Errorf("open document: %w", err)
	}
	return rc, docstore.OriginalName(rec.DocumentPath), nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*Record, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ExportCSV(ctx context.Context, patientID int64, w io.Writer) error {
	records, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	return writeCSV(w, records)
}

// ImportCSV buffers and validates the whole payload before touching the
// database, then writes every row in one transaction. Either all rows land
// or none do.
func (s *Service) ImportCSV(ctx context.Context, patientID int64, r io.Reader) (int, error) {
	records, err := readCSV(r, patientID)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	err = s.tx(ctx, func(ctx context.Context) error {
		for i, rec := range records {
			if err := s.repo.Create(ctx, rec); err != nil {
				if errors.Is(err, ErrPatientNotFound) {
					return err
				}
				return &RowError{Row: i + 1, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

package record

import "context"

// Repository is the storage contract for health records. Implementations
// honor a transaction carried in the context so the CSV import can write all
// rows atomically.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id int64) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id int64) error
	ListByPatient(ctx context.Context, patientID int64) ([]*Record, error)
	SetDocumentPath(ctx context.Context, id int64, path string) error
}

package patient

import "context"

// Repository is the storage contract for patients. There is no update or
// delete: the registry is append-only by design of the clinical workflow.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
}

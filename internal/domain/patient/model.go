// Package patient implements the patient registry: a create-and-read
// directory of people whose clinical visits are kept in the record package.
package patient

import (
	"errors"
	"time"
)

var ErrPatientNotFound = errors.New("patient not found")

type Patient struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateResult reports the outcome of a create call. When Skipped is
// non-empty no row was written and it holds the reason.
type CreateResult struct {
	Patient *Patient
	Skipped string
}

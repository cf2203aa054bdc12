// Package record implements health records: the clinical visits attached to
// a patient, their documents, and the CSV interchange format.
package record

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrDocumentNotFound = errors.New("document not found")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

// RowError wraps a failure in a CSV data row. Row is 1-based and counts
// data rows, not the header.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

type Record struct {
	ID            int64     `json:"id"`
	PatientID     int64     `json:"patient_id"`
	VisitDate     VisitDate `json:"date"`
	Complaint     string    `json:"complaint"`
	Doctor        string    `json:"doctor"`
	Investigation string    `json:"investigation"`
	Diagnosis     string    `json:"diagnosis"`
	Medication    string    `json:"medication"`
	Notes         string    `json:"notes"`
	FollowUp      string    `json:"follow_up"`
	DocumentPath  string    `json:"document_path,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Fields is the clinical content of a record as submitted by a client,
// before validation. Date is the raw string; the rest pass through as-is.
type Fields struct {
	Date          string
	Complaint     string
	Doctor        string
	Investigation string
	Diagnosis     string
	Medication    string
	Notes         string
	FollowUp      string
}

// apply validates the fields and overwrites the clinical content of rec.
func (f Fields) apply(rec *Record) error {
	d, err := ParseVisitDate(f.Date)
	if err != nil {
		return err
	}
	rec.VisitDate = d
	rec.Complaint = f.Complaint
	rec.Doctor = f.Doctor
	rec.Investigation = f.Investigation
	rec.Diagnosis = f.Diagnosis
	rec.Medication = f.Medication
	rec.Notes = f.Notes
	rec.FollowUp = f.FollowUp
	return nil
}

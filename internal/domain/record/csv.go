package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the fixed column order of the interchange format. Exports
// always write it; imports discard the first row without validating it, so
// files from systems with different header labels still load.
var csvHeader = []string{"ID", "Date", "Complaint", "Doctor", "Investigation",
	"Diagnosis", "Medication", "Notes", "Follow-up", "Document Path"}

func writeCSV(w io.Writer, records []*Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.VisitDate.String(),
			rec.Complaint,
			rec.Doctor,
			rec.Investigation,
			rec.Diagnosis,
			rec.Medication,
			rec.Notes,
			rec.FollowUp,
			rec.DocumentPath,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// readCSV parses an import payload into records for one patient. Any bad
// row aborts the whole parse with a RowError naming the 1-based data row.
func readCSV(r io.Reader, patientID int64) ([]*Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, &ValidationError{Field: "csv_file", Reason: "is empty"}
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var records []*Record
	for rowNum := 1; ; rowNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &RowError{Row: rowNum, Err: err}
		}
		rec, err := parseCSVRow(row, patientID)
		if err != nil {
			return nil, &RowError{Row: rowNum, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Column 0 is the exporting system's record id and is ignored; ids are
// assigned on insert.
func parseCSVRow(row []string, patientID int64) (*Record, error) {
	if len(row) != len(csvHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(row))
	}
	d, err := ParseVisitDate(row[1])
	if err != nil {
		return nil, err
	}
	return &Record{
		PatientID:     patientID,
		VisitDate:     d,
		Complaint:     row[2],
		Doctor:        row[3],
		Investigation: row[4],
		Diagnosis:     row[5],
		Medication:    row[6],
		Notes:         row[7],
		FollowUp:      row[8],
		DocumentPath:  row[9],
	}, nil
}

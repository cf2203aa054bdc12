package record

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const visitDateLayout = "2006-01-02"

// VisitDate is a calendar date with no time component. It reads and renders
// strictly as "YYYY-MM-DD" in form input, JSON and CSV, and maps to a DATE
// column.
type VisitDate struct {
	t time.Time
}

// ParseVisitDate parses a strict "YYYY-MM-DD" string. Anything else,
// including other date layouts, is a ValidationError.
func ParseVisitDate(s string) (VisitDate, error) {
	t, err := time.Parse(visitDateLayout, s)
	if err != nil {
		return VisitDate{}, &ValidationError{Field: "date", Reason: "must be a valid YYYY-MM-DD date"}
	}
	return VisitDate{t: t}, nil
}

// DateOf truncates a time.Time to its calendar date in UTC.
func DateOf(t time.Time) VisitDate {
	y, m, d := t.UTC().Date()
	return VisitDate{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d VisitDate) String() string  { return d.t.Format(visitDateLayout) }
func (d VisitDate) Time() time.Time { return d.t }
func (d VisitDate) IsZero() bool    { return d.t.IsZero() }

func (d VisitDate) Equal(other VisitDate) bool {
	return d.t.Equal(other.t)
}

func (d VisitDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *VisitDate) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return &ValidationError{Field: "date", Reason: "must be a JSON string"}
	}
	parsed, err := ParseVisitDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner so pgx can read DATE columns directly.
func (d *VisitDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseVisitDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = VisitDate{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into VisitDate", src)
	}
}

func (d VisitDate) Value() (driver.Value, error) {
	return d.t, nil
}

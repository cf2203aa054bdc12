package record

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseVisitDate(t *testing.T) {
	d, err := ParseVisitDate("2024-03-01")
	if err != nil {
		t.Fatalf("ParseVisitDate: %v", err)
	}
	if d.String() != "2024-03-01" {
		t.Errorf("unexpected render %q", d.String())
	}

	bad := []string{"", "2024-3-1", "01-03-2024", "2024-03-01T00:00:00Z", "2024-13-40"}
	for _, s := range bad {
		_, err := ParseVisitDate(s)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("ParseVisitDate(%q): expected ValidationError, got %v", s, err)
		}
	}
}

func TestVisitDate_JSON(t *testing.T) {
	d, _ := ParseVisitDate("2024-03-01")
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"2024-03-01"` {
		t.Errorf("unexpected JSON %s", out)
	}

	var back VisitDate
	if err := json.Unmarshal([]byte(`"2024-03-01"`), &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip mismatch: %s != %s", back, d)
	}

	if err := json.Unmarshal([]byte(`"03/01/2024"`), &back); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestVisitDate_Scan(t *testing.T) {
	var d VisitDate
	if err := d.Scan(time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if d.String() != "2024-03-01" {
		t.Errorf("expected time component dropped, got %s", d)
	}

	if err := d.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if !d.IsZero() {
		t.Error("expected zero date from nil")
	}

	if err := d.Scan(42); err == nil {
		t.Error("expected error for unsupported type")
	}
}

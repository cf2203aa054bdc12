package patient

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

type mockPatientRepo struct {
	patients map[int64]*Patient
	nextID   int64
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[int64]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id int64) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPatientRepo) List(_ context.Context) ([]*Patient, error) {
	out := make([]*Patient, 0, len(m.patients))
	for _, p := range m.patients {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func TestCreate_AssignsID(t *testing.T) {
	svc := NewService(newMockPatientRepo())

	res, err := svc.Create(context.Background(), "Asha Rao")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Skipped != "" {
		t.Fatalf("unexpected skip: %q", res.Skipped)
	}
	if res.Patient.ID == 0 {
		t.Error("expected an assigned id")
	}
	if res.Patient.Name != "Asha Rao" {
		t.Errorf("unexpected name %q", res.Patient.Name)
	}
}

func TestCreate_BlankNameSkipped(t *testing.T) {
	repo := newMockPatientRepo()
	svc := NewService(repo)

	for _, name := range []string{"", "   ", "\t"} {
		res, err := svc.Create(context.Background(), name)
		if err != nil {
			t.Fatalf("Create(%q): %v", name, err)
		}
		if res.Skipped == "" {
			t.Errorf("expected skip for %q", name)
		}
		if res.Patient != nil {
			t.Errorf("expected no patient for %q", name)
		}
	}
	if len(repo.patients) != 0 {
		t.Errorf("expected no rows written, got %d", len(repo.patients))
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newMockPatientRepo())

	_, err := svc.Get(context.Background(), 99)
	if !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestList_IDOrder(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		if _, err := svc.Create(ctx, name); err != nil {
			t.Fatal(err)
		}
	}

	patients, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(patients) != 3 {
		t.Fatalf("expected 3 patients, got %d", len(patients))
	}
	for i := 1; i < len(patients); i++ {
		if patients[i-1].ID > patients[i].ID {
			t.Fatal("expected id order")
		}
	}
}

func TestExists(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	ctx := context.Background()

	res, err := svc.Create(ctx, "Asha Rao")
	if err != nil {
		t.Fatal(err)
	}

	ok, err := svc.Exists(ctx, res.Patient.ID)
	if err != nil || !ok {
		t.Errorf("expected existing patient, got ok=%v err=%v", ok, err)
	}
	ok, err = svc.Exists(ctx, 42)
	if err != nil || ok {
		t.Errorf("expected missing patient, got ok=%v err=%v", ok, err)
	}
}

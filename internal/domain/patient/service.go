package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a patient. A blank name writes nothing and returns a
// Skipped result instead of an error, so callers can keep the success
// contract while reporting that the input was ignored.
func (s *Service) Create(ctx context.Context, name string) (CreateResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CreateResult{Skipped: "name is required"}, nil
	}

	p := &Patient{Name: name}
	if err := s.repo.Create(ctx, p); err != nil {
		return CreateResult{}, fmt.Errorf("create patient: %w", err)
	}
	return CreateResult{Patient: p}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	return s.repo.List(ctx)
}

// Exists reports whether a patient id is registered.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrPatientNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

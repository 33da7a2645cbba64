package payment

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payment
type Repository interface {
	GetOrCreate(ctx context.Context, name string) (*Method, error)
	List(ctx context.Context) ([]*Method, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetOrCreate(ctx context.Context, name string) (*Method, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	m, err := s.repo.GetOrCreate(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolving payment method %q: %w", name, err)
	}

	return m, nil
}

func (s *Service) List(ctx context.Context) ([]*Method, error) {
	return s.repo.List(ctx)
}

// Names maps payment method ids to names.
func (s *Service) Names(ctx context.Context) (map[int64]string, error) {
	methods, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(methods))
	for _, m := range methods {
		names[m.ID] = m.Name
	}

	return names, nil
}

// Delete fails with ErrInUse while any record still references the method.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

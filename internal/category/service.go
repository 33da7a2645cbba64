package category

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	GetOrCreate(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetOrCreate returns the category with the given name, creating it on first use.
// Surrounding whitespace is not part of the name.
func (s *Service) GetOrCreate(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	c, err := s.repo.GetOrCreate(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolving category %q: %w", name, err)
	}

	return c, nil
}

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}

// Names maps category ids to names.
func (s *Service) Names(ctx context.Context) (map[int64]string, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	return names, nil
}

// Delete removes a category. Records that used it become uncategorized and
// its budget items and rules are removed with it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

package matching

import (
	"context"
	"strings"

	"github.com/MrJamesThe3rd/ledger/internal/category"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, note string) (*Rule, error)
	Save(ctx context.Context, pattern string, categoryID int64) (*Rule, error)
	List(ctx context.Context) ([]*Rule, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryResolver interface {
	GetOrCreate(ctx context.Context, name string) (*category.Category, error)
}

type Service struct {
	repo       Repository
	categories CategoryResolver
}

func NewService(repo Repository, categories CategoryResolver) *Service {
	return &Service{repo: repo, categories: categories}
}

// Suggest returns the category name of the longest rule pattern found in note,
// or an empty string when no rule matches.
func (s *Service) Suggest(ctx context.Context, note string) (string, error) {
	if strings.TrimSpace(note) == "" {
		return "", nil
	}

	rule, err := s.repo.FindMatch(ctx, note)
	if err != nil || rule == nil {
		return "", err
	}

	return rule.CategoryName, nil
}

// Learn remembers that notes containing pattern belong to categoryName.
// Learning an existing pattern again re-points it.
func (s *Service) Learn(ctx context.Context, pattern, categoryName string) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	c, err := s.categories.GetOrCreate(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	rule, err := s.repo.Save(ctx, pattern, c.ID)
	if err != nil {
		return nil, err
	}

	rule.CategoryName = c.Name

	return rule, nil
}

func (s *Service) List(ctx context.Context) ([]*Rule, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

package record

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/ledger/internal/category"
	"github.com/MrJamesThe3rd/ledger/internal/payment"
)

const (
	DefaultPaymentMethod = "WeChat"
	DefaultRecentLimit   = 20
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=record
type Repository interface {
	Create(ctx context.Context, r *Record) error
	CreateBatch(ctx context.Context, rs []*Record) error
	Get(ctx context.Context, id int64) (*Record, error)
	Update(ctx context.Context, id int64, changes Changes) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, filter Filter) ([]*Record, error)
}

type CategoryResolver interface {
	GetOrCreate(ctx context.Context, name string) (*category.Category, error)
}

type PaymentMethodResolver interface {
	GetOrCreate(ctx context.Context, name string) (*payment.Method, error)
}

type Service struct {
	repo          Repository
	categories    CategoryResolver
	methods       PaymentMethodResolver
	defaultMethod string
}

type Option func(*Service)

// WithDefaultPaymentMethod sets the method used when a record names none.
func WithDefaultPaymentMethod(name string) Option {
	return func(s *Service) {
		if name = strings.TrimSpace(name); name != "" {
			s.defaultMethod = name
		}
	}
}

func NewService(repo Repository, categories CategoryResolver, methods PaymentMethodResolver, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		categories:    categories,
		methods:       methods,
		defaultMethod: DefaultPaymentMethod,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Type          Type
	Amount        int64
	Date          time.Time
	PaymentMethod string // blank means the default method
	Category      string // blank means uncategorized
	Note          string
}

func (p CreateParams) validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, p.Type)
	}

	if p.Amount < 0 {
		return fmt.Errorf("%w: %d is negative", ErrInvalidAmount, p.Amount)
	}

	if p.Date.IsZero() {
		return fmt.Errorf("%w: missing", ErrInvalidDate)
	}

	return nil
}

// UpdateParams names the fields to change. A non-nil Category must not be
// blank; use ClearCategory to make a record uncategorized.
type UpdateParams struct {
	Type          *Type
	Amount        *int64
	Date          *time.Time
	PaymentMethod *string
	Category      *string
	ClearCategory bool
	Note          *string
}

func (p UpdateParams) IsZero() bool {
	return p.Type == nil &&
		p.Amount == nil &&
		p.Date == nil &&
		p.PaymentMethod == nil &&
		p.Category == nil &&
		!p.ClearCategory &&
		p.Note == nil
}

func (s *Service) Add(ctx context.Context, params CreateParams) (*Record, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	r, err := s.resolve(ctx, params, newNameCache())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

// AddBatch validates every entry before writing any, then stores them in one transaction.
func (s *Service) AddBatch(ctx context.Context, params []CreateParams) ([]*Record, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i, p := range params {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	cache := newNameCache()
	records := make([]*Record, 0, len(params))

	for _, p := range params {
		r, err := s.resolve(ctx, p, cache)
		if err != nil {
			return nil, err
		}

		records = append(records, r)
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("creating records: %w", err)
	}

	return records, nil
}

// Update applies the given changes. Updating an unknown id is a no-op,
// and so is an update with no fields set.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) error {
	if params.IsZero() {
		return nil
	}

	var changes Changes

	if params.Type != nil {
		if !params.Type.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidType, *params.Type)
		}

		changes.Type = params.Type
	}

	if params.Amount != nil {
		if *params.Amount < 0 {
			return fmt.Errorf("%w: %d is negative", ErrInvalidAmount, *params.Amount)
		}

		changes.Amount = params.Amount
	}

	if params.Date != nil {
		if params.Date.IsZero() {
			return fmt.Errorf("%w: missing", ErrInvalidDate)
		}

		changes.Date = params.Date
	}

	changes.Note = params.Note

	// Names are checked up front so a rejected update never creates a method or category.
	if params.PaymentMethod != nil && strings.TrimSpace(*params.PaymentMethod) == "" {
		return payment.ErrEmptyName
	}

	if params.Category != nil && !params.ClearCategory && strings.TrimSpace(*params.Category) == "" {
		return category.ErrEmptyName
	}

	if params.PaymentMethod != nil {
		m, err := s.methods.GetOrCreate(ctx, *params.PaymentMethod)
		if err != nil {
			return err
		}

		changes.PaymentMethodID = &m.ID
	}

	switch {
	case params.ClearCategory:
		changes.ClearCategory = true
	case params.Category != nil:
		c, err := s.categories.GetOrCreate(ctx, *params.Category)
		if err != nil {
			return err
		}

		changes.CategoryID = &c.ID
	}

	return s.repo.Update(ctx, id, changes)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	return s.repo.Get(ctx, id)
}

// ListRecent returns the newest records first. A non-positive limit means DefaultRecentLimit.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	return s.repo.Search(ctx, Filter{Limit: limit, Order: OrderDateDesc})
}

func (s *Service) Search(ctx context.Context, filter Filter) ([]*Record, error) {
	return s.repo.Search(ctx, filter)
}

// nameCache avoids resolving the same names repeatedly within a batch.
type nameCache struct {
	categories map[string]int64
	methods    map[string]int64
}

func newNameCache() *nameCache {
	return &nameCache{
		categories: make(map[string]int64),
		methods:    make(map[string]int64),
	}
}

func (s *Service) resolve(ctx context.Context, p CreateParams, cache *nameCache) (*Record, error) {
	methodName := strings.TrimSpace(p.PaymentMethod)
	if methodName == "" {
		methodName = s.defaultMethod
	}

	methodID, ok := cache.methods[methodName]
	if !ok {
		m, err := s.methods.GetOrCreate(ctx, methodName)
		if err != nil {
			return nil, err
		}

		methodID = m.ID
		cache.methods[methodName] = methodID
	}

	r := &Record{
		Type:            p.Type,
		Amount:          p.Amount,
		Date:            p.Date,
		PaymentMethodID: methodID,
		Note:            p.Note,
	}

	categoryName := strings.TrimSpace(p.Category)
	if categoryName == "" {
		return r, nil
	}

	categoryID, ok := cache.categories[categoryName]
	if !ok {
		c, err := s.categories.GetOrCreate(ctx, categoryName)
		if err != nil {
			return nil, err
		}

		categoryID = c.ID
		cache.categories[categoryName] = categoryID
	}

	r.CategoryID = &categoryID

	return r, nil
}

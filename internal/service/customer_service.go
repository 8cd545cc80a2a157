package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/okellodaniel/customerbase/internal/cache"
	"github.com/okellodaniel/customerbase/internal/models"
	"github.com/okellodaniel/customerbase/internal/repository"
	"github.com/okellodaniel/customerbase/internal/seed"
)

// cacheTTL bounds how stale a cached list page can get even without
// mutations (another process may write directly to the database)
const cacheTTL = 30 * time.Second

// CustomerService handles customer business logic
type CustomerService interface {
	List(ctx context.Context, skip, limit int) (*models.ListResult, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	Create(ctx context.Context, draft *models.CustomerDraft) (*models.Customer, error)
	Update(ctx context.Context, id int64, patch *models.CustomerPatch) (*models.Customer, error)
	Delete(ctx context.Context, id int64) (*models.Customer, error)
	Populate(ctx context.Context, count int, force bool) (*PopulateResult, error)
	Clear(ctx context.Context) error
}

// PopulateResult reports what the populate operation did
type PopulateResult struct {
	Message string `json:"message"`
	Added   int    `json:"added"`
	Total   int64  `json:"total"`
}

type customerService struct {
	customerRepo repository.CustomerRepository
	pageCache    cache.PageCache
	logger       *slog.Logger
}

// NewCustomerService creates a new customer service. pageCache may be nil,
// in which case every list goes to the database.
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	pageCache cache.PageCache,
	logger *slog.Logger,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		pageCache:    pageCache,
		logger:       logger,
	}
}

// List retrieves one page of customers, served from the cache when possible
func (s *customerService) List(ctx context.Context, skip, limit int) (*models.ListResult, error) {
	models.ClampListParams(&skip, &limit)

	key := fmt.Sprintf("%d:%d", skip, limit)
	if s.pageCache != nil {
		var cached models.ListResult
		hit, err := s.pageCache.Get(ctx, key, &cached)
		if err != nil {
			// A broken cache must not take down reads
			s.logger.Warn("cache read failed", slog.String("error", err.Error()))
		} else if hit {
			return &cached, nil
		}
	}

	customers, totalCount, err := s.customerRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	result := &models.ListResult{
		Records: customers,
		Total:   totalCount,
		Skip:    skip,
		Limit:   limit,
	}

	if s.pageCache != nil {
		if err := s.pageCache.Set(ctx, key, result, cacheTTL); err != nil {
			s.logger.Warn("cache write failed", slog.String("error", err.Error()))
		}
	}

	return result, nil
}

// GetByID retrieves a customer by ID
func (s *customerService) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

// Create validates and stores a new customer
func (s *customerService) Create(ctx context.Context, draft *models.CustomerDraft) (*models.Customer, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	// Check if a customer with this email already exists
	existing, err := s.customerRepo.GetByEmail(ctx, draft.Email)
	if err == nil && existing != nil {
		return nil, models.ErrConflictWithMsg(
			fmt.Sprintf("customer with email %s already exists", draft.Email),
		)
	}

	customer := &models.Customer{
		Name:  draft.Name,
		Email: draft.Email,
		Age:   draft.Age,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.logger.Error("failed to create customer",
			slog.String("email", draft.Email),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.invalidatePages(ctx)

	s.logger.Info("customer created",
		slog.Int64("customer_id", customer.ID),
		slog.String("email", customer.Email),
	)

	return customer, nil
}

// Update applies a partial update to an existing customer. An empty patch
// is a no-op that returns the stored record unchanged.
func (s *customerService) Update(ctx context.Context, id int64, patch *models.CustomerPatch) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Empty() {
		return customer, nil
	}

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	patch.Apply(customer)

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		s.logger.Error("failed to update customer",
			slog.Int64("customer_id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.invalidatePages(ctx)

	s.logger.Info("customer updated",
		slog.Int64("customer_id", id),
	)

	return customer, nil
}

// Delete removes a customer and returns the deleted record
func (s *customerService) Delete(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.customerRepo.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to delete customer",
				slog.Int64("customer_id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.invalidatePages(ctx)

	s.logger.Info("customer deleted",
		slog.Int64("customer_id", id),
	)

	return customer, nil
}

// Populate fills the customers table with generated records. Unless force
// is set it only runs against an empty table.
func (s *customerService) Populate(ctx context.Context, count int, force bool) (*PopulateResult, error) {
	current, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	if current > 0 && !force {
		return &PopulateResult{
			Message: fmt.Sprintf("database is not empty (found %d customers), populate skipped; use force=true to override", current),
			Added:   0,
			Total:   current,
		}, nil
	}

	taken, err := s.customerRepo.ListEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing emails: %w", err)
	}

	customers := seed.NewGenerator(taken).Customers(count)
	if err := s.customerRepo.CreateBatch(ctx, customers); err != nil {
		return nil, fmt.Errorf("failed to insert generated customers: %w", err)
	}

	s.invalidatePages(ctx)

	total, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	s.logger.Info("database populated",
		slog.Int("added", len(customers)),
		slog.Int64("total", total),
	)

	return &PopulateResult{
		Message: fmt.Sprintf("added %d customers, new total %d", len(customers), total),
		Added:   len(customers),
		Total:   total,
	}, nil
}

// Clear truncates the customers table
func (s *customerService) Clear(ctx context.Context) error {
	if err := s.customerRepo.Truncate(ctx); err != nil {
		s.logger.Error("failed to clear customers", slog.String("error", err.Error()))
		return err
	}

	s.invalidatePages(ctx)

	s.logger.Info("customers cleared")

	return nil
}

// invalidatePages drops all cached list pages after a mutation
func (s *customerService) invalidatePages(ctx context.Context) {
	if s.pageCache == nil {
		return
	}
	if err := s.pageCache.Flush(ctx); err != nil {
		s.logger.Warn("cache flush failed", slog.String("error", err.Error()))
	}
}

package services

import (
	"context"
	"errors"
	"sync"

	apperrors "auctiontracker/internal/errors"
	"auctiontracker/internal/finance"
	"auctiontracker/internal/models"
	"auctiontracker/internal/pagination"
	"auctiontracker/internal/repository"
)

// propertyService scopes the property store to the authenticated owner.
type propertyService struct {
	repo  repository.PropertyRepository
	users UserServicer

	// createMu makes the plan-limit check and the insert one step within
	// this process. Separate API replicas can still race past the limit.
	createMu sync.Mutex
}

// NewPropertyService creates a new PropertyServicer.
func NewPropertyService(repo repository.PropertyRepository, users UserServicer) PropertyServicer {
	return &propertyService{repo: repo, users: users}
}

// CreateProperty stores a new property for userID, enforcing the property
// limit of the user's subscription plan. Concurrent creates are serialized so
// they cannot both pass the limit check.
func (s *propertyService) CreateProperty(ctx context.Context, userID string, in models.PropertyInput) (*models.Property, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	if limit := user.SubscriptionPlan.PropertyLimit(); limit > 0 {
		owned, err := s.repo.ListByOwner(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(owned) >= limit {
			return nil, apperrors.ErrPlanLimitReached
		}
	}

	return s.repo.Create(ctx, in, userID)
}

// ListProperties returns the user's properties in insertion order, filtered.
func (s *propertyService) ListProperties(ctx context.Context, userID string, filter PropertyFilter) ([]models.Property, error) {
	all, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := all[:0]
	for _, p := range all {
		if filter.matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetUserProperties returns one page of the user's filtered properties.
func (s *propertyService) GetUserProperties(ctx context.Context, userID string, filter PropertyFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Property], error) {
	page.Defaults()

	props, err := s.ListProperties(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	resp := pagination.Slice(props, page)
	return &resp, nil
}

// GetPropertyByID returns a property owned by userID. Properties of other
// owners are reported as not found.
func (s *propertyService) GetPropertyByID(ctx context.Context, userID, propertyID string) (*models.Property, error) {
	p, err := s.repo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, apperrors.ErrPropertyNotFound
	}
	return p, nil
}

// UpdateProperty applies a partial update to a property owned by userID.
func (s *propertyService) UpdateProperty(ctx context.Context, userID, propertyID string, patch models.PropertyPatch) (*models.Property, error) {
	current, err := s.GetPropertyByID(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	if patch.ActualSalePrice.Value != nil && *patch.ActualSalePrice.Value < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "actual_sale_price must not be negative")
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, propertyID, patch)
	if err != nil {
		if errors.Is(err, apperrors.ErrPropertyNotFound) {
			return nil, apperrors.ErrPropertyNotFound
		}
		return nil, err
	}
	return updated, nil
}

// GetDashboard aggregates the user's whole portfolio.
func (s *propertyService) GetDashboard(ctx context.Context, userID string) (*finance.PortfolioSummary, error) {
	props, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := finance.Summarize(props)
	return &summary, nil
}

func (f PropertyFilter) matches(p models.Property) bool {
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	// Auction dates are ISO-8601 so string comparison orders them.
	if f.AuctionFrom != nil && (p.AuctionDate == "" || p.AuctionDate < *f.AuctionFrom) {
		return false
	}
	if f.AuctionTo != nil && (p.AuctionDate == "" || p.AuctionDate > *f.AuctionTo) {
		return false
	}
	return true
}

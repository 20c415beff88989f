package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "auctiontracker/internal/errors"
	"auctiontracker/internal/models"
	"auctiontracker/internal/pagination"
	"auctiontracker/internal/repository"
)

// adminService backs the administrator panel.
type adminService struct {
	db   *gorm.DB
	repo repository.PropertyRepository
}

// NewAdminService creates a new AdminServicer.
func NewAdminService(db *gorm.DB, repo repository.PropertyRepository) AdminServicer {
	return &adminService{db: db, repo: repo}
}

// ListUsers returns a page of users with the number of properties each holds.
func (s *adminService) ListUsers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[UserWithPropertyCount], error) {
	page.Defaults()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at, id").Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	counts, err := s.repo.CountByOwner(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserWithPropertyCount, len(users))
	for i, u := range users {
		out[i] = UserWithPropertyCount{User: u, PropertyCount: counts[u.ID]}
	}

	resp := pagination.NewPageResponse(out, page.Page, page.PageSize, total)
	return &resp, nil
}

// ListAllProperties returns a page of every property in the system.
func (s *adminService) ListAllProperties(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Property], error) {
	props, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := pagination.Slice(props, page)
	return &resp, nil
}

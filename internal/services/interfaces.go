package services

import (
	"context"

	"auctiontracker/internal/finance"
	"auctiontracker/internal/models"
	"auctiontracker/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	EnsureAdmin(email, password string) (*models.User, error)
	// OnFirstSignUp registers a callback run once, after the first regular
	// user account is created.
	OnFirstSignUp(fn func(user *models.User))
}

// PropertyFilter holds optional filter parameters for listing properties.
type PropertyFilter struct {
	Status      *models.PropertyStatus
	AuctionFrom *string // YYYY-MM-DD, inclusive
	AuctionTo   *string // YYYY-MM-DD, inclusive
}

// PropertyServicer defines the contract for owner-scoped property operations.
type PropertyServicer interface {
	CreateProperty(ctx context.Context, userID string, in models.PropertyInput) (*models.Property, error)
	ListProperties(ctx context.Context, userID string, filter PropertyFilter) ([]models.Property, error)
	GetUserProperties(ctx context.Context, userID string, filter PropertyFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Property], error)
	GetPropertyByID(ctx context.Context, userID, propertyID string) (*models.Property, error)
	UpdateProperty(ctx context.Context, userID, propertyID string, patch models.PropertyPatch) (*models.Property, error)
	GetDashboard(ctx context.Context, userID string) (*finance.PortfolioSummary, error)
}

// UserWithPropertyCount is a user as listed on the admin panel.
type UserWithPropertyCount struct {
	models.User
	PropertyCount int64 `json:"property_count"`
}

// AdminServicer defines the contract for the administrator views.
type AdminServicer interface {
	ListUsers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[UserWithPropertyCount], error)
	ListAllProperties(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Property], error)
}

// AnalysisServicer produces the AI-written investment analysis of a property.
type AnalysisServicer interface {
	Enabled() bool
	AnalyzeProperty(ctx context.Context, property *models.Property) string
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

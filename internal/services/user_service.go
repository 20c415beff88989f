package services

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "auctiontracker/internal/errors"
	"auctiontracker/internal/logger"
	"auctiontracker/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB

	mu          sync.Mutex
	firstSignUp func(user *models.User)
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// OnFirstSignUp sets the callback run after the first regular user signs up.
func (s *userService) OnFirstSignUp(fn func(user *models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.firstSignUp = fn
}

// CreateUser registers a new user on the Basic plan.
func (s *userService) CreateUser(name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name, email and password are required")
	}

	user, hook, err := s.insertRegularUser(name, email, password)
	if err != nil {
		return nil, err
	}
	if hook != nil {
		hook(user)
	}
	return user, nil
}

// insertRegularUser creates the user under the service lock and returns the
// first sign-up callback when this is the first regular account.
func (s *userService) insertRegularUser(name, email, password string) (*models.User, func(*models.User), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, nil, apperrors.ErrDuplicateEmail
	}

	var regularUsers int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.UserRoleUser).Count(&regularUsers).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Name:             name,
		Email:            email,
		Password:         string(hashedPassword),
		Role:             models.UserRoleUser,
		SubscriptionPlan: models.SubscriptionPlanBasic,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if regularUsers == 0 {
		return user, s.firstSignUp, nil
	}
	return user, nil, nil
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin returns the user when the credentials match. Unknown emails and
// wrong passwords produce the same error.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.VerifyPassword(user, password) {
		logger.Get().Infow("failed login", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin makes sure an administrator account exists for email. An
// existing account is promoted; otherwise one is created on the Pro plan.
func (s *userService) EnsureAdmin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	switch {
	case err == nil:
		if user.IsAdmin() {
			return user, nil
		}
		if err := s.db.Model(user).Update("role", models.UserRoleAdmin).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		user.Role = models.UserRoleAdmin
		return user, nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return nil, err
	}

	if password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "admin password is required")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user = &models.User{
		Name:             "Admin",
		Email:            strings.ToLower(strings.TrimSpace(email)),
		Password:         string(hashedPassword),
		Role:             models.UserRoleAdmin,
		SubscriptionPlan: models.SubscriptionPlanPro,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

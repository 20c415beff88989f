package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"auctiontracker/internal/models"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a Basic-plan user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a Basic-plan user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	return createUser(t, db, email, models.UserRoleUser, models.SubscriptionPlanBasic)
}

// CreateTestUserWithPlan creates a user on the given subscription plan.
func CreateTestUserWithPlan(t *testing.T, db *gorm.DB, plan models.SubscriptionPlan) *models.User {
	t.Helper()
	return createUser(t, db, fmt.Sprintf("user%d@test.com", nextID()), models.UserRoleUser, plan)
}

// CreateTestAdmin creates an administrator on the Pro plan.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, fmt.Sprintf("admin%d@test.com", nextID()), models.UserRoleAdmin, models.SubscriptionPlanPro)
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.UserRole, plan models.SubscriptionPlan) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:             fmt.Sprintf("Test User %d", nextID()),
		Email:            email,
		Password:         string(hash),
		Role:             role,
		SubscriptionPlan: plan,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// TestPropertyInput returns a valid property input with expected costs
// summing to 70000 and no sale recorded.
func TestPropertyInput() models.PropertyInput {
	return models.PropertyInput{
		Title:              fmt.Sprintf("Test Property %d", nextID()),
		Address:            "Rua Teste, 100",
		Type:               models.PropertyTypeApartment,
		AuctionDate:        "2024-05-10",
		Situation:          models.PropertySituationUnoccupied,
		PurchaseValue:      250000,
		EvaluationValue:    400000,
		ExpectedCosts:      models.CostBucket{Reform: 50000, Legal: 5000, ITBI: 7500, Deed: 2500, Vacating: 0, Extra: 5000},
		EstimatedSalePrice: 450000,
		Status:             models.PropertyStatusAnalysis,
	}
}

// CreateTestProperty inserts a property built from TestPropertyInput for the owner.
func CreateTestProperty(t *testing.T, db *gorm.DB, ownerID string) *models.Property {
	t.Helper()

	p := models.NewProperty(TestPropertyInput(), ownerID, "", time.Now().UTC())
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to create test property: %v", err)
	}
	return &p
}

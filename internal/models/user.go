package models

// UserRole distinguishes regular investors from administrators.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// SubscriptionPlan is the plan a user is subscribed to.
type SubscriptionPlan string

const (
	SubscriptionPlanBasic   SubscriptionPlan = "Básico"
	SubscriptionPlanPro     SubscriptionPlan = "Pro"
	SubscriptionPlanPremium SubscriptionPlan = "Premium"
)

// basicPlanPropertyLimit is the number of properties a Basic subscriber may register.
const basicPlanPropertyLimit = 5

// PropertyLimit returns the maximum number of properties allowed by the plan.
// Zero means unlimited.
func (p SubscriptionPlan) PropertyLimit() int {
	if p == SubscriptionPlanBasic {
		return basicPlanPropertyLimit
	}
	return 0
}

// User represents the user model in the database
type User struct {
	Base
	Name             string           `gorm:"not null" json:"name"`
	Email            string           `gorm:"uniqueIndex;not null" json:"email"`
	Password         string           `gorm:"not null" json:"-"`
	Role             UserRole         `gorm:"not null;default:user" json:"role"`
	SubscriptionPlan SubscriptionPlan `gorm:"not null" json:"subscription_plan"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"auctiontracker/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom tags on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("property_type", validatePropertyType)
	_ = v.RegisterValidation("property_situation", validatePropertySituation)
	_ = v.RegisterValidation("property_status", validatePropertyStatus)
	_ = v.RegisterValidation("subscription_plan", validateSubscriptionPlan)
}

func validatePropertyType(fl validator.FieldLevel) bool {
	switch models.PropertyType(fl.Field().String()) {
	case models.PropertyTypeApartment, models.PropertyTypeHouse,
		models.PropertyTypeCommercial, models.PropertyTypeLand:
		return true
	}
	return false
}

func validatePropertySituation(fl validator.FieldLevel) bool {
	switch models.PropertySituation(fl.Field().String()) {
	case models.PropertySituationOccupied, models.PropertySituationUnoccupied:
		return true
	}
	return false
}

func validatePropertyStatus(fl validator.FieldLevel) bool {
	status := models.PropertyStatus(fl.Field().String())
	for _, s := range models.PropertyStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func validateSubscriptionPlan(fl validator.FieldLevel) bool {
	switch models.SubscriptionPlan(fl.Field().String()) {
	case models.SubscriptionPlanBasic, models.SubscriptionPlanPro, models.SubscriptionPlanPremium:
		return true
	}
	return false
}

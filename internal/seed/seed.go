// Package seed installs the startup data: the administrator account and,
// optionally, the sample portfolio handed to the first investor who signs up.
package seed

import (
	"context"
	"fmt"

	"auctiontracker/internal/config"
	"auctiontracker/internal/logger"
	"auctiontracker/internal/models"
	"auctiontracker/internal/repository"
	"auctiontracker/internal/services"
)

// Seeder writes the startup data through the user service and property store.
type Seeder struct {
	users services.UserServicer
	repo  repository.PropertyRepository
}

// New creates a Seeder.
func New(users services.UserServicer, repo repository.PropertyRepository) *Seeder {
	return &Seeder{users: users, repo: repo}
}

// Run ensures the administrator exists and, when enabled, installs the demo
// portfolio hook.
func (s *Seeder) Run(cfg *config.Config) error {
	if cfg.AdminEmail != "" {
		admin, err := s.users.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to ensure admin account: %w", err)
		}
		logger.Get().Infow("admin account ready", "user_id", admin.ID, "email", admin.Email)
	}

	if cfg.SeedDemoData {
		s.InstallDemoData()
	}
	return nil
}

// InstallDemoData gives the demo portfolio to the first regular user who
// signs up. Later sign-ups start empty.
func (s *Seeder) InstallDemoData() {
	s.users.OnFirstSignUp(func(user *models.User) {
		if err := s.CreateDemoProperties(context.Background(), user.ID); err != nil {
			logger.Get().Errorw("failed to seed demo properties", "user_id", user.ID, "error", err)
		}
	})
}

// CreateDemoProperties stores every demo property for ownerID.
func (s *Seeder) CreateDemoProperties(ctx context.Context, ownerID string) error {
	for _, in := range DemoProperties() {
		p, err := s.repo.Create(ctx, in, ownerID)
		if err != nil {
			return fmt.Errorf("create %q: %w", in.Title, err)
		}
		logger.Get().Debugw("demo property created", "property_id", p.ID, "user_id", ownerID)
	}
	return nil
}

// DemoProperties returns the sample portfolio: one finished flip and one
// property still under renovation.
func DemoProperties() []models.PropertyInput {
	sold := 480000.0
	return []models.PropertyInput{
		{
			Title:               "Apartamento em Copacabana",
			Address:             "Av. Atlântica, 1702, Rio de Janeiro, RJ",
			Type:                models.PropertyTypeApartment,
			AuctionNoticeNumber: "2024/001",
			Auctioneer:          "Leilões & Cia",
			AuctionLink:         "http://example.com/leilao1",
			AuctionDate:         "2024-05-10",
			Situation:           models.PropertySituationOccupied,
			PurchaseValue:       250000,
			EvaluationValue:     400000,
			ExpectedCosts:       models.CostBucket{Reform: 30000, Legal: 15000, ITBI: 7500, Deed: 2500, Vacating: 10000, Extra: 5000},
			ExecutedCosts:       models.CostBucket{Reform: 35000, Legal: 14000, ITBI: 7500, Deed: 2600, Vacating: 12000, Extra: 4000},
			EstimatedSalePrice:  450000,
			ActualSalePrice:     &sold,
			Status:              models.PropertyStatusSold,
		},
		{
			Title:               "Casa no Morumbi",
			Address:             "Rua dos Bobos, 0, São Paulo, SP",
			Type:                models.PropertyTypeHouse,
			AuctionNoticeNumber: "2024/002",
			Auctioneer:          "Lance Certo",
			AuctionLink:         "http://example.com/leilao2",
			AuctionDate:         "2024-06-15",
			Situation:           models.PropertySituationUnoccupied,
			PurchaseValue:       600000,
			EvaluationValue:     900000,
			ExpectedCosts:       models.CostBucket{Reform: 80000, Legal: 25000, ITBI: 18000, Deed: 4000, Vacating: 0, Extra: 10000},
			EstimatedSalePrice:  1100000,
			Status:              models.PropertyStatusRenovation,
		},
	}
}

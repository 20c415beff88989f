package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	apperrors "auctiontracker/internal/errors"
	"auctiontracker/internal/models"
	"auctiontracker/internal/pagination"
	"auctiontracker/internal/repository"
	"auctiontracker/internal/testutil"
)

func setupPropertyService(t *testing.T) (PropertyServicer, repository.PropertyRepository, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	repo := repository.NewMemoryPropertyRepository()
	return NewPropertyService(repo, NewUserService(db)), repo, db
}

func statusPtr(s models.PropertyStatus) *models.PropertyStatus { return &s }
func strPtr(s string) *string                                  { return &s }
func floatPtr(v float64) *float64                              { return &v }

func TestCreateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		svc, _, db := setupPropertyService(t)
		user := testutil.CreateTestUser(t, db)

		p, err := svc.CreateProperty(ctx, user.ID, testutil.TestPropertyInput())
		testutil.AssertNoError(t, err)

		if p.UserID != user.ID {
			t.Errorf("expected owner %s, got %s", user.ID, p.UserID)
		}
		if p.ID == "" || p.CreatedAt.IsZero() {
			t.Error("expected store-assigned id and creation time")
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		svc, _, _ := setupPropertyService(t)

		_, err := svc.CreateProperty(ctx, "0190a5b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b", testutil.TestPropertyInput())
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("basic_plan_limit", func(t *testing.T) {
		svc, _, db := setupPropertyService(t)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			_, err := svc.CreateProperty(ctx, user.ID, testutil.TestPropertyInput())
			testutil.AssertNoError(t, err)
		}

		_, err := svc.CreateProperty(ctx, user.ID, testutil.TestPropertyInput())
		testutil.AssertAppError(t, err, "PLAN_LIMIT_REACHED")
	})

	t.Run("pro_plan_unlimited", func(t *testing.T) {
		svc, _, db := setupPropertyService(t)
		user := testutil.CreateTestUserWithPlan(t, db, models.SubscriptionPlanPro)

		for i := 0; i < 7; i++ {
			_, err := svc.CreateProperty(ctx, user.ID, testutil.TestPropertyInput())
			testutil.AssertNoError(t, err)
		}
	})
}

func TestGetPropertyByID(t *testing.T) {
	ctx := context.Background()
	svc, _, db := setupPropertyService(t)
	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	created, err := svc.CreateProperty(ctx, owner.ID, testutil.TestPropertyInput())
	testutil.AssertNoError(t, err)

	t.Run("owner", func(t *testing.T) {
		p, err := svc.GetPropertyByID(ctx, owner.ID, created.ID)
		testutil.AssertNoError(t, err)
		if p.Title != created.Title {
			t.Errorf("expected title %q, got %q", created.Title, p.Title)
		}
	})

	t.Run("other_owner_is_not_found", func(t *testing.T) {
		_, err := svc.GetPropertyByID(ctx, other.ID, created.ID)
		testutil.AssertAppError(t, err, "PROPERTY_NOT_FOUND")
	})

	t.Run("unknown_id", func(t *testing.T) {
		_, err := svc.GetPropertyByID(ctx, owner.ID, "0190a5b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b")
		testutil.AssertAppError(t, err, "PROPERTY_NOT_FOUND")
	})
}

func TestUpdateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("marks_sold", func(t *testing.T) {
		svc, _, db := setupPropertyService(t)
		user := testutil.CreateTestUser(t, db)
		created, _ := svc.CreateProperty(ctx, user.ID, testutil.TestPropertyInput())

		updated, err := svc.UpdateProperty(ctx, user.ID, created.ID, models.PropertyPatch{
			Status:          statusPtr(models.PropertyStatusSold),
			ActualSalePrice: models.NullableOf(480000.0),
		})
		testutil.AssertNoError(t, err)

		if updated.Status != models.PropertyStatusSold {
			t.Errorf("expected status sold, got %s", updated.Status)
		}
		if updated.ActualSalePrice == nil || *updated.ActualSalePrice != 480000 {
			t.Errorf("expected actual sale price 480000, got %v", updated.ActualSalePrice)
		}
		if updated.Title != created.Title {
			t.Error("fields not in the patch must be kept")
		}
	})

	t.Run("other_owner", func(t *testing.T) {
		svc, _, db := setupPropertyService(t)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		created, _ := svc.CreateProperty(ctx, owner.ID, testutil.TestPropertyInput())

		_, err := svc.UpdateProperty(ctx, other.ID, created.ID, models.PropertyPatch{Title: strPtr("mine now")})
		testutil.AssertAppError(t, err, "PROPERTY_NOT_FOUND")
	})

	t.Run("negative_sale_price", func(t *testing.T) {
		svc, _, db := setupPropertyService(t)
		user := testutil.CreateTestUser(t, db)
		created, _ := svc.CreateProperty(ctx, user.ID, testutil.TestPropertyInput())

		_, err := svc.UpdateProperty(ctx, user.ID, created.ID, models.PropertyPatch{ActualSalePrice: models.NullableOf(-1.0)})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_patch_is_noop", func(t *testing.T) {
		svc, _, db := setupPropertyService(t)
		user := testutil.CreateTestUser(t, db)
		created, _ := svc.CreateProperty(ctx, user.ID, testutil.TestPropertyInput())

		same, err := svc.UpdateProperty(ctx, user.ID, created.ID, models.PropertyPatch{})
		testutil.AssertNoError(t, err)
		if same.ID != created.ID || same.Title != created.Title {
			t.Errorf("expected unchanged property, got %+v", same)
		}
	})
}

func TestGetUserProperties(t *testing.T) {
	ctx := context.Background()
	svc, _, db := setupPropertyService(t)
	user := testutil.CreateTestUserWithPlan(t, db, models.SubscriptionPlanPremium)
	other := testutil.CreateTestUser(t, db)

	dates := []string{"2024-01-15", "2024-03-01", "2024-06-20", ""}
	var ids []string
	for i, d := range dates {
		in := testutil.TestPropertyInput()
		in.AuctionDate = d
		if i == 1 {
			in.Status = models.PropertyStatusSold
			in.ActualSalePrice = floatPtr(500000)
		}
		p, err := svc.CreateProperty(ctx, user.ID, in)
		testutil.AssertNoError(t, err)
		ids = append(ids, p.ID)
	}
	_, err := svc.CreateProperty(ctx, other.ID, testutil.TestPropertyInput())
	testutil.AssertNoError(t, err)

	t.Run("insertion_order", func(t *testing.T) {
		page, err := svc.GetUserProperties(ctx, user.ID, PropertyFilter{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 4 {
			t.Fatalf("expected 4 properties, got %d", page.TotalItems)
		}
		for i, p := range page.Data {
			if p.ID != ids[i] {
				t.Errorf("position %d: expected %s, got %s", i, ids[i], p.ID)
			}
		}
	})

	t.Run("status_filter", func(t *testing.T) {
		page, err := svc.GetUserProperties(ctx, user.ID, PropertyFilter{Status: statusPtr(models.PropertyStatusSold)}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if len(page.Data) != 1 || page.Data[0].ID != ids[1] {
			t.Errorf("expected only the sold property, got %+v", page.Data)
		}
	})

	t.Run("auction_date_range", func(t *testing.T) {
		filter := PropertyFilter{AuctionFrom: strPtr("2024-02-01"), AuctionTo: strPtr("2024-06-20")}
		props, err := svc.ListProperties(ctx, user.ID, filter)
		testutil.AssertNoError(t, err)

		if len(props) != 2 || props[0].ID != ids[1] || props[1].ID != ids[2] {
			t.Errorf("expected properties 1 and 2, got %d results", len(props))
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := svc.GetUserProperties(ctx, user.ID, PropertyFilter{}, pagination.PageRequest{Page: 2, PageSize: 3})
		testutil.AssertNoError(t, err)

		if len(page.Data) != 1 || page.Data[0].ID != ids[3] {
			t.Errorf("expected last property on page 2, got %+v", page.Data)
		}
		if page.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", page.TotalPages)
		}
	})
}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()
	svc, _, db := setupPropertyService(t)
	user := testutil.CreateTestUser(t, db)

	_, err := svc.CreateProperty(ctx, user.ID, testutil.TestPropertyInput())
	testutil.AssertNoError(t, err)

	sold := testutil.TestPropertyInput()
	sold.Status = models.PropertyStatusSold
	sold.ExecutedCosts = sold.ExpectedCosts
	sold.ActualSalePrice = floatPtr(400000)
	_, err = svc.CreateProperty(ctx, user.ID, sold)
	testutil.AssertNoError(t, err)

	summary, err := svc.GetDashboard(ctx, user.ID)
	testutil.AssertNoError(t, err)

	if summary.PropertyCount != 2 || summary.SoldCount != 1 {
		t.Errorf("expected 2 properties and 1 sold, got %d and %d", summary.PropertyCount, summary.SoldCount)
	}
	if summary.TotalProjectedProfit != 260000 {
		t.Errorf("expected total projected profit 260000, got %v", summary.TotalProjectedProfit)
	}
	if summary.TotalActualProfit != 80000 {
		t.Errorf("expected total actual profit 80000, got %v", summary.TotalActualProfit)
	}
}

// fixedUserService resolves every id to the same user.
type fixedUserService struct {
	UserServicer
	user *models.User
}

func (s fixedUserService) GetUserByID(string) (*models.User, error) {
	return s.user, nil
}

func TestCreateProperty_ConcurrentCreatesRespectPlanLimit(t *testing.T) {
	ctx := context.Background()
	user := &models.User{Base: models.Base{ID: "0190a5b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b"}, SubscriptionPlan: models.SubscriptionPlanBasic}
	repo := repository.NewMemoryPropertyRepository()
	svc := NewPropertyService(repo, fixedUserService{user: user})

	const attempts = 12
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateProperty(ctx, user.ID, testutil.TestPropertyInput())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, apperrors.ErrPlanLimitReached):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	limit := models.SubscriptionPlanBasic.PropertyLimit()
	if created != limit || rejected != attempts-limit {
		t.Errorf("expected %d created and %d rejected, got %d and %d", limit, attempts-limit, created, rejected)
	}

	owned, err := repo.ListByOwner(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if len(owned) != limit {
		t.Errorf("expected %d stored properties, got %d", limit, len(owned))
	}
}

package services

import (
	"context"
	"testing"

	"auctiontracker/internal/pagination"
	"auctiontracker/internal/repository"
	"auctiontracker/internal/testutil"
)

func TestAdminService(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := repository.NewMemoryPropertyRepository()
	props := NewPropertyService(repo, NewUserService(db))
	svc := NewAdminService(db, repo)

	admin := testutil.CreateTestAdmin(t, db)
	alice := testutil.CreateTestUser(t, db)
	bob := testutil.CreateTestUser(t, db)
	for i := 0; i < 2; i++ {
		_, err := props.CreateProperty(ctx, alice.ID, testutil.TestPropertyInput())
		testutil.AssertNoError(t, err)
	}
	_, err := props.CreateProperty(ctx, bob.ID, testutil.TestPropertyInput())
	testutil.AssertNoError(t, err)

	t.Run("users_with_counts", func(t *testing.T) {
		page, err := svc.ListUsers(ctx, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 3 {
			t.Fatalf("expected 3 users, got %d", page.TotalItems)
		}
		want := map[string]int64{admin.ID: 0, alice.ID: 2, bob.ID: 1}
		for _, u := range page.Data {
			if u.PropertyCount != want[u.ID] {
				t.Errorf("user %s: expected %d properties, got %d", u.Email, want[u.ID], u.PropertyCount)
			}
		}
	})

	t.Run("users_paginated", func(t *testing.T) {
		page, err := svc.ListUsers(ctx, pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)

		if len(page.Data) != 1 || page.TotalPages != 2 {
			t.Errorf("expected 1 user on page 2 of 2, got %d of %d", len(page.Data), page.TotalPages)
		}
	})

	t.Run("all_properties", func(t *testing.T) {
		page, err := svc.ListAllProperties(ctx, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 3 {
			t.Errorf("expected 3 properties, got %d", page.TotalItems)
		}
	})
}

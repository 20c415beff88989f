package services

import (
	"testing"

	"auctiontracker/internal/models"
	"auctiontracker/internal/testutil"
)

func TestAuditService_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)

	user := testutil.CreateTestUser(t, db)
	svc.Log(user.ID, AuditUpdateProperty, "property", "prop-1", "127.0.0.1",
		map[string]interface{}{"status": "Vendido"})

	var entries []models.AuditLog
	if err := db.Find(&entries).Error; err != nil {
		t.Fatalf("failed to read audit log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Action != AuditUpdateProperty || e.ResourceID != "prop-1" {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.Changes != `{"status":"Vendido"}` {
		t.Errorf("expected changes JSON, got %s", e.Changes)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"auctiontracker/internal/finance"
	"auctiontracker/internal/middleware"
	"auctiontracker/internal/models"
	"auctiontracker/internal/pagination"
	"auctiontracker/internal/services"
	"auctiontracker/internal/validator"
)

const (
	testUserID     = "0190a5b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b"
	testPropertyID = "0190a5b2-8000-7000-8000-000000000001"
)

// --- mock services ---

type mockUserService struct {
	createUserFn     func(name, email, password string) (*models.User, error)
	getUserByEmailFn func(email string) (*models.User, error)
	getUserByIDFn    func(id string) (*models.User, error)
	attemptLoginFn   func(email, password string) (*models.User, error)
}

func (m *mockUserService) CreateUser(name, email, password string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(name, email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(_ *models.User, _ string) bool { return true }

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) EnsureAdmin(_, _ string) (*models.User, error) {
	return &models.User{Role: models.UserRoleAdmin}, nil
}

func (m *mockUserService) OnFirstSignUp(_ func(user *models.User)) {}

type mockPropertyService struct {
	createPropertyFn    func(userID string, in models.PropertyInput) (*models.Property, error)
	listPropertiesFn    func(userID string, filter services.PropertyFilter) ([]models.Property, error)
	getUserPropertiesFn func(userID string, filter services.PropertyFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Property], error)
	getPropertyByIDFn   func(userID, propertyID string) (*models.Property, error)
	updatePropertyFn    func(userID, propertyID string, patch models.PropertyPatch) (*models.Property, error)
	getDashboardFn      func(userID string) (*finance.PortfolioSummary, error)
}

func (m *mockPropertyService) CreateProperty(_ context.Context, userID string, in models.PropertyInput) (*models.Property, error) {
	if m.createPropertyFn != nil {
		return m.createPropertyFn(userID, in)
	}
	p := models.NewProperty(in, userID, testPropertyID, fixedTime)
	return &p, nil
}

func (m *mockPropertyService) ListProperties(_ context.Context, userID string, filter services.PropertyFilter) ([]models.Property, error) {
	if m.listPropertiesFn != nil {
		return m.listPropertiesFn(userID, filter)
	}
	return nil, nil
}

func (m *mockPropertyService) GetUserProperties(_ context.Context, userID string, filter services.PropertyFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Property], error) {
	if m.getUserPropertiesFn != nil {
		return m.getUserPropertiesFn(userID, filter, page)
	}
	resp := pagination.NewPageResponse[models.Property](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockPropertyService) GetPropertyByID(_ context.Context, userID, propertyID string) (*models.Property, error) {
	if m.getPropertyByIDFn != nil {
		return m.getPropertyByIDFn(userID, propertyID)
	}
	p := soldProperty()
	return &p, nil
}

func (m *mockPropertyService) UpdateProperty(_ context.Context, userID, propertyID string, patch models.PropertyPatch) (*models.Property, error) {
	if m.updatePropertyFn != nil {
		return m.updatePropertyFn(userID, propertyID, patch)
	}
	p := soldProperty()
	p.Apply(patch)
	return &p, nil
}

func (m *mockPropertyService) GetDashboard(_ context.Context, userID string) (*finance.PortfolioSummary, error) {
	if m.getDashboardFn != nil {
		return m.getDashboardFn(userID)
	}
	return &finance.PortfolioSummary{}, nil
}

type mockAnalysisService struct {
	enabled bool
	text    string
}

func (m *mockAnalysisService) Enabled() bool { return m.enabled }

func (m *mockAnalysisService) AnalyzeProperty(_ context.Context, _ *models.Property) string {
	if !m.enabled {
		return services.AnalysisDisabledMessage
	}
	return m.text
}

type mockAdminService struct {
	listUsersFn         func(page pagination.PageRequest) (*pagination.PageResponse[services.UserWithPropertyCount], error)
	listAllPropertiesFn func(page pagination.PageRequest) (*pagination.PageResponse[models.Property], error)
}

func (m *mockAdminService) ListUsers(_ context.Context, page pagination.PageRequest) (*pagination.PageResponse[services.UserWithPropertyCount], error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(page)
	}
	resp := pagination.NewPageResponse[services.UserWithPropertyCount](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockAdminService) ListAllProperties(_ context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Property], error) {
	if m.listAllPropertiesFn != nil {
		return m.listAllPropertiesFn(page)
	}
	resp := pagination.NewPageResponse[models.Property](nil, 1, 20, 0)
	return &resp, nil
}

type auditEntry struct {
	userID, action, resourceID string
	changes                    map[string]interface{}
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(userID, action, _, resourceID, _ string, changes map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{userID: userID, action: action, resourceID: resourceID, changes: changes})
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

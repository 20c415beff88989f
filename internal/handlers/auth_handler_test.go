package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "auctiontracker/internal/errors"
	"auctiontracker/internal/middleware"
	"auctiontracker/internal/models"
	"auctiontracker/internal/services"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.GET("/profile", injectUserID(testUserID), handler.GetProfile)
	return r
}

func testTokens() *middleware.TokenManager {
	return middleware.NewTokenManager("handler-test-secret", time.Hour)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(name, email, _ string) (*models.User, error) {
				return &models.User{
					Base:             models.Base{ID: testUserID},
					Name:             name,
					Email:            email,
					Role:             models.UserRoleUser,
					SubscriptionPlan: models.SubscriptionPlanBasic,
				}, nil
			},
		}
		audit := &mockAuditService{}
		tokens := testTokens()
		r := setupAuthRouter(NewAuthHandler(userSvc, audit, tokens))

		rec := doRequest(r, http.MethodPost, "/auth/register",
			`{"name":"Maria","email":"maria@example.com","password":"password123"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)

		token, _ := result["token"].(string)
		claims, err := tokens.ParseToken(token)
		if err != nil {
			t.Fatalf("returned token does not verify: %v", err)
		}
		if claims.UserID != testUserID {
			t.Errorf("expected token for %s, got %s", testUserID, claims.UserID)
		}

		user := result["user"].(map[string]interface{})
		if user["subscription_plan"] != "Básico" {
			t.Errorf("expected Básico plan, got %v", user["subscription_plan"])
		}
		if _, leaked := user["password"]; leaked {
			t.Error("password must not be returned")
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditRegister {
			t.Errorf("expected a REGISTER audit entry, got %+v", audit.entries)
		}
	})

	t.Run("returns 400 on invalid payload", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}, testTokens()))

		for _, body := range []string{
			`{"email":"maria@example.com","password":"password123"}`,
			`{"name":"Maria","email":"not-an-email","password":"password123"}`,
			`{"name":"Maria","email":"maria@example.com","password":"short"}`,
			`not json`,
		} {
			rec := doRequest(r, http.MethodPost, "/auth/register", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("body %s: expected 400, got %d", body, rec.Code)
				continue
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		}
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}, testTokens()))

		rec := doRequest(r, http.MethodPost, "/auth/register",
			`{"name":"Maria","email":"maria@example.com","password":"password123"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token on success", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(email, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: testUserID}, Email: email, Role: models.UserRoleAdmin}, nil
			},
		}
		tokens := testTokens()
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}, tokens))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"admin@leilao.com","password":"x"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		claims, err := tokens.ParseToken(parseJSON(t, rec)["token"].(string))
		if err != nil {
			t.Fatalf("returned token does not verify: %v", err)
		}
		if claims.Role != models.UserRoleAdmin {
			t.Errorf("expected admin role in token, got %s", claims.Role)
		}
	})

	t.Run("returns 401 on bad credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}, testTokens()))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	t.Run("returns the user", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(id string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: id}, Name: "Maria", Email: "maria@example.com"}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}, testTokens()))

		rec := doRequest(r, http.MethodGet, "/profile", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["id"] != testUserID || user["name"] != "Maria" {
			t.Errorf("unexpected user %v", user)
		}
	})

	t.Run("returns 401 without user in context", func(t *testing.T) {
		r := gin.New()
		r.GET("/profile", NewAuthHandler(&mockUserService{}, &mockAuditService{}, testTokens()).GetProfile)

		rec := doRequest(r, http.MethodGet, "/profile", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})
}

// Package server assembles the HTTP application: services, handlers,
// middleware and routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"auctiontracker/internal/analysis"
	"auctiontracker/internal/config"
	"auctiontracker/internal/handlers"
	"auctiontracker/internal/logger"
	"auctiontracker/internal/middleware"
	"auctiontracker/internal/repository"
	"auctiontracker/internal/services"
	"auctiontracker/internal/validator"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop signal.
const shutdownTimeout = 10 * time.Second

// Services groups the business services behind the HTTP handlers.
type Services struct {
	Users      services.UserServicer
	Properties services.PropertyServicer
	Admin      services.AdminServicer
	Analysis   services.AnalysisServicer
	Audit      services.AuditServicer
}

// NewServices builds the services. Users and audit records live in db while
// property records live in repo. A nil generator disables AI analysis.
func NewServices(db *gorm.DB, repo repository.PropertyRepository, generator analysis.TextGenerator, analysisTimeout time.Duration) *Services {
	users := services.NewUserService(db)
	return &Services{
		Users:      users,
		Properties: services.NewPropertyService(repo, users),
		Admin:      services.NewAdminService(db, repo),
		Analysis:   services.NewAnalysisService(generator, analysisTimeout),
		Audit:      services.NewAuditService(db),
	}
}

// NewRouter wires middleware, handlers and routes into a gin engine.
func NewRouter(cfg *config.Config, svcs *Services) *gin.Engine {
	validator.Register()

	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTExpirationDur)

	authHandler := handlers.NewAuthHandler(svcs.Users, svcs.Audit, tokens)
	propertyHandler := handlers.NewPropertyHandler(svcs.Properties, svcs.Analysis, svcs.Audit)
	adminHandler := handlers.NewAdminHandler(svcs.Admin)
	exportHandler := handlers.NewExportHandler(svcs.Properties)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))

	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/dashboard", propertyHandler.GetDashboard)

	properties := protected.Group("/properties")
	properties.POST("", propertyHandler.CreateProperty)
	properties.GET("", propertyHandler.ListProperties)
	properties.GET("/:id", propertyHandler.GetProperty)
	properties.PATCH("/:id", propertyHandler.UpdateProperty)
	properties.GET("/:id/metrics", propertyHandler.GetPropertyMetrics)
	properties.POST("/:id/analysis", propertyHandler.AnalyzeProperty)

	export := protected.Group("/export")
	export.GET("/properties", exportHandler.ExportProperties)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/properties", adminHandler.ListProperties)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Run serves handler on addr until ctx is cancelled, then drains in-flight
// requests.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Get().Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

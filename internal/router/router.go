package router

import (
	"github.com/gin-gonic/gin"

	"signquote/internal/domain"
	"signquote/internal/handler"
	"signquote/internal/middleware"
	"signquote/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	customerH *handler.CustomerHandler,
	estimateH *handler.EstimateHandler,
	rulesetH *handler.RulesetHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Product type rule packs (read-only)
	protected.GET("/product-types", rulesetH.ListProductTypes)
	protected.GET("/product-types/:id", rulesetH.GetProductType)

	// Customer management
	customers := protected.Group("/customers")
	customers.POST("", middleware.RequireRole(domain.RoleAdmin), customerH.Create)
	customers.GET("", customerH.List)
	customers.GET("/:id", customerH.GetByID)
	customers.PUT("/:id", middleware.RequireRole(domain.RoleAdmin), customerH.Update)
	customers.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), customerH.Delete)

	// Estimates
	estimates := protected.Group("/estimates")
	estimates.POST("", estimateH.Create)
	estimates.GET("", estimateH.List)
	estimates.GET("/:id", estimateH.GetByID)
	estimates.PUT("/:id/grid", estimateH.UpdateGrid)
	estimates.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), estimateH.Delete)
	estimates.POST("/:id/validate", estimateH.Validate)
	estimates.GET("/:id/validation", estimateH.GetValidation)
	estimates.GET("/:id/assemblies", estimateH.Assemblies)
	estimates.GET("/:id/export", estimateH.Export)

	return r
}

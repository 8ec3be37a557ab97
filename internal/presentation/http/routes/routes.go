package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billgen-api/internal/config"
	domainRepo "github.com/sangkips/billgen-api/internal/domain/repository"
	"github.com/sangkips/billgen-api/internal/presentation/http/handler"
	"github.com/sangkips/billgen-api/internal/presentation/http/middleware"
	"github.com/sangkips/billgen-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Settings  *handler.SettingsHandler
	Invoice   *handler.InvoiceHandler
	Receipt   *handler.ReceiptHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.UserRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)

	protected.GET("/dashboard", h.Dashboard.GetStats)

	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	registerInvoiceRoutes(protected, h, idempotent)
	registerReceiptRoutes(protected, h, idempotent)
	registerPrinterRoutes(protected, h)
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", idempotent, h.Invoice.Create)
		invoices.GET("/search", h.Invoice.Search)
		invoices.GET("/new", h.Invoice.New)
		invoices.GET("/export", h.Invoice.Export)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.PUT("/:id/status", h.Invoice.UpdateStatus)
		invoices.GET("/:id/pdf", h.Invoice.PDF)
		invoices.POST("/:id/send-email", h.Invoice.SendEmail)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	receipts := protected.Group("/receipts")
	{
		receipts.GET("", h.Receipt.List)
		receipts.POST("", idempotent, h.Receipt.Create)
		receipts.GET("/search", h.Receipt.Search)
		receipts.GET("/new", h.Receipt.New)
		receipts.GET("/export", h.Receipt.Export)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.PUT("/:id", h.Receipt.Update)
		receipts.DELETE("/:id", h.Receipt.Delete)
		receipts.GET("/:id/pdf", h.Receipt.PDF)
		receipts.POST("/:id/print", h.Printer.PrintReceipt)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}

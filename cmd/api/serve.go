package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sangkips/billgen-api/internal/application/service"
	"github.com/sangkips/billgen-api/internal/config"
	domainRepo "github.com/sangkips/billgen-api/internal/domain/repository"
	"github.com/sangkips/billgen-api/internal/infrastructure/render"
	"github.com/sangkips/billgen-api/internal/infrastructure/repository"
	"github.com/sangkips/billgen-api/internal/presentation/http/handler"
	"github.com/sangkips/billgen-api/internal/presentation/http/middleware"
	"github.com/sangkips/billgen-api/internal/presentation/http/routes"
	"github.com/sangkips/billgen-api/pkg/email"
	"github.com/sangkips/billgen-api/pkg/logger"
	"github.com/sangkips/billgen-api/pkg/numbering"
	"github.com/sangkips/billgen-api/pkg/oauth"
	"github.com/sangkips/billgen-api/pkg/printer"
	"github.com/sangkips/billgen-api/pkg/utils"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	shutdownTimeout     = 10 * time.Second
	idempotencySweepGap = time.Hour
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	if err := migrate(cfg, db); err != nil {
		return err
	}

	log := logger.WithComponent("server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router, cleanup, err := buildRouter(cfg, db)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msgf("starting %s", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRouter wires repositories, services and handlers. The returned cleanup
// stops background workers.
func buildRouter(cfg *config.Config, db *gorm.DB) (http.Handler, func(), error) {
	log := logger.WithComponent("server")

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	tx := repository.NewTransactor(db)

	numbers := numbering.NewGenerator(nil, cfg.Billing.NumberMaxAttempts)
	billing := []service.BillingOption{service.WithOverdueAfterDays(cfg.Billing.OverdueAfterDays)}

	// Outbound integrations
	var mailer service.InvoiceMailer
	if cfg.Email.IsConfigured() {
		mailer = email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
		})
	} else {
		log.Warn().Msg("SMTP is not configured, invoice email is disabled")
	}

	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize printer, printing is disabled")
		thermalPrinter, _ = printer.New(printer.Config{Type: printer.TypeNone})
	}

	google := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Services
	authService := service.NewAuthService(userRepo, settingsRepo, jwtManager, google)
	settingsService := service.NewSettingsService(settingsRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, settingsRepo, tx, numbers, billing...)
	receiptService := service.NewReceiptService(receiptRepo, settingsRepo, tx, numbers, billing...)
	dashboardService := service.NewDashboardService(invoiceRepo, receiptRepo)
	documentService := service.NewDocumentService(invoiceService, receiptService, settingsRepo,
		render.NewPDFRenderer(), render.NewExcelRenderer(), mailer)
	printerService := service.NewPrinterService(thermalPrinter, receiptService, cfg.Printer.Width)

	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.IsProduction()),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, documentService),
		Receipt:   handler.NewReceiptHandler(receiptService, documentService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	go sweepIdempotencyKeys(sweepCtx, idempotencyRepo)

	cleanup := func() {
		cancelSweep()
		rateLimiter.Stop()
	}
	return router, cleanup, nil
}

func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository) {
	log := logger.WithComponent("idempotency")
	ticker := time.NewTicker(idempotencySweepGap)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("failed to delete expired idempotency keys")
				continue
			}
			if removed > 0 {
				log.Info().Int64("removed", removed).Msg("deleted expired idempotency keys")
			}
		}
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	assistantapp "github.com/brickquote/backend/internal/application/assistant"
	billingapp "github.com/brickquote/backend/internal/application/billing"
	"github.com/brickquote/backend/internal/application/export"
	identityapp "github.com/brickquote/backend/internal/application/identity"
	invoicingapp "github.com/brickquote/backend/internal/application/invoicing"
	"github.com/brickquote/backend/internal/application/notification"
	quotingapp "github.com/brickquote/backend/internal/application/quoting"
	assistantinfra "github.com/brickquote/backend/internal/infrastructure/assistant"
	"github.com/brickquote/backend/internal/infrastructure/auth"
	billinginfra "github.com/brickquote/backend/internal/infrastructure/billing"
	"github.com/brickquote/backend/internal/infrastructure/cache"
	"github.com/brickquote/backend/internal/infrastructure/config"
	"github.com/brickquote/backend/internal/infrastructure/email"
	"github.com/brickquote/backend/internal/infrastructure/logger"
	"github.com/brickquote/backend/internal/infrastructure/persistence"
	"github.com/brickquote/backend/internal/infrastructure/push"
	"github.com/brickquote/backend/internal/interfaces/http/handler"
	"github.com/brickquote/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting BrickQuote backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, gormlogger.Warn)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	serviceRepo := persistence.NewGormServiceRepository(db.DB)
	requestRepo := persistence.NewGormQuoteRequestRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	// Rate limiter, advisory when Redis is absent
	var limiter cache.RateLimiter = cache.NoopRateLimiter{}
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			limiter = cache.NewRedisRateLimiter(redisClient, log)
			log.Info("Redis connected, rate limiting enabled")
		}
	}

	// Delivery channels; each is optional and nil disables it
	var emailSender notification.EmailSender
	if cfg.Email.Enabled() {
		client, err := email.NewClient(&email.Config{
			APIKey:    cfg.Email.APIKey,
			BaseURL:   cfg.Email.BaseURL,
			FromName:  cfg.Email.FromName,
			FromEmail: cfg.Email.FromEmail,
		}, log)
		if err != nil {
			log.Fatal("Failed to create email client", zap.Error(err))
		}
		emailSender = client
	} else {
		log.Warn("Email delivery not configured, outgoing email disabled")
	}

	var pushSender notification.PushSender
	if cfg.Push.Enabled() {
		client, err := push.NewFCMClient(&push.Config{
			ServerKey: cfg.Push.FCMServerKey,
			Endpoint:  cfg.Push.Endpoint,
		}, log)
		if err != nil {
			log.Fatal("Failed to create push client", zap.Error(err))
		}
		pushSender = client
	}

	notifier := notification.NewService(notification.Config{
		Profiles:          profileRepo,
		Email:             emailSender,
		Push:              pushSender,
		BaseURL:           cfg.App.BaseURL,
		ContactInbox:      cfg.Email.ContactInbox,
		UnsubscribeSecret: []byte(cfg.App.UnsubscribeSecret),
		Logger:            log,
	})

	var stripeAdapter *billinginfra.StripeAdapter
	if cfg.Stripe.Enabled() {
		stripeAdapter, err = billinginfra.NewStripeAdapter(&billinginfra.StripeConfig{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
			PriceIDs: map[billinginfra.Plan]string{
				billinginfra.PlanMonthly: cfg.Stripe.PriceMonthly,
				billinginfra.PlanYearly:  cfg.Stripe.PriceYearly,
			},
			SuccessURL:             cfg.App.BaseURL + "/billing/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:              cfg.App.BaseURL + "/billing/cancelled",
			BillingPortalReturnURL: cfg.App.BaseURL + "/settings",
		}, log)
		if err != nil {
			log.Fatal("Failed to create billing adapter", zap.Error(err))
		}
	} else {
		log.Warn("Billing not configured, subscription endpoints disabled")
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(profileRepo, jwtService, log)
	profileService := identityapp.NewProfileService(identityapp.ProfileServiceConfig{
		ProfileRepo:       profileRepo,
		ServiceRepo:       serviceRepo,
		RequestRepo:       requestRepo,
		QuoteRepo:         quoteRepo,
		InvoiceRepo:       invoiceRepo,
		StripeAdapter:     stripeAdapter,
		UnsubscribeSecret: []byte(cfg.App.UnsubscribeSecret),
		Logger:            log,
	})
	catalogService := quotingapp.NewCatalogService(serviceRepo)
	requestService := quotingapp.NewRequestService(requestRepo, profileRepo, notifier, log)
	quoteService := quotingapp.NewQuoteService(quotingapp.QuoteServiceConfig{
		QuoteRepo:   quoteRepo,
		RequestRepo: requestRepo,
		ProfileRepo: profileRepo,
		Notifier:    notifier,
		Logger:      log,
	})
	invoiceService := invoicingapp.NewInvoiceService(invoicingapp.InvoiceServiceConfig{
		InvoiceRepo: invoiceRepo,
		QuoteRepo:   quoteRepo,
		RequestRepo: requestRepo,
		ProfileRepo: profileRepo,
		Notifier:    notifier,
		Logger:      log,
	})
	pdfService := export.NewPDFService(quoteRepo, requestRepo, invoiceRepo, profileRepo)

	// Handlers
	handlers := router.Handlers{
		Health:  handler.NewHealthHandler(version),
		Auth:    handler.NewAuthHandler(authService),
		Profile: handler.NewProfileHandler(profileService),
		Service: handler.NewServiceHandler(catalogService),
		Request: handler.NewRequestHandler(requestService),
		Quote:   handler.NewQuoteHandler(quoteService, pdfService),
		Invoice: handler.NewInvoiceHandler(invoiceService, pdfService),
		Public: handler.NewPublicHandler(handler.PublicHandlerConfig{
			QuoteService:   quoteService,
			InvoiceService: invoiceService,
			ProfileService: profileService,
			PDFService:     pdfService,
			Notifier:       notifier,
		}),
	}

	if cfg.OpenAI.Enabled() {
		client := assistantinfra.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, log)
		assistantService := assistantapp.NewAssistantService(client, serviceRepo, log)
		handlers.Assistant = handler.NewAssistantHandler(assistantService)
	} else {
		log.Warn("Assistant not configured, AI endpoints disabled")
	}

	if stripeAdapter != nil {
		subscriptionService := billingapp.NewSubscriptionService(stripeAdapter, profileRepo, log)
		webhookService := billingapp.NewStripeWebhookService(billingapp.StripeWebhookServiceConfig{
			Adapter:     stripeAdapter,
			ProfileRepo: profileRepo,
			Notifier:    notifier,
			Logger:      log,
		})
		handlers.Billing = handler.NewBillingHandler(subscriptionService)
		handlers.StripeWebhook = handler.NewStripeWebhookHandler(webhookService, log)
	}

	engine := router.Setup(router.Config{
		Handlers:   handlers,
		JWTService: jwtService,
		Limiter:    limiter,
		HTTP:       cfg.HTTP,
		Logger:     log,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/infrastructure/auth"
	"github.com/brickquote/backend/internal/infrastructure/cache"
	"github.com/brickquote/backend/internal/infrastructure/config"
	"github.com/brickquote/backend/internal/infrastructure/logger"
	"github.com/brickquote/backend/internal/interfaces/http/handler"
	"github.com/brickquote/backend/internal/interfaces/http/middleware"
)

// Handlers collects every HTTP handler the router wires up
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Profile       *handler.ProfileHandler
	Service       *handler.ServiceHandler
	Request       *handler.RequestHandler
	Quote         *handler.QuoteHandler
	Invoice       *handler.InvoiceHandler
	Public        *handler.PublicHandler
	Assistant     *handler.AssistantHandler
	Billing       *handler.BillingHandler
	StripeWebhook *handler.StripeWebhookHandler
}

// Config holds router dependencies
type Config struct {
	Handlers   Handlers
	JWTService *auth.JWTService
	Limiter    cache.RateLimiter
	HTTP       config.HTTPConfig
	Logger     *zap.Logger
}

// Setup builds the gin engine with all middleware and routes registered
func Setup(cfg Config) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))
	engine.Use(middleware.BodySizeLimit(cfg.HTTP.MaxBodySize))
	engine.Use(logger.GinMiddleware(cfg.Logger))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	publicLimit := func(name string) gin.HandlerFunc {
		return middleware.RateLimit(cfg.Limiter, name,
			cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow,
			middleware.KeyByClientIP, cfg.Logger)
	}

	engine.GET("/health", cfg.Handlers.Health.Health)

	api := engine.Group("/api/v1")

	// Webhooks verify their own signatures and skip JWT auth
	if cfg.Handlers.StripeWebhook != nil {
		api.POST("/webhooks/stripe", cfg.Handlers.StripeWebhook.Handle)
	}

	public := api.Group("/public")
	{
		public.GET("/countries", cfg.Handlers.Profile.Countries)
		public.POST("/contractors/:id/requests", publicLimit("intake"), cfg.Handlers.Request.Intake)
		public.POST("/contact", publicLimit("contact"), cfg.Handlers.Public.Contact)

		public.GET("/quotes/:token", cfg.Handlers.Public.GetQuote)
		public.GET("/quotes/:token/pdf", cfg.Handlers.Public.QuotePDF)
		public.POST("/quotes/:token/view", cfg.Handlers.Public.TrackQuoteView)
		public.POST("/quotes/:token/accept", publicLimit("decision"), cfg.Handlers.Public.AcceptQuote)
		public.POST("/quotes/:token/reject", publicLimit("decision"), cfg.Handlers.Public.RejectQuote)

		public.GET("/invoices/:token", cfg.Handlers.Public.GetInvoice)
		public.GET("/invoices/:token/pdf", cfg.Handlers.Public.InvoicePDF)
		public.POST("/invoices/:token/paid", publicLimit("decision"), cfg.Handlers.Public.MarkInvoicePaid)

		public.POST("/unsubscribe", cfg.Handlers.Public.Unsubscribe)
		public.POST("/resubscribe", cfg.Handlers.Public.Resubscribe)
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", publicLimit("auth"), cfg.Handlers.Auth.Register)
		authGroup.POST("/login", publicLimit("auth"), cfg.Handlers.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTService))
	{
		protected.POST("/auth/change-password", cfg.Handlers.Auth.ChangePassword)

		profile := protected.Group("/profile")
		{
			profile.GET("", cfg.Handlers.Profile.Me)
			profile.PUT("", cfg.Handlers.Profile.Update)
			profile.PUT("/bank-details", cfg.Handlers.Profile.UpdateBankDetails)
			profile.PUT("/notifications", cfg.Handlers.Profile.UpdateNotifications)
			profile.POST("/push-tokens", cfg.Handlers.Profile.RegisterPushToken)
			profile.DELETE("/push-tokens", cfg.Handlers.Profile.RemovePushToken)
			profile.GET("/export", cfg.Handlers.Profile.Export)
			profile.DELETE("", cfg.Handlers.Profile.DeleteAccount)
		}

		services := protected.Group("/services")
		{
			services.POST("", cfg.Handlers.Service.Create)
			services.POST("/batch", cfg.Handlers.Service.CreateBatch)
			services.GET("", cfg.Handlers.Service.List)
			services.GET("/:id", cfg.Handlers.Service.Get)
			services.PUT("/:id", cfg.Handlers.Service.Update)
			services.DELETE("/:id", cfg.Handlers.Service.Delete)
		}

		requests := protected.Group("/requests")
		{
			requests.GET("", cfg.Handlers.Request.List)
			requests.GET("/:id", cfg.Handlers.Request.Get)
			requests.PUT("/:id/status", cfg.Handlers.Request.SetStatus)
			requests.POST("/:id/archive", cfg.Handlers.Request.Archive)
			requests.DELETE("/:id", cfg.Handlers.Request.Delete)
			requests.POST("/:id/quotes", cfg.Handlers.Quote.Create)
			requests.GET("/:id/quotes", cfg.Handlers.Quote.ListForRequest)
		}

		quotes := protected.Group("/quotes")
		{
			quotes.GET("", cfg.Handlers.Quote.List)
			quotes.GET("/:id", cfg.Handlers.Quote.Get)
			quotes.PUT("/:id", cfg.Handlers.Quote.Update)
			quotes.POST("/:id/send", cfg.Handlers.Quote.Send)
			quotes.GET("/:id/pdf", cfg.Handlers.Quote.PDF)
			quotes.DELETE("/:id", cfg.Handlers.Quote.Delete)
			quotes.POST("/:id/invoice", cfg.Handlers.Invoice.CreateFromQuote)
		}

		invoices := protected.Group("/invoices")
		{
			invoices.POST("", cfg.Handlers.Invoice.Create)
			invoices.GET("", cfg.Handlers.Invoice.List)
			invoices.GET("/:id", cfg.Handlers.Invoice.Get)
			invoices.PUT("/:id", cfg.Handlers.Invoice.Update)
			invoices.POST("/:id/send", cfg.Handlers.Invoice.Send)
			invoices.POST("/:id/remind", cfg.Handlers.Invoice.SendReminder)
			invoices.GET("/:id/pdf", cfg.Handlers.Invoice.PDF)
			invoices.DELETE("/:id", cfg.Handlers.Invoice.Delete)
		}

		// Assistant and billing routes are absent when the backing
		// integration is not configured
		if cfg.Handlers.Assistant != nil {
			assistant := protected.Group("/assistant")
			assistant.Use(middleware.RateLimit(cfg.Limiter, "assistant",
				cfg.HTTP.ChatRateLimitRequests, cfg.HTTP.ChatRateLimitWindow,
				middleware.KeyByContractor, cfg.Logger))
			{
				assistant.POST("/chat", cfg.Handlers.Assistant.Chat)
				assistant.POST("/suggest-services", cfg.Handlers.Assistant.SuggestServices)
				assistant.POST("/suggest-quote", cfg.Handlers.Assistant.SuggestQuote)
			}
		}

		if cfg.Handlers.Billing != nil {
			billing := protected.Group("/billing")
			{
				billing.GET("/subscription", cfg.Handlers.Billing.Status)
				billing.POST("/checkout", cfg.Handlers.Billing.StartCheckout)
				billing.POST("/checkout/verify", cfg.Handlers.Billing.VerifyCheckout)
				billing.POST("/portal", cfg.Handlers.Billing.Portal)
				billing.POST("/subscription/cancel", cfg.Handlers.Billing.Cancel)
				billing.POST("/subscription/resume", cfg.Handlers.Billing.Resume)
				billing.POST("/subscription/switch", cfg.Handlers.Billing.SwitchPlan)
			}
		}
	}

	return engine
}

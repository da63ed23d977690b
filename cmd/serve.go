package cmd

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klarkurs/mpu-platform/app/controller"
	"github.com/klarkurs/mpu-platform/app/llm"
	"github.com/klarkurs/mpu-platform/app/provider"
	"github.com/klarkurs/mpu-platform/app/repository"
	"github.com/klarkurs/mpu-platform/app/service"
	"github.com/klarkurs/mpu-platform/app/types"
	"github.com/klarkurs/mpu-platform/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) API server for the MPU platform.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, svcs, cleanup := mustCreateServices()
	defer cleanup()

	e := setupHTTPServer(cfg, svcs)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(cfg *config.Config, svcs *services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{cfg.App.FrontendURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	authController := controller.NewAuthController(svcs.auth)
	paymentController := controller.NewPaymentController(svcs.payment)
	aiController := controller.NewAIController(svcs.ai)
	bookingController := controller.NewBookingController(svcs.booking)
	publicController := controller.NewPublicController(svcs.diagnostic)
	authMW := controller.NewAuthMiddleware(svcs.auth)

	e.GET("/health", publicController.Health)

	api := e.Group("/api")

	public := api.Group("/public")
	public.POST("/diagnostic", publicController.SubmitDiagnostic, authMW.OptionalUser)
	public.GET("/products", paymentController.ListProducts, authMW.OptionalUser)
	public.GET("/slots", bookingController.ListSlots)

	api.POST("/webhooks/:provider", paymentController.HandleWebhook)

	auth := api.Group("/auth", rateLimiter(cfg.RateLimit.AuthPerMinute))
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.GET("/me", authController.Me, authMW.RequireUser)

	payments := api.Group("/payments", authMW.RequireUser)
	payments.POST("/checkout", paymentController.CreateCheckout)

	booking := api.Group("/booking", authMW.RequireUser)
	booking.POST("/slots/:id/reserve", bookingController.Reserve)
	booking.POST("/slots/:id/book", bookingController.Book)
	booking.GET("/my", bookingController.MyBookings)
	booking.POST("/:id/cancel", bookingController.Cancel)

	ai := api.Group("/ai", authMW.RequireUser, rateLimiter(cfg.RateLimit.AIPerMinute))
	ai.POST("/sessions", aiController.CreateSession)
	ai.GET("/sessions/:id", aiController.GetSession)
	ai.GET("/sessions/:id/messages", aiController.ListMessages)
	ai.POST("/sessions/:id/messages", aiController.SendMessage)
	ai.POST("/sessions/:id/close", aiController.CloseSession)

	return e
}

// rateLimiter throttles per client IP; the burst equals the per-minute
// allowance so short spikes pass while sustained abuse is rejected.
func rateLimiter(perMinute int) echo.MiddlewareFunc {
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(perMinute) / 60.0),
			Burst:     perMinute,
			ExpiresIn: 3 * time.Minute,
		}),
		DenyHandler: func(ctx echo.Context, _ string, _ error) error {
			return ctx.JSON(http.StatusTooManyRequests, &types.ErrorResponse{Error: types.ErrorBody{
				Code:    "RATE_LIMIT",
				Message: "too many requests",
			}})
		},
	})
}

type services struct {
	store      *repository.Store
	auth       *service.AuthService
	payment    *service.PaymentService
	ai         *service.AIService
	booking    *service.BookingService
	diagnostic *service.DiagnosticService
}

func mustCreateServices() (*config.Config, *services, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	store := repository.NewStore(db)

	stripeProvider := provider.NewStripeProvider(provider.StripeConfig{
		SecretKey:                 cfg.Stripe.SecretKey,
		WebhookSecret:             cfg.Stripe.WebhookSecret,
		SignatureToleranceSeconds: cfg.Stripe.SignatureToleranceSeconds,
		HTTPTimeout:               cfg.Stripe.HTTPTimeout,
	})
	providerRegistry := provider.NewRegistry(stripeProvider)

	llmClient := llm.NewClient(llm.Config{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		BaseURL:     cfg.OpenAI.BaseURL,
		HTTPTimeout: cfg.OpenAI.HTTPTimeout,
	})

	svcs := &services{
		store:      store,
		auth:       service.NewAuthService(store, cfg.Auth),
		payment:    service.NewPaymentService(store, providerRegistry, cfg.Stripe, cfg.Jobs),
		ai:         service.NewAIService(store, llmClient),
		booking:    service.NewBookingService(store),
		diagnostic: service.NewDiagnosticService(store),
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, svcs, cleanup
}

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	if cfg.App.Env != "dev" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

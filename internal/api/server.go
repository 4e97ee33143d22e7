package api

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/innio31/Impact-Digital-Academy-sub022/config"
	"github.com/innio31/Impact-Digital-Academy-sub022/infra/database"
	"github.com/innio31/Impact-Digital-Academy-sub022/infra/queue"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/api/rest/handlers"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/api/rest/middleware"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/interfaces"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/mail"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/repository"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/services"
)

const (
	csrfContextKey  = "csrf"
	shutdownTimeout = 10 * time.Second
)

// Deps holds the services the HTTP layer is built from.
type Deps struct {
	Users         services.UserService
	Applications  *services.ApplicationService
	Reviews       *services.ReviewService
	Notifications *services.NotificationService
	Auth          helper.Auth
	AllowOrigins  string
	SecureCookies bool
	Log           *slog.Logger
}

// NewDeps wires the service layer on top of a store.
func NewDeps(store repository.Store, auth helper.Auth, mailer interfaces.EmailSender, log *slog.Logger, opts services.ReviewOptions) Deps {
	notifier := services.NewNotificationService(store, log)
	enrollments := services.NewEnrollmentService(log, opts.Now)
	return Deps{
		Users:         services.NewUserService(store, auth, log),
		Applications:  services.NewApplicationService(store, log),
		Reviews:       services.NewReviewService(store, enrollments, notifier, mailer, log, opts),
		Notifications: notifier,
		Auth:          auth,
		Log:           log,
	}
}

func NewApp(d Deps) *fiber.App {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	app := fiber.New(fiber.Config{
		AppName:      "Impact Digital Academy Review API",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: errorHandler(d.Log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(compress.New())

	origins := d.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Content-Type, Accept, Authorization, X-Csrf-Token",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: origins != "*",
	}))

	// Bearer clients are not exposed to CSRF; only cookie sessions are checked.
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   d.SecureCookies,
		Expiration:     2 * time.Hour,
		ContextKey:     csrfContextKey,
		Next: func(c *fiber.Ctx) bool {
			if strings.TrimSpace(c.Get(fiber.HeaderAuthorization)) != "" {
				return true
			}
			return c.Path() == "/api/auth/login"
		},
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	loginLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() != "/api/auth/login"
		},
	})
	api.Use(loginLimiter)

	handlers.NewUserHandler(d.Users, d.Auth, csrfContextKey, d.SecureCookies).SetupRoutes(api)

	inbox := api.Group("/notifications", middleware.AuthMiddleware(d.Auth))
	handlers.NewNotificationHandler(d.Notifications, d.Auth).SetupRoutes(inbox)

	admin := api.Group("/admin", middleware.AuthMiddleware(d.Auth), middleware.AdminOnly(d.Users))
	handlers.NewApplicationHandler(d.Applications, d.Reviews, d.Auth).SetupRoutes(admin)

	return app
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}

// StartServer runs the API until SIGINT/SIGTERM.
func StartServer(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return err
	}
	log.Info("database connected", "driver", cfg.DatabaseDriver)

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("migration successful")

	mailer, closeMailer := NewMailer(cfg, log)
	defer func() {
		if err := closeMailer(); err != nil {
			log.Warn("mailer close failed", "error", err)
		}
	}()

	deps := NewDeps(repository.NewStore(db), helper.SetupAuth(cfg.AccessSecret), mailer, log, services.ReviewOptions{
		ResendOnReapproval: cfg.ResendOnReapproval,
	})
	deps.AllowOrigins = cfg.BaseURL
	deps.SecureCookies = strings.HasPrefix(cfg.BaseURL, "https://")

	app := NewApp(deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.ServerPort)
		errCh <- app.Listen(cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// NewMailer picks the decision-email transport. The returned interface is nil
// when email is disabled.
func NewMailer(cfg config.Config, log *slog.Logger) (interfaces.EmailSender, func() error) {
	noop := func() error { return nil }

	switch cfg.MailTransport {
	case config.MailTransportKafka:
		producer := queue.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword, log)
		if producer == nil {
			log.Warn("kafka not configured, decision emails disabled")
			return nil, noop
		}
		return mail.NewEventPublisher(producer, log), producer.Close
	case config.MailTransportSMTP:
		return mail.NewSMTPSender(SMTPConfig(cfg), log), noop
	default:
		log.Info("decision emails disabled", "transport", cfg.MailTransport)
		return nil, noop
	}
}

func SMTPConfig(cfg config.Config) mail.SMTPConfig {
	return mail.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUser,
		Password:  cfg.SMTPPassword,
		From:      cfg.MailFrom,
		FromName:  cfg.MailFromName,
		PortalURL: cfg.PortalURL,
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/topmei-api/internal/application/analytics"
	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/notification"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/infrastructure/certificate"
	"github.com/jhoicas/topmei-api/internal/infrastructure/cnpj"
	"github.com/jhoicas/topmei-api/internal/infrastructure/mailer"
	infrapdf "github.com/jhoicas/topmei-api/internal/infrastructure/pdf"
	"github.com/jhoicas/topmei-api/internal/infrastructure/postgres"
	"github.com/jhoicas/topmei-api/internal/infrastructure/realtime"
	"github.com/jhoicas/topmei-api/internal/infrastructure/rps"
	"github.com/jhoicas/topmei-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/topmei-api/internal/interfaces/http"
	"github.com/jhoicas/topmei-api/pkg/config"
	"github.com/jhoicas/topmei-api/pkg/logger"
	"github.com/jhoicas/topmei-api/pkg/secret"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("migración aplicada")
	}

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)

	// Notificaciones: persistencia en tx, entrega SSE en proceso y opcionalmente NATS
	broker := realtime.NewBroker(log.Component("realtime"))
	defer broker.Close()
	publishers := []notification.Publisher{broker}
	if cfg.NATS.URL != "" {
		conn, err := realtime.ConnectNATS(cfg.NATS.URL, cfg.App.Name, log)
		if err != nil {
			log.Warn().Err(err).Msg("NATS no disponible, notificaciones solo en proceso")
		} else {
			defer conn.Drain()
			publishers = append(publishers, realtime.NewNATSPublisher(conn, cfg.NATS.SubjectPrefix, log.Component("nats")))
		}
	}
	notifier := notification.NewNotifier(log, publishers...)

	files, err := storage.NewLocalStore(cfg.Storage.Root)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento de archivos")
	}
	cnpjClient := cnpj.NewClient(cfg.CNPJ, log.Component("cnpj"))
	inspector := certificate.NewPKCS12Inspector()
	rpsBuilder := rps.NewBuilder()
	budgetRenderer := infrapdf.NewMarotoBudgetRenderer()
	certBox, err := secret.NewBox(cfg.Security.CertificateKey)
	if err != nil {
		log.Fatal().Err(err).Msg("chave de cifrado de certificados")
	}

	roleResolver := auth.NewRoleResolver(repos.Users, repos.Roles, log)
	authUC := auth.NewAuthUseCase(repos.Users, repos.Roles, txRunner, roleResolver, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	resetUC := auth.NewPasswordResetUseCase(repos.Users, txRunner, mailer.New(cfg.SMTP, log), auth.PasswordResetConfig{
		LinkBase: cfg.Reset.URL,
		TTL:      time.Duration(cfg.Reset.TTLMinutes) * time.Minute,
	}, log)
	companyUC := usecase.NewCompanyUseCase(repos, txRunner, cnpjClient, notifier, log)
	documentUC := usecase.NewDocumentUseCase(repos, txRunner, files, notifier, log)
	catalogUC := usecase.NewCatalogUseCase(repos.Plans, repos.Services)
	contractUC := usecase.NewContractUseCase(repos, txRunner, notifier, log)
	certificateUC := usecase.NewCertificateUseCase(repos, txRunner, files, inspector, certBox, log)
	invoiceUC := usecase.NewInvoiceRequestUseCase(repos, txRunner, rpsBuilder, notifier, log)
	notificationUC := usecase.NewNotificationUseCase(repos.Notifications, broker)
	userAdminUC := usecase.NewUserAdminUseCase(repos, txRunner, roleResolver, log)
	auditUC := usecase.NewAuditUseCase(repos.Audit)
	budgetUC := usecase.NewBudgetUseCase(repos.Companies, repos.Budgets, files, budgetRenderer, log)
	dashboardUC := analytics.NewDashboardUseCase(dashboardRepo, repos.Contracts, repos.Notifications)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler(log),
		BodyLimit:    16 * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		// sin WriteTimeout: el stream SSE de notificaciones es de larga duración
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "TopMEI Hub API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		RoleResolver:   roleResolver,
		ResetUC:        resetUC,
		CompanyUC:      companyUC,
		DocumentUC:     documentUC,
		CatalogUC:      catalogUC,
		ContractUC:     contractUC,
		CertificateUC:  certificateUC,
		InvoiceUC:      invoiceUC,
		NotificationUC: notificationUC,
		UserAdminUC:    userAdminUC,
		AuditUC:        auditUC,
		BudgetUC:       budgetUC,
		DashboardUC:    dashboardUC,
		JWTSecret:      cfg.JWT.Secret,
		Log:            log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// cerrar el broker antes corta los streams SSE abiertos
	broker.Close()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/reparo-api/internal/application/analytics"
	"github.com/jhoicas/reparo-api/internal/application/auth"
	"github.com/jhoicas/reparo-api/internal/application/customer"
	"github.com/jhoicas/reparo-api/internal/application/fiscal"
	"github.com/jhoicas/reparo-api/internal/application/inventory"
	"github.com/jhoicas/reparo-api/internal/application/notification"
	"github.com/jhoicas/reparo-api/internal/application/organization"
	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/application/serviceorder"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/reparo-api/internal/domain/fiscal"
	"github.com/jhoicas/reparo-api/internal/infrastructure/metrics"
	"github.com/jhoicas/reparo-api/internal/infrastructure/nfe"
	infrapdf "github.com/jhoicas/reparo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/reparo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/reparo-api/internal/infrastructure/realtime"
	"github.com/jhoicas/reparo-api/internal/infrastructure/render"
	"github.com/jhoicas/reparo-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/reparo-api/internal/interfaces/http"
	"github.com/jhoicas/reparo-api/pkg/config"
	"github.com/jhoicas/reparo-api/pkg/logger"
)

const realtimeBuffer = 64

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

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// ── Repositorios ──
	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	moduleRepo := postgres.NewOrganizationModuleRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	deviceRepo := postgres.NewDeviceRepository(pool)
	serviceRepo := postgres.NewServiceOrderRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	fiscalRepo := postgres.NewFiscalDocumentRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// ── Tiempo real: hub local y, si hay Redis, puente entre instancias ──
	hub := realtime.NewHub(realtimeBuffer)
	var publisher ports.ChangePublisher = hub
	var bridge *realtime.RedisBridge
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = client.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, eventos solo locales")
		} else {
			bridge = realtime.NewRedisBridge(client, cfg.Redis.Channel, hub, log)
			publisher = bridge
			// Run reconecta solo; termina cuando ctx se cancela.
			go func() { _ = bridge.Run(ctx) }()
		}
	}

	m := metrics.New()

	// ── Adaptadores de salida ──
	avatarStore, err := storage.NewDiskAvatarStore(cfg.Storage.Dir, cfg.Storage.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("bucket de avatares")
	}
	receiptRenderer, err := render.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas de comprobante")
	}
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.Fiscal.StatusURL)
	xmlBuilder := nfe.NewXMLBuilder()
	statusChecker := nfe.NewStatusChecker(cfg.Fiscal.StatusURL)

	lifecycle := domfiscal.NewLifecycle(
		domfiscal.NewGenerator(domfiscal.GeneratorConfig{
			StateCode:  cfg.Fiscal.StateCode,
			IssuerCNPJ: cfg.Fiscal.IssuerCNPJ,
		}),
		domfiscal.Policy{CancelWindows: map[string]time.Duration{
			entity.FiscalTypeNFCe: cfg.Fiscal.CancelNFCe,
			entity.FiscalTypeNF:   cfg.Fiscal.CancelNF,
			entity.FiscalTypeNFS:  cfg.Fiscal.CancelNFS,
		}},
	)

	// ── Casos de uso ──
	notificationUC := notification.NewUseCase(notificationRepo, publisher, log)
	organizationUC := organization.NewUseCase(orgRepo, moduleRepo)
	authUC := auth.NewUseCase(userRepo, orgRepo, txRunner, avatarStore, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log).WithMaxAvatarKB(cfg.Storage.MaxAvatarKB)
	customerUC := customer.NewUseCase(customerRepo, deviceRepo, txRunner, publisher, log)
	inventoryUC := inventory.NewUseCase(productRepo, movementRepo, txRunner, publisher, notificationUC, log)
	serviceUC := serviceorder.NewUseCase(
		serviceRepo, customerRepo, deviceRepo, userRepo, txRunner,
		inventoryUC, publisher, notificationUC, log,
	)
	fiscalUC := fiscal.NewUseCase(
		fiscalRepo, customerRepo, serviceRepo, lifecycle, statusChecker,
		notificationUC, publisher, m, log,
	).WithDefaultSeries(cfg.Fiscal.DefaultSeries)
	documentUC := fiscal.NewDocumentUseCase(fiscalRepo, orgRepo, customerRepo, receiptRenderer, pdfGenerator, xmlBuilder)
	dashboardUC := analytics.NewDashboardUseCase(analyticsRepo)

	// Sin WriteTimeout: el stream SSE de /api/realtime queda abierto.
	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
		BodyLimit:   cfg.HTTP.BodyLimitMB * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.AllowOrigins}))
	app.Use(httpRouter.RequestLogger(log.Component("http"), m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Reparo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := postgres.Ping(c.UserContext(), pool); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name, "db": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "realtime_bridge": bridge != nil && bridge.Live()})
	})
	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(m.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		OrganizationUC: organizationUC,
		CustomerUC:     customerUC,
		ServiceUC:      serviceUC,
		InventoryUC:    inventoryUC,
		FiscalUC:       fiscalUC,
		DocumentUC:     documentUC,
		NotificationUC: notificationUC,
		DashboardUC:    dashboardUC,
		Hub:            hub,
		Metrics:        m,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	_ "github.com/phuong1932/logistics-deploy/docs"
	"github.com/phuong1932/logistics-deploy/internal/application/auth"
	"github.com/phuong1932/logistics-deploy/internal/application/ports"
	"github.com/phuong1932/logistics-deploy/internal/application/usecase"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/phuong1932/logistics-deploy/internal/infrastructure/filestore"
	"github.com/phuong1932/logistics-deploy/internal/infrastructure/jobs"
	"github.com/phuong1932/logistics-deploy/internal/infrastructure/memory"
	infrapdf "github.com/phuong1932/logistics-deploy/internal/infrastructure/pdf"
	"github.com/phuong1932/logistics-deploy/internal/infrastructure/postgres"
	"github.com/phuong1932/logistics-deploy/internal/infrastructure/report"
	httpRouter "github.com/phuong1932/logistics-deploy/internal/interfaces/http"
	"github.com/phuong1932/logistics-deploy/pkg/config"
	"github.com/phuong1932/logistics-deploy/pkg/jwt"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
)

// @title                       Logistics API
// @version                     1.0
// @description                 API de gestión de lotes de carga, clientes, conductores, usuarios y roles.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db", cfg.DB.Driver).
		Str("queue", cfg.Jobs.Queue).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistencia: PostgreSQL (con migraciones goose) o memoria para desarrollo.
	var uows repository.UnitOfWorkFactory
	if cfg.DB.Driver == "memory" {
		store := memory.NewStore()
		store.SeedRoles(entity.RoleAdmin, entity.RoleStaff, entity.RoleShipper, entity.RoleUser)
		uows = store
		log.Warn().Msg("usando almacenamiento en memoria; los datos se pierden al apagar")
	} else {
		if cfg.DB.Migrate {
			if err := postgres.UpMigrations(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		uows = postgres.NewUnitOfWorkFactory(pool)
	}

	// Cola de trabajos: canal en memoria o lista Redis con DLQ.
	var backend jobs.Backend
	if cfg.Jobs.Queue == "redis" {
		rdb, err := jobs.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		backend = jobs.NewRedisBackend(rdb, jobs.DefaultQueue)
	} else {
		backend = jobs.NewMemoryBackend(cfg.Jobs.QueueSize)
	}
	jobPool := jobs.NewPool(backend, jobs.Options{
		Workers:     cfg.Jobs.Workers,
		MaxAttempts: cfg.Jobs.MaxAttempts,
		Backoff:     cfg.Jobs.Backoff(),
	}, log)

	tokens := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Expiration)
	files := filestore.NewCargoFileStore(cfg.Storage.Root)

	cargoUC := usecase.NewCargoUseCase(uows, files, jobPool, log)
	reportUC := usecase.NewReportUseCase(uows, report.NewExcelExporter(), infrapdf.NewMarotoWaybillGenerator(cfg.App.Name), log)
	trackingUC := usecase.NewTrackingUseCase(uows, log)
	authUC := auth.NewAuthUseCase(uows, tokens, trackingUC, log)

	jobPool.Handle(ports.JobCargoFile, cargoUC.HandleFileJob)
	jobPool.Start(context.Background())

	if created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Error().Err(err).Msg("crear administrador inicial")
	} else if created {
		log.Info().Str("username", cfg.Admin.Username).Msg("administrador inicial creado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.AllowOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: "Content-Disposition",
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Logistics API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CargoUC:    cargoUC,
		ReportUC:   reportUC,
		CustomerUC: usecase.NewCustomerUseCase(uows, log),
		ShipperUC:  usecase.NewShipperUseCase(uows, log),
		UserUC:     usecase.NewUserUseCase(uows, log),
		UserRoleUC: usecase.NewUserRoleUseCase(uows, log),
		RoleUC:     usecase.NewRoleUseCase(uows, log),
		TrackingUC: trackingUC,
		Tokens:     tokens,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Los trabajos en curso terminan; los pendientes en memoria se pierden.
	jobPool.Stop()

	log.Info().Msg("aplicación detenida")
}

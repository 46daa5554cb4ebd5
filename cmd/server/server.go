package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"pinshare/internal/config"
	"pinshare/internal/domain/file"
	"pinshare/internal/domain/user"
	"pinshare/internal/infrastructure/auth"
	"pinshare/internal/infrastructure/crontab"
	"pinshare/internal/infrastructure/database"
	"pinshare/internal/infrastructure/logger"
	"pinshare/internal/infrastructure/observability"
	"pinshare/internal/infrastructure/pinning"
	"pinshare/internal/infrastructure/repository/filerepo"
	"pinshare/internal/infrastructure/repository/userrepo"
	"pinshare/internal/interfaces/httpserver"
)

// Application bundles the long-running parts of the service.
type Application struct {
	httpServer *httpserver.HttpServer
	sweeper    *crontab.Crontab
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, sweeper *crontab.Crontab, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		sweeper:    sweeper,
		log:        log,
	}
}

// Start runs the HTTP server and the retention sweeper until the context ends.
func (a *Application) Start(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return a.httpServer.Run(groupCtx) })
	group.Go(func() error { return a.sweeper.Run(groupCtx) })
	return group.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize token manager")
	}

	pinner := pinning.NewPinataClient(pinning.Config{
		APIKey:     cfg.PinataAPIKey,
		SecretKey:  cfg.PinataSecretKey,
		BaseURL:    cfg.PinataBaseURL,
		GatewayURL: cfg.PinataGatewayURL,
		Timeout:    cfg.PinTimeout,
	}, log)

	compressor := file.NewCompressor(file.CompressorConfig{
		Enabled:      cfg.CompressionEnabled,
		MinSizeBytes: cfg.CompressionMinBytes,
		ImageQuality: cfg.ImageQuality,
	}, log)

	userService := user.NewService(userrepo.NewUserGormRepository(db))
	fileService := file.NewService(file.ServiceConfig{
		MaxUploadBytes: cfg.MaxUploadBytes,
		RetentionAge:   cfg.RetentionAge(),
		PublicLimit:    cfg.PublicListingLimit,
	}, filerepo.NewFileGormRepository(db), pinner, compressor, log)

	httpServer := httpserver.New(cfg, log, userService, fileService, tokens)
	sweeper := crontab.NewCrontab(fileService, cfg.RetentionSchedule, log)
	app := NewApplication(httpServer, sweeper, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}

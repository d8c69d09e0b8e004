package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"foodgram/cmd/config"
	migration "foodgram/cmd/database/migrate"
	"foodgram/internal/metrics"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"

	"go.uber.org/zap"
)

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = lvl
	}
	return zcfg.Build()
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Config load error: %v", err)
	}

	logging, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger init error: %v", err)
	}
	defer logging.Sync()

	db, err := config.ConnectDB(cfg, logging)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := migration.Migrate(db); err != nil {
		logging.Fatal("Database migration failed", zap.Error(err))
	}
	logging.Info("Database migration complete")
	if *migrateOnly {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s3, err := storage.NewAwsS3(ctx, cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}

	app, err := config.NewApp(cfg, config.Deps{
		DB:      db,
		Log:     logging,
		Images:  s3,
		Mailer:  mailing.NewMailer(cfg),
		Metrics: metrics.New(),
	})
	if err != nil {
		logging.Fatal("Failed to build app", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		logging.Info("Shutting down")
		_ = app.Shutdown()
	}()

	logging.Info("Starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/student-directory-api/api/swagger"
	"github.com/noah-isme/student-directory-api/internal/bootstrap"
	"github.com/noah-isme/student-directory-api/internal/dto"
	"github.com/noah-isme/student-directory-api/internal/handler"
	"github.com/noah-isme/student-directory-api/internal/repository"
	"github.com/noah-isme/student-directory-api/internal/service"
	"github.com/noah-isme/student-directory-api/pkg/cache"
	"github.com/noah-isme/student-directory-api/pkg/config"
	"github.com/noah-isme/student-directory-api/pkg/database"
	"github.com/noah-isme/student-directory-api/pkg/logger"
)

// @title Student Directory API
// @version 1.0.0
// @description Student registration records keyed by email
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, ready, closeStore, err := openStore(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open student store", "driver", cfg.Store.Driver, "error", err)
	}
	defer closeStore()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	students := service.NewStudentService(service.NewInstrumentedStudentStore(store, metrics), logr.Named("students"))
	exports := service.NewExportService(students, logr.Named("exports"), nil, nil)

	if cfg.Seed.Enabled {
		if err := bootstrap.SeedSampleStudent(ctx, students, logr.Named("seed")); err != nil {
			logr.Error("seeding sample student failed", zap.Error(err))
		}
	}

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Metrics:        metrics,
		Students:       handler.NewStudentHandler(students, exports, dto.NewValidator()),
		Observability:  handler.NewMetricsHandler(metrics, ready),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.StudentStore, handler.ReadinessCheck, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(db.DB, logr.Named("migrations")); err != nil {
				_ = db.Close()
				return nil, nil, nil, err
			}
		}
		closer := func() {
			if err := db.Close(); err != nil {
				logr.Warn("closing postgres failed", zap.Error(err))
			}
		}
		return repository.NewStudentRepository(db), db.PingContext, closer, nil
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		closer := func() {
			if err := client.Close(); err != nil {
				logr.Warn("closing redis failed", zap.Error(err))
			}
		}
		ready := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return repository.NewRedisStudentRepository(client, cfg.Redis.KeyPrefix, logr.Named("redis")), ready, closer, nil
	default:
		return repository.NewMemoryStudentRepository(), nil, func() {}, nil
	}
}

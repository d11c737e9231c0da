package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymnexus/coach-api/internal/api"
	"gymnexus/coach-api/internal/config"
	"gymnexus/coach-api/internal/logging"
	"gymnexus/coach-api/internal/repository"
	"gymnexus/coach-api/internal/repository/memory"
	"gymnexus/coach-api/internal/repository/mongo"
	"gymnexus/coach-api/internal/service"
	"gymnexus/coach-api/internal/storage"
	"gymnexus/coach-api/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// @title gymNEXUS Coach API
// @version 1.0
// @description API for coaches managing athletes, body metrics and workout documents.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}
	logging.Setup(cfg.Log)

	if err := run(cfg); err != nil {
		log.Fatalf("server stopped: %s", err)
	}
	log.Info("server exiting")
}

type repositories struct {
	users    repository.UserRepository
	workouts repository.WorkoutRepository
	close    func()
}

func openRepositories(cfg config.DatabaseConfig) (*repositories, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("using in-memory repositories, data is lost on restart")
		return &repositories{
			users:    memory.NewUserRepository(),
			workouts: memory.NewWorkoutRepository(),
			close:    func() {},
		}, nil
	}

	client, err := mongo.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Name)
	log.Infof("connected to mongo database %s", cfg.Name)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	mongo.EnsureIndexes(ctx, db)

	return &repositories{
		users:    mongo.NewMongoUserRepository(db),
		workouts: mongo.NewMongoWorkoutRepository(db),
		close: func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Errorf("failed to disconnect mongo: %s", err)
			}
		},
	}, nil
}

func run(cfg config.Config) error {
	repos, err := openRepositories(cfg.Database)
	if err != nil {
		return err
	}
	defer repos.close()

	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			return err
		}
		log.Infof("exercise videos stored in bucket %s", cfg.S3.BucketName)
	} else {
		log.Warn("s3 not configured, video uploads are disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewManager(cfg.Metrics.Namespace, "api", reg)

	services := api.Services{
		Auth:    service.NewAuthService(repos.users, metrics, cfg.JWT.Secret, cfg.JWT.Expiration),
		Users:   service.NewUserService(repos.users, repos.workouts),
		Workout: service.NewWorkoutService(repos.workouts, repos.users, fileStorage, metrics),
		Metrics: service.NewMetricsService(repos.users, metrics),
		Media:   service.NewMediaService(repos.workouts, fileStorage, cfg.S3.PresignExpiry),
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(api.Recovery(metrics), api.RequestLogger(), api.MetricsMiddleware(metrics))

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}
	api.SetupRoutes(router, services, cfg.Metrics.Path, metricsHandler)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		log.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

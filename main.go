package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goldengeneration/config"
	"goldengeneration/cron"
	"goldengeneration/database"
	"goldengeneration/database/repository"
	"goldengeneration/handlers"
	"goldengeneration/routes"
	"goldengeneration/services/events"
	"goldengeneration/services/i18n"
	"goldengeneration/services/signup"
	"goldengeneration/services/storage"
	"goldengeneration/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog, err := i18n.LoadEmbedded()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load message catalogs: %v", err)
	}

	fb, err := utils.FirebaseInit(ctx)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer fb.Close()

	// repositories.
	backends := repository.Backends{Firestore: fb.Firestore}
	checks := []utils.HealthCheck{
		{Name: "redis", Check: func(ctx context.Context) error {
			return utils.GetSessionCacheClient().Ping(ctx).Err()
		}},
	}
	if config.AppConfig.PersistenceBackend == "mongo" {
		db, err := database.InitDB(ctx)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		defer database.CloseDB(context.Background())
		backends.Mongo = db
		checks = append(checks, utils.HealthCheck{Name: "mongo", Check: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		}})
	} else {
		checks = append(checks, utils.HealthCheck{Name: "firestore", Check: func(ctx context.Context) error {
			_, err := fb.Firestore.Collections(ctx).Next()
			if errors.Is(err, iterator.Done) {
				return nil
			}
			return err
		}})
	}
	repos, err := repository.New(config.AppConfig.PersistenceBackend, backends)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// event images.
	var imageStore storage.StorageService
	switch config.AppConfig.StorageProvider {
	case "cloudinary":
		cld, err := utils.Cloudinary()
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
		}
		imageStore = storage.NewCloudinaryStorageService(cld)
	default:
		if fb.Bucket != nil {
			imageStore = storage.NewFirebaseStorageService(fb.Bucket, config.AppConfig.FirebaseStorageBucket)
		} else {
			logger.Warn("No storage bucket configured, event image uploads are disabled")
		}
	}

	// registration hand-off.
	queueClient := asynq.NewClient(utils.QueueRedisOpt())
	defer queueClient.Close()

	worker := cron.NewRegistrationWorker(utils.QueueRedisOpt(), config.AppConfig.WorkerConcurrency, &cron.RegistrationHandler{
		Members:  repos.Members,
		Profiles: &cron.FirebaseProfileUpdater{Client: fb.Auth},
	})
	if err := worker.Start(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// services.
	signupService := &signup.DefaultSignupService{
		Store:     signup.NewRedisSessionStore(utils.GetSessionCacheClient(), config.AppConfig.SessionTTL()),
		Persister: signup.NewQueuePersister(queueClient),
		Catalog:   catalog,
	}
	eventService := &events.DefaultEventService{
		Repo:    repos.Events,
		Storage: imageStore,
	}

	utils.StartHealthMonitor(ctx, 30*time.Second, checks)

	handlerBundle := &handlers.HandlerBundle{
		Verifier:      fb.Auth,
		Catalog:       catalog,
		DefaultLocale: config.AppConfig.DefaultLocale,
		RateLimit:     config.AppConfig.MaxRequestsPerMin,
		Origins:       config.AppConfig.Origins(),
		Signup:        handlers.NewSignupHandler(signupService),
		Events:        handlers.NewEventHandler(eventService),
		I18n:          handlers.NewI18nHandler(catalog),
		Members:       handlers.NewMemberHandler(repos.Members),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("backend", config.AppConfig.PersistenceBackend))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()

	logger.Sugar().Info("main: server stopped gracefully")
}

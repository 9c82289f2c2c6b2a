// File: suntrack/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"suntrack/config"
	"suntrack/database"
	locationRepoPkg "suntrack/database/repository/location"
	marketplaceRepoPkg "suntrack/database/repository/marketplace"
	userRepoPkg "suntrack/database/repository/user"
	"suntrack/handlers"
	"suntrack/hwapi"
	"suntrack/routes"
	"suntrack/services/auth"
	"suntrack/services/location"
	"suntrack/services/marketplace"
	"suntrack/services/notification"
	"suntrack/services/user"
	"suntrack/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	storageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	locationRepo := locationRepoPkg.NewMongoLocationRepo()
	publicationRepo := marketplaceRepoPkg.NewMongoPublicationRepo()
	txnRunner := database.NewMongoTxnRunner(database.MongoClient)

	// external gateways. Pushes are enqueued and delivered by the
	// background worker so a slow FCM round trip never sits on a request.
	hwGateway := hwapi.NewClient(config.AppConfig.HwAPIBaseURL)
	pushQueue := asynq.NewClient(notification.QueueRedisOpt())
	pushSender := notification.NewQueuedPushSender(pushQueue)
	notification.InitPushWorker(notification.NewFCMSender(utils.FCMClient))

	// services.
	authService := &auth.DefaultAuthService{
		Repo: userRepo,
		Txn:  txnRunner,
	}
	locationService := &location.DefaultLocationService{
		Repo:     locationRepo,
		UserRepo: userRepo,
		Hw:       hwGateway,
		Push:     pushSender,
		Txn:      txnRunner,
	}
	userService := &user.DefaultUserService{
		Repo:         userRepo,
		LocationRepo: locationRepo,
		LocationSvc:  locationService,
		Push:         pushSender,
		Txn:          txnRunner,
	}
	marketplaceService := &marketplace.DefaultMarketplaceService{
		Repo:     publicationRepo,
		UserRepo: userRepo,
		Storage:  storageService,
		Cache:    marketplace.NewRedisPageCache(utils.GetCacheClient()),
	}

	handlerBundle := &handlers.HandlerBundle{
		AuthService:        authService,
		UserService:        userService,
		LocationService:    locationService,
		MarketplaceService: marketplaceService,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := pushQueue.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close push queue client: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ConteMartin/PASTO/config"
	"github.com/ConteMartin/PASTO/cron"
	"github.com/ConteMartin/PASTO/database"
	notificationRepo "github.com/ConteMartin/PASTO/database/repository/notification"
	requestRepo "github.com/ConteMartin/PASTO/database/repository/request"
	userRepoPkg "github.com/ConteMartin/PASTO/database/repository/user"
	"github.com/ConteMartin/PASTO/handlers"
	"github.com/ConteMartin/PASTO/middleware"
	"github.com/ConteMartin/PASTO/routes"
	"github.com/ConteMartin/PASTO/services/notification"
	"github.com/ConteMartin/PASTO/services/pricing"
	"github.com/ConteMartin/PASTO/services/request"
	"github.com/ConteMartin/PASTO/services/user"
	"github.com/ConteMartin/PASTO/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	reqRepo := requestRepo.NewMongoRequestRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	notifRepo := notificationRepo.NewMongoNotificationRepo()

	for _, ensure := range []func() error{reqRepo.EnsureIndexes, userRepo.EnsureIndexes, notifRepo.EnsureIndexes} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}

	// background push-delivery worker; returns the enqueue client.
	pushClient := cron.InitPushWorker()
	defer pushClient.Close()

	// services.
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}

	dispatcher := &notification.DefaultDispatcher{
		Repo: notifRepo,
		Push: &notification.AsynqEnqueuer{Client: pushClient},
	}

	requestService := &request.DefaultRequestService{
		Repo:       reqRepo,
		Users:      userRepo,
		Estimator:  pricing.NewEstimator(config.Pricing),
		Dispatcher: dispatcher,
		Cache:      utils.GetCacheClient(),
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:      userRepo,
		Auth:          handlers.NewAuthHandler(userService),
		Requests:      handlers.NewRequestHandler(requestService),
		Notifications: handlers.NewNotificationHandler(dispatcher),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
	)

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

	logger.Sugar().Info("main: server stopped gracefully")
}

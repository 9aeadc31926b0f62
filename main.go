// File: hearth/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"hearth/config"
	"hearth/cron"
	"hearth/database/repository/docstore"
	"hearth/handlers"
	"hearth/middleware"
	"hearth/routes"
	"hearth/services/binding"
	calendarSvc "hearth/services/calendar"
	"hearth/services/event"
	"hearth/services/push"
	"hearth/services/reminder"
	"hearth/services/tasks"
	"hearth/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.FirebaseInit()
	utils.InitCache()

	store := docstore.NewFirestoreClient(utils.FirestoreClient)

	calendarProvider, err := calendarSvc.NewGoogleCalendarProvider(
		context.Background(), config.AppConfig.GoogleCalendarCredentials)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar provider: %v", err)
	}

	// Delivery scheduling.
	scheduler := tasks.NewAsynqScheduler(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer scheduler.Close()

	// Services.
	shardStore := event.NewDefaultShardStore(store)
	projectorService := &reminder.DefaultProjectorService{
		Store: store,
		Sched: scheduler,
	}
	bindingService := &binding.DefaultBindingService{
		Store: store,
		Sched: scheduler,
	}
	mirrorService := &calendarSvc.DefaultMirrorService{
		Store:    store,
		Shards:   shardStore,
		Provider: calendarProvider,
		Cache:    utils.GetCacheClient(),
	}
	pushSender := &push.FCMSender{
		Store:  store,
		Client: utils.FCMClient,
	}

	// Background delivery worker and sweep.
	cron.InitNotificationWorker(store, pushSender, scheduler)
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go cron.StartDeliverySweep(sweepCtx, store, scheduler,
		time.Duration(config.AppConfig.SweepIntervalMinutes)*time.Minute,
		time.Duration(config.AppConfig.SweepHorizonMinutes)*time.Minute)

	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient()})

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	reminderHandler := handlers.NewReminderHandler(projectorService)
	bindingHandler := handlers.NewBindingHandler(bindingService)
	eventHandler := handlers.NewEventHandler(mirrorService, shardStore)

	routes.RegisterRoutes(router, reminderHandler, bindingHandler, eventHandler)

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

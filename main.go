// File: studiobook/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"studiobook/config"
	"studiobook/cron"
	"studiobook/handlers"
	"studiobook/middleware"
	"studiobook/routes"
	"studiobook/services/availability"
	"studiobook/services/booking"
	"studiobook/services/calendly"
	"studiobook/services/clickup"
	ai "studiobook/services/intelligence"
	"studiobook/services/tasks"
	"studiobook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	logger, err := utils.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// upstream clients.
	calendlyClient := calendly.NewClient(cfg.CalendlyBaseURL, cfg.CalendlyAPIToken, logger)
	clickupClient := clickup.NewClient(cfg.ClickUpBaseURL, cfg.ClickUpAPIToken, logger)
	prompts, err := ai.NewPromptGenerator(rootCtx, cfg, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize prompt generator: %v", err)
	}
	if closer, ok := prompts.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// services.
	followUps := &booking.FollowUpRunner{
		Prompts:       prompts,
		PromptTimeout: cfg.AITimeout,
		LocationKind:  cfg.CalendlyLocationKind,
		Location:      cfg.Location(),
		Logger:        logger.Named("followup"),
	}
	if cfg.ClickUpConfigured() {
		followUps.Tasks = clickupClient
		followUps.ListID = cfg.ClickUpListID
	}
	availabilitySvc := newAvailabilityService(cfg, calendlyClient, logger)
	if cfg.CalendlyAPIToken != "" {
		followUps.Invitees = calendlyClient
		followUps.EventTypeURI = cfg.CalendlyEventTypeURI
	}

	// detached follow-up execution: asynq on Redis when configured,
	// in-process goroutines otherwise.
	var (
		dispatcher booking.Dispatcher
		worker     *cron.FollowUpWorker
		inProcess  *tasks.InProcessDispatcher
		monitor    *utils.HealthMonitor
	)
	if cfg.RedisEnabled() {
		cacheClient, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		defer cacheClient.Close()
		availabilitySvc.Cache = availability.NewRedisSlotCache(cacheClient, cfg.AvailabilityCacheTTL)

		queueClient := asynq.NewClient(cron.RedisOpt(cfg))
		defer queueClient.Close()
		dispatcher = tasks.NewQueueDispatcher(queueClient, cfg.FollowUpTimeout, logger.Named("dispatcher"))

		worker = cron.NewFollowUpWorker(cfg, followUps.Run, logger)
		if err := worker.Start(); err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}

		queuePing, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisQueueDB)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		defer queuePing.Close()
		monitor = utils.NewHealthMonitor(map[string]*redis.Client{
			"cache": cacheClient,
			"queue": queuePing,
		}, 30*time.Second)
		monitor.Start(rootCtx)
	} else {
		logger.Warn("REDIS_ADDR not set: follow-ups run in-process and availability is not cached")
		inProcess = tasks.NewInProcessDispatcher(followUps.Run, cfg.FollowUpTimeout, logger.Named("dispatcher"))
		dispatcher = inProcess
	}

	submissionSvc := &booking.DefaultSubmissionService{
		Dispatcher: dispatcher,
		FollowUps:  followUps,
		Logger:     logger.Named("booking"),
	}

	logConfiguredIntegrations(logger, cfg)

	bookingHandler := handlers.NewBookingHandler(submissionSvc, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilitySvc, logger)

	handlerBundle := &handlers.HandlerBundle{
		SubmitBooking:     bookingHandler.SubmitBooking,
		CreateBooking:     bookingHandler.CreateBooking,
		CreateTask:        bookingHandler.CreateTask,
		GetAvailableTimes: availabilityHandler.GetAvailableTimes,
		Health:            handlers.HealthHandler(monitor),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))

	var origins []string
	if cfg.IsProduction() {
		origins = []string{strings.TrimRight(cfg.SiteURL, "/")}
	}
	routes.RegisterRoutes(router, handlerBundle, origins)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
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
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if inProcess != nil {
		inProcess.Wait()
	}
	stop()

	logger.Info("main: server stopped gracefully")
}

// newAvailabilityService attaches Calendly as soon as a token is present so
// a missing event type is reported as such.
func newAvailabilityService(cfg *config.Config, client *calendly.Client, logger *zap.Logger) *availability.DefaultAvailabilityService {
	svc := &availability.DefaultAvailabilityService{
		EventTypeURI: cfg.CalendlyEventTypeURI,
		Policy: availability.Policy{
			MinNoticeHours: cfg.MinNoticeHours,
			MaxDaysAhead:   cfg.MaxDaysAhead,
			MaxRangeDays:   cfg.MaxRangeDays,
		},
		Logger: logger.Named("availability"),
	}
	if cfg.CalendlyAPIToken != "" {
		svc.Source = client
	}
	return svc
}

func logConfiguredIntegrations(logger *zap.Logger, cfg *config.Config) {
	logger.Info("integrations",
		zap.Bool("calendly", cfg.CalendlyConfigured()),
		zap.Bool("clickup", cfg.ClickUpConfigured()),
		zap.Bool("ai", cfg.AIConfigured()),
		zap.String("aiProvider", cfg.AIProvider),
		zap.Bool("redis", cfg.RedisEnabled()))
}

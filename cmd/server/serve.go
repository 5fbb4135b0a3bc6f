package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"coresync/coach/internal/api"
	"coresync/coach/internal/config"
	"coresync/coach/internal/contentfilter"
	"coresync/coach/internal/llm"
	"coresync/coach/internal/metrics"
	"coresync/coach/internal/notify"
	"coresync/coach/internal/repository"
	"coresync/coach/internal/repository/convex"
	"coresync/coach/internal/repository/mongo"
	"coresync/coach/internal/repository/redis"
	"coresync/coach/internal/service"
	"coresync/coach/internal/storage"
	"coresync/coach/internal/webhook"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

// stores is the plan store gateway selected by store.driver.
type stores struct {
	users repository.UserRepository
	plans repository.PlanRepository
	close func()
}

func openStores(c config.Config) (*stores, error) {
	switch c.Store.Driver {
	case config.StoreConvex:
		store := convex.NewStore(convex.NewClient(c.Convex.URL, nil))
		logger.Info("using convex plan store", zap.String("url", c.Convex.URL))
		return &stores{users: store, plans: store, close: func() {}}, nil

	case config.StoreMongo, "":
		dbClient, err := mongo.ConnectDB(c.Database.URI)
		if err != nil {
			return nil, fmt.Errorf("could not connect to MongoDB: %w", err)
		}
		appDB := dbClient.Database(c.Database.Name)
		logger.Info("database connection established", zap.String("database", c.Database.Name))

		return &stores{
			users: mongo.NewMongoUserRepository(appDB),
			plans: mongo.NewMongoPlanRepository(appDB, logger),
			close: func() {
				logger.Info("disconnecting MongoDB")
				if err := mongo.DisconnectDB(dbClient); err != nil {
					logger.Error("failed to disconnect MongoDB", zap.Error(err))
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Plan store ---
	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	// --- Language model ---
	// A nil client makes chat and program generation report a configuration error
	var model llm.Client
	if cfg.GenAI.APIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model, cfg.GenAI.Temperature)
		if err != nil {
			return err
		}
		model = gemini
		logger.Info("GenAI client ready", zap.String("model", gemini.Model()))
	} else {
		logger.Warn("GOOGLE_API_KEY is not set; chat and program generation are disabled")
	}

	// --- Optional collaborators ---
	var archive storage.PlanArchive
	if cfg.S3.Enabled() {
		archive, err = storage.NewS3Archive(ctx, cfg.S3, logger)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("s3.bucket_name is not set; plan export is disabled")
	}

	var deliveries repository.DeliveryStore
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(redis.Options{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer func() { _ = redis.Close(rdb) }()
		if err := redis.Ping(ctx, rdb); err != nil {
			// Deliveries are still processed, only without replay protection
			logger.Warn("redis unavailable at startup", zap.Error(err))
		}
		deliveries = redis.NewDeliveryStore(rdb)
	} else {
		logger.Warn("redis.address is not set; webhook replay protection is disabled")
	}

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.Resend.Enabled() {
		notifier, err = notify.NewResendNotifier(cfg.Resend.APIKey, cfg.Resend.From, "", logger)
		if err != nil {
			return err
		}
	}

	sessionKey, err := api.ParseSessionKey(cfg.Clerk.JWTPublicKey)
	if err != nil {
		return fmt.Errorf("invalid CLERK_JWT_KEY: %w", err)
	}
	if sessionKey == nil {
		logger.Warn("CLERK_JWT_KEY is not set; all chat requests are anonymous")
	}

	verifier := webhook.NewVerifier(cfg.Clerk.WebhookSecret)
	if !verifier.Configured() {
		logger.Warn("CLERK_WEBHOOK_SECRET is missing or malformed; webhook deliveries will be rejected")
	}

	// --- Services ---
	chatOpts := []service.ChatOption{service.WithNotifier(st.users, notifier)}
	if archive != nil {
		chatOpts = append(chatOpts, service.WithPlanArchive(archive, cfg.S3.URLExpiry))
	}
	services := api.Services{
		Chat:    service.NewChatService(model, st.plans, contentfilter.New(), m, logger, chatOpts...),
		Program: service.NewProgramService(model, st.plans, m, logger),
		Webhook: service.NewWebhookService(verifier, st.users, deliveries, cfg.Redis.DeliveryTTL, m, logger),
		Profile: service.NewProfileService(st.users, st.plans, archive, cfg.S3.URLExpiry, cfg.Vapi.AssistantID, logger),
	}

	// --- HTTP ---
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, sessionKey, services, reg, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // Program generation makes two model calls
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		// The server has 10 seconds to finish the requests it is currently handling
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("server exiting")
	return nil
}

func init() {
	// Keep stdout free for the prompt command's output
	gin.DefaultWriter = os.Stderr
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khushipatel79/e-commerce-BE/common/auth"
	"github.com/khushipatel79/e-commerce-BE/common/logger"
	"github.com/khushipatel79/e-commerce-BE/controllers"
	"github.com/khushipatel79/e-commerce-BE/database"
	"github.com/khushipatel79/e-commerce-BE/middleware"
	aws_pkg "github.com/khushipatel79/e-commerce-BE/pkg/aws"
	"github.com/khushipatel79/e-commerce-BE/repository"
	"github.com/khushipatel79/e-commerce-BE/routes"
	"github.com/khushipatel79/e-commerce-BE/sender"
	"github.com/khushipatel79/e-commerce-BE/services"
)

const serviceName = "storefront-api"

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	log := logger.Initialize(getEnv("ENV", "development"))
	defer func() { _ = log.Sync() }()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	// --- 1. Data stores ---

	mongoClient, db, err := database.ConnectWithConfig(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Warn("Failed to ensure indexes", zap.Error(err))
	}

	var tx repository.Transactor = repository.NewSequentialTransactor()
	if cfg.MongoTransactions {
		tx = repository.NewMongoTransactor(mongoClient)
	} else {
		log.Warn("MongoDB transactions disabled, checkout and cancellation use compensating rollback")
	}

	var redisClient *redis.Client
	var idempotency repository.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, checkout idempotency keys disabled", zap.Error(err))
		} else {
			idempotency = repository.NewRedisIdempotencyStore(redisClient)
		}
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)

	// --- 2. AWS integrations (all optional) ---

	var (
		metrics   aws_pkg.MetricsRecorder
		presigner aws_pkg.Presigner
		consumer  *aws_pkg.SQSConsumer
		events    = services.NewNoopEventPublisher()
	)
	if cfg.NeedsAWS() {
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			log.Warn("AWS config unavailable, AWS integrations disabled", zap.Error(err))
		} else {
			metrics, presigner, consumer, events = wireAWS(cfg, awsCfg, log)
		}
	}

	var mailer sender.EmailSender = sender.NewLogSender(log)
	if cfg.SMTPHost != "" {
		smtpSender, err := sender.NewSMTPSender(sender.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUser,
			Password:   cfg.SMTPPassword,
			SenderName: cfg.SMTPSenderName,
		})
		if err != nil {
			log.Warn("SMTP not configured, emails will be logged", zap.Error(err))
		} else {
			mailer = smtpSender
		}
	}

	// --- 3. Services ---

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	authService := services.NewAuthService(userRepo, tokens, mailer, events, metrics, services.AuthConfig{
		RefreshTTL:  cfg.RefreshTokenTTL,
		ResetTTL:    cfg.ResetTokenTTL,
		FrontendURL: cfg.FrontendURL,
	}, log)
	userService := services.NewUserService(userRepo, log)
	categoryService := services.NewCategoryService(categoryRepo, log)
	productService := services.NewProductService(productRepo, categoryRepo, presigner, services.UploadConfig{
		Bucket:    cfg.S3Bucket,
		Prefix:    cfg.S3Prefix,
		CDNDomain: cfg.CDNDomain,
		Endpoint:  cfg.S3Endpoint,
	}, log)
	cartService := services.NewCartService(cartRepo, productRepo, log)
	orderService := services.NewOrderService(services.OrderDeps{
		Orders:      orderRepo,
		Carts:       cartRepo,
		Products:    productRepo,
		Users:       userRepo,
		Tx:          tx,
		Idempotency: idempotency,
		Events:      events,
		Metrics:     metrics,
	}, services.OrderConfig{IdempotencyTTL: cfg.IdempotencyTTL}, log)
	reviewService := services.NewReviewService(reviewRepo, productRepo, orderRepo, userRepo, metrics, log)
	wishlistService := services.NewWishlistService(wishlistRepo, productRepo, log)
	dashboardService := services.NewDashboardService(orderRepo, productRepo, userRepo, log)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Error("Failed to seed admin account", zap.Error(err))
		}
	}

	// --- 4. Background workers ---

	workerCtx, stopWorkers := context.WithCancel(ctx)
	workersDone := make(chan struct{})
	if consumer != nil {
		worker := services.NewNotificationWorker(userRepo, mailer, metrics, log)
		go func() {
			defer close(workersDone)
			_ = consumer.StartPolling(workerCtx, worker.Handle)
		}()
	} else {
		close(workersDone)
	}

	// --- 5. HTTP server & middleware ---

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.SecurityHeaders(),
		middleware.CORS(middleware.ParseOrigins(cfg.AllowedOrigins)),
		middleware.Timeout(cfg.RequestTimeout),
		middleware.MetricsMiddleware(metrics, serviceName),
	)

	routes.RegisterRoutes(r, routes.Controllers{
		Auth:      controllers.NewAuthController(authService),
		User:      controllers.NewUserController(userService),
		Category:  controllers.NewCategoryController(categoryService),
		Product:   controllers.NewProductController(productService),
		Cart:      controllers.NewCartController(cartService),
		Order:     controllers.NewOrderController(orderService),
		Review:    controllers.NewReviewController(reviewService),
		Wishlist:  controllers.NewWishlistController(wishlistService),
		Dashboard: controllers.NewDashboardController(dashboardService),
	}, tokens)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Storefront API starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- 6. Graceful shutdown ---

	// stores close only after the server and workers have drained
	drained := make(chan struct{})
	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			defer close(drained)
			err := srv.Shutdown(ctx)
			stopWorkers()
			select {
			case <-workersDone:
			case <-ctx.Done():
			}
			if werr := services.WaitForEvents(ctx); werr != nil {
				log.Warn("Pending events not flushed before shutdown", zap.Error(werr))
			}
			return err
		},
		"datastores": func(ctx context.Context) error {
			select {
			case <-drained:
			case <-ctx.Done():
			}
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					log.Error("Failed to close Redis", zap.Error(err))
				}
			}
			return database.Close(ctx, mongoClient)
		},
	})

	exitCode := <-wait
	log.Info("Storefront API stopped", zap.Int("exit_code", exitCode))
	_ = log.Sync()
	os.Exit(exitCode)
}

// wireAWS builds the AWS backed adapters that the configuration asks for.
func wireAWS(cfg *Config, awsCfg sdkaws.Config, log *zap.Logger) (
	metrics aws_pkg.MetricsRecorder,
	presigner aws_pkg.Presigner,
	consumer *aws_pkg.SQSConsumer,
	events services.EventPublisher,
) {
	events = services.NewNoopEventPublisher()

	if cfg.CloudWatch {
		metrics = aws_pkg.NewMetricsClient(awsCfg, cfg.CWNamespace, true)
	}
	if cfg.S3Bucket != "" {
		presigner = aws_pkg.NewS3Presigner(awsCfg)
	}

	switch {
	case cfg.EventsTopicARN != "":
		events = services.NewSNSEventPublisher(aws_pkg.NewSNSClient(awsCfg), cfg.EventsTopicARN, log)
	case cfg.EventsQueueURL != "":
		events = services.NewSQSEventPublisher(aws_pkg.NewSQSConsumer(awsCfg, cfg.EventsQueueURL, log), log)
	}

	if cfg.NotificationsQueueURL != "" {
		consumer = aws_pkg.NewSQSConsumer(awsCfg, cfg.NotificationsQueueURL, log)
	}
	return metrics, presigner, consumer, events
}

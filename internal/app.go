package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"file-exchange-api/config"
	"file-exchange-api/internal/application/ports"
	"file-exchange-api/internal/application/services"
	domainUser "file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/infrastructure/db/postgres"
	"file-exchange-api/internal/infrastructure/db/postgres/download"
	"file-exchange-api/internal/infrastructure/db/postgres/file"
	"file-exchange-api/internal/infrastructure/db/postgres/session"
	"file-exchange-api/internal/infrastructure/db/postgres/user"
	"file-exchange-api/internal/infrastructure/jwt"
	"file-exchange-api/internal/infrastructure/mail"
	"file-exchange-api/internal/infrastructure/metrics"
	"file-exchange-api/internal/infrastructure/mq"
	"file-exchange-api/internal/infrastructure/password"
	"file-exchange-api/internal/infrastructure/storage"
	"file-exchange-api/internal/interface/api/rest"
	"file-exchange-api/internal/interface/api/rest/middleware"
	"file-exchange-api/pkg/rmqconsumer"
)

const shutdownTimeout = 5 * time.Second

type eventBus interface {
	ports.EventPublisher
	Close() error
}

type App struct {
	logger   *zap.Logger
	cfg      config.Config
	db       *pgxpool.Pool
	hasher   *password.Hasher
	mCounter *prometheus.CounterVec

	// set by InitControllers
	blobs   ports.BlobStorage
	events  eventBus
	httpSrv *http.Server
	router  *gin.Engine
}

// NewApp loads the configuration and opens the database pool. Adapters only
// the HTTP server needs are created by InitControllers.
func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("cannot initialize zap logger: %w", err)
	}

	// config
	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("error loading .env file", zap.Error(err))
		return nil, err
	}
	cfg := config.Load()
	if err = cfg.Validate(); err != nil {
		logger.Error("invalid config", zap.Error(err))
		return nil, err
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Error("DB config error", zap.Error(err))
		return nil, err
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		logger.Error("failed to connect to database", zap.Error(err))
		return nil, err
	}

	return &App{
		logger:   logger,
		cfg:      cfg,
		db:       dbPool,
		hasher:   password.NewHasher(0),
		mCounter: metrics.NewCounter(),
	}, nil
}

func (a *App) Close() {
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Error("rabbitmq close error", zap.Error(err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *App) Migrate(ctx context.Context) error {
	return postgres.Migrate(ctx, a.logger, a.db)
}

// CreateOpsUser bootstraps an operations account outside the HTTP API.
func (a *App) CreateOpsUser(ctx context.Context, in ports.NewUser) (*domainUser.User, error) {
	userService := services.NewUserService(
		a.logger,
		user.NewRepository(a.db),
		a.hasher,
		mail.Disabled{},
		mq.Nop{},
		a.mCounter,
		rest.Links{BaseURL: a.cfg.App.PublicURL}.VerifyEmail,
	)

	return userService.CreateOpsUser(ctx, in)
}

// PruneTokens removes download tokens and sessions that can never be used
// again. Tokens are kept for olderThan past their expiry.
func (a *App) PruneTokens(ctx context.Context, olderThan time.Duration) (tokens, sessions int64, err error) {
	downloadService := services.NewDownloadService(
		a.logger,
		download.NewRepository(a.db),
		file.NewRepository(a.db),
		a.mCounter,
		a.cfg.App.DownloadTTL,
	)
	authService := services.NewAuthService(
		a.logger,
		user.NewRepository(a.db),
		session.NewRepository(a.db),
		jwt.New(a.cfg.App.JWTSecret),
		a.hasher,
		a.mCounter,
		a.cfg.App.TokenTTL,
		a.cfg.App.SessionTTL,
	)

	if tokens, err = downloadService.Prune(ctx, olderThan); err != nil {
		return 0, 0, err
	}
	if sessions, err = authService.PruneSessions(ctx); err != nil {
		return tokens, 0, err
	}

	a.logger.Info("pruned expired credentials", zap.Int64("download_tokens", tokens), zap.Int64("sessions", sessions))

	return tokens, sessions, nil
}

func (a *App) initAdapters(ctx context.Context) error {
	// storage
	switch a.cfg.Storage.Driver {
	case config.StorageS3:
		blobs, err := storage.NewMinio(ctx, a.logger, a.cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to connect to S3: %w", err)
		}
		a.blobs = blobs
	default:
		blobs, err := storage.NewDisk(a.logger, a.cfg.Storage.UploadDir)
		if err != nil {
			return fmt.Errorf("failed to open upload dir: %w", err)
		}
		a.blobs = blobs
	}

	// rabbitMQ
	if !a.cfg.MQEnabled() {
		a.logger.Info("rabbitmq not configured, domain events disabled")
		a.events = mq.Nop{}
		return nil
	}
	rabbitDsn, err := a.cfg.AMQPDSN()
	if err != nil {
		return fmt.Errorf("RabbitMQ config error: %w", err)
	}
	rbMQ := mq.New(a.cfg.MQ, a.logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		return fmt.Errorf("failed to connect to rabbitMQ: %w", err)
	}
	a.events = rbMQ

	return nil
}

func (a *App) mailer() ports.Mailer {
	if !a.cfg.MailEnabled() {
		a.logger.Warn("smtp not configured, verification links are only returned in the signup response")
		return mail.Disabled{}
	}
	return mail.NewSMTP(a.logger, a.cfg.Mail)
}

func (a *App) InitControllers(ctx context.Context) error {
	if err := a.initAdapters(ctx); err != nil {
		a.logger.Error("failed to init adapters", zap.Error(err))
		return err
	}

	// router
	switch a.cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	a.router = gin.New()
	a.router.Use(gin.Recovery())
	a.router.Use(middleware.RequestLogGin(a.logger, a.mCounter))

	a.httpSrv = &http.Server{
		Addr:              a.cfg.App.Host + ":" + a.cfg.App.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	links := rest.Links{BaseURL: a.cfg.App.PublicURL}

	// repos
	userRepo := user.NewRepository(a.db)
	sessionRepo := session.NewRepository(a.db)
	fileRepo := file.NewRepository(a.db)
	tokenRepo := download.NewRepository(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	authService := services.NewAuthService(
		a.logger, userRepo, sessionRepo, jwtService, a.hasher, a.mCounter,
		a.cfg.App.TokenTTL, a.cfg.App.SessionTTL,
	)
	userService := services.NewUserService(
		a.logger, userRepo, a.hasher, a.mailer(), a.events, a.mCounter, links.VerifyEmail,
	)
	fileService := services.NewFileService(a.logger, a.blobs, fileRepo, a.events, a.mCounter)
	downloadService := services.NewDownloadService(a.logger, tokenRepo, fileRepo, a.mCounter, a.cfg.App.DownloadTTL)

	// controllers
	cookie := rest.SessionCookie{
		Name:   a.cfg.App.SessionCookie,
		Secure: gin.Mode() == gin.ReleaseMode,
	}
	authn := middleware.Authenticate(authService, a.logger, cookie.Name)

	rest.NewAuthController(a.router, a.logger, userService, authService, cookie)
	rest.NewFileController(a.router, a.logger, fileService, authn, a.cfg.Storage.MaxUploadBytes)
	rest.NewDownloadController(a.router, a.logger, fileService, downloadService, links, authn)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) {
		if err := a.db.Ping(c.Request.Context()); err != nil {
			c.Status(http.StatusServiceUnavailable)
			return
		}
		c.Status(http.StatusOK)
	})
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))

	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts the server down
// gracefully. Request handling never spawns background work.
func (a *App) Run(ctx context.Context) error {
	if a.httpSrv == nil {
		return errors.New("controllers are not initialized")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

// ConsumeEvents logs every domain event routed to the event queue until ctx
// is cancelled.
func (a *App) ConsumeEvents(ctx context.Context) error {
	rabbitDsn, err := a.cfg.AMQPDSN()
	if err != nil {
		return fmt.Errorf("RabbitMQ config error: %w", err)
	}

	var consumer ports.EventConsumer = rmqconsumer.New(a.cfg.MQ, a.logger)
	if err = consumer.Connect(rabbitDsn); err != nil {
		return fmt.Errorf("failed to connect rabbitMQ consumer: %w", err)
	}
	defer consumer.Close()
	if err = consumer.Init(); err != nil {
		return fmt.Errorf("failed to init rabbitMQ consumer: %w", err)
	}

	consumer.DeliveryWorker(ctx)

	return nil
}

func (a *App) Logger() *zap.Logger { return a.logger }

package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/insurtech-admin/internal/cache"
	"github.com/magabrotheeeer/insurtech-admin/internal/config"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/handlers/health"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/sl"
	"github.com/magabrotheeeer/insurtech-admin/internal/metrics"
	"github.com/magabrotheeeer/insurtech-admin/internal/migrations"
	"github.com/magabrotheeeer/insurtech-admin/internal/rabbitmq"
	"github.com/magabrotheeeer/insurtech-admin/internal/services/auth"
	configservice "github.com/magabrotheeeer/insurtech-admin/internal/services/configuration"
	"github.com/magabrotheeeer/insurtech-admin/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App владеет HTTP-сервером и внешними соединениями.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	amqpConn  *amqp.Connection
	publisher *rabbitmq.AMQPPublisher
}

// New подключает хранилища, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.broker.New"
	app := &App{logger: logger}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.db = db
	if err = migrations.Run(db.DB); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("database migrations applied")

	redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.cache = redisCache

	publisher, err := app.connectPublisher(cfg.RabbitMQ)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New()
	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := auth.NewAuthService(db, maker, auth.Settings{
		MasterLicenseKey:   cfg.MasterLicenseKey,
		TrialPeriod:        cfg.License.TrialPeriod,
		FullPeriod:         cfg.FullPeriod,
		MaxLoginAttempts:   cfg.MaxLoginAttempts,
		LoginAttemptWindow: cfg.LoginAttemptWindow,
		LockoutPeriod:      cfg.LockoutPeriod,
	},
		auth.WithAttemptCounter(redisCache),
		auth.WithPublisher(publisher),
		auth.WithMetrics(m),
		auth.WithLogger(logger),
	)

	router := NewRouter(RouterDeps{
		Logger:        logger,
		Auth:          authService,
		Configuration: configservice.New(db),
		Metrics:       m,
		HealthChecks: map[string]health.Pinger{
			"postgres": db,
			"redis":    redisCache,
		},
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	app.server = &http.Server{
		Addr:              cfg.AddressHTTP,
		Handler:           router,
		ReadTimeout:       cfg.TimeoutHTTP,
		ReadHeaderTimeout: cfg.TimeoutHTTP,
		WriteTimeout:      cfg.TimeoutHTTP,
		IdleTimeout:       cfg.IdleTimeout,
	}
	return app, nil
}

// connectPublisher возвращает NopPublisher, если AMQP не настроен.
func (a *App) connectPublisher(cfg config.RabbitMQ) (rabbitmq.Publisher, error) {
	if cfg.URL == "" {
		a.logger.Warn("AMQP_URL is not set, account events will not be published")
		return rabbitmq.NopPublisher{}, nil
	}
	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	a.amqpConn = conn
	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	a.publisher = rabbitmq.NewPublisher(ch, cfg.Exchange)
	a.logger.Info("account events publisher is ready", slog.String("exchange", cfg.Exchange))
	return a.publisher, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down HTTP server gracefully")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close amqp channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close amqp connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", sl.Err(err))
		}
	}
}

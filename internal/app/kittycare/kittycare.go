// Package kittycare собирает основное HTTP-приложение: хранилище,
// кеш, очередь, внешние клиенты, сервисы и маршруты.
package kittycare

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/kittycareapp/kittycare-server/internal/cache"
	"github.com/kittycareapp/kittycare-server/internal/config"
	"github.com/kittycareapp/kittycare-server/internal/klaviyo"
	"github.com/kittycareapp/kittycare-server/internal/lib/jwt"
	"github.com/kittycareapp/kittycare-server/internal/lib/rabbitmq"
	"github.com/kittycareapp/kittycare-server/internal/migrations"
	"github.com/kittycareapp/kittycare-server/internal/openai"
	"github.com/kittycareapp/kittycare-server/internal/providers/paypal"
	"github.com/kittycareapp/kittycare-server/internal/providers/stripe"
	authservice "github.com/kittycareapp/kittycare-server/internal/services/auth"
	catservice "github.com/kittycareapp/kittycare-server/internal/services/cat"
	chatservice "github.com/kittycareapp/kittycare-server/internal/services/chat"
	paymentservice "github.com/kittycareapp/kittycare-server/internal/services/payment"
	subservice "github.com/kittycareapp/kittycare-server/internal/services/subscription"
	"github.com/kittycareapp/kittycare-server/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewEventPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	stripeClient := stripe.NewClient(cfg.StripeSecretKey)
	paypalClient := paypal.NewClient(cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalBaseURL)
	openaiClient := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	klaviyoClient := klaviyo.NewClient(cfg.KlaviyoAPIKey)

	authService := authservice.NewAuthService(db, jwtMaker, klaviyoClient, logger)
	subscriptionService := subservice.NewSubscriptionService(db, db, cacheRedis, publisher, klaviyoClient, logger)
	catService := catservice.NewCatService(db, openaiClient, logger)
	chatService := chatservice.NewChatService(db, db, openaiClient, logger)
	paymentService := paymentservice.NewPaymentService(stripeClient, paypalClient, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker,
		authService, subscriptionService, catService, chatService, paymentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.ch.Close()
		_ = a.conn.Close()
		_ = a.db.DB.Close()
		return err
	}
}

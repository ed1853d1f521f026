package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fuseroom/fuseroom/internal/infrastructure/configs"
	"github.com/fuseroom/fuseroom/internal/infrastructure/logging"
	"github.com/fuseroom/fuseroom/internal/infrastructure/metrics"
	"github.com/fuseroom/fuseroom/internal/infrastructure/ratelimiter"
	healthHandler "github.com/fuseroom/fuseroom/internal/presentation/handler/health"
	messagesHandler "github.com/fuseroom/fuseroom/internal/presentation/handler/messages"
	ordersHandler "github.com/fuseroom/fuseroom/internal/presentation/handler/orders"
	roomHandler "github.com/fuseroom/fuseroom/internal/presentation/handler/rooms"
)

type Application struct {
	config          configs.Config
	roomHandler     *roomHandler.Handler
	messagesHandler *messagesHandler.Handler
	ordersHandler   *ordersHandler.Handler
	healthHandler   *healthHandler.Handler
	logger          logging.Logger
	ratelimiter     ratelimiter.Limiter
	metrics         *metrics.Metrics
}

func NewApplication(
	config configs.Config,
	roomHandler *roomHandler.Handler,
	messagesHandler *messagesHandler.Handler,
	ordersHandler *ordersHandler.Handler,
	healthHandler *healthHandler.Handler,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
	m *metrics.Metrics,
) *Application {
	return &Application{
		config:          config,
		roomHandler:     roomHandler,
		messagesHandler: messagesHandler,
		ordersHandler:   ordersHandler,
		healthHandler:   healthHandler,
		logger:          logger,
		ratelimiter:     ratelimiter,
		metrics:         m,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)
	r.Use(app.loggerMiddleware)
	r.Use(app.prometheusMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", app.roomHandler.CreateRoomHandler)
			r.Get("/code/{code}", app.roomHandler.GetRoomByCodeHandler)
			r.Get("/{roomId}", app.roomHandler.GetRoomHandler)
			r.Delete("/{roomId}", app.roomHandler.DeleteRoomHandler)
			r.Post("/{roomId}/expire", app.roomHandler.ExpireRoomHandler)
			r.Post("/{roomId}/join", app.roomHandler.JoinRoomHandler)
			r.Get("/{roomId}/participants", app.roomHandler.ListParticipantsHandler)
			r.Get("/{roomId}/subscribe", app.roomHandler.SubscribeHandler)
			r.Get("/{roomId}/audit", app.roomHandler.GetRoomAuditHandler)

			r.Post("/{roomId}/messages", app.messagesHandler.SendMessageHandler)
			r.Get("/{roomId}/messages", app.messagesHandler.ListMessagesHandler)

			r.Get("/{roomId}/orders", app.ordersHandler.ListRoomOrdersHandler)
		})

		r.Post("/participants/{participantId}/ban", app.roomHandler.BanParticipantHandler)

		r.Post("/checkout", app.ordersHandler.CreateCheckoutHandler)
		r.Post("/payments/verify", app.ordersHandler.VerifyPaymentHandler)
		r.Get("/orders/session/{sessionId}", app.ordersHandler.GetOrderBySessionHandler)

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", promhttp.Handler())

	return otelhttp.NewHandler(r, "fuseroom-api")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Startup, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Startup, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/gibberify/internal/transport/middleware"
	"github.com/heartmarshall/gibberify/internal/transport/rest"
	"github.com/heartmarshall/gibberify/internal/transport/ws"
)

// Router builds the HTTP handler of the serve command. The returned stop
// function releases the rate limiter.
func (a *App) Router(ctx context.Context) (http.Handler, func(), error) {
	svc, err := a.Translator(ctx)
	if err != nil {
		return nil, nil, err
	}
	cfg := a.Config.Server
	log := a.Log.With(slog.String("component", "http"))

	health := rest.NewHealthHandler(a.Repo, a.Config.Data.Backend, BuildVersion())
	api := rest.NewTranslateHandler(svc, log)

	limit := middleware.Chain()
	stop := func() {}
	if cfg.RateLimit > 0 {
		rl := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
		limit, stop = rl.Limit(), rl.Stop
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)
	mux.Handle("GET /api/languages", limit(http.HandlerFunc(api.Languages)))
	mux.Handle("POST /api/translate", limit(http.HandlerFunc(api.Translate)))
	mux.Handle("GET /ws", limit(ws.NewHandler(svc, log, cfg.CORSOrigins)))

	handler := middleware.Chain(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.CORS(cfg.CORSOrigins),
	)(mux)

	return handler, stop, nil
}

// Serve runs the HTTP server until ctx is done, then shuts it down
// gracefully within the configured timeout.
func (a *App) Serve(ctx context.Context) error {
	handler, stop, err := a.Router(ctx)
	if err != nil {
		return err
	}
	defer stop()

	cfg := a.Config.Server
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("http server listening",
			slog.String("addr", srv.Addr),
			slog.String("version", BuildVersion()),
			slog.String("backend", a.Config.Data.Backend),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.Log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

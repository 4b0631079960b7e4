package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"booklog/internal/book"
	"booklog/internal/config"
	"booklog/internal/httpx"
	"booklog/internal/store"
	"booklog/internal/view"
)

func main() {
	cfg := config.MustLoad()

	repo, closeStore := store.MustOpen(context.Background(), cfg)
	defer closeStore()

	var limiter *httpx.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = httpx.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustedProxies...)
		defer limiter.Stop()
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newServer(cfg, book.NewService(repo), view.MustNew(), limiter),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("Server is listening on port %d", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// newServer mounts the book routes, probes and static assets behind the
// middleware chain. limiter may be nil.
func newServer(cfg *config.Config, service *book.Service, views book.Renderer, limiter *httpx.RateLimiter) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := service.Ping(ctx); err != nil {
			log.Printf("readiness check failed: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /static/", view.StaticHandler())

	book.NewHTTPHandler(service, views).Register(router)

	middleware := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSOrigins),
	}
	if limiter != nil {
		middleware = append(middleware, limiter.Middleware)
	}
	middleware = append(middleware, httpx.RequestSizeLimitMiddleware(cfg.MaxBody))

	return httpx.Chain(router, middleware...)
}

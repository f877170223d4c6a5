package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pawmart/internal/domain/carts"
	"pawmart/internal/domain/orders"
	"pawmart/internal/domain/products"
	"pawmart/internal/domain/sessions"
	"pawmart/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type application struct {
	config   config
	logger   *zap.SugaredLogger
	catalog  products.Store
	sessions *sessions.Service
	carts    *carts.Service
	checkout *orders.Service
	limiter  *ratelimiter.FixedWindowRateLimiter
}

type config struct {
	addr        string
	env         string
	frontendURL string
	db          dbConfig
	redis       redisConfig
	checkout    checkoutConfig
	rateLimiter ratelimiter.Config
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type redisConfig struct {
	addr     string
	password string
	db       int
}

type checkoutConfig struct {
	orderSecret string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Session-ID"},
		ExposedHeaders:   []string{"X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Get("/products", app.listProductsHandler)
		r.Get("/products/{productID}", app.getProductHandler)
		r.Get("/categories", app.listCategoriesHandler)

		// Everything below runs with a resolved guest session.
		r.Group(func(r chi.Router) {
			r.Use(app.SessionMiddleware)

			r.Get("/session", app.getSessionHandler)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", app.getCartHandler)
				r.Delete("/", app.clearCartHandler)
				r.Post("/items", app.addCartItemHandler)
				r.Patch("/items/{productID}", app.updateCartItemHandler)
				r.Delete("/items/{productID}", app.removeCartItemHandler)
				r.Post("/merge", app.mergeCartHandler)
			})

			r.Post("/checkout", app.checkoutHandler)
		})
	})
	return r
}

// healthCheckHandler is the storefront's liveness probe.
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":    "healthy",
		"env":       app.config.env,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := app.jsonResponse(w, http.StatusOK, data, ""); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}

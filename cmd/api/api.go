package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gigbay/internal/auth"
	"gigbay/internal/domain/orders"
	"gigbay/internal/domain/storage"
	"gigbay/internal/ratelimiter"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	orderNumbers  *orders.OrderNumberGenerator
}

type config struct {
	addr        string
	env         string
	apiURL      string
	frontendURL string
	db          dbConfig
	auth        authConfig
	rateLimiter ratelimiter.Config
	orderSecret string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret          string
	refreshSecret   string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(app.RateLimiterMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/registration", app.registrationHandler)
			r.Post("/login", app.loginHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		// Every resource route runs behind the subject resolver, which never
		// rejects: the access policy, not the transport, decides who gets in.
		r.Group(func(r chi.Router) {
			r.Use(app.SubjectMiddleware)

			r.Get("/base-info", app.baseInfoHandler)

			r.Route("/offers", func(r chi.Router) {
				r.Get("/", app.listOffersHandler)
				r.Post("/", app.createOfferHandler)
				r.Route("/{offerID}", func(r chi.Router) {
					r.Get("/", app.getOfferHandler)
					r.Patch("/", app.updateOfferHandler)
					r.Delete("/", app.deleteOfferHandler)
					r.Post("/image", app.uploadOfferImageHandler)
				})
			})
			r.Get("/offerdetails/{detailID}", app.getOfferDetailHandler)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", app.listOrdersHandler)
				r.Post("/", app.createOrderHandler)
				r.Route("/{orderID}", func(r chi.Router) {
					r.Get("/", app.getOrderHandler)
					r.Patch("/", app.updateOrderHandler)
					r.Delete("/", app.deleteOrderHandler)
				})
			})
			r.Get("/order-count/{businessUserID}", app.orderCountHandler)
			r.Get("/completed-order-count/{businessUserID}", app.completedOrderCountHandler)

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", app.listReviewsHandler)
				r.Post("/", app.createReviewHandler)
				r.Route("/{reviewID}", func(r chi.Router) {
					r.Get("/", app.getReviewHandler)
					r.Patch("/", app.updateReviewHandler)
					r.Delete("/", app.deleteReviewHandler)
				})
			})

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/business", app.listBusinessProfilesHandler)
				r.Get("/customer", app.listCustomerProfilesHandler)
				r.Post("/picture", app.uploadProfilePictureHandler)
				r.Get("/{userID}", app.getProfileHandler)
				r.Patch("/{userID}", app.updateProfileHandler)
			})
		})
	})

	return r
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

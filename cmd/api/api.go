package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sigpeche/docs" // required to register swagger docs
	"sigpeche/internal/access"
	"sigpeche/internal/auth"
	"sigpeche/internal/domain/documents"
	"sigpeche/internal/domain/storage"
	"sigpeche/internal/mailer"
	"sigpeche/internal/notify"
	"sigpeche/internal/push"
	"sigpeche/internal/ratelimiter"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	authenticator auth.Authenticator
	accessRouter  *access.Router
	matcher       *notify.Matcher
	push          push.Sender
	refgen        *documents.ReferenceGenerator
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	rateLimiter ratelimiter.Config
	refSalt     string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	exp       time.Duration
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
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
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Request context timeout; further processing stops once ctx.Done() fires.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		// Activation link does not require a session
		r.Put("/users/activate/{token}", app.activateUserHandler)

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/me", app.getCurrentUserHandler)
			r.Post("/logout", app.logoutHandler)
		})

		r.Route("/access", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/destination", app.getDestinationHandler)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listDocumentsHandler)
			r.Get("/{documentID}", app.getDocumentHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.RequireRoles(access.RoleAdmin, access.RoleDirectionCentrale, access.RoleDGPA))
				r.Post("/", app.publishDocumentHandler)
				r.Post("/{documentID}/file", app.uploadDocumentFileHandler)
			})
		})

		r.Route("/deadlines", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.With(app.RequireRoles(access.RoleAdmin, access.RoleDGPA)).Post("/", app.createDeadlineHandler)
			r.With(app.RequireRoles(access.RoleAdmin)).Post("/remind", app.remindDeadlinesHandler)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireRoles(access.RoleAdmin))
			r.Post("/", app.createSubscriptionHandler)
			r.Get("/", app.listSubscriptionsHandler)
			r.Route("/{subscriptionID}", func(r chi.Router) {
				r.Get("/", app.getSubscriptionHandler)
				r.Put("/", app.updateSubscriptionHandler)
				r.Patch("/active", app.setSubscriptionActiveHandler)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireRoles(access.RoleAdmin, access.RoleAnalyste))
			r.Get("/", app.listNotificationsHandler)
		})

		r.Route("/admin/users/{userID}/roles", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireRoles(access.RoleAdmin))
			r.Post("/", app.adminAssignUserRoleHandler)
			r.Get("/", app.adminGetUserRolesHandler)
			r.Delete("/{role}", app.adminRemoveUserRoleHandler)
		})

		r.Route("/push-tokens", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/", app.registerPushTokenHandler)
			r.Delete("/", app.removePushTokenHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

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

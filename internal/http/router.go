package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"notely/internal/auth"
	"notely/internal/category"
	"notely/internal/config"
	"notely/internal/db"
	"notely/internal/http/handler"
	mw "notely/internal/http/middleware"
	"notely/internal/note"
	"notely/internal/ratelimit"
	"notely/internal/user"
)

// Deps carries what NewRouter wires together.
type Deps struct {
	Config  config.Config
	DB      *gorm.DB
	JWT     *auth.JWT
	Limiter ratelimit.Limiter
	// Ready lists extra dependencies for /ready besides the database.
	Ready map[string]handler.Pinger
	Log   zerolog.Logger
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config

	userSvc := user.NewService(&user.Store{DB: d.DB}, cfg.BcryptCost, d.Log)
	authSvc := auth.NewService(userSvc, d.JWT, cfg.BcryptCost, d.Log)
	catSvc := category.NewService(&category.Store{DB: d.DB}, d.Log)
	noteSvc := note.NewService(&note.Store{DB: d.DB}, d.Log)

	ready := map[string]handler.Pinger{}
	for k, v := range d.Ready {
		ready[k] = v
	}
	if d.DB != nil {
		ready["postgres"] = handler.PingFunc(func(ctx context.Context) error { return db.Ping(ctx, d.DB) })
	}

	return Routes(Handlers{
		Status: &handler.StatusHandler{
			Name:    cfg.AppName,
			Version: cfg.AppVersion,
			Deps:    ready,
		},
		Users:      &handler.UserHandler{Users: userSvc, Log: d.Log},
		Auth:       &handler.AuthHandler{Auth: authSvc, Log: d.Log},
		Notes:      &handler.NoteHandler{Svc: noteSvc, Log: d.Log},
		Categories: &handler.CategoryHandler{Svc: catSvc, Log: d.Log},
	}, RouteOptions{
		Verifier:        d.JWT,
		Limiter:         d.Limiter,
		LimitWindow:     cfg.Login.Window,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		CORSCredentials: cfg.CORSAllowCredentials,
		TrustProxy:      cfg.TrustProxy,
		Log:             d.Log,
	})
}

type Handlers struct {
	Status     *handler.StatusHandler
	Users      *handler.UserHandler
	Auth       *handler.AuthHandler
	Notes      *handler.NoteHandler
	Categories *handler.CategoryHandler
}

type RouteOptions struct {
	Verifier        auth.Verifier
	Limiter         ratelimit.Limiter
	LimitWindow     time.Duration
	CORSOrigins     []string
	CORSCredentials bool
	// TrustProxy lets forwarding headers replace RemoteAddr. Left off, the
	// login limiter and access log see the socket peer.
	TrustProxy bool
	Log             zerolog.Logger
}

// Routes mounts h on a chi router. Split from NewRouter so tests can pass
// handlers backed by stubs.
func Routes(h Handlers, o RouteOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if o.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(mw.RequestLogger(o.Log))
	r.Use(chimw.Recoverer)
	r.Use(mw.Metrics)

	if len(o.CORSOrigins) > 0 {
		r.Use(mw.CORS(o.CORSOrigins, o.CORSCredentials))
	}

	r.Get("/", h.Status.Root)
	r.Get("/health", h.Status.Health)
	r.Get("/ready", h.Status.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/users", h.Users.Create)

	login := r.With()
	if o.Limiter != nil {
		login = r.With(mw.LoginRateLimit(o.Limiter, o.LimitWindow, o.Log))
	}
	login.Post("/auth/login", h.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(o.Verifier))

		r.Get("/users/me", h.Users.Me)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/active", h.Notes.ListActive)
			r.Get("/archived", h.Notes.ListArchived)
			r.Post("/", h.Notes.Create)
			r.Post("/duplicate/{id}", h.Notes.Duplicate)
			r.Put("/{id}", h.Notes.Update)
			r.Patch("/{id}/archive", h.Notes.Archive)
			r.Patch("/{id}/unarchive", h.Notes.Unarchive)
			r.Delete("/{id}", h.Notes.Remove)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", h.Categories.Create)
			r.Get("/", h.Categories.List)
		})
	})

	return r
}

package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shelfnotes/shelfnotes/internal/auth"
	"github.com/shelfnotes/shelfnotes/internal/reviews"
	"github.com/shelfnotes/shelfnotes/internal/shared"
	"github.com/shelfnotes/shelfnotes/internal/token"
	"github.com/shelfnotes/shelfnotes/internal/view"
	"github.com/shelfnotes/shelfnotes/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	Codec          *token.Codec
	Cookies        *shared.CookieManager
	AuthHandler    *auth.Handler
	ReviewsHandler *reviews.Handler
}

// NewRouter constructs the chi.Router with shelfnotes defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	guard := RequireSession(params.Codec, params.Cookies)

	page := func(name, title string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			data := view.TemplateData{Title: title, CurrentPath: r.URL.Path}
			if err := params.Templates.Render(w, name, data); err != nil {
				params.Logger.Error("render page", slog.String("page", name), slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/reviews", http.StatusSeeOther)
	})
	r.Get("/login", page("pages/login.html", "Log in"))
	r.Get("/signup", page("pages/signup.html", "Sign up"))
	r.Post("/logout", params.AuthHandler.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Get("/reviews", page("pages/reviews.html", "Latest reviews"))
		r.Get("/add-review", page("pages/add-review.html", "Add a review"))
	})

	r.Route("/api", func(api chi.Router) {
		params.AuthHandler.MountRoutes(api)
		params.ReviewsHandler.MountPublic(api)
		api.Group(func(protected chi.Router) {
			protected.Use(guard)
			params.ReviewsHandler.MountProtected(protected)
		})
	})

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eaaniwezi/anirecs/internal/service"
	"github.com/eaaniwezi/anirecs/pkg/health"
	"github.com/eaaniwezi/anirecs/pkg/middleware"
)

// RouterDeps bundles the dependencies needed to build the HTTP router.
type RouterDeps struct {
	AuthService    *service.AuthService
	CatalogService *service.CatalogService
	HealthHandler  *health.Handler
	Registry       *prometheus.Registry
	Logger         *slog.Logger
	CORS           CORSConfig
	ServiceName    string
}

// NewRouter creates a chi router with all routes registered. Register, login
// and refresh are public; everything else sits behind the bearer token
// middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	httpMetrics := middleware.NewHTTPMetrics(deps.Registry, deps.ServiceName)

	r.Use(CORS(deps.CORS))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics(httpMetrics))

	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	authHandler := NewAuthHandler(deps.AuthService, deps.Logger)
	userHandler := NewUserHandler(deps.AuthService, deps.CatalogService, deps.Logger)
	genreHandler := NewGenreHandler(deps.CatalogService, deps.Logger)
	animeHandler := NewAnimeHandler(deps.CatalogService, deps.Logger)
	favouriteHandler := NewFavouriteHandler(deps.CatalogService, deps.Logger)
	preferenceHandler := NewPreferenceHandler(deps.CatalogService, deps.Logger)
	animeGenreHandler := NewAnimeGenreHandler(deps.CatalogService, deps.Logger)

	// Public auth endpoints.
	r.Group(func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
	})

	// Token validator bridging the middleware to the auth service.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := deps.AuthService.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{UserID: claims.UserID}, nil
	}

	// Everything below requires a valid access token.
	r.Group(func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Post("/logout", authHandler.Logout)

		r.Get("/users/me", userHandler.Me)
		r.Get("/users/me/recommendations", userHandler.Recommendations)
		r.Delete("/users/me", userHandler.DeleteMe)
		r.Get("/users", userHandler.List)
		r.Get("/users/{id}", userHandler.Get)
		r.Put("/users/{id}", userHandler.Update)

		r.Post("/genres", genreHandler.Create)
		r.Get("/genres", genreHandler.List)
		r.Get("/genres/{id}", genreHandler.Get)
		r.Put("/genres/{id}", genreHandler.Update)
		r.Delete("/genres/{id}", genreHandler.Delete)

		r.Post("/animes", animeHandler.Create)
		r.Get("/animes", animeHandler.List)
		r.Get("/animes/{id}", animeHandler.Get)
		r.Put("/animes/{id}", animeHandler.Update)
		r.Delete("/animes/{id}", animeHandler.Delete)

		r.Post("/user/addfavourites", favouriteHandler.Add)
		r.Delete("/user/removefavourites/{uid}/{aid}", favouriteHandler.Remove)
		r.Get("/user/favourites/{uid}", favouriteHandler.List)

		r.Post("/user/addpreferences", preferenceHandler.Add)
		r.Delete("/user/removepreferences/{uid}/{gid}", preferenceHandler.Remove)
		r.Get("/preferences/{uid}", preferenceHandler.List)

		r.Post("/genre-anime", animeGenreHandler.Link)
		r.Get("/genre-anime", animeGenreHandler.ListAll)
		r.Delete("/genre-anime/{gid}/{aid}", animeGenreHandler.Unlink)
		r.Get("/genre-anime/anime/{aid}", animeGenreHandler.GenresForAnime)
		r.Get("/genre-anime/genre/{gid}", animeGenreHandler.AnimesForGenre)
	})

	return r
}

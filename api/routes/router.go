package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ratewise/store-ratings-backend/api/controllers"
	"github.com/ratewise/store-ratings-backend/api/middleware"
	"github.com/ratewise/store-ratings-backend/api/responses"
	authsvc "github.com/ratewise/store-ratings-backend/internal/auth"
	"github.com/ratewise/store-ratings-backend/internal/ratings"
	"github.com/ratewise/store-ratings-backend/internal/stats"
	"github.com/ratewise/store-ratings-backend/internal/stores"
	"github.com/ratewise/store-ratings-backend/internal/users"
	"github.com/ratewise/store-ratings-backend/pkg/config"
	"github.com/ratewise/store-ratings-backend/pkg/db"
	pkgerrors "github.com/ratewise/store-ratings-backend/pkg/errors"
	"github.com/ratewise/store-ratings-backend/pkg/enums"
	"github.com/ratewise/store-ratings-backend/pkg/logger"
	"github.com/ratewise/store-ratings-backend/pkg/metrics"
	"github.com/ratewise/store-ratings-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      *db.Client
	Redis   *redis.Client
	Metrics *metrics.HTTPMetrics
	// Registry serves /metrics; nil disables the endpoint.
	Registry *prometheus.Registry

	Auth    *authsvc.Service
	Users   *users.Service
	Stores  *stores.Service
	Ratings *ratings.Service
	Stats   *stats.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	var limiter middleware.RateLimiterStore
	if deps.Redis != nil {
		limiter = deps.Redis
	}
	signinPolicy := middleware.NewAuthRateLimitPolicy(
		"signin",
		cfg.AuthRateLimit.SigninWindow,
		cfg.AuthRateLimit.SigninIPLimit,
		cfg.AuthRateLimit.SigninEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	requireAuth := middleware.Auth(deps.Auth, logg)
	optionalAuth := middleware.OptionalAuth(deps.Auth, logg)
	adminOnly := middleware.RequireRole(enums.RoleAdmin, deps.Users, logg)
	ownerOnly := middleware.RequireRole(enums.RoleOwner, deps.Users, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthReady(cfg, deps.DB, logg))
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, limiter, logg)).
			Post("/signup", controllers.AuthSignup(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(signinPolicy, limiter, logg)).
			Post("/signin", controllers.AuthSignin(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", controllers.AuthMe(deps.Auth, logg))
			r.Post("/change-password", controllers.AuthChangePassword(deps.Auth, logg))
		})
	})

	r.Route("/stores", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", controllers.ListStores(deps.Stores, logg))
			r.Get("/{id}", controllers.GetStore(deps.Stores, logg))
		})
		r.With(requireAuth).Post("/{id}/ratings", controllers.SubmitRating(deps.Ratings, logg))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAuth, adminOnly)
		r.Get("/stats", controllers.AdminStats(deps.Stats, logg))
		r.Get("/users", controllers.AdminListUsers(deps.Users, logg))
		r.Post("/users", controllers.AdminCreateUser(deps.Users, logg))
		r.Get("/users/{id}", controllers.AdminGetUser(deps.Users, logg))
		r.Get("/stores", controllers.AdminListStores(deps.Stores, logg))
		r.Post("/stores", controllers.AdminCreateStore(deps.Stores, logg))
	})

	r.Route("/owner", func(r chi.Router) {
		r.Use(requireAuth, ownerOnly)
		r.Get("/stores", controllers.OwnerListStores(deps.Stores, logg))
		r.Post("/stores", controllers.OwnerCreateStore(deps.Stores, logg))
		r.Get("/stores/{id}/ratings", controllers.OwnerStoreRatings(deps.Stores, logg))
	})

	return r
}

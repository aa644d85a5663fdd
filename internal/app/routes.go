package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/plugins/auth"
	"github.com/keyxmakerx/stockroom/internal/plugins/media"
	"github.com/keyxmakerx/stockroom/internal/plugins/products"
)

// healthTimeout bounds each dependency ping in /healthz.
const healthTimeout = 2 * time.Second

// RegisterRoutes sets up all application routes. It registers operational
// routes directly and delegates to each plugin's route registration function.
//
// This is the single place where all routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo
	cfg := a.Config

	// --- Operational Routes ---
	e.GET("/healthz", a.health)
	e.GET("/metrics", a.Metrics.Handler())

	// --- Plugins ---

	// auth plugin (public: register, login). Its middleware guards the rest.
	userRepo := auth.NewUserRepository(a.DB)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := auth.NewAuthService(userRepo, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens)
	auth.RegisterRoutes(e, auth.NewHandler(authService))
	requireAuth := auth.RequireAuth(authService)

	// products plugin (catalog CRUD, list cached in Redis when configured)
	productRepo := products.NewProductRepository(a.DB)
	productCache := products.NewListCache(a.Redis, cfg.Redis.CacheTTL)
	productService := products.NewProductService(productRepo, productCache)
	products.RegisterRoutes(e, products.NewHandler(productService), requireAuth)

	// media plugin (single image upload)
	uploadRepo := media.NewUploadRepository(a.DB)
	mediaService := media.NewMediaService(uploadRepo, a.Store, cfg.Upload.MaxSize)
	media.RegisterRoutes(e, media.NewHandler(mediaService), requireAuth, cfg.Upload.MaxSize)
}

// healthStatus is the /healthz response body.
type healthStatus struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// health pings MariaDB and, when configured, Redis. Any failure answers 503
// so orchestrators stop routing traffic here.
func (a *App) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	resp := healthStatus{Status: "ok", Services: map[string]string{}}
	code := http.StatusOK

	check := func(name string, ping func(context.Context) error) {
		if err := ping(ctx); err != nil {
			resp.Services[name] = "down"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			return
		}
		resp.Services[name] = "up"
	}

	check("mariadb", a.DB.PingContext)
	if a.Redis != nil {
		check("redis", func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() })
	}

	return c.JSON(code, resp)
}

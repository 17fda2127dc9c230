package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sellerhub/account-api/internal/api/handler"
	"github.com/sellerhub/account-api/internal/api/middleware"
	"github.com/sellerhub/account-api/internal/core/domain"
	"github.com/sellerhub/account-api/internal/core/ports"
	"github.com/sellerhub/account-api/internal/core/service"
	"github.com/sellerhub/account-api/internal/core/token"
	"github.com/sellerhub/account-api/internal/infrastructure/config"
	redisdb "github.com/sellerhub/account-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	users ports.UserRepository,
	images ports.ImageStore,
	cleaner service.AvatarCleaner,
	db *mongo.Database,
	rdb *redis.Client,
	log zerolog.Logger,
) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("account"))

	// --- Dependencies ---
	codec, err := token.NewCodec(cfg.JWT.Secret, cfg.JWT.Algorithm)
	if err != nil {
		return nil, err
	}
	issuer := token.NewIssuer(codec, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authenticator := token.NewAuthenticator(codec)
	guard := redisdb.NewLoginGuard(rdb, cfg.Throttle.Window, cfg.Throttle.MaxFailures)

	authService := service.NewAuthService(users, issuer, authenticator, guard, log)
	userService := service.NewUserService(users, images, cleaner, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	authMiddleware := middleware.Auth(authenticator)

	// --- API routes ---
	v1 := e.Group("/api/v1")

	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/refresh", authHandler.Refresh)

	v1.POST("/users", userHandler.Register)
	v1.GET("/users/:id", userHandler.GetByID, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	me := v1.Group("/users/me", authMiddleware)
	me.GET("", userHandler.Me)
	me.DELETE("", userHandler.DeleteAccount)
	me.PUT("/profile", userHandler.UpdateProfile)
	me.POST("/avatar", userHandler.UploadAvatar)
	me.DELETE("/avatar", userHandler.RemoveAvatar)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

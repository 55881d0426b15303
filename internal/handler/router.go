package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tonkonan/materrax/internal/service"
	"github.com/tonkonan/materrax/pkg/jwt"
)

type RouterConfig struct {
	AuthService   *service.AuthService
	LedgerService *service.LedgerService
	Health        HealthChecker
	JWTManager    *jwt.Manager

	Logger       *slog.Logger
	AccessLogger *slog.Logger

	DistDir   string
	PublicDir string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	accessLogger := cfg.AccessLogger
	if accessLogger == nil {
		accessLogger = cfg.Logger
	}

	r := gin.New()
	r.Use(Recovery(cfg.Logger))
	r.Use(AccessLog(accessLogger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete,
		},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	authHandler := NewAuthHandler(cfg.AuthService, cfg.Logger)
	ledgerHandler := NewLedgerHandler(cfg.LedgerService, cfg.Logger)
	systemHandler := NewSystemHandler(cfg.Health, cfg.Logger)
	spaHandler := NewSPAHandler(cfg.DistDir, cfg.PublicDir)

	authRequired := AuthRequired(cfg.JWTManager, cfg.Logger)

	api := r.Group("/api")
	{
		api.GET("/health", systemHandler.Health)
		api.GET("/db-test", systemHandler.DBTest)

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", authRequired, authHandler.Me)
		api.GET("/auth/sessions", authRequired, authHandler.Sessions)

		api.GET("/users", authRequired, authHandler.ListUsers)

		api.GET("/requests", authRequired, ledgerHandler.ListRequests)
		api.POST("/requests", authRequired, ledgerHandler.CreateRequest)

		api.GET("/offers", authRequired, ledgerHandler.ListOffers)
		api.POST("/offers", authRequired, ledgerHandler.CreateOffer)
	}

	r.NoRoute(spaHandler.Serve)

	return r
}

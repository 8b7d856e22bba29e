package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/uad-deukouway/housing-api/internal/handler"
	"github.com/uad-deukouway/housing-api/internal/middleware"
	"github.com/uad-deukouway/housing-api/internal/service"
	"github.com/uad-deukouway/housing-api/pkg/config"
	"github.com/uad-deukouway/housing-api/pkg/logger"
	corsmiddleware "github.com/uad-deukouway/housing-api/pkg/middleware/cors"
	reqidmiddleware "github.com/uad-deukouway/housing-api/pkg/middleware/requestid"
)

// Dependencies bundles everything the HTTP surface needs.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService

	Auth  *service.AuthService
	Users middleware.UserLoader

	AuthHandler       *handler.AuthHandler
	ListingHandler    *handler.ListingHandler
	ModerationHandler *handler.ModerationHandler
	UserHandler       *handler.UserHandler
	MessageHandler    *handler.MessageHandler
	StatisticsHandler *handler.StatisticsHandler
	NotifierHandler   *handler.NotifierHandler
	MetricsHandler    *handler.MetricsHandler
}

// New assembles the gin engine with all routes and middleware attached.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", deps.MetricsHandler.Health)
	r.GET("/ready", deps.MetricsHandler.Ready)
	r.GET("/metrics", deps.MetricsHandler.Prometheus)

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	session := middleware.Session(deps.Auth, deps.Users)
	optionalSession := middleware.OptionalSession(deps.Auth, deps.Users)
	admin := middleware.RequireAdmin()

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", deps.AuthHandler.Register)
		auth.POST("/login", deps.AuthHandler.Login)
		auth.POST("/logout", deps.AuthHandler.Logout)
		auth.GET("/me", session, deps.AuthHandler.Me)
		auth.PUT("/profile", session, deps.AuthHandler.UpdateProfile)
	}

	listings := api.Group("/listings")
	{
		listings.GET("", deps.ListingHandler.Browse)
		listings.POST("", session, deps.ListingHandler.Create)
		// registered before /:id so gin never treats "user" as an id
		listings.GET("/user", session, deps.ListingHandler.Mine)
		listings.GET("/:id", deps.ListingHandler.Detail)
		listings.DELETE("/:id", session, deps.ListingHandler.Delete)
	}

	api.POST("/messages", optionalSession, deps.MessageHandler.Submit)

	adminGroup := api.Group("/admin", session, admin)
	{
		adminGroup.GET("/listings", deps.ModerationHandler.ListAll)
		adminGroup.GET("/listings/export", deps.ModerationHandler.Export)
		adminGroup.POST("/listings/:id/validate", deps.ModerationHandler.Validate)

		adminGroup.GET("/users", deps.UserHandler.List)
		adminGroup.POST("/users/:id/block", deps.UserHandler.Block)

		adminGroup.GET("/messages", deps.MessageHandler.Inbox)
		adminGroup.PUT("/messages/:id", deps.MessageHandler.Advance)
		adminGroup.DELETE("/messages/:id", deps.MessageHandler.Delete)

		adminGroup.GET("/statistics", deps.StatisticsHandler.Report)
		adminGroup.POST("/notify-users", deps.NotifierHandler.Notify)
	}

	return r
}

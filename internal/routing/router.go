// Package routing wires the middleware chain and the API routes.
package routing

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"contact-hub/internal/config"
	"contact-hub/internal/handlers"
	"contact-hub/internal/managers"
	"contact-hub/internal/middleware"
	"contact-hub/internal/schemas"
	"contact-hub/internal/utils"
)

const (
	apiVersion = "1.0.0"
	apiName    = "Contact Hub"
)

// InitRouter builds the gin engine with the full middleware chain and all
// routes. Routes under /api/users and /api/contacts require a confirmed
// account and a valid access token.
func InitRouter(cfg *config.Config, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr,
	jwtMgr managers.JWTMgr, storageMgr managers.StorageMgr) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Trace-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
	router.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)))

	authHandler := handlers.NewAuthHandler(databaseMgr, jwtMgr, mailMgr, cfg)
	userHandler := handlers.NewUserHandler(databaseMgr, storageMgr)
	contactHandler := handlers.NewContactHandler(databaseMgr)

	router.GET("/", metadataRoute)
	router.GET("/health", healthRoute(databaseMgr))

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", middleware.ValidateStruct(&schemas.SignupRequest{}), authHandler.Signup)
	authGroup.POST("/login", middleware.ValidateStruct(&schemas.LoginRequest{}), authHandler.Login)
	authGroup.GET("/confirmed_email/:"+utils.TokenKey, authHandler.ConfirmEmail)

	userGroup := api.Group("/users", middleware.RequireAuth(jwtMgr, databaseMgr))
	userGroup.GET("/me", userHandler.GetMe)
	userGroup.PATCH("/avatar", userHandler.UpdateAvatar)

	contactGroup := api.Group("/contacts", middleware.RequireAuth(jwtMgr, databaseMgr))
	contactGroup.POST("", middleware.ValidateStruct(&schemas.CreateContactRequest{}), contactHandler.CreateContact)
	contactGroup.GET("", contactHandler.GetContacts)
	contactGroup.GET("/search", contactHandler.SearchContacts)
	contactGroup.GET("/birthdays", contactHandler.GetBirthdays)
	contactGroup.GET("/:"+utils.ContactIdKey, contactHandler.GetContact)
	contactGroup.PUT("/:"+utils.ContactIdKey, middleware.ValidateStruct(&schemas.UpdateContactRequest{}), contactHandler.UpdateContact)
	contactGroup.DELETE("/:"+utils.ContactIdKey, contactHandler.DeleteContact)

	return router
}

func metadataRoute(ctx *gin.Context) {
	utils.WriteAndLogResponse(ctx, &schemas.MetadataDTO{
		ApiVersion: apiVersion,
		ApiName:    apiName,
	}, http.StatusOK)
}

// healthRoute reports whether the database answers a ping.
func healthRoute(databaseMgr managers.DatabaseMgr) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		if err := databaseMgr.GetPool().Ping(pingCtx); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusServiceUnavailable, err)
			return
		}
		utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "healthy"}, http.StatusOK)
	}
}

package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/lensprice/lensprice/internal/api/v1"
	"github.com/lensprice/lensprice/internal/config"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/pyroscope"
	"github.com/lensprice/lensprice/internal/rest/middleware"
	"github.com/lensprice/lensprice/internal/sentry"
	"github.com/lensprice/lensprice/internal/types"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health         *v1.HealthHandler
	Offer          *v1.OfferHandler
	Recommendation *v1.RecommendationHandler
	Prescription   *v1.PrescriptionHandler
}

func NewRouter(
	handlers Handlers,
	cfg *config.Configuration,
	log *logger.Logger,
	sentrySvc *sentry.Service,
	pyroscopeSvc *pyroscope.Service,
) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.PyroscopeMiddleware(pyroscopeSvc),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(log, sentrySvc),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1Group := router.Group("/v1")
	v1Group.Use(middleware.RateLimitMiddleware(cfg))

	offers := v1Group.Group("/offers")
	{
		offers.POST("/calculate", handlers.Offer.CalculateOffers)
	}

	sessions := v1Group.Group("/sessions")
	{
		sessions.GET("/:session_id/recommendations", handlers.Recommendation.GetRecommendations)
		sessions.DELETE("/:session_id/recommendations", handlers.Recommendation.InvalidateRecommendations)
	}

	prescriptions := v1Group.Group("/prescriptions")
	{
		prescriptions.POST("/validate", handlers.Prescription.ValidatePrescription)
	}

	return router
}

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lensprice/lensprice/internal/api"
	v1 "github.com/lensprice/lensprice/internal/api/v1"
	"github.com/lensprice/lensprice/internal/cache"
	"github.com/lensprice/lensprice/internal/config"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/migration"
	"github.com/lensprice/lensprice/internal/postgres"
	"github.com/lensprice/lensprice/internal/pyroscope"
	"github.com/lensprice/lensprice/internal/repository"
	"github.com/lensprice/lensprice/internal/sentry"
	"github.com/lensprice/lensprice/internal/service"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/lensprice/lensprice/internal/validator"
	"go.uber.org/fx"
)

// @title LensPrice API
// @version 1.0
// @description Lens recommendation and offer pricing for optical stores
// @BasePath /v1
// @schemes http https

func init() {
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			validator.NewValidator,
			config.NewConfig,
			logger.NewLogger,
			cache.Initialize,
		),
		sentry.Module(),
		pyroscope.Module(),
		postgres.Module(),
		migration.Module(),
	)

	// Repositories
	opts = append(opts,
		fx.Provide(
			repository.NewProductRepository,
			repository.NewQuestionnaireRepository,
			repository.NewOfferRuleRepository,
			repository.NewCouponRepository,
			repository.NewCategoryDiscountRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewOfferService,
			service.NewRecommendationService,
			service.NewPrescriptionService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	db *postgres.DB,
	logger *logger.Logger,
	offerService service.OfferService,
	recommendationService service.RecommendationService,
	prescriptionService service.PrescriptionService,
) api.Handlers {
	return api.Handlers{
		Health:         v1.NewHealthHandler(db, logger),
		Offer:          v1.NewOfferHandler(offerService, logger),
		Recommendation: v1.NewRecommendationHandler(recommendationService, logger),
		Prescription:   v1.NewPrescriptionHandler(prescriptionService, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Configuration,
	db *postgres.DB,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeMigrate:
		runMigrationsAndExit(lc, shutdowner, db, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down API server")
			return srv.Shutdown(ctx)
		},
	})
}

func runMigrationsAndExit(lc fx.Lifecycle, shutdowner fx.Shutdowner, db *postgres.DB, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := migration.RunMigrations(db.DB.DB, log); err != nil {
				return err
			}
			return shutdowner.Shutdown()
		},
	})
}

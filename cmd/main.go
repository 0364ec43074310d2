package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"homequest/config"
	"homequest/database"
	"homequest/internal/auth"
	"homequest/internal/cache"
	guardianctrl "homequest/internal/controller/guardian"
	learnerctrl "homequest/internal/controller/learner"
	"homequest/internal/logger"
	"homequest/internal/middleware"
	"homequest/internal/model"
	"homequest/internal/repository"
	"homequest/internal/service"
	"homequest/internal/storage"
)

// @title HomeQuest Progress API
// @version 1.0
// @description Answer submission and progress engine for guardian-assigned exercise sets, with coin rewards, streaks and hint purchases.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			func(cfg *config.Config) *cache.Cache {
				return cache.New(time.Duration(cfg.Cache.TTLSeconds) * time.Second)
			},
			func(cfg *config.Config) (*storage.WorkStore, error) {
				return storage.NewWorkStore(cfg.Storage.BasePath, cfg.Storage.MaxUploadBytes)
			},
			func(cfg *config.Config) *middleware.RateLimiter {
				return middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
			},
		),

		// Repositories Layer
		fx.Provide(
			repository.NewAssignmentRepository,
			repository.NewPackageRepository,
			repository.NewCoinAccountRepository,
			repository.NewAttemptLedger,
		),

		// Services Layer
		fx.Provide(
			service.NewAnswerCheckerService,
			service.NewRewardService,
			service.NewWalletService,
			service.NewHintService,
			service.NewSubmissionService,
			service.NewAssignmentService,
			service.NewGeneratorService,
		),

		// API Controllers Layer
		fx.Provide(
			learnerctrl.NewSubmissionController,
			learnerctrl.NewAssignmentController,
			guardianctrl.NewAssignmentController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	limiter *middleware.RateLimiter,
	submissionCtrl *learnerctrl.SubmissionController,
	learnerAssignmentCtrl *learnerctrl.AssignmentController,
	guardianAssignmentCtrl *guardianctrl.AssignmentController,
) {
	api := router.Group("/api/v1")
	api.Use(limiter.Middleware())
	api.Use(auth.Middleware(cfg.Auth.JWTSecret))

	// Learner routes
	learnerGroup := api.Group("")
	learnerGroup.Use(auth.RequireRole(model.RoleLearner))
	{
		learnerGroup.GET("/assignments", learnerAssignmentCtrl.ListAssignments)
		learnerGroup.GET("/assignments/:assignment_id", learnerAssignmentCtrl.GetAssignment)
		learnerGroup.POST("/assignments/:assignment_id/problems/:problem_id/answer", submissionCtrl.SubmitAnswer)
		learnerGroup.POST("/assignments/:assignment_id/problems/:problem_id/hint", submissionCtrl.PurchaseHint)
		learnerGroup.GET("/wallet", learnerAssignmentCtrl.GetWallet)
	}

	// Guardian routes
	guardianGroup := api.Group("/guardian")
	guardianGroup.Use(auth.RequireRole(model.RoleGuardian))
	{
		guardianGroup.POST("/assignments", guardianAssignmentCtrl.CreateAssignment)
		guardianGroup.POST("/assignments/generate", guardianAssignmentCtrl.GenerateAssignment)
		guardianGroup.GET("/learners/:learner_id/assignments", guardianAssignmentCtrl.ListLearnerAssignments)
		guardianGroup.PUT("/assignments/:assignment_id/order", guardianAssignmentCtrl.UpdateOrder)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("HomeQuest API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Assignment{},
		&model.ProblemPackage{},
		&model.PackageProblem{},
		&model.LegacyMathProblem{},
		&model.LegacyReadingQuestion{},
		&model.AttemptRecord{},
		&model.CoinAccount{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

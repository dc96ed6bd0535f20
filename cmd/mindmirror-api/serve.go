package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/config"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/handlers"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/logger"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/middleware"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/repository"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/service"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/pkg/supabase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for analysis requests.`,
	RunE:  runServe,
}

var port string

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// A missing .env is fine outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port != "" {
		cfg.Server.Port = port
	}

	logger.SetDefault(logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	}))
	log := logger.Default()
	log.Info("starting mindmirror analysis API",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	supabaseClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)

	// Repositories
	sessionRepo := repository.NewSessionRepository(supabaseClient)
	habitRepo := repository.NewHabitLogRepository(supabaseClient)
	psychRepo := repository.NewPsychologyScoreRepository(supabaseClient)
	lifeAreaRepo := repository.NewLifeAreaRatingRepository(supabaseClient)
	healthRepo := repository.NewHealthMetricRepository(supabaseClient)
	correlationRepo := repository.NewCorrelationRepository(supabaseClient)
	patternRepo := repository.NewPatternRepository(supabaseClient)
	scoreRepo := repository.NewLifeAreaScoreRepository(supabaseClient)

	// Services
	collector := service.NewMetricCollector(sessionRepo, habitRepo, psychRepo, lifeAreaRepo, healthRepo)
	correlationService := service.NewCorrelationService(collector, correlationRepo)
	patternService := service.NewPatternService(sessionRepo, patternRepo)
	profileService := service.NewProfileService(scoreRepo)

	// Handlers
	analysisHandler := handlers.NewAnalysisHandler(correlationService, patternService)
	profileHandler := handlers.NewProfileHandler(profileService)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimit())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(supabaseClient))
	{
		analysis := v1.Group("/analysis")
		{
			analysis.GET("/correlations", analysisHandler.GetCorrelations)
			analysis.GET("/patterns", analysisHandler.GetPatterns)

			refresh := analysis.Group("")
			refresh.Use(middleware.RateLimitAnalysis())
			{
				refresh.POST("/correlations/refresh", analysisHandler.RefreshCorrelations)
				refresh.POST("/patterns/refresh", analysisHandler.RefreshPatterns)
			}
		}

		v1.PUT("/profile/life-scores", profileHandler.UpdateLifeScores)
	}

	log.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

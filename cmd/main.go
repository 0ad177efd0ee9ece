package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lequan/examhub/config"
	"github.com/lequan/examhub/database"
	_ "github.com/lequan/examhub/docs" // Swagger docs
	admctrl "github.com/lequan/examhub/internal/controller/admin"
	stuctrl "github.com/lequan/examhub/internal/controller/student"
	"github.com/lequan/examhub/internal/logger"
	"github.com/lequan/examhub/internal/model"
	"github.com/lequan/examhub/internal/realtime"
	"github.com/lequan/examhub/internal/repository"
	"github.com/lequan/examhub/internal/service"
	"github.com/lequan/examhub/internal/session"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title ExamHub API
// @version 1.0
// @description Exam administration service: AI-assisted exam extraction, online attempts, deterministic MCQ scoring and AI essay grading.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			realtime.NewHub,
			session.NewManager,
		),

		fx.Provide(
			repository.NewExamRepository,
			repository.NewSubmissionRepository,
		),

		fx.Provide(
			service.NewGeminiExtractionService,
			service.NewGeminiGradingService,
			service.NewExamService,
			service.NewStudentExamService,
			service.NewScoringService,
		),

		fx.Provide(
			admctrl.NewAdminController,
			stuctrl.NewStudentController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
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
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Session-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	hub *realtime.Hub,
	examSvc service.ExamService,
	adminCtrl *admctrl.AdminController,
	studentCtrl *stuctrl.StudentController,
) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", hub.ServeWS)

	adminGroup := router.Group("/api/v1/admin")
	{
		adminGroup.POST("/login", adminCtrl.Login)

		authed := adminGroup.Group("")
		authed.Use(adminCtrl.RequireSession())
		authed.POST("/logout", adminCtrl.Logout)
		authed.POST("/extract", adminCtrl.Extract)
		authed.POST("/exams", adminCtrl.Publish)
		authed.GET("/exams", adminCtrl.ListExams)
		authed.PATCH("/exams/:id/open", adminCtrl.SetOpen)
		authed.DELETE("/exams/:id", adminCtrl.Delete)
		authed.GET("/exams/:id/submissions", adminCtrl.ListSubmissions)
	}

	studentGroup := router.Group("/api/v1")
	{
		studentGroup.GET("/exams/code/:code", studentCtrl.LookupExam)
		studentGroup.POST("/sessions", studentCtrl.EnterExam)
		studentGroup.POST("/sessions/submit", studentCtrl.Submit)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	watchCtx, cancelWatch := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go examSvc.WatchChanges(watchCtx)
			log.Info().Msgf("ExamHub server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			cancelWatch()
			hub.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Exam{},
		&model.Question{},
		&model.StudentSubmission{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

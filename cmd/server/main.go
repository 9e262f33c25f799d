package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oztunc/lesson-planner/internal/config"
	"github.com/oztunc/lesson-planner/internal/handler"
	"github.com/oztunc/lesson-planner/internal/logger"
	"github.com/oztunc/lesson-planner/internal/repository"
	"github.com/oztunc/lesson-planner/internal/service"
	"github.com/oztunc/lesson-planner/migrations"
	"github.com/oztunc/lesson-planner/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	// Initialize database and apply migrations
	db, err := initDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize repository and service
	snapshotRepo := repository.NewSnapshotRepository(db)
	plannerService := service.NewPlannerService(snapshotRepo, redisClient, cfg)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelLoad()
	if err := plannerService.Load(loadCtx); err != nil {
		logrus.Fatalf("Failed to load planner state: %v", err)
	}

	plannerHandler := handler.NewPlannerHandler(plannerService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(plannerHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	if err := goose.Up(db.DB, "."); err != nil {
		return nil, err
	}

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		logrus.Info("Redis cache disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(plannerHandler *handler.PlannerHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/lessons", plannerHandler.PlaceLesson).Methods("POST")
	api.HandleFunc("/lessons/{lessonID}/status", plannerHandler.SetLessonStatus).Methods("PUT")
	api.HandleFunc("/schedule", plannerHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/schedule/occupancy", plannerHandler.GetOccupancy).Methods("GET")
	api.HandleFunc("/working-hours", plannerHandler.GetWorkingHours).Methods("GET")
	api.HandleFunc("/working-hours", plannerHandler.SetWorkingHours).Methods("PUT")

	api.HandleFunc("/students", plannerHandler.CreateStudent).Methods("POST")
	api.HandleFunc("/students", plannerHandler.ListStudents).Methods("GET")
	api.HandleFunc("/students/{studentID}", plannerHandler.UpdateStudent).Methods("PUT")
	api.HandleFunc("/students/{studentID}/billing", plannerHandler.GetStudentBilling).Methods("GET")
	api.HandleFunc("/students/{studentID}/payments", plannerHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/students/{studentID}/payments/{date}", plannerHandler.DeletePayment).Methods("DELETE")

	api.HandleFunc("/reports/no-shows", plannerHandler.NoShowReport).Methods("GET")
	api.HandleFunc("/reports/revenue", plannerHandler.RevenueReport).Methods("GET")

	return router
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/oztunc/lesson-planner/internal/config"
	"github.com/oztunc/lesson-planner/internal/logger"
	"github.com/oztunc/lesson-planner/internal/repository"
	"github.com/oztunc/lesson-planner/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logrus.Info("Starting billing scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	snapshotRepo := repository.NewSnapshotRepository(db)
	plannerService := service.NewPlannerService(snapshotRepo, redisClient, cfg)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds())

	// Schedule tasks
	setupCronJobs(c, cfg, plannerService)

	// Start the scheduler
	c.Start()
	logrus.Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down scheduler...")
	c.Stop()
	logrus.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, svc *service.PlannerService) {
	// Daily delinquency sweep
	_, err := c.AddFunc(cfg.Scheduler.DelinquencySpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		logrus.Info("Running daily delinquency scan...")
		if err := svc.Load(ctx); err != nil {
			logrus.WithError(err).Error("loading planner state for scan")
			return
		}

		summary, err := svc.DelinquencyScan(ctx)
		if err != nil {
			logrus.WithError(err).Error("delinquency scan failed")
			return
		}
		logrus.WithFields(logrus.Fields{
			"students":   summary.Students,
			"delinquent": len(summary.Delinquent),
		}).Info("delinquency scan finished")
	})
	if err != nil {
		logrus.WithError(err).Error("scheduling delinquency scan job")
	}

	// Weekly digest at the start of the teaching week
	_, err = c.AddFunc(cfg.Scheduler.DigestSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		logrus.Info("Running weekly digest...")
		if err := svc.Load(ctx); err != nil {
			logrus.WithError(err).Error("loading planner state for digest")
			return
		}
		svc.WeeklyDigest(ctx)
	})
	if err != nil {
		logrus.WithError(err).Error("scheduling weekly digest job")
	}

	logrus.Info("Cron jobs scheduled successfully")
}

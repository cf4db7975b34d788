package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ShepherdBook/controllers"
	"github.com/ShepherdBook/initializers"
	"github.com/ShepherdBook/middlewares"
	"github.com/ShepherdBook/services"
)

func init() {
	initializers.LoadEnv()

	cfg, err := initializers.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initializers.InitLogger(cfg.LogLevel, cfg.LogFormat)

	db := initializers.ConnectDB(cfg.DBURL)
	if cfg.RunMigrations {
		if err := initializers.RunMigrations(db, cfg.MigrationsPath); err != nil {
			initializers.Log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	if err := initializers.ConnectRedis(cfg.RedisURL); err != nil {
		initializers.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	services.InitPushNotificationService(cfg.FirebaseServiceAccountPath, cfg.PrayerTopic)
	services.InitEmailService(cfg.ResendAPIKey, cfg.ResendFromEmail, cfg.EmailRatePerSecond)

	if err := services.InitWeeklyPrayerServices(cfg); err != nil {
		initializers.Log.Fatal("Failed to initialize weekly prayer services", zap.Error(err))
	}
}

func main() {
	defer initializers.Log.Sync()

	gin.SetMode(initializers.Config.GinMode)
	router := gin.New()
	router.Use(middlewares.RequestLogger, middlewares.Recovery)

	getKey := func(c *gin.Context) string {
		if gin.Mode() == gin.DebugMode {
			return c.FullPath()
		}
		return c.ClientIP()
	}

	router.GET("/ping", middlewares.RateLimitMiddleware("ping", 2, 2, getKey), controllers.Ping)

	auth := router.Group("/")
	auth.Use(middlewares.CheckAuth)
	auth.Use(middlewares.RateLimitMiddleware("auth", 10, 10, middlewares.UserKey))
	{
		auth.GET("/weekly-selection", controllers.GetCurrentWeeklySelection)

		admin := auth.Group("/")
		admin.Use(middlewares.CheckAdmin)
		{
			admin.POST("/weekly-selection/send-prayer",
				middlewares.RateLimitMiddleware("send-prayer", 0.1, 2, middlewares.UserKey),
				controllers.SendWeeklyPrayer)
			admin.GET("/weekly-selection/history", controllers.GetWeeklySelectionHistory)

			// Sends one prayer email without touching the weekly send count.
			admin.POST("/test/email", middlewares.RateLimitMiddleware("test-email", 0.2, 2, middlewares.UserKey), controllers.TestPrayerEmail)
		}
	}

	initializers.Log.Info("Server starting", zap.String("port", initializers.Config.Port))
	if err := router.Run(":" + initializers.Config.Port); err != nil {
		initializers.Log.Fatal("Server stopped", zap.Error(err))
	}
}

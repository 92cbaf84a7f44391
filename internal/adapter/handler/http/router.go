package http

import (
	"net/http"
	"strings"

	"github.com/boltauto/garage_microservice/internal/config"
	"github.com/boltauto/garage_microservice/internal/core/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine
}

type Handlers struct {
	Vehicle       *VehicleHandler
	ServiceRecord *ServiceRecordHandler
	Challenge     *ChallengeHandler
	Achievement   *AchievementHandler
	Notification  *NotificationHandler
}

func NewRouter(
	cfg *config.HTTP,
	tokenService ports.TokenService,
	metrics ports.MetricsPort,
	metricsHandler http.Handler,
	limiter *RateLimiter,
	h Handlers,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(MetricsMiddleware(metrics))
	if limiter != nil {
		router.Use(limiter.Middleware())
	}

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(cfg.AllowedOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(metricsHandler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := AuthMiddleware(tokenService)

	vehicles := router.Group("/vehicles")
	vehicles.Use(auth)
	{
		vehicles.POST("", h.Vehicle.CreateVehicle)
		vehicles.GET("", h.Vehicle.GetMyVehicles)
		vehicles.GET("/my", h.Vehicle.GetMyVehicles)
		vehicles.GET("/:id", h.Vehicle.GetVehicle)
		vehicles.PUT("/:id", h.Vehicle.UpdateVehicle)
		vehicles.DELETE("/:id", h.Vehicle.DeleteVehicle)
		vehicles.GET("/:id/maintenance/due", h.Vehicle.GetDueMaintenance)
		vehicles.GET("/:id/service-records", h.ServiceRecord.GetVehicleServiceRecords)
	}

	records := router.Group("/service-records")
	records.Use(auth)
	{
		records.POST("", h.ServiceRecord.CreateServiceRecord)
		records.PUT("/:id", h.ServiceRecord.UpdateServiceRecord)
		records.DELETE("/:id", h.ServiceRecord.DeleteServiceRecord)
	}

	challenges := router.Group("/challenges")
	challenges.Use(auth)
	{
		challenges.GET("", h.Challenge.ListChallenges)
		challenges.GET("/my", h.Challenge.GetMyChallenges)
		challenges.POST("/increment", h.Challenge.IncrementProgress)
		challenges.DELETE("/progress", h.Challenge.ResetProgress)
		challenges.GET("/:id", h.Challenge.GetChallenge)
		challenges.POST("/:id/start", h.Challenge.StartChallenge)
		challenges.PUT("/:id/progress", h.Challenge.SetProgress)
	}

	achievements := router.Group("/achievements")
	achievements.Use(auth)
	{
		achievements.POST("/evaluate", h.Achievement.Evaluate)
		achievements.GET("/progress", h.Achievement.GetProgress)
	}

	badges := router.Group("/badges")
	badges.Use(auth)
	{
		badges.GET("", h.Achievement.ListBadges)
		badges.GET("/my", h.Achievement.GetMyBadges)
		badges.POST("/award", AdminMiddleware(), h.Achievement.AwardBadge)
	}

	notifications := router.Group("/notifications")
	notifications.Use(auth)
	{
		notifications.GET("", h.Notification.GetNotifications)
		notifications.GET("/unread-count", h.Notification.GetUnreadCount)
		notifications.PUT("/read-all", h.Notification.MarkAllRead)
		notifications.PUT("/:id/read", h.Notification.MarkRead)
	}

	admin := router.Group("/admin")
	admin.Use(auth, AdminMiddleware())
	{
		admin.POST("/maintenance/reminders", h.Notification.GenerateReminders)
	}

	return &Router{router: router}, nil
}

func allowedOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (r *Router) Serve(addr string) error {
	return r.router.Run(addr)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}

package handler

import (
	"wellbeing/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every endpoint the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	TwoFactor *TwoFactorHandler
	Sessions  *SessionHandler
	Monitor   *MonitorHandler
	Stream    *TelemetryStreamHandler
	Dashboard *DashboardHandler
	Chat      *ChatHandler
	Todos     *TodoHandler
	Health    *HealthHandler
}

type RouterOptions struct {
	CORSOrigins     []string
	MaxRequestBytes int64
}

// NewRouter builds the engine. auth guards every route under /api except
// registration, login and refresh.
func NewRouter(h Handlers, auth gin.HandlerFunc, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		middleware.EnhancedRecoveryMiddleware(),
		middleware.RequestTracingMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(opts.CORSOrigins),
	)
	if opts.MaxRequestBytes > 0 {
		router.Use(middleware.RequestSizeLimiter(opts.MaxRequestBytes))
	}

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/api")
	{
		authGroup := public.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
		}
	}

	protected := router.Group("/api")
	protected.Use(auth, middleware.CacheControlMiddleware("no-store"))
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", h.Profile.GetProfile)
			user.PUT("/profile", h.Profile.UpdateProfile)
			user.POST("/logout", h.Auth.Logout)
			user.POST("/2fa/setup", h.TwoFactor.Setup)
			user.POST("/2fa/enable", h.TwoFactor.Enable)
			user.POST("/2fa/disable", h.TwoFactor.Disable)
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", h.Sessions.GetActiveSessions)
			sessions.POST("/logout-all", h.Sessions.LogoutAllSessions)
		}

		protected.POST("/save_calibration", h.Monitor.SaveCalibration)
		protected.POST("/monitor/start", h.Monitor.StartMonitor)
		protected.GET("/monitor/stream", h.Stream.Stream)
		protected.POST("/update_session", h.Monitor.UpdateSession)
		protected.POST("/generate_report", h.Monitor.GenerateReport)
		protected.GET("/generate_report", h.Monitor.GenerateReport)
		protected.GET("/report/:id", h.Monitor.ViewReport)
		protected.GET("/history", h.Monitor.History)

		protected.GET("/dashboard", h.Dashboard.GetDashboard)
		protected.GET("/stats", h.Dashboard.GetUserStats)
		protected.POST("/chat_with_coach", h.Chat.ChatWithCoach)

		planner := protected.Group("/planner")
		{
			planner.GET("", h.Todos.GetTodos)
			planner.POST("", h.Todos.CreateTodo)
			planner.DELETE("/:id", h.Todos.DeleteTodo)
			planner.POST("/:id/toggle", h.Todos.ToggleTodo)
		}
	}

	return router
}

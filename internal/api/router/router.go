package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nexus-lab/backend/config"
	"nexus-lab/backend/internal/api/handler"
	"nexus-lab/backend/internal/api/middleware"
	"nexus-lab/backend/pkg/jwt"
	"nexus-lab/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 教室模块
			classrooms := authorized.Group("/classrooms")
			{
				classrooms.GET("", h.Classroom.ListClassrooms)
				classrooms.GET("/:id", h.Classroom.GetClassroom)
				classrooms.GET("/:id/occupancy", h.Occupancy.GetOccupancy)
				classrooms.POST("", middleware.RoleAuth("admin"), h.Classroom.CreateClassroom)
				classrooms.PUT("/:id", middleware.RoleAuth("admin"), h.Classroom.UpdateClassroom)
				classrooms.DELETE("/:id", middleware.RoleAuth("admin"), h.Classroom.DeleteClassroom)
			}

			// 占用模块（看板 + 可用性搜索）
			occupancy := authorized.Group("/occupancy")
			{
				occupancy.GET("/status", h.Occupancy.ListStatus)
				occupancy.GET("/availability", h.Occupancy.FindAvailable)
			}

			// 预约模块
			reservations := authorized.Group("/reservations")
			{
				reservations.GET("", h.Reservation.ListReservations)
				reservations.POST("", middleware.RoleAuth("admin", "requester"), h.Reservation.CreateReservation)
				reservations.POST("/:id/dates", middleware.RoleAuth("admin", "requester"), h.Reservation.ExtendReservation)
				reservations.PATCH("/:id/status", middleware.RoleAuth("admin"), h.Reservation.UpdateReservationStatus)
			}

			// 课程场次模块
			sessions := authorized.Group("/sessions")
			{
				sessions.GET("", h.Session.ListSessions)
				sessions.POST("", middleware.RoleAuth("admin"), h.Session.CreateSession)
				sessions.POST("/import-ics", middleware.RoleAuth("admin"), h.Session.ImportICS)
				sessions.DELETE("/:id", middleware.RoleAuth("admin"), h.Session.DeleteSession)
			}

			// 考勤模块
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("/entry", middleware.RoleAuth("teacher"), h.Attendance.RegisterEntry)
				attendance.POST("/:id/exit", middleware.RoleAuth("teacher"), h.Attendance.RegisterExit)
				attendance.GET("/daily", middleware.RoleAuth("teacher"), h.Attendance.GetDailySchedule)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/reservations", middleware.RoleAuth("admin"), h.Export.ExportReservations)
				export.GET("/attendance", middleware.RoleAuth("admin"), h.Export.ExportAttendance)
			}
		}
	}

	return r
}

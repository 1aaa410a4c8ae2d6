package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-calendar/config"
	"school-calendar/internal/api/handler"
	"school-calendar/internal/api/middleware"
	"school-calendar/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流；db 为 nil 时健康检查只报告进程存活
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	limiter middleware.RateLimiter,
	db *gorm.DB,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db))

	rateLimit := middleware.RateLimit(limiter, cfg.Calendar.RateLimit, cfg.Calendar.RateWindow)
	jsonLimit := middleware.BodyLimit(middleware.DefaultBodyLimit)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 学期模块
		semesters := v1.Group("/semesters", jsonLimit)
		{
			semesters.GET("", h.Semester.ListSemesters)
			semesters.GET("/current", h.Semester.GetCurrentSemester)
			semesters.GET("/:id", h.Semester.GetSemester)
			semesters.POST("/select", rateLimit, h.Semester.SelectSemester)
		}

		// 校历模块
		cal := v1.Group("/calendar", rateLimit)
		{
			cal.GET("/semester", h.Calendar.GetSemesterCalendar)
			cal.GET("/month", h.Calendar.GetMonthCalendar)
			cal.GET("/layouts", h.Calendar.GetMonthLayouts)
		}

		// 日历标注模块
		v1.GET("/annotations", rateLimit, h.Annotation.ListAnnotations)

		// 导出模块
		export := v1.Group("/export", rateLimit)
		{
			export.GET("/semester.xlsx", h.Export.ExportSemesterXLSX)
			export.GET("/semester.ics", h.Export.ExportSemesterICS)
		}

		// 管理接口：学期目录维护与标注导入
		admin := v1.Group("")
		admin.Use(middleware.JWTAuth(jwtMgr), middleware.RoleAuth("admin"))
		{
			admin.POST("/semesters", jsonLimit, h.Semester.CreateSemester)
			admin.PUT("/semesters/:id", jsonLimit, h.Semester.UpdateSemester)
			admin.DELETE("/semesters/:id", h.Semester.DeleteSemester)
			admin.POST("/annotations/import", middleware.BodyLimit(cfg.Calendar.MaxUploadBytes+(64<<10)), h.Annotation.ImportICS)
		}
	}

	return r
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}

		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
	}
}

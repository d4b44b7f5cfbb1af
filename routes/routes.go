package routes

import (
	"time"

	"robolab/app"
	"robolab/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.GetAuthController(s)
	compCtl := controllers.NewComponentController(s)
	reqCtl := controllers.NewRequestController(s)
	notifCtl := controllers.NewNotificationController(s)
	statsCtl := controllers.NewStatsController(s)
	userCtl := controllers.GetUserController(s)
	exportCtl := controllers.NewExportController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.AppSessions(), s.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 认证
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authCtl.Login)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.POST("/logout", authCtl.Logout)
		authed.GET("/whoami", authCtl.Whoami)
	}

	// ------------------------------
	// 库存组件
	// ------------------------------
	comps := r.Group("/api/components", authMW, seenMW)
	{
		comps.GET("", compCtl.List)
		comps.GET("/:id", compCtl.Get)
	}
	compsAdmin := r.Group("/api/components", authMW, adminMW)
	{
		compsAdmin.POST("", compCtl.Create)
		compsAdmin.PUT("/:id", compCtl.Update)
	}

	// ------------------------------
	// 借还申请
	// ------------------------------
	reqs := r.Group("/api/requests", authMW, seenMW)
	{
		reqs.POST("", reqCtl.Submit)
		reqs.GET("/mine", reqCtl.ListMine)
	}
	reqsAdmin := r.Group("/api/requests", authMW, adminMW)
	{
		reqsAdmin.GET("", reqCtl.ListAll)
		reqsAdmin.POST("/:id/approve", reqCtl.Approve)
		reqsAdmin.POST("/:id/reject", reqCtl.Reject)
		reqsAdmin.POST("/:id/return", reqCtl.Return)
	}

	// ------------------------------
	// 通知
	// ------------------------------
	notifs := r.Group("/api/notifications", authMW, seenMW)
	{
		notifs.GET("", notifCtl.List)
		notifs.POST("/:id/read", notifCtl.MarkRead)
	}

	// ------------------------------
	// 管理：用户 / 统计 / 导出
	// ------------------------------
	admin := r.Group("/api", authMW, adminMW)
	{
		admin.GET("/users", userCtl.ListUsers)
		admin.GET("/users/:id", userCtl.GetUser)
		admin.DELETE("/users/:id", userCtl.DeleteUser)

		admin.GET("/stats", statsCtl.Get)
		admin.GET("/export", exportCtl.Download)
	}
}

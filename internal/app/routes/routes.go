package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/spesuez/recruitment/internal/app/controllers"
	"github.com/spesuez/recruitment/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	applicationController *controllers.ApplicationController,
	committeeController *controllers.CommitteeController,
	dashboardController *controllers.DashboardController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/applications/form", applicationController.GetForm)
	v1.POST("/applications", applicationController.Submit)
	v1.GET("/committees", committeeController.ListPublic)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Admin routes ---
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth())
	{
		admin.GET("/dashboard", dashboardController.GetDashboard)

		applications := admin.Group("/applications")
		{
			applications.GET("", applicationController.List)
			applications.DELETE("", applicationController.Purge)
			applications.GET("/export", applicationController.Export)
			applications.GET("/:id", applicationController.GetByID)
			applications.POST("/:id/status", applicationController.UpdateStatus)
		}

		committees := admin.Group("/committees")
		{
			committees.GET("", committeeController.ListAdmin)
			committees.GET("/:id", committeeController.Get)
			committees.POST("", committeeController.Create)
			committees.PUT("/:id", committeeController.Update)
			committees.DELETE("/:id", committeeController.Delete)
			committees.POST("/:id/toggle", committeeController.Toggle)
		}
	}
}

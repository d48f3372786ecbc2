package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spesuez/recruitment/internal/app/models/dto"
	"github.com/spesuez/recruitment/internal/app/services"
	"github.com/spesuez/recruitment/internal/middleware"
)

// DashboardController handles the admin landing page statistics
type DashboardController struct {
	dashboardService services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// GetDashboard returns aggregate statistics
// @Summary Dashboard statistics
// @Description Returns application totals, per-status/per-committee/per-day counts and recent submissions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Statistics retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	response, err := c.dashboardService.GetDashboard(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

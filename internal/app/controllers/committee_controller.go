package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spesuez/recruitment/internal/app/models/dto"
	"github.com/spesuez/recruitment/internal/app/services"
	"github.com/spesuez/recruitment/internal/middleware"
)

// CommitteeController handles committee related operations
type CommitteeController struct {
	committeeService services.CommitteeService
}

// NewCommitteeController creates a new CommitteeController
func NewCommitteeController(committeeService services.CommitteeService) *CommitteeController {
	return &CommitteeController{committeeService: committeeService}
}

// ListPublic handles the public committee listing
// @Summary List committees
// @Description Retrieves all committees with their descriptions and acceptance state
// @Tags committees
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CommitteeResponse} "Committees retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /committees [get]
func (c *CommitteeController) ListPublic(ctx *gin.Context) {
	committees, err := c.committeeService.ListPublic(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(committees))
}

// ListAdmin handles the admin committee listing with counts
// @Summary List committees with application counts
// @Description Retrieves all committees decorated with their application counts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CommitteeListResponse} "Committees retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/committees [get]
func (c *CommitteeController) ListAdmin(ctx *gin.Context) {
	response, err := c.committeeService.ListAdmin(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Get handles the admin committee detail view
// @Summary Get a committee with its applications
// @Description Retrieves one committee, the applications that picked it and their status breakdown
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Committee ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommitteeDetailResponse} "Committee retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Committee not found"
// @Router /admin/committees/{id} [get]
func (c *CommitteeController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "committee")
	if !ok {
		return
	}

	detail, err := c.committeeService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// Create handles adding a new committee
// @Summary Create a committee
// @Description Adds a new committee to the recruitment form
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCommitteeRequest true "Committee data"
// @Success 201 {object} dto.APIResponse{data=dto.CommitteeResponse} "Committee created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Committee name already exists"
// @Router /admin/committees [post]
func (c *CommitteeController) Create(ctx *gin.Context) {
	var req dto.CreateCommitteeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid committee data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	committee, err := c.committeeService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(committee))
}

// Update handles committee edits
// @Summary Update a committee
// @Description Updates a committee; omitted fields keep their current value
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Committee ID"
// @Param request body dto.UpdateCommitteeRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.CommitteeResponse} "Committee updated successfully"
// @Failure 404 {object} dto.ErrorResponse "Committee not found"
// @Failure 409 {object} dto.ErrorResponse "Committee name already exists"
// @Router /admin/committees/{id} [put]
func (c *CommitteeController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "committee")
	if !ok {
		return
	}

	var req dto.UpdateCommitteeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid committee data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	committee, err := c.committeeService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(committee))
}

// Toggle flips a committee's acceptance gate
// @Summary Toggle committee acceptance
// @Description Flips whether the committee accepts new applications
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Committee ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommitteeResponse} "Committee toggled successfully"
// @Failure 404 {object} dto.ErrorResponse "Committee not found"
// @Router /admin/committees/{id}/toggle [post]
func (c *CommitteeController) Toggle(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "committee")
	if !ok {
		return
	}

	committee, err := c.committeeService.Toggle(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(committee))
}

// Delete removes a committee without applications
// @Summary Delete a committee
// @Description Removes a committee; refused while applications reference it
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Committee ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Committee deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Committee not found"
// @Failure 409 {object} dto.ErrorResponse "Committee has applications"
// @Router /admin/committees/{id} [delete]
func (c *CommitteeController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "committee")
	if !ok {
		return
	}

	if err := c.committeeService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Committee deleted"}))
}

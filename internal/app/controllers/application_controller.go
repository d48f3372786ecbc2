package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spesuez/recruitment/internal/app/models/dto"
	"github.com/spesuez/recruitment/internal/app/services"
	"github.com/spesuez/recruitment/internal/middleware"
)

// ApplicationController handles the public submission flow and the admin
// review workflow
type ApplicationController struct {
	applicationService services.ApplicationService
	exportService      services.ExportService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService, exportService services.ExportService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		exportService:      exportService,
	}
}

// GetForm handles the wizard bootstrap payload
// @Summary Get application form data
// @Description Returns open committees, academic year labels and form instructions for the application wizard
// @Tags applications
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.FormPayload} "Form data, or a closed payload when recruitment is closed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/form [get]
func (c *ApplicationController) GetForm(ctx *gin.Context) {
	payload, closed, err := c.applicationService.GetForm(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if closed != nil {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(closed))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(payload))
}

// Submit handles a public application submission
// @Summary Submit an application
// @Description Validates and stores an application with its personal photo, then sends a confirmation email
// @Tags applications
// @Accept multipart/form-data
// @Produce json
// @Param full_name formData string true "Applicant full name"
// @Param email formData string true "Applicant email (unique)"
// @Param mobile formData string true "Mobile number"
// @Param facebook_link formData string true "Facebook profile URL"
// @Param personal_photo formData file true "Personal photo (jpeg/jpg/png, max 2MB)"
// @Param university formData string true "University"
// @Param faculty formData string true "Faculty"
// @Param department formData string true "Department"
// @Param academic_year formData string true "Academic year (preparatory..fifth)"
// @Param previous_experience formData string true "Previous experience"
// @Param why_applying formData string false "Why applying"
// @Param how_benefit formData string false "Expected benefits"
// @Param committee_choices[] formData []string true "Committee choices in preference order"
// @Param why_committee formData string true "Why this committee"
// @Param committee_responsibilities formData string true "Committee knowledge"
// @Param open_space formData string false "Additional comments"
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationSummary} "Application submitted successfully"
// @Failure 403 {object} dto.ErrorResponse "Recruitment is closed"
// @Failure 422 {object} dto.ValidationErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications [post]
func (c *ApplicationController) Submit(ctx *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid form data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	// The photo is optional at binding time; its absence is reported as
	// a field error alongside the other validation messages.
	photo, err := ctx.FormFile("personal_photo")
	if err != nil {
		photo = nil
	}

	summary, err := c.applicationService.Submit(ctx, &req, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(summary))
}

// List handles the paginated admin listing
// @Summary List applications
// @Description Retrieves applications with status/committee/search filtering, sorting and pagination
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter (pending, reviewed, accepted, rejected, all)"
// @Param committee query int false "Committee ID filter"
// @Param search query string false "Name or email substring"
// @Param sort_by query string false "Sort field (submitted_at, full_name, email, status, academic_year, university)"
// @Param sort_order query string false "Sort order (asc, desc)"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationListResponse} "Applications retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/applications [get]
func (c *ApplicationController) List(ctx *gin.Context) {
	var query dto.ListApplicationsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	response, err := c.applicationService.List(ctx, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetByID handles the admin detail view
// @Summary Get application by ID
// @Description Retrieves a single application with its committee choices
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid application ID"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /admin/applications/{id} [get]
func (c *ApplicationController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "application")
	if !ok {
		return
	}

	app, err := c.applicationService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(app))
}

// UpdateStatus handles the review workflow transition
// @Summary Update application status
// @Description Moves an application to a new review status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Status updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /admin/applications/{id}/status [post]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "application")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status")
		errorDetail = errorDetail.WithDetails("Status must be one of: pending, reviewed, accepted, rejected")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.applicationService.UpdateStatus(ctx, id, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Application status updated"}))
}

// Export streams the filtered application set as a file download
// @Summary Export applications
// @Description Downloads the filtered application set as an xlsx workbook, degrading to CSV on generation failure
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "Status filter (pending, reviewed, accepted, rejected, all)"
// @Param committee query int false "Committee ID filter"
// @Param search query string false "Name or email substring"
// @Param sort_by query string false "Sort field (default submitted_at)"
// @Param sort_order query string false "Sort order (asc, desc)"
// @Success 200 {file} file "Exported file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/applications/export [get]
func (c *ApplicationController) Export(ctx *gin.Context) {
	var query dto.ListApplicationsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	outcome := c.exportService.Export(ctx, &query)

	ctx.Header("Content-Disposition", `attachment; filename="`+outcome.Filename+`"`)
	ctx.Data(http.StatusOK, outcome.ContentType, outcome.Data)
}

// Purge handles the bulk administrative wipe
// @Summary Purge all applications
// @Description Deletes every application; used to reset between recruitment seasons
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Applications purged"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/applications [delete]
func (c *ApplicationController) Purge(ctx *gin.Context) {
	removed, err := c.applicationService.PurgeAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: strconv.FormatInt(removed, 10) + " application(s) removed",
	}))
}

// parseIDParam parses the :id path parameter, writing the 400 itself.
func parseIDParam(ctx *gin.Context, kind string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+kind+" ID")
		errorDetail = errorDetail.WithDetails("ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"holou/internal/models/request_models"
	"holou/internal/services"
	"holou/pkg/middleware"
	"holou/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StaffController struct {
	authService   services.StaffAuthServiceInterface
	planService   services.PlanServiceInterface
	avatarService services.AvatarServiceInterface
	exportService services.ExportServiceInterface
}

func NewStaffController(
	authService services.StaffAuthServiceInterface,
	planService services.PlanServiceInterface,
	avatarService services.AvatarServiceInterface,
	exportService services.ExportServiceInterface,
) *StaffController {
	return &StaffController{
		authService:   authService,
		planService:   planService,
		avatarService: avatarService,
		exportService: exportService,
	}
}

// Login godoc
// @Summary Staff login
// @Description Verifies the configured staff credentials and returns a bearer token
// @Tags Staff
// @Accept json
// @Produce json
// @Param request body request_models.StaffLoginRequest true "Credentials"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /staff/login [post]
func (s *StaffController) Login(c *gin.Context) {
	var req request_models.StaffLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := s.authService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"token": token}, "Login successful")
}

// ListPlans godoc
// @Summary List learning plans
// @Tags Staff
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {object} utils.APIResponse{data=response_models.PlanListResponse}
// @Router /staff/plans [get]
func (s *StaffController) ListPlans(c *gin.Context) {
	page, pageSize, ok := pagination(c, "20")
	if !ok {
		return
	}

	plans, err := s.planService.ListPlans(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

// GetPlan godoc
// @Summary Get a learning plan
// @Tags Staff
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} utils.APIResponse{data=response_models.PlanDetail}
// @Failure 404 {object} utils.APIResponse
// @Router /staff/plans/{id} [get]
func (s *StaffController) GetPlan(c *gin.Context) {
	plan, err := s.planService.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plan, "Plan fetched successfully")
}

// ApprovePlan godoc
// @Summary Approve a learning plan
// @Tags Staff
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /staff/plans/{id}/approve [post]
func (s *StaffController) ApprovePlan(c *gin.Context) {
	if err := s.planService.ApprovePlan(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, moderationResult(c, "approved"), "Plan approved")
}

// RejectPlan godoc
// @Summary Reject a learning plan
// @Tags Staff
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /staff/plans/{id}/reject [post]
func (s *StaffController) RejectPlan(c *gin.Context) {
	if err := s.planService.RejectPlan(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, moderationResult(c, "rejected"), "Plan rejected")
}

// ListAvatars godoc
// @Summary List generated avatars
// @Tags Staff
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {object} utils.APIResponse{data=[]response_models.AvatarSummary}
// @Router /staff/avatars [get]
func (s *StaffController) ListAvatars(c *gin.Context) {
	page, pageSize, ok := pagination(c, "20")
	if !ok {
		return
	}

	avatars, err := s.avatarService.ListAvatars(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, avatars, "Avatars fetched successfully")
}

// Export godoc
// @Summary Export records as a spreadsheet
// @Tags Staff
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param kind path string true "wishlist, feedback, partners or plans"
// @Success 200 {file} binary
// @Failure 404 {object} utils.APIResponse
// @Router /staff/exports/{kind} [get]
func (s *StaffController) Export(c *gin.Context) {
	filename, data, err := s.exportService.Export(c.Request.Context(), c.Param("kind"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func moderationResult(c *gin.Context, status string) gin.H {
	return gin.H{"id": c.Param("id"), "status": status, "by": middleware.StaffSubject(c)}
}

func pagination(c *gin.Context, defaultSize string) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return 0, 0, false
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", defaultSize))
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return 0, 0, false
	}
	return page, pageSize, true
}

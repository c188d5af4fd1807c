package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"holou/internal/models/response_models"
	"holou/internal/services"
	"holou/pkg/middleware"
	"holou/pkg/session"
	"holou/pkg/utils"
)

type ResultsController struct {
	planService services.PlanServiceInterface
	sessions    *session.Manager
}

func NewResultsController(planService services.PlanServiceInterface, sessions *session.Manager) *ResultsController {
	return &ResultsController{planService: planService, sessions: sessions}
}

func (r *ResultsController) resolve(c *gin.Context) (*response_models.PlanView, error) {
	key := middleware.SessionID(c)
	data, err := r.sessions.Load(c.Request.Context(), key)
	if err != nil {
		return nil, err
	}
	return r.planService.ResolveResults(c.Request.Context(), key, data)
}

// ResultsPage renders the visitor's plan, or sends them back to start.
func (r *ResultsController) ResultsPage(c *gin.Context) {
	view, err := r.resolve(c)
	if errors.Is(err, utils.ErrRecordNotFound) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.HTML(http.StatusOK, "results.html", view)
}

// Results godoc
// @Summary Get the visitor's learning plan
// @Description Returns the plan remembered for the current session, or a status message while it is reviewed
// @Tags Results
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response_models.PlanView}
// @Failure 404 {object} utils.APIResponse
// @Router /api/results/ [get]
func (r *ResultsController) Results(c *gin.Context) {
	view, err := r.resolve(c)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Plan fetched successfully")
}

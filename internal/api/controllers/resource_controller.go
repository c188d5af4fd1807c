package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"holou/internal/services"
	"holou/pkg/utils"
)

type ResourceController struct {
	resourceService services.ResourceServiceInterface
}

func NewResourceController(resourceService services.ResourceServiceInterface) *ResourceController {
	return &ResourceController{resourceService: resourceService}
}

// View embeds an external learning resource in a frame.
func (r *ResourceController) View(c *gin.Context) {
	target, ok := services.ResolveResourceURL(c.Query("url"))
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.Writer.Header().Del("X-Frame-Options")
	c.Header("Content-Security-Policy", "frame-ancestors *;")
	c.HTML(http.StatusOK, "resource.html", gin.H{"URL": target})
}

// Preview godoc
// @Summary Preview a resource link
// @Description Fetches the page and returns its title
// @Tags Resources
// @Produce json
// @Param url query string true "Absolute http(s) URL"
// @Success 200 {object} utils.APIResponse{data=response_models.ResourcePreview}
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /api/resource/preview [get]
func (r *ResourceController) Preview(c *gin.Context) {
	preview, err := r.resourceService.Preview(c.Request.Context(), c.Query("url"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, preview, "Resource fetched successfully")
}

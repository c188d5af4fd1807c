package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"holou/internal/models/request_models"
	"holou/internal/services"
	"holou/pkg/middleware"
	"holou/pkg/utils"
)

type ContactController struct {
	contactService services.ContactServiceInterface
}

func NewContactController(contactService services.ContactServiceInterface) *ContactController {
	return &ContactController{contactService: contactService}
}

func (ct *ContactController) WishlistPage(c *gin.Context) {
	c.HTML(http.StatusOK, "wishlist.html", gin.H{"Form": request_models.WishlistRequest{}})
}

// JoinWishlist godoc
// @Summary Join the wishlist
// @Description Accepts a form post or JSON. Signing up again with the same email updates the entry.
// @Tags Contact
// @Accept json,x-www-form-urlencoded
// @Produce json,html
// @Param request body request_models.WishlistRequest true "Wishlist entry"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /wishlist/ [post]
func (ct *ContactController) JoinWishlist(c *gin.Context) {
	asJSON := strings.HasPrefix(c.ContentType(), binding.MIMEJSON)

	var req request_models.WishlistRequest
	var bindErr error
	if asJSON {
		bindErr = c.ShouldBindJSON(&req)
	} else {
		bindErr = c.ShouldBindWith(&req, binding.Form)
	}
	if bindErr != nil {
		if asJSON {
			utils.RespondError(c, http.StatusBadRequest, "Please provide a valid email address")
			return
		}
		c.HTML(http.StatusBadRequest, "wishlist.html", gin.H{"Form": req, "Error": "Please provide a valid email address."})
		return
	}

	created, err := ct.contactService.JoinWishlist(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		if asJSON {
			utils.HandleServiceError(c, err)
			return
		}
		c.HTML(http.StatusInternalServerError, "wishlist.html", gin.H{"Form": req, "Error": "Something went wrong, please try again."})
		return
	}

	message := "Thanks for joining the wishlist!"
	if !created {
		message = "Your wishlist details were updated."
	}
	if asJSON {
		utils.RespondSuccess(c, gin.H{"created": created}, message)
		return
	}
	c.HTML(http.StatusOK, "wishlist.html", gin.H{"Form": request_models.WishlistRequest{}, "Message": message})
}

// SubmitFeedback godoc
// @Summary Send feedback
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body request_models.FeedbackRequest true "Feedback"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/feedback/ [post]
func (ct *ContactController) SubmitFeedback(c *gin.Context) {
	var req request_models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Feedback text is required (max 5000 characters) and email must be valid")
		return
	}

	if err := ct.contactService.SubmitFeedback(c.Request.Context(), middleware.SessionID(c), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Thank you for your feedback!")
}

// SubmitPartnerInterest godoc
// @Summary Register partnership interest
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body request_models.PartnerInterestRequest true "Partner interest"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/partner/ [post]
func (ct *ContactController) SubmitPartnerInterest(c *gin.Context) {
	var req request_models.PartnerInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "A valid email is required")
		return
	}

	if err := ct.contactService.SubmitPartnerInterest(c.Request.Context(), middleware.SessionID(c), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Thanks, we'll be in touch soon!")
}

// ListFeedback godoc
// @Summary List feedback
// @Tags Staff
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} utils.APIResponse{data=[]db_models.Feedback}
// @Router /staff/feedback [get]
func (ct *ContactController) ListFeedback(c *gin.Context) {
	page, pageSize, ok := pagination(c, "10")
	if !ok {
		return
	}

	feedback, err := ct.contactService.ListFeedback(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, feedback, "Feedback fetched successfully")
}

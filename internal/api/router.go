// Package api wires the HTTP routes onto a gin engine.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"holou/internal/api/controllers"
	"holou/pkg/middleware"
	"holou/pkg/utils"
)

type Controllers struct {
	Chat     *controllers.ChatController
	Results  *controllers.ResultsController
	Avatar   *controllers.AvatarController
	Contact  *controllers.ContactController
	Resource *controllers.ResourceController
	Staff    *controllers.StaffController
}

type RouteOptions struct {
	MediaRoot     string
	SessionCookie string
	SessionTTL    time.Duration
	SecureCookies bool
	Issuer        *utils.TokenIssuer
}

func RegisterRoutes(r *gin.Engine, h Controllers, opts RouteOptions) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.Static("/media", opts.MediaRoot)

	public := r.Group("/", middleware.SessionMiddleware(opts.SessionCookie, opts.SessionTTL, opts.SecureCookies))
	{
		public.GET("/", h.Chat.Home)
		public.GET("/results/", h.Results.ResultsPage)
		public.GET("/avatar/", h.Avatar.Page)
		public.POST("/avatar/generate/", h.Avatar.Generate)
		public.GET("/avatar/download/:id/", h.Avatar.Download)
		public.GET("/wishlist/", h.Contact.WishlistPage)
		public.POST("/wishlist/", h.Contact.JoinWishlist)
		public.GET("/resource/", h.Resource.View)
	}

	apiGroup := public.Group("/api")
	{
		apiGroup.POST("/chat/", h.Chat.Chat)
		apiGroup.GET("/results/", h.Results.Results)
		apiGroup.GET("/avatar/classes", h.Avatar.ListClasses)
		apiGroup.POST("/feedback/", h.Contact.SubmitFeedback)
		apiGroup.POST("/partner/", h.Contact.SubmitPartnerInterest)
		apiGroup.GET("/resource/preview", h.Resource.Preview)
	}

	r.POST("/staff/login", h.Staff.Login)
	staff := r.Group("/staff", middleware.JWTAuthMiddleware(opts.Issuer), middleware.RoleMiddleware("staff"))
	{
		staff.GET("/plans", h.Staff.ListPlans)
		staff.GET("/plans/:id", h.Staff.GetPlan)
		staff.POST("/plans/:id/approve", h.Staff.ApprovePlan)
		staff.POST("/plans/:id/reject", h.Staff.RejectPlan)
		staff.GET("/avatars", h.Staff.ListAvatars)
		staff.GET("/feedback", h.Contact.ListFeedback)
		staff.GET("/exports/:kind", h.Staff.Export)
	}
}

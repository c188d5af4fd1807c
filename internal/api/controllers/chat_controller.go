package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"holou/internal/models/request_models"
	"holou/internal/models/response_models"
	"holou/internal/services"
	"holou/pkg/middleware"
)

type ChatController struct {
	chatService services.ChatServiceInterface
}

func NewChatController(chatService services.ChatServiceInterface) *ChatController {
	return &ChatController{chatService: chatService}
}

// Home renders the question flow page.
func (h *ChatController) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// Chat godoc
// @Summary Answer the next question of the plan flow
// @Description Walks a visitor through project, level, software type and framework, then generates the plan
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request_models.ChatRequest true "Chat message"
// @Success 200 {object} response_models.ChatReply
// @Failure 400 {object} response_models.ChatReply
// @Router /api/chat/ [post]
func (h *ChatController) Chat(c *gin.Context) {
	var req request_models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response_models.ChatReply{
			Status: response_models.ChatStatusError,
			Error:  "Invalid JSON",
		})
		return
	}

	reply, err := h.chatService.HandleMessage(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		zap.S().Errorw("chat message failed", "error", err, "trace_id", c.GetString("trace_id"))
		c.JSON(http.StatusInternalServerError, response_models.ChatReply{
			Status: response_models.ChatStatusError,
			Error:  "Something went wrong, please try again",
		})
		return
	}

	c.JSON(http.StatusOK, reply)
}

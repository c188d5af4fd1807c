package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRecordNotFound):
		RespondError(c, http.StatusNotFound, "Record not found")
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrInvalidCharacterClass):
		RespondError(c, http.StatusBadRequest, "Invalid character class")
	case errors.Is(err, ErrInvalidProfession):
		RespondError(c, http.StatusBadRequest, "Invalid profession for the selected class")
	case errors.Is(err, ErrInvalidImage):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, ErrStaffLoginDisabled):
		RespondError(c, http.StatusServiceUnavailable, "Staff login is not configured")
	case errors.Is(err, ErrPlanStatusConflict):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrUnexpectedBehaviorOfAI), errors.Is(err, ErrImageDownload):
		zap.S().Warnw("external service failure", "error", err, "trace_id", c.GetString("trace_id"))
		RespondError(c, http.StatusBadGateway, "The image service is unavailable, please try again later")
	case errors.Is(err, ErrResourceUnavailable):
		RespondError(c, http.StatusBadGateway, "The resource could not be loaded")
	case errors.Is(err, ErrUnknownExport):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDatabaseError):
		zap.S().Errorw("database error", "error", err, "trace_id", c.GetString("trace_id"))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		zap.S().Errorw("unknown error", "error", err, "trace_id", c.GetString("trace_id"))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

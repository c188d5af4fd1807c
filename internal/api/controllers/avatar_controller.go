package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"holou/internal/services"
	"holou/pkg/middleware"
	"holou/pkg/session"
	"holou/pkg/utils"
)

const (
	// multipart overhead allowed on top of the image itself
	avatarFormSlack     = 1 << 20
	avatarFormLimit     = services.MaxAvatarUploadBytes + avatarFormSlack
	avatarFormMaxMemory = 32 << 20
)

type AvatarController struct {
	avatarService services.AvatarServiceInterface
	sessions      *session.Manager
}

func NewAvatarController(avatarService services.AvatarServiceInterface, sessions *session.Manager) *AvatarController {
	return &AvatarController{avatarService: avatarService, sessions: sessions}
}

func (a *AvatarController) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "avatar.html", gin.H{"Classes": a.avatarService.ListClasses()})
}

// ListClasses godoc
// @Summary List avatar classes
// @Description Character classes and the professions each one allows
// @Tags Avatar
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]response_models.CharacterClassOption}
// @Router /api/avatar/classes [get]
func (a *AvatarController) ListClasses(c *gin.Context) {
	utils.RespondSuccess(c, a.avatarService.ListClasses(), "Classes fetched successfully")
}

// Generate godoc
// @Summary Generate an avatar
// @Description Builds a 2D game avatar for a class and profession, optionally from a photo
// @Tags Avatar
// @Accept multipart/form-data
// @Produce json
// @Param character_class formData string true "Character class"
// @Param profession formData string true "Profession allowed for the class"
// @Param user_image formData file false "Reference photo (jpeg, png, gif, webp; 10MB max)"
// @Success 200 {object} utils.APIResponse{data=response_models.AvatarResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /avatar/generate/ [post]
func (a *AvatarController) Generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, avatarFormLimit)
	if err := c.Request.ParseMultipartForm(avatarFormMaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || c.Request.ContentLength > avatarFormLimit {
			utils.RespondError(c, http.StatusBadRequest, "Image must be 10MB or smaller")
			return
		}
		utils.RespondError(c, http.StatusBadRequest, "Invalid form data")
		return
	}

	req := services.AvatarRequest{
		CharacterClass: c.PostForm("character_class"),
		Profession:     c.PostForm("profession"),
	}

	// checked before touching the upload so a bad pairing costs nothing
	if _, err := services.ValidateAvatarChoice(req.CharacterClass, req.Profession); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	file, err := c.FormFile("user_image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// photo is optional
	case err != nil:
		utils.RespondError(c, http.StatusBadRequest, "Image must be 10MB or smaller")
		return
	default:
		if req.Image, err = readUpload(file); err != nil {
			utils.HandleServiceError(c, err)
			return
		}
	}

	key := middleware.SessionID(c)
	resp, err := a.avatarService.GenerateAvatar(c.Request.Context(), key, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if err := a.remember(c, key, resp.AvatarID); err != nil {
		zap.S().Warnw("avatar not recorded in session", "error", err, "avatar_id", resp.AvatarID)
	}
	utils.RespondSuccess(c, resp, "Avatar generated successfully")
}

// Download godoc
// @Summary Download a watermarked avatar
// @Tags Avatar
// @Produce png
// @Param id path string true "Avatar ID"
// @Success 200 {file} binary
// @Failure 404 {object} utils.APIResponse
// @Router /avatar/download/{id}/ [get]
func (a *AvatarController) Download(c *gin.Context) {
	filename, data, err := a.avatarService.RenderDownload(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func (a *AvatarController) remember(c *gin.Context, key, avatarID string) error {
	data, err := a.sessions.Load(c.Request.Context(), key)
	if err != nil {
		return err
	}
	data.AvatarIDs = append(data.AvatarIDs, avatarID)
	return a.sessions.Save(c.Request.Context(), key, data)
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	if file.Size > services.MaxAvatarUploadBytes {
		return nil, fmt.Errorf("%w: image must be 10MB or smaller", utils.ErrInvalidImage)
	}
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidImage, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, services.MaxAvatarUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidImage, err)
	}
	return data, nil
}

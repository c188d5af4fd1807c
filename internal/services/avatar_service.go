package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"holou/internal/models/db_models"
	"holou/internal/models/response_models"
	"holou/internal/repositories"
	"holou/pkg/logger"
	"holou/pkg/utils"
)

const (
	MaxAvatarUploadBytes   = 10 << 20
	maxGeneratedImageBytes = 25 << 20
	maxAvatarPromptLength  = 4000
	maxDescriptionLength   = 600
)

// CharacterClasses is the display order of the avatar classes.
var CharacterClasses = []string{"elf", "demon", "human", "dwarf", "orc", "fairy", "wizard", "warrior"}

var classProfessions = map[string][]string{
	"elf":     {"Web Development", "Frontend Development", "Mobile Development"},
	"demon":   {"Backend Development", "DevOps", "System Administration"},
	"human":   {"Full Stack Development", "Data Science", "Machine Learning"},
	"dwarf":   {"Game Development", "Embedded Systems", "Desktop Applications"},
	"orc":     {"Cybersecurity", "Network Engineering", "Cloud Architecture"},
	"fairy":   {"UI/UX Design", "Graphic Design", "Animation"},
	"wizard":  {"AI Development", "Blockchain Development", "Quantum Computing"},
	"warrior": {"Software Engineering", "Project Management", "Technical Leadership"},
}

var classFeatures = map[string]string{
	"elf":     "pointed ears",
	"demon":   "small horns, glowing eyes",
	"human":   "normal features",
	"dwarf":   "beard, sturdy",
	"orc":     "tusks, strong features",
	"fairy":   "delicate, small wings",
	"wizard":  "wise appearance",
	"warrior": "strong, determined",
}

var uploadExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

const (
	describeFeaturesPrompt = "This reference image will become a 2D game avatar. Describe what you see for a character designer: " +
		"hair colour, style and length; eye colour and shape; skin tone; face shape; glasses and their frame if present; " +
		"facial hair if present; expression; and any other notable visual details."
	describeArtisticPrompt = "Describe the visual design of this reference image for recreating it as a 2D game character: " +
		"hair, eye colour, skin tone, face shape, accessories such as glasses, facial hair and overall style. Be specific about colours and shapes."

	promptSingleCharacter = "ONE single character portrait on a white background. Not two, not several, not side by side. "
	promptForbidden       = "Do not draw a second character, variations, separate body parts, numbered elements, arrows, text, labels, UI, colour swatches or a design sheet. "
	promptStyle           = "Style: 2D game avatar, clean flat vector art, simple and stylized, flat bright colours, bold lines. Square format, head and shoulders, centered, facing forward. Plain white background. "
	promptClosing         = "Only ONE unified character on white, nothing else."
)

var refusalMarkers = []string{"can't help", "sorry", "cannot"}

// AvatarRequest is a validated-on-use avatar order. Image is optional.
type AvatarRequest struct {
	CharacterClass string
	Profession     string
	Image          []byte
}

type AvatarServiceInterface interface {
	ListClasses() []response_models.CharacterClassOption
	GenerateAvatar(ctx context.Context, sessionKey string, req AvatarRequest) (*response_models.AvatarResponse, error)
	RenderDownload(ctx context.Context, id string) (filename string, data []byte, err error)
	ListAvatars(ctx context.Context, page, pageSize int) ([]response_models.AvatarSummary, error)
}

type AvatarService struct {
	repo       repositories.AvatarRepositoryInterface
	images     utils.ImageGenerator
	describer  utils.ImageDescriber
	watermark  WatermarkServiceInterface
	httpClient *http.Client
	mediaRoot  string
	log        *logger.Logger

	generateTimeout time.Duration
	visionTimeout   time.Duration
}

// AvatarServiceConfig bounds every outbound call. A zero timeout means the
// request context alone decides.
type AvatarServiceConfig struct {
	MediaRoot       string
	GenerateTimeout time.Duration
	VisionTimeout   time.Duration
	DownloadTimeout time.Duration
}

func NewAvatarService(
	repo repositories.AvatarRepositoryInterface,
	images utils.ImageGenerator,
	describer utils.ImageDescriber,
	watermark WatermarkServiceInterface,
	cfg AvatarServiceConfig,
	log *logger.Logger,
) *AvatarService {
	return &AvatarService{
		repo:      repo,
		images:    images,
		describer: describer,
		watermark: watermark,
		httpClient: &http.Client{
			Timeout:   cfg.DownloadTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		mediaRoot:       cfg.MediaRoot,
		log:             log.With("service", "AvatarService"),
		generateTimeout: cfg.GenerateTimeout,
		visionTimeout:   cfg.VisionTimeout,
	}
}

func (s *AvatarService) ListClasses() []response_models.CharacterClassOption {
	options := make([]response_models.CharacterClassOption, 0, len(CharacterClasses))
	for _, class := range CharacterClasses {
		options = append(options, response_models.CharacterClassOption{
			Class:       class,
			Professions: append([]string(nil), classProfessions[class]...),
		})
	}
	return options
}

// ValidateAvatarChoice lower-cases the class and checks the profession
// against that class's allow-list.
func ValidateAvatarChoice(characterClass, profession string) (string, error) {
	class := strings.ToLower(strings.TrimSpace(characterClass))
	if class == "" {
		return "", fmt.Errorf("%w: character class is required", utils.ErrInvalidCharacterClass)
	}
	allowed, ok := classProfessions[class]
	if !ok {
		return "", fmt.Errorf("%w: %s", utils.ErrInvalidCharacterClass, class)
	}

	profession = strings.TrimSpace(profession)
	for _, p := range allowed {
		if p == profession {
			return class, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not available for %s", utils.ErrInvalidProfession, profession, class)
}

func (s *AvatarService) GenerateAvatar(ctx context.Context, sessionKey string, req AvatarRequest) (*response_models.AvatarResponse, error) {
	class, err := ValidateAvatarChoice(req.CharacterClass, req.Profession)
	if err != nil {
		return nil, err
	}
	profession := strings.TrimSpace(req.Profession)

	var mimeType string
	if len(req.Image) > 0 {
		if mimeType, err = detectUpload(req.Image); err != nil {
			return nil, err
		}
	}

	if s.images == nil {
		return nil, fmt.Errorf("%w: no image generation service configured", utils.ErrUnexpectedBehaviorOfAI)
	}

	description := ""
	if mimeType != "" {
		description = s.describe(ctx, req.Image, mimeType)
	}
	prompt := BuildAvatarPrompt(class, profession, description)

	imageURL, err := callWithTimeout(ctx, s.generateTimeout, func(ctx context.Context) (string, error) {
		return s.images.GenerateImage(ctx, prompt)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrUnexpectedBehaviorOfAI, err)
	}

	generated, err := s.download(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrImageDownload, err)
	}

	avatarID := uuid.New()
	avatar := &db_models.Avatar{
		BaseModel:      db_models.BaseModel{ID: avatarID},
		SessionKey:     sessionKey,
		CharacterClass: class,
		Profession:     profession,
		GeneratedImage: path.Join("avatars", "generated", avatarID.String()+".png"),
		Prompt:         prompt,
	}
	if mimeType != "" {
		avatar.OriginalImage = path.Join("avatars", "original", uuid.NewString()+"."+uploadExtensions[mimeType])
	}
	if err := s.storeAvatar(ctx, avatar, generated, req.Image); err != nil {
		return nil, err
	}

	s.log.Info("avatar generated", "avatar_id", avatar.ID, "class", class, "with_photo", avatar.OriginalImage != "")
	return &response_models.AvatarResponse{
		Status:      "success",
		AvatarID:    avatar.ID.String(),
		AvatarURL:   mediaURL(avatar.GeneratedImage),
		DownloadURL: "/avatar/download/" + avatar.ID.String() + "/",
	}, nil
}

// storeAvatar writes the media files and then the record. Files written
// before a failure are removed again.
func (s *AvatarService) storeAvatar(ctx context.Context, avatar *db_models.Avatar, generated, original []byte) error {
	files := []struct {
		rel  string
		data []byte
	}{
		{avatar.GeneratedImage, generated},
		{avatar.OriginalImage, original},
	}

	var written []string
	cleanup := func() {
		for _, rel := range written {
			if err := os.Remove(s.mediaPath(rel)); err != nil && !errors.Is(err, os.ErrNotExist) {
				s.log.Warn("failed to remove media", "path", rel, "error", err)
			}
		}
	}

	for _, f := range files {
		if f.rel == "" {
			continue
		}
		if err := s.writeMedia(f.rel, f.data); err != nil {
			cleanup()
			return err
		}
		written = append(written, f.rel)
	}

	if err := s.repo.CreateAvatar(ctx, avatar); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

// RenderDownload returns the watermarked avatar and its attachment name.
func (s *AvatarService) RenderDownload(ctx context.Context, id string) (string, []byte, error) {
	avatarID, err := uuid.Parse(id)
	if err != nil {
		return "", nil, utils.ErrRecordNotFound
	}
	avatar, err := s.repo.GetAvatarByID(ctx, avatarID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if avatar == nil {
		return "", nil, utils.ErrRecordNotFound
	}

	data, _, err := s.watermark.ApplyFile(s.mediaPath(avatar.GeneratedImage))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil, utils.ErrRecordNotFound
	}
	if err != nil {
		return "", nil, err
	}

	filename := fmt.Sprintf("avatar_%s_%s.png", avatar.CharacterClass, utils.Slugify(avatar.Profession))
	return filename, data, nil
}

func (s *AvatarService) ListAvatars(ctx context.Context, page, pageSize int) ([]response_models.AvatarSummary, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	avatars, err := s.repo.ListAvatars(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.AvatarSummary, 0, len(avatars))
	for _, a := range avatars {
		out = append(out, response_models.AvatarSummary{
			ID:             a.ID.String(),
			CharacterClass: a.CharacterClass,
			Profession:     a.Profession,
			AvatarURL:      mediaURL(a.GeneratedImage),
			HasOriginal:    a.OriginalImage != "",
			CreatedAt:      utils.FormatUnix(a.CreatedAt),
		})
	}
	return out, nil
}

// BuildAvatarPrompt assembles the image prompt. The description, when
// present, is the vision model's account of the uploaded photo.
func BuildAvatarPrompt(class, profession, description string) string {
	var b strings.Builder
	b.WriteString(promptSingleCharacter)
	b.WriteString(promptForbidden)

	if description != "" {
		if utils.RuneLen(description) > maxDescriptionLength {
			description = utils.TruncateRunes(description, maxDescriptionLength) + "..."
		}
		fmt.Fprintf(&b, "Transform this person into %s: %s. ", class, description)
		fmt.Fprintf(&b, "Preserve hair, eyes, skin, face, glasses and facial hair. Add %s features but keep the person recognizable. ", class)
	} else {
		fmt.Fprintf(&b, "%s character, %s professional. ", class, profession)
	}
	if features, ok := classFeatures[class]; ok {
		fmt.Fprintf(&b, "%s. ", features)
	}

	b.WriteString(promptStyle)
	b.WriteString(promptClosing)
	return utils.TruncateRunes(b.String(), maxAvatarPromptLength)
}

// describe asks the vision model about the photo, retrying once with a more
// artistic instruction after a refusal or an error.
func (s *AvatarService) describe(ctx context.Context, image []byte, mimeType string) string {
	if s.describer == nil {
		return ""
	}
	attempts := []struct {
		instruction string
		maxTokens   int
	}{
		{describeFeaturesPrompt, 800},
		{describeArtisticPrompt, 600},
	}
	for i, attempt := range attempts {
		text, err := callWithTimeout(ctx, s.visionTimeout, func(ctx context.Context) (string, error) {
			return s.describer.DescribeImage(ctx, image, mimeType, attempt.instruction, attempt.maxTokens)
		})
		if err != nil {
			s.log.Warn("image description failed", "attempt", i+1, "error", err)
			continue
		}
		if isRefusal(text) {
			s.log.Warn("image description refused", "attempt", i+1)
			continue
		}
		return strings.TrimSpace(text)
	}
	return ""
}

func isRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range refusalMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func (s *AvatarService) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxGeneratedImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxGeneratedImageBytes {
		return nil, fmt.Errorf("image larger than %d bytes", maxGeneratedImageBytes)
	}
	return data, nil
}

func detectUpload(data []byte) (string, error) {
	if len(data) > MaxAvatarUploadBytes {
		return "", fmt.Errorf("%w: image must be 10MB or smaller", utils.ErrInvalidImage)
	}
	mimeType := http.DetectContentType(data)
	if _, ok := uploadExtensions[mimeType]; !ok {
		return "", fmt.Errorf("%w: only JPEG, PNG, GIF and WebP images are accepted", utils.ErrInvalidImage)
	}
	return mimeType, nil
}

func (s *AvatarService) mediaPath(rel string) string {
	return filepath.Join(s.mediaRoot, filepath.FromSlash(rel))
}

func (s *AvatarService) writeMedia(rel string, data []byte) error {
	full := s.mediaPath(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write media: %w", err)
	}
	return nil
}

func mediaURL(rel string) string {
	return "/media/" + rel
}

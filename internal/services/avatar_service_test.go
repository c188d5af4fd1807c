package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holou/internal/infra"
	"holou/internal/models/db_models"
	"holou/internal/repositories"
	"holou/pkg/logger"
	"holou/pkg/utils"
)

type fakeImages struct {
	url     string
	err     error
	prompts []string
}

func (f *fakeImages) GenerateImage(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.url, f.err
}

type blockingImages struct{}

func (blockingImages) GenerateImage(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type blockingDescriber struct {
	calls atomic.Int32
}

func (b *blockingDescriber) DescribeImage(ctx context.Context, _ []byte, _, _ string, _ int) (string, error) {
	b.calls.Add(1)
	<-ctx.Done()
	return "", ctx.Err()
}

type fakeDescriber struct {
	replies []string
	calls   []int
}

func (f *fakeDescriber) DescribeImage(_ context.Context, _ []byte, _, _ string, maxTokens int) (string, error) {
	f.calls = append(f.calls, maxTokens)
	if len(f.replies) == 0 {
		return "", errors.New("no reply")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func rgb(c color.Color) [3]uint32 {
	r, g, b, _ := c.RGBA()
	return [3]uint32{r, g, b}
}

type avatarFixture struct {
	svc       *AvatarService
	images    *fakeImages
	describer *fakeDescriber
	root      string
	hits      atomic.Int32
}

func newAvatarFixture(t *testing.T, status int) *avatarFixture {
	t.Helper()
	f := &avatarFixture{describer: &fakeDescriber{}, root: t.TempDir()}

	body := testPNG(t, 64, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	db, err := infra.OpenMemoryDatabase()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f.images = &fakeImages{url: srv.URL + "/img.png"}
	log := logger.NewNop()
	f.svc = NewAvatarService(
		repositories.NewAvatarRepository(db),
		f.images,
		f.describer,
		NewWatermarkService("Holou", "", "", log),
		AvatarServiceConfig{MediaRoot: f.root},
		log,
	)
	f.svc.httpClient = srv.Client()
	return f
}

func TestValidateAvatarChoice(t *testing.T) {
	class, err := ValidateAvatarChoice(" Elf ", "Web Development")
	require.NoError(t, err)
	assert.Equal(t, "elf", class)

	_, err = ValidateAvatarChoice("goblin", "Web Development")
	assert.ErrorIs(t, err, utils.ErrInvalidCharacterClass)

	_, err = ValidateAvatarChoice("elf", "DevOps")
	assert.ErrorIs(t, err, utils.ErrInvalidProfession)

	_, err = ValidateAvatarChoice("elf", "web development")
	assert.ErrorIs(t, err, utils.ErrInvalidProfession)
}

func TestListClassesCoversEveryClass(t *testing.T) {
	f := newAvatarFixture(t, http.StatusOK)
	options := f.svc.ListClasses()
	require.Len(t, options, len(CharacterClasses))
	for _, o := range options {
		assert.Len(t, o.Professions, 3, o.Class)
	}

	options[0].Professions[0] = "changed"
	assert.Equal(t, "Web Development", classProfessions["elf"][0])
}

func TestGenerateAvatarWithoutPhoto(t *testing.T) {
	f := newAvatarFixture(t, http.StatusOK)
	ctx := context.Background()

	resp, err := f.svc.GenerateAvatar(ctx, "sess", AvatarRequest{CharacterClass: "Wizard", Profession: "AI Development"})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "/media/avatars/generated/"+resp.AvatarID+".png", resp.AvatarURL)
	assert.Equal(t, "/avatar/download/"+resp.AvatarID+"/", resp.DownloadURL)
	assert.Empty(t, f.describer.calls)

	require.Len(t, f.images.prompts, 1)
	assert.Contains(t, f.images.prompts[0], "wizard character, AI Development professional. ")
	assert.Contains(t, f.images.prompts[0], "wise appearance")

	_, err = os.Stat(filepath.Join(f.root, "avatars", "generated", resp.AvatarID+".png"))
	require.NoError(t, err)

	name, data, err := f.svc.RenderDownload(ctx, resp.AvatarID)
	require.NoError(t, err)
	assert.Equal(t, "avatar_wizard_ai-development.png", name)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	list, err := f.svc.ListAvatars(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].HasOriginal)
}

func TestGenerateAvatarRetriesDescriptionAfterRefusal(t *testing.T) {
	f := newAvatarFixture(t, http.StatusOK)
	f.describer.replies = []string{"I'm sorry, I can't help with that.", "short brown hair, green eyes, round glasses"}

	resp, err := f.svc.GenerateAvatar(context.Background(), "sess", AvatarRequest{
		CharacterClass: "elf",
		Profession:     "Mobile Development",
		Image:          testPNG(t, 8, 8),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{800, 600}, f.describer.calls)
	assert.Contains(t, f.images.prompts[0], "Transform this person into elf: short brown hair, green eyes, round glasses. ")

	list, err := f.svc.ListAvatars(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, resp.AvatarID, list[0].ID)
	assert.True(t, list[0].HasOriginal)
}

func TestGenerateAvatarContinuesAfterTwoRefusals(t *testing.T) {
	f := newAvatarFixture(t, http.StatusOK)
	f.describer.replies = []string{"Sorry.", "I cannot do that."}

	_, err := f.svc.GenerateAvatar(context.Background(), "sess", AvatarRequest{
		CharacterClass: "orc",
		Profession:     "Cybersecurity",
		Image:          testPNG(t, 8, 8),
	})
	require.NoError(t, err)
	assert.Len(t, f.describer.calls, 2)
	assert.Contains(t, f.images.prompts[0], "orc character, Cybersecurity professional. ")
}

func TestGenerateAvatarRejectsBeforeExternalCalls(t *testing.T) {
	f := newAvatarFixture(t, http.StatusOK)
	ctx := context.Background()

	_, err := f.svc.GenerateAvatar(ctx, "sess", AvatarRequest{CharacterClass: "elf", Profession: "DevOps"})
	assert.ErrorIs(t, err, utils.ErrInvalidProfession)

	_, err = f.svc.GenerateAvatar(ctx, "sess", AvatarRequest{CharacterClass: "elf", Profession: "Web Development", Image: []byte("plain text, not an image")})
	assert.ErrorIs(t, err, utils.ErrInvalidImage)

	assert.Empty(t, f.images.prompts)
	assert.Zero(t, f.hits.Load())
}

func TestGenerateAvatarDownloadFailure(t *testing.T) {
	f := newAvatarFixture(t, http.StatusForbidden)
	_, err := f.svc.GenerateAvatar(context.Background(), "sess", AvatarRequest{CharacterClass: "human", Profession: "Data Science"})
	assert.ErrorIs(t, err, utils.ErrImageDownload)
}

func TestGenerateAvatarImageServiceFailure(t *testing.T) {
	f := newAvatarFixture(t, http.StatusOK)
	f.images.err = errors.New("content policy")
	_, err := f.svc.GenerateAvatar(context.Background(), "sess", AvatarRequest{CharacterClass: "human", Profession: "Data Science"})
	assert.ErrorIs(t, err, utils.ErrUnexpectedBehaviorOfAI)
	assert.Zero(t, f.hits.Load())
}

func TestGenerateAvatarImageServiceDeadline(t *testing.T) {
	f := newAvatarFixture(t, http.StatusOK)
	f.svc.images = blockingImages{}
	f.svc.generateTimeout = 50 * time.Millisecond

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.GenerateAvatar(context.Background(), "sess", AvatarRequest{CharacterClass: "elf", Profession: "Web Development"})
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, utils.ErrUnexpectedBehaviorOfAI)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(3 * time.Second):
		t.Fatal("image generation was not bounded by its timeout")
	}
	assert.Zero(t, f.hits.Load())
}

func TestGenerateAvatarVisionDeadline(t *testing.T) {
	f := newAvatarFixture(t, http.StatusOK)
	describer := &blockingDescriber{}
	f.svc.describer = describer
	f.svc.visionTimeout = 20 * time.Millisecond

	resp, err := f.svc.GenerateAvatar(context.Background(), "sess", AvatarRequest{
		CharacterClass: "fairy",
		Profession:     "Animation",
		Image:          testPNG(t, 8, 8),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AvatarID)
	assert.EqualValues(t, 2, describer.calls.Load())
	assert.Contains(t, f.images.prompts[0], "fairy character, Animation professional. ")
}

func TestGenerateAvatarFailureLeavesNoMedia(t *testing.T) {
	upload := AvatarRequest{CharacterClass: "human", Profession: "Data Science", Image: testPNG(t, 8, 8)}

	f := newAvatarFixture(t, http.StatusOK)
	f.images.err = errors.New("content policy")
	_, err := f.svc.GenerateAvatar(context.Background(), "sess", upload)
	require.Error(t, err)
	assertNoMedia(t, f.root)

	f = newAvatarFixture(t, http.StatusBadGateway)
	_, err = f.svc.GenerateAvatar(context.Background(), "sess", upload)
	assert.ErrorIs(t, err, utils.ErrImageDownload)
	assertNoMedia(t, f.root)

	f = newAvatarFixture(t, http.StatusOK)
	f.svc.repo = failingAvatarRepo{f.svc.repo}
	_, err = f.svc.GenerateAvatar(context.Background(), "sess", upload)
	assert.ErrorIs(t, err, utils.ErrDatabaseError)
	assertNoMedia(t, f.root)
}

type failingAvatarRepo struct {
	repositories.AvatarRepositoryInterface
}

func (failingAvatarRepo) CreateAvatar(context.Context, *db_models.Avatar) error {
	return errors.New("disk full")
}

func assertNoMedia(t *testing.T, root string) {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRenderDownloadUnknownAvatar(t *testing.T) {
	f := newAvatarFixture(t, http.StatusOK)
	_, _, err := f.svc.RenderDownload(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, utils.ErrRecordNotFound)
	_, _, err = f.svc.RenderDownload(context.Background(), "6f1c2f4e-8d6a-4c1f-9a55-0d9f3a8b7e21")
	assert.ErrorIs(t, err, utils.ErrRecordNotFound)
}

func TestBuildAvatarPromptLimits(t *testing.T) {
	long := strings.Repeat("a", 900)
	prompt := BuildAvatarPrompt("fairy", "Animation", long)
	assert.Contains(t, prompt, strings.Repeat("a", 600)+"...")
	assert.NotContains(t, prompt, strings.Repeat("a", 601))
	assert.True(t, strings.HasPrefix(prompt, promptSingleCharacter))
	assert.LessOrEqual(t, utils.RuneLen(prompt), maxAvatarPromptLength)
	assert.Contains(t, prompt, "delicate, small wings")
}

func TestWatermarkApply(t *testing.T) {
	svc := NewWatermarkService("Holou", "", "", logger.NewNop())
	src, err := png.Decode(bytes.NewReader(testPNG(t, 200, 100)))
	require.NoError(t, err)

	out, err := svc.Apply(src)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())

	// the corner carries the panel, the far corner is untouched
	assert.NotEqual(t, rgb(src.At(5, 5)), rgb(img.At(5, 5)))
	assert.Equal(t, rgb(src.At(199, 99)), rgb(img.At(199, 99)))
}

func TestWatermarkApplyFileFallsBackToOriginal(t *testing.T) {
	svc := NewWatermarkService("Holou", "", "", logger.NewNop())
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))

	data, ok, err := svc.ApplyFile(path)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []byte("not a png"), data)
}

package services

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	_ "golang.org/x/image/webp"

	"holou/pkg/logger"
)

const (
	watermarkLogoRatio    = 0.065
	watermarkTextRatio    = 0.038
	watermarkPaddingRatio = 0.02
	watermarkGapRatio     = 0.012
)

type WatermarkServiceInterface interface {
	Apply(src image.Image) ([]byte, error)
	// ApplyFile watermarks the image at path. When watermarking fails the
	// file's own bytes are returned and ok is false.
	ApplyFile(path string) (data []byte, ok bool, err error)
}

type WatermarkService struct {
	text string
	ttf  *truetype.Font
	logo image.Image
	log  *logger.Logger
}

// NewWatermarkService loads the optional font and logo once. A missing or
// broken font falls back to basicfont; a missing logo leaves it out.
func NewWatermarkService(text, fontPath, logoPath string, log *logger.Logger) *WatermarkService {
	s := &WatermarkService{text: text, log: log}

	if fontPath != "" {
		ttf, err := loadTrueType(fontPath)
		if err != nil {
			log.Warn("watermark font unavailable, using basic font", "path", fontPath, "error", err)
		} else {
			s.ttf = ttf
		}
	}

	if logoPath != "" {
		logo, err := decodeImageFile(logoPath)
		if err != nil {
			log.Warn("watermark logo unavailable", "path", logoPath, "error", err)
		} else {
			s.logo = logo
		}
	}
	return s
}

func (s *WatermarkService) ApplyFile(path string) ([]byte, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		s.log.Warn("watermark skipped, image not decodable", "path", path, "error", err)
		return raw, false, nil
	}
	out, err := s.Apply(src)
	if err != nil {
		s.log.Warn("watermark failed, serving original", "path", path, "error", err)
		return raw, false, nil
	}
	return out, true, nil
}

// Apply draws the logo and text over a subtle rounded panel in the
// top-left corner and flattens the result onto white.
func (s *WatermarkService) Apply(src image.Image) ([]byte, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("empty image")
	}
	base := float64(min(width, height))
	padding := math.Floor(base * watermarkPaddingRatio)
	gap := math.Floor(base * watermarkGapRatio)

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(src, -bounds.Min.X, -bounds.Min.Y)

	dc.SetFontFace(s.face(base * watermarkTextRatio))
	textW, textH := 0.0, 0.0
	if s.text != "" {
		textW, textH = dc.MeasureString(s.text)
	}

	var logo image.Image
	logoW, logoH := 0.0, 0.0
	if s.logo != nil {
		logo = scaleToFit(s.logo, int(base*watermarkLogoRatio))
		if logo != nil {
			logoW, logoH = float64(logo.Bounds().Dx()), float64(logo.Bounds().Dy())
		}
	}

	contentW, contentH := textW, textH
	textX := padding
	if logo != nil {
		contentW = logoW + gap + textW
		contentH = math.Max(logoH, textH*1.1)
		textX = padding + logoW + gap
	}
	if contentW == 0 {
		return encodePNG(dc)
	}

	bgPad := math.Floor(padding * 0.5)
	dc.SetRGBA255(25, 25, 25, 85)
	dc.DrawRoundedRectangle(
		math.Max(0, padding-bgPad),
		math.Max(0, padding-bgPad),
		contentW+2*bgPad,
		contentH+2*bgPad,
		base*watermarkGapRatio,
	)
	dc.Fill()

	if logo != nil {
		dc.DrawImage(logo, int(padding), int(padding+(contentH-logoH)/2))
	}

	if s.text != "" {
		centerY := padding + contentH/2
		dc.SetRGBA255(200, 200, 200, 50)
		dc.DrawStringAnchored(s.text, textX+1, centerY+1, 0, 0.5)
		dc.SetRGBA255(255, 255, 255, 255)
		dc.DrawStringAnchored(s.text, textX, centerY, 0, 0.5)
	}

	return encodePNG(dc)
}

func (s *WatermarkService) face(size float64) font.Face {
	if s.ttf == nil || size < 1 {
		return basicfont.Face7x13
	}
	return truetype.NewFace(s.ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// scaleToFit shrinks img so that its longer side is at most box pixels,
// keeping the aspect ratio.
func scaleToFit(img image.Image, box int) image.Image {
	b := img.Bounds()
	if box <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	w, h := b.Dx(), b.Dy()
	if w > box || h > box {
		if w >= h {
			h = max(1, h*box/w)
			w = box
		} else {
			w = max(1, w*box/h)
			h = box
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func loadTrueType(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return parsed, nil
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

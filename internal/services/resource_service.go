package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"holou/internal/models/response_models"
	"holou/pkg/utils"
)

const (
	resourceFetchTimeout = 20 * time.Second
	maxResourceBytes     = 2 << 20
)

type ResourceServiceInterface interface {
	Preview(ctx context.Context, rawURL string) (*response_models.ResourcePreview, error)
}

type ResourceService struct {
	client *http.Client
}

func NewResourceService() *ResourceService {
	return &ResourceService{client: &http.Client{
		Timeout:   resourceFetchTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}}
}

// ResolveResourceURL unescapes a ?url= value and accepts only absolute
// http(s) links.
func ResolveResourceURL(raw string) (string, bool) {
	decoded, err := url.QueryUnescape(strings.TrimSpace(raw))
	if err != nil {
		decoded = strings.TrimSpace(raw)
	}
	if !strings.HasPrefix(decoded, "http://") && !strings.HasPrefix(decoded, "https://") {
		return "", false
	}
	if u, err := url.Parse(decoded); err != nil || u.Host == "" {
		return "", false
	}
	return decoded, true
}

// Preview fetches a page and reports its title, falling back to og:title
// and then to the host name.
func (s *ResourceService) Preview(ctx context.Context, rawURL string) (*response_models.ResourcePreview, error) {
	target, ok := ResolveResourceURL(rawURL)
	if !ok {
		return nil, fmt.Errorf("%w: url must start with http:// or https://", utils.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}
	req.Header.Set("User-Agent", "holou-resource-preview/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrResourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", utils.ErrResourceUnavailable, resp.StatusCode)
	}

	limited := io.LimitedReader{R: resp.Body, N: maxResourceBytes}
	body, err := io.ReadAll(&limited)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrResourceUnavailable, err)
	}

	return &response_models.ResourcePreview{Title: pageTitle(body, target), URL: target}, nil
}

func pageTitle(body []byte, target string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err == nil {
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			return title
		}
		if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && strings.TrimSpace(og) != "" {
			return strings.TrimSpace(og)
		}
	}
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		return u.Host
	}
	return target
}

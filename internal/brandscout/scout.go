package brandscout

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// BrandProfile is what the intake step can prefill from a brand website.
type BrandProfile struct {
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Scout fetches a campaign website and extracts the metadata worth
// prefilling: page title, description, and a representative image.
type Scout struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewScout(timeoutMS, maxRetries int, log *zap.Logger) *Scout {
	return &Scout{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

func (s *Scout) Fetch(ctx context.Context, rawURL string) (*BrandProfile, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid website url")
	}

	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, u.String())
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, lastErr
	}

	profile := &BrandProfile{
		URL:       u.String(),
		FetchedAt: time.Now(),
	}

	profile.Title = metaContent(doc, `meta[property="og:title"]`)
	if profile.Title == "" {
		profile.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	profile.Description = metaContent(doc, `meta[property="og:description"]`)
	if profile.Description == "" {
		profile.Description = metaContent(doc, `meta[name="description"]`)
	}

	profile.ImageURL = metaContent(doc, `meta[property="og:image"]`)
	if profile.ImageURL != "" {
		// Resolve protocol-relative and path-relative references.
		if img, err := u.Parse(profile.ImageURL); err == nil {
			profile.ImageURL = img.String()
		}
	}

	return profile, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

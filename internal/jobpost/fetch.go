// Package jobpost fetches job descriptions published as web pages.
package jobpost

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; resume-analyzer/1.0)"

	maxPageSize = 5 << 20
)

// Selectors tried in order to find the posting body before falling back to <body>.
var contentSelectors = []string{
	".job-description",
	"#job-description",
	".job-details",
	".posting-content",
	"[data-testid='job-description']",
	"main",
	"article",
	"#content",
}

const noiseSelectors = "nav, footer, header, script, style, noscript, iframe, svg, form, .cookie-banner, .sidebar"

// Fetcher downloads job pages and reduces them to visible text.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}, userAgent: DefaultUserAgent}
}

// IsURL reports whether s is an absolute http(s) URL.
func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch returns the visible text of the job posting at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if !IsURL(rawURL) {
		return "", fmt.Errorf("invalid job posting url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSpace(rawURL), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: HTTP status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rawURL, err)
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		return cleanWhitespace(string(body)), nil
	}

	return ExtractText(string(body))
}

// ExtractText strips markup and boilerplate from an HTML page.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(noiseSelectors).Remove()
	// block elements would otherwise glue neighbouring words together
	doc.Find("p, li, br, div, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}

	return cleanWhitespace(content.Text()), nil
}

func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// Package scraper implements the blog source adapters.
package scraper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
	"mvdan.cc/xurls/v2"
)

const defaultUserAgent = "skim/1.0 (+https://github.com/xhad/skim)"

var strictURL = xurls.Strict()

type FetcherConfig struct {
	RateLimit float64 // requests per second
	Timeout   time.Duration
	UserAgent string
}

// Fetcher is the HTTP plumbing shared by the adapters of one acquisition.
type Fetcher struct {
	config  FetcherConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewFetcher(config FetcherConfig) *Fetcher {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2 // 2 requests per second by default
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}

	return &Fetcher{
		config: config,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

// Get waits for the limiter and fetches rawURL. The caller closes the body.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "scraper: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "scraper: build request %s", rawURL)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "scraper: get %s", rawURL)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, eris.Errorf("scraper: received status code %d for URL: %s", resp.StatusCode, rawURL)
	}
	return resp, nil
}

func (f *Fetcher) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	resp, err := f.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "scraper: parse %s", rawURL)
	}
	return doc, nil
}

// Close releases idle connections held by the fetcher.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

var noisePatterns = []string{
	"Cookie Policy",
	"Accept Cookies",
	"Privacy Policy",
	"Terms of Service",
}

// cleanContent strips raw URLs and common noise, and collapses whitespace.
func cleanContent(content string) string {
	content = strictURL.ReplaceAllString(content, "")

	for _, pattern := range noisePatterns {
		content = strings.ReplaceAll(content, pattern, "")
	}

	return strings.Join(strings.Fields(content), " ")
}

// htmlText renders an HTML fragment as plain text, one block per line.
func htmlText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return cleanContent(fragment)
	}

	doc.Find("script, style, figure, img").Remove()

	var lines []string
	doc.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote, pre").Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are rendered by their outermost ancestor.
		if s.ParentsFiltered("p, li, blockquote, pre").Length() > 0 {
			return
		}
		if line := cleanContent(s.Text()); line != "" {
			lines = append(lines, line)
		}
	})

	if len(lines) == 0 {
		return cleanContent(doc.Text())
	}
	return strings.Join(lines, "\n")
}

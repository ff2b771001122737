package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xhad/skim/internal/models"
)

const headingNotFound = "Heading not found"

var (
	wixHeaderMarkers = []string{"Categories ▼", "Resources ▼", "Wix.com"}
	wixFooterMarkers = []string{"Related Posts", "Was this article helpful?"}
)

// WixAdapter searches the Wix blog and extracts the top articles.
type WixAdapter struct {
	baseURL     string
	maxArticles int
	fetcher     *Fetcher
}

func newWixAdapter(baseURL string, maxArticles int, fetcher *Fetcher) *WixAdapter {
	if maxArticles <= 0 {
		maxArticles = DefaultMaxArticles
	}
	return &WixAdapter{
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxArticles: maxArticles,
		fetcher:     fetcher,
	}
}

func (a *WixAdapter) SearchURL(keyword string) string {
	return a.baseURL + "/blog/search-results?q=" + url.QueryEscape(strings.TrimSpace(keyword))
}

func (a *WixAdapter) Fetch(ctx context.Context, keyword string) ([]models.Document, error) {
	links, err := a.links(ctx, keyword)
	if err != nil {
		return nil, eris.Wrap(err, "scraper: failed to get wix links")
	}

	docs := make([]models.Document, 0, len(links))
	for _, link := range links {
		doc, err := a.article(ctx, link)
		if err != nil {
			if ctx.Err() != nil {
				return docs, ctx.Err()
			}
			zap.L().Debug("wix article failed", zap.String("url", link), zap.Error(err))
			docs = append(docs, models.Document{
				URL:     link,
				Content: "Error: " + err.Error(),
			})
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (a *WixAdapter) Close() error {
	return a.fetcher.Close()
}

func (a *WixAdapter) links(ctx context.Context, keyword string) ([]string, error) {
	searchURL := a.SearchURL(keyword)
	page, err := a.fetcher.Document(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(searchURL)
	if err != nil {
		return nil, eris.Wrapf(err, "scraper: parse %s", searchURL)
	}

	var links []string
	page.Find("a[data-hook='item-title']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		links = append(links, base.ResolveReference(ref).String())
		return len(links) < a.maxArticles
	})

	return links, nil
}

func (a *WixAdapter) article(ctx context.Context, link string) (models.Document, error) {
	page, err := a.fetcher.Document(ctx, link)
	if err != nil {
		return models.Document{}, err
	}

	heading := strings.TrimSpace(page.Find("h1.font_7").First().Text())
	if heading == "" {
		heading = strings.TrimSpace(page.Find("h1").First().Text())
	}
	if heading == "" {
		heading = headingNotFound
	}

	var lines []string
	page.Find("p, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		if line := strings.TrimSpace(s.Text()); line != "" {
			lines = append(lines, line)
		}
	})

	body := make([]string, 0, len(lines))
	for _, line := range articleBody(lines) {
		if cleaned := cleanContent(line); cleaned != "" {
			body = append(body, cleaned)
		}
	}

	return models.Document{
		URL:     link,
		Title:   heading,
		Content: heading + "\n" + strings.Join(body, "\n"),
		Metadata: map[string]interface{}{
			"source": "wix",
		},
	}, nil
}

// articleBody drops the site chrome around an article: everything up to the
// last header marker before the footer, and everything from the first footer
// marker on.
func articleBody(lines []string) []string {
	start, end := 0, len(lines)
	for i, line := range lines {
		if containsAny(line, wixHeaderMarkers) {
			start = i + 1
		}
		if containsAny(line, wixFooterMarkers) {
			end = i
			break
		}
	}
	if start > end {
		return nil
	}
	return lines[start:end]
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/rotisserie/eris"

	"github.com/xhad/skim/internal/models"
)

// FeedAdapter reads a tag feed (RSS or Atom) and turns its items into
// documents.
type FeedAdapter struct {
	name        string
	baseURL     string
	maxArticles int
	fetcher     *Fetcher
	parser      *gofeed.Parser
}

func newFeedAdapter(name, baseURL string, maxArticles int, fetcher *Fetcher) *FeedAdapter {
	if maxArticles <= 0 {
		maxArticles = DefaultMaxArticles
	}
	return &FeedAdapter{
		name:        name,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxArticles: maxArticles,
		fetcher:     fetcher,
		parser:      gofeed.NewParser(),
	}
}

// FeedURL returns the tag feed address for keyword.
func (a *FeedAdapter) FeedURL(keyword string) string {
	return a.baseURL + "/feed/tag/" + url.PathEscape(tagSlug(keyword))
}

func (a *FeedAdapter) Fetch(ctx context.Context, keyword string) ([]models.Document, error) {
	feedURL := a.FeedURL(keyword)

	resp, err := a.fetcher.Get(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := a.parser.Parse(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "scraper: parse %s feed", a.name)
	}

	docs := make([]models.Document, 0, min(len(feed.Items), a.maxArticles))
	for _, item := range feed.Items {
		if len(docs) == a.maxArticles {
			break
		}

		body := item.Content
		if strings.TrimSpace(body) == "" {
			body = item.Description
		}
		content := htmlText(body)
		if content == "" {
			continue
		}

		meta := map[string]interface{}{
			"source": a.name,
			"feed":   feed.Title,
		}
		if item.PublishedParsed != nil {
			meta["published"] = *item.PublishedParsed
		}
		if len(item.Categories) > 0 {
			meta["categories"] = item.Categories
		}

		docs = append(docs, models.Document{
			URL:      item.Link,
			Title:    strings.TrimSpace(item.Title),
			Content:  content,
			Metadata: meta,
		})
	}

	return docs, nil
}

func (a *FeedAdapter) Close() error {
	return a.fetcher.Close()
}

// tagSlug turns a keyword into the hyphenated tag form used by blog feeds.
func tagSlug(keyword string) string {
	return strings.Join(strings.Fields(strings.ToLower(keyword)), "-")
}

package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSFetcher 抓取任意 RSS/Atom 源，source id 形如 "rss:<url>"
type RSSFetcher struct {
	feedURL string
}

func NewRSSFetcher(feedURL string) *RSSFetcher {
	return &RSSFetcher{feedURL: feedURL}
}

func (r *RSSFetcher) Name() string {
	return "rss:" + r.feedURL
}

func (r *RSSFetcher) Fetch(ctx context.Context, limit int) ([]NewsItem, error) {
	log.Printf("fetch RSS %s...", r.feedURL)

	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(r.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("rss: parse %s: %w", r.feedURL, err)
	}

	source := feed.Title
	if source == "" {
		source = r.feedURL
	}

	results := make([]NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil || it.Title == "" || it.Link == "" {
			continue
		}
		published := time.Now()
		if it.PublishedParsed != nil {
			published = *it.PublishedParsed
		}
		results = append(results, NewsItem{
			Title:       it.Title,
			URL:         it.Link,
			Source:      source,
			Description: it.Description,
			PublishedAt: published,
		})
		if limit > 0 && len(results) >= limit {
			break
		}
	}

	if len(results) == 0 {
		log.Printf("rss %s got 0 items", r.feedURL)
	}
	return results, nil
}

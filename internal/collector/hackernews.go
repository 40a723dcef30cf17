package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"
)

const (
	hnBaseURL           = "https://hacker-news.firebaseio.com/v0"
	hnMaxResponseBytes  = 1 << 20 // 1MB
	hnConcurrency       = 10
	hnClientTimeout     = 10 * time.Second
	hnItemClientTimeout = 5 * time.Second
)

// HackerNewsFetcher 通过官方 Firebase API 抓取 Hacker News 热门故事
type HackerNewsFetcher struct{}

func (h *HackerNewsFetcher) Name() string {
	return "hackernews"
}

type hnItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Type        string `json:"type"`
}

func (h *HackerNewsFetcher) Fetch(ctx context.Context, limit int) ([]NewsItem, error) {
	log.Println("fetch Hacker News Top Stories...")

	client := &http.Client{Timeout: hnClientTimeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hnBaseURL+"/topstories.json", nil)
	if err != nil {
		return nil, fmt.Errorf("hackernews: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hackernews: fetch top stories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hackernews: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, hnMaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("hackernews: read top stories: %w", err)
	}

	var ids []int
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("hackernews: unmarshal top stories: %w", err)
	}

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	type indexedItem struct {
		idx  int
		item hnItem
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		sem   = make(chan struct{}, hnConcurrency)
		items = make([]indexedItem, 0, len(ids))
	)

	itemClient := &http.Client{Timeout: hnItemClientTimeout}

	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx, id int) {
			defer wg.Done()
			defer func() { <-sem }()

			it, err := fetchHNItem(ctx, itemClient, id)
			if err != nil {
				log.Printf("hackernews: fetch item %d: %v", id, err)
				return
			}
			if it.Title == "" || it.Type != "story" {
				return
			}

			mu.Lock()
			items = append(items, indexedItem{idx: idx, item: it})
			mu.Unlock()
		}(i, id)
	}
	wg.Wait()

	// 并发拉取会打乱顺序，恢复榜单原始排名
	sort.Slice(items, func(a, b int) bool { return items[a].idx < items[b].idx })

	results := make([]NewsItem, 0, len(items))
	for _, ii := range items {
		it := ii.item

		itemURL := it.URL
		if itemURL == "" {
			itemURL = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", it.ID)
		}

		results = append(results, NewsItem{
			Title:       it.Title,
			URL:         itemURL,
			Source:      "hackernews",
			PublishedAt: time.Unix(it.Time, 0),
		})
	}

	if len(results) == 0 {
		log.Println("hackernews: no items fetched")
	}
	return results, nil
}

func fetchHNItem(ctx context.Context, client *http.Client, id int) (hnItem, error) {
	url := fmt.Sprintf("%s/item/%d.json", hnBaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return hnItem{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return hnItem{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return hnItem{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var it hnItem
	if err := json.NewDecoder(io.LimitReader(resp.Body, hnMaxResponseBytes)).Decode(&it); err != nil {
		return hnItem{}, err
	}
	return it, nil
}

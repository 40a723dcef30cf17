package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	weiboHotURL           = "https://weibo.com/ajax/side/hotSearch"
	weiboMaxResponseBytes = 512 * 1024
	weiboClientTimeout    = 10 * time.Second
)

// WeiboHotFetcher 解析微博热搜接口的 JSON 响应
type WeiboHotFetcher struct{}

func (w *WeiboHotFetcher) Name() string {
	return "weibo"
}

// 对应 /ajax/side/hotSearch 的响应结构，只取需要的字段
type weiboHotResp struct {
	Data struct {
		Realtime []struct {
			Word    string `json:"word"`
			Note    string `json:"note"`
			Num     int64  `json:"num"`
			WordURL string `json:"word_scheme"`
		} `json:"realtime"`
	} `json:"data"`
}

func (w *WeiboHotFetcher) Fetch(ctx context.Context, limit int) ([]NewsItem, error) {
	log.Println("fetch Weibo Hot Search...")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, weiboHotURL, nil)
	if err != nil {
		return nil, fmt.Errorf("weibo: build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "https://weibo.com/")

	client := &http.Client{Timeout: weiboClientTimeout}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("fetch Weibo Hot Search failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weibo: unexpected status %d", resp.StatusCode)
	}

	var data weiboHotResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, weiboMaxResponseBytes)).Decode(&data); err != nil {
		return nil, fmt.Errorf("weibo: decode response: %w", err)
	}

	now := time.Now()
	results := make([]NewsItem, 0, len(data.Data.Realtime))
	for _, entry := range data.Data.Realtime {
		if entry.Word == "" {
			continue
		}
		link := "https://s.weibo.com/weibo?q=" + url.QueryEscape(entry.Word)
		results = append(results, NewsItem{
			Title:       entry.Word,
			URL:         link,
			Source:      "weibo",
			Description: entry.Note,
			PublishedAt: now,
		})
		if limit > 0 && len(results) >= limit {
			break
		}
	}

	if len(results) == 0 {
		log.Printf("fetch Weibo Hot Search got 0 items")
	}
	return results, nil
}

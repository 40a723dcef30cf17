package collector

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// BaiduHotFetcher 抓取百度实时热搜榜
type BaiduHotFetcher struct{}

func (b *BaiduHotFetcher) Name() string {
	return "baidu"
}

func (b *BaiduHotFetcher) Fetch(ctx context.Context, limit int) ([]NewsItem, error) {
	log.Println("fetch Baidu Hot Search...")

	c := colly.NewCollector(
		colly.AllowedDomains("top.baidu.com"),
		colly.UserAgent("TrendPushBot/1.0"),
	)
	c.SetRequestTimeout(10 * time.Second)
	_ = ctx

	results := make([]NewsItem, 0, 50)
	now := time.Now()

	// 页面结构可能调整，此处基于当前的 DOM 结构做“尽力而为”的解析
	c.OnHTML("div.category-wrap_iQLoo", func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.ChildText("div.c-single-text-ellipsis"))
		if title == "" {
			return
		}

		link := "https://top.baidu.com/board?tab=realtime"
		if href := e.ChildAttr("a", "href"); href != "" {
			if strings.HasPrefix(href, "http") {
				link = href
			} else {
				link = "https://top.baidu.com" + href
			}
		}

		heatText := strings.TrimSpace(e.ChildText("div.hot-index_1Bl1a"))

		desc := strings.TrimSpace(e.ChildText("div[class*='content']"))
		if desc == "" {
			desc = strings.TrimSpace(e.ChildText("div[class*='desc']"))
		}
		// 兜底：取条目内非标题、非热度的最长段落
		if desc == "" {
			desc = fallbackBaiduDesc(e, title, heatText)
		}
		desc = cleanBaiduDesc(desc)

		results = append(results, NewsItem{
			Title:       title,
			URL:         link,
			Source:      "baidu",
			Description: desc,
			PublishedAt: now,
		})
	})

	if err := c.Visit("https://top.baidu.com/board?tab=realtime"); err != nil {
		log.Printf("fetch Baidu Hot Search failed: %v", err)
		return nil, err
	}

	if len(results) == 0 {
		log.Printf("fetch Baidu Hot Search got 0 items")
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// cleanBaiduDesc 去掉简介中的“查看更多”等链接文案，只保留正文
func cleanBaiduDesc(s string) string {
	s = strings.TrimSpace(s)
	for _, cut := range []string{"[查看更多>]", "[查看更多&gt;]", "查看更多"} {
		if idx := strings.Index(s, cut); idx != -1 {
			s = strings.TrimSpace(s[:idx])
		}
	}
	return s
}

// fallbackBaiduDesc 从当前条目内找介绍文案：非标题、非热度的最长段落
func fallbackBaiduDesc(e *colly.HTMLElement, title, heatText string) string {
	var best string
	const minLen = 20 // 介绍至少有一定长度

	e.DOM.Find("div, p, span").Each(func(i int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if t == "" || t == title || t == heatText || len(t) < minLen {
			return
		}
		if len(t) > len(best) {
			best = t
		}
	})
	return best
}

package collector

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// GitHubTrendingFetcher 抓取 GitHub Trending 页，保留 star 数、今日新增与语言，
// 仓库介绍（p 标签）原样带回，翻译由流水线统一处理
type GitHubTrendingFetcher struct{}

func (g *GitHubTrendingFetcher) Name() string {
	return "github"
}

func (g *GitHubTrendingFetcher) Fetch(ctx context.Context, limit int) ([]NewsItem, error) {
	log.Println("fetch GitHub Trending...")

	c := colly.NewCollector(
		colly.AllowedDomains("github.com"),
		colly.UserAgent("TrendPushBot/1.0"),
	)
	c.SetRequestTimeout(10 * time.Second)
	_ = ctx // colly 自带请求级超时，这里不额外接管取消

	results := make([]NewsItem, 0, 25)
	now := time.Now()

	c.OnHTML("article.Box-row", func(e *colly.HTMLElement) {
		titleSel := e.DOM.Find("h2 a")
		if titleSel.Length() == 0 {
			return
		}

		repoName := strings.Join(strings.Fields(titleSel.Text()), "")
		href, exists := titleSel.Attr("href")
		if !exists || repoName == "" {
			return
		}
		fullURL := "https://github.com" + strings.TrimSpace(href)

		stars := parseStars(e.ChildText(`a[href$="/stargazers"]`))
		todayStars := parseTodayStars(e.ChildText("span.d-inline-block.float-sm-right"))
		language := strings.TrimSpace(e.ChildText(`span[itemprop="programmingLanguage"]`))
		desc := strings.TrimSpace(e.ChildText("p"))

		results = append(results, NewsItem{
			Title:       repoName,
			URL:         fullURL,
			Source:      "github",
			Description: desc,
			PublishedAt: now,
			Stars:       stars,
			TodayStars:  todayStars,
			Language:    language,
		})
	})

	if err := c.Visit("https://github.com/trending"); err != nil {
		log.Printf("fetch GitHub Trending failed: %v", err)
		return nil, err
	}

	if len(results) == 0 {
		log.Printf("fetch GitHub Trending got 0 items")
		return nil, nil
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// parseStars 将 GitHub Trending 中“12.3k”“1,234”之类的文本解析为整数
func parseStars(text string) int {
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	multiplier := 1.0
	if strings.HasSuffix(text, "k") || strings.HasSuffix(text, "K") {
		multiplier = 1000
		text = strings.TrimSuffix(strings.TrimSuffix(text, "k"), "K")
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return int(f * multiplier)
}

// parseTodayStars 解析“123 stars today”里的数字部分
func parseTodayStars(text string) int {
	fields := strings.Fields(strings.ReplaceAll(text, ",", ""))
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

package collector

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// NewsItem 统一采集后的基础结构，URL 作为条目的唯一标识
type NewsItem struct {
	Title       string
	URL         string
	Source      string
	Description string
	PublishedAt time.Time

	// Trending 类源（GitHub）才会填充的附加字段，普通源保持零值
	Stars      int
	TodayStars int
	Language   string
}

// SourceGroup 一个数据源在某个栏目下的产出，是消息渲染的最小单元，
// 拆分消息时不会把同一个 SourceGroup 切到两条消息里
type SourceGroup struct {
	Name  string
	Items []NewsItem
}

// Fetcher 抽象每一个数据源。实现约定：任何内部失败都只返回 error，
// 不允许 panic；调用方把失败降级为空结果继续跑
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, limit int) ([]NewsItem, error)
}

// Resolve 根据配置里的 source id 构造对应的 Fetcher。
// 支持内置源 id 以及 "rss:<url>" 形式的任意 RSS 源
func Resolve(id string) (Fetcher, error) {
	switch {
	case id == "github":
		return &GitHubTrendingFetcher{}, nil
	case id == "baidu":
		return &BaiduHotFetcher{}, nil
	case id == "weibo":
		return &WeiboHotFetcher{}, nil
	case id == "hackernews":
		return &HackerNewsFetcher{}, nil
	case strings.HasPrefix(id, "rss:"):
		feedURL := strings.TrimPrefix(id, "rss:")
		if feedURL == "" {
			return nil, fmt.Errorf("collector: empty rss url in source %q", id)
		}
		return NewRSSFetcher(feedURL), nil
	}
	return nil, fmt.Errorf("collector: unknown source %q", id)
}

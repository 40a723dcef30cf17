package dispatch

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/LJTian/TrendPush/internal/collector"
	"github.com/LJTian/TrendPush/internal/config"
	"github.com/LJTian/TrendPush/internal/formatter"
	"github.com/LJTian/TrendPush/internal/pipeline"
	"github.com/LJTian/TrendPush/internal/storage"
	"github.com/LJTian/TrendPush/internal/translate"
	"github.com/LJTian/TrendPush/internal/webhook"
)

// Deps 一次推送运行所需的全部协作方。翻译器与存储可为 nil（分别表示关闭翻译、不落库）
type Deps struct {
	Resolve    func(id string) (collector.Fetcher, error)
	Translator *translate.Translator
	Formatter  *formatter.Formatter
	Dispatcher *webhook.Dispatcher
	BlockWords []string
	Store      *storage.Store
}

// Result 单次运行的汇总
type Result struct {
	StartedAt    time.Time
	FinishedAt   time.Time
	Categories   []string
	Items        int
	MessagesSent int
	SendFailures int
}

// 内置源在消息小节里的展示名，RSS 源用 feed 标题兜底
var sourceTitles = map[string]string{
	"github":     "GitHub 趋势",
	"baidu":      "百度热搜",
	"weibo":      "微博热搜",
	"hackernews": "Hacker News",
}

// Run 执行一次完整推送：逐栏目取数 → 过滤 → 去重 → 翻译 → 渲染 → 投递。
// categoryIDs 为空表示全部栏目。任何单源、单条消息的失败都不会中断整轮运行
func Run(ctx context.Context, cfg *config.Config, deps Deps, categoryIDs []string) Result {
	result := Result{StartedAt: time.Now()}

	if len(categoryIDs) == 0 {
		for id := range cfg.Categories {
			categoryIDs = append(categoryIDs, id)
		}
		sort.Strings(categoryIDs)
	}

	for _, id := range categoryIDs {
		cat, ok := cfg.Categories[id]
		if !ok {
			log.Printf("category %q not configured, skip", id)
			continue
		}

		items, groups := collectCategory(ctx, cfg, deps, id, cat)
		result.Categories = append(result.Categories, id)
		result.Items += len(items)

		var messages []string
		if isTrendingCategory(cat) {
			messages = []string{deps.Formatter.FormatTrendingMessage(cat.Name, items)}
		} else {
			messages = deps.Formatter.FormatNewsMessages(cat.Name, groups)
		}

		sent, failed := deps.Dispatcher.Broadcast(ctx, cat.Webhooks, messages)
		result.MessagesSent += sent
		result.SendFailures += failed
		log.Printf("category %s: %d items, %d messages, sent=%d failed=%d",
			id, len(items), len(messages), sent, failed)

		if deps.Store != nil && len(items) > 0 {
			if err := deps.Store.SaveDispatched(id, items); err != nil {
				log.Printf("archive category %s failed: %v", id, err)
			}
		}
	}

	result.FinishedAt = time.Now()
	if deps.Store != nil {
		if err := deps.Store.SaveRun(result.Categories, result.Items, result.MessagesSent, result.SendFailures, result.StartedAt, result.FinishedAt); err != nil {
			log.Printf("save run record failed: %v", err)
		}
	}
	return result
}

// collectCategory 串行跑完一个栏目的取数与清洗，返回保留的条目与按源分组的小节。
// 去重状态覆盖整个栏目（跨源），按源的配置顺序推进，先到的源占住标题
func collectCategory(ctx context.Context, cfg *config.Config, deps Deps, id string, cat config.Category) ([]collector.NewsItem, []collector.SourceGroup) {
	dedup := pipeline.NewDeduplicator(0)

	var all []collector.NewsItem
	var groups []collector.SourceGroup

	for _, src := range cat.Sources {
		fetcher, err := deps.Resolve(src)
		if err != nil {
			log.Printf("category %s: %v", id, err)
			continue
		}

		items, err := fetcher.Fetch(ctx, cat.Count)
		if err != nil {
			log.Printf("category %s: fetch %s error: %v", id, src, err)
			items = nil
		}

		items = pipeline.FilterKeywords(items, deps.BlockWords)
		items = dedup.Apply(items)
		if len(items) == 0 {
			continue
		}

		all = append(all, items...)
		groups = append(groups, collector.SourceGroup{
			Name:  sourceTitle(src, items),
			Items: items,
		})
	}

	if deps.Translator != nil && cfg.TranslateEnabled() && len(all) > 0 {
		target := translate.TargetTitle
		if isTrendingCategory(cat) {
			target = translate.TargetDescription
		}
		all = deps.Translator.Annotate(ctx, all, target)
		groups = regroup(groups, all)
	}

	return all, groups
}

// regroup 翻译是对整个栏目的条目一次性做的，这里把结果按原小节大小切回去
func regroup(groups []collector.SourceGroup, items []collector.NewsItem) []collector.SourceGroup {
	offset := 0
	for i := range groups {
		n := len(groups[i].Items)
		groups[i].Items = items[offset : offset+n]
		offset += n
	}
	return groups
}

// isTrendingCategory 只从 GitHub Trending 取数的栏目使用专用的单消息渲染
func isTrendingCategory(cat config.Category) bool {
	return len(cat.Sources) == 1 && cat.Sources[0] == "github"
}

func sourceTitle(src string, items []collector.NewsItem) string {
	if name, ok := sourceTitles[src]; ok {
		return name
	}
	if len(items) > 0 && items[0].Source != "" {
		return items[0].Source
	}
	return src
}

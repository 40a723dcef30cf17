package pipeline

import (
	"strings"

	"github.com/LJTian/TrendPush/internal/collector"
)

// FilterKeywords 丢弃标题或介绍里出现屏蔽词的条目。
// 屏蔽词为字面子串匹配，大小写敏感，不做任何归一化；
// 屏蔽词列表为空时原样返回输入
func FilterKeywords(items []collector.NewsItem, blocked []string) []collector.NewsItem {
	if len(blocked) == 0 {
		return items
	}

	out := make([]collector.NewsItem, 0, len(items))
	for _, it := range items {
		text := it.Title
		if it.Description != "" {
			text += " " + it.Description
		}
		if containsAny(text, blocked) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}

package formatter

import (
	"fmt"
	"strings"

	"github.com/LJTian/TrendPush/internal/collector"
)

// FormatTrendingMessage 渲染 GitHub 趋势类栏目：单条消息、一个扁平编号列表，
// 每条附 star 数、今日新增与语言。条目数上游已限制，默认不会超出预算，故不拆分
func (f *Formatter) FormatTrendingMessage(category string, items []collector.NewsItem) string {
	if len(items) == 0 {
		return f.finish("## "+category, "暂无数据")
	}

	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%d. [%s](%s)", i+1, it.Title, it.URL))

		meta := make([]string, 0, 3)
		if it.Stars > 0 {
			meta = append(meta, "⭐ "+abbrevStars(it.Stars))
		}
		if it.TodayStars > 0 {
			meta = append(meta, fmt.Sprintf("今日 +%d", it.TodayStars))
		}
		if it.Language != "" {
			meta = append(meta, it.Language)
		}
		if len(meta) > 0 {
			b.WriteString("\n   " + strings.Join(meta, " · "))
		}
		if it.Description != "" {
			b.WriteString("\n   " + it.Description)
		}
	}

	return f.finish("## "+category, b.String())
}

// abbrevStars 把 star 数缩写成“12.3k”形式，千以下原样输出
func abbrevStars(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%.1fk", float64(n)/1000)
	return strings.Replace(s, ".0k", "k", 1)
}

package pipeline

import (
	"strings"

	"github.com/LJTian/TrendPush/internal/cjk"
	"github.com/LJTian/TrendPush/internal/collector"
)

// DefaultSimilarityThreshold 相似度达到该值即视为同一条热点
const DefaultSimilarityThreshold = 0.5

// dedupRecord 每接受一条就记录一份，仅存活于单个栏目的处理过程
type dedupRecord struct {
	tokens map[string]struct{}
	link   string
}

// Deduplicator 在一个栏目内做跨源标题去重：
// 链接完全相同直接丢弃，标题 Jaccard 相似度达到阈值也丢弃，先到先得。
// 每个栏目处理前重新构造，状态不跨栏目、不跨次运行
type Deduplicator struct {
	threshold float64
	seenLinks map[string]struct{}
	accepted  []dedupRecord
}

func NewDeduplicator(threshold float64) *Deduplicator {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Deduplicator{
		threshold: threshold,
		seenLinks: make(map[string]struct{}),
	}
}

// Keep 判断该条目是否保留；保留时将其记入状态
func (d *Deduplicator) Keep(item collector.NewsItem) bool {
	if _, ok := d.seenLinks[item.URL]; ok {
		return false
	}

	tokens := titleTokens(item.Title)
	for _, rec := range d.accepted {
		if jaccard(tokens, rec.tokens) >= d.threshold {
			return false
		}
	}

	d.seenLinks[item.URL] = struct{}{}
	d.accepted = append(d.accepted, dedupRecord{tokens: tokens, link: item.URL})
	return true
}

// Apply 按输入顺序过滤一批条目
func (d *Deduplicator) Apply(items []collector.NewsItem) []collector.NewsItem {
	out := make([]collector.NewsItem, 0, len(items))
	for _, it := range items {
		if d.Keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// titleTokens 从标题提取词元集合：每个 CJK 字符单独成词，
// 小写化后长度 ≥3 的连续 ASCII 字母串成词
func titleTokens(title string) map[string]struct{} {
	tokens := make(map[string]struct{})

	for _, r := range title {
		if cjk.Is(r) {
			tokens[string(r)] = struct{}{}
		}
	}

	lower := strings.ToLower(title)
	var word []rune
	flush := func() {
		if len(word) >= 3 {
			tokens[string(word)] = struct{}{}
		}
		word = word[:0]
	}
	for _, r := range lower {
		if r >= 'a' && r <= 'z' {
			word = append(word, r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// jaccard 计算两个集合的 Jaccard 相似度，双空集合约定为 0
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

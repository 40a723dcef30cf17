package pipeline

import (
	"testing"

	"github.com/LJTian/TrendPush/internal/collector"
)

func tokensOf(title string) map[string]struct{} {
	return titleTokens(title)
}

func TestJaccardBoundaries(t *testing.T) {
	a := tokensOf("深度学习模型发布")
	b := tokensOf("深度学习模型发布")
	if got := jaccard(a, b); got != 1.0 {
		t.Fatalf("identical sets: jaccard = %v, want 1.0", got)
	}

	c := tokensOf("openai releases new model")
	d := tokensOf("央行 发布 新规")
	if got := jaccard(c, d); got != 0.0 {
		t.Fatalf("disjoint sets: jaccard = %v, want 0.0", got)
	}

	empty := tokensOf("")
	if got := jaccard(a, empty); got != 0.0 {
		t.Fatalf("set vs empty: jaccard = %v, want 0.0", got)
	}
	if got := jaccard(empty, empty); got != 0.0 {
		t.Fatalf("empty vs empty: jaccard = %v, want 0.0", got)
	}
}

func TestTitleTokensCJKAndASCIIWords(t *testing.T) {
	tokens := titleTokens("OpenAI 发布 GPT-5 模型")

	// 每个 CJK 字符单独成词
	for _, want := range []string{"发", "布", "模", "型"} {
		if _, ok := tokens[want]; !ok {
			t.Fatalf("missing CJK token %q in %v", want, tokens)
		}
	}

	// 小写化后 ≥3 个连续字母成词；GPT-5 被连字符切开，gpt 留下
	for _, want := range []string{"openai", "gpt"} {
		if _, ok := tokens[want]; !ok {
			t.Fatalf("missing ASCII token %q in %v", want, tokens)
		}
	}

	// 两个字母的残段不成词
	if _, ok := tokens["ai"]; ok {
		t.Fatalf("token %q should not be extracted (shorter than 3)", "ai")
	}
}

func TestDeduplicatorDropsExactLinkDuplicates(t *testing.T) {
	d := NewDeduplicator(0)

	first := collector.NewsItem{Title: "完全不同的标题", URL: "https://example.com/1"}
	dup := collector.NewsItem{Title: "another totally different title", URL: "https://example.com/1"}

	if !d.Keep(first) {
		t.Fatalf("first item should be kept")
	}
	// 链接相同必然丢弃，标题相似度无关
	if d.Keep(dup) {
		t.Fatalf("same-link item should be dropped regardless of title")
	}
}

func TestDeduplicatorSimilarityThreshold(t *testing.T) {
	d := NewDeduplicator(0)

	items := []collector.NewsItem{
		{Title: "华为发布新一代麒麟芯片", URL: "https://a.example.com/1"},
		// 与上一条高度重合，应被丢弃
		{Title: "华为发布新一代麒麟芯片引关注", URL: "https://b.example.com/1"},
		// 重合度低，应保留
		{Title: "苹果季度营收创历史新高", URL: "https://c.example.com/1"},
	}

	out := d.Apply(items)
	if len(out) != 2 {
		t.Fatalf("expected 2 items kept, got %d: %+v", len(out), out)
	}
	// 先到先得
	if out[0].URL != items[0].URL || out[1].URL != items[2].URL {
		t.Fatalf("unexpected survivors: %+v", out)
	}
}

func TestDeduplicatorStateSpansSources(t *testing.T) {
	d := NewDeduplicator(0)

	// 模拟两个源先后到达，去重状态覆盖整个栏目
	sourceA := []collector.NewsItem{
		{Title: "rust 1.80 released with new features", URL: "https://a.example.com/rust"},
	}
	sourceB := []collector.NewsItem{
		{Title: "rust 1.80 released: new features overview", URL: "https://b.example.com/rust"},
	}

	outA := d.Apply(sourceA)
	outB := d.Apply(sourceB)
	if len(outA) != 1 {
		t.Fatalf("source A item should be kept")
	}
	if len(outB) != 0 {
		t.Fatalf("near-duplicate from source B should be dropped, got %+v", outB)
	}
}

func TestDeduplicatorEmptyTitlesNeverMatch(t *testing.T) {
	d := NewDeduplicator(0)

	a := collector.NewsItem{Title: "", URL: "https://example.com/a"}
	b := collector.NewsItem{Title: "", URL: "https://example.com/b"}

	if !d.Keep(a) || !d.Keep(b) {
		t.Fatalf("items with empty token sets should both be kept")
	}
}

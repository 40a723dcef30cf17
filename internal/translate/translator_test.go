package translate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LJTian/TrendPush/internal/collector"
)

type fakeProvider struct {
	name  string
	calls int
	fn    func(text string) (string, error)
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Translate(ctx context.Context, text string) (string, error) {
	f.calls++
	return f.fn(text)
}

func alwaysFail() *fakeProvider {
	return &fakeProvider{name: "fail", fn: func(string) (string, error) {
		return "", errors.New("boom")
	}}
}

func fixedTranslation(out string) *fakeProvider {
	return &fakeProvider{name: "ok", fn: func(string) (string, error) {
		return out, nil
	}}
}

func noSleep(time.Duration) {}

func TestNeedsTranslation(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"OpenAI releases GPT-5 model update", true},
		{"中国人工智能产业规模破万亿", false},
		{"123 !!! ...", false},
		{"", false},
		// 中英混排但中文占比过三成，不翻译
		{"微软发布 Copilot 更新", false},
	}

	for _, c := range cases {
		if got := NeedsTranslation(c.text); got != c.want {
			t.Fatalf("NeedsTranslation(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestAnnotateWrapsTranslation(t *testing.T) {
	tr := New(fixedTranslation("人工智能前沿进展"), alwaysFail(), nil).WithSleep(noSleep)

	items := []collector.NewsItem{
		{Title: "Advances in AI frontier", URL: "https://example.com/1"},
	}
	out := tr.Annotate(context.Background(), items, TargetTitle)

	if len(out) != 1 {
		t.Fatalf("expected same item count, got %d", len(out))
	}
	want := "Advances in AI frontier（人工智能前沿进展）"
	if out[0].Title != want {
		t.Fatalf("title = %q, want %q", out[0].Title, want)
	}
	// 翻译永不改动链接
	if out[0].URL != "https://example.com/1" {
		t.Fatalf("url changed: %q", out[0].URL)
	}
	// 原切片不被改写
	if items[0].Title != "Advances in AI frontier" {
		t.Fatalf("input slice mutated: %q", items[0].Title)
	}
}

func TestAnnotateEqualTranslationIsNoop(t *testing.T) {
	// 译文与原文相同则不包裹
	tr := New(&fakeProvider{name: "echo", fn: func(text string) (string, error) {
		return text, nil
	}}, alwaysFail(), nil).WithSleep(noSleep)

	items := []collector.NewsItem{{Title: "same text back", URL: "https://example.com/1"}}
	out := tr.Annotate(context.Background(), items, TargetTitle)
	if out[0].Title != "same text back" {
		t.Fatalf("equal translation should not wrap: %q", out[0].Title)
	}
}

func TestAnnotateFallbackProvider(t *testing.T) {
	primary := alwaysFail()
	fallback := fixedTranslation("来自备用服务的译文")
	tr := New(primary, fallback, nil).WithSleep(noSleep)

	items := []collector.NewsItem{{Title: "breaking news headline", URL: "https://example.com/1"}}
	out := tr.Annotate(context.Background(), items, TargetTitle)

	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("calls: primary=%d fallback=%d, want 1/1", primary.calls, fallback.calls)
	}
	want := "breaking news headline（来自备用服务的译文）"
	if out[0].Title != want {
		t.Fatalf("title = %q, want %q", out[0].Title, want)
	}
}

func TestCircuitBreakerAbortsRemainingItems(t *testing.T) {
	primary := alwaysFail()
	fallback := alwaysFail()
	tr := New(primary, fallback, nil).WithSleep(noSleep)

	items := []collector.NewsItem{
		{Title: "first english title", URL: "https://example.com/1"},
		{Title: "second english title here", URL: "https://example.com/2"},
		{Title: "third english title again", URL: "https://example.com/3"},
		{Title: "fourth english title final", URL: "https://example.com/4"},
	}
	out := tr.Annotate(context.Background(), items, TargetTitle)

	// 连续两次整体失败后熔断：只有前两条触发了主备各一次调用
	if primary.calls != 2 || fallback.calls != 2 {
		t.Fatalf("calls after breaker: primary=%d fallback=%d, want 2/2", primary.calls, fallback.calls)
	}
	// 所有条目原样放行
	for i := range out {
		if out[i] != items[i] {
			t.Fatalf("item %d modified after breaker: %+v", i, out[i])
		}
	}
}

func TestBreakerCounterResetsOnSuccess(t *testing.T) {
	// 第一条失败，第二条成功，第三条失败：计数被成功打断，不触发熔断
	step := 0
	primary := &fakeProvider{name: "flaky", fn: func(string) (string, error) {
		step++
		if step == 2 {
			return "成功的译文", nil
		}
		return "", errors.New("boom")
	}}
	fallback := alwaysFail()
	tr := New(primary, fallback, nil).WithSleep(noSleep)

	items := []collector.NewsItem{
		{Title: "alpha english title", URL: "https://example.com/1"},
		{Title: "beta english title", URL: "https://example.com/2"},
		{Title: "gamma english title", URL: "https://example.com/3"},
	}
	out := tr.Annotate(context.Background(), items, TargetTitle)

	// 三条都走到了主服务：熔断没有提前触发
	if primary.calls != 3 {
		t.Fatalf("primary calls = %d, want 3", primary.calls)
	}
	if out[1].Title != "beta english title（成功的译文）" {
		t.Fatalf("second item not annotated: %q", out[1].Title)
	}
}

func TestPacingOnlyAfterFirstSuccess(t *testing.T) {
	var sleeps []time.Duration
	tr := New(fixedTranslation("译文内容在此"), alwaysFail(), nil).
		WithSleep(func(d time.Duration) { sleeps = append(sleeps, d) })

	items := []collector.NewsItem{
		{Title: "first headline text", URL: "https://example.com/1"},
		{Title: "second headline text", URL: "https://example.com/2"},
		{Title: "third headline text", URL: "https://example.com/3"},
	}
	tr.Annotate(context.Background(), items, TargetTitle)

	// 首条之前不等待，之后每次调用前等待一次
	if len(sleeps) != 2 {
		t.Fatalf("sleep count = %d, want 2", len(sleeps))
	}
	for _, d := range sleeps {
		if d != paceDelay {
			t.Fatalf("sleep duration = %v, want %v", d, paceDelay)
		}
	}
}

func TestAnnotateDescriptionTarget(t *testing.T) {
	tr := New(fixedTranslation("高性能数据库"), alwaysFail(), nil).WithSleep(noSleep)

	items := []collector.NewsItem{
		{Title: "pingcap/tidb", Description: "A distributed SQL database", URL: "https://github.com/pingcap/tidb"},
	}
	out := tr.Annotate(context.Background(), items, TargetDescription)

	want := "A distributed SQL database（高性能数据库）"
	if out[0].Description != want {
		t.Fatalf("description = %q, want %q", out[0].Description, want)
	}
	// 标题保持原样
	if out[0].Title != "pingcap/tidb" {
		t.Fatalf("title should be untouched: %q", out[0].Title)
	}
}

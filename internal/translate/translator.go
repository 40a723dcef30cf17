package translate

import (
	"context"
	"log"
	"time"
	"unicode"

	"github.com/LJTian/TrendPush/internal/cjk"
	"github.com/LJTian/TrendPush/internal/collector"
)

const (
	// 单次翻译调用的耗时上限，主备各算一次
	providerCallTimeout = 5 * time.Second
	// 批次内每次成功翻译之后，下一次调用前的间隔，规避服务端限流
	paceDelay = 300 * time.Millisecond
	// 主备连续整体失败达到该次数后，放弃本批次剩余条目的翻译
	maxConsecutiveFailures = 2
)

// Target 指定给条目的哪个字段追加译文
type Target int

const (
	TargetTitle Target = iota
	TargetDescription
)

// Translator 给非中文文本追加括号内的中文译文。
// 翻译是尽力而为的：任何服务端失败都只记日志，条目原样放行
type Translator struct {
	primary  Provider
	fallback Provider
	cache    *Cache

	timeout  time.Duration
	pace     time.Duration
	maxFails int
	sleep    func(time.Duration)
}

func New(primary, fallback Provider, cache *Cache) *Translator {
	return &Translator{
		primary:  primary,
		fallback: fallback,
		cache:    cache,
		timeout:  providerCallTimeout,
		pace:     paceDelay,
		maxFails: maxConsecutiveFailures,
		sleep:    time.Sleep,
	}
}

// WithSleep 注入睡眠函数，测试时替换掉真实等待
func (t *Translator) WithSleep(sleep func(time.Duration)) *Translator {
	t.sleep = sleep
	return t
}

// batchState 单次 Annotate 调用内的状态，调用结束即丢弃
type batchState struct {
	translated          int
	consecutiveFailures int
	aborted             bool
}

// Annotate 逐条处理：判定需要翻译的条目，成功后替换为带译文的副本。
// 返回条目数与输入一致，每条要么原样、要么带上“原文（译文）”
func (t *Translator) Annotate(ctx context.Context, items []collector.NewsItem, target Target) []collector.NewsItem {
	out := make([]collector.NewsItem, len(items))
	copy(out, items)

	st := &batchState{}
	for i := range out {
		if st.aborted {
			break
		}

		text := fieldOf(out[i], target)
		if !NeedsTranslation(text) {
			continue
		}

		translated := t.translateOne(ctx, st, text)
		if translated == "" || translated == text {
			continue
		}
		out[i] = withField(out[i], target, text+"（"+translated+"）")
	}
	return out
}

// translateOne 先查缓存，未命中再走主备服务；两边都失败返回空串并累计熔断计数
func (t *Translator) translateOne(ctx context.Context, st *batchState, text string) string {
	if cached, ok := t.cache.Get(ctx, text); ok {
		st.translated++
		st.consecutiveFailures = 0
		return cached
	}

	// 第一次成功翻译之前不插入间隔
	if st.translated > 0 {
		t.sleep(t.pace)
	}

	if out := t.callProvider(ctx, t.primary, text); out != "" {
		st.translated++
		st.consecutiveFailures = 0
		t.cache.Set(ctx, text, out)
		return out
	}

	if out := t.callProvider(ctx, t.fallback, text); out != "" {
		st.translated++
		st.consecutiveFailures = 0
		t.cache.Set(ctx, text, out)
		return out
	}

	st.consecutiveFailures++
	if st.consecutiveFailures >= t.maxFails {
		st.aborted = true
		log.Printf("translate: %d consecutive failures, skip the rest of this batch", st.consecutiveFailures)
	}
	return ""
}

func (t *Translator) callProvider(ctx context.Context, p Provider, text string) string {
	if p == nil {
		return ""
	}
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := p.Translate(callCtx, text)
	if err != nil {
		log.Printf("translate (%s): %v", p.Name(), err)
		return ""
	}
	return out
}

// NeedsTranslation 判定文本是否需要追加中文译文：
// 去掉空白、数字、标点与符号后，若剩余字符中 CJK 占比不足三成则认为是外文
func NeedsTranslation(text string) bool {
	meaningful := 0
	cjkCount := 0
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		meaningful++
		if cjk.Is(r) {
			cjkCount++
		}
	}
	if meaningful == 0 {
		return false
	}
	return float64(cjkCount)/float64(meaningful) < 0.3
}

func fieldOf(item collector.NewsItem, target Target) string {
	if target == TargetDescription {
		return item.Description
	}
	return item.Title
}

func withField(item collector.NewsItem, target Target, value string) collector.NewsItem {
	if target == TargetDescription {
		item.Description = value
	} else {
		item.Title = value
	}
	return item
}

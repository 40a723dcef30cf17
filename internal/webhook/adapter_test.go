package webhook

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateRunes(t *testing.T) {
	short := "短消息"
	if got := truncateRunes(short, 100); got != short {
		t.Fatalf("under-limit text should pass unchanged: %q", got)
	}

	long := strings.Repeat("长", 200)
	got := truncateRunes(long, 100)
	if utf8.RuneCountInString(got) > 100 {
		t.Fatalf("truncated text exceeds limit: %d runes", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, truncationNotice) {
		t.Fatalf("missing truncation notice: %q", got)
	}
}

func TestTruncateBytesKeepsValidUTF8(t *testing.T) {
	long := strings.Repeat("中", 100) // 300 字节
	// 限制 200 字节，截断点落在多字节字符中间时必须退到 rune 边界
	got := truncateBytes(long, 200)
	if len(got) > 200 {
		t.Fatalf("truncated text exceeds byte limit: %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, truncationNotice) {
		t.Fatalf("missing truncation notice: %q", got)
	}

	short := "ok 的消息"
	if got := truncateBytes(short, 4096); got != short {
		t.Fatalf("under-limit text should pass unchanged: %q", got)
	}
}

func TestConvertToWeComDialect(t *testing.T) {
	in := "## 科技\n\n### 百度热搜\n1. [标题](https://example.com/1)\n\n> 更新时间：2025-06-01 09:30"
	out := convertToWeComDialect(in)

	if strings.Contains(out, "## ") || strings.Contains(out, "### ") {
		t.Fatalf("headings should be converted: %q", out)
	}
	if !strings.Contains(out, "**科技**") || !strings.Contains(out, "**百度热搜**") {
		t.Fatalf("headings should become bold: %q", out)
	}
	if !strings.Contains(out, `<font color="comment">更新时间：2025-06-01 09:30</font>`) {
		t.Fatalf("quote line should become comment font: %q", out)
	}
	// 普通行原样保留
	if !strings.Contains(out, "1. [标题](https://example.com/1)") {
		t.Fatalf("plain line should be untouched: %q", out)
	}
}

func TestFirstLineTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"## 科技\n\n正文", "科技"},
		{"无标记首行\n第二行", "无标记首行"},
		{"", "热点推送"},
		{"# ", "热点推送"},
	}
	for _, c := range cases {
		if got := firstLineTitle(c.in); got != c.want {
			t.Fatalf("firstLineTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewAdapterTypes(t *testing.T) {
	if _, err := New("dingtalk", "群一", "https://example.com/hook"); err != nil {
		t.Fatalf("dingtalk adapter: %v", err)
	}
	if _, err := New("wecom", "群二", "https://example.com/hook"); err != nil {
		t.Fatalf("wecom adapter: %v", err)
	}
	if _, err := New("slack", "群三", "https://example.com/hook"); err == nil {
		t.Fatalf("unknown type should be rejected")
	}
}

package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// Adapter 一个平台一个实现：把通用 Markdown 适配成目标平台的方言并受限发送。
// 发送失败必须以 error 暴露出来，调度侧据此计数与记日志
type Adapter interface {
	Name() string
	SendMarkdown(ctx context.Context, text string) error
}

// New 按配置里的 type 构造对应平台的 adapter，类型集合是封闭的
func New(typ, name, url string) (Adapter, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	switch typ {
	case "dingtalk":
		return &DingTalkAdapter{name: name, url: url, client: client}, nil
	case "wecom":
		return &WeComAdapter{name: name, url: url, client: client}, nil
	}
	return nil, fmt.Errorf("webhook: unknown type %q for %q", typ, name)
}

const truncationNotice = "\n\n> 内容过长，已截断"

// truncateRunes 按字符数截断并追加截断提示，钉钉按字符计长
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	keep := limit - utf8.RuneCountInString(truncationNotice)
	if keep < 0 {
		keep = 0
	}
	rs := []rune(s)
	return string(rs[:keep]) + truncationNotice
}

// truncateBytes 按 UTF-8 字节数截断并追加截断提示，企业微信按字节计长；
// 截断点退到 rune 边界，避免产生非法 UTF-8
func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	keep := limit - len(truncationNotice)
	if keep < 0 {
		keep = 0
	}
	for keep > 0 && !utf8.RuneStart(s[keep]) {
		keep--
	}
	return s[:keep] + truncationNotice
}

// firstLineTitle 取消息首行（去掉 Markdown 标题记号）作为推送卡片的标题
func firstLineTitle(text string) string {
	line := text
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(strings.TrimLeft(line, "# "))
	if line == "" {
		return "热点推送"
	}
	return line
}

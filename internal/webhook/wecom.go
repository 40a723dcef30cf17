package webhook

import (
	"context"
	"net/http"
	"strings"
)

// 企业微信 markdown 消息按 UTF-8 字节数计长
const weComMaxBytes = 4096

// WeComAdapter 企业微信群机器人。其 markdown 方言不支持标题与引用，
// 发送前先做方言转换：标题转粗体，引用行转带色内联文本
type WeComAdapter struct {
	name   string
	url    string
	client *http.Client
}

func (w *WeComAdapter) Name() string { return w.name }

func (w *WeComAdapter) SendMarkdown(ctx context.Context, text string) error {
	content := convertToWeComDialect(text)
	content = truncateBytes(content, weComMaxBytes)

	payload := map[string]any{
		"msgtype": "markdown",
		"markdown": map[string]any{
			"content": content,
		},
	}
	return postRobot(ctx, w.client, w.url, payload, "wecom")
}

// convertToWeComDialect 逐行转换：`#` 标题行转 `**粗体**`，`>` 引用行转
// `<font color="comment">` 内联段；其余行原样保留
func convertToWeComDialect(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			if title != "" {
				lines[i] = "**" + title + "**"
			}
		case strings.HasPrefix(trimmed, ">"):
			quoted := strings.TrimSpace(strings.TrimPrefix(trimmed, ">"))
			if quoted != "" {
				lines[i] = `<font color="comment">` + quoted + `</font>`
			}
		}
	}
	return strings.Join(lines, "\n")
}

package formatter

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LJTian/TrendPush/internal/collector"
)

const (
	// 单条消息的字符预算，预留了时间戳脚注的空间
	messageBudget = 4500
	// 单条消息最多容纳的小节（数据源）数
	maxSectionsPerMessage = 3

	continuationSuffix = "（续）"
	timeLayout         = "2006-01-02 15:04"
)

// Formatter 把一个栏目下各数据源的条目渲染成一条或多条受长度约束的 Markdown 消息
type Formatter struct {
	loc *time.Location
	now func() time.Time
}

func New(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{loc: loc, now: time.Now}
}

// WithNow 注入时间来源，测试时固定时间戳
func (f *Formatter) WithNow(now func() time.Time) *Formatter {
	f.now = now
	return f
}

// FormatNewsMessages 渲染常规栏目。按源逐节累计，超出预算或小节数上限则另起一条消息；
// 单个小节永远不会被拆到两条消息里。首条消息标题为“## 栏目名”，
// 后续溢出消息统一用“## 栏目名（续）”
func (f *Formatter) FormatNewsMessages(category string, groups []collector.SourceGroup) []string {
	sections := make([]string, 0, len(groups))
	for _, g := range groups {
		if len(g.Items) == 0 {
			continue
		}
		sections = append(sections, renderSection(g))
	}

	if len(sections) == 0 {
		return []string{f.finish("## "+category, "暂无数据")}
	}

	var messages []string
	var current []string
	currentLen := 0

	header := func() string {
		if len(messages) == 0 {
			return "## " + category
		}
		return "## " + category + continuationSuffix
	}

	for _, sec := range sections {
		secLen := utf8.RuneCountInString(sec)
		needSplit := len(current) > 0 &&
			(currentLen+secLen > messageBudget || len(current) >= maxSectionsPerMessage)
		if needSplit {
			messages = append(messages, f.finish(header(), strings.Join(current, "\n\n")))
			current = current[:0]
			currentLen = 0
		}
		current = append(current, sec)
		currentLen += secLen
	}
	if len(current) > 0 {
		messages = append(messages, f.finish(header(), strings.Join(current, "\n\n")))
	}

	return messages
}

// renderSection 一个数据源渲染为一个小节：三级标题加编号链接列表
func renderSection(g collector.SourceGroup) string {
	var b strings.Builder
	b.WriteString("### ")
	b.WriteString(g.Name)
	for i, it := range g.Items {
		b.WriteString(fmt.Sprintf("\n%d. [%s](%s)", i+1, it.Title, it.URL))
	}
	return b.String()
}

// finish 组装完整消息：标题、正文、时间戳脚注
func (f *Formatter) finish(header, body string) string {
	ts := f.now().In(f.loc).Format(timeLayout)
	return header + "\n\n" + body + "\n\n> 更新时间：" + ts
}

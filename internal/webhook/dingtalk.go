package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// 钉钉 markdown 消息按字符数计长
const dingTalkMaxRunes = 20000

// DingTalkAdapter 钉钉群机器人。钉钉的 markdown 方言支持标题与列表，
// 通用 Markdown 原样发送，只做长度保护
type DingTalkAdapter struct {
	name   string
	url    string
	client *http.Client
}

func (d *DingTalkAdapter) Name() string { return d.name }

func (d *DingTalkAdapter) SendMarkdown(ctx context.Context, text string) error {
	text = truncateRunes(text, dingTalkMaxRunes)

	payload := map[string]any{
		"msgtype": "markdown",
		"markdown": map[string]any{
			"title": firstLineTitle(text),
			"text":  text,
		},
	}
	return postRobot(ctx, d.client, d.url, payload, "dingtalk")
}

// postRobot 机器人 webhook 的通用 POST：HTTP 200 且 errcode 为 0 才算成功
func postRobot(ctx context.Context, client *http.Client, url string, payload any, platform string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshal payload: %w", platform, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", platform, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: post: %w", platform, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", platform, resp.StatusCode)
	}

	var result struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&result); err != nil {
		return fmt.Errorf("%s: decode response: %w", platform, err)
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("%s: errcode %d: %s", platform, result.ErrCode, result.ErrMsg)
	}
	return nil
}

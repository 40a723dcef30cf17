package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	providerMaxResponseBytes = 256 * 1024
	providerMaxTextLen       = 500
)

// Provider 单个翻译服务，失败返回 error，译文为空也算失败
type Provider interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// GoogleProvider 使用 Google Translate 公开 API（client=gtx，无需密钥）
type GoogleProvider struct {
	Client *http.Client
}

func (g *GoogleProvider) Name() string { return "google-gtx" }

func (g *GoogleProvider) Translate(ctx context.Context, text string) (string, error) {
	apiURL := fmt.Sprintf(
		"https://translate.googleapis.com/translate_a/single?client=gtx&sl=auto&tl=zh-CN&dt=t&q=%s",
		url.QueryEscape(clipText(text)),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google-gtx: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, providerMaxResponseBytes))
	if err != nil {
		return "", err
	}

	// 响应格式: [[["翻译文本","原文",...],...],...]
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("google-gtx: decode: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("google-gtx: empty response")
	}

	outer, ok := raw[0].([]any)
	if !ok {
		return "", errors.New("google-gtx: unexpected response format")
	}
	var result strings.Builder
	for _, seg := range outer {
		pair, ok := seg.([]any)
		if !ok || len(pair) < 1 {
			continue
		}
		if s, ok := pair[0].(string); ok {
			result.WriteString(s)
		}
	}

	out := strings.TrimSpace(result.String())
	if out == "" {
		return "", errors.New("google-gtx: empty translation")
	}
	return out, nil
}

func (g *GoogleProvider) httpClient() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return http.DefaultClient
}

// MyMemoryProvider 备用翻译服务
type MyMemoryProvider struct {
	Client *http.Client
}

func (m *MyMemoryProvider) Name() string { return "mymemory" }

func (m *MyMemoryProvider) Translate(ctx context.Context, text string) (string, error) {
	apiURL := "https://api.mymemory.translated.net/get?langpair=" +
		sourceLangForMyMemory(text) + "|zh&q=" + url.QueryEscape(clipText(text))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := m.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mymemory: status %d", resp.StatusCode)
	}

	var out struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, providerMaxResponseBytes)).Decode(&out); err != nil {
		return "", fmt.Errorf("mymemory: decode: %w", err)
	}

	translated := strings.TrimSpace(out.ResponseData.TranslatedText)
	if translated == "" {
		return "", errors.New("mymemory: empty translation")
	}
	return translated, nil
}

func (m *MyMemoryProvider) httpClient() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return http.DefaultClient
}

func clipText(text string) string {
	if rs := []rune(text); len(rs) > providerMaxTextLen {
		return string(rs[:providerMaxTextLen])
	}
	return text
}

func sourceLangForMyMemory(s string) string {
	for _, r := range s {
		if r >= 0x3040 && r <= 0x309f || r >= 0x30a0 && r <= 0x30ff {
			return "ja"
		}
	}
	return "en"
}

// NewDefaultProviders 返回线上使用的主备翻译服务对
func NewDefaultProviders() (Provider, Provider) {
	client := &http.Client{Timeout: 20 * time.Second}
	return &GoogleProvider{Client: client}, &MyMemoryProvider{Client: client}
}

package config

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Webhook 一个推送目标：type 决定平台方言（dingtalk / wecom）
type Webhook struct {
	Type string `yaml:"type"`
	URL  string `yaml:"url"`
}

// Category 一个推送栏目：从哪些源取数、每源取几条、推到哪些 webhook
type Category struct {
	Name     string   `yaml:"name"`
	Count    int      `yaml:"count"`
	Webhooks []string `yaml:"webhooks"`
	Sources  []string `yaml:"sources"`
}

// Settings 全局开关
type Settings struct {
	Translate      *bool  `yaml:"translate"` // 缺省为 true
	Timezone       string `yaml:"timezone"`
	BlockWordsFile string `yaml:"block_words_file"`
}

type Config struct {
	Webhooks   map[string]Webhook  `yaml:"webhooks"`
	Categories map[string]Category `yaml:"categories"`
	Settings   Settings            `yaml:"settings"`

	// 以下来自环境变量，不进 YAML
	AppPort       string `yaml:"-"`
	PostgresDSN   string `yaml:"-"`
	RedisAddr     string `yaml:"-"`
	CronSpec      string `yaml:"-"`
	BasicAuthUser string `yaml:"-"`
	BasicAuthPass string `yaml:"-"`
}

// Load 读取 YAML 配置并叠加环境变量，校验失败直接返回错误（在流水线启动之前）
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.AppPort = getEnv("APP_PORT", "9000")
	cfg.PostgresDSN = getEnv("POSTGRES_DSN", "") // 为空则不落库
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")     // 为空则不启用缓存
	cfg.CronSpec = getEnv("CRON_SPEC", "0 * * * *")
	cfg.BasicAuthUser = getEnv("APP_BASIC_USER", "")
	cfg.BasicAuthPass = getEnv("APP_BASIC_PASS", "")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("config loaded: %d webhooks, %d categories, cron=%s",
		len(cfg.Webhooks), len(cfg.Categories), cfg.CronSpec)
	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Webhooks) == 0 {
		return fmt.Errorf("config: no webhooks configured")
	}
	for id, w := range c.Webhooks {
		if w.URL == "" {
			return fmt.Errorf("config: webhook %q has empty url", id)
		}
		if w.Type != "dingtalk" && w.Type != "wecom" {
			return fmt.Errorf("config: webhook %q has unknown type %q", id, w.Type)
		}
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("config: no categories configured")
	}
	for id, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("config: category %q has empty name", id)
		}
		if len(cat.Sources) == 0 {
			return fmt.Errorf("config: category %q has no sources", id)
		}
	}
	return nil
}

// TranslateEnabled 全局翻译开关，缺省开启
func (c *Config) TranslateEnabled() bool {
	return c.Settings.Translate == nil || *c.Settings.Translate
}

// Location 返回展示时区，缺省东八区
func (c *Config) Location() *time.Location {
	name := c.Settings.Timezone
	if name == "" {
		name = "Asia/Shanghai"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("config: load timezone %q failed: %v, fallback CST", name, err)
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}

// LoadBlockWords 读取本地屏蔽词文件：一行一个词，# 开头为注释。
// 文件不存在视为不过滤，方便该文件保持在版本库之外
func (c *Config) LoadBlockWords() []string {
	path := c.Settings.BlockWordsFile
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		log.Printf("config: block words file %q not readable: %v", path, err)
		return nil
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

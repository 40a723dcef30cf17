package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LJTian/TrendPush/internal/collector"
)

// News 已推送条目的归档记录。只做事后查询用，推送流水线不读它：
// 去重、熔断等状态都只活在单次运行内
type News struct {
	ID          string `gorm:"primaryKey;size:40" json:"id"`
	Title       string `gorm:"size:512" json:"title"`
	URL         string `gorm:"size:1024;uniqueIndex" json:"url"`
	Source      string `gorm:"size:64;index" json:"source"`
	Category    string `gorm:"size:64;index" json:"category"`
	Description string `gorm:"size:600" json:"description"`
	PublishedAt time.Time `gorm:"index" json:"publishedAt"`
	// 日期 YYYY-MM-DD，按配置时区，用于按日期展示
	PushedDate string            `gorm:"size:10;index" json:"pushedDate"`
	ExtraData  datatypes.JSONMap `gorm:"type:jsonb" json:"extraData"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DispatchRun 每轮推送一条汇总
type DispatchRun struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Categories   string    `gorm:"size:512" json:"categories"`
	Items        int       `json:"items"`
	MessagesSent int       `json:"messagesSent"`
	SendFailures int       `json:"sendFailures"`
	StartedAt    time.Time `gorm:"index" json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStore 打开 Postgres 并自动迁移，Redis 客户端可为 nil（仅关掉列表缓存）
func NewStore(dsn string, rdb *redis.Client) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&News{}, &DispatchRun{}); err != nil {
		return nil, err
	}
	return &Store{DB: db, Redis: rdb}, nil
}

// 东八区，用于日期展示与筛选
var locEast8 *time.Location

func init() {
	locEast8, _ = time.LoadLocation("Asia/Shanghai")
	if locEast8 == nil {
		locEast8 = time.FixedZone("CST", 8*3600)
	}
}

// toValidUTF8 将字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// truncateRunesDB 按 rune 数截断，确保不超过数据库字段长度
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// SaveDispatched 归档一批已推送条目，以 URL 作为幂等键，重复推送只更新
func (s *Store) SaveDispatched(category string, items []collector.NewsItem) error {
	now := time.Now()
	for _, it := range items {
		title := truncateRunesDB(toValidUTF8(it.Title), 512)
		description := truncateRunesDB(toValidUTF8(it.Description), 600)

		extra := datatypes.JSONMap{}
		if it.Stars > 0 {
			extra["stars"] = it.Stars
		}
		if it.TodayStars > 0 {
			extra["today_stars"] = it.TodayStars
		}
		if it.Language != "" {
			extra["language"] = it.Language
		}

		n := &News{
			ID:          hashURL(it.URL),
			Title:       title,
			URL:         it.URL,
			Source:      it.Source,
			Category:    category,
			Description: description,
			PublishedAt: it.PublishedAt,
			PushedDate:  now.In(locEast8).Format("2006-01-02"),
			ExtraData:   extra,
		}

		if err := s.DB.Where("url = ?", it.URL).FirstOrCreate(n).Error; err != nil {
			return err
		}
		_ = s.DB.Model(n).Updates(map[string]any{
			"title":       title,
			"description": description,
			"category":    category,
			"pushed_date": n.PushedDate,
		}).Error
	}
	return nil
}

// SaveRun 记录一轮推送的汇总
func (s *Store) SaveRun(categories []string, items, sent, failed int, startedAt, finishedAt time.Time) error {
	run := &DispatchRun{
		Categories:   strings.Join(categories, ","),
		Items:        items,
		MessagesSent: sent,
		SendFailures: failed,
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
	}
	return s.DB.Create(run).Error
}

// ListNews 按栏目与可选日期返回归档条目，并用 Redis 做短 TTL 缓存
func (s *Store) ListNews(category string, limit int, date string) ([]News, error) {
	if limit <= 0 || limit > 1000 {
		limit = 20
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("trendpush:news:%s:%d:%s", category, limit, date)

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []News
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var list []News
	db := s.DB.Model(&News{})
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if date != "" {
		db = db.Where("pushed_date = ?", date)
	}
	if err := db.Order("updated_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	// 回写缓存（5 分钟）
	const listCacheTTL = 5 * time.Minute
	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}
	return list, nil
}

// ListRuns 返回最近的推送记录
func (s *Store) ListRuns(limit int) ([]DispatchRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var runs []DispatchRun
	if err := s.DB.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func hashURL(url string) string {
	h := sha1.New()
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}

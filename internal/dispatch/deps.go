package dispatch

import (
	"context"
	"log"
	"time"

	"github.com/LJTian/TrendPush/internal/collector"
	"github.com/LJTian/TrendPush/internal/config"
	"github.com/LJTian/TrendPush/internal/formatter"
	"github.com/LJTian/TrendPush/internal/storage"
	"github.com/LJTian/TrendPush/internal/translate"
	"github.com/LJTian/TrendPush/internal/webhook"
	"github.com/redis/go-redis/v9"
)

// NewDeps 按配置装配一次运行所需的协作方。
// Redis 与 Postgres 都是可选项，初始化失败只降级不退出
func NewDeps(cfg *config.Config) Deps {
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed: %v", err)
		}
	}

	var store *storage.Store
	if cfg.PostgresDSN != "" {
		s, err := storage.NewStore(cfg.PostgresDSN, rdb)
		if err != nil {
			log.Printf("warn: init store failed, archive disabled: %v", err)
		} else {
			store = s
		}
	}

	adapters := make(map[string]webhook.Adapter, len(cfg.Webhooks))
	for id, w := range cfg.Webhooks {
		a, err := webhook.New(w.Type, id, w.URL)
		if err != nil {
			log.Printf("warn: %v", err)
			continue
		}
		adapters[id] = a
	}

	var tr *translate.Translator
	if cfg.TranslateEnabled() {
		primary, fallback := translate.NewDefaultProviders()
		tr = translate.New(primary, fallback, translate.NewCache(rdb))
	}

	return Deps{
		Resolve:    collector.Resolve,
		Translator: tr,
		Formatter:  formatter.New(cfg.Location()),
		Dispatcher: webhook.NewDispatcher(adapters),
		BlockWords: cfg.LoadBlockWords(),
		Store:      store,
	}
}

package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/LJTian/TrendPush/internal/config"
	"github.com/LJTian/TrendPush/internal/dispatch"
)

// 只执行一轮推送的命令行入口：适合手动触发或外部定时器调用
func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	categories := flag.String("categories", "", "只推送这些栏目 id，逗号分隔，留空为全部")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	deps := dispatch.NewDeps(cfg)

	var ids []string
	for _, id := range strings.Split(*categories, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	result := dispatch.Run(context.Background(), cfg, deps, ids)
	log.Printf("dispatch finished: categories=%d items=%d sent=%d failed=%d took=%s",
		len(result.Categories), result.Items, result.MessagesSent, result.SendFailures,
		result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
}

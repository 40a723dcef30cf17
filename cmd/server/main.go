package main

import (
	"context"
	"crypto/subtle"
	"flag"
	"log"
	"net/http"

	"github.com/LJTian/TrendPush/internal/api"
	"github.com/LJTian/TrendPush/internal/config"
	"github.com/LJTian/TrendPush/internal/dispatch"
	"github.com/LJTian/TrendPush/internal/scheduler"
	"github.com/gin-gonic/gin"
)

// 常驻服务入口：cron 定时推送 + HTTP 接口（健康检查、归档查询、手动触发）
func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	deps := dispatch.NewDeps(cfg)

	runAll := func(categoryIDs []string) {
		result := dispatch.Run(context.Background(), cfg, deps, categoryIDs)
		log.Printf("dispatch finished: categories=%d items=%d sent=%d failed=%d",
			len(result.Categories), result.Items, result.MessagesSent, result.SendFailures)
	}

	s, err := scheduler.New(cfg.CronSpec, func() { runAll(nil) })
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	r := gin.Default()
	// 若配置了全局访问密码，则启用 Basic Auth 保护（/health 仍然免认证）
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	apiServer := api.NewServer(deps.Store, runAll)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// basicAuthMiddleware 为整个站点增加一个简单的 Basic Auth 访问密码。
// /health 不做认证，便于健康检查
func basicAuthMiddleware(user, pass string) gin.HandlerFunc {
	const realm = "Restricted"
	uBytes := []byte(user)
	pBytes := []byte(pass)

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), uBytes) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), pBytes) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

package api

import (
	"net/http"
	"strconv"

	"github.com/LJTian/TrendPush/internal/storage"
	"github.com/gin-gonic/gin"
)

// Server 提供健康检查、归档查询与手动触发推送的 HTTP 接口
type Server struct {
	store   *storage.Store
	trigger func(categoryIDs []string)
}

// NewServer 构造 API 服务。store 可为 nil（未配置归档时查询接口返回 503），
// trigger 在独立 goroutine 里执行一次推送
func NewServer(store *storage.Store, trigger func(categoryIDs []string)) *Server {
	return &Server{store: store, trigger: trigger}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.listNews)
		v1.GET("/runs", s.listRuns)
		v1.POST("/dispatch", s.dispatch)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listNews(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "archive_disabled",
			"message": "archive storage not configured",
		})
		return
	}

	category := c.Query("category")
	date := c.Query("date")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	items, err := s.store.ListNews(category, limit, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    items,
	})
}

func (s *Server) listRuns(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "archive_disabled",
			"message": "archive storage not configured",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    runs,
	})
}

type dispatchRequest struct {
	Categories []string `json:"categories"`
}

// dispatch 手动触发一次推送，立即返回，推送在后台执行
func (s *Server) dispatch(c *gin.Context) {
	var req dispatchRequest
	_ = c.ShouldBindJSON(&req)

	go s.trigger(req.Categories)

	c.JSON(http.StatusAccepted, gin.H{
		"code":    "ok",
		"message": "dispatch started",
	})
}

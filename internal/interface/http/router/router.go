// Package router 组装gin引擎:全局中间件、运维端点和/api/v1业务路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/response"
	"github.com/xiebiao/bookcatalog/pkg/validator"
)

// Handlers 所有HTTP处理器,由wire.Struct整体注入
type Handlers struct {
	Book      *handler.BookHandler
	Genre     *handler.GenreHandler
	Publisher *handler.PublisherHandler
	User      *handler.UserHandler
	Admin     *handler.AdminHandler
}

// New 创建并配置gin引擎
// limiter为nil时不限流
func New(cfg *config.Config, log *zap.Logger, limiter *middleware.RateLimiter, h *Handlers) *gin.Engine {
	// 1. 运行模式
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	// 2. 自定义校验规则(dateonly、notblank)
	validator.Register()

	// 3. 全局中间件
	// Recovery放在最外层,RequestID先于Logger,保证日志和错误响应都带request_id
	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.Logger(log),
		middleware.Metrics(),
	)

	// 4. 运维端点(不限流)
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.Mode != "release" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 5. 业务路由
	v1 := r.Group("/api/v1")
	if limiter != nil {
		v1.Use(limiter.Middleware())
	}

	books := v1.Group("/books")
	{
		books.GET("", h.Book.List)
		books.POST("", h.Book.Create)
		books.GET("/cursor", h.Book.Cursor)
		books.GET("/expensive", h.Book.Expensive)
		books.GET("/:id", h.Book.Get)
		books.PUT("/:id", h.Book.Put)
		books.PATCH("/:id", h.Book.Patch)
		books.DELETE("/:id", h.Book.Delete)
		// :id位置上是年份,gin要求同一层级的参数同名
		books.GET("/:id/:month/:day", h.Book.ByDate)
	}

	genres := v1.Group("/genres")
	{
		genres.GET("", h.Genre.List)
		genres.POST("", h.Genre.Create)
		genres.GET("/statistic", h.Genre.Statistic)
		genres.GET("/:id", h.Genre.Get)
		genres.PUT("/:id", h.Genre.Put)
		genres.PATCH("/:id", h.Genre.Patch)
		genres.DELETE("/:id", h.Genre.Delete)
	}

	publishers := v1.Group("/publishers")
	{
		publishers.GET("", h.Publisher.List)
		publishers.POST("", h.Publisher.Create)
		publishers.GET("/:id", h.Publisher.Get)
	}

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.GET("/:id", h.User.Get)
	}

	admin := v1.Group("/admin")
	{
		admin.GET("/books", h.Admin.ListBooks)
		admin.POST("/books/:id/restore", h.Admin.RestoreBook)
	}

	return r
}

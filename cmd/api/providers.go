package main

import (
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
)

// provideRateLimiter 按配置创建限流器
// rate_limit.enabled=false时返回nil,路由不挂限流中间件
func provideRateLimiter(cfg *config.Config) (*middleware.RateLimiter, func()) {
	if !cfg.RateLimit.Enabled {
		return nil, func() {}
	}
	rl := middleware.NewRateLimiter(cfg.RateLimit)
	return rl, rl.Stop
}

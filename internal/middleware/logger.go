package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 请求日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// 静态资源和健康检查不记日志
		if strings.HasPrefix(path, "/static") || path == "/health" {
			c.Next()
			return
		}

		// 处理请求
		c.Next()

		// 记录日志
		latency := time.Since(start)
		status := c.Writer.Status()

		log.Printf("[%s] %s %s %d %v",
			c.Request.Method,
			path,
			c.ClientIP(),
			status,
			latency,
		)

		// 远端网关超时是 2 秒，超过它说明详情页聚合出了问题
		if latency > 3*time.Second {
			log.Printf("[Slow] %s %s 耗时 %v", c.Request.Method, path, latency)
		}
	}
}

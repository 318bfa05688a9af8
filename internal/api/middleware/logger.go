package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"course-review/pkg/logger"
)

// Logger 请求日志中间件
// 使用 RequestID 写入的请求级 logger，未挂载时回退到 base
func Logger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", statusCode),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if uid, ok := c.Get(ContextUserID); ok {
			fields = append(fields, zap.Any("user_id", uid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		l := logger.FromContext(c.Request.Context(), base)
		switch {
		case statusCode >= 500:
			l.Error("请求处理失败", fields...)
		case statusCode >= 400:
			l.Warn("客户端错误", fields...)
		default:
			l.Info("请求完成", fields...)
		}
	}
}

package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// Recovery 捕获handler中的panic,记录堆栈并返回统一的500响应
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			log.Error("panic recovered",
				zap.Any("panic", r),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.ByteString("stack", debug.Stack()),
			)

			// 响应已经开始写出时只能中断
			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.AbortWithError(c, apperrors.WithCause(apperrors.ErrInternal, fmt.Errorf("panic: %v", r)))
		}()
		c.Next()
	}
}

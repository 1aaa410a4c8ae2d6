package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"school-calendar/pkg/response"
)

// DefaultBodyLimit JSON 接口的请求体上限
const DefaultBodyLimit int64 = 1 << 20

// BodyLimit 请求体大小限制中间件
// 按路由组挂载：JSON 接口使用 DefaultBodyLimit，ICS 上传使用配置的 calendar.max_upload_bytes
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}

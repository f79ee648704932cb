package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader はリクエストIDを運ぶHTTPヘッダー。
	RequestIDHeader = "X-Request-ID"
	// requestIDKey はGinコンテキストにリクエストIDを格納するキー。
	requestIDKey = "request_id"
)

// RequestID は各リクエストにリクエストIDを付与するGinミドルウェアを返す。
// 受信したX-Request-IDがあれば再利用し、無ければUUIDを生成する。
// レスポンスヘッダーにも同じ値を設定する。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID はGinコンテキストからリクエストIDを取得する。未設定なら空文字列。
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

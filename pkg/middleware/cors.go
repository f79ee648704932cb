package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AllOrigins は全オリジンを許可する指定。
const AllOrigins = "*"

// CORS は指定されたオリジンからのクロスオリジンリクエストを許可するGinミドルウェアを返す。
// allowedOriginsに "*" を含めると全オリジンを許可し、Access-Control-Allow-Originに "*" を返す。
// allowedMethodsが空の場合はGETのみを許可する。
func CORS(allowedOrigins, allowedMethods []string) gin.HandlerFunc {
	wildcard := false
	originsSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == AllOrigins {
			wildcard = true
			continue
		}
		originsSet[o] = struct{}{}
	}

	if len(allowedMethods) == 0 {
		allowedMethods = []string{http.MethodGet}
	}
	methods := strings.Join(allowedMethods, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			allowOrigin := ""
			if wildcard {
				allowOrigin = AllOrigins
			} else if _, ok := originsSet[origin]; ok {
				allowOrigin = origin
				c.Header("Vary", "Origin")
			}
			if allowOrigin != "" {
				c.Header("Access-Control-Allow-Origin", allowOrigin)
				c.Header("Access-Control-Allow-Methods", methods)
				c.Header("Access-Control-Allow-Headers", "Content-Type")
				c.Header("Access-Control-Max-Age", "86400")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

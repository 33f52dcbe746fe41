package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"go-music-api/internal/core/auth"
	resp "go-music-api/internal/transport/http/response"
)

const keyPrincipal = "principal"

// OptionalJWT 无 token 视为匿名；带了 token 但无效一律 401
func OptionalJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := strings.TrimSpace(c.GetHeader("Authorization"))
		if ah == "" {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(ah, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			resp.Abort(c, resp.CodeUnauthorized, "malformed authorization header")
			return
		}
		claims, err := j.Parse(strings.TrimSpace(raw))
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "invalid or expired token")
			return
		}
		SetPrincipal(c, auth.FromClaims(claims))
		c.Next()
	}
}

// SetPrincipal 同时写入 gin 上下文与请求 ctx
func SetPrincipal(c *gin.Context, p *auth.Principal) {
	c.Set(keyPrincipal, p)
	c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
}

// PrincipalFrom 匿名返回 nil
func PrincipalFrom(c *gin.Context) *auth.Principal {
	if v, ok := c.Get(keyPrincipal); ok {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}

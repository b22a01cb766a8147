package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mess-web/internal/domain"
	"mess-web/internal/session"
	resp "mess-web/internal/transport/http/response"
)

// LoadSession 有 token 就解析放进 context，没有也放行。
// 公共路由也挂它，让访问日志能带上 uid。
func LoadSession(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := m.Resolve(c); claims != nil {
			session.Put(c, claims)
		}
		c.Next()
	}
}

// RequireAuth 未登录 401；被踢的用户直接挡在门口
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := session.FromContext(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "please log in"))
			return
		}
		if claims.IsKicked {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "account suspended"))
			return
		}
		c.Next()
	}
}

// RequireRole 角色门：admin/manager/member 各自的看板和动作互不可见
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := session.FromContext(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "please log in"))
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, ""))
	}
}

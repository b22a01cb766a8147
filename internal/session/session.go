// Package session 管两枚 auth cookie 和"当前用户是谁"。
// 身份不回源：直接解 accessToken 里的 JWT，解不开就当未登录，不报错。
package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mess-web/internal/core/auth"
)

const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"

	// ctxKey gin context 里存放已解析 Claims 的键
	ctxKey = "session.claims"
)

type Manager struct {
	jwter  *auth.JWTer
	domain string
	secure bool
	maxAge int
}

func NewManager(jwter *auth.JWTer, cookieDomain string, secure bool) *Manager {
	return &Manager{
		jwter:  jwter,
		domain: cookieDomain,
		secure: secure,
		maxAge: int((7 * 24 * 3600)), // 和后端 refresh token 周期对齐
	}
}

func (m *Manager) SetTokens(c *gin.Context, access, refresh string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieAccessToken, access, m.maxAge, "/", m.domain, m.secure, true)
	if refresh != "" {
		c.SetCookie(CookieRefreshToken, refresh, m.maxAge, "/", m.domain, m.secure, true)
	}
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetCookie(CookieAccessToken, "", -1, "/", m.domain, m.secure, true)
	c.SetCookie(CookieRefreshToken, "", -1, "/", m.domain, m.secure, true)
}

// Token cookie 优先，其次 Authorization 头（裸 token 或 Bearer 都收）
func (m *Manager) Token(c *gin.Context) string {
	if tok, err := c.Cookie(CookieAccessToken); err == nil && tok != "" {
		return tok
	}
	ah := c.GetHeader("Authorization")
	return strings.TrimPrefix(ah, "Bearer ")
}

// Resolve 凭 token 还原当前用户；没有或坏 token 返回 nil
func (m *Manager) Resolve(c *gin.Context) *auth.Claims {
	tok := m.Token(c)
	if tok == "" {
		return nil
	}
	claims, err := m.jwter.Parse(tok)
	if err != nil {
		return nil
	}
	return claims
}

func Put(c *gin.Context, claims *auth.Claims) { c.Set(ctxKey, claims) }

func FromContext(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ctxKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

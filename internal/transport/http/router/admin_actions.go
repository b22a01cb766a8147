package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mess-web/internal/core/cache"
	"mess-web/internal/domain"
	"mess-web/internal/session"
	"mess-web/internal/transport/http/ez"
	mdw "mess-web/internal/transport/http/middleware"
	"mess-web/internal/upstream"
)

// AdminModule 用户治理：名单、踢人/恢复、升 manager、总量统计。
// 全部动作只对 admin 开放。
type AdminModule struct {
	Up       *upstream.Client
	Sessions *session.Manager
	Cache    *cache.Cache
}

func (m *AdminModule) Mount(api *gin.RouterGroup) {
	// 整组挂角色门，动作里就不再重复校验（分组已走中间件）
	admin := api.Group("/admin", mdw.RequireRole(domain.RoleAdmin))
	e := ez.New(admin, m.Cache)

	// 用户名单走读缓存（tag: user），踢人/恢复/升职会推进版本
	ez.RegisterAction[struct{}, []domain.User](e, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			claims := session.FromContext(c)
			token := m.Sessions.Token(c)
			users, err := cache.GetOrLoadJSON[[]domain.User](m.Cache, c.Request.Context(),
				"user", "list:"+claims.UID, listTTL,
				func(ctx context.Context) (*[]domain.User, error) {
					data, err := fromEnvelope(m.Up.ListUsers(ctx, token))
					if err != nil {
						return nil, err
					}
					return &data, nil
				})
			if err != nil {
				return nil, err
			}
			if users == nil {
				return []domain.User{}, nil
			}
			return *users, nil
		},
	})

	// 踢出/恢复是两个动作：前端按 isKicked 二选一展示，这里二者都收
	userAction := func(path string, call func(ctx context.Context, token, id string) (*upstream.Envelope[domain.User], error)) {
		ez.RegisterAction[struct{}, domain.User](e, ez.Action[struct{}, domain.User]{
			Method:      http.MethodPost,
			Path:        path,
			Binder:      ez.BindNone,
			Invalidates: []string{"user"},
			Handler: func(c *gin.Context, _ *struct{}) (domain.User, error) {
				id := c.Param("id")
				if id == "" {
					return domain.User{}, ez.BadRequest("missing user id")
				}
				return fromEnvelope(call(c.Request.Context(), m.Sessions.Token(c), id))
			},
		})
	}
	userAction("/users/:id/kick", m.Up.KickUser)
	userAction("/users/:id/unkick", m.Up.UnkickUser)
	userAction("/users/:id/assign-manager", m.Up.AssignManager)

	ez.RegisterAction[struct{}, domain.AdminStats](e, ez.Action[struct{}, domain.AdminStats]{
		Method: http.MethodGet,
		Path:   "/stats",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (domain.AdminStats, error) {
			return fromEnvelope(m.Up.AdminState(c.Request.Context(), m.Sessions.Token(c)))
		},
	})
}

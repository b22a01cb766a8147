package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mess-web/internal/core/cache"
	"mess-web/internal/domain"
	"mess-web/internal/session"
	"mess-web/internal/transport/http/ez"
	"mess-web/internal/upstream"
	"mess-web/internal/validator"
	"mess-web/pkg/utils"
)

// BazarModule 采购记录：member 建单/改单，manager 核销，各角色查历史
type BazarModule struct {
	Up       *upstream.Client
	Sessions *session.Manager
	Cache    *cache.Cache
}

type bazarItemIn struct {
	Name     string  `json:"name" validate:"required,notblank"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"price" validate:"gte=0"`
	Category string  `json:"category" validate:"omitempty"`
}

type bazarCreateIn struct {
	Date  string        `json:"date" validate:"required"`
	Note  string        `json:"note" validate:"omitempty,max=500"`
	Items []bazarItemIn `json:"items" validate:"required,min=1,dive"`
}

func toDomainItems(in []bazarItemIn) []domain.BazarItem {
	out := make([]domain.BazarItem, len(in))
	for i, it := range in {
		out[i] = domain.BazarItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price, Category: it.Category}
	}
	return out
}

func parseBazarDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (m *BazarModule) Mount(api *gin.RouterGroup) {
	e := ez.New(api, m.Cache)
	memberOnly := []domain.Role{domain.RoleMember}
	approvers := []domain.Role{domain.RoleAdmin, domain.RoleManager}

	// 建单：multipart，"data" 放 JSON，"file" 放采购凭证。
	// total 在这里按行合重算后发给后端，不收表单里的现成数。
	ez.RegisterAction[struct{}, domain.Bazar](e, ez.Action[struct{}, domain.Bazar]{
		Method:      http.MethodPost,
		Path:        "/messes/:id/bazars",
		Binder:      ez.BindNone,
		Auth:        true,
		Roles:       memberOnly,
		Invalidates: []string{"bazar"},
		Handler: func(c *gin.Context, _ *struct{}) (domain.Bazar, error) {
			raw := c.PostForm("data")
			if raw == "" {
				return domain.Bazar{}, ez.BadRequest("missing data field")
			}
			var in bazarCreateIn
			if err := json.Unmarshal([]byte(raw), &in); err != nil {
				return domain.Bazar{}, ez.BadRequest("malformed data field")
			}
			if err := validator.Struct(in); err != nil {
				return domain.Bazar{}, ez.BadRequest(err.Error())
			}
			date, err := parseBazarDate(in.Date)
			if err != nil {
				return domain.Bazar{}, ez.BadRequest("date must be RFC3339 or YYYY-MM-DD")
			}

			items := toDomainItems(in.Items)
			payload := upstream.BazarPayload{
				Date:  date,
				Note:  in.Note,
				Items: items,
				Total: utils.BazarTotal(items),
			}

			var proof *upstream.Upload
			if fh, err := c.FormFile("file"); err == nil {
				f, err := fh.Open()
				if err != nil {
					return domain.Bazar{}, ez.BadRequest("unreadable proof upload")
				}
				defer f.Close()
				proof = &upstream.Upload{Filename: fh.Filename, Content: f}
			}

			return fromEnvelope(m.Up.CreateBazar(c.Request.Context(), m.Sessions.Token(c), c.Param("id"), payload, proof))
		},
	})

	type itemActionIn struct {
		BazarID string      `json:"bazarId" validate:"required"`
		Item    bazarItemIn `json:"item" validate:"required"`
	}
	itemCall := func(path, method string, call func(ctx context.Context, token, messID string, in upstream.ItemInput) (*upstream.Envelope[domain.Bazar], error)) {
		ez.RegisterAction[itemActionIn, domain.Bazar](e, ez.Action[itemActionIn, domain.Bazar]{
			Method:      method,
			Path:        path,
			Binder:      ez.BindJSON,
			Auth:        true,
			Roles:       memberOnly,
			Invalidates: []string{"bazar"},
			Handler: func(c *gin.Context, in *itemActionIn) (domain.Bazar, error) {
				if err := validator.Struct(in); err != nil {
					return domain.Bazar{}, ez.BadRequest(err.Error())
				}
				return fromEnvelope(call(c.Request.Context(), m.Sessions.Token(c), c.Param("id"), upstream.ItemInput{
					BazarID: in.BazarID,
					Item: domain.BazarItem{
						Name: in.Item.Name, Quantity: in.Item.Quantity,
						Price: in.Item.Price, Category: in.Item.Category,
					},
				}))
			},
		})
	}
	itemCall("/messes/:id/bazars/items", http.MethodPost, m.Up.AddItem)
	itemCall("/messes/:id/bazars/items", http.MethodPut, m.Up.UpdateItem)

	ez.RegisterAction[struct{}, domain.Bazar](e, ez.Action[struct{}, domain.Bazar]{
		Method:      http.MethodDelete,
		Path:        "/messes/:id/bazars/items",
		Binder:      ez.BindNone,
		Auth:        true,
		Roles:       memberOnly,
		Invalidates: []string{"bazar"},
		Handler: func(c *gin.Context, _ *struct{}) (domain.Bazar, error) {
			return fromEnvelope(m.Up.DeleteItem(c.Request.Context(), m.Sessions.Token(c), c.Param("id")))
		},
	})

	// 核销：只有 manager/admin 能按，方向单一（pending -> approved）。
	// 已核销的记录不会再出现在审批队列里，这里不做二次拦截，后端说了算。
	ez.RegisterAction[struct{}, domain.Bazar](e, ez.Action[struct{}, domain.Bazar]{
		Method:      http.MethodPost,
		Path:        "/bazars/:id/approve",
		Binder:      ez.BindNone,
		Auth:        true,
		Roles:       approvers,
		Invalidates: []string{"bazar"},
		Handler: func(c *gin.Context, _ *struct{}) (domain.Bazar, error) {
			return fromEnvelope(m.Up.ChangeStatus(c.Request.Context(), m.Sessions.Token(c), c.Param("id")))
		},
	})

	ez.RegisterAction[struct{}, []domain.Bazar](e, ez.Action[struct{}, []domain.Bazar]{
		Method: http.MethodGet,
		Path:   "/messes/:id/bazars",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Bazar, error) {
			messID := c.Param("id")
			token := m.Sessions.Token(c)
			bazars, err := cache.GetOrLoadJSON[[]domain.Bazar](m.Cache, c.Request.Context(),
				"bazar", "mess:"+messID, listTTL,
				func(ctx context.Context) (*[]domain.Bazar, error) {
					data, err := fromEnvelope(m.Up.ListMessBazars(ctx, token, messID))
					if err != nil {
						return nil, err
					}
					return &data, nil
				})
			if err != nil {
				return nil, err
			}
			if bazars == nil {
				return []domain.Bazar{}, nil
			}
			return *bazars, nil
		},
	})

	ez.RegisterAction[struct{}, []domain.Bazar](e, ez.Action[struct{}, []domain.Bazar]{
		Method: http.MethodGet,
		Path:   "/bazars",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Bazar, error) {
			claims := session.FromContext(c)
			token := m.Sessions.Token(c)
			bazars, err := cache.GetOrLoadJSON[[]domain.Bazar](m.Cache, c.Request.Context(),
				"bazar", "all:"+claims.UID, listTTL,
				func(ctx context.Context) (*[]domain.Bazar, error) {
					data, err := fromEnvelope(m.Up.ListAllBazars(ctx, token))
					if err != nil {
						return nil, err
					}
					return &data, nil
				})
			if err != nil {
				return nil, err
			}
			if bazars == nil {
				return []domain.Bazar{}, nil
			}
			return *bazars, nil
		},
	})
}

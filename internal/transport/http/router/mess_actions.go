package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mess-web/internal/core/cache"
	"mess-web/internal/domain"
	"mess-web/internal/session"
	"mess-web/internal/transport/http/ez"
	"mess-web/internal/upstream"
	"mess-web/internal/validator"
)

type MessModule struct {
	Up       *upstream.Client
	Sessions *session.Manager
	Cache    *cache.Cache
}

func (m *MessModule) Mount(api *gin.RouterGroup) {
	e := ez.New(api, m.Cache)
	adminOnly := []domain.Role{domain.RoleAdmin}
	managers := []domain.Role{domain.RoleAdmin, domain.RoleManager}

	type messIn struct {
		Name          string  `json:"name" validate:"required,min=2"`
		Address       string  `json:"address" validate:"required,notblank"`
		MonthlyBudget float64 `json:"monthlyBudget" validate:"gte=0"`
	}
	ez.RegisterAction[messIn, domain.Mess](e, ez.Action[messIn, domain.Mess]{
		Method:      http.MethodPost,
		Path:        "/messes",
		Binder:      ez.BindJSON,
		Auth:        true,
		Roles:       adminOnly,
		Invalidates: []string{"mess"},
		Handler: func(c *gin.Context, in *messIn) (domain.Mess, error) {
			if err := validator.Struct(in); err != nil {
				return domain.Mess{}, ez.BadRequest(err.Error())
			}
			return fromEnvelope(m.Up.CreateMess(c.Request.Context(), m.Sessions.Token(c), upstream.MessInput{
				Name: in.Name, Address: in.Address, MonthlyBudget: in.MonthlyBudget,
			}))
		},
	})

	ez.RegisterAction[struct{}, []domain.Mess](e, ez.Action[struct{}, []domain.Mess]{
		Method: http.MethodGet,
		Path:   "/messes",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Mess, error) {
			claims := session.FromContext(c)
			token := m.Sessions.Token(c)
			messes, err := cache.GetOrLoadJSON[[]domain.Mess](m.Cache, c.Request.Context(),
				"mess", "list:"+claims.UID, listTTL,
				func(ctx context.Context) (*[]domain.Mess, error) {
					data, err := fromEnvelope(m.Up.ListMess(ctx, token))
					if err != nil {
						return nil, err
					}
					return &data, nil
				})
			if err != nil {
				return nil, err
			}
			if messes == nil {
				return []domain.Mess{}, nil
			}
			return *messes, nil
		},
	})

	ez.RegisterAction[struct{}, domain.Mess](e, ez.Action[struct{}, domain.Mess]{
		Method: http.MethodGet,
		Path:   "/messes/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Mess, error) {
			return fromEnvelope(m.Up.GetMess(c.Request.Context(), m.Sessions.Token(c), c.Param("id")))
		},
	})

	type messPatch struct {
		Name          string  `json:"name" validate:"omitempty,min=2"`
		Address       string  `json:"address" validate:"omitempty,notblank"`
		MonthlyBudget float64 `json:"monthlyBudget" validate:"omitempty,gte=0"`
	}
	ez.RegisterAction[messPatch, domain.Mess](e, ez.Action[messPatch, domain.Mess]{
		Method:      http.MethodPatch,
		Path:        "/messes/:id",
		Binder:      ez.BindJSON,
		Auth:        true,
		Roles:       managers,
		Invalidates: []string{"mess"},
		Handler: func(c *gin.Context, in *messPatch) (domain.Mess, error) {
			if err := validator.Struct(in); err != nil {
				return domain.Mess{}, ez.BadRequest(err.Error())
			}
			return fromEnvelope(m.Up.UpdateMess(c.Request.Context(), m.Sessions.Token(c), c.Param("id"), upstream.MessInput{
				Name: in.Name, Address: in.Address, MonthlyBudget: in.MonthlyBudget,
			}))
		},
	})

	ez.RegisterAction[struct{}, domain.Mess](e, ez.Action[struct{}, domain.Mess]{
		Method:      http.MethodDelete,
		Path:        "/messes/:id",
		Binder:      ez.BindNone,
		Auth:        true,
		Roles:       adminOnly,
		Invalidates: []string{"mess"},
		Handler: func(c *gin.Context, _ *struct{}) (domain.Mess, error) {
			return fromEnvelope(m.Up.DeleteMess(c.Request.Context(), m.Sessions.Token(c), c.Param("id")))
		},
	})

	type inviteIn struct {
		Email string `json:"email" validate:"required,email"`
	}
	ez.RegisterAction[inviteIn, domain.Mess](e, ez.Action[inviteIn, domain.Mess]{
		Method:      http.MethodPost,
		Path:        "/messes/:id/invite",
		Binder:      ez.BindJSON,
		Auth:        true,
		Roles:       managers,
		Invalidates: []string{"mess"},
		Handler: func(c *gin.Context, in *inviteIn) (domain.Mess, error) {
			if err := validator.Struct(in); err != nil {
				return domain.Mess{}, ez.BadRequest(err.Error())
			}
			return fromEnvelope(m.Up.InviteToMess(c.Request.Context(), m.Sessions.Token(c), c.Param("id"),
				upstream.InviteInput{Email: in.Email}))
		},
	})

	type shiftIn struct {
		UserID string `json:"userId" validate:"required"`
	}
	ez.RegisterAction[shiftIn, domain.Mess](e, ez.Action[shiftIn, domain.Mess]{
		Method:      http.MethodPost,
		Path:        "/messes/:id/shift-manager",
		Binder:      ez.BindJSON,
		Auth:        true,
		Roles:       managers,
		Invalidates: []string{"mess"},
		Handler: func(c *gin.Context, in *shiftIn) (domain.Mess, error) {
			if err := validator.Struct(in); err != nil {
				return domain.Mess{}, ez.BadRequest(err.Error())
			}
			return fromEnvelope(m.Up.ShiftManager(c.Request.Context(), m.Sessions.Token(c), c.Param("id"),
				upstream.ShiftManagerInput{UserID: in.UserID}))
		},
	})

	type removeIn struct {
		UserID string `json:"userId" validate:"required"`
	}
	ez.RegisterAction[removeIn, domain.Mess](e, ez.Action[removeIn, domain.Mess]{
		Method:      http.MethodPost,
		Path:        "/messes/:id/remove-member",
		Binder:      ez.BindJSON,
		Auth:        true,
		Roles:       managers,
		Invalidates: []string{"mess"},
		Handler: func(c *gin.Context, in *removeIn) (domain.Mess, error) {
			if err := validator.Struct(in); err != nil {
				return domain.Mess{}, ez.BadRequest(err.Error())
			}
			return fromEnvelope(m.Up.RemoveMember(c.Request.Context(), m.Sessions.Token(c),
				upstream.RemoveMemberInput{MessID: c.Param("id"), UserID: in.UserID}))
		},
	})
}

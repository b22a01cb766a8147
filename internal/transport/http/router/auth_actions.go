package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mess-web/internal/core/cache"
	"mess-web/internal/domain"
	"mess-web/internal/session"
	"mess-web/internal/transport/http/ez"
	"mess-web/internal/upstream"
	"mess-web/internal/validator"
)

type AuthModule struct {
	Up       *upstream.Client
	Sessions *session.Manager
	Cache    *cache.Cache
}

// Priority 先挂登录注册，其他模块都指望会话在
func (m *AuthModule) Priority() int { return 10 }

func (m *AuthModule) Mount(api *gin.RouterGroup) {
	e := ez.New(api, m.Cache)

	type loginIn struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	ez.RegisterAction[loginIn, upstream.TokenPair](e, ez.Action[loginIn, upstream.TokenPair]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (upstream.TokenPair, error) {
			if err := validator.Struct(in); err != nil {
				return upstream.TokenPair{}, ez.BadRequest(err.Error())
			}
			pair, err := fromEnvelope(m.Up.Login(c.Request.Context(), upstream.Credentials{
				Email: in.Email, Password: in.Password,
			}))
			if err != nil {
				return upstream.TokenPair{}, err
			}
			m.Sessions.SetTokens(c, pair.AccessToken, pair.RefreshToken)
			return pair, nil
		},
	})

	// 注册走 multipart：字段 + 可选头像
	ez.RegisterAction[struct{}, domain.User](e, ez.Action[struct{}, domain.User]{
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Binder:      ez.BindNone,
		Invalidates: []string{"user"},
		Handler: func(c *gin.Context, _ *struct{}) (domain.User, error) {
			form := upstream.RegisterForm{
				Name:     c.PostForm("name"),
				Email:    c.PostForm("email"),
				Password: c.PostForm("password"),
			}
			type registerIn struct {
				Name     string `validate:"required,min=2"`
				Email    string `validate:"required,email"`
				Password string `validate:"required,min=6"`
			}
			if err := validator.Struct(registerIn(form)); err != nil {
				return domain.User{}, ez.BadRequest(err.Error())
			}

			var photo *upstream.Upload
			if fh, err := c.FormFile("file"); err == nil {
				f, err := fh.Open()
				if err != nil {
					return domain.User{}, ez.BadRequest("unreadable photo upload")
				}
				defer f.Close()
				photo = &upstream.Upload{Filename: fh.Filename, Content: f}
			}
			return fromEnvelope(m.Up.Register(c.Request.Context(), form, photo))
		},
	})

	ez.RegisterAction[struct{}, gin.H](e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			m.Sessions.Clear(c)
			return gin.H{"loggedOut": true}, nil
		},
	})

	// 当前用户：会话身份从 token 解出，资料本身回源拿最新
	ez.RegisterAction[struct{}, domain.User](e, ez.Action[struct{}, domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.User, error) {
			return fromEnvelope(m.Up.CurrentUser(c.Request.Context(), m.Sessions.Token(c)))
		},
	})

	type profileIn struct {
		Name  string `json:"name" validate:"omitempty,min=2"`
		Email string `json:"email" validate:"omitempty,email"`
		Photo string `json:"photo" validate:"omitempty"`
	}
	ez.RegisterAction[profileIn, domain.User](e, ez.Action[profileIn, domain.User]{
		Method:      http.MethodPut,
		Path:        "/me",
		Binder:      ez.BindJSON,
		Auth:        true,
		Invalidates: []string{"user"},
		Handler: func(c *gin.Context, in *profileIn) (domain.User, error) {
			if err := validator.Struct(in); err != nil {
				return domain.User{}, ez.BadRequest(err.Error())
			}
			return fromEnvelope(m.Up.UpdateUser(c.Request.Context(), m.Sessions.Token(c), upstream.UpdateUserInput{
				Name: in.Name, Email: in.Email, Photo: in.Photo,
			}))
		},
	})
}

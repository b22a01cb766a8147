package upstream

import (
	"context"
	"net/http"

	"mess-web/internal/domain"
)

// TokenPair 登录成功后下发的两枚 token，网关写进 cookie
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterForm struct {
	Name     string
	Email    string
	Password string
}

type UpdateUserInput struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Photo string `json:"photo,omitempty"`
}

func (c *Client) Login(ctx context.Context, in Credentials) (*Envelope[TokenPair], error) {
	return doJSON[TokenPair](ctx, c, http.MethodPost, "/auth/login", "", in)
}

// Register 走 multipart：字段 + 可选头像
func (c *Client) Register(ctx context.Context, in RegisterForm, photo *Upload) (*Envelope[domain.User], error) {
	fields := map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	}
	files := map[string]*Upload{}
	if photo != nil {
		files["file"] = photo
	}
	return doMultipart[domain.User](ctx, c, http.MethodPost, "/auth/register", "", fields, files)
}

func (c *Client) CurrentUser(ctx context.Context, token string) (*Envelope[domain.User], error) {
	return doJSON[domain.User](ctx, c, http.MethodGet, "/auth/user", token, nil)
}

func (c *Client) UpdateUser(ctx context.Context, token string, in UpdateUserInput) (*Envelope[domain.User], error) {
	return doJSON[domain.User](ctx, c, http.MethodPut, "/auth/user/update", token, in)
}

func (c *Client) ListUsers(ctx context.Context, token string) (*Envelope[[]domain.User], error) {
	return doJSON[[]domain.User](ctx, c, http.MethodGet, "/auth/users", token, nil)
}

func (c *Client) KickUser(ctx context.Context, token, userID string) (*Envelope[domain.User], error) {
	return doJSON[domain.User](ctx, c, http.MethodPost, "/auth/kick/"+userID, token, nil)
}

func (c *Client) UnkickUser(ctx context.Context, token, userID string) (*Envelope[domain.User], error) {
	return doJSON[domain.User](ctx, c, http.MethodPost, "/auth/un-kick/"+userID, token, nil)
}

func (c *Client) AssignManager(ctx context.Context, token, userID string) (*Envelope[domain.User], error) {
	return doJSON[domain.User](ctx, c, http.MethodPost, "/auth/assign-manager/"+userID, token, nil)
}

func (c *Client) AdminState(ctx context.Context, token string) (*Envelope[domain.AdminStats], error) {
	return doJSON[domain.AdminStats](ctx, c, http.MethodGet, "/auth/admin-state", token, nil)
}

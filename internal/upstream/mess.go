package upstream

import (
	"context"
	"net/http"

	"mess-web/internal/domain"
)

type MessInput struct {
	Name          string  `json:"name,omitempty"`
	Address       string  `json:"address,omitempty"`
	MonthlyBudget float64 `json:"monthlyBudget,omitempty"`
}

type InviteInput struct {
	Email string `json:"email"`
}

type ShiftManagerInput struct {
	UserID string `json:"userId"`
}

type RemoveMemberInput struct {
	MessID string `json:"messId"`
	UserID string `json:"userId"`
}

func (c *Client) CreateMess(ctx context.Context, token string, in MessInput) (*Envelope[domain.Mess], error) {
	return doJSON[domain.Mess](ctx, c, http.MethodPost, "/mess/create", token, in)
}

func (c *Client) ListMess(ctx context.Context, token string) (*Envelope[[]domain.Mess], error) {
	return doJSON[[]domain.Mess](ctx, c, http.MethodGet, "/mess", token, nil)
}

func (c *Client) GetMess(ctx context.Context, token, messID string) (*Envelope[domain.Mess], error) {
	return doJSON[domain.Mess](ctx, c, http.MethodGet, "/mess/"+messID, token, nil)
}

func (c *Client) UpdateMess(ctx context.Context, token, messID string, in MessInput) (*Envelope[domain.Mess], error) {
	return doJSON[domain.Mess](ctx, c, http.MethodPatch, "/mess/update/"+messID, token, in)
}

func (c *Client) DeleteMess(ctx context.Context, token, messID string) (*Envelope[domain.Mess], error) {
	return doJSON[domain.Mess](ctx, c, http.MethodDelete, "/mess/delete/"+messID, token, nil)
}

func (c *Client) InviteToMess(ctx context.Context, token, messID string, in InviteInput) (*Envelope[domain.Mess], error) {
	return doJSON[domain.Mess](ctx, c, http.MethodPost, "/mess/invite/"+messID, token, in)
}

func (c *Client) ShiftManager(ctx context.Context, token, messID string, in ShiftManagerInput) (*Envelope[domain.Mess], error) {
	return doJSON[domain.Mess](ctx, c, http.MethodPost, "/mess/shift-manager/"+messID, token, in)
}

func (c *Client) RemoveMember(ctx context.Context, token string, in RemoveMemberInput) (*Envelope[domain.Mess], error) {
	return doJSON[domain.Mess](ctx, c, http.MethodPost, "/mess/remove-member-mess", token, in)
}

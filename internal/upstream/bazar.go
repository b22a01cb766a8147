package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mess-web/internal/domain"
)

// BazarPayload 建单的 "data" 字段内容。Total 由网关按行合计算好再发，
// 后端是否复核是它自己的事。
type BazarPayload struct {
	Date  time.Time          `json:"date"`
	Note  string             `json:"note,omitempty"`
	Items []domain.BazarItem `json:"items"`
	Total float64            `json:"total"`
}

type ItemInput struct {
	BazarID string           `json:"bazarId,omitempty"`
	Item    domain.BazarItem `json:"item"`
}

// CreateBazar multipart：JSON 负载放 "data"，凭证图片放 "file"
func (c *Client) CreateBazar(ctx context.Context, token, messID string, payload BazarPayload, proof *Upload) (*Envelope[domain.Bazar], error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	fields := map[string]string{"data": string(data)}
	files := map[string]*Upload{}
	if proof != nil {
		files["file"] = proof
	}
	return doMultipart[domain.Bazar](ctx, c, http.MethodPost, "/bazar/create/"+messID, token, fields, files)
}

func (c *Client) AddItem(ctx context.Context, token, messID string, in ItemInput) (*Envelope[domain.Bazar], error) {
	return doJSON[domain.Bazar](ctx, c, http.MethodPost, "/bazar/add-item/"+messID, token, in)
}

func (c *Client) UpdateItem(ctx context.Context, token, messID string, in ItemInput) (*Envelope[domain.Bazar], error) {
	return doJSON[domain.Bazar](ctx, c, http.MethodPut, "/bazar/update-item/"+messID, token, in)
}

func (c *Client) DeleteItem(ctx context.Context, token, messID string) (*Envelope[domain.Bazar], error) {
	return doJSON[domain.Bazar](ctx, c, http.MethodDelete, "/bazar/delete-item/"+messID, token, nil)
}

// ChangeStatus 核销。后端只认 pending -> approved 这一个方向。
func (c *Client) ChangeStatus(ctx context.Context, token, bazarID string) (*Envelope[domain.Bazar], error) {
	return doJSON[domain.Bazar](ctx, c, http.MethodPost, "/bazar/change-status/"+bazarID, token, struct{}{})
}

func (c *Client) ListMessBazars(ctx context.Context, token, messID string) (*Envelope[[]domain.Bazar], error) {
	return doJSON[[]domain.Bazar](ctx, c, http.MethodGet, "/bazar/bazar-all/"+messID, token, nil)
}

func (c *Client) ListAllBazars(ctx context.Context, token string) (*Envelope[[]domain.Bazar], error) {
	return doJSON[[]domain.Bazar](ctx, c, http.MethodGet, "/bazar/bazar-all", token, nil)
}

// ManagerBazars 当前 manager 名下各 mess 的采购记录（审批队列的数据源）
func (c *Client) ManagerBazars(ctx context.Context, token string) (*Envelope[[]domain.Bazar], error) {
	return doJSON[[]domain.Bazar](ctx, c, http.MethodGet, "/bazar/get-bazar-manager", token, nil)
}

package domain

import "time"

type BazarItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
}

// Bazar 一次采购记录。Total 由提交端按行合计算出，核销状态单向：
// pending -> approved，只有 manager/admin 能翻转。
type Bazar struct {
	ID          string      `json:"_id"`
	MessID      string      `json:"messId"`
	SubmittedBy string      `json:"submittedBy"`
	Date        time.Time   `json:"date"`
	Note        string      `json:"note,omitempty"`
	Items       []BazarItem `json:"items"`
	Total       float64     `json:"total"`
	Approved    bool        `json:"approved"`
	ApprovedBy  string      `json:"approvedBy,omitempty"`
	ProofURL    string      `json:"proof,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

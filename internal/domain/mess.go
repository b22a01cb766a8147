package domain

import "time"

// Mess 合租团体：一个 manager，若干 member，共享月度预算
type Mess struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	MonthlyBudget float64   `json:"monthlyBudget"`
	Manager       string    `json:"managers"`
	Members       []string  `json:"members"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BudgetReport manager 看板的预算对比行（按 mess 聚合）
type BudgetReport struct {
	MessID    string  `json:"messId"`
	MessName  string  `json:"messName"`
	Budget    float64 `json:"budget"`
	Spent     float64 `json:"spent"`   // 已核销 bazar 合计
	Pending   float64 `json:"pending"` // 待核销 bazar 合计
	Remaining float64 `json:"remaining"`
}

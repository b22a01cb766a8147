package utils

import (
	"math"

	"mess-web/internal/domain"
)

func LineTotal(it domain.BazarItem) float64 {
	return Round2(it.Quantity * it.Price)
}

// BazarTotal 行合相加：单据总价永远等于各行 LineTotal 之和
func BazarTotal(items []domain.BazarItem) float64 {
	var sum float64
	for _, it := range items {
		sum += LineTotal(it)
	}
	return Round2(sum)
}

// Round2 金额统一保留两位
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

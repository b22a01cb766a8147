package utils

import (
	"testing"

	"mess-web/internal/domain"
)

func TestBazarTotal(t *testing.T) {
	items := []domain.BazarItem{
		{Name: "Rice", Quantity: 2, Price: 50},
	}
	if got := BazarTotal(items); got != 100 {
		t.Fatalf("total = %v, want 100", got)
	}

	items = append(items, domain.BazarItem{Name: "Oil", Quantity: 0.5, Price: 180.5})
	if got := BazarTotal(items); got != 190.25 {
		t.Fatalf("total = %v, want 190.25", got)
	}
}

func TestBazarTotalEmpty(t *testing.T) {
	if got := BazarTotal(nil); got != 0 {
		t.Fatalf("total of no items = %v, want 0", got)
	}
}

func TestLineTotalRounds(t *testing.T) {
	it := domain.BazarItem{Name: "Lentils", Quantity: 3, Price: 33.333}
	if got := LineTotal(it); got != 100 {
		t.Fatalf("line total = %v, want 100", got)
	}
}

// 总价即行合之和，两条路径不许算出两个数
func TestBazarTotalMatchesLineSum(t *testing.T) {
	items := []domain.BazarItem{
		{Name: "Lentils", Quantity: 3, Price: 33.333},
		{Name: "Salt", Quantity: 1, Price: 42.005},
	}
	var want float64
	for _, it := range items {
		want += LineTotal(it)
	}
	want = Round2(want)
	if got := BazarTotal(items); got != want {
		t.Fatalf("total = %v, line sum = %v", got, want)
	}
}

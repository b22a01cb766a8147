package router

import (
	"net/http"
	"testing"

	"mess-web/internal/domain"
)

// 成功的变更推进自己的 tag：下一次列表读必须回源，且只回源这一次
func TestMutationInvalidatesOwnTag(t *testing.T) {
	h := newHarness(t)
	h.backend.messes = []domain.Mess{{ID: "m1", Name: "North House"}}
	admin := h.token(t, domain.RoleAdmin)

	h.do(t, http.MethodGet, "/api/v1/messes", admin, nil)
	h.do(t, http.MethodGet, "/api/v1/messes", admin, nil)
	if got := h.backend.hitCount("/mess"); got != 1 {
		t.Fatalf("upstream /mess hits after two cached reads = %d, want 1", got)
	}

	h.do(t, http.MethodGet, "/api/v1/admin/users", admin, nil)
	if got := h.backend.hitCount("/auth/users"); got != 1 {
		t.Fatalf("upstream /auth/users hits = %d, want 1", got)
	}

	w, _ := h.do(t, http.MethodPost, "/api/v1/messes", admin, jsonBody(t, map[string]any{
		"name": "East House", "address": "12 Lake Rd", "monthlyBudget": 4000,
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("create mess status = %d, body %s", w.Code, w.Body.String())
	}

	h.do(t, http.MethodGet, "/api/v1/messes", admin, nil)
	if got := h.backend.hitCount("/mess"); got != 2 {
		t.Fatalf("upstream /mess hits after invalidation = %d, want 2", got)
	}

	// 其他 tag 不受牵连
	h.do(t, http.MethodGet, "/api/v1/admin/users", admin, nil)
	if got := h.backend.hitCount("/auth/users"); got != 1 {
		t.Fatalf("upstream /auth/users hits = %d, want 1 (user tag untouched)", got)
	}
}

// 后端打回（success:false）：消息原样透出，缓存版本不动
func TestRejectedMutationKeepsCache(t *testing.T) {
	h := newHarness(t)
	h.backend.messes = []domain.Mess{{ID: "m1", Name: "North House"}}
	h.backend.rejectMessCreate = "Mess name already exists"
	admin := h.token(t, domain.RoleAdmin)

	h.do(t, http.MethodGet, "/api/v1/messes", admin, nil)

	w, e := h.do(t, http.MethodPost, "/api/v1/messes", admin, jsonBody(t, map[string]any{
		"name": "North House", "address": "12 Lake Rd", "monthlyBudget": 4000,
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("rejected create status = %d, want 400", w.Code)
	}
	if e.Success || e.Message != "Mess name already exists" {
		t.Fatalf("envelope = success:%v message:%q, want upstream message verbatim", e.Success, e.Message)
	}

	h.do(t, http.MethodGet, "/api/v1/messes", admin, nil)
	if got := h.backend.hitCount("/mess"); got != 1 {
		t.Fatalf("upstream /mess hits = %d, want 1 (cache still valid)", got)
	}
}

func TestMessMutationsGatedByRole(t *testing.T) {
	h := newHarness(t)
	member := h.token(t, domain.RoleMember)

	w, _ := h.do(t, http.MethodPost, "/api/v1/messes", member, jsonBody(t, map[string]any{
		"name": "East House", "address": "12 Lake Rd",
	}))
	if w.Code != http.StatusForbidden {
		t.Fatalf("member create mess status = %d, want 403", w.Code)
	}
	if got := h.backend.hitCount("/mess/create"); got != 0 {
		t.Fatalf("forbidden request still reached upstream (%d hits)", got)
	}
}

func TestMessCreateValidation(t *testing.T) {
	h := newHarness(t)
	admin := h.token(t, domain.RoleAdmin)

	w, e := h.do(t, http.MethodPost, "/api/v1/messes", admin, jsonBody(t, map[string]any{
		"name": "E", "address": "   ",
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid create status = %d, want 400", w.Code)
	}
	if e.Success {
		t.Fatalf("invalid create reported success")
	}
	if got := h.backend.hitCount("/mess/create"); got != 0 {
		t.Fatalf("invalid payload still reached upstream (%d hits)", got)
	}
}

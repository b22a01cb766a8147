package router

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"mess-web/internal/domain"
)

// 建单时 total 由网关按行合重算；表单里塞进来的数不算数
func TestBazarCreateRecomputesTotal(t *testing.T) {
	h := newHarness(t)
	member := h.token(t, domain.RoleMember)

	data := `{"date":"2026-08-01","note":"weekly run","total":9999,` +
		`"items":[{"name":"Rice","quantity":2,"price":50},{"name":"Oil","quantity":1,"price":210.5}]}`
	body := multipartBody(t, map[string]string{"data": data}, "file", "receipt.jpg", []byte("jpegbytes"))

	w, e := h.do(t, http.MethodPost, "/api/v1/messes/m1/bazars", member, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !e.Success {
		t.Fatalf("create failed: %s", e.Message)
	}

	got := h.backend.lastBazarPayload
	if got.Total != 310.5 {
		t.Fatalf("forwarded total = %v, want 310.5 (2x50 + 1x210.5)", got.Total)
	}
	if len(got.Items) != 2 || got.Items[0].Name != "Rice" {
		t.Fatalf("forwarded items = %+v", got.Items)
	}
	if got.Note != "weekly run" {
		t.Fatalf("forwarded note = %q", got.Note)
	}
}

func TestBazarCreateRejectsEmptyItems(t *testing.T) {
	h := newHarness(t)
	member := h.token(t, domain.RoleMember)

	body := multipartBody(t, map[string]string{"data": `{"date":"2026-08-01","items":[]}`}, "", "", nil)
	w, _ := h.do(t, http.MethodPost, "/api/v1/messes/m1/bazars", member, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := h.backend.hitCount("/bazar/create"); got != 0 {
		t.Fatalf("empty bazar still reached upstream (%d hits)", got)
	}
}

func TestBazarCreateMemberOnly(t *testing.T) {
	h := newHarness(t)
	body := multipartBody(t, map[string]string{"data": `{"date":"2026-08-01","items":[{"name":"Rice","quantity":1,"price":50}]}`}, "", "", nil)

	w, _ := h.do(t, http.MethodPost, "/api/v1/messes/m1/bazars", h.token(t, domain.RoleManager), body)
	if w.Code != http.StatusForbidden {
		t.Fatalf("manager create bazar status = %d, want 403", w.Code)
	}
}

// 被踢的用户连动作路由都进不来，哪怕角色本来够格
func TestKickedSessionBlockedOnActions(t *testing.T) {
	h := newHarness(t)
	kickedMember, err := h.jwter.Issue(domain.User{ID: "u-out", Role: domain.RoleMember, IsKicked: true})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	kickedManager, err := h.jwter.Issue(domain.User{ID: "u-out2", Role: domain.RoleManager, IsKicked: true})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	body := multipartBody(t, map[string]string{"data": `{"date":"2026-08-01","items":[{"name":"Rice","quantity":2,"price":50}]}`}, "", "", nil)
	w, e := h.do(t, http.MethodPost, "/api/v1/messes/m1/bazars", kickedMember, body)
	if w.Code != http.StatusForbidden {
		t.Fatalf("kicked member create bazar status = %d, want 403", w.Code)
	}
	if !strings.Contains(e.Message, "suspended") {
		t.Fatalf("message = %q, want suspension notice", e.Message)
	}
	if got := h.backend.hitCount("/bazar/create"); got != 0 {
		t.Fatalf("kicked member still reached upstream (%d hits)", got)
	}

	if w, _ := h.do(t, http.MethodPost, "/api/v1/bazars/b1/approve", kickedManager, nil); w.Code != http.StatusForbidden {
		t.Fatalf("kicked manager approve status = %d, want 403", w.Code)
	}
	if got := h.backend.hitCount("/bazar/change-status"); got != 0 {
		t.Fatalf("kicked manager still reached upstream (%d hits)", got)
	}

	if w, _ := h.do(t, http.MethodGet, "/api/v1/me", kickedMember, nil); w.Code != http.StatusForbidden {
		t.Fatalf("kicked member /me status = %d, want 403", w.Code)
	}
	if got := h.backend.hitCount("/auth/user"); got != 0 {
		t.Fatalf("kicked member /me still reached upstream (%d hits)", got)
	}
}

func TestApproveRequiresManagerOrAdmin(t *testing.T) {
	h := newHarness(t)

	w, _ := h.do(t, http.MethodPost, "/api/v1/bazars/b1/approve", h.token(t, domain.RoleMember), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("member approve status = %d, want 403", w.Code)
	}
	if got := h.backend.hitCount("/bazar/change-status"); got != 0 {
		t.Fatalf("forbidden approve still reached upstream (%d hits)", got)
	}

	w, e := h.do(t, http.MethodPost, "/api/v1/bazars/b1/approve", h.token(t, domain.RoleManager), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("manager approve status = %d, body %s", w.Code, w.Body.String())
	}
	var bz domain.Bazar
	if err := json.Unmarshal(e.Data, &bz); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !bz.Approved {
		t.Fatalf("approved flag not set in response")
	}
	if got := h.backend.hitCount("/bazar/change-status"); got != 1 {
		t.Fatalf("upstream change-status hits = %d, want 1", got)
	}
}

// 核销推进 bazar tag：同一 mess 的列表读缓存随之失效
func TestApproveInvalidatesBazarLists(t *testing.T) {
	h := newHarness(t)
	h.backend.bazars = []domain.Bazar{{ID: "b1", MessID: "m1", Total: 100}}
	manager := h.token(t, domain.RoleManager)

	h.do(t, http.MethodGet, "/api/v1/messes/m1/bazars", manager, nil)
	h.do(t, http.MethodGet, "/api/v1/messes/m1/bazars", manager, nil)
	if got := h.backend.hitCount("/bazar/bazar-all/m1"); got != 1 {
		t.Fatalf("upstream list hits before approve = %d, want 1", got)
	}

	if w, _ := h.do(t, http.MethodPost, "/api/v1/bazars/b1/approve", manager, nil); w.Code != http.StatusOK {
		t.Fatalf("approve status = %d", w.Code)
	}

	h.do(t, http.MethodGet, "/api/v1/messes/m1/bazars", manager, nil)
	if got := h.backend.hitCount("/bazar/bazar-all/m1"); got != 2 {
		t.Fatalf("upstream list hits after approve = %d, want 2", got)
	}
}

func TestAllBazarsAdminOnly(t *testing.T) {
	h := newHarness(t)

	if w, _ := h.do(t, http.MethodGet, "/api/v1/bazars", h.token(t, domain.RoleMember), nil); w.Code != http.StatusForbidden {
		t.Fatalf("member list-all status = %d, want 403", w.Code)
	}
	if w, _ := h.do(t, http.MethodGet, "/api/v1/bazars", h.token(t, domain.RoleAdmin), nil); w.Code != http.StatusOK {
		t.Fatalf("admin list-all status = %d", w.Code)
	}
}

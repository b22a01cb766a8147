package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mess-web/internal/core/auth"
	"mess-web/internal/core/cache"
	"mess-web/internal/domain"
	"mess-web/internal/session"
	"mess-web/internal/upstream"
)

// fakeBackend 假扮业务后端：记每个路径被打了几次，响应可按需调成拒绝
type fakeBackend struct {
	mu   sync.Mutex
	hits map[string]int

	users         []domain.User
	messes        []domain.Mess
	bazars        []domain.Bazar
	managerBazars []domain.Bazar

	rejectMessCreate string // 非空则 /mess/create 回 success:false + 该消息

	lastBazarPayload upstream.BazarPayload
}

func (f *fakeBackend) count(path string) {
	f.mu.Lock()
	f.hits[path]++
	f.mu.Unlock()
}

func (f *fakeBackend) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func ok(w http.ResponseWriter, data any) {
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "", "data": data})
}

func rejected(w http.ResponseWriter, msg string) {
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}

func (f *fakeBackend) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.count("/auth/login")
		ok(w, map[string]string{"accessToken": "acc-token", "refreshToken": "ref-token"})
	})
	mux.HandleFunc("GET /auth/user", func(w http.ResponseWriter, r *http.Request) {
		f.count("/auth/user")
		ok(w, domain.User{ID: "self", Name: "Self", Email: "self@mess.io"})
	})
	mux.HandleFunc("GET /auth/users", func(w http.ResponseWriter, r *http.Request) {
		f.count("/auth/users")
		ok(w, f.users)
	})
	mux.HandleFunc("GET /auth/admin-state", func(w http.ResponseWriter, r *http.Request) {
		f.count("/auth/admin-state")
		ok(w, domain.AdminStats{TotalUser: 5, TotalBazar: 10, TotalMess: 2})
	})
	mux.HandleFunc("POST /auth/kick/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.count("/auth/kick")
		ok(w, domain.User{ID: r.PathValue("id"), IsKicked: true})
	})
	mux.HandleFunc("POST /auth/un-kick/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.count("/auth/un-kick")
		ok(w, domain.User{ID: r.PathValue("id"), IsKicked: false})
	})

	mux.HandleFunc("GET /mess", func(w http.ResponseWriter, r *http.Request) {
		f.count("/mess")
		ok(w, f.messes)
	})
	mux.HandleFunc("POST /mess/create", func(w http.ResponseWriter, r *http.Request) {
		f.count("/mess/create")
		if f.rejectMessCreate != "" {
			rejected(w, f.rejectMessCreate)
			return
		}
		ok(w, domain.Mess{ID: "m-new", Name: "Created"})
	})

	mux.HandleFunc("GET /bazar/bazar-all", func(w http.ResponseWriter, r *http.Request) {
		f.count("/bazar/bazar-all")
		ok(w, f.bazars)
	})
	mux.HandleFunc("GET /bazar/bazar-all/{mess}", func(w http.ResponseWriter, r *http.Request) {
		f.count("/bazar/bazar-all/" + r.PathValue("mess"))
		ok(w, f.bazars)
	})
	mux.HandleFunc("GET /bazar/get-bazar-manager", func(w http.ResponseWriter, r *http.Request) {
		f.count("/bazar/get-bazar-manager")
		ok(w, f.managerBazars)
	})
	mux.HandleFunc("POST /bazar/create/{mess}", func(w http.ResponseWriter, r *http.Request) {
		f.count("/bazar/create")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("bazar create multipart: %v", err)
		}
		if err := json.Unmarshal([]byte(r.FormValue("data")), &f.lastBazarPayload); err != nil {
			t.Errorf("bazar create data: %v", err)
		}
		ok(w, domain.Bazar{ID: "bz-new", MessID: r.PathValue("mess")})
	})
	mux.HandleFunc("POST /bazar/change-status/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.count("/bazar/change-status")
		ok(w, domain.Bazar{ID: r.PathValue("id"), Approved: true})
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// env 网关响应壳
type env struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	backend *fakeBackend
	engine  *gin.Engine
	jwter   *auth.JWTer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &fakeBackend{hits: map[string]int{}}
	ts := backend.server(t)

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "mess-web", TTL: time.Hour}
	sessions := session.NewManager(jwter, "", false)
	engine := NewWebEngine(Deps{
		Log:      zap.NewNop(),
		Upstream: upstream.NewClient(ts.URL, 5*time.Second, nil),
		Cache:    cache.New(cache.NewMemoryStore()),
		Sessions: sessions,
	})
	return &harness{backend: backend, engine: engine, jwter: jwter}
}

func (h *harness) token(t *testing.T, role domain.Role) string {
	t.Helper()
	tok, err := h.jwter.Issue(domain.User{ID: "u-" + string(role), Name: "Test", Email: "t@x.io", Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

type reqBody struct {
	reader      io.Reader
	contentType string
}

func jsonBody(t *testing.T, v any) *reqBody {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return &reqBody{reader: bytes.NewReader(b), contentType: "application/json"}
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) *reqBody {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &reqBody{reader: &buf, contentType: mw.FormDataContentType()}
}

func (h *harness) do(t *testing.T, method, path, token string, body *reqBody) (*httptest.ResponseRecorder, env) {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body.reader)
		req.Header.Set("Content-Type", body.contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieAccessToken, Value: token})
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)

	var e env
	if len(w.Body.Bytes()) > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &e)
	}
	return w, e
}

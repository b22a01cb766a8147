// Package upstream 是业务后端的类型化客户端：一个端点一个方法，
// 带上调用方的 access token，原样返回 {success, data, message} 信封。
// success:false 不算错误，由调用方把 message 透出去；只有传输层/解码
// 失败才返回 error。不做重试，不做 token 刷新。
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// 按资源（路径首段）和结果打点：ok / rejected / failed
var calls = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "upstream_requests_total", Help: "Count of calls forwarded to the backend"},
	[]string{"resource", "outcome"},
)

func init() { prometheus.MustRegister(calls) }

func resourceOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

// Envelope 后端统一响应壳
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

type Client struct {
	base string
	hc   *http.Client
	log  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: timeout},
		log:  log,
	}
}

// Upload 一个待上传的附件（采购凭证图片）
type Upload struct {
	Filename string
	Content  io.Reader
}

func doJSON[T any](ctx context.Context, c *Client, method, path, token string, body any) (*Envelope[T], error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send[T](c, req, path, token)
}

// doMultipart fields 为普通表单字段，files 为文件字段
func doMultipart[T any](ctx context.Context, c *Client, method, path, token string, fields map[string]string, files map[string]*Upload) (*Envelope[T], error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	for field, up := range files {
		if up == nil {
			continue
		}
		fw, err := mw.CreateFormFile(field, up.Filename)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, up.Content); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return send[T](c, req, path, token)
}

func send[T any](c *Client, req *http.Request, path, token string) (*Envelope[T], error) {
	if token != "" {
		// 后端收的是裸 token，不带 Bearer 前缀
		req.Header.Set("Authorization", token)
	}
	resource := resourceOf(path)
	resp, err := c.hc.Do(req)
	if err != nil {
		calls.WithLabelValues(resource, "failed").Inc()
		c.log.Error("upstream request failed",
			zap.String("method", req.Method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("upstream %s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	var env Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		calls.WithLabelValues(resource, "failed").Inc()
		c.log.Error("upstream decode failed",
			zap.String("method", req.Method), zap.String("path", path),
			zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, fmt.Errorf("upstream %s %s: decode: %w", req.Method, path, err)
	}
	if env.Success {
		calls.WithLabelValues(resource, "ok").Inc()
	} else {
		calls.WithLabelValues(resource, "rejected").Inc()
	}
	return &env, nil
}

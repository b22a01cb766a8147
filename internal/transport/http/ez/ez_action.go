package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mess-web/internal/core/cache"
	"mess-web/internal/domain"
	"mess-web/internal/session"
	resp "mess-web/internal/transport/http/response"
)

type EZ struct {
	g     *gin.RouterGroup
	cache *cache.Cache
}

func New(g *gin.RouterGroup, c *cache.Cache) EZ { return EZ{g: g, cache: c} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // 自己从 c.Param / c.MultipartForm 取
)

// AErr 统一错误对象，Code 直接用 HTTP 状态码
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// UpstreamDown 传输层打不通后端：对外一句通用提示，详情留在日志里
func UpstreamDown(err error) error {
	return &AErr{Code: resp.CodeBadGateway, Msg: "", Err: err}
}

// Rejected 后端回了 success:false：message 原样透出，不碰缓存
func Rejected(msg string) error {
	if msg == "" {
		msg = resp.MsgMap[resp.CodeBadRequest]
	}
	return &AErr{Code: resp.CodeBadRequest, Msg: msg}
}

// Action 一个路由动作：I 入参，O 出参。
// Invalidates 里的 tag 只在处理成功后统一推进版本。
type Action[I any, O any] struct {
	Method      string
	Path        string
	Binder      Binder
	Auth        bool
	Roles       []domain.Role
	Invalidates []string
	Handler     func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.Auth {
			claims := session.FromContext(c)
			if claims == nil {
				c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "please log in"))
				return
			}
			// 被踢的会话和没会话一视同仁，角色再对也不放行
			if claims.IsKicked {
				c.JSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "account suspended"))
				return
			}
			if len(a.Roles) > 0 {
				ok := false
				for _, r := range a.Roles {
					if claims.Role == r {
						ok = true
						break
					}
				}
				if !ok {
					c.JSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, ""))
					return
				}
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			var ae *AErr
			if errors.As(err, &ae) {
				status := ae.Code
				if status < 400 || status > 599 {
					status = http.StatusInternalServerError
				}
				c.JSON(status, resp.Error(ae.Code, ae.Msg))
				return
			}
			c.JSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, err.Error()))
			return
		}

		// 写成功才失效对应读域，一个不多一个不少
		if len(a.Invalidates) > 0 && e.cache != nil {
			e.cache.Invalidate(c.Request.Context(), a.Invalidates...)
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

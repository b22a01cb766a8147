package response

// 直接用 HTTP 语义当业务码
const (
	CodeOK           = 200
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeServerError  = 500
	CodeBadGateway   = 502
	CodeTimeout      = 504
)

var MsgMap = map[int]string{
	CodeOK:           "OK",
	CodeBadRequest:   "Bad Request",
	CodeUnauthorized: "Unauthorized",
	CodeForbidden:    "Forbidden",
	CodeNotFound:     "Not Found",
	CodeServerError:  "Something went wrong",
	CodeBadGateway:   "Upstream unavailable",
	CodeTimeout:      "Timeout",
}

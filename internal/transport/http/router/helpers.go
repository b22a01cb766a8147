package router

import (
	"time"

	"mess-web/internal/transport/http/ez"
	"mess-web/internal/upstream"
)

// 列表读缓存 TTL。写操作会推进 tag 版本，所以可以放心偏长一点。
const listTTL = 30 * time.Second

// fromEnvelope 把上游信封折成 (data, error)：
// 传输失败 -> 502 通用提示；success:false -> message 原样透出（不失效缓存）。
func fromEnvelope[T any](env *upstream.Envelope[T], err error) (T, error) {
	var zero T
	if err != nil {
		return zero, ez.UpstreamDown(err)
	}
	if !env.Success {
		return zero, ez.Rejected(env.Message)
	}
	return env.Data, nil
}

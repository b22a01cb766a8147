package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// Module 一个业务关注面（auth / dashboard / mess / bazar / admin）
type Module interface{ Mount(*gin.RouterGroup) }

// 实现该接口可控制挂载顺序（数值越小越先挂），默认 100
type prioritizer interface{ Priority() int }

var (
	mu   sync.RWMutex
	mods []Module
)

func Register(mod Module) {
	mu.Lock()
	defer mu.Unlock()
	mods = append(mods, mod)
}

// MountAll 在 /api/v1 上按优先级挂载所有模块
func MountAll(api *gin.RouterGroup) {
	mu.RLock()
	all := append([]Module(nil), mods...)
	mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return priorityOf(all[i]) < priorityOf(all[j])
	})
	for _, m := range all {
		m.Mount(api)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}

// reset 仅测试用：每个引擎用独立注册表
func reset() {
	mu.Lock()
	mods = nil
	mu.Unlock()
}

package handler

import (
	"context"
	"time"

	"bhvr-server/pkg/common/response"
	"bhvr-server/pkg/web/model"

	"github.com/cloudwego/hertz/pkg/app"
)

var startupTime = time.Now()

// HealthHandler 根路由健康检查
type HealthHandler struct {
	Env string
}

// Health 返回运行状态；uptime 单位为秒
func (h *HealthHandler) Health(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(200, model.HealthRes{
		Success:     true,
		Message:     "BHVR API is running",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Uptime:      time.Since(startupTime).Seconds(),
		Environment: h.Env,
	})
}

// Hello 连通性探针，data 恒为 null
func (h *HealthHandler) Hello(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(200, response.Success(nil, "Hello BHVR!"))
}

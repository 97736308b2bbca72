package middleware

import (
	"context"

	"bhvr-server/pkg/common/response"
	"bhvr-server/pkg/web/schema"

	"github.com/cloudwego/hertz/pkg/app"
)

// ValidatedBodyKey 校验通过的原始请求体在上下文里的键
const ValidatedBodyKey = "validated_body"

// ValidateBody 按给定模式校验请求体；失败统一回 400 信封，JSON 解析失败也走同一出口
func ValidateBody(s *schema.Schema) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		raw := ctx.Request.Body()
		if verr := s.Validate(raw); verr != nil {
			ctx.AbortWithStatusJSON(400, response.Error("Validation failed", verr))
			return
		}
		ctx.Set(ValidatedBodyKey, raw)
		ctx.Next(c)
	}
}

// ValidatedBody 取出已通过校验的请求体
func ValidatedBody(ctx *app.RequestContext) []byte {
	if v, ok := ctx.Get(ValidatedBodyKey); ok {
		if raw, ok := v.([]byte); ok {
			return raw
		}
	}
	return nil
}

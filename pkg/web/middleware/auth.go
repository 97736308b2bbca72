package middleware

import (
	"context"
	"time"

	"bhvr-server/pkg/common/config"
	"bhvr-server/pkg/common/response"
	"bhvr-server/pkg/core/auth"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/jwt"
)

// 登录态在请求上下文里的键
const (
	UserKey    = "user"
	SessionKey = "session"
)

// NewAuthMiddleware 构造强制登录中间件。
// 令牌里只有会话ID，每次都查库确认会话仍然有效，登出后立即失效。
func NewAuthMiddleware(svc *auth.Service, cfg *config.JWTAuthConfig) app.HandlerFunc {
	authMiddleware, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:            cfg.Realm,
		SigningAlgorithm: cfg.SigningMethod,
		Key:              []byte(cfg.Secret),
		Timeout:          cfg.ExpireDuration,
		TimeFunc:         time.Now,
		TokenLookup:      "header: Authorization",
		TokenHeadName:    "Bearer",
		IdentityKey:      SessionKey,
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			sid, _ := claims["sid"].(string)
			return sid
		},
		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			sid, ok := data.(string)
			if !ok || sid == "" {
				return false
			}
			user, session, err := svc.ResolveSession(sid)
			if err != nil {
				return false
			}
			c.Set(UserKey, user)
			c.Set(SessionKey, session)
			return true
		},
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			hlog.CtxInfof(ctx, "auth rejected path=%s: %s", c.Path(), message)
			// 不区分缺令牌/坏令牌/过期，统一一句话
			c.JSON(401, response.Error("Authentication required", nil))
		},
	})
	if err != nil {
		panic("auth middleware init failed: " + err.Error())
	}

	return authMiddleware.MiddlewareFunc()
}

package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"bhvr-server/pkg/common/config"
	"bhvr-server/pkg/common/response"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/hertz-contrib/cors"
)

// LoggerMiddleware 结构化的请求日志记录
func LoggerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c) // 放行到后续处理器
		latency := time.Since(start)

		// 结构化日志输出
		hlog.CtxTracef(c, "| %3d | %13v | %15s | %-7s | %s | UA=%s",
			ctx.Response.StatusCode(),
			latency,
			ctx.ClientIP(),
			ctx.Method(),
			ctx.Path(),
			ctx.GetHeader("User-Agent"),
		)
	}
}

// RecoveryMiddleware 异常捕获；生产环境不泄露堆栈
func RecoveryMiddleware(cfg *config.Config) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				// 获取调用堆栈
				stack := string(debug.Stack())

				hlog.CtxErrorf(c, "[PANIC RECOVERED] %v\n%s", err, stack)

				if cfg.IsProd() {
					ctx.AbortWithStatusJSON(500, response.Error("Internal server error", nil))
				} else { // 开发环境显示详细错误
					ctx.AbortWithStatusJSON(500, response.Error("Internal server error", utils.H{
						"message": fmt.Sprintf("%v", err),
						"stack":   strings.Split(stack, "\n"),
					}))
				}
			}
		}()
		ctx.Next(c)
	}
}

// CORSMiddleware 跨域配置
func CORSMiddleware(corsConfig config.CORSConfig) app.HandlerFunc {
	return cors.New(
		cors.Config{
			AllowOrigins:     corsConfig.AllowOrigins,
			AllowMethods:     corsConfig.AllowMethods,
			AllowHeaders:     corsConfig.AllowHeaders,
			ExposeHeaders:    corsConfig.ExposeHeaders,
			AllowCredentials: corsConfig.AllowCredentials,
			MaxAge:           corsConfig.MaxAge,
		},
	)
}

func TimeoutMiddleware(seconds int) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		timeoutCtx, cancel := context.WithTimeout(c, time.Duration(seconds)*time.Second)
		defer cancel()

		// 通过goroutine执行后续处理器
		done := make(chan struct{})
		var panicErr interface{}

		go func() {
			defer func() {
				if r := recover(); r != nil {
					panicErr = r
				}
				close(done)
			}()
			ctx.Next(timeoutCtx) // 关键：传入超时上下文
		}()

		// 监听超时或完成
		select {
		case <-timeoutCtx.Done():
			ctx.AbortWithStatusJSON(503, response.Error("Service unavailable", nil))
			hlog.CtxWarnf(timeoutCtx, "request timeout path=%s", ctx.Path())
		case <-done:
			if panicErr != nil {
				panic(panicErr) // 交给全局recovery处理
			}
		}
	}
}

// RateLimitMiddleware 令牌桶算法限流
func RateLimitMiddleware(rate int, interval time.Duration) app.HandlerFunc {
	limiter := NewTokenBucket(rate, interval)

	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.Allow() {
			hlog.CtxInfof(c, "[RATE LIMIT] path=%s", ctx.Path())
			ctx.AbortWithStatusJSON(429, response.Error("Too many requests", nil))
			return
		}
		ctx.Next(c)
	}
}

// 令牌桶实现
type TokenBucket struct {
	capacity int
	tokens   chan struct{}
	rate     time.Duration
}

func NewTokenBucket(rate int, interval time.Duration) *TokenBucket {
	tb := &TokenBucket{
		capacity: rate,
		tokens:   make(chan struct{}, rate),
		rate:     interval,
	}

	// 初始装满，避免冷启动误限
	for i := 0; i < rate; i++ {
		tb.tokens <- struct{}{}
	}

	// 定时器生产令牌
	go func() {
		ticker := time.NewTicker(tb.rate)
		for range ticker.C {
			select {
			case tb.tokens <- struct{}{}:
			default:
			}
		}
	}()
	return tb
}

func (tb *TokenBucket) Allow() bool {
	select {
	case <-tb.tokens:
		return true
	default:
		return false
	}
}

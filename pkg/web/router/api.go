package router

import (
	"bhvr-server/pkg/common/config"
	"bhvr-server/pkg/core/auth"
	"bhvr-server/pkg/core/storage"
	"bhvr-server/pkg/core/user/repository/dao"
	"bhvr-server/pkg/web/docs"
	"bhvr-server/pkg/web/handler"
	"bhvr-server/pkg/web/middleware"
	"bhvr-server/pkg/web/schema"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// Deps 路由层的外部依赖，由入口装配
type Deps struct {
	Auth  *auth.Service
	Users dao.UserRepository
	Store storage.Store
}

// RegisterAPIs 注册所有API路由
func RegisterAPIs(h *server.Hertz, cfg *config.Config, deps Deps) {
	dev := !cfg.IsProd()

	// 初始化Handler实例
	healthHandler := &handler.HealthHandler{Env: cfg.Env}
	authHandler := &handler.AuthHandler{Auth: deps.Auth, Dev: dev}
	userHandler := &handler.UserHandler{Users: deps.Users, Dev: dev}
	uploadHandler := &handler.UploadHandler{Store: deps.Store, Dev: dev}

	// 注册全局中间件（按执行顺序）
	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.LoggerMiddleware(),
		middleware.TimeoutMiddleware(cfg.Middleware.Timeout.RequestTimeout),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
	)

	// 基础接口
	h.GET("/", healthHandler.Health)
	h.GET("/hello", healthHandler.Hello)

	// API 文档
	h.GET("/doc/openapi.json", docs.OpenAPIJSON("http://localhost"+cfg.Server.Address))
	h.GET("/doc", docs.SwaggerUI())
	h.GET("/scalar", docs.ScalarUI())

	authMW := middleware.NewAuthMiddleware(deps.Auth, &cfg.Middleware.JWT)

	// 账号与会话
	authGroup := h.Group("/api/auth")
	{
		// 登录相关接口做限流，防爆破
		authGroup.Use(middleware.RateLimitMiddleware(
			cfg.Middleware.RateLimit.Rate,
			cfg.Middleware.RateLimit.Interval,
		))

		authGroup.POST("/sign-up",
			middleware.ValidateBody(schema.SignUpRequest), authHandler.SignUp)
		authGroup.POST("/sign-in",
			middleware.ValidateBody(schema.SignInRequest), authHandler.SignIn)
		authGroup.POST("/forgot-password",
			middleware.ValidateBody(schema.ForgotPasswordRequest), authHandler.ForgotPassword)
		authGroup.POST("/reset-password",
			middleware.ValidateBody(schema.ResetPasswordRequest), authHandler.ResetPassword)

		authGroup.POST("/sign-out", authMW, authHandler.SignOut)
		authGroup.GET("/get-session", authMW, authHandler.GetSession)
		authGroup.POST("/change-password", authMW,
			middleware.ValidateBody(schema.ChangePasswordRequest), authHandler.ChangePassword)
	}

	// 用户资料
	userGroup := h.Group("/api/user")
	{
		userGroup.Use(authMW)
		userGroup.GET("/profile", userHandler.GetProfile)
		userGroup.PUT("/profile",
			middleware.ValidateBody(schema.UpdateUserProfile), userHandler.UpdateProfile)
	}

	// 文件上传
	uploadGroup := h.Group("/api/upload")
	{
		uploadGroup.Use(middleware.FileUpload(cfg.Upload))
		uploadGroup.POST("/single", uploadHandler.Single)
		uploadGroup.POST("/multiple", uploadHandler.Multiple)
	}
}

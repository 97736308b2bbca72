package main

import (
	"bhvr-server/pkg/common/config"
	"bhvr-server/pkg/core/auth"
	"bhvr-server/pkg/core/email"
	"bhvr-server/pkg/core/storage"
	"bhvr-server/pkg/core/user/model"
	dao "bhvr-server/pkg/core/user/repository/dao/impl"
	"bhvr-server/pkg/web/router"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	// 初始化配置
	cfg := config.Load()

	// 初始化数据库连接
	db, err := cfg.InitDB()
	if err != nil {
		panic("Failed to initialize database: " + err.Error())
	}

	// 建表/迁移
	if err := model.AutoMigrate(db); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// 装配各层依赖
	users := dao.NewGormUserRepository(db)
	sessions := dao.NewGormSessionRepository(db)
	tokens := dao.NewGormResetTokenRepository(db)
	mailer := email.NewSESMailer(cfg.Email)
	authService := auth.NewService(users, sessions, tokens, mailer,
		cfg.Middleware.JWT, cfg.Email.AppURL)
	store := storage.NewLocalStore(cfg.Upload.UploadDir)

	// 创建Hertz实例
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)

	// 注册路由
	router.RegisterAPIs(h, cfg, router.Deps{
		Auth:  authService,
		Users: users,
		Store: store,
	})

	// 启动服务
	h.Spin()
}

package handler

import (
	"context"
	"encoding/json"
	"errors"

	commonerr "bhvr-server/pkg/common/errors"
	"bhvr-server/pkg/common/response"
	"bhvr-server/pkg/core/auth"
	core "bhvr-server/pkg/core/user/model"
	"bhvr-server/pkg/web/middleware"
	"bhvr-server/pkg/web/model"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
)

// AuthHandler 账号生命周期相关路由
type AuthHandler struct {
	Auth *auth.Service
	Dev  bool
}

// SignUp 注册新账号
func (h *AuthHandler) SignUp(c context.Context, ctx *app.RequestContext) {
	var req model.SignUpReq
	if err := json.Unmarshal(middleware.ValidatedBody(ctx), &req); err != nil {
		h.internalError(c, ctx, err)
		return
	}

	user, err := h.Auth.SignUp(c, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, commonerr.ErrEmailTaken) {
			ctx.JSON(409, response.Error("Email already registered", nil))
			return
		}
		h.internalError(c, ctx, err)
		return
	}

	ctx.JSON(201, response.Success(utils.H{
		"user": model.NewUserRes(user),
	}, "Account created successfully"))
}

// SignIn 登录并签发会话令牌
func (h *AuthHandler) SignIn(c context.Context, ctx *app.RequestContext) {
	var req model.SignInReq
	if err := json.Unmarshal(middleware.ValidatedBody(ctx), &req); err != nil {
		h.internalError(c, ctx, err)
		return
	}

	user, session, token, err := h.Auth.SignIn(c, req.Email, req.Password,
		ctx.ClientIP(), string(ctx.GetHeader("User-Agent")))
	if err != nil {
		if errors.Is(err, commonerr.ErrInvalidCredentials) {
			ctx.JSON(401, response.Error("Invalid email or password", nil))
			return
		}
		h.internalError(c, ctx, err)
		return
	}

	ctx.JSON(200, response.Success(utils.H{
		"user":    model.NewUserRes(user),
		"session": model.NewSessionRes(session),
		"token":   token,
	}, "Signed in successfully"))
}

// SignOut 注销当前会话
func (h *AuthHandler) SignOut(c context.Context, ctx *app.RequestContext) {
	_, session, ok := currentIdentity(ctx)
	if !ok {
		ctx.JSON(401, response.Error("Authentication required", nil))
		return
	}

	if err := h.Auth.SignOut(session.ID); err != nil {
		h.internalError(c, ctx, err)
		return
	}

	ctx.JSON(200, response.Success(nil, "Signed out successfully"))
}

// GetSession 返回当前登录态
func (h *AuthHandler) GetSession(c context.Context, ctx *app.RequestContext) {
	user, session, ok := currentIdentity(ctx)
	if !ok {
		ctx.JSON(401, response.Error("Authentication required", nil))
		return
	}

	ctx.JSON(200, response.Success(utils.H{
		"user":    model.NewUserRes(user),
		"session": model.NewSessionRes(session),
	}, ""))
}

// ChangePassword 校验旧密码后修改
func (h *AuthHandler) ChangePassword(c context.Context, ctx *app.RequestContext) {
	user, _, ok := currentIdentity(ctx)
	if !ok {
		ctx.JSON(401, response.Error("Authentication required", nil))
		return
	}

	var req model.ChangePasswordReq
	if err := json.Unmarshal(middleware.ValidatedBody(ctx), &req); err != nil {
		h.internalError(c, ctx, err)
		return
	}

	if err := h.Auth.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, commonerr.ErrInvalidCredentials) {
			ctx.JSON(400, response.Error("Current password is incorrect", nil))
			return
		}
		h.internalError(c, ctx, err)
		return
	}

	ctx.JSON(200, response.Success(nil, "Password changed successfully"))
}

// ForgotPassword 触发重置邮件；无论邮箱是否存在一律返回成功
func (h *AuthHandler) ForgotPassword(c context.Context, ctx *app.RequestContext) {
	var req model.ForgotPasswordReq
	if err := json.Unmarshal(middleware.ValidatedBody(ctx), &req); err != nil {
		h.internalError(c, ctx, err)
		return
	}

	if err := h.Auth.ForgotPassword(c, req.Email); err != nil {
		h.internalError(c, ctx, err)
		return
	}

	ctx.JSON(200, response.Success(nil, "Password reset email sent"))
}

// ResetPassword 用一次性令牌设置新密码
func (h *AuthHandler) ResetPassword(c context.Context, ctx *app.RequestContext) {
	var req model.ResetPasswordReq
	if err := json.Unmarshal(middleware.ValidatedBody(ctx), &req); err != nil {
		h.internalError(c, ctx, err)
		return
	}

	if err := h.Auth.ResetPassword(req.Token, req.NewPassword); err != nil {
		if errors.Is(err, commonerr.ErrResetTokenInvalid) {
			ctx.JSON(400, response.Error("Invalid or expired reset token", nil))
			return
		}
		h.internalError(c, ctx, err)
		return
	}

	ctx.JSON(200, response.Success(nil, "Password reset successfully"))
}

func (h *AuthHandler) internalError(c context.Context, ctx *app.RequestContext, err error) {
	hlog.CtxErrorf(c, "auth handler failed path=%s: %v", ctx.Path(), err)
	if h.Dev {
		ctx.JSON(500, response.Error("Internal server error", utils.H{"message": err.Error()}))
		return
	}
	ctx.JSON(500, response.Error("Internal server error", nil))
}

// currentIdentity 读取认证中间件写入的登录态
func currentIdentity(ctx *app.RequestContext) (core.User, core.Session, bool) {
	uv, ok := ctx.Get(middleware.UserKey)
	if !ok {
		return core.User{}, core.Session{}, false
	}
	sv, ok := ctx.Get(middleware.SessionKey)
	if !ok {
		return core.User{}, core.Session{}, false
	}
	user, uok := uv.(core.User)
	session, sok := sv.(core.Session)
	return user, session, uok && sok
}

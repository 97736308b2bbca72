package handler

import (
	"context"
	"encoding/json"

	commonerr "bhvr-server/pkg/common/errors"
	"bhvr-server/pkg/common/response"
	"bhvr-server/pkg/core/user/repository/dao"
	"bhvr-server/pkg/web/middleware"
	"bhvr-server/pkg/web/model"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
)

// UserHandler 用户资料相关路由
type UserHandler struct {
	Users dao.UserRepository
	Dev   bool
}

// GetProfile 返回当前用户资料
func (h *UserHandler) GetProfile(c context.Context, ctx *app.RequestContext) {
	user, _, ok := currentIdentity(ctx)
	if !ok {
		ctx.JSON(401, response.Error("Authentication required", nil))
		return
	}

	ctx.JSON(200, response.Success(model.NewUserRes(user), "Profile retrieved successfully"))
}

// UpdateProfile 局部更新：只写请求里出现的字段
func (h *UserHandler) UpdateProfile(c context.Context, ctx *app.RequestContext) {
	user, _, ok := currentIdentity(ctx)
	if !ok {
		ctx.JSON(401, response.Error("Authentication required", nil))
		return
	}

	var req model.UpdateProfileReq
	if err := json.Unmarshal(middleware.ValidatedBody(ctx), &req); err != nil {
		h.internalError(c, ctx, err)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}

	updated, err := h.Users.UpdateProfile(user.ID, updates)
	if err != nil {
		if commonerr.IsNotFound(err) {
			ctx.JSON(401, response.Error("Authentication required", nil))
			return
		}
		h.internalError(c, ctx, err)
		return
	}

	ctx.JSON(200, response.Success(model.NewUserRes(updated), "Profile updated successfully"))
}

func (h *UserHandler) internalError(c context.Context, ctx *app.RequestContext, err error) {
	hlog.CtxErrorf(c, "user handler failed path=%s: %v", ctx.Path(), err)
	if h.Dev {
		ctx.JSON(500, response.Error("Internal server error", utils.H{"message": err.Error()}))
		return
	}
	ctx.JSON(500, response.Error("Internal server error", nil))
}

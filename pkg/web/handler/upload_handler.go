package handler

import (
	"context"
	"fmt"
	"path/filepath"

	"bhvr-server/pkg/common/response"
	"bhvr-server/pkg/core/storage"
	"bhvr-server/pkg/web/middleware"
	"bhvr-server/pkg/web/model"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
)

// UploadHandler 文件上传路由；校验已在中间件完成，这里只负责落盘
type UploadHandler struct {
	Store storage.Store
	Dev   bool
}

// Single 单文件上传：恰好一个文件，多了少了都拒绝
func (h *UploadHandler) Single(c context.Context, ctx *app.RequestContext) {
	files := middleware.UploadedFiles(ctx)
	switch {
	case len(files) == 0:
		ctx.JSON(400, response.Error("No file provided", nil))
		return
	case len(files) > 1:
		ctx.JSON(400, response.Error("Only one file allowed for single upload", nil))
		return
	}

	res, err := h.save(files[0])
	if err != nil {
		h.internalError(c, ctx, err)
		return
	}

	ctx.JSON(200, response.Success(res, "File uploaded successfully"))
}

// Multiple 多文件上传：全部落盘成功才返回成功
func (h *UploadHandler) Multiple(c context.Context, ctx *app.RequestContext) {
	files := middleware.UploadedFiles(ctx)
	if len(files) == 0 {
		ctx.JSON(400, response.Error("No files provided", nil))
		return
	}

	results := make([]model.UploadedFileRes, 0, len(files))
	for _, f := range files {
		res, err := h.save(f)
		if err != nil {
			h.internalError(c, ctx, err)
			return
		}
		results = append(results, res)
	}

	ctx.JSON(200, response.Success(results, fmt.Sprintf("%d files uploaded successfully", len(results))))
}

func (h *UploadHandler) save(f middleware.UploadDescriptor) (model.UploadedFileRes, error) {
	path, err := h.Store.Save(f.FileName, f.Content)
	if err != nil {
		return model.UploadedFileRes{}, err
	}
	return model.UploadedFileRes{
		OriginalName: f.FileName,
		Filename:     filepath.Base(path),
		Filepath:     path,
		Size:         f.Size,
		MimeType:     f.MimeType,
	}, nil
}

func (h *UploadHandler) internalError(c context.Context, ctx *app.RequestContext, err error) {
	hlog.CtxErrorf(c, "upload handler failed path=%s: %v", ctx.Path(), err)
	if h.Dev {
		ctx.JSON(500, response.Error("Internal server error", utils.H{"message": err.Error()}))
		return
	}
	ctx.JSON(500, response.Error("Internal server error", nil))
}

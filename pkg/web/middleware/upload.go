package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"bhvr-server/pkg/common/config"
	"bhvr-server/pkg/common/response"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
)

// 上传解析结果在上下文里的键
const (
	UploadedFilesKey = "uploaded_files"
	FormFieldsKey    = "form_fields"
)

// UploadDescriptor 一个通过校验的上传文件
type UploadDescriptor struct {
	FieldName string
	FileName  string
	MimeType  string
	Size      int64
	Content   []byte
}

// FileUpload 解析并校验 multipart 请求体。
// 按提交顺序逐个检查，遇到第一个违规文件立刻整体拒绝（全有或全无）。
// 非 multipart 请求原样放行。
func FileUpload(cfg config.UploadConfig) app.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowedMimeTypes))
	for _, mt := range cfg.AllowedMimeTypes {
		allowed[strings.ToLower(mt)] = true
	}

	return func(c context.Context, ctx *app.RequestContext) {
		contentType := string(ctx.ContentType())
		if !strings.HasPrefix(contentType, "multipart/") {
			ctx.Next(c)
			return
		}

		// hertz 的 MultipartForm 用 map 存文件，会丢提交顺序，
		// 这里自己走一遍流式解析保住顺序
		mediaType, params, err := mime.ParseMediaType(contentType)
		if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
			ctx.AbortWithStatusJSON(400, response.Error("Failed to parse multipart data", nil))
			return
		}

		reader := multipart.NewReader(bytes.NewReader(ctx.Request.Body()), params["boundary"])

		var files []UploadDescriptor
		fields := make(map[string]string)

		for {
			part, err := reader.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				hlog.CtxWarnf(c, "multipart parse failed path=%s: %v", ctx.Path(), err)
				ctx.AbortWithStatusJSON(400, response.Error("Failed to parse multipart data", nil))
				return
			}

			if part.FileName() == "" {
				value, err := io.ReadAll(part)
				if err != nil {
					ctx.AbortWithStatusJSON(400, response.Error("Failed to parse multipart data", nil))
					return
				}
				fields[part.FormName()] = string(value)
				continue
			}

			// 多读一个字节即可判断超限，不用吃下整个超大文件
			content, err := io.ReadAll(io.LimitReader(part, cfg.MaxFileSize+1))
			if err != nil {
				ctx.AbortWithStatusJSON(400, response.Error("Failed to parse multipart data", nil))
				return
			}
			if int64(len(content)) > cfg.MaxFileSize {
				ctx.AbortWithStatusJSON(413, response.Error("File too large", utils.H{
					"maxSize": cfg.MaxFileSize,
				}))
				return
			}

			mimeType := normalizeMimeType(part.Header.Get("Content-Type"))
			if !allowed[mimeType] {
				ctx.AbortWithStatusJSON(415, response.Error("File type not allowed", utils.H{
					"allowedTypes": cfg.AllowedMimeTypes,
				}))
				return
			}

			files = append(files, UploadDescriptor{
				FieldName: part.FormName(),
				FileName:  part.FileName(),
				MimeType:  mimeType,
				Size:      int64(len(content)),
				Content:   content,
			})
		}

		ctx.Set(UploadedFilesKey, files)
		ctx.Set(FormFieldsKey, fields)
		ctx.Next(c)
	}
}

// normalizeMimeType 去掉参数部分并小写；缺省按二进制流处理
func normalizeMimeType(raw string) string {
	if raw == "" {
		return "application/octet-stream"
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
	}
	return strings.ToLower(mediaType)
}

// UploadedFiles 取出通过校验的上传文件列表
func UploadedFiles(ctx *app.RequestContext) []UploadDescriptor {
	if v, ok := ctx.Get(UploadedFilesKey); ok {
		if files, ok := v.([]UploadDescriptor); ok {
			return files
		}
	}
	return nil
}

// FormFields 取出 multipart 里的普通字段
func FormFields(ctx *app.RequestContext) map[string]string {
	if v, ok := ctx.Get(FormFieldsKey); ok {
		if fields, ok := v.(map[string]string); ok {
			return fields
		}
	}
	return nil
}

package errors

import (
	"errors"

	hzte "github.com/cloudwego/hertz/pkg/common/errors"
)

// 定义原始错误
var (
	rawErrInvalidCredentials = errors.New("invalid email or password")
	rawErrEmailTaken         = errors.New("email already registered")
	rawErrSessionInvalid     = errors.New("invalid or expired session")
	rawErrResetTokenInvalid  = errors.New("invalid or expired reset token")
)

// 包装成 Hertz 公开错误类型：信息可以直接回给客户端
var (
	ErrInvalidCredentials = hzte.New(rawErrInvalidCredentials, hzte.ErrorTypePublic, nil)
	ErrEmailTaken         = hzte.New(rawErrEmailTaken, hzte.ErrorTypePublic, nil)
	ErrSessionInvalid     = hzte.New(rawErrSessionInvalid, hzte.ErrorTypePublic, nil)
	ErrResetTokenInvalid  = hzte.New(rawErrResetTokenInvalid, hzte.ErrorTypePublic, nil)
)

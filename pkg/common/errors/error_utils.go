package errors

import (
	"errors"

	dao "bhvr-server/pkg/core/user/repository/dao/impl"
)

// region 错误判别工具函数

// IsNotFound 判断是否为记录不存在类错误
func IsNotFound(err error) bool {
	return errors.Is(err, dao.ErrUserNotFound) ||
		errors.Is(err, dao.ErrSessionNotFound) ||
		errors.Is(err, dao.ErrTokenNotFound)
}

// IsDuplicate 判断是否为唯一约束冲突
func IsDuplicate(err error) bool {
	return errors.Is(err, dao.ErrDuplicateEntry)
}

package dao

import (
	"bhvr-server/pkg/core/user/model"
)

type UserRepository interface {
	Create(user *model.User) error
	QueryByID(id string) (model.User, error)
	QueryByEmail(email string) (model.User, error)
	IsEmailExists(email string) (bool, error)
	// UpdateProfile 只更新给定字段并返回更新后的用户
	UpdateProfile(id string, updates map[string]interface{}) (model.User, error)
	UpdatePassword(userID string, newPwdHash string) error
}

type SessionRepository interface {
	Create(session *model.Session) error
	QueryByID(id string) (model.Session, error)
	Delete(id string) error
	DeleteByUser(userID string) error
}

type ResetTokenRepository interface {
	Create(token *model.PasswordResetToken) error
	// Consume 原子取出并销毁令牌；不存在或过期返回错误
	Consume(token string) (model.PasswordResetToken, error)
}

package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            string         `gorm:"type:varchar(36);primaryKey"`
	Email         string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name          *string        `gorm:"type:varchar(100)"`
	Image         *string        `gorm:"type:varchar(500)"`
	EmailVerified bool           `gorm:"default:false"`
	PasswordHash  string         `gorm:"type:varchar(255);not null"`
	CreatedAt     time.Time      `gorm:"index;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"` // 软删除标记
}

// TableName 定义映射表名
func (User) TableName() string {
	return "auth_users"
}

// Session 服务端会话记录；登出即删除，令牌随之失效
type Session struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(36);index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	IPAddress string    `gorm:"type:varchar(45)"`
	UserAgent string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "auth_sessions"
}

// PasswordResetToken 一次性密码重置令牌
type PasswordResetToken struct {
	Token     string    `gorm:"type:varchar(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(36);index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PasswordResetToken) TableName() string {
	return "auth_password_reset_tokens"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Session{}, &PasswordResetToken{})
}

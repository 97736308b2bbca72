package model

import (
	"time"

	core "bhvr-server/pkg/core/user/model"
)

// region 请求体

type SignUpReq struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

type SignInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ForgotPasswordReq struct {
	Email string `json:"email"`
}

type ResetPasswordReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type UpdateProfileReq struct {
	Name  *string `json:"name,omitempty"`
	Image *string `json:"image,omitempty"`
}

// region 响应体

// UserRes 对外的用户视图；name/image 允许为 null
type UserRes struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Name          *string `json:"name"`
	Image         *string `json:"image"`
	EmailVerified bool    `json:"emailVerified"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type SessionRes struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	ExpiresAt string `json:"expiresAt"`
	CreatedAt string `json:"createdAt"`
}

type UploadedFileRes struct {
	OriginalName string `json:"originalName"`
	Filename     string `json:"filename"`
	Filepath     string `json:"filepath"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
}

type HealthRes struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

func NewUserRes(u core.User) UserRes {
	return UserRes{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Image:         u.Image,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func NewSessionRes(s core.Session) SessionRes {
	return SessionRes{
		ID:        s.ID,
		UserID:    s.UserID,
		ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

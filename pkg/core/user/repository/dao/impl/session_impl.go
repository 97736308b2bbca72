package dao

import (
	"errors"
	"fmt"
	"time"

	"bhvr-server/pkg/core/user/model"
	"bhvr-server/pkg/core/user/repository/dao"

	"gorm.io/gorm"
)

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) dao.SessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(session *model.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("%w: session creation failed", wrapGormError(err))
	}
	return nil
}

func (r *GormSessionRepository) QueryByID(id string) (model.Session, error) {
	var session model.Session
	err := r.db.Where("id = ?", id).First(&session).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Session{}, ErrSessionNotFound
	case err != nil:
		return model.Session{}, fmt.Errorf("%w: session query failed", wrapGormError(err))
	default:
		return session, nil
	}
}

func (r *GormSessionRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Session{}).Error; err != nil {
		return fmt.Errorf("%w: session delete failed", wrapGormError(err))
	}
	return nil
}

func (r *GormSessionRepository) DeleteByUser(userID string) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&model.Session{}).Error; err != nil {
		return fmt.Errorf("%w: session cleanup failed", wrapGormError(err))
	}
	return nil
}

type GormResetTokenRepository struct {
	db *gorm.DB
}

func NewGormResetTokenRepository(db *gorm.DB) dao.ResetTokenRepository {
	return &GormResetTokenRepository{db: db}
}

func (r *GormResetTokenRepository) Create(token *model.PasswordResetToken) error {
	if err := r.db.Create(token).Error; err != nil {
		return fmt.Errorf("%w: reset token creation failed", wrapGormError(err))
	}
	return nil
}

// Consume 在事务内取出并删除令牌，保证一次性语义
func (r *GormResetTokenRepository) Consume(token string) (model.PasswordResetToken, error) {
	var record model.PasswordResetToken
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ? AND expires_at > ?", token, time.Now()).
			First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenNotFound
			}
			return fmt.Errorf("%w: reset token query failed", wrapGormError(err))
		}
		if err := tx.Delete(&model.PasswordResetToken{}, "token = ?", token).Error; err != nil {
			return fmt.Errorf("%w: reset token delete failed", wrapGormError(err))
		}
		return nil
	})
	if err != nil {
		return model.PasswordResetToken{}, err
	}
	return record, nil
}

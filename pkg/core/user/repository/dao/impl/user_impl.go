package dao

import (
	"errors"
	"fmt"
	"time"

	"bhvr-server/pkg/core/user/model"
	"bhvr-server/pkg/core/user/repository/dao"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrTokenNotFound    = errors.New("reset token not found or expired")
	ErrDuplicateEntry   = errors.New("duplicate user entry")
	ErrDatabaseInternal = errors.New("database internal error")
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) dao.UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(user *model.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isDuplicateError(err) {
				return ErrDuplicateEntry
			}
			return fmt.Errorf("%w: user creation failed", wrapGormError(err))
		}
		return nil
	})
}

func (r *GormUserRepository) QueryByID(id string) (model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, ErrUserNotFound
	case err != nil:
		return model.User{}, fmt.Errorf("%w: user query failed", wrapGormError(err))
	default:
		return user, nil
	}
}

func (r *GormUserRepository) QueryByEmail(email string) (model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, ErrUserNotFound
	case err != nil:
		return model.User{}, fmt.Errorf("%w: user query failed", wrapGormError(err))
	default:
		return user, nil
	}
}

func (r *GormUserRepository) IsEmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: failed to check email", wrapGormError(err))
	}
	return count > 0, nil
}

// UpdateProfile 只改给定字段；updates 为空时退化为一次读取
func (r *GormUserRepository) UpdateProfile(id string, updates map[string]interface{}) (model.User, error) {
	var user model.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			updates["updated_at"] = time.Now()
			result := tx.Model(&model.User{}).Where("id = ?", id).Updates(updates)
			if result.Error != nil {
				return fmt.Errorf("%w: profile update failed", wrapGormError(result.Error))
			}
			if result.RowsAffected == 0 {
				return ErrUserNotFound
			}
		}
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("%w: profile reload failed", wrapGormError(err))
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *GormUserRepository) UpdatePassword(userID string, newPwdHash string) error {
	result := r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": newPwdHash,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("%w: password update failed", wrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Error handling utils
func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func wrapGormError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062:
			return ErrDuplicateEntry
		case 1048, 1044, 1146: // Common MySQL operation errors
			return ErrDatabaseInternal
		}
	}

	if errors.Is(err, gorm.ErrInvalidDB) ||
		errors.Is(err, gorm.ErrInvalidTransaction) ||
		errors.Is(err, gorm.ErrUnsupportedRelation) {
		return ErrDatabaseInternal
	}

	return err // Return original error if no specific mapping
}

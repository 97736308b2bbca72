package auth

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"bhvr-server/pkg/common/config"
	commonerr "bhvr-server/pkg/common/errors"
	"bhvr-server/pkg/core/email"
	"bhvr-server/pkg/core/user/model"
	"bhvr-server/pkg/core/user/repository/dao"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// Service 负责注册、登录、会话与密码生命周期管理。
// 令牌本身只携带会话ID，真实状态存数据库，便于主动吊销。
type Service struct {
	users    dao.UserRepository
	sessions dao.SessionRepository
	tokens   dao.ResetTokenRepository
	mailer   email.Mailer
	jwtCfg   config.JWTAuthConfig
	appURL   string
}

func NewService(
	users dao.UserRepository,
	sessions dao.SessionRepository,
	tokens dao.ResetTokenRepository,
	mailer email.Mailer,
	jwtCfg config.JWTAuthConfig,
	appURL string,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		mailer:   mailer,
		jwtCfg:   jwtCfg,
		appURL:   appURL,
	}
}

// SignUp 创建账号并触发欢迎邮件；邮件失败不影响注册结果
func (s *Service) SignUp(ctx context.Context, emailAddr, password string, name *string) (model.User, error) {
	exists, err := s.users.IsEmailExists(emailAddr)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, commonerr.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(&user); err != nil {
		if commonerr.IsDuplicate(err) {
			return model.User{}, commonerr.ErrEmailTaken
		}
		return model.User{}, err
	}

	s.afterSignUp(ctx, user)

	return user, nil
}

// afterSignUp 注册成功后的钩子
func (s *Service) afterSignUp(ctx context.Context, user model.User) {
	displayName := ""
	if user.Name != nil {
		displayName = *user.Name
	}
	if err := s.mailer.SendWelcome(ctx, user.Email, displayName); err != nil {
		hlog.CtxWarnf(ctx, "Failed to send welcome email to %s: %v", user.Email, err)
	}
}

// SignIn 校验凭证并签发新会话，返回可放进 Authorization 头的令牌
func (s *Service) SignIn(ctx context.Context, emailAddr, password, ip, userAgent string) (model.User, model.Session, string, error) {
	user, err := s.users.QueryByEmail(emailAddr)
	if err != nil {
		if commonerr.IsNotFound(err) {
			return model.User{}, model.Session{}, "", commonerr.ErrInvalidCredentials
		}
		return model.User{}, model.Session{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, model.Session{}, "", commonerr.ErrInvalidCredentials
	}

	now := time.Now()
	session := model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.jwtCfg.ExpireDuration),
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.Create(&session); err != nil {
		return model.User{}, model.Session{}, "", err
	}

	token, err := s.issueToken(session)
	if err != nil {
		return model.User{}, model.Session{}, "", err
	}

	return user, session, token, nil
}

// issueToken 签发只含会话ID的JWT，过期时间与会话对齐
func (s *Service) issueToken(session model.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":     session.ID,
		"user_id": session.UserID,
		"exp":     session.ExpiresAt.Unix(),
		"iss":     s.jwtCfg.Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken 验签并取出会话ID，不查库
func (s *Service) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", commonerr.ErrSessionInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", commonerr.ErrSessionInvalid
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", commonerr.ErrSessionInvalid
	}
	return sid, nil
}

// ResolveSession 按会话ID查库并校验有效期；过期会话顺手清掉
func (s *Service) ResolveSession(sid string) (model.User, model.Session, error) {
	session, err := s.sessions.QueryByID(sid)
	if err != nil {
		if commonerr.IsNotFound(err) {
			return model.User{}, model.Session{}, commonerr.ErrSessionInvalid
		}
		return model.User{}, model.Session{}, err
	}

	if time.Now().After(session.ExpiresAt) {
		if err := s.sessions.Delete(session.ID); err != nil {
			hlog.Warnf("Failed to clean expired session %s: %v", session.ID, err)
		}
		return model.User{}, model.Session{}, commonerr.ErrSessionInvalid
	}

	user, err := s.users.QueryByID(session.UserID)
	if err != nil {
		if commonerr.IsNotFound(err) {
			return model.User{}, model.Session{}, commonerr.ErrSessionInvalid
		}
		return model.User{}, model.Session{}, err
	}

	return user, session, nil
}

// SignOut 删除会话记录，令牌立即失效
func (s *Service) SignOut(sid string) error {
	return s.sessions.Delete(sid)
}

// ChangePassword 校验旧密码后更新
func (s *Service) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.users.QueryByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return commonerr.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(userID, string(hash))
}

// ForgotPassword 发送重置邮件；邮箱不存在时静默成功，避免账号探测
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.users.QueryByEmail(emailAddr)
	if err != nil {
		if commonerr.IsNotFound(err) {
			hlog.CtxInfof(ctx, "Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token := model.PasswordResetToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
		CreatedAt: time.Now(),
	}
	if err := s.tokens.Create(&token); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, url.QueryEscape(token.Token))

	displayName := ""
	if user.Name != nil {
		displayName = *user.Name
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL, displayName); err != nil {
		hlog.CtxWarnf(ctx, "Failed to send password reset email to %s: %v", user.Email, err)
	}
	return nil
}

// ResetPassword 消费一次性令牌并重设密码，同时吊销该用户全部会话
func (s *Service) ResetPassword(token, newPassword string) error {
	record, err := s.tokens.Consume(token)
	if err != nil {
		if commonerr.IsNotFound(err) {
			return commonerr.ErrResetTokenInvalid
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(record.UserID, string(hash)); err != nil {
		return err
	}

	if err := s.sessions.DeleteByUser(record.UserID); err != nil {
		hlog.Warnf("Failed to revoke sessions for user %s: %v", record.UserID, err)
	}
	return nil
}

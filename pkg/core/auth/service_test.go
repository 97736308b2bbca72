package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bhvr-server/pkg/common/config"
	commonerr "bhvr-server/pkg/common/errors"
	"bhvr-server/pkg/core/user/model"
	daoimpl "bhvr-server/pkg/core/user/repository/dao/impl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 内存版仓储，覆盖服务层逻辑即可

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]model.User // keyed by ID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]model.User)}
}

func (r *memUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return daoimpl.ErrDuplicateEntry
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) QueryByID(id string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, daoimpl.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) QueryByEmail(email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, daoimpl.ErrUserNotFound
}

func (r *memUserRepo) IsEmailExists(email string) (bool, error) {
	_, err := r.QueryByEmail(email)
	if errors.Is(err, daoimpl.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *memUserRepo) UpdateProfile(id string, updates map[string]interface{}) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, daoimpl.ErrUserNotFound
	}
	if v, ok := updates["name"]; ok {
		name := v.(string)
		u.Name = &name
	}
	if v, ok := updates["image"]; ok {
		image := v.(string)
		u.Image = &image
	}
	r.users[id] = u
	return u, nil
}

func (r *memUserRepo) UpdatePassword(userID string, newPwdHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return daoimpl.ErrUserNotFound
	}
	u.PasswordHash = newPwdHash
	r.users[userID] = u
	return nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]model.Session)}
}

func (r *memSessionRepo) Create(session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

func (r *memSessionRepo) QueryByID(id string) (model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return model.Session{}, daoimpl.ErrSessionNotFound
	}
	return s, nil
}

func (r *memSessionRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *memSessionRepo) DeleteByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]model.PasswordResetToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]model.PasswordResetToken)}
}

func (r *memTokenRepo) Create(token *model.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Token] = *token
	return nil
}

func (r *memTokenRepo) Consume(token string) (model.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok || time.Now().After(t.ExpiresAt) {
		return model.PasswordResetToken{}, daoimpl.ErrTokenNotFound
	}
	delete(r.tokens, token)
	return t, nil
}

type recordedEmail struct {
	kind string
	to   string
	link string
}

type memMailer struct {
	mu   sync.Mutex
	sent []recordedEmail
	fail bool
}

func (m *memMailer) SendWelcome(_ context.Context, to, _ string) error {
	return m.record("welcome", to, "")
}

func (m *memMailer) SendPasswordReset(_ context.Context, to, resetURL, _ string) error {
	return m.record("reset", to, resetURL)
}

func (m *memMailer) SendVerification(_ context.Context, to, verifyURL, _ string) error {
	return m.record("verify", to, verifyURL)
}

func (m *memMailer) record(kind, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("ses unavailable")
	}
	m.sent = append(m.sent, recordedEmail{kind: kind, to: to, link: link})
	return nil
}

func newTestService() (*Service, *memUserRepo, *memSessionRepo, *memTokenRepo, *memMailer) {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	tokens := newMemTokenRepo()
	mailer := &memMailer{}
	svc := NewService(users, sessions, tokens, mailer, config.JWTAuthConfig{
		Secret:         "test-secret",
		ExpireDuration: 7 * 24 * time.Hour,
		Issuer:         "bhvr-server",
		SigningMethod:  "HS256",
		Realm:          "bhvr",
	}, "http://localhost:5173")
	return svc, users, sessions, tokens, mailer
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, _, _, _, mailer := newTestService()
	ctx := context.Background()

	name := "Ada"
	user, err := svc.SignUp(ctx, "ada@example.com", "password123", &name)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	// 欢迎邮件应该已发出
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "welcome", mailer.sent[0].kind)
	assert.Equal(t, "ada@example.com", mailer.sent[0].to)

	got, session, token, err := svc.SignIn(ctx, "ada@example.com", "password123", "127.0.0.1", "go-test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.ID, session.UserID)
	assert.NotEmpty(t, token)

	// 令牌能解析回会话ID
	sid, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, sid)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "dup@example.com", "password123", nil)
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "dup@example.com", "password456", nil)
	assert.ErrorIs(t, err, commonerr.ErrEmailTaken)
}

func TestSignUpMailerFailureDoesNotFailSignUp(t *testing.T) {
	svc, _, _, _, mailer := newTestService()
	mailer.fail = true

	_, err := svc.SignUp(context.Background(), "noemail@example.com", "password123", nil)
	assert.NoError(t, err)
}

func TestSignInWrongPassword(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "ada@example.com", "password123", nil)
	require.NoError(t, err)

	_, _, _, err = svc.SignIn(ctx, "ada@example.com", "wrong-password", "", "")
	assert.ErrorIs(t, err, commonerr.ErrInvalidCredentials)

	_, _, _, err = svc.SignIn(ctx, "ghost@example.com", "password123", "", "")
	assert.ErrorIs(t, err, commonerr.ErrInvalidCredentials)
}

func TestResolveSession(t *testing.T) {
	svc, _, sessions, _, _ := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "ada@example.com", "password123", nil)
	require.NoError(t, err)

	_, session, _, err := svc.SignIn(ctx, "ada@example.com", "password123", "", "")
	require.NoError(t, err)

	gotUser, gotSession, err := svc.ResolveSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotUser.ID)
	assert.Equal(t, session.ID, gotSession.ID)

	// 过期会话：解析失败且记录被清理
	expired := model.Session{
		ID:        "expired-session",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, sessions.Create(&expired))

	_, _, err = svc.ResolveSession(expired.ID)
	assert.ErrorIs(t, err, commonerr.ErrSessionInvalid)
	_, err = sessions.QueryByID(expired.ID)
	assert.ErrorIs(t, err, daoimpl.ErrSessionNotFound)
}

func TestSignOutRevokesSession(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "ada@example.com", "password123", nil)
	require.NoError(t, err)

	_, session, _, err := svc.SignIn(ctx, "ada@example.com", "password123", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(session.ID))

	_, _, err = svc.ResolveSession(session.ID)
	assert.ErrorIs(t, err, commonerr.ErrSessionInvalid)
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "ada@example.com", "password123", nil)
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, "wrong-password", "newpassword1")
	assert.ErrorIs(t, err, commonerr.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(user.ID, "password123", "newpassword1"))

	_, _, _, err = svc.SignIn(ctx, "ada@example.com", "password123", "", "")
	assert.ErrorIs(t, err, commonerr.ErrInvalidCredentials)
	_, _, _, err = svc.SignIn(ctx, "ada@example.com", "newpassword1", "", "")
	assert.NoError(t, err)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, _, _, _, mailer := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "ada@example.com", "password123", nil)
	require.NoError(t, err)
	mailer.sent = nil

	// 未知邮箱静默成功，不发邮件
	require.NoError(t, svc.ForgotPassword(ctx, "ghost@example.com"))
	assert.Empty(t, mailer.sent)

	require.NoError(t, svc.ForgotPassword(ctx, "ada@example.com"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "reset", mailer.sent[0].kind)
	assert.Contains(t, mailer.sent[0].link, "/reset-password?token=")

	// 从重置链接里抠出令牌
	link := mailer.sent[0].link
	token := link[len("http://localhost:5173/reset-password?token="):]
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(token, "brandnewpass"))

	// 令牌一次性：第二次消费失败
	err = svc.ResetPassword(token, "anotherpass")
	assert.ErrorIs(t, err, commonerr.ErrResetTokenInvalid)

	_, _, _, err = svc.SignIn(ctx, "ada@example.com", "brandnewpass", "", "")
	assert.NoError(t, err)
}

func TestResetPasswordRevokesSessions(t *testing.T) {
	svc, _, _, tokens, _ := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "ada@example.com", "password123", nil)
	require.NoError(t, err)

	_, session, _, err := svc.SignIn(ctx, "ada@example.com", "password123", "", "")
	require.NoError(t, err)

	resetToken := model.PasswordResetToken{
		Token:     "manual-token",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, tokens.Create(&resetToken))

	require.NoError(t, svc.ResetPassword("manual-token", "brandnewpass"))

	_, _, err = svc.ResolveSession(session.ID)
	assert.ErrorIs(t, err, commonerr.ErrSessionInvalid)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, commonerr.ErrSessionInvalid)
}

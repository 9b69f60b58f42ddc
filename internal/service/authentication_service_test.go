package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"grinder-web-server/internal/model"
	"grinder-web-server/internal/security"
	"grinder-web-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===== MOCKS =====

// MockJWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessToken(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) GenerateRefreshToken(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(tokenStr string) (map[string]any, error) {
	args := m.Called(tokenStr)
	if claims, ok := args.Get(0).(map[string]any); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) ExtractEmail(tokenStr string) (string, error) {
	args := m.Called(tokenStr)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) TokenRemaining(tokenStr string) (time.Duration, error) {
	args := m.Called(tokenStr)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockJWTService) RefreshTokenTTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *MockJWTService) RotationThreshold() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockRefreshTokenRepo
type MockRefreshTokenRepo struct {
	mock.Mock
}

func (m *MockRefreshTokenRepo) Save(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepo) Exists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefreshTokenRepo) DeleteByToken(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefreshTokenRepo) Rotate(ctx context.Context, oldToken string, newToken *model.RefreshToken) (bool, error) {
	args := m.Called(ctx, oldToken, newToken)
	return args.Bool(0), args.Error(1)
}

// MockBlacklistRepo
type MockBlacklistRepo struct {
	mock.Mock
}

func (m *MockBlacklistRepo) Add(ctx context.Context, accessToken string, ttl time.Duration) error {
	args := m.Called(ctx, accessToken, ttl)
	return args.Error(0)
}

func (m *MockBlacklistRepo) Contains(ctx context.Context, accessToken string) (bool, error) {
	args := m.Called(ctx, accessToken)
	return args.Bool(0), args.Error(1)
}

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	args := m.Called(ctx, email)
	if member, ok := args.Get(0).(*model.Member); ok {
		return member, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestAuthService() (*service.AuthenticationService, *MockJWTService, *MockRefreshTokenRepo, *MockBlacklistRepo, *MockMemberRepo) {
	mockJWT := new(MockJWTService)
	mockRepo := new(MockRefreshTokenRepo)
	mockBlacklist := new(MockBlacklistRepo)
	mockMembers := new(MockMemberRepo)

	svc := service.NewAuthenticationService(mockJWT, mockRepo, mockBlacklist, mockMembers, time.Minute)
	return svc, mockJWT, mockRepo, mockBlacklist, mockMembers
}

// claims с exp через remaining от текущего момента
func refreshClaims(email string, remaining time.Duration) map[string]any {
	return map[string]any{
		"mid": map[string]any{"email": email},
		"exp": float64(time.Now().Add(remaining).Unix()),
	}
}

// ===== LOGIN =====

// 1. Пользователь не найден: никакие токены не выдаются,
// различие с неверным паролем наружу не уходит
func TestLogin_UserNotFound(t *testing.T) {
	svc, _, mockRepo, _, mockMembers := newTestAuthService()
	ctx := context.Background()

	mockMembers.On("FindByEmail", ctx, "test@example.com").
		Return(nil, errors.New("not found"))

	_, err := svc.Login(ctx, "test@example.com", "pass")

	assert.ErrorIs(t, err, security.ErrInvalidCredentials)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockMembers.AssertExpectations(t)
}

// 2. Неверный пароль
func TestLogin_WrongPassword(t *testing.T) {
	svc, _, mockRepo, _, mockMembers := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	member := &model.Member{UUID: "m1", Email: "test@example.com", PasswordHash: hash}

	mockMembers.On("FindByEmail", ctx, "test@example.com").
		Return(member, nil)

	_, err := svc.Login(ctx, "test@example.com", "badpass")

	assert.ErrorIs(t, err, security.ErrInvalidCredentials)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockMembers.AssertExpectations(t)
}

// 3. Ошибка сохранения refresh токена
func TestLogin_SaveRefreshTokenError(t *testing.T) {
	svc, mockJWT, mockRepo, _, mockMembers := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	member := &model.Member{UUID: "m1", Email: "test@example.com", PasswordHash: hash}

	mockMembers.On("FindByEmail", ctx, "test@example.com").Return(member, nil)
	mockJWT.On("GenerateAccessToken", "test@example.com").Return("acc", nil)
	mockJWT.On("GenerateRefreshToken", "test@example.com").Return("ref", nil)
	mockJWT.On("RefreshTokenTTL").Return(168 * time.Hour)
	mockRepo.On("Save", ctx, mock.Anything).Return(errors.New("db error"))

	_, err := svc.Login(ctx, "test@example.com", "goodpass")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка сохранения refresh токена")
	mockRepo.AssertExpectations(t)
}

// 4. Успешный логин: пара выдана, запись в хранилище создана
func TestLogin_Success(t *testing.T) {
	svc, mockJWT, mockRepo, _, mockMembers := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	member := &model.Member{UUID: "m1", Email: "test@example.com", PasswordHash: hash}

	mockMembers.On("FindByEmail", ctx, "test@example.com").Return(member, nil)
	mockJWT.On("GenerateAccessToken", "test@example.com").Return("acc", nil)
	mockJWT.On("GenerateRefreshToken", "test@example.com").Return("ref", nil)
	mockJWT.On("RefreshTokenTTL").Return(168 * time.Hour)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(entry *model.RefreshToken) bool {
		return entry.Token == "ref" && entry.Email == "test@example.com" && entry.UUID != ""
	})).Return(nil)

	tokens, err := svc.Login(ctx, "test@example.com", "goodpass")

	assert.NoError(t, err)
	assert.Equal(t, "acc", tokens.AccessToken)
	assert.Equal(t, "ref", tokens.RefreshToken)
	mockJWT.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockMembers.AssertExpectations(t)
}

// ===== REFRESH =====

// 1. Просроченный refresh токен — OLD_REFRESH
func TestRefresh_Expired(t *testing.T) {
	svc, mockJWT, _, _, _ := newTestAuthService()
	ctx := context.Background()

	mockJWT.On("ValidateToken", "old").Return(nil, security.ErrExpiredToken)

	_, err := svc.Refresh(ctx, "old")

	var refreshErr *security.RefreshTokenError
	assert.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, security.OldRefresh, refreshErr.Case)
}

// 2. Сломанный refresh токен — NO_REFRESH
func TestRefresh_Malformed(t *testing.T) {
	svc, mockJWT, _, _, _ := newTestAuthService()
	ctx := context.Background()

	mockJWT.On("ValidateToken", "garbage").Return(nil, security.ErrMalformedToken)

	_, err := svc.Refresh(ctx, "garbage")

	var refreshErr *security.RefreshTokenError
	assert.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, security.NoRefresh, refreshErr.Case)
}

// 3. Валидный токен без записи в хранилище — OLD_REFRESH.
// Проверка хранилища обязана выполняться даже при успешной валидации
func TestRefresh_NotInStore(t *testing.T) {
	svc, mockJWT, mockRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockJWT.On("ValidateToken", "stolen").Return(refreshClaims("a@x.com", 100*time.Hour), nil)
	mockRepo.On("Exists", ctx, "stolen").Return(false, nil)

	_, err := svc.Refresh(ctx, "stolen")

	var refreshErr *security.RefreshTokenError
	assert.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, security.OldRefresh, refreshErr.Case)
	mockJWT.AssertNotCalled(t, "GenerateAccessToken", mock.Anything)
}

// 4. Запаса больше порога: access новый, refresh прежний, ротации нет
func TestRefresh_NoRotation(t *testing.T) {
	svc, mockJWT, mockRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockJWT.On("ValidateToken", "ref").Return(refreshClaims("a@x.com", 100*time.Hour), nil)
	mockRepo.On("Exists", ctx, "ref").Return(true, nil)
	mockJWT.On("GenerateAccessToken", "a@x.com").Return("new-acc", nil)
	mockJWT.On("RotationThreshold").Return(72 * time.Hour)

	tokens, err := svc.Refresh(ctx, "ref")

	assert.NoError(t, err)
	assert.Equal(t, "new-acc", tokens.AccessToken)
	assert.Equal(t, "ref", tokens.RefreshToken)
	mockRepo.AssertNotCalled(t, "Rotate", mock.Anything, mock.Anything, mock.Anything)
}

// 5. Запаса меньше порога: выдается новый refresh, старая запись
// заменяется атомарно
func TestRefresh_WithRotation(t *testing.T) {
	svc, mockJWT, mockRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockJWT.On("ValidateToken", "ref").Return(refreshClaims("a@x.com", 48*time.Hour), nil)
	mockRepo.On("Exists", ctx, "ref").Return(true, nil)
	mockJWT.On("GenerateAccessToken", "a@x.com").Return("new-acc", nil)
	mockJWT.On("RotationThreshold").Return(72 * time.Hour)
	mockJWT.On("GenerateRefreshToken", "a@x.com").Return("new-ref", nil)
	mockJWT.On("RefreshTokenTTL").Return(168 * time.Hour)
	mockRepo.On("Rotate", ctx, "ref", mock.MatchedBy(func(entry *model.RefreshToken) bool {
		return entry.Token == "new-ref" && entry.Email == "a@x.com"
	})).Return(true, nil)

	tokens, err := svc.Refresh(ctx, "ref")

	assert.NoError(t, err)
	assert.Equal(t, "new-acc", tokens.AccessToken)
	assert.Equal(t, "new-ref", tokens.RefreshToken)
	mockRepo.AssertExpectations(t)
}

// 6. Ротация проиграла гонку параллельному logout — OLD_REFRESH
func TestRefresh_RotationLostRace(t *testing.T) {
	svc, mockJWT, mockRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockJWT.On("ValidateToken", "ref").Return(refreshClaims("a@x.com", 48*time.Hour), nil)
	mockRepo.On("Exists", ctx, "ref").Return(true, nil)
	mockJWT.On("GenerateAccessToken", "a@x.com").Return("new-acc", nil)
	mockJWT.On("RotationThreshold").Return(72 * time.Hour)
	mockJWT.On("GenerateRefreshToken", "a@x.com").Return("new-ref", nil)
	mockJWT.On("RefreshTokenTTL").Return(168 * time.Hour)
	mockRepo.On("Rotate", ctx, "ref", mock.Anything).Return(false, nil)

	_, err := svc.Refresh(ctx, "ref")

	var refreshErr *security.RefreshTokenError
	assert.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, security.OldRefresh, refreshErr.Case)
}

// ===== LOGOUT =====

// 1. Невалидный refresh токен — OLD_REFRESH
func TestLogout_InvalidRefresh(t *testing.T) {
	svc, mockJWT, mockRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockJWT.On("ValidateToken", "bad").Return(nil, security.ErrExpiredToken)

	err := svc.Logout(ctx, "bad", "acc")

	var refreshErr *security.RefreshTokenError
	assert.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, security.OldRefresh, refreshErr.Case)
	mockRepo.AssertNotCalled(t, "DeleteByToken", mock.Anything, mock.Anything)
}

// 2. Записи в хранилище уже нет — OLD_REFRESH
func TestLogout_NotInStore(t *testing.T) {
	svc, mockJWT, mockRepo, mockBlacklist, _ := newTestAuthService()
	ctx := context.Background()

	mockJWT.On("ValidateToken", "ref").Return(refreshClaims("a@x.com", 100*time.Hour), nil)
	mockRepo.On("DeleteByToken", ctx, "ref").Return(false, nil)

	err := svc.Logout(ctx, "ref", "acc")

	var refreshErr *security.RefreshTokenError
	assert.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, security.OldRefresh, refreshErr.Case)
	mockBlacklist.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

// 3. Успешный logout: запись удалена, access токен в блэклисте
// с TTL по его собственному остатку жизни
func TestLogout_Success_TTLFromToken(t *testing.T) {
	svc, mockJWT, mockRepo, mockBlacklist, _ := newTestAuthService()
	ctx := context.Background()

	mockJWT.On("ValidateToken", "ref").Return(refreshClaims("a@x.com", 100*time.Hour), nil)
	mockRepo.On("DeleteByToken", ctx, "ref").Return(true, nil)
	mockJWT.On("TokenRemaining", "acc").Return(30*time.Minute, nil)
	mockBlacklist.On("Add", ctx, "acc", 30*time.Minute).Return(nil)

	err := svc.Logout(ctx, "ref", "acc")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockBlacklist.AssertExpectations(t)
}

// 4. Остаток жизни access токена меньше минимума — берется минимум
func TestLogout_Success_TTLFloor(t *testing.T) {
	svc, mockJWT, mockRepo, mockBlacklist, _ := newTestAuthService()
	ctx := context.Background()

	mockJWT.On("ValidateToken", "ref").Return(refreshClaims("a@x.com", 100*time.Hour), nil)
	mockRepo.On("DeleteByToken", ctx, "ref").Return(true, nil)
	mockJWT.On("TokenRemaining", "acc").Return(10*time.Second, nil)
	mockBlacklist.On("Add", ctx, "acc", time.Minute).Return(nil)

	err := svc.Logout(ctx, "ref", "acc")

	assert.NoError(t, err)
	mockBlacklist.AssertExpectations(t)
}

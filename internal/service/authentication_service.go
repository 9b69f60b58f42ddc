package service

import (
	"context"
	"errors"
	"log"
	"time"

	"grinder-web-server/internal/model"
	"grinder-web-server/internal/ports"
	"grinder-web-server/internal/security"
	"grinder-web-server/internal/util"

	"github.com/google/uuid"
)

type AuthenticationService struct {
	jwtService       ports.JWTServiceInterface
	refreshTokenRepo ports.RefreshTokenRepositoryInterface
	blacklistRepo    ports.BlacklistRepository
	memberRepo       ports.MemberRepositoryInterface
	blacklistTTL     time.Duration
}

func NewAuthenticationService(
	jwtService ports.JWTServiceInterface,
	refreshTokenRepo ports.RefreshTokenRepositoryInterface,
	blacklistRepo ports.BlacklistRepository,
	memberRepo ports.MemberRepositoryInterface,
	blacklistTTL time.Duration,
) *AuthenticationService {
	return &AuthenticationService{
		jwtService,
		refreshTokenRepo,
		blacklistRepo,
		memberRepo,
		blacklistTTL,
	}
}

// Authenticate проверяет учетные данные по хранилищу пользователей.
// "Нет такого пользователя" и "неверный пароль" наружу не различаются:
// оба случая дают ErrInvalidCredentials
func (s *AuthenticationService) Authenticate(ctx context.Context, email, password string) (*model.Member, error) {
	member, err := s.memberRepo.FindByEmail(ctx, email)
	if err != nil {
		log.Printf("пользователь не найден: %v", err)
		return nil, security.ErrInvalidCredentials
	}

	if !security.CheckPassword(password, member.PasswordHash) {
		return nil, security.ErrInvalidCredentials
	}

	return member, nil
}

// Login выдает начальную пару токенов и сохраняет refresh в хранилище.
// Каждый успешный вход создает отдельную запись: параллельные сессии
// с разных устройств сосуществуют
func (s *AuthenticationService) Login(ctx context.Context, email, password string) (*model.TokensPair, error) {
	member, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(member.Email)
	if err != nil {
		return nil, util.LogError("ошибка генерации access токена", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(member.Email)
	if err != nil {
		return nil, util.LogError("ошибка генерации refresh токена", err)
	}

	entry := &model.RefreshToken{
		UUID:     uuid.New().String(),
		Token:    refreshToken,
		Email:    member.Email,
		ExpireAt: time.Now().Add(s.jwtService.RefreshTokenTTL()),
	}
	if err := s.refreshTokenRepo.Save(ctx, entry); err != nil {
		return nil, util.LogError("ошибка сохранения refresh токена", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh обновляет пару токенов по refresh-токену.
//  1. Просроченный токен — OLD_REFRESH, сломанный — NO_REFRESH.
//  2. Структурно валидный токен без записи в хранилище (например, после
//     logout) — тоже OLD_REFRESH; владение токеном необходимо, но
//     недостаточно.
//  3. Access токен выдается новый всегда; refresh ротируется только когда
//     до его истечения осталось меньше порога. Старая запись при ротации
//     удаляется в той же транзакции.
func (s *AuthenticationService) Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, security.ErrExpiredToken) {
			return nil, security.NewRefreshTokenError(security.OldRefresh)
		}
		return nil, security.NewRefreshTokenError(security.NoRefresh)
	}

	exists, err := s.refreshTokenRepo.Exists(ctx, refreshToken)
	if err != nil {
		return nil, util.LogError("ошибка проверки refresh токена", err)
	}
	if !exists {
		log.Printf("refresh токен отсутствует в хранилище")
		return nil, security.NewRefreshTokenError(security.OldRefresh)
	}

	email, err := security.EmailFromClaims(claims)
	if err != nil {
		return nil, security.NewRefreshTokenError(security.NoRefresh)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(email)
	if err != nil {
		return nil, util.LogError("ошибка генерации access токена", err)
	}

	expireAt, err := security.ExpirationFromClaims(claims)
	if err != nil {
		return nil, security.NewRefreshTokenError(security.NoRefresh)
	}

	if time.Until(expireAt) < s.jwtService.RotationThreshold() {
		newRefreshToken, err := s.jwtService.GenerateRefreshToken(email)
		if err != nil {
			return nil, util.LogError("ошибка генерации refresh токена", err)
		}

		entry := &model.RefreshToken{
			UUID:     uuid.New().String(),
			Token:    newRefreshToken,
			Email:    email,
			ExpireAt: time.Now().Add(s.jwtService.RefreshTokenTTL()),
		}

		rotated, err := s.refreshTokenRepo.Rotate(ctx, refreshToken, entry)
		if err != nil {
			return nil, util.LogError("ошибка ротации refresh токена", err)
		}
		if !rotated {
			log.Printf("ротация проиграла гонку: старый токен уже удален")
			return nil, security.NewRefreshTokenError(security.OldRefresh)
		}

		refreshToken = newRefreshToken
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout удаляет refresh-токен из хранилища и помещает access токен
// в блэклист. TTL записи берется из остатка жизни самого токена,
// но не меньше настроенного минимума: отозванный токен не должен
// ожить раньше своего естественного истечения
func (s *AuthenticationService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	if _, err := s.jwtService.ValidateToken(refreshToken); err != nil {
		return security.NewRefreshTokenError(security.OldRefresh)
	}

	deleted, err := s.refreshTokenRepo.DeleteByToken(ctx, refreshToken)
	if err != nil {
		return util.LogError("ошибка удаления refresh токена", err)
	}
	if !deleted {
		return security.NewRefreshTokenError(security.OldRefresh)
	}

	if accessToken != "" {
		ttl := s.blacklistTTL
		if remaining, err := s.jwtService.TokenRemaining(accessToken); err == nil && remaining > ttl {
			ttl = remaining
		}
		if err := s.blacklistRepo.Add(ctx, accessToken, ttl); err != nil {
			return util.LogError("ошибка добавления токена в блэклист", err)
		}
	}

	return nil
}

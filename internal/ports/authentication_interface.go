package ports

import (
	"context"

	"grinder-web-server/internal/model"
)

type AuthenticationService interface {
	Login(ctx context.Context, email, password string) (*model.TokensPair, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, refreshToken, accessToken string) error
}

type MemberRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*model.Member, error)
}

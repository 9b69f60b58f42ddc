package repository

import (
	"context"

	"grinder-web-server/config"
	"grinder-web-server/internal/model"
	"grinder-web-server/internal/util"

	"github.com/jmoiron/sqlx"
)

// MemberRepository — хранилище учетных данных. Подсистема аутентификации
// только читает его: регистрация и управление профилем живут отдельно
type MemberRepository struct {
	*config.Database
}

func NewMemberRepository(database *config.Database) *MemberRepository {
	return &MemberRepository{database}
}

// FindByEmail : ищет пользователя по email
func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	query := `SELECT uuid, email, nickname, password_hash, created_at FROM members WHERE email = $1`
	var member model.Member
	err := sqlx.GetContext(ctx, r.DB, &member, query, email)
	if err != nil {
		return nil, util.LogError("[MemberRepo] не удалось найти пользователя по email", err)
	}
	return &member, nil
}

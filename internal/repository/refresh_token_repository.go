package repository

import (
	"context"

	"grinder-web-server/config"
	"grinder-web-server/internal/model"
	"grinder-web-server/internal/util"

	"github.com/jmoiron/sqlx"
)

// RefreshTokenRepository — надежное хранилище действующих refresh-токенов.
// Запись есть — токен валиден, записи нет — нет
type RefreshTokenRepository struct {
	*config.Database
}

func NewRefreshTokenRepository(database *config.Database) *RefreshTokenRepository {
	return &RefreshTokenRepository{database}
}

// Save сохраняет refresh-токен в базе данных
func (r *RefreshTokenRepository) Save(ctx context.Context, refreshToken *model.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (uuid, token, email, expire_at)
				VALUES ($1, $2, $3, $4)
	`

	_, err := r.DB.ExecContext(ctx, query,
		refreshToken.UUID,
		refreshToken.Token,
		refreshToken.Email,
		refreshToken.ExpireAt,
	)

	if err != nil {
		return util.LogError("ошибка вставки данных в БД", err)
	}

	return nil
}

// Exists проверяет, есть ли токен в хранилище
func (r *RefreshTokenRepository) Exists(ctx context.Context, token string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE token = $1)`
	err := sqlx.GetContext(ctx, r.DB, &exists, query, token)
	if err != nil {
		return false, util.LogError("ошибка проверки существования токена", err)
	}
	return exists, nil
}

// DeleteByToken удаляет токен из хранилища.
// Возвращает false, если записи уже не было: повторное удаление — не ошибка
func (r *RefreshTokenRepository) DeleteByToken(ctx context.Context, token string) (bool, error) {
	query := `DELETE FROM refresh_tokens WHERE token = $1`

	result, err := r.DB.ExecContext(ctx, query, token)
	if err != nil {
		return false, util.LogError("не удалось удалить рефреш токен", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, util.LogError("не удалось проверить, удален ли токен", err)
	}

	return rowsAffected > 0, nil
}

// Rotate заменяет старый токен новым в одной транзакции.
// Возвращает false, если старой записи нет: гонка с параллельным logout
// или другой ротацией, выдавать новый токен в этом случае нельзя
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldToken string, newToken *model.RefreshToken) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, util.LogError("не удалось начать транзакцию", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, oldToken)
	if err != nil {
		return false, util.LogError("не удалось удалить старый токен", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, util.LogError("не удалось проверить, удален ли токен", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO refresh_tokens (uuid, token, email, expire_at) VALUES ($1, $2, $3, $4)`,
		newToken.UUID,
		newToken.Token,
		newToken.Email,
		newToken.ExpireAt,
	)
	if err != nil {
		return false, util.LogError("не удалось сохранить новый токен", err)
	}

	if err := tx.Commit(); err != nil {
		return false, util.LogError("не удалось зафиксировать транзакцию", err)
	}

	return true, nil
}

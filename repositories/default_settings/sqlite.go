package default_settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"santa_hat_bot/entities"
	"santa_hat_bot/repositories"
)

const upsertSetting string = `
INSERT OR REPLACE INTO default_settings (member_id, scale, offset_x, offset_y, rotation) VALUES (?, ?, ?, ?, ?);
`

const getSettingByMemberID string = `
SELECT member_id, scale, offset_x, offset_y, rotation FROM default_settings WHERE member_id = ?;
`

type sqliteRepo struct {
	dbConn *sql.DB
}

type Config struct {
	DB *sql.DB
}

func NewRepository(cfg *Config) (Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("missing DB parameter")
	}

	newRepo := &sqliteRepo{
		dbConn: cfg.DB,
	}

	return newRepo, nil
}

func (repo *sqliteRepo) Upsert(ctx context.Context, setting *entities.DefaultSettings) (*entities.DefaultSettings, error) {
	_, err := repo.dbConn.ExecContext(ctx, upsertSetting,
		setting.MemberID, setting.Scale, setting.OffsetX, setting.OffsetY, setting.Rotation)
	if err != nil {
		return nil, err
	}

	return setting, nil
}

func (repo *sqliteRepo) GetByMemberID(ctx context.Context, memberID string) (*entities.DefaultSettings, error) {
	var setting entities.DefaultSettings

	err := repo.dbConn.QueryRowContext(ctx, getSettingByMemberID, memberID).Scan(
		&setting.MemberID, &setting.Scale, &setting.OffsetX, &setting.OffsetY, &setting.Rotation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NewNotFoundError(fmt.Sprintf("default settings for member ID %s", memberID))
		}

		return nil, err
	}

	return &setting, nil
}

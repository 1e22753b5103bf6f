package hat_composites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"santa_hat_bot/clock"
	"santa_hat_bot/entities"
	"santa_hat_bot/repositories"
)

const insertCompositeQuery string = `
INSERT INTO hat_composites (interaction_id, message_id, member_id, source_image_url,
base_width, base_height, scale, offset_x, offset_y, rotation, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`

const getCompositeByMessageQuery string = `
SELECT id, interaction_id, message_id, member_id, source_image_url,
base_width, base_height, scale, offset_x, offset_y, rotation, created_at
FROM hat_composites WHERE message_id = ? LIMIT 1;
`

type sqliteRepo struct {
	dbConn *sql.DB
	clock  clock.Clock
}

type Config struct {
	DB    *sql.DB
	Clock clock.Clock
}

func NewRepository(cfg *Config) (Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("missing DB parameter")
	}

	repoClock := cfg.Clock
	if repoClock == nil {
		repoClock = clock.NewClock()
	}

	newRepo := &sqliteRepo{
		dbConn: cfg.DB,
		clock:  repoClock,
	}

	return newRepo, nil
}

func (repo *sqliteRepo) Create(ctx context.Context, composite *entities.HatComposite) (*entities.HatComposite, error) {
	composite.CreatedAt = repo.clock.Now()

	res, err := repo.dbConn.ExecContext(ctx, insertCompositeQuery,
		composite.InteractionID, composite.MessageID, composite.MemberID, composite.SourceImageURL,
		composite.BaseWidth, composite.BaseHeight, composite.Scale,
		composite.OffsetX, composite.OffsetY, composite.Rotation, composite.CreatedAt)
	if err != nil {
		return nil, err
	}

	insertedID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	composite.ID = insertedID

	return composite, nil
}

func (repo *sqliteRepo) GetByMessage(ctx context.Context, messageID string) (*entities.HatComposite, error) {
	var composite entities.HatComposite

	err := repo.dbConn.QueryRowContext(ctx, getCompositeByMessageQuery, messageID).Scan(
		&composite.ID, &composite.InteractionID, &composite.MessageID, &composite.MemberID,
		&composite.SourceImageURL, &composite.BaseWidth, &composite.BaseHeight, &composite.Scale,
		&composite.OffsetX, &composite.OffsetY, &composite.Rotation, &composite.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NewNotFoundError(fmt.Sprintf("hat composite for message ID %s", messageID))
		}

		return nil, err
	}

	return &composite, nil
}

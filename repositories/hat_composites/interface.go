package hat_composites

import (
	"context"
	"santa_hat_bot/entities"
)

type Repository interface {
	Create(ctx context.Context, composite *entities.HatComposite) (*entities.HatComposite, error)
	GetByMessage(ctx context.Context, messageID string) (*entities.HatComposite, error)
}

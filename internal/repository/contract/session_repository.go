package contract

import (
	"context"

	"myjourney-be/internal/entity"
	"myjourney-be/internal/repository/specification"

	"github.com/google/uuid"
)

// SessionRepository is the remote store: one row per session, keyed by
// session id and scoped to a user. Upsert semantics, last write wins.
type SessionRepository interface {
	Upsert(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, id uuid.UUID, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

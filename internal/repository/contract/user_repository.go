package contract

import (
	"context"

	"myjourney-be/internal/entity"
	"myjourney-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
}

type UserProviderRepository interface {
	Create(ctx context.Context, provider *entity.UserProvider) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserProvider, error)
}

package unitofwork

import (
	"context"

	"myjourney-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	UserProviderRepository() contract.UserProviderRepository
	SessionRepository() contract.SessionRepository
}

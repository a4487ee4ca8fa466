package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

type RepositoryFactoryImpl struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db: db,
	}
}

func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	// UoW is short lived per request; the context is applied when a
	// transaction begins or per repository call.
	return NewUnitOfWork(f.db)
}

package implementation

import (
	"context"
	"errors"

	"myjourney-be/internal/entity"
	"myjourney-be/internal/mapper"
	"myjourney-be/internal/model"
	"myjourney-be/internal/repository/contract"
	"myjourney-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRepositoryImpl) Upsert(ctx context.Context, session *entity.Session) error {
	m, err := r.mapper.ToModel(session)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(m).Error
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userId).
		Delete(&model.StorySession{}).Error
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var m model.StorySession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *SessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var rows []*model.StorySession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows)
}

func (r *SessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.StorySession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"myjourney-be/internal/entity"
	"myjourney-be/internal/repository/contract"
	"myjourney-be/internal/repository/local"
	"myjourney-be/internal/repository/specification"
	"myjourney-be/internal/repository/unitofwork"
	"myjourney-be/pkg/localstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessionRepo struct {
	deleteErr error
	deleted   []uuid.UUID
}

func (r *stubSessionRepo) Upsert(context.Context, *entity.Session) error { return nil }

func (r *stubSessionRepo) Delete(_ context.Context, id uuid.UUID, _ uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return r.deleteErr
}

func (r *stubSessionRepo) FindOne(context.Context, ...specification.Specification) (*entity.Session, error) {
	return nil, nil
}

func (r *stubSessionRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Session, error) {
	return nil, nil
}

func (r *stubSessionRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return 0, nil
}

type stubUow struct {
	sessions *stubSessionRepo
}

func (u *stubUow) Begin(context.Context) error { return nil }
func (u *stubUow) Commit() error               { return nil }
func (u *stubUow) Rollback() error             { return nil }

func (u *stubUow) UserRepository() contract.UserRepository                 { return nil }
func (u *stubUow) UserProviderRepository() contract.UserProviderRepository { return nil }
func (u *stubUow) SessionRepository() contract.SessionRepository           { return u.sessions }

type stubUowFactory struct {
	uow *stubUow
}

func (f *stubUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

func newLocalStore(t *testing.T) *local.SessionStore {
	t.Helper()
	return local.NewSessionStore(localstore.New(filepath.Join(t.TempDir(), "sessions.json")))
}

func TestDeleteSurvivesRemoteFailure(t *testing.T) {
	userId := uuid.New()
	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    &userId,
		StartTime: time.Now(),
		Genre:     "Noir",
	}

	store := newLocalStore(t)
	require.NoError(t, store.Save(session))

	remote := &stubSessionRepo{deleteErr: errors.New("connection reset")}
	svc := NewSessionService(store, &stubUowFactory{uow: &stubUow{sessions: remote}}, nil, nopLogger{})

	// The authoritative local delete succeeds; the remote failure is logged
	// and must not surface.
	err := svc.Delete(context.Background(), session.Id, &userId)
	assert.NoError(t, err)

	gone, err := store.Get(session.Id)
	require.NoError(t, err)
	assert.Nil(t, gone)

	require.Len(t, remote.deleted, 1)
	assert.Equal(t, session.Id, remote.deleted[0])
}

func TestDeleteSkipsRemoteForUnownedSession(t *testing.T) {
	owner := uuid.New()
	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    &owner,
		StartTime: time.Now(),
		Genre:     "Noir",
	}

	store := newLocalStore(t)
	require.NoError(t, store.Save(session))

	remote := &stubSessionRepo{}
	svc := NewSessionService(store, &stubUowFactory{uow: &stubUow{sessions: remote}}, nil, nopLogger{})

	other := uuid.New()
	require.NoError(t, svc.Delete(context.Background(), session.Id, &other))

	// Local removal always happens; the remote row belongs to someone else.
	assert.Empty(t, remote.deleted)
}

func TestDeleteUnknownSession(t *testing.T) {
	svc := NewSessionService(newLocalStore(t), nil, nil, nopLogger{})

	err := svc.Delete(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

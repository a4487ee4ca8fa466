package service

import (
	"context"
	"errors"
	"sort"

	"myjourney-be/internal/constant"
	"myjourney-be/internal/dto"
	"myjourney-be/internal/entity"
	"myjourney-be/internal/pkg/logger"
	"myjourney-be/internal/repository/local"
	"myjourney-be/internal/repository/specification"
	"myjourney-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type ISessionService interface {
	List(ctx context.Context, userId *uuid.UUID) ([]dto.SessionSummaryResponse, error)
	Show(ctx context.Context, id uuid.UUID, userId *uuid.UUID) (*dto.ShowSessionResponse, error)
	Delete(ctx context.Context, id uuid.UUID, userId *uuid.UUID) error
	ChapterAudio(ctx context.Context, sessionId, chapterId uuid.UUID, userId *uuid.UUID) (string, error)
	Genres() dto.GenreListResponse

	// PersistSession is called from the ride loop after every mutation.
	// The local blob is written synchronously; the remote mirror runs
	// through the sync worker so a slow database never stalls a ride.
	PersistSession(ctx context.Context, session *entity.Session)
}

type sessionService struct {
	localStore *local.SessionStore
	uowFactory unitofwork.RepositoryFactory // nil in local-only mode
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewSessionService(
	localStore *local.SessionStore,
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		localStore: localStore,
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *sessionService) List(ctx context.Context, userId *uuid.UUID) ([]dto.SessionSummaryResponse, error) {
	sessions, err := s.localStore.All()
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(sessions))
	for _, session := range sessions {
		seen[session.Id] = true
	}

	// Sessions mirrored from another device live only in the remote store.
	if userId != nil && s.uowFactory != nil {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		remote, err := uow.SessionRepository().FindAll(ctx,
			specification.OwnedBy{UserID: *userId},
			specification.OrderBy{Field: "updated_at", Desc: true},
		)
		if err != nil {
			s.logger.Warn("SessionService", "Remote listing failed, serving local only", map[string]interface{}{"error": err.Error()})
		} else {
			for _, session := range remote {
				if !seen[session.Id] {
					sessions = append(sessions, session)
					seen[session.Id] = true
				}
			}
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})

	summaries := make([]dto.SessionSummaryResponse, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, dto.SessionSummaryResponse{
			Id:            session.Id.String(),
			StartTime:     session.StartTime,
			Genre:         session.Genre,
			CarpoolMode:   session.CarpoolMode,
			IsCompleted:   session.IsCompleted,
			TotalDistance: session.TotalDistance,
			TotalTime:     session.TotalTime,
			ChapterCount:  len(session.Chapters),
		})
	}
	return summaries, nil
}

func (s *sessionService) Show(ctx context.Context, id uuid.UUID, userId *uuid.UUID) (*dto.ShowSessionResponse, error) {
	session, err := s.find(ctx, id, userId)
	if err != nil {
		return nil, err
	}

	res := &dto.ShowSessionResponse{
		Id:            session.Id.String(),
		StartTime:     session.StartTime,
		Genre:         session.Genre,
		PlotSeed:      session.PlotSeed,
		CarpoolMode:   session.CarpoolMode,
		IsCompleted:   session.IsCompleted,
		TotalDistance: session.TotalDistance,
		TotalTime:     session.TotalTime,
		Chapters:      make([]dto.ChapterResponse, 0, len(session.Chapters)),
	}
	for _, c := range session.Chapters {
		res.Chapters = append(res.Chapters, dto.ChapterResponse{
			Id:                 c.Id.String(),
			Title:              c.Title,
			Content:            c.Content,
			CreatedAt:          c.CreatedAt,
			SpeedAtCreation:    c.SpeedAtCreation,
			DistanceAtCreation: c.DistanceAtCreation,
			Genre:              c.Genre,
			HasAudio:           c.AudioData != nil,
		})
	}
	return res, nil
}

func (s *sessionService) Delete(ctx context.Context, id uuid.UUID, userId *uuid.UUID) error {
	session, err := s.find(ctx, id, userId)
	if err != nil {
		return err
	}

	if err := s.localStore.Delete(id); err != nil {
		return err
	}

	if userId != nil && session.UserId != nil && *session.UserId == *userId && s.uowFactory != nil {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.SessionRepository().Delete(ctx, id, *userId); err != nil {
			// The local store is authoritative and already clean; a stale
			// remote row may resurface in a later merge but must not fail
			// the request.
			s.logger.Error("SessionService", "Remote delete failed", map[string]interface{}{
				"session_id": id,
				"error":      err.Error(),
			})
		}
	}
	return nil
}

func (s *sessionService) ChapterAudio(ctx context.Context, sessionId, chapterId uuid.UUID, userId *uuid.UUID) (string, error) {
	session, err := s.find(ctx, sessionId, userId)
	if err != nil {
		return "", err
	}

	for _, c := range session.Chapters {
		if c.Id == chapterId {
			if c.AudioData == nil {
				return "", ErrSessionNotFound
			}
			return *c.AudioData, nil
		}
	}
	return "", ErrSessionNotFound
}

func (s *sessionService) Genres() dto.GenreListResponse {
	return dto.GenreListResponse{Genres: constant.Genres}
}

func (s *sessionService) PersistSession(ctx context.Context, session *entity.Session) {
	if err := s.localStore.Save(session); err != nil {
		s.logger.Error("SessionService", "Local save failed", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		return
	}

	if session.UserId == nil || s.publisher == nil {
		return
	}
	msg := dto.PublishSyncSessionMessage{SessionId: session.Id}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.Error("SessionService", "Failed to enqueue session sync", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}
}

// find resolves a session from the local store first and falls back to the
// caller's remote mirror.
func (s *sessionService) find(ctx context.Context, id uuid.UUID, userId *uuid.UUID) (*entity.Session, error) {
	session, err := s.localStore.Get(id)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	if userId != nil && s.uowFactory != nil {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		session, err = uow.SessionRepository().FindOne(ctx,
			specification.ByID{ID: id},
			specification.OwnedBy{UserID: *userId},
		)
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, nil
		}
	}
	return nil, ErrSessionNotFound
}

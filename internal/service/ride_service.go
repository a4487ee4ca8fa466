package service

import (
	"context"
	"errors"
	"time"

	"myjourney-be/internal/constant"
	"myjourney-be/internal/dto"
	"myjourney-be/internal/engine"
	"myjourney-be/internal/entity"
	"myjourney-be/internal/pkg/logger"
	"myjourney-be/internal/repository/local"
	"myjourney-be/internal/repository/memory"
	"myjourney-be/internal/repository/specification"
	"myjourney-be/internal/repository/unitofwork"
	"myjourney-be/pkg/events"
	pktNats "myjourney-be/pkg/nats"

	"github.com/google/uuid"
)

var (
	ErrRideNotFound = errors.New("no active ride for session")
	ErrRideActive   = errors.New("ride already active for session")
	ErrUnknownGenre = errors.New("unknown genre")
)

type IRideService interface {
	Start(ctx context.Context, userId *uuid.UUID, req dto.StartRideRequest) (*dto.StartRideResponse, error)
	Resume(ctx context.Context, userId *uuid.UUID, sessionId uuid.UUID) (*dto.ResumeRideResponse, error)
	UpdateSpeed(sessionId uuid.UUID, speed float64) error
	SetTracking(sessionId uuid.UUID, tracking bool) error
	Metrics(sessionId uuid.UUID) (*dto.RideMetricsResponse, error)
	Save(sessionId uuid.UUID) (*dto.RideMetricsResponse, error)
	Exit(sessionId uuid.UUID) (*dto.ExitRideResponse, error)
	DrainAll()
}

type rideService struct {
	rides      *memory.RideRepository
	localStore *local.SessionStore
	uowFactory unitofwork.RepositoryFactory // nil in local-only mode
	generator  engine.Generator
	persister  engine.Persister
	feed       engine.Feed
	bus        *pktNats.Publisher // nil when NATS is not configured
	logger     logger.ILogger
}

func NewRideService(
	rides *memory.RideRepository,
	localStore *local.SessionStore,
	uowFactory unitofwork.RepositoryFactory,
	generator engine.Generator,
	persister engine.Persister,
	feed engine.Feed,
	bus *pktNats.Publisher,
	log logger.ILogger,
) IRideService {
	return &rideService{
		rides:      rides,
		localStore: localStore,
		uowFactory: uowFactory,
		generator:  generator,
		persister:  persister,
		feed:       feed,
		bus:        bus,
		logger:     log,
	}
}

func (s *rideService) Start(ctx context.Context, userId *uuid.UUID, req dto.StartRideRequest) (*dto.StartRideResponse, error) {
	if !constant.IsValidGenre(req.Genre) {
		return nil, ErrUnknownGenre
	}

	session := &entity.Session{
		Id:          uuid.New(),
		UserId:      userId,
		StartTime:   time.Now(),
		Genre:       req.Genre,
		PlotSeed:    req.PlotSeed,
		CarpoolMode: req.CarpoolMode,
	}

	ride := engine.Start(session, s.engineConfig())
	s.track(ride)

	s.logger.Info("RideService", "Ride started", map[string]interface{}{
		"session_id": session.Id,
		"genre":      session.Genre,
		"carpool":    session.CarpoolMode,
	})

	return &dto.StartRideResponse{SessionId: session.Id.String()}, nil
}

func (s *rideService) Resume(ctx context.Context, userId *uuid.UUID, sessionId uuid.UUID) (*dto.ResumeRideResponse, error) {
	if _, active := s.rides.Get(sessionId.String()); active {
		return nil, ErrRideActive
	}

	session, err := s.findSession(ctx, sessionId, userId)
	if err != nil {
		return nil, err
	}

	// Resuming reopens a completed journey.
	session.IsCompleted = false

	ride := engine.Resume(session, s.engineConfig())
	s.track(ride)

	s.logger.Info("RideService", "Ride resumed", map[string]interface{}{
		"session_id": session.Id,
		"chapters":   len(session.Chapters),
	})

	return &dto.ResumeRideResponse{
		SessionId:    session.Id.String(),
		ChapterCount: len(session.Chapters),
	}, nil
}

func (s *rideService) UpdateSpeed(sessionId uuid.UUID, speed float64) error {
	ride, found := s.rides.Get(sessionId.String())
	if !found {
		return ErrRideNotFound
	}
	ride.UpdateSpeed(speed)
	return nil
}

func (s *rideService) SetTracking(sessionId uuid.UUID, tracking bool) error {
	ride, found := s.rides.Get(sessionId.String())
	if !found {
		return ErrRideNotFound
	}
	ride.SetTracking(tracking)
	return nil
}

func (s *rideService) Metrics(sessionId uuid.UUID) (*dto.RideMetricsResponse, error) {
	ride, found := s.rides.Get(sessionId.String())
	if !found {
		return nil, ErrRideNotFound
	}
	return metricsResponse(ride.Metrics()), nil
}

func (s *rideService) Save(sessionId uuid.UUID) (*dto.RideMetricsResponse, error) {
	ride, found := s.rides.Get(sessionId.String())
	if !found {
		return nil, ErrRideNotFound
	}
	return metricsResponse(ride.Save()), nil
}

func (s *rideService) Exit(sessionId uuid.UUID) (*dto.ExitRideResponse, error) {
	ride, found := s.rides.Get(sessionId.String())
	if !found {
		return nil, ErrRideNotFound
	}

	m := ride.Exit()

	if s.bus != nil {
		event := events.NewSessionCompletedEvent(sessionId.String(), m.TotalDistance, m.ElapsedTime)
		if err := s.bus.Publish(context.Background(), event); err != nil {
			s.logger.Warn("RideService", "Failed to publish completion event", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	}

	return &dto.ExitRideResponse{
		SessionId:     sessionId.String(),
		TotalDistance: m.TotalDistance,
		TotalTime:     m.ElapsedTime,
		Co2Saved:      m.CO2Saved,
	}, nil
}

// DrainAll exits every live ride and waits for their loops to wind down,
// letting in-flight chapters land before the process stops.
func (s *rideService) DrainAll() {
	for _, ride := range s.rides.Items() {
		ride.Exit()
	}
	for _, ride := range s.rides.Items() {
		<-ride.Done()
	}
}

func (s *rideService) engineConfig() engine.Config {
	return engine.Config{
		Generator: s.generator,
		Persister: s.persister,
		Feed:      s.feed,
		Logger:    s.logger,
	}
}

// track registers the ride and removes it from the registry once its loop
// has fully stopped.
func (s *rideService) track(ride *engine.Ride) {
	s.rides.Save(ride)
	go func() {
		<-ride.Done()
		s.rides.Delete(ride.SessionId().String())
	}()
}

func (s *rideService) findSession(ctx context.Context, id uuid.UUID, userId *uuid.UUID) (*entity.Session, error) {
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

func metricsResponse(m engine.Metrics) *dto.RideMetricsResponse {
	return &dto.RideMetricsResponse{
		CurrentSpeed:  m.CurrentSpeed,
		TotalDistance: m.TotalDistance,
		Co2Saved:      m.CO2Saved,
		ElapsedTime:   m.ElapsedTime,
	}
}

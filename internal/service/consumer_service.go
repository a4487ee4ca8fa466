package service

import (
	"context"
	"encoding/json"
	"fmt"

	"myjourney-be/internal/dto"
	"myjourney-be/internal/pkg/logger"
	"myjourney-be/internal/repository/local"
	"myjourney-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService mirrors locally saved sessions to the remote database.
// The local blob stays authoritative; a failed mirror is retried, never
// surfaced to the rider.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	localStore *local.SessionStore
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	localStore *local.SessionStore,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		localStore: localStore,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishSyncSessionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("SyncWorker", "Failed to unmarshal sync message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	session, err := cs.localStore.Get(payload.SessionId)
	if err != nil {
		cs.logger.Error("SyncWorker", "Failed to read local session", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack() // Retriable
		return
	}
	if session == nil {
		// Deleted before the worker got to it. Nothing to mirror.
		msg.Ack()
		return
	}
	if session.UserId == nil || cs.uowFactory == nil {
		// Anonymous sessions never leave the device.
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().Upsert(ctx, session); err != nil {
		cs.logger.Error("SyncWorker", fmt.Sprintf("Failed to mirror session %s", session.Id), map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	cs.logger.Info("SyncWorker", "Session mirrored", map[string]interface{}{
		"session_id": session.Id,
		"chapters":   len(session.Chapters),
	})
	msg.Ack()
}

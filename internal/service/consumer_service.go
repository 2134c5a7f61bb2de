package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"avatar-trainer-be/internal/pkg/logger"
)

// IConsumerService drains the in-process message bus.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	knowledge IKnowledgeService
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	knowledge IKnowledgeService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		knowledge: knowledge,
		logger:    log,
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
	var payload WarmIndexMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	// An empty search forces a cache reload of the chunk snapshot.
	if _, err := cs.knowledge.Search(ctx, "warmup", 1); err != nil {
		cs.logger.Warn("ConsumerService", "index warmup failed", map[string]interface{}{
			"reason": payload.Reason,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("ConsumerService", "index warmed", map[string]interface{}{"reason": payload.Reason})
	msg.Ack()
}

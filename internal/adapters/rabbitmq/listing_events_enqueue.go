package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"listings-service/internal/constants"
	"listings-service/internal/contextkeys"
	"listings-service/internal/contracts"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher - то, что адаптеру нужно от rabbitmq_producer.Publisher
type Publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

var routingKeys = map[domain.ListingEventType]string{
	domain.ListingCreated: constants.RoutingKeyListingCreated,
	domain.ListingUpdated: constants.RoutingKeyListingUpdated,
	domain.ListingDeleted: constants.RoutingKeyListingDeleted,
}

// RabbitMQListingEventsAdapter публикует события объявлений в listings_exchange
type RabbitMQListingEventsAdapter struct {
	producer       Publisher
	publishTimeout time.Duration
}

func NewRabbitMQListingEventsAdapter(producer Publisher) (*RabbitMQListingEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	return &RabbitMQListingEventsAdapter{producer: producer, publishTimeout: 10 * time.Second}, nil
}

// PublishListingEvent проверяет событие по JSON-схеме и отправляет его с ключом listing.<type>
func (a *RabbitMQListingEventsAdapter) PublishListingEvent(ctx context.Context, event domain.ListingEvent) error {
	routingKey, ok := routingKeys[event.Type]
	if !ok {
		return fmt.Errorf("unknown listing event type '%s'", event.Type)
	}

	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "RabbitMQListingEventsAdapter",
		"routing_key": routingKey,
		"listing_id":  event.ListingID.String(),
	})

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	eventDTO := ListingEventDTO{
		EventID:      uuid.New(),
		EventType:    routingKey,
		OccurredAt:   occurredAt,
		ListingID:    event.ListingID,
		UserID:       event.UserID,
		Title:        event.Title,
		PropertyType: event.PropertyType,
		TotalArea:    event.TotalArea,
	}

	body, err := json.Marshal(eventDTO)
	if err != nil {
		adapterLogger.Error("Failed to marshal listing event to JSON", err, nil)
		return fmt.Errorf("failed to marshal listing event: %w", err)
	}

	eventName := contracts.EventTypeName("listing-" + string(event.Type))
	if err := contracts.ValidateEvent(eventName, constants.EventSchemaVersion, body); err != nil {
		adapterLogger.Error("Listing event does not match its schema", err, port.Fields{"event_type": eventName})
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    occurredAt,
		MessageId:    eventDTO.EventID.String(),
		Headers: amqp.Table{
			"x-event-type":    eventName,
			"x-event-version": constants.EventSchemaVersion,
		},
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, a.publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish listing event", err, nil)
		return err
	}

	adapterLogger.Info("Successfully published listing event", port.Fields{"event_id": eventDTO.EventID.String()})
	return nil
}

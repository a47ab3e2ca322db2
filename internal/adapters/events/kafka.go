package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/balazs-web/smoky-fish-sub000/internal/models"
)

// orderCreatedEvent is the wire shape announced to downstream consumers.
// It mirrors the persisted record: already anonymized, no customer identity
type orderCreatedEvent struct {
	OrderID          string             `json:"order_id"`
	Status           string             `json:"status"`
	Items            []models.OrderLine `json:"items"`
	Subtotal         int                `json:"subtotal"`
	ShippingCost     int                `json:"shipping_cost"`
	TotalPrice       int                `json:"total_price"`
	DeliveryCity     string             `json:"delivery_city"`
	DeliveryPostcode string             `json:"delivery_postcode"`
	CreatedAt        time.Time          `json:"created_at"`
}

// KafkaPublisher announces placed orders on a kafka topic
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
	}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order models.PersistedOrder) error {
	event := orderCreatedEvent{
		OrderID:          order.OrderID,
		Status:           string(order.Status),
		Items:            order.Items,
		Subtotal:         order.Subtotal,
		ShippingCost:     order.ShippingCost,
		TotalPrice:       order.TotalPrice,
		DeliveryCity:     order.DeliveryCity,
		DeliveryPostcode: order.DeliveryPostcode,
		CreatedAt:        order.CreatedAt,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error while marshalling order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.OrderID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("error while writing order event to kafka: %w", err)
	}

	return nil
}

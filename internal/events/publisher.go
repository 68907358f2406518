package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cdyhdrxj/store-backend/internal/catalog"
)

const publishTimeout = 3 * time.Second

type ItemPurchased struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Username  string    `json:"username"`
	ItemID    int64     `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Quantity  int64     `json:"quantity"`
	Remaining int64     `json:"remaining"`
	Timestamp time.Time `json:"timestamp"`
}

type StockDepleted struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ItemID    int64     `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishItemPurchased(ctx context.Context, username string, item catalog.Item, quantity int64) error {
	ev := ItemPurchased{
		EventID:   uuid.NewString(),
		EventType: "ItemPurchased",
		Username:  username,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Quantity:  quantity,
		Remaining: item.Quantity,
		Timestamp: time.Now().UTC(),
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal ItemPurchased: %w", err)
	}
	return p.publishJSON(ctx, ItemPurchasedRoutingKey, body)
}

func (p *Publisher) PublishStockDepleted(ctx context.Context, item catalog.Item) error {
	ev := StockDepleted{
		EventID:   uuid.NewString(),
		EventType: "StockDepleted",
		ItemID:    item.ID,
		ItemName:  item.Name,
		Timestamp: time.Now().UTC(),
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal StockDepleted: %w", err)
	}
	return p.publishJSON(ctx, StockDepletedRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now().UTC(),
		},
	)
}

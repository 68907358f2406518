// Package events publishes integration events about stock changes to
// RabbitMQ. This stream is for downstream consumers (analytics, restock
// automation); the in-process manager notification channel does not depend
// on it and the service runs fine with publishing disabled.
package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange          = "store.events"
	ItemPurchasedRoutingKey = "item.purchased.v1"
	StockDepletedRoutingKey = "stock.depleted.v1"
)

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// MustDial connects to RabbitMQ or panics; startup-only.
func MustDial(url string) *amqp.Connection {
	conn, err := amqp.Dial(url)
	if err != nil {
		panic("connect to RabbitMQ: " + err.Error())
	}
	return conn
}

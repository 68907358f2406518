// Package purchase implements the purchase transaction: validate, atomically
// decrement stock, then notify observers.
package purchase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cdyhdrxj/store-backend/internal/catalog"
)

// ErrInvalidQuantity rejects non-positive quantities before storage is touched.
var ErrInvalidQuantity = errors.New("invalid quantity")

// Stock is the storage-side commit primitive. Purchase and AddStock are
// atomic per item; concurrent calls against the same item serialize inside
// the store.
type Stock interface {
	Purchase(ctx context.Context, itemID, qty int64) (catalog.Item, error)
	AddStock(ctx context.Context, itemID, qty int64) (catalog.Item, error)
}

// Notifier pushes a purchase notification to connected managers. Delivery is
// best-effort; failures are handled inside the notifier.
type Notifier interface {
	NotifyPurchase(username, item string, quantity int64)
}

// EventSink receives integration events after a purchase commits. May be nil
// when event publishing is not configured.
type EventSink interface {
	PublishItemPurchased(ctx context.Context, username string, item catalog.Item, quantity int64) error
	PublishStockDepleted(ctx context.Context, item catalog.Item) error
}

type Service struct {
	stock    Stock
	notifier Notifier
	events   EventSink
	logger   *zap.Logger
}

func NewService(stock Stock, notifier Notifier, events EventSink, logger *zap.Logger) *Service {
	return &Service{stock: stock, notifier: notifier, events: events, logger: logger}
}

// Buy purchases qty units of the item for the given buyer.
//
// Failures are fail-fast and leave no partial state: ErrInvalidQuantity for
// qty <= 0, catalog.ErrNotFound for an unknown item, and
// catalog.ErrInsufficientStock when the stock check fails. In all three
// cases the stored quantity is untouched and nothing is broadcast.
//
// Once the decrement commits, the purchase is final: notification and event
// publishing are fire-and-forget and can never fail the purchase.
func (s *Service) Buy(ctx context.Context, itemID, qty int64, buyer string) (catalog.Item, error) {
	if qty <= 0 {
		return catalog.Item{}, ErrInvalidQuantity
	}

	item, err := s.stock.Purchase(ctx, itemID, qty)
	if err != nil {
		return catalog.Item{}, err
	}

	s.notifier.NotifyPurchase(buyer, item.Name, qty)

	if s.events != nil {
		if err := s.events.PublishItemPurchased(ctx, buyer, item, qty); err != nil {
			s.logger.Warn("publish item purchased event", zap.Error(err), zap.Int64("item_id", item.ID))
		}
		if item.Quantity == 0 {
			if err := s.events.PublishStockDepleted(ctx, item); err != nil {
				s.logger.Warn("publish stock depleted event", zap.Error(err), zap.Int64("item_id", item.ID))
			}
		}
	}

	return item, nil
}

// Restock adds qty units to the item's stock. Positive quantities only; the
// store rejects totals above catalog.MaxQuantity.
func (s *Service) Restock(ctx context.Context, itemID, qty int64) (catalog.Item, error) {
	if qty <= 0 {
		return catalog.Item{}, ErrInvalidQuantity
	}
	return s.stock.AddStock(ctx, itemID, qty)
}

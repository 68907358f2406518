package purchase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/cdyhdrxj/store-backend/internal/catalog"
)

// fakeStock serializes purchases with a mutex, mirroring the row locking the
// real repository gets from the database.
type fakeStock struct {
	mu    sync.Mutex
	items map[int64]catalog.Item
}

func newFakeStock(items ...catalog.Item) *fakeStock {
	m := make(map[int64]catalog.Item, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return &fakeStock{items: m}
}

func (f *fakeStock) Purchase(ctx context.Context, itemID, qty int64) (catalog.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	it, ok := f.items[itemID]
	if !ok {
		return catalog.Item{}, catalog.ErrNotFound
	}
	if it.Quantity-qty < 0 {
		return catalog.Item{}, catalog.ErrInsufficientStock
	}
	it.Quantity -= qty
	f.items[itemID] = it
	return it, nil
}

func (f *fakeStock) AddStock(ctx context.Context, itemID, qty int64) (catalog.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	it, ok := f.items[itemID]
	if !ok {
		return catalog.Item{}, catalog.ErrNotFound
	}
	if it.Quantity+qty > catalog.MaxQuantity {
		return catalog.Item{}, catalog.ErrQuantityRange
	}
	it.Quantity += qty
	f.items[itemID] = it
	return it, nil
}

func (f *fakeStock) quantity(itemID int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[itemID].Quantity
}

type notifyCall struct {
	username string
	item     string
	quantity int64
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (n *fakeNotifier) NotifyPurchase(username, item string, quantity int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{username, item, quantity})
}

func (n *fakeNotifier) all() []notifyCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifyCall(nil), n.calls...)
}

type fakeSink struct {
	purchased []catalog.Item
	depleted  []catalog.Item
	err       error
}

func (s *fakeSink) PublishItemPurchased(ctx context.Context, username string, item catalog.Item, quantity int64) error {
	s.purchased = append(s.purchased, item)
	return s.err
}

func (s *fakeSink) PublishStockDepleted(ctx context.Context, item catalog.Item) error {
	s.depleted = append(s.depleted, item)
	return s.err
}

func newTestService(stock Stock, n Notifier, sink EventSink) *Service {
	return NewService(stock, n, sink, zap.NewNop())
}

func TestBuy_Success(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock(catalog.Item{ID: 1, Name: "Headphones", Quantity: 5})
	notifier := &fakeNotifier{}
	svc := newTestService(stock, notifier, nil)

	it, err := svc.Buy(ctx, 1, 2, "ivan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", it.Quantity)
	}

	calls := notifier.all()
	if len(calls) != 1 {
		t.Fatalf("expected one notification, got %d", len(calls))
	}
	if calls[0] != (notifyCall{"ivan", "Headphones", 2}) {
		t.Fatalf("unexpected notification: %+v", calls[0])
	}
}

func TestBuy_ExactStock(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock(catalog.Item{ID: 1, Name: "Headphones", Quantity: 3})
	svc := newTestService(stock, &fakeNotifier{}, nil)

	it, err := svc.Buy(ctx, 1, 3, "ivan")
	if err != nil {
		t.Fatalf("buying the full remaining stock must succeed: %v", err)
	}
	if it.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", it.Quantity)
	}
}

func TestBuy_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock(catalog.Item{ID: 1, Name: "Headphones", Quantity: 10})
	notifier := &fakeNotifier{}
	svc := newTestService(stock, notifier, nil)

	_, err := svc.Buy(ctx, 1, 15, "ivan")
	if !errors.Is(err, catalog.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := stock.quantity(1); got != 10 {
		t.Fatalf("stock mutated on failed purchase: %d", got)
	}
	if len(notifier.all()) != 0 {
		t.Fatalf("notification sent for failed purchase")
	}
}

func TestBuy_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock(catalog.Item{ID: 1, Name: "Headphones", Quantity: 10})
	notifier := &fakeNotifier{}
	svc := newTestService(stock, notifier, nil)

	for _, qty := range []int64{0, -1} {
		if _, err := svc.Buy(ctx, 1, qty, "ivan"); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("qty %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
	if got := stock.quantity(1); got != 10 {
		t.Fatalf("stock mutated on invalid quantity: %d", got)
	}
	if len(notifier.all()) != 0 {
		t.Fatalf("notification sent for invalid purchase")
	}
}

func TestBuy_NotFound(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeStock(), notifier, nil)

	_, err := svc.Buy(ctx, 999, 1, "anyone")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(notifier.all()) != 0 {
		t.Fatalf("notification sent for missing item")
	}
}

func TestBuy_EventFailureDoesNotFailPurchase(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock(catalog.Item{ID: 1, Name: "Headphones", Quantity: 3})
	sink := &fakeSink{err: errors.New("broker down")}
	svc := newTestService(stock, &fakeNotifier{}, sink)

	it, err := svc.Buy(ctx, 1, 3, "ivan")
	if err != nil {
		t.Fatalf("publish failure must not fail the committed purchase: %v", err)
	}
	if it.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", it.Quantity)
	}
	if len(sink.purchased) != 1 || len(sink.depleted) != 1 {
		t.Fatalf("expected purchase and depletion events, got %d/%d", len(sink.purchased), len(sink.depleted))
	}
}

func TestBuy_DepletionEventOnlyAtZero(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock(catalog.Item{ID: 1, Name: "Headphones", Quantity: 5})
	sink := &fakeSink{}
	svc := newTestService(stock, &fakeNotifier{}, sink)

	if _, err := svc.Buy(ctx, 1, 2, "ivan"); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if len(sink.depleted) != 0 {
		t.Fatalf("depletion event published while stock remains")
	}
}

func TestBuy_ConcurrentNeverOversells(t *testing.T) {
	ctx := context.Background()
	const initial = 5
	stock := newFakeStock(catalog.Item{ID: 1, Name: "Headphones", Quantity: initial})
	notifier := &fakeNotifier{}
	svc := newTestService(stock, notifier, nil)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Buy(ctx, 1, 1, "ivan")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, catalog.ErrInsufficientStock) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != initial {
		t.Fatalf("expected exactly %d successful purchases, got %d", initial, succeeded)
	}
	if got := stock.quantity(1); got != 0 {
		t.Fatalf("expected final quantity 0, got %d", got)
	}
	if got := len(notifier.all()); got != initial {
		t.Fatalf("expected %d notifications, got %d", initial, got)
	}
}

func TestRestock(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock(catalog.Item{ID: 1, Name: "Headphones", Quantity: 2})
	svc := newTestService(stock, &fakeNotifier{}, nil)

	it, err := svc.Restock(ctx, 1, 8)
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if it.Quantity != 10 {
		t.Fatalf("expected quantity 10, got %d", it.Quantity)
	}

	if _, err := svc.Restock(ctx, 1, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.Restock(ctx, 1, catalog.MaxQuantity); !errors.Is(err, catalog.ErrQuantityRange) {
		t.Fatalf("expected ErrQuantityRange, got %v", err)
	}
}

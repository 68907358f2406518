package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

var itemCols = []string{"id", "name", "description", "price", "quantity", "brand_id", "category_id", "cover_id"}

func itemRow(mock pgxmock.PgxPoolIface, id, price, quantity int64) *pgxmock.Rows {
	_ = mock
	return pgxmock.NewRows(itemCols).
		AddRow(id, "Headphones", "wireless", price, quantity, int64(1), int64(1), (*int64)(nil))
}

func TestPurchase_DecrementsAtomically(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM item WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(itemRow(mock, 1, 100, 3))
	mock.ExpectExec(`UPDATE item SET quantity = quantity - \$2 WHERE id=\$1`).
		WithArgs(int64(1), int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	it, err := repo.Purchase(ctx, 1, 3)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if it.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", it.Quantity)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPurchase_InsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM item WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(itemRow(mock, 1, 100, 10))
	mock.ExpectRollback()

	_, err = repo.Purchase(ctx, 1, 15)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPurchase_NotFound(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM item WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(999)).
		WillReturnRows(pgxmock.NewRows(itemCols))
	mock.ExpectRollback()

	_, err = repo.Purchase(ctx, 999, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddStock_RejectsOverflow(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM item WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(itemRow(mock, 1, 100, MaxQuantity-1))
	mock.ExpectRollback()

	_, err = repo.AddStock(ctx, 1, 2)
	if !errors.Is(err, ErrQuantityRange) {
		t.Fatalf("expected ErrQuantityRange, got %v", err)
	}
}

func TestAddStock_Increments(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM item WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(itemRow(mock, 1, 100, 2))
	mock.ExpectExec(`UPDATE item SET quantity = quantity \+ \$2 WHERE id=\$1`).
		WithArgs(int64(1), int64(8)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	it, err := repo.AddStock(ctx, 1, 8)
	if err != nil {
		t.Fatalf("add stock: %v", err)
	}
	if it.Quantity != 10 {
		t.Fatalf("expected quantity 10, got %d", it.Quantity)
	}
}

func TestGetBrand_NotFound(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(`SELECT id, name FROM brand WHERE id=\$1`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

	_, err = repo.GetBrand(ctx, 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFilter_Normalize(t *testing.T) {
	f := ListFilter{Offset: -3, Limit: 500}.normalize()
	if f.Offset != 0 || f.Limit != MaxLimit {
		t.Fatalf("unexpected normalized filter: %+v", f)
	}

	f = ListFilter{}.normalize()
	if f.Limit != DefaultLimit {
		t.Fatalf("expected default limit, got %d", f.Limit)
	}
}

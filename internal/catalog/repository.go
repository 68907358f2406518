package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrQuantityRange     = errors.New("quantity out of range")
)

// DBPool matches the methods from *pgxpool.Pool that the repository uses,
// which lets tests substitute a mock pool.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// ItemStore is what the HTTP layer and the purchase service consume.
type ItemStore interface {
	CreateItem(ctx context.Context, it Item) (Item, error)
	GetItem(ctx context.Context, id int64) (Item, error)
	ListItems(ctx context.Context, f ListFilter) ([]Item, error)
	SimilarItems(ctx context.Context, id int64, limit int64) ([]Item, error)
	UpdateItem(ctx context.Context, id int64, upd ItemUpdate) (Item, error)
	DeleteItem(ctx context.Context, id int64) error
	AddStock(ctx context.Context, id, qty int64) (Item, error)
	Purchase(ctx context.Context, id, qty int64) (Item, error)
}

// TaxonomyStore covers brands and categories.
type TaxonomyStore interface {
	CreateBrand(ctx context.Context, name string) (Brand, error)
	GetBrand(ctx context.Context, id int64) (Brand, error)
	ListBrands(ctx context.Context) ([]Brand, error)
	UpdateBrand(ctx context.Context, id int64, name string) (Brand, error)
	DeleteBrand(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, name string) (Category, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// ImageStore covers item images and covers.
type ImageStore interface {
	AddImage(ctx context.Context, itemID int64, name string) (Image, error)
	GetImage(ctx context.Context, id int64) (Image, error)
	DeleteImage(ctx context.Context, id int64) error

	SetCover(ctx context.Context, itemID int64, name string) (Item, error)
	RemoveCover(ctx context.Context, itemID int64) (string, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const itemColumns = "id, name, description, price, quantity, brand_id, category_id, cover_id"

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Quantity,
		&it.BrandID, &it.CategoryID, &it.CoverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return it, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, it Item) (Item, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO item (name, description, price, quantity, brand_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+itemColumns,
		it.Name, it.Description, it.Price, it.Quantity, it.BrandID, it.CategoryID)
	return scanItem(row)
}

// GetItem returns the item together with its cover and gallery images.
func (r *PostgresRepository) GetItem(ctx context.Context, id int64) (Item, error) {
	it, err := scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM item WHERE id=$1`, id))
	if err != nil {
		return Item{}, err
	}

	if it.CoverID != nil {
		var c Cover
		err := r.pool.QueryRow(ctx, `SELECT id, name FROM cover WHERE id=$1`, *it.CoverID).
			Scan(&c.ID, &c.Name)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return Item{}, err
		}
		if err == nil {
			it.Cover = &c
		}
	}

	rows, err := r.pool.Query(ctx, `SELECT id, item_id, name FROM item_image WHERE item_id=$1 ORDER BY id`, id)
	if err != nil {
		return Item{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.ItemID, &img.Name); err != nil {
			return Item{}, err
		}
		it.Images = append(it.Images, img)
	}
	return it, rows.Err()
}

func (r *PostgresRepository) ListItems(ctx context.Context, f ListFilter) ([]Item, error) {
	f = f.normalize()

	query := `SELECT ` + itemColumns + ` FROM item`
	args := []any{}
	if f.Search != "" {
		query += ` WHERE name ILIKE $1 OR description ILIKE $1`
		args = append(args, "%"+f.Search+"%")
	}
	query += fmt.Sprintf(` ORDER BY id OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Offset, f.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// SimilarItems returns other items from the same category.
func (r *PostgresRepository) SimilarItems(ctx context.Context, id int64, limit int64) ([]Item, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+` FROM item
		WHERE category_id = (SELECT category_id FROM item WHERE id=$1) AND id <> $1
		ORDER BY id LIMIT $2`, id, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, id int64, upd ItemUpdate) (Item, error) {
	sets := []string{}
	args := []any{id}

	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.BrandID != nil {
		add("brand_id", *upd.BrandID)
	}
	if upd.CategoryID != nil {
		add("category_id", *upd.CategoryID)
	}
	if upd.CoverID != nil {
		add("cover_id", *upd.CoverID)
	}
	if len(sets) == 0 {
		return r.GetItem(ctx, id)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE item SET `+strings.Join(sets, ", ")+` WHERE id=$1 RETURNING `+itemColumns,
		args...)
	return scanItem(row)
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM item WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Purchase atomically decrements stock for one item:
// the row is locked for the duration of the transaction, so concurrent
// purchases against the same item serialize on the check-then-decrement and
// stock can never go negative. Insufficient stock rolls back untouched.
func (r *PostgresRepository) Purchase(ctx context.Context, id, qty int64) (Item, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	it, err := scanItem(tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM item WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return Item{}, err
	}

	if it.Quantity-qty < 0 {
		return Item{}, ErrInsufficientStock
	}

	if _, err := tx.Exec(ctx, `UPDATE item SET quantity = quantity - $2 WHERE id=$1`, id, qty); err != nil {
		return Item{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Item{}, err
	}

	it.Quantity -= qty
	return it, nil
}

// AddStock increments stock under the same row-locking discipline as Purchase.
func (r *PostgresRepository) AddStock(ctx context.Context, id, qty int64) (Item, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	it, err := scanItem(tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM item WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return Item{}, err
	}

	if it.Quantity+qty > MaxQuantity {
		return Item{}, ErrQuantityRange
	}

	if _, err := tx.Exec(ctx, `UPDATE item SET quantity = quantity + $2 WHERE id=$1`, id, qty); err != nil {
		return Item{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Item{}, err
	}

	it.Quantity += qty
	return it, nil
}

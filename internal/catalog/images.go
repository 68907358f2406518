package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrCoverExists is returned when attaching a cover to an item that has one.
var ErrCoverExists = errors.New("item already has a cover")

func (r *PostgresRepository) AddImage(ctx context.Context, itemID int64, name string) (Image, error) {
	if _, err := scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM item WHERE id=$1`, itemID)); err != nil {
		return Image{}, err
	}

	var img Image
	err := r.pool.QueryRow(ctx,
		`INSERT INTO item_image (item_id, name) VALUES ($1, $2) RETURNING id, item_id, name`,
		itemID, name).Scan(&img.ID, &img.ItemID, &img.Name)
	return img, err
}

func (r *PostgresRepository) GetImage(ctx context.Context, id int64) (Image, error) {
	var img Image
	err := r.pool.QueryRow(ctx, `SELECT id, item_id, name FROM item_image WHERE id=$1`, id).
		Scan(&img.ID, &img.ItemID, &img.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Image{}, ErrNotFound
	}
	return img, err
}

func (r *PostgresRepository) DeleteImage(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM item_image WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCover stores the cover record and attaches it to the item in one
// transaction. Fails with ErrCoverExists if the item already has a cover.
func (r *PostgresRepository) SetCover(ctx context.Context, itemID int64, name string) (Item, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	it, err := scanItem(tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM item WHERE id=$1 FOR UPDATE`, itemID))
	if err != nil {
		return Item{}, err
	}
	if it.CoverID != nil {
		return Item{}, ErrCoverExists
	}

	var c Cover
	if err := tx.QueryRow(ctx, `INSERT INTO cover (name) VALUES ($1) RETURNING id, name`, name).
		Scan(&c.ID, &c.Name); err != nil {
		return Item{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE item SET cover_id=$2 WHERE id=$1`, itemID, c.ID); err != nil {
		return Item{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Item{}, err
	}

	it.CoverID = &c.ID
	it.Cover = &c
	return it, nil
}

// RemoveCover detaches and deletes the item's cover, returning the stored
// file name so the caller can remove the file from disk.
func (r *PostgresRepository) RemoveCover(ctx context.Context, itemID int64) (string, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	it, err := scanItem(tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM item WHERE id=$1 FOR UPDATE`, itemID))
	if err != nil {
		return "", err
	}
	if it.CoverID == nil {
		return "", ErrNotFound
	}

	var name string
	if err := tx.QueryRow(ctx, `SELECT name FROM cover WHERE id=$1`, *it.CoverID).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	if _, err := tx.Exec(ctx, `UPDATE item SET cover_id=NULL WHERE id=$1`, itemID); err != nil {
		return "", err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cover WHERE id=$1`, *it.CoverID); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return name, nil
}

package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (r *PostgresRepository) CreateBrand(ctx context.Context, name string) (Brand, error) {
	var b Brand
	err := r.pool.QueryRow(ctx, `INSERT INTO brand (name) VALUES ($1) RETURNING id, name`, name).
		Scan(&b.ID, &b.Name)
	return b, err
}

func (r *PostgresRepository) GetBrand(ctx context.Context, id int64) (Brand, error) {
	var b Brand
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM brand WHERE id=$1`, id).Scan(&b.ID, &b.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Brand{}, ErrNotFound
	}
	return b, err
}

func (r *PostgresRepository) ListBrands(ctx context.Context) ([]Brand, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM brand ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brands := []Brand{}
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *PostgresRepository) UpdateBrand(ctx context.Context, id int64, name string) (Brand, error) {
	var b Brand
	err := r.pool.QueryRow(ctx, `UPDATE brand SET name=$2 WHERE id=$1 RETURNING id, name`, id, name).
		Scan(&b.ID, &b.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Brand{}, ErrNotFound
	}
	return b, err
}

func (r *PostgresRepository) DeleteBrand(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM brand WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, name string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `INSERT INTO category (name) VALUES ($1) RETURNING id, name`, name).
		Scan(&c.ID, &c.Name)
	return c, err
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM category WHERE id=$1`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM category ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, id int64, name string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `UPDATE category SET name=$2 WHERE id=$1 RETURNING id, name`, id, name).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM category WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

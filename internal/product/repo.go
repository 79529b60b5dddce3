// Package product is the read-only catalog: products, categories and current prices.
package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
	"github.com/MikeMC777/choco-delisias/internal/money"
)

var (
	ErrNotFound = apperr.New(apperr.KindNotFound, "product_not_found", "product not found")
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context) ([]CategoryGroup, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Prices(ctx context.Context, ids []int64) (map[int64]money.Minor, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectProducts = `
	SELECT p.id, p.category_id, c.name, p.name, p.description, p.price, p.image
	FROM products p
	JOIN categories c ON c.id = p.category_id
	WHERE p.active`

func scanProduct(row pgx.CollectableRow) (Product, error) {
	var (
		p     Product
		price decimal.Decimal
	)
	if err := row.Scan(&p.ID, &p.CategoryID, &p.Category, &p.Name, &p.Description, &price, &p.Image); err != nil {
		return Product{}, err
	}
	p.Price = money.FromDecimal(price)
	return p, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, selectProducts+` ORDER BY c.position, c.id, p.id`)
	if err != nil {
		return nil, apperr.Persistence(err, "query products")
	}
	out, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, apperr.Persistence(err, "scan products")
	}
	return out, nil
}

func (r *PGRepo) ListByCategory(ctx context.Context) ([]CategoryGroup, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(products), nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, selectProducts+` AND p.id = $1`, id)
	if err != nil {
		return nil, apperr.Persistence(err, "query product")
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.Persistence(err, "scan product")
	}
	return &p, nil
}

// Prices returns the current price of every active product in ids.
// Missing ids are simply absent from the map.
func (r *PGRepo) Prices(ctx context.Context, ids []int64) (map[int64]money.Minor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, price FROM products WHERE active AND id = ANY($1)`, ids)
	if err != nil {
		return nil, apperr.Persistence(err, "query prices")
	}
	defer rows.Close()

	out := make(map[int64]money.Minor, len(ids))
	for rows.Next() {
		var (
			id    int64
			price decimal.Decimal
		)
		if err := rows.Scan(&id, &price); err != nil {
			return nil, apperr.Persistence(err, "scan price")
		}
		out[id] = money.FromDecimal(price)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err, "iterate prices")
	}
	return out, nil
}

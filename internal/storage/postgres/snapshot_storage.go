package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
)

type snapshotStorage struct {
	db *sql.DB
}

// NewSnapshotStorage создаёт PostgreSQL-реализацию domain.Storage.
func NewSnapshotStorage(store *Store) domain.Storage {
	return &snapshotStorage{db: store.DB()}
}

func (r *snapshotStorage) Load(ctx context.Context) (domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	products, err := r.loadProducts(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	sales, err := r.loadSales(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{Products: products, Sales: sales}, nil
}

func (r *snapshotStorage) loadProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, quantity, brand, category
		FROM store_products
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Brand, &p.Category); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *snapshotStorage) loadSales(ctx context.Context) ([]domain.Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, name, brand, category, unit_price, quantity_sold, total, sold_at
		FROM store_sales
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0)
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(
			&s.ID, &s.ProductID, &s.Name, &s.Brand, &s.Category,
			&s.UnitPrice, &s.Quantity, &s.Total, &s.SoldAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		s.SoldAt = s.SoldAt.UTC()
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, nil
}

// Save заменяет содержимое обеих таблиц снимком в одной транзакции.
func (r *snapshotStorage) Save(ctx context.Context, snapshot domain.Snapshot) (err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM store_sales`); err != nil {
		return fmt.Errorf("clear sales: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM store_products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	for i, p := range snapshot.Products {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO store_products (position, id, name, price, quantity, brand, category)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			i, p.ID, p.Name, p.Price, p.Quantity, p.Brand, p.Category,
		); err != nil {
			return fmt.Errorf("insert product %d: %w", p.ID, err)
		}
	}

	for i, s := range snapshot.Sales {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO store_sales (
				position, id, product_id, name, brand, category, unit_price, quantity_sold, total, sold_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
			i, s.ID, s.ProductID, s.Name, s.Brand, s.Category,
			s.UnitPrice, s.Quantity, s.Total, s.SoldAt.UTC(),
		); err != nil {
			return fmt.Errorf("insert sale %s: %w", s.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

var _ domain.Storage = (*snapshotStorage)(nil)

// Package record описывает сериализуемое представление снимка,
// общее для файлового и redis-хранилищ.
package record

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
)

// Product — JSON-представление товара.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Brand    string          `json:"brand"`
	Category string          `json:"category"`
}

// SoldProduct — копия проданного товара внутри продажи.
type SoldProduct struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Brand    string          `json:"brand"`
	Category string          `json:"category"`
}

// Sale — JSON-представление продажи.
type Sale struct {
	ID           string          `json:"id"`
	Product      SoldProduct     `json:"product"`
	QuantitySold int             `json:"quantity_sold"`
	Total        decimal.Decimal `json:"total"`
	DateTime     time.Time       `json:"date_time"`
}

// FromProducts конвертирует товары домена в записи.
func FromProducts(products []domain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, Product{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: p.Quantity,
			Brand:    p.Brand,
			Category: p.Category,
		})
	}
	return out
}

// ToProducts конвертирует записи в товары домена.
func ToProducts(records []Product) []domain.Product {
	out := make([]domain.Product, 0, len(records))
	for _, r := range records {
		out = append(out, domain.Product{
			ID:       r.ID,
			Name:     r.Name,
			Price:    r.Price,
			Quantity: r.Quantity,
			Brand:    r.Brand,
			Category: r.Category,
		})
	}
	return out
}

// FromSales конвертирует продажи домена в записи.
func FromSales(sales []domain.Sale) []Sale {
	out := make([]Sale, 0, len(sales))
	for _, s := range sales {
		out = append(out, Sale{
			ID: s.ID,
			Product: SoldProduct{
				ID:       s.ProductID,
				Name:     s.Name,
				Price:    s.UnitPrice,
				Brand:    s.Brand,
				Category: s.Category,
			},
			QuantitySold: s.Quantity,
			Total:        s.Total,
			DateTime:     s.SoldAt.UTC(),
		})
	}
	return out
}

// ToSales конвертирует записи в продажи домена.
func ToSales(records []Sale) []domain.Sale {
	out := make([]domain.Sale, 0, len(records))
	for _, r := range records {
		out = append(out, domain.Sale{
			ID:        r.ID,
			ProductID: r.Product.ID,
			Name:      r.Product.Name,
			Brand:     r.Product.Brand,
			Category:  r.Product.Category,
			UnitPrice: r.Product.Price,
			Quantity:  r.QuantitySold,
			Total:     r.Total,
			SoldAt:    r.DateTime,
		})
	}
	return out
}

package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
)

// ProductRequest — тело POST /products и PUT /products/{id}.
// Price принимается как JSON-число или строка.
type ProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Brand    string          `json:"brand"`
	Category string          `json:"category"`
}

func (r ProductRequest) toInput() domain.ProductInput {
	return domain.ProductInput{
		Name:     r.Name,
		Price:    r.Price,
		Quantity: r.Quantity,
		Brand:    r.Brand,
		Category: r.Category,
	}
}

// SellRequest — тело POST /products/{id}/sell.
type SellRequest struct {
	Quantity int `json:"quantity"`
}

type ProductResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Brand    string          `json:"brand"`
	Category string          `json:"category"`
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: p.Quantity,
		Brand:    p.Brand,
		Category: p.Category,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

type SaleResponse struct {
	ID        string          `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	SoldAt    time.Time       `json:"sold_at"`
}

func toSaleResponse(s domain.Sale) SaleResponse {
	return SaleResponse{
		ID:        s.ID,
		ProductID: s.ProductID,
		Name:      s.Name,
		Brand:     s.Brand,
		Category:  s.Category,
		UnitPrice: s.UnitPrice,
		Quantity:  s.Quantity,
		Total:     s.Total,
		SoldAt:    s.SoldAt,
	}
}

func toSaleResponses(sales []domain.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s))
	}
	return out
}

// SellResponse — созданная продажа и подтверждение.
type SellResponse struct {
	Message string       `json:"message"`
	Sale    SaleResponse `json:"sale"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CategoryTotalResponse struct {
	Category string `json:"category"`
	Revenue  string `json:"revenue"`
	Units    int    `json:"units"`
}

// RevenueResponse — выручка по журналу продаж.
type RevenueResponse struct {
	Total      string                  `json:"total"`
	Currency   string                  `json:"currency"`
	Report     string                  `json:"report"`
	ByCategory []CategoryTotalResponse `json:"by_category"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

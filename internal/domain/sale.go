package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sale — запись журнала продаж. После создания не изменяется.
//
// Продажа хранит ID товара и копию его атрибутов на момент продажи:
// копия нужна для отчётов и для восстановления удалённого товара при возврате.
type Sale struct {
	ID        string
	ProductID int64
	Name      string
	Brand     string
	Category  string
	UnitPrice decimal.Decimal
	Quantity  int
	// Total = UnitPrice × Quantity, фиксируется в момент продажи.
	Total  decimal.Decimal
	SoldAt time.Time
}

// NewSale фиксирует продажу qty единиц товара p.
func NewSale(id string, p Product, qty int, soldAt time.Time) Sale {
	return Sale{
		ID:        id,
		ProductID: p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Category:  p.Category,
		UnitPrice: p.Price,
		Quantity:  qty,
		Total:     p.Price.Mul(decimal.NewFromInt(int64(qty))),
		SoldAt:    soldAt,
	}
}

// RestoredProduct возвращает товар из копии продажи с остатком, равным проданному количеству.
func (s Sale) RestoredProduct() Product {
	return Product{
		ID:       s.ProductID,
		Name:     s.Name,
		Price:    s.UnitPrice,
		Quantity: s.Quantity,
		Brand:    s.Brand,
		Category: s.Category,
	}
}

// CategoryOrOther возвращает категорию продажи или CategoryOther, если она пустая.
func (s Sale) CategoryOrOther() string {
	if strings.TrimSpace(s.Category) == "" {
		return CategoryOther
	}
	return s.Category
}

// SaleFilter — условия поиска по журналу продаж.
type SaleFilter struct {
	Name     string
	Category string
	// From и To задают окно по времени продажи; нулевое значение не ограничивает.
	From time.Time
	To   time.Time
}

// Matches проверяет продажу по фильтру.
func (f SaleFilter) Matches(s Sale) bool {
	if !containsFold(s.Name, f.Name) {
		return false
	}
	if category := strings.TrimSpace(f.Category); category != "" && s.CategoryOrOther() != category {
		return false
	}
	if !f.From.IsZero() && s.SoldAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && s.SoldAt.After(f.To) {
		return false
	}
	return true
}

// CategoryTotal — агрегат журнала продаж по одной категории.
type CategoryTotal struct {
	Category string
	Revenue  decimal.Decimal
	Units    int
}

package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryOther используется, когда категория у продажи не указана.
const CategoryOther = "Другое"

// Categories — стандартный перечень категорий косметики.
// Валидация не ограничивает категорию этим списком.
func Categories() []string {
	return []string{"Уход", "Макияж", "Волосы", "Парфюмерия", "Маникюр", "Гигиена", CategoryOther}
}

// Product — позиция каталога.
type Product struct {
	// ID выдаётся сервисом и никогда не переиспользуется.
	ID       int64
	Name     string
	Price    decimal.Decimal
	Quantity int
	Brand    string
	Category string
}

// ProductInput — поля товара, которые задаёт пользователь при добавлении и обновлении.
type ProductInput struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Brand    string
	Category string
}

// Validate возвращает первую найденную ошибку в порядке: название, бренд, категория, цена, количество.
func (in ProductInput) Validate() error {
	switch {
	case isBlank(in.Name):
		return ErrNameRequired
	case isBlank(in.Brand):
		return ErrBrandRequired
	case isBlank(in.Category):
		return ErrCategoryRequired
	case in.Price.IsNegative():
		return ErrPriceNegative
	case in.Quantity < 0:
		return ErrQuantityNegative
	}
	return nil
}

// Apply переносит поля ввода в товар, сохраняя ID.
func (p *Product) Apply(in ProductInput) {
	p.Name = in.Name
	p.Price = in.Price
	p.Quantity = in.Quantity
	p.Brand = in.Brand
	p.Category = in.Category
}

// ProductFilter — условия поиска по каталогу. Пустое поле не ограничивает выборку.
type ProductFilter struct {
	Name     string
	Brand    string
	Category string
}

// Matches проверяет товар по фильтру поиска.
func (f ProductFilter) Matches(p Product) bool {
	if !containsFold(p.Name, f.Name) {
		return false
	}
	if !containsFold(p.Brand, f.Brand) {
		return false
	}
	if category := strings.TrimSpace(f.Category); category != "" && p.Category != category {
		return false
	}
	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func containsFold(s, substr string) bool {
	substr = strings.TrimSpace(substr)
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

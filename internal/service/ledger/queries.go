package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
)

// ListProducts возвращает копию каталога в порядке добавления.
func (s *Service) ListProducts() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// ListSales возвращает копию журнала продаж в хронологическом порядке.
func (s *Service) ListSales() []domain.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Sale, len(s.sales))
	copy(out, s.sales)
	return out
}

// FindProductByID возвращает товар или ErrProductNotFound.
func (s *Service) FindProductByID(id int64) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.index[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return s.products[idx], nil
}

// FindSaleByID возвращает продажу или ErrSaleNotFound.
func (s *Service) FindSaleByID(id string) (domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sale := range s.sales {
		if sale.ID == id {
			return sale, nil
		}
	}
	return domain.Sale{}, domain.ErrSaleNotFound
}

// SearchProducts возвращает товары, подходящие под фильтр, в порядке каталога.
func (s *Service) SearchProducts(filter domain.ProductFilter) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// SearchSales возвращает продажи, подходящие под фильтр, в порядке журнала.
func (s *Service) SearchSales(filter domain.SaleFilter) []domain.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Sale, 0)
	for _, sale := range s.sales {
		if filter.Matches(sale) {
			out = append(out, sale)
		}
	}
	return out
}

// TotalRevenue суммирует Total по всем продажам журнала.
func (s *Service) TotalRevenue() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := decimal.Zero
	for _, sale := range s.sales {
		sum = sum.Add(sale.Total)
	}
	return sum
}

// RevenueReport возвращает общую выручку строкой для показа пользователю.
func (s *Service) RevenueReport() string {
	return fmt.Sprintf("Общая выручка: %s %s", FormatAmount(s.TotalRevenue()), s.currency)
}

// RevenueByCategory возвращает выручку и проданные единицы по категориям,
// отсортированные по выручке по убыванию.
func (s *Service) RevenueByCategory() []domain.CategoryTotal {
	totals := s.categoryTotals()
	sort.SliceStable(totals, func(i, j int) bool {
		if !totals[i].Revenue.Equal(totals[j].Revenue) {
			return totals[i].Revenue.GreaterThan(totals[j].Revenue)
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// UnitsByCategory возвращает те же агрегаты, отсортированные по количеству единиц.
func (s *Service) UnitsByCategory() []domain.CategoryTotal {
	totals := s.categoryTotals()
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Units != totals[j].Units {
			return totals[i].Units > totals[j].Units
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

func (s *Service) categoryTotals() []domain.CategoryTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCategory := make(map[string]*domain.CategoryTotal)
	order := make([]string, 0)
	for _, sale := range s.sales {
		category := sale.CategoryOrOther()
		total, ok := byCategory[category]
		if !ok {
			total = &domain.CategoryTotal{Category: category, Revenue: decimal.Zero}
			byCategory[category] = total
			order = append(order, category)
		}
		total.Revenue = total.Revenue.Add(sale.Total)
		total.Units += sale.Quantity
	}

	out := make([]domain.CategoryTotal, 0, len(order))
	for _, category := range order {
		out = append(out, *byCategory[category])
	}
	return out
}

// FormatAmount печатает сумму минимум с одним знаком после точки: 30.0, 12.5, 12.35.
func FormatAmount(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
)

// helper для валидного ввода товара.
func makeInput() domain.ProductInput {
	return domain.ProductInput{
		Name:     "Cream",
		Price:    decimal.NewFromFloat(10),
		Quantity: 5,
		Brand:    "BrandA",
		Category: "Уход",
	}
}

func TestProductInputValidate_Ok(t *testing.T) {
	if err := makeInput().Validate(); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

func TestProductInputValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ProductInput)
		want   error
		kind   error
	}{
		{"blank name", func(in *domain.ProductInput) { in.Name = "   " }, domain.ErrNameRequired, domain.ErrEmptyField},
		{"blank brand", func(in *domain.ProductInput) { in.Brand = "" }, domain.ErrBrandRequired, domain.ErrEmptyField},
		{"blank category", func(in *domain.ProductInput) { in.Category = "\t" }, domain.ErrCategoryRequired, domain.ErrEmptyField},
		{"negative price", func(in *domain.ProductInput) { in.Price = decimal.NewFromFloat(-0.01) }, domain.ErrPriceNegative, domain.ErrNegativeValue},
		{"negative quantity", func(in *domain.ProductInput) { in.Quantity = -1 }, domain.ErrQuantityNegative, domain.ErrNegativeValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := makeInput()
			tt.mutate(&in)
			err := in.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected kind %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestProductInputValidate_ZeroPriceAndQuantityAllowed(t *testing.T) {
	in := makeInput()
	in.Price = decimal.Zero
	in.Quantity = 0
	if err := in.Validate(); err != nil {
		t.Fatalf("expected zero values to be valid, got %v", err)
	}
}

func TestProductFilterMatches(t *testing.T) {
	p := domain.Product{ID: 1, Name: "Night Cream", Brand: "BrandA", Category: "Уход"}

	cases := []struct {
		filter domain.ProductFilter
		want   bool
	}{
		{domain.ProductFilter{}, true},
		{domain.ProductFilter{Name: "cream"}, true},
		{domain.ProductFilter{Name: "serum"}, false},
		{domain.ProductFilter{Brand: "branda"}, true},
		{domain.ProductFilter{Category: "Уход"}, true},
		{domain.ProductFilter{Category: "Макияж"}, false},
	}
	for _, c := range cases {
		if got := c.filter.Matches(p); got != c.want {
			t.Errorf("filter %+v: got %v want %v", c.filter, got, c.want)
		}
	}
}

func TestNewSaleCapturesTotal(t *testing.T) {
	p := domain.Product{ID: 7, Name: "Lipstick", Price: decimal.RequireFromString("12.35"), Quantity: 10, Brand: "B", Category: "Макияж"}
	now := time.Now().UTC()

	sale := domain.NewSale("sale-1", p, 3, now)
	if !sale.Total.Equal(decimal.RequireFromString("37.05")) {
		t.Fatalf("unexpected total: %s", sale.Total)
	}
	if sale.ProductID != 7 || sale.Quantity != 3 || !sale.SoldAt.Equal(now) {
		t.Fatalf("unexpected sale: %+v", sale)
	}

	// Изменение цены товара после продажи не влияет на сумму.
	p.Price = decimal.NewFromInt(100)
	if !sale.Total.Equal(decimal.RequireFromString("37.05")) {
		t.Fatalf("total must be fixed at sale time, got %s", sale.Total)
	}

	restored := sale.RestoredProduct()
	if restored.ID != 7 || restored.Quantity != 3 || !restored.Price.Equal(decimal.RequireFromString("12.35")) {
		t.Fatalf("unexpected restored product: %+v", restored)
	}
}

func TestSaleFilterMatches(t *testing.T) {
	soldAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sale := domain.Sale{Name: "Shampoo", Category: "", SoldAt: soldAt}

	if !(domain.SaleFilter{Category: domain.CategoryOther}).Matches(sale) {
		t.Fatal("empty category must match CategoryOther")
	}
	if !(domain.SaleFilter{Name: "SHAMP", From: soldAt.Add(-time.Hour), To: soldAt.Add(time.Hour)}).Matches(sale) {
		t.Fatal("expected sale inside window to match")
	}
	if (domain.SaleFilter{From: soldAt.Add(time.Minute)}).Matches(sale) {
		t.Fatal("expected sale before window to be filtered")
	}
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	src := domain.Snapshot{
		Products: []domain.Product{{ID: 1, Name: "A"}},
		Sales:    []domain.Sale{{ID: "s1", ProductID: 1}},
	}
	clone := src.Clone()
	clone.Products[0].Name = "B"
	clone.Sales[0].Quantity = 42

	if src.Products[0].Name != "A" || src.Sales[0].Quantity != 0 {
		t.Fatal("clone must not share backing arrays")
	}
}

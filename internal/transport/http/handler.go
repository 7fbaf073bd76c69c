package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/service/ledger"
)

// Ledger — операции каталога и журнала продаж, доступные через HTTP.
type Ledger interface {
	AddProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (string, error)
	DeleteProduct(ctx context.Context, id int64) (string, error)
	SellProduct(ctx context.Context, id int64, qty int) (domain.Sale, error)
	RefundSale(ctx context.Context, saleID string) (string, error)

	ListProducts() []domain.Product
	ListSales() []domain.Sale
	FindProductByID(id int64) (domain.Product, error)
	FindSaleByID(id string) (domain.Sale, error)
	SearchProducts(filter domain.ProductFilter) []domain.Product
	SearchSales(filter domain.SaleFilter) []domain.Sale
	TotalRevenue() decimal.Decimal
	RevenueReport() string
	RevenueByCategory() []domain.CategoryTotal
	UnitsByCategory() []domain.CategoryTotal
	Currency() string
}

// Handler обслуживает HTTP API магазина.
type Handler struct {
	ledger Ledger
	logger *log.Entry
}

func NewHandler(l Ledger, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &Handler{ledger: l, logger: logger}
}

// fail логирует ошибку с уровнем по статусу и отвечает клиенту.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)
	entry := h.logger.WithError(err).WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"code":   code,
	})
	if code >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	WriteError(w, err)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Name:     q.Get("name"),
		Brand:    q.Get("brand"),
		Category: q.Get("category"),
	}

	var products []domain.Product
	if filter == (domain.ProductFilter{}) {
		products = h.ledger.ListProducts()
	} else {
		products = h.ledger.SearchProducts(filter)
	}
	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	product, err := h.ledger.AddProduct(r.Context(), req.toInput())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	product, err := h.ledger.FindProductByID(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	msg, err := h.ledger.UpdateProduct(r.Context(), id, req.toInput())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	msg, err := h.ledger.DeleteProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *Handler) sellProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req SellRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	sale, err := h.ledger.SellProduct(r.Context(), id, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, SellResponse{Message: ledger.MsgSold, Sale: toSaleResponse(sale)})
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.SaleFilter{
		Name:     q.Get("name"),
		Category: q.Get("category"),
	}
	var err error
	if filter.From, err = parseTimeParam(q.Get("from")); err != nil {
		h.fail(w, r, err)
		return
	}
	if filter.To, err = parseTimeParam(q.Get("to")); err != nil {
		h.fail(w, r, err)
		return
	}

	var sales []domain.Sale
	if filter == (domain.SaleFilter{}) {
		sales = h.ledger.ListSales()
	} else {
		sales = h.ledger.SearchSales(filter)
	}
	WriteSuccess(w, http.StatusOK, toSaleResponses(sales))
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	saleID := strings.TrimSpace(chi.URLParam(r, "id"))
	if saleID == "" {
		h.fail(w, r, ErrInvalidID)
		return
	}

	sale, err := h.ledger.FindSaleByID(saleID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toSaleResponse(sale))
}

func (h *Handler) refundSale(w http.ResponseWriter, r *http.Request) {
	saleID := strings.TrimSpace(chi.URLParam(r, "id"))
	if saleID == "" {
		h.fail(w, r, ErrInvalidID)
		return
	}

	msg, err := h.ledger.RefundSale(r.Context(), saleID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *Handler) revenue(w http.ResponseWriter, r *http.Request) {
	var totals []domain.CategoryTotal
	if r.URL.Query().Get("sort") == "units" {
		totals = h.ledger.UnitsByCategory()
	} else {
		totals = h.ledger.RevenueByCategory()
	}

	byCategory := make([]CategoryTotalResponse, 0, len(totals))
	for _, t := range totals {
		byCategory = append(byCategory, CategoryTotalResponse{
			Category: t.Category,
			Revenue:  ledger.FormatAmount(t.Revenue),
			Units:    t.Units,
		})
	}

	WriteSuccess(w, http.StatusOK, RevenueResponse{
		Total:      ledger.FormatAmount(h.ledger.TotalRevenue()),
		Currency:   h.ledger.Currency(),
		Report:     h.ledger.RevenueReport(),
		ByCategory: byCategory,
	})
}

func (h *Handler) categories(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, CategoriesResponse{Categories: domain.Categories()})
}

// parseTimeParam разбирает RFC3339; пустая строка означает отсутствие ограничения.
func parseTimeParam(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ErrBadRequest
	}
	return t, nil
}

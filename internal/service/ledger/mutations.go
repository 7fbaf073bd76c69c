package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
)

// AddProduct валидирует ввод, выдаёт новый ID и добавляет товар в конец каталога.
// Дубликаты названий допускаются.
func (s *Service) AddProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	start := time.Now()
	if err := in.Validate(); err != nil {
		s.observe(opAdd, start, err)
		return domain.Product{}, err
	}

	s.mu.Lock()
	product := domain.Product{ID: s.nextID}
	product.Apply(in)
	s.nextID++
	s.index[product.ID] = len(s.products)
	s.products = append(s.products, product)
	err := s.persistLocked(ctx, opAdd)
	s.mu.Unlock()

	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"name":       product.Name,
		"price":      product.Price.String(),
		"qty":        product.Quantity,
		"brand":      product.Brand,
		"category":   product.Category,
	}).Info("product added")
	s.publish(ctx, domain.LedgerEvent{Type: domain.EventProductAdded, ProductID: product.ID, Quantity: product.Quantity})
	s.observe(opAdd, start, err)

	return product, err
}

// UpdateProduct перезаписывает все редактируемые поля товара, включая бренд и категорию.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (string, error) {
	start := time.Now()
	if err := in.Validate(); err != nil {
		s.observe(opUpdate, start, err)
		return "", err
	}

	s.mu.Lock()
	idx, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		s.observe(opUpdate, start, domain.ErrProductNotFound)
		return "", domain.ErrProductNotFound
	}
	s.products[idx].Apply(in)
	err := s.persistLocked(ctx, opUpdate)
	s.mu.Unlock()

	s.logger.WithFields(log.Fields{
		"product_id": id,
		"name":       in.Name,
		"price":      in.Price.String(),
		"qty":        in.Quantity,
		"brand":      in.Brand,
		"category":   in.Category,
	}).Info("product updated")
	s.publish(ctx, domain.LedgerEvent{Type: domain.EventProductUpdated, ProductID: id, Quantity: in.Quantity})
	s.observe(opUpdate, start, err)

	return MsgProductUpdated, err
}

// DeleteProduct удаляет товар из каталога. Отсутствующий ID — не ошибка:
// каталог не меняется, снимок всё равно сохраняется.
func (s *Service) DeleteProduct(ctx context.Context, id int64) (string, error) {
	start := time.Now()

	s.mu.Lock()
	idx, existed := s.index[id]
	if existed {
		s.products = append(s.products[:idx], s.products[idx+1:]...)
		s.rebuildIndexLocked()
	}
	err := s.persistLocked(ctx, opDelete)
	s.mu.Unlock()

	entry := s.logger.WithField("product_id", id)
	if existed {
		entry.Info("product deleted")
		s.publish(ctx, domain.LedgerEvent{Type: domain.EventProductDeleted, ProductID: id})
	} else {
		entry.Debug("delete of unknown product, catalog unchanged")
	}
	s.observe(opDelete, start, err)

	return MsgProductDeleted, err
}

// SellProduct списывает qty единиц со склада и добавляет продажу в журнал.
func (s *Service) SellProduct(ctx context.Context, id int64, qty int) (domain.Sale, error) {
	start := time.Now()
	if qty <= 0 {
		s.observe(opSell, start, domain.ErrSaleQtyNotPositive)
		return domain.Sale{}, domain.ErrSaleQtyNotPositive
	}

	s.mu.Lock()
	idx, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		s.observe(opSell, start, domain.ErrProductNotFound)
		return domain.Sale{}, domain.ErrProductNotFound
	}
	if qty > s.products[idx].Quantity {
		stock := s.products[idx].Quantity
		s.mu.Unlock()
		s.logger.WithFields(log.Fields{"product_id": id, "qty": qty, "stock": stock}).Warn("sale rejected: not enough stock")
		s.observe(opSell, start, domain.ErrNotEnoughStock)
		return domain.Sale{}, domain.ErrNotEnoughStock
	}

	s.products[idx].Quantity -= qty
	sale := domain.NewSale(s.newSaleID(), s.products[idx], qty, s.clock())
	s.sales = append(s.sales, sale)
	err := s.persistLocked(ctx, opSell)
	s.mu.Unlock()

	s.logger.WithFields(log.Fields{
		"sale_id":    sale.ID,
		"product_id": id,
		"qty":        qty,
		"total":      sale.Total.String(),
	}).Info("product sold")
	if s.metrics != nil {
		s.metrics.RecordUnitsSold(qty)
	}
	s.publish(ctx, domain.LedgerEvent{Type: domain.EventSaleRecorded, ProductID: id, SaleID: sale.ID, Quantity: qty, Occurred: sale.SoldAt})
	s.observe(opSell, start, err)

	return sale, err
}

// RefundSale возвращает проданное количество на склад и удаляет продажу из журнала.
//
// Если товар был удалён после продажи, он восстанавливается под исходным ID
// с остатком, равным возвращённому количеству. ID удалённых товаров с продажами
// зарезервированы, поэтому восстановление не конфликтует с новыми товарами.
func (s *Service) RefundSale(ctx context.Context, saleID string) (string, error) {
	start := time.Now()

	s.mu.Lock()
	saleIdx := -1
	for i := range s.sales {
		if s.sales[i].ID == saleID {
			saleIdx = i
			break
		}
	}
	if saleIdx < 0 {
		s.mu.Unlock()
		s.observe(opRefund, start, domain.ErrSaleNotFound)
		return "", domain.ErrSaleNotFound
	}

	sale := s.sales[saleIdx]
	name := sale.Name
	restored := false
	if idx, ok := s.index[sale.ProductID]; ok {
		if sale.Quantity > math.MaxInt-s.products[idx].Quantity {
			s.mu.Unlock()
			s.logger.WithFields(log.Fields{"sale_id": saleID, "product_id": sale.ProductID}).Warn("refund rejected: stock would overflow")
			s.observe(opRefund, start, domain.ErrStockOverflow)
			return "", domain.ErrStockOverflow
		}
		s.products[idx].Quantity += sale.Quantity
		name = s.products[idx].Name
	} else {
		s.index[sale.ProductID] = len(s.products)
		s.products = append(s.products, sale.RestoredProduct())
		s.reserveID(sale.ProductID)
		restored = true
	}
	s.sales = append(s.sales[:saleIdx], s.sales[saleIdx+1:]...)
	err := s.persistLocked(ctx, opRefund)
	s.mu.Unlock()

	s.logger.WithFields(log.Fields{
		"sale_id":    sale.ID,
		"product_id": sale.ProductID,
		"qty":        sale.Quantity,
		"restored":   restored,
	}).Info("sale refunded")
	if s.metrics != nil {
		s.metrics.RecordUnitsRefunded(sale.Quantity)
		if restored {
			s.metrics.RecordResurrection()
		}
	}
	s.publish(ctx, domain.LedgerEvent{Type: domain.EventSaleRefunded, ProductID: sale.ProductID, SaleID: sale.ID, Quantity: sale.Quantity})
	s.observe(opRefund, start, err)

	return fmt.Sprintf("Возврат оформлен! Товар: %s, количество: %d шт.", name, sale.Quantity), err
}

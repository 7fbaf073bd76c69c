package kafka

import (
	"strconv"
	"time"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
)

// TopicLedgerEvents — topic по умолчанию для событий каталога и журнала продаж.
const TopicLedgerEvents = "store.ledger.events"

// HeaderEventType дублирует тип события в заголовке сообщения.
const HeaderEventType = "x-event-type"

// LedgerMessage — JSON-представление domain.LedgerEvent в Kafka.
type LedgerMessage struct {
	EventType domain.EventType `json:"event_type"`
	ProductID int64            `json:"product_id"`
	SaleID    string           `json:"sale_id,omitempty"`
	Quantity  int              `json:"quantity"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewLedgerMessage конвертирует событие домена. Пустое время заменяется текущим.
func NewLedgerMessage(event domain.LedgerEvent) *LedgerMessage {
	ts := event.Occurred
	if ts.IsZero() {
		ts = time.Now()
	}
	return &LedgerMessage{
		EventType: event.Type,
		ProductID: event.ProductID,
		SaleID:    event.SaleID,
		Quantity:  event.Quantity,
		Timestamp: ts.UTC(),
	}
}

// Key возвращает ключ партиционирования: все события товара попадают в одну партицию.
func (m *LedgerMessage) Key() string {
	return strconv.FormatInt(m.ProductID, 10)
}

package domain

import "errors"

// Виды ошибок. Конкретные ошибки ниже оборачивают один из видов,
// поэтому проверка выполняется через errors.Is.
var (
	// ErrEmptyField — обязательное текстовое поле пустое.
	ErrEmptyField = errors.New("required field is empty")
	// ErrNegativeValue — числовое поле нарушает нижнюю границу.
	ErrNegativeValue = errors.New("value is out of range")
	// ErrQuantityExceeded — запрошено больше товара, чем есть на складе.
	ErrQuantityExceeded = errors.New("quantity exceeds stock")
	// ErrNotFound — товар или продажа отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrPersistFailed — снимок не удалось сохранить в хранилище.
	ErrPersistFailed = errors.New("snapshot persist failed")
)

var (
	ErrNameRequired     = newKindError(ErrEmptyField, "product name must not be empty")
	ErrBrandRequired    = newKindError(ErrEmptyField, "brand must not be empty")
	ErrCategoryRequired = newKindError(ErrEmptyField, "category must not be empty")

	ErrPriceNegative      = newKindError(ErrNegativeValue, "price must not be negative")
	ErrQuantityNegative   = newKindError(ErrNegativeValue, "quantity must not be negative")
	ErrSaleQtyNotPositive = newKindError(ErrNegativeValue, "sale quantity must be greater than zero")
	ErrStockOverflow      = newKindError(ErrNegativeValue, "stock quantity is too large to restock")

	ErrNotEnoughStock = newKindError(ErrQuantityExceeded, "cannot sell more than is in stock")

	ErrProductNotFound = newKindError(ErrNotFound, "product not found")
	ErrSaleNotFound    = newKindError(ErrNotFound, "sale not found")
)

// kindError несёт готовое к показу сообщение и вид ошибки для errors.Is.
type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// IsValidation сообщает, что ошибка вызвана некорректным вводом.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyField) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrQuantityExceeded)
}

// IsNotFound проверяет, что сущность не найдена.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPersistFailure проверяет, что мутация применена в памяти, но снимок не сохранён.
func IsPersistFailure(err error) bool {
	return errors.Is(err, ErrPersistFailed)
}

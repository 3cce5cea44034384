package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format of Receipt.DatePaid and of filter dates.
const DateLayout = "2006-01-02"

var (
	// ErrNotFound is returned when no receipt has the requested id.
	ErrNotFound = errors.New("receipt not found")

	// ErrInvalidReceipt is returned when a receipt fails validation.
	ErrInvalidReceipt = errors.New("invalid receipt")
)

// PaymentTypes are the payment types offered when recording a receipt.
// Other values are accepted.
var PaymentTypes = []string{"cash", "card", "transfer", "other"}

// Receipt is a single recorded purchase.
type Receipt struct {
	ID          int64   `db:"id"`
	Description string  `db:"description"`
	Shop        string  `db:"shop"`
	Amount      float64 `db:"amount"`
	Currency    string  `db:"currency"`
	PaymentType string  `db:"payment_type"`
	DatePaid    string  `db:"date_paid"`
}

// Validate checks the required fields and the date format.
func (r *Receipt) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Shop) == "" {
		missing = append(missing, "shop")
	}
	if strings.TrimSpace(r.Currency) == "" {
		missing = append(missing, "currency")
	}
	if strings.TrimSpace(r.PaymentType) == "" {
		missing = append(missing, "payment type")
	}
	if strings.TrimSpace(r.DatePaid) == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidReceipt, strings.Join(missing, ", "))
	}
	if _, err := time.Parse(DateLayout, r.DatePaid); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidReceipt, r.DatePaid)
	}
	return nil
}

// ReceiptFilter narrows ListReceipts. Zero fields do not filter.
type ReceiptFilter struct {
	Shop        string // case-insensitive substring
	AmountFrom  float64
	AmountTo    float64
	DateFrom    string // inclusive, YYYY-MM-DD
	DateTo      string // inclusive, YYYY-MM-DD
	PaymentType string
	Currency    string
}

// Validate checks the filter dates.
func (f ReceiptFilter) Validate() error {
	for _, d := range []string{f.DateFrom, f.DateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return fmt.Errorf("filter date %q is not YYYY-MM-DD", d)
		}
	}
	return nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout of the date column in the source file.
const DateLayout = "2006-01-02"

// Transaction represents a single line item row of the sales source.
// An order spanning several products appears as several rows sharing OrderID.
type Transaction struct {
	Date        time.Time       `json:"date"`        // Calendar date, UTC midnight
	OrderID     string          `json:"orderID"`     // Unique per order, not per row
	Product     string          `json:"product"`     // Free text
	Category    Category        `json:"category"`    // One of Categories
	Region      Region          `json:"region"`      // One of Regions
	Quantity    int64           `json:"quantity"`    // >= 1
	UnitPrice   decimal.Decimal `json:"unitPrice"`   // > 0
	TotalAmount decimal.Decimal `json:"totalAmount"` // > 0
}

// LineTotal returns Quantity * UnitPrice.
func (t Transaction) LineTotal() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(t.Quantity))
}

// TransactionTable is the validated, immutable result of loading one source.
type TransactionTable struct {
	SourceID    string
	Fingerprint string
	LoadedAt    time.Time
	rows        []Transaction
}

// NewTransactionTable copies rows into a new table.
func NewTransactionTable(sourceID, fingerprint string, loadedAt time.Time, rows []Transaction) *TransactionTable {
	owned := make([]Transaction, len(rows))
	copy(owned, rows)
	return &TransactionTable{
		SourceID:    sourceID,
		Fingerprint: fingerprint,
		LoadedAt:    loadedAt,
		rows:        owned,
	}
}

// Len returns the number of rows. A nil table has none.
func (t *TransactionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Row returns the i-th row by value.
func (t *TransactionTable) Row(i int) Transaction {
	return t.rows[i]
}

// Rows returns a copy of the rows in source order.
func (t *TransactionTable) Rows() []Transaction {
	if t == nil {
		return []Transaction{}
	}
	out := make([]Transaction, len(t.rows))
	copy(out, t.rows)
	return out
}

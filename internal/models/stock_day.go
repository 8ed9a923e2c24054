package models

import "time"

// Stock day lifecycle statuses. A day is created OPEN and the close
// transition is terminal; there is no reopen.
const (
	DayStatusOpen   = "OPEN"
	DayStatusClosed = "CLOSED"
)

// StockDay is one operational business date. At most one StockDay is OPEN
// across the whole system at any time.
type StockDay struct {
	ID        int        `json:"stock_day_id"`
	Date      string     `json:"stock_date"` // YYYY-MM-DD
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// IsOpen reports whether the day still accepts transactions.
func (d *StockDay) IsOpen() bool {
	return d.Status == DayStatusOpen
}

// CreateStockDayRequest represents the request body for creating a working day
type CreateStockDayRequest struct {
	StockDate string `json:"stock_date"`
}

// CloseStockDayResponse is returned by the close transition
type CloseStockDayResponse struct {
	StockDate string     `json:"stock_date"`
	Status    string     `json:"status"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// DateLayout is the wire format for stock dates
const DateLayout = "2006-01-02"

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance statuses derived from the closing balance sign.
const (
	BalanceSettled = "SETTLED" // closing balance is zero
	BalancePending = "PENDING" // agent owes money
	BalanceExcess  = "EXCESS"  // agent over-deposited / is owed a refund
)

// DeliveryExpectedAmount is the derived cash expectation for one agent on one
// day. Never entered directly.
type DeliveryExpectedAmount struct {
	StockDayID     int             `json:"-"`
	AgentID        int             `json:"delivery_agent_id"`
	AgentName      string          `json:"agent_name"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
}

// ExpectedCashResponse is returned by step 5, ordered by agent name
type ExpectedCashResponse struct {
	StockDate     string                   `json:"stock_date"`
	Agents        []DeliveryExpectedAmount `json:"agents"`
	TotalExpected decimal.Decimal          `json:"total_expected"`
}

// DeliveryCashDeposit is an actual deposit for one agent on one day. Absence
// of a row means no deposit was made, which is a valid terminal state.
type DeliveryCashDeposit struct {
	StockDayID     int             `json:"-"`
	AgentID        int             `json:"delivery_agent_id"`
	AgentName      string          `json:"agent_name"`
	CashAmount     decimal.Decimal `json:"cash_amount"`
	UPIAmount      decimal.Decimal `json:"upi_amount"`
	TotalDeposited decimal.Decimal `json:"total_deposited"`
}

// CashDeposit is one step 6 request line
type CashDeposit struct {
	AgentName  string          `json:"agent_name"`
	CashAmount decimal.Decimal `json:"cash_amount"`
	UPIAmount  decimal.Decimal `json:"upi_amount"`
}

// RecordCashDepositsRequest represents the step 6 request body
type RecordCashDepositsRequest struct {
	StockDate string        `json:"stock_date"`
	Deposits  []CashDeposit `json:"deposits"`
}

// CashDepositSummary joins a deposit to its expectation.
// Variance = deposited - expected.
type CashDepositSummary struct {
	AgentName      string          `json:"agent_name"`
	CashAmount     decimal.Decimal `json:"cash_amount"`
	UPIAmount      decimal.Decimal `json:"upi_amount"`
	TotalDeposited decimal.Decimal `json:"total_deposited"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	Variance       decimal.Decimal `json:"variance"`
}

// CashDepositResponse is the step 6 reconciliation view
type CashDepositResponse struct {
	StockDate      string               `json:"stock_date"`
	Deposits       []CashDepositSummary `json:"deposits"`
	TotalCash      decimal.Decimal      `json:"total_cash"`
	TotalUPI       decimal.Decimal      `json:"total_upi"`
	TotalDeposited decimal.Decimal      `json:"total_deposited"`
}

// DeliveryCashBalance is the running per-agent balance. It is the one entity
// that spans the whole operational history instead of a single day; the
// balance roller mutates it once per day. LastRolledDate backs the optional
// rollover guard and is empty until the first guarded roll.
type DeliveryCashBalance struct {
	AgentID        int             `json:"delivery_agent_id"`
	AgentName      string          `json:"agent_name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TodayExpected  decimal.Decimal `json:"today_expected"`
	TodayDeposited decimal.Decimal `json:"today_deposited"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Status         string          `json:"balance_status"`
	LastRolledDate string          `json:"-"`
	LastUpdated    time.Time       `json:"last_updated"`
}

// CashBalanceResponse is returned by step 7, ordered by agent name
type CashBalanceResponse struct {
	Balances []DeliveryCashBalance `json:"balances"`
}

// PaymentLinkRequest asks for a collection link for an agent's pending dues
type PaymentLinkRequest struct {
	AgentName string `json:"agent_name"`
}

// PaymentLinkResponse carries the short URL returned by the gateway
type PaymentLinkResponse struct {
	AgentName string          `json:"agent_name"`
	Amount    decimal.Decimal `json:"amount"`
	LinkID    string          `json:"link_id"`
	ShortURL  string          `json:"short_url"`
}

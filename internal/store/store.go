// Package store defines the persistence boundary of the daily close engine.
// Two implementations exist: postgres (production, pgx) and memory (tests and
// the -use-memory dev mode).
//
// Write semantics are part of the contract and deliberately not unified:
// delivery issues, supplier movements and deposits OVERWRITE on resubmission
// (last write per key wins), while TV-out and vehicle empty stock ACCUMULATE.
// Caller workflows depend on which applies.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
)

// SupplierMovementWrite overwrites item_receipt/item_return on one summary row.
type SupplierMovementWrite struct {
	CylinderTypeID int
	Received       int
	Returned       int
}

// TVOutWrite accumulates quantity onto a summary row and, when AgentID is
// non-zero, onto the handling agent's vehicle empty stock.
type TVOutWrite struct {
	AgentID        int // 0 when the handling agent did not resolve
	CylinderTypeID int
	Quantity       int
}

// ClosingStockWrite carries the recomputed aggregates and closing figures for
// one summary row.
type ClosingStockWrite struct {
	CylinderTypeID int
	SalesRegular   int
	NCQty          int
	DBCQty         int
	ClosingFilled  int
	ClosingEmpty   int
	TotalStock     int
}

// Store is the relational state shared by all engine components. Lookup
// methods return (nil, nil) when the row does not exist; business
// interpretation of absence belongs to the services.
//
// Every method that writes more than one row commits atomically: either all
// of its writes land or none do.
type Store interface {
	// Catalog (read-only for the engine).
	ListCylinderTypes(ctx context.Context) ([]models.CylinderType, error)
	ListPricing(ctx context.Context) (map[int]models.PricingComponents, error)
	GetAgentByName(ctx context.Context, name string) (*models.DeliveryAgent, error)
	ListAgents(ctx context.Context) ([]models.DeliveryAgent, error)

	// Stock days.
	GetDayByDate(ctx context.Context, date string) (*models.StockDay, error)
	GetLatestDayBefore(ctx context.Context, date string) (*models.StockDay, error)
	GetLatestClosedDayBefore(ctx context.Context, date string) (*models.StockDay, error)
	CreateDay(ctx context.Context, date string) (*models.StockDay, error)
	CloseDay(ctx context.Context, dayID int) (time.Time, error)

	// Daily stock summaries.
	HasSummaries(ctx context.Context, dayID int) (bool, error)
	InitSummariesFromPrevious(ctx context.Context, dayID, prevDayID int) error
	InitSummariesZero(ctx context.Context, dayID int) error
	ListSummaries(ctx context.Context, dayID int) ([]models.DailyStockSummary, error)
	SetSupplierMovements(ctx context.Context, dayID int, movements []SupplierMovementWrite) error
	AddTVOut(ctx context.Context, dayID int, entries []TVOutWrite) error
	SaveClosingStock(ctx context.Context, dayID int, rows []ClosingStockWrite) error

	// Delivery issues (raw recorded sales).
	UpsertIssues(ctx context.Context, dayID int, issues []models.DeliveryIssue) error
	ListIssues(ctx context.Context, dayID int) ([]models.DeliveryIssue, error)
	ListOfficeIssuesAllDays(ctx context.Context) ([]models.DeliveryIssue, error)

	// Vehicle empty stock (TV-out audit trail).
	ListVehicleEmpty(ctx context.Context, dayID int) ([]models.DeliveryVehicleEmptyStock, error)

	// Cash.
	UpsertExpectedAmounts(ctx context.Context, dayID int, amounts map[int]decimal.Decimal) error
	ListExpectedAmounts(ctx context.Context, dayID int) ([]models.DeliveryExpectedAmount, error)
	UpsertDeposits(ctx context.Context, dayID int, deposits []models.DeliveryCashDeposit) error
	ListDeposits(ctx context.Context, dayID int) ([]models.DeliveryCashDeposit, error)
	ListBalances(ctx context.Context) ([]models.DeliveryCashBalance, error)
	SaveBalances(ctx context.Context, balances []models.DeliveryCashBalance) error

	// Users.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

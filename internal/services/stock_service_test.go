package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store/memory"
)

type fixture struct {
	days     *DayService
	stock    *StockService
	delivery *DeliveryService
	cash     *CashService
}

func newFixture() *fixture {
	mem := memory.NewSeeded()
	catalog := NewCatalog(mem)
	days := NewDayService(mem, nil)
	return &fixture{
		days:     days,
		stock:    NewStockService(mem, days),
		delivery: NewDeliveryService(mem, days, catalog),
		cash:     NewCashService(mem, days, catalog),
	}
}

// openDay creates the day and initializes its opening stock.
func (f *fixture) openDay(t *testing.T, date string) {
	t.Helper()
	if _, err := f.days.CreateDay(context.Background(), date); err != nil {
		t.Fatalf("create day %s failed: %v", date, err)
	}
	if _, err := f.stock.InitializeOpeningStock(context.Background(), date); err != nil {
		t.Fatalf("initialize %s failed: %v", date, err)
	}
}

func findStock(t *testing.T, stocks []models.DailyStockSummary, code string) models.DailyStockSummary {
	t.Helper()
	for _, s := range stocks {
		if s.CylinderType == code {
			return s
		}
	}
	t.Fatalf("no summary row for %s", code)
	return models.DailyStockSummary{}
}

func TestInitializeOpeningStockFirstDayIsZero(t *testing.T) {
	f := newFixture()
	f.openDay(t, "2025-01-15")

	resp, err := f.stock.InitializeOpeningStock(context.Background(), "2025-01-15")
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if len(resp.Stocks) != 3 {
		t.Fatalf("got %d stock rows, want 3", len(resp.Stocks))
	}
	for _, s := range resp.Stocks {
		if s.OpeningFilled != 0 || s.OpeningEmpty != 0 || s.TotalStock != 0 {
			t.Fatalf("first day opening stock not zero: %+v", s)
		}
	}
}

func TestOpeningStockCarriesForwardPreviousClosing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	err := f.delivery.UpdateSupplierMovements(ctx, "2025-01-15", []models.SupplierMovement{
		{CylinderType: "14.2KG", Received: 50},
	})
	if err != nil {
		t.Fatalf("supplier movements failed: %v", err)
	}
	err = f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "14.2KG", RegularQty: 10},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}
	if _, err := f.stock.CalculateClosingStock(ctx, "2025-01-15"); err != nil {
		t.Fatalf("closing stock failed: %v", err)
	}
	if _, err := f.days.CloseDay(ctx, "2025-01-15"); err != nil {
		t.Fatalf("close day failed: %v", err)
	}

	f.openDay(t, "2025-01-16")
	resp, err := f.stock.InitializeOpeningStock(ctx, "2025-01-16")
	if err != nil {
		t.Fatalf("initialize next day failed: %v", err)
	}

	for _, s := range resp.Stocks {
		if s.CylinderType != "14.2KG" {
			continue
		}
		if s.OpeningFilled != 40 || s.OpeningEmpty != 10 || s.TotalStock != 50 {
			t.Fatalf("carried opening = %+v, want filled 40 empty 10 total 50", s)
		}
		return
	}
	t.Fatalf("no 14.2KG row in opening stock")
}

func TestCalculateClosingStockDerivation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	err := f.delivery.UpdateSupplierMovements(ctx, "2025-01-15", []models.SupplierMovement{
		{CylinderType: "14.2KG", Received: 30, Returned: 5},
	})
	if err != nil {
		t.Fatalf("supplier movements failed: %v", err)
	}
	err = f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "14.2KG", RegularQty: 8, NCQty: 2, DBCQty: 1},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}
	err = f.delivery.RecordTVOut(ctx, "2025-01-15", []models.TVOutEntry{
		{AgentName: "Raju", CylinderType: "14.2KG", Quantity: 3},
	})
	if err != nil {
		t.Fatalf("tv-out failed: %v", err)
	}

	resp, err := f.stock.CalculateClosingStock(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("closing stock failed: %v", err)
	}

	s := findStock(t, resp.Stocks, "14.2KG")
	// filled: 0 + 30 - (8+2+1) = 19
	// empty:  0 + 8 + 3 - 5    = 6 (only regular sales swap an empty)
	if s.ClosingFilled != 19 {
		t.Fatalf("closing filled = %d, want 19", s.ClosingFilled)
	}
	if s.ClosingEmpty != 6 {
		t.Fatalf("closing empty = %d, want 6", s.ClosingEmpty)
	}
	if s.TotalStock != 25 {
		t.Fatalf("total stock = %d, want 25", s.TotalStock)
	}
	if s.SalesRegular != 8 || s.NCQty != 2 || s.DBCQty != 1 {
		t.Fatalf("sales columns = %d/%d/%d, want 8/2/1", s.SalesRegular, s.NCQty, s.DBCQty)
	}
}

func TestCalculateClosingStockIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	err := f.delivery.UpdateSupplierMovements(ctx, "2025-01-15", []models.SupplierMovement{
		{CylinderType: "19KG", Received: 20},
	})
	if err != nil {
		t.Fatalf("supplier movements failed: %v", err)
	}
	err = f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Sonu", CylinderType: "19KG", RegularQty: 4},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}

	first, err := f.stock.CalculateClosingStock(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("first calculation failed: %v", err)
	}
	second, err := f.stock.CalculateClosingStock(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("second calculation failed: %v", err)
	}

	a := findStock(t, first.Stocks, "19KG")
	b := findStock(t, second.Stocks, "19KG")
	if a.ClosingFilled != b.ClosingFilled || a.ClosingEmpty != b.ClosingEmpty || a.SalesRegular != b.SalesRegular {
		t.Fatalf("recalculation drifted: first %+v, second %+v", a, b)
	}
	if b.ClosingFilled != 16 || b.SalesRegular != 4 {
		t.Fatalf("closing = %+v, want filled 16 sales 4", b)
	}
}

func TestNegativeClosingStockRejectedBeforeAnyWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	// No receipts, so any sale drives closing filled negative.
	err := f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "14.2KG", RegularQty: 5},
		{AgentName: "Sonu", CylinderType: "19KG", RegularQty: 2},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}

	_, err = f.stock.CalculateClosingStock(ctx, "2025-01-15")
	if err == nil {
		t.Fatalf("expected negative stock to be rejected")
	}
	if !strings.Contains(err.Error(), "14.2KG") || !strings.Contains(err.Error(), "19KG") {
		t.Fatalf("error should name every offending type, got: %v", err)
	}

	// Nothing may have been written, including the valid 5KG row.
	resp, err := f.stock.InitializeOpeningStock(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("re-list failed: %v", err)
	}
	for _, s := range resp.Stocks {
		if s.TotalStock != 0 {
			t.Fatalf("partial write after rejection: %+v", s)
		}
	}
}

func TestSupplierMovementsOverwriteNotAccumulate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	for _, received := range []int{10, 25} {
		err := f.delivery.UpdateSupplierMovements(ctx, "2025-01-15", []models.SupplierMovement{
			{CylinderType: "14.2KG", Received: received, Returned: 1},
		})
		if err != nil {
			t.Fatalf("supplier movements failed: %v", err)
		}
	}

	resp, err := f.stock.CalculateClosingStock(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("closing stock failed: %v", err)
	}
	s := findStock(t, resp.Stocks, "14.2KG")
	if s.ItemReceipt != 25 || s.ItemReturn != 1 {
		t.Fatalf("receipt/return = %d/%d, want overwrite to 25/1", s.ItemReceipt, s.ItemReturn)
	}
}

func TestDeliverySalesResubmissionOverwrites(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	err := f.delivery.UpdateSupplierMovements(ctx, "2025-01-15", []models.SupplierMovement{
		{CylinderType: "14.2KG", Received: 50},
	})
	if err != nil {
		t.Fatalf("supplier movements failed: %v", err)
	}
	for _, qty := range []int{12, 7} {
		err := f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
			{AgentName: "Raju", CylinderType: "14.2KG", RegularQty: qty},
		})
		if err != nil {
			t.Fatalf("delivery sales failed: %v", err)
		}
	}

	resp, err := f.stock.CalculateClosingStock(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("closing stock failed: %v", err)
	}
	s := findStock(t, resp.Stocks, "14.2KG")
	if s.SalesRegular != 7 {
		t.Fatalf("sales regular = %d, want last submission 7", s.SalesRegular)
	}
}

func TestTVOutAccumulatesAcrossSubmissions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	for _, qty := range []int{2, 3} {
		err := f.delivery.RecordTVOut(ctx, "2025-01-15", []models.TVOutEntry{
			{AgentName: "Raju", CylinderType: "14.2KG", Quantity: qty},
		})
		if err != nil {
			t.Fatalf("tv-out failed: %v", err)
		}
	}

	resp, err := f.stock.CalculateClosingStock(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("closing stock failed: %v", err)
	}
	s := findStock(t, resp.Stocks, "14.2KG")
	if s.TVOutQty != 5 {
		t.Fatalf("tv-out qty = %d, want accumulated 5", s.TVOutQty)
	}
}

func TestRecordingRequiresOpenDay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")
	if _, err := f.days.CloseDay(ctx, "2025-01-15"); err != nil {
		t.Fatalf("close day failed: %v", err)
	}

	err := f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "14.2KG", RegularQty: 1},
	})
	if err == nil {
		t.Fatalf("expected sales on a closed day to be rejected")
	}
}

func TestDeliverySalesRejectUnknownAgentAndType(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	err := f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Nobody", CylinderType: "14.2KG", RegularQty: 1},
	})
	if err == nil {
		t.Fatalf("expected unknown agent to be rejected")
	}

	err = f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "47KG", RegularQty: 1},
	})
	if err == nil {
		t.Fatalf("expected unknown cylinder type to be rejected")
	}
}

package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
)

func findExpected(t *testing.T, agents []models.DeliveryExpectedAmount, name string) decimal.Decimal {
	t.Helper()
	for _, a := range agents {
		if a.AgentName == name {
			return a.ExpectedAmount
		}
	}
	t.Fatalf("no expected amount for %s", name)
	return decimal.Zero
}

func findBalance(t *testing.T, balances []models.DeliveryCashBalance, name string) models.DeliveryCashBalance {
	t.Helper()
	for _, b := range balances {
		if b.AgentName == name {
			return b
		}
	}
	t.Fatalf("no balance for %s", name)
	return models.DeliveryCashBalance{}
}

func assertAmount(t *testing.T, got decimal.Decimal, want int64, label string) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("%s = %s, want %d", label, got, want)
	}
}

func TestExpectedCashPricesByComponent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	// 14.2KG domestic: NC = 500+900+50+100+150 = 1700, DBC = 1600, refill 900.
	// 19KG commercial: NC = 500+900+50+100 = 1550, no regulator.
	err := f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "14.2KG", RegularQty: 2, NCQty: 1, DBCQty: 1},
		{AgentName: "Sonu", CylinderType: "19KG", NCQty: 1},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}

	resp, err := f.cash.CalculateExpectedCash(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("expected cash failed: %v", err)
	}

	assertAmount(t, findExpected(t, resp.Agents, "Raju"), 2*900+1700+1600, "Raju expected")
	assertAmount(t, findExpected(t, resp.Agents, "Sonu"), 1550, "Sonu expected")
	assertAmount(t, resp.TotalExpected, 2*900+1700+1600+1550, "total expected")
}

func TestExpectedCashSkipsOfficeSales(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	err := f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "14.2KG", RegularQty: 1},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}
	err = f.delivery.RecordOfficeSales(ctx, "2025-01-15", []models.OfficeSale{
		{CylinderType: "14.2KG", RegularQty: 10, NCQty: 5},
	})
	if err != nil {
		t.Fatalf("office sales failed: %v", err)
	}

	resp, err := f.cash.CalculateExpectedCash(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("expected cash failed: %v", err)
	}

	// Only Raju's field sale carries cash; office stock is pending sale.
	assertAmount(t, resp.TotalExpected, 900, "total expected")
	for _, a := range resp.Agents {
		if a.AgentName == models.OfficeAgentName {
			t.Fatalf("office agent must not carry an expectation: %+v", a)
		}
	}
}

func TestExpectedCashRecomputationIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	err := f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "5KG", RegularQty: 3},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}

	first, err := f.cash.CalculateExpectedCash(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("first calculation failed: %v", err)
	}
	second, err := f.cash.CalculateExpectedCash(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("second calculation failed: %v", err)
	}

	if !first.TotalExpected.Equal(second.TotalExpected) {
		t.Fatalf("recomputation drifted: %s then %s", first.TotalExpected, second.TotalExpected)
	}
	assertAmount(t, second.TotalExpected, 3*400, "total expected")
}

func TestSharedTVRefundHitsEverySellingAgent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	err := f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "14.2KG", RegularQty: 2},
		{AgentName: "Sonu", CylinderType: "19KG", RegularQty: 1},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}
	err = f.delivery.RecordTVOut(ctx, "2025-01-15", []models.TVOutEntry{
		{AgentName: "Raju", CylinderType: "14.2KG", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("tv-out failed: %v", err)
	}

	resp, err := f.cash.CalculateExpectedCash(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("expected cash failed: %v", err)
	}

	// The 500 deposit refund is subtracted from both agents even though only
	// Raju handled the return.
	assertAmount(t, findExpected(t, resp.Agents, "Raju"), 2*900-500, "Raju expected")
	assertAmount(t, findExpected(t, resp.Agents, "Sonu"), 900-500, "Sonu expected")
}

func TestPerAgentTVRefundAttributesToHandler(t *testing.T) {
	f := newFixture()
	f.cash.PerAgentTVRefund = true
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	err := f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "14.2KG", RegularQty: 2},
		{AgentName: "Sonu", CylinderType: "19KG", RegularQty: 1},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}
	err = f.delivery.RecordTVOut(ctx, "2025-01-15", []models.TVOutEntry{
		{AgentName: "Raju", CylinderType: "14.2KG", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("tv-out failed: %v", err)
	}

	resp, err := f.cash.CalculateExpectedCash(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("expected cash failed: %v", err)
	}

	assertAmount(t, findExpected(t, resp.Agents, "Raju"), 2*900-500, "Raju expected")
	assertAmount(t, findExpected(t, resp.Agents, "Sonu"), 900, "Sonu expected")
}

func TestPerAgentTVRefundAllowsNegativeExpectation(t *testing.T) {
	f := newFixture()
	f.cash.PerAgentTVRefund = true
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	// Sonu only handled returns and sold nothing: a refund is owed.
	err := f.delivery.RecordTVOut(ctx, "2025-01-15", []models.TVOutEntry{
		{AgentName: "Sonu", CylinderType: "14.2KG", Quantity: 2},
	})
	if err != nil {
		t.Fatalf("tv-out failed: %v", err)
	}

	resp, err := f.cash.CalculateExpectedCash(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("expected cash failed: %v", err)
	}

	assertAmount(t, findExpected(t, resp.Agents, "Sonu"), -1000, "Sonu expected")
}

func TestRecordDepositsComputesVariance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	err := f.delivery.RecordDeliverySales(ctx, "2025-01-15", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "14.2KG", NCQty: 1},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}
	if _, err := f.cash.CalculateExpectedCash(ctx, "2025-01-15"); err != nil {
		t.Fatalf("expected cash failed: %v", err)
	}

	resp, err := f.cash.RecordDeposits(ctx, "2025-01-15", []models.CashDeposit{
		{AgentName: "Raju", CashAmount: decimal.NewFromInt(600), UPIAmount: decimal.NewFromInt(300)},
	})
	if err != nil {
		t.Fatalf("record deposits failed: %v", err)
	}

	if len(resp.Deposits) != 1 {
		t.Fatalf("got %d deposit rows, want 1", len(resp.Deposits))
	}
	d := resp.Deposits[0]
	assertAmount(t, d.TotalDeposited, 900, "total deposited")
	assertAmount(t, d.ExpectedAmount, 1700, "expected amount")
	assertAmount(t, d.Variance, 900-1700, "variance")
	assertAmount(t, resp.TotalCash, 600, "total cash")
	assertAmount(t, resp.TotalUPI, 300, "total upi")
}

func TestRecordDepositsRejectsNegativeAmounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	_, err := f.cash.RecordDeposits(ctx, "2025-01-15", []models.CashDeposit{
		{AgentName: "Raju", CashAmount: decimal.NewFromInt(-1)},
	})
	if err == nil {
		t.Fatalf("expected negative deposit to be rejected")
	}
}

func TestUpdateBalancesRequiresExpectedCash(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.openDay(t, "2025-01-15")

	if _, err := f.cash.UpdateBalances(ctx, "2025-01-15"); err == nil {
		t.Fatalf("expected balance update to fail before expected cash is calculated")
	}
}

// seedBalancesDay sets up a day where Raju owes 1000 (expected 1700,
// deposited 700) and Sonu overpaid by 100 (expected 900, deposited 1000).
func seedBalancesDay(t *testing.T, f *fixture, date string) {
	t.Helper()
	ctx := context.Background()
	f.openDay(t, date)

	err := f.delivery.RecordDeliverySales(ctx, date, []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "14.2KG", NCQty: 1},
		{AgentName: "Sonu", CylinderType: "19KG", RegularQty: 1},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}
	if _, err := f.cash.CalculateExpectedCash(ctx, date); err != nil {
		t.Fatalf("expected cash failed: %v", err)
	}
	_, err = f.cash.RecordDeposits(ctx, date, []models.CashDeposit{
		{AgentName: "Raju", CashAmount: decimal.NewFromInt(700)},
		{AgentName: "Sonu", CashAmount: decimal.NewFromInt(1000)},
	})
	if err != nil {
		t.Fatalf("record deposits failed: %v", err)
	}
}

func TestUpdateBalancesDerivesStatuses(t *testing.T) {
	f := newFixture()
	seedBalancesDay(t, f, "2025-01-15")

	resp, err := f.cash.UpdateBalances(context.Background(), "2025-01-15")
	if err != nil {
		t.Fatalf("update balances failed: %v", err)
	}

	raju := findBalance(t, resp.Balances, "Raju")
	assertAmount(t, raju.ClosingBalance, 1000, "Raju closing")
	if raju.Status != models.BalancePending {
		t.Fatalf("Raju status = %q, want PENDING", raju.Status)
	}

	sonu := findBalance(t, resp.Balances, "Sonu")
	assertAmount(t, sonu.ClosingBalance, -100, "Sonu closing")
	if sonu.Status != models.BalanceExcess {
		t.Fatalf("Sonu status = %q, want EXCESS", sonu.Status)
	}

	office := findBalance(t, resp.Balances, models.OfficeAgentName)
	if !office.ClosingBalance.IsZero() || office.Status != models.BalanceSettled {
		t.Fatalf("Office balance = %+v, want zero SETTLED", office)
	}
}

func TestUpdateBalancesDoubleRollReFreezesWithoutGuard(t *testing.T) {
	f := newFixture()
	seedBalancesDay(t, f, "2025-01-15")
	ctx := context.Background()

	if _, err := f.cash.UpdateBalances(ctx, "2025-01-15"); err != nil {
		t.Fatalf("first roll failed: %v", err)
	}
	resp, err := f.cash.UpdateBalances(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("second roll failed: %v", err)
	}

	// The legacy freeze runs again: yesterday's closing becomes the opening
	// and the day's delta is applied twice.
	raju := findBalance(t, resp.Balances, "Raju")
	assertAmount(t, raju.OpeningBalance, 1000, "Raju opening after re-roll")
	assertAmount(t, raju.ClosingBalance, 2000, "Raju closing after re-roll")
}

func TestUpdateBalancesGuardMakesRollIdempotent(t *testing.T) {
	f := newFixture()
	f.cash.GuardBalanceRollover = true
	seedBalancesDay(t, f, "2025-01-15")
	ctx := context.Background()

	if _, err := f.cash.UpdateBalances(ctx, "2025-01-15"); err != nil {
		t.Fatalf("first roll failed: %v", err)
	}
	resp, err := f.cash.UpdateBalances(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("second roll failed: %v", err)
	}

	raju := findBalance(t, resp.Balances, "Raju")
	assertAmount(t, raju.OpeningBalance, 0, "Raju opening after guarded re-roll")
	assertAmount(t, raju.ClosingBalance, 1000, "Raju closing after guarded re-roll")
	if raju.LastRolledDate != "2025-01-15" {
		t.Fatalf("last rolled date = %q, want 2025-01-15", raju.LastRolledDate)
	}
}

func TestBalanceRollsAcrossDays(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedBalancesDay(t, f, "2025-01-15")
	if _, err := f.cash.UpdateBalances(ctx, "2025-01-15"); err != nil {
		t.Fatalf("day one roll failed: %v", err)
	}
	if _, err := f.days.CloseDay(ctx, "2025-01-15"); err != nil {
		t.Fatalf("close day failed: %v", err)
	}

	// Day two: Raju clears the 1000 carried over plus the new 900 sale.
	f.openDay(t, "2025-01-16")
	err := f.delivery.RecordDeliverySales(ctx, "2025-01-16", []models.DeliverySale{
		{AgentName: "Raju", CylinderType: "14.2KG", RegularQty: 1},
	})
	if err != nil {
		t.Fatalf("delivery sales failed: %v", err)
	}
	if _, err := f.cash.CalculateExpectedCash(ctx, "2025-01-16"); err != nil {
		t.Fatalf("expected cash failed: %v", err)
	}
	_, err = f.cash.RecordDeposits(ctx, "2025-01-16", []models.CashDeposit{
		{AgentName: "Raju", CashAmount: decimal.NewFromInt(1900)},
	})
	if err != nil {
		t.Fatalf("record deposits failed: %v", err)
	}

	resp, err := f.cash.UpdateBalances(ctx, "2025-01-16")
	if err != nil {
		t.Fatalf("day two roll failed: %v", err)
	}

	raju := findBalance(t, resp.Balances, "Raju")
	assertAmount(t, raju.OpeningBalance, 1000, "Raju opening day two")
	assertAmount(t, raju.ClosingBalance, 0, "Raju closing day two")
	if raju.Status != models.BalanceSettled {
		t.Fatalf("Raju status = %q, want SETTLED", raju.Status)
	}
}

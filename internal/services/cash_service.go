package services

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/bizerror"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
)

// CashService derives expected cash from the priced catalog, reconciles
// deposits against it and rolls the persistent per-agent balance forward.
type CashService struct {
	Store   store.Store
	Days    *DayService
	Catalog *Catalog

	// PerAgentTVRefund switches the TV-out deposit refund from the legacy
	// behavior (the day's whole refund subtracted from every agent with
	// field sales) to attribution via the vehicle empty-stock records.
	PerAgentTVRefund bool

	// GuardBalanceRollover makes the balance freeze a no-op when the
	// requested day was already rolled, instead of the legacy re-freeze
	// that corrupts the opening balance.
	GuardBalanceRollover bool
}

func NewCashService(s store.Store, days *DayService, catalog *Catalog) *CashService {
	return &CashService{Store: s, Days: days, Catalog: catalog}
}

// CalculateExpectedCash derives each agent's expected collection for the day
// (step 5). Only FIELD-source issues count; office stock is pending sale and
// carries no cash yet. Per cylinder type:
//
//	regular_amount = regular_qty x refill
//	nc_amount      = nc_qty x (deposit + refill + document + installation [+ regulator if domestic])
//	dbc_amount     = dbc_qty x (deposit + refill + document + installation)
//
// minus the TV-out deposit refund. Negative expectations are permitted: an
// agent who refunded more than they sold is owed money. Recomputation
// upserts, so repeat invocations are idempotent.
func (s *CashService) CalculateExpectedCash(ctx context.Context, date string) (*models.ExpectedCashResponse, error) {
	day, err := s.Days.RequireDay(ctx, date)
	if err != nil {
		return nil, err
	}

	issues, err := s.Store.ListIssues(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	pricing, err := s.Catalog.Pricing(ctx)
	if err != nil {
		return nil, err
	}
	types, err := s.Catalog.Types(ctx)
	if err != nil {
		return nil, err
	}
	categories := make(map[int]string, len(types))
	for _, ct := range types {
		categories[ct.ID] = ct.Category
	}

	amounts := map[int]decimal.Decimal{}
	for _, is := range issues {
		if is.Source != models.SourceField {
			continue
		}
		p, ok := pricing[is.CylinderTypeID]
		if !ok {
			continue
		}
		lineTotal := p.RefillAmount.Mul(decimal.NewFromInt(int64(is.RegularQty))).
			Add(p.NCAmount(categories[is.CylinderTypeID]).Mul(decimal.NewFromInt(int64(is.NCQty)))).
			Add(p.DBCAmount().Mul(decimal.NewFromInt(int64(is.DBCQty))))
		amounts[is.AgentID] = amounts[is.AgentID].Add(lineTotal)
	}

	if s.PerAgentTVRefund {
		if err := s.applyPerAgentRefund(ctx, day.ID, pricing, amounts); err != nil {
			return nil, err
		}
	} else {
		if err := s.applySharedRefund(ctx, day.ID, pricing, amounts); err != nil {
			return nil, err
		}
	}

	if err := s.Store.UpsertExpectedAmounts(ctx, day.ID, amounts); err != nil {
		return nil, err
	}

	agents, err := s.Store.ListExpectedAmounts(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, a := range agents {
		total = total.Add(a.ExpectedAmount)
	}

	log.Printf("[Cash] Calculated expected cash for %s (%d agents)", date, len(agents))
	return &models.ExpectedCashResponse{
		StockDate:     date,
		Agents:        agents,
		TotalExpected: total,
	}, nil
}

// applySharedRefund reproduces the legacy aggregation: the day's total
// TV-out deposit refund is subtracted from every agent that has field sales,
// regardless of who actually handled the returns.
func (s *CashService) applySharedRefund(ctx context.Context, dayID int, pricing map[int]models.PricingComponents, amounts map[int]decimal.Decimal) error {
	summaries, err := s.Store.ListSummaries(ctx, dayID)
	if err != nil {
		return err
	}

	refund := decimal.Zero
	for _, sum := range summaries {
		if sum.TVOutQty <= 0 {
			continue
		}
		if p, ok := pricing[sum.CylinderTypeID]; ok {
			refund = refund.Add(p.DepositAmount.Mul(decimal.NewFromInt(int64(sum.TVOutQty))))
		}
	}
	if refund.IsZero() {
		return nil
	}

	for agentID := range amounts {
		amounts[agentID] = amounts[agentID].Sub(refund)
	}
	return nil
}

// applyPerAgentRefund attributes each refund to the agent recorded on the
// vehicle empty-stock trail. Agents with refunds but no sales end up with a
// negative expectation.
func (s *CashService) applyPerAgentRefund(ctx context.Context, dayID int, pricing map[int]models.PricingComponents, amounts map[int]decimal.Decimal) error {
	vehicle, err := s.Store.ListVehicleEmpty(ctx, dayID)
	if err != nil {
		return err
	}

	for _, v := range vehicle {
		p, ok := pricing[v.CylinderTypeID]
		if !ok {
			continue
		}
		refund := p.DepositAmount.Mul(decimal.NewFromInt(int64(v.EmptyQty)))
		amounts[v.AgentID] = amounts[v.AgentID].Sub(refund)
	}
	return nil
}

// RecordDeposits upserts the day's actual deposits and returns the
// reconciliation view (step 6). Resubmission replaces an agent's figures.
// Agents without an entry made no deposit, which is valid and produces no
// row.
func (s *CashService) RecordDeposits(ctx context.Context, date string, deposits []models.CashDeposit) (*models.CashDepositResponse, error) {
	day, err := s.Days.RequireDay(ctx, date)
	if err != nil {
		return nil, err
	}

	var writes []models.DeliveryCashDeposit
	for _, dep := range deposits {
		agent, err := s.Store.GetAgentByName(ctx, dep.AgentName)
		if err != nil {
			return nil, err
		}
		if agent == nil {
			return nil, bizerror.AgentNotFound(dep.AgentName)
		}
		if dep.CashAmount.IsNegative() || dep.UPIAmount.IsNegative() {
			return nil, bizerror.InvalidStockData("deposit amounts cannot be negative")
		}
		writes = append(writes, models.DeliveryCashDeposit{
			AgentID:        agent.ID,
			CashAmount:     dep.CashAmount,
			UPIAmount:      dep.UPIAmount,
			TotalDeposited: dep.CashAmount.Add(dep.UPIAmount),
		})
	}

	if err := s.Store.UpsertDeposits(ctx, day.ID, writes); err != nil {
		return nil, err
	}

	expected := map[int]decimal.Decimal{}
	expectedRows, err := s.Store.ListExpectedAmounts(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range expectedRows {
		expected[e.AgentID] = e.ExpectedAmount
	}

	stored, err := s.Store.ListDeposits(ctx, day.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.CashDepositResponse{StockDate: date}
	for _, d := range stored {
		exp := expected[d.AgentID] // zero when no expectation was computed
		resp.Deposits = append(resp.Deposits, models.CashDepositSummary{
			AgentName:      d.AgentName,
			CashAmount:     d.CashAmount,
			UPIAmount:      d.UPIAmount,
			TotalDeposited: d.TotalDeposited,
			ExpectedAmount: exp,
			Variance:       d.TotalDeposited.Sub(exp),
		})
		resp.TotalCash = resp.TotalCash.Add(d.CashAmount)
		resp.TotalUPI = resp.TotalUPI.Add(d.UPIAmount)
		resp.TotalDeposited = resp.TotalDeposited.Add(d.TotalDeposited)
	}

	log.Printf("[Cash] Recorded %d deposits for %s", len(writes), date)
	return resp, nil
}

// UpdateBalances rolls every agent's running balance forward for the day
// (step 7): freeze opening from closing, pull today's expectation and
// deposits, derive the new closing balance and its status. The balance rows
// are global, not day-scoped; concurrent invocations race and must be
// serialized by the caller.
//
// Without the rollover guard the freeze is not idempotent: invoking this
// twice for the same day re-freezes an already-rolled closing balance into
// the opening balance.
func (s *CashService) UpdateBalances(ctx context.Context, date string) (*models.CashBalanceResponse, error) {
	day, err := s.Days.RequireDay(ctx, date)
	if err != nil {
		return nil, err
	}

	expectedRows, err := s.Store.ListExpectedAmounts(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	if len(expectedRows) == 0 {
		return nil, bizerror.New("expected cash has not been calculated for " + date)
	}
	expected := make(map[int]decimal.Decimal, len(expectedRows))
	for _, e := range expectedRows {
		expected[e.AgentID] = e.ExpectedAmount
	}

	depositRows, err := s.Store.ListDeposits(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	deposited := map[int]decimal.Decimal{}
	for _, d := range depositRows {
		deposited[d.AgentID] = deposited[d.AgentID].Add(d.TotalDeposited)
	}

	current, err := s.Store.ListBalances(ctx)
	if err != nil {
		return nil, err
	}
	byAgent := make(map[int]models.DeliveryCashBalance, len(current))
	for _, b := range current {
		byAgent[b.AgentID] = b
	}

	// The roll covers every active agent; agents without a balance row yet
	// start from zero.
	agents, err := s.Store.ListAgents(ctx)
	if err != nil {
		return nil, err
	}

	var writes []models.DeliveryCashBalance
	for _, agent := range agents {
		if !agent.IsActive {
			continue
		}
		b, ok := byAgent[agent.ID]
		if !ok {
			b = models.DeliveryCashBalance{AgentID: agent.ID}
		}

		if !s.GuardBalanceRollover || b.LastRolledDate != date {
			b.OpeningBalance = b.ClosingBalance
		}
		if s.GuardBalanceRollover {
			b.LastRolledDate = date
		}

		b.TodayExpected = expected[agent.ID]
		b.TodayDeposited = deposited[agent.ID]
		b.ClosingBalance = b.OpeningBalance.Add(b.TodayExpected).Sub(b.TodayDeposited)

		switch {
		case b.ClosingBalance.IsZero():
			b.Status = models.BalanceSettled
		case b.ClosingBalance.IsPositive():
			b.Status = models.BalancePending
		default:
			b.Status = models.BalanceExcess
		}
		writes = append(writes, b)
	}

	if err := s.Store.SaveBalances(ctx, writes); err != nil {
		return nil, err
	}

	balances, err := s.Store.ListBalances(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("[Cash] Updated balances for %d agents (%s)", len(writes), date)
	return &models.CashBalanceResponse{Balances: balances}, nil
}

// Package postgres implements store.Store on pgx. Multi-row writes run in a
// single transaction so a failure mid-batch leaves no partial state.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
)

type Postgres struct {
	DB *pgxpool.Pool
}

var _ store.Store = (*Postgres)(nil)

func New(db *pgxpool.Pool) *Postgres {
	return &Postgres{DB: db}
}

// ---------- catalog ----------

func (p *Postgres) ListCylinderTypes(ctx context.Context) ([]models.CylinderType, error) {
	rows, err := p.DB.Query(ctx, `
		SELECT cylinder_type_id, code, category, is_active, display_order
		FROM cylinder_types
		WHERE is_active = TRUE
		ORDER BY display_order
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cylinder types: %w", err)
	}
	defer rows.Close()

	var types []models.CylinderType
	for rows.Next() {
		var ct models.CylinderType
		if err := rows.Scan(&ct.ID, &ct.Code, &ct.Category, &ct.IsActive, &ct.DisplayOrder); err != nil {
			return nil, err
		}
		types = append(types, ct)
	}
	return types, rows.Err()
}

func (p *Postgres) ListPricing(ctx context.Context) (map[int]models.PricingComponents, error) {
	rows, err := p.DB.Query(ctx, `
		SELECT cylinder_type_id, deposit_amount, refill_amount,
		       document_charge, installation_charge, regulator_charge
		FROM price_components
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing: %w", err)
	}
	defer rows.Close()

	pricing := make(map[int]models.PricingComponents)
	for rows.Next() {
		var pc models.PricingComponents
		if err := rows.Scan(&pc.CylinderTypeID, &pc.DepositAmount, &pc.RefillAmount,
			&pc.DocumentCharge, &pc.InstallationCharge, &pc.RegulatorCharge); err != nil {
			return nil, err
		}
		pricing[pc.CylinderTypeID] = pc
	}
	return pricing, rows.Err()
}

func (p *Postgres) GetAgentByName(ctx context.Context, name string) (*models.DeliveryAgent, error) {
	var a models.DeliveryAgent
	err := p.DB.QueryRow(ctx, `
		SELECT delivery_agent_id, name, is_active
		FROM delivery_agents
		WHERE name = $1
	`, name).Scan(&a.ID, &a.Name, &a.IsActive)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent %q: %w", name, err)
	}
	return &a, nil
}

func (p *Postgres) ListAgents(ctx context.Context) ([]models.DeliveryAgent, error) {
	rows, err := p.DB.Query(ctx, `
		SELECT delivery_agent_id, name, is_active
		FROM delivery_agents
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []models.DeliveryAgent
	for rows.Next() {
		var a models.DeliveryAgent
		if err := rows.Scan(&a.ID, &a.Name, &a.IsActive); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// ---------- stock days ----------

const dayColumns = `stock_day_id, to_char(stock_date, 'YYYY-MM-DD'), status, created_at, closed_at`

func (p *Postgres) scanDay(row pgx.Row) (*models.StockDay, error) {
	var d models.StockDay
	err := row.Scan(&d.ID, &d.Date, &d.Status, &d.CreatedAt, &d.ClosedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (p *Postgres) GetDayByDate(ctx context.Context, date string) (*models.StockDay, error) {
	return p.scanDay(p.DB.QueryRow(ctx,
		`SELECT `+dayColumns+` FROM stock_days WHERE stock_date = $1`, date))
}

func (p *Postgres) GetLatestDayBefore(ctx context.Context, date string) (*models.StockDay, error) {
	return p.scanDay(p.DB.QueryRow(ctx, `
		SELECT `+dayColumns+`
		FROM stock_days
		WHERE stock_date < $1
		ORDER BY stock_date DESC
		LIMIT 1
	`, date))
}

func (p *Postgres) GetLatestClosedDayBefore(ctx context.Context, date string) (*models.StockDay, error) {
	return p.scanDay(p.DB.QueryRow(ctx, `
		SELECT `+dayColumns+`
		FROM stock_days
		WHERE stock_date < $1 AND status = 'CLOSED'
		ORDER BY stock_date DESC
		LIMIT 1
	`, date))
}

func (p *Postgres) CreateDay(ctx context.Context, date string) (*models.StockDay, error) {
	day, err := p.scanDay(p.DB.QueryRow(ctx, `
		INSERT INTO stock_days (stock_date, status)
		VALUES ($1, 'OPEN')
		RETURNING `+dayColumns, date))
	if err != nil {
		return nil, fmt.Errorf("failed to create stock day: %w", err)
	}
	return day, nil
}

func (p *Postgres) CloseDay(ctx context.Context, dayID int) (time.Time, error) {
	var closedAt time.Time
	err := p.DB.QueryRow(ctx, `
		UPDATE stock_days
		SET status = 'CLOSED', closed_at = CURRENT_TIMESTAMP
		WHERE stock_day_id = $1
		RETURNING closed_at
	`, dayID).Scan(&closedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to close stock day: %w", err)
	}
	return closedAt, nil
}

// ---------- daily stock summaries ----------

func (p *Postgres) HasSummaries(ctx context.Context, dayID int) (bool, error) {
	var exists bool
	err := p.DB.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM daily_stock_summary WHERE stock_day_id = $1)`,
		dayID).Scan(&exists)
	return exists, err
}

func (p *Postgres) InitSummariesFromPrevious(ctx context.Context, dayID, prevDayID int) error {
	_, err := p.DB.Exec(ctx, `
		INSERT INTO daily_stock_summary (
			stock_day_id, cylinder_type_id, opening_filled,
			opening_empty, defective_empty_vehicle, total_stock
		)
		SELECT $1, prev.cylinder_type_id, prev.closing_filled,
		       prev.closing_empty, prev.defective_empty_vehicle,
		       prev.closing_filled + prev.closing_empty + prev.defective_empty_vehicle
		FROM daily_stock_summary prev
		WHERE prev.stock_day_id = $2
	`, dayID, prevDayID)
	if err != nil {
		return fmt.Errorf("failed to carry forward opening stock: %w", err)
	}
	return nil
}

func (p *Postgres) InitSummariesZero(ctx context.Context, dayID int) error {
	_, err := p.DB.Exec(ctx, `
		INSERT INTO daily_stock_summary (stock_day_id, cylinder_type_id)
		SELECT $1, cylinder_type_id
		FROM cylinder_types
		WHERE is_active = TRUE
	`, dayID)
	if err != nil {
		return fmt.Errorf("failed to initialize opening stock: %w", err)
	}
	return nil
}

func (p *Postgres) ListSummaries(ctx context.Context, dayID int) ([]models.DailyStockSummary, error) {
	rows, err := p.DB.Query(ctx, `
		SELECT dss.stock_day_id, dss.cylinder_type_id, ct.code,
		       dss.opening_filled, dss.opening_empty,
		       dss.item_receipt, dss.item_return,
		       dss.sales_regular, dss.nc_qty, dss.dbc_qty, dss.tv_out_qty,
		       dss.closing_filled, dss.closing_empty,
		       dss.defective_empty_vehicle, dss.total_stock
		FROM daily_stock_summary dss
		JOIN cylinder_types ct ON dss.cylinder_type_id = ct.cylinder_type_id
		WHERE dss.stock_day_id = $1
		ORDER BY ct.display_order
	`, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.DailyStockSummary
	for rows.Next() {
		var s models.DailyStockSummary
		if err := rows.Scan(&s.StockDayID, &s.CylinderTypeID, &s.CylinderType,
			&s.OpeningFilled, &s.OpeningEmpty,
			&s.ItemReceipt, &s.ItemReturn,
			&s.SalesRegular, &s.NCQty, &s.DBCQty, &s.TVOutQty,
			&s.ClosingFilled, &s.ClosingEmpty,
			&s.DefectiveEmptyVehicle, &s.TotalStock); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (p *Postgres) SetSupplierMovements(ctx context.Context, dayID int, movements []store.SupplierMovementWrite) error {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, mv := range movements {
		// Overwrite, never add: last write per cylinder type wins.
		_, err := tx.Exec(ctx, `
			UPDATE daily_stock_summary
			SET item_receipt = $1, item_return = $2
			WHERE stock_day_id = $3 AND cylinder_type_id = $4
		`, mv.Received, mv.Returned, dayID, mv.CylinderTypeID)
		if err != nil {
			return fmt.Errorf("failed to update supplier movement: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (p *Postgres) AddTVOut(ctx context.Context, dayID int, entries []store.TVOutWrite) error {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		_, err := tx.Exec(ctx, `
			UPDATE daily_stock_summary
			SET tv_out_qty = tv_out_qty + $1
			WHERE stock_day_id = $2 AND cylinder_type_id = $3
		`, e.Quantity, dayID, e.CylinderTypeID)
		if err != nil {
			return fmt.Errorf("failed to record tv-out: %w", err)
		}

		if e.AgentID == 0 {
			continue
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO delivery_vehicle_empty_stock
				(stock_day_id, delivery_agent_id, cylinder_type_id, empty_qty)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (stock_day_id, delivery_agent_id, cylinder_type_id)
			DO UPDATE SET empty_qty = delivery_vehicle_empty_stock.empty_qty + EXCLUDED.empty_qty
		`, dayID, e.AgentID, e.CylinderTypeID, e.Quantity)
		if err != nil {
			return fmt.Errorf("failed to record vehicle empty stock: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (p *Postgres) SaveClosingStock(ctx context.Context, dayID int, rows []store.ClosingStockWrite) error {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		_, err := tx.Exec(ctx, `
			UPDATE daily_stock_summary
			SET sales_regular = $1, nc_qty = $2, dbc_qty = $3,
			    closing_filled = $4, closing_empty = $5, total_stock = $6
			WHERE stock_day_id = $7 AND cylinder_type_id = $8
		`, row.SalesRegular, row.NCQty, row.DBCQty,
			row.ClosingFilled, row.ClosingEmpty, row.TotalStock,
			dayID, row.CylinderTypeID)
		if err != nil {
			return fmt.Errorf("failed to save closing stock: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// ---------- delivery issues ----------

func (p *Postgres) UpsertIssues(ctx context.Context, dayID int, issues []models.DeliveryIssue) error {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, is := range issues {
		_, err := tx.Exec(ctx, `
			INSERT INTO delivery_issues
				(stock_day_id, delivery_agent_id, cylinder_type_id, delivery_source,
				 regular_qty, nc_qty, dbc_qty)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (stock_day_id, delivery_agent_id, cylinder_type_id, delivery_source)
			DO UPDATE SET regular_qty = EXCLUDED.regular_qty,
			              nc_qty = EXCLUDED.nc_qty,
			              dbc_qty = EXCLUDED.dbc_qty
		`, dayID, is.AgentID, is.CylinderTypeID, is.Source,
			is.RegularQty, is.NCQty, is.DBCQty)
		if err != nil {
			return fmt.Errorf("failed to upsert delivery issue: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (p *Postgres) ListIssues(ctx context.Context, dayID int) ([]models.DeliveryIssue, error) {
	rows, err := p.DB.Query(ctx, `
		SELECT stock_day_id, delivery_agent_id, cylinder_type_id, delivery_source,
		       regular_qty, nc_qty, dbc_qty
		FROM delivery_issues
		WHERE stock_day_id = $1
	`, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery issues: %w", err)
	}
	defer rows.Close()

	return scanIssues(rows)
}

func (p *Postgres) ListOfficeIssuesAllDays(ctx context.Context) ([]models.DeliveryIssue, error) {
	rows, err := p.DB.Query(ctx, `
		SELECT stock_day_id, delivery_agent_id, cylinder_type_id, delivery_source,
		       regular_qty, nc_qty, dbc_qty
		FROM delivery_issues
		WHERE delivery_source = 'OFFICE'
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list office issues: %w", err)
	}
	defer rows.Close()

	return scanIssues(rows)
}

func scanIssues(rows pgx.Rows) ([]models.DeliveryIssue, error) {
	var issues []models.DeliveryIssue
	for rows.Next() {
		var is models.DeliveryIssue
		if err := rows.Scan(&is.StockDayID, &is.AgentID, &is.CylinderTypeID, &is.Source,
			&is.RegularQty, &is.NCQty, &is.DBCQty); err != nil {
			return nil, err
		}
		issues = append(issues, is)
	}
	return issues, rows.Err()
}

// ---------- vehicle empty stock ----------

func (p *Postgres) ListVehicleEmpty(ctx context.Context, dayID int) ([]models.DeliveryVehicleEmptyStock, error) {
	rows, err := p.DB.Query(ctx, `
		SELECT stock_day_id, delivery_agent_id, cylinder_type_id, empty_qty
		FROM delivery_vehicle_empty_stock
		WHERE stock_day_id = $1
	`, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicle empty stock: %w", err)
	}
	defer rows.Close()

	var out []models.DeliveryVehicleEmptyStock
	for rows.Next() {
		var v models.DeliveryVehicleEmptyStock
		if err := rows.Scan(&v.StockDayID, &v.AgentID, &v.CylinderTypeID, &v.EmptyQty); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ---------- cash ----------

func (p *Postgres) UpsertExpectedAmounts(ctx context.Context, dayID int, amounts map[int]decimal.Decimal) error {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for agentID, amount := range amounts {
		_, err := tx.Exec(ctx, `
			INSERT INTO delivery_expected_amount (stock_day_id, delivery_agent_id, expected_amount)
			VALUES ($1, $2, $3)
			ON CONFLICT (stock_day_id, delivery_agent_id)
			DO UPDATE SET expected_amount = EXCLUDED.expected_amount
		`, dayID, agentID, amount)
		if err != nil {
			return fmt.Errorf("failed to upsert expected amount: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (p *Postgres) ListExpectedAmounts(ctx context.Context, dayID int) ([]models.DeliveryExpectedAmount, error) {
	rows, err := p.DB.Query(ctx, `
		SELECT dea.stock_day_id, dea.delivery_agent_id, da.name, dea.expected_amount
		FROM delivery_expected_amount dea
		JOIN delivery_agents da ON dea.delivery_agent_id = da.delivery_agent_id
		WHERE dea.stock_day_id = $1
		ORDER BY da.name
	`, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expected amounts: %w", err)
	}
	defer rows.Close()

	var out []models.DeliveryExpectedAmount
	for rows.Next() {
		var e models.DeliveryExpectedAmount
		if err := rows.Scan(&e.StockDayID, &e.AgentID, &e.AgentName, &e.ExpectedAmount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *Postgres) UpsertDeposits(ctx context.Context, dayID int, deposits []models.DeliveryCashDeposit) error {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, d := range deposits {
		_, err := tx.Exec(ctx, `
			INSERT INTO delivery_cash_deposit
				(stock_day_id, delivery_agent_id, cash_amount, upi_amount, total_deposited)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (stock_day_id, delivery_agent_id)
			DO UPDATE SET cash_amount = EXCLUDED.cash_amount,
			              upi_amount = EXCLUDED.upi_amount,
			              total_deposited = EXCLUDED.total_deposited
		`, dayID, d.AgentID, d.CashAmount, d.UPIAmount, d.TotalDeposited)
		if err != nil {
			return fmt.Errorf("failed to upsert cash deposit: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (p *Postgres) ListDeposits(ctx context.Context, dayID int) ([]models.DeliveryCashDeposit, error) {
	rows, err := p.DB.Query(ctx, `
		SELECT dcd.stock_day_id, dcd.delivery_agent_id, da.name,
		       dcd.cash_amount, dcd.upi_amount, dcd.total_deposited
		FROM delivery_cash_deposit dcd
		JOIN delivery_agents da ON dcd.delivery_agent_id = da.delivery_agent_id
		WHERE dcd.stock_day_id = $1
		ORDER BY da.name
	`, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash deposits: %w", err)
	}
	defer rows.Close()

	var out []models.DeliveryCashDeposit
	for rows.Next() {
		var d models.DeliveryCashDeposit
		if err := rows.Scan(&d.StockDayID, &d.AgentID, &d.AgentName,
			&d.CashAmount, &d.UPIAmount, &d.TotalDeposited); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *Postgres) ListBalances(ctx context.Context) ([]models.DeliveryCashBalance, error) {
	rows, err := p.DB.Query(ctx, `
		SELECT dcb.delivery_agent_id, da.name,
		       dcb.opening_balance, dcb.today_expected, dcb.today_deposited,
		       dcb.closing_balance, dcb.balance_status,
		       COALESCE(dcb.last_rolled_date, ''), dcb.last_updated
		FROM delivery_cash_balance dcb
		JOIN delivery_agents da ON dcb.delivery_agent_id = da.delivery_agent_id
		ORDER BY da.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash balances: %w", err)
	}
	defer rows.Close()

	var out []models.DeliveryCashBalance
	for rows.Next() {
		var b models.DeliveryCashBalance
		if err := rows.Scan(&b.AgentID, &b.AgentName,
			&b.OpeningBalance, &b.TodayExpected, &b.TodayDeposited,
			&b.ClosingBalance, &b.Status, &b.LastRolledDate, &b.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (p *Postgres) SaveBalances(ctx context.Context, balances []models.DeliveryCashBalance) error {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, b := range balances {
		_, err := tx.Exec(ctx, `
			INSERT INTO delivery_cash_balance
				(delivery_agent_id, opening_balance, today_expected, today_deposited,
				 closing_balance, balance_status, last_rolled_date, last_updated)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), CURRENT_TIMESTAMP)
			ON CONFLICT (delivery_agent_id)
			DO UPDATE SET opening_balance = EXCLUDED.opening_balance,
			              today_expected = EXCLUDED.today_expected,
			              today_deposited = EXCLUDED.today_deposited,
			              closing_balance = EXCLUDED.closing_balance,
			              balance_status = EXCLUDED.balance_status,
			              last_rolled_date = EXCLUDED.last_rolled_date,
			              last_updated = CURRENT_TIMESTAMP
		`, b.AgentID, b.OpeningBalance, b.TodayExpected, b.TodayDeposited,
			b.ClosingBalance, b.Status, b.LastRolledDate)
		if err != nil {
			return fmt.Errorf("failed to save cash balance: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// ---------- users ----------

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := p.DB.QueryRow(ctx, `
		SELECT id, username, COALESCE(full_name, ''), password_hash, role, is_active, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return &u, nil
}

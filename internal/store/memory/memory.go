// Package memory provides an in-memory Store used by the service tests and
// the -use-memory development mode.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
)

type issueKey struct {
	dayID   int
	agentID int
	typeID  int
	source  string
}

type summaryKey struct {
	dayID  int
	typeID int
}

type agentDayKey struct {
	dayID   int
	agentID int
}

type vehicleKey struct {
	dayID   int
	agentID int
	typeID  int
}

// Memory is a mutex-guarded Store. The single lock also gives every write
// method the all-or-nothing behavior the Store contract requires.
type Memory struct {
	mu sync.Mutex

	nextDayID int
	types     []models.CylinderType
	pricing   map[int]models.PricingComponents
	agents    []models.DeliveryAgent
	users     map[string]models.User

	days      map[string]models.StockDay // keyed by date
	summaries map[summaryKey]models.DailyStockSummary
	issues    map[issueKey]models.DeliveryIssue
	vehicle   map[vehicleKey]models.DeliveryVehicleEmptyStock
	expected  map[agentDayKey]decimal.Decimal
	deposits  map[agentDayKey]models.DeliveryCashDeposit
	balances  map[int]models.DeliveryCashBalance // keyed by agent id
}

var _ store.Store = (*Memory)(nil)

// New returns an empty memory store with no catalog.
func New() *Memory {
	return &Memory{
		nextDayID: 1,
		pricing:   map[int]models.PricingComponents{},
		users:     map[string]models.User{},
		days:      map[string]models.StockDay{},
		summaries: map[summaryKey]models.DailyStockSummary{},
		issues:    map[issueKey]models.DeliveryIssue{},
		vehicle:   map[vehicleKey]models.DeliveryVehicleEmptyStock{},
		expected:  map[agentDayKey]decimal.Decimal{},
		deposits:  map[agentDayKey]models.DeliveryCashDeposit{},
		balances:  map[int]models.DeliveryCashBalance{},
	}
}

// NewSeeded returns a memory store pre-populated with the demo catalog:
// three cylinder types with pricing, two field agents plus the Office agent,
// and an admin user (password "admin123").
func NewSeeded() *Memory {
	m := New()
	m.types = []models.CylinderType{
		{ID: 1, Code: "14.2KG", Category: models.CategoryDomestic, IsActive: true, DisplayOrder: 1},
		{ID: 2, Code: "19KG", Category: models.CategoryCommercial, IsActive: true, DisplayOrder: 2},
		{ID: 3, Code: "5KG", Category: models.CategoryDomestic, IsActive: true, DisplayOrder: 3},
	}
	m.pricing = map[int]models.PricingComponents{
		1: {
			CylinderTypeID:     1,
			DepositAmount:      decimal.NewFromInt(500),
			RefillAmount:       decimal.NewFromInt(900),
			DocumentCharge:     decimal.NewFromInt(50),
			InstallationCharge: decimal.NewFromInt(100),
			RegulatorCharge:    decimal.NewFromInt(150),
		},
		2: {
			CylinderTypeID:     2,
			DepositAmount:      decimal.NewFromInt(500),
			RefillAmount:       decimal.NewFromInt(900),
			DocumentCharge:     decimal.NewFromInt(50),
			InstallationCharge: decimal.NewFromInt(100),
			RegulatorCharge:    decimal.NewFromInt(150),
		},
		3: {
			CylinderTypeID:     3,
			DepositAmount:      decimal.NewFromInt(350),
			RefillAmount:       decimal.NewFromInt(400),
			DocumentCharge:     decimal.NewFromInt(25),
			InstallationCharge: decimal.NewFromInt(75),
			RegulatorCharge:    decimal.NewFromInt(150),
		},
	}
	m.agents = []models.DeliveryAgent{
		{ID: 1, Name: "Raju", IsActive: true},
		{ID: 2, Name: "Sonu", IsActive: true},
		{ID: 3, Name: models.OfficeAgentName, IsActive: true},
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	m.users["admin"] = models.User{
		ID:           1,
		Username:     "admin",
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         "ADMIN",
		IsActive:     true,
	}
	return m
}

func (m *Memory) ListCylinderTypes(ctx context.Context) ([]models.CylinderType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.CylinderType
	for _, ct := range m.types {
		if ct.IsActive {
			out = append(out, ct)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *Memory) ListPricing(ctx context.Context) (map[int]models.PricingComponents, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[int]models.PricingComponents, len(m.pricing))
	for id, p := range m.pricing {
		out[id] = p
	}
	return out, nil
}

func (m *Memory) GetAgentByName(ctx context.Context, name string) (*models.DeliveryAgent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.agents {
		if a.Name == name {
			agent := a
			return &agent, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListAgents(ctx context.Context) ([]models.DeliveryAgent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.DeliveryAgent, len(m.agents))
	copy(out, m.agents)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) GetDayByDate(ctx context.Context, date string) (*models.StockDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.days[date]; ok {
		day := d
		return &day, nil
	}
	return nil, nil
}

func (m *Memory) GetLatestDayBefore(ctx context.Context, date string) (*models.StockDay, error) {
	return m.latestBefore(date, false)
}

func (m *Memory) GetLatestClosedDayBefore(ctx context.Context, date string) (*models.StockDay, error) {
	return m.latestBefore(date, true)
}

func (m *Memory) latestBefore(date string, closedOnly bool) (*models.StockDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *models.StockDay
	for d, day := range m.days {
		if d >= date {
			continue
		}
		if closedOnly && day.Status != models.DayStatusClosed {
			continue
		}
		if best == nil || day.Date > best.Date {
			copied := day
			best = &copied
		}
	}
	return best, nil
}

func (m *Memory) CreateDay(ctx context.Context, date string) (*models.StockDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	day := models.StockDay{
		ID:        m.nextDayID,
		Date:      date,
		Status:    models.DayStatusOpen,
		CreatedAt: time.Now(),
	}
	m.nextDayID++
	m.days[date] = day
	return &day, nil
}

func (m *Memory) CloseDay(ctx context.Context, dayID int) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for date, day := range m.days {
		if day.ID == dayID {
			day.Status = models.DayStatusClosed
			day.ClosedAt = &now
			m.days[date] = day
			break
		}
	}
	return now, nil
}

func (m *Memory) HasSummaries(ctx context.Context, dayID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.summaries {
		if k.dayID == dayID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) InitSummariesFromPrevious(ctx context.Context, dayID, prevDayID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, prev := range m.summaries {
		if k.dayID != prevDayID {
			continue
		}
		m.summaries[summaryKey{dayID: dayID, typeID: k.typeID}] = models.DailyStockSummary{
			StockDayID:            dayID,
			CylinderTypeID:        k.typeID,
			OpeningFilled:         prev.ClosingFilled,
			OpeningEmpty:          prev.ClosingEmpty,
			DefectiveEmptyVehicle: prev.DefectiveEmptyVehicle,
			TotalStock:            prev.ClosingFilled + prev.ClosingEmpty + prev.DefectiveEmptyVehicle,
		}
	}
	return nil
}

func (m *Memory) InitSummariesZero(ctx context.Context, dayID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ct := range m.types {
		if !ct.IsActive {
			continue
		}
		m.summaries[summaryKey{dayID: dayID, typeID: ct.ID}] = models.DailyStockSummary{
			StockDayID:     dayID,
			CylinderTypeID: ct.ID,
		}
	}
	return nil
}

func (m *Memory) ListSummaries(ctx context.Context, dayID int) ([]models.DailyStockSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.DailyStockSummary
	for k, s := range m.summaries {
		if k.dayID != dayID {
			continue
		}
		s.CylinderType = m.typeCode(k.typeID)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.displayOrder(out[i].CylinderTypeID) < m.displayOrder(out[j].CylinderTypeID)
	})
	return out, nil
}

func (m *Memory) SetSupplierMovements(ctx context.Context, dayID int, movements []store.SupplierMovementWrite) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, mv := range movements {
		k := summaryKey{dayID: dayID, typeID: mv.CylinderTypeID}
		s, ok := m.summaries[k]
		if !ok {
			continue // matches the production UPDATE touching zero rows
		}
		s.ItemReceipt = mv.Received
		s.ItemReturn = mv.Returned
		m.summaries[k] = s
	}
	return nil
}

func (m *Memory) AddTVOut(ctx context.Context, dayID int, entries []store.TVOutWrite) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		k := summaryKey{dayID: dayID, typeID: e.CylinderTypeID}
		if s, ok := m.summaries[k]; ok {
			s.TVOutQty += e.Quantity
			m.summaries[k] = s
		}
		if e.AgentID != 0 {
			vk := vehicleKey{dayID: dayID, agentID: e.AgentID, typeID: e.CylinderTypeID}
			v := m.vehicle[vk]
			v.StockDayID = dayID
			v.AgentID = e.AgentID
			v.CylinderTypeID = e.CylinderTypeID
			v.EmptyQty += e.Quantity
			m.vehicle[vk] = v
		}
	}
	return nil
}

func (m *Memory) SaveClosingStock(ctx context.Context, dayID int, rows []store.ClosingStockWrite) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range rows {
		k := summaryKey{dayID: dayID, typeID: row.CylinderTypeID}
		s, ok := m.summaries[k]
		if !ok {
			continue
		}
		s.SalesRegular = row.SalesRegular
		s.NCQty = row.NCQty
		s.DBCQty = row.DBCQty
		s.ClosingFilled = row.ClosingFilled
		s.ClosingEmpty = row.ClosingEmpty
		s.TotalStock = row.TotalStock
		m.summaries[k] = s
	}
	return nil
}

func (m *Memory) UpsertIssues(ctx context.Context, dayID int, issues []models.DeliveryIssue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, is := range issues {
		is.StockDayID = dayID
		k := issueKey{dayID: dayID, agentID: is.AgentID, typeID: is.CylinderTypeID, source: is.Source}
		m.issues[k] = is
	}
	return nil
}

func (m *Memory) ListIssues(ctx context.Context, dayID int) ([]models.DeliveryIssue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.DeliveryIssue
	for k, is := range m.issues {
		if k.dayID == dayID {
			out = append(out, is)
		}
	}
	return out, nil
}

func (m *Memory) ListOfficeIssuesAllDays(ctx context.Context) ([]models.DeliveryIssue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.DeliveryIssue
	for k, is := range m.issues {
		if k.source == models.SourceOffice {
			out = append(out, is)
		}
	}
	return out, nil
}

func (m *Memory) ListVehicleEmpty(ctx context.Context, dayID int) ([]models.DeliveryVehicleEmptyStock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.DeliveryVehicleEmptyStock
	for k, v := range m.vehicle {
		if k.dayID == dayID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *Memory) UpsertExpectedAmounts(ctx context.Context, dayID int, amounts map[int]decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for agentID, amount := range amounts {
		m.expected[agentDayKey{dayID: dayID, agentID: agentID}] = amount
	}
	return nil
}

func (m *Memory) ListExpectedAmounts(ctx context.Context, dayID int) ([]models.DeliveryExpectedAmount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.DeliveryExpectedAmount
	for k, amount := range m.expected {
		if k.dayID != dayID {
			continue
		}
		out = append(out, models.DeliveryExpectedAmount{
			StockDayID:     dayID,
			AgentID:        k.agentID,
			AgentName:      m.agentName(k.agentID),
			ExpectedAmount: amount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentName < out[j].AgentName })
	return out, nil
}

func (m *Memory) UpsertDeposits(ctx context.Context, dayID int, deposits []models.DeliveryCashDeposit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range deposits {
		d.StockDayID = dayID
		m.deposits[agentDayKey{dayID: dayID, agentID: d.AgentID}] = d
	}
	return nil
}

func (m *Memory) ListDeposits(ctx context.Context, dayID int) ([]models.DeliveryCashDeposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.DeliveryCashDeposit
	for k, d := range m.deposits {
		if k.dayID != dayID {
			continue
		}
		d.AgentName = m.agentName(k.agentID)
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentName < out[j].AgentName })
	return out, nil
}

func (m *Memory) ListBalances(ctx context.Context) ([]models.DeliveryCashBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.DeliveryCashBalance
	for _, b := range m.balances {
		b.AgentName = m.agentName(b.AgentID)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentName < out[j].AgentName })
	return out, nil
}

func (m *Memory) SaveBalances(ctx context.Context, balances []models.DeliveryCashBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range balances {
		m.balances[b.AgentID] = b
	}
	return nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[username]; ok {
		user := u
		return &user, nil
	}
	return nil, nil
}

// callers must hold m.mu
func (m *Memory) typeCode(typeID int) string {
	for _, ct := range m.types {
		if ct.ID == typeID {
			return ct.Code
		}
	}
	return ""
}

func (m *Memory) displayOrder(typeID int) int {
	for _, ct := range m.types {
		if ct.ID == typeID {
			return ct.DisplayOrder
		}
	}
	return 0
}

func (m *Memory) agentName(agentID int) string {
	for _, a := range m.agents {
		if a.ID == agentID {
			return a.Name
		}
	}
	return ""
}

package models

import "github.com/shopspring/decimal"

// Delivery issue sources. OFFICE rows are stock movements whose cash is
// deferred until the office actually sells; expected-cash calculation skips
// them.
const (
	SourceField  = "FIELD"
	SourceOffice = "OFFICE"
)

// DeliveryIssue is a raw recorded sale, keyed by
// (day, agent, cylinder type, source). Re-submission for the same key
// overwrites the three quantities; it never accumulates.
type DeliveryIssue struct {
	StockDayID     int    `json:"-"`
	AgentID        int    `json:"delivery_agent_id"`
	CylinderTypeID int    `json:"cylinder_type_id"`
	Source         string `json:"source"`
	RegularQty     int    `json:"regular_qty"`
	NCQty          int    `json:"nc_qty"`
	DBCQty         int    `json:"dbc_qty"`
}

// DeliveryVehicleEmptyStock is the per-agent audit trail of TV-out returns.
// Unlike DeliveryIssue it accumulates on repeated submission.
type DeliveryVehicleEmptyStock struct {
	StockDayID     int `json:"-"`
	AgentID        int `json:"delivery_agent_id"`
	CylinderTypeID int `json:"cylinder_type_id"`
	EmptyQty       int `json:"empty_qty"`
}

// DeliverySale is one step 3b line
type DeliverySale struct {
	AgentName    string `json:"agent_name"`
	CylinderType string `json:"cylinder_type"`
	RegularQty   int    `json:"regular_qty"`
	NCQty        int    `json:"nc_qty"`
	DBCQty       int    `json:"dbc_qty"`
}

// RecordDeliverySalesRequest represents the step 3b request body
type RecordDeliverySalesRequest struct {
	StockDate string         `json:"stock_date"`
	Sales     []DeliverySale `json:"sales"`
}

// OfficeSale is one step 3c line; the agent is always the Office agent
type OfficeSale struct {
	CylinderType string `json:"cylinder_type"`
	RegularQty   int    `json:"regular_qty"`
	NCQty        int    `json:"nc_qty"`
	DBCQty       int    `json:"dbc_qty"`
}

// RecordOfficeSalesRequest represents the step 3c request body
type RecordOfficeSalesRequest struct {
	StockDate string       `json:"stock_date"`
	Sales     []OfficeSale `json:"sales"`
}

// TVOutEntry is one step 3d line: empties that reached the depot, attributed
// to the agent who handled the refund.
type TVOutEntry struct {
	AgentName    string `json:"agent_name"`
	CylinderType string `json:"cylinder_type"`
	Quantity     int    `json:"quantity"`
}

// RecordTVOutRequest represents the step 3d request body
type RecordTVOutRequest struct {
	StockDate string       `json:"stock_date"`
	Entries   []TVOutEntry `json:"tv_out_entries"`
}

// OfficePendingStock is one line of the office validation view: cylinders
// held in office awaiting sale and the cash they will bring in.
type OfficePendingStock struct {
	CylinderType   string          `json:"cylinder_type"`
	PendingQty     int             `json:"pending_qty"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
}

// OfficePendingResponse is the office validation view
type OfficePendingResponse struct {
	Stocks        []OfficePendingStock `json:"stocks"`
	TotalExpected decimal.Decimal      `json:"total_expected"`
}

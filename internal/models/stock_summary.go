package models

// DailyStockSummary holds the per-cylinder-type stock figures for one day.
// One row per cylinder type per day; opening figures are carried forward from
// the previous closed day, closing figures are recomputed by the stock
// reconciler.
type DailyStockSummary struct {
	StockDayID            int    `json:"-"`
	CylinderTypeID        int    `json:"-"`
	CylinderType          string `json:"cylinder_type"`
	OpeningFilled         int    `json:"opening_filled"`
	OpeningEmpty          int    `json:"opening_empty"`
	ItemReceipt           int    `json:"item_receipt"`
	ItemReturn            int    `json:"item_return"`
	SalesRegular          int    `json:"sales_regular"`
	NCQty                 int    `json:"nc_qty"`
	DBCQty                int    `json:"dbc_qty"`
	TVOutQty              int    `json:"tv_out_qty"`
	ClosingFilled         int    `json:"closing_filled"`
	ClosingEmpty          int    `json:"closing_empty"`
	DefectiveEmptyVehicle int    `json:"defective_empty_vehicle"`
	TotalStock            int    `json:"total_stock"`
}

// OpeningStockItem is the trimmed view returned after opening-stock
// initialization.
type OpeningStockItem struct {
	CylinderType          string `json:"cylinder_type"`
	OpeningFilled         int    `json:"opening_filled"`
	OpeningEmpty          int    `json:"opening_empty"`
	DefectiveEmptyVehicle int    `json:"defective_empty_vehicle"`
	TotalStock            int    `json:"total_stock"`
}

// OpeningStockResponse is returned by step 2
type OpeningStockResponse struct {
	StockDate string             `json:"stock_date"`
	Stocks    []OpeningStockItem `json:"stocks"`
}

// StockSummaryResponse is returned by step 4
type StockSummaryResponse struct {
	StockDate string              `json:"stock_date"`
	Stocks    []DailyStockSummary `json:"stocks"`
}

// SupplierMovement is one bulk movement line: cylinders received from the
// supplier and empties returned to it.
type SupplierMovement struct {
	CylinderType string `json:"cylinder_type"`
	Received     int    `json:"received"`
	Returned     int    `json:"returned"`
}

// UpdateSupplierMovementsRequest represents the step 3a request body
type UpdateSupplierMovementsRequest struct {
	StockDate string             `json:"stock_date"`
	Movements []SupplierMovement `json:"movements"`
}

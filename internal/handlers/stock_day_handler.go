package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/services"
	"github.com/Techspace-2020/gas-agency-system-backend/pkg/utils"
)

// StockDayHandler exposes the daily close workflow: day lifecycle, opening
// stock, recording, reconciliation and the balance roll.
type StockDayHandler struct {
	Days     *services.DayService
	Stock    *services.StockService
	Delivery *services.DeliveryService
	Cash     *services.CashService
}

func NewStockDayHandler(days *services.DayService, stock *services.StockService, delivery *services.DeliveryService, cash *services.CashService) *StockDayHandler {
	return &StockDayHandler{Days: days, Stock: stock, Delivery: delivery, Cash: cash}
}

// CreateDay handles POST /api/v1/stock-days
func (h *StockDayHandler) CreateDay(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStockDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	day, err := h.Days.CreateDay(r.Context(), req.StockDate)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSONMessage(w, http.StatusCreated, "Stock day created", day)
}

// InitializeOpeningStock handles POST /api/v1/stock-days/{date}/initialize
func (h *StockDayHandler) InitializeOpeningStock(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	resp, err := h.Stock.InitializeOpeningStock(r.Context(), date)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// UpdateSupplierMovements handles PUT /api/v1/stock-days/supplier-movements
func (h *StockDayHandler) UpdateSupplierMovements(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSupplierMovementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Delivery.UpdateSupplierMovements(r.Context(), req.StockDate, req.Movements); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSONMessage(w, http.StatusOK, "Supplier movements updated", nil)
}

// RecordDeliverySales handles POST /api/v1/stock-days/delivery-sales
func (h *StockDayHandler) RecordDeliverySales(w http.ResponseWriter, r *http.Request) {
	var req models.RecordDeliverySalesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Delivery.RecordDeliverySales(r.Context(), req.StockDate, req.Sales); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSONMessage(w, http.StatusOK, "Delivery sales recorded", nil)
}

// RecordOfficeSales handles POST /api/v1/stock-days/office-sales
func (h *StockDayHandler) RecordOfficeSales(w http.ResponseWriter, r *http.Request) {
	var req models.RecordOfficeSalesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Delivery.RecordOfficeSales(r.Context(), req.StockDate, req.Sales); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSONMessage(w, http.StatusOK, "Office sales recorded", nil)
}

// RecordTVOut handles POST /api/v1/stock-days/tv-out
func (h *StockDayHandler) RecordTVOut(w http.ResponseWriter, r *http.Request) {
	var req models.RecordTVOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Delivery.RecordTVOut(r.Context(), req.StockDate, req.Entries); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSONMessage(w, http.StatusOK, "TV out entries recorded", nil)
}

// CalculateClosingStock handles POST /api/v1/stock-days/{date}/calculate-stock
func (h *StockDayHandler) CalculateClosingStock(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	resp, err := h.Stock.CalculateClosingStock(r.Context(), date)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// CalculateExpectedCash handles POST /api/v1/stock-days/{date}/calculate-expected-cash
func (h *StockDayHandler) CalculateExpectedCash(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	resp, err := h.Cash.CalculateExpectedCash(r.Context(), date)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// RecordCashDeposits handles POST /api/v1/stock-days/cash-deposits
func (h *StockDayHandler) RecordCashDeposits(w http.ResponseWriter, r *http.Request) {
	var req models.RecordCashDepositsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Cash.RecordDeposits(r.Context(), req.StockDate, req.Deposits)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// UpdateBalances handles POST /api/v1/stock-days/{date}/update-balances
func (h *StockDayHandler) UpdateBalances(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	resp, err := h.Cash.UpdateBalances(r.Context(), date)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// CloseDay handles POST /api/v1/stock-days/{date}/close
func (h *StockDayHandler) CloseDay(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	resp, err := h.Days.CloseDay(r.Context(), date)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSONMessage(w, http.StatusOK, "Stock day closed", resp)
}

package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/services"
	"github.com/Techspace-2020/gas-agency-system-backend/pkg/utils"
)

type ReportHandler struct {
	Reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// DayReportPDF handles GET /api/v1/stock-days/{date}/report.pdf
func (h *ReportHandler) DayReportPDF(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	data, err := h.Reports.GetDayReportData(r.Context(), date)
	if err != nil {
		utils.Error(w, err)
		return
	}

	pdf, err := h.Reports.GenerateDayReportPDF(data)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="stock_day_%s.pdf"`, date))
	w.Write(pdf)
}

// DayReportCSV handles GET /api/v1/stock-days/{date}/report.csv
func (h *ReportHandler) DayReportCSV(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	csvData, err := h.Reports.GenerateDayReportCSV(r.Context(), date)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="stock_day_%s.csv"`, date))
	w.Write(csvData)
}

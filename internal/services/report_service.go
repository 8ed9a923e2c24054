package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/timeutil"
)

// DayReportData holds all data for a stock-day report
type DayReportData struct {
	Day       *models.StockDay
	Summaries []models.DailyStockSummary
	Expected  []models.DeliveryExpectedAmount
	Deposits  []models.DeliveryCashDeposit
	Balances  []models.DeliveryCashBalance
}

// ReportService renders the day's ledger as a PDF or CSV
type ReportService struct {
	Store store.Store
	Days  *DayService
}

func NewReportService(s store.Store, days *DayService) *ReportService {
	return &ReportService{Store: s, Days: days}
}

// GetDayReportData fetches everything recorded for a day
func (s *ReportService) GetDayReportData(ctx context.Context, date string) (*DayReportData, error) {
	day, err := s.Days.RequireDay(ctx, date)
	if err != nil {
		return nil, err
	}

	summaries, err := s.Store.ListSummaries(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	expected, err := s.Store.ListExpectedAmounts(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	deposits, err := s.Store.ListDeposits(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	balances, err := s.Store.ListBalances(ctx)
	if err != nil {
		return nil, err
	}

	return &DayReportData{
		Day:       day,
		Summaries: summaries,
		Expected:  expected,
		Deposits:  deposits,
		Balances:  balances,
	}, nil
}

// GenerateDayReportPDF generates the stock-day ledger PDF
func (s *ReportService) GenerateDayReportPDF(data *DayReportData) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "") // Landscape for the stock table
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(277, 12, "Gas Agency - Stock Day Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(277, 8, fmt.Sprintf("Date: %s (%s)", data.Day.Date, data.Day.Status), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Stock table
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(277, 8, "Cylinder Stock", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(30, 7, "Type", "1", 0, "C", true, 0, "")
	pdf.CellFormat(24, 7, "Open Filled", "1", 0, "C", true, 0, "")
	pdf.CellFormat(24, 7, "Open Empty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(22, 7, "Received", "1", 0, "C", true, 0, "")
	pdf.CellFormat(22, 7, "Returned", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Regular", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "NC", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "DBC", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "TV Out", "1", 0, "C", true, 0, "")
	pdf.CellFormat(24, 7, "Close Filled", "1", 0, "C", true, 0, "")
	pdf.CellFormat(24, 7, "Close Empty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(22, 7, "Defective", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for i, sum := range data.Summaries {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}
		pdf.CellFormat(30, 6, sum.CylinderType, "1", 0, "C", true, 0, "")
		pdf.CellFormat(24, 6, fmt.Sprintf("%d", sum.OpeningFilled), "1", 0, "C", true, 0, "")
		pdf.CellFormat(24, 6, fmt.Sprintf("%d", sum.OpeningEmpty), "1", 0, "C", true, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%d", sum.ItemReceipt), "1", 0, "C", true, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%d", sum.ItemReturn), "1", 0, "C", true, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", sum.SalesRegular), "1", 0, "C", true, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", sum.NCQty), "1", 0, "C", true, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", sum.DBCQty), "1", 0, "C", true, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", sum.TVOutQty), "1", 0, "C", true, 0, "")
		pdf.CellFormat(24, 6, fmt.Sprintf("%d", sum.ClosingFilled), "1", 0, "C", true, 0, "")
		pdf.CellFormat(24, 6, fmt.Sprintf("%d", sum.ClosingEmpty), "1", 0, "C", true, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%d", sum.DefectiveEmptyVehicle), "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%d", sum.TotalStock), "1", 1, "C", true, 0, "")
	}
	pdf.Ln(5)

	// Cash reconciliation table
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(277, 8, "Cash Reconciliation", "1", 1, "L", true, 0, "")

	depositsByAgent := make(map[int]models.DeliveryCashDeposit, len(data.Deposits))
	for _, d := range data.Deposits {
		depositsByAgent[d.AgentID] = d
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Agent", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Expected", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Cash", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "UPI", "1", 0, "C", true, 0, "")
	pdf.CellFormat(52, 7, "Variance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, e := range data.Expected {
		dep := depositsByAgent[e.AgentID]
		variance := dep.TotalDeposited.Sub(e.ExpectedAmount)
		pdf.CellFormat(60, 6, e.AgentName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, "Rs. "+e.ExpectedAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(55, 6, "Rs. "+dep.CashAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(55, 6, "Rs. "+dep.UPIAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(52, 6, "Rs. "+variance.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// Running balances
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(277, 8, "Agent Balances", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Agent", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Opening", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Closing", "1", 0, "C", true, 0, "")
	pdf.CellFormat(107, 7, "Status", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, b := range data.Balances {
		if b.Status == models.BalancePending {
			pdf.SetFillColor(255, 200, 200)
		} else {
			pdf.SetFillColor(200, 255, 200)
		}
		pdf.CellFormat(60, 6, b.AgentName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, "Rs. "+b.OpeningBalance.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(55, 6, "Rs. "+b.ClosingBalance.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(107, 6, b.Status, "1", 1, "C", true, 0, "")
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateDayReportCSV generates a CSV file with the day's ledger
func (s *ReportService) GenerateDayReportCSV(ctx context.Context, date string) ([]byte, error) {
	data, err := s.GetDayReportData(ctx, date)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Stock Day Report", data.Day.Date, data.Day.Status})
	w.Write([]string{""})

	w.Write([]string{
		"Type", "Open Filled", "Open Empty", "Received", "Returned",
		"Regular", "NC", "DBC", "TV Out", "Close Filled", "Close Empty", "Defective", "Total",
	})
	for _, sum := range data.Summaries {
		w.Write([]string{
			sum.CylinderType,
			fmt.Sprintf("%d", sum.OpeningFilled),
			fmt.Sprintf("%d", sum.OpeningEmpty),
			fmt.Sprintf("%d", sum.ItemReceipt),
			fmt.Sprintf("%d", sum.ItemReturn),
			fmt.Sprintf("%d", sum.SalesRegular),
			fmt.Sprintf("%d", sum.NCQty),
			fmt.Sprintf("%d", sum.DBCQty),
			fmt.Sprintf("%d", sum.TVOutQty),
			fmt.Sprintf("%d", sum.ClosingFilled),
			fmt.Sprintf("%d", sum.ClosingEmpty),
			fmt.Sprintf("%d", sum.DefectiveEmptyVehicle),
			fmt.Sprintf("%d", sum.TotalStock),
		})
	}
	w.Write([]string{""})

	depositsByAgent := make(map[int]models.DeliveryCashDeposit, len(data.Deposits))
	for _, d := range data.Deposits {
		depositsByAgent[d.AgentID] = d
	}
	w.Write([]string{"Agent", "Expected", "Cash", "UPI", "Deposited", "Variance"})
	for _, e := range data.Expected {
		dep := depositsByAgent[e.AgentID]
		w.Write([]string{
			e.AgentName,
			e.ExpectedAmount.StringFixed(2),
			dep.CashAmount.StringFixed(2),
			dep.UPIAmount.StringFixed(2),
			dep.TotalDeposited.StringFixed(2),
			dep.TotalDeposited.Sub(e.ExpectedAmount).StringFixed(2),
		})
	}

	w.Flush()
	return buf.Bytes(), nil
}

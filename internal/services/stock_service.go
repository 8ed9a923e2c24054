package services

import (
	"context"
	"log"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/bizerror"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/metrics"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
)

// StockService handles opening-stock initialization and the closing-stock
// reconciliation.
type StockService struct {
	Store store.Store
	Days  *DayService
}

func NewStockService(s store.Store, days *DayService) *StockService {
	return &StockService{Store: s, Days: days}
}

// InitializeOpeningStock carries the previous closed day's closing figures
// forward as today's opening stock (step 2). On the first operational day it
// creates zero-valued rows for every active cylinder type. Re-invocation on a
// day that already has summary rows returns them unchanged.
func (s *StockService) InitializeOpeningStock(ctx context.Context, date string) (*models.OpeningStockResponse, error) {
	day, err := s.Days.RequireOpenDay(ctx, date)
	if err != nil {
		return nil, err
	}

	initialized, err := s.Store.HasSummaries(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	if !initialized {
		prev, err := s.Store.GetLatestClosedDayBefore(ctx, date)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			err = s.Store.InitSummariesFromPrevious(ctx, day.ID, prev.ID)
		} else {
			err = s.Store.InitSummariesZero(ctx, day.ID)
		}
		if err != nil {
			return nil, err
		}
		log.Printf("[Stock] Initialized opening stock for %s", date)
	}

	summaries, err := s.Store.ListSummaries(ctx, day.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.OpeningStockResponse{StockDate: date}
	for _, sum := range summaries {
		resp.Stocks = append(resp.Stocks, models.OpeningStockItem{
			CylinderType:          sum.CylinderType,
			OpeningFilled:         sum.OpeningFilled,
			OpeningEmpty:          sum.OpeningEmpty,
			DefectiveEmptyVehicle: sum.DefectiveEmptyVehicle,
			TotalStock:            sum.TotalStock,
		})
	}
	return resp, nil
}

// CalculateClosingStock consolidates the day's recorded transactions into
// closing figures (step 4). The whole derivation is recomputed from the raw
// delivery issues rather than accumulated, so repeat invocations are
// idempotent. The day only has to exist; OPEN is not enforced here.
//
//	closing_filled = opening_filled + item_receipt - (regular + nc + dbc)
//	closing_empty  = opening_empty + regular + tv_out - item_return
//	total_stock    = closing_filled + closing_empty + defective
//
// Only regular refill sales generate an empty return; NC and DBC are new
// connections, not swaps. Negative closing stock fails the whole calculation
// before anything is written, naming every offending cylinder type.
func (s *StockService) CalculateClosingStock(ctx context.Context, date string) (*models.StockSummaryResponse, error) {
	day, err := s.Days.RequireDay(ctx, date)
	if err != nil {
		return nil, err
	}

	issues, err := s.Store.ListIssues(ctx, day.ID)
	if err != nil {
		return nil, err
	}

	// Aggregate sales per cylinder type across FIELD and OFFICE sources.
	type salesAgg struct{ regular, nc, dbc int }
	sales := map[int]salesAgg{}
	for _, is := range issues {
		agg := sales[is.CylinderTypeID]
		agg.regular += is.RegularQty
		agg.nc += is.NCQty
		agg.dbc += is.DBCQty
		sales[is.CylinderTypeID] = agg
	}

	summaries, err := s.Store.ListSummaries(ctx, day.ID)
	if err != nil {
		return nil, err
	}

	var writes []store.ClosingStockWrite
	var negative []string
	for _, sum := range summaries {
		agg := sales[sum.CylinderTypeID]
		closingFilled := sum.OpeningFilled + sum.ItemReceipt - (agg.regular + agg.nc + agg.dbc)
		closingEmpty := sum.OpeningEmpty + agg.regular + sum.TVOutQty - sum.ItemReturn

		if closingFilled < 0 || closingEmpty < 0 {
			negative = append(negative, sum.CylinderType)
			continue
		}

		writes = append(writes, store.ClosingStockWrite{
			CylinderTypeID: sum.CylinderTypeID,
			SalesRegular:   agg.regular,
			NCQty:          agg.nc,
			DBCQty:         agg.dbc,
			ClosingFilled:  closingFilled,
			ClosingEmpty:   closingEmpty,
			TotalStock:     closingFilled + closingEmpty + sum.DefectiveEmptyVehicle,
		})
	}

	if len(negative) > 0 {
		metrics.NegativeStockRejections.Inc()
		return nil, bizerror.NegativeStock(negative)
	}

	if err := s.Store.SaveClosingStock(ctx, day.ID, writes); err != nil {
		return nil, err
	}

	result, err := s.Store.ListSummaries(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	log.Printf("[Stock] Calculated closing stock for %s", date)
	return &models.StockSummaryResponse{StockDate: date, Stocks: result}, nil
}

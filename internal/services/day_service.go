package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/bizerror"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/metrics"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
)

// Snapshotter receives a JSON snapshot of a day when it closes. Implemented
// by the R2 backup uploader; nil disables snapshots.
type Snapshotter interface {
	UploadDaySnapshot(ctx context.Context, date string, payload []byte) error
}

// DayService owns the stock day state machine: OPEN -> CLOSED, one edge,
// no reopen. At most one day is OPEN at any time because a new day cannot be
// created while the previous one is still open.
type DayService struct {
	Store     store.Store
	Snapshots Snapshotter
}

func NewDayService(s store.Store, snapshots Snapshotter) *DayService {
	return &DayService{Store: s, Snapshots: snapshots}
}

// CreateDay starts a new working day in OPEN status (step 1).
func (s *DayService) CreateDay(ctx context.Context, date string) (*models.StockDay, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, bizerror.InvalidStockData("stock_date must be formatted YYYY-MM-DD")
	}

	existing, err := s.Store.GetDayByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, bizerror.DayAlreadyExists(date)
	}

	prev, err := s.Store.GetLatestDayBefore(ctx, date)
	if err != nil {
		return nil, err
	}
	if prev != nil && prev.Status != models.DayStatusClosed {
		return nil, bizerror.PreviousDayNotClosed()
	}

	day, err := s.Store.CreateDay(ctx, date)
	if err != nil {
		return nil, err
	}

	log.Printf("[Day] Created stock day %d for date %s", day.ID, date)
	return day, nil
}

// CloseDay transitions the day to CLOSED and stamps the closing time
// (step 8). Closing is terminal.
func (s *DayService) CloseDay(ctx context.Context, date string) (*models.CloseStockDayResponse, error) {
	day, err := s.Store.GetDayByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, bizerror.DayNotFound(date)
	}
	if day.Status == models.DayStatusClosed {
		return nil, bizerror.DayAlreadyClosed(date)
	}

	closedAt, err := s.Store.CloseDay(ctx, day.ID)
	if err != nil {
		return nil, err
	}

	metrics.DaysClosedTotal.Inc()
	log.Printf("[Day] Closed stock day for date %s", date)

	s.snapshot(day.ID, date)

	return &models.CloseStockDayResponse{
		StockDate: date,
		Status:    models.DayStatusClosed,
		ClosedAt:  &closedAt,
	}, nil
}

// RequireDay returns the day for the date or DayNotFound.
func (s *DayService) RequireDay(ctx context.Context, date string) (*models.StockDay, error) {
	day, err := s.Store.GetDayByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, bizerror.DayNotFound(date)
	}
	return day, nil
}

// RequireOpenDay is the lookup helper used by the transaction recorder.
func (s *DayService) RequireOpenDay(ctx context.Context, date string) (*models.StockDay, error) {
	day, err := s.RequireDay(ctx, date)
	if err != nil {
		return nil, err
	}
	if !day.IsOpen() {
		return nil, bizerror.DayNotOpen(date)
	}
	return day, nil
}

// snapshot uploads a best-effort JSON snapshot of the closed day in the
// background. Failures are logged and never fail the close.
func (s *DayService) snapshot(dayID int, date string) {
	if s.Snapshots == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		payload, err := s.buildSnapshot(ctx, dayID, date)
		if err != nil {
			log.Printf("[Day] Snapshot build failed for %s: %v", date, err)
			return
		}
		if err := s.Snapshots.UploadDaySnapshot(ctx, date, payload); err != nil {
			log.Printf("[Day] Snapshot upload failed for %s: %v", date, err)
			return
		}
		log.Printf("[Day] Snapshot uploaded for %s", date)
	}()
}

func (s *DayService) buildSnapshot(ctx context.Context, dayID int, date string) ([]byte, error) {
	summaries, err := s.Store.ListSummaries(ctx, dayID)
	if err != nil {
		return nil, err
	}
	balances, err := s.Store.ListBalances(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		StockDate string                       `json:"stock_date"`
		Stocks    []models.DailyStockSummary   `json:"stocks"`
		Balances  []models.DeliveryCashBalance `json:"balances"`
	}{date, summaries, balances})
}

package services

import (
	"context"
	"testing"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store/memory"
)

func newDayService() *DayService {
	return NewDayService(memory.NewSeeded(), nil)
}

func TestCreateDayRejectsMalformedDate(t *testing.T) {
	svc := newDayService()

	if _, err := svc.CreateDay(context.Background(), "15-01-2025"); err == nil {
		t.Fatalf("expected malformed date to be rejected")
	}
	if _, err := svc.CreateDay(context.Background(), ""); err == nil {
		t.Fatalf("expected empty date to be rejected")
	}
}

func TestCreateDayRejectsDuplicate(t *testing.T) {
	svc := newDayService()
	ctx := context.Background()

	if _, err := svc.CreateDay(ctx, "2025-01-15"); err != nil {
		t.Fatalf("create day failed: %v", err)
	}
	if _, err := svc.CreateDay(ctx, "2025-01-15"); err == nil {
		t.Fatalf("expected duplicate day to be rejected")
	}
}

func TestCreateDayRequiresPreviousDayClosed(t *testing.T) {
	svc := newDayService()
	ctx := context.Background()

	if _, err := svc.CreateDay(ctx, "2025-01-15"); err != nil {
		t.Fatalf("create day failed: %v", err)
	}
	if _, err := svc.CreateDay(ctx, "2025-01-16"); err == nil {
		t.Fatalf("expected second day to be rejected while the first is open")
	}

	if _, err := svc.CloseDay(ctx, "2025-01-15"); err != nil {
		t.Fatalf("close day failed: %v", err)
	}
	day, err := svc.CreateDay(ctx, "2025-01-16")
	if err != nil {
		t.Fatalf("create day after close failed: %v", err)
	}
	if day.Status != models.DayStatusOpen {
		t.Fatalf("new day status = %q, want OPEN", day.Status)
	}
}

func TestCloseDayIsTerminal(t *testing.T) {
	svc := newDayService()
	ctx := context.Background()

	if _, err := svc.CloseDay(ctx, "2025-01-15"); err == nil {
		t.Fatalf("expected closing a missing day to fail")
	}

	if _, err := svc.CreateDay(ctx, "2025-01-15"); err != nil {
		t.Fatalf("create day failed: %v", err)
	}
	resp, err := svc.CloseDay(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("close day failed: %v", err)
	}
	if resp.Status != models.DayStatusClosed || resp.ClosedAt == nil {
		t.Fatalf("close response = %+v, want CLOSED with timestamp", resp)
	}

	if _, err := svc.CloseDay(ctx, "2025-01-15"); err == nil {
		t.Fatalf("expected re-closing a closed day to fail")
	}
}

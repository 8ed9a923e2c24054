package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
)

// OfficeService exposes the validation view over office-held stock: cylinders
// recorded as moved to the office across all days and the cash they will
// bring in once sold. Office issues are excluded from expected cash, so this
// view is the only place their value shows up before the sale happens.
type OfficeService struct {
	Store   store.Store
	Catalog *Catalog
}

func NewOfficeService(s store.Store, catalog *Catalog) *OfficeService {
	return &OfficeService{Store: s, Catalog: catalog}
}

// PendingStock aggregates office issues per cylinder type across the full
// history and prices them the same way field sales are priced.
func (s *OfficeService) PendingStock(ctx context.Context) (*models.OfficePendingResponse, error) {
	issues, err := s.Store.ListOfficeIssuesAllDays(ctx)
	if err != nil {
		return nil, err
	}
	pricing, err := s.Catalog.Pricing(ctx)
	if err != nil {
		return nil, err
	}
	types, err := s.Catalog.Types(ctx)
	if err != nil {
		return nil, err
	}

	type agg struct {
		qty    int
		amount decimal.Decimal
	}
	byType := map[int]*agg{}
	for _, is := range issues {
		a := byType[is.CylinderTypeID]
		if a == nil {
			a = &agg{}
			byType[is.CylinderTypeID] = a
		}
		p, ok := pricing[is.CylinderTypeID]
		if !ok {
			continue
		}
		ct := lookupType(types, is.CylinderTypeID)
		qty := is.RegularQty + is.NCQty + is.DBCQty
		a.qty += qty
		a.amount = a.amount.
			Add(p.RefillAmount.Mul(decimal.NewFromInt(int64(is.RegularQty)))).
			Add(p.NCAmount(ct.Category).Mul(decimal.NewFromInt(int64(is.NCQty)))).
			Add(p.DBCAmount().Mul(decimal.NewFromInt(int64(is.DBCQty))))
	}

	resp := &models.OfficePendingResponse{}
	for _, ct := range types {
		a, ok := byType[ct.ID]
		if !ok || a.qty == 0 {
			continue
		}
		resp.Stocks = append(resp.Stocks, models.OfficePendingStock{
			CylinderType:   ct.Code,
			PendingQty:     a.qty,
			ExpectedAmount: a.amount,
		})
		resp.TotalExpected = resp.TotalExpected.Add(a.amount)
	}
	return resp, nil
}

func lookupType(types []models.CylinderType, id int) models.CylinderType {
	for _, ct := range types {
		if ct.ID == id {
			return ct
		}
	}
	return models.CylinderType{}
}

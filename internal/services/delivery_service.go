package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/bizerror"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
)

// DeliveryService records the raw daily transactions: bulk supplier
// movements, per-agent field sales, office sales and TV-out returns. All
// operations require the day to be OPEN and validate every line before any
// write, so an invalid entry leaves no partial state behind.
type DeliveryService struct {
	Store   store.Store
	Days    *DayService
	Catalog *Catalog
}

func NewDeliveryService(s store.Store, days *DayService, catalog *Catalog) *DeliveryService {
	return &DeliveryService{Store: s, Days: days, Catalog: catalog}
}

// UpdateSupplierMovements overwrites the day's supplier receipt/return
// figures per cylinder type (step 3a). Last write per type wins; repeated
// submissions are not additive.
func (s *DeliveryService) UpdateSupplierMovements(ctx context.Context, date string, movements []models.SupplierMovement) error {
	day, err := s.Days.RequireOpenDay(ctx, date)
	if err != nil {
		return err
	}

	byCode, err := s.Catalog.TypesByCode(ctx)
	if err != nil {
		return err
	}

	var writes []store.SupplierMovementWrite
	for _, mv := range movements {
		ct, ok := byCode[mv.CylinderType]
		if !ok {
			return bizerror.InvalidCylinderType(mv.CylinderType)
		}
		if mv.Received < 0 || mv.Returned < 0 {
			return bizerror.InvalidStockData(
				fmt.Sprintf("supplier movement for %s has a negative quantity", mv.CylinderType))
		}
		writes = append(writes, store.SupplierMovementWrite{
			CylinderTypeID: ct.ID,
			Received:       mv.Received,
			Returned:       mv.Returned,
		})
	}

	if err := s.Store.SetSupplierMovements(ctx, day.ID, writes); err != nil {
		return err
	}
	log.Printf("[Delivery] Updated %d supplier movements for %s", len(writes), date)
	return nil
}

// RecordDeliverySales upserts per-agent field sales (step 3b). The unique
// key (day, agent, type, source) makes resubmission a full overwrite of the
// three quantity fields.
func (s *DeliveryService) RecordDeliverySales(ctx context.Context, date string, sales []models.DeliverySale) error {
	day, err := s.Days.RequireOpenDay(ctx, date)
	if err != nil {
		return err
	}

	byCode, err := s.Catalog.TypesByCode(ctx)
	if err != nil {
		return err
	}

	var issues []models.DeliveryIssue
	for _, sale := range sales {
		agent, err := s.Store.GetAgentByName(ctx, sale.AgentName)
		if err != nil {
			return err
		}
		if agent == nil || !agent.IsActive {
			return bizerror.AgentNotFound(sale.AgentName)
		}
		ct, ok := byCode[sale.CylinderType]
		if !ok {
			return bizerror.InvalidCylinderType(sale.CylinderType)
		}
		if sale.RegularQty < 0 || sale.NCQty < 0 || sale.DBCQty < 0 {
			return bizerror.InvalidStockData(
				fmt.Sprintf("sale for %s has a negative quantity", sale.AgentName))
		}
		issues = append(issues, models.DeliveryIssue{
			AgentID:        agent.ID,
			CylinderTypeID: ct.ID,
			Source:         models.SourceField,
			RegularQty:     sale.RegularQty,
			NCQty:          sale.NCQty,
			DBCQty:         sale.DBCQty,
		})
	}

	if err := s.Store.UpsertIssues(ctx, day.ID, issues); err != nil {
		return err
	}
	log.Printf("[Delivery] Recorded %d delivery sales for %s", len(issues), date)
	return nil
}

// RecordOfficeSales records cylinders pushed to office inventory (step 3c).
// Stock impact equals field sales; cash is deferred, which the expected-cash
// calculation honors by skipping OFFICE-source rows.
func (s *DeliveryService) RecordOfficeSales(ctx context.Context, date string, sales []models.OfficeSale) error {
	day, err := s.Days.RequireOpenDay(ctx, date)
	if err != nil {
		return err
	}

	office, err := s.Store.GetAgentByName(ctx, models.OfficeAgentName)
	if err != nil {
		return err
	}
	if office == nil {
		return bizerror.OfficeAgentMissing()
	}

	byCode, err := s.Catalog.TypesByCode(ctx)
	if err != nil {
		return err
	}

	var issues []models.DeliveryIssue
	for _, sale := range sales {
		ct, ok := byCode[sale.CylinderType]
		if !ok {
			return bizerror.InvalidCylinderType(sale.CylinderType)
		}
		if sale.RegularQty < 0 || sale.NCQty < 0 || sale.DBCQty < 0 {
			return bizerror.InvalidStockData("office sale has a negative quantity")
		}
		issues = append(issues, models.DeliveryIssue{
			AgentID:        office.ID,
			CylinderTypeID: ct.ID,
			Source:         models.SourceOffice,
			RegularQty:     sale.RegularQty,
			NCQty:          sale.NCQty,
			DBCQty:         sale.DBCQty,
		})
	}

	if err := s.Store.UpsertIssues(ctx, day.ID, issues); err != nil {
		return err
	}
	log.Printf("[Delivery] Recorded %d office sales for %s", len(issues), date)
	return nil
}

// RecordTVOut accumulates customer empty returns onto the day's summary and,
// when the handling agent resolves, onto that agent's vehicle empty-stock
// audit trail (step 3d). Unlike sales this adds on every submission. TV-out
// is recorded on the day the empty reaches the depot, which may be later
// than the original sale; it increases empty stock and never reduces filled.
func (s *DeliveryService) RecordTVOut(ctx context.Context, date string, entries []models.TVOutEntry) error {
	day, err := s.Days.RequireOpenDay(ctx, date)
	if err != nil {
		return err
	}

	byCode, err := s.Catalog.TypesByCode(ctx)
	if err != nil {
		return err
	}

	var writes []store.TVOutWrite
	for _, e := range entries {
		ct, ok := byCode[e.CylinderType]
		if !ok {
			return bizerror.InvalidCylinderType(e.CylinderType)
		}
		if e.Quantity <= 0 {
			return bizerror.InvalidStockData("tv-out quantity must be greater than zero")
		}

		w := store.TVOutWrite{CylinderTypeID: ct.ID, Quantity: e.Quantity}
		if e.AgentName != "" {
			agent, err := s.Store.GetAgentByName(ctx, e.AgentName)
			if err != nil {
				return err
			}
			if agent != nil {
				w.AgentID = agent.ID
			}
		}
		writes = append(writes, w)
	}

	if err := s.Store.AddTVOut(ctx, day.ID, writes); err != nil {
		return err
	}
	log.Printf("[Delivery] Recorded %d tv-out entries for %s", len(writes), date)
	return nil
}

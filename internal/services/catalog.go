package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/cache"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
)

const catalogTTL = 10 * time.Minute

// Catalog loads the read-only cylinder catalog (types and pricing). The
// catalog is owned elsewhere and never mutated here, so reads go through
// redis with a short TTL; when redis is down everything falls through to the
// store.
type Catalog struct {
	Store store.Store
}

func NewCatalog(s store.Store) *Catalog {
	return &Catalog{Store: s}
}

// Types returns the active cylinder types in display order.
func (c *Catalog) Types(ctx context.Context) ([]models.CylinderType, error) {
	if data, ok := cache.GetCached(ctx, cache.CatalogTypesKey); ok {
		var types []models.CylinderType
		if err := json.Unmarshal(data, &types); err == nil {
			return types, nil
		}
	}

	types, err := c.Store.ListCylinderTypes(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(types); err == nil {
		cache.SetCached(ctx, cache.CatalogTypesKey, data, catalogTTL)
	}
	return types, nil
}

// TypesByCode returns the active cylinder types keyed by code.
func (c *Catalog) TypesByCode(ctx context.Context) (map[string]models.CylinderType, error) {
	types, err := c.Types(ctx)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]models.CylinderType, len(types))
	for _, ct := range types {
		byCode[ct.Code] = ct
	}
	return byCode, nil
}

// Pricing returns the pricing components keyed by cylinder type id.
func (c *Catalog) Pricing(ctx context.Context) (map[int]models.PricingComponents, error) {
	if data, ok := cache.GetCached(ctx, cache.CatalogPricingKey); ok {
		var pricing map[int]models.PricingComponents
		if err := json.Unmarshal(data, &pricing); err == nil {
			return pricing, nil
		}
	}

	pricing, err := c.Store.ListPricing(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(pricing); err == nil {
		cache.SetCached(ctx, cache.CatalogPricingKey, data, catalogTTL)
	}
	return pricing, nil
}

package models

import "github.com/shopspring/decimal"

// Pricing categories for cylinder types. The regulator charge applies to
// DOMESTIC types only.
const (
	CategoryDomestic   = "DOMESTIC"
	CategoryCommercial = "COMMERCIAL"
)

// OfficeAgentName is the roster name of the virtual agent that represents
// cylinders pushed to office inventory rather than field-delivered.
const OfficeAgentName = "Office"

// CylinderType is a catalog entry ("14.2KG", "19KG", ...). Owned by the
// catalog; the engine only reads it.
type CylinderType struct {
	ID           int    `json:"cylinder_type_id"`
	Code         string `json:"code"`
	Category     string `json:"category"` // DOMESTIC or COMMERCIAL
	IsActive     bool   `json:"is_active"`
	DisplayOrder int    `json:"display_order"`
}

// PricingComponents is the per-type price breakdown used to derive expected
// cash from recorded sales.
type PricingComponents struct {
	CylinderTypeID     int             `json:"cylinder_type_id"`
	DepositAmount      decimal.Decimal `json:"deposit_amount"`
	RefillAmount       decimal.Decimal `json:"refill_amount"`
	DocumentCharge     decimal.Decimal `json:"document_charge"`
	InstallationCharge decimal.Decimal `json:"installation_charge"`
	RegulatorCharge    decimal.Decimal `json:"regulator_charge"`
}

// NCAmount returns the price of one new connection for the given category.
func (p PricingComponents) NCAmount(category string) decimal.Decimal {
	amount := p.DepositAmount.Add(p.RefillAmount).Add(p.DocumentCharge).Add(p.InstallationCharge)
	if category == CategoryDomestic {
		amount = amount.Add(p.RegulatorCharge)
	}
	return amount
}

// DBCAmount returns the price of one duplicate booking connection. DBC never
// includes the regulator charge, regardless of category.
func (p PricingComponents) DBCAmount() decimal.Decimal {
	return p.DepositAmount.Add(p.RefillAmount).Add(p.DocumentCharge).Add(p.InstallationCharge)
}

// DeliveryAgent is a roster entry. The roster includes the virtual "Office"
// agent (OfficeAgentName).
type DeliveryAgent struct {
	ID       int    `json:"delivery_agent_id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

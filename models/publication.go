package models

import "time"

// PublicationType tags the marketplace union: every publication is
// either a product or a service, stored in one collection and
// discriminated by this field.
type PublicationType string

const (
	PublicationProduct PublicationType = "PRODUCT"
	PublicationService PublicationType = "SERVICE"
)

// PricingOption is how a publication is priced.
type PricingOption string

const (
	PricingFixed      PricingOption = "FIXED"
	PricingNegotiable PricingOption = "NEGOTIABLE"
	PricingFree       PricingOption = "FREE"
)

// ProductCondition applies to product publications only.
type ProductCondition string

const (
	ConditionNew  ProductCondition = "NEW"
	ConditionUsed ProductCondition = "USED"
)

// ProductCategory classifies product publications.
type ProductCategory string

const (
	ProductSolarPanels  ProductCategory = "SOLAR_PANELS"
	ProductInverters    ProductCategory = "INVERTERS"
	ProductBatteries    ProductCategory = "BATTERIES"
	ProductAccessories  ProductCategory = "ACCESSORIES"
	ProductOtherDevices ProductCategory = "OTHER_DEVICES"
)

// ServiceCategory classifies service publications.
type ServiceCategory string

const (
	ServiceInstallation ServiceCategory = "INSTALLATION"
	ServiceMaintenance  ServiceCategory = "MAINTENANCE"
	ServiceConsulting   ServiceCategory = "CONSULTING"
	ServiceTransport    ServiceCategory = "TRANSPORT"
	ServiceOther        ServiceCategory = "OTHER"
)

// Publication is a marketplace listing. Product-only fields (condition,
// product category) and service-only fields (service category) carry the
// omitempty tag; Type decides which of them are meaningful.
type Publication struct {
	ID            string           `bson:"id" json:"id"`
	Type          PublicationType  `bson:"type" json:"type"`
	Title         string           `bson:"title" json:"title"`
	Description   string           `bson:"description" json:"description"`
	Images        []string         `bson:"images" json:"images"`
	PricingOption PricingOption    `bson:"pricing_option" json:"pricingOption"`
	Price         float64          `bson:"price,omitempty" json:"price,omitempty"`
	Condition     ProductCondition `bson:"condition,omitempty" json:"condition,omitempty"`
	Category      string           `bson:"category,omitempty" json:"category,omitempty"`
	Publisher     string           `bson:"publisher" json:"-"`
	CreatedAt     time.Time        `bson:"created_at" json:"createdAt"`
}

package models

import "time"

// PropertyType is the category of an auctioned property.
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "Apartamento"
	PropertyTypeHouse      PropertyType = "Casa"
	PropertyTypeCommercial PropertyType = "Sala Comercial"
	PropertyTypeLand       PropertyType = "Terreno"
)

// PropertySituation is the occupancy situation at the time of the auction.
type PropertySituation string

const (
	PropertySituationOccupied   PropertySituation = "Ocupado"
	PropertySituationUnoccupied PropertySituation = "Desocupado"
)

// PropertyStatus is the informational lifecycle stage of a property. Any status
// may move to any other status.
type PropertyStatus string

const (
	PropertyStatusAnalysis   PropertyStatus = "Em análise"
	PropertyStatusRenovation PropertyStatus = "Em reforma"
	PropertyStatusVacating   PropertyStatus = "Ocupação / desocupação"
	PropertyStatusForSale    PropertyStatus = "À venda"
	PropertyStatusSold       PropertyStatus = "Vendido"
)

// PropertyStatuses lists every status in workflow order.
var PropertyStatuses = []PropertyStatus{
	PropertyStatusAnalysis,
	PropertyStatusRenovation,
	PropertyStatusVacating,
	PropertyStatusForSale,
	PropertyStatusSold,
}

// CostBucket holds the six tracked cost categories of a property. A property
// always carries two of them: expected and executed.
type CostBucket struct {
	Reform   float64 `gorm:"not null;default:0" json:"reform" binding:"gte=0"`
	Legal    float64 `gorm:"not null;default:0" json:"legal" binding:"gte=0"`
	ITBI     float64 `gorm:"column:itbi;not null;default:0" json:"itbi" binding:"gte=0"` // deed transfer tax
	Deed     float64 `gorm:"not null;default:0" json:"deed" binding:"gte=0"`             // deed registration
	Vacating float64 `gorm:"not null;default:0" json:"vacating" binding:"gte=0"`
	Extra    float64 `gorm:"not null;default:0" json:"extra" binding:"gte=0"`
}

// Property is an auctioned real estate asset tracked by its owner.
type Property struct {
	Base
	UserID              string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Title               string            `gorm:"not null" json:"title"`
	Address             string            `json:"address"`
	Type                PropertyType      `gorm:"not null" json:"type"`
	AuctionNoticeNumber string            `json:"auction_notice_number"`
	Auctioneer          string            `json:"auctioneer"`
	AuctionLink         string            `json:"auction_link"`
	AuctionDate         string            `json:"auction_date"` // YYYY-MM-DD
	Situation           PropertySituation `gorm:"not null" json:"situation"`

	PurchaseValue      float64    `gorm:"not null;default:0" json:"purchase_value"`
	EvaluationValue    float64    `gorm:"not null;default:0" json:"evaluation_value"`
	ExpectedCosts      CostBucket `gorm:"embedded;embeddedPrefix:expected_" json:"expected_costs"`
	ExecutedCosts      CostBucket `gorm:"embedded;embeddedPrefix:executed_" json:"executed_costs"`
	EstimatedSalePrice float64    `gorm:"not null;default:0" json:"estimated_sale_price"`
	ActualSalePrice    *float64   `json:"actual_sale_price"`

	Status PropertyStatus `gorm:"not null;index" json:"status"`
}

// PropertyInput carries every caller-supplied field of a new property. Identity,
// owner and creation time are assigned by the store.
type PropertyInput struct {
	Title               string            `json:"title" binding:"required,min=1,max=200"`
	Address             string            `json:"address" binding:"max=500"`
	Type                PropertyType      `json:"type" binding:"omitempty,property_type"`
	AuctionNoticeNumber string            `json:"auction_notice_number" binding:"max=100"`
	Auctioneer          string            `json:"auctioneer" binding:"max=200"`
	AuctionLink         string            `json:"auction_link" binding:"omitempty,url"`
	AuctionDate         string            `json:"auction_date" binding:"omitempty,datetime=2006-01-02"`
	Situation           PropertySituation `json:"situation" binding:"omitempty,property_situation"`
	PurchaseValue       float64           `json:"purchase_value" binding:"gte=0"`
	EvaluationValue     float64           `json:"evaluation_value" binding:"gte=0"`
	ExpectedCosts       CostBucket        `json:"expected_costs"`
	ExecutedCosts       CostBucket        `json:"executed_costs"`
	EstimatedSalePrice  float64           `json:"estimated_sale_price" binding:"gte=0"`
	ActualSalePrice     *float64          `json:"actual_sale_price" binding:"omitempty,gte=0"`
	Status              PropertyStatus    `json:"status" binding:"omitempty,property_status"`
}

// NewProperty builds an unsaved property owned by ownerID from the supplied
// fields. Omitted enumerations fall back to the values a blank form starts with.
func NewProperty(in PropertyInput, ownerID string, id string, createdAt time.Time) Property {
	p := Property{
		Base:                Base{ID: id, CreatedAt: createdAt},
		UserID:              ownerID,
		Title:               in.Title,
		Address:             in.Address,
		Type:                in.Type,
		AuctionNoticeNumber: in.AuctionNoticeNumber,
		Auctioneer:          in.Auctioneer,
		AuctionLink:         in.AuctionLink,
		AuctionDate:         in.AuctionDate,
		Situation:           in.Situation,
		PurchaseValue:       in.PurchaseValue,
		EvaluationValue:     in.EvaluationValue,
		ExpectedCosts:       in.ExpectedCosts,
		ExecutedCosts:       in.ExecutedCosts,
		EstimatedSalePrice:  in.EstimatedSalePrice,
		ActualSalePrice:     copyFloat(in.ActualSalePrice),
		Status:              in.Status,
	}
	if p.Type == "" {
		p.Type = PropertyTypeApartment
	}
	if p.Situation == "" {
		p.Situation = PropertySituationUnoccupied
	}
	if p.Status == "" {
		p.Status = PropertyStatusAnalysis
	}
	return p
}

// PropertyPatch is a partial update. Nil fields keep their stored value; a
// supplied cost bucket replaces the stored bucket as a whole.
type PropertyPatch struct {
	Title               *string            `json:"title" binding:"omitempty,min=1,max=200"`
	Address             *string            `json:"address" binding:"omitempty,max=500"`
	Type                *PropertyType      `json:"type" binding:"omitempty,property_type"`
	AuctionNoticeNumber *string            `json:"auction_notice_number" binding:"omitempty,max=100"`
	Auctioneer          *string            `json:"auctioneer" binding:"omitempty,max=200"`
	AuctionLink         *string            `json:"auction_link" binding:"omitempty,url"`
	AuctionDate         *string            `json:"auction_date" binding:"omitempty,datetime=2006-01-02"`
	Situation           *PropertySituation `json:"situation" binding:"omitempty,property_situation"`
	PurchaseValue       *float64           `json:"purchase_value" binding:"omitempty,gte=0"`
	EvaluationValue     *float64           `json:"evaluation_value" binding:"omitempty,gte=0"`
	ExpectedCosts       *CostBucket        `json:"expected_costs"`
	ExecutedCosts       *CostBucket        `json:"executed_costs"`
	EstimatedSalePrice  *float64           `json:"estimated_sale_price" binding:"omitempty,gte=0"`
	ActualSalePrice     Nullable[float64]  `json:"actual_sale_price"`
	Status              *PropertyStatus    `json:"status" binding:"omitempty,property_status"`
}

// Apply merges the patch into p field by field.
func (p *Property) Apply(patch PropertyPatch) {
	setIf(&p.Title, patch.Title)
	setIf(&p.Address, patch.Address)
	setIf(&p.Type, patch.Type)
	setIf(&p.AuctionNoticeNumber, patch.AuctionNoticeNumber)
	setIf(&p.Auctioneer, patch.Auctioneer)
	setIf(&p.AuctionLink, patch.AuctionLink)
	setIf(&p.AuctionDate, patch.AuctionDate)
	setIf(&p.Situation, patch.Situation)
	setIf(&p.PurchaseValue, patch.PurchaseValue)
	setIf(&p.EvaluationValue, patch.EvaluationValue)
	setIf(&p.ExpectedCosts, patch.ExpectedCosts)
	setIf(&p.ExecutedCosts, patch.ExecutedCosts)
	setIf(&p.EstimatedSalePrice, patch.EstimatedSalePrice)
	if patch.ActualSalePrice.Set {
		p.ActualSalePrice = copyFloat(patch.ActualSalePrice.Value)
	}
	setIf(&p.Status, patch.Status)
}

// IsEmpty reports whether the patch changes nothing.
func (patch PropertyPatch) IsEmpty() bool {
	return patch == PropertyPatch{}
}

// Clone returns a deep copy of p.
func (p Property) Clone() Property {
	p.ActualSalePrice = copyFloat(p.ActualSalePrice)
	return p
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

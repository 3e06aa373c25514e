package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleCart is the mutable basket a cashier builds on a terminal
type SaleCart struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CashierUserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"cashier_user_id"`
	StoreLocationID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_location_id"`
	TerminalDeviceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"terminal_device_id"`
	Status             enum.CartStatus `gorm:"not null;default:0;index" json:"status"`
	PricingAt          time.Time       `gorm:"not null" json:"pricing_at"`
	SubtotalNet        decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0" json:"subtotal_net"`
	TotalTax           decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0" json:"total_tax"`
	TotalGross         decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0" json:"total_gross"`
	RoundingAdjustment decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0" json:"rounding_adjustment"`
	TotalPayable       decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0" json:"total_payable"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Relationships
	StoreLocation   *StoreLocation       `gorm:"foreignKey:StoreLocationID" json:"-"`
	Lines           []SaleCartLine       `gorm:"foreignKey:CartID" json:"lines,omitempty"`
	ParkedReference *ParkedCartReference `gorm:"foreignKey:CartID" json:"parked_reference,omitempty"`
}

// BeforeCreate generates a UUID before creating a new cart
func (c *SaleCart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleCart model
func (SaleCart) TableName() string {
	return "sale_carts"
}

// OrderedLines returns the lines sorted by line number, then id
func (c *SaleCart) OrderedLines() []*SaleCartLine {
	lines := make([]*SaleCartLine, 0, len(c.Lines))
	for i := range c.Lines {
		lines = append(lines, &c.Lines[i])
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].LineNumber != lines[j].LineNumber {
			return lines[i].LineNumber < lines[j].LineNumber
		}
		return lines[i].ID.String() < lines[j].ID.String()
	})
	return lines
}

// NextLineNumber returns one past the highest line number in the cart
func (c *SaleCart) NextLineNumber() int {
	max := 0
	for _, line := range c.Lines {
		if line.LineNumber > max {
			max = line.LineNumber
		}
	}
	return max + 1
}

// FindLineByKey returns the line carrying the normalized key, if any
func (c *SaleCart) FindLineByKey(key string) *SaleCartLine {
	for i := range c.Lines {
		if c.Lines[i].LineKey != nil && *c.Lines[i].LineKey == key {
			return &c.Lines[i]
		}
	}
	return nil
}

// FindLine returns the line with the given id, if it belongs to the cart
func (c *SaleCart) FindLine(id uuid.UUID) *SaleCartLine {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return &c.Lines[i]
		}
	}
	return nil
}

// RemoveLine drops the line with the given id and reports whether it existed
func (c *SaleCart) RemoveLine(id uuid.UUID) bool {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// SaleCartLine is one product entry in a cart
type SaleCartLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CartID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_line_key;index" json:"cart_id"`
	LineKey         *string         `gorm:"size:64;uniqueIndex:idx_cart_line_key" json:"line_key,omitempty"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	LineNumber      int             `gorm:"not null" json:"line_number"`
	Quantity        decimal.Decimal `gorm:"type:numeric(19,3);not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0" json:"unit_price"`
	NetAmount       decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0" json:"net_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0" json:"tax_amount"`
	GrossAmount     decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0" json:"gross_amount"`
	OpenPriceReason *string         `gorm:"size:255" json:"open_price_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new cart line
func (l *SaleCartLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleCartLine model
func (SaleCartLine) TableName() string {
	return "sale_cart_lines"
}

// ParkedCartReference tracks the parking window of a cart
type ParkedCartReference struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CartID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"cart_id"`
	ReferenceCode     string     `gorm:"size:80;unique;not null" json:"reference_code"`
	ParkedAt          time.Time  `gorm:"not null" json:"parked_at"`
	ExpiresAt         time.Time  `gorm:"not null;index" json:"expires_at"`
	ParkedByUserID    uuid.UUID  `gorm:"type:uuid;not null" json:"parked_by_user_id"`
	ResumedAt         *time.Time `json:"resumed_at,omitempty"`
	ResumedByUserID   *uuid.UUID `gorm:"type:uuid" json:"resumed_by_user_id,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	CancelledByUserID *uuid.UUID `gorm:"type:uuid" json:"cancelled_by_user_id,omitempty"`
	Note              *string    `gorm:"size:255" json:"note,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (p *ParkedCartReference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (ParkedCartReference) TableName() string {
	return "parked_cart_references"
}

// IsExpired reports whether the parking window has closed at now
func (p *ParkedCartReference) IsExpired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}

// SaleCartEvent is an append-only audit entry for cart lifecycle changes
type SaleCartEvent struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CartID           uuid.UUID          `gorm:"type:uuid;not null;index" json:"cart_id"`
	EventType        enum.CartEventType `gorm:"not null" json:"event_type"`
	ActorUserID      *uuid.UUID         `gorm:"type:uuid" json:"actor_user_id,omitempty"`
	TerminalDeviceID *uuid.UUID         `gorm:"type:uuid" json:"terminal_device_id,omitempty"`
	CorrelationID    *string            `gorm:"size:128" json:"correlation_id,omitempty"`
	Detail           *string            `gorm:"size:255" json:"detail,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

func (e *SaleCartEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (SaleCartEvent) TableName() string {
	return "sale_cart_events"
}

package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProductKindStandard   = "standard"
	ProductKindValueBased = "value_based" // açaí/sorvete montado pelo valor escolhido

	ComplementKindFlavor     = "flavor"
	ComplementKindComplement = "complement"
)

// Category represents a product category
type Category struct {
	BaseModel
	Name        string `gorm:"not null" json:"name" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
}

// Product represents a product in the catalog. Prices are in cents.
type Product struct {
	BaseModel
	CategoryID      *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"category_id"`
	Name            string     `gorm:"not null" json:"name" validate:"required"`
	Description     string     `json:"description"`
	Kind            string     `gorm:"not null;default:'standard'" json:"kind"`
	PriceCents      int64      `gorm:"not null;default:0" json:"price_cents"`
	MinValueCents   int64      `gorm:"default:0" json:"min_value_cents"`
	MaxValueCents   int64      `gorm:"default:0" json:"max_value_cents"`
	MaxFlavors      int        `gorm:"default:0" json:"max_flavors"`
	FreeComplements int        `gorm:"default:0" json:"free_complements"`
	ImageURL        string     `json:"image_url"`
	ImageKey        string     `json:"-"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	SortOrder       int        `gorm:"default:0" json:"sort_order"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Complement is a flavor or an add-on (fruta, cobertura, granola...)
type Complement struct {
	BaseModel
	Name       string `gorm:"not null" json:"name" validate:"required"`
	Kind       string `gorm:"not null;default:'complement'" json:"kind"`
	PriceCents int64  `gorm:"not null;default:0" json:"price_cents"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
	SortOrder  int    `gorm:"default:0" json:"sort_order"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SortOrder   int    `json:"sort_order"`
}

type UpdateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

type ProductRequest struct {
	CategoryID      *uuid.UUID `json:"category_id"`
	Name            string     `json:"name" validate:"required"`
	Description     string     `json:"description"`
	Kind            string     `json:"kind" validate:"omitempty,oneof=standard value_based"`
	PriceCents      int64      `json:"price_cents" validate:"min=0"`
	MinValueCents   int64      `json:"min_value_cents" validate:"min=0"`
	MaxValueCents   int64      `json:"max_value_cents" validate:"min=0"`
	MaxFlavors      int        `json:"max_flavors" validate:"min=0"`
	FreeComplements int        `json:"free_complements" validate:"min=0"`
	IsActive        *bool      `json:"is_active"`
	SortOrder       int        `json:"sort_order"`
}

type ComplementRequest struct {
	Name       string `json:"name" validate:"required"`
	Kind       string `json:"kind" validate:"required,oneof=flavor complement"`
	PriceCents int64  `json:"price_cents" validate:"min=0"`
	IsActive   *bool  `json:"is_active"`
	SortOrder  int    `json:"sort_order"`
}

// ProductFilter narrows catalog listings
type ProductFilter struct {
	CategoryID *uuid.UUID
	Search     string
	OnlyActive bool
}

const (
	FulfillmentDelivery = "delivery"
	FulfillmentPickup   = "pickup"

	PaymentPix  = "pix"
	PaymentCard = "card"
	PaymentCash = "cash"

	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusReadyForPickup = "ready_for_pickup"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// Order represents a customer order
type Order struct {
	BaseModel
	CustomerID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	AddressID        *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"address_id"`
	OrderNumber      string     `gorm:"uniqueIndex;not null" json:"order_number"`
	Status           string     `gorm:"not null;default:'pending';index" json:"status"`
	Fulfillment      string     `gorm:"not null" json:"fulfillment"`
	PaymentMethod    string     `gorm:"not null" json:"payment_method"`
	ChangeForCents   int64      `gorm:"default:0" json:"change_for_cents"`
	SubtotalCents    int64      `gorm:"not null;default:0" json:"subtotal_cents"`
	DeliveryFeeCents int64      `gorm:"not null;default:0" json:"delivery_fee_cents"`
	TotalCents       int64      `gorm:"not null;default:0" json:"total_cents"`
	Observations     string     `json:"observations"`
	CancelReason     string     `json:"cancel_reason,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmed_at"`
	DeliveredAt      *time.Time `json:"delivered_at"`
	CancelledAt      *time.Time `json:"cancelled_at"`

	// Historical customer/shipping data for order integrity
	CustomerName         string `json:"customer_name"`
	CustomerPhone        string `json:"customer_phone"`
	ShippingStreet       string `json:"shipping_street"`
	ShippingNumber       string `json:"shipping_number"`
	ShippingComplement   string `json:"shipping_complement"`
	ShippingNeighborhood string `json:"shipping_neighborhood"`
	ShippingCity         string `json:"shipping_city"`
	ShippingReference    string `json:"shipping_reference"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem represents a line of an order with a snapshot of the product
type OrderItem struct {
	BaseModel
	OrderID          uuid.UUID  `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"order_id"`
	ProductID        *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"product_id"`
	ProductName      string     `gorm:"not null" json:"product_name"`
	Quantity         int        `gorm:"not null" json:"quantity"`
	ChosenValueCents int64      `gorm:"default:0" json:"chosen_value_cents"`
	Flavors          string     `json:"flavors"` // nomes separados por ", "
	UnitPriceCents   int64      `gorm:"not null" json:"unit_price_cents"`
	TotalCents       int64      `gorm:"not null" json:"total_cents"`
	Notes            string     `json:"notes"`

	Complements []OrderItemComplement `gorm:"foreignKey:OrderItemID" json:"complements,omitempty"`
}

// OrderItemComplement is a snapshot of an add-on chosen for an item
type OrderItemComplement struct {
	BaseModel
	OrderItemID  uuid.UUID  `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"order_item_id"`
	ComplementID *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"complement_id"`
	Name         string     `gorm:"not null" json:"name"`
	PriceCents   int64      `gorm:"not null;default:0" json:"price_cents"`
	Charged      bool       `gorm:"default:false" json:"charged"`
}

// CheckoutRequest represents the checkout form
type CheckoutRequest struct {
	Fulfillment    string             `json:"fulfillment" validate:"required,oneof=delivery pickup"`
	AddressID      *uuid.UUID         `json:"address_id"`
	PaymentMethod  string             `json:"payment_method" validate:"required,oneof=pix card cash"`
	ChangeForCents int64              `json:"change_for_cents" validate:"min=0"`
	Observations   string             `json:"observations" validate:"max=500"`
	Items          []CheckoutItemData `json:"items" validate:"required,min=1,dive"`
}

// CheckoutItemData represents one cart line sent at checkout
type CheckoutItemData struct {
	ProductID        uuid.UUID   `json:"product_id" validate:"required"`
	Quantity         int         `json:"quantity" validate:"required,min=1,max=50"`
	ChosenValueCents int64       `json:"chosen_value_cents" validate:"min=0"`
	FlavorIDs        []uuid.UUID `json:"flavor_ids"`
	ComplementIDs    []uuid.UUID `json:"complement_ids"`
	Notes            string      `json:"notes" validate:"max=200"`
}

// UpdateOrderStatusRequest is used by the admin panel
type UpdateOrderStatusRequest struct {
	Status       string `json:"status" validate:"required,oneof=confirmed preparing out_for_delivery ready_for_pickup delivered cancelled"`
	CancelReason string `json:"cancel_reason"`
}

// OrderFilter narrows admin listings
type OrderFilter struct {
	Status  string
	Page    int
	PerPage int
}

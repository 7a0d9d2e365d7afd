package domain

import "time"

type Product struct {
	ID           uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string        `json:"name" gorm:"not null;index"`
	Category     string        `json:"category" gorm:"index"`
	Description  string        `json:"description" gorm:"size:5000"`
	Price        float64       `json:"price" gorm:"not null"`
	OfferPrice   float64       `json:"offerPrice"`
	Quantity     int64         `json:"quantity" gorm:"not null;default:0"`
	Sold         int64         `json:"sold" gorm:"default:0"`
	SalesCount   int64         `json:"salesCount" gorm:"default:0;index"`
	Featured     bool          `json:"featured" gorm:"default:false"`
	Status       bool          `json:"status" gorm:"default:true"`
	Image        string        `json:"image"`
	Images       []string      `json:"images" gorm:"serializer:json"`
	Tags         []string      `json:"tags" gorm:"serializer:json"`
	Variants     []Variant     `json:"variants" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Weight       float64       `json:"weight,omitempty"`
	Shipping     *ShippingInfo `json:"shipping,omitempty" gorm:"serializer:json"`
	SalesHistory []SalesRecord `json:"salesHistory,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time     `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `json:"updatedAt" gorm:"autoUpdateTime"`
}

type Variant struct {
	ID        uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID uint64  `json:"-" gorm:"index;not null"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	Stock     int64   `json:"stock" gorm:"default:0"`
	Price     float64 `json:"price"`
	SKU       string  `json:"sku" gorm:"uniqueIndex;size:64"`
	Sold      int64   `json:"sold" gorm:"default:0"`
}

// TotalVariantStock backs the invariant that a product's quantity equals the
// sum of its variant stocks whenever variants are modified.
func (p *Product) TotalVariantStock() int64 {
	var total int64
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// SalesRecord is one append-only entry of a product's sales history,
// projected from a completed order's line item.
type SalesRecord struct {
	ID        uint64    `json:"-" gorm:"primaryKey;autoIncrement"`
	ProductID uint64    `json:"-" gorm:"index;not null"`
	OrderID   uint64    `json:"orderId" gorm:"index"`
	Date      time.Time `json:"date"`
	Quantity  int64     `json:"quantity"`
	Revenue   float64   `json:"revenue"`
}

func (SalesRecord) TableName() string { return "product_sales_records" }

type ShippingInfo struct {
	Weight         float64          `json:"weight,omitempty"`
	Dimensions     *Dimensions      `json:"dimensions,omitempty"`
	Methods        []ShippingMethod `json:"methods,omitempty"`
	ProcessingTime string           `json:"processingTime,omitempty"`
}

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ShippingMethod struct {
	Type  string  `json:"type"`
	Price float64 `json:"price"`
}

// ProductUpdate is the allow-listed patch body for catalog edits. Only fields
// present here can be changed through the API; arbitrary client keys are
// never persisted. Nil pointers mean "leave unchanged".
type ProductUpdate struct {
	Name        *string       `json:"name"`
	Category    *string       `json:"category"`
	Description *string       `json:"description"`
	Price       *float64      `json:"price"`
	OfferPrice  *float64      `json:"offerPrice"`
	Quantity    *int64        `json:"quantity"`
	Featured    *bool         `json:"featured"`
	Status      *bool         `json:"status"`
	Image       *string       `json:"image"`
	Images      *[]string     `json:"images"`
	Tags        *[]string     `json:"tags"`
	Variants    *[]Variant    `json:"variants"`
	Weight      *float64      `json:"weight"`
	Shipping    *ShippingInfo `json:"shipping"`
}

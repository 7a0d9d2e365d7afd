package domain

import "time"

type Order struct {
	ID              uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          uint64          `json:"user" gorm:"not null;index"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"embedded;embeddedPrefix:ship_"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" gorm:"type:varchar(20);not null;default:'credit_card'"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" gorm:"type:varchar(20);default:'pending'"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	StatusHistory   []StatusChange  `json:"statusHistory" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Total           float64         `json:"total" gorm:"not null"`
	Tax             float64         `json:"tax" gorm:"default:0"`
	ShippingFee     float64         `json:"shippingFee" gorm:"default:0"`
	DiscountCode    string          `json:"discountCode,omitempty"`
	DiscountAmount  float64         `json:"discountAmount" gorm:"default:0"`
	TrackingNumber  string          `json:"trackingNumber,omitempty" gorm:"index"`
	DeliveryDate    *time.Time      `json:"deliveryDate,omitempty"`
	Notes           string          `json:"notes,omitempty" gorm:"size:1000"`
	SaleRecorded    bool            `json:"-" gorm:"default:false"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem is an immutable snapshot of the product at purchase time.
// Later catalog edits never change what a historical order shows.
type OrderItem struct {
	ID        uint64  `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64  `json:"-" gorm:"index;not null"`
	ProductID uint64  `json:"product" gorm:"not null"`
	Name      string  `json:"name" gorm:"not null"`
	Price     float64 `json:"price" gorm:"not null"`
	Quantity  int64   `json:"quantity" gorm:"not null"`
	Image     string  `json:"image,omitempty"`
}

type ShippingAddress struct {
	Name    string `json:"name" gorm:"size:100"`
	Email   string `json:"email" gorm:"size:100"`
	Street  string `json:"street" gorm:"size:200"`
	City    string `json:"city" gorm:"size:50"`
	Zip     string `json:"zip" gorm:"size:20"`
	Country string `json:"country" gorm:"size:60;default:'United States'"`
	Phone   string `json:"phone,omitempty" gorm:"size:30"`
}

// StatusChange is one append-only entry of an order's status log.
// From is the status the order held before this change was applied.
type StatusChange struct {
	ID        uint64      `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64      `json:"-" gorm:"index;not null"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(20)"`
	From      OrderStatus `json:"from,omitempty" gorm:"type:varchar(20)"`
	ChangedAt time.Time   `json:"changedAt" gorm:"autoCreateTime"`
	ChangedBy uint64      `json:"changedBy"`
	Note      string      `json:"note,omitempty" gorm:"size:200"`
}

func (StatusChange) TableName() string { return "order_status_history" }

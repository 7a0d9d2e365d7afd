package domain

import "time"

type OrderCreatedEvent struct {
	OrderID   uint64    `json:"orderId"`
	UserID    uint64    `json:"userId"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID   uint64      `json:"orderId"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ChangedBy uint64      `json:"changedBy"`
	ChangedAt time.Time   `json:"changedAt"`
}

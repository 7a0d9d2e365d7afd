package http

import "storefront-api/internal/domain"

type OrderItemRequest struct {
	// Product accepts either key the clients send for the product reference.
	Product  uint64   `json:"product"`
	LegacyID uint64   `json:"_id"`
	Quantity int64    `json:"quantity"`
	Price    *float64 `json:"price"`
}

func (r OrderItemRequest) ProductID() uint64 {
	if r.Product != 0 {
		return r.Product
	}
	return r.LegacyID
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod   `json:"paymentMethod"`
}

type UpdateStatusRequest struct {
	Status    domain.OrderStatus `json:"status" binding:"required"`
	ChangedBy uint64             `json:"changedBy" binding:"required"`
	Note      string             `json:"note"`
}

type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	Role            string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

type CartItemRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

type ReplaceCartRequest struct {
	Cart []CartItemRequest `json:"cart" binding:"required"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type SavePageRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

type HeroSlideRequest struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Image     string `json:"image" binding:"required"`
	Link      string `json:"link"`
	SortOrder int    `json:"sortOrder"`
	Active    *bool  `json:"active"`
}

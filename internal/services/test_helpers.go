package services

import (
	"storefront-api/internal/domain"
)

func CreateMockProduct(name string, price float64, qty int64) domain.Product {
	return domain.Product{
		Name:     name,
		Category: "test",
		Price:    price,
		Quantity: qty,
		Status:   true,
		Image:    "test.jpg",
	}
}

func CreateMockUser(name, email string, role domain.Role) domain.User {
	return domain.User{
		Name:     name,
		Email:    email,
		Password: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:     role,
	}
}

func CreateMockAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Name:   "Jordan Tester",
		Email:  "jordan@example.com",
		Street: "1 Main St",
		City:   "Springfield",
		Zip:    "12345",
	}
}

const (
	TestProductName  = "Test Product"
	TestProductPrice = float64(10)
	TestProductQty   = int64(5)
)

package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderFixture() (*mocks.MemStore, *mocks.MockPublisher, *OrderService, uint64, uint64) {
	store := mocks.NewMemStore()
	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	service := NewOrderService(store, pub)
	userID := store.SeedUser(CreateMockUser("Jordan", "jordan@example.com", domain.RoleUser))
	productID := store.SeedProduct(CreateMockProduct(TestProductName, TestProductPrice, TestProductQty))
	return store, pub, service, userID, productID
}

func f64(v float64) *float64 { return &v }

func TestOrderService_CreateOrder(t *testing.T) {
	tests := []struct {
		name          string
		items         func(productID uint64) []OrderItemInput
		address       func() domain.ShippingAddress
		payMethod     domain.PaymentMethod
		expectedError string
		expectedTotal float64
		expectedStock int64
	}{
		{
			name: "successful order creation",
			items: func(productID uint64) []OrderItemInput {
				return []OrderItemInput{{ProductID: productID, Quantity: 2}}
			},
			address:       CreateMockAddress,
			payMethod:     domain.PaymentCOD,
			expectedTotal: 20.00,
			expectedStock: 3,
		},
		{
			name: "client supplied price overrides catalog price",
			items: func(productID uint64) []OrderItemInput {
				return []OrderItemInput{{ProductID: productID, Quantity: 2, Price: f64(7.5)}}
			},
			address:       CreateMockAddress,
			payMethod:     domain.PaymentCreditCard,
			expectedTotal: 15.00,
			expectedStock: 3,
		},
		{
			name: "empty items rejected",
			items: func(productID uint64) []OrderItemInput {
				return nil
			},
			address:       CreateMockAddress,
			payMethod:     domain.PaymentCOD,
			expectedError: "at least one item",
		},
		{
			name: "product not found",
			items: func(productID uint64) []OrderItemInput {
				return []OrderItemInput{{ProductID: 999, Quantity: 1}}
			},
			address:       CreateMockAddress,
			payMethod:     domain.PaymentCOD,
			expectedError: "product not found",
		},
		{
			name: "insufficient stock",
			items: func(productID uint64) []OrderItemInput {
				return []OrderItemInput{{ProductID: productID, Quantity: TestProductQty + 1}}
			},
			address:       CreateMockAddress,
			payMethod:     domain.PaymentCOD,
			expectedError: "not enough stock for Test Product",
		},
		{
			name: "zero quantity rejected",
			items: func(productID uint64) []OrderItemInput {
				return []OrderItemInput{{ProductID: productID, Quantity: 0}}
			},
			address:       CreateMockAddress,
			payMethod:     domain.PaymentCOD,
			expectedError: "invalid quantity",
		},
		{
			name: "quantity above line limit rejected",
			items: func(productID uint64) []OrderItemInput {
				return []OrderItemInput{{ProductID: productID, Quantity: 1001}}
			},
			address:       CreateMockAddress,
			payMethod:     domain.PaymentCOD,
			expectedError: "invalid quantity",
		},
		{
			name: "missing shipping field rejected",
			items: func(productID uint64) []OrderItemInput {
				return []OrderItemInput{{ProductID: productID, Quantity: 1}}
			},
			address: func() domain.ShippingAddress {
				addr := CreateMockAddress()
				addr.City = ""
				return addr
			},
			payMethod:     domain.PaymentCOD,
			expectedError: "missing shipping address field: city",
		},
		{
			name: "malformed email rejected",
			items: func(productID uint64) []OrderItemInput {
				return []OrderItemInput{{ProductID: productID, Quantity: 1}}
			},
			address: func() domain.ShippingAddress {
				addr := CreateMockAddress()
				addr.Email = "not-an-email"
				return addr
			},
			payMethod:     domain.PaymentCOD,
			expectedError: "invalid email",
		},
		{
			name: "unknown payment method rejected",
			items: func(productID uint64) []OrderItemInput {
				return []OrderItemInput{{ProductID: productID, Quantity: 1}}
			},
			address:       CreateMockAddress,
			payMethod:     "bitcoin",
			expectedError: "invalid payment method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, service, userID, productID := newOrderFixture()

			order, err := service.CreateOrder(context.Background(), userID, tt.items(productID), tt.address(), tt.payMethod)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, order)
				assert.Equal(t, TestProductQty, store.Product(productID).Quantity)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, order)
			assert.Equal(t, domain.StatusPending, order.Status)
			assert.Equal(t, tt.expectedTotal, order.Total)
			assert.Len(t, order.Items, 1)
			assert.Equal(t, TestProductName, order.Items[0].Name)
			assert.WithinDuration(t, time.Now(), order.CreatedAt, time.Second)

			product := store.Product(productID)
			assert.Equal(t, tt.expectedStock, product.Quantity)
			assert.Equal(t, int64(2), product.Sold)
		})
	}
}

func TestOrderService_CreateOrder_PublishesEvent(t *testing.T) {
	_, pub, service, userID, productID := newOrderFixture()

	order, err := service.CreateOrder(context.Background(), userID,
		[]OrderItemInput{{ProductID: productID, Quantity: 1}},
		CreateMockAddress(), domain.PaymentCOD)
	assert.NoError(t, err)
	assert.NotNil(t, order)

	time.Sleep(100 * time.Millisecond)
	pub.AssertCalled(t, "Publish", mock.Anything, "order.created", mock.Anything)
}

func TestOrderService_CreateOrder_RollbackOnPartialFailure(t *testing.T) {
	store, _, service, userID, firstID := newOrderFixture()
	secondID := store.SeedProduct(CreateMockProduct("Scarce Product", 25, 1))

	_, err := service.CreateOrder(context.Background(), userID, []OrderItemInput{
		{ProductID: firstID, Quantity: 2},
		{ProductID: secondID, Quantity: 3},
	}, CreateMockAddress(), domain.PaymentCOD)

	var stockErr InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Scarce Product", stockErr.ProductName)
	assert.Equal(t, int64(1), stockErr.Available)
	assert.Equal(t, int64(3), stockErr.Requested)

	// The first item's decrement must not survive the failed transaction.
	assert.Equal(t, TestProductQty, store.Product(firstID).Quantity)
	assert.Equal(t, int64(1), store.Product(secondID).Quantity)
	assert.Equal(t, int64(0), store.Product(firstID).Sold)
}

func TestOrderService_CreateOrder_UnknownUser(t *testing.T) {
	_, _, service, _, productID := newOrderFixture()

	order, err := service.CreateOrder(context.Background(), 999,
		[]OrderItemInput{{ProductID: productID, Quantity: 1}},
		CreateMockAddress(), domain.PaymentCOD)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, order)
}

func TestOrderService_CreateOrder_ConcurrentLastUnit(t *testing.T) {
	store, _, service, userID, _ := newOrderFixture()
	scarceID := store.SeedProduct(CreateMockProduct("Last Unit", 50, 1))

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.CreateOrder(context.Background(), userID,
				[]OrderItemInput{{ProductID: scarceID, Quantity: 1}},
				CreateMockAddress(), domain.PaymentCOD)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, stockFailures int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var stockErr InsufficientStockError
		if assert.ErrorAs(t, err, &stockErr) {
			stockFailures++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, stockFailures)
	assert.Equal(t, int64(0), store.Product(scarceID).Quantity)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name          string
		startStatus   domain.OrderStatus
		newStatus     domain.OrderStatus
		expectedError string
	}{
		{
			name:        "pending to processing",
			startStatus: domain.StatusPending,
			newStatus:   domain.StatusProcessing,
		},
		{
			name:        "shipped to delivered",
			startStatus: domain.StatusShipped,
			newStatus:   domain.StatusDelivered,
		},
		{
			name:          "delivered cannot regress to processing",
			startStatus:   domain.StatusDelivered,
			newStatus:     domain.StatusProcessing,
			expectedError: "invalid status transition from delivered to processing",
		},
		{
			name:          "completed is terminal",
			startStatus:   domain.StatusCompleted,
			newStatus:     domain.StatusShipped,
			expectedError: "invalid status transition",
		},
		{
			name:          "unknown status rejected",
			startStatus:   domain.StatusPending,
			newStatus:     "lost",
			expectedError: "unknown status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, service, userID, productID := newOrderFixture()
			orderID := store.SeedOrder(domain.Order{
				UserID: userID,
				Status: tt.startStatus,
				Items:  []domain.OrderItem{{ProductID: productID, Name: TestProductName, Price: TestProductPrice, Quantity: 1}},
				Total:  TestProductPrice,
			})

			order, err := service.UpdateStatus(context.Background(), orderID, tt.newStatus, 1, "")

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, order)
				assert.Equal(t, tt.startStatus, store.Order(orderID).Status)
				assert.Empty(t, store.Order(orderID).StatusHistory)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.newStatus, order.Status)
			stored := store.Order(orderID)
			assert.Equal(t, tt.newStatus, stored.Status)
			assert.Len(t, stored.StatusHistory, 1)
			assert.Equal(t, tt.newStatus, stored.StatusHistory[0].Status)
			assert.Equal(t, tt.startStatus, stored.StatusHistory[0].From)
		})
	}
}

func TestOrderService_UpdateStatus_InvalidTransitionReportsAllowed(t *testing.T) {
	store, _, service, userID, _ := newOrderFixture()
	orderID := store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusShipped})

	_, err := service.UpdateStatus(context.Background(), orderID, domain.StatusProcessing, 1, "")

	var transitionErr InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusShipped, transitionErr.From)
	assert.Equal(t, domain.StatusProcessing, transitionErr.To)
	assert.ElementsMatch(t,
		[]domain.OrderStatus{domain.StatusDelivered, domain.StatusCompleted},
		transitionErr.Allowed)
}

func TestOrderService_UpdateStatus_ShippedAssignsTracking(t *testing.T) {
	store, _, service, userID, _ := newOrderFixture()
	orderID := store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusPending})

	order, err := service.UpdateStatus(context.Background(), orderID, domain.StatusShipped, 1, "")
	assert.NoError(t, err)
	assert.NotEmpty(t, order.TrackingNumber)
	assert.Equal(t, order.TrackingNumber, store.Order(orderID).TrackingNumber)

	// A pre-assigned tracking number is kept.
	preset := store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusPending, TrackingNumber: "TRK-1"})
	order, err = service.UpdateStatus(context.Background(), preset, domain.StatusShipped, 1, "")
	assert.NoError(t, err)
	assert.Equal(t, "TRK-1", order.TrackingNumber)
}

func TestOrderService_UpdateStatus_OrderNotFound(t *testing.T) {
	_, _, service, _, _ := newOrderFixture()

	order, err := service.UpdateStatus(context.Background(), 42, domain.StatusProcessing, 1, "")

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Nil(t, order)
}

func TestOrderService_UpdateStatus_CompletedRecordsSaleOnce(t *testing.T) {
	store, _, service, userID, productID := newOrderFixture()

	created, err := service.CreateOrder(context.Background(), userID,
		[]OrderItemInput{{ProductID: productID, Quantity: 2}},
		CreateMockAddress(), domain.PaymentCOD)
	assert.NoError(t, err)

	// Creation already reserved stock: 5 -> 3, sold 2.
	assert.Equal(t, int64(3), store.Product(productID).Quantity)

	_, err = service.UpdateStatus(context.Background(), created.ID, domain.StatusCompleted, 1, "")
	assert.NoError(t, err)

	product := store.Product(productID)
	assert.Equal(t, int64(4), product.Sold)
	assert.Equal(t, int64(4), product.SalesCount)
	assert.Len(t, product.SalesHistory, 1)
	assert.Equal(t, created.ID, product.SalesHistory[0].OrderID)
	assert.Equal(t, 20.00, product.SalesHistory[0].Revenue)
	assert.True(t, store.Order(created.ID).SaleRecorded)

	// A replayed recording call must be a no-op.
	assert.NoError(t, service.RecordSale(context.Background(), created.ID))
	product = store.Product(productID)
	assert.Equal(t, int64(4), product.Sold)
	assert.Len(t, product.SalesHistory, 1)
}

func TestOrderService_RecordSale_OrderNotFound(t *testing.T) {
	_, _, service, _, _ := newOrderFixture()
	assert.ErrorIs(t, service.RecordSale(context.Background(), 42), ErrOrderNotFound)
}

func TestOrderService_CancelOrder(t *testing.T) {
	tests := []struct {
		name          string
		startStatus   domain.OrderStatus
		requestedBy   func(ownerID uint64) uint64
		expectedError error
		expectHistory int
	}{
		{
			name:          "owner cancels pending order",
			startStatus:   domain.StatusPending,
			requestedBy:   func(ownerID uint64) uint64 { return ownerID },
			expectHistory: 1,
		},
		{
			name:          "owner cancels shipped order",
			startStatus:   domain.StatusShipped,
			requestedBy:   func(ownerID uint64) uint64 { return ownerID },
			expectHistory: 1,
		},
		{
			name:          "already cancelled is a no-op",
			startStatus:   domain.StatusCancelled,
			requestedBy:   func(ownerID uint64) uint64 { return ownerID },
			expectHistory: 0,
		},
		{
			name:          "non-owner is rejected",
			startStatus:   domain.StatusPending,
			requestedBy:   func(ownerID uint64) uint64 { return ownerID + 100 },
			expectedError: ErrNotOrderOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, service, userID, _ := newOrderFixture()
			orderID := store.SeedOrder(domain.Order{UserID: userID, Status: tt.startStatus})

			order, err := service.CancelOrder(context.Background(), orderID, tt.requestedBy(userID))

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, order)
				assert.Equal(t, tt.startStatus, store.Order(orderID).Status)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, order.Status)
			stored := store.Order(orderID)
			assert.Equal(t, domain.StatusCancelled, stored.Status)
			assert.Len(t, stored.StatusHistory, tt.expectHistory)
			if tt.expectHistory > 0 {
				assert.Equal(t, tt.startStatus, stored.StatusHistory[0].From)
				assert.Equal(t, "cancelled by customer", stored.StatusHistory[0].Note)
			}
		})
	}
}

func TestOrderService_CancelOrder_CompletedStaysTerminal(t *testing.T) {
	store, _, service, userID, _ := newOrderFixture()
	orderID := store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusCompleted})

	var transitionErr InvalidTransitionError
	_, err := service.CancelOrder(context.Background(), orderID, userID)
	assert.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusCompleted, store.Order(orderID).Status)
}

func TestOrderService_CancelOrder_NotFound(t *testing.T) {
	_, _, service, userID, _ := newOrderFixture()

	order, err := service.CancelOrder(context.Background(), 42, userID)

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Nil(t, order)
}

func TestOrderService_GetOrderByID(t *testing.T) {
	store, _, service, userID, _ := newOrderFixture()
	orderID := store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusPending, Total: 42.50})

	order, err := service.GetOrderByID(context.Background(), orderID)
	assert.NoError(t, err)
	assert.Equal(t, 42.50, order.Total)

	missing, err := service.GetOrderByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Nil(t, missing)
}

func TestOrderService_ListForUser(t *testing.T) {
	store, _, service, userID, _ := newOrderFixture()
	otherID := store.SeedUser(CreateMockUser("Sam", "sam@example.com", domain.RoleUser))
	store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusPending})
	store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusCompleted})
	store.SeedOrder(domain.Order{UserID: otherID, Status: domain.StatusPending})

	orders, err := service.ListForUser(context.Background(), userID)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, userID, o.UserID)
	}
}

func TestOrderService_Stats(t *testing.T) {
	store, _, service, userID, _ := newOrderFixture()
	store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusCompleted, PaymentStatus: domain.PaymentStatusPaid, Total: 100})
	store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusPending, PaymentStatus: domain.PaymentStatusPaid, Total: 50})
	store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusCancelled, PaymentStatus: domain.PaymentStatusPaid, Total: 75})
	store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusPending, PaymentStatus: domain.PaymentStatusPending, Total: 20})

	stats, err := service.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 150.00, stats.TotalRevenue)
	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.CancelledOrders)
	assert.Equal(t, int64(3), stats.PaidOrders)
}

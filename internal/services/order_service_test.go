// internal/services/order_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
)

func setupOrderDB(t *testing.T) *gorm.DB {
	return setupShopDB(t,
		&models.User{}, &models.Product{}, &models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Collection{}, &models.FinancialEntry{},
	)
}

func orderTestConfig() *config.Config {
	return &config.Config{
		Shipping: config.ShippingConfig{FlatRate: 11.00},
	}
}

func cartWithItems(t *testing.T, db *gorm.DB, cartSvc *CartService, lines ...AddCartItemRequest) *models.Cart {
	t.Helper()
	cart, err := cartSvc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)
	for i := range lines {
		_, err := cartSvc.AddItem(cart, &lines[i])
		assert.NoError(t, err)
	}
	loaded, err := cartSvc.GetOrCreateCart(nil, cart.SessionToken)
	assert.NoError(t, err)
	return loaded
}

func TestCheckoutBuildsOrderFromCart(t *testing.T) {
	db := setupOrderDB(t)
	cartSvc := NewCartService(db)
	svc := NewOrderService(db, orderTestConfig(), cartSvc, nil)

	product := activeProduct(t, db, "3001", 25)
	product.WholesaleCost = 4.50
	assert.NoError(t, db.Save(product).Error)

	cart := cartWithItems(t, db, cartSvc,
		AddCartItemRequest{ProductID: product.ID, Size: "M", Color: "Black", Quantity: 2},
		AddCartItemRequest{ProductID: product.ID, Size: "L", Color: "White", Quantity: 1},
	)

	order, err := svc.Checkout(cart, nil, &CheckoutRequest{
		Email:             "guest@example.com",
		FirstName:         "Jordan",
		FulfillmentMethod: models.FulfillmentShipping,
		ShippingRecipient: "Jordan Doe",
		ShippingStreet:    "123 Main St",
		ShippingCity:      "Kansas City",
		ShippingState:     "KS",
		ShippingZip:       "66101",
		PaymentMethod:     "stripe",
	})
	assert.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "PMKC"))
	assert.Equal(t, 75.0, order.Subtotal)
	assert.Equal(t, 11.0, order.ShippingCost)
	assert.Equal(t, 86.0, order.Total)
	assert.Equal(t, 13.5, order.CostOfGoods)
	assert.Equal(t, models.OrderStatusNew, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Len(t, order.Items, 2)

	// Checkout empties the cart.
	emptied, err := cartSvc.GetOrCreateCart(nil, cart.SessionToken)
	assert.NoError(t, err)
	assert.Empty(t, emptied.Items)
}

func TestCheckoutSnapshotsProductDetails(t *testing.T) {
	db := setupOrderDB(t)
	cartSvc := NewCartService(db)
	svc := NewOrderService(db, orderTestConfig(), cartSvc, nil)

	product := activeProduct(t, db, "3001", 25)
	cart := cartWithItems(t, db, cartSvc,
		AddCartItemRequest{ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1},
	)

	order, err := svc.Checkout(cart, nil, &CheckoutRequest{
		Email:             "guest@example.com",
		FulfillmentMethod: models.FulfillmentPickup,
		PaymentMethod:     "venmo",
	})
	assert.NoError(t, err)

	// Renaming the product later leaves the order item untouched.
	assert.NoError(t, db.Model(product).Update("name", "Renamed Tee").Error)
	fetched, err := svc.GetOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Tee 3001", fetched.Items[0].ProductName)
	assert.Equal(t, "3001", fetched.Items[0].StyleNumber)
}

func TestCheckoutRequiresEmailForGuests(t *testing.T) {
	db := setupOrderDB(t)
	cartSvc := NewCartService(db)
	svc := NewOrderService(db, orderTestConfig(), cartSvc, nil)

	product := activeProduct(t, db, "3001", 25)
	cart := cartWithItems(t, db, cartSvc,
		AddCartItemRequest{ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1},
	)

	_, err := svc.Checkout(cart, nil, &CheckoutRequest{
		FulfillmentMethod: models.FulfillmentPickup,
		PaymentMethod:     "venmo",
	})
	assert.EqualError(t, err, "guest checkout requires an email address")
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	db := setupOrderDB(t)
	cartSvc := NewCartService(db)
	svc := NewOrderService(db, orderTestConfig(), cartSvc, nil)

	cart, err := cartSvc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)

	_, err = svc.Checkout(cart, nil, &CheckoutRequest{
		Email:             "guest@example.com",
		FulfillmentMethod: models.FulfillmentPickup,
		PaymentMethod:     "venmo",
	})
	assert.EqualError(t, err, "cart is empty")
}

func TestCheckoutAppliesCollectionTax(t *testing.T) {
	db := setupOrderDB(t)
	cartSvc := NewCartService(db)
	svc := NewOrderService(db, orderTestConfig(), cartSvc, nil)

	collection := &models.Collection{Name: "Spirit Wear", Slug: "spirit-wear", TaxRate: 0.0915}
	assert.NoError(t, db.Create(collection).Error)

	product := activeProduct(t, db, "3001", 20)
	cart := cartWithItems(t, db, cartSvc,
		AddCartItemRequest{ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1},
	)

	order, err := svc.Checkout(cart, nil, &CheckoutRequest{
		Email:             "guest@example.com",
		FulfillmentMethod: models.FulfillmentPickup,
		PaymentMethod:     "venmo",
		CollectionID:      &collection.ID,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1.83, order.Tax)
	assert.Equal(t, 21.83, order.Total)
}

func TestUpdateOrderStatusLabels(t *testing.T) {
	db := setupOrderDB(t)
	cartSvc := NewCartService(db)
	svc := NewOrderService(db, orderTestConfig(), cartSvc, nil)

	product := activeProduct(t, db, "3001", 25)
	cart := cartWithItems(t, db, cartSvc,
		AddCartItemRequest{ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1},
	)
	order, err := svc.Checkout(cart, nil, &CheckoutRequest{
		Email:             "guest@example.com",
		FulfillmentMethod: models.FulfillmentPickup,
		PaymentMethod:     "venmo",
	})
	assert.NoError(t, err)

	ready := models.OrderStatusReady
	stage := models.StagePackagedReady
	order, err = svc.UpdateOrder(order.ID, &UpdateOrderStatusRequest{Status: &ready, ProductionStage: &stage})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusReady, order.Status)
	assert.Equal(t, models.StagePackagedReady, order.ProductionStage)

	typo := models.OrderStatus("shiped")
	_, err = svc.UpdateOrder(order.ID, &UpdateOrderStatusRequest{Status: &typo})
	assert.ErrorContains(t, err, "unknown order status")
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	db := setupOrderDB(t)
	cartSvc := NewCartService(db)
	svc := NewOrderService(db, orderTestConfig(), cartSvc, nil)

	product := activeProduct(t, db, "3001", 25)
	cart := cartWithItems(t, db, cartSvc,
		AddCartItemRequest{ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1},
	)
	order, err := svc.Checkout(cart, nil, &CheckoutRequest{
		Email:             "guest@example.com",
		FulfillmentMethod: models.FulfillmentPickup,
		PaymentMethod:     "stripe",
	})
	assert.NoError(t, err)

	assert.NoError(t, svc.MarkPaid(order.ID, "pi_123"))
	assert.NoError(t, svc.MarkPaid(order.ID, "pi_123"))

	fetched, err := svc.GetOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, fetched.PaymentStatus)
	assert.Equal(t, models.OrderStatusPaid, fetched.Status)
	assert.NotNil(t, fetched.PaidAt)

	// Webhook retries must not double-count revenue.
	var entries int64
	db.Model(&models.FinancialEntry{}).Where("order_id = ?", order.ID).Count(&entries)
	assert.Equal(t, int64(1), entries)
}

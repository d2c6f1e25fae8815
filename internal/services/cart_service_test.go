// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
)

func setupShopDB(t *testing.T, tables ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(tables...))
	return db
}

func setupCartDB(t *testing.T) *gorm.DB {
	return setupShopDB(t, &models.User{}, &models.Product{}, &models.Cart{}, &models.CartItem{})
}

func activeProduct(t *testing.T, db *gorm.DB, style string, price float64) *models.Product {
	t.Helper()
	product := &models.Product{
		StyleNumber: style,
		Name:        "Tee " + style,
		BasePrice:   price,
		IsActive:    true,
	}
	assert.NoError(t, db.Create(product).Error)
	return product
}

func TestGuestCartCreatedWithSessionToken(t *testing.T) {
	db := setupCartDB(t)
	svc := NewCartService(db)

	cart, err := svc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)
	assert.Nil(t, cart.UserID)
	assert.Len(t, cart.SessionToken, 40)

	// Same token returns the same cart.
	again, err := svc.GetOrCreateCart(nil, cart.SessionToken)
	assert.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddItemSnapshotsUnitPrice(t *testing.T) {
	db := setupCartDB(t)
	svc := NewCartService(db)
	product := activeProduct(t, db, "3001", 25)

	cart, err := svc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)

	item, err := svc.AddItem(cart, &AddCartItemRequest{
		ProductID: product.ID,
		Size:      "M",
		Color:     "Black",
		Quantity:  2,
	})
	assert.NoError(t, err)
	assert.Equal(t, 25.0, item.UnitPrice)

	// A later price change does not touch the line item.
	assert.NoError(t, db.Model(product).Update("base_price", 30).Error)
	var stored models.CartItem
	assert.NoError(t, db.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, 25.0, stored.UnitPrice)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	db := setupCartDB(t)
	svc := NewCartService(db)
	product := &models.Product{StyleNumber: "3001", Name: "Retired Tee", BasePrice: 25, IsActive: false}
	assert.NoError(t, db.Create(product).Error)

	cart, err := svc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)

	_, err = svc.AddItem(cart, &AddCartItemRequest{
		ProductID: product.ID,
		Size:      "M",
		Color:     "Black",
		Quantity:  1,
	})
	assert.EqualError(t, err, "product is not available")
}

func TestAddItemValidatesSizeLabel(t *testing.T) {
	db := setupCartDB(t)
	svc := NewCartService(db)
	product := activeProduct(t, db, "3001", 25)

	cart, err := svc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)

	_, err = svc.AddItem(cart, &AddCartItemRequest{
		ProductID: product.ID,
		Size:      "Extra Large",
		Color:     "Black",
		Quantity:  1,
	})
	assert.ErrorContains(t, err, "validation failed")
}

func TestUpdateItemOnlyTouchesWhitelistedFields(t *testing.T) {
	db := setupCartDB(t)
	svc := NewCartService(db)
	product := activeProduct(t, db, "3001", 25)

	cart, err := svc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)
	item, err := svc.AddItem(cart, &AddCartItemRequest{
		ProductID: product.ID,
		Size:      "M",
		Color:     "Black",
		Quantity:  1,
	})
	assert.NoError(t, err)

	qty := 3
	size := "XL"
	_, err = svc.UpdateItem(cart, item.ID, &UpdateCartItemRequest{Quantity: &qty, Size: &size})
	assert.NoError(t, err)

	var stored models.CartItem
	assert.NoError(t, db.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, 3, stored.Quantity)
	assert.Equal(t, "XL", stored.Size)
	assert.Equal(t, "Black", stored.Color)
	assert.Equal(t, 25.0, stored.UnitPrice)
}

func TestUpdateItemFromAnotherCartFails(t *testing.T) {
	db := setupCartDB(t)
	svc := NewCartService(db)
	product := activeProduct(t, db, "3001", 25)

	mine, err := svc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)
	theirs, err := svc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)

	item, err := svc.AddItem(theirs, &AddCartItemRequest{
		ProductID: product.ID,
		Size:      "M",
		Color:     "Black",
		Quantity:  1,
	})
	assert.NoError(t, err)

	qty := 5
	_, err = svc.UpdateItem(mine, item.ID, &UpdateCartItemRequest{Quantity: &qty})
	assert.EqualError(t, err, "cart item not found")
	assert.EqualError(t, svc.RemoveItem(mine, item.ID), "cart item not found")
}

func TestMergeGuestCartIntoExistingUserCart(t *testing.T) {
	db := setupCartDB(t)
	svc := NewCartService(db)
	product := activeProduct(t, db, "3001", 25)

	user := &models.User{Email: "kayleigh@example.com"}
	assert.NoError(t, user.SetPassword("Sunflower!1"))
	assert.NoError(t, db.Create(user).Error)

	userCart, err := svc.GetOrCreateCart(&user.ID, "")
	assert.NoError(t, err)
	_, err = svc.AddItem(userCart, &AddCartItemRequest{ProductID: product.ID, Size: "S", Color: "White", Quantity: 1})
	assert.NoError(t, err)

	guestCart, err := svc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)
	_, err = svc.AddItem(guestCart, &AddCartItemRequest{ProductID: product.ID, Size: "M", Color: "Black", Quantity: 2})
	assert.NoError(t, err)

	assert.NoError(t, svc.MergeGuestCart(guestCart.SessionToken, user.ID))

	merged, err := svc.GetOrCreateCart(&user.ID, "")
	assert.NoError(t, err)
	assert.Len(t, merged.Items, 2)

	var guestCount int64
	db.Model(&models.Cart{}).Where("session_token = ?", guestCart.SessionToken).Count(&guestCount)
	assert.Zero(t, guestCount)
}

func TestMergeGuestCartBecomesUserCart(t *testing.T) {
	db := setupCartDB(t)
	svc := NewCartService(db)
	product := activeProduct(t, db, "3001", 25)

	user := &models.User{Email: "new@example.com"}
	assert.NoError(t, user.SetPassword("Sunflower!1"))
	assert.NoError(t, db.Create(user).Error)

	guestCart, err := svc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)
	_, err = svc.AddItem(guestCart, &AddCartItemRequest{ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1})
	assert.NoError(t, err)

	assert.NoError(t, svc.MergeGuestCart(guestCart.SessionToken, user.ID))

	owned, err := svc.GetOrCreateCart(&user.ID, "")
	assert.NoError(t, err)
	assert.Equal(t, guestCart.ID, owned.ID)
	assert.Len(t, owned.Items, 1)
}

func TestMergeUnknownTokenIsNoOp(t *testing.T) {
	db := setupCartDB(t)
	svc := NewCartService(db)
	assert.NoError(t, svc.MergeGuestCart("never-issued", uuid.New()))
}

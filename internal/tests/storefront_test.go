// internal/tests/storefront_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/handlers"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/middleware"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/services"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

// StorefrontTestSuite runs the customer-facing flow end to end through
// the HTTP stack: register, sign in, fill a guest cart, check out.
type StorefrontTestSuite struct {
	suite.Suite
	db      *gorm.DB
	router  *gin.Engine
	product *models.Product
}

func (s *StorefrontTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("storefront-test-secret")

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(
		&models.User{}, &models.Address{},
		&models.Product{}, &models.ColorVariant{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.Collection{}, &models.FinancialEntry{},
	))
	s.db = db

	cfg := &config.Config{
		JWT:      config.JWTConfig{SecretKey: "storefront-test-secret", AccessTokenTTL: 24, RefreshTokenTTL: 168},
		Shipping: config.ShippingConfig{FlatRate: 11.00},
	}

	cartService := services.NewCartService(db)
	authService := services.NewAuthService(db, cfg, nil, cartService)
	orderService := services.NewOrderService(db, cfg, cartService, nil)

	authHandler := handlers.NewAuthHandler(authService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, cartService)

	router := gin.New()
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
	}
	cart := router.Group("/cart", middleware.OptionalAuth())
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddItem)
	}
	router.POST("/checkout", middleware.OptionalAuth(), orderHandler.Checkout)
	router.GET("/orders", middleware.AuthRequired(), orderHandler.ListMyOrders)
	s.router = router

	s.product = &models.Product{
		StyleNumber: "3001",
		Name:        "Unisex Jersey Tee",
		BasePrice:   25,
		IsActive:    true,
	}
	s.Require().NoError(db.Create(s.product).Error)
}

func (s *StorefrontTestSuite) request(method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func (s *StorefrontTestSuite) registerAndLogin(email string) string {
	w, _ := s.request("POST", "/auth/register", map[string]interface{}{
		"email":      email,
		"password":   "Sunflower!1",
		"first_name": "Test",
		"last_name":  "Customer",
	}, nil)
	s.Require().Equal(http.StatusCreated, w.Code)

	w, response := s.request("POST", "/auth/login", map[string]interface{}{
		"email":    email,
		"password": "Sunflower!1",
	}, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	return data["token"].(string)
}

func (s *StorefrontTestSuite) TestRegistrationAndProfile() {
	w, response := s.request("POST", "/auth/register", map[string]interface{}{
		"email":      "customer@example.com",
		"password":   "Sunflower!1",
		"first_name": "Jordan",
		"last_name":  "Doe",
	}, nil)
	assert.Equal(s.T(), http.StatusCreated, w.Code)
	assert.True(s.T(), response["success"].(bool))

	token := response["data"].(map[string]interface{})["token"].(string)
	w, response = s.request("GET", "/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	assert.Equal(s.T(), http.StatusOK, w.Code)
	user := response["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(s.T(), "customer@example.com", user["email"])
}

func (s *StorefrontTestSuite) TestLoginRejectsBadCredentials() {
	s.registerAndLogin("customer@example.com")

	w, response := s.request("POST", "/auth/login", map[string]interface{}{
		"email":    "customer@example.com",
		"password": "WrongPass!9",
	}, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.False(s.T(), response["success"].(bool))
}

func (s *StorefrontTestSuite) TestProfileRequiresToken() {
	w, _ := s.request("GET", "/auth/me", nil, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *StorefrontTestSuite) TestGuestCartCheckoutFlow() {
	// First cart touch issues a session token.
	w, _ := s.request("GET", "/cart", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	sessionToken := w.Header().Get("X-Cart-Session")
	s.Require().NotEmpty(sessionToken)

	w, _ = s.request("POST", "/cart/items", map[string]interface{}{
		"product_id": s.product.ID.String(),
		"size":       "M",
		"color":      "Black",
		"quantity":   2,
	}, map[string]string{"X-Cart-Session": sessionToken})
	s.Require().Equal(http.StatusCreated, w.Code)

	w, response := s.request("GET", "/cart", nil, map[string]string{"X-Cart-Session": sessionToken})
	s.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(s.T(), 50.0, response["data"].(map[string]interface{})["subtotal"])

	w, response = s.request("POST", "/checkout", map[string]interface{}{
		"email":              "guest@example.com",
		"fulfillment_method": "pickup",
		"payment_method":     "venmo",
	}, map[string]string{"X-Cart-Session": sessionToken})
	s.Require().Equal(http.StatusCreated, w.Code)

	order := response["data"].(map[string]interface{})["order"].(map[string]interface{})
	assert.Contains(s.T(), order["order_number"], "PMKC")
	assert.Equal(s.T(), 50.0, order["total"])
	assert.Equal(s.T(), "new", order["status"])
}

func (s *StorefrontTestSuite) TestLoginMergesGuestCart() {
	w, _ := s.request("GET", "/cart", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	sessionToken := w.Header().Get("X-Cart-Session")

	w, _ = s.request("POST", "/cart/items", map[string]interface{}{
		"product_id": s.product.ID.String(),
		"size":       "L",
		"color":      "White",
		"quantity":   1,
	}, map[string]string{"X-Cart-Session": sessionToken})
	s.Require().Equal(http.StatusCreated, w.Code)

	w, _ = s.request("POST", "/auth/register", map[string]interface{}{
		"email":      "shopper@example.com",
		"password":   "Sunflower!1",
		"first_name": "Shop",
		"last_name":  "Per",
	}, nil)
	s.Require().Equal(http.StatusCreated, w.Code)

	w, response := s.request("POST", "/auth/login", map[string]interface{}{
		"email":         "shopper@example.com",
		"password":      "Sunflower!1",
		"session_token": sessionToken,
	}, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	token := response["data"].(map[string]interface{})["token"].(string)

	w, response = s.request("GET", "/cart", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	s.Require().Equal(http.StatusOK, w.Code)
	cart := response["data"].(map[string]interface{})["cart"].(map[string]interface{})
	assert.Len(s.T(), cart["items"], 1)
}

func (s *StorefrontTestSuite) TestCheckoutRejectsEmptyCart() {
	w, _ := s.request("GET", "/cart", nil, nil)
	sessionToken := w.Header().Get("X-Cart-Session")

	w, response := s.request("POST", "/checkout", map[string]interface{}{
		"email":              "guest@example.com",
		"fulfillment_method": "pickup",
		"payment_method":     "venmo",
	}, map[string]string{"X-Cart-Session": sessionToken})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.False(s.T(), response["success"].(bool))
}

func TestStorefrontSuite(t *testing.T) {
	suite.Run(t, new(StorefrontTestSuite))
}

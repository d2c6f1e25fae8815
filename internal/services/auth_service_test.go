// internal/services/auth_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	db := setupShopDB(t, &models.User{}, &models.Address{}, &models.Product{}, &models.Cart{}, &models.CartItem{})
	cfg := &config.Config{
		JWT: config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 24, RefreshTokenTTL: 168},
	}
	return NewAuthService(db, cfg, nil, NewCartService(db)), db
}

func registerTestUser(t *testing.T, svc *AuthService, email string) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(&RegisterRequest{
		Email:     email,
		Password:  "Sunflower!1",
		FirstName: "Kayleigh",
		LastName:  "Sells",
	})
	assert.NoError(t, err)
	return resp
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc, _ := setupAuthService(t)

	resp := registerTestUser(t, svc, "kayleigh@example.com")
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.False(t, resp.User.IsAdmin)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "kayleigh@example.com", claims.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := setupAuthService(t)
	registerTestUser(t, svc, "kayleigh@example.com")

	_, err := svc.Register(&RegisterRequest{
		Email:     "kayleigh@example.com",
		Password:  "Sunflower!1",
		FirstName: "Someone",
		LastName:  "Else",
	})
	assert.EqualError(t, err, "an account with this email already exists")
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Register(&RegisterRequest{
		Email:     "weak@example.com",
		Password:  "password",
		FirstName: "Kayleigh",
		LastName:  "Sells",
	})
	assert.ErrorContains(t, err, "validation failed")
}

func TestLoginWithWrongPassword(t *testing.T) {
	svc, _ := setupAuthService(t)
	registerTestUser(t, svc, "kayleigh@example.com")

	_, err := svc.Login(&LoginRequest{Email: "kayleigh@example.com", Password: "WrongPass!1"})
	assert.EqualError(t, err, "invalid email or password")

	// Unknown accounts get the same message.
	_, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "WrongPass!1"})
	assert.EqualError(t, err, "invalid email or password")
}

func TestLoginRecordsLastLoginAndMergesGuestCart(t *testing.T) {
	svc, db := setupAuthService(t)
	registered := registerTestUser(t, svc, "kayleigh@example.com")

	cartSvc := NewCartService(db)
	product := activeProduct(t, db, "3001", 25)
	guestCart, err := cartSvc.GetOrCreateCart(nil, "")
	assert.NoError(t, err)
	_, err = cartSvc.AddItem(guestCart, &AddCartItemRequest{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1,
	})
	assert.NoError(t, err)

	resp, err := svc.Login(&LoginRequest{
		Email:        "kayleigh@example.com",
		Password:     "Sunflower!1",
		SessionToken: guestCart.SessionToken,
	})
	assert.NoError(t, err)
	assert.NotNil(t, resp.User.LastLoginAt)

	merged, err := cartSvc.GetOrCreateCart(&registered.User.ID, "")
	assert.NoError(t, err)
	assert.Len(t, merged.Items, 1)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc, _ := setupAuthService(t)
	registered := registerTestUser(t, svc, "kayleigh@example.com")

	resp, err := svc.RefreshToken(registered.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.RefreshToken("not-a-token")
	assert.EqualError(t, err, "invalid or expired refresh token")
}

func TestPasswordResetFlow(t *testing.T) {
	svc, db := setupAuthService(t)
	registerTestUser(t, svc, "kayleigh@example.com")

	// Unknown emails are silently accepted.
	assert.NoError(t, svc.ForgotPassword(&ForgotPasswordRequest{Email: "nobody@example.com"}))

	assert.NoError(t, svc.ForgotPassword(&ForgotPasswordRequest{Email: "kayleigh@example.com"}))

	var user models.User
	assert.NoError(t, db.Where("email = ?", "kayleigh@example.com").First(&user).Error)
	assert.NotEmpty(t, user.ResetTokenHash)
	assert.NotNil(t, user.ResetTokenExpiresAt)

	// The stored hash is not the token itself, so reuse it as a token fails.
	assert.EqualError(t,
		svc.ResetPassword(&ResetPasswordRequest{Token: user.ResetTokenHash, NewPassword: "NewPass!2"}),
		"invalid or expired reset token")
}

func TestResetPasswordWithValidToken(t *testing.T) {
	svc, db := setupAuthService(t)
	registerTestUser(t, svc, "kayleigh@example.com")

	// Plant a known token the way ForgotPassword stores it.
	token := "known-reset-token"
	expires := time.Now().Add(time.Hour)
	assert.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "kayleigh@example.com").
		Updates(map[string]interface{}{
			"reset_token_hash":       utils.HashString(token),
			"reset_token_expires_at": &expires,
		}).Error)

	assert.NoError(t, svc.ResetPassword(&ResetPasswordRequest{Token: token, NewPassword: "NewPass!2"}))

	_, err := svc.Login(&LoginRequest{Email: "kayleigh@example.com", Password: "Sunflower!1"})
	assert.Error(t, err)
	_, err = svc.Login(&LoginRequest{Email: "kayleigh@example.com", Password: "NewPass!2"})
	assert.NoError(t, err)

	// The token is single use.
	assert.EqualError(t,
		svc.ResetPassword(&ResetPasswordRequest{Token: token, NewPassword: "Another!3"}),
		"invalid or expired reset token")
}

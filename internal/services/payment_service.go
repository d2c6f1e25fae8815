// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

type PaymentService struct {
	db           *gorm.DB
	config       *config.Config
	orderService *OrderService
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type RefundRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Amount  float64   `json:"amount,omitempty" validate:"omitempty,min=0.01"`
	Reason  string    `json:"reason" validate:"required,max=500"`
}

func NewPaymentService(db *gorm.DB, config *config.Config, orderService *OrderService) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:           db,
		config:       config,
		orderService: orderService,
	}
}

// CreatePaymentIntent opens a Stripe payment for an order's total. The
// order number rides along as metadata so the webhook can find it.
func (s *PaymentService) CreatePaymentIntent(orderID uuid.UUID) (*PaymentIntentResponse, error) {
	order, err := s.orderService.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, errors.New("order is already paid")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(order.Total*100 + 0.5)),
		Currency: stripe.String("usd"),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("order_number", order.OrderNumber)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	if err := s.db.Model(order).Update("payment_intent_id", pi.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// HandleWebhook verifies a Stripe event signature and applies payment
// outcomes to orders. Unknown event types are acknowledged and ignored.
func (s *PaymentService) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.config.Payment.StripeWebhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		orderID := event.GetObjectValue("metadata", "order_id")
		intentID := event.GetObjectValue("id")
		return s.applyPaymentSuccess(orderID, intentID)
	case "payment_intent.payment_failed":
		orderID := event.GetObjectValue("metadata", "order_id")
		return s.applyPaymentFailure(orderID)
	default:
		logrus.WithField("type", event.Type).Debug("ignoring stripe event")
		return nil
	}
}

func (s *PaymentService) applyPaymentSuccess(orderIDStr, intentID string) error {
	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		return fmt.Errorf("webhook carries no usable order_id metadata: %w", err)
	}
	return s.orderService.MarkPaid(orderID, intentID)
}

func (s *PaymentService) applyPaymentFailure(orderIDStr string) error {
	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		return fmt.Errorf("webhook carries no usable order_id metadata: %w", err)
	}
	return s.db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", orderID, models.PaymentStatusPending).
		Update("payment_status", models.PaymentStatusFailed).Error
}

// ProcessRefund refunds a paid order through Stripe and flags it locally.
// A zero amount refunds in full.
func (s *PaymentService) ProcessRefund(req *RefundRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	order, err := s.orderService.GetOrder(req.OrderID)
	if err != nil {
		return err
	}
	if order.PaymentStatus != models.PaymentStatusPaid {
		return errors.New("only paid orders can be refunded")
	}
	if order.PaymentIntentID == "" {
		return errors.New("order has no payment intent; refund it manually")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(order.PaymentIntentID),
	}
	if req.Amount > 0 {
		params.Amount = stripe.Int64(int64(req.Amount*100 + 0.5))
	}
	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("stripe refund failed: %w", err)
	}

	amount := req.Amount
	if amount == 0 {
		amount = order.Total
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusRefunded,
			"is_refunded":    true,
			"refund_notes":   req.Reason,
		}).Error; err != nil {
			return fmt.Errorf("failed to flag refund: %w", err)
		}

		entry := models.FinancialEntry{
			Category:    models.FinancialRevenue,
			Amount:      -amount,
			EntryDate:   order.UpdatedAt,
			OrderID:     &order.ID,
			Description: "Refund for order " + order.OrderNumber + ": " + req.Reason,
		}
		return tx.Create(&entry).Error
	})
}

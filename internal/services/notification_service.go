// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

// Carrier email-to-SMS gateways. The shop owner gets a text for every
// new order without paying for an SMS provider.
var smsGateways = map[string]string{
	"att":      "txt.att.net",
	"tmobile":  "tmomail.net",
	"verizon":  "vtext.com",
	"sprint":   "messaging.sprintpcs.com",
	"uscellular": "email.uscc.net",
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

func (s *NotificationService) SendOrderConfirmation(order *models.Order) error {
	to := s.orderEmail(order)
	if to == "" {
		return nil
	}

	tmpl := s.getEmailTemplate("order_confirmation")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"OrderNumber": order.OrderNumber,
		"Total":       fmt.Sprintf("%.2f", order.Total),
		"Fulfillment": string(order.FulfillmentMethod),
		"ItemCount":   len(order.Items),
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.sendEmail(to, fmt.Sprintf("Order %s confirmed", order.OrderNumber), body)
}

func (s *NotificationService) SendOrderReadyEmail(order *models.Order) error {
	to := s.orderEmail(order)
	if to == "" {
		return nil
	}

	tmpl := s.getEmailTemplate("order_ready")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"OrderNumber": order.OrderNumber,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.sendEmail(to, fmt.Sprintf("Order %s is ready for pickup", order.OrderNumber), body)
}

func (s *NotificationService) SendOrderShippedEmail(order *models.Order) error {
	to := s.orderEmail(order)
	if to == "" {
		return nil
	}

	tmpl := s.getEmailTemplate("order_shipped")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"OrderNumber":    order.OrderNumber,
		"TrackingNumber": order.TrackingNumber,
		"Carrier":        order.Carrier,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.sendEmail(to, fmt.Sprintf("Order %s has shipped", order.OrderNumber), body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	tmpl := s.getEmailTemplate("password_reset")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"Name":  user.FullName(),
		"Token": resetToken,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.sendEmail(user.Email, "Reset your password", body)
}

func (s *NotificationService) SendCustomRequestReceived(request *models.CustomDesignRequest, email string) error {
	if email == "" {
		return nil
	}
	tmpl := s.getEmailTemplate("custom_request")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"Description": request.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.sendEmail(email, "We received your custom design request", body)
}

// NotifyAdminNewOrder emails the shop owner and, when a phone and
// carrier are configured, sends a short text through the carrier's
// email-to-SMS gateway. Failures are logged, never surfaced to the
// customer's checkout.
func (s *NotificationService) NotifyAdminNewOrder(order *models.Order) {
	if s.config.Email.AdminEmail != "" {
		subject := fmt.Sprintf("New order %s ($%.2f)", order.OrderNumber, order.Total)
		body := fmt.Sprintf("<p>Order <b>%s</b> placed for $%.2f with %d item(s). Fulfillment: %s.</p>",
			order.OrderNumber, order.Total, len(order.Items), order.FulfillmentMethod)
		if err := s.sendEmail(s.config.Email.AdminEmail, subject, body); err != nil {
			logrus.WithError(err).Warn("admin order email failed")
		}
	}
	s.sendAdminSMS(fmt.Sprintf("New order %s: $%.2f", order.OrderNumber, order.Total))
}

// NotifyAdminLowStock texts the owner when a tracked supply drops below
// its reorder threshold.
func (s *NotificationService) NotifyAdminLowStock(item string, quantity, threshold int) {
	s.sendAdminSMS(fmt.Sprintf("Low stock: %s at %d (reorder at %d)", item, quantity, threshold))
}

func (s *NotificationService) sendAdminSMS(message string) {
	phone := s.config.Email.AdminPhone
	gateway, ok := smsGateways[strings.ToLower(s.config.Email.AdminPhoneCarrier)]
	if phone == "" || !ok {
		return
	}
	addr := phone + "@" + gateway
	if err := s.sendEmail(addr, "", message); err != nil {
		logrus.WithError(err).Warn("admin SMS via email gateway failed")
	}
}

func (s *NotificationService) orderEmail(order *models.Order) string {
	if order.Email != "" {
		return order.Email
	}
	if order.User != nil {
		return order.User.Email
	}
	return ""
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("email not configured, skipping send")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)
	msg := []byte(fmt.Sprintf("To: %s\r\nFrom: %s <%s>\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		to, s.config.Email.FromName, s.config.Email.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"order_confirmation": {
			Subject: "Order confirmed",
			Body:    "<h2>Thanks for your order!</h2><p>Order <b>{{.OrderNumber}}</b> for ${{.Total}} is in. We'll get pressing. Fulfillment: {{.Fulfillment}}, {{.ItemCount}} item(s).</p>",
		},
		"order_ready": {
			Subject: "Order ready",
			Body:    "<h2>Your order is ready!</h2><p>Order <b>{{.OrderNumber}}</b> is packaged and ready for pickup.</p>",
		},
		"order_shipped": {
			Subject: "Order shipped",
			Body:    "<h2>Your order is on its way</h2><p>Order <b>{{.OrderNumber}}</b> shipped{{if .TrackingNumber}} with {{.Carrier}} tracking number <b>{{.TrackingNumber}}</b>{{end}}.</p>",
		},
		"password_reset": {
			Subject: "Reset your password",
			Body:    "<p>Hi {{.Name}},</p><p>Use this code to reset your password: <b>{{.Token}}</b>. It expires in one hour.</p>",
		},
		"custom_request": {
			Subject: "Custom design request received",
			Body:    "<p>We got your custom design request and will reply within 1-2 business days.</p><p>Your notes: {{.Description}}</p>",
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}
	return EmailTemplate{Subject: "Notification", Body: "<p>{{.}}</p>"}
}

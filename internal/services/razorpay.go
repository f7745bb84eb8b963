package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
)

var ErrPaymentsNotConfigured = errors.New("payment gateway not configured")

// PaymentService wraps the Razorpay client plus signature verification.
type PaymentService struct {
	client        *razorpay.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

func NewPaymentService() *PaymentService {
	cfg := config.AppConfig
	svc := &PaymentService{
		keyID:         cfg.RazorpayKeyID,
		keySecret:     cfg.RazorpayKeySecret,
		webhookSecret: cfg.RazorpayWebhookSecret,
	}
	if svc.keyID != "" && svc.keySecret != "" {
		svc.client = razorpay.NewClient(svc.keyID, svc.keySecret)
	}
	return svc
}

func (s *PaymentService) KeyID() string { return s.keyID }

// CreateOrder creates a Razorpay order for the given amount in paise and
// returns the gateway order ID.
func (s *PaymentService) CreateOrder(amountPaise int, receipt string) (string, error) {
	if s.client == nil {
		return "", ErrPaymentsNotConfigured
	}

	body, err := s.client.Order.Create(map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return "", err
	}

	orderID, _ := body["id"].(string)
	if orderID == "" {
		return "", errors.New("gateway returned no order id")
	}
	return orderID, nil
}

// VerifySignature checks the checkout callback signature:
// HMAC-SHA256(orderID + "|" + paymentID, key secret).
func (s *PaymentService) VerifySignature(orderID, paymentID, signature string) bool {
	return verifyHMAC(orderID+"|"+paymentID, signature, s.keySecret)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// raw webhook body.
func (s *PaymentService) VerifyWebhookSignature(body []byte, signature string) bool {
	return verifyHMAC(string(body), signature, s.webhookSecret)
}

func verifyHMAC(payload, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
)

func signHMAC(payload, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

func paymentServiceForTest() *PaymentService {
	config.AppConfig = &config.Config{
		RazorpayKeySecret:     "checkout-secret",
		RazorpayWebhookSecret: "webhook-secret",
	}
	return NewPaymentService()
}

func TestVerifySignature(t *testing.T) {
	svc := paymentServiceForTest()

	good := signHMAC("order_abc|pay_xyz", "checkout-secret")
	assert.True(t, svc.VerifySignature("order_abc", "pay_xyz", good))

	// Signature computed for a different payment does not transfer.
	assert.False(t, svc.VerifySignature("order_abc", "pay_other", good))

	// Wrong secret, tampered and empty signatures all fail.
	assert.False(t, svc.VerifySignature("order_abc", "pay_xyz", signHMAC("order_abc|pay_xyz", "wrong-secret")))
	assert.False(t, svc.VerifySignature("order_abc", "pay_xyz", good[:len(good)-1]+"0"))
	assert.False(t, svc.VerifySignature("order_abc", "pay_xyz", ""))
}

func TestVerifyWebhookSignature(t *testing.T) {
	svc := paymentServiceForTest()
	body := []byte(`{"event":"payment.captured","payload":{}}`)

	assert.True(t, svc.VerifyWebhookSignature(body, signHMAC(string(body), "webhook-secret")))
	assert.False(t, svc.VerifyWebhookSignature(body, signHMAC(string(body), "checkout-secret")))
	assert.False(t, svc.VerifyWebhookSignature([]byte(`{"event":"tampered"}`), signHMAC(string(body), "webhook-secret")))
	assert.False(t, svc.VerifyWebhookSignature(body, ""))
}

func TestCreateOrderWithoutKeys(t *testing.T) {
	config.AppConfig = &config.Config{}
	svc := NewPaymentService()

	_, err := svc.CreateOrder(9900, "rcpt_1")
	assert.ErrorIs(t, err, ErrPaymentsNotConfigured)
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/models"
	"github.com/bt23mme076-gif/atyant-sub000/internal/services"
	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
)

// ListCreditPacks returns the purchasable credit bundles.
func ListCreditPacks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packs": models.CreditPacks})
}

type CreateOrderInput struct {
	PackID string `json:"packId" binding:"required"`
}

// CreateOrder opens a Razorpay order for a credit pack and records the
// pending payment.
func CreateOrder(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pack, ok := models.FindCreditPack(input.PackID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown credit pack"})
		return
	}

	orderID, err := Payments.CreateOrder(pack.AmountPaise, "credits_"+pack.ID+"_"+userID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentsNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway not configured"})
			return
		}
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	payment := &models.Payment{
		UserID:          userID,
		PackID:          pack.ID,
		RazorpayOrderID: orderID,
		AmountPaise:     pack.AmountPaise,
		Credits:         pack.Credits,
	}
	if err := Store.Payments.Create(c.Request.Context(), payment); err != nil {
		logger.Error().Err(err).Str("order_id", orderID).Msg("Failed to record payment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":  orderID,
		"amount":   pack.AmountPaise,
		"currency": "INR",
		"keyId":    Payments.KeyID(),
	})
}

type VerifyPaymentInput struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPayment validates the checkout callback signature and credits the
// account. MarkPaid flips created->paid exactly once, so a duplicate verify
// call never grants credits twice.
func VerifyPayment(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input VerifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !Payments.VerifySignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature) {
		logger.Warn().Str("order_id", input.RazorpayOrderID).Msg("Payment signature rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	ctx := c.Request.Context()

	payment, err := Store.Payments.GetByOrderID(ctx, input.RazorpayOrderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if payment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your order"})
		return
	}

	if err := settlePayment(c, input.RazorpayOrderID, input.RazorpayPaymentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Already settled, e.g. by the webhook.
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment already processed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "credits": payment.Credits})
}

// RazorpayWebhook handles async gateway confirmations. The body signature
// comes in the X-Razorpay-Signature header.
func RazorpayWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if !Payments.VerifyWebhookSignature(body, c.GetHeader("X-Razorpay-Signature")) {
		logger.Warn().Msg("Webhook signature rejected")
		c.Status(http.StatusUnauthorized)
		return
	}

	var event struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	orderID := event.Payload.Payment.Entity.OrderID
	paymentID := event.Payload.Payment.Entity.ID

	switch event.Event {
	case "payment.captured":
		if err := settlePayment(c, orderID, paymentID); err != nil && !errors.Is(err, store.ErrNotFound) {
			logger.Error().Err(err).Str("order_id", orderID).Msg("Webhook settlement failed")
			c.Status(http.StatusInternalServerError)
			return
		}
	case "payment.failed":
		if err := Store.Payments.MarkFailed(c.Request.Context(), orderID); err != nil {
			logger.Error().Err(err).Str("order_id", orderID).Msg("Failed to mark payment failed")
		}
	}

	c.Status(http.StatusOK)
}

// settlePayment marks the order paid and tops up the buyer's credits.
// Returns store.ErrNotFound when the order was already settled.
func settlePayment(c *gin.Context, orderID, paymentID string) error {
	ctx := c.Request.Context()

	payment, err := Store.Payments.MarkPaid(ctx, orderID, paymentID)
	if err != nil {
		return err
	}

	if err := Store.Users.AddCredits(ctx, payment.UserID, payment.Credits); err != nil {
		logger.Error().Err(err).Str("order_id", orderID).Msg("Credit top-up failed after payment")
		return err
	}

	SendNotificationToUser(payment.UserID, map[string]interface{}{
		"type":    string(models.NotificationSystem),
		"message": "Payment received, credits added",
		"credits": payment.Credits,
	})

	logger.Info().Str("order_id", orderID).Str("user_id", payment.UserID).Int("credits", payment.Credits).Msg("Payment settled")
	return nil
}

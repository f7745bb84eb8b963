package models

import "time"

type PaymentStatus string

const (
	PaymentCreated PaymentStatus = "created"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// CreditPack is a purchasable bundle of message credits.
type CreditPack struct {
	ID          string `json:"id"`
	Credits     int    `json:"credits"`
	AmountPaise int    `json:"amountPaise"` // INR paise, as Razorpay expects
}

// CreditPacks is the fixed catalogue. Amounts are in paise.
var CreditPacks = []CreditPack{
	{ID: "starter", Credits: 5, AmountPaise: 9900},
	{ID: "regular", Credits: 15, AmountPaise: 24900},
	{ID: "power", Credits: 40, AmountPaise: 49900},
}

// FindCreditPack looks up a pack by id.
func FindCreditPack(id string) (CreditPack, bool) {
	for _, p := range CreditPacks {
		if p.ID == id {
			return p, true
		}
	}
	return CreditPack{}, false
}

// Payment tracks one Razorpay order through its lifecycle.
type Payment struct {
	ID     string `bson:"_id" json:"id"`
	UserID string `bson:"userId" json:"userId"`
	PackID string `bson:"packId" json:"packId"`

	RazorpayOrderID   string `bson:"razorpayOrderId" json:"razorpayOrderId"`
	RazorpayPaymentID string `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`

	AmountPaise int           `bson:"amountPaise" json:"amountPaise"`
	Credits     int           `bson:"credits" json:"credits"`
	Status      PaymentStatus `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

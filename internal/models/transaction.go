package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction statuses
const (
	TransactionPaid    = "Paid"
	TransactionPending = "Pending"
	TransactionCancel  = "Cancel"
)

// Transaction is an immutable payment record created after capture; only
// its status may be transitioned later by admin action.
type Transaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	TransactionID string             `bson:"transaction_id" json:"transaction_id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	CourseID      primitive.ObjectID `bson:"course_id" json:"course_id"`

	Amount             float64 `bson:"amount" json:"amount"`
	OriginalPrice      float64 `bson:"original_price" json:"original_price"`
	DiscountPercentage float64 `bson:"discount_percentage" json:"discount_percentage"`
	DiscountAmount     float64 `bson:"discount_amount" json:"discount_amount"`
	Tax                float64 `bson:"tax" json:"tax"`
	Total              float64 `bson:"total" json:"total"`

	Status                string `bson:"status" json:"status"`
	StripePaymentIntentID string `bson:"stripe_payment_intent_id,omitempty" json:"stripe_payment_intent_id,omitempty"`
	PaymentMethod         string `bson:"payment_method" json:"payment_method"`
	Currency              string `bson:"currency" json:"currency"`

	FullName    string `bson:"full_name,omitempty" json:"full_name,omitempty"`
	PhoneNumber string `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
}

// ValidTransactionStatus reports whether s is one of the allowed statuses.
func ValidTransactionStatus(s string) bool {
	switch s {
	case TransactionPaid, TransactionPending, TransactionCancel:
		return true
	}
	return false
}

// GenerateTransactionID builds an opaque id like TXN<base36 time><4 digits>.
func GenerateTransactionID() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % 10000)
	}
	return fmt.Sprintf("TXN%s%04d", ts, n.Int64())
}

package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"

	"github.com/AnshRaj112/learninghub-backend/internal/models"
)

// OrderAmount is the price breakdown charged for a course.
type OrderAmount struct {
	OriginalPrice  float64 `json:"originalPrice"`
	DiscountAmount float64 `json:"discountAmount"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
	AmountCents    int64   `json:"-"`
}

// ComputeOrderAmount derives the charge for a course from its listed
// price, discount and tax percentages. The listed price may carry a
// currency prefix or thousands separators.
func ComputeOrderAmount(course *models.Course) (*OrderAmount, error) {
	raw := strings.TrimSpace(course.Price)
	raw = strings.TrimPrefix(raw, "₹")
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.TrimSpace(raw)

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price <= 0 {
		return nil, ErrInvalidPrice
	}

	discount := price * course.DiscountPercentage / 100
	discounted := price - discount
	tax := discounted * course.TaxPercentage / 100
	total := discounted + tax
	if total <= 0 {
		return nil, ErrInvalidPrice
	}

	round2 := func(v float64) float64 { return math.Round(v*100) / 100 }
	return &OrderAmount{
		OriginalPrice:  round2(price),
		DiscountAmount: round2(discount),
		Tax:            round2(tax),
		Total:          round2(total),
		AmountCents:    int64(math.Round(total * 100)),
	}, nil
}

type PaymentService struct {
	currency string
}

func NewPaymentService(secretKey string) *PaymentService {
	stripe.Key = secretKey
	return &PaymentService{currency: "inr"}
}

// PaymentIntentResult carries what the client needs to confirm a payment.
type PaymentIntentResult struct {
	ClientSecret string       `json:"clientSecret"`
	Amount       *OrderAmount `json:"amount"`
}

// CreateIntent creates a payment intent for a course purchase. Course and
// user IDs travel as metadata so the webhook side can reconcile the
// transaction.
func (s *PaymentService) CreateIntent(course *models.Course, userID string) (*PaymentIntentResult, error) {
	amount, err := ComputeOrderAmount(course)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount.AmountCents),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("course_id", course.ID.Hex())
	params.AddMetadata("course_title", course.Title)
	params.AddMetadata("user_id", userID)
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return &PaymentIntentResult{ClientSecret: intent.ClientSecret, Amount: amount}, nil
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/learninghub-backend/internal/models"
)

func TestComputeOrderAmount(t *testing.T) {
	course := &models.Course{
		Price:              "1000",
		DiscountPercentage: 10,
		TaxPercentage:      18,
	}

	amount, err := ComputeOrderAmount(course)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, amount.OriginalPrice)
	assert.Equal(t, 100.0, amount.DiscountAmount)
	assert.Equal(t, 162.0, amount.Tax)
	assert.Equal(t, 1062.0, amount.Total)
	assert.Equal(t, int64(106200), amount.AmountCents)
}

func TestComputeOrderAmountPriceFormats(t *testing.T) {
	for _, price := range []string{"₹1,499", "$1499", " 1499.00 ", "1,499"} {
		amount, err := ComputeOrderAmount(&models.Course{Price: price})
		require.NoError(t, err, "price %q", price)
		assert.Equal(t, 1499.0, amount.Total, "price %q", price)
	}
}

func TestComputeOrderAmountInvalid(t *testing.T) {
	for _, price := range []string{"", "free", "0", "-10"} {
		_, err := ComputeOrderAmount(&models.Course{Price: price})
		assert.ErrorIs(t, err, ErrInvalidPrice, "price %q", price)
	}

	// A full discount with no tax charges nothing and is rejected.
	_, err := ComputeOrderAmount(&models.Course{Price: "500", DiscountPercentage: 100})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestComputeOrderAmountRoundsToCents(t *testing.T) {
	amount, err := ComputeOrderAmount(&models.Course{
		Price:              "999",
		DiscountPercentage: 33.33,
		TaxPercentage:      18,
	})
	require.NoError(t, err)
	assert.InDelta(t, amount.Total*100, float64(amount.AmountCents), 0.51)
}

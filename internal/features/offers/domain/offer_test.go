package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOffer_Discount(t *testing.T) {
	t.Run("PercentageCappedByMaxDiscount", func(t *testing.T) {
		offer := Offer{Type: OfferPercentage, Value: 20, MaxDiscount: 150}

		// 20% of 1000 is 200, capped at 150.
		discount := offer.Discount(1000, 1000)
		assert.Equal(t, 150.0, discount)
		assert.Equal(t, 850.0, 1000-discount)
	})

	t.Run("PercentageUncapped", func(t *testing.T) {
		offer := Offer{Type: OfferPercentage, Value: 10}
		assert.Equal(t, 100.0, offer.Discount(1000, 1000))
	})

	t.Run("FixedAmount", func(t *testing.T) {
		offer := Offer{Type: OfferFixedAmount, Value: 50}
		assert.Equal(t, 50.0, offer.Discount(500, 500))
	})

	t.Run("FixedAmountNeverExceedsCartTotal", func(t *testing.T) {
		offer := Offer{Type: OfferFixedAmount, Value: 500}
		discount := offer.Discount(300, 300)
		assert.Equal(t, 300.0, discount)
		assert.GreaterOrEqual(t, 300.0-discount, 0.0)
	})

	t.Run("ZeroEligibleAmount", func(t *testing.T) {
		offer := Offer{Type: OfferPercentage, Value: 20}
		assert.Equal(t, 0.0, offer.Discount(0, 1000))
	})

	t.Run("UnknownType", func(t *testing.T) {
		offer := Offer{Type: "BOGO", Value: 20}
		assert.Equal(t, 0.0, offer.Discount(1000, 1000))
	})
}

func TestOffer_Live(t *testing.T) {
	now := time.Now()
	base := Offer{
		IsActive:  true,
		ValidFrom: now.Add(-time.Hour),
		ValidTo:   now.Add(time.Hour),
	}

	t.Run("InsideWindow", func(t *testing.T) {
		assert.True(t, base.Live(now))
	})

	t.Run("Inactive", func(t *testing.T) {
		offer := base
		offer.IsActive = false
		assert.False(t, offer.Live(now))
	})

	t.Run("BeforeWindow", func(t *testing.T) {
		offer := base
		offer.ValidFrom = now.Add(time.Minute)
		assert.False(t, offer.Live(now))
	})

	t.Run("AfterWindow", func(t *testing.T) {
		offer := base
		offer.ValidTo = now.Add(-time.Minute)
		assert.False(t, offer.Live(now))
	})

	t.Run("UsageLimitReached", func(t *testing.T) {
		offer := base
		offer.UsageLimit = 5
		offer.UsedCount = 5
		assert.False(t, offer.Live(now))
	})

	t.Run("ZeroLimitIsUnlimited", func(t *testing.T) {
		offer := base
		offer.UsedCount = 10000
		assert.True(t, offer.Live(now))
	})
}

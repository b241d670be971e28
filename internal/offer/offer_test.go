package offer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateOfferAmount(t *testing.T) {
	assert.Equal(t, 50000.0, CalculateOfferAmount(100000))
	assert.Equal(t, 0.0, CalculateOfferAmount(0))
	assert.Equal(t, 125.25, CalculateOfferAmount(250.5))
	assert.Equal(t, 0.0, CalculateOfferAmount(-1))
	assert.Equal(t, 0.0, CalculateOfferAmount(-100000))
}

func TestCalculateEMD(t *testing.T) {
	assert.Equal(t, 500.0, CalculateEMD(50000))
	assert.Equal(t, 0.0, CalculateEMD(0))
	assert.Equal(t, 0.0, CalculateEMD(-50))

	// rounds half-up to cents
	assert.Equal(t, 1.23, CalculateEMD(123.4))
	assert.Equal(t, 1.24, CalculateEMD(123.5))
}

func TestAddBusinessDays(t *testing.T) {
	// Wednesday
	wed := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, wed, AddBusinessDays(wed, 0))

	// Wednesday + 3 business days skips the weekend and lands on Monday
	got := AddBusinessDays(wed, 3)
	assert.Equal(t, time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC), got)

	// never lands on a weekend
	for n := 1; n <= 20; n++ {
		d := AddBusinessDays(wed, n)
		assert.NotEqual(t, time.Saturday, d.Weekday(), "n=%d", n)
		assert.NotEqual(t, time.Sunday, d.Weekday(), "n=%d", n)
	}

	// Friday + 1 business day is Monday
	fri := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), AddBusinessDays(fri, 1))
}

func TestCalculateClosingDate(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), CalculateClosingDate(now))
}

func TestGenerateDetails(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	d := GenerateDetailsAt(100000, "Jane Doe", now)
	assert.Equal(t, "$50,000.00", d.OfferPriceFormatted)
	assert.Equal(t, "$500.00", d.EMDAmountFormatted)
	assert.Equal(t, "Jane", d.GreetingName)
	assert.Equal(t, "January 31, 2024", d.ClosingDateFormatted)
	assert.Equal(t, "January 4, 2024", d.OfferExpirationDateFormatted)
	assert.Equal(t, "January 1, 2024", d.CurrentDateFormatted)
}

func TestGenerateDetailsFallbacks(t *testing.T) {
	d := GenerateDetails(100000, "")
	assert.Equal(t, "Valued Property Owner", d.GreetingName)

	d = GenerateDetails(100000, "   ")
	assert.Equal(t, "Valued Property Owner", d.GreetingName)

	// negative assessed value clamps everything to zero
	d = GenerateDetails(-5, "Bob Martin")
	require.Equal(t, "$0.00", d.OfferPriceFormatted)
	require.Equal(t, "$0.00", d.EMDAmountFormatted)
	assert.Equal(t, "Bob", d.GreetingName)
}

// Package offer computes the cash-offer figures and key dates that
// personalize outbound letters of intent. Everything here is pure and
// deterministic given a clock value; nothing errors. Bad numeric input
// clamps to zero and a missing contact name falls back to a default
// greeting.
package offer

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	offerRatio = 0.5
	emdRatio   = 0.01

	closingDays    = 30 // calendar days
	expirationDays = 3  // 72 hours

	defaultGreeting = "Valued Property Owner"
)

// CalculateOfferAmount returns assessedTotal * 0.5, or 0 for negative
// input.
func CalculateOfferAmount(assessedTotal float64) float64 {
	if assessedTotal < 0 {
		return 0
	}
	return assessedTotal * offerRatio
}

// CalculateEMD returns the earnest-money deposit: 1% of the offer,
// rounded half-up to cents. Negative input yields 0.
func CalculateEMD(offerAmount float64) float64 {
	if offerAmount < 0 {
		return 0
	}
	return math.Round(offerAmount*emdRatio*100) / 100
}

// AddBusinessDays advances t day by day, skipping Saturdays and Sundays,
// until n business days have been added.
func AddBusinessDays(t time.Time, n int) time.Time {
	added := 0
	for added < n {
		t = t.AddDate(0, 0, 1)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return t
}

// CalculateClosingDate returns now + 30 calendar days.
func CalculateClosingDate(now time.Time) time.Time {
	return now.AddDate(0, 0, closingDays)
}

// Details carries the formatted personalization fields consumed by the
// email and PDF templates.
type Details struct {
	OfferPriceFormatted          string
	EMDAmountFormatted           string
	ClosingDateFormatted         string
	GreetingName                 string
	OfferExpirationDateFormatted string
	CurrentDateFormatted         string
}

// GenerateDetails composes the offer figures for a lead. contactFullName
// may be empty; the greeting falls back to a default.
func GenerateDetails(assessedTotal float64, contactFullName string) Details {
	return GenerateDetailsAt(assessedTotal, contactFullName, time.Now())
}

// GenerateDetailsAt is GenerateDetails with an injected clock.
func GenerateDetailsAt(assessedTotal float64, contactFullName string, now time.Time) Details {
	offerAmount := CalculateOfferAmount(assessedTotal)
	emdAmount := CalculateEMD(offerAmount)

	closingDate := CalculateClosingDate(now)
	expirationDate := now.AddDate(0, 0, expirationDays)

	greeting := defaultGreeting
	if name := strings.TrimSpace(contactFullName); name != "" {
		greeting = strings.Fields(name)[0]
	}

	return Details{
		OfferPriceFormatted:          formatUSD(offerAmount),
		EMDAmountFormatted:           formatUSD(emdAmount),
		ClosingDateFormatted:         formatLongDate(closingDate),
		GreetingName:                 greeting,
		OfferExpirationDateFormatted: formatLongDate(expirationDate),
		CurrentDateFormatted:         formatLongDate(now),
	}
}

// formatUSD renders an amount as "$50,000.00".
func formatUSD(amount float64) string {
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

// formatLongDate renders "January 1, 2024".
func formatLongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

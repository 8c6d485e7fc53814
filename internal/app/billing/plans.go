package billing

// Plan is one row of the fixed subscription plan table. Amounts are in
// cents; price IDs come from the payment provider's dashboard and may be
// empty, in which case the checkout uses inline price data.
type Plan struct {
	ID          string
	Name        string
	PriceID     string
	AmountCents int64
	Currency    string
	Interval    string
}

// Plans builds the three-plan table the product sells.
func Plans(monthlyPriceID, threeMonthsPriceID, yearlyPriceID string) map[string]Plan {
	return map[string]Plan{
		"monthly": {
			ID:          "monthly",
			Name:        "Luna Plus - Monthly",
			PriceID:     monthlyPriceID,
			AmountCents: 1499, // €14.99
			Currency:    "eur",
			Interval:    "month",
		},
		"three_months": {
			ID:          "three_months",
			Name:        "Luna Plus - Three_months",
			PriceID:     threeMonthsPriceID,
			AmountCents: 3897, // €12.99 * 3
			Currency:    "eur",
			Interval:    "month",
		},
		"yearly": {
			ID:          "yearly",
			Name:        "Luna Plus - Yearly",
			PriceID:     yearlyPriceID,
			AmountCents: 11988, // €9.99 * 12
			Currency:    "eur",
			Interval:    "year",
		},
	}
}

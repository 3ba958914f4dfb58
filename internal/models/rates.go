package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EuroRate is the value of one euro in a quote currency
type EuroRate struct {
	CurrencyCode string          `json:"currencyCode"`
	Rate         decimal.Decimal `json:"rate"`
	Date         time.Time       `json:"date"`
}

// EuroRates holds the euro rates of a conversion pair, fixed on the same day
type EuroRates struct {
	Source EuroRate  `json:"source"`
	Target EuroRate  `json:"target"`
	Date   time.Time `json:"date"`
}

// RateSnapshot is a stored set of euro rates for one day
type RateSnapshot struct {
	Date      time.Time  `json:"date" db:"rate_date"`
	Rates     []EuroRate `json:"rates"`
	FetchedAt time.Time  `json:"fetched_at" db:"fetched_at"`
}

// DateLayout is the wire format of rate dates
const DateLayout = "2006-01-02"

package model

import "time"

// MarketLocation is the fixed UTC+8 zone that trade times, cutoffs and
// confirmation dates are expressed in.
var MarketLocation = time.FixedZone("CST", 8*60*60)

// DateOf returns midnight of t's calendar day in the market timezone.
func DateOf(t time.Time) time.Time {
	y, m, d := t.In(MarketLocation).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, MarketLocation)
}

// Date builds a market-timezone calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, MarketLocation)
}

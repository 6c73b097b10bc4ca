package service

import (
	"time"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// CutoffHour is the market-local hour from which orders miss the same-day NAV.
// A trade at exactly 15:00:00 is after the cutoff.
const CutoffHour = 15

// TradingCalendar answers whether a date is an exchange trading day.
type TradingCalendar interface {
	IsTradingDay(d time.Time) bool
}

// Clock returns the current time. Tests inject fixed clocks.
type Clock func() time.Time

// SystemClock is the wall clock in the market timezone.
func SystemClock() time.Time {
	return time.Now().In(model.MarketLocation)
}

// IsAfterCutoff reports whether tradeTime is at or after 15:00 market time.
func IsAfterCutoff(tradeTime time.Time) bool {
	return tradeTime.In(model.MarketLocation).Hour() >= CutoffHour
}

// TradeTimeFor returns the canonical timestamp recorded for a trade submitted with a
// date and cutoff flag: 14:59 before the cutoff, 15:01 after it.
// IsAfterCutoff(TradeTimeFor(d, f)) == f for every d.
func TradeTimeFor(tradeDate time.Time, afterCutoff bool) time.Time {
	day := model.DateOf(tradeDate)
	if afterCutoff {
		return day.Add(CutoffHour*time.Hour + time.Minute)
	}
	return day.Add(CutoffHour*time.Hour - time.Minute)
}

// ResolveConfirmationDate returns the date whose NAV settles a trade placed on tradeDate.
// A trade placed before the cutoff on a trading day settles the same day; anything else
// settles on the first trading day strictly after tradeDate.
func ResolveConfirmationDate(cal TradingCalendar, tradeDate time.Time, afterCutoff bool) time.Time {
	day := model.DateOf(tradeDate)
	if !afterCutoff && cal.IsTradingDay(day) {
		return day
	}
	return NextTradingDay(cal, day)
}

// ResolveConfirmationDateAt is ResolveConfirmationDate for a full trade timestamp.
func ResolveConfirmationDateAt(cal TradingCalendar, tradeTime time.Time) time.Time {
	return ResolveConfirmationDate(cal, model.DateOf(tradeTime), IsAfterCutoff(tradeTime))
}

// NextTradingDay scans forward one day at a time from the day after d.
// The calendar must eventually report a trading day; calendar.Calendar guarantees
// this by applying the weekday rule outside its loaded range.
func NextTradingDay(cal TradingCalendar, d time.Time) time.Time {
	next := model.DateOf(d).AddDate(0, 0, 1)
	for !cal.IsTradingDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// resolveStatus is confirmed when the confirmation date is today or earlier.
func resolveStatus(confirmationDate, now time.Time) model.TradeStatus {
	if confirmationDate.After(model.DateOf(now)) {
		return model.TradeStatusPending
	}
	return model.TradeStatusConfirmed
}

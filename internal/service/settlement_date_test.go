package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/calendar"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/testutil"
)

// autumnCalendar covers September and October 2024 with the National Day
// holiday (October 1-7) and the make-up working Saturday of October 12 removed
// from or added to the weekday pattern.
func autumnCalendar() *calendar.Calendar {
	var dates []time.Time
	for d := model.Date(2024, time.September, 2); d.Before(model.Date(2024, time.November, 1)); d = d.AddDate(0, 0, 1) {
		if d.Month() == time.October && d.Day() <= 7 {
			continue
		}
		if calendar.IsWeekday(d) || d.Equal(model.Date(2024, time.October, 12)) {
			dates = append(dates, d)
		}
	}
	return testutil.NewCalendar(dates...)
}

// TestResolveConfirmationDate tests the T+0 / T+1 settlement rule.
//
// WHY: The confirmation date decides which NAV a trade gets and whether it is
// confirmed on creation. An off-by-one here misprices every trade.
func TestResolveConfirmationDate(t *testing.T) {
	cal := autumnCalendar()

	tests := []struct {
		name        string
		tradeDate   time.Time
		afterCutoff bool
		want        time.Time
	}{
		{"trading day before cutoff settles same day", model.Date(2024, time.October, 21), false, model.Date(2024, time.October, 21)},
		{"trading day after cutoff settles next trading day", model.Date(2024, time.October, 21), true, model.Date(2024, time.October, 22)},
		{"friday after cutoff settles monday", model.Date(2024, time.October, 18), true, model.Date(2024, time.October, 21)},
		{"saturday settles monday", model.Date(2024, time.October, 19), false, model.Date(2024, time.October, 21)},
		{"sunday after cutoff settles monday", model.Date(2024, time.October, 20), true, model.Date(2024, time.October, 21)},
		{"holiday settles after the holiday", model.Date(2024, time.October, 1), false, model.Date(2024, time.October, 8)},
		{"last day before holiday after cutoff skips holiday", model.Date(2024, time.September, 30), true, model.Date(2024, time.October, 8)},
		{"make-up saturday is a trading day", model.Date(2024, time.October, 12), false, model.Date(2024, time.October, 12)},
		{"beyond loaded range uses weekday rule", model.Date(2024, time.December, 6), true, model.Date(2024, time.December, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ResolveConfirmationDate(cal, tt.tradeDate, tt.afterCutoff)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want.Format("2006-01-02"), got.Format("2006-01-02"))
		})
	}
}

// TestResolveConfirmationDate_SameDayOnTradingDays checks that every trading day
// before the cutoff confirms on itself.
func TestResolveConfirmationDate_SameDayOnTradingDays(t *testing.T) {
	cal := autumnCalendar()

	for d := model.Date(2024, time.September, 2); d.Before(model.Date(2024, time.November, 1)); d = d.AddDate(0, 0, 1) {
		if !cal.IsTradingDay(d) {
			continue
		}
		got := service.ResolveConfirmationDate(cal, d, false)
		assert.True(t, d.Equal(got), "trading day %s resolved to %s", d.Format("2006-01-02"), got.Format("2006-01-02"))
	}
}

// TestResolveConfirmationDate_Monotonic tests that a later trade never confirms earlier.
//
// WHY: Pending trades are swept in confirmation date order. A non-monotonic
// resolver would let a later order settle before an earlier one.
func TestResolveConfirmationDate_Monotonic(t *testing.T) {
	cal := autumnCalendar()

	type order struct {
		date        time.Time
		afterCutoff bool
	}
	var orders []order
	for d := model.Date(2024, time.September, 25); d.Before(model.Date(2024, time.November, 10)); d = d.AddDate(0, 0, 1) {
		orders = append(orders, order{d, false}, order{d, true})
	}

	prev := time.Time{}
	for _, o := range orders {
		got := service.ResolveConfirmationDate(cal, o.date, o.afterCutoff)
		assert.False(t, got.Before(prev), "order %s (after cutoff %v) resolved to %s, before %s",
			o.date.Format("2006-01-02"), o.afterCutoff, got.Format("2006-01-02"), prev.Format("2006-01-02"))
		assert.False(t, got.Before(o.date), "confirmation before trade date")
		prev = got
	}
}

// TestResolveConfirmationDateAt tests that the timestamp resolver agrees with the
// flag resolver, including exactly at 15:00.
//
// WHY: Both entry points must settle the same trade on the same date. 15:00:00 is
// after the cutoff.
func TestResolveConfirmationDateAt(t *testing.T) {
	cal := autumnCalendar()
	day := model.Date(2024, time.October, 18)

	t.Run("cutoff boundary", func(t *testing.T) {
		cases := []struct {
			clock       time.Duration
			afterCutoff bool
		}{
			{9*time.Hour + 30*time.Minute, false},
			{14*time.Hour + 59*time.Minute + 59*time.Second, false},
			{15 * time.Hour, true},
			{15*time.Hour + time.Second, true},
			{23*time.Hour + 59*time.Minute, true},
		}
		for _, c := range cases {
			ts := day.Add(c.clock)
			assert.Equal(t, c.afterCutoff, service.IsAfterCutoff(ts), "at %s", ts.Format("15:04:05"))
		}
	})

	t.Run("equivalent to flag resolver", func(t *testing.T) {
		for d := model.Date(2024, time.September, 27); d.Before(model.Date(2024, time.October, 20)); d = d.AddDate(0, 0, 1) {
			for _, clock := range []time.Duration{10 * time.Hour, 14*time.Hour + 59*time.Minute, 15 * time.Hour, 20 * time.Hour} {
				ts := d.Add(clock)
				want := service.ResolveConfirmationDate(cal, d, service.IsAfterCutoff(ts))
				got := service.ResolveConfirmationDateAt(cal, ts)
				assert.True(t, want.Equal(got), "at %s", ts)
			}
		}
	})

	t.Run("timestamps in other zones use market time", func(t *testing.T) {
		// 06:30 UTC is 14:30 in the market, before the cutoff.
		ts := time.Date(2024, time.October, 18, 6, 30, 0, 0, time.UTC)
		got := service.ResolveConfirmationDateAt(cal, ts)
		assert.True(t, day.Equal(got))
	})

	t.Run("canonical trade times round-trip the flag", func(t *testing.T) {
		for _, flag := range []bool{false, true} {
			ts := service.TradeTimeFor(day, flag)
			assert.Equal(t, flag, service.IsAfterCutoff(ts))
			assert.True(t, day.Equal(model.DateOf(ts)))
		}
	})
}

// TestResolveFee tests fee defaulting.
//
// WHY: A sell without an explicit fee must not pick up the account's buy fee.
func TestResolveFee(t *testing.T) {
	explicit := 0.5
	zero := 0.0

	assert.Equal(t, 0.15, service.ResolveFee(nil, 0.15, model.TradeTypeBuy))
	assert.Equal(t, 0.0, service.ResolveFee(nil, 0.15, model.TradeTypeSell))
	assert.Equal(t, 0.5, service.ResolveFee(&explicit, 0.15, model.TradeTypeBuy))
	assert.Equal(t, 0.5, service.ResolveFee(&explicit, 0.15, model.TradeTypeSell))
	assert.Equal(t, 0.0, service.ResolveFee(&zero, 0.15, model.TradeTypeBuy))
}

// TestNextTradingDay_WeekdayFallback tests the forward scan on a calendar that failed to load.
func TestNextTradingDay_WeekdayFallback(t *testing.T) {
	got := service.NextTradingDay(calendar.Weekdays{}, model.Date(2024, time.October, 18))
	assert.True(t, model.Date(2024, time.October, 21).Equal(got))
}

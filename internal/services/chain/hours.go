package chain

import (
	"fmt"
	"time"
)

// NSE equities/derivatives trading window, exchange-local time.
const (
	openHour    = 9
	openMinute  = 15
	closeHour   = 15
	closeMinute = 30
)

var istLocation = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// MarketClosedError is returned when the hours gate is enabled and a query
// arrives outside the trading window. It carries the next scheduled open.
type MarketClosedError struct {
	NextOpen time.Time
}

func (e *MarketClosedError) Error() string {
	return fmt.Sprintf("market closed, next open %s", e.NextOpen.Format(time.RFC3339))
}

// marketOpenAt reports whether t (already in exchange-local time) falls within
// the Mon-Fri trading window.
func marketOpenAt(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= openHour*60+openMinute && minutes <= closeHour*60+closeMinute
}

// nextOpenAfter returns the next scheduled window open strictly after t,
// skipping weekends.
func nextOpenAfter(t time.Time) time.Time {
	open := time.Date(t.Year(), t.Month(), t.Day(), openHour, openMinute, 0, 0, t.Location())
	if !t.Before(open) {
		open = open.AddDate(0, 0, 1)
	}
	for open.Weekday() == time.Saturday || open.Weekday() == time.Sunday {
		open = open.AddDate(0, 0, 1)
	}
	return open
}

package application

import (
	"fmt"
	"strconv"
	"time"
)

// FullDateLayout is the layout of absolute dates, e.g. "Jan 2, 2006".
const FullDateLayout = "Jan 2, 2006"

// RelativeDate describes how long before now t was, e.g. "3 days ago".
func RelativeDate(t, now time.Time) string {
	d := now.Sub(t)

	units := []struct {
		size time.Duration
		name string
	}{
		{365 * 24 * time.Hour, "year"},
		{30 * 24 * time.Hour, "month"},
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
	}

	for _, u := range units {
		if n := int(d / u.size); n > 0 {
			return Plural(n, u.name) + " ago"
		}
	}
	return "just now"
}

// Countdown formats the time left until reset as "Xm Ys", or "Ys" under a
// minute. It returns "" once reset has passed.
func Countdown(reset, now time.Time) string {
	left := reset.Sub(now)
	if left <= 0 {
		return ""
	}

	minutes := int(left / time.Minute)
	seconds := int((left % time.Minute) / time.Second)
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// CompactCount formats counts of 1000 and more as "1.2k".
func CompactCount(n int) string {
	if n < 1000 {
		return strconv.Itoa(n)
	}
	return strconv.FormatFloat(float64(n)/1000, 'f', 1, 64) + "k"
}

// Plural renders "1 comment" or "2 comments".
func Plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

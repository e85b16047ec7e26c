package fat12

import (
	"time"
)

// ParseDate decodes a DOS date stamp relative to 1980-01-01:
//  Bits 0–4:  day of month, 1–31
//  Bits 5–8:  month of year, 1–12
//  Bits 9–15: count of years from 1980, 0–127
// The result always has a time of 00:00:00 UTC.
//
// A day or month of 0 is invalid. In that case time.Time{} is returned so
// time.Time.IsZero() can be used to detect it.
// Months above 12 roll over into the next year.
func ParseDate(input uint16) time.Time {
	dayOfMonth := input & 0x1F
	monthOfYear := input & 0x1E0 >> 5
	yearSince1980 := input & 0xFE00 >> 9

	if dayOfMonth == 0 || monthOfYear == 0 {
		return time.Time{}
	}

	return time.Date(1980+int(yearSince1980), time.Month(monthOfYear), int(dayOfMonth), 0, 0, 0, 0, time.UTC)
}

// ParseTime decodes a DOS time stamp with a granularity of 2 seconds:
//  Bits 0–4:   2-second count, 0–29
//  Bits 5–10:  minutes, 0–59
//  Bits 11–15: hours, 0–23
// The result is on January 1, year 1, so midnight is time.Time{}.
//
// Out of range values are added up but capped at 23:59:59.
func ParseTime(input uint16) time.Time {
	seconds := int(input&0x1F) * 2
	minutes := input & 0x7E0 >> 5
	hours := input & 0xF800 >> 11

	result := time.Date(1, 1, 1, int(hours), int(minutes), seconds, 0, time.UTC)

	if result.Day() > 1 {
		return time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC)
	}

	return result
}

// DateTime combines a DOS date and time stamp. An invalid date yields time.Time{}.
func DateTime(date, tm uint16) time.Time {
	d := ParseDate(date)
	if d.IsZero() {
		return time.Time{}
	}

	t := ParseTime(tm)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

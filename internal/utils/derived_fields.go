package utils

import "time"

// Age returns whole calendar years between dob and now. A birthday that has
// not yet come around this year does not count; future dates yield 0.
func Age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func AgeFromString(dob string, now time.Time) int {
	parsed, ok := ParseDate(dob)
	if !ok {
		return 0
	}
	return Age(parsed, now)
}

func TotalIncome(income1, income2 float64) float64 {
	return income1 + income2
}

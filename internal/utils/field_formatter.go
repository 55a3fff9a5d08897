package utils

import "strings"

// Masks use D for a digit slot; every other rune is a literal written only
// when a digit follows it.
const (
	TaxIDMask          = "DDD-DD-DDDD"
	ImmigrationIDMask  = "A-DDD-DDD-DDD"
	PhoneMask          = "(DDD) DDD-DDDD"
	CardExpiryMask     = "DD/DD"
	CardLast4Length    = 4
	CardCVCLength      = 4
	PostalCodeLength   = 5
	maskDigitPlacehold = 'D'
)

// FormatFunc normalizes raw keystrokes into a display string. Every
// FormatFunc is total and idempotent.
type FormatFunc func(raw string) string

func StripNonDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func FormatTaxID(raw string) string {
	return formatMasked(raw, TaxIDMask)
}

func FormatImmigrationID(raw string) string {
	return formatMasked(raw, ImmigrationIDMask)
}

func FormatPhone(raw string) string {
	return formatMasked(raw, PhoneMask)
}

func FormatCardExpiry(raw string) string {
	return formatMasked(raw, CardExpiryMask)
}

func FormatCardLast4(raw string) string {
	return TruncateDigits(raw, CardLast4Length)
}

func FormatCardCVC(raw string) string {
	return TruncateDigits(raw, CardCVCLength)
}

func FormatPostalCode(raw string) string {
	return TruncateDigits(raw, PostalCodeLength)
}

func TruncateDigits(raw string, limit int) string {
	digits := StripNonDigits(raw)
	if len(digits) > limit {
		return digits[:limit]
	}
	return digits
}

// formatMasked renders the digits of raw into mask. Input with more digits
// than the mask holds is returned untouched: formatting is abandoned, not
// truncated.
func formatMasked(raw, mask string) string {
	digits := StripNonDigits(raw)
	if len(digits) > MaskCapacity(mask) {
		return raw
	}
	return ApplyMask(digits, mask)
}

func MaskCapacity(mask string) int {
	return strings.Count(mask, string(maskDigitPlacehold))
}

func ApplyMask(digits, mask string) string {
	var b strings.Builder
	b.Grow(len(mask))

	next := 0
	for _, r := range mask {
		if next >= len(digits) {
			break
		}
		if r == maskDigitPlacehold {
			b.WriteByte(digits[next])
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

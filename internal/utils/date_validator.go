package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type DateFormat string

const (
	FormatISO8601Date DateFormat = "2006-01-02"
	FormatISO8601     DateFormat = "2006-01-02T15:04:05Z07:00"
	FormatRFC3339     DateFormat = "2006-01-02T15:04:05Z"
	FormatUSDate      DateFormat = "01/02/2006"
	FormatUSDashDate  DateFormat = "01-02-2006"
	FormatSlashISO    DateFormat = "2006/01/02"
	FormatMonthDay    DateFormat = "January 2, 2006"
	FormatShortMonth  DateFormat = "Jan 2, 2006"
)

var usDatePattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)

type DateValidator struct {
	supportedFormats []DateFormat
	standardFormat   DateFormat
}

type ValidationResult struct {
	IsValid        bool
	DetectedFormat DateFormat
	ParsedTime     time.Time
	StandardFormat string
	OriginalValue  string
}

// NewDateValidator accepts the formats a birth date arrives in from a date
// input or a pasted value. Results are normalized to YYYY-MM-DD.
func NewDateValidator() *DateValidator {
	return &DateValidator{
		supportedFormats: []DateFormat{
			FormatISO8601Date,
			FormatISO8601,
			FormatRFC3339,
			FormatUSDate,
			FormatUSDashDate,
			FormatSlashISO,
			FormatMonthDay,
			FormatShortMonth,
		},
		standardFormat: FormatISO8601Date,
	}
}

func (dv *DateValidator) ValidateAndConvert(input string) ValidationResult {
	result := ValidationResult{OriginalValue: input}

	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}

	for _, format := range dv.supportedFormats {
		parsedTime, err := time.Parse(string(format), input)
		if err != nil {
			if format == FormatUSDate || format == FormatUSDashDate {
				if padded, ok := padUSDate(input); ok {
					parsedTime, err = time.Parse(string(format), padded)
				}
			}
			if err != nil {
				continue
			}
		}

		result.IsValid = true
		result.DetectedFormat = format
		result.ParsedTime = parsedTime
		result.StandardFormat = parsedTime.Format(string(dv.standardFormat))
		return result
	}

	return result
}

// padUSDate rewrites 1/2/2006 as 01/02/2006 so single-digit month and day
// parse under the fixed-width layouts.
func padUSDate(input string) (string, bool) {
	matches := usDatePattern.FindStringSubmatch(input)
	if len(matches) < 4 {
		return "", false
	}

	month, _ := strconv.Atoi(matches[1])
	day, _ := strconv.Atoi(matches[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}

	separator := "/"
	if strings.Contains(input, "-") {
		separator = "-"
	}
	return strings.Join([]string{
		twoDigits(month),
		twoDigits(day),
		matches[3],
	}, separator), true
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

var defaultDateValidator = NewDateValidator()

// ParseDate parses a date in any supported format.
func ParseDate(input string) (time.Time, bool) {
	result := defaultDateValidator.ValidateAndConvert(input)
	return result.ParsedTime, result.IsValid
}

// NormalizeDate returns input as YYYY-MM-DD when it parses, otherwise the
// input unchanged.
func NormalizeDate(input string) string {
	result := defaultDateValidator.ValidateAndConvert(input)
	if !result.IsValid {
		return input
	}
	return result.StandardFormat
}

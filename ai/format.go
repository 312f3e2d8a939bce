package ai

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrFieldFormat is returned when a raw field value does not fit its formatter.
var ErrFieldFormat = errors.New("field format error")

// Formatter identifies how a raw field value is rendered.
type Formatter int

const (
	FormatNone Formatter = iota
	FormatDate
	FormatDateTime
	FormatDateTimeOptional
	FormatDateRange
	FormatFullDate
	FormatFullDateTime
	FormatDecimal
	FormatCurrency
	FormatCountryPrefix
	FormatCountryList
	FormatGCPSerial
	FormatCertification
	FormatGRAI
	FormatEnum
	FormatCoordinates
	FormatTemperature
)

var formatterNames = [...]string{
	FormatNone:             "none",
	FormatDate:             "date",
	FormatDateTime:         "date_time",
	FormatDateTimeOptional: "date_time_optional",
	FormatDateRange:        "date_range",
	FormatFullDate:         "full_date",
	FormatFullDateTime:     "full_date_time",
	FormatDecimal:          "decimal",
	FormatCurrency:         "currency",
	FormatCountryPrefix:    "country_prefix",
	FormatCountryList:      "country_list",
	FormatGCPSerial:        "gcp_serial",
	FormatCertification:    "certification",
	FormatGRAI:             "grai",
	FormatEnum:             "enum",
	FormatCoordinates:      "coordinates",
	FormatTemperature:      "temperature",
}

// String returns the table name of the formatter.
func (f Formatter) String() string {
	if f >= 0 && int(f) < len(formatterNames) {
		return formatterNames[f]
	}
	return "unknown"
}

// ParseFormatter maps a table name to a Formatter. The empty name is FormatNone.
func ParseFormatter(name string) (Formatter, error) {
	if name == "" {
		return FormatNone, nil
	}
	for i, n := range formatterNames {
		if n == name {
			return Formatter(i), nil
		}
	}
	return FormatNone, errors.Errorf("unknown format %q", name)
}

// EndOfMonth replaces a day of "00" in formatted dates.
const EndOfMonth = "end of month"

// Format renders raw according to the entry's formatter. A value that does not
// fit the formatter yields an error wrapping ErrFieldFormat.
func Format(e *Entry, raw string) (string, error) {
	v, err := format(e, raw)
	if err != nil {
		return "", errors.Wrapf(ErrFieldFormat, "ai %s value %q: %v", e.Code, raw, err)
	}
	return v + e.Unit, nil
}

func format(e *Entry, raw string) (string, error) {
	switch e.Format {
	case FormatNone:
		return raw, nil
	case FormatDate:
		return formatDate(raw)
	case FormatDateTime:
		return formatDateTime(raw)
	case FormatDateTimeOptional:
		return formatDateTimeOptional(raw)
	case FormatDateRange:
		return formatDateRange(raw)
	case FormatFullDate:
		return formatFullDate(raw)
	case FormatFullDateTime:
		return formatFullDateTime(raw)
	case FormatDecimal:
		return formatDecimal(raw, e.Decimals)
	case FormatCurrency:
		return formatCurrency(raw, e.Decimals)
	case FormatCountryPrefix:
		return splitAt(raw, 3, true)
	case FormatCountryList:
		return formatCountryList(raw)
	case FormatGCPSerial:
		return splitAt(raw, 13, false)
	case FormatCertification:
		return splitAt(raw, 2, false)
	case FormatGRAI:
		return splitAt(raw, 14, false)
	case FormatEnum:
		if p, ok := e.Phrases[raw]; ok {
			return p, nil
		}
		return "", errors.New("value not in enumeration")
	case FormatCoordinates:
		return formatCoordinates(raw)
	case FormatTemperature:
		return formatTemperature(raw)
	}
	return "", errors.Errorf("unsupported formatter %d", e.Format)
}

// formatDate renders YYMMDD as 20YY-MM-DD.
func formatDate(raw string) (string, error) {
	if len(raw) != 6 || !isDigits(raw) {
		return "", errors.New("date must be 6 digits")
	}
	return yymmdd(raw), nil
}

func yymmdd(d string) string {
	day := d[4:6]
	if day == "00" {
		day = EndOfMonth
	}
	return "20" + d[0:2] + "-" + d[2:4] + "-" + day
}

// formatDateTime renders YYMMDD followed by optional HH, MM and SS pairs.
func formatDateTime(raw string) (string, error) {
	if !isDigits(raw) {
		return "", errors.New("date/time must be digits")
	}
	switch len(raw) {
	case 6:
		return yymmdd(raw), nil
	case 8:
		return yymmdd(raw) + "-" + raw[6:8], nil
	case 10:
		return yymmdd(raw) + "-" + raw[6:8] + ":" + raw[8:10], nil
	case 12:
		return yymmdd(raw) + "-" + raw[6:8] + ":" + raw[8:10] + ":" + raw[10:12], nil
	}
	return "", errors.Errorf("date/time of length %d", len(raw))
}

// formatDateTimeOptional renders YYMMDDHHMM where "99" in the minute (and
// hour) position means the time part is not specified.
func formatDateTimeOptional(raw string) (string, error) {
	if len(raw) != 10 || !isDigits(raw) {
		return "", errors.New("date/time must be 10 digits")
	}
	hh, mm := raw[6:8], raw[8:10]
	switch {
	case mm == "99" && hh == "99":
		return yymmdd(raw), nil
	case mm == "99":
		return yymmdd(raw) + "-" + hh, nil
	}
	return yymmdd(raw) + "-" + hh + ":" + mm, nil
}

// formatDateRange renders a single harvest day or a YYMMDDYYMMDD period.
func formatDateRange(raw string) (string, error) {
	if !isDigits(raw) {
		return "", errors.New("date range must be digits")
	}
	switch len(raw) {
	case 6:
		return yymmdd(raw), nil
	case 12:
		return yymmdd(raw[:6]) + " to " + yymmdd(raw[6:]), nil
	}
	return "", errors.Errorf("date range of length %d", len(raw))
}

func formatFullDate(raw string) (string, error) {
	if len(raw) != 8 || !isDigits(raw) {
		return "", errors.New("date must be 8 digits")
	}
	return raw[0:4] + "-" + raw[4:6] + "-" + raw[6:8], nil
}

func formatFullDateTime(raw string) (string, error) {
	if len(raw) != 12 || !isDigits(raw) {
		return "", errors.New("date/time must be 12 digits")
	}
	return raw[0:4] + "-" + raw[4:6] + "-" + raw[6:8] + "-" + raw[8:10] + ":" + raw[10:12], nil
}

// formatDecimal inserts a decimal point before the last decimals digits and
// strips leading zeros from the integer part.
func formatDecimal(raw string, decimals int) (string, error) {
	if !isDigits(raw) {
		return "", errors.New("decimal value must be digits")
	}
	if decimals > len(raw) {
		return "", errors.Errorf("%d decimals in %d digits", decimals, len(raw))
	}
	split := len(raw) - decimals
	intPart := strings.TrimLeft(raw[:split], "0")
	if intPart == "" {
		intPart = "0"
	}
	if decimals == 0 {
		return intPart, nil
	}
	return intPart + "." + raw[split:], nil
}

// formatCurrency renders an ISO 4217 numeric currency code and an amount.
func formatCurrency(raw string, decimals int) (string, error) {
	if len(raw) < 4 {
		return "", errors.New("currency amount too short")
	}
	if !isDigits(raw[:3]) {
		return "", errors.New("currency code must be 3 digits")
	}
	amount, err := formatDecimal(raw[3:], decimals)
	if err != nil {
		return "", err
	}
	return raw[:3] + ":" + amount, nil
}

// splitAt joins a fixed-width prefix and the remainder with ":". When the
// remainder is empty the prefix alone is returned.
func splitAt(raw string, width int, numericPrefix bool) (string, error) {
	if len(raw) < width {
		return "", errors.Errorf("value shorter than %d", width)
	}
	if numericPrefix && !isDigits(raw[:width]) {
		return "", errors.New("prefix must be digits")
	}
	if len(raw) == width {
		return raw, nil
	}
	return raw[:width] + ":" + raw[width:], nil
}

// formatCountryList splits a run of ISO 3166 numeric codes.
func formatCountryList(raw string) (string, error) {
	if raw == "" || len(raw)%3 != 0 || !isDigits(raw) {
		return "", errors.New("country list must be groups of 3 digits")
	}
	codes := make([]string, 0, len(raw)/3)
	for i := 0; i < len(raw); i += 3 {
		codes = append(codes, raw[i:i+3])
	}
	return strings.Join(codes, ":"), nil
}

const (
	latitudeOffset  = 900000000
	longitudeOffset = 1800000000
	longitudeRange  = 3600000000
)

// formatCoordinates decodes two 10-digit fixed point values in units of 1e-7
// degrees: latitude = x - 90, longitude = (y + 180) mod 360 - 180.
func formatCoordinates(raw string) (string, error) {
	if len(raw) != 20 || !isDigits(raw) {
		return "", errors.New("coordinates must be 20 digits")
	}
	x, _ := strconv.ParseInt(raw[:10], 10, 64)
	y, _ := strconv.ParseInt(raw[10:], 10, 64)
	lat := x - latitudeOffset
	lon := (y+longitudeOffset)%longitudeRange - longitudeOffset
	return fixedPoint7(lat) + "," + fixedPoint7(lon), nil
}

func fixedPoint7(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	frac := strings.TrimRight(strconv.FormatInt(v%10000000+10000000, 10)[1:], "0")
	if frac == "" {
		return sign + strconv.FormatInt(v/10000000, 10)
	}
	return sign + strconv.FormatInt(v/10000000, 10) + "." + frac
}

// formatTemperature renders six digits with two implied decimals, optionally
// followed by "-" for a negative value.
func formatTemperature(raw string) (string, error) {
	sign := ""
	digits := raw
	if len(raw) == 7 {
		if raw[6] != '-' {
			return "", errors.New("temperature sign must be '-'")
		}
		sign = "-"
		digits = raw[:6]
	}
	if len(digits) != 6 {
		return "", errors.New("temperature must be 6 digits")
	}
	v, err := formatDecimal(digits, 2)
	if err != nil {
		return "", err
	}
	return sign + v, nil
}

package transform

import (
	"strconv"
	"strings"
)

// SSN holds the 3/2/4 digit groups of a social security number.
type SSN struct {
	Area   string
	Group  string
	Serial string
}

// SplitSSN removes dashes and spaces and slices the result positionally into
// 3/2/4 parts. A digit count other than nine still yields the positional
// slices (short inputs leave trailing parts empty) plus a warning.
func SplitSSN(raw string) (SSN, *Warning) {
	clean := strings.NewReplacer("-", "", " ", "").Replace(raw)
	parts := SSN{
		Area:   slice(clean, 0, 3),
		Group:  slice(clean, 3, 5),
		Serial: slice(clean, 5, 9),
	}
	if n := len([]rune(clean)); n != 9 {
		return parts, warn(CodeSSNLength, raw, "SSN should be 9 digits, got %d", n)
	}
	return parts, nil
}

// Phone holds the 3/3/4 digit groups of a ten digit phone number.
type Phone struct {
	Area     string
	Exchange string
	Line     string
}

// SplitPhone keeps only digits; anything but ten digits is right-padded with
// '0' and truncated to ten before slicing.
func SplitPhone(raw string) (Phone, *Warning) {
	clean := digits(raw)
	var w *Warning
	if n := len(clean); n != 10 {
		w = warn(CodePhoneLength, raw, "phone should be 10 digits, got %d", n)
		clean = padRight(clean, 10, '0')[:10]
	}
	return Phone{
		Area:     clean[0:3],
		Exchange: clean[3:6],
		Line:     clean[6:10],
	}, w
}

// Date holds zero-padded month and day and a four digit year.
type Date struct {
	Month string
	Day   string
	Year  string
}

// SentinelDate is returned for dates that cannot be parsed.
var SentinelDate = Date{Month: "01", Day: "01", Year: "1970"}

// yearPivot splits two digit years: values above it belong to the 1900s,
// the rest to the 2000s.
const yearPivot = 50

// SplitDate accepts "/" or "-" separated dates in month/day/year order, or
// year-month-day when the first part has four digits. Two digit years are
// expanded around the pivot. Anything else returns SentinelDate and a
// warning.
func SplitDate(raw string) (Date, *Warning) {
	trimmed := strings.TrimSpace(raw)
	var sep string
	switch {
	case strings.Contains(trimmed, "/"):
		sep = "/"
	case strings.Contains(trimmed, "-"):
		sep = "-"
	default:
		return SentinelDate, warn(CodeDateFormat, raw, "unrecognized date format %q", raw)
	}

	parts := strings.Split(trimmed, sep)
	if len(parts) != 3 {
		return SentinelDate, warn(CodeDateFormat, raw, "invalid date format %q", raw)
	}
	month, day, year := parts[0], parts[1], parts[2]
	if len(month) == 4 {
		year, month, day = parts[0], parts[1], parts[2]
	}

	m, okMonth := number(month, 1, 2)
	d, okDay := number(day, 1, 2)
	if !okMonth || !okDay || m < 1 || m > 12 || d < 1 || d > 31 {
		return SentinelDate, warn(CodeDateFormat, raw, "invalid month or day in %q", raw)
	}

	y, okYear := number(year, 2, 4)
	if !okYear || len(year) == 3 {
		return SentinelDate, warn(CodeDateFormat, raw, "invalid year in %q", raw)
	}
	if len(year) == 2 {
		if y > yearPivot {
			y += 1900
		} else {
			y += 2000
		}
	}

	return Date{
		Month: padLeft(strconv.Itoa(m), 2, '0'),
		Day:   padLeft(strconv.Itoa(d), 2, '0'),
		Year:  strconv.Itoa(y),
	}, nil
}

// ZIP holds the five digit ZIP code and the optional +4 extension.
type ZIP struct {
	Zip5 string
	Zip4 string
}

// SplitZIP keeps only digits. Fewer than five digits are right-padded with
// '0' (no extension); otherwise the first five digits form Zip5 and the next
// up to four form Zip4. Digits beyond nine are dropped with a warning.
func SplitZIP(raw string) (ZIP, *Warning) {
	clean := digits(raw)
	switch n := len(clean); {
	case n < 5:
		return ZIP{Zip5: padRight(clean, 5, '0')}, warn(CodeZIPLength, raw, "ZIP code too short: %d digits", n)
	case n > 9:
		return ZIP{Zip5: clean[:5], Zip4: clean[5:9]}, warn(CodeZIPLength, raw, "ZIP code too long: %d digits", n)
	default:
		return ZIP{Zip5: clean[:5], Zip4: clean[5:]}, nil
	}
}

// Overflow is a value divided across two physical fields.
type Overflow struct {
	// Remainder goes into the first sub-field.
	Remainder string
	// Chunk holds the leading characters and goes into the second sub-field.
	Chunk string
}

// SplitOverflow divides s for a layout where the second sub-field shows the
// first firstChunkLen characters and the first sub-field shows the rest.
// The reversed placement is a quirk of the target form, not a general rule.
// Values that fit entirely land in Chunk with an empty Remainder. Lengths
// are counted in characters.
func SplitOverflow(s string, firstChunkLen int) Overflow {
	runes := []rune(s)
	if firstChunkLen < 0 {
		firstChunkLen = 0
	}
	if len(runes) <= firstChunkLen {
		return Overflow{Chunk: s}
	}
	return Overflow{
		Remainder: string(runes[firstChunkLen:]),
		Chunk:     string(runes[:firstChunkLen]),
	}
}

func digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func number(raw string, minLen, maxLen int) (int, bool) {
	if len(raw) < minLen || len(raw) > maxLen {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

// slice clamps out-of-range bounds and counts characters, not bytes.
func slice(s string, start, end int) string {
	runes := []rune(s)
	if start >= len(runes) {
		return ""
	}
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

func padRight(s string, width int, pad byte) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(string(pad), width-len(s))
}

func padLeft(s string, width int, pad byte) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(string(pad), width-len(s)) + s
}

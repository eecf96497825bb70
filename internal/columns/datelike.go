package columns

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// EpochThreshold is 1990-01-01T00:00:00Z in Unix seconds. Numeric cells above
// it are taken to be timestamps rather than small metric values.
const EpochThreshold = 631152000

// dateLayouts are the calendar formats recognized in non-numeric cells.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"01/02/2006 03:04 PM",
	"01/02/2006 03:04:05 PM",
	"2006/01/02 15:04",
	"2006/01/02 15:04:05",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
}

// Detector guesses which columns hold dates by sampling one row.
type Detector struct {
	// Threshold is the numeric value above which a cell counts as a timestamp.
	Threshold float64
	// Layouts are tried in addition to the built-in calendar formats.
	Layouts []string
}

// DefaultDetector uses EpochThreshold and only the built-in layouts.
func DefaultDetector() Detector {
	return Detector{Threshold: EpochThreshold}
}

// DetectDateLikeColumns runs the default detector.
func DetectDateLikeColumns(header []string, firstRow map[string]string) []string {
	return DefaultDetector().Detect(header, firstRow)
}

// Detect returns the header columns whose firstRow value looks like a date,
// in header order. A column missing from firstRow is never date-like.
func (d Detector) Detect(header []string, firstRow map[string]string) []string {
	out := make([]string, 0, len(header))
	for _, h := range header {
		v, ok := firstRow[h]
		if !ok {
			continue
		}
		if d.IsDateLike(v) {
			out = append(out, h)
		}
	}
	return out
}

// IsDateLike classifies one cell value.
func (d Detector) IsDateLike(value string) bool {
	if n, ok := parseNumber(value); ok {
		return n > d.Threshold
	}
	_, ok := d.parseDate(value)
	return ok
}

func (d Detector) parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range d.Layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber reads a cell the way spreadsheet uploads are usually coerced:
// surrounding whitespace is ignored, a blank cell is 0, 0x/0o/0b prefixes
// are integers and only the exact spelling "Infinity" is infinite.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	// a sign may not precede a radix prefix
	if len(s) > 3 && (s[0] == '+' || s[0] == '-') && s[1] == '0' && strings.ContainsRune("xXoObB", rune(s[2])) {
		return 0, false
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(u), true
		}
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(s, "_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

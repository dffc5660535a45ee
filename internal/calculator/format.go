package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSide is returned for empty, non-numeric or non-positive input.
var ErrInvalidSide = errors.New("side must be a positive number")

// ParseSide validates the raw side input.
func ParseSide(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidSide
	}

	side, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrInvalidSide
	}
	if math.IsNaN(side) || math.IsInf(side, 0) || side <= 0 {
		return 0, ErrInvalidSide
	}
	return side, nil
}

// FormatNumber prints f the way a browser prints a number: shortest
// round-trip digits, exponent form only for very large or tiny values.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go pads the exponent to two digits; browsers do not.
		s = strings.Replace(s, "e+0", "e+", 1)
		s = strings.Replace(s, "e-0", "e-", 1)
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

const invalidDate = "Invalid Date"

// Timestamps without an offset are read in loc.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// FormatTime renders an API timestamp as a time of day, e.g. "3:04:05 PM".
func FormatTime(raw string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return t.In(loc).Format("3:04:05 PM")
		}
	}
	return invalidDate
}

func areaText(area float64, id *int64) string {
	text := "Area: " + FormatNumber(area)
	if id != nil {
		text += " (Saved as #" + strconv.FormatInt(*id, 10) + ")"
	}
	return text
}

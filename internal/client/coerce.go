package client

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	millisThreshold  = 1e12
	secondsThreshold = 1e9

	// Largest spreadsheet serial day (9999-12-31).
	maxSerialDay = 2958465
	// maxEpochMillis bounds valid instants to ±1e8 days around the epoch.
	maxEpochMillis = 8.64e15
)

// Layouts tried, in order, when a timestamp arrives as text. Parsing is done
// in UTC; month-first is assumed for slash dates.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"2006/1/2",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"Mon Jan 2 2006",
	"20060102",
}

// ToStringList coerces v into a list of non-empty trimmed strings. Strings
// are split on commas. It returns nil when nothing usable remains.
func ToStringList(v any) []string {
	if IsEmpty(v) {
		return nil
	}

	var parts []string
	switch x := v.(type) {
	case string:
		parts = strings.Split(x, ",")
	case []string:
		parts = x
	case []any:
		parts = make([]string, len(x))
		for i, e := range x {
			parts[i] = Stringify(e)
		}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			parts = make([]string, rv.Len())
			for i := range parts {
				parts[i] = Stringify(rv.Index(i).Interface())
			}
		} else {
			parts = []string{Stringify(v)}
		}
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ToIdentifierString renders integral numbers without a fractional part or
// exponent so that 123.0 becomes "123". Go integers are formatted exactly.
// Anything else is stringified.
func ToIdentifierString(v any) string {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(x).Int(), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(x).Uint(), 10)
	}
	if f, ok := asFloat(v); ok && !math.IsInf(f, 0) && f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return Stringify(v)
}

// ToEpochMillis converts v to milliseconds since the Unix epoch. Numbers
// above 1e12 are taken as milliseconds, above 1e9 as seconds. Smaller
// positive numbers are read as spreadsheet serial days. Text is parsed as a
// number first and then against the known layouts. The bool is false when v
// cannot be interpreted.
func ToEpochMillis(v any) (int64, bool) {
	if IsEmpty(v) {
		return 0, false
	}

	switch x := v.(type) {
	case time.Time:
		return x.UnixMilli(), true
	case string:
		return parseTimestamp(strings.TrimSpace(x))
	}
	if f, ok := asFloat(v); ok {
		if ms, ok := fromNumber(f); ok {
			return ms, true
		}
		if f == math.Trunc(f) && math.Abs(f) < maxEpochMillis {
			return parseTimestamp(formatFloat(f))
		}
		return 0, false
	}
	return parseTimestamp(strings.TrimSpace(Stringify(v)))
}

func fromNumber(f float64) (int64, bool) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, false
	case f > maxEpochMillis:
		return 0, false
	case f > millisThreshold:
		return int64(f), true
	case f > secondsThreshold:
		return int64(f * 1000), true
	case f >= 1 && f <= maxSerialDay:
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return 0, false
		}
		return t.UnixMilli(), true
	}
	return 0, false
}

func parseTimestamp(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if ms, ok := fromNumber(f); ok {
			return ms, true
		}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// TokenSet is a case-insensitive set of affirmative flag spellings.
type TokenSet map[string]struct{}

// NewTokenSet builds a set from tokens, lower-cased and trimmed.
func NewTokenSet(tokens ...string) TokenSet {
	s := make(TokenSet, len(tokens))
	for _, t := range tokens {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			s[t] = struct{}{}
		}
	}
	return s
}

// Contains reports whether the lower-cased, trimmed string form of v is in
// the set. Empty values are never contained.
func (s TokenSet) Contains(v any) bool {
	if IsEmpty(v) {
		return false
	}
	_, ok := s[strings.ToLower(strings.TrimSpace(Stringify(v)))]
	return ok
}

// Tokens returns the set members in no particular order.
func (s TokenSet) Tokens() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	return out
}

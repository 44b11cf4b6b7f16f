package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Well known record fields.
const (
	FieldID        = "id"
	FieldTimestamp = "@timestamp"
	FieldAttrs     = "attrs"
	FieldAttrsInt  = "attrsint"
)

// DocumentType is the _type written in every bulk action line.
const DocumentType = "api"

// indexDateLayout renders as YYYY.MM.DD.
const indexDateLayout = "2006.01.02"

// Record is one request/response record. Keys are field names.
type Record map[string]any

// ID returns the record id, or "" when it is absent or not a string.
func (r Record) ID() string {
	switch v := r[FieldID].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return StringValue(v)
	}
}

// Preprocess coerces custom attributes in place: values under attrs become
// strings and values under attrsint become numbers.
func Preprocess(r Record) {
	switch attrs := r[FieldAttrs].(type) {
	case map[string]any:
		for k, v := range attrs {
			attrs[k] = StringValue(v)
		}
	case Record:
		for k, v := range attrs {
			attrs[k] = StringValue(v)
		}
	}

	switch attrs := r[FieldAttrsInt].(type) {
	case map[string]any:
		for k, v := range attrs {
			attrs[k] = NumValue(v)
		}
	case Record:
		for k, v := range attrs {
			attrs[k] = NumValue(v)
		}
	case map[string]string:
		// A string map cannot hold numbers, so it is swapped for a coerced copy.
		coerced := make(map[string]any, len(attrs))
		for k, v := range attrs {
			coerced[k] = NumValue(v)
		}
		r[FieldAttrsInt] = coerced
	}
}

// StringValue renders v the way attrs values are stored.
// nil becomes "", numbers use their shortest decimal form, bools are
// "true"/"false" and everything else is compact JSON.
func StringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", t)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// NumValue converts v to the number stored under attrsint.
// Anything that does not hold a finite number becomes 0.
func NumValue(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int8:
		f = float64(t)
	case int16:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint8:
		f = float64(t)
	case uint16:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case bool:
		if t {
			f = 1
		}
	case json.Number:
		f, _ = strconv.ParseFloat(t.String(), 64)
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(t), 64)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"2006-01",
	"2006",
}

// maxEpochMillis is the largest magnitude a JavaScript Date accepts.
const maxEpochMillis = 8.64e15

// ParseTimestamp interprets v as a point in time. Strings are tried as
// ISO-8601 first and then as epoch milliseconds; numbers are epoch
// milliseconds. Layouts without a zone are read as UTC. A bare four digit
// string is a year. Times whose UTC year falls outside 0..9999 are
// rejected, since they cannot name a daily index.
func ParseTimestamp(v any) (time.Time, bool) {
	ts, ok := parseTimestamp(v)
	if !ok {
		return time.Time{}, false
	}
	if y := ts.UTC().Year(); y < 0 || y > 9999 {
		return time.Time{}, false
	}
	return ts, true
}

func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
		if ms, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpochMillis(ms)
		}
		return time.Time{}, false
	case json.Number:
		ms, err := t.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpochMillis(ms)
	case float64:
		return fromEpochMillis(t)
	case int64:
		return fromEpochMillis(float64(t))
	case int:
		return fromEpochMillis(float64(t))
	}
	return time.Time{}, false
}

func fromEpochMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

// IndexName returns prefix followed by the UTC date of ts as YYYY.MM.DD.
func IndexName(prefix string, ts time.Time) string {
	return prefix + ts.UTC().Format(indexDateLayout)
}

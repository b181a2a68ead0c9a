package directory

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxReviewCount bounds reviewCount so it fits an int on every platform.
const MaxReviewCount = math.MaxInt32

// Normalize fills every missing or malformed field of raw with its storage
// default. It never fails.
func Normalize(raw RawRecord) Doctor {
	d := Doctor{
		ID:             stringField(raw, FieldID),
		Name:           stringField(raw, FieldName),
		Specialty:      stringField(raw, FieldSpecialty),
		City:           stringField(raw, FieldCity),
		Address:        stringField(raw, FieldAddress),
		Email:          stringField(raw, FieldEmail),
		Phone:          stringField(raw, FieldPhone),
		ProfilePicture: stringField(raw, FieldProfilePicture),
		Bio:            stringField(raw, FieldBio),
		AvailableDays:  daysField(raw, FieldAvailableDays),
		IsAvailable:    boolField(raw, FieldIsAvailable, true),
		Suspended:      boolField(raw, FieldSuspended, false),
		CreatedAt:      timestampField(raw, FieldCreatedAt),
	}
	d.Latitude, _ = floatField(raw, FieldLatitude)
	d.Longitude, _ = floatField(raw, FieldLongitude)
	d.Rating, d.RatingKnown = floatField(raw, FieldRating)

	d.ReviewCount, d.ReviewCountKnown = ParseCount(raw[FieldReviewCount])
	return d
}

// NormalizeDisplay is Normalize followed by Display.
func NormalizeDisplay(raw RawRecord) Doctor {
	return Normalize(raw).Display()
}

// Display returns a copy with empty text fields replaced by UI placeholders.
// The result is meant for rendering only and must not be written back.
func (d Doctor) Display() Doctor {
	d.Name = placeholder(d.Name, NotAvailable)
	d.Specialty = placeholder(d.Specialty, Unspecified)
	d.City = placeholder(d.City, Unspecified)
	d.Address = placeholder(d.Address, NotAvailable)
	d.Email = placeholder(d.Email, NotAvailable)
	d.Phone = placeholder(d.Phone, NotAvailable)
	if d.AvailableDays != nil {
		d.AvailableDays = append([]string(nil), d.AvailableDays...)
	}
	return d
}

// NormalizeAll normalizes a whole store listing, keeping its order.
func NormalizeAll(raws []RawRecord) []Doctor {
	out := make([]Doctor, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

func placeholder(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func stringField(raw RawRecord, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func floatField(raw RawRecord, key string) (float64, bool) {
	return ParseNumber(raw[key])
}

// ParseNumber accepts JSON and Go numbers and numeric strings. NaN and the
// infinities are rejected.
func ParseNumber(v interface{}) (float64, bool) {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseCount accepts a whole, non-negative number no larger than
// MaxReviewCount.
func ParseCount(v interface{}) (int, bool) {
	n, ok := ParseNumber(v)
	if !ok || n < 0 || n > MaxReviewCount || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}

// ParseBool accepts booleans and the strings understood by strconv.ParseBool.
func ParseBool(v interface{}) (bool, bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b, true
		}
	}
	return false, false
}

func boolField(raw RawRecord, key string, def bool) bool {
	if b, ok := ParseBool(raw[key]); ok {
		return b
	}
	return def
}

func daysField(raw RawRecord, key string) []string {
	days := []string{}
	seen := map[string]bool{}
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			days = append(days, s)
		}
	}
	switch v := raw[key].(type) {
	case []string:
		for _, s := range v {
			add(s)
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	}
	return days
}

func timestampField(raw RawRecord, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.UTC().Format(time.RFC3339Nano)
	}
	return ""
}

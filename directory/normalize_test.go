package directory

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func TestNormalize_Defaults(t *testing.T) {
	d := Normalize(RawRecord{})

	if d.Name != "" || d.Specialty != "" || d.City != "" {
		t.Errorf("expected empty text fields, got %+v", d)
	}
	if d.Latitude != 0 || d.Longitude != 0 {
		t.Errorf("expected zero coordinates, got %v,%v", d.Latitude, d.Longitude)
	}
	if d.Rating != 0 || d.RatingKnown {
		t.Errorf("expected defaulted rating, got %v known=%v", d.Rating, d.RatingKnown)
	}
	if d.ReviewCount != 0 || d.ReviewCountKnown {
		t.Errorf("expected defaulted review count, got %v known=%v", d.ReviewCount, d.ReviewCountKnown)
	}
	if d.AvailableDays == nil || len(d.AvailableDays) != 0 {
		t.Errorf("expected empty non-nil available days, got %#v", d.AvailableDays)
	}
	if !d.IsAvailable {
		t.Error("expected isAvailable to default to true")
	}
	if d.Suspended {
		t.Error("expected suspended to default to false")
	}
}

func TestNormalize_IsTotal(t *testing.T) {
	inputs := []RawRecord{
		nil,
		{},
		{"name": nil, "rating": nil, "availableDays": nil},
		{"name": 42, "rating": "abc", "reviewCount": []int{1}, "isAvailable": "maybe"},
		{"rating": math.NaN(), "latitude": math.Inf(1), "createdAt": 12},
		{"availableDays": []interface{}{1, "Monday", nil, "Monday"}},
	}
	for i, raw := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("input %d: normalize panicked: %v", i, r)
				}
			}()
			d := Normalize(raw)
			if !d.IsAvailable {
				t.Errorf("input %d: expected isAvailable default true", i)
			}
			if d.AvailableDays == nil {
				t.Errorf("input %d: expected non-nil available days", i)
			}
		}()
	}
}

func TestNormalize_ParsesValues(t *testing.T) {
	raw := RawRecord{
		"id":            "doc1",
		"name":          "Dr. Sarah Johnson",
		"specialty":     "Cardiology",
		"city":          "New York",
		"latitude":      40.7128,
		"longitude":     json.Number("-74.006"),
		"rating":        "4.8",
		"reviewCount":   float64(156),
		"availableDays": []interface{}{"Monday", "Tuesday", "Monday"},
		"isAvailable":   false,
		"suspended":     true,
		"createdAt":     "2026-03-01T10:00:00Z",
	}
	d := Normalize(raw)

	if d.ID != "doc1" || d.Name != "Dr. Sarah Johnson" {
		t.Errorf("unexpected identity fields: %+v", d)
	}
	if d.Longitude != -74.006 {
		t.Errorf("expected longitude -74.006, got %v", d.Longitude)
	}
	if d.Rating != 4.8 || !d.RatingKnown {
		t.Errorf("expected rating 4.8 known, got %v %v", d.Rating, d.RatingKnown)
	}
	if d.ReviewCount != 156 || !d.ReviewCountKnown {
		t.Errorf("expected 156 reviews known, got %v %v", d.ReviewCount, d.ReviewCountKnown)
	}
	if len(d.AvailableDays) != 2 {
		t.Errorf("expected duplicate days collapsed, got %v", d.AvailableDays)
	}
	if d.IsAvailable || !d.Suspended {
		t.Errorf("expected unavailable and suspended, got %v %v", d.IsAvailable, d.Suspended)
	}
	if d.CreatedAt != "2026-03-01T10:00:00Z" {
		t.Errorf("unexpected createdAt %q", d.CreatedAt)
	}
}

func TestNormalize_NegativeReviewCountDefaults(t *testing.T) {
	d := Normalize(RawRecord{"reviewCount": -3})
	if d.ReviewCount != 0 || d.ReviewCountKnown {
		t.Errorf("expected negative review count to default, got %v %v", d.ReviewCount, d.ReviewCountKnown)
	}
}

func TestNormalize_ReviewCountOutOfRangeDefaults(t *testing.T) {
	for _, v := range []interface{}{1e30, float64(MaxReviewCount) + 1, "9223372036854775808", 12.5} {
		d := Normalize(RawRecord{"reviewCount": v})
		if d.ReviewCount != 0 || d.ReviewCountKnown {
			t.Errorf("%v: expected review count to default, got %v %v", v, d.ReviewCount, d.ReviewCountKnown)
		}
	}

	s := Summarize([]Doctor{Normalize(RawRecord{"reviewCount": 1e30}), Normalize(RawRecord{"reviewCount": 5})})
	if s.TotalReviews != 5 {
		t.Errorf("expected total reviews 5, got %d", s.TotalReviews)
	}
	if row := CSV([]Doctor{Normalize(RawRecord{"name": "X", "rating": 4, "reviewCount": 1e30})}); !strings.HasSuffix(row, `"X","","",4.0,N/A,Yes,No`) {
		t.Errorf("unexpected csv %q", row)
	}
}

func TestNormalize_ReviewCountUpperBound(t *testing.T) {
	d := Normalize(RawRecord{"reviewCount": float64(MaxReviewCount)})
	if d.ReviewCount != MaxReviewCount || !d.ReviewCountKnown {
		t.Errorf("expected %d known, got %v %v", MaxReviewCount, d.ReviewCount, d.ReviewCountKnown)
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in     interface{}
		want   bool
		wantOK bool
	}{
		{true, true, true},
		{"false", false, true},
		{" TRUE ", true, true},
		{"maybe", false, false},
		{1, false, false},
		{nil, false, false},
	}
	for _, tt := range tests {
		got, ok := ParseBool(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%v: expected %v,%v got %v,%v", tt.in, tt.want, tt.wantOK, got, ok)
		}
	}
}

func TestNormalize_TimeCreatedAt(t *testing.T) {
	ts := time.Date(2026, time.May, 2, 8, 30, 0, 0, time.UTC)
	d := Normalize(RawRecord{"createdAt": ts})
	if d.CreatedAt != "2026-05-02T08:30:00Z" {
		t.Errorf("unexpected createdAt %q", d.CreatedAt)
	}
}

func TestNormalizeDisplay_Placeholders(t *testing.T) {
	d := NormalizeDisplay(RawRecord{"email": "a@b.c"})

	want := map[string]string{
		"name":      NotAvailable,
		"specialty": Unspecified,
		"city":      Unspecified,
		"address":   NotAvailable,
		"phone":     NotAvailable,
		"email":     "a@b.c",
	}
	got := map[string]string{
		"name":      d.Name,
		"specialty": d.Specialty,
		"city":      d.City,
		"address":   d.Address,
		"phone":     d.Phone,
		"email":     d.Email,
	}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("%s: expected %q, got %q", k, w, got[k])
		}
	}
}

func TestDisplay_DoesNotTouchStorageValue(t *testing.T) {
	d := Normalize(RawRecord{})
	_ = d.Display()
	if d.Name != "" {
		t.Errorf("display leaked into the stored value: %q", d.Name)
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	d := Normalize(RawRecord{
		"name":          "Dr. A",
		"rating":        4.5,
		"availableDays": []interface{}{"Friday"},
		"createdAt":     "2026-01-01T00:00:00Z",
	})
	back := Normalize(d.Record())

	if back.Name != "Dr. A" || back.Rating != 4.5 || back.CreatedAt != d.CreatedAt {
		t.Errorf("round trip lost data: %+v", back)
	}
	if len(back.AvailableDays) != 1 || back.AvailableDays[0] != "Friday" {
		t.Errorf("round trip lost days: %v", back.AvailableDays)
	}
	if _, ok := d.Record()[FieldID]; ok {
		t.Error("record must not carry the id")
	}
}

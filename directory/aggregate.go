package directory

import (
	"sort"
	"strings"
	"time"
)

// GroupKey selects the field records are grouped by.
type GroupKey string

const (
	BySpecialty GroupKey = "specialty"
	ByCity      GroupKey = "city"
)

// Group is one bucket of an aggregate view.
type Group struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// GroupBy counts records per key value in a single pass. Records without a
// value land in the Unspecified bucket. Groups are ordered by count, larger
// first; equal counts keep the order in which the groups were first seen.
func GroupBy(doctors []Doctor, key GroupKey) []Group {
	index := map[string]int{}
	groups := []Group{}
	for _, d := range doctors {
		name := bucketName(groupValue(d, key))
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Value++
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Value > groups[b].Value
	})
	return groups
}

// bucketName is the group a value is counted under.
func bucketName(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return Unspecified
	}
	return v
}

func groupValue(d Doctor, key GroupKey) string {
	switch key {
	case BySpecialty:
		return d.Specialty
	case ByCity:
		return d.City
	}
	return ""
}

// TopN returns at most the first n groups.
func TopN(groups []Group, n int) []Group {
	if n < 0 {
		n = 0
	}
	if len(groups) <= n {
		return groups
	}
	return groups[:n]
}

// Summary holds the dashboard statistics over an unfiltered list.
type Summary struct {
	Total         int      `json:"total"`
	Active        int      `json:"active"`
	Suspended     int      `json:"suspended"`
	AverageRating *float64 `json:"averageRating"`
	TotalReviews  int      `json:"totalReviews"`
	Specialties   int      `json:"specialties"`
	Cities        int      `json:"cities"`
	TopRated      *Doctor  `json:"topRated"`
}

// Summarize computes the summary statistics. AverageRating and TopRated are
// nil for an empty list.
func Summarize(doctors []Doctor) Summary {
	s := Summary{Total: len(doctors)}
	specialties := map[string]bool{}
	cities := map[string]bool{}
	var ratingSum float64
	for _, d := range doctors {
		if d.Active() {
			s.Active++
		}
		if d.Suspended {
			s.Suspended++
		}
		ratingSum += d.Rating
		s.TotalReviews += d.ReviewCount
		specialties[placeholder(d.Specialty, Unspecified)] = true
		cities[placeholder(d.City, Unspecified)] = true
	}
	s.Specialties = len(specialties)
	s.Cities = len(cities)
	if s.Total > 0 {
		avg := ratingSum / float64(s.Total)
		s.AverageRating = &avg
	}
	s.TopRated = TopRated(doctors)
	return s
}

// TopRated returns the doctor with the highest rating. The first maximal
// record wins ties.
func TopRated(doctors []Doctor) *Doctor {
	if len(doctors) == 0 {
		return nil
	}
	best := doctors[0]
	for _, d := range doctors[1:] {
		if d.Rating > best.Rating {
			best = d
		}
	}
	return &best
}

// Status buckets used by the reports page.
const (
	StatusActive      = "Active"
	StatusUnavailable = "Unavailable"
	StatusSuspended   = "Suspended"
)

// StatusBreakdown counts doctors per display state. Suspension takes
// precedence, so the three buckets partition the list.
func StatusBreakdown(doctors []Doctor) []Group {
	var active, unavailable, suspended int
	for _, d := range doctors {
		switch {
		case d.Suspended:
			suspended++
		case d.IsAvailable:
			active++
		default:
			unavailable++
		}
	}
	return []Group{
		{Name: StatusActive, Value: active},
		{Name: StatusUnavailable, Value: unavailable},
		{Name: StatusSuspended, Value: suspended},
	}
}

// Locations returns the distinct non-empty cities in first-seen order.
func Locations(doctors []Doctor) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, d := range doctors {
		if d.City == "" || seen[d.City] {
			continue
		}
		seen[d.City] = true
		out = append(out, d.City)
	}
	return out
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseCreatedAt parses the ISO-8601 timestamps found in stored documents.
func ParseCreatedAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthlyRegistrations buckets doctors by the month of createdAt, limited to
// the calendar year of now. All twelve months are returned. Doctors with a
// missing or unparsable createdAt are skipped.
func MonthlyRegistrations(doctors []Doctor, now time.Time) []Group {
	months := make([]Group, 12)
	for i := range months {
		months[i].Name = time.Month(i + 1).String()[:3]
	}
	for _, d := range doctors {
		t, ok := ParseCreatedAt(d.CreatedAt)
		if !ok {
			continue
		}
		t = t.In(now.Location())
		if t.Year() != now.Year() {
			continue
		}
		months[t.Month()-1].Value++
	}
	return months
}

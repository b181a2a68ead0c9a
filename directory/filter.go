package directory

import (
	"fmt"
	"strings"
)

// Sentinels meaning "no filter". They can never collide with a real value
// because stored specialties and cities are never equal to them.
const (
	AllSpecialties = "all"
	AllCities      = "all"
)

// Availability is the availability filter state.
type Availability string

const (
	AvailabilityAll         Availability = "all"
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
	AvailabilitySuspended   Availability = "suspended"
)

// ParseAvailability maps a query value onto an Availability. The empty string
// means no filter.
func ParseAvailability(s string) (Availability, error) {
	switch a := Availability(strings.ToLower(strings.TrimSpace(s))); a {
	case "", AvailabilityAll:
		return AvailabilityAll, nil
	case AvailabilityAvailable, AvailabilityUnavailable, AvailabilitySuspended:
		return a, nil
	}
	return "", fmt.Errorf("unknown availability filter %q", s)
}

// Filter combines the free-text search with the categorical filters.
type Filter struct {
	Search       string
	Specialty    string
	City         string
	Availability Availability
}

// NoFilter returns a Filter that matches every record.
func NoFilter() Filter {
	return Filter{
		Specialty:    AllSpecialties,
		City:         AllCities,
		Availability: AvailabilityAll,
	}
}

// Match reports whether d satisfies all criteria of f.
func (f Filter) Match(d Doctor) bool {
	return f.matchSearch(d) && f.matchSpecialty(d) && f.matchCity(d) && f.matchAvailability(d)
}

func (f Filter) matchSearch(d Doctor) bool {
	term := strings.ToLower(f.Search)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Name), term) ||
		strings.Contains(strings.ToLower(d.Email), term) ||
		strings.Contains(strings.ToLower(d.City), term)
}

func (f Filter) matchSpecialty(d Doctor) bool {
	return f.Specialty == AllSpecialties || matchValue(d.Specialty, f.Specialty)
}

func (f Filter) matchCity(d Doctor) bool {
	return f.City == AllCities || matchValue(d.City, f.City)
}

// matchValue compares exactly, except that Unspecified selects the records
// GroupBy counts in its Unspecified bucket.
func matchValue(v, want string) bool {
	if want == Unspecified {
		return bucketName(v) == Unspecified
	}
	return v == want
}

// Suspension wins over availability, so a suspended doctor only ever matches
// the suspended filter.
func (f Filter) matchAvailability(d Doctor) bool {
	switch f.Availability {
	case AvailabilityAll:
		return true
	case AvailabilityAvailable:
		return d.IsAvailable && !d.Suspended
	case AvailabilityUnavailable:
		return !d.IsAvailable && !d.Suspended
	case AvailabilitySuspended:
		return d.Suspended
	}
	return false
}

// Apply returns the records matching f, in input order.
func Apply(doctors []Doctor, f Filter) []Doctor {
	out := make([]Doctor, 0, len(doctors))
	for _, d := range doctors {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

// Package directory holds the doctor directory logic shared by every endpoint:
// normalization of raw store documents, the filter predicate, grouping and
// summary statistics, and CSV serialization.
package directory

// RawRecord is a doctor document as it comes out of (or goes into) the store.
// Any field may be missing, null or of an unexpected type.
type RawRecord map[string]interface{}

// Field names used in stored documents.
const (
	FieldID             = "id"
	FieldName           = "name"
	FieldSpecialty      = "specialty"
	FieldCity           = "city"
	FieldAddress        = "address"
	FieldEmail          = "email"
	FieldPhone          = "phone"
	FieldLatitude       = "latitude"
	FieldLongitude      = "longitude"
	FieldProfilePicture = "profilePicture"
	FieldBio            = "bio"
	FieldRating         = "rating"
	FieldReviewCount    = "reviewCount"
	FieldAvailableDays  = "availableDays"
	FieldIsAvailable    = "isAvailable"
	FieldSuspended      = "suspended"
	FieldCreatedAt      = "createdAt"
)

// CreatedAtLayout is ISO-8601 with milliseconds, as written for new records.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// RequiredFields must be present and non-empty on create.
var RequiredFields = []string{FieldName, FieldSpecialty, FieldEmail, FieldPhone, FieldCity, FieldAddress}

// Specialties is the fixed list offered by the doctor form and the filters.
var Specialties = []string{
	"Cardiology",
	"Dermatology",
	"Endocrinology",
	"Gastroenterology",
	"General Practice",
	"Neurology",
	"Gynecology",
	"Ophthalmology",
	"Orthopedics",
	"Pediatrics",
	"Psychiatry",
	"Urology",
}

// Weekdays lists the accepted values of availableDays.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// Placeholders used by NormalizeDisplay.
const (
	NotAvailable = "N/A"
	Unspecified  = "Unspecified"
)

// Doctor is a fully populated directory entry.
type Doctor struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	City           string   `json:"city"`
	Address        string   `json:"address"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	ProfilePicture string   `json:"profilePicture"`
	Bio            string   `json:"bio"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"reviewCount"`
	AvailableDays  []string `json:"availableDays"`
	IsAvailable    bool     `json:"isAvailable"`
	Suspended      bool     `json:"suspended"`
	CreatedAt      string   `json:"createdAt"`

	// Whether rating and reviewCount were present in the stored document.
	// The CSV export prints N/A for values that were only defaulted.
	RatingKnown      bool `json:"-"`
	ReviewCountKnown bool `json:"-"`
}

// Active reports whether the doctor is available and not suspended.
func (d Doctor) Active() bool {
	return d.IsAvailable && !d.Suspended
}

// Record converts the doctor back into a storable document. The id is left
// out; the store owns it.
func (d Doctor) Record() RawRecord {
	days := make([]interface{}, 0, len(d.AvailableDays))
	for _, day := range d.AvailableDays {
		days = append(days, day)
	}
	return RawRecord{
		FieldName:           d.Name,
		FieldSpecialty:      d.Specialty,
		FieldCity:           d.City,
		FieldAddress:        d.Address,
		FieldEmail:          d.Email,
		FieldPhone:          d.Phone,
		FieldLatitude:       d.Latitude,
		FieldLongitude:      d.Longitude,
		FieldProfilePicture: d.ProfilePicture,
		FieldBio:            d.Bio,
		FieldRating:         d.Rating,
		FieldReviewCount:    d.ReviewCount,
		FieldAvailableDays:  days,
		FieldIsAvailable:    d.IsAvailable,
		FieldSuspended:      d.Suspended,
		FieldCreatedAt:      d.CreatedAt,
	}
}

// IsSpecialty reports whether s is one of the fixed specialties.
func IsSpecialty(s string) bool {
	for _, sp := range Specialties {
		if sp == s {
			return true
		}
	}
	return false
}

// IsWeekday reports whether s is one of the weekday names.
func IsWeekday(s string) bool {
	for _, d := range Weekdays {
		if d == s {
			return true
		}
	}
	return false
}

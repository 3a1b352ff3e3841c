package directory

import "github.com/ignite/subscriber-portal/internal/mailerlite"

// missingValue is what absent attributes render as in views and exports.
const missingValue = "N/A"

// Subscriber is the typed view of a raw remote record.
type Subscriber struct {
	ID          string            `json:"id,omitempty"`
	Email       string            `json:"email"`
	FirstName   string            `json:"fName"`
	LastName    string            `json:"lName"`
	StartDate   string            `json:"startingDate"`
	LastUpdated string            `json:"date_updated"`
	RawFields   map[string]string `json:"-"`

	// PossibleStartDates is attached only on single-subscriber fetches.
	PossibleStartDates []string `json:"possible_start_dates,omitempty"`
}

// Normalize converts a raw remote subscriber into the typed view. Custom
// fields are reduced to a map keyed by field key, last occurrence winning;
// fname/lname/start_date default to the empty string, date_updated to
// "N/A". Single-subscriber and group-listing paths share this one mapping.
func Normalize(raw mailerlite.Subscriber) Subscriber {
	fields := make(map[string]string, len(raw.Fields))
	for _, f := range raw.Fields {
		fields[f.Key] = f.Value
	}

	lastUpdated := raw.DateUpdated
	if lastUpdated == "" {
		lastUpdated = missingValue
	}

	return Subscriber{
		ID:          raw.ID.String(),
		Email:       raw.Email,
		FirstName:   fields["fname"],
		LastName:    fields["lname"],
		StartDate:   fields["start_date"],
		LastUpdated: lastUpdated,
		RawFields:   fields,
	}
}

// NormalizeAll maps a full listing through Normalize.
func NormalizeAll(raws []mailerlite.Subscriber) []Subscriber {
	subs := make([]Subscriber, 0, len(raws))
	for _, raw := range raws {
		subs = append(subs, Normalize(raw))
	}
	return subs
}

package mailerlite

import (
	"encoding/json"
	"fmt"
)

// FlexString is a string type that can unmarshal from both string and number
// JSON values. MailerLite returns ids as numbers in some payloads and as
// strings in others.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler for FlexString
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	return fmt.Errorf("FlexString: cannot unmarshal %s", string(data))
}

// String returns the string value
func (f FlexString) String() string {
	return string(f)
}

// Credential is one country tenant's (base URL, API key) pair. Clients are
// built from a Credential per call chain; nothing caches one across calls.
type Credential struct {
	BaseURL string
	APIKey  string
}

// Group is a named collection of subscribers in the remote system.
type Group struct {
	ID     FlexString `json:"id"`
	Name   string     `json:"name"`
	Total  int        `json:"total"`
	Active int        `json:"active,omitempty"`
}

// Field is one custom key/value attribute attached to a subscriber
// (e.g. key "fname", "lname", "start_date").
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// Subscriber is the raw remote record. DateUpdated is empty when the remote
// payload carries null.
type Subscriber struct {
	ID          FlexString `json:"id,omitempty"`
	Email       string     `json:"email"`
	Fields      []Field    `json:"fields"`
	DateUpdated string     `json:"date_updated,omitempty"`
}

type createSubscriberRequest struct {
	Email       string `json:"email"`
	Resubscribe bool   `json:"resubscribe"`
}

type updateFieldsRequest struct {
	Fields map[string]string `json:"fields"`
}

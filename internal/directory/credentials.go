package directory

import (
	"fmt"
	"strings"

	"github.com/ignite/subscriber-portal/internal/mailerlite"
)

// Country is one of the fixed country tenants subscriber data is
// partitioned into.
type Country string

const (
	Ireland   Country = "IRELAND"
	Britain   Country = "BRITAIN"
	Australia Country = "AUSTRALIA"
	America   Country = "AMERICA"
	Canada    Country = "CANADA"
)

// Countries lists the supported tenants in display order.
var Countries = []Country{Ireland, Britain, Australia, America, Canada}

// Credentials maps each supported country to its API credential. Static
// configuration: built once at startup, read-only afterwards.
type Credentials struct {
	baseURL string
	keys    map[Country]string
}

// NewCredentials builds the credential book. Keys are supplied per country
// name (case-insensitive); countries outside the supported set are ignored.
func NewCredentials(baseURL string, keys map[string]string) *Credentials {
	book := &Credentials{baseURL: baseURL, keys: map[Country]string{}}
	for name, key := range keys {
		for _, c := range Countries {
			if strings.EqualFold(name, string(c)) {
				book.keys[c] = key
			}
		}
	}
	return book
}

// Select resolves the credential for a country, matching case-insensitively
// against the supported set. Unknown input fails with ErrInvalidCountry;
// there is no default fallback, because the remote API silently serves
// wrong-tenant or empty data under the wrong key.
func (b *Credentials) Select(country string) (mailerlite.Credential, error) {
	for _, c := range Countries {
		if strings.EqualFold(strings.TrimSpace(country), string(c)) {
			return mailerlite.Credential{BaseURL: b.baseURL, APIKey: b.keys[c]}, nil
		}
	}
	return mailerlite.Credential{}, fmt.Errorf("%w: %q", ErrInvalidCountry, country)
}

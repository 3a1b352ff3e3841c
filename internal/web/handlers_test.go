package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/subscriber-portal/internal/directory"
	"github.com/ignite/subscriber-portal/internal/mailerlite"
)

// newTestWeb builds the browser router over a real service talking to a
// stubbed MailerLite endpoint.
func newTestWeb(t *testing.T, stub http.HandlerFunc) http.Handler {
	t.Helper()
	remote := httptest.NewServer(stub)
	t.Cleanup(remote.Close)

	creds := directory.NewCredentials(remote.URL, map[string]string{
		"ireland": "key-ie",
		"canada":  "key-ca",
	})
	factory := func(cred mailerlite.Credential) directory.RemoteClient {
		return mailerlite.NewClient(cred, 5*time.Second)
	}
	svc := directory.NewService(creds,
		mailerlite.Credential{BaseURL: remote.URL, APIKey: "key-default"}, factory)

	return NewHandlers(svc).Router()
}

// flashOn extracts the flash message a response set, if any.
func flashOn(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge >= 0 {
			msg, err := url.QueryUnescape(c.Value)
			require.NoError(t, err)
			return msg
		}
	}
	return ""
}

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLookupFormRenders(t *testing.T) {
	router := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Find a subscriber")
	for _, c := range directory.Countries {
		assert.Contains(t, rec.Body.String(), string(c))
	}
}

func TestGetSubscriberRendersDetails(t *testing.T) {
	router := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-ie", r.Header.Get("X-MailerLite-ApiKey"))
		json.NewEncoder(w).Encode([]mailerlite.Subscriber{
			{Email: "a@x.com", Fields: []mailerlite.Field{
				{Key: "fname", Value: "Ada"},
				{Key: "lname", Value: "Lovelace"},
			}},
		})
	})

	rec := postForm(router, "/get-subscriber", url.Values{
		"email":   {"a@x.com"},
		"country": {"ireland"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "a@x.com")
	assert.Contains(t, body, "Ada")
	assert.Contains(t, body, "Lovelace")
	assert.Contains(t, body, "/subscriber/update-start-date")
}

func TestGetSubscriberNotFoundFlashes(t *testing.T) {
	router := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	rec := postForm(router, "/get-subscriber", url.Values{
		"email":   {"ghost@x.com"},
		"country": {"ireland"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Subscriber not found", flashOn(t, rec))
}

func TestGetSubscriberInvalidEmailFlashes(t *testing.T) {
	router := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("remote must not be called for an invalid email")
	})

	rec := postForm(router, "/get-subscriber", url.Values{
		"email":   {"not-an-email"},
		"country": {"ireland"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "A valid email is required", flashOn(t, rec))
}

func TestUpdateStartDateFlashesSuccess(t *testing.T) {
	router := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/subscribers/search"):
			json.NewEncoder(w).Encode([]mailerlite.Subscriber{{Email: "a@x.com"}})
		case r.Method == http.MethodPut:
			assert.Equal(t, "key-ca", r.Header.Get("X-MailerLite-ApiKey"))
			var body map[string]map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Sep-2026", body["fields"]["start_date"])
			json.NewEncoder(w).Encode(mailerlite.Subscriber{Email: "a@x.com"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	rec := postForm(router, "/subscriber/update-start-date", url.Values{
		"email":      {"a@x.com"},
		"country":    {"canada"},
		"start_date": {"Sep-2026"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "Start date updated successfully!", flashOn(t, rec))
}

func TestUpdateStartDateUnknownSubscriber(t *testing.T) {
	router := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			t.Error("update must not be issued for an unknown subscriber")
		}
		w.Write([]byte("[]"))
	})

	rec := postForm(router, "/subscriber/update-start-date", url.Values{
		"email":      {"ghost@x.com"},
		"country":    {"canada"},
		"start_date": {"Sep-2026"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Subscriber not found", flashOn(t, rec))
}

func TestGroupsPageRendersListAndForm(t *testing.T) {
	router := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 7, "name": "Newsletter", "total": 42},
		})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Newsletter")
	assert.Contains(t, body, "/groups/7/subscribers")
	assert.Contains(t, body, "Add a subscriber")
}

func TestCreateSubscriberRedirectsToGroups(t *testing.T) {
	router := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/groups/7/subscribers", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["resubscribe"])
		json.NewEncoder(w).Encode(mailerlite.Subscriber{Email: "new@x.com"})
	})

	rec := postForm(router, "/subscribers", url.Values{
		"group_id": {"7"},
		"email":    {"new@x.com"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/groups", rec.Header().Get("Location"))
	assert.Equal(t, "Subscriber added successfully!", flashOn(t, rec))
}

func TestDetailedSubscribersRendersNA(t *testing.T) {
	router := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]mailerlite.Subscriber{{Email: "bare@x.com"}})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/7/detailed-subscribers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bare@x.com")
	assert.Contains(t, rec.Body.String(), "N/A")
}

func TestDownloadCSV(t *testing.T) {
	router := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/groups":
			json.NewEncoder(w).Encode([]map[string]interface{}{{"id": 1, "name": "All"}})
		default:
			json.NewEncoder(w).Encode([]mailerlite.Subscriber{
				{ID: "10", Email: "a@x.com", Fields: []mailerlite.Field{{Key: "fname", Value: "Ada"}}},
			})
		}
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subscribers/csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=subscribers.csv", rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Email,First Name,Last Name,Start Date,Date Updated", lines[0])
	assert.Equal(t, "1,a@x.com,Ada,N/A,N/A,N/A", lines[1])
}

func TestDownloadCSVRemoteFailureFlashes(t *testing.T) {
	router := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "remote down", http.StatusBadGateway)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subscribers/csv", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Failed to download CSV.", flashOn(t, rec))
}

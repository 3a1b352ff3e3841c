package mailerlite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Credential{BaseURL: serverURL, APIKey: "test-key"}, 5*time.Second)
}

func TestNewClient(t *testing.T) {
	client := NewClient(Credential{BaseURL: "https://api.mailerlite.com/api/v2/", APIKey: "abc"}, 0)

	if client.baseURL != "https://api.mailerlite.com/api/v2" {
		t.Errorf("Expected trimmed base URL, got %s", client.baseURL)
	}
	if client.apiKey != "abc" {
		t.Errorf("Expected apiKey abc, got %s", client.apiKey)
	}
}

func TestGroups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-MailerLite-ApiKey") != "test-key" {
			t.Error("Missing X-MailerLite-ApiKey header")
		}
		if r.URL.Path != "/groups" {
			t.Errorf("Expected path /groups, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]Group{
			{ID: "1001", Name: "Weekly Digest", Total: 240},
			{ID: "1002", Name: "Onboarding", Total: 8},
		})
	}))
	defer server.Close()

	groups, err := newTestClient(server.URL).Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Name != "Weekly Digest" {
		t.Errorf("Expected group name 'Weekly Digest', got '%s'", groups[0].Name)
	}
}

func TestGroupsNumericIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1001, "name": "Digest", "total": 3}]`))
	}))
	defer server.Close()

	groups, err := newTestClient(server.URL).Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}
	if groups[0].ID.String() != "1001" {
		t.Errorf("Expected id 1001, got %s", groups[0].ID)
	}
}

func TestGroupsNullBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))
	defer server.Close()

	groups, err := newTestClient(server.URL).Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("Expected empty groups, got %d", len(groups))
	}
}

func TestGroupSubscribers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/groups/1001/subscribers" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]Subscriber{
			{Email: "a@example.com", Fields: []Field{{Key: "fname", Value: "Ada"}}},
		})
	}))
	defer server.Close()

	subs, err := newTestClient(server.URL).GroupSubscribers(context.Background(), "1001")
	if err != nil {
		t.Fatalf("GroupSubscribers failed: %v", err)
	}
	if len(subs) != 1 || subs[0].Email != "a@example.com" {
		t.Errorf("Unexpected subscribers: %+v", subs)
	}
}

func TestGroupSubscribersNonArrayBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"code": 123}}`))
	}))
	defer server.Close()

	subs, err := newTestClient(server.URL).GroupSubscribers(context.Background(), "1001")
	if err != nil {
		t.Fatalf("Expected lenient decode, got error: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("Expected empty list, got %d", len(subs))
	}
}

func TestGroupSubscribersMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"truncated`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GroupSubscribers(context.Background(), "1001")
	if err == nil {
		t.Fatal("Expected error for malformed JSON")
	}
}

func TestCreateSubscriber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		if req["email"] != "new@example.com" {
			t.Errorf("Unexpected email %v", req["email"])
		}
		if req["resubscribe"] != true {
			t.Error("Expected resubscribe=true")
		}
		json.NewEncoder(w).Encode(Subscriber{ID: "42", Email: "new@example.com"})
	}))
	defer server.Close()

	sub, err := newTestClient(server.URL).CreateSubscriber(context.Background(), "1001", "new@example.com")
	if err != nil {
		t.Fatalf("CreateSubscriber failed: %v", err)
	}
	if sub.Email != "new@example.com" {
		t.Errorf("Unexpected subscriber %+v", sub)
	}
}

func TestSearchByEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscribers/search" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "a@example.com" {
			t.Errorf("Unexpected query %q", got)
		}
		json.NewEncoder(w).Encode([]Subscriber{{Email: "a@example.com"}})
	}))
	defer server.Close()

	subs, err := newTestClient(server.URL).SearchByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("SearchByEmail failed: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("Expected 1 match, got %d", len(subs))
	}
}

func TestUpdateFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("Expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/subscribers/a@example.com" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var req updateFieldsRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Fields["start_date"] != "Mar-2025" {
			t.Errorf("Unexpected fields %v", req.Fields)
		}
		json.NewEncoder(w).Encode(Subscriber{
			Email:  "a@example.com",
			Fields: []Field{{Key: "start_date", Value: "Mar-2025"}},
		})
	}))
	defer server.Close()

	sub, err := newTestClient(server.URL).UpdateFields(context.Background(), "a@example.com",
		map[string]string{"start_date": "Mar-2025"})
	if err != nil {
		t.Fatalf("UpdateFields failed: %v", err)
	}
	if sub.Fields[0].Value != "Mar-2025" {
		t.Errorf("Unexpected subscriber %+v", sub)
	}
}

func TestAPIErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Groups(context.Background())
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
}

// Command stub-api is an in-memory stand-in for the MailerLite v2 API,
// for local portal development without touching a real tenant.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type subscriber struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Fields      []field `json:"fields"`
	DateUpdated string  `json:"date_updated"`
	groupID     string
}

type field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

type group struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Active int    `json:"active"`
}

// store is the whole persistence layer of the stub.
type store struct {
	mu          sync.Mutex
	groups      []group
	subscribers []*subscriber
}

func newSeededStore() *store {
	s := &store{
		groups: []group{
			{ID: uuid.NewString(), Name: "Newsletter"},
			{ID: uuid.NewString(), Name: "Product Updates"},
		},
	}
	seed := []struct{ email, fname, lname, start string }{
		{"ada@example.com", "Ada", "Lovelace", "Sep-2026"},
		{"grace@example.com", "Grace", "Hopper", ""},
		{"alan@example.com", "", "", ""},
	}
	for _, row := range seed {
		s.add(s.groups[0].ID, row.email, row.fname, row.lname, row.start)
	}
	return s
}

func (s *store) add(groupID, email, fname, lname, start string) *subscriber {
	sub := &subscriber{
		ID:    uuid.NewString(),
		Email: email,
		Fields: []field{
			{Key: "fname", Value: fname, Type: "TEXT"},
			{Key: "lname", Value: lname, Type: "TEXT"},
			{Key: "start_date", Value: start, Type: "TEXT"},
		},
		DateUpdated: time.Now().UTC().Format("2006-01-02 15:04:05"),
		groupID:     groupID,
	}
	s.subscribers = append(s.subscribers, sub)
	for i := range s.groups {
		if s.groups[i].ID == groupID {
			s.groups[i].Total++
			s.groups[i].Active++
		}
	}
	return sub
}

func (s *store) setField(sub *subscriber, key, value string) {
	for i := range sub.Fields {
		if sub.Fields[i].Key == key {
			sub.Fields[i].Value = value
			sub.DateUpdated = time.Now().UTC().Format("2006-01-02 15:04:05")
			return
		}
	}
	sub.Fields = append(sub.Fields, field{Key: key, Value: value, Type: "TEXT"})
	sub.DateUpdated = time.Now().UTC().Format("2006-01-02 15:04:05")
}

func respond(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func main() {
	log.Println("╔════════════════════════════════════════════════════════════╗")
	log.Println("║  WARNING: This is a STUB MailerLite API for local testing. ║")
	log.Println("║  All data is in-memory and lost on restart.                ║")
	log.Println("║                                                            ║")
	log.Println("║  For the real portal server, run:                          ║")
	log.Println("║    go run cmd/server/main.go                               ║")
	log.Println("╚════════════════════════════════════════════════════════════╝")

	db := newSeededStore()

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	// The portal sends its key on every request; the stub only checks that
	// one is present.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("X-MailerLite-ApiKey") == "" {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "missing api key"})
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Route("/api/v2", func(r chi.Router) {
		r.Get("/groups", func(w http.ResponseWriter, req *http.Request) {
			db.mu.Lock()
			defer db.mu.Unlock()
			respond(w, http.StatusOK, db.groups)
		})

		r.Get("/groups/{groupID}/subscribers", func(w http.ResponseWriter, req *http.Request) {
			groupID := chi.URLParam(req, "groupID")
			db.mu.Lock()
			defer db.mu.Unlock()
			out := []*subscriber{}
			for _, sub := range db.subscribers {
				if sub.groupID == groupID {
					out = append(out, sub)
				}
			}
			respond(w, http.StatusOK, out)
		})

		r.Post("/groups/{groupID}/subscribers", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Email string `json:"email"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Email == "" {
				respond(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
				return
			}
			db.mu.Lock()
			defer db.mu.Unlock()
			groupID := chi.URLParam(req, "groupID")
			for _, sub := range db.subscribers {
				if sub.groupID == groupID && strings.EqualFold(sub.Email, body.Email) {
					respond(w, http.StatusOK, sub)
					return
				}
			}
			respond(w, http.StatusOK, db.add(groupID, body.Email, "", "", ""))
		})

		r.Get("/subscribers/search", func(w http.ResponseWriter, req *http.Request) {
			query := req.URL.Query().Get("query")
			db.mu.Lock()
			defer db.mu.Unlock()
			out := []*subscriber{}
			for _, sub := range db.subscribers {
				if strings.Contains(strings.ToLower(sub.Email), strings.ToLower(query)) {
					out = append(out, sub)
				}
			}
			respond(w, http.StatusOK, out)
		})

		r.Put("/subscribers/{email}", func(w http.ResponseWriter, req *http.Request) {
			email := chi.URLParam(req, "email")
			var body struct {
				Fields map[string]string `json:"fields"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				respond(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
				return
			}
			db.mu.Lock()
			defer db.mu.Unlock()
			for _, sub := range db.subscribers {
				if strings.EqualFold(sub.Email, email) {
					for k, v := range body.Fields {
						db.setField(sub, k, v)
					}
					respond(w, http.StatusOK, sub)
					return
				}
			}
			respond(w, http.StatusNotFound, map[string]string{"error": "subscriber not found"})
		})
	})

	addr := os.Getenv("STUB_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	log.Printf("Stub MailerLite API listening on %s (base URL: http://localhost%s/api/v2)", addr, addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/subscriber-portal/internal/directory"
	"github.com/ignite/subscriber-portal/internal/pkg/logger"
)

// Handlers contains the JSON API handlers. Both this surface and the web
// surface are thin adapters over the one directory service.
type Handlers struct {
	svc *directory.Service
}

// NewHandlers creates a new Handlers instance
func NewHandlers(svc *directory.Service) *Handlers {
	return &Handlers{svc: svc}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "subscriber-portal",
	})
}

type subscriberQuery struct {
	Email   string `json:"email"`
	Country string `json:"country"`
}

type createSubscriberInput struct {
	GroupID string `json:"group_id"`
	Email   string `json:"email"`
}

type updateStartDateInput struct {
	Email     string `json:"email"`
	StartDate string `json:"start_date"`
	Country   string `json:"country"`
}

// decodeBody reads JSON or form-encoded input into the given fields, so
// the same endpoints serve fetch() callers and plain HTML forms.
func decodeBody(r *http.Request, fields map[string]*string) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		payload := map[string]string{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return err
		}
		for name, dst := range fields {
			*dst = strings.TrimSpace(payload[name])
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	for name, dst := range fields {
		*dst = strings.TrimSpace(r.PostFormValue(name))
	}
	return nil
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// GetSubscriber handles POST /api/get-subscriber.
func (h *Handlers) GetSubscriber(w http.ResponseWriter, r *http.Request) {
	var in subscriberQuery
	if err := decodeBody(r, map[string]*string{"email": &in.Email, "country": &in.Country}); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validEmail(in.Email) {
		respondError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if in.Country == "" {
		respondError(w, http.StatusBadRequest, "Country is required")
		return
	}

	logger.Info("fetching subscriber via API", "email", in.Email, "country", in.Country)

	sub, err := h.svc.FindByEmail(r.Context(), in.Email, in.Country)
	if err != nil {
		respondServiceError(w, "get-subscriber", err, "email", in.Email, "country", in.Country)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"subscriber": sub,
		"country":    in.Country,
	})
}

// GetGroups handles GET /api/groups.
func (h *Handlers) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Groups(r.Context())
	if err != nil {
		respondServiceError(w, "get-groups", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"groups":  groups,
	})
}

// CreateSubscriber handles POST /api/create-subscriber.
func (h *Handlers) CreateSubscriber(w http.ResponseWriter, r *http.Request) {
	var in createSubscriberInput
	if err := decodeBody(r, map[string]*string{"group_id": &in.GroupID, "email": &in.Email}); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.GroupID == "" {
		respondError(w, http.StatusBadRequest, "Group is required")
		return
	}
	if !validEmail(in.Email) {
		respondError(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	logger.Info("creating subscriber via API", "group_id", in.GroupID, "email", in.Email)

	sub, err := h.svc.CreateSubscriber(r.Context(), in.GroupID, in.Email)
	if err != nil {
		respondServiceError(w, "create-subscriber", err, "group_id", in.GroupID, "email", in.Email)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"subscriber": sub,
	})
}

// GetSubscribers handles GET /api/groups/{groupID}/subscribers.
func (h *Handlers) GetSubscribers(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	subs, err := h.svc.Subscribers(r.Context(), groupID)
	if err != nil {
		respondServiceError(w, "get-subscribers", err, "group_id", groupID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"subscribers": subs,
	})
}

// GetDetailedSubscribers handles GET /api/groups/{groupID}/subscribers-detailed.
func (h *Handlers) GetDetailedSubscribers(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	subs, err := h.svc.DetailedSubscribers(r.Context(), groupID)
	if err != nil {
		respondServiceError(w, "get-detailed-subscribers", err, "group_id", groupID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"subscribers": subs,
	})
}

// DownloadSubscribersCSV handles GET /api/subscribers/download-csv.
// An optional group_id query parameter narrows the export to one group;
// without it every group is exported.
func (h *Handlers) DownloadSubscribersCSV(w http.ResponseWriter, r *http.Request) {
	groupID := strings.TrimSpace(r.URL.Query().Get("group_id"))

	logger.Info("starting CSV download", "group_id", groupID)

	// Fetch before touching headers so failures still produce a clean
	// JSON error response.
	subs, err := h.svc.DetailedSubscribers(r.Context(), groupID)
	if err != nil {
		respondServiceError(w, "download-csv", err, "group_id", groupID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=subscribers.csv")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Cache-Control", "must-revalidate, post-check=0, pre-check=0")
	w.Header().Set("Expires", "0")

	if err := directory.WriteCSV(w, subs); err != nil {
		// Headers are gone; all we can do is log.
		logger.Error("failed while streaming CSV", "group_id", groupID, "error", err)
		return
	}
	RecordCSVExport()
}

// UpdateStartDate handles POST /api/update-start-date.
func (h *Handlers) UpdateStartDate(w http.ResponseWriter, r *http.Request) {
	var in updateStartDateInput
	err := decodeBody(r, map[string]*string{
		"email":      &in.Email,
		"start_date": &in.StartDate,
		"country":    &in.Country,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validEmail(in.Email) {
		respondError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if in.StartDate == "" {
		respondError(w, http.StatusBadRequest, "Start date is required")
		return
	}

	logger.Info("updating start date via API",
		"email", in.Email, "country", in.Country, "start_date", in.StartDate)

	sub, err := h.svc.UpdateStartDate(r.Context(), in.Email, in.Country, in.StartDate)
	if err != nil {
		respondServiceError(w, "update-start-date", err,
			"email", in.Email, "country", in.Country, "start_date", in.StartDate)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Start date updated successfully!",
		"subscriber": sub,
	})
}

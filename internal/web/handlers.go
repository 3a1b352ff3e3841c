// Package web is the browser-facing surface of the portal: server-rendered
// views over the same directory service the JSON API uses, with
// redirect-and-flash feedback on mutations.
package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/subscriber-portal/internal/directory"
	"github.com/ignite/subscriber-portal/internal/pkg/logger"
)

// Handlers renders the HTML views.
type Handlers struct {
	svc   *directory.Service
	views map[string]*template.Template
}

// NewHandlers creates the web surface over the directory service.
func NewHandlers(svc *directory.Service) *Handlers {
	return &Handlers{svc: svc, views: parseTemplates()}
}

// Router mounts all browser routes.
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.LookupForm)
	r.Post("/get-subscriber", h.GetSubscriber)
	r.Post("/subscriber/update-start-date", h.UpdateStartDate)
	r.Get("/groups", h.Groups)
	r.Post("/subscribers", h.CreateSubscriber)
	r.Get("/groups/{groupID}/subscribers", h.Subscribers)
	r.Get("/groups/{groupID}/detailed-subscribers", h.DetailedSubscribers)
	r.Get("/subscribers/csv", h.DownloadCSV)

	return r
}

type viewData struct {
	Flash       string
	FlashKind   string
	Countries   []directory.Country
	Country     string
	Subscriber  *directory.Subscriber
	Groups      []directory.Group
	Subscribers interface{}
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, view string, data viewData) {
	data.Flash, data.FlashKind = popFlash(w, r)
	data.Countries = directory.Countries

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views[view].ExecuteTemplate(w, "layout", data); err != nil {
		logger.Error("failed to render view", "view", view, "error", err)
	}
}

// LookupForm renders the subscriber search form.
func (h *Handlers) LookupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "lookupForm", viewData{})
}

// GetSubscriber handles the search form submission and renders the
// subscriber details view, or redirects back with a flash on failure.
func (h *Handlers) GetSubscriber(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, "error", "Invalid form submission")
		redirectBack(w, r)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	country := strings.TrimSpace(r.PostFormValue("country"))

	if _, err := mail.ParseAddress(email); err != nil {
		setFlash(w, "error", "A valid email is required")
		redirectBack(w, r)
		return
	}

	logger.Info("fetching subscriber", "email", email, "country", country)

	sub, err := h.svc.FindByEmail(r.Context(), email, country)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		setFlash(w, "error", "Subscriber not found")
		redirectBack(w, r)
	case err != nil:
		logger.Error("error fetching subscriber", "email", email, "country", country, "error", err)
		setFlash(w, "error", "Error fetching subscriber")
		redirectBack(w, r)
	default:
		h.render(w, r, "subscriberDetails", viewData{Subscriber: sub, Country: country})
	}
}

// UpdateStartDate handles the start-date form on the details view.
func (h *Handlers) UpdateStartDate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, "error", "Invalid form submission")
		redirectBack(w, r)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	country := strings.TrimSpace(r.PostFormValue("country"))
	startDate := strings.TrimSpace(r.PostFormValue("start_date"))

	if email == "" || startDate == "" {
		setFlash(w, "error", "Email and start date are required")
		redirectBack(w, r)
		return
	}

	logger.Info("updating start date", "email", email, "country", country, "start_date", startDate)

	_, err := h.svc.UpdateStartDate(r.Context(), email, country, startDate)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		setFlash(w, "error", "Subscriber not found")
	case err != nil:
		logger.Error("error updating start date",
			"email", email, "country", country, "start_date", startDate, "error", err)
		setFlash(w, "error", "Failed to update start date.")
	default:
		setFlash(w, "status", "Start date updated successfully!")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Groups renders the group list with the add-subscriber form.
func (h *Handlers) Groups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Groups(r.Context())
	if err != nil {
		logger.Error("error fetching groups", "error", err)
		setFlash(w, "error", "Unable to fetch groups")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, "groups", viewData{Groups: groups})
}

// CreateSubscriber handles the add-subscriber form and redirects back to
// the groups page.
func (h *Handlers) CreateSubscriber(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, "error", "Invalid form submission")
		http.Redirect(w, r, "/groups", http.StatusSeeOther)
		return
	}
	groupID := strings.TrimSpace(r.PostFormValue("group_id"))
	email := strings.TrimSpace(r.PostFormValue("email"))

	if groupID == "" {
		setFlash(w, "error", "Group is required")
		http.Redirect(w, r, "/groups", http.StatusSeeOther)
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		setFlash(w, "error", "A valid email is required")
		http.Redirect(w, r, "/groups", http.StatusSeeOther)
		return
	}

	logger.Info("creating subscriber", "group_id", groupID, "email", email)

	if _, err := h.svc.CreateSubscriber(r.Context(), groupID, email); err != nil {
		logger.Error("error creating subscriber", "group_id", groupID, "email", email, "error", err)
		setFlash(w, "error", "Unable to add subscriber.")
	} else {
		setFlash(w, "status", "Subscriber added successfully!")
	}
	http.Redirect(w, r, "/groups", http.StatusSeeOther)
}

// Subscribers renders one group's raw subscriber list.
func (h *Handlers) Subscribers(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	subs, err := h.svc.Subscribers(r.Context(), groupID)
	if err != nil {
		logger.Error("error fetching subscribers", "group_id", groupID, "error", err)
		setFlash(w, "error", "Unable to fetch subscribers")
		http.Redirect(w, r, "/groups", http.StatusSeeOther)
		return
	}
	h.render(w, r, "subscribers", viewData{Subscribers: subs})
}

// DetailedSubscribers renders one group's normalized subscriber list.
func (h *Handlers) DetailedSubscribers(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	subs, err := h.svc.DetailedSubscribers(r.Context(), groupID)
	if err != nil {
		logger.Error("error fetching detailed subscribers", "group_id", groupID, "error", err)
		setFlash(w, "error", "Unable to fetch subscribers")
		http.Redirect(w, r, "/groups", http.StatusSeeOther)
		return
	}
	h.render(w, r, "detailedSubscribers", viewData{Subscribers: subs})
}

// DownloadCSV streams every subscriber as a CSV attachment.
func (h *Handlers) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	logger.Info("starting CSV download")

	subs, err := h.svc.DetailedSubscribers(r.Context(), "")
	if err != nil {
		logger.Error("error downloading CSV", "error", err)
		setFlash(w, "error", "Failed to download CSV.")
		redirectBack(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=subscribers.csv")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Cache-Control", "must-revalidate, post-check=0, pre-check=0")
	w.Header().Set("Expires", "0")

	if err := directory.WriteCSV(w, subs); err != nil {
		logger.Error("failed while streaming CSV", "error", err)
	}
}

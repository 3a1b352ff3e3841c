// Package directory is the core of the subscriber portal: credential
// selection per country tenant, subscriber normalization, candidate
// start-date computation, and CSV export, orchestrated over the remote
// MailerLite API.
package directory

import (
	"context"
	"time"

	"github.com/ignite/subscriber-portal/internal/mailerlite"
	"github.com/ignite/subscriber-portal/internal/pkg/logger"
)

// RemoteClient is the outbound port onto the remote directory API.
// *mailerlite.Client satisfies it.
type RemoteClient interface {
	Groups(ctx context.Context) ([]mailerlite.Group, error)
	GroupSubscribers(ctx context.Context, groupID string) ([]mailerlite.Subscriber, error)
	CreateSubscriber(ctx context.Context, groupID, email string) (*mailerlite.Subscriber, error)
	SearchByEmail(ctx context.Context, email string) ([]mailerlite.Subscriber, error)
	UpdateFields(ctx context.Context, email string, fields map[string]string) (*mailerlite.Subscriber, error)
}

// ClientFactory builds a client handle for one credential. A fresh handle
// per call chain keeps credential selection explicit; there is no shared
// mutable client to race over.
type ClientFactory func(cred mailerlite.Credential) RemoteClient

// Group is the typed view of a remote subscriber group.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
}

// Service orchestrates subscriber lookups, listings, edits, and exports.
// Stateless across requests: the only carried state is static
// configuration.
type Service struct {
	creds       *Credentials
	defaultCred mailerlite.Credential
	build       ClientFactory
	now         func() time.Time
}

// NewService builds the directory service. defaultCred serves operations
// that are not country-scoped (groups, group listings, create).
func NewService(creds *Credentials, defaultCred mailerlite.Credential, build ClientFactory) *Service {
	return &Service{
		creds:       creds,
		defaultCred: defaultCred,
		build:       build,
		now:         time.Now,
	}
}

// SetNow overrides the clock, used by tests.
func (s *Service) SetNow(now func() time.Time) { s.now = now }

// clientFor re-runs credential selection and builds a handle for the
// country. Runs immediately before every country-scoped remote call.
func (s *Service) clientFor(country string) (RemoteClient, error) {
	cred, err := s.creds.Select(country)
	if err != nil {
		return nil, err
	}
	return s.build(cred), nil
}

// Groups lists all subscriber groups under the default credential.
func (s *Service) Groups(ctx context.Context) ([]Group, error) {
	raw, err := s.build(s.defaultCred).Groups(ctx)
	if err != nil {
		logger.Error("failed to fetch groups", "error", err)
		return nil, remoteErr("list groups", err)
	}

	groups := make([]Group, 0, len(raw))
	for _, g := range raw {
		groups = append(groups, Group{ID: g.ID.String(), Name: g.Name, MemberCount: g.Total})
	}
	logger.Info("groups fetched", "count", len(groups))
	return groups, nil
}

// Subscribers lists one group's subscribers as raw remote records.
func (s *Service) Subscribers(ctx context.Context, groupID string) ([]mailerlite.Subscriber, error) {
	subs, err := s.build(s.defaultCred).GroupSubscribers(ctx, groupID)
	if err != nil {
		logger.Error("failed to fetch subscribers", "group_id", groupID, "error", err)
		return nil, remoteErr("list subscribers", err)
	}
	logger.Info("subscribers fetched", "group_id", groupID, "count", len(subs))
	return subs, nil
}

// DetailedSubscribers lists subscribers mapped through Normalize. An empty
// groupID means every group reachable with the default credential — the
// CSV export path.
func (s *Service) DetailedSubscribers(ctx context.Context, groupID string) ([]Subscriber, error) {
	client := s.build(s.defaultCred)

	if groupID != "" {
		raws, err := client.GroupSubscribers(ctx, groupID)
		if err != nil {
			logger.Error("failed to fetch detailed subscribers", "group_id", groupID, "error", err)
			return nil, remoteErr("list detailed subscribers", err)
		}
		return NormalizeAll(raws), nil
	}

	groups, err := client.Groups(ctx)
	if err != nil {
		logger.Error("failed to fetch groups for full listing", "error", err)
		return nil, remoteErr("list detailed subscribers", err)
	}

	var all []Subscriber
	for _, g := range groups {
		raws, err := client.GroupSubscribers(ctx, g.ID.String())
		if err != nil {
			logger.Error("failed to fetch detailed subscribers", "group_id", g.ID.String(), "error", err)
			return nil, remoteErr("list detailed subscribers", err)
		}
		all = append(all, NormalizeAll(raws)...)
	}
	return all, nil
}

// CreateSubscriber adds an email to a group with resubscribe=true, so
// re-adding a previously unsubscribed address succeeds. Email format is
// the boundary's job; the service forwards as-is.
func (s *Service) CreateSubscriber(ctx context.Context, groupID, email string) (*Subscriber, error) {
	raw, err := s.build(s.defaultCred).CreateSubscriber(ctx, groupID, email)
	if err != nil {
		logger.Error("failed to create subscriber", "group_id", groupID, "email", email, "error", err)
		return nil, remoteErr("create subscriber", err)
	}

	logger.Info("subscriber created", "group_id", groupID, "email", email)
	sub := Normalize(*raw)
	return &sub, nil
}

// FindByEmail looks a subscriber up in one country tenant. Zero matches is
// ErrNotFound, not a failure; multiple matches use the first and log a
// warning. On success the candidate start-date window (computed from now)
// is attached.
func (s *Service) FindByEmail(ctx context.Context, email, country string) (*Subscriber, error) {
	client, err := s.clientFor(country)
	if err != nil {
		return nil, err
	}

	matches, err := client.SearchByEmail(ctx, email)
	if err != nil {
		logger.Error("failed to search subscriber", "email", email, "country", country, "error", err)
		return nil, remoteErr("find subscriber", err)
	}
	if len(matches) == 0 {
		logger.Info("subscriber not found", "email", email, "country", country)
		return nil, ErrNotFound
	}
	if len(matches) > 1 {
		logger.Warn("ambiguous subscriber search, using first match",
			"email", email, "country", country, "matches", len(matches))
	}

	sub := Normalize(matches[0])
	sub.PossibleStartDates = NextStartDates(s.now(), DefaultStartDateCount)
	logger.Info("subscriber found", "email", email, "country", country, "start_date", sub.StartDate)
	return &sub, nil
}

// UpdateStartDate sets the start_date field on a subscriber. The credential
// is re-resolved for the country and the subscriber re-fetched first to
// confirm the canonical remote identity; an unknown subscriber returns
// ErrNotFound without issuing the update.
func (s *Service) UpdateStartDate(ctx context.Context, email, country, newStartDate string) (*Subscriber, error) {
	existing, err := s.FindByEmail(ctx, email, country)
	if err != nil {
		return nil, err
	}

	client, err := s.clientFor(country)
	if err != nil {
		return nil, err
	}

	raw, err := client.UpdateFields(ctx, existing.Email, map[string]string{"start_date": newStartDate})
	if err != nil {
		logger.Error("failed to update start date",
			"email", email, "country", country, "start_date", newStartDate, "error", err)
		return nil, remoteErr("update start date", err)
	}

	logger.Info("start date updated", "email", email, "country", country, "start_date", newStartDate)
	sub := Normalize(*raw)
	return &sub, nil
}

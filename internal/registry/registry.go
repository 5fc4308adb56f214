// Package registry holds the static organization table built from the
// credential mapping at startup. The table is read-only afterwards, so
// no locking is needed.
package registry

import (
	"strings"
	"time"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/bcnelson/meraki-device-swap/internal/meraki"
	"github.com/rs/zerolog"
)

// Factory builds the dashboard client for one organization. Injected so
// tests can substitute fakes.
type Factory func(organizationID, apiKey string) meraki.API

// NewClientFactory returns the production factory backed by the HTTP
// dashboard client.
func NewClientFactory(baseURL string, timeout time.Duration, logger zerolog.Logger) Factory {
	return func(organizationID, apiKey string) meraki.API {
		return meraki.New(baseURL, organizationID, apiKey, timeout, logger)
	}
}

// Entry is one configured organization with its bound client.
type Entry struct {
	OrganizationID string
	Client         meraki.API

	apiKey string
}

// Registry is the ordered, immutable organization table.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// Load parses a comma-delimited sequence of organizationId:apiKey pairs
// into a registry, preserving insertion order. The search order of the
// locator follows this order exactly.
func Load(mapping string, factory Factory) (*Registry, error) {
	if strings.TrimSpace(mapping) == "" {
		return nil, &domain.ConfigurationError{Reason: "organization credential mapping is empty"}
	}

	r := &Registry{index: make(map[string]int)}
	for _, pair := range strings.Split(mapping, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		orgID, apiKey, ok := strings.Cut(pair, ":")
		orgID = strings.TrimSpace(orgID)
		apiKey = strings.TrimSpace(apiKey)
		if !ok || orgID == "" || apiKey == "" {
			return nil, &domain.ConfigurationError{
				Reason: "entry " + pair + " must be organizationId:apiKey",
			}
		}
		if _, exists := r.index[orgID]; exists {
			return nil, &domain.ConfigurationError{
				Reason: "organization " + orgID + " is configured twice",
			}
		}

		r.index[orgID] = len(r.entries)
		r.entries = append(r.entries, Entry{
			OrganizationID: orgID,
			Client:         factory(orgID, apiKey),
			apiKey:         apiKey,
		})
	}

	if len(r.entries) == 0 {
		return nil, &domain.ConfigurationError{Reason: "organization credential mapping is empty"}
	}
	return r, nil
}

// Entries returns the configured organizations in insertion order.
func (r *Registry) Entries() []Entry {
	return r.entries
}

// OrganizationIDs returns the configured organization ids in insertion
// order.
func (r *Registry) OrganizationIDs() []string {
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.OrganizationID
	}
	return ids
}

// ClientFor returns the bound client for an organization.
func (r *Registry) ClientFor(organizationID string) (meraki.API, error) {
	i, ok := r.index[organizationID]
	if !ok {
		return nil, &domain.UnknownOrganizationError{OrganizationID: organizationID}
	}
	return r.entries[i].Client, nil
}

// MaskedKey returns the organization's API key with all but the first
// and last four characters redacted, for display only.
func (r *Registry) MaskedKey(organizationID string) (string, error) {
	i, ok := r.index[organizationID]
	if !ok {
		return "", &domain.UnknownOrganizationError{OrganizationID: organizationID}
	}
	key := r.entries[i].apiKey
	if len(key) <= 8 {
		return strings.Repeat("*", len(key)), nil
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:], nil
}

// Package locator finds a device by serial across every configured
// organization and network. The search is strictly sequential in
// registry order and stops at the first match.
package locator

import (
	"context"
	"iter"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/bcnelson/meraki-device-swap/internal/meraki"
	"github.com/bcnelson/meraki-device-swap/internal/registry"
	"github.com/rs/zerolog"
)

// Site is one (organization, network) pair in search order, with the
// client bound to that organization.
type Site struct {
	Organization *domain.Organization
	Network      domain.Network
	Client       meraki.API
}

// Match is a located device with its owning network and organization.
type Match struct {
	Device       *domain.Device
	Network      domain.Network
	Organization *domain.Organization
}

// Locator searches the configured organization space.
type Locator struct {
	registry *registry.Registry
	logger   zerolog.Logger
}

// New creates a locator over the given registry.
func New(reg *registry.Registry, logger zerolog.Logger) *Locator {
	return &Locator{registry: reg, logger: logger}
}

// Sites yields every (organization, network) pair lazily: organizations
// in registry order, networks in the order the platform returns them.
// An unreachable organization is logged and skipped, never aborting the
// sequence. Consumers stop early by breaking out of the range.
func (l *Locator) Sites(ctx context.Context) iter.Seq[Site] {
	return func(yield func(Site) bool) {
		for _, entry := range l.registry.Entries() {
			org, err := entry.Client.GetOrganization(ctx)
			if err != nil {
				l.logger.Warn().Err(err).
					Str("organization", entry.OrganizationID).
					Msg("organization unreachable, skipping")
				continue
			}

			networks, err := entry.Client.ListNetworks(ctx)
			if err != nil {
				l.logger.Warn().Err(err).
					Str("organization", entry.OrganizationID).
					Msg("could not list networks, skipping organization")
				continue
			}

			for _, network := range networks {
				network.OrganizationID = entry.OrganizationID
				if !yield(Site{Organization: org, Network: network, Client: entry.Client}) {
					return
				}
			}
		}
	}
}

// Locate finds a device by serial. The first match wins and terminates
// the search; a 404 from one network means "keep looking", and any
// other per-network error is logged and skipped. DeviceNotFoundError is
// returned only after the whole space is exhausted.
func (l *Locator) Locate(ctx context.Context, serial string) (*Match, error) {
	for site := range l.Sites(ctx) {
		device, err := site.Client.GetDevice(ctx, site.Network.ID, serial)
		if err != nil {
			if !meraki.IsNotFound(err) {
				l.logger.Warn().Err(err).
					Str("network", site.Network.ID).
					Str("serial", serial).
					Msg("device lookup failed, skipping network")
			}
			continue
		}

		device.NetworkID = site.Network.ID
		device.OrganizationID = site.Organization.ID
		l.logger.Info().
			Str("serial", serial).
			Str("organization", site.Organization.ID).
			Str("network", site.Network.ID).
			Msg("device located")
		return &Match{Device: device, Network: site.Network, Organization: site.Organization}, nil
	}

	return nil, &domain.DeviceNotFoundError{
		Serial:                serial,
		SearchedOrganizations: l.registry.OrganizationIDs(),
	}
}

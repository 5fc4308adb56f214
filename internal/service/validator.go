package service

import (
	"context"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/bcnelson/meraki-device-swap/internal/locator"
	"github.com/bcnelson/meraki-device-swap/internal/meraki"
	"github.com/bcnelson/meraki-device-swap/internal/registry"
	"github.com/bcnelson/meraki-device-swap/internal/validation"
	"github.com/rs/zerolog"
)

// Validator checks a (failed, replacement) serial pair against the live
// platform before any replacement runs.
type Validator struct {
	locator  *locator.Locator
	registry *registry.Registry
	logger   zerolog.Logger
}

// NewValidator creates a validator over the given locator and registry.
func NewValidator(loc *locator.Locator, reg *registry.Registry, logger zerolog.Logger) *Validator {
	return &Validator{locator: loc, registry: reg, logger: logger}
}

// Validate locates the failed device, confirms the replacement sits in
// the same organization's inventory, and enforces the claim-conflict
// rule. The result carries all the context the orchestrator needs so it
// never re-runs discovery.
//
// Serial format and same-serial checks happen before any remote call.
func (v *Validator) Validate(ctx context.Context, failedSerial, replacementSerial string) (*domain.ValidationResult, error) {
	failedSerial = validation.NormalizeSerial(failedSerial)
	replacementSerial = validation.NormalizeSerial(replacementSerial)

	if err := validation.ValidateSerial("failedSerial", failedSerial); err != nil {
		return nil, err
	}
	if err := validation.ValidateSerial("replacementSerial", replacementSerial); err != nil {
		return nil, err
	}
	if failedSerial == replacementSerial {
		return nil, domain.ErrSameSerial
	}

	match, err := v.locator.Locate(ctx, failedSerial)
	if err != nil {
		return nil, err
	}

	// The replacement must come from the inventory of the organization
	// that owns the failed device. Other organizations are never
	// consulted, which rules out cross-organization replacement by
	// construction.
	client, err := v.registry.ClientFor(match.Device.OrganizationID)
	if err != nil {
		return nil, err
	}

	inventory, err := client.ListInventory(ctx)
	if err != nil {
		return nil, err
	}

	var replacement *domain.Device
	for i := range inventory {
		if inventory[i].Serial == replacementSerial {
			replacement = &inventory[i]
			break
		}
	}
	if replacement == nil {
		return nil, &domain.ReplacementNotFoundError{
			Serial:         replacementSerial,
			OrganizationID: match.Device.OrganizationID,
		}
	}
	replacement.OrganizationID = match.Device.OrganizationID

	if replacement.NetworkID != "" && replacement.NetworkID != match.Network.ID {
		return nil, &domain.ClaimConflictError{
			Serial:    replacementSerial,
			NetworkID: replacement.NetworkID,
		}
	}

	v.enrichStatus(ctx, client, match.Device)

	return &domain.ValidationResult{
		Success:           true,
		FailedDevice:      match.Device,
		ReplacementDevice: replacement,
		NetworkID:         match.Network.ID,
		OrganizationID:    match.Device.OrganizationID,
		OrganizationName:  match.Organization.Name,
	}, nil
}

// enrichStatus fills in live connectivity details. Best-effort: a
// failed status fetch leaves the device record as-is.
func (v *Validator) enrichStatus(ctx context.Context, client meraki.API, device *domain.Device) {
	statuses, err := client.GetDeviceStatuses(ctx)
	if err != nil {
		v.logger.Debug().Err(err).
			Str("serial", device.Serial).
			Msg("could not fetch device statuses, returning unenriched record")
		return
	}

	for _, status := range statuses {
		if status.Serial == device.Serial {
			device.Status = status.Status
			device.LanIP = status.LanIP
			device.PublicIP = status.PublicIP
			return
		}
	}
}

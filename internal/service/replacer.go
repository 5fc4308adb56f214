package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/bcnelson/meraki-device-swap/internal/meraki"
	"github.com/bcnelson/meraki-device-swap/internal/recorder"
	"github.com/bcnelson/meraki-device-swap/internal/registry"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Pipeline step messages, in execution order.
const (
	msgFetchConfig = "Fetching configuration from failed device"
	msgClaim       = "Claiming replacement device into target network"
	msgApplyConfig = "Applying configuration to replacement device"
	msgRemove      = "Removing failed device from network"
)

// capabilityState distinguishes "device has no such capability" from
// "the fetch failed and was ignored". Best-effort sub-operations hinge
// on this distinction.
type capabilityState int

const (
	capabilityAbsent capabilityState = iota
	capabilityPresent
	capabilityErrored
)

type radioCapability struct {
	state    capabilityState
	settings domain.RadioSettings
}

type portsCapability struct {
	state capabilityState
	ports []domain.SwitchPort
}

// Replacer runs the four-step replacement pipeline. Steps execute
// strictly in order; the first unrecoverable error aborts the rest.
// There is no rollback: a device claimed in step 2 stays claimed even
// if a later step fails.
type Replacer struct {
	registry *registry.Registry
	recorder recorder.Recorder
	logger   zerolog.Logger
}

// NewReplacer creates a replacer over the given registry and recorder.
func NewReplacer(reg *registry.Registry, rec recorder.Recorder, logger zerolog.Logger) *Replacer {
	return &Replacer{registry: reg, recorder: rec, logger: logger}
}

// stepTracker collects the ordered, immutable step history of one run.
// A step is appended exactly once, with its terminal status.
type stepTracker struct {
	steps []domain.OperationStep
}

func (t *stepTracker) completed(step int, message string) {
	t.steps = append(t.steps, domain.OperationStep{
		Step:      step,
		Message:   message,
		Status:    domain.StepCompleted,
		Timestamp: time.Now().UTC(),
	})
}

func (t *stepTracker) failed(step int, message string, err error) {
	t.steps = append(t.steps, domain.OperationStep{
		Step:      step,
		Message:   message,
		Status:    domain.StepFailed,
		Timestamp: time.Now().UTC(),
		Error:     meraki.UserMessage(err),
	})
}

// Replace transfers the failed device's configuration to the
// replacement and removes the failed device. The caller provides the
// validated (networkID, organizationID) tuple so no discovery runs
// here.
func (r *Replacer) Replace(ctx context.Context, failedSerial, replacementSerial, networkID, organizationID string) *domain.ReplacementResult {
	tracker := &stepTracker{}

	client, err := r.registry.ClientFor(organizationID)
	if err != nil {
		return r.finish(ctx, tracker, nil, failedSerial, replacementSerial, networkID, organizationID, err)
	}

	logger := r.logger.With().
		Str("failed_serial", failedSerial).
		Str("replacement_serial", replacementSerial).
		Str("network", networkID).
		Str("organization", organizationID).
		Logger()

	// Step 1: read the failed device's full configuration. Radio and
	// switch-port settings are capability-dependent and fetched
	// best-effort.
	failed, radio, ports, err := r.fetchConfiguration(ctx, client, networkID, failedSerial, logger)
	if err != nil {
		tracker.failed(1, msgFetchConfig, &domain.StepExecutionError{Step: 1, Message: msgFetchConfig, Err: err})
		return r.finish(ctx, tracker, nil, failedSerial, replacementSerial, networkID, organizationID, err)
	}
	tracker.completed(1, msgFetchConfig)

	// Step 2: claim the replacement. Claiming a device already in the
	// target network is treated as success.
	if err := r.claimReplacement(ctx, client, networkID, replacementSerial, logger); err != nil {
		tracker.failed(2, msgClaim, &domain.StepExecutionError{Step: 2, Message: msgClaim, Err: err})
		return r.finish(ctx, tracker, nil, failedSerial, replacementSerial, networkID, organizationID, err)
	}
	tracker.completed(2, msgClaim)

	// Step 3: apply the copied configuration, then the best-effort
	// radio and per-port settings.
	transferred, err := r.applyConfiguration(ctx, client, failed, radio, ports, networkID, replacementSerial, logger)
	if err != nil {
		tracker.failed(3, msgApplyConfig, &domain.StepExecutionError{Step: 3, Message: msgApplyConfig, Err: err})
		return r.finish(ctx, tracker, nil, failedSerial, replacementSerial, networkID, organizationID, err)
	}
	tracker.completed(3, msgApplyConfig)

	// Step 4: remove the failed device from the network.
	if err := client.RemoveDevice(ctx, networkID, failedSerial); err != nil {
		tracker.failed(4, msgRemove, &domain.StepExecutionError{Step: 4, Message: msgRemove, Err: err})
		return r.finish(ctx, tracker, nil, failedSerial, replacementSerial, networkID, organizationID, err)
	}
	tracker.completed(4, msgRemove)

	summary := &domain.TransferSummary{
		FailedSerial:      failedSerial,
		ReplacementSerial: replacementSerial,
		Transferred:       transferred,
		CompletedAt:       time.Now().UTC(),
	}
	logger.Info().Strs("transferred", transferred).Msg("device replacement completed")
	return r.finish(ctx, tracker, summary, failedSerial, replacementSerial, networkID, organizationID, nil)
}

// fetchConfiguration reads the failed device and its optional radio and
// switch-port settings. Only the device read itself can fail the step:
// a 404 on a capability endpoint means the capability does not exist,
// and any other capability error is logged and carried as "errored".
func (r *Replacer) fetchConfiguration(ctx context.Context, client meraki.API, networkID, serial string, logger zerolog.Logger) (*domain.Device, radioCapability, portsCapability, error) {
	radio := radioCapability{state: capabilityAbsent}
	ports := portsCapability{state: capabilityAbsent}

	device, err := client.GetDevice(ctx, networkID, serial)
	if err != nil {
		return nil, radio, ports, err
	}

	settings, err := client.GetRadioSettings(ctx, serial)
	switch {
	case err == nil:
		radio = radioCapability{state: capabilityPresent, settings: settings}
	case meraki.IsNotFound(err):
		// no wireless capability
	default:
		radio.state = capabilityErrored
		logger.Warn().Err(err).Msg("could not fetch radio settings, continuing without them")
	}

	switchPorts, err := client.ListSwitchPorts(ctx, serial)
	switch {
	case err == nil && len(switchPorts) > 0:
		ports = portsCapability{state: capabilityPresent, ports: switchPorts}
	case err == nil || meraki.IsNotFound(err):
		// no switch capability
	default:
		ports.state = capabilityErrored
		logger.Warn().Err(err).Msg("could not fetch switch ports, continuing without them")
	}

	return device, radio, ports, nil
}

// claimReplacement claims the serial into the target network,
// idempotently.
func (r *Replacer) claimReplacement(ctx context.Context, client meraki.API, networkID, serial string, logger zerolog.Logger) error {
	err := client.ClaimDevice(ctx, networkID, serial)
	if err == nil {
		return nil
	}
	if meraki.IsAlreadyClaimed(err) {
		// Validation guarantees the existing claim is the target
		// network, so re-running the pipeline is safe.
		logger.Info().Str("serial", serial).Msg("replacement already claimed in target network")
		return nil
	}
	return err
}

// applyConfiguration builds and applies the configuration payload, then
// the best-effort radio and per-port settings. Returns the transferred
// category list for the summary.
func (r *Replacer) applyConfiguration(ctx context.Context, client meraki.API, failed *domain.Device, radio radioCapability, ports portsCapability, networkID, replacementSerial string, logger zerolog.Logger) ([]string, error) {
	update := &domain.DeviceUpdate{}

	// Hostname carries over verbatim; an unnamed device gets the
	// replacement's own serial as its name.
	hostname := failed.Name
	if hostname == "" {
		hostname = replacementSerial
	}
	update.Name = &hostname

	if len(failed.Tags) > 0 {
		update.Tags = failed.Tags
	}
	if failed.Address != "" {
		update.Address = &failed.Address
	}
	if failed.Lat != nil && failed.Lng != nil {
		update.Lat = failed.Lat
		update.Lng = failed.Lng
	}
	if update.Address != nil || update.Lat != nil {
		moveMarker := true
		update.MoveMapMarker = &moveMarker
	}
	if failed.FloorPlanID != "" {
		update.FloorPlanID = &failed.FloorPlanID
	}

	// Notes are cumulative: the existing text is kept and a marker is
	// appended recording which serial was replaced and when.
	notes := failed.Notes
	if notes != "" {
		notes += "\n\n"
	}
	notes += fmt.Sprintf("Replaced %s on %s", failed.Serial, time.Now().UTC().Format(time.RFC3339))
	update.Notes = &notes

	if err := client.UpdateDevice(ctx, networkID, replacementSerial, update); err != nil {
		return nil, err
	}

	transferred := []string{"hostname", "location", "tags"}

	if radio.state == capabilityPresent {
		if err := client.UpdateRadioSettings(ctx, replacementSerial, radio.settings); err != nil {
			logger.Warn().Err(err).Msg("could not apply radio settings to replacement")
		} else {
			transferred = append(transferred, "wireless radio settings")
		}
	}

	if ports.state == capabilityPresent {
		applied := 0
		for _, port := range ports.ports {
			portID := port.PortID()
			if portID == "" {
				continue
			}
			if err := client.UpdateSwitchPort(ctx, replacementSerial, portID, port); err != nil {
				logger.Warn().Err(err).Str("port", portID).Msg("could not apply switch port configuration")
				continue
			}
			applied++
		}
		if applied > 0 {
			transferred = append(transferred, "switch port configuration")
		}
	}

	return transferred, nil
}

// finish assembles the result and hands the outcome to the recorder.
// Recording failures are logged, never surfaced.
func (r *Replacer) finish(ctx context.Context, tracker *stepTracker, summary *domain.TransferSummary, failedSerial, replacementSerial, networkID, organizationID string, cause error) *domain.ReplacementResult {
	result := &domain.ReplacementResult{
		Success:    cause == nil,
		Operations: tracker.steps,
		Summary:    summary,
	}

	record := &domain.OperationRecord{
		ID:                uuid.New().String(),
		CreatedAt:         time.Now().UTC(),
		Status:            domain.RecordSuccess,
		FailedSerial:      failedSerial,
		ReplacementSerial: replacementSerial,
		OrganizationID:    organizationID,
		NetworkID:         networkID,
	}
	if cause != nil {
		result.Message = meraki.UserMessage(cause)
		record.Status = domain.RecordFailure
		record.Detail = result.Message
	}
	if summary != nil {
		record.Transferred = summary.Transferred
	}

	if err := r.recorder.Record(ctx, record); err != nil {
		r.logger.Error().Err(err).Str("record_id", record.ID).Msg("could not record operation outcome")
	}
	return result
}

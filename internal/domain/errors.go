package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout the application.
var (
	ErrNotFound   = errors.New("not found")
	ErrSameSerial = errors.New("failed and replacement serials must differ")
)

// ConfigurationError reports a bad or missing credential mapping.
// Fatal at startup; never produced after construction.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// UnknownOrganizationError reports a registry lookup for an
// organization that was never configured.
type UnknownOrganizationError struct {
	OrganizationID string
}

func (e *UnknownOrganizationError) Error() string {
	return fmt.Sprintf("organization %s is not configured", e.OrganizationID)
}

// ValidationFormatError reports a malformed serial, rejected before any
// remote call is made.
type ValidationFormatError struct {
	Field string
	Value string
}

func (e *ValidationFormatError) Error() string {
	return fmt.Sprintf("%s %q is not a valid serial (expected XXXX-XXXX-XXXX)", e.Field, e.Value)
}

// DeviceNotFoundError reports that the failed device was absent from
// every configured organization. SearchedOrganizations lists them in
// search order.
type DeviceNotFoundError struct {
	Serial                string
	SearchedOrganizations []string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("device %s not found in any configured organization (searched: %s)",
		e.Serial, strings.Join(e.SearchedOrganizations, ", "))
}

// ReplacementNotFoundError reports that the replacement serial is not
// in the inventory of the organization that owns the failed device.
type ReplacementNotFoundError struct {
	Serial         string
	OrganizationID string
}

func (e *ReplacementNotFoundError) Error() string {
	return fmt.Sprintf("replacement device %s not found in the inventory of organization %s",
		e.Serial, e.OrganizationID)
}

// ClaimConflictError reports that the replacement device is already
// claimed by a network other than the target network.
type ClaimConflictError struct {
	Serial    string
	NetworkID string
}

func (e *ClaimConflictError) Error() string {
	return fmt.Sprintf("replacement device %s is already claimed by network %s", e.Serial, e.NetworkID)
}

// StepExecutionError aborts the replacement pipeline. It is attached to
// the failed step and surfaced with the partial step history.
type StepExecutionError struct {
	Step    int
	Message string
	Err     error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.Message, e.Err)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}

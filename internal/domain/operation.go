package domain

import "time"

// StepStatus is the terminal (or reported) state of one pipeline step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in-progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// OperationStep is one immutable record of the replacement pipeline.
// Steps are numbered 1-based in execution order and appended once their
// terminal status is known; steps that never started are absent.
type OperationStep struct {
	Step      int        `json:"step"`
	Message   string     `json:"message"`
	Status    StepStatus `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
	Error     string     `json:"error,omitempty"`
}

// TransferSummary lists which configuration categories were carried
// over to the replacement device. Produced only on full success.
type TransferSummary struct {
	FailedSerial      string    `json:"failedSerial"`
	ReplacementSerial string    `json:"replacementSerial"`
	Transferred       []string  `json:"transferred"`
	CompletedAt       time.Time `json:"completedAt"`
}

// ReplacementResult is the outcome of one orchestration run: the
// ordered step history plus, on success, the transfer summary.
type ReplacementResult struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Operations []OperationStep  `json:"operations"`
	Summary    *TransferSummary `json:"summary,omitempty"`
}

// ValidationResult carries everything the orchestrator needs so it
// never re-runs discovery. Produced once per validate/replace request.
type ValidationResult struct {
	Success           bool    `json:"success"`
	Message           string  `json:"message,omitempty"`
	FailedDevice      *Device `json:"failedDevice,omitempty"`
	ReplacementDevice *Device `json:"replacementDevice,omitempty"`
	NetworkID         string  `json:"networkId,omitempty"`
	OrganizationID    string  `json:"organizationId,omitempty"`
	OrganizationName  string  `json:"organizationName,omitempty"`
}

// Operation record statuses.
const (
	RecordSuccess = "success"
	RecordFailure = "failure"
)

// OperationRecord is the persisted summary of one orchestration run.
type OperationRecord struct {
	ID                string    `json:"id" db:"id"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	Status            string    `json:"status" db:"status"`
	FailedSerial      string    `json:"failedSerial" db:"failed_serial"`
	ReplacementSerial string    `json:"replacementSerial" db:"replacement_serial"`
	OrganizationID    string    `json:"organizationId" db:"organization_id"`
	NetworkID         string    `json:"networkId" db:"network_id"`
	Detail            string    `json:"detail,omitempty" db:"detail"`
	Transferred       []string  `json:"transferred,omitempty" db:"-"`
}

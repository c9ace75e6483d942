package workflow

import (
	"fmt"

	"github.com/ayos-surigao/ayos-api/models"
)

// ValidationError reports a malformed or missing input field. It is always
// raised before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports a status change that is not permitted from
// the current state or by the acting role. It is never auto-corrected to a
// nearby valid state.
type InvalidTransitionError struct {
	From models.ReportStatus
	To   models.ReportStatus
	Role models.StaffRole
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s for role %s", e.From, e.To, e.Role)
}

// AssignmentReason identifies which assignment precondition failed
type AssignmentReason string

// Assignment failure reasons
const (
	ReasonStaffOffDuty       AssignmentReason = "staff_off_duty"
	ReasonDepartmentMismatch AssignmentReason = "department_mismatch"
	ReasonZoneMismatch       AssignmentReason = "zone_mismatch"
	ReasonStaffInactive      AssignmentReason = "staff_inactive"
)

// AssignmentError reports an unmet assignment precondition with a specific
// reason so the caller can surface an actionable message
type AssignmentError struct {
	Reason AssignmentReason
	Detail string
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("assignment rejected (%s): %s", e.Reason, e.Detail)
}

// ConflictError reports a lost optimistic-concurrency race: the report
// status changed between the caller's read and the conditional write. The
// caller should re-read and retry.
type ConflictError struct {
	ReportID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("report %s was modified concurrently, retry against fresh state", e.ReportID)
}

// NotFoundError reports a missing or soft-deleted record
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// BackendUnavailableError wraps a failed or timed-out call to the remote
// store. Unlike the other kinds it is transient and safe to retry with
// backoff.
type BackendUnavailableError struct {
	Op  string
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("backend unavailable during %s: %v", e.Op, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

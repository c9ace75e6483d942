package workflow

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayos-surigao/ayos-api/models"
)

// Actor is the authenticated identity performing a workflow operation.
// It is always passed explicitly; the core never reads ambient state.
type Actor struct {
	ID   string
	Name string
	Role models.StaffRole
}

// transitionTable is the authoritative contract for the report state
// machine: for each current status, the set of reachable statuses and the
// roles allowed to trigger each move. Any status change not in this table
// fails, no exceptions. Rejected is terminal.
var transitionTable = map[models.ReportStatus]map[models.ReportStatus][]models.StaffRole{
	models.StatusSubmitted: {
		models.StatusTriaged:  {models.RoleOperationsManager, models.RoleSystemAdmin},
		models.StatusRejected: {models.RoleOperationsManager, models.RoleSystemAdmin},
	},
	models.StatusTriaged: {
		models.StatusAssigned: {models.RoleOperationsManager},
		models.StatusRejected: {models.RoleOperationsManager},
	},
	models.StatusAssigned: {
		models.StatusInProgress: {models.RoleOperationsManager, models.RoleFieldCoordinator},
		models.StatusForwarded:  {models.RoleOperationsManager, models.RoleFieldCoordinator},
	},
	models.StatusInProgress: {
		models.StatusForwarded: {models.RoleFieldCoordinator},
		models.StatusResolved:  {models.RoleFieldCoordinator},
		models.StatusRejected:  {models.RoleFieldCoordinator},
	},
	models.StatusForwarded: {
		models.StatusResolved: {models.RoleFieldCoordinator},
		models.StatusRejected: {models.RoleFieldCoordinator},
		models.StatusReopened: {models.RoleFieldCoordinator},
	},
	models.StatusResolved: {
		models.StatusClosed:   {models.RoleOperationsManager, models.RoleFieldCoordinator},
		models.StatusReopened: {models.RoleOperationsManager, models.RoleFieldCoordinator},
	},
	models.StatusClosed: {
		models.StatusReopened: {models.RoleOperationsManager},
	},
	models.StatusReopened: {
		models.StatusAssigned:   {models.RoleOperationsManager, models.RoleFieldCoordinator},
		models.StatusInProgress: {models.RoleOperationsManager, models.RoleFieldCoordinator},
		models.StatusResolved:   {models.RoleOperationsManager, models.RoleFieldCoordinator},
		models.StatusClosed:     {models.RoleOperationsManager, models.RoleFieldCoordinator},
	},
	models.StatusRejected: {},
}

// CanTransition reports whether the table permits from -> to for the role
func CanTransition(from, to models.ReportStatus, role models.StaffRole) bool {
	targets, ok := transitionTable[from]
	if !ok {
		return false
	}
	roles, ok := targets[to]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses the given role may move a report
// into from its current status. Used by the ops console to render action
// buttons.
func AllowedTransitions(from models.ReportStatus, role models.StaffRole) []models.ReportStatus {
	var out []models.ReportStatus
	for _, to := range models.ReportStatuses {
		if CanTransition(from, to, role) {
			out = append(out, to)
		}
	}
	return out
}

// Transition applies a status change to the in-memory report and returns
// the single history entry the caller must append. The report is only
// mutated on success.
//
// Side effects on success: status and updatedAt are set; entering resolved
// stamps resolvedAt/resolvedBy if not already set; reopening out of a
// resolved report clears them. The caller is responsible for writing the
// report back conditionally on the old status (see databases.ReportDatabase)
// and for persisting the returned history entry.
func Transition(r *models.Report, to models.ReportStatus, actor Actor, note string, now time.Time) (*models.StatusHistoryEntry, error) {
	from := r.Status
	if !CanTransition(from, to, actor.Role) {
		return nil, &InvalidTransitionError{From: from, To: to, Role: actor.Role}
	}

	r.Status = to
	r.UpdatedAt = now

	if to == models.StatusResolved && r.ResolvedAt == nil {
		t := now
		r.ResolvedAt = &t
		if oid := actorObjectID(actor); oid != nil {
			r.ResolvedBy = oid
		}
	}
	if to == models.StatusReopened {
		r.ResolvedAt = nil
		r.ResolvedBy = nil
	}

	entry := &models.StatusHistoryEntry{
		ReportID:  r.ID,
		OldStatus: from,
		NewStatus: to,
		ChangedBy: actor.ID,
		Role:      actor.Role,
		Note:      note,
		CreatedAt: now,
	}
	return entry, nil
}

// actorObjectID converts the actor id to an ObjectID reference when the id
// is a valid hex string; scheduler and system actors carry symbolic ids
// and stamp no resolvedBy reference.
func actorObjectID(a Actor) *primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(a.ID)
	if err != nil {
		return nil
	}
	return &oid
}

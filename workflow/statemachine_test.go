package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayos-surigao/ayos-api/models"
	"github.com/ayos-surigao/ayos-api/workflow"
)

type allowed struct {
	from models.ReportStatus
	to   models.ReportStatus
	role models.StaffRole
}

// the full transition contract, spelled out triple by triple
var allowedTriples = []allowed{
	{models.StatusSubmitted, models.StatusTriaged, models.RoleOperationsManager},
	{models.StatusSubmitted, models.StatusTriaged, models.RoleSystemAdmin},
	{models.StatusSubmitted, models.StatusRejected, models.RoleOperationsManager},
	{models.StatusSubmitted, models.StatusRejected, models.RoleSystemAdmin},
	{models.StatusTriaged, models.StatusAssigned, models.RoleOperationsManager},
	{models.StatusTriaged, models.StatusRejected, models.RoleOperationsManager},
	{models.StatusAssigned, models.StatusInProgress, models.RoleOperationsManager},
	{models.StatusAssigned, models.StatusInProgress, models.RoleFieldCoordinator},
	{models.StatusAssigned, models.StatusForwarded, models.RoleOperationsManager},
	{models.StatusAssigned, models.StatusForwarded, models.RoleFieldCoordinator},
	{models.StatusInProgress, models.StatusForwarded, models.RoleFieldCoordinator},
	{models.StatusInProgress, models.StatusResolved, models.RoleFieldCoordinator},
	{models.StatusInProgress, models.StatusRejected, models.RoleFieldCoordinator},
	{models.StatusForwarded, models.StatusResolved, models.RoleFieldCoordinator},
	{models.StatusForwarded, models.StatusRejected, models.RoleFieldCoordinator},
	{models.StatusForwarded, models.StatusReopened, models.RoleFieldCoordinator},
	{models.StatusResolved, models.StatusClosed, models.RoleOperationsManager},
	{models.StatusResolved, models.StatusClosed, models.RoleFieldCoordinator},
	{models.StatusResolved, models.StatusReopened, models.RoleOperationsManager},
	{models.StatusResolved, models.StatusReopened, models.RoleFieldCoordinator},
	{models.StatusClosed, models.StatusReopened, models.RoleOperationsManager},
	{models.StatusReopened, models.StatusAssigned, models.RoleOperationsManager},
	{models.StatusReopened, models.StatusAssigned, models.RoleFieldCoordinator},
	{models.StatusReopened, models.StatusInProgress, models.RoleOperationsManager},
	{models.StatusReopened, models.StatusInProgress, models.RoleFieldCoordinator},
	{models.StatusReopened, models.StatusResolved, models.RoleOperationsManager},
	{models.StatusReopened, models.StatusResolved, models.RoleFieldCoordinator},
	{models.StatusReopened, models.StatusClosed, models.RoleOperationsManager},
	{models.StatusReopened, models.StatusClosed, models.RoleFieldCoordinator},
}

func isAllowed(from, to models.ReportStatus, role models.StaffRole) bool {
	for _, a := range allowedTriples {
		if a.from == from && a.to == to && a.role == role {
			return true
		}
	}
	return false
}

func newTestReport(status models.ReportStatus) *models.Report {
	now := time.Now().UTC().Add(-time.Hour)
	return &models.Report{
		ID:           primitive.NewObjectID(),
		ReportNumber: "AYS-2026-00042",
		Title:        "Deep pothole near the public market",
		Description:  "Large pothole swallowing tricycle wheels on the main road",
		Category:     models.CategoryRoadDamage,
		Urgency:      models.UrgencyHigh,
		BarangayCode: "SUR-034",
		BarangayName: "Taft",
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestTransitionTableLegality(t *testing.T) {
	roles := []models.StaffRole{
		models.RoleFieldCoordinator, models.RoleOperationsManager, models.RoleSystemAdmin,
	}
	now := time.Now().UTC()

	for _, from := range models.ReportStatuses {
		for _, to := range models.ReportStatuses {
			for _, role := range roles {
				r := newTestReport(from)
				entry, err := workflow.Transition(r, to, workflow.Actor{ID: "tester", Role: role}, "", now)

				if isAllowed(from, to, role) {
					assert.NoError(t, err, "expected %s -> %s by %s to succeed", from, to, role)
					assert.NotNil(t, entry)
					assert.Equal(t, from, entry.OldStatus)
					assert.Equal(t, to, entry.NewStatus)
					assert.Equal(t, to, r.Status)
				} else {
					assert.Error(t, err, "expected %s -> %s by %s to fail", from, to, role)
					var ite *workflow.InvalidTransitionError
					assert.ErrorAs(t, err, &ite)
					assert.Nil(t, entry)
					assert.Equal(t, from, r.Status, "failed transition must not mutate the report")
				}
			}
		}
	}
}

func TestTransitionInvalidErrorCarriesContext(t *testing.T) {
	r := newTestReport(models.StatusResolved)
	_, err := workflow.Transition(r, models.StatusTriaged,
		workflow.Actor{ID: "ops-1", Role: models.RoleOperationsManager}, "", time.Now())

	var ite *workflow.InvalidTransitionError
	assert.ErrorAs(t, err, &ite)
	assert.Equal(t, models.StatusResolved, ite.From)
	assert.Equal(t, models.StatusTriaged, ite.To)
	assert.Equal(t, models.RoleOperationsManager, ite.Role)
}

func TestTransitionFullLifecycle(t *testing.T) {
	r := newTestReport(models.StatusSubmitted)
	opsManager := workflow.Actor{ID: primitive.NewObjectID().Hex(), Role: models.RoleOperationsManager}
	coordinator := workflow.Actor{ID: primitive.NewObjectID().Hex(), Role: models.RoleFieldCoordinator}

	steps := []struct {
		to    models.ReportStatus
		actor workflow.Actor
	}{
		{models.StatusTriaged, opsManager},
		{models.StatusAssigned, opsManager},
		{models.StatusInProgress, coordinator},
		{models.StatusResolved, coordinator},
	}

	var history []*models.StatusHistoryEntry
	now := time.Now().UTC()
	for _, step := range steps {
		now = now.Add(time.Minute)
		entry, err := workflow.Transition(r, step.to, step.actor, "", now)
		assert.NoError(t, err)
		history = append(history, entry)
	}

	assert.Equal(t, models.StatusResolved, r.Status)
	assert.Len(t, history, 4)
	if assert.NotNil(t, r.ResolvedAt) {
		assert.True(t, !r.ResolvedAt.Before(r.CreatedAt), "resolvedAt must not precede createdAt")
	}
	assert.NotNil(t, r.ResolvedBy)

	// the resolved report cannot be pulled back to triage
	_, err := workflow.Transition(r, models.StatusTriaged, opsManager, "", now)
	var ite *workflow.InvalidTransitionError
	assert.ErrorAs(t, err, &ite)
}

func TestReopenClearsResolutionStamps(t *testing.T) {
	r := newTestReport(models.StatusResolved)
	resolvedAt := time.Now().UTC().Add(-time.Hour)
	resolvedBy := primitive.NewObjectID()
	r.ResolvedAt = &resolvedAt
	r.ResolvedBy = &resolvedBy

	_, err := workflow.Transition(r, models.StatusReopened,
		workflow.Actor{ID: "ops-1", Role: models.RoleOperationsManager}, "issue recurred", time.Now())
	assert.NoError(t, err)
	assert.Nil(t, r.ResolvedAt)
	assert.Nil(t, r.ResolvedBy)
	assert.Equal(t, models.StatusReopened, r.Status)
}

func TestResolvedAtNotOverwrittenOnReresolve(t *testing.T) {
	r := newTestReport(models.StatusReopened)
	original := time.Now().UTC().Add(-48 * time.Hour)
	r.ResolvedAt = nil

	first, err := workflow.Transition(r, models.StatusResolved,
		workflow.Actor{ID: primitive.NewObjectID().Hex(), Role: models.RoleFieldCoordinator}, "", original)
	assert.NoError(t, err)
	assert.NotNil(t, first)
	stamp := *r.ResolvedAt

	// closing keeps the stamp intact
	_, err = workflow.Transition(r, models.StatusClosed,
		workflow.Actor{ID: "ops-1", Role: models.RoleOperationsManager}, "", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, stamp, *r.ResolvedAt)
}

func TestRejectedIsTerminal(t *testing.T) {
	roles := []models.StaffRole{
		models.RoleFieldCoordinator, models.RoleOperationsManager, models.RoleSystemAdmin,
	}
	for _, to := range models.ReportStatuses {
		for _, role := range roles {
			r := newTestReport(models.StatusRejected)
			_, err := workflow.Transition(r, to, workflow.Actor{ID: "x", Role: role}, "", time.Now())
			assert.Error(t, err)
		}
	}
}

func TestAllowedTransitions(t *testing.T) {
	got := workflow.AllowedTransitions(models.StatusSubmitted, models.RoleOperationsManager)
	assert.ElementsMatch(t, []models.ReportStatus{models.StatusTriaged, models.StatusRejected}, got)

	assert.Empty(t, workflow.AllowedTransitions(models.StatusSubmitted, models.RoleFieldCoordinator))
	assert.Empty(t, workflow.AllowedTransitions(models.StatusRejected, models.RoleSystemAdmin))
}

package workflow

import (
	"sync"
	"time"

	"github.com/ayos-surigao/ayos-api/models"
)

// categoryDepartments maps each report category to the departments allowed
// to take it. Field operations is compatible with every category since its
// coordinators handle general on-site work.
var categoryDepartments = map[models.ReportCategory][]models.Department{
	models.CategoryRoadDamage:        {models.DepartmentFieldOperations},
	models.CategoryBrokenStreetlight: {models.DepartmentFieldOperations, models.DepartmentUtilities},
	models.CategoryDrainageFlooding:  {models.DepartmentFieldOperations},
	models.CategoryGarbageCollection: {models.DepartmentFieldOperations, models.DepartmentSanitation},
	models.CategoryWaterSupply:       {models.DepartmentFieldOperations, models.DepartmentUtilities},
	models.CategoryElectricalHazard:  {models.DepartmentFieldOperations, models.DepartmentUtilities},
	models.CategoryPublicSafety:      {models.DepartmentFieldOperations, models.DepartmentPublicSafety},
	models.CategoryVandalism:         {models.DepartmentFieldOperations, models.DepartmentPublicSafety},
	models.CategoryStrayAnimals:      {models.DepartmentFieldOperations, models.DepartmentSanitation},
	models.CategoryOther:             {models.DepartmentFieldOperations},
}

// DepartmentCompatible reports whether a department may take reports of
// the given category
func DepartmentCompatible(category models.ReportCategory, dept models.Department) bool {
	for _, d := range categoryDepartments[category] {
		if d == dept {
			return true
		}
	}
	return false
}

// CheckAssignment verifies every assignment precondition for the candidate
// staff member against the report. Each violation fails with its own
// reason; the first failing check wins.
func CheckAssignment(r *models.Report, staff *models.OperationsStaff) error {
	if !staff.Active {
		return &AssignmentError{Reason: ReasonStaffInactive, Detail: "staff account is deactivated"}
	}
	if !staff.OnDuty {
		return &AssignmentError{Reason: ReasonStaffOffDuty, Detail: staff.Name + " is not on duty"}
	}
	if !DepartmentCompatible(r.Category, staff.Department) {
		return &AssignmentError{
			Reason: ReasonDepartmentMismatch,
			Detail: string(staff.Department) + " does not handle " + string(r.Category) + " reports",
		}
	}
	if zone := models.ZoneForBarangay(r.BarangayCode); zone != "" {
		if staff.Zone != zone && staff.Zone != models.ZoneCitywide {
			return &AssignmentError{
				Reason: ReasonZoneMismatch,
				Detail: "report requires zone " + zone + ", staff covers " + staff.Zone,
			}
		}
	}
	return nil
}

// Assign attaches the staff member to the report after checking every
// precondition. If the report is still triaged the status advances to
// assigned through the state machine; in any later state only the assignee
// changes and no history entry is produced. The report is only mutated on
// success.
func Assign(r *models.Report, staff *models.OperationsStaff, actor Actor, now time.Time) (*models.StatusHistoryEntry, error) {
	if err := CheckAssignment(r, staff); err != nil {
		return nil, err
	}

	var entry *models.StatusHistoryEntry
	if r.Status == models.StatusTriaged {
		var err error
		entry, err = Transition(r, models.StatusAssigned, actor, "assigned to "+staff.Name, now)
		if err != nil {
			return nil, err
		}
	}

	id := staff.ID
	r.AssignedTo = &id
	t := now
	r.AssignedAt = &t
	r.UpdatedAt = now
	return entry, nil
}

// Rotation is the round-robin cursor used by auto-assignment. It lives in
// the process, not the store, so replicas may overlap; that is the same
// fairness level the product signed off on.
type Rotation struct {
	mu   sync.Mutex
	next int
}

// Pick selects the next eligible candidate for the report, rotating
// through the given staff in order. Candidates failing any assignment
// precondition are skipped; nil means nobody is eligible and the report
// stays where it is.
func (rt *Rotation) Pick(r *models.Report, staff []models.OperationsStaff) *models.OperationsStaff {
	if len(staff) == 0 {
		return nil
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	for i := 0; i < len(staff); i++ {
		candidate := &staff[(rt.next+i)%len(staff)]
		if CheckAssignment(r, candidate) == nil {
			rt.next = (rt.next + i + 1) % len(staff)
			return candidate
		}
	}
	return nil
}

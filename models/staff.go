package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StaffRole is the operations-center role attached to a staff account.
// Role names gate status transitions and assignment actions.
type StaffRole string

// All operations staff roles
const (
	RoleFieldCoordinator  StaffRole = "field_coordinator"
	RoleOperationsManager StaffRole = "operations_manager"
	RoleSystemAdmin       StaffRole = "system_admin"
)

// ParseRole validates a raw role string
func ParseRole(s string) (StaffRole, bool) {
	switch StaffRole(s) {
	case RoleFieldCoordinator, RoleOperationsManager, RoleSystemAdmin:
		return StaffRole(s), true
	}
	return "", false
}

// Department groups staff by the kind of issue they handle
type Department string

// All operations departments
const (
	DepartmentFieldOperations Department = "field_operations"
	DepartmentSanitation      Department = "sanitation"
	DepartmentUtilities       Department = "utilities"
	DepartmentPublicSafety    Department = "public_safety"
)

// ParseDepartment validates a raw department string
func ParseDepartment(s string) (Department, bool) {
	switch Department(s) {
	case DepartmentFieldOperations, DepartmentSanitation, DepartmentUtilities, DepartmentPublicSafety:
		return Department(s), true
	}
	return "", false
}

// OperationsStaff holds the structure for the staff collection in mongo.
// Accounts are deactivated rather than deleted so assignment history keeps
// resolving to a real person.
type OperationsStaff struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string              `json:"name" bson:"name"`
	Email        string              `json:"email" bson:"email"`
	Password     string              `json:"-" bson:"password"`
	Role         StaffRole           `json:"role" bson:"role"`
	Department   Department          `json:"department" bson:"department"`
	Zone         string              `json:"zone" bson:"zone"`
	OnDuty       bool                `json:"onDuty" bson:"onDuty"`
	SupervisorID *primitive.ObjectID `json:"supervisorId,omitempty" bson:"supervisorId,omitempty"`
	Active       bool                `json:"active" bson:"active"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt"`
}

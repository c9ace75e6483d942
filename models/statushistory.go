package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusHistoryEntry holds the structure for the status_history collection
// in mongo. Entries are append-only; the collection is the audit trail for
// the report state machine and is never mutated or deleted.
type StatusHistoryEntry struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ReportID  primitive.ObjectID `json:"reportId" bson:"reportId"`
	OldStatus ReportStatus       `json:"oldStatus" bson:"oldStatus"`
	NewStatus ReportStatus       `json:"newStatus" bson:"newStatus"`
	ChangedBy string             `json:"changedBy" bson:"changedBy"`
	Role      StaffRole          `json:"role,omitempty" bson:"role,omitempty"`
	Note      string             `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

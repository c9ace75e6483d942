package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPhotosPerReport caps the number of photo attachments the mobile form
// may submit with a single report.
const MaxPhotosPerReport = 3

// ReportStatus is the lifecycle state of a report
type ReportStatus string

// All report lifecycle states
const (
	StatusSubmitted  ReportStatus = "submitted"
	StatusTriaged    ReportStatus = "triaged"
	StatusAssigned   ReportStatus = "assigned"
	StatusInProgress ReportStatus = "in_progress"
	StatusForwarded  ReportStatus = "forwarded"
	StatusResolved   ReportStatus = "resolved"
	StatusClosed     ReportStatus = "closed"
	StatusReopened   ReportStatus = "reopened"
	StatusRejected   ReportStatus = "rejected"
)

// ReportStatuses lists every valid status value
var ReportStatuses = []ReportStatus{
	StatusSubmitted, StatusTriaged, StatusAssigned, StatusInProgress,
	StatusForwarded, StatusResolved, StatusClosed, StatusReopened, StatusRejected,
}

// ParseStatus validates a raw status string
func ParseStatus(s string) (ReportStatus, bool) {
	for _, st := range ReportStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// ReportCategory is the fixed set of issue categories the mobile form offers
type ReportCategory string

// All report categories
const (
	CategoryRoadDamage       ReportCategory = "road_damage"
	CategoryBrokenStreetlight ReportCategory = "broken_streetlight"
	CategoryDrainageFlooding ReportCategory = "drainage_flooding"
	CategoryGarbageCollection ReportCategory = "garbage_collection"
	CategoryWaterSupply      ReportCategory = "water_supply"
	CategoryElectricalHazard ReportCategory = "electrical_hazard"
	CategoryPublicSafety     ReportCategory = "public_safety"
	CategoryVandalism        ReportCategory = "vandalism"
	CategoryStrayAnimals     ReportCategory = "stray_animals"
	CategoryOther            ReportCategory = "other"
)

// ReportCategories lists every valid category value
var ReportCategories = []ReportCategory{
	CategoryRoadDamage, CategoryBrokenStreetlight, CategoryDrainageFlooding,
	CategoryGarbageCollection, CategoryWaterSupply, CategoryElectricalHazard,
	CategoryPublicSafety, CategoryVandalism, CategoryStrayAnimals, CategoryOther,
}

// ParseCategory validates a raw category string
func ParseCategory(s string) (ReportCategory, bool) {
	for _, c := range ReportCategories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// ReportUrgency is the reporter-declared severity of an issue
type ReportUrgency string

// Canonical urgency levels. Older mobile builds sent "emergency" or
// "urgent" for the top bucket; ParseUrgency maps those onto critical.
const (
	UrgencyLow      ReportUrgency = "low"
	UrgencyMedium   ReportUrgency = "medium"
	UrgencyHigh     ReportUrgency = "high"
	UrgencyCritical ReportUrgency = "critical"
)

// ParseUrgency validates a raw urgency string, folding legacy aliases
// onto the canonical set
func ParseUrgency(s string) (ReportUrgency, bool) {
	switch s {
	case "low":
		return UrgencyLow, true
	case "medium":
		return UrgencyMedium, true
	case "high":
		return UrgencyHigh, true
	case "critical", "emergency", "urgent":
		return UrgencyCritical, true
	}
	return "", false
}

// Report holds the structure for the reports collection in mongo
type Report struct {
	ID               primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	ReportNumber     string              `json:"reportNumber" bson:"reportNumber"`
	Title            string              `json:"title" bson:"title"`
	Description      string              `json:"description" bson:"description"`
	Category         ReportCategory      `json:"category" bson:"category"`
	Urgency          ReportUrgency       `json:"urgency" bson:"urgency"`
	SpecificLocation string              `json:"specificLocation" bson:"specificLocation"`
	Latitude         *float64            `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude        *float64            `json:"longitude,omitempty" bson:"longitude,omitempty"`
	BarangayCode     string              `json:"barangayCode,omitempty" bson:"barangayCode,omitempty"`
	BarangayName     string              `json:"barangayName,omitempty" bson:"barangayName,omitempty"`
	ReporterID       *primitive.ObjectID `json:"reporterId,omitempty" bson:"reporterId,omitempty"`
	IsAnonymous      bool                `json:"isAnonymous" bson:"isAnonymous"`
	ContactInfo      string              `json:"contactInfo,omitempty" bson:"contactInfo,omitempty"`
	PushToken        string              `json:"pushToken,omitempty" bson:"pushToken,omitempty"`
	Status           ReportStatus        `json:"status" bson:"status"`
	AssignedTo       *primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	AssignedAt       *time.Time          `json:"assignedAt,omitempty" bson:"assignedAt,omitempty"`
	ResolvedAt       *time.Time          `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
	ResolvedBy       *primitive.ObjectID `json:"resolvedBy,omitempty" bson:"resolvedBy,omitempty"`
	PhotoURLs        []string            `json:"photoUrls" bson:"photoUrls"`
	PriorityScore    int                 `json:"priorityScore" bson:"priorityScore"`
	Deleted          bool                `json:"deleted" bson:"deleted"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
}

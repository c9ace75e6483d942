package workflow

import (
	"strings"

	"github.com/ayos-surigao/ayos-api/models"
)

const (
	minTitleLen       = 5
	minDescriptionLen = 10
)

// ValidateNewReport checks every field constraint on a report before it is
// written. The first violated constraint wins so the mobile form can point
// at one field.
func ValidateNewReport(r *models.Report) error {
	if len(strings.TrimSpace(r.Title)) < minTitleLen {
		return &ValidationError{Field: "title", Reason: "must be at least 5 characters"}
	}
	if len(strings.TrimSpace(r.Description)) < minDescriptionLen {
		return &ValidationError{Field: "description", Reason: "must be at least 10 characters"}
	}
	if _, ok := models.ParseCategory(string(r.Category)); !ok {
		return &ValidationError{Field: "category", Reason: "unknown category " + string(r.Category)}
	}
	if _, ok := models.ParseUrgency(string(r.Urgency)); !ok {
		return &ValidationError{Field: "urgency", Reason: "unknown urgency " + string(r.Urgency)}
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return &ValidationError{Field: "coordinates", Reason: "latitude and longitude must be provided together"}
	}
	if r.Latitude != nil && !models.InServiceArea(*r.Latitude, *r.Longitude) {
		return &ValidationError{Field: "coordinates", Reason: "location is outside the service area"}
	}
	if r.BarangayCode != "" {
		if _, ok := models.BarangayByCode(r.BarangayCode); !ok {
			return &ValidationError{Field: "barangayCode", Reason: "unknown barangay code " + r.BarangayCode}
		}
	}
	if len(r.PhotoURLs) > models.MaxPhotosPerReport {
		return &ValidationError{Field: "photoUrls", Reason: "a report may carry at most 3 photos"}
	}
	// An anonymous report with a linkable reporter identity must leave a
	// way to follow up; a pure guest report carries neither.
	if r.IsAnonymous && r.ReporterID != nil && strings.TrimSpace(r.ContactInfo) == "" {
		return &ValidationError{Field: "contactInfo", Reason: "anonymous reports must include contact information"}
	}
	return nil
}

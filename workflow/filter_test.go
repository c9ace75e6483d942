package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayos-surigao/ayos-api/models"
	"github.com/ayos-surigao/ayos-api/workflow"
)

func buildReports() []models.Report {
	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	mk := func(offsetHours int, status models.ReportStatus, category models.ReportCategory,
		urgency models.ReportUrgency, barangay, title string) models.Report {
		code := barangay
		name := ""
		if b, ok := models.BarangayByCode(code); ok {
			name = b.Name
		}
		return models.Report{
			ID:           primitive.NewObjectID(),
			Title:        title,
			Description:  "reported via mobile app",
			Category:     category,
			Urgency:      urgency,
			BarangayCode: code,
			BarangayName: name,
			Status:       status,
			CreatedAt:    base.Add(time.Duration(offsetHours) * time.Hour),
			UpdatedAt:    base.Add(time.Duration(offsetHours) * time.Hour),
		}
	}

	reports := []models.Report{
		mk(0, models.StatusSubmitted, models.CategoryRoadDamage, models.UrgencyHigh, "SUR-034", "Pothole on Taft road"),
		mk(5, models.StatusTriaged, models.CategoryDrainageFlooding, models.UrgencyCritical, "SUR-037", "Flooded drainage canal"),
		mk(10, models.StatusResolved, models.CategoryBrokenStreetlight, models.UrgencyLow, "SUR-011", "Dead streetlight at corner"),
		mk(15, models.StatusInProgress, models.CategoryGarbageCollection, models.UrgencyMedium, "SUR-034", "Uncollected garbage pile"),
		mk(20, models.StatusClosed, models.CategoryRoadDamage, models.UrgencyMedium, "SUR-022", "Cracked pavement"),
	}

	resolvedAt := base.Add(30 * time.Hour)
	reports[2].ResolvedAt = &resolvedAt

	deleted := mk(25, models.StatusSubmitted, models.CategoryOther, models.UrgencyLow, "SUR-011", "Spam entry")
	deleted.Deleted = true
	reports = append(reports, deleted)

	return reports
}

func TestFilterEmptyCriteriaReturnsAllNonDeleted(t *testing.T) {
	reports := buildReports()

	got := workflow.Filter(reports, workflow.Criteria{})

	assert.Len(t, got, 5, "deleted reports are always excluded")
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i-1].CreatedAt.Before(got[i].CreatedAt), "default order is newest first")
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	reports := buildReports()
	c := workflow.Criteria{
		Statuses: []models.ReportStatus{models.StatusSubmitted, models.StatusTriaged},
	}

	once := workflow.Filter(reports, c)
	twice := workflow.Filter(once, c)

	assert.Equal(t, once, twice)
}

func TestFilterCompoundCriteria(t *testing.T) {
	reports := buildReports()

	got := workflow.Filter(reports, workflow.Criteria{
		Statuses:      []models.ReportStatus{models.StatusSubmitted, models.StatusInProgress},
		BarangayCodes: []string{"SUR-034"},
	})

	assert.Len(t, got, 2, "AND across fields, OR within the status set")
	for _, r := range got {
		assert.Equal(t, "SUR-034", r.BarangayCode)
	}
}

func TestFilterSearchText(t *testing.T) {
	reports := buildReports()

	got := workflow.Filter(reports, workflow.Criteria{SearchText: "POTHOLE"})
	assert.Len(t, got, 1)
	assert.Equal(t, "Pothole on Taft road", got[0].Title)

	// barangay name is searchable too
	got = workflow.Filter(reports, workflow.Criteria{SearchText: "washington"})
	assert.Len(t, got, 1)
	assert.Equal(t, models.CategoryDrainageFlooding, got[0].Category)

	// whitespace-only search is a no-op, not match-nothing
	got = workflow.Filter(reports, workflow.Criteria{SearchText: "   "})
	assert.Len(t, got, 5)
}

func TestFilterDateRange(t *testing.T) {
	reports := buildReports()
	from := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 19, 0, 0, 0, time.UTC)

	got := workflow.Filter(reports, workflow.Criteria{DateFrom: &from, DateTo: &to})

	assert.Len(t, got, 2)
	for _, r := range got {
		assert.False(t, r.CreatedAt.Before(from))
		assert.False(t, r.CreatedAt.After(to))
	}
}

func TestFilterPrioritySort(t *testing.T) {
	reports := buildReports()
	now := time.Now().UTC()
	for i := range reports {
		reports[i].PriorityScore = workflow.Score(reports[i].Category, reports[i].Urgency, reports[i].CreatedAt, now)
	}

	got := workflow.Filter(reports, workflow.Criteria{Sort: workflow.SortPriority})

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].PriorityScore, got[i].PriorityScore)
	}
	assert.Equal(t, models.UrgencyCritical, got[0].Urgency)
}

func TestAggregateCounts(t *testing.T) {
	reports := buildReports()

	stats := workflow.Aggregate(reports)

	assert.Equal(t, 5, stats.TotalReports, "deleted reports never counted")
	assert.Equal(t, 2, stats.PendingReports)
	assert.Equal(t, 1, stats.InProgressReports)
	assert.Equal(t, 2, stats.ResolvedReports)
	assert.Equal(t, 1, stats.CriticalReports)

	sum := 0
	for _, n := range stats.ByCategory {
		sum += n
	}
	assert.Equal(t, stats.TotalReports, sum, "category breakdown sums to total")

	assert.InDelta(t, 0.4, stats.ResolutionRate, 1e-9)
	assert.GreaterOrEqual(t, stats.ResolutionRate, 0.0)
	assert.LessOrEqual(t, stats.ResolutionRate, 1.0)
	assert.Equal(t, float64(20*3600), stats.AvgResolutionTimeSecs)
}

func TestAggregateEmptyCollection(t *testing.T) {
	stats := workflow.Aggregate(nil)

	assert.Equal(t, 0, stats.TotalReports)
	assert.Equal(t, 0.0, stats.ResolutionRate, "no division error on an empty collection")
	assert.Equal(t, 0.0, stats.AvgResolutionTimeSecs)
}

func TestValidateNewReport(t *testing.T) {
	valid := newTestReport(models.StatusSubmitted)
	assert.NoError(t, workflow.ValidateNewReport(valid))

	short := newTestReport(models.StatusSubmitted)
	short.Title = "Hi"
	var ve *workflow.ValidationError
	assert.ErrorAs(t, workflow.ValidateNewReport(short), &ve)
	assert.Equal(t, "title", ve.Field)

	outOfArea := newTestReport(models.StatusSubmitted)
	lat, lng := 14.5995, 120.9842 // Manila, well outside the box
	outOfArea.Latitude = &lat
	outOfArea.Longitude = &lng
	assert.ErrorAs(t, workflow.ValidateNewReport(outOfArea), &ve)
	assert.Equal(t, "coordinates", ve.Field)

	inArea := newTestReport(models.StatusSubmitted)
	lat2, lng2 := 9.789, 125.495
	inArea.Latitude = &lat2
	inArea.Longitude = &lng2
	assert.NoError(t, workflow.ValidateNewReport(inArea))

	tooManyPhotos := newTestReport(models.StatusSubmitted)
	tooManyPhotos.PhotoURLs = []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}
	assert.ErrorAs(t, workflow.ValidateNewReport(tooManyPhotos), &ve)
	assert.Equal(t, "photoUrls", ve.Field)

	badBarangay := newTestReport(models.StatusSubmitted)
	badBarangay.BarangayCode = "SUR-999"
	assert.ErrorAs(t, workflow.ValidateNewReport(badBarangay), &ve)
	assert.Equal(t, "barangayCode", ve.Field)

	anon := newTestReport(models.StatusSubmitted)
	rid := primitive.NewObjectID()
	anon.ReporterID = &rid
	anon.IsAnonymous = true
	anon.ContactInfo = ""
	assert.ErrorAs(t, workflow.ValidateNewReport(anon), &ve)
	assert.Equal(t, "contactInfo", ve.Field)

	// a pure guest report carries neither identity nor contact and is fine
	guest := newTestReport(models.StatusSubmitted)
	guest.IsAnonymous = true
	assert.NoError(t, workflow.ValidateNewReport(guest))
}

package workflow

import (
	"github.com/ayos-surigao/ayos-api/models"
)

// Aggregate computes the dashboard statistics over an already filtered,
// non-deleted report collection in a single pass. Pending counts
// everything not yet picked up (submitted, triaged, reopened); in-progress
// covers assigned, in_progress and forwarded.
func Aggregate(reports []models.Report) models.DashboardStats {
	stats := models.DashboardStats{
		ByCategory: map[string]int{},
		ByBarangay: map[string]int{},
	}

	var resolutionSecs float64
	var resolvedWithTimes int

	for _, r := range reports {
		if r.Deleted {
			continue
		}
		stats.TotalReports++
		stats.ByCategory[string(r.Category)]++
		if r.BarangayCode != "" {
			stats.ByBarangay[r.BarangayCode]++
		}
		if r.Urgency == models.UrgencyCritical {
			stats.CriticalReports++
		}

		switch r.Status {
		case models.StatusSubmitted, models.StatusTriaged, models.StatusReopened:
			stats.PendingReports++
		case models.StatusAssigned, models.StatusInProgress, models.StatusForwarded:
			stats.InProgressReports++
		case models.StatusResolved, models.StatusClosed:
			stats.ResolvedReports++
		}

		if r.ResolvedAt != nil && !r.CreatedAt.IsZero() {
			resolutionSecs += r.ResolvedAt.Sub(r.CreatedAt).Seconds()
			resolvedWithTimes++
		}
	}

	if stats.TotalReports > 0 {
		stats.ResolutionRate = float64(stats.ResolvedReports) / float64(stats.TotalReports)
	}
	if resolvedWithTimes > 0 {
		stats.AvgResolutionTimeSecs = resolutionSecs / float64(resolvedWithTimes)
	}
	return stats
}

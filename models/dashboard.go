package models

// DashboardStats is the aggregate snapshot rendered on the operations
// dashboard. Recomputed on every read; never incrementally maintained.
type DashboardStats struct {
	TotalReports          int            `json:"totalReports"`
	PendingReports        int            `json:"pendingReports"`
	InProgressReports     int            `json:"inProgressReports"`
	ResolvedReports       int            `json:"resolvedReports"`
	CriticalReports       int            `json:"criticalReports"`
	ByCategory            map[string]int `json:"byCategory"`
	ByBarangay            map[string]int `json:"byBarangay"`
	ResolutionRate        float64        `json:"resolutionRate"`
	AvgResolutionTimeSecs float64        `json:"avgResolutionTimeSecs"`
}

package workflow

import (
	"sort"
	"strings"
	"time"

	"github.com/ayos-surigao/ayos-api/models"
)

// SortKey selects the ordering of filtered results
type SortKey string

// Supported sort orders. Newest first is the default; priority sorts by
// the derived score, highest first.
const (
	SortNewest   SortKey = "newest"
	SortOldest   SortKey = "oldest"
	SortPriority SortKey = "priority"
)

// Criteria is the compound filter applied over a report collection. Every
// present field narrows the result (AND across fields); values inside a
// set are alternatives (OR within a field). Zero-value fields are ignored.
type Criteria struct {
	Statuses      []models.ReportStatus
	Categories    []models.ReportCategory
	Urgencies     []models.ReportUrgency
	BarangayCodes []string
	AssignedTo    []string
	DateFrom      *time.Time
	DateTo        *time.Time
	SearchText    string
	Sort          SortKey
}

// Filter applies the criteria over the reports and returns the matches in
// a stable order. Deleted reports are always excluded regardless of
// criteria; ties on the sort key break by id so pagination stays
// deterministic.
func Filter(reports []models.Report, c Criteria) []models.Report {
	search := strings.ToLower(strings.TrimSpace(c.SearchText))

	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if r.Deleted {
			continue
		}
		if !matchStatus(r, c.Statuses) {
			continue
		}
		if !matchCategory(r, c.Categories) {
			continue
		}
		if !matchUrgency(r, c.Urgencies) {
			continue
		}
		if !matchBarangay(r, c.BarangayCodes) {
			continue
		}
		if !matchAssignee(r, c.AssignedTo) {
			continue
		}
		if c.DateFrom != nil && r.CreatedAt.Before(*c.DateFrom) {
			continue
		}
		if c.DateTo != nil && r.CreatedAt.After(*c.DateTo) {
			continue
		}
		if search != "" && !matchSearch(r, search) {
			continue
		}
		out = append(out, r)
	}

	sortReports(out, c.Sort)
	return out
}

func matchStatus(r models.Report, set []models.ReportStatus) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if r.Status == s {
			return true
		}
	}
	return false
}

func matchCategory(r models.Report, set []models.ReportCategory) bool {
	if len(set) == 0 {
		return true
	}
	for _, c := range set {
		if r.Category == c {
			return true
		}
	}
	return false
}

func matchUrgency(r models.Report, set []models.ReportUrgency) bool {
	if len(set) == 0 {
		return true
	}
	for _, u := range set {
		if r.Urgency == u {
			return true
		}
	}
	return false
}

func matchBarangay(r models.Report, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, b := range set {
		if r.BarangayCode == b {
			return true
		}
	}
	return false
}

func matchAssignee(r models.Report, set []string) bool {
	if len(set) == 0 {
		return true
	}
	if r.AssignedTo == nil {
		return false
	}
	hex := r.AssignedTo.Hex()
	for _, a := range set {
		if hex == a {
			return true
		}
	}
	return false
}

func matchSearch(r models.Report, search string) bool {
	return strings.Contains(strings.ToLower(r.Title), search) ||
		strings.Contains(strings.ToLower(r.Description), search) ||
		strings.Contains(strings.ToLower(r.BarangayName), search)
}

func sortReports(reports []models.Report, key SortKey) {
	switch key {
	case SortOldest:
		sort.SliceStable(reports, func(i, j int) bool {
			if reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
				return reports[i].ID.Hex() < reports[j].ID.Hex()
			}
			return reports[i].CreatedAt.Before(reports[j].CreatedAt)
		})
	case SortPriority:
		sort.SliceStable(reports, func(i, j int) bool {
			if reports[i].PriorityScore == reports[j].PriorityScore {
				return reports[i].ID.Hex() < reports[j].ID.Hex()
			}
			return reports[i].PriorityScore > reports[j].PriorityScore
		})
	default: // SortNewest
		sort.SliceStable(reports, func(i, j int) bool {
			if reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
				return reports[i].ID.Hex() < reports[j].ID.Hex()
			}
			return reports[i].CreatedAt.After(reports[j].CreatedAt)
		})
	}
}

package stats

import (
	"github.com/mdrrmo/respond/internal/incident/domain"
)

// UnknownBarangay is the grouping key for incidents whose reporter profile
// carries no barangay name.
const UnknownBarangay = "Unknown"

// BarangayKey is the grouping key for administrative rollups. It comes from
// the reporting user's profile barangay, not the incident's own barangay
// text field, which can diverge from it. The incident field is used only
// when barangay actors filter their own submissions.
func BarangayKey(inc *domain.Incident) string {
	if inc.Reporter != nil && inc.Reporter.BarangayName != "" {
		return inc.Reporter.BarangayName
	}
	return UnknownBarangay
}

// RollupByBarangay groups incidents by reporter barangay and sums each
// group's per-incident metrics.
func RollupByBarangay(incidents []*domain.Incident) map[string]Metrics {
	groups := make(map[string]Metrics)
	for _, inc := range incidents {
		key := BarangayKey(inc)
		group, ok := groups[key]
		if !ok {
			group = NewMetrics()
		}
		group.Add(ComputeIncidentMetrics(inc))
		groups[key] = group
	}
	return groups
}

// MunicipalSummary is the ungrouped rollup across every incident in scope,
// with incident-count breakdowns and resolution figures on top of the
// summed metrics.
type MunicipalSummary struct {
	Metrics

	TotalIncidents int                         `json:"total_incidents"`
	ByType         map[domain.IncidentType]int `json:"by_type"`
	ByStatus       map[domain.Status]int       `json:"by_status"`
	BySeverity     map[domain.Severity]int     `json:"by_severity"`

	// ResolutionRate is resolved incidents over total, as a percentage
	ResolutionRate float64 `json:"resolution_rate"`
	// AvgResolutionHours is the mean hours from creation to last update
	// over Resolved incidents only
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}

// RollupMunicipal sums per-incident metrics across the whole collection
// without grouping. The summed metrics equal the sum of
// ComputeIncidentMetrics applied individually; there is no double counting
// between this and the barangay grouping.
func RollupMunicipal(incidents []*domain.Incident) MunicipalSummary {
	summary := MunicipalSummary{
		Metrics:    NewMetrics(),
		ByType:     make(map[domain.IncidentType]int),
		ByStatus:   make(map[domain.Status]int),
		BySeverity: make(map[domain.Severity]int),
	}

	resolved := 0
	var resolutionHours float64

	for _, inc := range incidents {
		summary.TotalIncidents++
		summary.ByType[inc.Type]++
		summary.ByStatus[inc.Status]++
		summary.BySeverity[inc.Severity]++
		summary.Metrics.Add(ComputeIncidentMetrics(inc))

		if inc.Status == domain.StatusResolved {
			resolved++
			resolutionHours += inc.UpdatedAt.Sub(inc.CreatedAt).Hours()
		}
	}

	if summary.TotalIncidents > 0 {
		summary.ResolutionRate = round1(float64(resolved) / float64(summary.TotalIncidents) * 100)
	}
	if resolved > 0 {
		summary.AvgResolutionHours = round1(resolutionHours / float64(resolved))
	}

	return summary
}

package stats

import (
	"github.com/mdrrmo/respond/internal/demographics"
	"github.com/mdrrmo/respond/internal/incident/domain"
)

// ComputeIncidentMetrics derives the metrics for one incident with its
// relations already loaded. Source selection is a hard either/or: a
// non-empty family roster is computed in full from family and member rows,
// otherwise the flat population summary is read, otherwise everything is
// zero. The two sources are never merged for one incident.
func ComputeIncidentMetrics(inc *domain.Incident) Metrics {
	if inc == nil {
		return NewMetrics()
	}
	if len(inc.Families) > 0 {
		return metricsFromFamilies(inc.Families)
	}
	if inc.PopulationData != nil {
		return metricsFromSummary(inc.PopulationData)
	}
	return NewMetrics()
}

func metricsFromFamilies(families []domain.Family) Metrics {
	m := NewMetrics()
	m.TotalFamilies = len(families)
	// Every family is considered to require assistance at baseline
	m.FamiliesRequiringAssistance = len(families)

	for fi := range families {
		family := &families[fi]

		// Declared size, not the member count
		m.TotalPopulation += family.FamilySize

		if family.Displaced() {
			m.DisplacedFamilies++
		}
		if family.Assisted() {
			m.FamiliesAssisted++
		}

		for mi := range family.Members {
			member := &family.Members[mi]
			m.TotalPersons++

			if member.IsDisplaced() {
				m.DisplacedPersons++
			}

			m.GenderBreakdown[demographics.ClassifyGender(member.GenderIdentity)]++
			m.CivilStatusBreakdown[demographics.ClassifyCivilStatus(member.CivilStatus)]++
			// Age-derived band, not the stored category label
			m.AgeBreakdown[demographics.ClassifyAge(member.Age)]++

			for _, group := range demographics.ClassifyVulnerableTags(member.VulnerableGroups) {
				m.VulnerableGroupBreakdown[group]++
			}

			if member.Casualty != nil {
				if bucket, ok := demographics.ClassifyCasualty(*member.Casualty); ok {
					m.CasualtyBreakdown[bucket]++
				}
			}
		}
	}

	return m
}

func metricsFromSummary(p *domain.PopulationSummary) Metrics {
	m := NewMetrics()

	m.TotalPopulation = p.TotalPopulation()
	m.TotalPersons = p.TotalPopulation()
	// The summary does not carry a family count of its own; the
	// requiring-assistance total stands in for it, mirroring the
	// every-family-requires-assistance baseline of the roster path
	m.TotalFamilies = p.FamiliesRequiringAssistance
	m.DisplacedFamilies = p.DisplacedFamilies
	m.DisplacedPersons = p.DisplacedPersons
	m.FamiliesAssisted = p.FamiliesAssisted
	m.FamiliesRequiringAssistance = p.FamiliesRequiringAssistance

	setNonZero(m.GenderBreakdown, demographics.GenderMale, p.MaleCount)
	setNonZero(m.GenderBreakdown, demographics.GenderFemale, p.FemaleCount)
	setNonZero(m.GenderBreakdown, demographics.GenderLGBTQIA, p.LGBTQIACount)

	setNonZero(m.CivilStatusBreakdown, demographics.CivilSingle, p.SingleCount)
	setNonZero(m.CivilStatusBreakdown, demographics.CivilMarried, p.MarriedCount)
	setNonZero(m.CivilStatusBreakdown, demographics.CivilWidowed, p.WidowedCount)
	setNonZero(m.CivilStatusBreakdown, demographics.CivilSeparated, p.SeparatedCount)
	setNonZero(m.CivilStatusBreakdown, demographics.CivilCohabiting, p.CohabitingCount)

	setNonZero(m.VulnerableGroupBreakdown, demographics.GroupPWD, p.PWDCount)
	setNonZero(m.VulnerableGroupBreakdown, demographics.GroupPregnant, p.PregnantCount)
	setNonZero(m.VulnerableGroupBreakdown, demographics.GroupElderly, p.ElderlyCount)
	setNonZero(m.VulnerableGroupBreakdown, demographics.GroupLactating, p.LactatingCount)
	setNonZero(m.VulnerableGroupBreakdown, demographics.GroupSoloParent, p.SoloParentCount)
	setNonZero(m.VulnerableGroupBreakdown, demographics.GroupIndigenous, p.IndigenousCount)
	setNonZero(m.VulnerableGroupBreakdown, demographics.GroupLGBTQIA, p.LGBTQIAGroupCount)
	setNonZero(m.VulnerableGroupBreakdown, demographics.GroupChildHeaded, p.ChildHeadedCount)
	setNonZero(m.VulnerableGroupBreakdown, demographics.GroupGBV, p.GBVCount)
	setNonZero(m.VulnerableGroupBreakdown, demographics.GroupFourPs, p.FourPsCount)
	setNonZero(m.VulnerableGroupBreakdown, demographics.GroupSingleHeaded, p.SingleHeadedCount)

	setNonZero(m.AgeBreakdown, demographics.AgeInfant, p.InfantCount)
	setNonZero(m.AgeBreakdown, demographics.AgeToddler, p.ToddlerCount)
	setNonZero(m.AgeBreakdown, demographics.AgePreschooler, p.PreschoolerCount)
	setNonZero(m.AgeBreakdown, demographics.AgeSchoolAge, p.SchoolAgeCount)
	setNonZero(m.AgeBreakdown, demographics.AgeTeenAge, p.TeenAgeCount)
	setNonZero(m.AgeBreakdown, demographics.AgeAdult, p.AdultCount)
	setNonZero(m.AgeBreakdown, demographics.AgeElderly, p.ElderlyAgeCount)

	// The summary records no per-person casualty data, so the casualty
	// breakdown stays empty on this path

	return m
}

func setNonZero[K comparable](dst map[K]int, key K, count int) {
	if count > 0 {
		dst[key] = count
	}
}

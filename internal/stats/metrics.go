// Package stats computes per-incident metrics and rolls them up across
// incidents into barangay and municipal summaries.
package stats

import (
	"math"

	"github.com/mdrrmo/respond/internal/demographics"
)

// Metrics is the fixed per-incident (or summed) metrics shape.
//
// TotalPopulation comes from the declared family_size fields while
// TotalPersons counts actual member rows. The two can diverge and are
// exposed under different names; they are not interchangeable.
type Metrics struct {
	TotalPopulation             int `json:"total_population"`
	TotalPersons                int `json:"total_persons"`
	TotalFamilies               int `json:"total_families"`
	DisplacedFamilies           int `json:"displaced_families"`
	DisplacedPersons            int `json:"displaced_persons"`
	FamiliesAssisted            int `json:"families_assisted"`
	FamiliesRequiringAssistance int `json:"families_requiring_assistance"`

	GenderBreakdown          map[demographics.GenderBucket]int      `json:"gender_breakdown"`
	CivilStatusBreakdown     map[demographics.CivilStatusBucket]int `json:"civil_status_breakdown"`
	VulnerableGroupBreakdown map[demographics.VulnerableGroup]int   `json:"vulnerable_group_breakdown"`
	AgeBreakdown             map[demographics.AgeBucket]int         `json:"age_breakdown"`
	CasualtyBreakdown        map[demographics.CasualtyBucket]int    `json:"casualty_breakdown"`
}

// NewMetrics returns a zero-valued Metrics with initialized breakdown maps
func NewMetrics() Metrics {
	return Metrics{
		GenderBreakdown:          make(map[demographics.GenderBucket]int),
		CivilStatusBreakdown:     make(map[demographics.CivilStatusBucket]int),
		VulnerableGroupBreakdown: make(map[demographics.VulnerableGroup]int),
		AgeBreakdown:             make(map[demographics.AgeBucket]int),
		CasualtyBreakdown:        make(map[demographics.CasualtyBucket]int),
	}
}

// Add accumulates another metrics value into this one
func (m *Metrics) Add(other Metrics) {
	m.TotalPopulation += other.TotalPopulation
	m.TotalPersons += other.TotalPersons
	m.TotalFamilies += other.TotalFamilies
	m.DisplacedFamilies += other.DisplacedFamilies
	m.DisplacedPersons += other.DisplacedPersons
	m.FamiliesAssisted += other.FamiliesAssisted
	m.FamiliesRequiringAssistance += other.FamiliesRequiringAssistance

	for bucket, count := range other.GenderBreakdown {
		m.GenderBreakdown[bucket] += count
	}
	for bucket, count := range other.CivilStatusBreakdown {
		m.CivilStatusBreakdown[bucket] += count
	}
	for bucket, count := range other.VulnerableGroupBreakdown {
		m.VulnerableGroupBreakdown[bucket] += count
	}
	for bucket, count := range other.AgeBreakdown {
		m.AgeBreakdown[bucket] += count
	}
	for bucket, count := range other.CasualtyBreakdown {
		m.CasualtyBreakdown[bucket] += count
	}
}

// AssistanceCoverage is the percentage of families requiring assistance
// that received any form of aid, rounded to one decimal. Zero when no
// family requires assistance.
func (m Metrics) AssistanceCoverage() float64 {
	if m.FamiliesRequiringAssistance == 0 {
		return 0
	}
	pct := float64(m.FamiliesAssisted) / float64(m.FamiliesRequiringAssistance) * 100
	return round1(pct)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

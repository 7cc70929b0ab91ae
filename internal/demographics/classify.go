// Package demographics maps raw member attributes to canonical reporting
// buckets. Matching rules are declarative tables so the match order is an
// explicit, testable artifact.
package demographics

import "strings"

// AgeBucket is one of the seven age bands used in disaster reports.
type AgeBucket string

const (
	AgeInfant      AgeBucket = "infant"
	AgeToddler     AgeBucket = "toddler"
	AgePreschooler AgeBucket = "preschooler"
	AgeSchoolAge   AgeBucket = "school_age"
	AgeTeenAge     AgeBucket = "teen_age"
	AgeAdult       AgeBucket = "adult"
	AgeElderly     AgeBucket = "elderly"
)

// AgeBuckets lists all age bands in ascending order.
var AgeBuckets = []AgeBucket{
	AgeInfant, AgeToddler, AgePreschooler, AgeSchoolAge, AgeTeenAge, AgeAdult, AgeElderly,
}

// GenderBucket is a canonical gender grouping.
type GenderBucket string

const (
	GenderMale    GenderBucket = "male"
	GenderFemale  GenderBucket = "female"
	GenderLGBTQIA GenderBucket = "lgbtqia"
)

// CivilStatusBucket is a canonical civil status grouping.
type CivilStatusBucket string

const (
	CivilSingle     CivilStatusBucket = "single"
	CivilMarried    CivilStatusBucket = "married"
	CivilWidowed    CivilStatusBucket = "widowed"
	CivilSeparated  CivilStatusBucket = "separated"
	CivilCohabiting CivilStatusBucket = "cohabiting"
)

// VulnerableGroup is a canonical vulnerable sector bucket.
type VulnerableGroup string

const (
	GroupPWD          VulnerableGroup = "pwd"
	GroupPregnant     VulnerableGroup = "pregnant"
	GroupElderly      VulnerableGroup = "elderly"
	GroupLactating    VulnerableGroup = "lactating"
	GroupSoloParent   VulnerableGroup = "solo_parent"
	GroupIndigenous   VulnerableGroup = "indigenous"
	GroupLGBTQIA      VulnerableGroup = "lgbtqia"
	GroupChildHeaded  VulnerableGroup = "child_headed"
	GroupGBV          VulnerableGroup = "gbv"
	GroupFourPs       VulnerableGroup = "four_ps"
	GroupSingleHeaded VulnerableGroup = "single_headed"
)

// CasualtyBucket is a canonical casualty category.
type CasualtyBucket string

const (
	CasualtyDead      CasualtyBucket = "dead"
	CasualtyInjured   CasualtyBucket = "injured_ill"
	CasualtyMissing   CasualtyBucket = "missing"
)

// ClassifyAge maps an integer age to its band. The bands partition the
// non-negative integers with no gaps or overlaps. This age-derived band is
// authoritative over any stored category label, which may be stale relative
// to a corrected age.
func ClassifyAge(age int) AgeBucket {
	switch {
	case age <= 0:
		return AgeInfant
	case age <= 2:
		return AgeToddler
	case age <= 5:
		return AgePreschooler
	case age <= 12:
		return AgeSchoolAge
	case age <= 17:
		return AgeTeenAge
	case age <= 59:
		return AgeAdult
	default:
		return AgeElderly
	}
}

// genderRules are checked in order. "female" must be checked before "male"
// because "female" contains "male" as a substring.
var genderRules = []struct {
	substr string
	bucket GenderBucket
}{
	{"female", GenderFemale},
	{"male", GenderMale},
}

// ClassifyGender maps a free-text gender identity to a bucket.
// Anything that matches neither rule counts as lgbtqia/other.
func ClassifyGender(s string) GenderBucket {
	lower := strings.ToLower(s)
	for _, rule := range genderRules {
		if strings.Contains(lower, rule.substr) {
			return rule.bucket
		}
	}
	return GenderLGBTQIA
}

var civilStatusRules = []struct {
	substr string
	bucket CivilStatusBucket
}{
	{"married", CivilMarried},
	{"widow", CivilWidowed},
	{"separated", CivilSeparated},
	{"live-in", CivilCohabiting},
	{"cohabit", CivilCohabiting},
	{"single", CivilSingle},
}

// ClassifyCivilStatus maps a free-text civil status to a bucket. Unmatched
// values default to single. The default is a documented quirk of the legacy
// reporting forms and must not be changed silently.
func ClassifyCivilStatus(s string) CivilStatusBucket {
	lower := strings.ToLower(s)
	for _, rule := range civilStatusRules {
		if strings.Contains(lower, rule.substr) {
			return rule.bucket
		}
	}
	return CivilSingle
}

var vulnerableRules = []struct {
	substr string
	bucket VulnerableGroup
}{
	{"pwd", GroupPWD},
	{"pregnant", GroupPregnant},
	{"elderly", GroupElderly},
	{"lactating", GroupLactating},
	{"solo parent", GroupSoloParent},
	{"indigenous", GroupIndigenous},
	{"lgbtqia", GroupLGBTQIA},
	{"child-headed", GroupChildHeaded},
	{"gender-based", GroupGBV},
	{"gbv", GroupGBV},
	{"4ps", GroupFourPs},
	{"single headed", GroupSingleHeaded},
	{"single-headed", GroupSingleHeaded},
}

// ClassifyVulnerableTags maps each tag in a member's tag list to its
// bucket(s). A member may land in multiple buckets. Tags with no match
// contribute nothing; they are ignored, not defaulted. Duplicate buckets
// from overlapping tags are collapsed.
func ClassifyVulnerableTags(tags []string) []VulnerableGroup {
	seen := make(map[VulnerableGroup]bool)
	var groups []VulnerableGroup
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, rule := range vulnerableRules {
			if strings.Contains(lower, rule.substr) && !seen[rule.bucket] {
				seen[rule.bucket] = true
				groups = append(groups, rule.bucket)
			}
		}
	}
	return groups
}

// ClassifyCasualty maps a casualty marker to its bucket. Only the exact
// categories used by the reporting forms count; absent or unrecognized
// values report false and are not counted.
func ClassifyCasualty(s string) (CasualtyBucket, bool) {
	switch s {
	case "Dead":
		return CasualtyDead, true
	case "Injured/ill":
		return CasualtyInjured, true
	case "Missing":
		return CasualtyMissing, true
	default:
		return "", false
	}
}

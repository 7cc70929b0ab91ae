package domain

import (
	"time"

	"github.com/mdrrmo/respond/internal/shared/types"
)

// Reporter is the profile slice of the user who filed an incident.
// Municipal rollups group by the reporter's profile barangay.
type Reporter struct {
	ID           types.ID `json:"id"`
	Username     string   `json:"username"`
	Role         string   `json:"role"`
	BarangayName string   `json:"barangay_name"`
	Municipality string   `json:"municipality"`
}

// Family is one affected family on an incident's roster.
// FamilySize is the declared size reported at intake and may differ from
// the actual member count; both are tracked.
type Family struct {
	ID           types.ID `json:"id"`
	IncidentID   types.ID `json:"incident_id"`
	FamilyNumber int      `json:"family_number"`
	FamilyHead   string   `json:"family_head"`
	FamilySize   int      `json:"family_size"`

	// Presence of an evacuation center means the family is displaced
	EvacuationCenter *string `json:"evacuation_center,omitempty"`

	AssistanceReceived bool   `json:"assistance_received"`
	FoodAssistance     bool   `json:"food_assistance"`
	NonFoodAssistance  bool   `json:"non_food_assistance"`
	ShelterAssistance  bool   `json:"shelter_assistance"`
	MedicalAssistance  bool   `json:"medical_assistance"`
	Remarks            string `json:"remarks"`

	Members []Member `json:"members"`

	CreatedAt time.Time `json:"created_at"`
}

// Displaced reports whether the family was relocated to an evacuation center
func (f *Family) Displaced() bool {
	return f.EvacuationCenter != nil && *f.EvacuationCenter != ""
}

// Assisted reports whether the family received any form of aid
func (f *Family) Assisted() bool {
	return f.AssistanceReceived || f.FoodAssistance || f.NonFoodAssistance ||
		f.ShelterAssistance || f.MedicalAssistance
}

// Member is one person on a family's roster
type Member struct {
	ID       types.ID `json:"id"`
	FamilyID types.ID `json:"family_id"`

	FirstName        string `json:"first_name"`
	MiddleName       string `json:"middle_name"`
	LastName         string `json:"last_name"`
	PositionInFamily string `json:"position_in_family"`
	GenderIdentity   string `json:"gender_identity"`
	Age              int    `json:"age"`
	AgeCategory      string `json:"age_category"`
	CivilStatus      string `json:"civil_status"`
	Ethnicity        string `json:"ethnicity"`

	// Free-text tags, stored as a list but treated as an unordered set
	VulnerableGroups []string `json:"vulnerable_groups"`

	Casualty  *string `json:"casualty,omitempty"`
	Displaced string  `json:"displaced"`
	PWDType   *string `json:"pwd_type,omitempty"`

	AssistanceReceived   bool `json:"assistance_received"`
	FoodAssistance       bool `json:"food_assistance"`
	NonFoodAssistance    bool `json:"non_food_assistance"`
	MedicalAttention     bool `json:"medical_attention"`
	PsychologicalSupport bool `json:"psychological_support"`

	CreatedAt time.Time `json:"created_at"`
}

// IsDisplaced reports whether the member is marked displaced
func (m *Member) IsDisplaced() bool {
	return m.Displaced == "Y"
}

// PopulationSummary is the flat, pre-aggregated population record used only
// when an incident carries no family roster. At most one exists per
// incident, with upsert semantics.
type PopulationSummary struct {
	ID         types.ID `json:"id"`
	IncidentID types.ID `json:"incident_id"`

	MaleCount    int `json:"male_count"`
	FemaleCount  int `json:"female_count"`
	LGBTQIACount int `json:"lgbtqia_count"`

	SingleCount     int `json:"single_count"`
	MarriedCount    int `json:"married_count"`
	WidowedCount    int `json:"widowed_count"`
	SeparatedCount  int `json:"separated_count"`
	CohabitingCount int `json:"cohabiting_count"`

	PWDCount          int `json:"pwd_count"`
	PregnantCount     int `json:"pregnant_count"`
	ElderlyCount      int `json:"elderly_count"`
	LactatingCount    int `json:"lactating_count"`
	SoloParentCount   int `json:"solo_parent_count"`
	IndigenousCount   int `json:"indigenous_count"`
	LGBTQIAGroupCount int `json:"lgbtqia_group_count"`
	ChildHeadedCount  int `json:"child_headed_count"`
	GBVCount          int `json:"gbv_count"`
	FourPsCount       int `json:"four_ps_count"`
	SingleHeadedCount int `json:"single_headed_count"`

	InfantCount      int `json:"infant_count"`
	ToddlerCount     int `json:"toddler_count"`
	PreschoolerCount int `json:"preschooler_count"`
	SchoolAgeCount   int `json:"school_age_count"`
	TeenAgeCount     int `json:"teen_age_count"`
	AdultCount       int `json:"adult_count"`
	ElderlyAgeCount  int `json:"elderly_age_count"`

	ChristianCount int `json:"christian_count"`
	SubanenIPCount int `json:"subanen_ip_count"`
	MoroCount      int `json:"moro_count"`

	DisplacedFamilies           int `json:"displaced_families"`
	DisplacedPersons            int `json:"displaced_persons"`
	FamiliesRequiringAssistance int `json:"families_requiring_assistance"`
	FamiliesAssisted            int `json:"families_assisted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalPopulation sums the gender counts
func (p *PopulationSummary) TotalPopulation() int {
	return p.MaleCount + p.FemaleCount + p.LGBTQIACount
}

// InfrastructureStatus tracks lifeline service condition for an incident.
// It is consumed as opaque reporting data. At most one exists per incident.
type InfrastructureStatus struct {
	ID         types.ID `json:"id"`
	IncidentID types.ID `json:"incident_id"`

	RoadStatus          string `json:"road_status"`
	PowerStatus         string `json:"power_status"`
	CommunicationStatus string `json:"communication_status"`

	PowerInterruptionAt         *time.Time `json:"power_interruption_at,omitempty"`
	PowerRestorationAt          *time.Time `json:"power_restoration_at,omitempty"`
	CommunicationInterruptionAt *time.Time `json:"communication_interruption_at,omitempty"`
	CommunicationRestorationAt  *time.Time `json:"communication_restoration_at,omitempty"`

	Remarks string `json:"remarks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

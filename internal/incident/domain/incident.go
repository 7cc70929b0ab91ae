package domain

import (
	"fmt"
	"time"

	"github.com/mdrrmo/respond/internal/shared/types"
)

// IncidentType defines the type of disaster event
type IncidentType string

const (
	TypeFlood      IncidentType = "Flood"
	TypeLandslide  IncidentType = "Landslide"
	TypeFire       IncidentType = "Fire"
	TypeEarthquake IncidentType = "Earthquake"
	TypeVehicular  IncidentType = "Vehicular"
)

// IncidentTypes lists all valid incident types
var IncidentTypes = []IncidentType{TypeFlood, TypeLandslide, TypeFire, TypeEarthquake, TypeVehicular}

// Severity defines incident severity
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Severities lists all valid severities
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Status defines the status of an incident
type Status string

const (
	StatusReported      Status = "Reported"
	StatusInvestigating Status = "Investigating"
	StatusResolved      Status = "Resolved"
	StatusArchived      Status = "Archived"
)

// ActiveStatuses are the states an incident can hold outside the archive
var ActiveStatuses = []Status{StatusReported, StatusInvestigating, StatusResolved}

// ArchiveEpisode records one completed archive/unarchive cycle. The history
// is append-only; unarchiving never overwrites prior episodes.
type ArchiveEpisode struct {
	Reason          string    `json:"reason"`
	ArchivedBy      types.ID  `json:"archived_by"`
	ArchivedAt      time.Time `json:"archived_at"`
	UnarchivedBy    types.ID  `json:"unarchived_by"`
	UnarchivedAt    time.Time `json:"unarchived_at"`
	UnarchiveReason string    `json:"unarchive_reason"`
	StatusBefore    Status    `json:"status_before"`
	StatusAfter     Status    `json:"status_after"`
}

// Incident is the aggregate root for disaster reports
type Incident struct {
	ID          types.ID     `json:"id"`
	ReportedBy  types.ID     `json:"reported_by"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        IncidentType `json:"incident_type"`
	Severity    Severity     `json:"severity"`
	Status      Status       `json:"status"`
	Barangay    string       `json:"barangay"`
	Location    string       `json:"location"`

	// Archive metadata, non-null only while archived
	ArchiveReason *string    `json:"archive_reason,omitempty"`
	ArchivedBy    *types.ID  `json:"archived_by,omitempty"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty"`

	// Completed archive cycles
	UnarchiveHistory []ArchiveEpisode `json:"unarchive_history"`

	// Loaded relations
	Reporter       *Reporter             `json:"reporter,omitempty"`
	Families       []Family              `json:"families"`
	PopulationData *PopulationSummary    `json:"population_data,omitempty"`
	Infrastructure *InfrastructureStatus `json:"infrastructure_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Domain events (not persisted)
	domainEvents []DomainEvent
}

// DomainEvent is an in-memory record of a state change on the aggregate,
// drained by the caller for publication
type DomainEvent struct {
	Type    string         `json:"type"`
	ActorID types.ID       `json:"actor_id"`
	Data    map[string]any `json:"data,omitempty"`
}

// NewIncident creates a new incident report with validation
func NewIncident(
	incidentType IncidentType,
	severity Severity,
	title, description, barangay, location string,
	reportedBy types.ID,
) (*Incident, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if barangay == "" {
		return nil, fmt.Errorf("barangay is required")
	}
	if reportedBy.IsZero() {
		return nil, fmt.Errorf("reporter is required")
	}
	if !validType(incidentType) {
		return nil, fmt.Errorf("invalid incident type: %s", incidentType)
	}
	if !validSeverity(severity) {
		return nil, fmt.Errorf("invalid severity: %s", severity)
	}

	now := time.Now()
	inc := &Incident{
		ID:               types.NewID(),
		ReportedBy:       reportedBy,
		Title:            title,
		Description:      description,
		Type:             incidentType,
		Severity:         severity,
		Status:           StatusReported,
		Barangay:         barangay,
		Location:         location,
		UnarchiveHistory: []ArchiveEpisode{},
		Families:         []Family{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	inc.addEvent("incident.reported", reportedBy, map[string]any{
		"incident_type": incidentType,
		"severity":      severity,
		"barangay":      barangay,
	})

	return inc, nil
}

// SetStatus moves the incident through the normal Reported -> Investigating
// -> Resolved progression. Archive transitions go through Archive and
// Unarchive instead.
func (i *Incident) SetStatus(newStatus Status, actorID types.ID) error {
	if i.Status == StatusArchived {
		return fmt.Errorf("archived incident must be unarchived before a status change")
	}
	if newStatus == StatusArchived {
		return fmt.Errorf("use archive with a reason to archive an incident")
	}
	if !validActiveStatus(newStatus) {
		return fmt.Errorf("invalid status: %s", newStatus)
	}
	if newStatus == i.Status {
		return fmt.Errorf("incident is already %s", newStatus)
	}
	if !validProgression(i.Status, newStatus) {
		return fmt.Errorf("cannot move from %s to %s", i.Status, newStatus)
	}

	oldStatus := i.Status
	i.Status = newStatus
	i.UpdatedAt = time.Now()
	i.addEvent("incident.status_changed", actorID, map[string]any{
		"old_status": oldStatus,
		"new_status": newStatus,
	})

	return nil
}

// validProgression enforces the strict forward sequence
func validProgression(from, to Status) bool {
	switch from {
	case StatusReported:
		return to == StatusInvestigating || to == StatusResolved
	case StatusInvestigating:
		return to == StatusResolved
	default:
		return false
	}
}

// Archive moves the incident into the archive from any active state.
// A reason is required.
func (i *Incident) Archive(reason string, actorID types.ID) error {
	if i.Status == StatusArchived {
		return fmt.Errorf("incident is already archived")
	}
	if err := validReason(reason); err != nil {
		return err
	}

	now := time.Now()
	statusBefore := i.Status
	i.Status = StatusArchived
	i.ArchiveReason = &reason
	i.ArchivedBy = &actorID
	i.ArchivedAt = &now
	i.UpdatedAt = now

	i.addEvent("incident.archived", actorID, map[string]any{
		"reason":        reason,
		"status_before": statusBefore,
	})

	return nil
}

// Unarchive restores an archived incident to the given active status,
// appending the completed archive episode to the history before clearing
// the archive fields.
func (i *Incident) Unarchive(restoreTo Status, reason string, actorID types.ID) error {
	if i.Status != StatusArchived {
		return fmt.Errorf("only archived incidents can be unarchived")
	}
	if err := validReason(reason); err != nil {
		return err
	}
	if !validActiveStatus(restoreTo) {
		return fmt.Errorf("invalid restore status: %s", restoreTo)
	}
	if i.ArchiveReason == nil || i.ArchivedBy == nil || i.ArchivedAt == nil {
		return fmt.Errorf("archived incident is missing archive metadata")
	}

	now := time.Now()
	episode := ArchiveEpisode{
		Reason:          *i.ArchiveReason,
		ArchivedBy:      *i.ArchivedBy,
		ArchivedAt:      *i.ArchivedAt,
		UnarchivedBy:    actorID,
		UnarchivedAt:    now,
		UnarchiveReason: reason,
		StatusBefore:    StatusArchived,
		StatusAfter:     restoreTo,
	}
	i.UnarchiveHistory = append(i.UnarchiveHistory, episode)

	i.Status = restoreTo
	i.ArchiveReason = nil
	i.ArchivedBy = nil
	i.ArchivedAt = nil
	i.UpdatedAt = now

	i.addEvent("incident.unarchived", actorID, map[string]any{
		"reason":     reason,
		"restore_to": restoreTo,
	})

	return nil
}

// IsArchived reports whether the incident is in the archive
func (i *Incident) IsArchived() bool {
	return i.Status == StatusArchived
}

// ReplaceFamilies swaps the entire family roster. Updates never patch
// individual families; the persistence layer applies this atomically.
func (i *Incident) ReplaceFamilies(families []Family) {
	if families == nil {
		families = []Family{}
	}
	i.Families = families
	i.UpdatedAt = time.Now()
}

func (i *Incident) addEvent(eventType string, actorID types.ID, data map[string]any) {
	i.domainEvents = append(i.domainEvents, DomainEvent{
		Type:    eventType,
		ActorID: actorID,
		Data:    data,
	})
}

// GetDomainEvents returns accumulated domain events
func (i *Incident) GetDomainEvents() []DomainEvent {
	return i.domainEvents
}

// ClearDomainEvents clears accumulated domain events after publishing
func (i *Incident) ClearDomainEvents() {
	i.domainEvents = nil
}

// validReason bounds archive and unarchive reasons
func validReason(reason string) error {
	if len(reason) < 5 || len(reason) > 500 {
		return fmt.Errorf("reason must be between 5 and 500 characters")
	}
	return nil
}

func validType(t IncidentType) bool {
	for _, v := range IncidentTypes {
		if v == t {
			return true
		}
	}
	return false
}

func validSeverity(s Severity) bool {
	for _, v := range Severities {
		if v == s {
			return true
		}
	}
	return false
}

func validActiveStatus(s Status) bool {
	for _, v := range ActiveStatuses {
		if v == s {
			return true
		}
	}
	return false
}

package domain

import (
	"testing"

	"github.com/mdrrmo/respond/internal/shared/types"
)

// TestNewIncident tests creating a new incident report
func TestNewIncident(t *testing.T) {
	reporterID := types.NewID()

	inc, err := NewIncident(
		TypeFlood,
		SeverityHigh,
		"Flash flood along riverside",
		"Water level rising since midnight",
		"Poblacion",
		"Purok 3",
		reporterID,
	)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if inc.ID.IsZero() {
		t.Error("Expected non-zero ID")
	}

	if inc.Status != StatusReported {
		t.Errorf("Expected status %s, got %s", StatusReported, inc.Status)
	}

	if inc.ArchiveReason != nil || inc.ArchivedBy != nil || inc.ArchivedAt != nil {
		t.Error("Expected archive fields to be null on a new incident")
	}

	if len(inc.UnarchiveHistory) != 0 {
		t.Errorf("Expected empty unarchive history, got %d entries", len(inc.UnarchiveHistory))
	}

	events := inc.GetDomainEvents()
	if len(events) != 1 {
		t.Fatalf("Expected 1 domain event, got %d", len(events))
	}
	if events[0].Type != "incident.reported" {
		t.Errorf("Expected event type incident.reported, got %s", events[0].Type)
	}
}

// TestNewIncidentValidation tests validation when creating an incident
func TestNewIncidentValidation(t *testing.T) {
	reporterID := types.NewID()

	tests := []struct {
		name         string
		incidentType IncidentType
		severity     Severity
		title        string
		barangay     string
		reportedBy   types.ID
	}{
		{"missing title", TypeFlood, SeverityLow, "", "Poblacion", reporterID},
		{"missing barangay", TypeFlood, SeverityLow, "Flood", "", reporterID},
		{"missing reporter", TypeFlood, SeverityLow, "Flood", "Poblacion", ""},
		{"invalid type", IncidentType("Typhoon"), SeverityLow, "Storm", "Poblacion", reporterID},
		{"invalid severity", TypeFire, Severity("Extreme"), "Fire", "Poblacion", reporterID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIncident(tt.incidentType, tt.severity, tt.title, "", tt.barangay, "", tt.reportedBy)
			if err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

// TestStatusProgression tests the Reported -> Investigating -> Resolved sequence
func TestStatusProgression(t *testing.T) {
	actorID := types.NewID()
	inc := newTestIncident(t)

	if err := inc.SetStatus(StatusInvestigating, actorID); err != nil {
		t.Fatalf("Reported -> Investigating failed: %v", err)
	}

	if err := inc.SetStatus(StatusResolved, actorID); err != nil {
		t.Fatalf("Investigating -> Resolved failed: %v", err)
	}

	// Resolved is the end of the forward sequence
	if err := inc.SetStatus(StatusReported, actorID); err == nil {
		t.Error("Expected error moving backwards from Resolved")
	}
}

func TestStatusProgressionRejectsBackwards(t *testing.T) {
	actorID := types.NewID()
	inc := newTestIncident(t)

	if err := inc.SetStatus(StatusInvestigating, actorID); err != nil {
		t.Fatal(err)
	}

	if err := inc.SetStatus(StatusReported, actorID); err == nil {
		t.Error("Expected error moving Investigating -> Reported")
	}
}

func TestStatusChangeRejectsArchiveShortcut(t *testing.T) {
	inc := newTestIncident(t)

	if err := inc.SetStatus(StatusArchived, types.NewID()); err == nil {
		t.Error("Expected error setting status to Archived directly")
	}
}

// TestArchive tests archiving from an active state
func TestArchive(t *testing.T) {
	adminID := types.NewID()
	inc := newTestIncident(t)

	if err := inc.Archive("duplicate report", adminID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	if inc.Status != StatusArchived {
		t.Errorf("Expected status Archived, got %s", inc.Status)
	}
	if inc.ArchiveReason == nil || *inc.ArchiveReason != "duplicate report" {
		t.Error("Expected archive reason to be recorded")
	}
	if inc.ArchivedBy == nil || *inc.ArchivedBy != adminID {
		t.Error("Expected archiving actor to be recorded")
	}
	if inc.ArchivedAt == nil {
		t.Error("Expected archive timestamp to be recorded")
	}
}

func TestArchiveRequiresReason(t *testing.T) {
	inc := newTestIncident(t)

	if err := inc.Archive("", types.NewID()); err == nil {
		t.Error("Expected error archiving without a reason")
	}
}

func TestArchiveReasonLengthBounds(t *testing.T) {
	if err := newTestIncident(t).Archive("dup", types.NewID()); err == nil {
		t.Error("Expected error for a reason under 5 characters")
	}

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	if err := newTestIncident(t).Archive(string(long), types.NewID()); err == nil {
		t.Error("Expected error for a reason over 500 characters")
	}
}

func TestArchiveTwiceFails(t *testing.T) {
	inc := newTestIncident(t)

	if err := inc.Archive("first", types.NewID()); err != nil {
		t.Fatal(err)
	}
	if err := inc.Archive("second", types.NewID()); err == nil {
		t.Error("Expected error archiving an archived incident")
	}
}

// TestArchiveUnarchiveRoundTrip verifies unarchiving restores the
// pre-archive status and grows the history by exactly one episode
func TestArchiveUnarchiveRoundTrip(t *testing.T) {
	adminID := types.NewID()
	reviewerID := types.NewID()
	inc := newTestIncident(t)

	if err := inc.SetStatus(StatusInvestigating, adminID); err != nil {
		t.Fatal(err)
	}

	if err := inc.Archive("pending verification", adminID); err != nil {
		t.Fatal(err)
	}

	if err := inc.Unarchive(StatusInvestigating, "verification complete", reviewerID); err != nil {
		t.Fatalf("Unarchive failed: %v", err)
	}

	if inc.Status != StatusInvestigating {
		t.Errorf("Expected restored status Investigating, got %s", inc.Status)
	}

	if inc.ArchiveReason != nil || inc.ArchivedBy != nil || inc.ArchivedAt != nil {
		t.Error("Expected archive fields cleared after unarchive")
	}

	if len(inc.UnarchiveHistory) != 1 {
		t.Fatalf("Expected 1 history episode, got %d", len(inc.UnarchiveHistory))
	}

	episode := inc.UnarchiveHistory[0]
	if episode.Reason != "pending verification" {
		t.Errorf("Expected episode to keep the archive reason, got %q", episode.Reason)
	}
	if episode.UnarchiveReason != "verification complete" {
		t.Errorf("Expected episode to record the unarchive reason, got %q", episode.UnarchiveReason)
	}
	if episode.ArchivedBy != adminID {
		t.Error("Expected episode to record the archiving actor")
	}
	if episode.UnarchivedBy != reviewerID {
		t.Error("Expected episode to record the unarchiving actor")
	}
	if episode.StatusAfter != StatusInvestigating {
		t.Errorf("Expected episode status after %s, got %s", StatusInvestigating, episode.StatusAfter)
	}
}

// TestUnarchiveHistoryAppends verifies repeated cycles accumulate
func TestUnarchiveHistoryAppends(t *testing.T) {
	adminID := types.NewID()
	inc := newTestIncident(t)

	for cycle := 1; cycle <= 3; cycle++ {
		if err := inc.Archive("cycle", adminID); err != nil {
			t.Fatal(err)
		}
		if err := inc.Unarchive(StatusReported, "restore", adminID); err != nil {
			t.Fatal(err)
		}
		if len(inc.UnarchiveHistory) != cycle {
			t.Fatalf("After cycle %d expected %d episodes, got %d", cycle, cycle, len(inc.UnarchiveHistory))
		}
	}
}

func TestUnarchiveRequiresArchivedState(t *testing.T) {
	inc := newTestIncident(t)

	if err := inc.Unarchive(StatusReported, "restore", types.NewID()); err == nil {
		t.Error("Expected error unarchiving an active incident")
	}
}

func TestReplaceFamilies(t *testing.T) {
	inc := newTestIncident(t)

	inc.ReplaceFamilies([]Family{
		{ID: types.NewID(), IncidentID: inc.ID, FamilyNumber: 1, FamilySize: 4},
		{ID: types.NewID(), IncidentID: inc.ID, FamilyNumber: 2, FamilySize: 6},
	})
	if len(inc.Families) != 2 {
		t.Fatalf("Expected 2 families, got %d", len(inc.Families))
	}

	inc.ReplaceFamilies(nil)
	if inc.Families == nil || len(inc.Families) != 0 {
		t.Error("Expected empty non-nil roster after replacing with nil")
	}
}

func TestFamilyAssisted(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		want   bool
	}{
		{"no flags", Family{}, false},
		{"general", Family{AssistanceReceived: true}, true},
		{"food only", Family{FoodAssistance: true}, true},
		{"non-food only", Family{NonFoodAssistance: true}, true},
		{"shelter only", Family{ShelterAssistance: true}, true},
		{"medical only", Family{MedicalAssistance: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.family.Assisted(); got != tt.want {
				t.Errorf("Assisted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFamilyDisplaced(t *testing.T) {
	evac := "Central School"
	empty := ""

	if (&Family{}).Displaced() {
		t.Error("Family without evacuation center should not be displaced")
	}
	if !(&Family{EvacuationCenter: &evac}).Displaced() {
		t.Error("Family with evacuation center should be displaced")
	}
	if (&Family{EvacuationCenter: &empty}).Displaced() {
		t.Error("Family with empty evacuation center should not be displaced")
	}
}

func newTestIncident(t *testing.T) *Incident {
	t.Helper()
	inc, err := NewIncident(TypeFlood, SeverityMedium, "Flooding", "", "Poblacion", "", types.NewID())
	if err != nil {
		t.Fatalf("newTestIncident: %v", err)
	}
	return inc
}

package domain

import (
	"testing"
	"time"

	"github.com/mdrrmo/respond/internal/shared/auth"
	"github.com/mdrrmo/respond/internal/shared/types"
)

func TestCanMutateAdmin(t *testing.T) {
	admin := &auth.Actor{ID: types.NewID(), Role: auth.RoleAdmin}
	inc := newTestIncident(t)
	// Well past the reporter edit window
	old := inc.CreatedAt.Add(48 * time.Hour)

	actions := []Action{
		ActionEdit, ActionDelete, ActionStatusChange,
		ActionArchive, ActionUnarchive, ActionPopulation, ActionInfrastructure,
	}
	for _, action := range actions {
		if !CanMutate(admin, inc, action, old) {
			t.Errorf("Expected admin to be allowed %s", action)
		}
	}
}

func TestCanMutateBarangayEditWindow(t *testing.T) {
	inc := newTestIncident(t)
	owner := &auth.Actor{ID: inc.ReportedBy, Role: auth.RoleBarangay}
	other := &auth.Actor{ID: types.NewID(), Role: auth.RoleBarangay}

	tests := []struct {
		name   string
		actor  *auth.Actor
		action Action
		at     time.Time
		want   bool
	}{
		{"owner edit at 59 minutes", owner, ActionEdit, inc.CreatedAt.Add(59 * time.Minute), true},
		{"owner edit at 61 minutes", owner, ActionEdit, inc.CreatedAt.Add(61 * time.Minute), false},
		{"owner edit at exactly 1 hour", owner, ActionEdit, inc.CreatedAt.Add(time.Hour), false},
		{"owner delete at 30 minutes", owner, ActionDelete, inc.CreatedAt.Add(30 * time.Minute), true},
		{"owner delete at 2 hours", owner, ActionDelete, inc.CreatedAt.Add(2 * time.Hour), false},
		{"non-owner edit inside window", other, ActionEdit, inc.CreatedAt.Add(5 * time.Minute), false},
		{"non-owner delete inside window", other, ActionDelete, inc.CreatedAt.Add(5 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutate(tt.actor, inc, tt.action, tt.at); got != tt.want {
				t.Errorf("CanMutate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanMutateBarangayAdminOnlyActions(t *testing.T) {
	inc := newTestIncident(t)
	owner := &auth.Actor{ID: inc.ReportedBy, Role: auth.RoleBarangay}
	// Even inside the edit window, lifecycle actions stay admin-only
	at := inc.CreatedAt.Add(time.Minute)

	for _, action := range []Action{ActionStatusChange, ActionArchive, ActionUnarchive} {
		if CanMutate(owner, inc, action, at) {
			t.Errorf("Expected barangay owner to be denied %s", action)
		}
	}
}

func TestCanMutatePopulationAndInfrastructure(t *testing.T) {
	inc := newTestIncident(t)
	owner := &auth.Actor{ID: inc.ReportedBy, Role: auth.RoleBarangay}
	other := &auth.Actor{ID: types.NewID(), Role: auth.RoleBarangay}
	// Ownership, not incident age, gates these actions
	at := inc.CreatedAt.Add(72 * time.Hour)

	for _, action := range []Action{ActionPopulation, ActionInfrastructure} {
		if !CanMutate(owner, inc, action, at) {
			t.Errorf("Expected reporter to be allowed %s regardless of age", action)
		}
		if CanMutate(other, inc, action, at) {
			t.Errorf("Expected non-reporter to be denied %s", action)
		}
	}
}

func TestCanMutateFailsClosed(t *testing.T) {
	inc := newTestIncident(t)
	at := inc.CreatedAt.Add(time.Minute)

	if CanMutate(nil, inc, ActionEdit, at) {
		t.Error("Expected nil actor to be denied")
	}

	unknown := &auth.Actor{ID: inc.ReportedBy, Role: auth.Role("viewer")}
	if CanMutate(unknown, inc, ActionEdit, at) {
		t.Error("Expected unrecognized role to be denied")
	}

	admin := &auth.Actor{ID: types.NewID(), Role: auth.RoleAdmin}
	if CanMutate(admin, nil, ActionEdit, at) {
		t.Error("Expected nil incident to be denied")
	}
}

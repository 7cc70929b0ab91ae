package domain

import (
	"time"

	"github.com/mdrrmo/respond/internal/shared/auth"
)

// Action is a mutation a caller may attempt on an incident
type Action string

const (
	ActionEdit           Action = "edit"
	ActionDelete         Action = "delete"
	ActionStatusChange   Action = "status_change"
	ActionArchive        Action = "archive"
	ActionUnarchive      Action = "unarchive"
	ActionPopulation     Action = "population"
	ActionInfrastructure Action = "infrastructure"
)

// EditWindow is how long after creation a barangay reporter may still edit
// or delete their own incident. Fixed and measured from creation time;
// editing does not extend it.
const EditWindow = time.Hour

// CanMutate decides whether the actor may perform the action on the
// incident at the given time. It is pure and fails closed: a nil actor or
// an unrecognized role is always denied. The current time is a parameter
// so the decision is never cached against a stale clock.
func CanMutate(actor *auth.Actor, incident *Incident, action Action, now time.Time) bool {
	if actor == nil || incident == nil {
		return false
	}

	switch actor.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleBarangay:
		return barangayCanMutate(actor, incident, action, now)
	default:
		return false
	}
}

func barangayCanMutate(actor *auth.Actor, incident *Incident, action Action, now time.Time) bool {
	owns := actor.ID == incident.ReportedBy

	switch action {
	case ActionEdit, ActionDelete:
		return owns && now.Sub(incident.CreatedAt) < EditWindow
	case ActionPopulation, ActionInfrastructure:
		return owns
	case ActionStatusChange, ActionArchive, ActionUnarchive:
		// Admin-only regardless of ownership or incident age
		return false
	default:
		return false
	}
}

package domain

import (
	"context"
	"time"

	"github.com/mdrrmo/respond/internal/shared/types"
)

// ListFilter narrows incident queries. Zero values mean no constraint.
type ListFilter struct {
	Barangay   string
	ReportedBy types.ID
	Type       IncidentType
	Status     Status
	From       *time.Time
	To         *time.Time

	// IncludeArchived widens the listing beyond active incidents
	IncludeArchived bool
	// ArchivedOnly restricts the listing to the archive
	ArchivedOnly bool
}

// Repository persists incidents with their full relation graph. Loads are
// eager: families with members, reporter profile, population summary and
// infrastructure status all come back with the incident so aggregation
// never issues its own queries.
type Repository interface {
	Create(ctx context.Context, incident *Incident) error
	GetByID(ctx context.Context, id types.ID) (*Incident, error)
	List(ctx context.Context, filter ListFilter) ([]*Incident, error)

	// Update persists the incident's top-level fields and replaces the
	// entire family roster in one transaction
	Update(ctx context.Context, incident *Incident) error

	// UpdateState persists the top-level fields only, leaving the roster
	// untouched. Used for status, archive and unarchive changes.
	UpdateState(ctx context.Context, incident *Incident) error

	// Delete removes an incident and cascades to its relations
	Delete(ctx context.Context, id types.ID) error

	// DeleteArchivedBefore purges archived incidents whose archive
	// timestamp is older than the cutoff, returning the number removed
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int, error)

	// UpsertPopulation writes the at-most-one population summary
	UpsertPopulation(ctx context.Context, summary *PopulationSummary) error

	// UpsertInfrastructure writes the at-most-one infrastructure status
	UpsertInfrastructure(ctx context.Context, status *InfrastructureStatus) error
}

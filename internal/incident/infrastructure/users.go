package infrastructure

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mdrrmo/respond/internal/incident/domain"
	"github.com/mdrrmo/respond/internal/shared/auth"
	"github.com/mdrrmo/respond/internal/shared/errors"
)

// UserStore keeps reporter profiles in sync with the identity provider.
// Rollups group by the profile barangay, so the profile row must exist
// before an incident references it.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new user store
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// SyncActor upserts the actor's profile row from their token claims
func (s *UserStore) SyncActor(ctx context.Context, actor *auth.Actor) error {
	if actor == nil || actor.ID.IsZero() {
		return errors.Unauthorized("authentication required")
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, username, role, barangay_name, municipality)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			role = EXCLUDED.role,
			barangay_name = EXCLUDED.barangay_name,
			municipality = EXCLUDED.municipality`,
		actor.ID, actor.ID.String(), string(actor.Role), actor.BarangayName, actor.Municipality,
	)
	if err != nil {
		return errors.Wrap(err, "failed to sync reporter profile")
	}

	return nil
}

// GetReporter loads a reporter profile by id
func (s *UserStore) GetReporter(ctx context.Context, id string) (*domain.Reporter, error) {
	rep := &domain.Reporter{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, role, barangay_name, municipality
		FROM users WHERE id = $1`, id).Scan(
		&rep.ID, &rep.Username, &rep.Role, &rep.BarangayName, &rep.Municipality,
	)
	if err != nil {
		return nil, errors.NotFound("reporter", id)
	}
	return rep, nil
}

// Package dswd reads pre-aggregated barangay population counts from the
// municipal social-welfare registry, a legacy SQL Server database that is
// maintained outside this system.
package dswd

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	"go.uber.org/zap"

	"github.com/mdrrmo/respond/internal/incident/domain"
	"github.com/mdrrmo/respond/internal/shared/config"
	"github.com/mdrrmo/respond/internal/shared/errors"
)

// Adapter wraps a connection to the legacy registry
type Adapter struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens a connection to the legacy registry and verifies it
func New(ctx context.Context, cfg config.LegacyRegistryConfig, logger *zap.Logger) (*Adapter, error) {
	db, err := sql.Open("sqlserver", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open legacy registry connection")
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping legacy registry")
	}

	return &Adapter{db: db, logger: logger}, nil
}

// NewWithDB wires an existing connection, used by tests
func NewWithDB(db *sql.DB, logger *zap.Logger) *Adapter {
	return &Adapter{db: db, logger: logger}
}

// The registry exposes one row per barangay in a flat summary view.
const populationQuery = `
	SELECT
		male_count, female_count, lgbtqia_count,
		single_count, married_count, widowed_count, separated_count, cohabiting_count,
		infant_count, toddler_count, preschooler_count, school_age_count,
		teen_age_count, adult_count, elderly_age_count,
		pwd_count, pregnant_count, elderly_count, lactating_count, solo_parent_count,
		indigenous_count, four_ps_count,
		displaced_families, displaced_persons
	FROM barangay_population_summary
	WHERE barangay_name = @barangay`

// FetchPopulation loads the registry counts for a barangay. The caller
// owns attaching the result to an incident.
func (a *Adapter) FetchPopulation(ctx context.Context, barangay string) (*domain.PopulationSummary, error) {
	var s domain.PopulationSummary

	row := a.db.QueryRowContext(ctx, populationQuery, sql.Named("barangay", barangay))
	err := row.Scan(
		&s.MaleCount, &s.FemaleCount, &s.LGBTQIACount,
		&s.SingleCount, &s.MarriedCount, &s.WidowedCount, &s.SeparatedCount, &s.CohabitingCount,
		&s.InfantCount, &s.ToddlerCount, &s.PreschoolerCount, &s.SchoolAgeCount,
		&s.TeenAgeCount, &s.AdultCount, &s.ElderlyAgeCount,
		&s.PWDCount, &s.PregnantCount, &s.ElderlyCount, &s.LactatingCount, &s.SoloParentCount,
		&s.IndigenousCount, &s.FourPsCount,
		&s.DisplacedFamilies, &s.DisplacedPersons,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("barangay population record", barangay)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query legacy registry")
	}

	a.logger.Info("imported population counts from legacy registry",
		zap.String("barangay", barangay),
		zap.Int("total", s.TotalPopulation()))

	return &s, nil
}

// Health verifies the registry connection
func (a *Adapter) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Close releases the registry connection
func (a *Adapter) Close() error {
	return a.db.Close()
}

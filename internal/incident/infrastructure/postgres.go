package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mdrrmo/respond/internal/incident/domain"
	"github.com/mdrrmo/respond/internal/shared/errors"
	"github.com/mdrrmo/respond/internal/shared/types"
)

// PostgresRepository implements domain.Repository using PostgreSQL
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{pool: pool, logger: logger}
}

const incidentColumns = `
	i.id, i.reported_by, i.title, i.description, i.incident_type, i.severity,
	i.status, i.barangay, i.location,
	i.archive_reason, i.archived_by, i.archived_at, i.unarchive_history,
	i.created_at, i.updated_at,
	u.id, u.username, u.role, u.barangay_name, u.municipality`

// Create saves a new incident with its family roster
func (r *PostgresRepository) Create(ctx context.Context, inc *domain.Incident) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	historyJSON, err := json.Marshal(inc.UnarchiveHistory)
	if err != nil {
		return errors.Wrap(err, "failed to marshal unarchive history")
	}

	query := `
		INSERT INTO incidents (
			id, reported_by, title, description, incident_type, severity,
			status, barangay, location,
			archive_reason, archived_by, archived_at, unarchive_history,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)`

	_, err = tx.Exec(ctx, query,
		inc.ID, inc.ReportedBy, inc.Title, inc.Description, inc.Type, inc.Severity,
		inc.Status, inc.Barangay, inc.Location,
		inc.ArchiveReason, inc.ArchivedBy, inc.ArchivedAt, historyJSON,
		inc.CreatedAt, inc.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save incident")
	}

	if err := r.insertFamilies(ctx, tx, inc.ID, inc.Families); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// GetByID loads an incident with its full relation graph
func (r *PostgresRepository) GetByID(ctx context.Context, id types.ID) (*domain.Incident, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM incidents i
		JOIN users u ON u.id = i.reported_by
		WHERE i.id = $1`, incidentColumns)

	inc, err := r.scanIncident(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("incident", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find incident")
	}

	if err := r.loadRelations(ctx, inc); err != nil {
		return nil, err
	}

	return inc, nil
}

// List loads incidents matching the filter, each with its relation graph
func (r *PostgresRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Incident, error) {
	var conditions []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	switch {
	case filter.ArchivedOnly:
		conditions = append(conditions, "i.status = 'Archived'")
	case !filter.IncludeArchived:
		conditions = append(conditions, "i.status <> 'Archived'")
	}

	if filter.Barangay != "" {
		add("i.barangay = $%d", filter.Barangay)
	}
	if !filter.ReportedBy.IsZero() {
		add("i.reported_by = $%d", filter.ReportedBy)
	}
	if filter.Type != "" {
		add("i.incident_type = $%d", filter.Type)
	}
	if filter.Status != "" {
		add("i.status = $%d", filter.Status)
	}
	if filter.From != nil {
		add("i.created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("i.created_at <= $%d", *filter.To)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM incidents i
		JOIN users u ON u.id = i.reported_by`, incidentColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY i.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list incidents")
	}
	defer rows.Close()

	var incidents []*domain.Incident
	for rows.Next() {
		inc, err := r.scanIncident(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan incident")
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read incidents")
	}

	for _, inc := range incidents {
		if err := r.loadRelations(ctx, inc); err != nil {
			return nil, err
		}
	}

	return incidents, nil
}

// Update persists the incident's top-level fields and replaces the entire
// family roster. Delete plus reinsert runs in one transaction with the
// field update so partial application cannot happen.
func (r *PostgresRepository) Update(ctx context.Context, inc *domain.Incident) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := r.updateIncidentRow(ctx, tx, inc); err != nil {
		return err
	}

	// Members cascade with their families
	if _, err := tx.Exec(ctx, `DELETE FROM incident_families WHERE incident_id = $1`, inc.ID); err != nil {
		return errors.Wrap(err, "failed to clear family roster")
	}

	if err := r.insertFamilies(ctx, tx, inc.ID, inc.Families); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// UpdateState persists the top-level fields only, leaving the roster alone
func (r *PostgresRepository) UpdateState(ctx context.Context, inc *domain.Incident) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := r.updateIncidentRow(ctx, tx, inc); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

func (r *PostgresRepository) updateIncidentRow(ctx context.Context, tx pgx.Tx, inc *domain.Incident) error {
	historyJSON, err := json.Marshal(inc.UnarchiveHistory)
	if err != nil {
		return errors.Wrap(err, "failed to marshal unarchive history")
	}

	query := `
		UPDATE incidents SET
			title = $2, description = $3, incident_type = $4, severity = $5,
			status = $6, barangay = $7, location = $8,
			archive_reason = $9, archived_by = $10, archived_at = $11,
			unarchive_history = $12, updated_at = $13
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		inc.ID, inc.Title, inc.Description, inc.Type, inc.Severity,
		inc.Status, inc.Barangay, inc.Location,
		inc.ArchiveReason, inc.ArchivedBy, inc.ArchivedAt,
		historyJSON, inc.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update incident")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("incident", inc.ID.String())
	}

	return nil
}

// Delete removes an incident; families, members, population and
// infrastructure rows cascade
func (r *PostgresRepository) Delete(ctx context.Context, id types.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM incidents WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete incident")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("incident", id.String())
	}
	return nil
}

// DeleteArchivedBefore purges archived incidents older than the cutoff
func (r *PostgresRepository) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM incidents WHERE status = 'Archived' AND archived_at < $1`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge archived incidents")
	}
	return int(tag.RowsAffected()), nil
}

// UpsertPopulation writes the at-most-one population summary per incident
func (r *PostgresRepository) UpsertPopulation(ctx context.Context, p *domain.PopulationSummary) error {
	query := `
		INSERT INTO population_data (
			id, incident_id,
			male_count, female_count, lgbtqia_count,
			single_count, married_count, widowed_count, separated_count, cohabiting_count,
			pwd_count, pregnant_count, elderly_count, lactating_count, solo_parent_count,
			indigenous_count, lgbtqia_group_count, child_headed_count, gbv_count,
			four_ps_count, single_headed_count,
			infant_count, toddler_count, preschooler_count, school_age_count,
			teen_age_count, adult_count, elderly_age_count,
			christian_count, subanen_ip_count, moro_count,
			displaced_families, displaced_persons,
			families_requiring_assistance, families_assisted,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
			$29, $30, $31, $32, $33, $34, $35, $36, $37
		)
		ON CONFLICT (incident_id) DO UPDATE SET
			male_count = EXCLUDED.male_count,
			female_count = EXCLUDED.female_count,
			lgbtqia_count = EXCLUDED.lgbtqia_count,
			single_count = EXCLUDED.single_count,
			married_count = EXCLUDED.married_count,
			widowed_count = EXCLUDED.widowed_count,
			separated_count = EXCLUDED.separated_count,
			cohabiting_count = EXCLUDED.cohabiting_count,
			pwd_count = EXCLUDED.pwd_count,
			pregnant_count = EXCLUDED.pregnant_count,
			elderly_count = EXCLUDED.elderly_count,
			lactating_count = EXCLUDED.lactating_count,
			solo_parent_count = EXCLUDED.solo_parent_count,
			indigenous_count = EXCLUDED.indigenous_count,
			lgbtqia_group_count = EXCLUDED.lgbtqia_group_count,
			child_headed_count = EXCLUDED.child_headed_count,
			gbv_count = EXCLUDED.gbv_count,
			four_ps_count = EXCLUDED.four_ps_count,
			single_headed_count = EXCLUDED.single_headed_count,
			infant_count = EXCLUDED.infant_count,
			toddler_count = EXCLUDED.toddler_count,
			preschooler_count = EXCLUDED.preschooler_count,
			school_age_count = EXCLUDED.school_age_count,
			teen_age_count = EXCLUDED.teen_age_count,
			adult_count = EXCLUDED.adult_count,
			elderly_age_count = EXCLUDED.elderly_age_count,
			christian_count = EXCLUDED.christian_count,
			subanen_ip_count = EXCLUDED.subanen_ip_count,
			moro_count = EXCLUDED.moro_count,
			displaced_families = EXCLUDED.displaced_families,
			displaced_persons = EXCLUDED.displaced_persons,
			families_requiring_assistance = EXCLUDED.families_requiring_assistance,
			families_assisted = EXCLUDED.families_assisted,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.IncidentID,
		p.MaleCount, p.FemaleCount, p.LGBTQIACount,
		p.SingleCount, p.MarriedCount, p.WidowedCount, p.SeparatedCount, p.CohabitingCount,
		p.PWDCount, p.PregnantCount, p.ElderlyCount, p.LactatingCount, p.SoloParentCount,
		p.IndigenousCount, p.LGBTQIAGroupCount, p.ChildHeadedCount, p.GBVCount,
		p.FourPsCount, p.SingleHeadedCount,
		p.InfantCount, p.ToddlerCount, p.PreschoolerCount, p.SchoolAgeCount,
		p.TeenAgeCount, p.AdultCount, p.ElderlyAgeCount,
		p.ChristianCount, p.SubanenIPCount, p.MoroCount,
		p.DisplacedFamilies, p.DisplacedPersons,
		p.FamiliesRequiringAssistance, p.FamiliesAssisted,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to upsert population data")
	}

	return nil
}

// UpsertInfrastructure writes the at-most-one infrastructure status per incident
func (r *PostgresRepository) UpsertInfrastructure(ctx context.Context, s *domain.InfrastructureStatus) error {
	query := `
		INSERT INTO infrastructure_statuses (
			id, incident_id, road_status, power_status, communication_status,
			power_interruption_at, power_restoration_at,
			communication_interruption_at, communication_restoration_at,
			remarks, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (incident_id) DO UPDATE SET
			road_status = EXCLUDED.road_status,
			power_status = EXCLUDED.power_status,
			communication_status = EXCLUDED.communication_status,
			power_interruption_at = EXCLUDED.power_interruption_at,
			power_restoration_at = EXCLUDED.power_restoration_at,
			communication_interruption_at = EXCLUDED.communication_interruption_at,
			communication_restoration_at = EXCLUDED.communication_restoration_at,
			remarks = EXCLUDED.remarks,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		s.ID, s.IncidentID, s.RoadStatus, s.PowerStatus, s.CommunicationStatus,
		s.PowerInterruptionAt, s.PowerRestorationAt,
		s.CommunicationInterruptionAt, s.CommunicationRestorationAt,
		s.Remarks, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to upsert infrastructure status")
	}

	return nil
}

// --- internals ---

func (r *PostgresRepository) scanIncident(row pgx.Row) (*domain.Incident, error) {
	inc := &domain.Incident{Reporter: &domain.Reporter{}}
	var historyJSON []byte

	err := row.Scan(
		&inc.ID, &inc.ReportedBy, &inc.Title, &inc.Description, &inc.Type, &inc.Severity,
		&inc.Status, &inc.Barangay, &inc.Location,
		&inc.ArchiveReason, &inc.ArchivedBy, &inc.ArchivedAt, &historyJSON,
		&inc.CreatedAt, &inc.UpdatedAt,
		&inc.Reporter.ID, &inc.Reporter.Username, &inc.Reporter.Role,
		&inc.Reporter.BarangayName, &inc.Reporter.Municipality,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(historyJSON, &inc.UnarchiveHistory); err != nil {
		r.logger.Warn("malformed unarchive history",
			zap.String("incident_id", inc.ID.String()), zap.Error(err))
		inc.UnarchiveHistory = []domain.ArchiveEpisode{}
	}

	inc.Families = []domain.Family{}
	return inc, nil
}

func (r *PostgresRepository) loadRelations(ctx context.Context, inc *domain.Incident) error {
	families, err := r.getFamilies(ctx, inc.ID)
	if err != nil {
		return err
	}
	inc.Families = families

	population, err := r.getPopulation(ctx, inc.ID)
	if err != nil {
		return err
	}
	inc.PopulationData = population

	infra, err := r.getInfrastructure(ctx, inc.ID)
	if err != nil {
		return err
	}
	inc.Infrastructure = infra

	return nil
}

func (r *PostgresRepository) insertFamilies(ctx context.Context, tx pgx.Tx, incidentID types.ID, families []domain.Family) error {
	for fi := range families {
		family := &families[fi]
		if family.ID.IsZero() {
			family.ID = types.NewID()
		}
		family.IncidentID = incidentID
		if family.CreatedAt.IsZero() {
			family.CreatedAt = time.Now()
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO incident_families (
				id, incident_id, family_number, family_head, family_size,
				evacuation_center,
				assistance_received, food_assistance, non_food_assistance,
				shelter_assistance, medical_assistance,
				remarks, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			family.ID, family.IncidentID, family.FamilyNumber, family.FamilyHead, family.FamilySize,
			family.EvacuationCenter,
			family.AssistanceReceived, family.FoodAssistance, family.NonFoodAssistance,
			family.ShelterAssistance, family.MedicalAssistance,
			family.Remarks, family.CreatedAt,
		)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return errors.Conflict(fmt.Sprintf("family number %d already used on this incident", family.FamilyNumber))
			}
			return errors.Wrap(err, "failed to save family")
		}

		for mi := range family.Members {
			member := &family.Members[mi]
			if member.ID.IsZero() {
				member.ID = types.NewID()
			}
			member.FamilyID = family.ID
			if member.CreatedAt.IsZero() {
				member.CreatedAt = time.Now()
			}

			tagsJSON, err := json.Marshal(member.VulnerableGroups)
			if err != nil {
				return errors.Wrap(err, "failed to marshal vulnerable groups")
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO incident_family_members (
					id, family_id, first_name, middle_name, last_name,
					position_in_family, gender_identity, age, age_category,
					civil_status, ethnicity, vulnerable_groups,
					casualty, displaced, pwd_type,
					assistance_received, food_assistance, non_food_assistance,
					medical_attention, psychological_support, created_at
				) VALUES (
					$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
					$13, $14, $15, $16, $17, $18, $19, $20, $21
				)`,
				member.ID, member.FamilyID, member.FirstName, member.MiddleName, member.LastName,
				member.PositionInFamily, member.GenderIdentity, member.Age, member.AgeCategory,
				member.CivilStatus, member.Ethnicity, tagsJSON,
				member.Casualty, member.Displaced, member.PWDType,
				member.AssistanceReceived, member.FoodAssistance, member.NonFoodAssistance,
				member.MedicalAttention, member.PsychologicalSupport, member.CreatedAt,
			)
			if err != nil {
				return errors.Wrap(err, "failed to save family member")
			}
		}
	}

	return nil
}

func (r *PostgresRepository) getFamilies(ctx context.Context, incidentID types.ID) ([]domain.Family, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, incident_id, family_number, family_head, family_size,
			evacuation_center,
			assistance_received, food_assistance, non_food_assistance,
			shelter_assistance, medical_assistance,
			remarks, created_at
		FROM incident_families
		WHERE incident_id = $1
		ORDER BY family_number`, incidentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load families")
	}
	defer rows.Close()

	families := []domain.Family{}
	for rows.Next() {
		var f domain.Family
		err := rows.Scan(
			&f.ID, &f.IncidentID, &f.FamilyNumber, &f.FamilyHead, &f.FamilySize,
			&f.EvacuationCenter,
			&f.AssistanceReceived, &f.FoodAssistance, &f.NonFoodAssistance,
			&f.ShelterAssistance, &f.MedicalAssistance,
			&f.Remarks, &f.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan family")
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read families")
	}

	for fi := range families {
		members, err := r.getMembers(ctx, families[fi].ID)
		if err != nil {
			return nil, err
		}
		families[fi].Members = members
	}

	return families, nil
}

func (r *PostgresRepository) getMembers(ctx context.Context, familyID types.ID) ([]domain.Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, family_id, first_name, middle_name, last_name,
			position_in_family, gender_identity, age, age_category,
			civil_status, ethnicity, vulnerable_groups,
			casualty, displaced, pwd_type,
			assistance_received, food_assistance, non_food_assistance,
			medical_attention, psychological_support, created_at
		FROM incident_family_members
		WHERE family_id = $1
		ORDER BY created_at`, familyID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load family members")
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var m domain.Member
		var tagsJSON []byte
		err := rows.Scan(
			&m.ID, &m.FamilyID, &m.FirstName, &m.MiddleName, &m.LastName,
			&m.PositionInFamily, &m.GenderIdentity, &m.Age, &m.AgeCategory,
			&m.CivilStatus, &m.Ethnicity, &tagsJSON,
			&m.Casualty, &m.Displaced, &m.PWDType,
			&m.AssistanceReceived, &m.FoodAssistance, &m.NonFoodAssistance,
			&m.MedicalAttention, &m.PsychologicalSupport, &m.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan family member")
		}

		// Malformed tag data loses this member's vulnerable-group
		// contribution but never fails the load
		if err := json.Unmarshal(tagsJSON, &m.VulnerableGroups); err != nil {
			r.logger.Warn("malformed vulnerable groups",
				zap.String("member_id", m.ID.String()), zap.Error(err))
			m.VulnerableGroups = nil
		}

		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read family members")
	}

	return members, nil
}

func (r *PostgresRepository) getPopulation(ctx context.Context, incidentID types.ID) (*domain.PopulationSummary, error) {
	query := `
		SELECT id, incident_id,
			male_count, female_count, lgbtqia_count,
			single_count, married_count, widowed_count, separated_count, cohabiting_count,
			pwd_count, pregnant_count, elderly_count, lactating_count, solo_parent_count,
			indigenous_count, lgbtqia_group_count, child_headed_count, gbv_count,
			four_ps_count, single_headed_count,
			infant_count, toddler_count, preschooler_count, school_age_count,
			teen_age_count, adult_count, elderly_age_count,
			christian_count, subanen_ip_count, moro_count,
			displaced_families, displaced_persons,
			families_requiring_assistance, families_assisted,
			created_at, updated_at
		FROM population_data
		WHERE incident_id = $1`

	p := &domain.PopulationSummary{}
	err := r.pool.QueryRow(ctx, query, incidentID).Scan(
		&p.ID, &p.IncidentID,
		&p.MaleCount, &p.FemaleCount, &p.LGBTQIACount,
		&p.SingleCount, &p.MarriedCount, &p.WidowedCount, &p.SeparatedCount, &p.CohabitingCount,
		&p.PWDCount, &p.PregnantCount, &p.ElderlyCount, &p.LactatingCount, &p.SoloParentCount,
		&p.IndigenousCount, &p.LGBTQIAGroupCount, &p.ChildHeadedCount, &p.GBVCount,
		&p.FourPsCount, &p.SingleHeadedCount,
		&p.InfantCount, &p.ToddlerCount, &p.PreschoolerCount, &p.SchoolAgeCount,
		&p.TeenAgeCount, &p.AdultCount, &p.ElderlyAgeCount,
		&p.ChristianCount, &p.SubanenIPCount, &p.MoroCount,
		&p.DisplacedFamilies, &p.DisplacedPersons,
		&p.FamiliesRequiringAssistance, &p.FamiliesAssisted,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load population data")
	}

	return p, nil
}

func (r *PostgresRepository) getInfrastructure(ctx context.Context, incidentID types.ID) (*domain.InfrastructureStatus, error) {
	query := `
		SELECT id, incident_id, road_status, power_status, communication_status,
			power_interruption_at, power_restoration_at,
			communication_interruption_at, communication_restoration_at,
			remarks, created_at, updated_at
		FROM infrastructure_statuses
		WHERE incident_id = $1`

	s := &domain.InfrastructureStatus{}
	err := r.pool.QueryRow(ctx, query, incidentID).Scan(
		&s.ID, &s.IncidentID, &s.RoadStatus, &s.PowerStatus, &s.CommunicationStatus,
		&s.PowerInterruptionAt, &s.PowerRestorationAt,
		&s.CommunicationInterruptionAt, &s.CommunicationRestorationAt,
		&s.Remarks, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load infrastructure status")
	}

	return s, nil
}

// Ensure PostgresRepository implements domain.Repository
var _ domain.Repository = (*PostgresRepository)(nil)

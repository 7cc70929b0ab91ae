package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdrrmo/respond/internal/incident/domain"
	"github.com/mdrrmo/respond/internal/shared/auth"
	"github.com/mdrrmo/respond/internal/shared/errors"
	"github.com/mdrrmo/respond/internal/shared/logger"
	"github.com/mdrrmo/respond/internal/shared/types"
	"github.com/mdrrmo/respond/internal/stats"
)

// fakeRepo is an in-memory Repository for handler tests
type fakeRepo struct {
	incidents map[types.ID]*domain.Incident
	updated   []types.ID
	deleted   []types.ID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{incidents: make(map[types.ID]*domain.Incident)}
}

func (f *fakeRepo) Create(ctx context.Context, inc *domain.Incident) error {
	f.incidents[inc.ID] = inc
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id types.ID) (*domain.Incident, error) {
	inc, ok := f.incidents[id]
	if !ok {
		return nil, errors.NotFound("incident", id.String())
	}
	return inc, nil
}

func (f *fakeRepo) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Incident, error) {
	var out []*domain.Incident
	for _, inc := range f.incidents {
		if filter.ArchivedOnly && !inc.IsArchived() {
			continue
		}
		if !filter.ArchivedOnly && !filter.IncludeArchived && inc.IsArchived() {
			continue
		}
		if !filter.ReportedBy.IsZero() && inc.ReportedBy != filter.ReportedBy {
			continue
		}
		out = append(out, inc)
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, inc *domain.Incident) error {
	f.incidents[inc.ID] = inc
	f.updated = append(f.updated, inc.ID)
	return nil
}

func (f *fakeRepo) UpdateState(ctx context.Context, inc *domain.Incident) error {
	f.incidents[inc.ID] = inc
	f.updated = append(f.updated, inc.ID)
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id types.ID) error {
	if _, ok := f.incidents[id]; !ok {
		return errors.NotFound("incident", id.String())
	}
	delete(f.incidents, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	count := 0
	for id, inc := range f.incidents {
		if inc.IsArchived() && inc.ArchivedAt != nil && inc.ArchivedAt.Before(cutoff) {
			delete(f.incidents, id)
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) UpsertPopulation(ctx context.Context, s *domain.PopulationSummary) error {
	inc, ok := f.incidents[s.IncidentID]
	if !ok {
		return errors.NotFound("incident", s.IncidentID.String())
	}
	inc.PopulationData = s
	return nil
}

func (f *fakeRepo) UpsertInfrastructure(ctx context.Context, s *domain.InfrastructureStatus) error {
	inc, ok := f.incidents[s.IncidentID]
	if !ok {
		return errors.NotFound("incident", s.IncidentID.String())
	}
	inc.Infrastructure = s
	return nil
}

type fakeActorSync struct {
	synced []*auth.Actor
}

func (f *fakeActorSync) SyncActor(ctx context.Context, actor *auth.Actor) error {
	f.synced = append(f.synced, actor)
	return nil
}

type fakeImporter struct {
	summary *domain.PopulationSummary
	err     error
}

func (f *fakeImporter) FetchPopulation(ctx context.Context, barangay string) (*domain.PopulationSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func newTestHandler(repo *fakeRepo) (*Handler, *fakeActorSync) {
	users := &fakeActorSync{}
	statsService := stats.NewService(repo, nil, logger.NewNop())
	h := NewHandler(repo, users, statsService, nil, nil, nil, logger.NewNop())
	return h, users
}

func adminActor() *auth.Actor {
	return &auth.Actor{ID: types.NewID(), Role: auth.RoleAdmin}
}

func barangayActor(barangay string) *auth.Actor {
	return &auth.Actor{ID: types.NewID(), Role: auth.RoleBarangay, BarangayName: barangay}
}

func doRequest(h *Handler, actor *auth.Actor, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	if actor != nil {
		req = req.WithContext(context.WithValue(req.Context(), auth.ActorContextKey, actor))
	}

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func seedIncident(t *testing.T, repo *fakeRepo, reporter *auth.Actor) *domain.Incident {
	t.Helper()
	inc, err := domain.NewIncident(
		domain.TypeFlood, domain.SeverityHigh,
		"Flash flood along the riverbank", "", "Poblacion", "Purok 3",
		reporter.ID,
	)
	require.NoError(t, err)
	inc.ClearDomainEvents()
	repo.incidents[inc.ID] = inc
	return inc
}

func TestCreateIncident(t *testing.T) {
	repo := newFakeRepo()
	h, users := newTestHandler(repo)
	actor := barangayActor("Poblacion")

	rec := doRequest(h, actor, http.MethodPost, "/", CreateIncidentRequest{
		Type:     domain.TypeFlood,
		Severity: domain.SeverityHigh,
		Title:    "Flash flood along the riverbank",
		Barangay: "Poblacion",
		Families: []FamilyRequest{
			{FamilyNumber: 1, FamilyHead: "Reyes", FamilySize: 4},
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Incident
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, domain.StatusReported, created.Status)
	assert.Equal(t, actor.ID, created.ReportedBy)
	assert.Len(t, created.Families, 1)

	// Reporter profile synced before persisting
	require.Len(t, users.synced, 1)
	assert.Equal(t, actor.ID, users.synced[0].ID)
}

func TestCreateIncidentRejectsInvalidType(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)

	rec := doRequest(h, barangayActor("Poblacion"), http.MethodPost, "/", CreateIncidentRequest{
		Type:     "Tsunami",
		Severity: domain.SeverityHigh,
		Title:    "Wave surge",
		Barangay: "Poblacion",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.incidents)
}

func TestCreateIncidentRequiresAuth(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)

	rec := doRequest(h, nil, http.MethodPost, "/", CreateIncidentRequest{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListScopesBarangayToOwnReports(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)

	mine := barangayActor("Poblacion")
	other := barangayActor("Riverside")
	seedIncident(t, repo, mine)
	seedIncident(t, repo, other)

	rec := doRequest(h, mine, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Total)

	rec = doRequest(h, adminActor(), http.MethodGet, "/", nil)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Total)
}

func TestUpdateWithinEditWindow(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	owner := barangayActor("Poblacion")
	inc := seedIncident(t, repo, owner)

	title := "Flash flood, water receding"
	rec := doRequest(h, owner, http.MethodPut, "/"+inc.ID.String(), UpdateIncidentRequest{Title: &title})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, title, repo.incidents[inc.ID].Title)
}

func TestUpdateOutsideEditWindowForbidden(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	owner := barangayActor("Poblacion")
	inc := seedIncident(t, repo, owner)
	inc.CreatedAt = time.Now().Add(-2 * time.Hour)

	title := "Too late"
	rec := doRequest(h, owner, http.MethodPut, "/"+inc.ID.String(), UpdateIncidentRequest{Title: &title})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotEqual(t, title, repo.incidents[inc.ID].Title)
}

func TestUpdateReplacesRosterWholesale(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	admin := adminActor()
	owner := barangayActor("Poblacion")
	inc := seedIncident(t, repo, owner)
	inc.ReplaceFamilies([]domain.Family{
		{FamilyNumber: 1, FamilyHead: "Reyes", FamilySize: 4},
		{FamilyNumber: 2, FamilyHead: "Cruz", FamilySize: 5},
	})

	rec := doRequest(h, admin, http.MethodPut, "/"+inc.ID.String(), UpdateIncidentRequest{
		Families: []FamilyRequest{
			{FamilyNumber: 7, FamilyHead: "Santos", FamilySize: 6},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	got := repo.incidents[inc.ID].Families
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].FamilyNumber)
}

func TestStatusChangeAdminOnly(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	owner := barangayActor("Poblacion")
	inc := seedIncident(t, repo, owner)

	// The reporter cannot move status, even within the edit window
	rec := doRequest(h, owner, http.MethodPatch, "/"+inc.ID.String()+"/status",
		ChangeStatusRequest{Status: domain.StatusInvestigating})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(h, adminActor(), http.MethodPatch, "/"+inc.ID.String()+"/status",
		ChangeStatusRequest{Status: domain.StatusInvestigating})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusInvestigating, repo.incidents[inc.ID].Status)
}

func TestStatusChangeRejectsBackwards(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	inc := seedIncident(t, repo, barangayActor("Poblacion"))
	inc.Status = domain.StatusResolved

	rec := doRequest(h, adminActor(), http.MethodPatch, "/"+inc.ID.String()+"/status",
		ChangeStatusRequest{Status: domain.StatusReported})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArchiveRequiresReason(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	inc := seedIncident(t, repo, barangayActor("Poblacion"))

	rec := doRequest(h, adminActor(), http.MethodPost, "/"+inc.ID.String()+"/archive",
		ArchiveRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(h, adminActor(), http.MethodPost, "/"+inc.ID.String()+"/archive",
		ArchiveRequest{Reason: "duplicate report"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, repo.incidents[inc.ID].IsArchived())
}

func TestUnarchiveRestoresStatusAndHistory(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	admin := adminActor()
	inc := seedIncident(t, repo, barangayActor("Poblacion"))
	require.NoError(t, inc.Archive("seasonal closeout", admin.ID))

	rec := doRequest(h, admin, http.MethodPost, "/"+inc.ID.String()+"/unarchive",
		UnarchiveRequest{Reason: "reopened after new damage report", RestoreTo: domain.StatusInvestigating})

	require.Equal(t, http.StatusOK, rec.Code)
	got := repo.incidents[inc.ID]
	assert.Equal(t, domain.StatusInvestigating, got.Status)
	assert.Nil(t, got.ArchiveReason)
	require.Len(t, got.UnarchiveHistory, 1)
	assert.Equal(t, "seasonal closeout", got.UnarchiveHistory[0].Reason)
}

func TestArchivedListingAdminOnly(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	admin := adminActor()
	inc := seedIncident(t, repo, barangayActor("Poblacion"))
	require.NoError(t, inc.Archive("closed", admin.ID))

	rec := doRequest(h, barangayActor("Poblacion"), http.MethodGet, "/archived/", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(h, admin, http.MethodGet, "/archived/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Total)
}

func TestDeleteArchivedRejectsActiveIncident(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	inc := seedIncident(t, repo, barangayActor("Poblacion"))

	rec := doRequest(h, adminActor(), http.MethodDelete, "/archived/"+inc.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, repo.incidents, inc.ID)
}

func TestPopulationUpsertExclusiveWithRoster(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	owner := barangayActor("Poblacion")
	inc := seedIncident(t, repo, owner)

	rec := doRequest(h, owner, http.MethodPut, "/"+inc.ID.String()+"/population",
		PopulationRequest{PopulationSummary: domain.PopulationSummary{MaleCount: 10, FemaleCount: 12}})

	require.Equal(t, http.StatusOK, rec.Code)
	got := repo.incidents[inc.ID].PopulationData
	require.NotNil(t, got)
	assert.Equal(t, inc.ID, got.IncidentID)
	assert.Equal(t, 22, got.TotalPopulation())
}

func TestPopulationUpsertOwnershipGated(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	inc := seedIncident(t, repo, barangayActor("Poblacion"))

	rec := doRequest(h, barangayActor("Riverside"), http.MethodPut, "/"+inc.ID.String()+"/population",
		PopulationRequest{PopulationSummary: domain.PopulationSummary{MaleCount: 1}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, repo.incidents[inc.ID].PopulationData)
}

func TestImportPopulationFromRegistry(t *testing.T) {
	repo := newFakeRepo()
	users := &fakeActorSync{}
	statsService := stats.NewService(repo, nil, logger.NewNop())
	importer := &fakeImporter{summary: &domain.PopulationSummary{MaleCount: 50, FemaleCount: 55}}
	h := NewHandler(repo, users, statsService, nil, importer, nil, logger.NewNop())

	owner := barangayActor("Poblacion")
	inc := seedIncident(t, repo, owner)

	rec := doRequest(h, owner, http.MethodPost, "/"+inc.ID.String()+"/population/import", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := repo.incidents[inc.ID].PopulationData
	require.NotNil(t, got)
	assert.Equal(t, 105, got.TotalPopulation())
}

func TestImportPopulationDisabled(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	owner := barangayActor("Poblacion")
	inc := seedIncident(t, repo, owner)

	rec := doRequest(h, owner, http.MethodPost, "/"+inc.ID.String()+"/population/import", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestIncidentReportComputesMetrics(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	owner := barangayActor("Poblacion")
	inc := seedIncident(t, repo, owner)
	evac := "Poblacion Gym"
	inc.ReplaceFamilies([]domain.Family{
		{FamilyNumber: 1, FamilySize: 4, EvacuationCenter: &evac, FoodAssistance: true},
		{FamilyNumber: 2, FamilySize: 3},
	})

	rec := doRequest(h, owner, http.MethodGet, "/"+inc.ID.String()+"/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Metrics            stats.Metrics `json:"metrics"`
		AssistanceCoverage float64       `json:"assistance_coverage"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 7, resp.Metrics.TotalPopulation)
	assert.Equal(t, 1, resp.Metrics.DisplacedFamilies)
	assert.Equal(t, 50.0, resp.AssistanceCoverage)
}

func TestGetIncidentHidesOthersReports(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	inc := seedIncident(t, repo, barangayActor("Poblacion"))

	rec := doRequest(h, barangayActor("Riverside"), http.MethodGet, "/"+inc.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(h, adminActor(), http.MethodGet, "/"+inc.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetIncidentDetailAffordances(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)
	owner := barangayActor("Poblacion")
	inc := seedIncident(t, repo, owner)

	rec := doRequest(h, owner, http.MethodGet, "/"+inc.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		CanEdit      bool `json:"can_edit"`
		CanDelete    bool `json:"can_delete"`
		Completeness int  `json:"completeness"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.CanEdit)
	assert.True(t, body.CanDelete)
	// seeded incident carries only a location
	assert.Equal(t, 25, body.Completeness)

	inc.CreatedAt = time.Now().Add(-2 * time.Hour)
	rec = doRequest(h, owner, http.MethodGet, "/"+inc.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.CanEdit, "edit window is one hour")
}

func TestGetIncidentUnknownID(t *testing.T) {
	repo := newFakeRepo()
	h, _ := newTestHandler(repo)

	rec := doRequest(h, adminActor(), http.MethodGet, "/"+types.NewID().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

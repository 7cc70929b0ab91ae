package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mdrrmo/respond/internal/incident/domain"
	"github.com/mdrrmo/respond/internal/shared/auth"
	"github.com/mdrrmo/respond/internal/shared/errors"
	"github.com/mdrrmo/respond/internal/shared/events"
	"github.com/mdrrmo/respond/internal/shared/metrics"
	"github.com/mdrrmo/respond/internal/shared/types"
	"github.com/mdrrmo/respond/internal/stats"
)

// PopulationImporter pulls pre-aggregated population counts for a barangay
// from the legacy social-welfare registry
type PopulationImporter interface {
	FetchPopulation(ctx context.Context, barangay string) (*domain.PopulationSummary, error)
}

// Notifier pushes incident lifecycle notifications to an external webhook
type Notifier interface {
	Send(ctx context.Context, event string, payload any) error
}

// ActorSync keeps reporter profiles current with their token claims.
// Implemented by infrastructure.UserStore.
type ActorSync interface {
	SyncActor(ctx context.Context, actor *auth.Actor) error
}

// Handler provides HTTP handlers for the incident module
type Handler struct {
	repo     domain.Repository
	users    ActorSync
	stats    *stats.Service
	bus      events.EventBus
	importer PopulationImporter
	notifier Notifier
	logger   *zap.Logger
}

// NewHandler creates a new incident handler. The bus, importer and
// notifier may be nil when those integrations are disabled.
func NewHandler(
	repo domain.Repository,
	users ActorSync,
	statsService *stats.Service,
	bus events.EventBus,
	importer PopulationImporter,
	notifier Notifier,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		repo:     repo,
		users:    users,
		stats:    statsService,
		bus:      bus,
		importer: importer,
		notifier: notifier,
		logger:   logger,
	}
}

// Routes registers the incident routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListIncidents)
	r.Post("/", h.CreateIncident)
	r.Get("/stats", h.Stats)

	r.Route("/archived", func(r chi.Router) {
		r.Get("/", h.ListArchived)
		r.Delete("/", h.PurgeArchived)
		r.Delete("/{incidentID}", h.DeleteArchived)
	})

	r.Route("/{incidentID}", func(r chi.Router) {
		r.Get("/", h.GetIncident)
		r.Put("/", h.UpdateIncident)
		r.Delete("/", h.DeleteIncident)

		r.Patch("/status", h.ChangeStatus)
		r.Post("/archive", h.ArchiveIncident)
		r.Post("/unarchive", h.UnarchiveIncident)

		r.Get("/report", h.IncidentReport)
		r.Put("/population", h.UpsertPopulation)
		r.Post("/population/import", h.ImportPopulation)
		r.Put("/infrastructure", h.UpsertInfrastructure)
	})

	return r
}

// --- Request types ---

type FamilyRequest struct {
	FamilyNumber       int             `json:"family_number"`
	FamilyHead         string          `json:"family_head"`
	FamilySize         int             `json:"family_size"`
	EvacuationCenter   *string         `json:"evacuation_center,omitempty"`
	AssistanceReceived bool            `json:"assistance_received"`
	FoodAssistance     bool            `json:"food_assistance"`
	NonFoodAssistance  bool            `json:"non_food_assistance"`
	ShelterAssistance  bool            `json:"shelter_assistance"`
	MedicalAssistance  bool            `json:"medical_assistance"`
	Remarks            string          `json:"remarks"`
	Members            []MemberRequest `json:"members"`
}

type MemberRequest struct {
	FirstName            string   `json:"first_name"`
	MiddleName           string   `json:"middle_name"`
	LastName             string   `json:"last_name"`
	PositionInFamily     string   `json:"position_in_family"`
	GenderIdentity       string   `json:"gender_identity"`
	Age                  int      `json:"age"`
	AgeCategory          string   `json:"age_category"`
	CivilStatus          string   `json:"civil_status"`
	Ethnicity            string   `json:"ethnicity"`
	VulnerableGroups     []string `json:"vulnerable_groups"`
	Casualty             *string  `json:"casualty,omitempty"`
	Displaced            string   `json:"displaced"`
	PWDType              *string  `json:"pwd_type,omitempty"`
	AssistanceReceived   bool     `json:"assistance_received"`
	FoodAssistance       bool     `json:"food_assistance"`
	NonFoodAssistance    bool     `json:"non_food_assistance"`
	MedicalAttention     bool     `json:"medical_attention"`
	PsychologicalSupport bool     `json:"psychological_support"`
}

type CreateIncidentRequest struct {
	Type        domain.IncidentType `json:"incident_type"`
	Severity    domain.Severity     `json:"severity"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Barangay    string              `json:"barangay"`
	Location    string              `json:"location"`
	Families    []FamilyRequest     `json:"families"`
}

type UpdateIncidentRequest struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Type        *domain.IncidentType `json:"incident_type,omitempty"`
	Severity    *domain.Severity     `json:"severity,omitempty"`
	Barangay    *string              `json:"barangay,omitempty"`
	Location    *string              `json:"location,omitempty"`

	// A non-nil roster replaces the entire family set
	Families []FamilyRequest `json:"families,omitempty"`
}

type ChangeStatusRequest struct {
	Status domain.Status `json:"status"`
	Note   string        `json:"note,omitempty"`
}

type ArchiveRequest struct {
	Reason string `json:"reason"`
}

type UnarchiveRequest struct {
	Reason    string        `json:"reason"`
	RestoreTo domain.Status `json:"restore_to"`
}

type PopulationRequest struct {
	domain.PopulationSummary
}

type InfrastructureRequest struct {
	domain.InfrastructureStatus
}

// --- Handlers ---

func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	if actor == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	filter := parseListFilter(r)
	filter.IncludeArchived = actor.IsAdmin() && r.URL.Query().Get("include_archived") == "true"

	// Barangay actors review only their own submissions
	if !actor.IsAdmin() {
		filter.ReportedBy = actor.ID
	}

	incidents, err := h.repo.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  incidents,
		"total": len(incidents),
	})
}

func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	if actor == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	inc, err := domain.NewIncident(
		req.Type, req.Severity,
		req.Title, req.Description, req.Barangay, req.Location,
		actor.ID,
	)
	if err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}
	inc.ReplaceFamilies(familiesFromRequest(req.Families))

	if err := h.users.SyncActor(r.Context(), actor); err != nil {
		writeError(w, err)
		return
	}

	if err := h.repo.Create(r.Context(), inc); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordIncidentReported(string(inc.Type), string(inc.Severity))
	h.afterMutation(r.Context(), actor, inc)

	writeJSON(w, http.StatusCreated, inc)
}

func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	inc, err := h.loadIncident(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.canView(actor, inc) {
		writeError(w, errors.Forbidden("no access to this incident"))
		return
	}

	now := time.Now()
	writeJSON(w, http.StatusOK, map[string]any{
		"incident":     inc,
		"can_edit":     domain.CanMutate(actor, inc, domain.ActionEdit, now),
		"can_delete":   domain.CanMutate(actor, inc, domain.ActionDelete, now),
		"completeness": completenessScore(inc),
	})
}

// completenessScore grades how much of the report is filled in, as a
// percentage over four equally weighted sections
func completenessScore(inc *domain.Incident) int {
	score := 0
	if inc.Description != "" {
		score += 25
	}
	if inc.Location != "" {
		score += 25
	}
	if len(inc.Families) > 0 || inc.PopulationData != nil {
		score += 25
	}
	if inc.Infrastructure != nil {
		score += 25
	}
	return score
}

func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	inc, err := h.loadIncident(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.authorize(actor, inc, domain.ActionEdit) {
		writeError(w, errors.Forbidden("not allowed to edit this incident"))
		return
	}

	var req UpdateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Title != nil {
		inc.Title = *req.Title
	}
	if req.Description != nil {
		inc.Description = *req.Description
	}
	if req.Type != nil {
		inc.Type = *req.Type
	}
	if req.Severity != nil {
		inc.Severity = *req.Severity
	}
	if req.Barangay != nil {
		inc.Barangay = *req.Barangay
	}
	if req.Location != nil {
		inc.Location = *req.Location
	}
	inc.UpdatedAt = time.Now()

	if req.Families != nil {
		// Wholesale replacement, never a patch of individual families
		inc.ReplaceFamilies(familiesFromRequest(req.Families))
		err = h.repo.Update(r.Context(), inc)
	} else {
		err = h.repo.UpdateState(r.Context(), inc)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	h.afterMutation(r.Context(), actor, inc)
	writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) DeleteIncident(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	inc, err := h.loadIncident(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.authorize(actor, inc, domain.ActionDelete) {
		writeError(w, errors.Forbidden("not allowed to delete this incident"))
		return
	}

	if err := h.repo.Delete(r.Context(), inc.ID); err != nil {
		writeError(w, err)
		return
	}

	h.publish(r.Context(), actor, "incident.deleted", map[string]any{"incident_id": inc.ID})
	h.stats.InvalidateCache(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	inc, err := h.loadIncident(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.authorize(actor, inc, domain.ActionStatusChange) {
		writeError(w, errors.Forbidden("status changes require an administrator"))
		return
	}

	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	oldStatus := inc.Status
	if err := inc.SetStatus(req.Status, actor.ID); err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}
	if req.Note != "" {
		pending := inc.GetDomainEvents()
		pending[len(pending)-1].Data["note"] = req.Note
	}

	if err := h.repo.UpdateState(r.Context(), inc); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordIncidentStatusChange(string(oldStatus), string(inc.Status))
	h.afterMutation(r.Context(), actor, inc)

	writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) ArchiveIncident(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	inc, err := h.loadIncident(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.authorize(actor, inc, domain.ActionArchive) {
		writeError(w, errors.Forbidden("archiving requires an administrator"))
		return
	}

	var req ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if err := inc.Archive(req.Reason, actor.ID); err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}

	if err := h.repo.UpdateState(r.Context(), inc); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordIncidentArchived()
	h.afterMutation(r.Context(), actor, inc)

	writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) UnarchiveIncident(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	inc, err := h.loadIncident(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.authorize(actor, inc, domain.ActionUnarchive) {
		writeError(w, errors.Forbidden("unarchiving requires an administrator"))
		return
	}

	var req UnarchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if err := inc.Unarchive(req.RestoreTo, req.Reason, actor.ID); err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}

	if err := h.repo.UpdateState(r.Context(), inc); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordIncidentUnarchived()
	h.afterMutation(r.Context(), actor, inc)

	writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) ListArchived(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	if actor == nil || !actor.IsAdmin() {
		writeError(w, errors.Forbidden("the archive requires an administrator"))
		return
	}

	filter := parseListFilter(r)
	filter.ArchivedOnly = true

	incidents, err := h.repo.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  incidents,
		"total": len(incidents),
	})
}

func (h *Handler) DeleteArchived(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	if actor == nil || !actor.IsAdmin() {
		writeError(w, errors.Forbidden("purging requires an administrator"))
		return
	}

	inc, err := h.loadIncident(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// Only archived incidents may be hard-deleted from the archive
	if !inc.IsArchived() {
		writeError(w, errors.Conflict("incident is not archived"))
		return
	}

	if err := h.repo.Delete(r.Context(), inc.ID); err != nil {
		writeError(w, err)
		return
	}

	h.publish(r.Context(), actor, "incident.deleted", map[string]any{"incident_id": inc.ID})
	h.stats.InvalidateCache(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PurgeArchived(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	if actor == nil || !actor.IsAdmin() {
		writeError(w, errors.Forbidden("purging requires an administrator"))
		return
	}

	deleted, err := h.repo.DeleteArchivedBefore(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	h.publish(r.Context(), actor, "incident.deleted", map[string]any{"purged": deleted})
	h.stats.InvalidateCache(r.Context())

	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	summary, err := h.stats.Municipal(r.Context(), actor, parseListFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) IncidentReport(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	inc, err := h.loadIncident(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.canView(actor, inc) {
		writeError(w, errors.Forbidden("no access to this incident"))
		return
	}

	m := stats.ComputeIncidentMetrics(inc)
	writeJSON(w, http.StatusOK, map[string]any{
		"incident":              inc,
		"metrics":               m,
		"assistance_coverage":   m.AssistanceCoverage(),
		"infrastructure_status": inc.Infrastructure,
	})
}

func (h *Handler) UpsertPopulation(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	inc, err := h.loadIncident(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.authorize(actor, inc, domain.ActionPopulation) {
		writeError(w, errors.Forbidden("not allowed to edit population data"))
		return
	}

	var req PopulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	summary := req.PopulationSummary
	summary.IncidentID = inc.ID
	if summary.ID.IsZero() {
		summary.ID = types.NewID()
	}
	now := time.Now()
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = now
	}
	summary.UpdatedAt = now

	if err := h.repo.UpsertPopulation(r.Context(), &summary); err != nil {
		writeError(w, err)
		return
	}

	h.stats.InvalidateCache(r.Context())
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) ImportPopulation(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	inc, err := h.loadIncident(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.authorize(actor, inc, domain.ActionPopulation) {
		writeError(w, errors.Forbidden("not allowed to edit population data"))
		return
	}

	if h.importer == nil {
		writeError(w, errors.Conflict("legacy registry integration is disabled"))
		return
	}

	summary, err := h.importer.FetchPopulation(r.Context(), inc.Barangay)
	if err != nil {
		metrics.RecordLegacyImport("error")
		writeError(w, errors.Wrap(err, "legacy registry import failed"))
		return
	}

	summary.IncidentID = inc.ID
	if summary.ID.IsZero() {
		summary.ID = types.NewID()
	}
	now := time.Now()
	summary.CreatedAt = now
	summary.UpdatedAt = now

	if err := h.repo.UpsertPopulation(r.Context(), summary); err != nil {
		metrics.RecordLegacyImport("error")
		writeError(w, err)
		return
	}

	metrics.RecordLegacyImport("ok")
	h.stats.InvalidateCache(r.Context())
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) UpsertInfrastructure(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	inc, err := h.loadIncident(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.authorize(actor, inc, domain.ActionInfrastructure) {
		writeError(w, errors.Forbidden("not allowed to edit infrastructure status"))
		return
	}

	var req InfrastructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	status := req.InfrastructureStatus
	status.IncidentID = inc.ID
	if status.ID.IsZero() {
		status.ID = types.NewID()
	}
	now := time.Now()
	if status.CreatedAt.IsZero() {
		status.CreatedAt = now
	}
	status.UpdatedAt = now

	if err := h.repo.UpsertInfrastructure(r.Context(), &status); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// --- helpers ---

func (h *Handler) loadIncident(r *http.Request) (*domain.Incident, error) {
	id, err := types.ParseID(chi.URLParam(r, "incidentID"))
	if err != nil {
		return nil, errors.BadRequest("invalid incident ID")
	}
	return h.repo.GetByID(r.Context(), id)
}

// authorize consults the access policy and records the decision
func (h *Handler) authorize(actor *auth.Actor, inc *domain.Incident, action domain.Action) bool {
	allowed := domain.CanMutate(actor, inc, action, time.Now())

	role := "none"
	if actor != nil {
		role = string(actor.Role)
	}
	metrics.RecordAccessDecision(role, string(action), allowed)

	return allowed
}

// canView gates reads: admins see everything, barangay actors see their own
func (h *Handler) canView(actor *auth.Actor, inc *domain.Incident) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == auth.RoleBarangay && actor.ID == inc.ReportedBy
}

// afterMutation publishes drained domain events, notifies the webhook and
// drops warm rollups
func (h *Handler) afterMutation(ctx context.Context, actor *auth.Actor, inc *domain.Incident) {
	for _, de := range inc.GetDomainEvents() {
		data := de.Data
		if data == nil {
			data = map[string]any{}
		}
		data["incident_id"] = inc.ID
		h.publish(ctx, actor, de.Type, data)

		if h.notifier != nil {
			if err := h.notifier.Send(ctx, de.Type, data); err != nil {
				h.logger.Warn("webhook notification failed",
					zap.String("event", de.Type), zap.Error(err))
			}
		}
	}
	inc.ClearDomainEvents()

	h.stats.InvalidateCache(ctx)
}

func (h *Handler) publish(ctx context.Context, actor *auth.Actor, eventType string, data any) {
	if h.bus == nil {
		return
	}

	event := events.NewEvent(eventType, "respond-api", data)
	if actor != nil {
		event = event.WithActor(actor.ID, string(actor.Role), actor.BarangayName)
	}

	if err := h.bus.Publish(ctx, event); err != nil {
		h.logger.Warn("event publish failed", zap.String("event", eventType), zap.Error(err))
	}
}

func familiesFromRequest(reqs []FamilyRequest) []domain.Family {
	families := make([]domain.Family, 0, len(reqs))
	for _, fr := range reqs {
		family := domain.Family{
			FamilyNumber:       fr.FamilyNumber,
			FamilyHead:         fr.FamilyHead,
			FamilySize:         fr.FamilySize,
			EvacuationCenter:   fr.EvacuationCenter,
			AssistanceReceived: fr.AssistanceReceived,
			FoodAssistance:     fr.FoodAssistance,
			NonFoodAssistance:  fr.NonFoodAssistance,
			ShelterAssistance:  fr.ShelterAssistance,
			MedicalAssistance:  fr.MedicalAssistance,
			Remarks:            fr.Remarks,
		}
		for _, mr := range fr.Members {
			family.Members = append(family.Members, domain.Member{
				FirstName:            mr.FirstName,
				MiddleName:           mr.MiddleName,
				LastName:             mr.LastName,
				PositionInFamily:     mr.PositionInFamily,
				GenderIdentity:       mr.GenderIdentity,
				Age:                  mr.Age,
				AgeCategory:          mr.AgeCategory,
				CivilStatus:          mr.CivilStatus,
				Ethnicity:            mr.Ethnicity,
				VulnerableGroups:     mr.VulnerableGroups,
				Casualty:             mr.Casualty,
				Displaced:            mr.Displaced,
				PWDType:              mr.PWDType,
				AssistanceReceived:   mr.AssistanceReceived,
				FoodAssistance:       mr.FoodAssistance,
				NonFoodAssistance:    mr.NonFoodAssistance,
				MedicalAttention:     mr.MedicalAttention,
				PsychologicalSupport: mr.PsychologicalSupport,
			})
		}
		families = append(families, family)
	}
	return families
}

func parseListFilter(r *http.Request) domain.ListFilter {
	var filter domain.ListFilter

	filter.Barangay = r.URL.Query().Get("barangay")

	if t := r.URL.Query().Get("type"); t != "" {
		filter.Type = domain.IncidentType(t)
	}
	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = domain.Status(s)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if ts, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = &ts
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if ts, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = &ts
		}
	}

	return filter
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}

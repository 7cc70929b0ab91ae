package stats

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mdrrmo/respond/internal/incident/domain"
	"github.com/mdrrmo/respond/internal/shared/auth"
	"github.com/mdrrmo/respond/internal/shared/errors"
)

// Handler provides HTTP handlers for the analytics endpoints
type Handler struct {
	service *Service
}

// NewHandler creates a new analytics handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the analytics routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/barangay", h.ByBarangay)
	r.Get("/municipal", h.Municipal)
	r.Get("/barangays", h.Barangays)

	return r
}

func (h *Handler) ByBarangay(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	filter, err := parseAnalyticsFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summaries, err := h.service.ByBarangay(r.Context(), actor, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": summaries,
	})
}

func (h *Handler) Municipal(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	filter, err := parseAnalyticsFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.service.Municipal(r.Context(), actor, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) Barangays(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	summaries, err := h.service.Barangays(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	names := make([]string, 0, len(summaries))
	counts := make(map[string]int, len(summaries))
	for _, s := range summaries {
		names = append(names, s.Barangay)
		counts[s.Barangay] = s.IncidentCount
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"barangays":       names,
		"incident_counts": counts,
	})
}

func parseAnalyticsFilter(r *http.Request) (domain.ListFilter, error) {
	var filter domain.ListFilter

	filter.Barangay = r.URL.Query().Get("barangay")

	// Named ranges are shorthand for an open-ended from date
	if dr := r.URL.Query().Get("date_range"); dr != "" && dr != "all_time" {
		var from time.Time
		now := time.Now()
		switch dr {
		case "last_week":
			from = now.AddDate(0, 0, -7)
		case "last_month":
			from = now.AddDate(0, -1, 0)
		case "last_6_months":
			from = now.AddDate(0, -6, 0)
		case "last_year":
			from = now.AddDate(-1, 0, 0)
		default:
			return filter, errors.BadRequest("unknown date_range")
		}
		filter.From = &from
	}

	if t := r.URL.Query().Get("type"); t != "" {
		filter.Type = domain.IncidentType(t)
	}
	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = domain.Status(s)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		ts, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, errors.BadRequest("invalid from date, expected YYYY-MM-DD")
		}
		filter.From = &ts
	}
	if to := r.URL.Query().Get("to"); to != "" {
		ts, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, errors.BadRequest("invalid to date, expected YYYY-MM-DD")
		}
		filter.To = &ts
	}

	return filter, nil
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

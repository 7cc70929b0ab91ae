package stats

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mdrrmo/respond/internal/incident/domain"
	"github.com/mdrrmo/respond/internal/shared/auth"
	apperrors "github.com/mdrrmo/respond/internal/shared/errors"
	"github.com/mdrrmo/respond/internal/shared/metrics"
)

const municipalCacheKey = "analytics:municipal"

// Service composes the aggregator and rollups over persisted incidents,
// scoped to the requesting actor.
type Service struct {
	repo   domain.Repository
	cache  *Cache
	logger *zap.Logger
}

// NewService creates the rollup service. The cache may be nil.
func NewService(repo domain.Repository, cache *Cache, logger *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// BarangaySummary pairs a barangay grouping key with its summed metrics
// and incident count.
type BarangaySummary struct {
	Barangay      string  `json:"barangay"`
	IncidentCount int     `json:"incident_count"`
	Metrics       Metrics `json:"metrics"`
}

// ByBarangay rolls up incidents in the actor's scope grouped by reporter
// barangay. Groups come back sorted by barangay name for stable output.
func (s *Service) ByBarangay(ctx context.Context, actor *auth.Actor, filter domain.ListFilter) ([]BarangaySummary, error) {
	incidents, err := s.loadScoped(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	groups := RollupByBarangay(incidents)

	counts := make(map[string]int)
	for _, inc := range incidents {
		counts[BarangayKey(inc)]++
	}

	summaries := make([]BarangaySummary, 0, len(groups))
	for barangay, m := range groups {
		summaries = append(summaries, BarangaySummary{
			Barangay:      barangay,
			IncidentCount: counts[barangay],
			Metrics:       m,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Barangay < summaries[j].Barangay
	})

	metrics.RecordRollup("barangay", len(incidents), time.Since(start))
	return summaries, nil
}

// Municipal rolls up every incident in the actor's scope without grouping.
// The unfiltered admin-wide rollup is served from cache when one is
// configured; filtered views always hit the store.
func (s *Service) Municipal(ctx context.Context, actor *auth.Actor, filter domain.ListFilter) (MunicipalSummary, error) {
	cacheable := actor.IsAdmin() && filter == (domain.ListFilter{})

	if cacheable && s.cache != nil {
		var cached MunicipalSummary
		hit, err := s.cache.Get(ctx, municipalCacheKey, &cached)
		if err != nil {
			s.logger.Warn("municipal rollup cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	incidents, err := s.loadScoped(ctx, actor, filter)
	if err != nil {
		return MunicipalSummary{}, err
	}

	start := time.Now()
	summary := RollupMunicipal(incidents)
	metrics.RecordRollup("municipal", len(incidents), time.Since(start))

	if cacheable && s.cache != nil {
		if err := s.cache.Set(ctx, municipalCacheKey, summary); err != nil {
			s.logger.Warn("municipal rollup cache write failed", zap.Error(err))
		}
	}

	return summary, nil
}

// Barangays lists the barangay grouping keys in the actor's scope along
// with per-barangay incident counts.
func (s *Service) Barangays(ctx context.Context, actor *auth.Actor) ([]BarangaySummary, error) {
	return s.ByBarangay(ctx, actor, domain.ListFilter{})
}

// InvalidateCache drops warm rollups after an incident mutation
func (s *Service) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, municipalCacheKey); err != nil {
		s.logger.Warn("municipal rollup cache invalidation failed", zap.Error(err))
	}
}

// loadScoped narrows the filter to the actor's visibility and loads the
// incident graph. Barangay actors see only their own submissions; admins
// see everything the filter selects. Unknown roles are rejected.
func (s *Service) loadScoped(ctx context.Context, actor *auth.Actor, filter domain.ListFilter) ([]*domain.Incident, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}

	switch actor.Role {
	case auth.RoleAdmin:
		// Full scope, filter as given
	case auth.RoleBarangay:
		filter.ReportedBy = actor.ID
	default:
		return nil, apperrors.Forbidden("unrecognized role")
	}

	return s.repo.List(ctx, filter)
}

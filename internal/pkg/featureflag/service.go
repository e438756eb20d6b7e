package featureflag

import (
	"fmt"
	"sync"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/app/repository"
	"github.com/motorlot/MotorLot/internal/pkg/audit"
)

// Service is the write path over the flag store. Every state-changing
// operation runs write → cache invalidation → audit, in that order. The
// invalidation is sequenced after the store write commits, so no reader can
// observe a cache hit with pre-write data once the call returns.
type Service struct {
	flags    repository.FeatureFlagRepository
	orgs     repository.OrganizationRepository
	cache    *FlagCache
	resolver *Resolver
	recorder audit.Recorder
}

// NewService wires the flag service from its collaborators
func NewService(flags repository.FeatureFlagRepository, orgs repository.OrganizationRepository, cache *FlagCache, resolver *Resolver, recorder audit.Recorder) *Service {
	return &Service{
		flags:    flags,
		orgs:     orgs,
		cache:    cache,
		resolver: resolver,
		recorder: recorder,
	}
}

// EffectiveFlags returns the cached (or freshly resolved) flag map for an
// organization.
func (s *Service) EffectiveFlags(orgID uint) (map[string]bool, error) {
	return s.cache.GetOrResolve(orgID)
}

// Resolve computes a single flag for an organization through the cache.
func (s *Service) Resolve(orgID uint, flagKey string) (bool, error) {
	flags, err := s.cache.GetOrResolve(orgID)
	if err != nil {
		return false, err
	}
	return flags[flagKey], nil
}

// CreateFlag creates a new global flag definition. A new flag changes the
// effective map of every organization, so all entries are invalidated.
func (s *Service) CreateFlag(flag *models.FeatureFlag, actorID uint) error {
	if err := flag.Validate(); err != nil {
		return err
	}
	if err := s.flags.Create(flag); err != nil {
		return err
	}
	if err := s.invalidateAll(); err != nil {
		return err
	}
	s.recorder.Record("feature_flag.create", flag.Key, actorID, 0, map[string]interface{}{
		"default_enabled": flag.DefaultEnabled,
		"enabled_for_all": flag.EnabledForAll,
	})
	return nil
}

// UpdateFlag persists mutable fields of a flag definition and invalidates
// the cache for every organization the system knows about. Existing
// per-organization overrides are never touched; they keep winning over the
// updated defaults.
func (s *Service) UpdateFlag(flag *models.FeatureFlag, actorID uint) error {
	if flag.Percentage != nil && (*flag.Percentage < 0 || *flag.Percentage > 100) {
		return models.ErrInvalidPercentage
	}
	if err := s.flags.Update(flag); err != nil {
		return err
	}
	if err := s.invalidateAll(); err != nil {
		return err
	}
	s.recorder.Record("feature_flag.update", flag.Key, actorID, 0, map[string]interface{}{
		"default_enabled": flag.DefaultEnabled,
		"enabled_for_all": flag.EnabledForAll,
	})
	return nil
}

// SetOverride upserts the per-organization override for a flag key and
// invalidates that organization's cache entry. Unknown flag keys are
// reported via repository.ErrNotFound.
func (s *Service) SetOverride(orgID uint, flagKey string, enabled bool, metadata string, actorID uint) (*models.OrganizationFeatureFlag, error) {
	flag, err := s.flags.GetByKey(flagKey)
	if err != nil {
		return nil, err
	}

	override := &models.OrganizationFeatureFlag{
		OrganizationID: orgID,
		FeatureFlagID:  flag.ID,
		Enabled:        enabled,
		Metadata:       metadata,
	}
	if err := s.flags.UpsertOverride(override); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(orgID); err != nil {
		// A write without its paired invalidation is not a success
		return nil, fmt.Errorf("override stored but cache invalidation failed: %w", err)
	}
	s.recorder.Record("feature_flag.override", flag.Key, actorID, orgID, map[string]interface{}{
		"enabled": enabled,
	})
	return override, nil
}

// RemoveOverride deletes the per-organization override for a flag key and
// invalidates that organization's cache entry.
func (s *Service) RemoveOverride(orgID uint, flagKey string, actorID uint) error {
	flag, err := s.flags.GetByKey(flagKey)
	if err != nil {
		return err
	}
	if err := s.flags.DeleteOverride(orgID, flag.ID); err != nil {
		return err
	}
	if err := s.cache.Invalidate(orgID); err != nil {
		return fmt.Errorf("override removed but cache invalidation failed: %w", err)
	}
	s.recorder.Record("feature_flag.override_remove", flag.Key, actorID, orgID, nil)
	return nil
}

// invalidateAll evicts the cache entry of every known organization. Used
// after global flag writes.
func (s *Service) invalidateAll() error {
	ids, err := s.orgs.ListIDs()
	if err != nil {
		return fmt.Errorf("flag write stored but invalidation could not list organizations: %w", err)
	}
	for _, id := range ids {
		if err := s.cache.Invalidate(id); err != nil {
			return fmt.Errorf("flag write stored but cache invalidation for org %d failed: %w", id, err)
		}
	}
	return nil
}

// Global service instance, initialized once during application boot
var (
	globalService *Service
	serviceOnce   sync.Once
)

// InitializeService wires the global flag service
func InitializeService(repos *repository.Repositories, backend CacheBackend) {
	serviceOnce.Do(func() {
		resolver := NewResolver(repos.FeatureFlag)
		cache := NewFlagCache(backend, resolver, DefaultTTL)
		recorder := audit.NewRecorder(repos.Audit)
		globalService = NewService(repos.FeatureFlag, repos.Organization, cache, resolver, recorder)
	})
}

// GetService returns the global flag service instance
func GetService() *Service {
	if globalService == nil {
		panic("Feature flag service not initialized. Call InitializeService first.")
	}
	return globalService
}

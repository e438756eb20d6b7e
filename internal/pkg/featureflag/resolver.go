package featureflag

import (
	"errors"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/app/repository"
)

// Resolver computes the effective boolean for (organization, flag)
// combinations straight from the store, without any caching.
type Resolver struct {
	flags repository.FeatureFlagRepository
}

// NewResolver creates a resolver over the given flag repository
func NewResolver(flags repository.FeatureFlagRepository) *Resolver {
	return &Resolver{flags: flags}
}

// Evaluate applies the resolution rules for a single flag. Priority order:
//  1. enabled_for_all forces true for every organization
//  2. an explicit per-organization override wins over rollout and default
//  3. a set percentage buckets the organization deterministically
//  4. the flag's default applies
//
// Unknown flags never reach this function; callers resolve them to false.
func Evaluate(flag *models.FeatureFlag, override *models.OrganizationFeatureFlag, orgID uint) bool {
	if flag.EnabledForAll {
		return true
	}
	if override != nil {
		return override.Enabled
	}
	if flag.Percentage != nil {
		return InRollout(orgID, flag.Key, *flag.Percentage)
	}
	return flag.DefaultEnabled
}

// Resolve computes the effective value of one flag for an organization.
// Unknown flag keys resolve to false without error; the read path never
// distinguishes "does not exist" from "disabled".
func (r *Resolver) Resolve(orgID uint, flagKey string) (bool, error) {
	flag, err := r.flags.GetByKey(flagKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	var override *models.OrganizationFeatureFlag
	if !flag.EnabledForAll {
		override, err = r.flags.GetOverride(orgID, flag.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return false, err
		}
	}

	return Evaluate(flag, override, orgID), nil
}

// ResolveAll computes the effective value of every known flag for an
// organization. Each flag is evaluated independently with the same rules
// Resolve applies.
func (r *Resolver) ResolveAll(orgID uint) (map[string]bool, error) {
	flags, err := r.flags.List()
	if err != nil {
		return nil, err
	}

	overrides, err := r.flags.ListOverridesByOrganization(orgID)
	if err != nil {
		return nil, err
	}
	byFlagID := make(map[uint]*models.OrganizationFeatureFlag, len(overrides))
	for i := range overrides {
		byFlagID[overrides[i].FeatureFlagID] = &overrides[i]
	}

	resolved := make(map[string]bool, len(flags))
	for i := range flags {
		resolved[flags[i].Key] = Evaluate(&flags[i], byFlagID[flags[i].ID], orgID)
	}
	return resolved, nil
}

// ResolveMany computes the effective values for the given keys only. It is
// a batching convenience with identical semantics to calling Resolve once
// per key; unknown keys resolve to false.
func (r *Resolver) ResolveMany(orgID uint, flagKeys []string) (map[string]bool, error) {
	all, err := r.ResolveAll(orgID)
	if err != nil {
		return nil, err
	}
	resolved := make(map[string]bool, len(flagKeys))
	for _, key := range flagKeys {
		resolved[key] = all[key]
	}
	return resolved, nil
}

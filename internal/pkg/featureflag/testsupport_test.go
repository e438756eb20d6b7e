package featureflag

import (
	"errors"
	"sort"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/app/repository"
)

// fakeFlagRepo is an in-memory FeatureFlagRepository for engine tests.
type fakeFlagRepo struct {
	flags     map[string]*models.FeatureFlag
	overrides map[[2]uint]*models.OrganizationFeatureFlag
	nextID    uint
	failReads bool
}

func newFakeFlagRepo() *fakeFlagRepo {
	return &fakeFlagRepo{
		flags:     map[string]*models.FeatureFlag{},
		overrides: map[[2]uint]*models.OrganizationFeatureFlag{},
	}
}

var errRepoDown = errors.New("store unavailable")

func (r *fakeFlagRepo) Create(flag *models.FeatureFlag) error {
	if _, exists := r.flags[flag.Key]; exists {
		return repository.ErrDuplicateKey
	}
	r.nextID++
	flag.ID = r.nextID
	cp := *flag
	r.flags[flag.Key] = &cp
	return nil
}

func (r *fakeFlagRepo) Update(flag *models.FeatureFlag) error {
	for _, existing := range r.flags {
		if existing.ID == flag.ID {
			existing.Name = flag.Name
			existing.Description = flag.Description
			existing.DefaultEnabled = flag.DefaultEnabled
			existing.EnabledForAll = flag.EnabledForAll
			existing.Percentage = flag.Percentage
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeFlagRepo) GetByID(id uint) (*models.FeatureFlag, error) {
	for _, flag := range r.flags {
		if flag.ID == id {
			cp := *flag
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeFlagRepo) GetByKey(key string) (*models.FeatureFlag, error) {
	if r.failReads {
		return nil, errRepoDown
	}
	flag, ok := r.flags[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *flag
	return &cp, nil
}

func (r *fakeFlagRepo) List() ([]models.FeatureFlag, error) {
	if r.failReads {
		return nil, errRepoDown
	}
	keys := make([]string, 0, len(r.flags))
	for key := range r.flags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]models.FeatureFlag, 0, len(keys))
	for _, key := range keys {
		out = append(out, *r.flags[key])
	}
	return out, nil
}

func (r *fakeFlagRepo) ListWithOverrideCounts() ([]repository.FlagWithOverrideCount, error) {
	flags, err := r.List()
	if err != nil {
		return nil, err
	}
	out := make([]repository.FlagWithOverrideCount, 0, len(flags))
	for _, flag := range flags {
		var count int64
		for pair := range r.overrides {
			if pair[1] == flag.ID {
				count++
			}
		}
		out = append(out, repository.FlagWithOverrideCount{FeatureFlag: flag, OverrideCount: count})
	}
	return out, nil
}

func (r *fakeFlagRepo) GetOverride(orgID, flagID uint) (*models.OrganizationFeatureFlag, error) {
	override, ok := r.overrides[[2]uint{orgID, flagID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *override
	return &cp, nil
}

func (r *fakeFlagRepo) ListOverridesByOrganization(orgID uint) ([]models.OrganizationFeatureFlag, error) {
	if r.failReads {
		return nil, errRepoDown
	}
	var out []models.OrganizationFeatureFlag
	for pair, override := range r.overrides {
		if pair[0] == orgID {
			out = append(out, *override)
		}
	}
	return out, nil
}

func (r *fakeFlagRepo) UpsertOverride(override *models.OrganizationFeatureFlag) error {
	cp := *override
	r.overrides[[2]uint{override.OrganizationID, override.FeatureFlagID}] = &cp
	return nil
}

func (r *fakeFlagRepo) DeleteOverride(orgID, flagID uint) error {
	pair := [2]uint{orgID, flagID}
	if _, ok := r.overrides[pair]; !ok {
		return repository.ErrNotFound
	}
	delete(r.overrides, pair)
	return nil
}

// fakeOrgIDs satisfies just enough of OrganizationRepository for the
// service's invalidate-all path.
type fakeOrgIDs struct {
	repository.OrganizationRepository
	ids []uint
}

func (f *fakeOrgIDs) ListIDs() ([]uint, error) {
	return f.ids, nil
}

func intPtr(v int) *int {
	return &v
}

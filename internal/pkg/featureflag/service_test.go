package featureflag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/app/repository"
	"github.com/motorlot/MotorLot/internal/pkg/audit"
)

func newTestService(t *testing.T, orgIDs ...uint) (*Service, *fakeFlagRepo) {
	t.Helper()
	repo := newFakeFlagRepo()
	backend, _ := newTestRedisBackend(t)
	resolver := NewResolver(repo)
	cache := NewFlagCache(backend, resolver, time.Minute)
	svc := NewService(repo, &fakeOrgIDs{ids: orgIDs}, cache, resolver, audit.NoopRecorder{})
	return svc, repo
}

func TestService_CreateFlagRejectsDuplicateKey(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t, 1)

	require.NoError(t, svc.CreateFlag(&models.FeatureFlag{Key: "new_dashboard", Name: "New Dashboard"}, 1))
	err := svc.CreateFlag(&models.FeatureFlag{Key: "new_dashboard", Name: "Duplicate"}, 1)
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	flags, listErr := repo.List()
	require.NoError(t, listErr)
	assert.Len(t, flags, 1, "the duplicate create must not add a second row")
}

func TestService_CreateFlagValidatesKeyAndPercentage(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, 1)

	err := svc.CreateFlag(&models.FeatureFlag{Key: "Bad-Key", Name: "Bad"}, 1)
	assert.Error(t, err)

	err = svc.CreateFlag(&models.FeatureFlag{Key: "too_much", Name: "Too much", Percentage: intPtr(150)}, 1)
	assert.ErrorIs(t, err, models.ErrInvalidPercentage)
}

func TestService_OverrideRoundTripThroughCache(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, 1, 2)

	require.NoError(t, svc.CreateFlag(&models.FeatureFlag{Key: "new_dashboard", Name: "New Dashboard"}, 1))

	// Warm the cache for both organizations
	enabled, err := svc.Resolve(1, "new_dashboard")
	require.NoError(t, err)
	assert.False(t, enabled)
	enabled, err = svc.Resolve(2, "new_dashboard")
	require.NoError(t, err)
	assert.False(t, enabled)

	// Write the override; the very next read must see it despite the
	// cache-fronted read path
	_, err = svc.SetOverride(1, "new_dashboard", true, "", 1)
	require.NoError(t, err)

	enabled, err = svc.Resolve(1, "new_dashboard")
	require.NoError(t, err)
	assert.True(t, enabled, "read strictly after the write must observe the new value")

	enabled, err = svc.Resolve(2, "new_dashboard")
	require.NoError(t, err)
	assert.False(t, enabled, "a different organization keeps its own resolution")
}

func TestService_SetOverrideUnknownKey(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, 1)

	_, err := svc.SetOverride(1, "never_created", true, "", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestService_SetOverrideUpserts(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t, 1)

	require.NoError(t, svc.CreateFlag(&models.FeatureFlag{Key: "twice", Name: "Twice"}, 1))

	first, err := svc.SetOverride(1, "twice", true, "", 1)
	require.NoError(t, err)
	second, err := svc.SetOverride(1, "twice", false, `{"cohort":"pilot"}`, 1)
	require.NoError(t, err)
	assert.Equal(t, first.FeatureFlagID, second.FeatureFlagID)

	overrides, err := repo.ListOverridesByOrganization(1)
	require.NoError(t, err)
	require.Len(t, overrides, 1, "a second write replaces the row, never duplicates it")
	assert.False(t, overrides[0].Enabled)
	assert.Equal(t, `{"cohort":"pilot"}`, overrides[0].Metadata)
}

func TestService_GlobalUpdateInvalidatesEveryOrganization(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t, 1, 2, 3)

	require.NoError(t, svc.CreateFlag(&models.FeatureFlag{Key: "global_launch", Name: "Launch"}, 1))

	// Warm every organization's cache entry
	for _, orgID := range []uint{1, 2, 3} {
		enabled, err := svc.Resolve(orgID, "global_launch")
		require.NoError(t, err)
		assert.False(t, enabled)
	}

	flag, err := repo.GetByKey("global_launch")
	require.NoError(t, err)
	flag.EnabledForAll = true
	require.NoError(t, svc.UpdateFlag(flag, 1))

	for _, orgID := range []uint{1, 2, 3} {
		enabled, err := svc.Resolve(orgID, "global_launch")
		require.NoError(t, err)
		assert.True(t, enabled, "org %d must see the global update immediately", orgID)
	}
}

func TestService_EnabledForAllBeatsDisablingOverride(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t, 7)

	require.NoError(t, svc.CreateFlag(&models.FeatureFlag{Key: "forced_on", Name: "Forced"}, 1))
	_, err := svc.SetOverride(7, "forced_on", false, "", 1)
	require.NoError(t, err)

	flag, err := repo.GetByKey("forced_on")
	require.NoError(t, err)
	flag.EnabledForAll = true
	require.NoError(t, svc.UpdateFlag(flag, 1))

	enabled, err := svc.Resolve(7, "forced_on")
	require.NoError(t, err)
	assert.True(t, enabled, "the hard global override ignores per-org overrides")
}

func TestService_RemoveOverrideRestoresDefault(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, 4)

	require.NoError(t, svc.CreateFlag(&models.FeatureFlag{Key: "temp", Name: "Temp", DefaultEnabled: true}, 1))
	_, err := svc.SetOverride(4, "temp", false, "", 1)
	require.NoError(t, err)

	enabled, err := svc.Resolve(4, "temp")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, svc.RemoveOverride(4, "temp", 1))

	enabled, err = svc.Resolve(4, "temp")
	require.NoError(t, err)
	assert.True(t, enabled)
}

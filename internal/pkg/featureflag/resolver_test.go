package featureflag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlot/MotorLot/app/models"
)

func TestEvaluate_PriorityOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flag     models.FeatureFlag
		override *models.OrganizationFeatureFlag
		want     bool
	}{
		{
			name: "enabled_for_all wins over a disabling override",
			flag: models.FeatureFlag{Key: "global_on", EnabledForAll: true},
			override: &models.OrganizationFeatureFlag{
				Enabled: false,
			},
			want: true,
		},
		{
			name: "override wins over default",
			flag: models.FeatureFlag{Key: "defaulted_on", DefaultEnabled: true},
			override: &models.OrganizationFeatureFlag{
				Enabled: false,
			},
			want: false,
		},
		{
			name: "override wins over percentage",
			flag: models.FeatureFlag{Key: "rolling", Percentage: intPtr(100)},
			override: &models.OrganizationFeatureFlag{
				Enabled: false,
			},
			want: false,
		},
		{
			name: "percentage one hundred admits without override",
			flag: models.FeatureFlag{Key: "rolling", Percentage: intPtr(100)},
			want: true,
		},
		{
			name: "percentage zero excludes without override",
			flag: models.FeatureFlag{Key: "rolling", Percentage: intPtr(0), DefaultEnabled: true},
			want: false,
		},
		{
			name: "default applies when nothing else matches",
			flag: models.FeatureFlag{Key: "plain", DefaultEnabled: true},
			want: true,
		},
		{
			name: "default off",
			flag: models.FeatureFlag{Key: "plain"},
			want: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Evaluate(&tc.flag, tc.override, 7)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolver_UnknownFlagIsOffNotError(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(newFakeFlagRepo())

	enabled, err := resolver.Resolve(1, "never_created")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestResolver_NewDashboardScenario(t *testing.T) {
	t.Parallel()

	repo := newFakeFlagRepo()
	require.NoError(t, repo.Create(&models.FeatureFlag{
		Key:  "new_dashboard",
		Name: "New Dashboard",
	}))
	resolver := NewResolver(repo)

	// No override, no rollout, default off
	enabled, err := resolver.Resolve(1, "new_dashboard")
	require.NoError(t, err)
	assert.False(t, enabled)

	// Explicit override for org 1 only
	flag, err := repo.GetByKey("new_dashboard")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertOverride(&models.OrganizationFeatureFlag{
		OrganizationID: 1,
		FeatureFlagID:  flag.ID,
		Enabled:        true,
	}))

	enabled, err = resolver.Resolve(1, "new_dashboard")
	require.NoError(t, err)
	assert.True(t, enabled)

	// A different organization without an override still resolves to false
	enabled, err = resolver.Resolve(2, "new_dashboard")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestResolver_PercentageIsDeterministic(t *testing.T) {
	t.Parallel()

	repo := newFakeFlagRepo()
	require.NoError(t, repo.Create(&models.FeatureFlag{
		Key:        "gradual",
		Name:       "Gradual",
		Percentage: intPtr(50),
	}))
	resolver := NewResolver(repo)

	for orgID := uint(1); orgID <= 30; orgID++ {
		first, err := resolver.Resolve(orgID, "gradual")
		require.NoError(t, err)
		second, err := resolver.Resolve(orgID, "gradual")
		require.NoError(t, err)
		assert.Equal(t, first, second, "resolution for org %d must not change between calls", orgID)
	}
}

func TestResolver_ResolveAllMatchesResolve(t *testing.T) {
	t.Parallel()

	repo := newFakeFlagRepo()
	require.NoError(t, repo.Create(&models.FeatureFlag{Key: "alpha", Name: "A", DefaultEnabled: true}))
	require.NoError(t, repo.Create(&models.FeatureFlag{Key: "beta", Name: "B", EnabledForAll: true}))
	require.NoError(t, repo.Create(&models.FeatureFlag{Key: "gamma", Name: "C", Percentage: intPtr(40)}))

	flag, err := repo.GetByKey("alpha")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertOverride(&models.OrganizationFeatureFlag{
		OrganizationID: 9,
		FeatureFlagID:  flag.ID,
		Enabled:        false,
	}))

	resolver := NewResolver(repo)

	all, err := resolver.ResolveAll(9)
	require.NoError(t, err)
	require.Len(t, all, 3)

	for key, want := range all {
		got, err := resolver.Resolve(9, key)
		require.NoError(t, err)
		assert.Equal(t, want, got, "batch and single resolution must agree for %s", key)
	}

	assert.False(t, all["alpha"], "override disables despite enabled default")
	assert.True(t, all["beta"], "enabled_for_all is on for everyone")
}

func TestResolver_ResolveManyUnknownKeysAreOff(t *testing.T) {
	t.Parallel()

	repo := newFakeFlagRepo()
	require.NoError(t, repo.Create(&models.FeatureFlag{Key: "known", Name: "K", DefaultEnabled: true}))
	resolver := NewResolver(repo)

	resolved, err := resolver.ResolveMany(3, []string{"known", "missing"})
	require.NoError(t, err)
	assert.True(t, resolved["known"])
	assert.False(t, resolved["missing"])
}

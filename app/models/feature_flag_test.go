package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestValidFlagKey(t *testing.T) {
	valid := []string{"new_dashboard", "a", "market_valuations", "vin_auto_decode", "___"}
	for _, key := range valid {
		assert.True(t, ValidFlagKey(key), "%q should be a valid key", key)
	}

	invalid := []string{"", "New_Dashboard", "new-dashboard", "flag1", "flag key", "flag.key", "FLAG"}
	for _, key := range invalid {
		assert.False(t, ValidFlagKey(key), "%q should be rejected", key)
	}
}

func TestFeatureFlagValidate(t *testing.T) {
	flag := FeatureFlag{Key: "new_dashboard", Name: "New Dashboard"}
	assert.NoError(t, flag.Validate())

	flag = FeatureFlag{Key: "bad-key", Name: "Bad"}
	assert.ErrorIs(t, flag.Validate(), ErrInvalidFlagKey)

	flag = FeatureFlag{Key: "", Name: "No key"}
	assert.Error(t, flag.Validate())

	flag = FeatureFlag{Key: "rollout", Name: "Rollout", Percentage: intPtr(101)}
	assert.ErrorIs(t, flag.Validate(), ErrInvalidPercentage)

	flag = FeatureFlag{Key: "rollout", Name: "Rollout", Percentage: intPtr(-1)}
	assert.ErrorIs(t, flag.Validate(), ErrInvalidPercentage)

	for _, pct := range []int{0, 50, 100} {
		flag = FeatureFlag{Key: "rollout", Name: "Rollout", Percentage: intPtr(pct)}
		assert.NoError(t, flag.Validate(), "percentage %d is within bounds", pct)
	}
}

func TestValidOrgRole(t *testing.T) {
	for _, role := range []OrgRole{OrgRoleOwner, OrgRoleAdmin, OrgRoleMember, OrgRoleViewer} {
		assert.True(t, ValidOrgRole(role))
	}
	assert.False(t, ValidOrgRole("superowner"))
	assert.False(t, ValidOrgRole(""))
	assert.False(t, ValidOrgRole("OWNER"), "role values are lowercase")
}

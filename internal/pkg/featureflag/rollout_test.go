package featureflag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolloutBucket_Deterministic(t *testing.T) {
	t.Parallel()

	for orgID := uint(1); orgID <= 50; orgID++ {
		first := RolloutBucket(orgID, "new_dashboard")
		second := RolloutBucket(orgID, "new_dashboard")
		assert.Equal(t, first, second, "bucket must be stable for org %d", orgID)
		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, 100)
	}
}

func TestRolloutBucket_DependsOnBothInputs(t *testing.T) {
	t.Parallel()

	// Different flags bucket the same org independently; a single collision
	// is fine, all colliding is not.
	same := 0
	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("flag_%c", 'a'+i)
		if RolloutBucket(42, key) == RolloutBucket(43, key) {
			same++
		}
	}
	assert.Less(t, same, 20, "buckets must not be independent of the organization")
}

func TestInRollout_Boundaries(t *testing.T) {
	t.Parallel()

	for orgID := uint(1); orgID <= 200; orgID++ {
		assert.False(t, InRollout(orgID, "any_flag", 0), "percentage 0 admits nobody")
		assert.True(t, InRollout(orgID, "any_flag", 100), "percentage 100 admits everybody")
	}
}

func TestInRollout_FractionIsPlausible(t *testing.T) {
	t.Parallel()

	in := 0
	total := 2000
	for orgID := uint(1); orgID <= uint(total); orgID++ {
		if InRollout(orgID, "gradual_rollout", 30) {
			in++
		}
	}
	// FNV spreads well enough that a 30% rollout should land in a wide
	// band around 30% of organizations.
	assert.Greater(t, in, total*20/100)
	assert.Less(t, in, total*40/100)
}

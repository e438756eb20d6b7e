package featureflag

import (
	"fmt"
	"hash/fnv"
)

// RolloutBucket maps an (organization, flag key) pair onto a stable bucket
// in [0,100). The bucket is the FNV-1a 64-bit hash of "<orgID>:<flagKey>"
// reduced modulo 100: a pure function of its inputs, so repeated resolution
// yields the same answer across calls and process restarts without storing
// a rollout decision. Changing this algorithm re-buckets every organization.
func RolloutBucket(orgID uint, flagKey string) int {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%s", orgID, flagKey)
	return int(h.Sum64() % 100)
}

// InRollout reports whether the organization falls inside the given rollout
// percentage for the flag. An organization is "in" iff its bucket is
// strictly less than the percentage, so percentage=0 admits nobody and
// percentage=100 admits everybody.
func InRollout(orgID uint, flagKey string, percentage int) bool {
	return RolloutBucket(orgID, flagKey) < percentage
}

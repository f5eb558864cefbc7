package gacha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanBox(t *testing.T) {
	rules := DefaultRules()
	rng := NewSeededRNG(3)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		plan := PlanBox(rules, rng)
		require.Contains(t, []int{4, 5}, plan.SRTarget)
		require.Len(t, plan.Slots, 16)
		idx := plan.SlotIndices()
		require.Len(t, idx, plan.SRTarget)
		for j := 1; j < len(idx); j++ {
			require.Less(t, idx[j-1], idx[j])
		}
		assert.Zero(t, plan.SRUsed)
		assert.False(t, plan.StarUsed)
		seen[plan.SRTarget] = true
	}
	assert.True(t, seen[4] && seen[5], "both targets should occur")
}

func TestPlanBoxHighProbExtremes(t *testing.T) {
	rules := DefaultRules()
	rules.SRHighProb = 1
	assert.Equal(t, 5, PlanBox(rules, NewSeededRNG(1)).SRTarget)
	rules.SRHighProb = 0
	assert.Equal(t, 4, PlanBox(rules, NewSeededRNG(1)).SRTarget)
}

func TestLastNonSlot(t *testing.T) {
	plan := BoxPlan{Slots: []bool{false, true, false, true, true}}
	assert.False(t, plan.lastNonSlot(0))
	assert.True(t, plan.lastNonSlot(2))
	assert.True(t, plan.lastNonSlot(4))
}

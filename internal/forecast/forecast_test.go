package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polis/internal/ideology"
)

func TestParty(t *testing.T) {
	th := DefaultThresholds()

	t.Run("homogeneous party has no friction", func(t *testing.T) {
		members := []ideology.PositionVector{{Economic: 0.6}, {Economic: 0.6}, {Economic: 0.6}}
		pf := Party(members, ideology.ImpactVector{Economic: 1}, th)
		assert.Zero(t, pf.Contribution)
		assert.Equal(t, AlignmentSupports, pf.Alignment)
		require.Len(t, pf.Axes, 1)
		assert.Equal(t, ideology.AxisEconomic, pf.Axes[0].Axis)
	})

	t.Run("split party is divided regardless of polarity", func(t *testing.T) {
		members := []ideology.PositionVector{{Economic: 1}, {Economic: -1}}
		pf := Party(members, ideology.ImpactVector{Economic: 0.5}, th)
		assert.InDelta(t, 50, pf.Contribution, 1e-9)
		assert.Equal(t, AlignmentDivided, pf.Alignment)
	})

	t.Run("opposes when the weighted mean is negative", func(t *testing.T) {
		members := []ideology.PositionVector{{Values: -0.5, Security: 0.2}, {Values: -0.7, Security: 0.2}}
		pf := Party(members, ideology.ImpactVector{Values: 0.9, Security: 0.3}, th)
		assert.Less(t, pf.Contribution, th.Divided)
		assert.Equal(t, AlignmentOpposes, pf.Alignment)
		assert.Len(t, pf.Axes, 2)
	})

	t.Run("axes at or below the impact threshold are ignored", func(t *testing.T) {
		members := []ideology.PositionVector{{Regional: 1}, {Regional: -1}}
		pf := Party(members, ideology.ImpactVector{Regional: 0.2}, th)
		assert.Zero(t, pf.Contribution)
		assert.Empty(t, pf.Axes)
		assert.False(t, pf.NoData)
		assert.Empty(t, pf.Alignment, "an untouched party takes no stance")
	})

	t.Run("no members", func(t *testing.T) {
		pf := Party(nil, ideology.ImpactVector{Economic: 1}, th)
		assert.True(t, pf.NoData)
		assert.Empty(t, pf.Alignment)
	})
}

func TestGlobalIndex(t *testing.T) {
	index, ok := GlobalIndex([]PartyFriction{{Contribution: 10}, {Contribution: 20}, {NoData: true}})
	assert.True(t, ok)
	assert.Equal(t, 30, index)

	index, ok = GlobalIndex([]PartyFriction{{Contribution: 80}, {Contribution: 100}})
	assert.True(t, ok)
	assert.Equal(t, 100, index)

	_, ok = GlobalIndex([]PartyFriction{{NoData: true}})
	assert.False(t, ok)
	_, ok = GlobalIndex(nil)
	assert.False(t, ok)
}

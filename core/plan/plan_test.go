package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metered-billing/core/money"
	"metered-billing/core/price"
	"metered-billing/core/types"
	"metered-billing/core/units"
)

func TestMatchingPricesIsExact(t *testing.T) {
	traf := &types.Type{Name: "server_traf"}
	hdd := &types.Type{Name: "server_hdd"}
	srv1 := &types.Target{ID: "srv-1"}
	srv2 := &types.Target{ID: "srv-2"}

	p := New("", "hosting", nil, []*price.Price{
		price.New("a", traf, srv1, units.Gigabytes(0), money.FromInt(1, money.USD)),
		price.New("b", hdd, srv1, units.Gigabytes(0), money.FromInt(2, money.USD)),
		price.New("c", traf, srv2, units.Gigabytes(0), money.FromInt(3, money.USD)),
		price.New("d", traf, srv1, units.Gigabytes(100), money.FromInt(4, money.USD)),
	})

	matches := p.MatchingPrices(&types.Action{Type: traf, Target: srv1})
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "d", matches[1].ID)

	assert.Empty(t, p.MatchingPrices(&types.Action{Type: hdd, Target: srv2}))
	assert.Empty(t, p.MatchingPrices(&types.Action{Type: traf, Target: nil}))
}

func TestTypesAndTargets(t *testing.T) {
	p := New("", "hosting", nil, []*price.Price{
		price.New("a", &types.Type{Name: "x"}, &types.Target{ID: "1"}, units.Items(0), money.FromInt(1, money.USD)),
		price.New("b", &types.Type{Name: "y"}, &types.Target{ID: "1"}, units.Items(0), money.FromInt(1, money.USD)),
		price.New("c", &types.Type{Name: "x"}, &types.Target{ID: "2"}, units.Items(0), money.FromInt(1, money.USD)),
	})

	assert.Len(t, p.Types(), 2)
	assert.Len(t, p.Targets(), 2)
	assert.False(t, p.HasFormula())
}

package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQueryStateDefaults(t *testing.T) {
	state := NewQueryState()
	assert.Equal(t, "", state.Search)
	assert.Equal(t, SortNone, state.Sort)
	assert.Equal(t, Ascending, state.Order)
	assert.Equal(t, 1, state.Page)
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	base := NewQueryState()
	derived := base.WithSearch("milk").WithSort(SortPrice).WithOrder(Descending).WithPage(3)

	assert.Equal(t, "", base.Search)
	assert.Equal(t, 1, base.Page)

	assert.Equal(t, "milk", derived.Search)
	assert.Equal(t, SortPrice, derived.Sort)
	assert.Equal(t, Descending, derived.Order)
	assert.Equal(t, 3, derived.Page)
}

func TestWithPageRejectsBelowOne(t *testing.T) {
	state := NewQueryState().WithPage(5)
	assert.Equal(t, 5, state.WithPage(0).Page)
	assert.Equal(t, 5, state.WithPage(-3).Page)
	assert.Equal(t, 2, state.WithPage(2).Page)
}

func TestSearchDoesNotResetPage(t *testing.T) {
	// a new search term leaves the page alone; clamping happens at
	// render time when the filtered size is known
	state := NewQueryState().WithPage(7).WithSearch("straw")
	assert.Equal(t, 7, state.Page)
}

func TestAnyFieldCombinationIsLegal(t *testing.T) {
	state := QueryState{Search: "x", Sort: SortCustomer, Order: Descending, Page: 99}
	shaped := ApplyItems(nil, state, DefaultPageSize)
	assert.Equal(t, 1, shaped.Number)
	assert.Equal(t, 1, shaped.TotalPages)
	assert.Empty(t, shaped.Entities)
}

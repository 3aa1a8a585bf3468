// Package client implements the store browsing core: query state,
// fetch control with last-write-wins supersede semantics, client-side
// list shaping (filter, stable sort, pagination) and order execution.
package client

// SortKey selects the list ordering attribute.
type SortKey string

const (
	SortNone     SortKey = ""
	SortName     SortKey = "name"
	SortPrice    SortKey = "price"
	SortQuantity SortKey = "quantity"
	SortTime     SortKey = "time"
	SortCustomer SortKey = "customer"
)

// SortOrder selects the list ordering direction.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// QueryState is the user's current intent for viewing a collection.
// It is an immutable value: every transition returns a new state, and
// any combination of fields is legal.
type QueryState struct {
	Search string
	Sort   SortKey
	Order  SortOrder
	Page   int
}

// NewQueryState returns the default view intent: no search, no sort,
// ascending, first page.
func NewQueryState() QueryState {
	return QueryState{Order: Ascending, Page: 1}
}

// WithSearch returns the state with a new search term.
func (s QueryState) WithSearch(term string) QueryState {
	s.Search = term
	return s
}

// WithSort returns the state with a new sort key.
func (s QueryState) WithSort(key SortKey) QueryState {
	s.Sort = key
	return s
}

// WithOrder returns the state with a new sort direction.
func (s QueryState) WithOrder(order SortOrder) QueryState {
	s.Order = order
	return s
}

// WithPage returns the state positioned on the given page. Page numbers
// below 1 are ignored; clamping against the upper bound happens where
// the collection size is known.
func (s QueryState) WithPage(page int) QueryState {
	if page >= 1 {
		s.Page = page
	}
	return s
}

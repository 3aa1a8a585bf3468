package client

import (
	"fmt"
	"sort"
)

// DefaultPageSize is the fixed catalog page size.
const DefaultPageSize = 50

// Searchable is an entity that can be matched against a search term.
type Searchable interface {
	MatchesSearch(term string) bool
}

// Filter returns the entities matching the term. An empty term matches
// everything; original order is preserved.
func Filter[T Searchable](entities []T, term string) []T {
	if term == "" {
		return entities
	}
	out := make([]T, 0, len(entities))
	for _, e := range entities {
		if e.MatchesSearch(term) {
			out = append(out, e)
		}
	}
	return out
}

// SortStable sorts a copy of the entities by the given less function,
// honoring the direction. Ties keep their pre-sort relative order in
// both directions. A nil less returns the input unchanged.
func SortStable[T any](entities []T, less func(a, b T) bool, order SortOrder) []T {
	if less == nil {
		return entities
	}
	out := make([]T, len(entities))
	copy(out, entities)
	cmp := less
	if order == Descending {
		// invert without breaking stability: strictly greater only
		cmp = func(a, b T) bool { return less(b, a) }
	}
	sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) })
	return out
}

// ItemLess returns the comparison for a catalog sort key, nil for SortNone.
func ItemLess(key SortKey) func(a, b Item) bool {
	switch key {
	case SortName:
		return func(a, b Item) bool { return a.Name < b.Name }
	case SortPrice:
		return func(a, b Item) bool { return a.Price < b.Price }
	case SortQuantity:
		return func(a, b Item) bool { return a.Quantity < b.Quantity }
	default:
		return nil
	}
}

// OrderLess returns the comparison for an order sort key, nil for SortNone.
func OrderLess(key SortKey) func(a, b Order) bool {
	switch key {
	case SortTime:
		return func(a, b Order) bool { return a.OrderTime.Before(b.OrderTime) }
	case SortPrice:
		return func(a, b Order) bool { return a.TotalPrice < b.TotalPrice }
	case SortCustomer:
		return func(a, b Order) bool { return a.CustomerID < b.CustomerID }
	default:
		return nil
	}
}

// TotalPages returns ceil(n/pageSize), at least 1 so an empty collection
// still has a current page.
func TotalPages(n, pageSize int) int {
	if n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage forces the page into [1, totalPages]; navigating outside the
// range lands on the nearest bound.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Page is one rendered window over a filtered, sorted collection.
type Page[T any] struct {
	Entities   []T
	Number     int
	TotalPages int
	TotalCount int
}

// Paginate slices the window for the (clamped) page.
func Paginate[T any](entities []T, page, pageSize int) Page[T] {
	total := TotalPages(len(entities), pageSize)
	page = ClampPage(page, total)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(entities) {
		start = len(entities)
	}
	if end > len(entities) {
		end = len(entities)
	}
	return Page[T]{
		Entities:   entities[start:end],
		Number:     page,
		TotalPages: total,
		TotalCount: len(entities),
	}
}

// ApplyItems shapes the catalog for display: client-side filter, stable
// sort, then the fixed-size page window.
func ApplyItems(all []Item, state QueryState, pageSize int) Page[Item] {
	shaped := Filter(all, state.Search)
	shaped = SortStable(shaped, ItemLess(state.Sort), state.Order)
	return Paginate(shaped, state.Page, pageSize)
}

// ApplyOrders shapes the order list: filter and stable sort, no paging.
func ApplyOrders(all []Order, state QueryState) []Order {
	shaped := Filter(all, state.Search)
	return SortStable(shaped, OrderLess(state.Sort), state.Order)
}

// PageRef is one slot of the pagination control.
type PageRef struct {
	Number   int
	Current  bool
	Ellipsis bool
}

// PageWindow renders the page-number rail: first and last page, a window
// of two around the current page, and ellipsis markers for the gaps.
func PageWindow(current, total int) []PageRef {
	refs := make([]PageRef, 0, total)
	for page := 1; page <= total; page++ {
		switch {
		case page == 1 || page == total || abs(page-current) <= 2:
			refs = append(refs, PageRef{Number: page, Current: page == current})
		case page == current-3 || page == current+3:
			refs = append(refs, PageRef{Ellipsis: true})
		}
	}
	return refs
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// FormatCents renders integer cents as a dollar amount, presentation
// only; amounts never leave integer cents anywhere else.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

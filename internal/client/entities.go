package client

import (
	"strconv"
	"strings"
	"time"
)

// Item is the client-canonical catalog entry. Server field names
// (itemID, itemPrice...) are normalized into these fields by the
// sources; prices stay in integer cents until rendered.
type Item struct {
	ID           int64
	Name         string
	Description  string
	ImageID      string
	Price        int64 // cents
	Quantity     int
	DiscountCode string
	OnSale       bool
}

// OrderLine is one line of an order.
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice int64 // cents
	ImageID   string
}

// Order is the client-canonical order record.
type Order struct {
	ID         int64
	CustomerID int64
	OrderTime  time.Time
	Executed   bool
	TotalPrice int64 // cents
	Items      []OrderLine
}

// MatchesSearch reports whether the item matches a case-insensitive
// substring search against its display name.
func (it Item) MatchesSearch(term string) bool {
	return strings.Contains(strings.ToLower(it.Name), strings.ToLower(term))
}

// MatchesSearch matches orders on order ID, customer ID or any
// line-item name.
func (o Order) MatchesSearch(term string) bool {
	lower := strings.ToLower(term)
	if strings.Contains(strconv.FormatInt(o.ID, 10), lower) {
		return true
	}
	if strings.Contains(strconv.FormatInt(o.CustomerID, 10), lower) {
		return true
	}
	for _, line := range o.Items {
		if strings.Contains(strings.ToLower(line.Name), lower) {
			return true
		}
	}
	return false
}

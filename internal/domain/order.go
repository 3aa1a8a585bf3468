package domain

import "time"

// Order is a customer order. Executed is terminal: once true it never
// transitions back, and the total is server-computed from the line items.
type Order struct {
	ID         int64       `gorm:"primaryKey" json:"orderID,string" form:"orderID"`
	CustomerID int64       `gorm:"index" json:"customerID" form:"customerID"`
	OrderTime  time.Time   `gorm:"index" json:"orderTime" form:"orderTime"`
	Executed   bool        `gorm:"index" json:"orderStatus" form:"orderStatus"`
	TotalPrice int64       `json:"orderPrice" form:"orderPrice"` // cents
	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "store_order"
}

// OrderItem is a single order line carrying a denormalized item snapshot.
type OrderItem struct {
	ID        int64  `gorm:"primaryKey" json:"-"`
	OrderID   int64  `gorm:"index" json:"-"`
	Name      string `gorm:"size:200" json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"itemPrice"` // cents
	ImageID   string `gorm:"size:255" json:"imageID"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "store_order_item"
}

// LineTotal returns the line's contribution to the order total in cents.
func (i OrderItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// ComputeTotal sums line totals; stored TotalPrice must always equal it.
func (o *Order) ComputeTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.LineTotal()
	}
	return total
}

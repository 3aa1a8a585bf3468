package domain

import "time"

// Item is a catalog entry. Monetary values are integer cents; the wire
// field names follow the store front-end contract (itemID, itemPrice...).
type Item struct {
	ID           int64     `gorm:"primaryKey" json:"itemID,string" form:"itemID"`
	Name         string    `gorm:"index;size:200" json:"name" form:"name"`
	Description  string    `gorm:"size:1024" json:"description" form:"description"`
	ImageID      string    `gorm:"size:255" json:"imageID" form:"imageID"`
	Price        int64     `json:"itemPrice" form:"itemPrice"`       // cents
	Quantity     int       `json:"itemQuantity" form:"itemQuantity"` // stock on hand
	DiscountCode *string   `gorm:"size:64" json:"discountCode" form:"discountCode"`
	OnSale       bool      `json:"isOnSale" form:"isOnSale"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Item) TableName() string {
	return "store_item"
}

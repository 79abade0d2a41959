package entities

import "time"

// Shop is a store the user can buy products from.
type Shop struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string    `gorm:"index;size:255" json:"name"`
	Website   string    `gorm:"size:2048" json:"website,omitempty"`
	LogoURL   string    `gorm:"size:2048" json:"logo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	SyncedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Shop) TableName() string {
	return "shops"
}

// Product is an item offered by a shop.
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ShopID      uint      `gorm:"index" json:"shop"`
	Name        string    `gorm:"index;size:512" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Price       string    `gorm:"size:32" json:"price"` // decimal string as sent by the API
	Currency    string    `gorm:"size:8" json:"currency,omitempty"`
	ImageURL    string    `gorm:"size:2048" json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	SyncedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ShoppingListItem is a product placed on the user's shopping list.
type ShoppingListItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ProductID uint      `gorm:"index" json:"product"`
	Quantity  int       `json:"quantity"`
	Note      string    `gorm:"size:1024" json:"note,omitempty"`
	Purchased bool      `json:"purchased"`
	CreatedAt time.Time `json:"created_at"`
	SyncedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (ShoppingListItem) TableName() string {
	return "shopping_list_items"
}

// Address is a delivery address of the user.
type Address struct {
	ID         uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Label      string    `gorm:"size:100" json:"label,omitempty"`
	Street     string    `gorm:"size:512" json:"street"`
	City       string    `gorm:"size:255" json:"city"`
	PostalCode string    `gorm:"size:32" json:"postal_code"`
	Country    string    `gorm:"size:64" json:"country"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	SyncedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}

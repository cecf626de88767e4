package models

import (
	"time"
)

const (
	RoleCustomer = 0
	RoleStaff    = 1
	RoleManager  = 2
)

type Account struct {
	Email      string `gorm:"primaryKey"         json:"email"`
	Hash       string `gorm:"not null"           json:"-"`
	Role       int    `gorm:"not null;default:0" json:"role"`
	Name       string `gorm:"not null"           json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postal_code"`
}

type Item struct {
	ItemID      string  `gorm:"primaryKey" json:"item_id"`
	Name        string  `gorm:"not null"   json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null"   json:"price"`
	Quantity    int     `json:"quantity"`
	Sold        int     `json:"sold"`
}

type ItemImage struct {
	ID       uint   `gorm:"primaryKey"     json:"id"`
	ItemID   string `gorm:"index;not null" json:"item_id"`
	ImageURL string `gorm:"not null"       json:"image_url"`
}

type Like struct {
	ID     uint   `gorm:"primaryKey"                          json:"id"`
	Email  string `gorm:"uniqueIndex:idx_like_owner;not null" json:"email"`
	ItemID string `gorm:"uniqueIndex:idx_like_owner;not null" json:"item_id"`
}

// One row per add-to-cart call. Rows for the same item stay separate
// until checkout clears them.
type CartItem struct {
	ID       uint   `gorm:"primaryKey"                 json:"id"`
	Email    string `gorm:"index;not null"             json:"email"`
	ItemID   string `gorm:"not null"                   json:"item_id"`
	Quantity uint   `gorm:"default:1;check:quantity>0" json:"quantity"`
}

type Purchase struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	Email     string    `gorm:"index;not null" json:"email"`
	CreatedAt time.Time `gorm:"not null"       json:"created_at"`
}

type PurchaseItem struct {
	ID         uint   `gorm:"primaryKey"     json:"id"`
	PurchaseID uint   `gorm:"index;not null" json:"purchase_id"`
	ItemID     string `gorm:"not null"       json:"item_id"`
	Quantity   uint   `gorm:"default:1"      json:"quantity"`
}

type Message struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	Content   string    `gorm:"not null"       json:"content"`
	Subject   string    `json:"subject"`
	FromEmail string    `gorm:"not null"       json:"from_email"`
	ToEmail   string    `gorm:"index;not null" json:"to_email"`
	SentAt    time.Time `gorm:"not null"       json:"sent_at"`
}

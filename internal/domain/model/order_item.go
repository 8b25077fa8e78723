package model

import "time"

// Ligne de commande. Nom et prix sont des copies au moment de l'achat:
// une édition ultérieure du produit ne change pas la commande.
type OrderItem struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64     `gorm:"not null;index" json:"order_id"`
	ProductID    int64     `gorm:"not null;index" json:"product_id"`
	ProductName  string    `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductPrice int64     `gorm:"not null" json:"product_price"`
	Quantity     int64     `gorm:"not null" json:"quantity"`
	Size         string    `gorm:"type:varchar(20)" json:"size"`
	Subtotal     int64     `gorm:"not null" json:"subtotal"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

package model

import "time"

type OrderStatus string

// Statuts affichés tels quels dans le back-office.
const (
	OrderStatusPending   OrderStatus = "En attente"
	OrderStatusConfirmed OrderStatus = "Confirmée"
	OrderStatusShipped   OrderStatus = "Expédiée"
	OrderStatusDelivered OrderStatus = "Livrée"
	OrderStatusCanceled  OrderStatus = "Annulée"
)

// Paiement à la livraison uniquement.
const PaymentMethodCOD = "COD"

// Commande client (checkout invité, pas de compte).
// Invariant: TotalAmount = Subtotal + ShippingCost - DiscountAmount, jamais négatif.
// CouponCode n'est renseigné que si une réduction a réellement été appliquée.
type Order struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber     string      `gorm:"type:varchar(40);not null;uniqueIndex" json:"order_number"`
	CustomerName    string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone   string      `gorm:"type:varchar(20);not null;index" json:"customer_phone"`
	CustomerCity    string      `gorm:"type:varchar(100);not null;index" json:"customer_city"`
	CustomerAddress string      `gorm:"type:text;not null" json:"customer_address"`
	Subtotal        int64       `gorm:"not null" json:"subtotal"`
	ShippingCost    int64       `gorm:"not null" json:"shipping_cost"`
	DiscountAmount  int64       `gorm:"not null;default:0" json:"discount_amount"`
	TotalAmount     int64       `gorm:"not null" json:"total_amount"`
	CouponCode      *string     `gorm:"type:varchar(50)" json:"coupon_code"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentMethod   string      `gorm:"type:varchar(20);not null" json:"payment_method"`
	Notes           string      `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time   `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

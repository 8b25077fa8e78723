package model

import "time"

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Code promo. Le code est stocké en majuscules (comparaison insensible à la casse).
// Invariant: used_count <= max_uses quand max_uses est défini.
// used_count n'est incrémenté que par CouponRepository.RedeemIfAvailable.
type Coupon struct {
	ID             int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Code           string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	IsActive       bool         `gorm:"not null;default:true" json:"is_active"`
	ExpiresAt      *time.Time   `json:"expires_at"`
	DiscountType   DiscountType `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue  int64        `gorm:"not null" json:"discount_value"`
	MinOrderAmount int64        `gorm:"not null;default:0" json:"min_order_amount"`
	MaxUses        *int64       `json:"max_uses"`
	UsedCount      int64        `gorm:"not null;default:0" json:"used_count"`
	CreatedAt      time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

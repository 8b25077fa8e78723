package repository

import (
	"context"

	"app/internal/domain/model"
)

type CouponRepository interface {
	// Recherche par code (déjà normalisé en majuscules), coupons actifs
	// uniquement. ErrNotFound si absent ou inactif.
	FindActiveByCode(ctx context.Context, code string) (model.Coupon, error)

	// Incrément atomique de used_count, refusé côté serveur si la limite
	// serait dépassée. false sans erreur quand la limite est atteinte
	// ou que le coupon a disparu. Jamais de read-then-write client.
	RedeemIfAvailable(ctx context.Context, code string) (bool, error)

	List(ctx context.Context, page int, limit int) ([]model.Coupon, int64, error)
	Create(ctx context.Context, c model.Coupon) (model.Coupon, error)
	SetActive(ctx context.Context, id int64, active bool) error
	FindByID(ctx context.Context, id int64) (model.Coupon, error)
}

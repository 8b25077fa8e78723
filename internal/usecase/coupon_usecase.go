package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/coupon"
	repo "app/internal/repository"
)

// Validation des codes promo. Aperçu uniquement: le compteur d'utilisation
// n'est incrémenté qu'à la création confirmée d'une commande, un code peut
// donc être prévisualisé plusieurs fois sans jamais être consommé.
type CouponUsecase struct {
	coupons repo.CouponRepository
}

func NewCouponUsecase(coupons repo.CouponRepository) *CouponUsecase {
	return &CouponUsecase{coupons: coupons}
}

type CouponPreviewOutput struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
}

// Preview valide un code contre le sous-total courant et retourne la
// réduction. Erreurs déjà traduites en messages client.
func (u *CouponUsecase) Preview(ctx context.Context, code string, subtotal int64) (CouponPreviewOutput, error) {
	discount, normalized, err := resolveCoupon(ctx, u.coupons, code, subtotal, time.Now())
	if err != nil {
		return CouponPreviewOutput{}, err
	}
	return CouponPreviewOutput{Code: normalized, Discount: discount}, nil
}

// resolveCoupon charge et applique un coupon. Partagé entre l'aperçu
// (panier) et la soumission de commande pour garder les mêmes règles.
func resolveCoupon(ctx context.Context, coupons repo.CouponRepository, code string, subtotal int64, now time.Time) (int64, string, error) {
	normalized := coupon.Normalize(code)
	if normalized == "" {
		return 0, "", NewHTTPError(http.StatusBadRequest, MsgCouponInvalid)
	}

	c, err := coupons.FindActiveByCode(ctx, normalized)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, "", NewHTTPError(http.StatusBadRequest, MsgCouponInvalid)
	}
	if err != nil {
		return 0, "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	discount, err := coupon.Apply(c, subtotal, now)
	if err != nil {
		return 0, "", couponErrorToHTTP(err)
	}

	return discount, normalized, nil
}

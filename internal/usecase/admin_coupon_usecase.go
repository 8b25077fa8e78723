package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"app/internal/coupon"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

// Administration des codes promo. Jamais d'écriture sur used_count ici:
// seul RedeemIfAvailable (checkout) le modifie.
type AdminCouponUsecase struct {
	coupons   repo.CouponRepository
	auditRepo repo.AuditLogRepository
}

func NewAdminCouponUsecase(coupons repo.CouponRepository, auditRepo repo.AuditLogRepository) *AdminCouponUsecase {
	return &AdminCouponUsecase{coupons: coupons, auditRepo: auditRepo}
}

type CouponListOutput struct {
	Coupons []model.Coupon `json:"coupons"`
	Total   int64          `json:"total"`
}

func (u *AdminCouponUsecase) List(ctx context.Context, page int, limit int) (CouponListOutput, error) {
	coupons, total, err := u.coupons.List(ctx, page, limit)
	if err != nil {
		return CouponListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CouponListOutput{Coupons: coupons, Total: total}, nil
}

type CreateCouponInput struct {
	Code           string
	DiscountType   string
	DiscountValue  int64
	MinOrderAmount int64
	MaxUses        *int64
	ExpiresAt      *time.Time
	IsActive       bool
}

func (u *AdminCouponUsecase) Create(ctx context.Context, actorEmail string, in CreateCouponInput) (model.Coupon, error) {
	code := coupon.Normalize(in.Code)
	if code == "" {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "code is required")
	}

	dt := model.DiscountType(in.DiscountType)
	if dt != model.DiscountTypePercentage && dt != model.DiscountTypeFixed {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "discount_type must be percentage or fixed")
	}
	if in.DiscountValue <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "discount_value must be > 0")
	}
	if dt == model.DiscountTypePercentage && in.DiscountValue > 100 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "percentage cannot exceed 100")
	}
	if in.MinOrderAmount < 0 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "min_order_amount must be >= 0")
	}
	if in.MaxUses != nil && *in.MaxUses <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "max_uses must be > 0")
	}

	c, err := u.coupons.Create(ctx, model.Coupon{
		Code:           code,
		IsActive:       in.IsActive,
		ExpiresAt:      in.ExpiresAt,
		DiscountType:   dt,
		DiscountValue:  in.DiscountValue,
		MinOrderAmount: in.MinOrderAmount,
		MaxUses:        in.MaxUses,
	})
	if err != nil {
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actorEmail, model.AuditActionCreateCoupon, c.ID, nil, c)
	return c, nil
}

func (u *AdminCouponUsecase) SetActive(ctx context.Context, actorEmail string, id int64, active bool) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	before, err := u.coupons.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.coupons.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actorEmail, model.AuditActionToggleCoupon, id,
		map[string]bool{"is_active": before.IsActive},
		map[string]bool{"is_active": active})
	return nil
}

func (u *AdminCouponUsecase) audit(ctx context.Context, actorEmail string, action model.AuditAction, id int64, before interface{}, after interface{}) {
	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(after)
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorEmail:   actorEmail,
		Action:       action,
		ResourceType: model.AuditResourceCoupon,
		ResourceID:   id,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    time.Now(),
	})
}

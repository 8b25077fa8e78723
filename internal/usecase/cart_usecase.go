package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/pricing"
	repo "app/internal/repository"
)

// Panier de session invité. Le prix et le nom sont copiés du catalogue au
// moment de l'ajout; le devis est recalculé à chaque lecture.
type CartUsecase struct {
	carts    repo.CartRepository
	products repo.ProductRepository
	coupons  repo.CouponRepository
}

func NewCartUsecase(carts repo.CartRepository, products repo.ProductRepository, coupons repo.CouponRepository) *CartUsecase {
	return &CartUsecase{carts: carts, products: products, coupons: coupons}
}

type CartResponse struct {
	Items    []model.CartItem `json:"items"`
	Subtotal int64            `json:"subtotal"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
	Size      string
}

func (u *CartUsecase) Get(ctx context.Context, sessionID string) (CartResponse, error) {
	items, err := u.carts.Get(ctx, sessionID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}
	return CartResponse{Items: items, Subtotal: pricing.Subtotal(items)}, nil
}

func (u *CartUsecase) Add(ctx context.Context, sessionID string, in AddCartInput) (CartResponse, error) {
	if in.ProductID <= 0 || in.Quantity <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product or quantity")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.IsActive) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "Produit indisponible")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.carts.Get(ctx, sessionID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	// Même produit + même taille: on cumule les quantités
	merged := false
	for i := range items {
		if items[i].ProductID == in.ProductID && items[i].Size == in.Size {
			items[i].Quantity += in.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, model.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  in.Quantity,
			Size:      in.Size,
		})
	}

	if err := u.carts.Save(ctx, sessionID, items); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}
	return CartResponse{Items: items, Subtotal: pricing.Subtotal(items)}, nil
}

// UpdateItem fixe la quantité d'une ligne; 0 supprime la ligne.
func (u *CartUsecase) UpdateItem(ctx context.Context, sessionID string, productID int64, size string, quantity int64) (CartResponse, error) {
	if productID <= 0 || quantity < 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product or quantity")
	}

	items, err := u.carts.Get(ctx, sessionID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	out := items[:0]
	found := false
	for _, it := range items {
		if it.ProductID == productID && it.Size == size {
			found = true
			if quantity == 0 {
				continue
			}
			it.Quantity = quantity
		}
		out = append(out, it)
	}
	if !found {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.carts.Save(ctx, sessionID, out); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}
	return CartResponse{Items: out, Subtotal: pricing.Subtotal(out)}, nil
}

func (u *CartUsecase) Clear(ctx context.Context, sessionID string) error {
	if err := u.carts.Clear(ctx, sessionID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "cart error")
	}
	return nil
}

// Quote calcule l'aperçu en direct du checkout (appelé à chaque changement
// de ville ou de code). Sans ville: livraison à 0, simple aperçu.
func (u *CartUsecase) Quote(ctx context.Context, sessionID string, city string, couponCode string) (pricing.Quote, error) {
	items, err := u.carts.Get(ctx, sessionID)
	if err != nil {
		return pricing.Quote{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	var discount int64
	if strings.TrimSpace(couponCode) != "" {
		d, _, err := resolveCoupon(ctx, u.coupons, couponCode, pricing.Subtotal(items), time.Now())
		if err != nil {
			return pricing.Quote{}, err
		}
		discount = d
	}

	return pricing.ComputeTotals(items, strings.TrimSpace(city), discount), nil
}

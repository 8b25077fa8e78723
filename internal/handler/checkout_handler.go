package handler

import (
	"net/http"
	"sort"

	"app/internal/pricing"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Soumission de commande et aperçu coupon.
type CheckoutHandler struct {
	uc       *usecase.CheckoutUsecase
	couponUC *usecase.CouponUsecase
	cartUC   *usecase.CartUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase, couponUC *usecase.CouponUsecase, cartUC *usecase.CartUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, couponUC: couponUC, cartUC: cartUC}
}

type CheckoutRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	Address    string `json:"address"`
	CouponCode string `json:"coupon_code"`
}

type QuoteRequest struct {
	City       string `json:"city"`
	CouponCode string `json:"coupon_code"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/checkout", h.submit)
	e.POST("/checkout/quote", h.quote)
	e.POST("/checkout/coupon", h.applyCoupon)
	e.GET("/checkout/cities", h.cities)
}

type ApplyCouponRequest struct {
	CouponCode string `json:"coupon_code"`
}

// Validation d'un code promo contre le panier courant. Aperçu seulement,
// le compteur d'utilisation n'est pas touché.
func (h *CheckoutHandler) applyCoupon(c echo.Context) error {
	var req ApplyCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cart, err := h.cartUC.Get(c.Request().Context(), sessionID(c))
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.couponUC.Preview(c.Request().Context(), req.CouponCode, cart.Subtotal)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type CityShipping struct {
	City string `json:"city"`
	Cost int64  `json:"cost"`
}

type CitiesResponse struct {
	Cities                []CityShipping `json:"cities"`
	DefaultCost           int64          `json:"default_cost"`
	FreeShippingThreshold int64          `json:"free_shipping_threshold"`
}

// Barème de livraison pour le formulaire de commande.
func (h *CheckoutHandler) cities(c echo.Context) error {
	names := pricing.Cities()
	sort.Strings(names)

	cities := make([]CityShipping, 0, len(names))
	for _, name := range names {
		cities = append(cities, CityShipping{City: name, Cost: pricing.ShippingCost(0, name)})
	}

	return c.JSON(http.StatusOK, CitiesResponse{
		Cities:                cities,
		DefaultCost:           pricing.DefaultShippingCost,
		FreeShippingThreshold: pricing.FreeShippingThreshold,
	})
}

func (h *CheckoutHandler) submit(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SubmitOrder(c.Request().Context(), sessionID(c), usecase.SubmitOrderInput{
		Name:       req.Name,
		Phone:      req.Phone,
		City:       req.City,
		Address:    req.Address,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

// Aperçu en direct du devis (ville et/ou code promo).
func (h *CheckoutHandler) quote(c echo.Context) error {
	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	quote, err := h.cartUC.Quote(c.Request().Context(), sessionID(c), req.City, req.CouponCode)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, quote)
}

package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"app/internal/coupon"
	"app/internal/validator"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// Messages produit en français. Les types d'erreur (validator.*, coupon.*)
// restent le contrat stable, le libellé peut changer avec la locale.
const (
	MsgMissingField    = "Veuillez remplir tous les champs obligatoires"
	MsgInvalidPhone    = "Veuillez entrer un numéro de téléphone valide (06/07)"
	MsgAddressTooShort = "L'adresse doit contenir au moins 10 caractères"
	MsgCouponInvalid   = "Code promo invalide ou expiré"
	MsgCouponExpired   = "Code promo expiré"
	MsgCouponLimit     = "Ce code promo a atteint sa limite d'utilisation"
	MsgCartEmpty       = "Votre panier est vide"
	MsgOrderFailed     = "Une erreur est survenue lors de la commande"
)

// Traduit une erreur de validation du formulaire en réponse client.
func formErrorToHTTP(err error) error {
	switch {
	case errors.Is(err, validator.ErrMissingField):
		return NewHTTPError(http.StatusBadRequest, MsgMissingField)
	case errors.Is(err, validator.ErrInvalidPhone):
		return NewHTTPError(http.StatusBadRequest, MsgInvalidPhone)
	case errors.Is(err, validator.ErrAddressTooShort):
		return NewHTTPError(http.StatusBadRequest, MsgAddressTooShort)
	default:
		return NewHTTPError(http.StatusBadRequest, MsgMissingField)
	}
}

// Traduit une erreur coupon en réponse client. L'erreur reste récupérable:
// le client peut retirer le code et commander sans réduction.
func couponErrorToHTTP(err error) error {
	var minErr *coupon.MinimumNotMetError
	switch {
	case errors.Is(err, coupon.ErrInvalid):
		return NewHTTPError(http.StatusBadRequest, MsgCouponInvalid)
	case errors.Is(err, coupon.ErrExpired):
		return NewHTTPError(http.StatusBadRequest, MsgCouponExpired)
	case errors.Is(err, coupon.ErrUsageLimitReached):
		return NewHTTPError(http.StatusBadRequest, MsgCouponLimit)
	case errors.As(err, &minErr):
		return NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Commande minimale: %d MAD", minErr.Minimum))
	default:
		return NewHTTPError(http.StatusBadRequest, MsgCouponInvalid)
	}
}

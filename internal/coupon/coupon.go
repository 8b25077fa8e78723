// Package coupon applique les règles d'un code promo à un sous-total.
// La validation ne touche jamais au compteur d'utilisation: l'incrément
// n'a lieu qu'après création confirmée de la commande (voir usecase).
package coupon

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"app/internal/domain/model"
)

var (
	// Code inconnu ou désactivé
	ErrInvalid = errors.New("coupon invalid or expired")

	// Date d'expiration dépassée
	ErrExpired = errors.New("coupon expired")

	// Limite d'utilisation atteinte
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
)

// MinimumNotMetError porte le minimum requis pour l'affichage client.
type MinimumNotMetError struct {
	Minimum int64
}

func (e *MinimumNotMetError) Error() string {
	return fmt.Sprintf("minimum order amount not met: %d MAD", e.Minimum)
}

// Normalize met le code au format stocké (majuscules, sans espaces autour).
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Apply décide de la réduction pour un coupon actif déjà chargé.
// Règles dans l'ordre: expiration, limite d'utilisation, minimum de commande.
// percentage: subtotal * valeur / 100 (division entière, MAD entiers).
// fixed: valeur telle quelle; le plafonnement au montant payable est
// fait par pricing.ComputeTotals.
func Apply(c model.Coupon, subtotal int64, now time.Time) (int64, error) {
	if !c.IsActive {
		return 0, ErrInvalid
	}

	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return 0, ErrExpired
	}

	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return 0, ErrUsageLimitReached
	}

	if subtotal < c.MinOrderAmount {
		return 0, &MinimumNotMetError{Minimum: c.MinOrderAmount}
	}

	switch c.DiscountType {
	case model.DiscountTypePercentage:
		return subtotal * c.DiscountValue / 100, nil
	case model.DiscountTypeFixed:
		return c.DiscountValue, nil
	default:
		return 0, ErrInvalid
	}
}

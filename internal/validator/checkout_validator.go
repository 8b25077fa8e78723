package validator

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Un champ obligatoire manque
	ErrMissingField = errors.New("missing field")

	// Numéro de téléphone invalide (mobile marocain attendu)
	ErrInvalidPhone = errors.New("invalid phone")

	// Adresse trop courte pour être livrable
	ErrAddressTooShort = errors.New("address too short")
)

// Mobile marocain: 10 chiffres, 06 ou 07.
var phonePattern = regexp.MustCompile(`^0[67][0-9]{8}$`)

// CheckoutForm est la saisie client du formulaire de commande.
type CheckoutForm struct {
	Name    string
	Phone   string
	City    string
	Address string
}

// ValidateCheckoutForm vérifie la saisie avant toute soumission.
// Les règles s'appliquent dans l'ordre, la première violée gagne.
// Aucun effet de bord: ni tarification ni état des coupons.
func ValidateCheckoutForm(f CheckoutForm) error {
	name := strings.TrimSpace(f.Name)
	phone := strings.TrimSpace(f.Phone)
	city := strings.TrimSpace(f.City)
	address := strings.TrimSpace(f.Address)

	if name == "" || phone == "" || city == "" || address == "" {
		return ErrMissingField
	}

	if len(phone) != 10 || !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}

	// Au moins 10 caractères (l'adresse contient des accents, compter en runes)
	if utf8.RuneCountInString(address) < 10 {
		return ErrAddressTooShort
	}

	return nil
}

// Package pricing calcule les montants d'un devis de commande: sous-total,
// frais de livraison par ville et total après réduction. Fonctions pures,
// appelables à chaque modification du panier pour l'aperçu en direct.
package pricing

import "app/internal/domain/model"

// Livraison offerte à partir de ce sous-total (MAD).
const FreeShippingThreshold = 500

// Tarif appliqué aux villes hors barème.
const DefaultShippingCost = 50

// Barème de livraison par ville (MAD). Configuration statique,
// non modifiable à chaud.
var shippingCosts = map[string]int64{
	"Casablanca": 30,
	"Rabat":      35,
	"Marrakech":  40,
	"Fès":        40,
	"Tanger":     40,
	"Agadir":     40,
	"Meknès":     40,
	"Oujda":      50,
	"Kénitra":    35,
	"Tétouan":    40,
	"Salé":       35,
	"Autre":      50,
}

// Cities liste les villes du barème pour le formulaire de commande.
func Cities() []string {
	out := make([]string, 0, len(shippingCosts))
	for city := range shippingCosts {
		out = append(out, city)
	}
	return out
}

// Quote est le détail chiffré d'une tentative de commande.
// Invariant: Total = Subtotal + ShippingCost - Discount, Total >= 0.
type Quote struct {
	Subtotal     int64 `json:"subtotal"`
	ShippingCost int64 `json:"shipping_cost"`
	Discount     int64 `json:"discount"`
	Total        int64 `json:"total"`
}

// Subtotal somme prix unitaire x quantité sur le panier.
func Subtotal(items []model.CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Price * it.Quantity
	}
	return sum
}

// ShippingCost retourne les frais pour la ville choisie.
// 0 tant qu'aucune ville n'est choisie (formulaire incomplet, simple aperçu).
// 0 si le sous-total atteint le seuil de livraison gratuite.
func ShippingCost(subtotal int64, city string) int64 {
	if city == "" {
		return 0
	}
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	if cost, ok := shippingCosts[city]; ok {
		return cost
	}
	return DefaultShippingCost
}

// ComputeTotals construit le devis complet. Une réduction supérieure au
// montant payable est plafonnée à subtotal+livraison: le total ne passe
// jamais en négatif et le code promo reste accepté.
func ComputeTotals(items []model.CartItem, city string, discount int64) Quote {
	subtotal := Subtotal(items)
	shipping := ShippingCost(subtotal, city)

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal+shipping {
		discount = subtotal + shipping
	}

	return Quote{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Discount:     discount,
		Total:        subtotal + shipping - discount,
	}
}

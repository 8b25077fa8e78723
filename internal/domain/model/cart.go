package model

// Article du panier invité. Jamais persisté en base: le panier vit en session
// (Redis) et disparaît à la soumission de la commande ou à l'expiration.
type CartItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Size      string `json:"size"`
}

package repository

import (
	"context"

	"app/internal/domain/model"
)

// Panier de session (invité). Stockage éphémère avec TTL,
// vidé à la soumission de la commande.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) ([]model.CartItem, error)
	Save(ctx context.Context, sessionID string, items []model.CartItem) error
	Clear(ctx context.Context, sessionID string) error
}

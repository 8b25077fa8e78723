package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Recherche catalogue (boutique publique et back-office).
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	Category string
	// true: uniquement les produits actifs (vitrine)
	ActiveOnly bool
}

// Persistance des produits.
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	// Décrément conditionnel: ne passe que si stock >= qty.
	// false sans erreur quand le stock ne suffit pas.
	DecrementStockIfAvailable(ctx context.Context, productID int64, qty int64) (bool, error)
}

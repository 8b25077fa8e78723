package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	// Filtre catégorie du back-office: commandes contenant au moins
	// un article d'une catégorie donnée
	OrderIDsByCategory(ctx context.Context, category string) ([]int64, error)
}

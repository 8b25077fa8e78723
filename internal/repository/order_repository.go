package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
)

// Collision sur l'index unique order_number: l'appelant régénère et réessaie.
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

// Filtres du back-office (liste des commandes).
type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	// Recherche libre: numéro de commande, nom ou téléphone client
	Search     string
	City       string
	CouponCode string
	From       *time.Time
	To         *time.Time
	// Restreint aux commandes de cette liste (filtre catégorie résolu en
	// amont via les lignes). Appliqué avant Count: la pagination et le
	// total portent sur l'ensemble filtré.
	OrderIDs []int64
}

// Comptage par statut pour le tunnel du tableau de bord.
type StatusCount struct {
	Status model.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// Vue de confirmation: recherche par numéro public
	FindByNumber(ctx context.Context, orderNumber string) (model.Order, error)
	// Retourne ErrDuplicateOrderNumber sur collision de numéro
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, notes string) error

	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	// Chiffre d'affaires des commandes livrées
	DeliveredRevenue(ctx context.Context) (int64, error)
}

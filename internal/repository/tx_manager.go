package repository

import "context"

// Repos disponibles à l'intérieur d'une transaction.
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Products() ProductRepository
	Coupons() CouponRepository
}

// Cache le begin/commit/rollback aux usecases. Si fn retourne une erreur,
// tout est annulé: jamais de commande sans ses lignes.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}

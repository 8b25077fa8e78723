package repository

import (
	"context"

	"app/internal/domain/model"
)

type AdminUserRepository interface {
	FindByEmail(ctx context.Context, email string) (model.AdminUser, error)
	Create(ctx context.Context, u model.AdminUser) (model.AdminUser, error)
	Count(ctx context.Context) (int64, error)
}

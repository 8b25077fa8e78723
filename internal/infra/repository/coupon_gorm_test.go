package repository_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"app/internal/domain/model"
	infrarepo "app/internal/infra/repository"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Base de test réelle requise: la garde max_uses vit dans le WHERE de
// l'UPDATE, elle ne se vérifie que contre Postgres.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("gorm.Open failed: %v", err)
	}
	if err := db.AutoMigrate(&model.Coupon{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestRedeemIfAvailable_ConcurrentStopsAtLimit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	code := fmt.Sprintf("LIMITE-%s", time.Now().Format("150405.000000000"))
	maxUses := int64(3)
	coupon := model.Coupon{
		Code:          code,
		IsActive:      true,
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: 50,
		MaxUses:       &maxUses,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	t.Cleanup(func() {
		db.Where("code = ?", code).Delete(&model.Coupon{})
	})

	repo := infrarepo.NewCouponGormRepository(db)

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.RedeemIfAvailable(ctx, code)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Exactement max_uses accordés, le reste refusé sans erreur
	assert.Equal(t, int(maxUses), granted)

	var after model.Coupon
	err := db.Where("code = ?", code).First(&after).Error
	assert.NoError(t, err)
	assert.Equal(t, maxUses, after.UsedCount)
}

func TestRedeemIfAvailable_InactiveCouponRefused(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	code := fmt.Sprintf("INACTIF-%s", time.Now().Format("150405.000000000"))
	coupon := model.Coupon{
		Code:          code,
		IsActive:      false,
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: 50,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	t.Cleanup(func() {
		db.Where("code = ?", code).Delete(&model.Coupon{})
	})

	repo := infrarepo.NewCouponGormRepository(db)

	ok, err := repo.RedeemIfAvailable(ctx, code)
	assert.NoError(t, err)
	assert.False(t, ok)

	var after model.Coupon
	assert.NoError(t, db.Where("code = ?", code).First(&after).Error)
	assert.Equal(t, int64(0), after.UsedCount)
}

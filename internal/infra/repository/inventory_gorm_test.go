package repository

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/model"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TEST_DATABASE_URLが設定されているときだけ実際のPostgresで動かす。
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	sqlDB, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gormDB.AutoMigrate(&model.Category{}, &model.Product{}))

	return gormDB
}

func createTestProduct(t *testing.T, db *gorm.DB, stock int64) model.Product {
	t.Helper()

	p := model.Product{
		Name:       "race test product",
		Slug:       "race-test-" + time.Now().Format("20060102150405.000000000"),
		CategoryID: 1,
		Price:      decimal.NewFromInt(10),
		Stock:      stock,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&p).Error)

	t.Cleanup(func() {
		db.Unscoped().Delete(&model.Product{}, p.ID)
	})

	return p
}

// 条件付きUPDATEで、同時に減らしても在庫が負にならないこと。
func TestDecreaseStockIfEnough_Concurrent(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryGormRepository(db)
	ctx := context.Background()

	p := createTestProduct(t, db, 1)

	const workers = 8

	var wg sync.WaitGroup
	results := make([]bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := repo.DecreaseStockIfEnough(ctx, p.ID, 1)
			assert.NoError(t, err)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, ok := range results {
		if ok {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one decrement should win")

	var after model.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, int64(0), after.Stock)
}

func TestDecreaseStockIfEnough_Sufficient(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryGormRepository(db)
	ctx := context.Background()

	p := createTestProduct(t, db, 5)

	ok, err := repo.DecreaseStockIfEnough(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	var after model.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, int64(2), after.Stock)
}

func TestIncreaseStock(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryGormRepository(db)
	ctx := context.Background()

	p := createTestProduct(t, db, 2)

	require.NoError(t, repo.IncreaseStock(ctx, p.ID, 3))

	var after model.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, int64(5), after.Stock)
}

package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database with foreign keys
// enforced. One connection keeps every query on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

type fixture struct {
	alice, bob *models.User
	italian    *models.Cuisine
	dessert    *models.Category
	pasta      *models.Meal
	rockCakes  *models.Meal
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{
		alice:   &models.User{Username: "alice", Email: "alice@example.com", Location: "Boston", Password: "hash"},
		bob:     &models.User{Username: "bob", Email: "bob@example.com", Location: "Denver", Password: "hash"},
		italian: &models.Cuisine{Name: "Italian", Image: "italian.png"},
		dessert: &models.Category{Name: "Dessert", Image: "dessert.png"},
	}
	users := NewPostgresUserRepository(db)
	require.NoError(t, users.CreateUser(ctx, f.alice))
	require.NoError(t, users.CreateUser(ctx, f.bob))
	require.NoError(t, db.Create(f.italian).Error)
	require.NoError(t, db.Create(f.dessert).Error)

	f.pasta = &models.Meal{Name: "Spaghetti Carbonara", CuisineID: f.italian.ID, CategoryID: f.dessert.ID}
	f.rockCakes = &models.Meal{Name: "Rock Cakes", CuisineID: f.italian.ID, CategoryID: f.dessert.ID}
	require.NoError(t, db.Create(f.pasta).Error)
	require.NoError(t, db.Create(f.rockCakes).Error)
	return f
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

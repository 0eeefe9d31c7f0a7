package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"gorm.io/gorm"
)

// CatalogRepository gives read access to cuisines, categories and meals, and
// bulk loading for the seeder.
type CatalogRepository interface {
	ListCuisines(ctx context.Context) ([]models.Cuisine, error)
	GetCuisineByID(ctx context.Context, id uint) (*models.Cuisine, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	ListMeals(ctx context.Context, search string) ([]models.Meal, error)
	GetMealByID(ctx context.Context, id uint) (*models.Meal, error)
	GetMealByName(ctx context.Context, name string) (*models.Meal, error)
	LoadCatalog(ctx context.Context, cuisines []models.Cuisine, categories []models.Category, meals []models.Meal) error
}

// PostgresCatalogRepository implements CatalogRepository
type PostgresCatalogRepository struct {
	db *gorm.DB
}

// NewPostgresCatalogRepository creates a new PostgresCatalogRepository
func NewPostgresCatalogRepository(db *gorm.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

func (r *PostgresCatalogRepository) ListCuisines(ctx context.Context) ([]models.Cuisine, error) {
	var cuisines []models.Cuisine
	err := r.db.WithContext(ctx).Order("name").Find(&cuisines).Error
	return cuisines, err
}

func (r *PostgresCatalogRepository) GetCuisineByID(ctx context.Context, id uint) (*models.Cuisine, error) {
	var cuisine models.Cuisine
	if err := r.db.WithContext(ctx).First(&cuisine, id).Error; err != nil {
		return nil, classify(err)
	}
	return &cuisine, nil
}

func (r *PostgresCatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (r *PostgresCatalogRepository) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, classify(err)
	}
	return &category, nil
}

// ListMeals returns every meal, or those whose name contains search
// (case-insensitive) when search is not blank.
func (r *PostgresCatalogRepository) ListMeals(ctx context.Context, search string) ([]models.Meal, error) {
	var meals []models.Meal
	q := r.db.WithContext(ctx).Order("name")
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}
	err := q.Find(&meals).Error
	return meals, err
}

func (r *PostgresCatalogRepository) GetMealByID(ctx context.Context, id uint) (*models.Meal, error) {
	var meal models.Meal
	if err := r.db.WithContext(ctx).First(&meal, id).Error; err != nil {
		return nil, classify(err)
	}
	return &meal, nil
}

// GetMealByName matches the recipe API's meal title exactly.
func (r *PostgresCatalogRepository) GetMealByName(ctx context.Context, name string) (*models.Meal, error) {
	var meal models.Meal
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&meal).Error; err != nil {
		return nil, classify(err)
	}
	return &meal, nil
}

// LoadCatalog inserts the three catalog tables in one transaction, parents first.
func (r *PostgresCatalogRepository) LoadCatalog(ctx context.Context, cuisines []models.Cuisine, categories []models.Category, meals []models.Meal) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(cuisines) > 0 {
			if err := tx.CreateInBatches(&cuisines, 100).Error; err != nil {
				return err
			}
		}
		if len(categories) > 0 {
			if err := tx.CreateInBatches(&categories, 100).Error; err != nil {
				return err
			}
		}
		if len(meals) > 0 {
			if err := tx.CreateInBatches(&meals, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return classify(err)
}

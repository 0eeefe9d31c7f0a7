// Package seed loads the meal catalog (cuisines, categories and meals) from
// CSV files into the database.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"gorm.io/gorm"
)

// File names looked up in the seed directory.
const (
	CuisinesFile   = "cuisines.csv"
	CategoriesFile = "categories.csv"
	MealsFile      = "meals.csv"
)

// Catalog is the parsed content of the three seed files.
type Catalog struct {
	Cuisines   []models.Cuisine
	Categories []models.Category
	Meals      []models.Meal
}

// ReadDir parses the seed files in dir.
func ReadDir(dir string) (*Catalog, error) {
	var catalog Catalog
	var err error
	if catalog.Cuisines, err = readFile(filepath.Join(dir, CuisinesFile), ReadCuisines); err != nil {
		return nil, err
	}
	if catalog.Categories, err = readFile(filepath.Join(dir, CategoriesFile), ReadCategories); err != nil {
		return nil, err
	}
	if catalog.Meals, err = readFile(filepath.Join(dir, MealsFile), ReadMeals); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func readFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// ReadCuisines parses rows with cuisine_id, cuisine_name and cuisine_image columns.
func ReadCuisines(r io.Reader) ([]models.Cuisine, error) {
	var out []models.Cuisine
	err := eachRow(r, []string{"cuisine_id", "cuisine_name", "cuisine_image"}, func(row record) error {
		id, err := row.id("cuisine_id")
		if err != nil {
			return err
		}
		out = append(out, models.Cuisine{ID: id, Name: row.get("cuisine_name"), Image: row.get("cuisine_image")})
		return nil
	})
	return out, err
}

// ReadCategories parses rows with category_id, category_name and category_image columns.
func ReadCategories(r io.Reader) ([]models.Category, error) {
	var out []models.Category
	err := eachRow(r, []string{"category_id", "category_name", "category_image"}, func(row record) error {
		id, err := row.id("category_id")
		if err != nil {
			return err
		}
		out = append(out, models.Category{ID: id, Name: row.get("category_name"), Image: row.get("category_image")})
		return nil
	})
	return out, err
}

// ReadMeals parses rows with id, meal_name, cuisine_id, category_id and an
// optional image_url column.
func ReadMeals(r io.Reader) ([]models.Meal, error) {
	var out []models.Meal
	err := eachRow(r, []string{"id", "meal_name", "cuisine_id", "category_id"}, func(row record) error {
		meal := models.Meal{Name: row.get("meal_name"), ImageURL: row.get("image_url")}
		var err error
		if meal.ID, err = row.id("id"); err != nil {
			return err
		}
		if meal.CuisineID, err = row.id("cuisine_id"); err != nil {
			return err
		}
		if meal.CategoryID, err = row.id("category_id"); err != nil {
			return err
		}
		out = append(out, meal)
		return nil
	})
	return out, err
}

// record is one CSV row addressed by header name.
type record struct {
	line   int
	index  map[string]int
	fields []string
}

func (r record) get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) id(column string) (uint, error) {
	v, err := strconv.ParseUint(r.get(column), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: column %s: %w", r.line, column, err)
	}
	return uint(v), nil
}

func eachRow(r io.Reader, required []string, fn func(record) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return errors.New("missing header")
	}
	if err != nil {
		return err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("missing column %q", col)
		}
	}

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		if err := fn(record{line: line, index: index, fields: fields}); err != nil {
			return err
		}
	}
}

// Load inserts the catalog in one transaction.
func Load(ctx context.Context, repo repositories.CatalogRepository, catalog *Catalog) error {
	if err := repo.LoadCatalog(ctx, catalog.Cuisines, catalog.Categories, catalog.Meals); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info(ctx).
		Int("cuisines", len(catalog.Cuisines)).
		Int("categories", len(catalog.Categories)).
		Int("meals", len(catalog.Meals)).
		Msg("catalog seeded")
	return nil
}

// Reset drops every table and recreates the schema.
func Reset(ctx context.Context, db *gorm.DB) error {
	tables := models.All()
	dropOrder := slices.Clone(tables)
	slices.Reverse(dropOrder)

	if err := db.WithContext(ctx).Migrator().DropTable(dropOrder...); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(tables...); err != nil {
		return fmt.Errorf("recreate tables: %w", err)
	}
	logger.Info(ctx).Msg("schema reset")
	return nil
}

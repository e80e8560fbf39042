package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/model"
	"storefront/internal/repository"
)

type seedProduct struct {
	Name         string
	Description  string
	Price        string
	CategorySlug string
	StockQty     uint
	ImageURL     string
}

var seedCategories = []model.Category{
	{Name: "Electronics", Slug: "electronics"},
	{Name: "Books", Slug: "books"},
	{Name: "Home & Garden", Slug: "home-garden"},
}

var seedProducts = []seedProduct{
	{Name: "Wireless Headphones", Description: "Over-ear, 30h battery", Price: "89.99", CategorySlug: "electronics", StockQty: 24, ImageURL: "https://example.com/img/headphones.jpg"},
	{Name: "USB-C Charger 65W", Description: "GaN fast charger", Price: "34.50", CategorySlug: "electronics", StockQty: 120},
	{Name: "The Go Programming Language", Description: "Donovan & Kernighan", Price: "42.00", CategorySlug: "books", StockQty: 15},
	{Name: "Ceramic Plant Pot", Description: "20cm, matte white", Price: "12.90", CategorySlug: "home-garden", StockQty: 0},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Category{}, &model.Product{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	if err := seedAdmin(ctx, userRepo); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	created, err := seedCatalog(ctx, categoryRepo, productRepo)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Catalog rows created: %d", created)
}

// seedAdmin ensures a staff user exists. The password comes from
// ADMIN_PASSWORD, defaulting for local development only.
func seedAdmin(ctx context.Context, repo repository.UserRepository) error {
	username := getenvDefault("ADMIN_USERNAME", "admin")
	password := getenvDefault("ADMIN_PASSWORD", "admin-password")

	existing, err := repo.FindByUsername(ctx, username)
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil && err == nil {
		log.Printf("Admin user %q already exists, skipping", username)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Username:     username,
		Email:        getenvDefault("ADMIN_EMAIL", "admin@example.com"),
		PasswordHash: string(hash),
		IsStaff:      true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("Created admin user %q", username)
	return nil
}

// seedCatalog creates demo categories and products, skipping rows whose
// unique keys already exist.
func seedCatalog(ctx context.Context, categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) (int, error) {
	created := 0
	categoriesBySlug := make(map[string]*model.Category, len(seedCategories))

	for i := range seedCategories {
		category := seedCategories[i]
		existing, err := categoryRepo.FindBySlug(ctx, category.Slug)
		if err != nil && err != gorm.ErrRecordNotFound {
			return created, fmt.Errorf("check category %q: %w", category.Slug, err)
		}
		if existing != nil && err == nil {
			categoriesBySlug[category.Slug] = existing
			continue
		}
		if err := categoryRepo.Create(ctx, &category); err != nil {
			return created, fmt.Errorf("create category %q: %w", category.Slug, err)
		}
		categoriesBySlug[category.Slug] = &category
		created++
	}

	for _, item := range seedProducts {
		category, ok := categoriesBySlug[item.CategorySlug]
		if !ok {
			return created, fmt.Errorf("unknown category slug %q", item.CategorySlug)
		}

		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return created, fmt.Errorf("invalid price for %q: %w", item.Name, err)
		}

		// Skip products that are already seeded under the same name.
		existing, err := productRepo.List(ctx, repository.ProductFilter{Search: item.Name})
		if err != nil {
			return created, fmt.Errorf("check product %q: %w", item.Name, err)
		}
		if len(existing) > 0 {
			continue
		}

		product := &model.Product{
			Name:        item.Name,
			Description: item.Description,
			Price:       price,
			CategoryID:  category.ID,
			StockQty:    item.StockQty,
			ImageURL:    item.ImageURL,
			IsActive:    true,
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return created, fmt.Errorf("create product %q: %w", item.Name, err)
		}
		created++
	}

	return created, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

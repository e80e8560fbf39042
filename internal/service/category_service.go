package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storefront/internal/cache"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const categoryCacheTTL = 5 * time.Minute

// UpdateCategoryParams carries the updatable category fields. Nil means unchanged.
type UpdateCategoryParams struct {
	Name *string
	Slug *string
}

// CategoryService exposes category management operations.
type CategoryService interface {
	ListCategories(ctx context.Context, filter repository.CategoryFilter) ([]model.Category, error)
	GetCategory(ctx context.Context, id uint) (*model.Category, error)
	CreateCategory(ctx context.Context, name, slug string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, params UpdateCategoryParams) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache *cache.Client
}

// NewCategoryService builds a CategoryService with repository and cache.
func NewCategoryService(repo repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{repo: repo, cache: cache}
}

func (s *categoryService) cacheKey(id uint) string {
	return fmt.Sprintf("category:%d", id)
}

func (s *categoryService) ListCategories(ctx context.Context, filter repository.CategoryFilter) ([]model.Category, error) {
	return s.repo.List(ctx, filter)
}

// GetCategory retrieves a category by ID with caching.
func (s *categoryService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(category); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, categoryCacheTTL)
	}
	return category, nil
}

// CreateCategory creates a category after enforcing name and slug uniqueness.
func (s *categoryService) CreateCategory(ctx context.Context, name, slug string) (*model.Category, error) {
	if err := s.checkNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	if err := s.checkSlugFree(ctx, slug, 0); err != nil {
		return nil, err
	}

	category := &model.Category{Name: name, Slug: slug}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, params UpdateCategoryParams) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, err
	}

	if params.Name != nil && *params.Name != category.Name {
		if err := s.checkNameFree(ctx, *params.Name, id); err != nil {
			return nil, err
		}
		category.Name = *params.Name
	}
	if params.Slug != nil && *params.Slug != category.Slug {
		if err := s.checkSlugFree(ctx, *params.Slug, id); err != nil {
			return nil, err
		}
		category.Slug = *params.Slug
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return category, nil
}

// DeleteCategory removes a category. The delete is refused while any product
// still references it.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("count category products: %w", err)
	}
	if count > 0 {
		return errors.ErrCategoryInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCategoryNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *categoryService) checkNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err == nil && existing != nil && existing.ID != selfID {
		return errors.NewValidationError("name", "a category with that name already exists")
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check category name: %w", err)
	}
	return nil
}

func (s *categoryService) checkSlugFree(ctx context.Context, slug string, selfID uint) error {
	existing, err := s.repo.FindBySlug(ctx, slug)
	if err == nil && existing != nil && existing.ID != selfID {
		return errors.NewValidationError("slug", "a category with that slug already exists")
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check category slug: %w", err)
	}
	return nil
}

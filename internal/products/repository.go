package products

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"boardshop/internal/models"
)

var ErrNotFound = errors.New("product not found")

// Result is one page of products plus the number of rows matching the filters.
type Result struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the page described by q. Count and page are read in one transaction.
func (r *Repository) List(ctx context.Context, q Query) (*Result, error) {
	q = q.Normalize()
	res := &Result{Items: []models.Product{}}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Scopes(q.filters).Count(&res.Total).Error; err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		if res.Total == 0 {
			return nil
		}
		err := tx.Scopes(q.filters).
			Order(q.orderBy()).
			Limit(q.Limit).
			Offset(q.Offset).
			Find(&res.Items).Error
		if err != nil {
			return fmt.Errorf("failed to query products: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Get loads one product by id.
func (r *Repository) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product %d: %w", id, err)
	}
	return &p, nil
}

func (q Query) filters(db *gorm.DB) *gorm.DB {
	if cats := splitList(q.Categories); len(cats) > 0 {
		db = db.Where("category IN ?", cats)
	}
	if subs := splitList(q.Subcategories); len(subs) > 0 {
		db = db.Where("subcategory IN ?", subs)
	}
	lo, hi := q.priceBounds()
	if lo != nil {
		db = db.Where("price_cents >= ?", *lo)
	}
	if hi != nil {
		db = db.Where("price_cents <= ?", *hi)
	}
	return db
}

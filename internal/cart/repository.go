package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boardshop/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID returns the cart row, or nil when there is none.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Cart, error) {
	var c models.Cart
	err := r.db.WithContext(ctx).Select("id", "items", "closed").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cart %d: %w", id, err)
	}
	return &c, nil
}

// AddItem puts item into cart cartID. A new cart is created when cartID is 0
// or points at a missing or closed cart, so callers must re-set the cookie
// from the returned cart's ID.
func (r *Repository) AddItem(ctx context.Context, cartID uint, item models.CartItem) (*models.Cart, error) {
	var out *models.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadProduct(tx, item.ProductID)
		if err != nil {
			return err
		}
		if !p.InStock() {
			return ErrOutOfStock
		}
		c, err := openCart(tx, cartID)
		if err != nil {
			return err
		}
		item.Subcategory = p.Subcategory
		c.Add(item)
		if err := tx.Save(c).Error; err != nil {
			return fmt.Errorf("failed to save cart: %w", err)
		}
		out = c
		return nil
	})
	return out, err
}

// RemoveItems drops the given products from the cart.
func (r *Repository) RemoveItems(ctx context.Context, cartID uint, productIDs ...uint) (*models.Cart, error) {
	var out *models.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Cart
		err := forUpdate(tx).First(&c, cartID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to query cart %d: %w", cartID, err)
		}
		if c.Remove(productIDs...) > 0 {
			if err := tx.Save(&c).Error; err != nil {
				return fmt.Errorf("failed to save cart: %w", err)
			}
		}
		out = &c
		return nil
	})
	return out, err
}

// ToggleResult describes what ToggleBoardPart changed.
type ToggleResult struct {
	Cart     *models.Cart
	Product  models.Product
	Added    bool
	Replaced []uint // parts of the same subcategory taken out to make room
}

// ToggleBoardPart removes productID from the cart when present. Otherwise the
// product is added with quantity 1 after every other cart item of its
// subcategory is removed, so a board holds one part per subcategory.
func (r *Repository) ToggleBoardPart(ctx context.Context, cartID, productID uint) (*ToggleResult, error) {
	var out *ToggleResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadProduct(tx, productID)
		if err != nil {
			return err
		}
		c, err := openCart(tx, cartID)
		if err != nil {
			return err
		}
		res := &ToggleResult{Cart: c, Product: *p}

		if c.Has(p.ID) {
			c.Remove(p.ID)
		} else {
			if !p.InStock() {
				return ErrOutOfStock
			}
			siblings, err := sameSubcategory(tx, c, p)
			if err != nil {
				return err
			}
			c.Remove(siblings...)
			c.Add(models.CartItem{ProductID: p.ID, Quantity: 1, Subcategory: p.Subcategory})
			res.Added = true
			res.Replaced = siblings
		}

		if err := tx.Save(c).Error; err != nil {
			return fmt.Errorf("failed to save cart: %w", err)
		}
		out = res
		return nil
	})
	return out, err
}

func loadProduct(tx *gorm.DB, id uint) (*models.Product, error) {
	var p models.Product
	err := tx.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product %d: %w", id, err)
	}
	return &p, nil
}

// forUpdate locks the selected cart row until the transaction ends, so
// concurrent writers of one cart apply in turn. SQLite ignores the clause.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// openCart loads an open cart or returns a fresh unsaved one.
func openCart(tx *gorm.DB, id uint) (*models.Cart, error) {
	if id == 0 {
		return &models.Cart{Items: []models.CartItem{}}, nil
	}
	var c models.Cart
	err := forUpdate(tx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cart %d: %w", id, err)
	}
	if c.Closed {
		return &models.Cart{Items: []models.CartItem{}}, nil
	}
	return &c, nil
}

// sameSubcategory finds cart products sharing p's subcategory, other than p itself.
func sameSubcategory(tx *gorm.DB, c *models.Cart, p *models.Product) ([]uint, error) {
	ids := ProductIDs(c)
	if len(ids) == 0 || p.Subcategory == "" {
		return nil, nil
	}
	var out []uint
	err := tx.Model(&models.Product{}).
		Where("id IN ? AND subcategory = ? AND id <> ?", ids, p.Subcategory, p.ID).
		Order("id").
		Pluck("id", &out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query cart parts: %w", err)
	}
	return out, nil
}

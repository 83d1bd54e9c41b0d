package products

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"boardshop/internal/models"
)

type sampleLine struct {
	subcategory string
	names       []string
	basePrice   int // cents
}

var sampleLines = []sampleLine{
	{"decks", []string{"Street Deck 8.0", "Street Deck 8.25", "Pool Deck 8.5", "Cruiser Deck 9.0", "Pro Model Deck", "Popsicle Deck 7.75", "Shaped Deck 8.6", "Blank Deck 8.125", "Team Deck 8.38", "Mini Deck 7.3"}, 5999},
	{"wheels", []string{"Classic 52mm 99a", "Classic 54mm 101a", "Conical 53mm", "Soft 56mm 78a", "Park 55mm 100a", "Street 51mm 99a"}, 3499},
	{"trucks", []string{"Standard Hollow 139", "Standard Hollow 149", "Low 144", "Forged Ti 149", "Mid 159"}, 5499},
	{"bearings", []string{"ABEC 5", "ABEC 7", "Swiss", "Ceramic", "Built-in"}, 1999},
	{"griptape", []string{"Black Sheet", "Clear Sheet", "Pattern Sheet", "Coarse Sheet"}, 999},
	{"hardware", []string{"Allen 7/8", "Phillips 1", "Colored Bolts 1", "Riser Bolts 1 1/4"}, 499},
	{"tools", []string{"Y-Tool", "T-Tool", "Bearing Press"}, 1499},
}

// SampleCatalog builds a deterministic set of skateboard parts for local runs.
func SampleCatalog(now time.Time) []models.Product {
	var out []models.Product
	n := 0
	for _, line := range sampleLines {
		for i, name := range line.names {
			n++
			out = append(out, models.Product{
				Base:        models.Base{CreatedAt: now.Add(-time.Duration(n) * time.Hour)},
				Name:        name,
				Description: fmt.Sprintf("%s for your next board.", name),
				Category:    models.CategorySkateboards,
				Subcategory: line.subcategory,
				PriceCents:  line.basePrice + i*500,
				Inventory:   (n * 7) % 25,
				Rating:      n % 6,
			})
		}
	}
	return out
}

// Seed inserts SampleCatalog when the products table is empty. It returns the number of rows inserted.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	items := SampleCatalog(now)
	if err := db.WithContext(ctx).CreateInBatches(&items, 50).Error; err != nil {
		return 0, fmt.Errorf("insert sample products: %w", err)
	}
	return len(items), nil
}

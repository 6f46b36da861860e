package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/transport"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func sortClause(sort string) string {
	switch sort {
	case transport.SortPriceAsc:
		return "price ASC"
	case transport.SortPriceDesc:
		return "price DESC"
	case transport.SortName:
		return "model ASC"
	default:
		return "display_order ASC"
	}
}

func (r *GormRepo) ListProducts(ctx context.Context, f transport.ProductFilter) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})

	if f.Category != "" && f.Category != "all" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		q = q.Where(`(LOWER(model) LIKE ? ESCAPE '\' OR LOWER(COALESCE(current_color, '')) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	items := make([]models.Product, 0)
	if err := q.Order(sortClause(f.Sort)).Order("product_id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("product_id = ?", productID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProducts resolves ids in one query; unknown ids are absent from the map.
func (r *GormRepo) FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("product_id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, p := range items {
		out[p.ProductID] = p
	}
	return out, nil
}

func (r *GormRepo) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where("is_featured = ?", true).
		Order("price DESC").
		Order("product_id ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) Categories(ctx context.Context) ([]transport.CategoryCount, error) {
	out := make([]transport.CategoryCount, 0)
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Select("COALESCE(category, '') AS name, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Order("name ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Variants returns color and memory labels per product id in insertion order.
// Duplicates are kept; callers dedupe.
func (r *GormRepo) Variants(ctx context.Context, ids []string) (map[string][]string, map[string][]string, error) {
	colors := make(map[string][]string)
	memory := make(map[string][]string)
	if len(ids) == 0 {
		return colors, memory, nil
	}

	var colorRows []models.ProductColor
	if err := r.DB.WithContext(ctx).Where("product_id IN ?", ids).Order("id ASC").Find(&colorRows).Error; err != nil {
		return nil, nil, err
	}
	for _, c := range colorRows {
		colors[c.ProductID] = append(colors[c.ProductID], c.ColorName)
	}

	var memoryRows []models.ProductMemory
	if err := r.DB.WithContext(ctx).Where("product_id IN ?", ids).Order("id ASC").Find(&memoryRows).Error; err != nil {
		return nil, nil, err
	}
	for _, m := range memoryRows {
		memory[m.ProductID] = append(memory[m.ProductID], m.MemorySize)
	}

	return colors, memory, nil
}

// UpsertProduct inserts or replaces a product by product_id together with its
// variant rows. Used by the catalog loader only.
func (r *GormRepo) UpsertProduct(ctx context.Context, p *models.Product, colors, memory []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"model", "price", "currency", "old_price", "current_color", "current_memory",
				"current_sim", "image_url", "product_url", "parsed_at", "category",
				"is_featured", "display_order",
			}),
		}).Create(p).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", p.ProductID).Delete(&models.ProductColor{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", p.ProductID).Delete(&models.ProductMemory{}).Error; err != nil {
			return err
		}

		if len(colors) > 0 {
			rows := make([]models.ProductColor, 0, len(colors))
			for _, c := range colors {
				rows = append(rows, models.ProductColor{ProductID: p.ProductID, ColorName: c})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if len(memory) > 0 {
			rows := make([]models.ProductMemory, 0, len(memory))
			for _, m := range memory {
				rows = append(rows, models.ProductMemory{ProductID: p.ProductID, MemorySize: m})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Package loader fills the catalog tables from YAML seed files and builds
// search documents from them.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/repo"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/search"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/transport"
	"gopkg.in/yaml.v3"
)

var ErrInvalidItem = errors.New("invalid catalog item")

type Item struct {
	ProductID     string   `yaml:"product_id"`
	Model         string   `yaml:"model"`
	Price         int64    `yaml:"price"`
	Currency      string   `yaml:"currency"`
	OldPrice      *int64   `yaml:"old_price"`
	CurrentColor  string   `yaml:"current_color"`
	CurrentMemory string   `yaml:"current_memory"`
	CurrentSim    string   `yaml:"current_sim"`
	ImageURL      string   `yaml:"image_url"`
	ProductURL    string   `yaml:"product_url"`
	Category      string   `yaml:"category"`
	Featured      bool     `yaml:"featured"`
	DisplayOrder  int      `yaml:"display_order"`
	Colors        []string `yaml:"colors"`
	Memory        []string `yaml:"memory"`
}

type File struct {
	Products []Item `yaml:"products"`
}

// Parse decodes a seed file and checks every item has an id, a model and a
// non-negative price. Duplicate ids are rejected.
func Parse(r io.Reader) ([]Item, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Products))
	for i, it := range f.Products {
		it.ProductID = strings.TrimSpace(it.ProductID)
		switch {
		case it.ProductID == "":
			return nil, fmt.Errorf("%w: #%d: product_id is empty", ErrInvalidItem, i)
		case strings.TrimSpace(it.Model) == "":
			return nil, fmt.Errorf("%w: %s: model is empty", ErrInvalidItem, it.ProductID)
		case it.Price < 0:
			return nil, fmt.Errorf("%w: %s: negative price", ErrInvalidItem, it.ProductID)
		}
		if _, dup := seen[it.ProductID]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate product_id", ErrInvalidItem, it.ProductID)
		}
		seen[it.ProductID] = struct{}{}
		f.Products[i] = it
	}
	return f.Products, nil
}

func (it Item) product(parsedAt time.Time) *models.Product {
	currency := it.Currency
	if currency == "" {
		currency = "RUB"
	}
	return &models.Product{
		ProductID:     it.ProductID,
		Model:         it.Model,
		Price:         it.Price,
		Currency:      currency,
		OldPrice:      it.OldPrice,
		CurrentColor:  it.CurrentColor,
		CurrentMemory: it.CurrentMemory,
		CurrentSim:    it.CurrentSim,
		ImageURL:      it.ImageURL,
		ProductURL:    it.ProductURL,
		ParsedAt:      &parsedAt,
		Category:      it.Category,
		IsFeatured:    it.Featured,
		DisplayOrder:  it.DisplayOrder,
	}
}

// Apply upserts items by product id and returns how many were written.
func Apply(ctx context.Context, r *repo.GormRepo, items []Item) (int, error) {
	now := time.Now().UTC()
	for i, it := range items {
		if err := r.UpsertProduct(ctx, it.product(now), it.Colors, it.Memory); err != nil {
			return i, fmt.Errorf("upsert %s: %w", it.ProductID, err)
		}
	}
	return len(items), nil
}

// Documents reads the whole catalog with its variants as search documents.
func Documents(ctx context.Context, r *repo.GormRepo) ([]search.Document, error) {
	products, err := r.ListProducts(ctx, transport.ProductFilter{})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ProductID)
	}
	colors, memory, err := r.Variants(ctx, ids)
	if err != nil {
		return nil, err
	}

	docs := make([]search.Document, 0, len(products))
	for _, p := range products {
		docs = append(docs, search.Document{
			ProductID:    p.ProductID,
			Model:        p.Model,
			Category:     p.Category,
			CurrentColor: p.CurrentColor,
			Colors:       colors[p.ProductID],
			Memory:       memory[p.ProductID],
			Price:        p.Price,
		})
	}
	return docs, nil
}

package repo

import (
	"context"
	"testing"

	"github.com/Skotchmaster/tonstore/pkg/db"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	gdb, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, Migrate(gdb))
	return &GormRepo{DB: gdb}
}

func seedProduct(t *testing.T, r *GormRepo, p models.Product, colors, memory []string) {
	t.Helper()
	require.NoError(t, r.UpsertProduct(context.Background(), &p, colors, memory))
}

func seedCatalog(t *testing.T, r *GormRepo) {
	t.Helper()
	seedProduct(t, r, models.Product{ProductID: "ip14", Model: "iPhone 14", Price: 70000, Category: "iPhone 14", CurrentColor: "Midnight", DisplayOrder: 3}, []string{"Midnight", "Starlight", "Midnight"}, []string{"128GB", "256GB"})
	seedProduct(t, r, models.Product{ProductID: "ip14p", Model: "iPhone 14 Pro", Price: 95000, Category: "iPhone 14", CurrentColor: "Deep Purple", DisplayOrder: 1, IsFeatured: true}, []string{"Deep Purple", "Gold"}, nil)
	seedProduct(t, r, models.Product{ProductID: "ip15", Model: "iPhone 15", Price: 80000, Category: "iPhone 15", CurrentColor: "Pink", DisplayOrder: 2, IsFeatured: true}, nil, nil)
	seedProduct(t, r, models.Product{ProductID: "se", Model: "iPhone SE", Price: 40000, Category: "iPhone SE", CurrentColor: "Red", DisplayOrder: 4}, nil, []string{"64GB"})
}

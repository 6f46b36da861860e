package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Skotchmaster/tonstore/pkg/db"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/events"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/repo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	gdb, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, repo.Migrate(gdb))

	r := &repo.GormRepo{DB: gdb}
	ctx := context.Background()
	require.NoError(t, r.UpsertProduct(ctx, &models.Product{ProductID: "A", Model: "iPhone 15 Pro Max Natural Titanium 1TB", Price: 1000, Category: "iPhone 15", CurrentColor: "Natural", CurrentMemory: "1TB", DisplayOrder: 1}, []string{"Natural", "Blue", "Natural"}, nil))
	require.NoError(t, r.UpsertProduct(ctx, &models.Product{ProductID: "B", Model: "iPhone 15", Price: 500, Category: "iPhone 15", CurrentColor: "Pink", DisplayOrder: 2}, nil, []string{"128GB", "256GB", "128GB"}))
	require.NoError(t, r.UpsertProduct(ctx, &models.Product{ProductID: "C", Model: "iPhone 14 Pro", Price: 129990, Category: "iPhone 14", DisplayOrder: 3, IsFeatured: true}, nil, nil))
	return r
}

func orderCount(t *testing.T, r *repo.GormRepo) int64 {
	t.Helper()
	n, err := r.CountOrders(context.Background())
	require.NoError(t, err)
	return n
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCharge(ctx context.Context, req payments.ChargeRequest) (*payments.Charge, error) {
	args := m.Called(ctx, req)
	ch, _ := args.Get(0).(*payments.Charge)
	return ch, args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := event.(events.OrderEvent); ok && topic == events.TopicOrderEvents {
		p.events = append(p.events, ev)
	}
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

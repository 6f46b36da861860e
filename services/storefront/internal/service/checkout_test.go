package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/cart"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/events"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func statusURL(id uint) string { return fmt.Sprintf("http://shop/order_status/%d", id) }

func TestCheckout_EmptyCartCreatesNothing(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	gw := &mockGateway{}
	svc := &CheckoutService{Repo: r, Gateway: gw, Events: &recordingPublisher{}}

	for _, items := range []cart.Cart{{}, {"gone": 3}} {
		_, err := svc.Checkout(context.Background(), CheckoutRequest{Mode: CheckoutCart, Items: items, RedirectURLFor: statusURL})
		assert.ErrorIs(t, err, ErrEmptyCart)
	}

	assert.Zero(t, orderCount(t, r))
	gw.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything)
}

func TestCheckout_PaymentsUnavailable(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}

	_, err := svc.Checkout(context.Background(), CheckoutRequest{Mode: CheckoutCart, Items: cart.Cart{"A": 1}})
	assert.ErrorIs(t, err, payments.ErrUnavailable)
	assert.False(t, svc.Enabled())
	assert.Zero(t, orderCount(t, r))
}

func TestCheckout_CartTotalsAndPending(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	gw := &mockGateway{}
	pub := &recordingPublisher{}
	svc := &CheckoutService{Repo: r, Gateway: gw, Events: pub, StoreName: "TonStore", Currency: "RUB"}
	ctx := context.Background()

	var statusDuringCall models.OrderStatus
	gw.On("CreateCharge", mock.Anything, mock.MatchedBy(func(req payments.ChargeRequest) bool {
		return req.Amount.IntPart() == 2500 && req.Currency == "RUB"
	})).Run(func(args mock.Arguments) {
		req := args.Get(1).(payments.ChargeRequest)
		o, err := r.GetOrder(ctx, 1)
		require.NoError(t, err)
		statusDuringCall = o.Status

		assert.Equal(t, "Your Order #1 from TonStore", req.Name)
		assert.Equal(t, "iPhone 15 Pro Max Natural Titanium 1TB (x2), iPhone 15 (x1)", req.Description)
		assert.Equal(t, "1", req.Metadata["order_id"])
		assert.JSONEq(t, `{"A":2,"B":1,"gone":1}`, req.Metadata["cart_items"])
		assert.Equal(t, "http://shop/order_status/1", req.RedirectURL)
		assert.Equal(t, "http://shop/cart", req.CancelURL)
	}).Return(&payments.Charge{Code: "CODE1", HostedURL: "https://pay/CODE1"}, nil).Once()

	res, err := svc.Checkout(ctx, CheckoutRequest{
		Mode:           CheckoutCart,
		Items:          cart.Cart{"A": 2, "B": 1, "gone": 1},
		RedirectURLFor: statusURL,
		CancelURL:      "http://shop/cart",
	})
	require.NoError(t, err)
	gw.AssertExpectations(t)

	assert.EqualValues(t, 1, res.OrderID)
	assert.Equal(t, "https://pay/CODE1", res.HostedURL)
	assert.Equal(t, models.OrderStatusNew, statusDuringCall)
	assert.EqualValues(t, 1, orderCount(t, r))

	o, err := r.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	assert.EqualValues(t, 2500, o.Price)
	assert.Equal(t, "A,B", o.ProductID)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	require.NotNil(t, o.ChargeCode)
	assert.Equal(t, "CODE1", *o.ChargeCode)
	require.Len(t, o.Items, 2)
	assert.EqualValues(t, 1000, o.Items[0].UnitPrice)
	assert.Equal(t, 2, o.Items[0].Quantity)

	assert.Equal(t, []string{events.TypeOrderCreated, events.TypeOrderPending}, pub.types())
}

func TestCheckout_SingleItemNaming(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	gw := &mockGateway{}
	svc := &CheckoutService{Repo: r, Gateway: gw}

	gw.On("CreateCharge", mock.Anything, mock.MatchedBy(func(req payments.ChargeRequest) bool {
		return req.Name == "iPhone 15" &&
			req.Description == "Order #1" &&
			req.Metadata["product_id"] == "B" &&
			req.Metadata["cart_items"] == "" &&
			req.Amount.String() == "500"
	})).Return(&payments.Charge{Code: "C", HostedURL: "https://pay/C"}, nil).Once()

	res, err := svc.Checkout(context.Background(), CheckoutRequest{
		Mode:           CheckoutSingle,
		Items:          cart.Cart{"B": 1},
		RedirectURLFor: statusURL,
		CancelURL:      "http://shop/product/B",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay/C", res.HostedURL)
	gw.AssertExpectations(t)

	o, err := r.GetOrder(context.Background(), res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "B", o.ProductID)
}

func TestCheckout_ProcessorFailureLeavesOrderNew(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	gw := &mockGateway{}
	svc := &CheckoutService{Repo: r, Gateway: gw}
	ctx := context.Background()

	gw.On("CreateCharge", mock.Anything, mock.Anything).Return(nil, errors.New("status 401")).Once()

	res, err := svc.Checkout(ctx, CheckoutRequest{Mode: CheckoutSingle, Items: cart.Cart{"A": 1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProcessor)
	assert.Contains(t, err.Error(), "status 401")
	require.NotNil(t, res)

	o, err := r.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusNew, o.Status)
	assert.Nil(t, o.ChargeCode)
	gw.AssertNumberOfCalls(t, "CreateCharge", 1)
}

package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type checkoutFixture struct {
	uc         *usecase.CheckoutUsecase
	txm        *TxManagerMock
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	products   *ProductRepoMock
	coupons    *CouponRepoMock
	carts      *CartRepoMock
}

func newCheckoutFixture() *checkoutFixture {
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	products := new(ProductRepoMock)
	coupons := new(CouponRepoMock)
	carts := new(CartRepoMock)

	txm := &TxManagerMock{Repos: &TxReposMock{
		orders:     orders,
		orderItems: orderItems,
		products:   products,
		coupons:    coupons,
	}}

	return &checkoutFixture{
		uc:         usecase.NewCheckoutUsecase(txm, carts, coupons),
		txm:        txm,
		orders:     orders,
		orderItems: orderItems,
		products:   products,
		coupons:    coupons,
		carts:      carts,
	}
}

func validInput() usecase.SubmitOrderInput {
	return usecase.SubmitOrderInput{
		Name:    "Yasmine Alaoui",
		Phone:   "0612345678",
		City:    "Casablanca",
		Address: "12 rue des Orangers, Maarif",
	}
}

func assertHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
		assert.Equal(t, message, he.Message)
	}
}

func TestSubmitOrder_Success(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	items := []model.CartItem{
		{ProductID: 1, Name: "Caftan brodé", Price: 300, Quantity: 1, Size: "M"},
		{ProductID: 2, Name: "Babouches cuir", Price: 75, Quantity: 2},
	}
	f.carts.On("Get", ctx, "sess-1").Return(items, nil)
	f.txm.On("WithinTx", ctx).Return(nil)
	f.products.On("DecrementStockIfAvailable", ctx, int64(1), int64(1)).Return(true, nil)
	f.products.On("DecrementStockIfAvailable", ctx, int64(2), int64(2)).Return(true, nil)
	f.orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return strings.HasPrefix(o.OrderNumber, "BC-") &&
			o.Subtotal == 450 &&
			o.ShippingCost == 30 &&
			o.DiscountAmount == 0 &&
			o.TotalAmount == 480 &&
			o.CouponCode == nil &&
			o.Status == model.OrderStatusPending &&
			o.PaymentMethod == model.PaymentMethodCOD
	})).Return(int64(10), nil)
	f.orderItems.On("CreateBulk", ctx, int64(10), mock.MatchedBy(func(lines []model.OrderItem) bool {
		return len(lines) == 2 &&
			lines[0].ProductName == "Caftan brodé" &&
			lines[0].Subtotal == 300 &&
			lines[1].Subtotal == 150
	})).Return(nil)
	f.carts.On("Clear", ctx, "sess-1").Return(nil)

	out, err := f.uc.SubmitOrder(ctx, "sess-1", validInput())

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.OrderNumber, "BC-"))
	assert.Equal(t, int64(450), out.Quote.Subtotal)
	assert.Equal(t, int64(30), out.Quote.ShippingCost)
	assert.Equal(t, int64(480), out.Quote.Total)
	f.orders.AssertExpectations(t)
	f.orderItems.AssertExpectations(t)
	f.carts.AssertExpectations(t)
	f.coupons.AssertNotCalled(t, "RedeemIfAvailable", mock.Anything, mock.Anything)
}

func TestSubmitOrder_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	f.carts.On("Get", ctx, "sess-1").Return([]model.CartItem{}, nil)

	_, err := f.uc.SubmitOrder(ctx, "sess-1", validInput())

	assertHTTPError(t, err, http.StatusBadRequest, usecase.MsgCartEmpty)
	f.txm.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestSubmitOrder_InvalidForm(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	items := []model.CartItem{{ProductID: 1, Name: "Caftan", Price: 300, Quantity: 1}}
	f.carts.On("Get", ctx, mock.Anything).Return(items, nil)

	in := validInput()
	in.Phone = "0512345678"
	_, err := f.uc.SubmitOrder(ctx, "sess-1", in)
	assertHTTPError(t, err, http.StatusBadRequest, usecase.MsgInvalidPhone)

	in = validInput()
	in.Address = "courte"
	_, err = f.uc.SubmitOrder(ctx, "sess-1", in)
	assertHTTPError(t, err, http.StatusBadRequest, usecase.MsgAddressTooShort)

	in = validInput()
	in.Name = "  "
	_, err = f.uc.SubmitOrder(ctx, "sess-1", in)
	assertHTTPError(t, err, http.StatusBadRequest, usecase.MsgMissingField)

	f.txm.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestSubmitOrder_WithCoupon(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	// 600 MAD: livraison offerte, PROMO10 retire 60
	items := []model.CartItem{{ProductID: 1, Name: "Djellaba", Price: 600, Quantity: 1}}
	f.carts.On("Get", ctx, "sess-1").Return(items, nil)
	f.coupons.On("FindActiveByCode", ctx, "PROMO10").Return(model.Coupon{
		Code:          "PROMO10",
		IsActive:      true,
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: 10,
	}, nil)
	f.txm.On("WithinTx", ctx).Return(nil)
	f.products.On("DecrementStockIfAvailable", ctx, int64(1), int64(1)).Return(true, nil)
	f.orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.CouponCode != nil && *o.CouponCode == "PROMO10" &&
			o.Subtotal == 600 &&
			o.ShippingCost == 0 &&
			o.DiscountAmount == 60 &&
			o.TotalAmount == 540
	})).Return(int64(7), nil)
	f.orderItems.On("CreateBulk", ctx, int64(7), mock.Anything).Return(nil)
	f.coupons.On("RedeemIfAvailable", ctx, "PROMO10").Return(true, nil)
	f.carts.On("Clear", ctx, "sess-1").Return(nil)

	in := validInput()
	in.CouponCode = "promo10"
	out, err := f.uc.SubmitOrder(ctx, "sess-1", in)

	assert.NoError(t, err)
	assert.Equal(t, int64(60), out.Quote.Discount)
	assert.Equal(t, int64(540), out.Quote.Total)
	f.coupons.AssertExpectations(t)
	f.orders.AssertExpectations(t)
}

func TestSubmitOrder_ZeroDiscountCouponNotRecorded(t *testing.T) {
	// 10% de 9 MAD s'arrondit à 0: le code est valide mais sans effet,
	// il ne doit ni figurer sur la commande ni être consommé.
	f := newCheckoutFixture()
	ctx := context.Background()

	items := []model.CartItem{{ProductID: 1, Name: "Porte-clés", Price: 9, Quantity: 1}}
	f.carts.On("Get", ctx, "sess-1").Return(items, nil)
	f.coupons.On("FindActiveByCode", ctx, "PROMO10").Return(model.Coupon{
		Code:          "PROMO10",
		IsActive:      true,
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: 10,
	}, nil)
	f.txm.On("WithinTx", ctx).Return(nil)
	f.products.On("DecrementStockIfAvailable", ctx, int64(1), int64(1)).Return(true, nil)
	f.orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.CouponCode == nil && o.DiscountAmount == 0
	})).Return(int64(8), nil)
	f.orderItems.On("CreateBulk", ctx, int64(8), mock.Anything).Return(nil)
	f.carts.On("Clear", ctx, "sess-1").Return(nil)

	in := validInput()
	in.CouponCode = "PROMO10"
	out, err := f.uc.SubmitOrder(ctx, "sess-1", in)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), out.Quote.Discount)
	f.orders.AssertExpectations(t)
	f.coupons.AssertNotCalled(t, "RedeemIfAvailable", mock.Anything, mock.Anything)
}

func TestSubmitOrder_UnknownCouponBlocks(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	items := []model.CartItem{{ProductID: 1, Name: "Djellaba", Price: 600, Quantity: 1}}
	f.carts.On("Get", ctx, "sess-1").Return(items, nil)
	f.coupons.On("FindActiveByCode", ctx, "RIEN").Return(model.Coupon{}, repo.ErrNotFound)

	in := validInput()
	in.CouponCode = "rien"
	_, err := f.uc.SubmitOrder(ctx, "sess-1", in)

	assertHTTPError(t, err, http.StatusBadRequest, usecase.MsgCouponInvalid)
	f.txm.AssertNotCalled(t, "WithinTx", mock.Anything)
	f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestSubmitOrder_InsufficientStock(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	items := []model.CartItem{{ProductID: 5, Name: "Tapis berbère", Price: 900, Quantity: 3}}
	f.carts.On("Get", ctx, "sess-1").Return(items, nil)
	f.txm.On("WithinTx", ctx).Return(nil)
	f.products.On("DecrementStockIfAvailable", ctx, int64(5), int64(3)).Return(false, nil)

	_, err := f.uc.SubmitOrder(ctx, "sess-1", validInput())

	assertHTTPError(t, err, http.StatusBadRequest, "Stock insuffisant: Tapis berbère")
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestSubmitOrder_ItemInsertFailureAbortsOrder(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	items := []model.CartItem{{ProductID: 1, Name: "Caftan", Price: 300, Quantity: 1}}
	f.carts.On("Get", ctx, "sess-1").Return(items, nil)
	f.txm.On("WithinTx", ctx).Return(nil)
	f.products.On("DecrementStockIfAvailable", ctx, int64(1), int64(1)).Return(true, nil)
	f.orders.On("Create", ctx, mock.Anything).Return(int64(3), nil)
	f.orderItems.On("CreateBulk", ctx, int64(3), mock.Anything).Return(errors.New("insert failed"))

	out, err := f.uc.SubmitOrder(ctx, "sess-1", validInput())

	assertHTTPError(t, err, http.StatusInternalServerError, usecase.MsgOrderFailed)
	assert.Empty(t, out.OrderNumber)
	f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestSubmitOrder_RedeemFailureDoesNotFailOrder(t *testing.T) {
	// L'incrément du coupon est post-commit: son échec laisse la commande
	// intacte et n'apparaît pas au client.
	cases := map[string]struct {
		ok  bool
		err error
	}{
		"erreur redis ou sql": {ok: false, err: errors.New("connection reset")},
		"limite atteinte entre validation et commit": {ok: false, err: nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newCheckoutFixture()
			ctx := context.Background()

			items := []model.CartItem{{ProductID: 1, Name: "Djellaba", Price: 600, Quantity: 1}}
			f.carts.On("Get", ctx, "sess-1").Return(items, nil)
			f.coupons.On("FindActiveByCode", ctx, "PROMO10").Return(model.Coupon{
				Code:          "PROMO10",
				IsActive:      true,
				DiscountType:  model.DiscountTypePercentage,
				DiscountValue: 10,
			}, nil)
			f.txm.On("WithinTx", ctx).Return(nil)
			f.products.On("DecrementStockIfAvailable", ctx, int64(1), int64(1)).Return(true, nil)
			f.orders.On("Create", ctx, mock.Anything).Return(int64(9), nil)
			f.orderItems.On("CreateBulk", ctx, int64(9), mock.Anything).Return(nil)
			f.coupons.On("RedeemIfAvailable", ctx, "PROMO10").Return(tc.ok, tc.err)
			f.carts.On("Clear", ctx, "sess-1").Return(nil)

			in := validInput()
			in.CouponCode = "PROMO10"
			out, err := f.uc.SubmitOrder(ctx, "sess-1", in)

			assert.NoError(t, err)
			assert.NotEmpty(t, out.OrderNumber)
			f.carts.AssertCalled(t, "Clear", ctx, "sess-1")
		})
	}
}

func TestSubmitOrder_DuplicateNumberRetriedOnce(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	items := []model.CartItem{{ProductID: 1, Name: "Caftan", Price: 300, Quantity: 1}}
	f.carts.On("Get", ctx, "sess-1").Return(items, nil)
	f.txm.On("WithinTx", ctx).Return(nil)
	f.products.On("DecrementStockIfAvailable", ctx, int64(1), int64(1)).Return(true, nil)

	var numbers []string
	f.orders.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		numbers = append(numbers, args.Get(1).(model.Order).OrderNumber)
	}).Return(int64(0), repo.ErrDuplicateOrderNumber).Once()
	f.orders.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		numbers = append(numbers, args.Get(1).(model.Order).OrderNumber)
	}).Return(int64(4), nil).Once()
	f.orderItems.On("CreateBulk", ctx, int64(4), mock.Anything).Return(nil)
	f.carts.On("Clear", ctx, "sess-1").Return(nil)

	out, err := f.uc.SubmitOrder(ctx, "sess-1", validInput())

	assert.NoError(t, err)
	assert.NotEmpty(t, out.OrderNumber)
	if assert.Len(t, numbers, 2) {
		// Nouveau numéro généré pour la seconde tentative
		assert.Equal(t, numbers[1], out.OrderNumber)
	}
	f.orders.AssertExpectations(t)
}

func TestSubmitOrder_SecondCollisionGivesUp(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	items := []model.CartItem{{ProductID: 1, Name: "Caftan", Price: 300, Quantity: 1}}
	f.carts.On("Get", ctx, "sess-1").Return(items, nil)
	f.txm.On("WithinTx", ctx).Return(nil)
	f.products.On("DecrementStockIfAvailable", ctx, int64(1), int64(1)).Return(true, nil)
	f.orders.On("Create", ctx, mock.Anything).Return(int64(0), repo.ErrDuplicateOrderNumber)

	_, err := f.uc.SubmitOrder(ctx, "sess-1", validInput())

	assertHTTPError(t, err, http.StatusInternalServerError, usecase.MsgOrderFailed)
	f.orders.AssertNumberOfCalls(t, "Create", 2)
}

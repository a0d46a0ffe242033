package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
	"github.com/quadramart/settlement/internal/server/http/dto"
	"github.com/quadramart/settlement/internal/server/http/middleware"
	"github.com/quadramart/settlement/internal/test/facadestub"
	"github.com/quadramart/settlement/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asUser(id int64) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDContextKey, id)
	}
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.UserIDContextKey, int64(42))
	if got := CurrentUserID(c); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestCheckoutHandlerCheckout(t *testing.T) {
	facade := facadestub.CheckoutFacadeStub{PlaceOrderFn: func(ctx context.Context, req usecase.CheckoutRequest) (*usecase.CheckoutResult, error) {
		if req.CustomerID != 7 || len(req.Lines) != 1 || req.Lines[0].VariantID != 11 {
			t.Fatalf("unexpected checkout request: %+v", req)
		}
		return &usecase.CheckoutResult{
			Order:       &model.Order{ID: 5, Status: model.OrderStatusPending, TotalAmount: money.FromInt64(230000)},
			Items:       []model.OrderItem{{VariantID: 11, Quantity: 2, PriceAtTime: money.FromInt64(100000)}},
			ShippingFee: money.FromInt64(30000),
		}, nil
	}}
	body, _ := json.Marshal(dto.CheckoutRequest{
		Items:          []dto.CheckoutLine{{VariantID: 11, Quantity: 2}},
		PaymentMethod:  "COD",
		ShippingMethod: "STANDARD",
		Province:       "Hanoi",
	})
	resp := performRequest(t, http.MethodPost, "/checkout", "/checkout", NewCheckoutHandler(facade).Checkout, asUser(7), body, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var result dto.CheckoutResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if result.OrderID != 5 || !result.TotalAmount.Equal(money.FromInt64(230000)) {
		t.Fatalf("unexpected response: %+v", result)
	}
}

func TestCheckoutHandlerCheckoutFailures(t *testing.T) {
	valid, _ := json.Marshal(dto.CheckoutRequest{
		Items:          []dto.CheckoutLine{{VariantID: 11, Quantity: 1}},
		PaymentMethod:  "WALLET",
		ShippingMethod: "STANDARD",
	})
	tests := []struct {
		name   string
		facade facadestub.CheckoutFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "empty cart", body: valid, facade: facadestub.CheckoutFacadeStub{PlaceOrderFn: func(context.Context, usecase.CheckoutRequest) (*usecase.CheckoutResult, error) {
			return nil, &domainErrors.GateError{Reason: "cart is empty"}
		}}, status: http.StatusUnprocessableEntity},
		{name: "insufficient stock", body: valid, facade: facadestub.CheckoutFacadeStub{PlaceOrderFn: func(context.Context, usecase.CheckoutRequest) (*usecase.CheckoutResult, error) {
			return nil, domainErrors.ErrInsufficientStock
		}}, status: http.StatusConflict},
		{name: "insufficient balance", body: valid, facade: facadestub.CheckoutFacadeStub{PlaceOrderFn: func(context.Context, usecase.CheckoutRequest) (*usecase.CheckoutResult, error) {
			return nil, domainErrors.ErrInsufficientBalance
		}}, status: http.StatusPaymentRequired},
		{name: "internal", body: valid, facade: facadestub.CheckoutFacadeStub{PlaceOrderFn: func(context.Context, usecase.CheckoutRequest) (*usecase.CheckoutResult, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/checkout", "/checkout", NewCheckoutHandler(tt.facade).Checkout, asUser(7), tt.body, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestCheckoutHandlerBuyNow(t *testing.T) {
	facade := facadestub.CheckoutFacadeStub{BuyNowFn: func(ctx context.Context, req usecase.CheckoutRequest, variantID int64, qty int) (*usecase.CheckoutResult, error) {
		if variantID != 11 || qty != 3 {
			t.Fatalf("unexpected buy-now arguments: %d %d", variantID, qty)
		}
		return &usecase.CheckoutResult{
			Order: &model.Order{ID: 6, Status: model.OrderStatusPending, TotalAmount: money.FromInt64(300000)},
		}, nil
	}}
	body, _ := json.Marshal(dto.BuyNowRequest{VariantID: 11, Quantity: 3, PaymentMethod: "COD", ShippingMethod: "STANDARD"})
	resp := performRequest(t, http.MethodPost, "/checkout/buy-now", "/checkout/buy-now", NewCheckoutHandler(facade).BuyNow, asUser(7), body, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
}

func TestCheckoutHandlerBuyAgain(t *testing.T) {
	body, _ := json.Marshal(dto.BuyAgainRequest{PaymentMethod: "COD", ShippingMethod: "STANDARD"})
	resp := performRequest(t, http.MethodPost, "/orders/:id/buy-again", "/orders/9/buy-again", NewCheckoutHandler(facadestub.CheckoutFacadeStub{}).BuyAgain, asUser(7), body, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/buy-again", "/orders/abc/buy-again", NewCheckoutHandler(facadestub.CheckoutFacadeStub{}).BuyAgain, asUser(7), body, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad id, got %d", resp.Code)
	}
}

func TestOrderHandlerList(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", NewOrderHandler(facadestub.OrderFacadeStub{}).List, asUser(7), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 for empty list, got %d", resp.Code)
	}

	facade := facadestub.OrderFacadeStub{OrdersFn: func(context.Context, int64) ([]model.Order, error) {
		return []model.Order{{ID: 1, Status: model.OrderStatusPending, TotalAmount: money.FromInt64(100000)}}, nil
	}}
	resp = performRequest(t, http.MethodGet, "/orders", "/orders", NewOrderHandler(facade).List, asUser(7), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var orders []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &orders); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != 1 {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}

func TestOrderHandlerGetFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: domainErrors.ErrNotFound, status: http.StatusNotFound},
		{name: "not owner", err: domainErrors.ErrNotOwner, status: http.StatusForbidden},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := facadestub.OrderFacadeStub{OrderFn: func(context.Context, int64, int64) (*model.Order, error) {
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/1", NewOrderHandler(facade).Get, asUser(7), nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerUpdateStatus(t *testing.T) {
	facade := facadestub.OrderFacadeStub{UpdateFn: func(ctx context.Context, actorID, orderID int64, target model.OrderStatus) error {
		if actorID != 55 || orderID != 1 || target != model.OrderStatusConfirmedPreparing {
			t.Fatalf("unexpected update: %d %d %s", actorID, orderID, target)
		}
		return nil
	}}
	body, _ := json.Marshal(dto.UpdateStatusRequest{Status: "CONFIRMED_PREPARING"})
	resp := performRequest(t, http.MethodPatch, "/orders/:id/status", "/orders/1/status", NewOrderHandler(facade).UpdateStatus, asUser(55), body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	invalid := facadestub.OrderFacadeStub{UpdateFn: func(context.Context, int64, int64, model.OrderStatus) error {
		return &domainErrors.InvalidTransitionError{From: model.OrderStatusPending, To: model.OrderStatusDelivered}
	}}
	resp = performRequest(t, http.MethodPatch, "/orders/:id/status", "/orders/1/status", NewOrderHandler(invalid).UpdateStatus, asUser(55), body, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
}

func TestOrderHandlerBatchUpdateStatus(t *testing.T) {
	facade := facadestub.OrderFacadeStub{BatchUpdateFn: func(ctx context.Context, actorID int64, orderIDs []int64, target model.OrderStatus) error {
		if len(orderIDs) != 2 {
			t.Fatalf("unexpected order ids: %v", orderIDs)
		}
		return nil
	}}
	body, _ := json.Marshal(dto.BatchUpdateStatusRequest{OrderIDs: []int64{1, 2}, Status: "CONFIRMED_PREPARING"})
	resp := performRequest(t, http.MethodPatch, "/orders/status", "/orders/status", NewOrderHandler(facade).BatchUpdateStatus, asUser(55), body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestOrderHandlerConfirm(t *testing.T) {
	var confirmedOrder int64
	facade := facadestub.OrderFacadeStub{ConfirmFn: func(_ context.Context, actorID, orderID int64) error {
		confirmedOrder = orderID
		return nil
	}}
	resp := performRequest(t, http.MethodPost, "/orders/:id/confirm", "/orders/4/confirm", NewOrderHandler(facade).Confirm, asUser(7), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if confirmedOrder != 4 {
		t.Fatalf("expected order 4 to be confirmed, got %d", confirmedOrder)
	}

	stranger := facadestub.OrderFacadeStub{ConfirmFn: func(context.Context, int64, int64) error {
		return domainErrors.ErrNotOwner
	}}
	resp = performRequest(t, http.MethodPost, "/orders/:id/confirm", "/orders/4/confirm", NewOrderHandler(stranger).Confirm, asUser(8), nil, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestOrderHandlerCancel(t *testing.T) {
	body, _ := json.Marshal(dto.CancelRequest{Reason: "changed my mind"})
	resp := performRequest(t, http.MethodPost, "/orders/:id/cancel", "/orders/1/cancel", NewOrderHandler(facadestub.OrderFacadeStub{}).Cancel, asUser(7), body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	// an empty reason is rejected at binding before the facade runs
	empty, _ := json.Marshal(dto.CancelRequest{})
	resp = performRequest(t, http.MethodPost, "/orders/:id/cancel", "/orders/1/cancel", NewOrderHandler(facadestub.OrderFacadeStub{}).Cancel, asUser(7), empty, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	// a facade-level missing reason maps to the same status
	missing := facadestub.OrderFacadeStub{CancelFn: func(context.Context, int64, int64, string) error {
		return domainErrors.ErrMissingCancelReason
	}}
	whitespace, _ := json.Marshal(dto.CancelRequest{Reason: " "})
	resp = performRequest(t, http.MethodPost, "/orders/:id/cancel", "/orders/1/cancel", NewOrderHandler(missing).Cancel, asUser(7), whitespace, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestOrderHandlerTimeline(t *testing.T) {
	now := time.Now()
	facade := facadestub.OrderFacadeStub{TimelineFn: func(context.Context, int64, int64) ([]model.TimelineEntry, error) {
		return []model.TimelineEntry{{Status: model.OrderStatusPending, OccurredAt: now}}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders/:id/timeline", "/orders/1/timeline", NewOrderHandler(facade).Timeline, asUser(7), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var entries []dto.TimelineEntryResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &entries); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != "PENDING" {
		t.Fatalf("unexpected timeline: %+v", entries)
	}
}

func TestWalletHandlerSummary(t *testing.T) {
	facade := facadestub.WalletFacadeStub{WalletFn: func(context.Context, int64) (*model.Wallet, error) {
		return &model.Wallet{Balance: money.FromInt64(50000)}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/wallet", "/wallet", NewWalletHandler(facade).Summary, asUser(7), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	missing := facadestub.WalletFacadeStub{WalletFn: func(context.Context, int64) (*model.Wallet, error) {
		return nil, domainErrors.ErrNotFound
	}}
	resp = performRequest(t, http.MethodGet, "/wallet", "/wallet", NewWalletHandler(missing).Summary, asUser(7), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestWalletHandlerHistory(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/wallet/transactions", "/wallet/transactions", NewWalletHandler(facadestub.WalletFacadeStub{}).History, asUser(7), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 for empty history, got %d", resp.Code)
	}

	facade := facadestub.WalletFacadeStub{HistoryFn: func(context.Context, int64) ([]model.WalletTransaction, error) {
		return []model.WalletTransaction{{ID: 1, Amount: money.FromInt64(10000), Kind: model.TxnKindTopUp, Status: model.TxnStatusCompleted}}, nil
	}}
	resp = performRequest(t, http.MethodGet, "/wallet/transactions", "/wallet/transactions", NewWalletHandler(facade).History, asUser(7), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestWalletHandlerTopUp(t *testing.T) {
	facade := facadestub.WalletFacadeStub{TopUpFn: func(ctx context.Context, ownerID int64, amount money.Amount, description string) error {
		if ownerID != 7 || !amount.Equal(money.FromInt64(10000)) {
			t.Fatalf("unexpected top-up: %d %s", ownerID, amount)
		}
		return nil
	}}
	body, _ := json.Marshal(dto.TopUpRequest{Amount: money.FromInt64(10000)})
	resp := performRequest(t, http.MethodPost, "/wallet/top-up", "/wallet/top-up", NewWalletHandler(facade).TopUp, asUser(7), body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	invalid := facadestub.WalletFacadeStub{TopUpFn: func(context.Context, int64, money.Amount, string) error {
		return domainErrors.ErrInvalidAmount
	}}
	resp = performRequest(t, http.MethodPost, "/wallet/top-up", "/wallet/top-up", NewWalletHandler(invalid).TopUp, asUser(7), body, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
}

func TestDiscountHandlerPreview(t *testing.T) {
	body, _ := json.Marshal(dto.PreviewDiscountRequest{Code: "SUMMER10", Items: []dto.CheckoutLine{{VariantID: 11, Quantity: 1}}})
	resp := performRequest(t, http.MethodPost, "/discounts/preview", "/discounts/preview", NewDiscountHandler(facadestub.DiscountFacadeStub{}).Preview, asUser(7), body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var quote dto.DiscountQuoteResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &quote); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if quote.Code != "SUMMER10" || !quote.FinalAmount.Equal(money.FromInt64(90000)) {
		t.Fatalf("unexpected quote: %+v", quote)
	}

	gated := facadestub.DiscountFacadeStub{PreviewFn: func(context.Context, int64, string, []model.CartLine) (*usecase.DiscountQuote, error) {
		return nil, &domainErrors.GateError{Reason: "the code has expired"}
	}}
	resp = performRequest(t, http.MethodPost, "/discounts/preview", "/discounts/preview", NewDiscountHandler(gated).Preview, asUser(7), body, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
}

func TestDiscountHandlerCreate(t *testing.T) {
	now := time.Now()
	body, _ := json.Marshal(dto.DiscountCodeRequest{
		StoreID: 3,
		Code:    "SUMMER10",
		Type:    "PERCENTAGE",
		Value:   money.FromInt64(10),
		Scope:   "ORDER",
		StartAt: now,
		EndAt:   now.Add(time.Hour),
		MaxUses: 100,
	})
	resp := performRequest(t, http.MethodPost, "/seller/discounts", "/seller/discounts", NewDiscountHandler(facadestub.DiscountFacadeStub{}).Create, asUser(55), body, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	duplicate := facadestub.DiscountFacadeStub{CreateFn: func(context.Context, int64, *model.DiscountCode) (*model.DiscountCode, error) {
		return nil, domainErrors.ErrAlreadyExists
	}}
	resp = performRequest(t, http.MethodPost, "/seller/discounts", "/seller/discounts", NewDiscountHandler(duplicate).Create, asUser(55), body, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestDiscountHandlerSetActive(t *testing.T) {
	facade := facadestub.DiscountFacadeStub{SetActiveFn: func(ctx context.Context, sellerID, codeID int64, active bool) error {
		if codeID != 5 || active {
			t.Fatalf("unexpected set-active: %d %v", codeID, active)
		}
		return nil
	}}
	resp := performRequest(t, http.MethodPatch, "/seller/discounts/:id/active", "/seller/discounts/5/active", NewDiscountHandler(facade).SetActive, asUser(55), []byte(`{"active":false}`), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPatch, "/seller/discounts/:id/active", "/seller/discounts/5/active", NewDiscountHandler(facade).SetActive, asUser(55), []byte(`{}`), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing flag, got %d", resp.Code)
	}
}

func TestFlashSaleHandlerCreate(t *testing.T) {
	now := time.Now()
	body, _ := json.Marshal(dto.FlashSaleRequest{ProductID: 21, PercentageDiscount: 25, Quantity: 10, StartAt: now, EndAt: now.Add(time.Hour)})
	resp := performRequest(t, http.MethodPost, "/seller/flash-sales", "/seller/flash-sales", NewFlashSaleHandler(facadestub.FlashSaleFacadeStub{}).Create, asUser(55), body, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	notOwner := facadestub.FlashSaleFacadeStub{CreateFn: func(context.Context, int64, *model.FlashSale) (*model.FlashSale, error) {
		return nil, domainErrors.ErrNotOwner
	}}
	resp = performRequest(t, http.MethodPost, "/seller/flash-sales", "/seller/flash-sales", NewFlashSaleHandler(notOwner).Create, asUser(55), body, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestFlashSaleHandlerDelete(t *testing.T) {
	resp := performRequest(t, http.MethodDelete, "/seller/flash-sales/:id", "/seller/flash-sales/1", NewFlashSaleHandler(facadestub.FlashSaleFacadeStub{}).Delete, asUser(55), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestPaymentHandlerCallback(t *testing.T) {
	facade := &facadestub.PaymentFacadeStub{}
	handler := NewPaymentHandler(facade, facadestub.VerifierStub{})
	body, _ := json.Marshal(dto.GatewayCallback{Reference: "ref-1", Status: dto.GatewayStatusSuccess, Detail: "ok"})

	resp := performRequest(t, http.MethodPost, "/payments/callback", "/payments/callback", handler.Callback, nil, body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if len(facade.Succeeded) != 1 || facade.Succeeded[0] != "ref-1" {
		t.Fatalf("expected success dispatch, got %+v", facade)
	}

	failedBody, _ := json.Marshal(dto.GatewayCallback{Reference: "ref-2", Status: dto.GatewayStatusFailed, Detail: "declined"})
	resp = performRequest(t, http.MethodPost, "/payments/callback", "/payments/callback", handler.Callback, nil, failedBody, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if len(facade.Failed) != 1 || facade.Failed[0] != "ref-2" {
		t.Fatalf("expected failure dispatch, got %+v", facade)
	}
}

func TestPaymentHandlerCallbackFailures(t *testing.T) {
	valid, _ := json.Marshal(dto.GatewayCallback{Reference: "ref-1", Status: dto.GatewayStatusSuccess})
	unknown, _ := json.Marshal(dto.GatewayCallback{Reference: "ref-1", Status: "MAYBE"})
	noRef, _ := json.Marshal(dto.GatewayCallback{Status: dto.GatewayStatusSuccess})

	tests := []struct {
		name     string
		verifier SignatureVerifier
		facade   *facadestub.PaymentFacadeStub
		body     []byte
		status   int
	}{
		{name: "bad signature", verifier: facadestub.VerifierStub{Err: domainErrors.ErrSignatureMismatch}, facade: &facadestub.PaymentFacadeStub{}, body: valid, status: http.StatusUnauthorized},
		{name: "bad json", verifier: facadestub.VerifierStub{}, facade: &facadestub.PaymentFacadeStub{}, body: []byte("not json"), status: http.StatusBadRequest},
		{name: "missing reference", verifier: facadestub.VerifierStub{}, facade: &facadestub.PaymentFacadeStub{}, body: noRef, status: http.StatusBadRequest},
		{name: "unknown status", verifier: facadestub.VerifierStub{}, facade: &facadestub.PaymentFacadeStub{}, body: unknown, status: http.StatusBadRequest},
		{name: "replayed reference", verifier: facadestub.VerifierStub{}, facade: &facadestub.PaymentFacadeStub{SucceededFn: func(context.Context, string, string) error {
			return domainErrors.ErrConflict
		}}, body: valid, status: http.StatusConflict},
		{name: "unknown reference", verifier: facadestub.VerifierStub{}, facade: &facadestub.PaymentFacadeStub{SucceededFn: func(context.Context, string, string) error {
			return domainErrors.ErrNotFound
		}}, body: valid, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/payments/callback", "/payments/callback", NewPaymentHandler(tt.facade, tt.verifier).Callback, nil, tt.body, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

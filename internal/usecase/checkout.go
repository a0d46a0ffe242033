package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/domain/repository"
	"github.com/quadramart/settlement/internal/pkg/money"
)

// PaymentGateway initiates online payments with the external provider.
type PaymentGateway interface {
	Initiate(ctx context.Context, reference string, orderID int64, amount money.Amount) (string, error)
}

// baseShippingFee is charged per order unless the store ships within its
// own province.
var baseShippingFee = money.FromInt64(30000)

// CheckoutRequest describes one order to place. All lines must belong to
// the same store.
type CheckoutRequest struct {
	CustomerID     int64
	Lines          []model.CartLine
	PaymentMethod  model.PaymentMethod
	ShippingMethod model.ShippingMethod
	Province       string
	DiscountCode   string
	Note           string
}

// CheckoutResult is the placed order together with its pricing breakdown
// and, for online payments, the gateway redirect URL.
type CheckoutResult struct {
	Order       *model.Order
	Items       []model.OrderItem
	Quote       *DiscountQuote
	ShippingFee money.Amount
	PaymentURL  string
	PaymentRef  string
}

// reservation tracks what checkout has claimed so it can be compensated
// when a later step fails.
type reservation struct {
	variantID int64
	saleID    int64 // zero when the line was not on sale
	qty       int
}

// CheckoutUseCase assembles orders from cart lines: flash sale pricing,
// stock and quota reservation, discount application, shipping fee and
// payment initiation.
type CheckoutUseCase struct {
	orders    repository.OrderRepository
	stock     repository.StockRepository
	stores    repository.StoreRepository
	payments  repository.PaymentRepository
	discounts *DiscountUseCase
	sales     *FlashSaleUseCase
	wallet    *SettlementUseCase
	gateway   PaymentGateway
	now       func() time.Time
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	orders repository.OrderRepository,
	stock repository.StockRepository,
	stores repository.StoreRepository,
	payments repository.PaymentRepository,
	discounts *DiscountUseCase,
	sales *FlashSaleUseCase,
	settlement *SettlementUseCase,
	gateway PaymentGateway,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		orders:    orders,
		stock:     stock,
		stores:    stores,
		payments:  payments,
		discounts: discounts,
		sales:     sales,
		wallet:    settlement,
		gateway:   gateway,
		now:       time.Now,
	}
}

// CreateFromCart places an order for the given cart lines. Prices are
// locked at this moment: every line snapshots the flash sale price in
// effect, and the flash quota and stock are reserved before the order row
// exists. Any later failure releases what was claimed.
func (u *CheckoutUseCase) CreateFromCart(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Lines) == 0 {
		return nil, &domainErrors.GateError{Reason: "cart is empty"}
	}
	for _, l := range req.Lines {
		if l.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidAmount
		}
	}

	items, reservations, storeID, err := u.priceAndReserve(ctx, req.Lines)
	if err != nil {
		return nil, err
	}
	result, err := u.place(ctx, req, storeID, items)
	if err != nil {
		u.rollback(ctx, reservations)
		return nil, err
	}
	return result, nil
}

// priceAndReserve resolves every cart line to a priced order item and
// claims its stock and flash quota. On error everything claimed so far is
// released before returning.
func (u *CheckoutUseCase) priceAndReserve(ctx context.Context, lines []model.CartLine) ([]model.OrderItem, []reservation, int64, error) {
	items := make([]model.OrderItem, 0, len(lines))
	reservations := make([]reservation, 0, len(lines))
	var storeID int64

	fail := func(err error) ([]model.OrderItem, []reservation, int64, error) {
		u.rollback(ctx, reservations)
		return nil, nil, 0, err
	}

	for _, line := range lines {
		variant, err := u.stock.GetVariant(ctx, line.VariantID)
		if err != nil {
			return fail(err)
		}
		if !variant.Active {
			return fail(&domainErrors.GateError{Reason: fmt.Sprintf("product variant %d is no longer available", variant.ID)})
		}
		if storeID == 0 {
			storeID = variant.StoreID
		} else if storeID != variant.StoreID {
			return fail(&domainErrors.GateError{Reason: "all items must belong to the same store"})
		}

		price, sale, err := u.sales.EffectivePrice(ctx, variant)
		if err != nil {
			return fail(err)
		}
		if err := u.stock.Reserve(ctx, variant.ID, line.Quantity); err != nil {
			return fail(err)
		}
		res := reservation{variantID: variant.ID, qty: line.Quantity}
		if sale != nil {
			if err := u.sales.Reserve(ctx, sale.ID, line.Quantity); err != nil {
				var quota *domainErrors.QuotaExceededError
				if !errors.As(err, &quota) {
					_ = u.stock.Release(ctx, variant.ID, line.Quantity)
					return fail(err)
				}
				// quota ran out between pricing and reserving; the line
				// still sells at the base price
				price = variant.Price
				sale = nil
			} else {
				res.saleID = sale.ID
			}
		}
		reservations = append(reservations, res)
		item := model.OrderItem{
			VariantID:   variant.ID,
			ProductID:   variant.ProductID,
			Quantity:    line.Quantity,
			PriceAtTime: price,
		}
		if sale != nil {
			saleID := sale.ID
			item.FlashSaleID = &saleID
		}
		items = append(items, item)
	}
	return items, reservations, storeID, nil
}

// place computes totals, writes the order and starts payment.
func (u *CheckoutUseCase) place(ctx context.Context, req CheckoutRequest, storeID int64, items []model.OrderItem) (*CheckoutResult, error) {
	shipping, err := u.shippingFee(ctx, storeID, req.Province)
	if err != nil {
		return nil, err
	}

	var quote *DiscountQuote
	if req.DiscountCode != "" {
		quote, err = u.discounts.Preview(ctx, req.CustomerID, storeID, req.DiscountCode, items)
	} else {
		quote, err = u.discounts.AutoBest(ctx, req.CustomerID, storeID, items)
	}
	if err != nil {
		return nil, err
	}

	total := model.ItemsTotal(items).Add(shipping)
	var discountCodeID *int64
	if quote != nil {
		total = total.Sub(quote.DiscountAmount)
		id := quote.Code.ID
		discountCodeID = &id
	}

	order, err := u.orders.Create(ctx, &model.Order{
		CustomerID:     req.CustomerID,
		StoreID:        storeID,
		Status:         model.OrderStatusPending,
		PaymentMethod:  req.PaymentMethod,
		ShippingMethod: req.ShippingMethod,
		TotalAmount:    total,
		DiscountCodeID: discountCodeID,
		Note:           req.Note,
	}, items)
	if err != nil {
		return nil, err
	}
	if quote != nil {
		if err := u.discounts.RecordApplication(ctx, order.ID, quote); err != nil {
			return nil, u.abandon(ctx, order, err)
		}
	}

	result := &CheckoutResult{Order: order, Items: items, Quote: quote, ShippingFee: shipping}
	switch req.PaymentMethod {
	case model.PaymentMethodWallet:
		if err := u.wallet.Transition(ctx, order.ID, model.OrderStatusProcessing); err != nil {
			return nil, u.abandon(ctx, order, err)
		}
		order.Status = model.OrderStatusProcessing
	case model.PaymentMethodOnline:
		ref := uuid.NewString()
		_, err := u.payments.Create(ctx, &model.PaymentTransaction{
			OrderID:   order.ID,
			Reference: ref,
			Amount:    total,
			Method:    model.PaymentMethodOnline,
			Status:    model.TxnStatusPending,
		})
		if err != nil {
			return nil, u.abandon(ctx, order, err)
		}
		url, err := u.gateway.Initiate(ctx, ref, order.ID, total)
		if err != nil {
			return nil, u.abandon(ctx, order, err)
		}
		result.PaymentRef = ref
		result.PaymentURL = url
	}
	return result, nil
}

// abandon voids a freshly created order whose payment setup failed. The
// caller releases the reservations itself, so the order is cancelled at
// the repository level to keep a later user cancel from releasing the
// same inventory twice.
func (u *CheckoutUseCase) abandon(ctx context.Context, order *model.Order, cause error) error {
	_ = u.orders.UpdateStatus(ctx, order.ID, order.Status, model.OrderStatusCancelled)
	return cause
}

// PriceLines resolves cart lines to priced order items without reserving
// stock or flash quota. Used for discount previews.
func (u *CheckoutUseCase) PriceLines(ctx context.Context, lines []model.CartLine) ([]model.OrderItem, int64, error) {
	if len(lines) == 0 {
		return nil, 0, &domainErrors.GateError{Reason: "cart is empty"}
	}
	items := make([]model.OrderItem, 0, len(lines))
	var storeID int64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, 0, domainErrors.ErrInvalidAmount
		}
		variant, err := u.stock.GetVariant(ctx, line.VariantID)
		if err != nil {
			return nil, 0, err
		}
		if !variant.Active {
			return nil, 0, &domainErrors.GateError{Reason: fmt.Sprintf("product variant %d is no longer available", variant.ID)}
		}
		if storeID == 0 {
			storeID = variant.StoreID
		} else if storeID != variant.StoreID {
			return nil, 0, &domainErrors.GateError{Reason: "all items must belong to the same store"}
		}
		price, _, err := u.sales.EffectivePrice(ctx, variant)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, model.OrderItem{
			VariantID:   variant.ID,
			ProductID:   variant.ProductID,
			Quantity:    line.Quantity,
			PriceAtTime: price,
		})
	}
	return items, storeID, nil
}

// shippingFee is free when the store ships within its own province.
func (u *CheckoutUseCase) shippingFee(ctx context.Context, storeID int64, province string) (money.Amount, error) {
	storeProvince, err := u.stores.ProvinceOf(ctx, storeID)
	if err != nil {
		return money.Zero(), err
	}
	if province != "" && province == storeProvince {
		return money.Zero(), nil
	}
	return baseShippingFee, nil
}

func (u *CheckoutUseCase) rollback(ctx context.Context, reservations []reservation) {
	for _, r := range reservations {
		_ = u.stock.Release(ctx, r.variantID, r.qty)
		if r.saleID != 0 {
			_ = u.sales.Release(ctx, r.saleID, r.qty)
		}
	}
}

// BuyNow places a single-line order, skipping the cart.
func (u *CheckoutUseCase) BuyNow(ctx context.Context, req CheckoutRequest, variantID int64, qty int) (*CheckoutResult, error) {
	req.Lines = []model.CartLine{{VariantID: variantID, Quantity: qty}}
	return u.CreateFromCart(ctx, req)
}

// BuyAgain repeats a finished order at current prices and availability.
// Only the owner of a terminal order may repeat it.
func (u *CheckoutUseCase) BuyAgain(ctx context.Context, req CheckoutRequest, orderID int64) (*CheckoutResult, error) {
	prev, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if prev.CustomerID != req.CustomerID {
		return nil, domainErrors.ErrNotOwner
	}
	if !prev.Status.Terminal() {
		return nil, &domainErrors.GateError{Reason: "only finished orders can be bought again"}
	}
	items, err := u.orders.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	lines := make([]model.CartLine, 0, len(items))
	for _, it := range items {
		variant, err := u.stock.GetVariant(ctx, it.VariantID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !variant.Active {
			continue
		}
		lines = append(lines, model.CartLine{VariantID: it.VariantID, Quantity: it.Quantity})
	}
	if len(lines) == 0 {
		return nil, &domainErrors.GateError{Reason: "none of the original items are still available"}
	}
	req.Lines = lines
	return u.CreateFromCart(ctx, req)
}

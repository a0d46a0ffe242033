package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/domain/repository"
	"github.com/quadramart/settlement/internal/pkg/money"
)

// DiscountQuote is the outcome of applying a code to a prospective order.
type DiscountQuote struct {
	Code           *model.DiscountCode
	OriginalAmount money.Amount
	DiscountAmount money.Amount
	FinalAmount    money.Amount
}

// DiscountUseCase manages discount codes, validation and application.
type DiscountUseCase struct {
	discounts repository.DiscountRepository
	stores    repository.StoreRepository
	now       func() time.Time
}

// NewDiscountUseCase constructs DiscountUseCase.
func NewDiscountUseCase(d repository.DiscountRepository, s repository.StoreRepository) *DiscountUseCase {
	return &DiscountUseCase{discounts: d, stores: s, now: time.Now}
}

// CheckUsability runs the validation gates in order and returns the first
// failing gate's reason. Gates past the first failure are not evaluated.
func (u *DiscountUseCase) CheckUsability(ctx context.Context, code *model.DiscountCode, userID, storeID int64, items []model.OrderItem) error {
	if !code.Active {
		return &domainErrors.GateError{Reason: "discount code is not active"}
	}
	if code.StoreID != storeID {
		return &domainErrors.GateError{Reason: "discount code belongs to a different store"}
	}
	if !code.WithinWindow(u.now()) {
		return &domainErrors.GateError{Reason: "discount code is not valid at this time"}
	}
	if !code.HasUsesLeft() {
		return &domainErrors.GateError{Reason: "discount code has reached its usage limit"}
	}
	prior, err := u.discounts.CountUserUsage(ctx, code.ID, userID)
	if err != nil {
		return err
	}
	if !code.CanUserUse(prior) {
		return &domainErrors.GateError{Reason: "you have reached your usage limit for this discount code"}
	}
	if model.ItemsTotal(items).LessThan(code.MinOrderAmount) {
		return &domainErrors.GateError{Reason: "order total does not meet the minimum for this discount code"}
	}
	if code.Scope == model.DiscountScopeProducts && eligibleSubtotal(code, items).IsZero() {
		return &domainErrors.GateError{Reason: "discount code does not apply to any product in this order"}
	}
	return nil
}

// eligibleSubtotal sums the lines a code covers.
func eligibleSubtotal(code *model.DiscountCode, items []model.OrderItem) money.Amount {
	total := money.Zero()
	for _, it := range items {
		if code.AppliesToProduct(it.ProductID) {
			total = total.Add(it.Subtotal())
		}
	}
	return total
}

// Calculate returns the discount amount a code yields for the given items.
// Percentage discounts are capped by MaxDiscountValue; for product-scoped
// codes the cap applies to each covered line. A product-scoped fixed
// discount applies per covered unit; either way a fixed discount never
// exceeds the covered subtotal.
func (u *DiscountUseCase) Calculate(code *model.DiscountCode, items []model.OrderItem) money.Amount {
	switch code.Type {
	case model.DiscountTypePercentage:
		if code.Scope == model.DiscountScopeProducts {
			total := money.Zero()
			for _, it := range items {
				if !code.AppliesToProduct(it.ProductID) {
					continue
				}
				d := it.Subtotal().Percent(code.PercentValue())
				if code.MaxDiscountValue != nil {
					d = money.Min(d, *code.MaxDiscountValue)
				}
				total = total.Add(d)
			}
			return total
		}
		d := model.ItemsTotal(items).Percent(code.PercentValue())
		if code.MaxDiscountValue != nil {
			d = money.Min(d, *code.MaxDiscountValue)
		}
		return d
	case model.DiscountTypeFixed:
		if code.Scope == model.DiscountScopeProducts {
			units := 0
			for _, it := range items {
				if code.AppliesToProduct(it.ProductID) {
					units += it.Quantity
				}
			}
			return money.Min(code.Value.MulInt(units), eligibleSubtotal(code, items))
		}
		return money.Min(code.Value, model.ItemsTotal(items))
	}
	return money.Zero()
}

// Preview validates a code against prospective items from the given store
// and quotes the result without recording anything.
func (u *DiscountUseCase) Preview(ctx context.Context, userID, storeID int64, codeStr string, items []model.OrderItem) (*DiscountQuote, error) {
	code, err := u.discounts.GetByCode(ctx, codeStr)
	if err != nil {
		return nil, err
	}
	if err := u.CheckUsability(ctx, code, userID, storeID, items); err != nil {
		return nil, err
	}
	original := model.ItemsTotal(items)
	discount := u.Calculate(code, items)
	return &DiscountQuote{
		Code:           code,
		OriginalAmount: original,
		DiscountAmount: discount,
		FinalAmount:    original.Sub(discount),
	}, nil
}

// AutoBest evaluates every auto-apply code of the store and returns the
// quote with the largest discount. Ties are broken by the lower code id so
// repeated checkouts of the same cart pick the same code. Returns nil when
// no code is usable.
func (u *DiscountUseCase) AutoBest(ctx context.Context, userID, storeID int64, items []model.OrderItem) (*DiscountQuote, error) {
	codes, err := u.discounts.ListAutoApply(ctx, storeID, u.now())
	if err != nil {
		return nil, err
	}
	var best *DiscountQuote
	for i := range codes {
		code := &codes[i]
		if err := u.CheckUsability(ctx, code, userID, storeID, items); err != nil {
			var gate *domainErrors.GateError
			if errors.As(err, &gate) {
				continue
			}
			return nil, err
		}
		d := u.Calculate(code, items)
		if d.IsZero() {
			continue
		}
		if best == nil ||
			best.DiscountAmount.LessThan(d) ||
			(best.DiscountAmount.Equal(d) && code.ID < best.Code.ID) {
			original := model.ItemsTotal(items)
			best = &DiscountQuote{
				Code:           code,
				OriginalAmount: original,
				DiscountAmount: d,
				FinalAmount:    original.Sub(d),
			}
		}
	}
	return best, nil
}

// Applicable returns the store's auto-apply codes currently usable for the
// customer and items, for display at checkout.
func (u *DiscountUseCase) Applicable(ctx context.Context, userID, storeID int64, items []model.OrderItem) ([]model.DiscountCode, error) {
	codes, err := u.discounts.ListAutoApply(ctx, storeID, u.now())
	if err != nil {
		return nil, err
	}
	usable := make([]model.DiscountCode, 0, len(codes))
	for i := range codes {
		if err := u.CheckUsability(ctx, &codes[i], userID, storeID, items); err != nil {
			var gate *domainErrors.GateError
			if errors.As(err, &gate) {
				continue
			}
			return nil, err
		}
		usable = append(usable, codes[i])
	}
	return usable, nil
}

// RecordApplication stores the per-order application made at checkout.
func (u *DiscountUseCase) RecordApplication(ctx context.Context, orderID int64, q *DiscountQuote) error {
	return u.discounts.RecordApplication(ctx, &model.OrderDiscount{
		OrderID:        orderID,
		DiscountID:     q.Code.ID,
		OriginalAmount: q.OriginalAmount,
		DiscountAmount: q.DiscountAmount,
		FinalAmount:    q.FinalAmount,
		AppliedAt:      u.now(),
	})
}

// ConfirmUsage makes the order's discount application count against the
// code's quotas. Orders without an application record fail with
// ErrDiscountNotApplied; confirming twice is a no-op.
func (u *DiscountUseCase) ConfirmUsage(ctx context.Context, orderID, userID int64) error {
	app, err := u.discounts.GetApplication(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrDiscountNotApplied
		}
		return err
	}
	if app.Confirmed {
		return nil
	}
	return u.discounts.ConfirmUsage(ctx, orderID, app.DiscountID, userID)
}

// CreateCode validates and stores a new discount code for a seller.
func (u *DiscountUseCase) CreateCode(ctx context.Context, sellerID int64, code *model.DiscountCode) (*model.DiscountCode, error) {
	if err := u.requireOwner(ctx, sellerID, code.StoreID); err != nil {
		return nil, err
	}
	if err := validateCode(code); err != nil {
		return nil, err
	}
	return u.discounts.Create(ctx, code)
}

// UpdateCode validates and persists changes to an existing code.
func (u *DiscountUseCase) UpdateCode(ctx context.Context, sellerID int64, code *model.DiscountCode) error {
	existing, err := u.discounts.GetByID(ctx, code.ID)
	if err != nil {
		return err
	}
	if err := u.requireOwner(ctx, sellerID, existing.StoreID); err != nil {
		return err
	}
	code.StoreID = existing.StoreID
	if err := validateCode(code); err != nil {
		return err
	}
	return u.discounts.Update(ctx, code)
}

// SetCodeActive toggles a code on or off.
func (u *DiscountUseCase) SetCodeActive(ctx context.Context, sellerID, codeID int64, active bool) error {
	existing, err := u.discounts.GetByID(ctx, codeID)
	if err != nil {
		return err
	}
	if err := u.requireOwner(ctx, sellerID, existing.StoreID); err != nil {
		return err
	}
	return u.discounts.SetActive(ctx, codeID, active)
}

// ListStoreCodes returns all codes of a seller's store.
func (u *DiscountUseCase) ListStoreCodes(ctx context.Context, sellerID, storeID int64) ([]model.DiscountCode, error) {
	if err := u.requireOwner(ctx, sellerID, storeID); err != nil {
		return nil, err
	}
	return u.discounts.ListByStore(ctx, storeID)
}

func (u *DiscountUseCase) requireOwner(ctx context.Context, sellerID, storeID int64) error {
	owner, err := u.stores.OwnerOf(ctx, storeID)
	if err != nil {
		return err
	}
	if owner != sellerID {
		return domainErrors.ErrNotOwner
	}
	return nil
}

func validateCode(code *model.DiscountCode) error {
	if code.Type == model.DiscountTypePercentage {
		pct := code.PercentValue()
		if pct < 1 || pct > 100 {
			return &domainErrors.GateError{Reason: "percentage value must be between 1 and 100"}
		}
		if code.MaxDiscountValue == nil || !code.MaxDiscountValue.IsPositive() {
			return &domainErrors.GateError{Reason: "percentage codes require a positive maximum discount value"}
		}
	} else if !code.Value.IsPositive() {
		return domainErrors.ErrInvalidAmount
	}
	if !code.EndAt.After(code.StartAt) {
		return &domainErrors.GateError{Reason: "validity window must end after it starts"}
	}
	if code.MaxUses <= 0 || code.UsagePerCustomer <= 0 {
		return &domainErrors.GateError{Reason: "usage limits must be positive"}
	}
	if code.Scope == model.DiscountScopeProducts && len(code.ProductIDs) == 0 {
		return &domainErrors.GateError{Reason: "product-scoped codes require at least one product"}
	}
	return nil
}

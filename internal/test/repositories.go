package test

import (
	"context"
	"time"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
)

// OrderRepositoryStub allows tests to customize order persistence.
type OrderRepositoryStub struct {
	CreateFn      func(context.Context, *model.Order, []model.OrderItem) (*model.Order, error)
	GetByIDFn     func(context.Context, int64) (*model.Order, error)
	GetItemsFn    func(context.Context, int64) ([]model.OrderItem, error)
	ListFn        func(context.Context, int64) ([]model.Order, error)
	UpdateFn      func(context.Context, int64, model.OrderStatus, model.OrderStatus) error
	AppendNoteFn  func(context.Context, int64, string) error
	TimelineFn    func(context.Context, int64) ([]model.TimelineEntry, error)
	SelectStaleFn func(context.Context, model.OrderStatus, time.Time, int) ([]model.Order, error)

	Orders      map[int64]*model.Order
	Items       map[int64][]model.OrderItem
	Notes       []string
	Transitions []StatusTransition
	Next        int64
}

// StatusTransition records one UpdateStatus invocation.
type StatusTransition struct {
	OrderID int64
	From    model.OrderStatus
	To      model.OrderStatus
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Orders: make(map[int64]*model.Order),
		Items:  make(map[int64][]model.OrderItem),
		Next:   1,
	}
}

// Add stores an order with its items and returns it.
func (s *OrderRepositoryStub) Add(order *model.Order, items []model.OrderItem) *model.Order {
	if order.ID == 0 {
		order.ID = s.Next
		s.Next++
	}
	s.Orders[order.ID] = order
	s.Items[order.ID] = items
	return order
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, items)
	}
	return s.Add(order, items), nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, orderID)
	}
	if order, ok := s.Orders[orderID]; ok {
		return order, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) GetItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	if s.GetItemsFn != nil {
		return s.GetItemsFn(ctx, orderID)
	}
	return s.Items[orderID], nil
}

func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, customerID)
	}
	var orders []model.Order
	for _, o := range s.Orders {
		if o.CustomerID == customerID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, orderID, from, to)
	}
	order, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Status != from {
		return domainErrors.ErrConflict
	}
	order.Status = to
	s.Transitions = append(s.Transitions, StatusTransition{OrderID: orderID, From: from, To: to})
	return nil
}

func (s *OrderRepositoryStub) AppendNote(ctx context.Context, orderID int64, note string) error {
	if s.AppendNoteFn != nil {
		return s.AppendNoteFn(ctx, orderID, note)
	}
	s.Notes = append(s.Notes, note)
	return nil
}

func (s *OrderRepositoryStub) Timeline(ctx context.Context, orderID int64) ([]model.TimelineEntry, error) {
	if s.TimelineFn != nil {
		return s.TimelineFn(ctx, orderID)
	}
	return nil, nil
}

func (s *OrderRepositoryStub) SelectStale(ctx context.Context, status model.OrderStatus, before time.Time, limit int) ([]model.Order, error) {
	if s.SelectStaleFn != nil {
		return s.SelectStaleFn(ctx, status, before, limit)
	}
	return nil, nil
}

// WalletRepositoryStub tracks balances and ledger operations in memory.
type WalletRepositoryStub struct {
	GetFn      func(context.Context, int64) (*model.Wallet, error)
	TransferFn func(context.Context, model.Transfer) error
	CreditFn   func(context.Context, int64, money.Amount, model.WalletTransactionKind, *int64, string) error
	HistoryFn  func(context.Context, int64) ([]model.WalletTransaction, error)

	Wallets   map[int64]*model.Wallet
	Transfers []model.Transfer
	Credits   []CreditCall
}

// CreditCall records one Credit invocation.
type CreditCall struct {
	OwnerID     int64
	Amount      money.Amount
	Kind        model.WalletTransactionKind
	OrderID     *int64
	Description string
}

// NewWalletRepositoryStub constructs stub repository with initialized maps.
func NewWalletRepositoryStub() *WalletRepositoryStub {
	return &WalletRepositoryStub{Wallets: make(map[int64]*model.Wallet)}
}

func (s *WalletRepositoryStub) GetByOwner(ctx context.Context, ownerID int64) (*model.Wallet, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, ownerID)
	}
	if w, ok := s.Wallets[ownerID]; ok {
		return w, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *WalletRepositoryStub) Transfer(ctx context.Context, t model.Transfer) error {
	if s.TransferFn != nil {
		return s.TransferFn(ctx, t)
	}
	s.Transfers = append(s.Transfers, t)
	return nil
}

func (s *WalletRepositoryStub) Credit(ctx context.Context, ownerID int64, amount money.Amount, kind model.WalletTransactionKind, orderID *int64, description string) error {
	if s.CreditFn != nil {
		return s.CreditFn(ctx, ownerID, amount, kind, orderID, description)
	}
	s.Credits = append(s.Credits, CreditCall{OwnerID: ownerID, Amount: amount, Kind: kind, OrderID: orderID, Description: description})
	return nil
}

func (s *WalletRepositoryStub) Transactions(ctx context.Context, ownerID int64) ([]model.WalletTransaction, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, ownerID)
	}
	return nil, nil
}

// DiscountRepositoryStub stores discount codes and usage in memory.
type DiscountRepositoryStub struct {
	CountUsageFn   func(context.Context, int64, int64) (int, error)
	ConfirmFn      func(context.Context, int64, int64, int64) error
	ApplicationsFn func(context.Context, int64) (*model.OrderDiscount, error)

	Codes        map[int64]*model.DiscountCode
	Usage        map[int64]int // keyed by discount ID
	Applications map[int64]*model.OrderDiscount
	Confirmed    []int64
	Next         int64
}

// NewDiscountRepositoryStub constructs stub repository with initialized maps.
func NewDiscountRepositoryStub() *DiscountRepositoryStub {
	return &DiscountRepositoryStub{
		Codes:        make(map[int64]*model.DiscountCode),
		Usage:        make(map[int64]int),
		Applications: make(map[int64]*model.OrderDiscount),
		Next:         1,
	}
}

// Add stores a code and returns it.
func (s *DiscountRepositoryStub) Add(code *model.DiscountCode) *model.DiscountCode {
	if code.ID == 0 {
		code.ID = s.Next
		s.Next++
	}
	s.Codes[code.ID] = code
	return code
}

func (s *DiscountRepositoryStub) Create(ctx context.Context, code *model.DiscountCode) (*model.DiscountCode, error) {
	return s.Add(code), nil
}

func (s *DiscountRepositoryStub) Update(ctx context.Context, code *model.DiscountCode) error {
	if _, ok := s.Codes[code.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	s.Codes[code.ID] = code
	return nil
}

func (s *DiscountRepositoryStub) GetByID(ctx context.Context, id int64) (*model.DiscountCode, error) {
	if code, ok := s.Codes[id]; ok {
		return code, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *DiscountRepositoryStub) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	for _, c := range s.Codes {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *DiscountRepositoryStub) ListByStore(ctx context.Context, storeID int64) ([]model.DiscountCode, error) {
	var codes []model.DiscountCode
	for _, c := range s.Codes {
		if c.StoreID == storeID {
			codes = append(codes, *c)
		}
	}
	return codes, nil
}

func (s *DiscountRepositoryStub) ListAutoApply(ctx context.Context, storeID int64, now time.Time) ([]model.DiscountCode, error) {
	var codes []model.DiscountCode
	for _, c := range s.Codes {
		if c.StoreID == storeID && c.AutoApply && c.Active && c.WithinWindow(now) {
			codes = append(codes, *c)
		}
	}
	return codes, nil
}

func (s *DiscountRepositoryStub) SetActive(ctx context.Context, id int64, active bool) error {
	code, ok := s.Codes[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	code.Active = active
	return nil
}

func (s *DiscountRepositoryStub) CountUserUsage(ctx context.Context, discountID, userID int64) (int, error) {
	if s.CountUsageFn != nil {
		return s.CountUsageFn(ctx, discountID, userID)
	}
	return s.Usage[discountID], nil
}

func (s *DiscountRepositoryStub) RecordApplication(ctx context.Context, app *model.OrderDiscount) error {
	s.Applications[app.OrderID] = app
	return nil
}

func (s *DiscountRepositoryStub) GetApplication(ctx context.Context, orderID int64) (*model.OrderDiscount, error) {
	if s.ApplicationsFn != nil {
		return s.ApplicationsFn(ctx, orderID)
	}
	if app, ok := s.Applications[orderID]; ok {
		return app, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *DiscountRepositoryStub) ConfirmUsage(ctx context.Context, orderID, discountID, userID int64) error {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, orderID, discountID, userID)
	}
	if app, ok := s.Applications[orderID]; ok {
		if app.Confirmed {
			return nil
		}
		app.Confirmed = true
	}
	if code, ok := s.Codes[discountID]; ok {
		code.UsedCount++
	}
	s.Confirmed = append(s.Confirmed, orderID)
	return nil
}

// FlashSaleRepositoryStub stores sales and quotas in memory.
type FlashSaleRepositoryStub struct {
	ActiveFn  func(context.Context, int64, time.Time) (*model.FlashSale, error)
	ReserveFn func(context.Context, int64, int) error

	Sales    map[int64]*model.FlashSale
	Releases []QuotaCall
	Next     int64
}

// QuotaCall records one Reserve or Release invocation.
type QuotaCall struct {
	SaleID int64
	Qty    int
}

// NewFlashSaleRepositoryStub constructs stub repository with initialized maps.
func NewFlashSaleRepositoryStub() *FlashSaleRepositoryStub {
	return &FlashSaleRepositoryStub{Sales: make(map[int64]*model.FlashSale), Next: 1}
}

// Add stores a sale and returns it.
func (s *FlashSaleRepositoryStub) Add(sale *model.FlashSale) *model.FlashSale {
	if sale.ID == 0 {
		sale.ID = s.Next
		s.Next++
	}
	s.Sales[sale.ID] = sale
	return sale
}

func (s *FlashSaleRepositoryStub) Create(ctx context.Context, sale *model.FlashSale) (*model.FlashSale, error) {
	return s.Add(sale), nil
}

func (s *FlashSaleRepositoryStub) Update(ctx context.Context, sale *model.FlashSale) error {
	if _, ok := s.Sales[sale.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	s.Sales[sale.ID] = sale
	return nil
}

func (s *FlashSaleRepositoryStub) Delete(ctx context.Context, saleID int64) error {
	if _, ok := s.Sales[saleID]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Sales, saleID)
	return nil
}

func (s *FlashSaleRepositoryStub) GetByID(ctx context.Context, saleID int64) (*model.FlashSale, error) {
	if sale, ok := s.Sales[saleID]; ok {
		return sale, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *FlashSaleRepositoryStub) ActiveForProduct(ctx context.Context, productID int64, now time.Time) (*model.FlashSale, error) {
	if s.ActiveFn != nil {
		return s.ActiveFn(ctx, productID, now)
	}
	for _, sale := range s.Sales {
		if sale.ProductID == productID && sale.ActiveAt(now) {
			return sale, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *FlashSaleRepositoryStub) Reserve(ctx context.Context, saleID int64, qty int) error {
	if s.ReserveFn != nil {
		return s.ReserveFn(ctx, saleID, qty)
	}
	sale, ok := s.Sales[saleID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if sale.SoldCount+qty > sale.Quantity {
		return &domainErrors.QuotaExceededError{SaleID: saleID, Requested: qty, Remaining: sale.Quantity - sale.SoldCount}
	}
	sale.SoldCount += qty
	return nil
}

func (s *FlashSaleRepositoryStub) Release(ctx context.Context, saleID int64, qty int) error {
	if sale, ok := s.Sales[saleID]; ok {
		sale.SoldCount -= qty
		if sale.SoldCount < 0 {
			sale.SoldCount = 0
		}
	}
	s.Releases = append(s.Releases, QuotaCall{SaleID: saleID, Qty: qty})
	return nil
}

// DeliveryRepositoryStub stores delivery assignments in memory.
type DeliveryRepositoryStub struct {
	SelectStaleFn func(context.Context, model.DeliveryStatus, time.Time, int) ([]model.DeliveryAssignment, error)

	Assignments map[int64]*model.DeliveryAssignment // keyed by order ID
	Cancelled   []int64
	Next        int64
}

// NewDeliveryRepositoryStub constructs stub repository with initialized maps.
func NewDeliveryRepositoryStub() *DeliveryRepositoryStub {
	return &DeliveryRepositoryStub{Assignments: make(map[int64]*model.DeliveryAssignment), Next: 1}
}

func (s *DeliveryRepositoryStub) Create(ctx context.Context, a *model.DeliveryAssignment) (*model.DeliveryAssignment, error) {
	if a.ID == 0 {
		a.ID = s.Next
		s.Next++
	}
	s.Assignments[a.OrderID] = a
	return a, nil
}

func (s *DeliveryRepositoryStub) GetByOrder(ctx context.Context, orderID int64) (*model.DeliveryAssignment, error) {
	if a, ok := s.Assignments[orderID]; ok {
		return a, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *DeliveryRepositoryStub) UpdateStatus(ctx context.Context, assignmentID int64, status model.DeliveryStatus, at time.Time) error {
	for _, a := range s.Assignments {
		if a.ID == assignmentID {
			a.Status = status
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *DeliveryRepositoryStub) Cancel(ctx context.Context, assignmentID int64, reason string, at time.Time) error {
	for _, a := range s.Assignments {
		if a.ID == assignmentID {
			a.Status = model.DeliveryStatusCancelled
			a.CancellationReason = reason
			s.Cancelled = append(s.Cancelled, assignmentID)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *DeliveryRepositoryStub) SelectStale(ctx context.Context, status model.DeliveryStatus, before time.Time, limit int) ([]model.DeliveryAssignment, error) {
	if s.SelectStaleFn != nil {
		return s.SelectStaleFn(ctx, status, before, limit)
	}
	return nil, nil
}

// StockRepositoryStub stores product variants in memory.
type StockRepositoryStub struct {
	GetVariantFn func(context.Context, int64) (*model.ProductVariant, error)
	ReserveFn    func(context.Context, int64, int) error

	Variants map[int64]*model.ProductVariant
	Releases []QuotaCall
}

// NewStockRepositoryStub constructs stub repository with initialized maps.
func NewStockRepositoryStub() *StockRepositoryStub {
	return &StockRepositoryStub{Variants: make(map[int64]*model.ProductVariant)}
}

func (s *StockRepositoryStub) GetVariant(ctx context.Context, variantID int64) (*model.ProductVariant, error) {
	if s.GetVariantFn != nil {
		return s.GetVariantFn(ctx, variantID)
	}
	if v, ok := s.Variants[variantID]; ok {
		return v, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *StockRepositoryStub) StoreOfProduct(ctx context.Context, productID int64) (int64, error) {
	for _, v := range s.Variants {
		if v.ProductID == productID {
			return v.StoreID, nil
		}
	}
	return 0, domainErrors.ErrNotFound
}

func (s *StockRepositoryStub) Reserve(ctx context.Context, variantID int64, qty int) error {
	if s.ReserveFn != nil {
		return s.ReserveFn(ctx, variantID, qty)
	}
	v, ok := s.Variants[variantID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if v.Stock < qty {
		return domainErrors.ErrInsufficientStock
	}
	v.Stock -= qty
	return nil
}

func (s *StockRepositoryStub) Release(ctx context.Context, variantID int64, qty int) error {
	if v, ok := s.Variants[variantID]; ok {
		v.Stock += qty
	}
	s.Releases = append(s.Releases, QuotaCall{SaleID: variantID, Qty: qty})
	return nil
}

// PaymentRepositoryStub stores payment transactions keyed by reference.
type PaymentRepositoryStub struct {
	SelectStaleFn func(context.Context, time.Time, int) ([]model.PaymentTransaction, error)

	Payments  map[string]*model.PaymentTransaction
	Completed []int64
	Failed    []int64
	Next      int64
}

// NewPaymentRepositoryStub constructs stub repository with initialized maps.
func NewPaymentRepositoryStub() *PaymentRepositoryStub {
	return &PaymentRepositoryStub{Payments: make(map[string]*model.PaymentTransaction), Next: 1}
}

func (s *PaymentRepositoryStub) Create(ctx context.Context, txn *model.PaymentTransaction) (*model.PaymentTransaction, error) {
	if _, exists := s.Payments[txn.Reference]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if txn.ID == 0 {
		txn.ID = s.Next
		s.Next++
	}
	s.Payments[txn.Reference] = txn
	return txn, nil
}

func (s *PaymentRepositoryStub) GetByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error) {
	if txn, ok := s.Payments[reference]; ok {
		return txn, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *PaymentRepositoryStub) MarkCompleted(ctx context.Context, id int64, gatewayResponse string, paidAt time.Time) error {
	for _, txn := range s.Payments {
		if txn.ID == id {
			txn.Status = model.TxnStatusCompleted
			txn.GatewayResponse = gatewayResponse
			txn.PaidAt = &paidAt
			s.Completed = append(s.Completed, id)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *PaymentRepositoryStub) MarkFailed(ctx context.Context, id int64, gatewayResponse string) error {
	for _, txn := range s.Payments {
		if txn.ID == id {
			txn.Status = model.TxnStatusFailed
			txn.GatewayResponse = gatewayResponse
			s.Failed = append(s.Failed, id)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *PaymentRepositoryStub) SelectStalePending(ctx context.Context, before time.Time, limit int) ([]model.PaymentTransaction, error) {
	if s.SelectStaleFn != nil {
		return s.SelectStaleFn(ctx, before, limit)
	}
	return nil, nil
}

// StoreRepositoryStub resolves store facts from maps.
type StoreRepositoryStub struct {
	Owners    map[int64]int64
	Provinces map[int64]string
}

// NewStoreRepositoryStub constructs stub repository with initialized maps.
func NewStoreRepositoryStub() *StoreRepositoryStub {
	return &StoreRepositoryStub{Owners: make(map[int64]int64), Provinces: make(map[int64]string)}
}

func (s *StoreRepositoryStub) OwnerOf(ctx context.Context, storeID int64) (int64, error) {
	if owner, ok := s.Owners[storeID]; ok {
		return owner, nil
	}
	return 0, domainErrors.ErrNotFound
}

func (s *StoreRepositoryStub) ProvinceOf(ctx context.Context, storeID int64) (string, error) {
	if province, ok := s.Provinces[storeID]; ok {
		return province, nil
	}
	return "", domainErrors.ErrNotFound
}

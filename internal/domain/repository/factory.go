package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Wallets() WalletRepository
	Discounts() DiscountRepository
	FlashSales() FlashSaleRepository
	Deliveries() DeliveryRepository
	Stock() StockRepository
	Payments() PaymentRepository
	Stores() StoreRepository
}

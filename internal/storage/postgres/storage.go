package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool the storage depends on.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DB
	logger *slog.Logger
}

// newPgxPool is a seam for tests.
var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (DB, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Wallets() repository.WalletRepository {
	return &walletRepository{storage: s}
}

func (s *Storage) Discounts() repository.DiscountRepository {
	return &discountRepository{storage: s}
}

func (s *Storage) FlashSales() repository.FlashSaleRepository {
	return &flashSaleRepository{storage: s}
}

func (s *Storage) Deliveries() repository.DeliveryRepository {
	return &deliveryRepository{storage: s}
}

func (s *Storage) Stock() repository.StockRepository {
	return &stockRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) Stores() repository.StoreRepository {
	return &storeRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS stores (
            id BIGSERIAL PRIMARY KEY,
            owner_id BIGINT NOT NULL,
            province TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS product_variants (
            id BIGSERIAL PRIMARY KEY,
            product_id BIGINT NOT NULL,
            store_id BIGINT NOT NULL REFERENCES stores(id),
            sku TEXT UNIQUE NOT NULL,
            price NUMERIC NOT NULL,
            stock INT NOT NULL DEFAULT 0,
            active BOOLEAN NOT NULL DEFAULT TRUE
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL,
            store_id BIGINT NOT NULL REFERENCES stores(id),
            status TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            shipping_method TEXT NOT NULL,
            total_amount NUMERIC NOT NULL,
            discount_code_id BIGINT,
            note TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            variant_id BIGINT NOT NULL REFERENCES product_variants(id),
            product_id BIGINT NOT NULL,
            quantity INT NOT NULL,
            price_at_time NUMERIC NOT NULL,
            flash_sale_id BIGINT
        )`,
		`CREATE TABLE IF NOT EXISTS order_timeline (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            status TEXT NOT NULL,
            note TEXT NOT NULL DEFAULT '',
            occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS wallets (
            id BIGSERIAL PRIMARY KEY,
            owner_id BIGINT UNIQUE NOT NULL,
            balance NUMERIC NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS wallet_transactions (
            id BIGSERIAL PRIMARY KEY,
            wallet_id BIGINT NOT NULL REFERENCES wallets(id),
            amount NUMERIC NOT NULL,
            kind TEXT NOT NULL,
            status TEXT NOT NULL,
            order_id BIGINT,
            description TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS discount_codes (
            id BIGSERIAL PRIMARY KEY,
            store_id BIGINT NOT NULL REFERENCES stores(id),
            code TEXT UNIQUE NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            type TEXT NOT NULL,
            value NUMERIC NOT NULL,
            scope TEXT NOT NULL,
            min_order_amount NUMERIC NOT NULL DEFAULT 0,
            max_discount_value NUMERIC,
            start_at TIMESTAMPTZ NOT NULL,
            end_at TIMESTAMPTZ NOT NULL,
            max_uses INT NOT NULL,
            usage_per_customer INT NOT NULL,
            used_count INT NOT NULL DEFAULT 0,
            auto_apply BOOLEAN NOT NULL DEFAULT FALSE,
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS discount_products (
            discount_id BIGINT NOT NULL REFERENCES discount_codes(id) ON DELETE CASCADE,
            product_id BIGINT NOT NULL,
            PRIMARY KEY (discount_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS user_discounts (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            discount_id BIGINT NOT NULL REFERENCES discount_codes(id),
            used_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_discounts (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT UNIQUE NOT NULL REFERENCES orders(id),
            discount_id BIGINT NOT NULL REFERENCES discount_codes(id),
            original_amount NUMERIC NOT NULL,
            discount_amount NUMERIC NOT NULL,
            final_amount NUMERIC NOT NULL,
            confirmed BOOLEAN NOT NULL DEFAULT FALSE,
            applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS flash_sales (
            id BIGSERIAL PRIMARY KEY,
            product_id BIGINT NOT NULL,
            percentage_discount INT NOT NULL,
            quantity INT NOT NULL,
            sold_count INT NOT NULL DEFAULT 0,
            start_at TIMESTAMPTZ NOT NULL,
            end_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS delivery_assignments (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT UNIQUE NOT NULL REFERENCES orders(id),
            shipper_id BIGINT,
            status TEXT NOT NULL,
            estimated_delivery TIMESTAMPTZ NOT NULL,
            assigned_at TIMESTAMPTZ,
            picked_up_at TIMESTAMPTZ,
            delivered_at TIMESTAMPTZ,
            cancelled_at TIMESTAMPTZ,
            cancellation_reason TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payment_transactions (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            reference TEXT UNIQUE NOT NULL,
            amount NUMERIC NOT NULL,
            method TEXT NOT NULL,
            status TEXT NOT NULL,
            gateway_response TEXT NOT NULL DEFAULT '',
            paid_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status_updated ON orders(status, updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_timeline_order ON order_timeline(order_id, occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_wallet_txns_wallet ON wallet_transactions(wallet_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_user_discounts_pair ON user_discounts(discount_id, user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_flash_sales_product ON flash_sales(product_id, start_at, end_at)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_status ON delivery_assignments(status, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// appendTimelineTx records one status history row inside a transaction.
func (s *Storage) appendTimelineTx(ctx context.Context, tx pgx.Tx, orderID int64, status model.OrderStatus, note string) error {
	const query = `INSERT INTO order_timeline (order_id, status, note) VALUES ($1, $2, $3)`
	_, err := tx.Exec(ctx, query, orderID, status, note)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Pool exposes the underlying connection handle for advanced use.
func (s *Storage) Pool() DB {
	return s.pool
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

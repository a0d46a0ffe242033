package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	GatewayAddress    string
	GatewaySecret     string
	KafkaBrokers      []string
	RedisAddr         string
	EscrowOwnerID     int64
	ConflictRetries   int
	ReconcileInterval time.Duration
	ReconcileBatch    int
	AutoCancelAfter   time.Duration
	AutoConfirmAfter  time.Duration
	PaymentTimeout    time.Duration
	FlashSaleCacheTTL time.Duration
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultEscrowOwnerID     = 1
	defaultConflictRetries   = 3
	defaultReconcileInterval = time.Minute
	defaultReconcileBatch    = 64
	defaultAutoCancelAfter   = 24 * time.Hour
	defaultAutoConfirmAfter  = 72 * time.Hour
	defaultPaymentTimeout    = 30 * time.Minute
	defaultFlashSaleCacheTTL = 30 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		GatewayAddress:    getString(lookup, "GATEWAY_ADDRESS", ""),
		GatewaySecret:     getString(lookup, "GATEWAY_SECRET", ""),
		RedisAddr:         getString(lookup, "REDIS_ADDR", ""),
		EscrowOwnerID:     getInt64(lookup, "ESCROW_OWNER_ID", defaultEscrowOwnerID),
		ConflictRetries:   getInt(lookup, "CONFLICT_RETRIES", defaultConflictRetries),
		ReconcileInterval: getDuration(lookup, "RECONCILE_INTERVAL", defaultReconcileInterval),
		ReconcileBatch:    getInt(lookup, "RECONCILE_BATCH", defaultReconcileBatch),
		AutoCancelAfter:   getDuration(lookup, "AUTO_CANCEL_AFTER", defaultAutoCancelAfter),
		AutoConfirmAfter:  getDuration(lookup, "AUTO_CONFIRM_AFTER", defaultAutoConfirmAfter),
		PaymentTimeout:    getDuration(lookup, "PAYMENT_TIMEOUT", defaultPaymentTimeout),
		FlashSaleCacheTTL: getDuration(lookup, "FLASH_CACHE_TTL", defaultFlashSaleCacheTTL),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	brokers := getString(lookup, "KAFKA_BROKERS", "")

	fs := flag.NewFlagSet("settlement", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.GatewaySecret, "gateway-secret", cfg.GatewaySecret, "Secret for verifying gateway callbacks")
	fs.StringVar(&brokers, "kafka-brokers", brokers, "Comma separated Kafka broker list")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the flash sale cache")
	fs.Int64Var(&cfg.EscrowOwnerID, "escrow-owner", cfg.EscrowOwnerID, "Owner id of the escrow wallet")
	fs.IntVar(&cfg.ConflictRetries, "conflict-retries", cfg.ConflictRetries, "Retries on concurrent update conflicts")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between reconciliation runs")
	fs.IntVar(&cfg.ReconcileBatch, "reconcile-batch", cfg.ReconcileBatch, "Maximum orders per reconciliation batch")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if secretFile, ok := lookup("GATEWAY_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read gateway secret file: %w", err)
		}
		cfg.GatewaySecret = strings.TrimSpace(string(content))
	}

	if cfg.ConflictRetries <= 0 {
		cfg.ConflictRetries = defaultConflictRetries
	}

	if cfg.ReconcileBatch <= 0 {
		cfg.ReconcileBatch = defaultReconcileBatch
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.AutoCancelAfter <= 0 {
		cfg.AutoCancelAfter = defaultAutoCancelAfter
	}

	if cfg.AutoConfirmAfter <= 0 {
		cfg.AutoConfirmAfter = defaultAutoConfirmAfter
	}

	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = defaultPaymentTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

package models

import "time"

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Wallet     WalletConfig
	Optimizer  OptimizerConfig
	Executor   ExecutorConfig
	Settlement SettlementConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	CreateDemoUsers bool
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	Environment     string
	AllowedOrigins  []string
	SessionLifetime time.Duration
	ShutdownTimeout time.Duration
}

// WalletConfig holds wallet and redemption settings
type WalletConfig struct {
	MinRedemptionAmount string
}

// OptimizerConfig holds the external resume optimization service settings
type OptimizerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ExecutorConfig holds auto-apply execution settings
type ExecutorConfig struct {
	Timeout          time.Duration
	SimulatedSuccess float64
	SimulatedLatency time.Duration
}

// SettlementConfig holds the redemption settlement collaborator settings
type SettlementConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

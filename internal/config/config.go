/**
 * Copyright 2025-present Jobpilot, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"jobpilot-go/internal/models"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	sessionLifetime, err := getEnvDuration("SESSION_LIFETIME", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	optimizerTimeout, err := getEnvDuration("OPTIMIZER_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	executorTimeout, err := getEnvDuration("EXECUTOR_TIMEOUT", 90*time.Second)
	if err != nil {
		return nil, err
	}

	executorLatency, err := getEnvDuration("EXECUTOR_SIMULATED_LATENCY", 2*time.Second)
	if err != nil {
		return nil, err
	}

	settlementTimeout, err := getEnvDuration("SETTLEMENT_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "jobpilot.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
			CreateDemoUsers: getEnvBool("CREATE_DEMO_USERS", false),
		},
		Server: models.ServerConfig{
			Port:            getEnvString("SERVER_PORT", "8080"),
			Environment:     getEnvString("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvStringSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			SessionLifetime: sessionLifetime,
			ShutdownTimeout: shutdownTimeout,
		},
		Wallet: models.WalletConfig{
			MinRedemptionAmount: getEnvString("MIN_REDEMPTION_AMOUNT", "100"),
		},
		Optimizer: models.OptimizerConfig{
			BaseURL: getEnvString("OPTIMIZER_BASE_URL", ""),
			Timeout: optimizerTimeout,
		},
		Executor: models.ExecutorConfig{
			Timeout:          executorTimeout,
			SimulatedSuccess: getEnvFloat("EXECUTOR_SIMULATED_SUCCESS", 0.8),
			SimulatedLatency: executorLatency,
		},
		Settlement: models.SettlementConfig{
			WebhookURL: getEnvString("SETTLEMENT_WEBHOOK_URL", ""),
			Timeout:    settlementTimeout,
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

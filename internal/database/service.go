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

package database

import (
	"context"
	"database/sql"
	"fmt"

	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.Store.
var _ store.Store = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(cfg.CreateDemoUsers); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema(createDemoUsers bool) error {
	schema := `
	-- Accounts
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		is_admin BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	-- Bearer-token sessions
	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);

	-- One structured resume document per user, replaced as a whole
	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		document TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Job catalog
	CREATE TABLE IF NOT EXISTS job_listings (
		id TEXT PRIMARY KEY,
		company_name TEXT NOT NULL,
		company_logo_url TEXT NOT NULL DEFAULT '',
		role_title TEXT NOT NULL,
		package_amount TEXT NOT NULL DEFAULT '0',
		package_type TEXT NOT NULL DEFAULT '',
		domain TEXT NOT NULL,
		location_type TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		experience_required TEXT NOT NULL,
		qualification TEXT NOT NULL,
		short_description TEXT NOT NULL,
		full_description TEXT NOT NULL,
		application_link TEXT NOT NULL,
		posted_date TIMESTAMP NOT NULL,
		source_api TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_job_listings_active ON job_listings(is_active);
	CREATE INDEX IF NOT EXISTS idx_job_listings_domain ON job_listings(domain);
	CREATE INDEX IF NOT EXISTS idx_job_listings_posted_date ON job_listings(posted_date);

	-- Immutable optimization artifacts
	CREATE TABLE IF NOT EXISTS optimized_resumes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		job_id TEXT NOT NULL,
		content TEXT NOT NULL,
		pdf_url TEXT NOT NULL DEFAULT '',
		docx_url TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_optimized_resumes_user ON optimized_resumes(user_id);
	CREATE INDEX IF NOT EXISTS idx_optimized_resumes_user_job ON optimized_resumes(user_id, job_id);

	-- Append-only application audit trail (manual and auto in one table)
	CREATE TABLE IF NOT EXISTS application_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		job_id TEXT NOT NULL,
		resume_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		status TEXT NOT NULL,
		redirect_url TEXT NOT NULL DEFAULT '',
		screenshot_url TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		fallback_url TEXT NOT NULL DEFAULT '',
		snapshot TEXT,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_application_logs_user ON application_logs(user_id);
	CREATE INDEX IF NOT EXISTS idx_application_logs_user_job ON application_logs(user_id, job_id);
	CREATE INDEX IF NOT EXISTS idx_application_logs_status ON application_logs(status);

	-- Append-only wallet ledger
	CREATE TABLE IF NOT EXISTS wallet_transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		method TEXT NOT NULL DEFAULT '',
		details TEXT,
		source_user_id TEXT NOT NULL DEFAULT '',
		external_event_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_user ON wallet_transactions(user_id);
	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_user_status ON wallet_transactions(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_external_id ON wallet_transactions(external_event_id);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return err
	}

	// Insert demo users for local development if configured to do so
	if createDemoUsers {
		users := []struct {
			id      string
			name    string
			email   string
			isAdmin bool
		}{
			{uuid.New().String(), "Alice Johnson", "alice.johnson@example.com", false},
			{uuid.New().String(), "Bob Smith", "bob.smith@example.com", false},
			{uuid.New().String(), "Carol Williams", "carol.williams@example.com", true},
		}

		for _, user := range users {
			_, err := s.db.Exec(queryInsertUser, user.id, user.name, user.email, user.isAdmin)
			if err != nil {
				zap.L().Error("Failed to insert demo user", zap.String("name", user.name), zap.Error(err))
			} else {
				zap.L().Info("Demo user created", zap.String("id", user.id), zap.String("name", user.name))
			}
		}
	} else {
		zap.L().Info("Skipping demo user creation (CREATE_DEMO_USERS=false)")
	}

	return nil
}

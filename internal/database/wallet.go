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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetWalletBalance derives the balance from the transaction log on every
// read: sum of completed amounts. There is no stored running total to drift.
func (s *Service) GetWalletBalance(ctx context.Context, userId string) (decimal.Decimal, error) {
	zap.L().Debug("Getting wallet balance", zap.String("user_id", userId))

	rows, err := s.db.QueryContext(ctx, queryWalletCompletedAmounts, userId)
	if err != nil {
		zap.L().Error("Failed to get wallet balance", zap.String("user_id", userId), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to get wallet balance: %w", err)
	}

	balance, err := sumAmounts(rows)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum wallet balance: %w", err)
	}

	return balance, nil
}

// ListWalletTransactions returns a newest-first page of the ledger.
func (s *Service) ListWalletTransactions(ctx context.Context, userId string, limit, offset int) ([]models.WalletTransaction, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, queryListWalletTransactions, userId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var transactions []models.WalletTransaction
	for rows.Next() {
		tx, err := scanWalletTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet transaction: %w", err)
		}
		transactions = append(transactions, *tx)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during wallet transaction row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating wallet transaction rows: %w", err)
	}

	return transactions, nil
}

// ReserveRedemption atomically checks sufficiency and places the redemption
// hold. Available balance is the completed sum minus outstanding pending
// redemption holds, computed inside the same database transaction as the
// insert, so two concurrent requests cannot both pass a check their combined
// amounts would violate.
func (s *Service) ReserveRedemption(ctx context.Context, params store.ReserveRedemptionParams) (*models.WalletTransaction, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("redemption amount must be positive, got %s", params.Amount.String())
	}

	zap.L().Info("Reserving redemption",
		zap.String("user_id", params.UserId),
		zap.String("amount", params.Amount.String()),
		zap.String("method", params.Method))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	amountRows, err := tx.QueryContext(ctx, queryWalletAvailableAmounts, params.UserId)
	if err != nil {
		return nil, fmt.Errorf("failed to compute available balance: %w", err)
	}

	available, err := sumAmounts(amountRows)
	if err != nil {
		return nil, fmt.Errorf("failed to sum available balance: %w", err)
	}

	if params.Amount.GreaterThan(available) {
		zap.L().Warn("Redemption exceeds available balance",
			zap.String("user_id", params.UserId),
			zap.String("requested", params.Amount.String()),
			zap.String("available", available.String()))
		return nil, fmt.Errorf("requested %s, available %s: %w",
			params.Amount.String(), available.String(), store.ErrInsufficientBalance)
	}

	now := time.Now()
	hold := &models.WalletTransaction{
		Id:        uuid.New().String(),
		UserId:    params.UserId,
		Amount:    params.Amount.Neg(),
		Type:      models.TransactionTypeRedemption,
		Status:    models.TransactionStatusPending,
		Method:    params.Method,
		Details:   params.Details,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var details sql.NullString
	if hold.Details != nil {
		encoded, err := json.Marshal(hold.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to encode redemption details: %w", err)
		}
		details = sql.NullString{String: string(encoded), Valid: true}
	}

	_, err = tx.ExecContext(ctx, queryInsertWalletTransaction,
		hold.Id, hold.UserId, hold.Amount.String(), hold.Type, hold.Status,
		hold.Method, details, hold.SourceUserId, nil, hold.CreatedAt, hold.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert redemption hold: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit redemption hold: %w", err)
	}

	zap.L().Info("Redemption reserved",
		zap.String("transaction_id", hold.Id),
		zap.String("user_id", params.UserId),
		zap.String("amount", params.Amount.String()),
		zap.String("remaining", available.Sub(params.Amount).String()))

	return hold, nil
}

// ReleaseRedemption marks a pending hold failed, returning the held amount
// to the available balance. Used when the settlement notification fails.
func (s *Service) ReleaseRedemption(ctx context.Context, transactionId string) error {
	result, err := s.db.ExecContext(ctx, queryReleaseRedemption, time.Now(), transactionId)
	if err != nil {
		return fmt.Errorf("failed to release redemption hold: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("redemption hold %s is not pending: %w", transactionId, store.ErrConcurrentModification)
	}

	zap.L().Info("Redemption hold released", zap.String("transaction_id", transactionId))
	return nil
}

// SettleRedemption records the payout outcome for a pending hold: completed
// keeps the debit in the balance, failed returns the held amount.
func (s *Service) SettleRedemption(ctx context.Context, transactionId string, success bool) error {
	status := models.TransactionStatusCompleted
	if !success {
		status = models.TransactionStatusFailed
	}

	result, err := s.db.ExecContext(ctx, querySettleRedemption, status, time.Now(), transactionId)
	if err != nil {
		return fmt.Errorf("failed to settle redemption: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("redemption %s is not pending: %w", transactionId, store.ErrConcurrentModification)
	}

	zap.L().Info("Redemption settled",
		zap.String("transaction_id", transactionId),
		zap.String("status", status))
	return nil
}

// RecordAdjustment inserts a completed correction entry. The amount is signed.
func (s *Service) RecordAdjustment(ctx context.Context, params store.AdjustmentParams) (*models.WalletTransaction, error) {
	if params.Amount.IsZero() {
		return nil, fmt.Errorf("adjustment amount cannot be zero")
	}

	now := time.Now()
	adjustment := &models.WalletTransaction{
		Id:        uuid.New().String(),
		UserId:    params.UserId,
		Amount:    params.Amount,
		Type:      models.TransactionTypeAdjustment,
		Status:    models.TransactionStatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, queryInsertWalletTransaction,
		adjustment.Id, adjustment.UserId, adjustment.Amount.String(), adjustment.Type,
		adjustment.Status, "", nil, "", nil, adjustment.CreatedAt, adjustment.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert adjustment: %w", err)
	}

	zap.L().Info("Adjustment recorded",
		zap.String("transaction_id", adjustment.Id),
		zap.String("user_id", params.UserId),
		zap.String("amount", params.Amount.String()),
		zap.String("note", params.Note))

	return adjustment, nil
}

// CreditReferral records a completed referral credit. The external event id
// deduplicates redelivered purchase events.
func (s *Service) CreditReferral(ctx context.Context, params store.ReferralCreditParams) (*models.WalletTransaction, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("referral amount must be positive, got %s", params.Amount.String())
	}

	if params.ExternalEventId != "" {
		var existingId string
		err := s.db.QueryRowContext(ctx, queryCheckDuplicateEvent, params.ExternalEventId).Scan(&existingId)
		if err == nil {
			zap.L().Warn("Duplicate referral event detected, skipping",
				zap.String("external_event_id", params.ExternalEventId),
				zap.String("existing_transaction_id", existingId))
			return nil, fmt.Errorf("%w: external_event_id %s already exists",
				store.ErrDuplicateTransaction, params.ExternalEventId)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to check for duplicate event: %w", err)
		}
	}

	now := time.Now()
	credit := &models.WalletTransaction{
		Id:              uuid.New().String(),
		UserId:          params.UserId,
		Amount:          params.Amount,
		Type:            models.TransactionTypeReferral,
		Status:          models.TransactionStatusCompleted,
		SourceUserId:    params.SourceUserId,
		ExternalEventId: params.ExternalEventId,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var externalId interface{}
	if credit.ExternalEventId != "" {
		externalId = credit.ExternalEventId
	}

	_, err := s.db.ExecContext(ctx, queryInsertWalletTransaction,
		credit.Id, credit.UserId, credit.Amount.String(), credit.Type, credit.Status,
		"", nil, credit.SourceUserId, externalId, credit.CreatedAt, credit.UpdatedAt)
	if err != nil {
		zap.L().Error("Failed to insert referral credit",
			zap.String("user_id", params.UserId), zap.Error(err))
		return nil, fmt.Errorf("failed to insert referral credit: %w", err)
	}

	zap.L().Info("Referral credited",
		zap.String("transaction_id", credit.Id),
		zap.String("user_id", params.UserId),
		zap.String("amount", params.Amount.String()),
		zap.String("source_user_id", params.SourceUserId))

	return credit, nil
}

// sumAmounts adds up a single-column result set of decimal amount strings.
// It owns closing the rows.
func sumAmounts(rows *sql.Rows) (decimal.Decimal, error) {
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	total := decimal.Zero
	for rows.Next() {
		var amountStr string
		if err := rows.Scan(&amountStr); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan amount: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("error iterating amount rows: %w", err)
	}
	return total, nil
}

// ReconcileWallet re-derives the completed sum through the paged transaction
// listing and compares it to the balance-read path.
func (s *Service) ReconcileWallet(ctx context.Context, userId string) error {
	zap.L().Info("Reconciling wallet", zap.String("user_id", userId))

	aggregate, err := s.GetWalletBalance(ctx, userId)
	if err != nil {
		return fmt.Errorf("failed to get aggregate balance: %w", err)
	}

	derived := decimal.Zero
	offset := 0
	const page = 200
	for {
		transactions, err := s.ListWalletTransactions(ctx, userId, page, offset)
		if err != nil {
			return fmt.Errorf("failed to walk transactions: %w", err)
		}
		for _, tx := range transactions {
			if tx.Status == models.TransactionStatusCompleted {
				derived = derived.Add(tx.Amount)
			}
		}
		if len(transactions) < page {
			break
		}
		offset += page
	}

	if !aggregate.Equal(derived) {
		zap.L().Error("Wallet reconciliation failed",
			zap.String("user_id", userId),
			zap.String("aggregate", aggregate.String()),
			zap.String("derived", derived.String()),
			zap.String("difference", aggregate.Sub(derived).String()))
		return fmt.Errorf("balance mismatch: aggregate=%s, derived=%s", aggregate.String(), derived.String())
	}

	zap.L().Info("Wallet reconciliation successful",
		zap.String("user_id", userId),
		zap.String("balance", aggregate.String()))
	return nil
}

func scanWalletTransaction(row rowScanner) (*models.WalletTransaction, error) {
	var tx models.WalletTransaction
	var amountStr string
	var details, externalId sql.NullString
	err := row.Scan(&tx.Id, &tx.UserId, &amountStr, &tx.Type, &tx.Status,
		&tx.Method, &details, &tx.SourceUserId, &externalId, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}

	tx.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
	}

	if details.Valid && details.String != "" {
		var decoded models.RedemptionDetails
		if err := json.Unmarshal([]byte(details.String), &decoded); err != nil {
			return nil, fmt.Errorf("failed to decode redemption details: %w", err)
		}
		tx.Details = &decoded
	}
	tx.ExternalEventId = externalId.String

	return &tx, nil
}

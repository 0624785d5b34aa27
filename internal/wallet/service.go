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

package wallet

import (
	"context"
	"fmt"
	"strings"

	"jobpilot-go/internal/models"
	"jobpilot-go/internal/settlement"
	"jobpilot-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service implements the referral wallet on top of the append-only
// transaction ledger.
type Service struct {
	db            store.Store
	notifier      settlement.Notifier
	minRedemption decimal.Decimal
}

func NewService(db store.Store, notifier settlement.Notifier, cfg models.WalletConfig) (*Service, error) {
	minRedemption, err := decimal.NewFromString(cfg.MinRedemptionAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum redemption amount %q: %w", cfg.MinRedemptionAmount, err)
	}
	return &Service{
		db:            db,
		notifier:      notifier,
		minRedemption: minRedemption,
	}, nil
}

// Balance returns the display balance: the completed sum, floored at zero.
// The ledger can briefly dip negative between a payout completing and its
// originating credit being adjusted; users never see that.
func (s *Service) Balance(ctx context.Context, userId string) (decimal.Decimal, error) {
	balance, err := s.db.GetWalletBalance(ctx, userId)
	if err != nil {
		return decimal.Zero, err
	}
	if balance.IsNegative() {
		zap.L().Warn("Clamping negative wallet balance for display",
			zap.String("user_id", userId),
			zap.String("raw_balance", balance.String()))
		return decimal.Zero, nil
	}
	return balance, nil
}

// Transactions returns a newest-first page of the user's ledger history.
func (s *Service) Transactions(ctx context.Context, userId string, limit, offset int) ([]models.WalletTransaction, error) {
	return s.db.ListWalletTransactions(ctx, userId, limit, offset)
}

// RequestRedemption validates and reserves a payout request. The sequence is
// validate, atomically hold, notify settlement; if settlement never accepts
// the request the hold is released so the funds stay redeemable.
func (s *Service) RequestRedemption(ctx context.Context, userId string, req models.RedemptionRequest) (*models.WalletTransaction, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return nil, fmt.Errorf("invalid redemption amount %q: %w", req.Amount, store.ErrInvalidDetails)
	}
	if amount.LessThan(s.minRedemption) {
		return nil, fmt.Errorf("requested %s, minimum is %s: %w",
			amount.String(), s.minRedemption.String(), store.ErrBelowMinimum)
	}

	details, err := validateDetails(req.Method, req.Details)
	if err != nil {
		return nil, err
	}

	hold, err := s.db.ReserveRedemption(ctx, store.ReserveRedemptionParams{
		UserId:  userId,
		Amount:  amount,
		Method:  req.Method,
		Details: details,
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyRedemption(ctx, hold); err != nil {
		zap.L().Error("Settlement notification failed, releasing hold",
			zap.String("transaction_id", hold.Id),
			zap.String("user_id", userId),
			zap.Error(err))
		if releaseErr := s.db.ReleaseRedemption(ctx, hold.Id); releaseErr != nil {
			zap.L().Error("Failed to release redemption hold",
				zap.String("transaction_id", hold.Id),
				zap.Error(releaseErr))
		}
		return nil, fmt.Errorf("%w: %v", store.ErrSettlementUnavailable, err)
	}

	zap.L().Info("Redemption requested",
		zap.String("transaction_id", hold.Id),
		zap.String("user_id", userId),
		zap.String("amount", amount.String()),
		zap.String("method", req.Method))
	return hold, nil
}

// SettleRedemption applies the payout system's outcome to a pending hold.
func (s *Service) SettleRedemption(ctx context.Context, transactionId string, success bool) error {
	return s.db.SettleRedemption(ctx, transactionId, success)
}

// RecordAdjustment writes a signed correction entry into the ledger.
func (s *Service) RecordAdjustment(ctx context.Context, params store.AdjustmentParams) (*models.WalletTransaction, error) {
	return s.db.RecordAdjustment(ctx, params)
}

// CreditReferral records a referral reward for the given user. Safe to call
// on redelivered purchase events; duplicates surface ErrDuplicateTransaction.
func (s *Service) CreditReferral(ctx context.Context, params store.ReferralCreditParams) (*models.WalletTransaction, error) {
	return s.db.CreditReferral(ctx, params)
}

// Reconcile verifies the aggregate balance against a row-by-row walk.
func (s *Service) Reconcile(ctx context.Context, userId string) error {
	return s.db.ReconcileWallet(ctx, userId)
}

func validateDetails(method string, details models.RedemptionDetails) (*models.RedemptionDetails, error) {
	switch method {
	case models.RedemptionMethodUPI:
		if strings.TrimSpace(details.UpiId) == "" {
			return nil, fmt.Errorf("upi redemption requires a UPI id: %w", store.ErrInvalidDetails)
		}
		return &models.RedemptionDetails{UpiId: strings.TrimSpace(details.UpiId)}, nil
	case models.RedemptionMethodBankTransfer:
		holder := strings.TrimSpace(details.AccountHolder)
		number := strings.TrimSpace(details.AccountNumber)
		ifsc := strings.TrimSpace(details.IfscCode)
		if holder == "" || number == "" || ifsc == "" {
			return nil, fmt.Errorf("bank transfer requires account holder, account number and IFSC code: %w", store.ErrInvalidDetails)
		}
		return &models.RedemptionDetails{
			AccountHolder: holder,
			AccountNumber: number,
			IfscCode:      ifsc,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported redemption method %q: %w", method, store.ErrInvalidDetails)
	}
}

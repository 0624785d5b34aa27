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

package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"jobpilot-go/internal/models"

	"go.uber.org/zap"
)

// Notifier hands a reserved redemption to the payout system. A non-nil error
// means the payout system never accepted the request and the hold should be
// released; once accepted, the payout system owns the terminal transition of
// the transaction.
type Notifier interface {
	NotifyRedemption(ctx context.Context, tx *models.WalletTransaction) error
}

// WebhookNotifier posts redemption requests to an operations webhook.
type WebhookNotifier struct {
	cfg    models.SettlementConfig
	client *http.Client
}

func NewWebhookNotifier(cfg models.SettlementConfig) *WebhookNotifier {
	return &WebhookNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type redemptionNotification struct {
	TransactionId string                   `json:"transactionId"`
	UserId        string                   `json:"userId"`
	Amount        string                   `json:"amount"`
	Method        string                   `json:"method"`
	Details       *models.RedemptionDetails `json:"details,omitempty"`
}

func (n *WebhookNotifier) NotifyRedemption(ctx context.Context, tx *models.WalletTransaction) error {
	payload := redemptionNotification{
		TransactionId: tx.Id,
		UserId:        tx.UserId,
		Amount:        tx.Amount.Neg().String(),
		Method:        tx.Method,
		Details:       tx.Details,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode redemption notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build redemption notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver redemption notification: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("redemption notification rejected with status %d", resp.StatusCode)
	}

	zap.L().Info("Redemption notification delivered",
		zap.String("transaction_id", tx.Id),
		zap.Int("status", resp.StatusCode))
	return nil
}

// LoggingNotifier accepts every redemption and only logs it. Used in
// development when no payout webhook is configured.
type LoggingNotifier struct{}

func NewLoggingNotifier() *LoggingNotifier {
	return &LoggingNotifier{}
}

func (n *LoggingNotifier) NotifyRedemption(ctx context.Context, tx *models.WalletTransaction) error {
	zap.L().Info("Redemption accepted (logging notifier)",
		zap.String("transaction_id", tx.Id),
		zap.String("user_id", tx.UserId),
		zap.String("amount", tx.Amount.Neg().String()),
		zap.String("method", tx.Method))
	return nil
}

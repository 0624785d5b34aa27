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

package main

import (
	"context"
	"flag"
	"fmt"

	"jobpilot-go/internal/common"
	"jobpilot-go/internal/config"
	"jobpilot-go/internal/database"
	"jobpilot-go/internal/models"

	"go.uber.org/zap"
)

const transactionPageSize = 25

type walletStats struct {
	totalUsers       int
	usersWithHistory int
	totalRows        int
}

func printTransaction(tx models.WalletTransaction, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	fmt.Printf("%s %-10s %-10s %12s  (event: %s, %s)\n",
		symbol,
		tx.Type,
		tx.Status,
		tx.Amount.String(),
		common.TruncateId(tx.ExternalEventId),
		tx.CreatedAt.Format("2006-01-02 15:04:05"))
}

func printUserHeader(user common.UserInfo, balance string, rowCount int) {
	common.PrintBoxHeader(
		fmt.Sprintf("User: %s (%s)", user.Name, user.Email),
		fmt.Sprintf("ID: %s", user.Id),
		fmt.Sprintf("Balance: %s", balance),
		fmt.Sprintf("Transactions: %d", rowCount))
}

func processUser(ctx context.Context, user common.UserInfo, dbService *database.Service, logger *zap.Logger) (int, error) {
	balance, err := dbService.GetWalletBalance(ctx, user.Id)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	transactions, err := dbService.ListWalletTransactions(ctx, user.Id, transactionPageSize, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	if len(transactions) == 0 {
		return 0, nil
	}

	printUserHeader(user, balance.String(), len(transactions))
	for i, tx := range transactions {
		printTransaction(tx, i == len(transactions)-1)
	}

	return len(transactions), nil
}

func processUsersAndGenerateReport(ctx context.Context, users []common.UserInfo, dbService *database.Service, logger *zap.Logger) walletStats {
	stats := walletStats{}

	for _, user := range users {
		stats.totalUsers++

		rowCount, err := processUser(ctx, user, dbService, logger)
		if err != nil {
			logger.Error("Failed to process user",
				zap.String("user_id", user.Id),
				zap.String("user_name", user.Name),
				zap.Error(err))
			continue
		}

		if rowCount > 0 {
			stats.usersWithHistory++
			stats.totalRows += rowCount
		}
	}

	return stats
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Filter by specific user email (optional)")
	reconcileFlag := flag.Bool("reconcile", false, "Verify the aggregate balance against a row walk")
	flag.Parse()

	logger.Info("Starting wallet report")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	users, err := common.InitializeUsers(ctx, dbService, *emailFlag, logger)
	if err != nil {
		logger.Fatal("Failed to initialize users", zap.Error(err))
	}

	common.PrintHeader("WALLET REPORT", common.DefaultWidth)

	stats := processUsersAndGenerateReport(ctx, users, dbService, logger)

	if *reconcileFlag {
		for _, user := range users {
			if err := dbService.ReconcileWallet(ctx, user.Id); err != nil {
				logger.Error("Reconciliation failed",
					zap.String("user_id", user.Id),
					zap.Error(err))
			}
		}
	}

	summary := fmt.Sprintf("SUMMARY: %d users with wallet history (%d transactions across %d users queried)",
		stats.usersWithHistory, stats.totalRows, stats.totalUsers)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Wallet report completed",
		zap.Int("users_queried", stats.totalUsers),
		zap.Int("users_with_history", stats.usersWithHistory),
		zap.Int("total_transactions", stats.totalRows))
}

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
	"os/signal"
	"syscall"

	"jobpilot-go/internal/catalog"
	"jobpilot-go/internal/common"
	"jobpilot-go/internal/config"
	"jobpilot-go/internal/optimizer"
	"jobpilot-go/internal/server"
	"jobpilot-go/internal/wallet"
	"jobpilot-go/internal/workflow"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	var optimizerClient optimizer.Client
	if cfg.Optimizer.BaseURL != "" {
		logger.Info("Using hosted optimizer", zap.String("base_url", cfg.Optimizer.BaseURL))
		optimizerClient = optimizer.NewHTTPClient(cfg.Optimizer)
	} else {
		logger.Info("No optimizer service configured, using local optimizer")
		optimizerClient = optimizer.NewLocalClient()
	}

	walletService, err := wallet.NewService(services.DbService, services.Notifier, cfg.Wallet)
	if err != nil {
		logger.Fatal("Failed to initialize wallet service", zap.Error(err))
	}

	srv := server.NewServer(cfg, services.DbService,
		catalog.NewService(services.DbService),
		walletService,
		workflow.NewService(services.DbService, services.Executor, cfg.Executor),
		optimizer.NewService(services.DbService, optimizerClient))

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("Server exited with error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

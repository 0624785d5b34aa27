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

package server

import (
	"context"
	"errors"
	"net/http"

	"jobpilot-go/internal/auth"
	"jobpilot-go/internal/catalog"
	"jobpilot-go/internal/models"
	"jobpilot-go/internal/optimizer"
	"jobpilot-go/internal/store"
	"jobpilot-go/internal/wallet"
	"jobpilot-go/internal/workflow"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server wires the HTTP surface over the domain services.
type Server struct {
	cfg       *models.Config
	db        store.Store
	catalog   *catalog.Service
	wallet    *wallet.Service
	workflow  *workflow.Service
	optimizer *optimizer.Service
}

func NewServer(cfg *models.Config, db store.Store, catalogSvc *catalog.Service, walletSvc *wallet.Service, workflowSvc *workflow.Service, optimizerSvc *optimizer.Service) *Server {
	return &Server{
		cfg:       cfg,
		db:        db,
		catalog:   catalogSvc,
		wallet:    walletSvc,
		workflow:  workflowSvc,
		optimizer: optimizerSvc,
	}
}

func (s *Server) Router() *gin.Engine {
	if s.cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", s.handleHealth)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", s.handleLogin)

		v1.GET("/jobs", s.handleListJobs)
		v1.GET("/jobs/:id", s.handleGetJob)

		authed := v1.Group("", auth.Middleware(s.db))
		{
			authed.POST("/auth/logout", s.handleLogout)
			authed.GET("/me", s.handleMe)

			authed.GET("/profile", s.handleGetProfile)
			authed.PUT("/profile", s.handleReplaceProfile)

			authed.POST("/resumes/optimize", s.handleOptimizeResume)
			authed.GET("/resumes", s.handleListResumes)
			authed.GET("/resumes/:id", s.handleGetResume)

			authed.POST("/applications/manual", s.handleManualApply)
			authed.GET("/applications", s.handleListApplications)
			authed.GET("/applications/:id", s.handleGetApplication)
			authed.POST("/auto-apply", s.handleAutoApply)

			authed.GET("/wallet/balance", s.handleWalletBalance)
			authed.GET("/wallet/transactions", s.handleWalletTransactions)
			authed.POST("/wallet/redemptions", s.handleRequestRedemption)

			admin := authed.Group("/admin", auth.RequireAdmin())
			{
				admin.POST("/jobs", s.handleCreateJob)
				admin.DELETE("/jobs/:id", s.handleDeactivateJob)
				admin.POST("/referrals", s.handleCreditReferral)
				admin.POST("/redemptions/:id/settle", s.handleSettleRedemption)
				admin.POST("/wallet/adjustments", s.handleRecordAdjustment)
			}
		}
	}

	return router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Server.Port,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.L().Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

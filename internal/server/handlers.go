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
	"errors"
	"net/http"
	"strconv"
	"strings"

	"jobpilot-go/internal/auth"
	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type loginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	user, err := s.db.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// Same response for unknown and known-but-failed lookups.
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid credentials"})
		return
	}

	session, err := s.db.CreateSession(c.Request.Context(), user.Id, s.cfg.Server.SessionLifetime)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   session.Token,
		"expires": session.ExpiresAt,
		"user":    user,
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if err := s.db.DeleteSession(c.Request.Context(), token); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleMe(c *gin.Context) {
	user, err := s.db.GetUserById(c.Request.Context(), auth.UserId(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// --- Profile ---

func (s *Server) handleGetProfile(c *gin.Context) {
	profile, err := s.db.GetProfile(c.Request.Context(), auth.UserId(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

func (s *Server) handleReplaceProfile(c *gin.Context) {
	var draft models.UserProfile
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	draft.UserId = auth.UserId(c)

	if err := s.db.ReplaceProfile(c.Request.Context(), &draft); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": draft})
}

// --- Job catalog ---

func (s *Server) handleListJobs(c *gin.Context) {
	filter := models.ListingFilter{
		Domain:       c.Query("domain"),
		LocationType: c.Query("location_type"),
		Limit:        queryInt(c, "limit", 50),
		Offset:       queryInt(c, "offset", 0),
	}

	listings, err := s.catalog.Listings(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "jobs": listings})
}

func (s *Server) handleGetJob(c *gin.Context) {
	listing, err := s.catalog.Listing(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "job": listing})
}

func (s *Server) handleCreateJob(c *gin.Context) {
	var req models.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	listing, err := s.catalog.CreateListing(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "job": listing})
}

func (s *Server) handleDeactivateJob(c *gin.Context) {
	if err := s.catalog.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Optimized resumes ---

func (s *Server) handleOptimizeResume(c *gin.Context) {
	var req models.OptimizeResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	resume, err := s.optimizer.OptimizeForJob(c.Request.Context(), auth.UserId(c), auth.Token(c), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "resume": resume})
}

func (s *Server) handleListResumes(c *gin.Context) {
	resumes, err := s.optimizer.Resumes(c.Request.Context(), auth.UserId(c),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "resumes": resumes})
}

func (s *Server) handleGetResume(c *gin.Context) {
	resume, err := s.optimizer.Resume(c.Request.Context(), auth.UserId(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "resume": resume})
}

// --- Applications ---

func (s *Server) handleManualApply(c *gin.Context) {
	var req models.ManualApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	entry, err := s.workflow.SubmitManual(c.Request.Context(), auth.UserId(c), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "application": entry})
}

func (s *Server) handleAutoApply(c *gin.Context) {
	var req models.AutoApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := s.workflow.SubmitAuto(c.Request.Context(), auth.UserId(c), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !result.Success {
		// Execution failed after the attempt was accepted; the body carries
		// the fallback link so the caller still has a path forward.
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListApplications(c *gin.Context) {
	entries, err := s.workflow.Applications(c.Request.Context(), auth.UserId(c),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "applications": entries})
}

func (s *Server) handleGetApplication(c *gin.Context) {
	entry, err := s.workflow.Application(c.Request.Context(), auth.UserId(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": entry})
}

// --- Wallet ---

func (s *Server) handleWalletBalance(c *gin.Context) {
	balance, err := s.wallet.Balance(c.Request.Context(), auth.UserId(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "balance": balance.String()})
}

func (s *Server) handleWalletTransactions(c *gin.Context) {
	transactions, err := s.wallet.Transactions(c.Request.Context(), auth.UserId(c),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactions": transactions})
}

func (s *Server) handleRequestRedemption(c *gin.Context) {
	var req models.RedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	hold, err := s.wallet.RequestRedemption(c.Request.Context(), auth.UserId(c), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "redemption": hold})
}

// --- Admin ledger intake ---

type referralCreditRequest struct {
	UserId          string `json:"user_id" binding:"required"`
	Amount          string `json:"amount" binding:"required"`
	SourceUserId    string `json:"source_user_id"`
	ExternalEventId string `json:"external_event_id"`
}

func (s *Server) handleCreditReferral(c *gin.Context) {
	var req referralCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amount must be a positive number"})
		return
	}

	credit, err := s.wallet.CreditReferral(c.Request.Context(), store.ReferralCreditParams{
		UserId:          req.UserId,
		Amount:          amount,
		SourceUserId:    req.SourceUserId,
		ExternalEventId: req.ExternalEventId,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "transaction": credit})
}

type settleRedemptionRequest struct {
	Success *bool `json:"success" binding:"required"`
}

func (s *Server) handleSettleRedemption(c *gin.Context) {
	var req settleRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := s.wallet.SettleRedemption(c.Request.Context(), c.Param("id"), *req.Success); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type adjustmentRequest struct {
	UserId string `json:"user_id" binding:"required"`
	Amount string `json:"amount" binding:"required"`
	Note   string `json:"note"`
}

func (s *Server) handleRecordAdjustment(c *gin.Context) {
	var req adjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amount must be a non-zero number"})
		return
	}

	adjustment, err := s.wallet.RecordAdjustment(c.Request.Context(), store.AdjustmentParams{
		UserId: req.UserId,
		Amount: amount,
		Note:   req.Note,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "transaction": adjustment})
}

// respondError maps domain errors onto HTTP statuses. Validation failures
// carry per-field messages.
func (s *Server) respondError(c *gin.Context, err error) {
	var fieldErrs models.ValidationErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"fields":  fieldErrs,
		})
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, store.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, store.ErrProfileIncomplete),
		errors.Is(err, store.ErrBelowMinimum),
		errors.Is(err, store.ErrInsufficientBalance),
		errors.Is(err, store.ErrInvalidDetails):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, store.ErrDuplicateTransaction):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, store.ErrOptimizationFailed),
		errors.Is(err, store.ErrSettlementUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
	default:
		zap.L().Error("Unhandled request error",
			zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

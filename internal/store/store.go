package store

import (
	"context"
	"errors"
	"time"

	"jobpilot-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across the service layer. Precondition failures are
// always detected before any row is written.
var (
	ErrNotFound               = errors.New("entity not found")
	ErrUnauthenticated        = errors.New("no valid session")
	ErrProfileIncomplete      = errors.New("profile incomplete for auto apply")
	ErrBelowMinimum           = errors.New("amount below minimum redemption")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInvalidDetails         = errors.New("invalid redemption details")
	ErrSettlementUnavailable  = errors.New("settlement service unavailable")
	ErrOptimizationFailed     = errors.New("resume optimization failed")
	ErrDuplicateTransaction   = errors.New("duplicate transaction")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// CompleteApplicationParams transitions a pending auto application to its
// terminal status. The update is conditional on the row still being pending,
// so a terminal status is never overwritten.
type CompleteApplicationParams struct {
	LogId         string
	Status        string
	ScreenshotURL string
	ErrorMessage  string
	FallbackURL   string
}

// ReserveRedemptionParams places an atomic redemption hold. The storage layer
// checks sufficiency and inserts the pending debit in one transaction.
type ReserveRedemptionParams struct {
	UserId  string
	Amount  decimal.Decimal // positive request amount; stored negated
	Method  string
	Details *models.RedemptionDetails
}

// ReferralCreditParams records a referral credit originating from an external
// purchase event. ExternalEventId deduplicates redelivered events.
type ReferralCreditParams struct {
	UserId          string
	Amount          decimal.Decimal
	SourceUserId    string
	ExternalEventId string
}

// AdjustmentParams records a signed correction entry in the ledger.
type AdjustmentParams struct {
	UserId string
	Amount decimal.Decimal // signed; negative claws value back
	Note   string
}

// Store defines the persistence contract the services are written against.
type Store interface {
	// --- Users & sessions ---
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, userId, name, email string, isAdmin bool) (*models.User, error)
	CreateSession(ctx context.Context, userId string, lifetime time.Duration) (*models.Session, error)
	GetSessionByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// --- Profiles ---
	GetProfile(ctx context.Context, userId string) (*models.UserProfile, error)
	ReplaceProfile(ctx context.Context, profile *models.UserProfile) error
	IsProfileCompleteForAutoApply(ctx context.Context, userId string) (bool, error)
	GetProfileSnapshot(ctx context.Context, userId string) (*models.ProfileSnapshot, error)

	// --- Job catalog ---
	InsertJobListing(ctx context.Context, listing *models.JobListing) error
	GetJobListing(ctx context.Context, jobId string) (*models.JobListing, error)
	ListJobListings(ctx context.Context, filter models.ListingFilter) ([]models.JobListing, error)
	DeactivateJobListing(ctx context.Context, jobId string) error

	// --- Optimized resumes ---
	InsertOptimizedResume(ctx context.Context, resume *models.OptimizedResume) error
	GetOptimizedResume(ctx context.Context, resumeId string) (*models.OptimizedResume, error)
	ListOptimizedResumes(ctx context.Context, userId string, limit, offset int) ([]models.OptimizedResume, error)

	// --- Application log ---
	InsertApplicationLog(ctx context.Context, entry *models.ApplicationLog) error
	GetApplicationLog(ctx context.Context, logId string) (*models.ApplicationLog, error)
	ListApplicationLogs(ctx context.Context, userId string, limit, offset int) ([]models.ApplicationLog, error)
	CompleteApplicationLog(ctx context.Context, params CompleteApplicationParams) error

	// --- Wallet ledger ---
	GetWalletBalance(ctx context.Context, userId string) (decimal.Decimal, error)
	ListWalletTransactions(ctx context.Context, userId string, limit, offset int) ([]models.WalletTransaction, error)
	ReserveRedemption(ctx context.Context, params ReserveRedemptionParams) (*models.WalletTransaction, error)
	ReleaseRedemption(ctx context.Context, transactionId string) error
	SettleRedemption(ctx context.Context, transactionId string, success bool) error
	CreditReferral(ctx context.Context, params ReferralCreditParams) (*models.WalletTransaction, error)
	RecordAdjustment(ctx context.Context, params AdjustmentParams) (*models.WalletTransaction, error)
	ReconcileWallet(ctx context.Context, userId string) error

	// --- Lifecycle ---
	Close()
}

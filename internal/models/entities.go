package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Application log modes
const (
	ApplicationModeManual = "manual"
	ApplicationModeAuto   = "auto"
)

// Application log statuses. Auto applications start pending and reach exactly
// one terminal status; manual applications are submitted on creation.
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusSubmitted = "submitted"
	ApplicationStatusFailed    = "failed"
)

// Wallet transaction types
const (
	TransactionTypeReferral   = "referral"
	TransactionTypeRedemption = "redemption"
	TransactionTypeAdjustment = "adjustment"
)

// Wallet transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Redemption methods
const (
	RedemptionMethodUPI          = "upi"
	RedemptionMethodBankTransfer = "bank_transfer"
)

// Job listing location types
const (
	LocationTypeRemote = "Remote"
	LocationTypeOnsite = "Onsite"
	LocationTypeHybrid = "Hybrid"
)

// Job listing package types
const (
	PackageTypeCTC     = "CTC"
	PackageTypeStipend = "stipend"
	PackageTypeHourly  = "hourly"
)

// User represents an account in the system
type User struct {
	Id        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	IsAdmin   bool      `db:"is_admin" json:"is_admin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Session is an authenticated bearer-token session
type Session struct {
	Token     string    `db:"token" json:"-"`
	UserId    string    `db:"user_id" json:"user_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// JobListing represents a catalog entry. Deactivated listings stay in the
// table but are excluded from catalog reads.
type JobListing struct {
	Id                 string          `db:"id" json:"id"`
	CompanyName        string          `db:"company_name" json:"company_name"`
	CompanyLogoURL     string          `db:"company_logo_url" json:"company_logo_url,omitempty"`
	RoleTitle          string          `db:"role_title" json:"role_title"`
	PackageAmount      decimal.Decimal `db:"package_amount" json:"package_amount"`
	PackageType        string          `db:"package_type" json:"package_type,omitempty"`
	Domain             string          `db:"domain" json:"domain"`
	LocationType       string          `db:"location_type" json:"location_type"`
	City               string          `db:"city" json:"city,omitempty"`
	ExperienceRequired string          `db:"experience_required" json:"experience_required"`
	Qualification      string          `db:"qualification" json:"qualification"`
	ShortDescription   string          `db:"short_description" json:"short_description"`
	FullDescription    string          `db:"full_description" json:"full_description"`
	ApplicationLink    string          `db:"application_link" json:"application_link"`
	PostedDate         time.Time       `db:"posted_date" json:"posted_date"`
	SourceAPI          string          `db:"source_api" json:"source_api"`
	IsActive           bool            `db:"is_active" json:"is_active"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}

// OptimizedResume is an immutable artifact produced by the optimization
// gateway for a (user, job) pair. A user may hold many per job.
type OptimizedResume struct {
	Id        string    `db:"id" json:"id"`
	UserId    string    `db:"user_id" json:"user_id"`
	JobId     string    `db:"job_id" json:"job_id"`
	Content   string    `db:"content" json:"content"`
	PdfURL    string    `db:"pdf_url" json:"pdf_url"`
	DocxURL   string    `db:"docx_url" json:"docx_url"`
	Score     int       `db:"score" json:"score"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ApplicationLog is an append-only record of one application attempt.
// Auto rows carry the profile snapshot that was used to fill the external
// form, captured once at submission time.
type ApplicationLog struct {
	Id            string           `db:"id" json:"id"`
	UserId        string           `db:"user_id" json:"user_id"`
	JobId         string           `db:"job_id" json:"job_id"`
	ResumeId      string           `db:"resume_id" json:"resume_id"`
	Mode          string           `db:"mode" json:"mode"`
	Status        string           `db:"status" json:"status"`
	RedirectURL   string           `db:"redirect_url" json:"redirect_url,omitempty"`
	ScreenshotURL string           `db:"screenshot_url" json:"screenshot_url,omitempty"`
	ErrorMessage  string           `db:"error_message" json:"error_message,omitempty"`
	FallbackURL   string           `db:"fallback_url" json:"fallback_url,omitempty"`
	Snapshot      *ProfileSnapshot `db:"snapshot" json:"snapshot,omitempty"`
	AppliedAt     time.Time        `db:"applied_at" json:"applied_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// Terminal reports whether the log entry has reached a terminal status.
func (l *ApplicationLog) Terminal() bool {
	return l.Status == ApplicationStatusSubmitted || l.Status == ApplicationStatusFailed
}

// WalletTransaction is one row of the append-only wallet ledger. Amounts are
// signed: referral credits positive, redemption debits negative. Balance is
// the sum of completed amounts, never a stored running total.
type WalletTransaction struct {
	Id              string             `db:"id" json:"id"`
	UserId          string             `db:"user_id" json:"user_id"`
	Amount          decimal.Decimal    `db:"amount" json:"amount"`
	Type            string             `db:"type" json:"type"`
	Status          string             `db:"status" json:"status"`
	Method          string             `db:"method" json:"method,omitempty"`
	Details         *RedemptionDetails `db:"details" json:"details,omitempty"`
	SourceUserId    string             `db:"source_user_id" json:"source_user_id,omitempty"`
	ExternalEventId string             `db:"external_event_id" json:"external_event_id,omitempty"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

// RedemptionDetails carries the method-specific payout fields of a
// redemption request.
type RedemptionDetails struct {
	UpiId         string `json:"upi_id,omitempty"`
	AccountHolder string `json:"account_holder,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	IfscCode      string `json:"ifsc_code,omitempty"`
}

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

const (
	// User queries
	queryGetUsers = `
		SELECT id, name, email, is_admin, created_at, updated_at
		FROM users
		ORDER BY created_at`

	queryInsertUser = `
		INSERT OR IGNORE INTO users (id, name, email, is_admin) VALUES (?, ?, ?, ?)`

	queryGetUserById = `
		SELECT id, name, email, is_admin, created_at, updated_at
		FROM users
		WHERE id = ?`

	queryGetUserByEmail = `
		SELECT id, name, email, is_admin, created_at, updated_at
		FROM users
		WHERE email = ?`

	// Session queries
	queryInsertSession = `
		INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`

	queryGetSessionByToken = `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = ?`

	queryDeleteSession = `
		DELETE FROM sessions WHERE token = ?`

	// Profile queries
	queryGetProfile = `
		SELECT document, updated_at
		FROM profiles
		WHERE user_id = ?`

	queryUpsertProfile = `
		INSERT INTO profiles (user_id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`

	// Job catalog queries
	queryInsertJobListing = `
		INSERT INTO job_listings (
			id, company_name, company_logo_url, role_title, package_amount, package_type,
			domain, location_type, city, experience_required, qualification,
			short_description, full_description, application_link, posted_date,
			source_api, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetJobListing = `
		SELECT id, company_name, company_logo_url, role_title, package_amount, package_type,
		       domain, location_type, city, experience_required, qualification,
		       short_description, full_description, application_link, posted_date,
		       source_api, is_active, created_at
		FROM job_listings
		WHERE id = ?`

	queryListJobListings = `
		SELECT id, company_name, company_logo_url, role_title, package_amount, package_type,
		       domain, location_type, city, experience_required, qualification,
		       short_description, full_description, application_link, posted_date,
		       source_api, is_active, created_at
		FROM job_listings
		WHERE is_active = 1
		  AND (? = '' OR domain = ?)
		  AND (? = '' OR location_type = ?)
		ORDER BY posted_date DESC
		LIMIT ? OFFSET ?`

	queryDeactivateJobListing = `
		UPDATE job_listings SET is_active = 0 WHERE id = ? AND is_active = 1`

	// Optimized resume queries
	queryInsertOptimizedResume = `
		INSERT INTO optimized_resumes (id, user_id, job_id, content, pdf_url, docx_url, score)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetOptimizedResume = `
		SELECT id, user_id, job_id, content, pdf_url, docx_url, score, created_at
		FROM optimized_resumes
		WHERE id = ?`

	queryListOptimizedResumes = `
		SELECT id, user_id, job_id, content, pdf_url, docx_url, score, created_at
		FROM optimized_resumes
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	// Application log queries
	queryInsertApplicationLog = `
		INSERT INTO application_logs (
			id, user_id, job_id, resume_id, mode, status, redirect_url,
			screenshot_url, error_message, fallback_url, snapshot, applied_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetApplicationLog = `
		SELECT id, user_id, job_id, resume_id, mode, status, redirect_url,
		       screenshot_url, error_message, fallback_url, snapshot, applied_at, updated_at
		FROM application_logs
		WHERE id = ?`

	queryListApplicationLogs = `
		SELECT id, user_id, job_id, resume_id, mode, status, redirect_url,
		       screenshot_url, error_message, fallback_url, snapshot, applied_at, updated_at
		FROM application_logs
		WHERE user_id = ?
		ORDER BY applied_at DESC
		LIMIT ? OFFSET ?`

	// Conditional on pending status so terminal states are never overwritten.
	queryCompleteApplicationLog = `
		UPDATE application_logs
		SET status = ?, screenshot_url = ?, error_message = ?, fallback_url = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`

	// Wallet queries. Amounts are summed in Go with exact decimal arithmetic;
	// SQLite SUM over the TEXT amount column would coerce to floating point.
	queryWalletCompletedAmounts = `
		SELECT amount
		FROM wallet_transactions
		WHERE user_id = ? AND status = 'completed'`

	// Available balance inside a reservation: completed credits minus
	// outstanding pending redemption holds (hold amounts are negative).
	queryWalletAvailableAmounts = `
		SELECT amount
		FROM wallet_transactions
		WHERE user_id = ?
		  AND (status = 'completed' OR (status = 'pending' AND type = 'redemption'))`

	queryListWalletTransactions = `
		SELECT id, user_id, amount, type, status, method, details,
		       source_user_id, external_event_id, created_at, updated_at
		FROM wallet_transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`

	queryInsertWalletTransaction = `
		INSERT INTO wallet_transactions (
			id, user_id, amount, type, status, method, details,
			source_user_id, external_event_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryReleaseRedemption = `
		UPDATE wallet_transactions
		SET status = 'failed', updated_at = ?
		WHERE id = ? AND status = 'pending' AND type = 'redemption'`

	querySettleRedemption = `
		UPDATE wallet_transactions
		SET status = ?, updated_at = ?
		WHERE id = ? AND status = 'pending' AND type = 'redemption'`

	queryCheckDuplicateEvent = `
		SELECT id FROM wallet_transactions WHERE external_event_id = ? LIMIT 1`
)

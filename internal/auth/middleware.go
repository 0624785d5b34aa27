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

package auth

import (
	"net/http"
	"strings"

	"jobpilot-go/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by the middleware.
const (
	ContextUserId  = "userId"
	ContextIsAdmin = "isAdmin"
	ContextToken   = "authToken"
)

// Middleware resolves the bearer token to a session and puts the user id in
// the request context. Requests without a valid session are rejected.
func Middleware(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing bearer token"})
			return
		}

		session, err := db.GetSessionByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired session"})
			return
		}

		user, err := db.GetUserById(c.Request.Context(), session.UserId)
		if err != nil {
			zap.L().Error("Session references missing user",
				zap.String("user_id", session.UserId), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired session"})
			return
		}

		c.Set(ContextUserId, user.Id)
		c.Set(ContextIsAdmin, user.IsAdmin)
		c.Set(ContextToken, token)
		c.Next()
	}
}

// RequireAdmin gates a route group to admin users. Must run after Middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "admin access required"})
			return
		}
		c.Next()
	}
}

// UserId returns the authenticated user id set by Middleware.
func UserId(c *gin.Context) string {
	return c.GetString(ContextUserId)
}

// Token returns the caller's bearer token set by Middleware, for passthrough
// to downstream collaborators.
func Token(c *gin.Context) string {
	return c.GetString(ContextToken)
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

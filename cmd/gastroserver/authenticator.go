// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package main

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gastrocatalogo/gastro-server/pkg/auth"
	"github.com/gastrocatalogo/gastro-server/pkg/conf"
)

// dashboard sessions are shorter than owner sessions
const adminTokenTTL = time.Hour

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// validateCredentials checks if the provided username and password match
// any of the configured admin accounts
func validateCredentials(username, password string, config *conf.Config) bool {
	if storedPassword, exists := config.JWT.Admin[username]; exists && storedPassword != "" {
		return subtle.ConstantTimeCompare([]byte(storedPassword), []byte(password)) == 1
	}
	return false
}

// Login creates a login handler for dashboard admins, using the provided configuration
func Login(config *conf.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		err := json.NewDecoder(r.Body).Decode(&creds)
		if err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		// Check credentials using configured admin accounts
		if !validateCredentials(creds.Username, creds.Password, config) {
			log.Warnf("Connection attempt failed for user: %s", creds.Username)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		log.Infof("Admin logged in: %s", creds.Username)

		tokenString, expirationTime, err := auth.IssueToken(config.JWT.SecretKey, creds.Username, "", auth.RoleAdmin, adminTokenTTL)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "token",
			Value:    tokenString,
			Path:     "/",
			Expires:  expirationTime,
			HttpOnly: true,
			Secure:   strings.HasPrefix(config.PublicBaseUrl, "https://"),
			SameSite: http.SameSiteStrictMode,
		})

		// Also return the token and user information as JSON
		response := map[string]interface{}{
			"token":      tokenString,
			"expires_at": expirationTime,
			"user": map[string]interface{}{
				"name": creds.Username,
				"role": auth.RoleAdmin,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

// Package auth issues and checks the JWT tokens of owners and admins.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// Claims of a Gastro token. The subject is the owner uuid or the admin username.
type Claims struct {
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

// IssueToken returns a signed token and its expiration time.
func IssueToken(secret, subject, phone, role string, ttl time.Duration) (string, time.Time, error) {
	expirationTime := time.Now().Add(ttl)
	claims := &Claims{
		Phone: phone,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

// ParseToken checks the signature and validity of a token and returns its claims.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}

// FromContext returns the claims set by the middleware, if any.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*Claims)
	return claims, ok
}

// NewContext returns a context carrying the claims.
func NewContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

// tokenFromRequest gets a token from the Authorization header, with a fallback to the token cookie.
func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}

// Middleware creates JWT authentication middleware accepting the given roles.
func Middleware(secret string, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				writeProblem(w, http.StatusUnauthorized, "No authentication token provided", "")
				return
			}

			claims, err := ParseToken(secret, tokenStr)
			if err != nil {
				log.Debugf("JWT parse error: %v", err)

				var errorCode string
				var errorMessage string
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					errorMessage = "Token has expired"
					errorCode = "TOKEN_EXPIRED"
				case errors.Is(err, jwt.ErrSignatureInvalid):
					errorMessage = "Invalid token signature"
				case errors.Is(err, jwt.ErrTokenNotValidYet):
					errorMessage = "Token not valid yet"
				case errors.Is(err, jwt.ErrTokenMalformed):
					errorMessage = "Token is malformed"
				default:
					errorMessage = "Invalid or malformed token"
				}
				writeProblem(w, http.StatusUnauthorized, errorMessage, errorCode)
				return
			}

			if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
				writeProblem(w, http.StatusForbidden, "Insufficient rights", "")
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), claims)))
		})
	}
}

// writeProblem formats an authentication error as a problem detail.
func writeProblem(w http.ResponseWriter, status int, title, code string) {
	response := map[string]interface{}{
		"type":   "about:blank",
		"title":  title,
		"status": status,
	}
	if code != "" {
		response["code"] = code
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package api

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"github.com/gastrocatalogo/gastro-server/pkg/auth"
	"github.com/gastrocatalogo/gastro-server/pkg/otp"
	"github.com/gastrocatalogo/gastro-server/pkg/stor"
)

// RequestPasscode sends a one-time passcode by SMS to the phone number of an owner.
func (a *APICtrl) RequestPasscode(w http.ResponseWriter, r *http.Request) {
	if a.OTP == nil || !a.OTP.SMSEnabled() {
		render.Render(w, r, ErrFeatureDisabled)
		return
	}

	data := &PasscodeRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	challenge, err := a.OTP.Request(r.Context(), data.Phone)
	if err != nil {
		render.Render(w, r, otpError(err))
		return
	}

	render.Status(r, http.StatusAccepted)
	render.Render(w, r, &ChallengeResponse{Challenge: challenge})
}

// VerifyPasscode checks a passcode and logs the owner in.
func (a *APICtrl) VerifyPasscode(w http.ResponseWriter, r *http.Request) {
	if a.OTP == nil || !a.OTP.SMSEnabled() {
		render.Render(w, r, ErrFeatureDisabled)
		return
	}

	data := &VerifyRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	owner, err := a.OTP.Verify(r.Context(), data.Phone, data.Code)
	if err != nil {
		render.Render(w, r, otpError(err))
		return
	}
	a.renderLogin(w, r, owner, stor.EventLoginOTP)
}

// FirebaseLogin logs an owner in with a Firebase ID token, the phone number being verified by the client.
func (a *APICtrl) FirebaseLogin(w http.ResponseWriter, r *http.Request) {
	if a.OTP == nil || !a.OTP.IdentityEnabled() {
		render.Render(w, r, ErrFeatureDisabled)
		return
	}

	data := &IdentityRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	owner, err := a.OTP.LoginWithIdentity(r.Context(), data.IDToken)
	if err != nil {
		if errors.Is(err, otp.ErrInvalidPhone) {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}
		render.Render(w, r, ErrUnauthorized(err))
		return
	}
	a.renderLogin(w, r, owner, stor.EventLoginFirebase)
}

// renderLogin records the login, then issues the token of an owner, as a cookie and in the response body.
func (a *APICtrl) renderLogin(w http.ResponseWriter, r *http.Request, owner *stor.Owner, eventType string) {
	event := &stor.Event{
		Timestamp: time.Now(),
		Type:      eventType,
		UserAgent: r.UserAgent(),
		RemoteIP:  remoteIP(r),
		OwnerID:   owner.UUID,
	}
	if err := a.Store.Event().Create(event); err != nil {
		// the login is not refused
		log.Errorf("Failed to record the login of %s: %v", owner.UUID, err)
	}

	token, expiresAt, err := auth.IssueToken(a.Config.JWT.SecretKey, owner.UUID, owner.Phone, auth.RoleOwner, a.Config.JWT.TTL)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   strings.HasPrefix(a.Config.PublicBaseUrl, "https://"),
		SameSite: http.SameSiteStrictMode,
	})

	render.Render(w, r, &LoginResponse{Token: token, ExpiresAt: expiresAt, Owner: owner})
}

// remoteIP returns the client address, without port
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// otpError maps passcode errors to http errors.
func otpError(err error) render.Renderer {
	switch {
	case errors.Is(err, otp.ErrInvalidPhone):
		return ErrInvalidRequest(err)
	case errors.Is(err, otp.ErrRateLimited), errors.Is(err, otp.ErrTooManyAttempts):
		return ErrTooManyRequests(err)
	case errors.Is(err, otp.ErrNoPendingCode), errors.Is(err, otp.ErrCodeExpired), errors.Is(err, otp.ErrCodeMismatch):
		return ErrUnauthorized(err)
	case errors.Is(err, otp.ErrSMSDisabled), errors.Is(err, otp.ErrIdentityDisabled):
		return ErrFeatureDisabled
	case errors.Is(err, otp.ErrSendFailed):
		return ErrUpstream(err)
	default:
		return ErrServer(err)
	}
}

// --
// Request and Response payloads for the REST api.
// --

// PasscodeRequest is the payload of a passcode request.
type PasscodeRequest struct {
	Phone string `json:"phone"`
}

// Bind post-processes requests after unmarshalling.
func (p *PasscodeRequest) Bind(r *http.Request) error {
	if strings.TrimSpace(p.Phone) == "" {
		return errors.New("missing required phone number")
	}
	return nil
}

// VerifyRequest is the payload of a passcode verification.
type VerifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// Bind post-processes requests after unmarshalling.
func (v *VerifyRequest) Bind(r *http.Request) error {
	if strings.TrimSpace(v.Phone) == "" || strings.TrimSpace(v.Code) == "" {
		return errors.New("missing required phone number or passcode")
	}
	return nil
}

// IdentityRequest is the payload of a login with an identity token.
type IdentityRequest struct {
	IDToken string `json:"id_token"`
}

// Bind post-processes requests after unmarshalling.
func (i *IdentityRequest) Bind(r *http.Request) error {
	if i.IDToken == "" {
		return errors.New("missing required id_token")
	}
	return nil
}

// ChallengeResponse is returned when a passcode has been sent.
type ChallengeResponse struct {
	*otp.Challenge
}

// Render processes responses before marshalling.
func (c *ChallengeResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Owner     *stor.Owner `json:"owner"`
}

// Render processes responses before marshalling.
func (l *LoginResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
